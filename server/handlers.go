package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/freakgen/freakgen"
	"github.com/freakgen/freakgen/dispatch"
	"github.com/freakgen/freakgen/library"
	"github.com/freakgen/freakgen/render"
	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 32 << 20

type (
	// State is the answer of the session endpoints.
	State struct {
		Patch   *freakgen.Patch  `json:"patch,omitempty"`
		Cards   []render.Card    `json:"cards,omitempty"`
		Locks   freakgen.LockSet `json:"locks"`
		Undo    int              `json:"undo"`
		Redo    int              `json:"redo"`
		Warning string           `json:"warning,omitempty"`
	}

	// GenerateRequest is the body of POST /api/generate. Empty fields take
	// their defaults.
	GenerateRequest struct {
		Style     freakgen.Style     `json:"style"`
		Intensity freakgen.Intensity `json:"intensity"`
		Engine    string             `json:"engine"`
	}

	// SaveRequest is the body of POST /api/presets.
	SaveRequest struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	// Entry is a preset as listed by the gallery.
	Entry struct {
		library.Preset
		File string `json:"file"`
	}

	// Gallery is the answer of GET /api/presets.
	Gallery struct {
		Presets []Entry       `json:"presets"`
		Stats   library.Stats `json:"stats"`
		Skipped int           `json:"skipped"`
	}

	// PushResult is the answer of POST /api/patch/push.
	PushResult struct {
		Sent   int                    `json:"sent"`
		Manual []dispatch.Instruction `json:"manual"`
	}
)

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// stateOf builds the answer around p, the patch the handler acted on, so a
// concurrent request cannot swap it for its own.
func (s *Server) stateOf(p *freakgen.Patch, warning error) State {
	st := State{Locks: s.session.Locks()}
	st.Undo, st.Redo = s.session.History()
	if p != nil {
		st.Patch = p
		st.Cards = render.Cards(*p, st.Locks)
	}
	if warning != nil {
		st.Warning = warning.Error()
	}
	return st
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, "invalid generate request: "+err.Error(), http.StatusBadRequest)
		return
	}
	p, err := s.session.Generate(req.Style, req.Intensity, req.Engine)
	s.writeJSON(w, http.StatusOK, s.stateOf(&p, err))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	p, ok := s.session.Undo()
	if !ok {
		s.writeError(w, "nothing to undo", http.StatusConflict)
		return
	}
	s.writeJSON(w, http.StatusOK, s.stateOf(&p, nil))
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	p, ok := s.session.Redo()
	if !ok {
		s.writeError(w, "nothing to redo", http.StatusConflict)
		return
	}
	s.writeJSON(w, http.StatusOK, s.stateOf(&p, nil))
}

func (s *Server) handleLocks(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.Locks())
}

func (s *Server) handleToggleLock(w http.ResponseWriter, r *http.Request) {
	m, err := freakgen.ParseModule(chi.URLParam(r, "module"))
	if err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, s.session.ToggleLock(m))
}

// current writes 404 and returns false when nothing has been generated.
func (s *Server) current(w http.ResponseWriter) (freakgen.Patch, bool) {
	p, ok := s.session.Current()
	if !ok {
		s.writeError(w, "no patch generated yet", http.StatusNotFound)
	}
	return p, ok
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	p, ok := s.current(w)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.stateOf(&p, nil))
}

func (s *Server) handlePatchText(w http.ResponseWriter, r *http.Request) {
	p, ok := s.current(w)
	if !ok {
		return
	}
	format := render.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = render.Text
	}
	var buf bytes.Buffer
	if err := s.renderer.Patch(&buf, p, s.session.Locks(), format); err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	p, ok := s.current(w)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, dispatch.NewPlan(p))
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	p, ok := s.current(w)
	if !ok {
		return
	}
	plan := dispatch.NewPlan(p)
	sent, err := s.sender.Push(plan)
	if err != nil {
		s.dispatchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PushResult{Sent: sent, Manual: plan.Manual})
}

func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		s.writeError(w, "invalid preset number", http.StatusBadRequest)
		return
	}
	preset, err := s.sender.ProgramChange(n)
	if err != nil {
		s.dispatchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"preset": preset})
}

func (s *Server) dispatchError(w http.ResponseWriter, err error) {
	if errors.Is(err, freakgen.ErrNoOutput) {
		s.writeError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.logger.Error("MIDI send failed", slog.Any("error", err))
	s.writeError(w, err.Error(), http.StatusBadGateway)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	p, ok := s.current(w)
	if !ok {
		return
	}
	now := s.clock()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+library.ExportName(p, now)+`"`)
	if err := library.WriteExport(w, p, now, s.config.AppVersion); err != nil {
		s.logger.Error("export failed", slog.Any("error", err))
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := library.ReadExport(data)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.session.Load(p)
	s.writeJSON(w, http.StatusOK, s.stateOf(&p, nil))
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	sort, err := library.ParseSortOrder(v.Get("sort"))
	if err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	q := library.Query{
		Search:        v.Get("search"),
		Style:         freakgen.Style(v.Get("style")),
		Engine:        v.Get("engine"),
		Intensity:     freakgen.Intensity(v.Get("intensity")),
		FavoritesOnly: v.Get("favorites") == "true",
		Sort:          sort,
	}
	all, skipped, err := s.library.Load()
	if err != nil {
		s.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	g := Gallery{Presets: []Entry{}, Stats: library.Summarize(all), Skipped: skipped}
	for _, p := range q.Apply(all) {
		g.Presets = append(g.Presets, Entry{Preset: p, File: p.Filename})
	}
	s.writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	p, ok := s.current(w)
	if !ok {
		return
	}
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "invalid save request: "+err.Error(), http.StatusBadRequest)
		return
	}
	preset, err := s.library.Save(req.Name, req.Description, p)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusCreated, Entry{Preset: preset, File: preset.Filename})
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.library.Get(chi.URLParam(r, "file"))
	if err != nil {
		s.libraryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, Entry{Preset: p, File: p.Filename})
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Delete(chi.URLParam(r, "file")); err != nil {
		s.libraryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoadPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.library.Get(chi.URLParam(r, "file"))
	if err != nil {
		s.libraryError(w, err)
		return
	}
	s.session.Load(p.Patch)
	s.writeJSON(w, http.StatusOK, s.stateOf(&p.Patch, nil))
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	p, err := s.library.ToggleFavorite(chi.URLParam(r, "file"))
	if err != nil {
		s.libraryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, Entry{Preset: p, File: p.Filename})
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	n, err := s.library.Backup(&buf)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="FreakGEN_Library_`+s.clock().Format("2006-01-02")+`.zip"`)
	w.Header().Set("X-Preset-Count", strconv.Itoa(n))
	w.Write(buf.Bytes())
}

func (s *Server) libraryError(w http.ResponseWriter, err error) {
	if errors.Is(err, freakgen.ErrPresetNotFound) {
		s.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.logger.Error("library error", slog.Any("error", err))
	s.writeError(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("could not encode response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
