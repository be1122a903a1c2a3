package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/freakgen/freakgen"
	"github.com/freakgen/freakgen/dispatch"
	"github.com/freakgen/freakgen/generate"
	"github.com/freakgen/freakgen/library"
	"github.com/freakgen/freakgen/server"
	"github.com/freakgen/freakgen/session"
)

type fixture struct {
	t       *testing.T
	srv     *httptest.Server
	virtual *dispatch.Virtual
}

func newFixture(t *testing.T, withOutput bool) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lib, err := library.Open(t.TempDir(), library.JSON, logger)
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{t: t}
	var sender *dispatch.Sender
	if withOutput {
		f.virtual = &dispatch.Virtual{Logger: logger}
		sender = dispatch.NewSender(f.virtual, 1, logger)
	}
	s, err := server.New(server.Config{AppVersion: "test"}, session.New(generate.NewRand(7), session.DefaultDepth), lib, sender, logger)
	if err != nil {
		t.Fatal(err)
	}
	f.srv = httptest.NewServer(s)
	t.Cleanup(f.srv.Close)
	return f
}

// do sends a request, checks the status and decodes a JSON answer into out
// when out is not nil.
func (f *fixture) do(method, path, body string, status int, out any) *http.Response {
	f.t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	if err != nil {
		f.t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		f.t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		f.t.Fatal(err)
	}
	if resp.StatusCode != status {
		f.t.Fatalf("%v %v = %v, want %v: %s", method, path, resp.StatusCode, status, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			f.t.Fatalf("%v %v: %v", method, path, err)
		}
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)
	f.do("GET", "/health", "", http.StatusOK, nil)
}

func TestGenerateUndoRedo(t *testing.T) {
	f := newFixture(t, false)
	f.do("GET", "/api/patch", "", http.StatusNotFound, nil)
	f.do("POST", "/api/undo", "", http.StatusConflict, nil)

	var st server.State
	f.do("POST", "/api/generate", `{"style":"bass","intensity":"high"}`, http.StatusOK, &st)
	if st.Patch == nil || st.Patch.RealStyle != freakgen.StyleBass || len(st.Cards) != len(freakgen.Modules) {
		t.Fatalf("unexpected state %+v", st)
	}
	firstType := st.Patch.Osc.Value("Type")
	st = server.State{}
	f.do("POST", "/api/generate", "", http.StatusOK, &st)
	if st.Undo != 1 || st.Redo != 0 {
		t.Errorf("history = %v/%v, want 1/0", st.Undo, st.Redo)
	}
	st = server.State{}
	f.do("POST", "/api/undo", "", http.StatusOK, &st)
	if st.Patch.Osc.Value("Type") != firstType || st.Redo != 1 {
		t.Errorf("undo did not restore the first patch: %+v", st)
	}
	f.do("POST", "/api/redo", "", http.StatusOK, &st)
	f.do("POST", "/api/redo", "", http.StatusConflict, nil)
}

func TestConcurrentGenerateAnswersOwnPatch(t *testing.T) {
	f := newFixture(t, false)
	const n = 20
	bodies := make([]string, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(f.srv.URL+"/api/generate", "application/json", strings.NewReader(`{"intensity":"extreme"}`))
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			var st server.State
			if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
				errs <- err
				return
			}
			data, err := json.Marshal(st.Patch)
			if err != nil {
				errs <- err
				return
			}
			bodies[i] = string(data)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, b := range bodies {
		if seen[b] {
			t.Fatalf("two generate requests answered the same patch: %s", b)
		}
		seen[b] = true
	}
}

func TestGenerateWarning(t *testing.T) {
	f := newFixture(t, false)
	var st server.State
	f.do("POST", "/api/generate", `{"style":"polka"}`, http.StatusOK, &st)
	if st.Warning == "" || st.Patch == nil {
		t.Errorf("invalid style should still generate with a warning: %+v", st)
	}
	f.do("POST", "/api/generate", `{"style":`, http.StatusBadRequest, nil)
}

func TestLocks(t *testing.T) {
	f := newFixture(t, false)
	var locks freakgen.LockSet
	f.do("POST", "/api/locks/osc", "", http.StatusOK, &locks)
	if !locks.Osc {
		t.Error("osc not locked")
	}
	f.do("GET", "/api/locks", "", http.StatusOK, &locks)
	if !locks.Osc || locks.Env {
		t.Errorf("locks = %+v", locks)
	}
	f.do("POST", "/api/locks/drums", "", http.StatusBadRequest, nil)
}

func TestPatchText(t *testing.T) {
	f := newFixture(t, false)
	f.do("POST", "/api/generate", "", http.StatusOK, nil)
	resp := f.do("GET", "/api/patch/text?format=markdown", "", http.StatusOK, nil)
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "## FreakGEN") {
		t.Errorf("unexpected markdown:\n%s", body)
	}
	f.do("GET", "/api/patch/text?format=pdf", "", http.StatusBadRequest, nil)
}

func TestPush(t *testing.T) {
	f := newFixture(t, true)
	f.do("POST", "/api/generate", "", http.StatusOK, nil)
	var plan dispatch.Plan
	f.do("GET", "/api/patch/plan", "", http.StatusOK, &plan)
	var res server.PushResult
	f.do("POST", "/api/patch/push", "", http.StatusOK, &res)
	if res.Sent != len(plan.Controls) || len(f.virtual.Sent()) != res.Sent {
		t.Errorf("sent %v, plan has %v controls, output got %v", res.Sent, len(plan.Controls), len(f.virtual.Sent()))
	}
	var prog map[string]int
	f.do("POST", "/api/program/500", "", http.StatusOK, &prog)
	if prog["preset"] != 384 {
		t.Errorf("program = %v", prog)
	}
	f.do("POST", "/api/program/abc", "", http.StatusBadRequest, nil)
}

func TestPushWithoutOutput(t *testing.T) {
	f := newFixture(t, false)
	f.do("POST", "/api/generate", "", http.StatusOK, nil)
	f.do("POST", "/api/patch/push", "", http.StatusServiceUnavailable, nil)
	f.do("POST", "/api/program/1", "", http.StatusServiceUnavailable, nil)
}

func TestPresets(t *testing.T) {
	f := newFixture(t, false)
	f.do("POST", "/api/presets", `{"name":"x"}`, http.StatusNotFound, nil)
	f.do("POST", "/api/generate", `{"style":"pad"}`, http.StatusOK, nil)

	var saved server.Entry
	f.do("POST", "/api/presets", `{"name":"Warm Pad","description":"slow"}`, http.StatusCreated, &saved)
	if saved.File == "" || saved.Name != "Warm Pad" || saved.Style != freakgen.StylePad {
		t.Fatalf("saved = %+v", saved)
	}

	var g server.Gallery
	f.do("GET", "/api/presets?search=warm", "", http.StatusOK, &g)
	if len(g.Presets) != 1 || g.Stats.Total != 1 || g.Presets[0].File != saved.File {
		t.Fatalf("gallery = %+v", g)
	}
	f.do("GET", "/api/presets?search=cold", "", http.StatusOK, &g)
	if len(g.Presets) != 0 || g.Stats.Total != 1 {
		t.Errorf("filtered gallery = %+v", g)
	}
	f.do("GET", "/api/presets?sort=size", "", http.StatusBadRequest, nil)

	var fav server.Entry
	f.do("POST", "/api/presets/"+saved.File+"/favorite", "", http.StatusOK, &fav)
	if !fav.Favorite {
		t.Error("favorite not set")
	}
	f.do("GET", "/api/presets?favorites=true", "", http.StatusOK, &g)
	if len(g.Presets) != 1 || g.Stats.Favorites != 1 {
		t.Errorf("favorites gallery = %+v", g)
	}

	var st server.State
	f.do("POST", "/api/generate", "", http.StatusOK, nil)
	f.do("POST", "/api/presets/"+saved.File+"/load", "", http.StatusOK, &st)
	if st.Patch == nil || st.Patch.RealStyle != freakgen.StylePad {
		t.Errorf("loaded state = %+v", st)
	}

	resp := f.do("GET", "/api/presets/backup", "", http.StatusOK, nil)
	if resp.Header.Get("X-Preset-Count") != "1" {
		t.Errorf("backup count = %q", resp.Header.Get("X-Preset-Count"))
	}

	f.do("DELETE", "/api/presets/"+saved.File, "", http.StatusNoContent, nil)
	f.do("GET", "/api/presets/"+saved.File, "", http.StatusNotFound, nil)
	f.do("DELETE", "/api/presets/"+saved.File, "", http.StatusNotFound, nil)
}

func TestExportImport(t *testing.T) {
	f := newFixture(t, false)
	var st server.State
	f.do("POST", "/api/generate", `{"style":"lead"}`, http.StatusOK, &st)
	resp := f.do("GET", "/api/patch/export", "", http.StatusOK, nil)
	if !strings.Contains(resp.Header.Get("Content-Disposition"), library.ExportExt) {
		t.Errorf("Content-Disposition = %q", resp.Header.Get("Content-Disposition"))
	}
	exported, _ := io.ReadAll(resp.Body)

	f.do("POST", "/api/generate", `{"style":"bass"}`, http.StatusOK, nil)
	var imported server.State
	f.do("POST", "/api/patch/import", string(exported), http.StatusOK, &imported)
	if imported.Patch.RealStyle != freakgen.StyleLead || imported.Patch.Osc.Value("Type") != st.Patch.Osc.Value("Type") {
		t.Errorf("imported patch differs: %+v", imported.Patch)
	}
	f.do("POST", "/api/patch/import", `{"format":"other"}`, http.StatusBadRequest, nil)
}
