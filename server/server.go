// Package server exposes a generation session, the preset library and the
// MIDI dispatch over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/freakgen/freakgen/dispatch"
	"github.com/freakgen/freakgen/library"
	"github.com/freakgen/freakgen/render"
	"github.com/freakgen/freakgen/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds server configuration
type Config struct {
	Addr       string
	AppVersion string
}

// Server is the HTTP server
type Server struct {
	config   Config
	router   *chi.Mux
	logger   *slog.Logger
	session  *session.Session
	library  *library.Library
	sender   *dispatch.Sender
	renderer *render.Renderer
	clock    func() time.Time
}

// New creates a new server. sender may be nil, in which case the dispatch
// endpoints answer 503.
func New(cfg Config, sess *session.Session, lib *library.Library, sender *dispatch.Sender, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if sender == nil {
		sender = dispatch.NewSender(nil, 1, logger)
	}
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	s := &Server{
		config:   cfg,
		router:   chi.NewRouter(),
		logger:   logger,
		session:  sess,
		library:  lib,
		sender:   sender,
		renderer: renderer,
		clock:    time.Now,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)
		r.Get("/locks", s.handleLocks)
		r.Post("/locks/{module}", s.handleToggleLock)

		r.Get("/patch", s.handlePatch)
		r.Get("/patch/text", s.handlePatchText)
		r.Get("/patch/plan", s.handlePlan)
		r.Post("/patch/push", s.handlePush)
		r.Get("/patch/export", s.handleExport)
		r.Post("/patch/import", s.handleImport)
		r.Post("/program/{number}", s.handleProgram)

		r.Get("/presets", s.handleListPresets)
		r.Post("/presets", s.handleSavePreset)
		r.Get("/presets/backup", s.handleBackup)
		r.Get("/presets/{file}", s.handleGetPreset)
		r.Delete("/presets/{file}", s.handleDeletePreset)
		r.Post("/presets/{file}/load", s.handleLoadPreset)
		r.Post("/presets/{file}/favorite", s.handleFavorite)
	})
}

// ServeHTTP lets the server be used as a handler directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	s.logger.Info("server starting", slog.String("addr", s.config.Addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	<-done
	return nil
}
