// Package server exposes the cached triage over a small JSON HTTP API
// for the dashboard frontend.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

// Server serves triage results over HTTP
type Server struct {
	service *core.TriageService
	logger  *zap.Logger
	httpSrv *http.Server
}

// New creates a new triage HTTP server
func New(service *core.TriageService, logger *zap.Logger, listenAddress string) *Server {
	s := &Server{
		service: service,
		logger:  logger,
	}
	s.httpSrv = &http.Server{
		Addr:    listenAddress,
		Handler: s.Router(),
	}
	return s
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/triage/{window}", s.handleGetWindow)
	r.Post("/api/triage/refresh", s.handleRefresh)
	r.Post("/api/triage/refresh/today", s.handleRefreshToday)

	return r
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("address", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleGetWindow(w http.ResponseWriter, r *http.Request) {
	window := core.Window(chi.URLParam(r, "window"))
	if !validWindow(window) {
		s.writeError(w, http.StatusNotFound, "unknown window: "+string(window))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"window": window,
		"emails": s.service.Emails(window),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RunFullCycle(r.Context()); err != nil {
		s.writeCycleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.allWindows())
}

func (s *Server) handleRefreshToday(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RefreshToday(r.Context()); err != nil {
		s.writeCycleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"window": core.WindowToday,
		"emails": s.service.Emails(core.WindowToday),
	})
}

// allWindows snapshots every cached window for a full-cycle response
func (s *Server) allWindows() map[string]interface{} {
	windows := make(map[string]interface{}, len(core.Windows))
	for _, window := range core.Windows {
		windows[string(window)] = s.service.Emails(window)
	}
	return windows
}

// writeCycleError converts a failed cycle into a single user-facing
// message. Previously cached windows are untouched by a failed cycle, so
// the client can keep rendering them.
func (s *Server) writeCycleError(w http.ResponseWriter, err error) {
	var configErr *core.ConfigurationError
	var fetchErr *core.FetchError
	var classifyErr *core.ClassificationError

	switch {
	case errors.As(err, &configErr):
		s.writeError(w, http.StatusInternalServerError, configErr.Error())
	case errors.As(err, &fetchErr), errors.As(err, &classifyErr):
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.logger.Warn("Request failed", zap.Int("status", status), zap.String("error", message))
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func validWindow(window core.Window) bool {
	for _, w := range core.Windows {
		if w == window {
			return true
		}
	}
	return false
}
