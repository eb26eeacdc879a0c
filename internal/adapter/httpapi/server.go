// Package httpapi exposes the dashboard controller over HTTP: the snapshot
// as JSON, intents as POST endpoints, the assistant as an SSE stream, plus
// health, readiness, and metrics routes.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katyare123/weather-dashboard/internal/app"
	"github.com/katyare123/weather-dashboard/internal/domain"
)

// Server wraps the controller behind a gorilla/mux router with recovery and
// request logging middleware.
type Server struct {
	httpServer *http.Server
	controller *app.Controller
	logger     *slog.Logger
}

// NewServer creates the API server. Routes:
//
//	GET  /api/dashboard  current snapshot
//	POST /api/search     debounced location search
//	POST /api/geolocate  bootstrap from browser coordinates
//	POST /api/location   select a location
//	POST /api/units      switch display units
//	POST /api/day        select the hourly day
//	POST /api/theme      toggle light/dark
//	POST /api/retry      re-fetch the stored location
//	POST /api/chat       assistant reply as an SSE stream
//	GET  /healthz, /readyz, /metrics
func NewServer(addr string, controller *app.Controller, logger *slog.Logger) *Server {
	s := &Server{
		controller: controller,
		logger:     logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodPost)
	api.HandleFunc("/geolocate", s.handleGeolocate).Methods(http.MethodPost)
	api.HandleFunc("/location", s.handleLocation).Methods(http.MethodPost)
	api.HandleFunc("/units", s.handleUnits).Methods(http.MethodPost)
	api.HandleFunc("/day", s.handleDay).Methods(http.MethodPost)
	api.HandleFunc("/theme", s.handleTheme).Methods(http.MethodPost)
	api.HandleFunc("/retry", s.handleRetry).Methods(http.MethodPost)
	api.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)

	var h http.Handler = r
	h = handlers.RecoveryHandler()(h)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.LoggingHandler(os.Stdout, h)

	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     h,
		ReadTimeout: 10 * time.Second,
		// No write timeout: /api/chat holds the connection open while the
		// assistant streams.
		IdleTimeout: 60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.controller.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.controller.Search(r.Context(), req.Query)
	writeJSON(w, http.StatusAccepted, s.controller.Snapshot())
}

func (s *Server) handleGeolocate(w http.ResponseWriter, r *http.Request) {
	var coords domain.Coordinates
	if !decodeBody(w, r, &coords) {
		return
	}
	s.controller.Bootstrap(r.Context(), &coords)
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	var loc domain.Location
	if !decodeBody(w, r, &loc) {
		return
	}
	if loc.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.controller.SelectLocation(r.Context(), loc)
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	var units domain.UnitPreferences
	if !decodeBody(w, r, &units) {
		return
	}
	if err := validateUnits(units); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.controller.SwitchUnits(units)
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.controller.SelectDay(req.Index); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleTheme(w http.ResponseWriter, _ *http.Request) {
	theme := s.controller.ToggleTheme()
	writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	s.controller.Retry(r.Context())
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

// handleChat streams assistant deltas as server-sent events. Each delta is
// one "data:" event; the stream ends with "data: [DONE]".
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	err := s.controller.SendChatMessage(r.Context(), req.Message, func(delta string) error {
		payload, err := json.Marshal(delta)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		s.logger.Warn("chat request rejected", "error", err)
		return
	}

	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func validateUnits(u domain.UnitPreferences) error {
	if u.Temperature != domain.Celsius && u.Temperature != domain.Fahrenheit {
		return fmt.Errorf("invalid temperature unit %q", u.Temperature)
	}
	if u.WindSpeed != domain.KilometersPerHour && u.WindSpeed != domain.MilesPerHour {
		return fmt.Errorf("invalid wind speed unit %q", u.WindSpeed)
	}
	if u.Precipitation != domain.Millimeters && u.Precipitation != domain.Inches {
		return fmt.Errorf("invalid precipitation unit %q", u.Precipitation)
	}
	return nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
