package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/flood-monitor/internal/domain"
	"github.com/couchcryptid/flood-monitor/internal/monitor"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StateSource provides the flood state to render.
type StateSource interface {
	State() monitor.State
}

// Server renders the flood table and exposes health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	source     StateSource
	zone       *time.Location
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /api/floods, /healthz, /readyz, and /metrics routes.
// Timestamps are shown in zone.
func NewServer(addr string, source StateSource, ready sharedobs.ReadinessChecker, zone *time.Location, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source: source,
		zone:   zone,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/floods", s.handleFloods)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

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

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := s.source.State()
	tag := negotiateLocale(r.Header.Get("Accept-Language"))

	data := pageData{
		Lang:    tag.String(),
		Loading: state.Loading,
		Error:   state.Err,
	}
	if !state.Loading && state.Err == "" {
		data.Rows = buildRows(state.Records, newTimeFormatter(tag, s.zone))
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render flood table failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

type floodsResponse struct {
	Loading   bool                 `json:"loading"`
	Error     string               `json:"error,omitempty"`
	Records   []domain.FloodRecord `json:"records"`
	UpdatedAt *time.Time           `json:"updated_at,omitempty"`
	FromCache bool                 `json:"from_cache"`
}

func (s *Server) handleFloods(w http.ResponseWriter, _ *http.Request) {
	state := s.source.State()

	resp := floodsResponse{
		Loading:   state.Loading,
		Error:     state.Err,
		Records:   state.Records,
		FromCache: state.FromCache,
	}
	if resp.Records == nil {
		resp.Records = []domain.FloodRecord{}
	}
	if !state.UpdatedAt.IsZero() {
		updated := state.UpdatedAt.UTC()
		resp.UpdatedAt = &updated
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}
