// Package http exposes the prediction API, the HTML form, and the
// health/readiness/metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

// Predictor serves classifications and reports readiness.
type Predictor interface {
	Predict(ctx context.Context, reading domain.ClimateReading) (domain.PredictionRecord, error)
	CheckReadiness(ctx context.Context) error
}

// History lists recent predictions and exports them as CSV.
type History interface {
	List() []domain.PredictionRecord
	WriteCSV(w io.Writer) error
}

// Server exposes the prediction, form, health, readiness, and metrics
// HTTP endpoints.
type Server struct {
	httpServer *http.Server
	predictor  Predictor
	history    History
	logger     *slog.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(addr string, predictor Predictor, history History, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		predictor: predictor,
		history:   history,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/predictions", s.handlePredict)
	mux.HandleFunc("GET /api/v1/predictions", s.handleHistory)
	mux.HandleFunc("GET /api/v1/predictions.csv", s.handleHistoryCSV)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /predict", s.handleFormPredict)

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

	if err := s.predictor.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
