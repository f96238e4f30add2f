package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/respkv/internal/store"
	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// StatsSource provides the live numbers reported by /stats.
type StatsSource interface {
	Stats() store.Stats
	ActiveConnections() int
}

// Handler serves the admin JSON endpoints.
type Handler struct {
	stats   StatsSource
	ready   func() bool
	logger  logger.Logger
	started time.Time
	mux     *http.ServeMux
}

// New creates a Handler. stats may be nil, in which case /stats reports
// zero counts; a nil ready func always reports ready.
func New(stats StatsSource, ready func() bool, log logger.Logger) *Handler {
	h := &Handler{
		stats:   stats,
		ready:   ready,
		logger:  log,
		started: time.Now(),
		mux:     http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)
	h.mux.HandleFunc("GET /stats", h.handleStats)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.requestLogger(r).Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewErrorResponse(getRequestID(r), code, message)); err != nil {
		h.requestLogger(r).Error("failed to encode response", "error", err)
	}
}

func (h *Handler) requestLogger(r *http.Request) logger.Logger {
	return h.logger.With("request_id", getRequestID(r))
}

// getRequestID returns the ID set by the RequestID middleware.
func getRequestID(r *http.Request) string {
	return r.Header.Get("X-Request-ID")
}
