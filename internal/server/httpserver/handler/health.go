package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, StatusResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil && !h.ready() {
		h.writeError(w, r, http.StatusServiceUnavailable, "NOT_READY", "server is not ready")
		return
	}
	h.writeJSON(w, r, http.StatusOK, StatusResponse{
		Status: "ready",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStats handles GET /stats.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Build:         buildinfo.Get(),
	}
	if h.stats != nil {
		resp.Keys = h.stats.Stats()
		resp.Connections = h.stats.ActiveConnections()
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}
