package handler

import (
	"net/http"
	"time"
)

// handleHealth handles GET /healthz.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        StatusOK,
		Version:       h.info.Version,
		Commit:        h.info.Commit,
		GoVersion:     h.info.GoVersion,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	}
	if h.keys != nil {
		resp.Keys = h.keys.Len()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// handleReady handles GET /readyz.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if !h.ready() {
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{Status: StatusNotReady})
		return
	}
	h.writeJSON(w, http.StatusOK, ReadyResponse{Status: StatusReady})
}
