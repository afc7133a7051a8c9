package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/miniredis-go/internal/infra/buildinfo"
	"github.com/yndnr/miniredis-go/internal/telemetry/logger"
)

// KeyCounter reports the current number of stored keys.
type KeyCounter interface {
	Len() int
}

// Handler serves the health endpoints.
type Handler struct {
	keys    KeyCounter
	ready   func() bool
	info    buildinfo.Info
	started time.Time
	logger  logger.Logger
	mux     *http.ServeMux
}

// Option configures a Handler.
type Option func(*Handler)

// WithReadiness sets the check used by GET /readyz.
func WithReadiness(ready func() bool) Option {
	return func(h *Handler) {
		h.ready = ready
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// New creates a Handler. keys may be nil.
func New(keys KeyCounter, opts ...Option) *Handler {
	h := &Handler{
		keys:    keys,
		ready:   func() bool { return true },
		info:    buildinfo.Get(),
		started: time.Now(),
		logger:  logger.Default(),
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	h.mux.HandleFunc("GET /readyz", h.handleReady)
}

// writeJSON writes data as a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
