package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yndnr/miniredis-go/internal/infra/buildinfo"
	"github.com/yndnr/miniredis-go/internal/telemetry/logger"
)

type fixedKeys int

func (f fixedKeys) Len() int { return int(f) }

func TestHandleHealth(t *testing.T) {
	h := New(fixedKeys(3), WithLogger(logger.Nop()))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != StatusOK {
		t.Errorf("status = %q, want %q", resp.Status, StatusOK)
	}
	if resp.Version != buildinfo.Get().Version {
		t.Errorf("version = %q, want %q", resp.Version, buildinfo.Get().Version)
	}
	if resp.Keys != 3 {
		t.Errorf("keys = %d, want 3", resp.Keys)
	}
}

func TestHandleHealth_NilKeys(t *testing.T) {
	h := New(nil, WithLogger(logger.Nop()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Keys != 0 {
		t.Errorf("keys = %d, want 0", resp.Keys)
	}
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		wantStatus int
		wantBody   string
	}{
		{"ready", true, http.StatusOK, StatusReady},
		{"not ready", false, http.StatusServiceUnavailable, StatusNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ready := tt.ready
			h := New(nil, WithLogger(logger.Nop()), WithReadiness(func() bool { return ready }))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp ReadyResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantBody {
				t.Errorf("body status = %q, want %q", resp.Status, tt.wantBody)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := New(nil, WithLogger(logger.Nop()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
