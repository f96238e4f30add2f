package httpserver

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/store"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

type stubStats struct{}

func (stubStats) Stats() store.Stats     { return store.Stats{StringKeys: 1} }
func (stubStats) ActiveConnections() int { return 0 }

func TestNewRouter_Routes(t *testing.T) {
	reg := metric.NewRegistry()
	reg.ObserveCommand("GET", metric.ResultOK, time.Millisecond)
	router := NewRouter(&RouterConfig{Stats: stubStats{}, Metrics: reg})

	tests := []struct {
		method, path string
		wantStatus   int
		wantBody     string
	}{
		{http.MethodGet, "/health", http.StatusOK, `"healthy"`},
		{http.MethodGet, "/ready", http.StatusOK, `"ready"`},
		{http.MethodGet, "/stats", http.StatusOK, `"string_keys":1`},
		{http.MethodGet, "/metrics", http.StatusOK, "respkv_commands_total"},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body does not contain %q", tt.wantBody)
			}
			if rec.Header().Get(HeaderRequestID) == "" {
				t.Error("missing X-Request-ID header")
			}
		})
	}
}

func TestNewRouter_NoMetrics(t *testing.T) {
	router := NewRouter(&RouterConfig{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a registry", rec.Code)
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := New(ln.Addr().String(), NewRouter(&RouterConfig{}))

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Serve() = %v, want ErrServerClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}
