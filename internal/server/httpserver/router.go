package httpserver

import (
	"net/http"

	"github.com/yndnr/respkv/internal/server/httpserver/handler"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Stats reports keyspace and connection counts for /stats.
	Stats handler.StatsSource

	// Ready reports whether the RESP listener is serving. Nil means ready.
	Ready func() bool

	// Metrics backs /metrics. Nil disables the endpoint.
	Metrics *metric.Registry

	Logger logger.Logger
}

// NewRouter builds the admin mux with its middleware chain.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	h := handler.New(cfg.Stats, cfg.Ready, log)

	mux := http.NewServeMux()
	mux.Handle("GET /health", h)
	mux.Handle("GET /ready", h)
	mux.Handle("GET /stats", h)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// Order: Recover -> RequestID -> AccessLog -> mux
	return Chain(mux, Recover(log), RequestID(), AccessLog(log))
}
