// Package httpserver provides the admin HTTP server for respkv.
//
// Endpoints:
//
//	GET /health   liveness
//	GET /ready    readiness (503 until the RESP listener is up)
//	GET /stats    keyspace counts, live connections and build info
//	GET /metrics  Prometheus exposition
//
// Every route runs behind panic recovery, request ID assignment and an
// access log.
package httpserver
