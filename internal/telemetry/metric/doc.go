// Package metric provides Prometheus metrics for respkv.
//
//   - prometheus.go: the Registry of server metrics and the /metrics handler
//   - collector.go: a collector reporting keyspace size at scrape time
//
// Metrics include:
//
//   - Command counts and latency histograms by command and result
//   - Active and total client connections, rejected connections
//   - Protocol errors by kind, rate-limited commands
//   - Keyspace size by mapping (strings, hashes)
//
// Every method on a nil *Registry is a no-op, so components accept an
// optional registry without nil checks.
package metric
