// Package main provides the entry point for respkv-server.
//
// The server holds an in-memory keyspace of strings and hashes and
// exposes it over:
//
//   - a RESP listener for PING, SET, GET, HSET, HGET and HGETALL
//   - an admin HTTP listener for health, readiness, stats and metrics
//
// Usage:
//
//	respkv-server [flags]
//	respkv-server --config /etc/respkv/server.yaml
//	respkv-server version
//
// Configuration is layered: defaults, then the config file, then
// RESPKV_* environment variables, then command-line flags.
package main
