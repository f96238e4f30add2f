// Package logger provides structured logging for respkv.
//
// It wraps the standard library log/slog:
//
//   - logger.go: Logger interface, configuration, global default
//   - context.go: context propagation of the logger and connection IDs
//   - redact.go: masking of sensitive and oversized attribute values
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering, adjustable at runtime (config hot reload)
//   - Automatic redaction of stored payloads and secrets
//   - Per-connection loggers carrying conn_id
package logger
