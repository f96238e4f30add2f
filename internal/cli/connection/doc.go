// Package connection provides the RESP client used by respkv-cli.
//
//   - client.go: a single TCP connection speaking RESP
//   - manager.go: the current connection, with reconnect on failure
package connection
