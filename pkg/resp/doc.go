// Package resp implements the subset of the Redis Serialization Protocol
// (RESP2) spoken by respkv.
//
// The package contains three pieces:
//
//   - value.go: the closed Value model (SimpleString, Integer, BulkString,
//     Array, Error, Null)
//   - decoder.go: a streaming Decoder that reads exactly one unit per call
//   - encoder.go: Encode/AppendValue and a buffered Encoder
//
// Decoding is bounded by Limits: bulk size, array length, line length and
// array nesting depth. Every decode failure wraps ErrProtocol.
//
// Usage:
//
//	dec := resp.NewDecoder(conn)
//	v, err := dec.Decode()
//	...
//	enc := resp.NewEncoder(conn)
//	_ = enc.Encode(resp.SimpleString("OK"))
//	_ = enc.Flush()
package resp
