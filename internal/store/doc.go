// Package store provides the in-memory keyspace shared by all connections.
//
// The keyspace holds two independent mappings:
//
//   - strings: key -> value
//   - hashes:  key -> (field -> value)
//
// Both are sharded maps (pkg/cmap). Hash fields are kept in a B-tree so that
// HGetAll returns fields in a stable, ascending order. Every operation is
// atomic with respect to the key it touches; there is no deletion or expiry.
package store
