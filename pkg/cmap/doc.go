// Package cmap provides a concurrent map keyed by strings.
//
// The map is split into a power-of-two number of shards, each guarded by its
// own RWMutex. Keys are assigned to shards with murmur3, so unrelated keys
// rarely contend on the same lock.
//
// Usage:
//
//	m := cmap.New[string]()
//	m.Set("key", "value")
//	val, ok := m.Get("key")
//
// Thread Safety:
//
// All operations are safe for concurrent use. Get and View hold the shard's
// read lock, Set and Update hold its write lock. Callbacks passed to View and
// Update run under that lock and must not call back into the map.
package cmap
