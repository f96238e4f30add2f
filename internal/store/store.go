package store

import (
	"github.com/google/btree"

	"github.com/yndnr/respkv/pkg/cmap"
)

// btreeDegree is the B-tree degree used for hash field storage.
const btreeDegree = 8

// Pair is a single hash field and its value.
type Pair struct {
	Field string
	Value string
}

func lessPair(a, b Pair) bool {
	return a.Field < b.Field
}

type hash = btree.BTreeG[Pair]

// Stats reports the size of the keyspace.
type Stats struct {
	StringKeys int `json:"string_keys"`
	HashKeys   int `json:"hash_keys"`
}

// Store is a concurrency-safe string and hash keyspace.
type Store struct {
	strings *cmap.Map[string]
	hashes  *cmap.Map[*hash]
}

type options struct {
	shardCount int
}

// Option configures a Store.
type Option func(*options)

// WithShardCount sets the number of shards for each mapping. It must be a
// power of two; other values fall back to cmap.DefaultShardCount.
func WithShardCount(n int) Option {
	return func(o *options) {
		o.shardCount = n
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	o := options{shardCount: cmap.DefaultShardCount}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{
		strings: cmap.NewWithShards[string](o.shardCount),
		hashes:  cmap.NewWithShards[*hash](o.shardCount),
	}
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(key, value string) {
	s.strings.Set(key, value)
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	return s.strings.Get(key)
}

// HSet sets field in the hash stored at key, creating the hash if needed.
func (s *Store) HSet(key, field, value string) {
	s.hashes.Update(key, func(h *hash, exists bool) *hash {
		if !exists {
			h = btree.NewG[Pair](btreeDegree, lessPair)
		}
		h.ReplaceOrInsert(Pair{Field: field, Value: value})
		return h
	})
}

// HGet returns the value of field in the hash stored at key.
func (s *Store) HGet(key, field string) (value string, ok bool) {
	s.hashes.View(key, func(h *hash, exists bool) {
		if !exists {
			return
		}
		var p Pair
		p, ok = h.Get(Pair{Field: field})
		value = p.Value
	})
	return value, ok
}

// HGetAll returns every field of the hash stored at key in ascending field
// order. The pairs form one consistent snapshot of the hash.
func (s *Store) HGetAll(key string) (pairs []Pair, ok bool) {
	s.hashes.View(key, func(h *hash, exists bool) {
		if !exists {
			return
		}
		ok = true
		pairs = make([]Pair, 0, h.Len())
		h.Ascend(func(p Pair) bool {
			pairs = append(pairs, p)
			return true
		})
	})
	return pairs, ok
}

// Stats returns the current keyspace size.
func (s *Store) Stats() Stats {
	return Stats{
		StringKeys: s.strings.Count(),
		HashKeys:   s.hashes.Count(),
	}
}
