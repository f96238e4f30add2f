package benchmark

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/yndnr/respkv/internal/store"
)

// KeyCounts defines keyspace sizes for benchmarking.
var KeyCounts = []int{1000, 10000, 100000}

// prefillStrings loads count string keys and returns their names.
func prefillStrings(st *store.Store, count int) []string {
	keys := make([]string, count)
	for i := range keys {
		keys[i] = fmt.Sprintf("key:%d", i)
		st.Set(keys[i], "value")
	}
	return keys
}

// prefillHash gives key a hash with fields entries.
func prefillHash(st *store.Store, key string, fields int) {
	for i := 0; i < fields; i++ {
		st.HSet(key, fmt.Sprintf("field:%d", i), "value")
	}
}

// reportMemory reports heap usage after a GC.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.HeapAlloc)/1024/1024, prefix+"_heap_MB")
}
