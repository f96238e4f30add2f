package metric

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestKeyspaceCollector(t *testing.T) {
	strs, hashes := 3, 1
	c := NewKeyspaceCollector(func() (int, int) { return strs, hashes })

	expected := `
# HELP respkv_keys Keys in the keyspace, by mapping.
# TYPE respkv_keys gauge
respkv_keys{type="hash"} 1
respkv_keys{type="string"} 3
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected collector output: %v", err)
	}

	strs = 10
	if err := testutil.CollectAndCompare(c, strings.NewReader(strings.Replace(expected, "} 3", "} 10", 1))); err != nil {
		t.Errorf("collector should read stats at scrape time: %v", err)
	}
}

func TestKeyspaceCollector_Register(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewKeyspaceCollector(func() (int, int) { return 0, 0 })); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "respkv_keys" {
			found = true
		}
	}
	if !found {
		t.Error("respkv_keys not gathered")
	}
}
