package redisserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/respkv/internal/store"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// ============================================================
// Helpers
// ============================================================

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	return NewDispatcher(store.New())
}

func cmd(name string, args ...string) resp.Value {
	return resp.Command(name, args...)
}

func assertReply(t *testing.T, got, want resp.Value) {
	t.Helper()
	if !resp.Equal(got, want) {
		t.Errorf("reply = %#v, want %#v", got, want)
	}
}

// ============================================================
// Dispatch table
// ============================================================

func TestDispatch(t *testing.T) {
	tests := []struct {
		name string
		req  resp.Value
		want resp.Value
	}{
		{"ping", cmd("PING"), resp.SimpleString("PONG")},
		{"ping lower case", cmd("ping"), resp.SimpleString("PONG")},
		{"ping echo", cmd("PING", "hello"), resp.BulkString("hello")},
		{"ping too many", cmd("PING", "a", "b"), resp.Error("Wrong number of arguments")},
		{"set", cmd("SET", "k", "v"), resp.SimpleString("OK")},
		{"set missing value", cmd("SET", "k"), resp.Error("Wrong number of arguments")},
		{"set extra arg", cmd("SET", "k", "v", "x"), resp.Error("Wrong number of arguments")},
		{"get miss", cmd("GET", "missing"), resp.Null{}},
		{"get no key", cmd("GET"), resp.Error("Wrong number of arguments")},
		{"hset", cmd("HSET", "h", "f", "v"), resp.SimpleString("OK")},
		{"hset short", cmd("HSET", "h", "f"), resp.Error("Wrong number of arguments")},
		{"hget miss", cmd("HGET", "h", "f"), resp.Null{}},
		{"hget short", cmd("HGET", "h"), resp.Error("Wrong number of arguments")},
		{"hgetall miss", cmd("HGETALL", "h"), resp.Null{}},
		{"hgetall extra", cmd("HGETALL", "h", "x"), resp.Error("Wrong number of arguments")},
		{"unknown", cmd("FOO"), resp.Error("Unknown command: FOO")},
		{"unknown keeps case", cmd("fooBar", "x"), resp.Error("Unknown command: fooBar")},
		{"not an array", resp.BulkString("PING"), resp.Error("Invalid command")},
		{"empty array", resp.Array{}, resp.Error("Invalid command")},
		{"nil", nil, resp.Error("Invalid command")},
		{"integer name", resp.Array{resp.Integer(1)}, resp.Error("Invalid command")},
		{
			"non-bulk argument",
			resp.Array{resp.BulkString("SET"), resp.BulkString("k"), resp.Integer(1)},
			resp.Error("Invalid argument"),
		},
		{
			"ping echoes any value",
			resp.Array{resp.BulkString("PING"), resp.Integer(7)},
			resp.Integer(7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher(t)
			assertReply(t, d.Dispatch(tt.req), tt.want)
		})
	}
}

func TestDispatch_UnknownCommandNameWithCRLF(t *testing.T) {
	d := newTestDispatcher(t)

	reply := d.Dispatch(cmd("FOO\r\n+OK"))
	assertReply(t, reply, resp.Error("Unknown command: FOO  +OK"))

	dec := resp.NewDecoder(bytes.NewReader(resp.Encode(reply)))
	if _, err := dec.Decode(); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if v, err := dec.Decode(); !errors.Is(err, io.EOF) {
		t.Errorf("second Decode() = %#v, %v; want io.EOF", v, err)
	}
}

func TestDispatch_SetThenGet(t *testing.T) {
	d := newTestDispatcher(t)

	assertReply(t, d.Dispatch(cmd("SET", "name", "respkv")), resp.SimpleString("OK"))
	assertReply(t, d.Dispatch(cmd("GET", "name")), resp.BulkString("respkv"))

	assertReply(t, d.Dispatch(cmd("set", "name", "other")), resp.SimpleString("OK"))
	assertReply(t, d.Dispatch(cmd("Get", "name")), resp.BulkString("other"))
}

func TestDispatch_BinarySafe(t *testing.T) {
	d := newTestDispatcher(t)
	value := "line1\r\nline2\x00end"

	d.Dispatch(cmd("SET", "bin", value))
	assertReply(t, d.Dispatch(cmd("GET", "bin")), resp.BulkString(value))
}

func TestDispatch_Hash(t *testing.T) {
	d := newTestDispatcher(t)

	d.Dispatch(cmd("HSET", "user", "name", "ada"))
	d.Dispatch(cmd("HSET", "user", "lang", "go"))
	d.Dispatch(cmd("HSET", "user", "name", "grace"))

	assertReply(t, d.Dispatch(cmd("HGET", "user", "name")), resp.BulkString("grace"))
	assertReply(t, d.Dispatch(cmd("HGET", "user", "missing")), resp.Null{})

	arr, ok := d.Dispatch(cmd("HGETALL", "user")).(resp.Array)
	if !ok {
		t.Fatalf("HGETALL reply is not an array")
	}
	if len(arr) != 4 {
		t.Fatalf("HGETALL returned %d elements, want 4", len(arr))
	}

	got := map[string]string{}
	for i := 0; i < len(arr); i += 2 {
		got[string(arr[i].(resp.BulkString))] = string(arr[i+1].(resp.BulkString))
	}
	want := map[string]string{"name": "grace", "lang": "go"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("HGETALL = %v, want %v", got, want)
	}
}

func TestDispatch_StringsAndHashesAreSeparate(t *testing.T) {
	d := newTestDispatcher(t)

	d.Dispatch(cmd("SET", "k", "string"))
	d.Dispatch(cmd("HSET", "k", "f", "hash"))

	assertReply(t, d.Dispatch(cmd("GET", "k")), resp.BulkString("string"))
	assertReply(t, d.Dispatch(cmd("HGET", "k", "f")), resp.BulkString("hash"))
}

func TestDispatch_ConcurrentSet(t *testing.T) {
	d := newTestDispatcher(t)
	const n = 64

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.Dispatch(cmd("SET", "k", strconv.Itoa(i)))
		}(i)
	}
	wg.Wait()

	v, ok := d.Dispatch(cmd("GET", "k")).(resp.BulkString)
	if !ok {
		t.Fatal("GET after concurrent SET did not return a bulk string")
	}
	i, err := strconv.Atoi(string(v))
	if err != nil || i < 0 || i >= n {
		t.Errorf("GET = %q, want one of the written values", v)
	}
}

func TestDispatch_RecoversPanic(t *testing.T) {
	// A nil store makes every store-backed command panic.
	d := NewDispatcher(nil)

	assertReply(t, d.Dispatch(cmd("SET", "k", "v")), resp.Error("Internal error"))
	assertReply(t, d.Dispatch(cmd("PING")), resp.SimpleString("PONG"))
}

func TestDispatch_Metrics(t *testing.T) {
	reg := metric.NewRegistry()
	d := NewDispatcher(store.New(), WithDispatcherMetrics(reg))

	d.Dispatch(cmd("SET", "k", "v"))
	d.Dispatch(cmd("GET", "k"))
	d.Dispatch(cmd("GET"))
	d.Dispatch(cmd("NOPE"))
	d.Dispatch(resp.Array{})

	checks := []struct {
		command, result string
		want            float64
	}{
		{"SET", metric.ResultOK, 1},
		{"GET", metric.ResultOK, 1},
		{"GET", metric.ResultError, 1},
		{"unknown", metric.ResultError, 1},
		{"invalid", metric.ResultError, 1},
	}
	for _, c := range checks {
		got := testutil.ToFloat64(reg.CommandsTotal.WithLabelValues(c.command, c.result))
		if got != c.want {
			t.Errorf("commands_total{%s,%s} = %v, want %v", c.command, c.result, got, c.want)
		}
	}
}

func TestCommandNames(t *testing.T) {
	names := CommandNames()
	if len(names) != len(commandTable) {
		t.Fatalf("CommandNames() has %d entries, table has %d", len(names), len(commandTable))
	}
	sort.Strings(names)
	for _, n := range names {
		if _, ok := commandTable[n]; !ok {
			t.Errorf("CommandNames() lists %q which is not in the table", n)
		}
	}
}
