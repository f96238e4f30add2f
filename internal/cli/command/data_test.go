package command

import (
	"errors"
	"strings"
	"testing"
)

func TestDataCommands(t *testing.T) {
	addr, st := startServer(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"ping", []string{"ping"}, "PONG\n"},
		{"ping message", []string{"ping", "hello"}, "\"hello\"\n"},
		{"set", []string{"set", "greeting", "hi there"}, "OK\n"},
		{"get", []string{"get", "greeting"}, "\"hi there\"\n"},
		{"get missing", []string{"get", "nope"}, "(nil)\n"},
		{"hset", []string{"hset", "user", "name", "ada"}, "OK\n"},
		{"hget", []string{"hget", "user", "name"}, "\"ada\"\n"},
		{"hgetall missing", []string{"hgetall", "ghost"}, "(nil)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, "", "", append([]string{"-s", addr}, tt.args...)...)
			if res.err != nil {
				t.Fatalf("error = %v (stderr %q)", res.err, res.stderr)
			}
			if res.stdout != tt.want {
				t.Errorf("stdout = %q, want %q", res.stdout, tt.want)
			}
		})
	}

	if v, ok := st.Get("greeting"); !ok || v != "hi there" {
		t.Errorf("store greeting = %q, %v", v, ok)
	}
}

func TestHGetAll_Plain(t *testing.T) {
	addr, st := startServer(t)
	st.HSet("user", "name", "ada")
	st.HSet("user", "lang", "go")

	res := run(t, "", "", "-s", addr, "hgetall", "user")
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	want := "1) \"lang\"\n2) \"go\"\n3) \"name\"\n4) \"ada\"\n"
	if res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}
}

func TestHGetAll_Table(t *testing.T) {
	addr, st := startServer(t)
	st.HSet("user", "name", "ada")

	res := run(t, "", "", "-s", addr, "-o", "table", "hgetall", "user")
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "FIELD") || !strings.Contains(res.stdout, "ada") {
		t.Errorf("table output = %q", res.stdout)
	}
}

func TestGet_JSON(t *testing.T) {
	addr, st := startServer(t)
	st.Set("k", "v")

	res := run(t, "", "", "-s", addr, "-o", "json", "get", "k")
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	if strings.TrimSpace(res.stdout) != `"v"` {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestExec_ErrorReply(t *testing.T) {
	addr, _ := startServer(t)

	res := run(t, "", "", "-s", addr, "exec", "FOO", "bar")
	if !errors.Is(res.err, ErrReply) {
		t.Fatalf("error = %v, want ErrReply", res.err)
	}
	if res.stdout != "(error) Unknown command: FOO\n" {
		t.Errorf("stdout = %q", res.stdout)
	}

	res = run(t, "", "", "-s", addr, "exec", "SET", "only-key")
	if !errors.Is(res.err, ErrReply) {
		t.Fatalf("error = %v, want ErrReply", res.err)
	}
	if res.stdout != "(error) Wrong number of arguments\n" {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestExec_PassesArgsThrough(t *testing.T) {
	addr, st := startServer(t)

	res := run(t, "", "", "-s", addr, "exec", "set", "raw", "line1\r\nline2")
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	if v, _ := st.Get("raw"); v != "line1\r\nline2" {
		t.Errorf("stored %q", v)
	}
}

func TestDataCommands_Usage(t *testing.T) {
	addr, _ := startServer(t)

	for _, args := range [][]string{
		{"get"},
		{"set", "k"},
		{"hset", "k", "f"},
		{"hget", "k", "f", "extra"},
		{"hgetall"},
		{"ping", "a", "b"},
		{"exec"},
	} {
		res := run(t, "", "", append([]string{"-s", addr}, args...)...)
		if res.err == nil || !strings.HasPrefix(res.err.Error(), "usage:") {
			t.Errorf("%v: error = %v, want usage error", args, res.err)
		}
	}
}

func TestDataCommands_ConnectionRefused(t *testing.T) {
	res := run(t, "", "", "-s", "127.0.0.1:1", "--timeout", "500ms", "ping")
	if res.err == nil {
		t.Fatal("expected connection error")
	}
}
