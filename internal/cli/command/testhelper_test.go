package command

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/store"
)

// startServer runs a real RESP server on a loopback port for the test.
func startServer(t *testing.T) (addr string, st *store.Store) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	st = store.New()
	srv := redisserver.New(redisserver.DefaultConfig(), redisserver.NewDispatcher(st))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return ln.Addr().String(), st
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI with args against an isolated config file.
func run(t *testing.T, configPath string, stdin string, args ...string) result {
	t.Helper()

	if configPath == "" {
		configPath = filepath.Join(t.TempDir(), "cli.yaml")
	}

	var stdout, stderr bytes.Buffer
	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr

	full := append([]string{"respkv-cli", "--config", configPath}, args...)
	err := app.Run(full)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
