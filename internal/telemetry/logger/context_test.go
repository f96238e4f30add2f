package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("from context")

	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("logger from context did not write to buffer: %q", buf.String())
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) != Default() {
		t.Error("FromContext without logger should return Default()")
	}
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	if id := RequestIDFromContext(ctx); id != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", id)
	}

	ctx = WithRequestID(ctx, "01HZX")
	if id := RequestIDFromContext(ctx); id != "01HZX" {
		t.Errorf("RequestIDFromContext() = %q, want %q", id, "01HZX")
	}
}

func TestL_WithRequestID(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithRequestID(WithLogger(context.Background(), l), "req-42")
	L(ctx).Info("hello")

	if !strings.Contains(buf.String(), `"conn_id":"req-42"`) {
		t.Errorf("request_id missing from output: %q", buf.String())
	}
}
