package shutdown

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

func newTestHandler(timeout time.Duration) *Handler {
	return NewHandler(timeout, WithLogger(logger.Nop()), WithSignals())
}

func TestNewHandler(t *testing.T) {
	h := NewHandler(0)
	if h.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", h.timeout, DefaultTimeout)
	}
	if len(h.signals) != 2 {
		t.Errorf("signals = %v, want SIGINT and SIGTERM", h.signals)
	}
}

func TestHandler_HooksRunInReverse(t *testing.T) {
	h := newTestHandler(time.Second)

	var mu sync.Mutex
	var order []string
	for _, name := range []string{"store", "redis", "http"} {
		name := name
		h.OnShutdown(name, func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	h.Trigger("test")
	if err := h.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	want := []string{"http", "redis", "store"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done() not closed after Wait")
	}
}

func TestHandler_JoinsErrors(t *testing.T) {
	h := newTestHandler(time.Second)
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	h.OnShutdown("a", func(context.Context) error { return errA })
	h.OnShutdown("ok", func(context.Context) error { return nil })
	h.OnShutdown("b", func(context.Context) error { return errB })

	h.Trigger("test")
	err := h.Wait(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("Wait() error = %v, want both hook errors", err)
	}
	if !strings.Contains(err.Error(), "a: a failed") {
		t.Errorf("error should name the hook: %q", err)
	}
}

func TestHandler_HookDeadline(t *testing.T) {
	h := newTestHandler(50 * time.Millisecond)
	h.OnShutdown("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	h.Trigger("test")
	start := time.Now()
	err := h.Wait(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want DeadlineExceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Error("hook deadline was not enforced")
	}
}

func TestHandler_ContextCancel(t *testing.T) {
	h := newTestHandler(time.Second)
	called := false
	h.OnShutdown("x", func(context.Context) error {
		called = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if !called {
		t.Error("hook not called after context cancel")
	}
}

func TestHandler_TriggerOnce(t *testing.T) {
	h := newTestHandler(time.Second)
	h.Trigger("first")
	h.Trigger("second")

	if err := h.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}
