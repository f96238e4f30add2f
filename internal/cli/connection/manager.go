package connection

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yndnr/respkv/pkg/resp"
)

// ErrNotConnected is returned when no server has been selected.
var ErrNotConnected = errors.New("not connected")

// Manager owns the CLI's current connection and redials it after a
// transport failure.
type Manager struct {
	timeout time.Duration

	mu      sync.Mutex
	addr    string
	current *Client
}

// NewManager creates a connection manager.
func NewManager(timeout time.Duration) *Manager {
	return &Manager{timeout: timeout}
}

// Connect dials addr and makes it the current connection.
func (m *Manager) Connect(ctx context.Context, addr string) error {
	c, err := Dial(ctx, addr, m.timeout)
	if err != nil {
		return err
	}

	m.mu.Lock()
	old := m.current
	m.addr = addr
	m.current = c
	m.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Disconnect closes the current connection.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	c := m.current
	m.current = nil
	m.addr = ""
	m.mu.Unlock()

	if c != nil {
		_ = c.Close()
	}
}

// Addr returns the current server address, or "" if disconnected.
func (m *Manager) Addr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addr
}

// IsConnected returns true if a server has been selected.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// Do runs a command on the current connection. If the connection was lost
// it is redialed once before the command is sent.
func (m *Manager) Do(ctx context.Context, args ...string) (resp.Value, error) {
	m.mu.Lock()
	c, addr := m.current, m.addr
	m.mu.Unlock()

	if c == nil {
		return nil, ErrNotConnected
	}
	if c.Broken() {
		if err := m.Connect(ctx, addr); err != nil {
			return nil, err
		}
		m.mu.Lock()
		c = m.current
		m.mu.Unlock()
	}
	return c.Do(ctx, args...)
}
