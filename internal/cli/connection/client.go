package connection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/respkv/pkg/resp"
)

// DefaultTimeout applies when neither the context nor the client sets one.
const DefaultTimeout = 5 * time.Second

// Client errors.
var (
	ErrClosed         = errors.New("connection closed")
	ErrConnectionLost = errors.New("connection lost")
	ErrNoCommand      = errors.New("no command given")
)

// Client is a RESP connection to one server. Requests on a Client are
// serialized.
type Client struct {
	addr    string
	timeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	dec    *resp.Decoder
	enc    *resp.Encoder
	broken bool
}

// Dial connects to addr. A zero timeout selects DefaultTimeout for both
// the dial and each request.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	network, address := splitAddr(addr)
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}

	return &Client{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		dec:     resp.NewDecoder(bufio.NewReader(conn)),
		enc:     resp.NewEncoder(conn),
	}, nil
}

// UnixPrefix marks an address as a Unix socket path.
const UnixPrefix = "unix:"

// splitAddr maps "unix:/path" to a Unix socket and anything else to TCP.
func splitAddr(addr string) (network, address string) {
	if path, ok := strings.CutPrefix(addr, UnixPrefix); ok {
		return "unix", path
	}
	return "tcp", addr
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends one command and returns the reply. Server error replies are
// returned as resp.Error values, not as Go errors. A transport failure
// marks the client broken; the error then wraps ErrConnectionLost.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Value, error) {
	if len(args) == 0 {
		return nil, ErrNoCommand
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrClosed
	}
	if c.broken {
		return nil, ErrConnectionLost
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, c.fail(err)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Now())
	})
	defer stop()

	if err := c.enc.Encode(resp.Command(args[0], args[1:]...)); err != nil {
		return nil, c.fail(err)
	}
	if err := c.enc.Flush(); err != nil {
		return nil, c.fail(ctxErr(ctx, err))
	}

	v, err := c.dec.Decode()
	if err != nil {
		return nil, c.fail(ctxErr(ctx, err))
	}
	return v, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Broken reports whether a transport error has poisoned the connection.
func (c *Client) Broken() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.broken
}

func (c *Client) fail(err error) error {
	c.broken = true
	return fmt.Errorf("%w: %w", ErrConnectionLost, err)
}

// ctxErr prefers the context error when a cancellation caused err.
func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
