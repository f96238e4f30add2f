package redisserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// ErrServerClosed is returned by Serve after Shutdown.
var ErrServerClosed = errors.New("redisserver: server closed")

// Config holds the RESP server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// IdleTimeout bounds the wait for the first byte of a request (default: 5m).
	IdleTimeout time.Duration
	// ReadTimeout bounds reading the rest of a request (default: 30s).
	// Helps prevent slowloris attacks.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing a reply (default: 30s).
	WriteTimeout time.Duration
	// RateLimit is the maximum commands per second per connection.
	// 0 disables rate limiting.
	RateLimit int
	// MaxConnections caps concurrent clients. 0 means unlimited.
	MaxConnections int
	// Limits bounds decoded requests.
	Limits resp.Limits
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:6379",
		IdleTimeout:  5 * time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Limits:       resp.DefaultLimits(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	return c
}

// Server is a RESP protocol server.
type Server struct {
	cfg        Config
	dispatcher *Dispatcher
	logger     logger.Logger
	metrics    *metric.Registry

	mu     sync.Mutex
	ln     net.Listener
	conns  map[*conn]struct{}
	closed atomic.Bool
	wg     sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics sets the metrics registry for connection counters.
func WithMetrics(reg *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = reg
	}
}

// New creates a Server that executes requests with d.
func New(cfg Config, d *Dispatcher, opts ...Option) *Server {
	s := &Server{
		cfg:        cfg.withDefaults(),
		dispatcher: d,
		logger:     logger.Nop(),
		conns:      make(map[*conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// conn is a single client connection.
type conn struct {
	id      string
	netConn net.Conn
	br      *bufio.Reader
	dec     *resp.Decoder
	enc     *resp.Encoder
	limiter *rate.Limiter
	log     logger.Logger
	closed  atomic.Bool
}

func (c *conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// ListenAndServe listens on the configured address and serves until
// Shutdown is called or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln. It blocks and returns ErrServerClosed
// after Shutdown. ln is closed when Serve returns.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.ln = ln
	s.mu.Unlock()
	defer ln.Close()

	s.logger.Info("redis server listening", "address", ln.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		s.closed.Store(true)
		s.closeAll()
	})
	defer stop()

	for {
		nc, err := ln.Accept()
		if err != nil {
			if s.closed.Load() || ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			return err
		}

		c, ok := s.track(nc)
		if !ok {
			s.reject(nc)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(c)
		}()
	}
}

// Addr returns the listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ActiveConnections returns the number of open client connections.
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Shutdown stops accepting, closes every client connection and waits for
// their handlers to return or ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closed.Store(true)
	err := s.closeAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("redis server stopped")
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// closeAll closes the listener and every live connection.
func (s *Server) closeAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.ln != nil {
		if cerr := s.ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = cerr
		}
	}
	for c := range s.conns {
		c.Close()
	}
	return err
}

func (s *Server) track(nc net.Conn) (*conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, false
	}
	if s.cfg.MaxConnections > 0 && len(s.conns) >= s.cfg.MaxConnections {
		return nil, false
	}

	id := ulid.Make().String()
	c := &conn{
		id:      id,
		netConn: nc,
		enc:     resp.NewEncoder(nc),
		log:     s.logger.With("conn_id", id, "remote", nc.RemoteAddr().String()),
	}
	c.br = bufio.NewReader(&flushReader{c: c, writeTimeout: s.cfg.WriteTimeout})
	c.dec = resp.NewDecoder(c.br, resp.WithLimits(s.cfg.Limits))
	if s.cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateLimit)
	}
	s.conns[c] = struct{}{}
	s.metrics.ConnOpened()
	return c, true
}

func (s *Server) untrack(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.metrics.ConnClosed()
}

// reject answers a connection over the limit with an error and closes it.
func (s *Server) reject(nc net.Conn) {
	s.metrics.ConnRejected()
	s.logger.Warn("connection rejected", "remote", nc.RemoteAddr().String(), "max_connections", s.cfg.MaxConnections)
	_ = nc.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	_, _ = nc.Write(resp.Encode(resp.Error("Too many connections")))
	_ = nc.Close()
}

func (s *Server) serveConn(c *conn) {
	defer s.untrack(c)
	defer c.Close()

	c.log.Debug("connection opened")

	for {
		// Idle wait for the first byte of the next request.
		if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
			return
		}
		if _, err := c.br.Peek(1); err != nil {
			s.logReadError(c, err)
			return
		}

		// Tighter deadline for the rest of the request.
		if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return
		}

		req, err := c.dec.Decode()
		if err != nil {
			if errors.Is(err, resp.ErrProtocol) {
				s.protocolError(c, err)
				return
			}
			s.logReadError(c, err)
			return
		}
		if !resp.IsCommand(req) {
			s.protocolError(c, errNotCommand)
			return
		}

		var reply resp.Value
		if c.limiter != nil && !c.limiter.Allow() {
			s.metrics.RateLimitHit()
			reply = resp.Error(msgRateLimited)
		} else {
			reply = s.dispatcher.Dispatch(req)
		}

		if err := s.write(c, reply); err != nil {
			c.log.Debug("write failed", "error", err)
			return
		}
	}
}

var errNotCommand = errors.New("expected array of bulk strings")

// write buffers reply. Pending replies go out when the connection next
// has to read from the socket, so pipelined requests share one flush.
func (s *Server) write(c *conn, reply resp.Value) error {
	if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
		return err
	}
	return c.enc.Encode(reply)
}

// flushReader flushes buffered replies before every socket read, so a
// reply is never held back behind a request that has not fully arrived.
type flushReader struct {
	c            *conn
	writeTimeout time.Duration
}

func (r *flushReader) Read(p []byte) (int, error) {
	if r.c.enc.Buffered() > 0 {
		if err := r.c.netConn.SetWriteDeadline(time.Now().Add(r.writeTimeout)); err != nil {
			return 0, err
		}
		if err := r.c.enc.Flush(); err != nil {
			return 0, err
		}
	}
	return r.c.netConn.Read(p)
}

// protocolError sends a best-effort error reply before the connection is
// closed. The stream cannot be resynchronized after malformed input.
func (s *Server) protocolError(c *conn, err error) {
	kind := resp.ErrorKind(err)
	if errors.Is(err, errNotCommand) {
		kind = "not_command"
	}
	s.metrics.ProtocolError(kind)

	msg := "Protocol error: " + protocolDetail(err)
	if errors.Is(err, resp.ErrLimitExceeded) {
		c.log.Warn("protocol limit exceeded", "error", err)
	} else {
		c.log.Debug("protocol error", "error", err)
	}

	_ = c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	_ = c.enc.Encode(resp.Error(msg))
	_ = c.enc.Flush()
}

func protocolDetail(err error) string {
	if errors.Is(err, resp.ErrLimitExceeded) {
		return "limit exceeded"
	}
	return strings.TrimPrefix(err.Error(), resp.ErrProtocol.Error()+": ")
}

func (s *Server) logReadError(c *conn, err error) {
	switch {
	case errors.Is(err, io.EOF):
		c.log.Debug("connection closed by peer")
	case errors.Is(err, net.ErrClosed):
		c.log.Debug("connection closed")
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			c.log.Debug("connection timed out")
			return
		}
		c.log.Debug("connection read error", "error", err)
	}
}
