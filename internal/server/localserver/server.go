package localserver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"

	"github.com/yndnr/respkv/internal/server/redisserver"
)

// Server is a RESP server bound to a Unix socket.
type Server struct {
	path string
	srv  *redisserver.Server
}

// New creates a local server for the socket at path. cfg.Addr is ignored.
func New(path string, cfg redisserver.Config, d *redisserver.Dispatcher, opts ...redisserver.Option) *Server {
	cfg.Addr = path
	return &Server{
		path: path,
		srv:  redisserver.New(cfg, d, opts...),
	}
}

// Path returns the socket path.
func (s *Server) Path() string {
	return s.path
}

// Listen creates the socket, replacing a stale one left by a previous run.
func (s *Server) Listen() (net.Listener, error) {
	if err := removeStale(s.path); err != nil {
		return nil, err
	}

	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return nil, fmt.Errorf("listen unix %s: %w", s.path, err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		ln.Close()
		return nil, fmt.Errorf("chmod %s: %w", s.path, err)
	}
	return ln, nil
}

// ListenAndServe listens on the socket and serves until ctx ends or
// Shutdown is called.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	return s.srv.Serve(ctx, ln)
}

// ActiveConnections returns the number of open socket clients.
func (s *Server) ActiveConnections() int {
	return s.srv.ActiveConnections()
}

// Shutdown stops accepting, closes clients and removes the socket file.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
		err = errors.Join(err, rmErr)
	}
	return err
}

// removeStale deletes path if it is a socket nobody is listening on.
func removeStale(path string) error {
	fi, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if fi.Mode()&fs.ModeSocket == 0 {
		return fmt.Errorf("%s exists and is not a socket", path)
	}

	if conn, err := net.Dial("unix", path); err == nil {
		conn.Close()
		return fmt.Errorf("%s is in use", path)
	}
	return os.Remove(path)
}
