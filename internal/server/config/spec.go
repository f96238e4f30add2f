package config

import (
	"time"

	"github.com/yndnr/respkv/pkg/resp"
)

// ServerConfig is the root configuration for respkv-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Protocol ProtocolSection `koanf:"protocol"`
	Store    StoreSection    `koanf:"store"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	HTTP  HTTPConfig  `koanf:"http"`
	Local LocalConfig `koanf:"local"`
}

// RedisConfig configures the RESP listener.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// IdleTimeout bounds the wait for the first byte of the next request.
	IdleTimeout time.Duration `koanf:"idle_timeout"`
	// ReadTimeout bounds reading the rest of a request once it has started.
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RateLimit is the maximum commands per second per connection.
	// 0 disables rate limiting.
	RateLimit int `koanf:"rate_limit"`

	// MaxConnections caps concurrently open client connections.
	// 0 means unlimited.
	MaxConnections int `koanf:"max_connections"`
}

// HTTPConfig configures the admin HTTP server (health, stats, metrics).
type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LocalConfig configures the Unix socket RESP listener. It shares the
// redis section's timeouts and limits.
type LocalConfig struct {
	Enabled    bool   `koanf:"enabled"`
	SocketPath string `koanf:"socket_path"`
}

// ProtocolSection bounds what a single request may consume.
type ProtocolSection struct {
	MaxBulkLen  int `koanf:"max_bulk_len"`
	MaxArrayLen int `koanf:"max_array_len"`
	MaxLineLen  int `koanf:"max_line_len"`
	MaxDepth    int `koanf:"max_depth"`
}

// Limits converts the section to decoder limits.
func (p ProtocolSection) Limits() resp.Limits {
	return resp.Limits{
		MaxBulkLen:  p.MaxBulkLen,
		MaxArrayLen: p.MaxArrayLen,
		MaxLineLen:  p.MaxLineLen,
		MaxDepth:    p.MaxDepth,
	}
}

// StoreSection configures the in-memory keyspace.
type StoreSection struct {
	// ShardCount must be a power of two.
	ShardCount int `koanf:"shard_count"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
