package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr = "127.0.0.1:6379"
	DefaultHTTPAddr  = "127.0.0.1:6380"
	DefaultSocket    = "/var/run/respkv/respkv.sock"

	DefaultIdleTimeout  = 5 * time.Minute
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultRateLimit    = 0

	// DefaultMaxBulkLen is 512KB; values larger than that are not expected.
	DefaultMaxBulkLen  = 512 * 1024
	DefaultMaxArrayLen = 1024
	DefaultMaxLineLen  = 4 * 1024
	DefaultMaxDepth    = 8

	DefaultShardCount = 16

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:         DefaultRedisAddr,
				IdleTimeout:  DefaultIdleTimeout,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				RateLimit:    DefaultRateLimit,
			},
			HTTP: HTTPConfig{
				Enabled: true,
				Addr:    DefaultHTTPAddr,
			},
			Local: LocalConfig{
				Enabled:    false,
				SocketPath: DefaultSocket,
			},
		},
		Protocol: ProtocolSection{
			MaxBulkLen:  DefaultMaxBulkLen,
			MaxArrayLen: DefaultMaxArrayLen,
			MaxLineLen:  DefaultMaxLineLen,
			MaxDepth:    DefaultMaxDepth,
		},
		Store: StoreSection{
			ShardCount: DefaultShardCount,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
