package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/pkg/cmap"
)

// Verify validates the configuration and returns every problem found.
func Verify(cfg *ServerConfig) error {
	return errors.Join(
		verifyServer(&cfg.Server),
		verifyProtocol(&cfg.Protocol),
		verifyStore(&cfg.Store),
		verifyLog(&cfg.Log),
	)
}

func verifyServer(cfg *ServerSection) error {
	var errs []error
	if err := verifyAddr("server.redis.addr", cfg.Redis.Addr); err != nil {
		errs = append(errs, err)
	}
	if cfg.HTTP.Enabled {
		if err := verifyAddr("server.http.addr", cfg.HTTP.Addr); err != nil {
			errs = append(errs, err)
		}
		if cfg.HTTP.Addr == cfg.Redis.Addr {
			errs = append(errs, fmt.Errorf("server.http.addr and server.redis.addr must differ (both %q)", cfg.HTTP.Addr))
		}
	}
	if cfg.Local.Enabled && cfg.Local.SocketPath == "" {
		errs = append(errs, errors.New("server.local.socket_path is required when the local listener is enabled"))
	}
	if cfg.Redis.IdleTimeout < 0 || cfg.Redis.ReadTimeout < 0 || cfg.Redis.WriteTimeout < 0 {
		errs = append(errs, errors.New("server.redis timeouts must not be negative"))
	}
	if cfg.Redis.RateLimit < 0 {
		errs = append(errs, errors.New("server.redis.rate_limit must not be negative"))
	}
	if cfg.Redis.MaxConnections < 0 {
		errs = append(errs, errors.New("server.redis.max_connections must not be negative"))
	}
	return errors.Join(errs...)
}

func verifyAddr(name, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", name)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func verifyProtocol(cfg *ProtocolSection) error {
	var errs []error
	if cfg.MaxBulkLen < 1 {
		errs = append(errs, errors.New("protocol.max_bulk_len must be at least 1"))
	}
	if cfg.MaxArrayLen < 1 {
		errs = append(errs, errors.New("protocol.max_array_len must be at least 1"))
	}
	if cfg.MaxLineLen < 1 {
		errs = append(errs, errors.New("protocol.max_line_len must be at least 1"))
	}
	if cfg.MaxDepth < 1 {
		errs = append(errs, errors.New("protocol.max_depth must be at least 1"))
	}
	return errors.Join(errs...)
}

func verifyStore(cfg *StoreSection) error {
	if !cmap.ValidShardCount(cfg.ShardCount) {
		return fmt.Errorf("store.shard_count must be a power of two, got %d", cfg.ShardCount)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
		return nil
	default:
		return fmt.Errorf("log.format must be json or text, got %q", cfg.Format)
	}
}
