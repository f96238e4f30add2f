package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/infra/shutdown"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/server/httpserver"
	"github.com/yndnr/respkv/internal/server/localserver"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/store"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// loadConfig layers file, environment and flag overrides over defaults.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type connCounter interface {
	ActiveConnections() int
}

// keyspace adapts the store and RESP listeners to the /stats endpoint.
type keyspace struct {
	store     *store.Store
	listeners []connCounter
}

func (k *keyspace) Stats() store.Stats { return k.store.Stats() }

func (k *keyspace) ActiveConnections() int {
	n := 0
	for _, l := range k.listeners {
		n += l.ActiveConnections()
	}
	return n
}

func run(ctx context.Context, cfg *config.ServerConfig, configFile string, overrides map[string]any) error {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting respkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", configFile)

	st := store.New(store.WithShardCount(cfg.Store.ShardCount))

	reg := metric.NewRegistry()
	if err := reg.Register(metric.NewKeyspaceCollector(func() (int, int) {
		s := st.Stats()
		return s.StringKeys, s.HashKeys
	})); err != nil {
		return fmt.Errorf("register keyspace metrics: %w", err)
	}
	if err := reg.Register(buildinfo.Collector()); err != nil {
		return fmt.Errorf("register build info: %w", err)
	}

	dispatcher := redisserver.NewDispatcher(st,
		redisserver.WithDispatcherMetrics(reg),
		redisserver.WithDispatcherLogger(log.With("component", "dispatcher")))

	redisCfg := cfg.Server.Redis
	serverCfg := redisserver.Config{
		Addr:           redisCfg.Addr,
		IdleTimeout:    redisCfg.IdleTimeout,
		ReadTimeout:    redisCfg.ReadTimeout,
		WriteTimeout:   redisCfg.WriteTimeout,
		RateLimit:      redisCfg.RateLimit,
		MaxConnections: redisCfg.MaxConnections,
		Limits:         cfg.Protocol.Limits(),
	}
	redisSrv := redisserver.New(serverCfg, dispatcher,
		redisserver.WithLogger(log.With("component", "redis")),
		redisserver.WithMetrics(reg))

	shutdownHandler := shutdown.NewHandler(shutdown.DefaultTimeout, shutdown.WithLogger(log))

	var ready atomic.Bool
	stats := &keyspace{store: st, listeners: []connCounter{redisSrv}}

	redisLn, err := net.Listen("tcp", redisCfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", redisCfg.Addr, err)
	}

	serveCtx, cancelServe := context.WithCancel(ctx)
	defer cancelServe()

	go func() {
		if err := redisSrv.Serve(serveCtx, redisLn); err != nil && !errors.Is(err, redisserver.ErrServerClosed) {
			log.Error("RESP server error", "error", err)
			shutdownHandler.Trigger("resp server failed")
		}
	}()
	ready.Store(true)

	shutdownHandler.OnShutdown("resp", func(ctx context.Context) error {
		ready.Store(false)
		return redisSrv.Shutdown(ctx)
	})

	// abort stops every listener started so far through the registered
	// hooks and returns err.
	abort := func(err error) error {
		shutdownHandler.Trigger("startup failed")
		if hookErr := shutdownHandler.Wait(context.Background()); hookErr != nil {
			log.Error("shutdown error", "error", hookErr)
		}
		return err
	}

	if local := cfg.Server.Local; local.Enabled {
		localSrv := localserver.New(local.SocketPath, serverCfg, dispatcher,
			redisserver.WithLogger(log.With("component", "local")),
			redisserver.WithMetrics(reg))

		localLn, err := localSrv.Listen()
		if err != nil {
			return abort(err)
		}

		go func() {
			if err := localSrv.Serve(serveCtx, localLn); err != nil && !errors.Is(err, redisserver.ErrServerClosed) {
				log.Error("local socket server error", "error", err)
				shutdownHandler.Trigger("local server failed")
			}
		}()

		stats.listeners = append(stats.listeners, localSrv)
		shutdownHandler.OnShutdown("local", localSrv.Shutdown)
	}

	if cfg.Server.HTTP.Enabled {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Stats:   stats,
			Ready:   ready.Load,
			Metrics: reg,
			Logger:  log.With("component", "http"),
		})
		httpSrv := httpserver.New(cfg.Server.HTTP.Addr, router)

		httpLn, err := net.Listen("tcp", cfg.Server.HTTP.Addr)
		if err != nil {
			return abort(fmt.Errorf("listen %s: %w", cfg.Server.HTTP.Addr, err))
		}

		go func() {
			log.Info("HTTP server listening", "addr", httpLn.Addr().String())
			if err := httpSrv.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("HTTP server error", "error", err)
				shutdownHandler.Trigger("http server failed")
			}
		}()

		shutdownHandler.OnShutdown("http", httpSrv.Shutdown)
	}

	if configFile != "" {
		w, err := watchConfig(configFile, overrides, log)
		if err != nil {
			log.Warn("config watch disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return w.Stop()
			})
		}
	}

	log.Info("server started")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// watchConfig reloads the file on change and applies the new log level.
// Listener and store settings need a restart.
func watchConfig(path string, overrides map[string]any, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, err := loadConfig(path, overrides)
		if err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()
	return w, nil
}
