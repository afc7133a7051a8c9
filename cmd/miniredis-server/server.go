package main

import (
	"context"
	"fmt"

	"github.com/yndnr/miniredis-go/internal/infra/buildinfo"
	"github.com/yndnr/miniredis-go/internal/infra/confloader"
	"github.com/yndnr/miniredis-go/internal/infra/shutdown"
	"github.com/yndnr/miniredis-go/internal/server/config"
	"github.com/yndnr/miniredis-go/internal/server/httpserver"
	"github.com/yndnr/miniredis-go/internal/server/httpserver/handler"
	"github.com/yndnr/miniredis-go/internal/server/redisserver"
	"github.com/yndnr/miniredis-go/internal/storage/memory"
	"github.com/yndnr/miniredis-go/internal/telemetry/logger"
	"github.com/yndnr/miniredis-go/internal/telemetry/metric"
)

func run(ctx context.Context, configFile string, overrides map[string]any) error {
	loader := newLoader(configFile, overrides)

	cfg, err := loadConfig(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting miniredis-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	store := memory.New()

	// Metrics are only collected when there is an HTTP listener to
	// expose them.
	var (
		rec      metric.Recorder = metric.Nop()
		registry *metric.Registry
	)
	if cfg.Server.HTTP.Addr != "" {
		registry = metric.NewRegistry()
		registry.MustRegister(metric.NewCollector(store))
		rec = registry
	}

	dispatcher := redisserver.NewDispatcher(store, rec)
	redisSrv := redisserver.New(cfg.RedisServer(), dispatcher, rec, log.With("component", "redis"))

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, shutdown.WithLogger(log))

	// Hooks run in reverse order, so the RESP listener registered first
	// stops last.
	if err := redisSrv.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}
	shutdownHandler.OnShutdown("redis server", redisSrv.Shutdown)

	if cfg.Server.HTTP.Addr != "" {
		httpSrv, err := startHTTP(cfg, store, registry, redisSrv, log)
		if err != nil {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			_ = redisSrv.Shutdown(stopCtx)
			return err
		}
		shutdownHandler.OnShutdown("http server", httpSrv.Shutdown)
	}

	reload := func() {
		next, err := reloadConfig(loader)
		if err != nil {
			log.Error("configuration reload failed", "error", err)
			return
		}
		if next.Log.Level != logger.GetLevel() {
			logger.SetLevel(next.Log.Level)
			log.Info("log level changed", "level", next.Log.Level)
		}
	}
	shutdownHandler.OnReload(reload)

	if path := loader.FilePath(); path != "" {
		watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
		if err != nil {
			log.Warn("configuration watcher unavailable", "error", err)
		} else if err := watcher.Watch(path); err != nil {
			log.Warn("cannot watch configuration file", "file", path, "error", err)
			_ = watcher.Stop()
		} else {
			watcher.OnChange(func(string) { reload() })
			watcher.StartAsync()
			shutdownHandler.OnShutdown("config watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	go func() {
		select {
		case <-ctx.Done():
			shutdownHandler.Trigger()
		case <-shutdownHandler.Done():
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

func newLoader(configFile string, overrides map[string]any) *confloader.Loader {
	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	if len(overrides) > 0 {
		opts = append(opts, confloader.WithOverrides(overrides))
	}
	return confloader.NewLoader(opts...)
}

// loadConfig loads configuration from defaults, file, environment and
// flag overrides, in increasing precedence.
func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func reloadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Reload(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func startHTTP(
	cfg *config.ServerConfig,
	store *memory.Store,
	registry *metric.Registry,
	redisSrv *redisserver.Server,
	log logger.Logger,
) (*httpserver.Server, error) {
	httpLog := log.With("component", "http")

	health := handler.New(store,
		handler.WithLogger(httpLog),
		handler.WithReadiness(redisSrv.Running),
	)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Health:           health,
		Metrics:          registry.Handler(),
		Logger:           httpLog,
		MetricsToken:     cfg.Server.HTTP.AuthToken,
		MetricsAllowList: cfg.Server.HTTP.AllowList,
		EnableAccessLog:  logger.GetLevel() == "debug",
	})

	srv := httpserver.New(cfg.Server.HTTP.Addr, router)
	if err := srv.Start(func(err error) {
		httpLog.Error("HTTP server error", "error", err)
	}); err != nil {
		return nil, fmt.Errorf("start http server: %w", err)
	}
	httpLog.Info("HTTP server listening", "address", srv.Addr().String())
	return srv, nil
}
