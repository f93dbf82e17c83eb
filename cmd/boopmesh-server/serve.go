package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/boopmesh/internal/core/presence"
	"github.com/yndnr/boopmesh/internal/core/service"
	"github.com/yndnr/boopmesh/internal/infra/buildinfo"
	"github.com/yndnr/boopmesh/internal/infra/confloader"
	"github.com/yndnr/boopmesh/internal/infra/credfile"
	"github.com/yndnr/boopmesh/internal/infra/shutdown"
	"github.com/yndnr/boopmesh/internal/infra/tlsroots"
	"github.com/yndnr/boopmesh/internal/server/boopserver"
	"github.com/yndnr/boopmesh/internal/server/config"
	"github.com/yndnr/boopmesh/internal/server/httpserver"
	"github.com/yndnr/boopmesh/internal/storage/memory"
	"github.com/yndnr/boopmesh/internal/telemetry/logger"
	"github.com/yndnr/boopmesh/internal/telemetry/metric"
)

const shutdownTimeout = 10 * time.Second

func serveAction(c *cli.Context) error {
	overrides, err := flagOverrides(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c.String("config"), overrides)
	if err != nil {
		return err
	}
	return run(c.Context, cfg)
}

// loadConfig layers defaults, file, environment and overrides, then verifies.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	opts := []confloader.Option{confloader.WithDefaults(config.Default())}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	loader := confloader.NewLoader(opts...)
	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, fmt.Errorf("apply flags: %w", err)
		}
	}

	cfg := &config.ServerConfig{}
	if err := loader.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.ServerConfig) error {
	log, closeLog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
		File:   cfg.Log.File,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting boopmesh-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", config.Sanitize(cfg))

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metric.New(reg)

	// Credentials
	store := memory.NewCredentialStore()
	n, err := credfile.LoadInto(cfg.Credentials.File, store)
	m.ObserveReload(n, err)
	if err != nil {
		return err
	}
	log.Info("credentials loaded", "file", cfg.Credentials.File, "count", n)
	creds := service.NewCredentialService(store, log)

	sh := shutdown.NewHandler(shutdownTimeout, log)

	if cfg.Credentials.Watch {
		reloader, err := credfile.NewReloader(cfg.Credentials.File, store, log)
		if err != nil {
			return fmt.Errorf("watch credentials: %w", err)
		}
		reloader.OnReload = m.ObserveReload
		reloader.Start()
		sh.OnShutdown("credential reloader", func(context.Context) error {
			return reloader.Stop()
		})
	}

	// Boop listener
	registry := presence.New()
	reg.MustRegister(metric.NewPresenceCollector(registry.Count))

	boopCfg := &boopserver.Config{
		Addr:          cfg.Server.Boop.Addr,
		IdleTimeout:   cfg.Server.Boop.IdleTimeout,
		WriteTimeout:  cfg.Server.Boop.WriteTimeout,
		MaxLineBytes:  cfg.Server.Boop.MaxLineBytes,
		OutboundQueue: cfg.Server.Boop.OutboundQueue,
	}
	if cfg.Server.Boop.TLSEnabled() {
		certs, err := tlsroots.NewWatcher(cfg.Server.Boop.TLSCertFile, cfg.Server.Boop.TLSKeyFile,
			tlsroots.WithLogger(log))
		if err != nil {
			return fmt.Errorf("load certificate: %w", err)
		}
		if err := certs.Start(); err != nil {
			return fmt.Errorf("watch certificate: %w", err)
		}
		sh.OnShutdown("certificate watcher", func(context.Context) error {
			return certs.Stop()
		})
		boopCfg.TLSConfig = certs.ServerConfig()
	} else {
		log.Warn("serving boop protocol without TLS; passwords travel in clear text")
	}

	// Ops HTTP
	if cfg.Server.HTTP.Enabled {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Gatherer: reg,
			Online:   registry.Count,
			Version:  info.Version,
			Logger:   log,
		})
		ops := httpserver.New(cfg.Server.HTTP.Addr, router, log)
		if err := ops.Start(); err != nil {
			return fmt.Errorf("start http server: %w", err)
		}
		sh.OnShutdown("http server", ops.Shutdown)
	}

	srvCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boop := boopserver.New(boopCfg, creds, registry, m, log)
	if err := boop.Start(srvCtx); err != nil {
		sh.Trigger()
		return errors.Join(fmt.Errorf("start boop server: %w", err), sh.Wait(ctx))
	}
	// Registered last so it runs first: sessions hear NOT_AVAILABLE before
	// anything else goes away.
	sh.OnShutdown("boop server", boop.Shutdown)

	log.Info("server started, press Ctrl+C to stop")
	if err := sh.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}
