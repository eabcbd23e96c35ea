package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/openarchive/depot/pkg/api"
	"github.com/openarchive/depot/pkg/config"
	"github.com/openarchive/depot/pkg/httputil"
	"github.com/openarchive/depot/pkg/middleware"
	"github.com/openarchive/depot/pkg/observability"
	"github.com/openarchive/depot/pkg/query"
	"github.com/openarchive/depot/pkg/resource"
	"github.com/openarchive/depot/pkg/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.WithFields(map[string]interface{}{
		"port":    cfg.Server.Port,
		"storage": cfg.Storage.Type,
	}).Info("Starting depot server")

	promRegistry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promRegistry)

	registry := resource.NewRegistry()
	if err := resource.RegisterBuiltin(registry); err != nil {
		logger.WithError(err).Error("Failed to register resource types")
		os.Exit(1)
	}

	source, err := storage.NewSource(cfg.Storage, registry, metrics)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize storage")
		os.Exit(1)
	}

	engine := query.NewEngine(registry, source)
	server := api.NewServer(engine, logger, metrics)

	// Middleware chain, outermost first
	mws := []func(http.Handler) http.Handler{
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.RecoveryMiddleware(logger),
		httputil.ContentTypeMiddleware,
		httputil.MaxBytesMiddleware(1 << 20),
	}
	if cfg.Observability.MetricsEnabled {
		mws = append(mws, observability.HTTPMetricsMiddleware(metrics))
	}
	var keyring *middleware.Keyring
	if cfg.Auth.Enabled {
		keyring, err = middleware.LoadKeyring(cfg.Auth.KeyFile, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to load API key file")
			os.Exit(1)
		}
		if err := keyring.Watch(); err != nil {
			logger.WithError(err).Error("Failed to watch API key file")
			os.Exit(1)
		}
		mws = append(mws, middleware.ApiKeyMiddleware(keyring, cfg.Auth.Optional))
	}
	if cfg.Server.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(&middleware.RateLimitConfig{
			RequestsPerWindow: cfg.Server.RateLimitPerMin,
			WindowDuration:    time.Minute,
		})
		mws = append(mws, limiter.Middleware)
	}
	mws = append(mws, httputil.TimeoutMiddleware(cfg.Server.QueryTimeout))
	handler := httputil.Chain(mws...)(server.Router())

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics on a separate port for probes
	healthMux := http.NewServeMux()
	checker := observability.NewHealthChecker(map[string]observability.CheckFunc{
		"storage": source.HealthCheck,
	})
	observability.RegisterHealthEndpoints(healthMux, checker)
	if cfg.Observability.MetricsEnabled {
		observability.RegisterMetricsEndpoint(healthMux, promRegistry)
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	monitor, err := storage.NewMonitor(source, registry, metrics, logger, cfg.Observability.MonitorSchedule)
	if err != nil {
		logger.WithError(err).Error("Failed to create record count monitor")
		os.Exit(1)
	}
	monitor.Start()

	var group errgroup.Group
	group.Go(func() error {
		logger.WithField("addr", httpServer.Addr).Info("API server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("Health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc("health server", func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})
	shutdown.RegisterShutdownFunc("record count monitor", func(ctx context.Context) error {
		monitor.Stop()
		return nil
	})
	shutdown.RegisterShutdownFunc("storage", func(ctx context.Context) error {
		return source.Close()
	})
	if keyring != nil {
		shutdown.RegisterShutdownFunc("api keyring", func(ctx context.Context) error {
			return keyring.Close()
		})
	}

	group.Go(shutdown.WaitForShutdown)

	if err := group.Wait(); err != nil {
		logger.WithError(err).Error("Server exited with error")
		os.Exit(1)
	}
}
