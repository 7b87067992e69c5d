package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/predictdash/predict-relay/internal/api"
	"github.com/predictdash/predict-relay/internal/config"
	"github.com/predictdash/predict-relay/internal/database"
	"github.com/predictdash/predict-relay/internal/i18n"
	"github.com/predictdash/predict-relay/internal/market"
	"github.com/predictdash/predict-relay/internal/poller"
	"github.com/predictdash/predict-relay/internal/relay"
	"github.com/predictdash/predict-relay/internal/stream"
	"github.com/predictdash/predict-relay/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional, environment overrides apply)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting relay",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	if err := config.LoadDotEnv(); err != nil {
		logger.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upstream", cfg.Upstream.BaseURL,
		"journal", cfg.Journal.Enabled(),
		"metrics", cfg.Metrics.Enabled,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	journal, err := database.Open(ctx, cfg.Journal, logger)
	if err != nil {
		logger.Error("failed to open order journal", "error", err)
		os.Exit(1)
	}
	defer journal.Close()

	apiClient := api.NewClient(
		cfg.Upstream.BaseURL,
		cfg.Upstream.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Upstream.Timeout),
		api.WithRetries(cfg.Upstream.Retries(), cfg.Upstream.RetryBackoff),
		api.WithRateLimit(cfg.Upstream.RateLimit, cfg.Upstream.RateBurst),
	)

	details := market.NewDetails(apiClient, market.Config{
		Concurrency: cfg.Details.Concurrency,
		CacheTTL:    cfg.Details.CacheTTL,
	}, logger)

	hubCfg := stream.DefaultConfig()
	hubCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	hub := stream.NewHub(hubCfg, logger)
	defer hub.Close()

	// The hub is both the poller's market source and its snapshot sink.
	orderbookPoller := poller.New(poller.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		Timeout:     cfg.Poller.Timeout,
	}, apiClient, hub, hub, logger)
	if err := orderbookPoller.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	relayCfg := relay.Config{AllowedOrigins: cfg.Server.AllowedOrigins}
	if cfg.Metrics.Enabled {
		relayCfg.MetricsPath = cfg.Metrics.Path
	}

	gin.SetMode(gin.ReleaseMode)
	server := relay.New(relayCfg, relay.Deps{
		Upstream:   apiClient,
		Details:    details,
		Hub:        hub,
		Journal:    journal,
		Translator: i18n.New(nil, cfg.Locale.Default),
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("relay listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
	if err := orderbookPoller.Stop(shutdownCtx); err != nil {
		logger.Error("poller shutdown", "error", err)
	}

	logger.Info("relay stopped")
}
