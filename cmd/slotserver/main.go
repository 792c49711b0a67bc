package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/slotserve/slotserve/internal/api"
	"github.com/slotserve/slotserve/internal/assets"
	"github.com/slotserve/slotserve/internal/config"
	"github.com/slotserve/slotserve/internal/db"
	"github.com/slotserve/slotserve/internal/destination"
	"github.com/slotserve/slotserve/internal/gate"
	"github.com/slotserve/slotserve/internal/inventory"
	"github.com/slotserve/slotserve/internal/observability"
	"github.com/slotserve/slotserve/internal/selection"
	"github.com/slotserve/slotserve/internal/slot"
	"github.com/slotserve/slotserve/internal/telemetry"
)

func main() {
	cfg := config.Load()

	logger, err := observability.InitLogger(cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(logger, cfg); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observability.MustRegister()
	metrics := observability.NewPrometheusRegistry()

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(ctx, logger, cfg.ServiceName, cfg.OTLPEndpoint, cfg.TracingSampleRate)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdown()
	}

	store, err := db.InitRedis(cfg.RedisAddr)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer store.Close()

	var reports api.ReportSource
	if cfg.PostgresDSN != "" {
		pg, err := db.InitPostgres(cfg.PostgresDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime)
		if err != nil {
			return fmt.Errorf("init postgres: %w", err)
		}
		defer pg.Close()
		reports = pg
	} else {
		logger.Warn("POSTGRES_DSN unset, reporting endpoint disabled")
	}

	source := inventory.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, logger)
	events := telemetry.NewHTTPLogger(cfg.BackendBaseURL, cfg.BackendTimeout, logger, metrics)
	images := assets.NewResolver(cfg.AssetBaseURL, cfg.PlaceholderImageURL, cfg.ErrorImageURL)
	dests := destination.NewResolver(cfg.CountryPrefix)
	selector := selection.NewRandomSelector()

	engine := slot.NewEngine(source, selector, events, images, dests, logger, metrics)

	g := gate.New(store, source, selector, logger, metrics)
	g.Cooldown = cfg.InterstitialCooldown
	g.Delay = cfg.InterstitialDelay

	srv := api.NewServer(logger, engine, g, reports, metrics, cfg)
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	events.Flush()
	return nil
}
