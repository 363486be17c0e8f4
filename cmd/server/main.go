package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/skydeck/aeroload/internal/config"
	"github.com/skydeck/aeroload/internal/events"
	"github.com/skydeck/aeroload/internal/load"
	"github.com/skydeck/aeroload/internal/logging"
	"github.com/skydeck/aeroload/internal/pipeline"
	"github.com/skydeck/aeroload/internal/quarantine"
	"github.com/skydeck/aeroload/internal/store"
	"github.com/skydeck/aeroload/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"load_batch_size", cfg.Load.BatchSize,
		"events_enabled", cfg.Events.Enabled,
	)

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	warehouse := store.New(pool)
	sink := quarantine.NewSink(warehouse, cfg.Quarantine.FallbackPath, slog.Default())

	engine := load.NewEngine(warehouse, sink, load.Pacer{
		BatchInterval: cfg.Load.BatchInterval,
		RetryInterval: cfg.Load.RetryInterval,
	}, cfg.Load.BatchSize, slog.Default())

	pipe := pipeline.New(engine, sink, warehouse, slog.Default())

	server := web.NewServer(pipe, warehouse, cfg, slog.Default())

	var consumer *events.Consumer
	if cfg.Events.Enabled {
		consumer = events.NewConsumer(cfg.Events, warehouse, slog.Default())
		consumer.Start(ctx)
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		if consumer != nil {
			if err := consumer.Stop(); err != nil {
				slog.Warn("event consumer stop error", "error", err)
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
