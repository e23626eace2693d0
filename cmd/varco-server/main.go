package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/varcoaccess/varco/internal/config"
	"github.com/varcoaccess/varco/internal/db"
	"github.com/varcoaccess/varco/internal/httpapi"
	"github.com/varcoaccess/varco/internal/varco/service"
	"github.com/varcoaccess/varco/internal/varco/store"
	"github.com/varcoaccess/varco/internal/varco/store/sqlite"
)

func main() {
	cfg := config.FromEnv()
	logger := newLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		logger.Error("open database", "path", cfg.DBPath, "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, conn, db.SeedDevOptions{}); err != nil {
			logger.Error("seed dev database", "err", err)
			os.Exit(1)
		}
	}

	writer := db.NewWorker(conn)
	defer writer.Close()

	stores := store.Stores{
		Gates:          sqlite.NewGateStore(conn, writer),
		Badges:         sqlite.NewBadgeStore(conn, writer),
		Authorizations: sqlite.NewAuthorizationStore(conn, writer),
		Transits:       sqlite.NewTransitStore(conn, writer),
		Users:          sqlite.NewUserStore(conn, writer),
	}

	authzSvc := service.NewAuthorizationService(stores, logger)
	transitSvc := service.NewTransitService(stores, service.SuspensionPolicy{
		Threshold: cfg.SuspendThreshold,
		Window:    cfg.SuspendWindow,
	}, logger)
	statsSvc := service.NewStatsService(stores, logger)

	pruner := service.NewTransitPruner(stores.Transits, service.PrunerConfig{
		RetentionDays: cfg.TransitRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
	}, logger)
	pruner.Start(ctx)
	defer pruner.Stop()

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:         logger,
		Addr:           cfg.HTTPAddr,
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.TokenTTL,
		Stores:         stores,
		Authorizations: authzSvc,
		Transits:       transitSvc,
		Stats:          statsSvc,
	})

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

func newLogger(env string) *slog.Logger {
	if env == "dev" {
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
