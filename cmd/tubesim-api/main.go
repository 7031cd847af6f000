package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubesim/internal/api"
	"tubesim/internal/auth"
	"tubesim/internal/cache"
	"tubesim/internal/config"
	"tubesim/internal/db"
	"tubesim/internal/game"
	"tubesim/internal/studio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if cfg.RunMigrations {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	c := cache.New(cfg.RedisURL, logger)
	defer c.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	contentStudio := studio.NewOffline(time.Now().UnixNano())
	engine := game.NewEngine(rng, logger)
	gameSvc := game.NewService(pool, logger, engine, contentStudio)
	authSvc := auth.NewService(pool, cfg.AuthSecret, cfg.SessionExpiry)

	server := api.New(cfg, logger, authSvc, gameSvc, contentStudio, c)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("tubesim api listening", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
