package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/orbitview-api/internal/config"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/middleware/ratelimit"
	"github.com/gravadigital/orbitview-api/internal/server"
	"github.com/gravadigital/orbitview-api/internal/storage"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Server.LogLevel)
	log := logger.Get()

	factory, err := storage.FromConfig(cfg)
	if err != nil {
		log.Fatal("Invalid storage configuration", "error", err)
	}

	repos, err := factory.CreateContainer(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage", "error", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Error("Failed to close storage", "error", err)
		}
	}()

	limiter, closeLimiter := ratelimit.New(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() {
		if err := closeLimiter(); err != nil {
			log.Error("Failed to close rate limiter", "error", err)
		}
	}()

	srv := server.New(cfg, repos, limiter)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server stopped", "error", err)
		}
		return
	case sig := <-quit:
		log.Info("Received shutdown signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
	log.Info("Server exited")
}
