package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"musafir/internal/config"
	"musafir/internal/logger"
	"musafir/internal/worker"
)

func main() {
	cfg := config.Load()
	cfg.NATS.ClientID = "musafir-worker"
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	w, err := worker.New(cfg)
	if err != nil {
		logger.Fatal("Failed to create worker", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		logger.Fatal("Failed to start worker", "error", err)
	}

	logger.Get().Info("Worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("Shutting down worker...")
	cancel()
	w.Shutdown()
	logger.Get().Info("Worker stopped")
}
