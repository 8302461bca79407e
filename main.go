package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"catalog/internal/app"
	"catalog/internal/config"
	"catalog/internal/logger"
	"catalog/internal/seed"
	"catalog/internal/services"
	"catalog/internal/storage"
	"catalog/pkg/rabbitmq"

	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Logging ---
	zlog, err := logger.Initialize(cfg.AppEnv)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		zlog.Fatal("Failed to open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			zlog.Error("Failed to close storage", zap.Error(err))
		}
	}()

	if cfg.SeedOnStart {
		if _, err := seed.Run(ctx, store.Products, store.Users); err != nil {
			zlog.Error("Failed to seed demo data", zap.Error(err))
		}
	}

	// --- Product events (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			zlog.Fatal("Failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()

		if err := mqClient.ConsumeProductEvents(rabbitmq.LogProductEvent); err != nil {
			zlog.Error("Failed to start product event consumer", zap.Error(err))
		}
		publisher = mqClient
	} else {
		zlog.Info("RABBITMQ_URL is empty; product events are disabled")
	}

	// --- HTTP server ---
	server := app.New(cfg, store, publisher)

	serverErr := make(chan error, 1)
	go func() {
		zlog.Info("Starting server", zap.String("addr", cfg.AppPort), zap.String("storage", cfg.StorageDriver))
		serverErr <- server.Listen(cfg.AppPort)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			zlog.Error("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zlog.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			zlog.Error("Error during Fiber shutdown", zap.Error(err))
		}
	}

	zlog.Info("Server gracefully stopped")
}
