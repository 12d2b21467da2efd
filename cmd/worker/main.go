package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"poll-service/internal/adapters/kafka"
	"poll-service/internal/config"
	"poll-service/internal/database"
	"poll-service/internal/vote"
)

// The worker consumes vote events and re-warms the cached tallies so
// result reads stay fast during voting bursts.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting tally worker")

	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	redisClient, err := database.NewRedisConnection(&cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	voteRepo := vote.NewRepository(db)
	tallyCache := vote.NewTallyCache(redisClient.GetClient(), cfg.Poll.ResultsCacheTTL)
	voteService := vote.NewService(voteRepo, tallyCache, nil)

	consumer := kafka.NewConsumer(&cfg.Kafka, voteService)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("Worker shutting down...")
		cancel()
	}()

	if err := consumer.Run(ctx); err != nil {
		slog.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}

	slog.Info("Worker stopped")
}
