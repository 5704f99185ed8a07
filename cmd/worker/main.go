package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/app"
	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/pkg/logger"
	"github.com/landcover-microservice/internal/repository/cache"
	redisRepo "github.com/landcover-microservice/internal/repository/redis"
	"github.com/landcover-microservice/internal/usecase"
	"github.com/landcover-microservice/internal/worker"
	"github.com/landcover-microservice/internal/worker/analysis"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Landcover Analysis Worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int64("batch_size", cfg.Worker.BatchSize),
		zap.Int("max_retries", cfg.Worker.MaxRetries))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Storage, cache, use cases; the worker cannot run without Redis
	stack, err := app.Build(ctx, cfg, log, app.Options{RequireRedis: true})
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer stack.Close()

	// 4. Redis Streams
	streamsClient, err := cache.NewRedisStreams(&cfg.RedisStreams, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis Streams", zap.Error(err))
	}
	defer streamsClient.Close()
	streamRepo := redisRepo.NewStreamRepository(streamsClient, log)

	jobUC := usecase.NewJobUseCase(streamRepo, stack.Cache, cfg.Cache.JobStatusTTL, log)

	// 5. Workers
	workerManager := worker.NewWorkerManager(worker.DefaultShutdownTimeout, log)
	if err := workerManager.Register(analysis.NewAnalysisWorker(
		streamRepo,
		stack.Analysis,
		jobUC,
		cfg.Worker.ConsumerGroup,
		int(cfg.Worker.BatchSize),
		cfg.Worker.MaxRetries,
		log,
	)); err != nil {
		log.Fatal("Failed to register worker", zap.Error(err))
	}

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 6. Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Stop first so the current job is finished and acked, then cancel
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
