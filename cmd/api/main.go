package main

// @title Landcover Microservice API
// @version 1.0.0
// @description Классификация спутниковых снимков по цветовым диапазонам HSV и расчёт количества деревьев для посадки.
// @description
// @description Основные возможности:
// @description - Калибровка HSV-диапазонов по эталонным снимкам леса, полей и дорог
// @description - Анализ места по названию (геокодирование, снимок ArcGIS, индекс качества воздуха WAQI)
// @description - Анализ загруженного снимка
// @description - PNG-оверлей с раскраской классов
// @description - Асинхронные задачи через Redis Streams

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/landcover-microservice/docs"
	"github.com/landcover-microservice/internal/app"
	"github.com/landcover-microservice/internal/config"
	httpDelivery "github.com/landcover-microservice/internal/delivery/http"
	"github.com/landcover-microservice/internal/delivery/http/handler"
	"github.com/landcover-microservice/internal/pkg/logger"
	"github.com/landcover-microservice/internal/repository/cache"
	redisRepo "github.com/landcover-microservice/internal/repository/redis"
	"github.com/landcover-microservice/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Landcover Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("planting_policy", cfg.Analysis.PlantingPolicy),
		zap.Bool("air_quality", cfg.AirQuality.Enabled),
	)

	// 3. Storage, cache, lookup, use cases
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	stack, err := app.Build(ctx, cfg, log, app.Options{})
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer stack.Close()

	// 4. Jobs (Redis Streams) - only when Redis is reachable
	var jobHandler *handler.JobHandler
	if stack.Redis != nil {
		streamsClient, err := cache.NewRedisStreams(&cfg.RedisStreams, log)
		if err != nil {
			log.Warn("Redis Streams unavailable, async jobs disabled", zap.Error(err))
		} else {
			defer streamsClient.Close()
			streamRepo := redisRepo.NewStreamRepository(streamsClient, log)
			jobUC := usecase.NewJobUseCase(streamRepo, stack.Cache, cfg.Cache.JobStatusTTL, log)
			jobHandler = handler.NewJobHandler(jobUC, log)
		}
	}

	// 5. Health checks
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	if err := stack.Health(ctx); err != nil {
		log.Fatal("Health check failed", zap.Error(err))
	}
	cancel()

	// 6. HTTP handlers and server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewAnalysisHandler(stack.Analysis, log),
		handler.NewCalibrationHandler(stack.Calibration, log),
		jobHandler,
	)

	// 7. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.Bool("jobs", jobHandler != nil),
	)

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
