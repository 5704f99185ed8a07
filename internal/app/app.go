// Package app собирает общие зависимости сервиса: хранилище, кеш, внешние источники и use cases.
// Используется всеми бинарями из cmd/.
package app

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/infrastructure/lookup"
	"github.com/landcover-microservice/internal/infrastructure/opencv"
	"github.com/landcover-microservice/internal/landcover"
	"github.com/landcover-microservice/internal/repository/blob"
	"github.com/landcover-microservice/internal/repository/cache"
	"github.com/landcover-microservice/internal/repository/filestorage"
	"github.com/landcover-microservice/internal/repository/postgres"
	"github.com/landcover-microservice/internal/usecase"
)

// Options - что обязательно для конкретного бинаря
type Options struct {
	// RequireRedis - без Redis запуск невозможен (worker); иначе используется кеш-заглушка
	RequireRedis bool
}

// Stack - собранные зависимости
type Stack struct {
	Config *config.Config
	Logger *zap.Logger

	DB     *postgres.DB // nil для STORAGE_BACKEND=file
	Redis  *cache.Redis // nil, если Redis недоступен
	Store  *blob.Store
	Cache  repository.CacheRepository
	Lookup repository.LookupProvider

	Calibration *usecase.CalibrationUseCase
	Analysis    *usecase.AnalysisUseCase
}

// Build подключается к хранилищу и кешу, выбирает активный профиль калибровки
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*Stack, error) {
	s := &Stack{Config: cfg, Logger: log}

	// 1. Хранилище документов и профилей
	var (
		storage  repository.BlobStorage
		profiles repository.ProfileRepository
	)
	switch cfg.Storage.Backend {
	case config.StorageBackendPostgres:
		db, err := postgres.New(ctx, &cfg.Database, log)
		if err != nil {
			return nil, err
		}
		s.DB = db
		storage = postgres.NewBlobRepository(db, log)
		s.Store = blob.NewStore(storage, log)
		profiles = postgres.NewProfileRepository(db, log)
	default:
		fs, err := filestorage.NewOS(cfg.Storage.Dir, log)
		if err != nil {
			return nil, err
		}
		storage = fs
		s.Store = blob.NewStore(storage, log)
		profiles = blob.NewProfileRepository(s.Store, log)
	}
	log.Info("Storage initialized", zap.String("backend", cfg.Storage.Backend))

	// 2. Кеш
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	switch {
	case err == nil:
		s.Redis = redisClient
		s.Cache = cache.NewCacheRepository(redisClient)
	case opts.RequireRedis:
		s.Close()
		return nil, err
	default:
		log.Warn("Redis unavailable, caching disabled", zap.Error(err))
		s.Cache = cache.NewNopRepository()
	}

	// 3. Внешние источники: снимки, геокодер, качество воздуха
	s.Lookup = lookup.NewFromConfig(cfg, log)

	// 4. Use cases
	s.Calibration = usecase.NewCalibrationUseCase(profiles, afero.NewOsFs(), &cfg.Calibration, log)
	if err := s.Calibration.Bootstrap(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("calibration bootstrap: %w", err)
	}

	s.Analysis = usecase.NewAnalysisUseCase(s.Lookup, s.Cache, s.Store, s.Calibration, cfg, smoothingFilter(cfg, log), log)

	return s, nil
}

// smoothingFilter - OpenCV-фильтр, если он нужен и собран
func smoothingFilter(cfg *config.Config, log *zap.Logger) landcover.ImageFilter {
	if cfg.Analysis.MaskSmoothing != "bilateral" {
		return nil
	}
	f, err := opencv.NewBilateralFilter()
	if err != nil {
		log.Warn("OpenCV filter unavailable", zap.Error(err))
		return nil
	}
	return f
}

// Health проверяет подключения
func (s *Stack) Health(ctx context.Context) error {
	if s.DB != nil {
		if err := s.DB.Health(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close закрывает подключения
func (s *Stack) Close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			s.Logger.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}
}
