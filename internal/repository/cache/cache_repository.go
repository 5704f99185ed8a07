package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return newCacheRepository(redis.Client(), redis.logger)
}

func newCacheRepository(client *redis.Client, logger *zap.Logger) *cacheRepository {
	return &cacheRepository{
		client: client,
		logger: logger,
	}
}

// Cache keys
func ReportKey(place, profileID string) string {
	if profileID == "" {
		profileID = "default"
	}
	return fmt.Sprintf("report:%s:%s", utils.NormalizePlace(place), profileID)
}

func PlaceKey(place string) string {
	return "coords:" + utils.NormalizePlace(place)
}

// AirQualityKey rounds to ~100 m so nearby requests share a reading.
func AirQualityKey(c domain.Coordinate) string {
	return fmt.Sprintf("aqi:%.3f:%.3f", c.Lat, c.Lon)
}

func JobKey(id uuid.UUID) string {
	return "job:" + id.String()
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// getJSON декодирует значение по ключу; false означает промах
func (r *cacheRepository) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.Error("Failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (r *cacheRepository) setJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		r.logger.Error("Failed to marshal cache value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return r.Set(ctx, key, data, ttl)
}

// GetReport получает отчёт из кеша
func (r *cacheRepository) GetReport(ctx context.Context, place, profileID string) (*domain.Report, error) {
	var report domain.Report
	ok, err := r.getJSON(ctx, ReportKey(place, profileID), &report)
	if !ok {
		return nil, err
	}
	return &report, nil
}

// SetReport сохраняет отчёт в кеше
func (r *cacheRepository) SetReport(ctx context.Context, place, profileID string, report *domain.Report, ttl time.Duration) error {
	return r.setJSON(ctx, ReportKey(place, profileID), report, ttl)
}

func (r *cacheRepository) GetPlace(ctx context.Context, place string) (*domain.Place, error) {
	var p domain.Place
	ok, err := r.getJSON(ctx, PlaceKey(place), &p)
	if !ok {
		return nil, err
	}
	return &p, nil
}

func (r *cacheRepository) SetPlace(ctx context.Context, place *domain.Place, ttl time.Duration) error {
	return r.setJSON(ctx, PlaceKey(place.Name), place, ttl)
}

func (r *cacheRepository) GetAirQuality(ctx context.Context, c domain.Coordinate) (*domain.AirQualityReading, error) {
	var reading domain.AirQualityReading
	ok, err := r.getJSON(ctx, AirQualityKey(c), &reading)
	if !ok {
		return nil, err
	}
	return &reading, nil
}

func (r *cacheRepository) SetAirQuality(ctx context.Context, c domain.Coordinate, reading *domain.AirQualityReading, ttl time.Duration) error {
	return r.setJSON(ctx, AirQualityKey(c), reading, ttl)
}

// GetJobStatus получает статус задачи из кеша
func (r *cacheRepository) GetJobStatus(ctx context.Context, jobID uuid.UUID) (*domain.JobStatus, error) {
	var status domain.JobStatus
	ok, err := r.getJSON(ctx, JobKey(jobID), &status)
	if !ok {
		return nil, err
	}
	return &status, nil
}

// SetJobStatus сохраняет статус задачи в кеше
func (r *cacheRepository) SetJobStatus(ctx context.Context, status *domain.JobStatus, ttl time.Duration) error {
	return r.setJSON(ctx, JobKey(status.JobID), status, ttl)
}
