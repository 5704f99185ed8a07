package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/landcover-microservice/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу; промах возвращает nil, nil
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetReport получает отчёт по месту и профилю калибровки
	GetReport(ctx context.Context, place, profileID string) (*domain.Report, error)

	// SetReport сохраняет отчёт
	SetReport(ctx context.Context, place, profileID string, report *domain.Report, ttl time.Duration) error

	// GetPlace получает результат геокодирования
	GetPlace(ctx context.Context, place string) (*domain.Place, error)

	// SetPlace сохраняет результат геокодирования
	SetPlace(ctx context.Context, place *domain.Place, ttl time.Duration) error

	// GetAirQuality получает показания качества воздуха по координате
	GetAirQuality(ctx context.Context, c domain.Coordinate) (*domain.AirQualityReading, error)

	// SetAirQuality сохраняет показания качества воздуха
	SetAirQuality(ctx context.Context, c domain.Coordinate, reading *domain.AirQualityReading, ttl time.Duration) error

	// GetJobStatus получает статус задачи анализа
	GetJobStatus(ctx context.Context, jobID uuid.UUID) (*domain.JobStatus, error)

	// SetJobStatus сохраняет статус задачи анализа
	SetJobStatus(ctx context.Context, status *domain.JobStatus, ttl time.Duration) error
}
