package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
)

// nopRepository - кеш без хранилища: всегда промах, запись игнорируется.
// Используется CLI, когда Redis недоступен.
type nopRepository struct{}

func NewNopRepository() repository.CacheRepository {
	return nopRepository{}
}

func (nopRepository) Get(context.Context, string) ([]byte, error) { return nil, nil }

func (nopRepository) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (nopRepository) Delete(context.Context, string) error { return nil }

func (nopRepository) Exists(context.Context, string) (bool, error) { return false, nil }

func (nopRepository) GetReport(context.Context, string, string) (*domain.Report, error) {
	return nil, nil
}

func (nopRepository) SetReport(context.Context, string, string, *domain.Report, time.Duration) error {
	return nil
}

func (nopRepository) GetPlace(context.Context, string) (*domain.Place, error) { return nil, nil }

func (nopRepository) SetPlace(context.Context, *domain.Place, time.Duration) error { return nil }

func (nopRepository) GetAirQuality(context.Context, domain.Coordinate) (*domain.AirQualityReading, error) {
	return nil, nil
}

func (nopRepository) SetAirQuality(context.Context, domain.Coordinate, *domain.AirQualityReading, time.Duration) error {
	return nil
}

func (nopRepository) GetJobStatus(context.Context, uuid.UUID) (*domain.JobStatus, error) {
	return nil, nil
}

func (nopRepository) SetJobStatus(context.Context, *domain.JobStatus, time.Duration) error {
	return nil
}
