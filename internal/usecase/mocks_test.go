package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/landcover-microservice/internal/domain"
)

// MockLookupProvider - мок внешних источников данных
type MockLookupProvider struct {
	mock.Mock
}

func (m *MockLookupProvider) FindCoordinates(ctx context.Context, place string) (*domain.Place, error) {
	args := m.Called(ctx, place)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

func (m *MockLookupProvider) FindPhoto(ctx context.Context, center domain.Coordinate) (*domain.Photo, error) {
	args := m.Called(ctx, center)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Photo), args.Error(1)
}

func (m *MockLookupProvider) FindAirPollutionIndex(ctx context.Context, c domain.Coordinate) (*domain.AirQualityReading, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AirQualityReading), args.Error(1)
}

// MockCacheRepository - мок кеша
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetReport(ctx context.Context, place, profileID string) (*domain.Report, error) {
	args := m.Called(ctx, place, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockCacheRepository) SetReport(ctx context.Context, place, profileID string, report *domain.Report, ttl time.Duration) error {
	return m.Called(ctx, place, profileID, report, ttl).Error(0)
}

func (m *MockCacheRepository) GetPlace(ctx context.Context, place string) (*domain.Place, error) {
	args := m.Called(ctx, place)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

func (m *MockCacheRepository) SetPlace(ctx context.Context, place *domain.Place, ttl time.Duration) error {
	return m.Called(ctx, place, ttl).Error(0)
}

func (m *MockCacheRepository) GetAirQuality(ctx context.Context, c domain.Coordinate) (*domain.AirQualityReading, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AirQualityReading), args.Error(1)
}

func (m *MockCacheRepository) SetAirQuality(ctx context.Context, c domain.Coordinate, reading *domain.AirQualityReading, ttl time.Duration) error {
	return m.Called(ctx, c, reading, ttl).Error(0)
}

func (m *MockCacheRepository) GetJobStatus(ctx context.Context, id uuid.UUID) (*domain.JobStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobStatus), args.Error(1)
}

func (m *MockCacheRepository) SetJobStatus(ctx context.Context, status *domain.JobStatus, ttl time.Duration) error {
	return m.Called(ctx, status, ttl).Error(0)
}

// MockStreamRepository - мок Redis Streams
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	return m.Called(ctx, stream, group, messageID).Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	return m.Called(ctx, stream, group, messageIDs).Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	return m.Called(ctx, stream, group).Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}
