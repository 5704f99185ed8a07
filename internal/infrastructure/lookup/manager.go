package lookup

import (
	"context"
	"fmt"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/infrastructure/arcgis"
	"github.com/landcover-microservice/internal/infrastructure/mapbox"
	"github.com/landcover-microservice/internal/infrastructure/photon"
	"github.com/landcover-microservice/internal/infrastructure/waqi"
	"go.uber.org/zap"
)

// Manager собирает геокодер, источник снимков и источник качества воздуха в один LookupProvider
type Manager struct {
	geocoder   repository.Geocoder
	imagery    repository.ImageryProvider
	airQuality repository.AirQualityProvider
	logger     *zap.Logger
}

var _ repository.LookupProvider = (*Manager)(nil)

// NewManager; airQuality может быть nil
func NewManager(
	geocoder repository.Geocoder,
	imagery repository.ImageryProvider,
	airQuality repository.AirQualityProvider,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		geocoder:   geocoder,
		imagery:    imagery,
		airQuality: airQuality,
		logger:     logger,
	}
}

// NewFromConfig создает Manager с HTTP-клиентами Photon, ArcGIS (или Mapbox) и WAQI
func NewFromConfig(cfg *config.Config, logger *zap.Logger) *Manager {
	var imageryProvider repository.ImageryProvider
	switch cfg.Imagery.Provider {
	case config.ImageryProviderMapbox:
		imageryProvider = mapbox.NewClient(&cfg.Mapbox, &cfg.Imagery, logger)
	default:
		imageryProvider = arcgis.NewClient(&cfg.Imagery, logger)
	}
	logger.Info("Imagery provider selected", zap.String("provider", cfg.Imagery.Provider))

	var aq repository.AirQualityProvider
	if cfg.AirQuality.Enabled {
		aq = waqi.NewClient(&cfg.AirQuality, logger)
	} else {
		logger.Info("Air quality provider disabled, AQI policy unavailable")
	}

	return NewManager(
		photon.NewClient(&cfg.Geocoder, logger),
		imageryProvider,
		aq,
		logger,
	)
}

func (m *Manager) FindCoordinates(ctx context.Context, place string) (*domain.Place, error) {
	return m.geocoder.FindCoordinates(ctx, place)
}

func (m *Manager) FindPhoto(ctx context.Context, center domain.Coordinate) (*domain.Photo, error) {
	return m.imagery.FindPhoto(ctx, center)
}

// FindAirPollutionIndex возвращает domain.ErrAirQualityUnavailable, если провайдер не настроен
func (m *Manager) FindAirPollutionIndex(ctx context.Context, c domain.Coordinate) (*domain.AirQualityReading, error) {
	if m.airQuality == nil {
		return nil, domain.ErrAirQualityUnavailable
	}
	return m.airQuality.FindAirPollutionIndex(ctx, c)
}

// GetPhotoByPlace геокодирует место и загружает снимок вокруг него
func (m *Manager) GetPhotoByPlace(ctx context.Context, place string) (*domain.Place, *domain.Photo, error) {
	p, err := m.FindCoordinates(ctx, place)
	if err != nil {
		return nil, nil, err
	}

	photo, err := m.FindPhoto(ctx, p.Location)
	if err != nil {
		return p, nil, fmt.Errorf("photo for (%f, %f): %w", p.Location.Lat, p.Location.Lon, err)
	}

	m.logger.Debug("Photo resolved by place",
		zap.String("place", place),
		zap.Int("width", photo.Width),
		zap.Int("height", photo.Height))

	return p, photo, nil
}
