package repository

import (
	"context"

	"github.com/landcover-microservice/internal/domain"
)

// ImageryProvider возвращает спутниковый снимок вокруг координаты
type ImageryProvider interface {
	FindPhoto(ctx context.Context, center domain.Coordinate) (*domain.Photo, error)
}

// Geocoder переводит название места в координаты
type Geocoder interface {
	FindCoordinates(ctx context.Context, place string) (*domain.Place, error)
}

// AirQualityProvider возвращает индекс загрязнения воздуха для координаты
type AirQualityProvider interface {
	FindAirPollutionIndex(ctx context.Context, c domain.Coordinate) (*domain.AirQualityReading, error)
}

// LookupProvider - набор внешних источников данных для анализа места
type LookupProvider interface {
	ImageryProvider
	Geocoder
	AirQualityProvider
}
