package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/app"
	"github.com/landcover-microservice/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		// порт 1 закрыт: Redis недоступен
		Redis:    config.RedisConfig{Host: "127.0.0.1", Port: 1},
		Storage:  config.StorageConfig{Backend: config.StorageBackendFile, Dir: t.TempDir()},
		Imagery:  config.ImageryConfig{BaseURL: "http://127.0.0.1:1", BBoxDelta: 0.005, Width: 60, Height: 40},
		Geocoder: config.GeocoderConfig{BaseURL: "http://127.0.0.1:1"},
		Analysis: config.AnalysisConfig{PlantingPolicy: "auto", MaskSmoothing: "bilateral", TileCols: 1, TileRows: 1},
	}
}

func TestBuild_WithoutRedis(t *testing.T) {
	s, err := app.Build(context.Background(), testConfig(t), zap.NewNop(), app.Options{})
	require.NoError(t, err)
	defer s.Close()

	assert.Nil(t, s.Redis)
	assert.Nil(t, s.DB)
	assert.NotNil(t, s.Cache)
	assert.NotNil(t, s.Analysis)
	assert.Nil(t, s.Calibration.Active())
	assert.NoError(t, s.Health(context.Background()))
}

func TestBuild_RequireRedis(t *testing.T) {
	_, err := app.Build(context.Background(), testConfig(t), zap.NewNop(), app.Options{RequireRedis: true})
	assert.Error(t, err)
}

func TestBuild_BadCalibrationFiles(t *testing.T) {
	cfg := testConfig(t)
	cfg.Calibration.Trees = []string{"/does/not/exist.png"}
	cfg.Calibration.Fields = []string{"/does/not/exist.png"}

	_, err := app.Build(context.Background(), cfg, zap.NewNop(), app.Options{})
	assert.Error(t, err)
}
