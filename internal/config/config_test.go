package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landcover-microservice/internal/config"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, 600, cfg.Imagery.Width)
	assert.Equal(t, 400, cfg.Imagery.Height)
	assert.Equal(t, 0.005, cfg.Imagery.BBoxDelta)
	assert.Equal(t, 0.02, cfg.Analysis.TreesPerM2)
	assert.Equal(t, 0.2, cfg.Analysis.CleanAirForestPercent)
	assert.Equal(t, "auto", cfg.Analysis.PlantingPolicy)
	assert.Equal(t, config.StorageBackendFile, cfg.Storage.Backend)
	assert.Equal(t, "landcover-analysis-workers", cfg.Worker.ConsumerGroup)
	assert.Equal(t, 5*time.Second, cfg.Worker.StreamReadTimeout)
	assert.False(t, cfg.AirQuality.Enabled)
}

func TestLoadFile_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "API_PORT=9090\n" +
		"CALIBRATION_TREES=samples/forest1.png, samples/forest2.png\n" +
		"CALIBRATION_FIELDS=samples/field.png\n" +
		"AIR_QUALITY_TOKEN=secret\n" +
		"STORAGE_BACKEND=postgres\n" +
		"REPORT_CACHE_TTL=60\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"samples/forest1.png", "samples/forest2.png"}, cfg.Calibration.Trees)
	assert.Equal(t, []string{"samples/field.png"}, cfg.Calibration.Fields)
	assert.Empty(t, cfg.Calibration.Roads)
	assert.True(t, cfg.AirQuality.Enabled)
	assert.Equal(t, config.StorageBackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.ReportCacheTTL)
}

func TestLoadFile_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PLANTING_POLICY", "AQI")
	t.Setenv("TILE_COLS", "3")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "aqi", cfg.Analysis.PlantingPolicy)
	assert.Equal(t, 3, cfg.Analysis.TileCols)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"storage backend", "STORAGE_BACKEND", "mongo"},
		{"policy", "PLANTING_POLICY", "maximum"},
		{"smoothing", "MASK_SMOOTHING", "gauss"},
		{"tiles", "TILE_ROWS", "-1"},
		{"imagery provider", "IMAGERY_PROVIDER", "bing"},
		{"target coverage", "CLEAN_AIR_FOREST_PERCENT", "1.5"},
		{"mapbox without token", "IMAGERY_PROVIDER", "mapbox"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_MapboxProvider(t *testing.T) {
	t.Setenv("IMAGERY_PROVIDER", "mapbox")
	t.Setenv("MAPBOX_ACCESS_TOKEN", "pk.test")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, config.ImageryProviderMapbox, cfg.Imagery.Provider)
	assert.Equal(t, "pk.test", cfg.Mapbox.AccessToken)
	assert.Equal(t, "mapbox/satellite-v9", cfg.Mapbox.Style)
	assert.Equal(t, "https://api.mapbox.com", cfg.Mapbox.BaseURL)
}

func TestLoadFile_ZeroTargetCoverage(t *testing.T) {
	t.Setenv("CLEAN_AIR_FOREST_PERCENT", "0")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Analysis.CleanAirForestPercent)
}
