package usecase_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/repository/blob"
	"github.com/landcover-microservice/internal/repository/filestorage"
	"github.com/landcover-microservice/internal/usecase"
	"github.com/landcover-microservice/internal/usecase/dto"
)

var (
	forestGreen = color.NRGBA{R: 34, G: 139, B: 34, A: 255}
	wheat       = color.NRGBA{R: 180, G: 160, B: 90, A: 255}
)

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// split - левая половина лес, правая поле
func split(w, h int) *image.NRGBA {
	img := uniform(w, h, wheat)
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.SetNRGBA(x, y, forestGreen)
		}
	}
	return img
}

func encode(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testConfig() *config.Config {
	return &config.Config{
		Imagery: config.ImageryConfig{BBoxDelta: 0.005, Width: 20, Height: 10},
		Analysis: config.AnalysisConfig{
			TreesPerM2:            0.02,
			CleanAirForestPercent: 0.2,
			PlantingPolicy:        "auto",
			MaskSmoothing:         "none",
			OverlayAlpha:          0.25,
			TileCols:              1,
			TileRows:              1,
		},
		Calibration: config.CalibrationConfig{CenterFraction: 1},
	}
}

type fixture struct {
	fs          afero.Fs
	store       *blob.Store
	calibration *usecase.CalibrationUseCase
	cfg         *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	fs := afero.NewMemMapFs()
	store := blob.NewStore(filestorage.New(fs, "/data", logger), logger)
	cfg := testConfig()

	return &fixture{
		fs:          fs,
		store:       store,
		calibration: usecase.NewCalibrationUseCase(blob.NewProfileRepository(store, logger), fs, &cfg.Calibration, logger),
		cfg:         cfg,
	}
}

// calibrate создает и активирует профиль по однотонным эталонам
func (f *fixture) calibrate(t *testing.T) *domain.Profile {
	t.Helper()
	p, err := f.calibration.Calibrate(context.Background(), dto.CalibrationRequest{
		Name: "test",
		Samples: map[string][]image.Image{
			domain.ClassTrees:  {uniform(8, 8, forestGreen)},
			domain.ClassFields: {uniform(8, 8, wheat)},
		},
	})
	require.NoError(t, err)
	return p
}
