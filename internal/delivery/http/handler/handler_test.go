package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/delivery/http/handler"
	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/repository/blob"
	"github.com/landcover-microservice/internal/repository/cache"
	"github.com/landcover-microservice/internal/repository/filestorage"
	"github.com/landcover-microservice/internal/usecase"
	"github.com/landcover-microservice/internal/usecase/dto"
)

var (
	forestGreen = color.NRGBA{R: 34, G: 139, B: 34, A: 255}
	wheat       = color.NRGBA{R: 180, G: 160, B: 90, A: 255}
	lviv        = domain.Coordinate{Lat: 49.84, Lon: 24.03}
)

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func split(w, h int) *image.NRGBA {
	img := uniform(w, h, wheat)
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.SetNRGBA(x, y, forestGreen)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fakeLookup - Lviv известен, всё остальное нет
type fakeLookup struct {
	photo *domain.Photo
}

func (f *fakeLookup) FindCoordinates(_ context.Context, place string) (*domain.Place, error) {
	if place != "Lviv" {
		return nil, domain.ErrPlaceNotFound
	}
	return &domain.Place{Name: place, Location: lviv}, nil
}

func (f *fakeLookup) FindPhoto(context.Context, domain.Coordinate) (*domain.Photo, error) {
	return f.photo, nil
}

func (f *fakeLookup) FindAirPollutionIndex(context.Context, domain.Coordinate) (*domain.AirQualityReading, error) {
	return nil, domain.ErrAirQualityUnavailable
}

// fakeStream запоминает опубликованные события
type fakeStream struct {
	mu        sync.Mutex
	published []interface{}
}

func (s *fakeStream) ConsumeStream(context.Context, string, string, string) (<-chan domain.StreamMessage, error) {
	return nil, nil
}

func (s *fakeStream) ConsumeBatch(context.Context, string, string, string, int) ([]domain.StreamMessage, error) {
	return nil, nil
}

func (s *fakeStream) AckMessage(context.Context, string, string, string) error { return nil }

func (s *fakeStream) AckMessages(context.Context, string, string, []string) error { return nil }

func (s *fakeStream) CreateConsumerGroup(context.Context, string, string) error { return nil }

func (s *fakeStream) PublishToStream(_ context.Context, _ string, data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, data)
	return nil
}

type testEnv struct {
	app         *fiber.App
	calibration *usecase.CalibrationUseCase
	stream      *fakeStream
}

func newTestEnv(t *testing.T, calibrated bool) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	fs := afero.NewMemMapFs()
	store := blob.NewStore(filestorage.New(fs, "/data", logger), logger)

	cfg := &config.Config{
		Imagery: config.ImageryConfig{BBoxDelta: 0.005},
		Analysis: config.AnalysisConfig{
			TreesPerM2:            0.02,
			CleanAirForestPercent: 0.2,
			PlantingPolicy:        "auto",
			MaskSmoothing:         "none",
			TileCols:              1,
			TileRows:              1,
		},
	}

	calibrationUC := usecase.NewCalibrationUseCase(blob.NewProfileRepository(store, logger), fs, &cfg.Calibration, logger)
	if calibrated {
		_, err := calibrationUC.Calibrate(context.Background(), dto.CalibrationRequest{
			Samples: map[string][]image.Image{
				domain.ClassTrees:  {uniform(4, 4, forestGreen)},
				domain.ClassFields: {uniform(4, 4, wheat)},
			},
		})
		require.NoError(t, err)
	}

	img := split(20, 10)
	lookup := &fakeLookup{photo: &domain.Photo{Image: img, PNG: encodePNG(t, img), Width: 20, Height: 10}}
	analysisUC := usecase.NewAnalysisUseCase(lookup, cache.NewNopRepository(), store, calibrationUC, cfg, nil, logger)

	stream := &fakeStream{}
	jobUC := usecase.NewJobUseCase(stream, cache.NewNopRepository(), 0, logger)

	analysisHandler := handler.NewAnalysisHandler(analysisUC, logger)
	calibrationHandler := handler.NewCalibrationHandler(calibrationUC, logger)
	jobHandler := handler.NewJobHandler(jobUC, logger)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Get("/analysis/place/:place/overlay.png", analysisHandler.GetOverlay)
	api.Get("/analysis/place/:place", analysisHandler.AnalyzePlace)
	api.Post("/analysis/image", analysisHandler.AnalyzeImage)
	api.Get("/scale", analysisHandler.GetScale)
	api.Post("/calibration/profiles", calibrationHandler.CreateProfile)
	api.Get("/calibration/profiles", calibrationHandler.ListProfiles)
	api.Get("/calibration/profiles/:id", calibrationHandler.GetProfile)
	api.Post("/jobs", jobHandler.SubmitJob)
	api.Get("/jobs/:id", jobHandler.GetJob)

	return &testEnv{app: app, calibration: calibrationUC, stream: stream}
}

// envelope - общий формат ответа
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, body io.Reader) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartBody(t *testing.T, fields map[string]string, files []formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (e *testEnv) do(t *testing.T, method, target string, body io.Reader, contentType string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}
