package arcgis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/infrastructure/imagery"
	"github.com/landcover-microservice/internal/landcover"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	bboxDelta  float64
	width      int
	height     int
	logger     *zap.Logger
}

// NewClient создает клиент для ArcGIS World_Imagery MapServer
func NewClient(cfg *config.ImageryConfig, logger *zap.Logger) repository.ImageryProvider {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		bboxDelta: cfg.BBoxDelta,
		width:     cfg.Width,
		height:    cfg.Height,
		logger:    logger,
	}
}

// FindPhoto загружает снимок bbox ±bboxDelta вокруг центра
func (c *client) FindPhoto(ctx context.Context, center domain.Coordinate) (*domain.Photo, error) {
	bbox := landcover.BoundingBox(center.Lat, center.Lon, c.bboxDelta)

	params := url.Values{}
	params.Set("bbox", fmt.Sprintf("%f,%f,%f,%f", bbox.MinLon, bbox.MinLat, bbox.MaxLon, bbox.MaxLat))
	params.Set("bboxSR", "4326")
	params.Set("size", strconv.Itoa(c.width)+","+strconv.Itoa(c.height))
	params.Set("f", "image")
	reqURL := c.baseURL + "/export?" + params.Encode()

	c.logger.Debug("Calling ArcGIS export",
		zap.String("url", reqURL),
		zap.Float64("lat", center.Lat),
		zap.Float64("lon", center.Lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrImageUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, imagery.MaxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrImageUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("ArcGIS returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.Int("body_size", len(body)))
		return nil, fmt.Errorf("%w: status %d", domain.ErrImageUnavailable, resp.StatusCode)
	}

	// при ошибке сервер отвечает JSON с кодом 200
	rgba, pngBytes, format, err := imagery.Decode(body)
	if err != nil {
		c.logger.Error("Failed to decode image",
			zap.String("content_type", resp.Header.Get("Content-Type")),
			zap.Error(err))
		return nil, err
	}
	b := rgba.Bounds()

	c.logger.Debug("ArcGIS export successful",
		zap.String("format", format),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))

	return &domain.Photo{
		Image:     rgba,
		PNG:       pngBytes,
		Width:     b.Dx(),
		Height:    b.Dy(),
		Center:    center,
		BBox:      bbox,
		BBoxDelta: c.bboxDelta,
	}, nil
}
