package mapbox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/infrastructure/imagery"
	"github.com/landcover-microservice/internal/landcover"
	"go.uber.org/zap"
)

// MaxSize - предел Static Images API по каждой стороне
const MaxSize = 1280

type client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	style       string
	bboxDelta   float64
	width       int
	height      int
	logger      *zap.Logger
}

// NewClient создает источник снимков на Mapbox Static Images API.
// Размер кадра и bboxDelta берутся из общего ImageryConfig.
func NewClient(cfg *config.MapboxConfig, imageryCfg *config.ImageryConfig, logger *zap.Logger) repository.ImageryProvider {
	return &client{
		httpClient: &http.Client{
			Timeout: imageryCfg.Timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		style:       cfg.Style,
		bboxDelta:   imageryCfg.BBoxDelta,
		width:       clampSize(imageryCfg.Width),
		height:      clampSize(imageryCfg.Height),
		logger:      logger,
	}
}

func clampSize(v int) int {
	if v > MaxSize {
		return MaxSize
	}
	return v
}

// FindPhoto загружает снимок bbox ±bboxDelta вокруг центра
func (c *client) FindPhoto(ctx context.Context, center domain.Coordinate) (*domain.Photo, error) {
	bbox := landcover.BoundingBox(center.Lat, center.Lon, c.bboxDelta)

	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("attribution", "false")
	params.Set("logo", "false")

	reqURL := fmt.Sprintf("%s/styles/v1/%s/static/[%f,%f,%f,%f]/%dx%d?%s",
		c.baseURL,
		c.style,
		bbox.MinLon, bbox.MinLat, bbox.MaxLon, bbox.MaxLat,
		c.width, c.height,
		params.Encode(),
	)

	// токен в лог не пишем
	c.logger.Debug("Calling Mapbox Static Images API",
		zap.String("style", c.style),
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
		c.logger.Error("Mapbox API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", truncate(string(body), 256)))
		return nil, fmt.Errorf("%w: mapbox status %d", domain.ErrImageUnavailable, resp.StatusCode)
	}

	rgba, pngBytes, format, err := imagery.Decode(body)
	if err != nil {
		c.logger.Error("Failed to decode image",
			zap.String("content_type", resp.Header.Get("Content-Type")),
			zap.Error(err))
		return nil, err
	}
	b := rgba.Bounds()

	c.logger.Debug("Mapbox static image successful",
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

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
