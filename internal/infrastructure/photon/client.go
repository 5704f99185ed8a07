package photon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/pkg/utils"
	"go.uber.org/zap"
)

// featureCollection - ответ Photon в формате GeoJSON
type featureCollection struct {
	Features []struct {
		Geometry struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Name    string `json:"name"`
			City    string `json:"city"`
			State   string `json:"state"`
			Country string `json:"country"`
		} `json:"properties"`
	} `json:"features"`
}

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient создает геокодер на базе Photon (komoot)
func NewClient(cfg *config.GeocoderConfig, logger *zap.Logger) repository.Geocoder {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// FindCoordinates возвращает координаты первого совпадения
func (c *client) FindCoordinates(ctx context.Context, place string) (*domain.Place, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, fmt.Errorf("place cannot be empty")
	}

	params := url.Values{}
	params.Set("q", place)
	params.Set("limit", "1")
	reqURL := c.baseURL + "/api/?" + params.Encode()

	c.logger.Debug("Calling Photon geocoder", zap.String("place", place))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Photon returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("photon API error: status %d", resp.StatusCode)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(fc.Features) == 0 || len(fc.Features[0].Geometry.Coordinates) < 2 {
		return nil, fmt.Errorf("%q: %w", place, domain.ErrPlaceNotFound)
	}

	f := fc.Features[0]
	// GeoJSON: [lon, lat]
	if !utils.ValidateCoordinates(f.Geometry.Coordinates[1], f.Geometry.Coordinates[0]) {
		c.logger.Warn("Photon returned invalid coordinates",
			zap.String("place", place),
			zap.Float64s("coordinates", f.Geometry.Coordinates))
		return nil, fmt.Errorf("%q: %w", place, domain.ErrPlaceNotFound)
	}
	result := &domain.Place{
		Name: place,
		Location: domain.Coordinate{
			Lat: f.Geometry.Coordinates[1],
			Lon: f.Geometry.Coordinates[0],
		},
		ResolvedAs: joinNonEmpty(f.Properties.Name, f.Properties.City, f.Properties.State, f.Properties.Country),
		FetchedAt:  time.Now().UTC(),
	}

	c.logger.Debug("Photon geocoding successful",
		zap.String("place", place),
		zap.String("resolved_as", result.ResolvedAs),
		zap.Float64("lat", result.Location.Lat),
		zap.Float64("lon", result.Location.Lon))

	return result, nil
}

func joinNonEmpty(parts ...string) string {
	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}
