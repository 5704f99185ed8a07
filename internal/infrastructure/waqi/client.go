package waqi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/pkg/utils"
	"go.uber.org/zap"
)

type feedResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type feedData struct {
	// число или "-" если станция не передаёт индекс
	AQI  json.RawMessage `json:"aqi"`
	City struct {
		Geo  []float64 `json:"geo"`
		Name string    `json:"name"`
	} `json:"city"`
	IAQI map[string]struct {
		V float64 `json:"v"`
	} `json:"iaqi"`
	Time struct {
		ISO string `json:"iso"`
	} `json:"time"`
}

type client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *zap.Logger
}

// NewClient создает клиент World Air Quality Index
func NewClient(cfg *config.AirQualityConfig, logger *zap.Logger) repository.AirQualityProvider {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		logger:  logger,
	}
}

// FindAirPollutionIndex возвращает показания ближайшей станции
func (c *client) FindAirPollutionIndex(ctx context.Context, coord domain.Coordinate) (*domain.AirQualityReading, error) {
	reqURL := fmt.Sprintf("%s/feed/geo:%f;%f/?token=%s",
		c.baseURL, coord.Lat, coord.Lon, url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrAirQualityUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("WAQI returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("%w: status %d", domain.ErrAirQualityUnavailable, resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if feed.Status != "ok" {
		var msg string
		_ = json.Unmarshal(feed.Data, &msg)
		c.logger.Warn("WAQI returned non-ok status",
			zap.String("status", feed.Status),
			zap.String("message", msg))
		return nil, fmt.Errorf("%w: %s", domain.ErrAirQualityUnavailable, msg)
	}

	var data feedData
	if err := json.Unmarshal(feed.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode feed data: %w", err)
	}

	reading := &domain.AirQualityReading{
		Station: data.City.Name,
	}

	if aqi, ok := parseAQI(data.AQI); ok {
		reading.AQI = &aqi
		reading.Category = domain.AQICategory(aqi)
	}

	if len(data.IAQI) > 0 {
		reading.SubIndices = make(map[string]float64, len(data.IAQI))
		for name, v := range data.IAQI {
			reading.SubIndices[name] = v.V
		}
	}

	if t, err := time.Parse(time.RFC3339, data.Time.ISO); err == nil {
		reading.MeasuredAt = t
	}

	fields := []zap.Field{
		zap.String("station", reading.Station),
		zap.Bool("has_index", reading.HasIndex()),
	}
	if len(data.City.Geo) == 2 {
		fields = append(fields, zap.Float64("station_distance_km",
			utils.HaversineDistance(coord.Lat, coord.Lon, data.City.Geo[0], data.City.Geo[1])))
	}
	c.logger.Debug("WAQI feed successful", fields...)

	return reading, nil
}

func parseAQI(raw json.RawMessage) (int, bool) {
	s := strings.Trim(string(raw), `" `)
	if s == "" || s == "-" || s == "null" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return int(v), true
}
