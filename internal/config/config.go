package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	RedisStreams RedisStreamsConfig
	Cache        CacheConfig
	Log          LogConfig
	Worker       WorkerConfig
	Imagery      ImageryConfig
	Mapbox       MapboxConfig
	Geocoder     GeocoderConfig
	AirQuality   AirQualityConfig
	Storage      StorageConfig
	Calibration  CalibrationConfig
	Analysis     AnalysisConfig
	Telegram     TelegramConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisStreamsConfig - отдельный инстанс Redis для стримов; пустой хост означает основной
type RedisStreamsConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	ReportCacheTTL     time.Duration
	CoordsCacheTTL     time.Duration
	AirQualityCacheTTL time.Duration
	JobStatusTTL       time.Duration
}

type LogConfig struct {
	Level    string
	Encoding string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	BatchSize         int64
	MaxRetries        int
}

const (
	ImageryProviderArcGIS = "arcgis"
	ImageryProviderMapbox = "mapbox"
)

// ImageryConfig - ArcGIS World_Imagery export. BBoxDelta and size are shared by all providers.
type ImageryConfig struct {
	Provider  string
	BaseURL   string
	BBoxDelta float64
	Width     int
	Height    int
	Timeout   time.Duration
}

// MapboxConfig - Mapbox Static Images API, used when IMAGERY_PROVIDER=mapbox
type MapboxConfig struct {
	AccessToken string
	BaseURL     string
	Style       string
}

// GeocoderConfig - Photon (komoot) geocoder
type GeocoderConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AirQualityConfig - WAQI feed; disabled when no token is configured
type AirQualityConfig struct {
	Enabled bool
	BaseURL string
	Token   string
	Timeout time.Duration
}

type StorageConfig struct {
	Backend string
	Dir     string
}

// CalibrationConfig - reference samples loaded at startup
type CalibrationConfig struct {
	Trees          []string
	Fields         []string
	Roads          []string
	CenterFraction float64
	LowPercentile  float64
	HighPercentile float64
	ProfileID      string
}

type AnalysisConfig struct {
	TreesPerM2            float64
	CleanAirForestPercent float64
	PlantingPolicy        string
	MaskSmoothing         string
	OverlayAlpha          float64
	OverlayLegend         bool
	TileCols              int
	TileRows              int
}

type TelegramConfig struct {
	BotToken string
	Debug    bool
}

const (
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REPORT_CACHE_TTL", 24*3600)
	v.SetDefault("COORDS_CACHE_TTL", 30*24*3600)
	v.SetDefault("AIR_QUALITY_CACHE_TTL", 3600)
	v.SetDefault("JOB_STATUS_TTL", 24*3600)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "json")
	v.SetDefault("IMAGERY_PROVIDER", ImageryProviderArcGIS)
	v.SetDefault("MAPBOX_BASE_URL", "https://api.mapbox.com")
	v.SetDefault("MAPBOX_STYLE", "mapbox/satellite-v9")
	v.SetDefault("IMAGERY_BASE_URL", "https://services.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer")
	v.SetDefault("IMAGERY_BBOX_DELTA", 0.005)
	v.SetDefault("IMAGERY_WIDTH", 600)
	v.SetDefault("IMAGERY_HEIGHT", 400)
	v.SetDefault("IMAGERY_TIMEOUT", 15)
	v.SetDefault("GEOCODER_BASE_URL", "https://photon.komoot.io")
	v.SetDefault("GEOCODER_TIMEOUT", 10)
	v.SetDefault("AIR_QUALITY_BASE_URL", "https://api.waqi.info")
	v.SetDefault("AIR_QUALITY_TIMEOUT", 10)
	v.SetDefault("STORAGE_BACKEND", StorageBackendFile)
	v.SetDefault("STORAGE_DIR", "data")
	v.SetDefault("CALIBRATION_CENTER_FRACTION", 1.0)
	v.SetDefault("CALIBRATION_LOW_PERCENTILE", 10.0)
	v.SetDefault("CALIBRATION_HIGH_PERCENTILE", 90.0)
	v.SetDefault("TREES_PER_M2", 0.02)
	v.SetDefault("CLEAN_AIR_FOREST_PERCENT", 0.2)
	v.SetDefault("PLANTING_POLICY", "auto")
	v.SetDefault("MASK_SMOOTHING", "none")
	v.SetDefault("OVERLAY_ALPHA", 0.25)
	v.SetDefault("TILE_COLS", 1)
	v.SetDefault("TILE_ROWS", 1)
}

// Load reads .env (optional) and the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RedisStreams: RedisStreamsConfig{
			Host:     v.GetString("REDIS_STREAMS_HOST"),
			Port:     v.GetInt("REDIS_STREAMS_PORT"),
			Password: v.GetString("REDIS_STREAMS_PASSWORD"),
			DB:       v.GetInt("REDIS_STREAMS_DB"),
		},
		Cache: CacheConfig{
			ReportCacheTTL:     time.Duration(v.GetInt("REPORT_CACHE_TTL")) * time.Second,
			CoordsCacheTTL:     time.Duration(v.GetInt("COORDS_CACHE_TTL")) * time.Second,
			AirQualityCacheTTL: time.Duration(v.GetInt("AIR_QUALITY_CACHE_TTL")) * time.Second,
			JobStatusTTL:       time.Duration(v.GetInt("JOB_STATUS_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level:    v.GetString("LOG_LEVEL"),
			Encoding: v.GetString("LOG_ENCODING"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			BatchSize:         v.GetInt64("WORKER_BATCH_SIZE"),
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
		},
		Imagery: ImageryConfig{
			Provider:  v.GetString("IMAGERY_PROVIDER"),
			BaseURL:   v.GetString("IMAGERY_BASE_URL"),
			BBoxDelta: v.GetFloat64("IMAGERY_BBOX_DELTA"),
			Width:     v.GetInt("IMAGERY_WIDTH"),
			Height:    v.GetInt("IMAGERY_HEIGHT"),
			Timeout:   time.Duration(v.GetInt("IMAGERY_TIMEOUT")) * time.Second,
		},
		Mapbox: MapboxConfig{
			AccessToken: v.GetString("MAPBOX_ACCESS_TOKEN"),
			BaseURL:     v.GetString("MAPBOX_BASE_URL"),
			Style:       v.GetString("MAPBOX_STYLE"),
		},
		Geocoder: GeocoderConfig{
			BaseURL: v.GetString("GEOCODER_BASE_URL"),
			Timeout: time.Duration(v.GetInt("GEOCODER_TIMEOUT")) * time.Second,
		},
		AirQuality: AirQualityConfig{
			Enabled: v.GetBool("AIR_QUALITY_ENABLED"),
			BaseURL: v.GetString("AIR_QUALITY_BASE_URL"),
			Token:   v.GetString("AIR_QUALITY_TOKEN"),
			Timeout: time.Duration(v.GetInt("AIR_QUALITY_TIMEOUT")) * time.Second,
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("STORAGE_BACKEND")),
			Dir:     v.GetString("STORAGE_DIR"),
		},
		Calibration: CalibrationConfig{
			Trees:          parseList(v.GetString("CALIBRATION_TREES")),
			Fields:         parseList(v.GetString("CALIBRATION_FIELDS")),
			Roads:          parseList(v.GetString("CALIBRATION_ROADS")),
			CenterFraction: v.GetFloat64("CALIBRATION_CENTER_FRACTION"),
			LowPercentile:  v.GetFloat64("CALIBRATION_LOW_PERCENTILE"),
			HighPercentile: v.GetFloat64("CALIBRATION_HIGH_PERCENTILE"),
			ProfileID:      v.GetString("CALIBRATION_PROFILE_ID"),
		},
		Analysis: AnalysisConfig{
			TreesPerM2:            v.GetFloat64("TREES_PER_M2"),
			CleanAirForestPercent: v.GetFloat64("CLEAN_AIR_FOREST_PERCENT"),
			PlantingPolicy:        strings.ToLower(v.GetString("PLANTING_POLICY")),
			MaskSmoothing:         strings.ToLower(v.GetString("MASK_SMOOTHING")),
			OverlayAlpha:          v.GetFloat64("OVERLAY_ALPHA"),
			OverlayLegend:         v.GetBool("OVERLAY_LEGEND"),
			TileCols:              v.GetInt("TILE_COLS"),
			TileRows:              v.GetInt("TILE_ROWS"),
		},
		Telegram: TelegramConfig{
			BotToken: v.GetString("TELEGRAM_BOT_TOKEN"),
			Debug:    v.GetBool("TELEGRAM_DEBUG"),
		},
	}

	// Set default values if not provided
	if cfg.RedisStreams.Host == "" {
		cfg.RedisStreams = RedisStreamsConfig(cfg.Redis)
	}
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "landcover-analysis-workers"
	}
	if cfg.Worker.StreamReadTimeout == 0 {
		cfg.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if cfg.Worker.BatchSize == 0 {
		cfg.Worker.BatchSize = 5
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	// WAQI cannot be queried without a token
	if cfg.AirQuality.Token == "" {
		cfg.AirQuality.Enabled = false
	} else if !v.IsSet("AIR_QUALITY_ENABLED") {
		cfg.AirQuality.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail deep inside a request.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageBackendFile, StorageBackendPostgres:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q", c.Storage.Backend)
	}
	switch c.Analysis.PlantingPolicy {
	case "auto", "coverage", "aqi":
	default:
		return fmt.Errorf("invalid PLANTING_POLICY %q", c.Analysis.PlantingPolicy)
	}
	switch c.Analysis.MaskSmoothing {
	case "none", "majority", "bilateral":
	default:
		return fmt.Errorf("invalid MASK_SMOOTHING %q", c.Analysis.MaskSmoothing)
	}
	switch c.Imagery.Provider {
	case "", ImageryProviderArcGIS:
	case ImageryProviderMapbox:
		if c.Mapbox.AccessToken == "" {
			return fmt.Errorf("MAPBOX_ACCESS_TOKEN is required for IMAGERY_PROVIDER=mapbox")
		}
	default:
		return fmt.Errorf("invalid IMAGERY_PROVIDER %q", c.Imagery.Provider)
	}
	if c.Imagery.Width <= 0 || c.Imagery.Height <= 0 || c.Imagery.BBoxDelta <= 0 {
		return fmt.Errorf("imagery size and bbox delta must be positive")
	}
	if c.Analysis.CleanAirForestPercent < 0 || c.Analysis.CleanAirForestPercent > 1 {
		return fmt.Errorf("CLEAN_AIR_FOREST_PERCENT must be in [0, 1]")
	}
	if c.Analysis.TileCols <= 0 || c.Analysis.TileRows <= 0 {
		return fmt.Errorf("TILE_COLS and TILE_ROWS must be positive")
	}
	return nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// IsDevelopment reports whether the API runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "" || c.Server.Env == "development"
}
