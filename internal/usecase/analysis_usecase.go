package usecase

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/landcover"
	"github.com/landcover-microservice/internal/pkg/utils"
	"github.com/landcover-microservice/internal/repository/blob"
)

// AnalysisOptions - параметры одного анализа
type AnalysisOptions struct {
	ProfileID string
	Policy    domain.PlantingPolicy
	Refresh   bool
	TileCols  int
	TileRows  int
}

// AnalysisResult - отчёт и PNG-оверлей
type AnalysisResult struct {
	Report  *domain.Report
	Overlay []byte
	Cached  bool
}

// AnalysisUseCase - классификация снимков и расчёт рекомендаций по посадке
type AnalysisUseCase struct {
	lookup      repository.LookupProvider
	cacheRepo   repository.CacheRepository
	store       *blob.Store
	calibration *CalibrationUseCase
	cfg         *config.AnalysisConfig
	cacheCfg    *config.CacheConfig
	bboxDelta   float64
	smoothing   landcover.Smoothing
	filter      landcover.ImageFilter
	logger      *zap.Logger
}

// NewAnalysisUseCase создает новый экземпляр AnalysisUseCase; filter может быть nil
func NewAnalysisUseCase(
	lookup repository.LookupProvider,
	cacheRepo repository.CacheRepository,
	store *blob.Store,
	calibration *CalibrationUseCase,
	cfg *config.Config,
	filter landcover.ImageFilter,
	logger *zap.Logger,
) *AnalysisUseCase {
	smoothing := landcover.SmoothNone
	switch cfg.Analysis.MaskSmoothing {
	case "majority":
		smoothing = landcover.SmoothMajority
	case "bilateral":
		if filter == nil {
			logger.Warn("Bilateral filter unavailable, falling back to majority smoothing")
			smoothing = landcover.SmoothMajority
		}
	}

	return &AnalysisUseCase{
		lookup:      lookup,
		cacheRepo:   cacheRepo,
		store:       store,
		calibration: calibration,
		cfg:         &cfg.Analysis,
		cacheCfg:    &cfg.Cache,
		bboxDelta:   cfg.Imagery.BBoxDelta,
		smoothing:   smoothing,
		filter:      filter,
		logger:      logger,
	}
}

// ProcessByPlace: геокодирование → снимок → масштаб → AQI → классификация → сохранение.
// Результат кешируется; Refresh пропускает кеш и сохранённые координаты/снимок.
func (uc *AnalysisUseCase) ProcessByPlace(ctx context.Context, place string, opts AnalysisOptions) (*AnalysisResult, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, fmt.Errorf("%w: place is empty", landcover.ErrValidation)
	}

	profile, err := uc.calibration.ResolveProfile(ctx, opts.ProfileID)
	if err != nil {
		return nil, err
	}

	// 1. Проверяем кеш
	if !opts.Refresh {
		if result := uc.cachedResult(ctx, place, profile.ID, opts); result != nil {
			return result, nil
		}
	}

	// 2. Координаты и снимок
	loc, err := uc.findPlace(ctx, place, opts.Refresh)
	if err != nil {
		return nil, err
	}

	img, err := uc.findImage(ctx, place, loc.Location, opts.Refresh)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	scale, err := uc.PixelScale(loc.Location.Lat, uc.bboxDelta, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	// 3. Качество воздуха (необязательно)
	reading := uc.airQuality(ctx, loc.Location)

	// 4. Классификация
	result, err := uc.process(img, scale, reading, profile, opts)
	if err != nil {
		return nil, err
	}
	result.Report.Place = place
	center := loc.Location
	result.Report.Center = &center

	// 5. Сохраняем отчёт и оверлей
	uc.persist(ctx, place, result)

	uc.logger.Info("Place analysed",
		zap.String("place", place),
		zap.String("profile_id", profile.ID),
		zap.String("policy", string(result.Report.Policy)),
		zap.Float64("forest_coverage_percent", result.Report.ForestCoveragePercent),
		zap.Int("trees_to_plant", result.Report.TreesToPlant))

	return result, nil
}

// ProcessImage классифицирует уже загруженный снимок
func (uc *AnalysisUseCase) ProcessImage(
	ctx context.Context,
	img image.Image,
	pixelToM2 float64,
	reading *domain.AirQualityReading,
	opts AnalysisOptions,
) (*AnalysisResult, error) {
	profile, err := uc.calibration.ResolveProfile(ctx, opts.ProfileID)
	if err != nil {
		return nil, err
	}
	return uc.process(img, pixelToM2, reading, profile, opts)
}

// GetOverlay возвращает сохранённый PNG-оверлей последнего анализа места
func (uc *AnalysisUseCase) GetOverlay(ctx context.Context, place string) ([]byte, error) {
	return uc.store.LoadPNG(ctx, blob.PlaceID(place, blob.KindOverlay))
}

// PixelScale - площадь пикселя в м² для снимка bbox ±halfWidth градусов
func (uc *AnalysisUseCase) PixelScale(lat, halfWidth float64, width, height int) (float64, error) {
	if !utils.ValidateBBoxHalfWidth(halfWidth) {
		return 0, fmt.Errorf("%w: bbox half width %v out of (0, 1]", landcover.ErrValidation, halfWidth)
	}
	return landcover.PixelScale(lat, halfWidth, width, height)
}

// BBoxDelta - половина ширины bbox загружаемых снимков
func (uc *AnalysisUseCase) BBoxDelta() float64 {
	return uc.bboxDelta
}

func (uc *AnalysisUseCase) process(
	img image.Image,
	pixelToM2 float64,
	reading *domain.AirQualityReading,
	profile *domain.Profile,
	opts AnalysisOptions,
) (*AnalysisResult, error) {
	start := time.Now()

	masks, err := landcover.Classify(img, profile.Ranges, landcover.ClassifyOptions{
		Smoothing: uc.smoothing,
		Filter:    uc.filter,
	})
	if err != nil {
		return nil, err
	}

	policy := opts.Policy
	if policy == "" {
		policy = domain.PlantingPolicy(uc.cfg.PlantingPolicy)
	}

	target := uc.cfg.CleanAirForestPercent
	report, err := landcover.Estimate(landcover.EstimateInput{
		Trees:                 masks[domain.ClassTrees],
		Fields:                masks[domain.ClassFields],
		Roads:                 masks[domain.ClassRoads],
		PixelToM2:             pixelToM2,
		TreesPerM2:            uc.cfg.TreesPerM2,
		CleanAirForestPercent: &target,
		Pollution:             reading,
		Policy:                policy,
	})
	if err != nil {
		return nil, err
	}
	report.ProfileID = profile.ID
	report.GeneratedAt = time.Now().UTC()

	cols, rows := uc.tileGrid(opts)
	if cols*rows > 1 {
		tiles, err := landcover.Summarize(masks, cols, rows)
		if err != nil {
			return nil, err
		}
		report.Tiles = tiles
	}

	overlay, err := landcover.Render(img, masks, landcover.OverlayOptions{
		Alpha:  uc.cfg.OverlayAlpha,
		Legend: uc.cfg.OverlayLegend,
	})
	if err != nil {
		return nil, err
	}
	png, err := landcover.EncodePNG(overlay)
	if err != nil {
		return nil, fmt.Errorf("encode overlay: %w", err)
	}

	uc.logger.Debug("Image classified",
		zap.Int("width", report.Width),
		zap.Int("height", report.Height),
		zap.Int("trees_pixels", report.Trees.Pixels),
		zap.Int("fields_pixels", report.Fields.Pixels),
		zap.Duration("took", time.Since(start)))

	return &AnalysisResult{Report: report, Overlay: png}, nil
}

func (uc *AnalysisUseCase) tileGrid(opts AnalysisOptions) (int, int) {
	cols, rows := opts.TileCols, opts.TileRows
	if cols <= 0 {
		cols = uc.cfg.TileCols
	}
	if rows <= 0 {
		rows = uc.cfg.TileRows
	}
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	return cols, rows
}

// cachedResult возвращает закешированный отчёт, если он построен с теми же параметрами
func (uc *AnalysisUseCase) cachedResult(ctx context.Context, place, profileID string, opts AnalysisOptions) *AnalysisResult {
	report, err := uc.cacheRepo.GetReport(ctx, place, profileID)
	if err != nil {
		uc.logger.Warn("Failed to get report from cache", zap.Error(err))
		return nil
	}
	if report == nil {
		return nil
	}

	if opts.Policy != "" && opts.Policy != domain.PolicyAuto && opts.Policy != report.Policy {
		return nil
	}
	cols, rows := uc.tileGrid(opts)
	want := 0
	if cols*rows > 1 {
		want = cols * rows
	}
	if len(report.Tiles) != want {
		return nil
	}

	uc.logger.Debug("Report fetched from cache", zap.String("place", place))

	overlay, err := uc.store.LoadPNG(ctx, blob.PlaceID(place, blob.KindOverlay))
	if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
		uc.logger.Warn("Failed to load stored overlay", zap.String("place", place), zap.Error(err))
	}
	return &AnalysisResult{Report: report, Overlay: overlay, Cached: true}
}

func (uc *AnalysisUseCase) findPlace(ctx context.Context, place string, refresh bool) (*domain.Place, error) {
	id := blob.PlaceID(place, blob.KindCoords)

	if !refresh {
		cached, err := uc.cacheRepo.GetPlace(ctx, place)
		if err != nil {
			uc.logger.Warn("Failed to get place from cache", zap.Error(err))
		}
		if cached != nil {
			return cached, nil
		}

		var stored domain.Place
		err = uc.store.LoadJSON(ctx, id, &stored)
		if err == nil {
			return &stored, nil
		}
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			uc.logger.Warn("Failed to load stored coordinates", zap.String("id", id), zap.Error(err))
		}
	}

	found, err := uc.lookup.FindCoordinates(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("find coordinates: %w", err)
	}

	if err := uc.store.SaveJSON(ctx, id, found); err != nil {
		uc.logger.Warn("Failed to store coordinates", zap.String("id", id), zap.Error(err))
	}
	if err := uc.cacheRepo.SetPlace(ctx, found, uc.cacheCfg.CoordsCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache place", zap.Error(err))
	}
	return found, nil
}

func (uc *AnalysisUseCase) findImage(ctx context.Context, place string, center domain.Coordinate, refresh bool) (image.Image, error) {
	id := blob.PlaceID(place, blob.KindPhoto)

	if !refresh {
		img, _, err := uc.store.LoadImage(ctx, id)
		if err == nil {
			uc.logger.Debug("Photo loaded from storage", zap.String("id", id))
			return img, nil
		}
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			uc.logger.Warn("Failed to load stored photo", zap.String("id", id), zap.Error(err))
		}
	}

	photo, err := uc.lookup.FindPhoto(ctx, center)
	if err != nil {
		return nil, fmt.Errorf("find photo: %w", err)
	}
	if photo.Image == nil {
		return nil, fmt.Errorf("find photo: %w", domain.ErrImageUnavailable)
	}

	if len(photo.PNG) > 0 {
		if err := uc.store.SavePNG(ctx, id, photo.PNG); err != nil {
			uc.logger.Warn("Failed to store photo", zap.String("id", id), zap.Error(err))
		}
	}
	return photo.Image, nil
}

// airQuality - ошибки провайдера не прерывают анализ, политика переходит на покрытие
func (uc *AnalysisUseCase) airQuality(ctx context.Context, c domain.Coordinate) *domain.AirQualityReading {
	cached, err := uc.cacheRepo.GetAirQuality(ctx, c)
	if err != nil {
		uc.logger.Warn("Failed to get air quality from cache", zap.Error(err))
	}
	if cached != nil {
		return cached
	}

	reading, err := uc.lookup.FindAirPollutionIndex(ctx, c)
	if err != nil {
		if !errors.Is(err, domain.ErrAirQualityUnavailable) {
			uc.logger.Warn("Air quality lookup failed", zap.Error(err))
		}
		return nil
	}

	if err := uc.cacheRepo.SetAirQuality(ctx, c, reading, uc.cacheCfg.AirQualityCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache air quality", zap.Error(err))
	}
	return reading
}

func (uc *AnalysisUseCase) persist(ctx context.Context, place string, result *AnalysisResult) {
	if err := uc.store.SaveJSON(ctx, blob.PlaceID(place, blob.KindForestData), result.Report); err != nil {
		uc.logger.Warn("Failed to store report", zap.String("place", place), zap.Error(err))
	}
	if err := uc.store.SavePNG(ctx, blob.PlaceID(place, blob.KindOverlay), result.Overlay); err != nil {
		uc.logger.Warn("Failed to store overlay", zap.String("place", place), zap.Error(err))
	}
	if err := uc.cacheRepo.SetReport(ctx, place, result.Report.ProfileID, result.Report, uc.cacheCfg.ReportCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache report", zap.Error(err))
	}
}
