package usecase

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	_ "golang.org/x/image/tiff"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/landcover"
	"github.com/landcover-microservice/internal/pkg/validator"
	"github.com/landcover-microservice/internal/usecase/dto"
)

// CalibrationUseCase строит профили цветовых диапазонов и хранит активный профиль
type CalibrationUseCase struct {
	profiles repository.ProfileRepository
	fs       afero.Fs
	cfg      *config.CalibrationConfig
	logger   *zap.Logger

	mu     sync.RWMutex
	active *domain.Profile
}

// NewCalibrationUseCase создает новый экземпляр CalibrationUseCase
func NewCalibrationUseCase(
	profiles repository.ProfileRepository,
	fs afero.Fs,
	cfg *config.CalibrationConfig,
	logger *zap.Logger,
) *CalibrationUseCase {
	return &CalibrationUseCase{
		profiles: profiles,
		fs:       fs,
		cfg:      cfg,
		logger:   logger,
	}
}

// Calibrate выводит диапазоны по эталонным снимкам и сохраняет профиль
func (uc *CalibrationUseCase) Calibrate(ctx context.Context, req dto.CalibrationRequest) (*domain.Profile, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", landcover.ErrValidation, err)
	}

	opts := landcover.CalibrationOptions{
		Profile:        landcover.DefaultProfileOptions(),
		CenterFraction: req.CenterFraction,
	}
	if req.LowPercentile != nil {
		opts.Profile.LowPercentile = *req.LowPercentile
	}
	if req.HighPercentile != nil {
		opts.Profile.HighPercentile = *req.HighPercentile
	}
	if len(req.Pad) == 3 {
		opts.Profile.Pad = domain.HSV{uint8(req.Pad[0]), uint8(req.Pad[1]), uint8(req.Pad[2])}
	}

	profile, err := landcover.Calibrate(req.Samples, opts)
	if err != nil {
		return nil, err
	}
	profile.ID = uuid.NewString()
	profile.Name = req.Name

	if err := uc.save(ctx, profile, req.Activate); err != nil {
		return nil, err
	}
	return profile, nil
}

// LoadFromFiles калибрует по файлам изображений: class -> пути
func (uc *CalibrationUseCase) LoadFromFiles(
	ctx context.Context,
	files map[string][]string,
	opts landcover.CalibrationOptions,
	id string,
) (*domain.Profile, error) {
	samples := make(map[string][]image.Image, len(files))
	for class, paths := range files {
		for _, path := range paths {
			img, err := uc.decodeFile(path)
			if err != nil {
				return nil, fmt.Errorf("class %q: %w", class, err)
			}
			samples[class] = append(samples[class], img)
		}
	}

	profile, err := landcover.Calibrate(samples, opts)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}
	profile.ID = id
	profile.Name = "startup"

	if err := uc.save(ctx, profile, true); err != nil {
		return nil, err
	}
	return profile, nil
}

// Bootstrap выбирает активный профиль при старте:
// 1) калибровка по файлам из конфигурации, 2) профиль CALIBRATION_PROFILE_ID, 3) самый новый сохранённый
func (uc *CalibrationUseCase) Bootstrap(ctx context.Context) error {
	if len(uc.cfg.Trees) > 0 || len(uc.cfg.Fields) > 0 {
		files := map[string][]string{
			domain.ClassTrees:  uc.cfg.Trees,
			domain.ClassFields: uc.cfg.Fields,
		}
		if len(uc.cfg.Roads) > 0 {
			files[domain.ClassRoads] = uc.cfg.Roads
		}
		opts := landcover.CalibrationOptions{
			Profile:        landcover.DefaultProfileOptions(),
			CenterFraction: uc.cfg.CenterFraction,
		}
		if uc.cfg.LowPercentile > 0 || uc.cfg.HighPercentile > 0 {
			opts.Profile.LowPercentile = uc.cfg.LowPercentile
			opts.Profile.HighPercentile = uc.cfg.HighPercentile
		}
		_, err := uc.LoadFromFiles(ctx, files, opts, uc.cfg.ProfileID)
		return err
	}

	if uc.cfg.ProfileID != "" {
		profile, err := uc.profiles.Get(ctx, uc.cfg.ProfileID)
		if err != nil {
			return fmt.Errorf("load profile %s: %w", uc.cfg.ProfileID, err)
		}
		uc.setActive(profile)
		return nil
	}

	list, err := uc.profiles.List(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}
	if len(list) == 0 {
		uc.logger.Warn("No calibration profile available; analysis requests will fail until one is created")
		return nil
	}
	uc.setActive(list[0])
	return nil
}

// GetProfile возвращает профиль по ID
func (uc *CalibrationUseCase) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	return uc.profiles.Get(ctx, id)
}

// ListProfiles возвращает все профили, новые первыми
func (uc *CalibrationUseCase) ListProfiles(ctx context.Context) ([]*domain.Profile, error) {
	return uc.profiles.List(ctx)
}

// ResolveProfile: пустой id означает активный профиль
func (uc *CalibrationUseCase) ResolveProfile(ctx context.Context, id string) (*domain.Profile, error) {
	if id != "" {
		if active := uc.Active(); active != nil && active.ID == id {
			return active, nil
		}
		return uc.profiles.Get(ctx, id)
	}
	if active := uc.Active(); active != nil {
		return active, nil
	}
	return nil, domain.ErrCalibrationUnavailable
}

// Active возвращает активный профиль или nil
func (uc *CalibrationUseCase) Active() *domain.Profile {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.active
}

func (uc *CalibrationUseCase) setActive(p *domain.Profile) {
	uc.mu.Lock()
	uc.active = p
	uc.mu.Unlock()

	uc.logger.Info("Calibration profile activated",
		zap.String("profile_id", p.ID),
		zap.Strings("classes", p.Classes()))
}

func (uc *CalibrationUseCase) save(ctx context.Context, profile *domain.Profile, activate bool) error {
	profile.CreatedAt = time.Now().UTC()

	for _, class := range profile.Classes() {
		uc.logger.Info("Derived colour range",
			zap.String("profile_id", profile.ID),
			zap.String("class", class),
			zap.String("range", profile.Ranges[class].String()),
			zap.Int("samples", profile.SampleCounts[class]))
	}
	for _, w := range profile.Warnings {
		uc.logger.Warn("Degenerate calibration sample", zap.String("profile_id", profile.ID), zap.String("warning", w))
	}

	if err := uc.profiles.Save(ctx, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if activate || uc.Active() == nil {
		uc.setActive(profile)
	}
	return nil
}

func (uc *CalibrationUseCase) decodeFile(path string) (image.Image, error) {
	f, err := uc.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s: unsupported image format", landcover.ErrValidation, path)
		}
		return nil, fmt.Errorf("%w: decode %s: %v", landcover.ErrValidation, path, err)
	}
	return img, nil
}
