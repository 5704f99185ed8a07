package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type profileRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProfileRepository создает репозиторий профилей калибровки
func NewProfileRepository(db *DB, logger *zap.Logger) repository.ProfileRepository {
	return &profileRepository{
		db:     db,
		logger: logger,
	}
}

// profileRow - строка таблицы calibration_profiles
type profileRow struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Classes        pq.StringArray `db:"classes"`
	Ranges         []byte         `db:"ranges"`
	LowPercentile  float64        `db:"low_percentile"`
	HighPercentile float64        `db:"high_percentile"`
	Pad            pq.Int64Array  `db:"pad"`
	CenterFraction float64        `db:"center_fraction"`
	SampleCounts   []byte         `db:"sample_counts"`
	Warnings       pq.StringArray `db:"warnings"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (row *profileRow) toDomain() (*domain.Profile, error) {
	p := &domain.Profile{
		ID:             row.ID,
		Name:           row.Name,
		LowPercentile:  row.LowPercentile,
		HighPercentile: row.HighPercentile,
		CenterFraction: row.CenterFraction,
		Warnings:       []string(row.Warnings),
		CreatedAt:      row.CreatedAt,
	}
	if err := json.Unmarshal(row.Ranges, &p.Ranges); err != nil {
		return nil, fmt.Errorf("decode ranges of profile %s: %w", row.ID, err)
	}
	if len(row.SampleCounts) > 0 {
		if err := json.Unmarshal(row.SampleCounts, &p.SampleCounts); err != nil {
			return nil, fmt.Errorf("decode sample counts of profile %s: %w", row.ID, err)
		}
	}
	for i := 0; i < len(row.Pad) && i < 3; i++ {
		p.Pad[i] = uint8(row.Pad[i])
	}
	if len(p.Warnings) == 0 {
		p.Warnings = nil
	}
	return p, nil
}

const profileColumns = `id, name, classes, ranges, low_percentile, high_percentile, pad,
	center_fraction, sample_counts, warnings, created_at`

// Save сохраняет профиль; существующий профиль с тем же id перезаписывается
func (r *profileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	ranges, err := json.Marshal(profile.Ranges)
	if err != nil {
		return fmt.Errorf("encode ranges: %w", err)
	}
	counts, err := json.Marshal(profile.SampleCounts)
	if err != nil {
		return fmt.Errorf("encode sample counts: %w", err)
	}
	warnings := profile.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	pad := []int64{int64(profile.Pad[0]), int64(profile.Pad[1]), int64(profile.Pad[2])}

	query := `
		INSERT INTO calibration_profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			classes = EXCLUDED.classes,
			ranges = EXCLUDED.ranges,
			low_percentile = EXCLUDED.low_percentile,
			high_percentile = EXCLUDED.high_percentile,
			pad = EXCLUDED.pad,
			center_fraction = EXCLUDED.center_fraction,
			sample_counts = EXCLUDED.sample_counts,
			warnings = EXCLUDED.warnings
	`
	_, err = r.db.ExecContext(ctx, query,
		profile.ID,
		profile.Name,
		pq.Array(profile.Classes()),
		string(ranges),
		profile.LowPercentile,
		profile.HighPercentile,
		pq.Array(pad),
		profile.CenterFraction,
		string(counts),
		pq.Array(warnings),
		profile.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to save profile", zap.String("id", profile.ID), zap.Error(err))
		return fmt.Errorf("save profile %s: %w", profile.ID, err)
	}
	return nil
}

func (r *profileRepository) Get(ctx context.Context, id string) (*domain.Profile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, `SELECT `+profileColumns+` FROM calibration_profiles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrProfileNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get profile", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}
	return row.toDomain()
}

// List возвращает профили, новые первыми
func (r *profileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	var rows []profileRow
	err := r.db.SelectContext(ctx, &rows, `SELECT `+profileColumns+` FROM calibration_profiles ORDER BY created_at DESC, id`)
	if err != nil {
		r.logger.Error("failed to list profiles", zap.Error(err))
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := make([]*domain.Profile, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
