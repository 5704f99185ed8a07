package blob

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

type profileRepository struct {
	store  *Store
	logger *zap.Logger
}

// NewProfileRepository хранит профили калибровки как JSON-документы "profiles/<id>"
func NewProfileRepository(store *Store, logger *zap.Logger) repository.ProfileRepository {
	return &profileRepository{
		store:  store,
		logger: logger,
	}
}

func (r *profileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == "" || strings.Contains(profile.ID, "/") {
		return fmt.Errorf("invalid profile id %q", profile.ID)
	}
	return r.store.SaveJSON(ctx, ProfileID(profile.ID), profile)
}

func (r *profileRepository) Get(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.store.LoadJSON(ctx, ProfileID(id), &p)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrProfileNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	ids, err := r.store.List(ctx, ProfileID(""))
	if err != nil {
		return nil, err
	}

	profiles := make([]*domain.Profile, 0, len(ids))
	for _, id := range ids {
		var p domain.Profile
		if err := r.store.LoadJSON(ctx, id, &p); err != nil {
			r.logger.Warn("Skipping unreadable profile", zap.String("id", id), zap.Error(err))
			continue
		}
		profiles = append(profiles, &p)
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})
	return profiles, nil
}
