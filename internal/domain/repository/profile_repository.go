package repository

import (
	"context"

	"github.com/landcover-microservice/internal/domain"
)

// ProfileRepository хранит профили калибровки
type ProfileRepository interface {
	Save(ctx context.Context, profile *domain.Profile) error

	// Get возвращает domain.ErrProfileNotFound, если профиля нет
	Get(ctx context.Context, id string) (*domain.Profile, error)

	// List возвращает профили, новые первыми
	List(ctx context.Context) ([]*domain.Profile, error)
}
