package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewBlobRepositoryForTest creates a blob storage backed by the test database
func NewBlobRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.BlobStorage {
	return postgres.NewBlobRepository(NewDBForTest(db, logger), logger)
}

// NewProfileRepositoryForTest creates a profile repository backed by the test database
func NewProfileRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ProfileRepository {
	return postgres.NewProfileRepository(NewDBForTest(db, logger), logger)
}
