package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

type blobRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewBlobRepository - документное хранилище в таблице blobs; коллекция - первый сегмент ключа
func NewBlobRepository(db *DB, logger *zap.Logger) repository.BlobStorage {
	return &blobRepository{
		db:     db,
		logger: logger,
	}
}

func collectionOf(id string) string {
	if i := strings.IndexByte(id, '/'); i > 0 {
		return id[:i]
	}
	return id
}

// Save сохраняет документ (upsert)
func (r *blobRepository) Save(ctx context.Context, id, format string, content []byte) error {
	query := `
		INSERT INTO blobs (id, format, collection, content, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id, format)
		DO UPDATE SET content = EXCLUDED.content, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, id, format, collectionOf(id), content); err != nil {
		r.logger.Error("failed to save blob", zap.String("id", id), zap.String("format", format), zap.Error(err))
		return fmt.Errorf("save blob %s.%s: %w", id, format, err)
	}

	r.logger.Debug("blob saved", zap.String("id", id), zap.Int("bytes", len(content)))
	return nil
}

// Load загружает документ
func (r *blobRepository) Load(ctx context.Context, id, format string) ([]byte, error) {
	var content []byte
	err := r.db.GetContext(ctx, &content, `SELECT content FROM blobs WHERE id = $1 AND format = $2`, id, format)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blob %s.%s: %w", id, format, domain.ErrDocumentNotFound)
	}
	if err != nil {
		r.logger.Error("failed to load blob", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("load blob %s.%s: %w", id, format, err)
	}
	return content, nil
}

func (r *blobRepository) Delete(ctx context.Context, id, format string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM blobs WHERE id = $1 AND format = $2`, id, format); err != nil {
		r.logger.Error("failed to delete blob", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("delete blob %s.%s: %w", id, format, err)
	}
	return nil
}

// List возвращает ключи с префиксом prefix в алфавитном порядке
func (r *blobRepository) List(ctx context.Context, prefix string) ([]string, error) {
	ids := []string{}
	err := r.db.SelectContext(ctx, &ids,
		`SELECT DISTINCT id FROM blobs WHERE id LIKE $1 ESCAPE '\' ORDER BY id`,
		escapeLike(prefix)+"%")
	if err != nil {
		r.logger.Error("failed to list blobs", zap.String("prefix", prefix), zap.Error(err))
		return nil, fmt.Errorf("list blobs %q: %w", prefix, err)
	}
	return ids, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
