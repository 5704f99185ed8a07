package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"

	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/landcover-microservice/internal/pkg/utils"
	"go.uber.org/zap"
)

// Document kinds stored per place
const (
	KindCoords     = "coords"
	KindPhoto      = "photo"
	KindForestData = "forest_data"
	KindOverlay    = "overlay"
)

// PlaceID builds the hierarchical id "<place>/<kind>".
func PlaceID(place, kind string) string {
	return utils.NormalizePlace(place) + "/" + kind
}

// ProfileID builds "profiles/<id>".
func ProfileID(id string) string {
	return "profiles/" + id
}

// Store - типизированная обёртка над BlobStorage: JSON-документы и PNG-изображения
type Store struct {
	storage repository.BlobStorage
	logger  *zap.Logger
}

func NewStore(storage repository.BlobStorage, logger *zap.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger,
	}
}

func (s *Store) SaveJSON(ctx context.Context, id string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", id, err)
	}
	return s.storage.Save(ctx, id, repository.FormatJSON, data)
}

// LoadJSON decodes the document into dst; a missing document yields domain.ErrDocumentNotFound.
func (s *Store) LoadJSON(ctx context.Context, id string, dst interface{}) error {
	data, err := s.storage.Load(ctx, id, repository.FormatJSON)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("Corrupt document", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("unmarshal %s: %w", id, err)
	}
	return nil
}

// SavePNG stores already encoded PNG bytes.
func (s *Store) SavePNG(ctx context.Context, id string, data []byte) error {
	return s.storage.Save(ctx, id, repository.FormatPNG, data)
}

// SaveImage encodes img as PNG and stores it.
func (s *Store) SaveImage(ctx context.Context, id string, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode %s: %w", id, err)
	}
	if err := s.SavePNG(ctx, id, buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadPNG returns the raw PNG bytes.
func (s *Store) LoadPNG(ctx context.Context, id string) ([]byte, error) {
	return s.storage.Load(ctx, id, repository.FormatPNG)
}

// LoadImage returns the decoded image together with its PNG bytes.
func (s *Store) LoadImage(ctx context.Context, id string) (image.Image, []byte, error) {
	data, err := s.LoadPNG(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		s.logger.Warn("Corrupt image", zap.String("id", id), zap.Error(err))
		return nil, nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return img, data, nil
}

// Delete removes every format stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	for _, format := range []string{repository.FormatJSON, repository.FormatPNG} {
		if err := s.storage.Delete(ctx, id, format); err != nil {
			return err
		}
	}
	return nil
}

// List returns the ids stored under prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	return s.storage.List(ctx, prefix)
}
