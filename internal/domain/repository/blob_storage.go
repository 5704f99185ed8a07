package repository

import (
	"context"
)

// Blob formats
const (
	FormatJSON = "json"
	FormatPNG  = "png"
)

// BlobStorage - хранилище документов с иерархическими ключами вида "<place>/forest_data"
type BlobStorage interface {
	// Save сохраняет содержимое под ключом id
	Save(ctx context.Context, id, format string, content []byte) error

	// Load загружает содержимое; отсутствие ключа - domain.ErrDocumentNotFound
	Load(ctx context.Context, id, format string) ([]byte, error)

	// Delete удаляет документ; отсутствие ключа не ошибка
	Delete(ctx context.Context, id, format string) error

	// List возвращает ключи с заданным префиксом
	List(ctx context.Context, prefix string) ([]string, error)
}
