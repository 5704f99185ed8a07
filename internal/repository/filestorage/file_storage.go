package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/domain/repository"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type fileStorage struct {
	fs     afero.Fs
	root   string
	logger *zap.Logger
}

// New - хранилище документов в файлах "<root>/<id>.<format>"
func New(fsys afero.Fs, root string, logger *zap.Logger) repository.BlobStorage {
	return &fileStorage{
		fs:     fsys,
		root:   root,
		logger: logger,
	}
}

// NewOS создаёт хранилище на локальной файловой системе
func NewOS(root string, logger *zap.Logger) (repository.BlobStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", root, err)
	}
	logger.Info("File storage ready", zap.String("root", root))
	return New(afero.NewOsFs(), root, logger), nil
}

// pathOf проверяет ключ и возвращает путь файла
func (s *fileStorage) pathOf(id, format string) (string, error) {
	clean := path.Clean("/" + id)
	if id == "" || clean == "/" || strings.Contains(id, "..") || strings.ContainsAny(format, `/\.`) || format == "" {
		return "", fmt.Errorf("invalid document id %q (format %q)", id, format)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean[1:])+"."+format), nil
}

func (s *fileStorage) Save(_ context.Context, id, format string, content []byte) error {
	p, err := s.pathOf(id, format)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", id, err)
	}
	// запись через временный файл, чтобы читатели не видели частичный документ
	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, content, 0o644); err != nil {
		s.logger.Error("Failed to write document", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("write %s: %w", id, err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("rename %s: %w", id, err)
	}

	s.logger.Debug("Document saved", zap.String("path", p), zap.Int("bytes", len(content)))
	return nil
}

func (s *fileStorage) Load(_ context.Context, id, format string) ([]byte, error) {
	p, err := s.pathOf(id, format)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s.%s: %w", id, format, domain.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", id, err)
	}
	return data, nil
}

func (s *fileStorage) Delete(_ context.Context, id, format string) error {
	p, err := s.pathOf(id, format)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// List возвращает ключи (без расширения) с префиксом prefix
func (s *fileStorage) List(_ context.Context, prefix string) ([]string, error) {
	seen := make(map[string]struct{})
	err := afero.Walk(s.fs, s.root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.IsDir() || strings.HasSuffix(p, ".tmp") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		id := strings.TrimSuffix(rel, path.Ext(rel))
		if strings.HasPrefix(id, prefix) {
			seen[id] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
