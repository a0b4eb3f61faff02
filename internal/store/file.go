package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/dshills/plantdx/internal/kb"
	"github.com/dshills/plantdx/internal/logging"
	"github.com/dshills/plantdx/internal/schema"
)

// FileStore keeps a knowledge base in a single JSON or YAML file. The
// format follows the file extension.
type FileStore struct {
	fs   afero.Fs
	path string
	log  *zap.Logger
}

// NewFileStore creates a FileStore for path on fs. Use afero.NewOsFs() for
// real files or afero.NewMemMapFs() in tests.
func NewFileStore(fs afero.Fs, path string, log *zap.Logger) *FileStore {
	log = logging.OrNop(log)
	return &FileStore{fs: fs, path: path, log: log}
}

// Load reads and validates the file. A missing or empty file yields the
// built-in default knowledge base.
func (s *FileStore) Load(ctx context.Context) (schema.KnowledgeBase, error) {
	if err := ctx.Err(); err != nil {
		return schema.KnowledgeBase{}, err
	}
	out, err := ReadFile(s.fs, s.path)
	if errors.Is(err, ErrNotFound) {
		s.log.Debug("knowledge base file absent, using default", zap.String("path", s.path))
		return kb.Default(), nil
	}
	if err != nil {
		return schema.KnowledgeBase{}, err
	}
	s.log.Debug("knowledge base loaded",
		zap.String("path", s.path),
		zap.Int("symptoms", len(out.Symptoms)),
		zap.Int("diseases", len(out.Diseases)))
	return out, nil
}

// Save validates kb and writes it through a temporary file renamed into place.
func (s *FileStore) Save(ctx context.Context, base schema.KnowledgeBase) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := WriteFile(s.fs, s.path, base); err != nil {
		return err
	}
	s.log.Info("knowledge base saved", zap.String("path", s.path), zap.Int("diseases", len(base.Diseases)))
	return nil
}

// Reset removes the file. Removing a file that does not exist succeeds.
func (s *FileStore) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: reset %s: %w", s.path, err)
	}
	s.log.Info("knowledge base reset", zap.String("path", s.path))
	return nil
}

func (s *FileStore) Describe() string { return DriverFile + ":" + s.path }

func (s *FileStore) Close() error { return nil }

// ReadFile decodes and validates a knowledge base file. It returns an error
// wrapping ErrNotFound when the file is missing or blank.
func ReadFile(fs afero.Fs, path string) (schema.KnowledgeBase, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return schema.KnowledgeBase{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return schema.KnowledgeBase{}, fmt.Errorf("store: read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return schema.KnowledgeBase{}, fmt.Errorf("%w: %s is empty", ErrNotFound, path)
	}

	var out schema.KnowledgeBase
	if err := Unmarshal(path, data, &out); err != nil {
		return schema.KnowledgeBase{}, err
	}
	if err := out.Validate(); err != nil {
		return schema.KnowledgeBase{}, fmt.Errorf("store: %s: %w", path, err)
	}
	return out, nil
}

// WriteFile validates kb and writes it to path, creating parent directories.
func WriteFile(fs afero.Fs, path string, base schema.KnowledgeBase) error {
	if err := base.Validate(); err != nil {
		return fmt.Errorf("store: refusing to save invalid knowledge base: %w", err)
	}
	data, err := Marshal(path, base)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: create %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("store: rename %s: %w", tmp, err)
	}
	return nil
}
