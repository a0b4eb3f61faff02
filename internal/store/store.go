// Package store persists plant disease knowledge bases. Three backends are
// available: the read-only built-in registry, a JSON or YAML file, and a
// SQLite database. A backend that has never been written to loads the
// built-in default knowledge base.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/dshills/plantdx/internal/kb"
	"github.com/dshills/plantdx/internal/logging"
	"github.com/dshills/plantdx/internal/schema"
)

var (
	// ErrReadOnly is returned by Save and Reset on the built-in backend.
	ErrReadOnly = errors.New("store: knowledge base is read-only")
	// ErrNotFound is returned when a knowledge base file does not exist.
	ErrNotFound = errors.New("store: not found")
)

// Driver names accepted by Open.
const (
	DriverBuiltin = "builtin"
	DriverFile    = "file"
	DriverSQLite  = "sqlite"
)

// Store loads and saves one knowledge base.
type Store interface {
	// Load returns the stored knowledge base, or the built-in default when
	// nothing has been saved yet.
	Load(ctx context.Context) (schema.KnowledgeBase, error)
	// Save validates kb and replaces the stored knowledge base with it.
	Save(ctx context.Context, kb schema.KnowledgeBase) error
	// Reset discards the stored knowledge base so that Load returns the
	// built-in default again.
	Reset(ctx context.Context) error
	// Describe names the backend and location, e.g. "file:kb.yaml".
	Describe() string
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver string
	// Path is the built-in name, file path or database path.
	Path   string
	Fs     afero.Fs
	Logger *zap.Logger
}

// Open returns the backend named by opts.Driver. An empty driver selects
// the built-in registry.
func Open(opts Options) (Store, error) {
	log := logging.OrNop(opts.Logger)
	switch opts.Driver {
	case "", DriverBuiltin:
		name := opts.Path
		if name == "" {
			name = kb.DefaultName
		}
		if _, err := kb.Load(name); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		return &BuiltinStore{name: name}, nil
	case DriverFile:
		if opts.Path == "" {
			return nil, fmt.Errorf("store: file driver requires a path")
		}
		if _, err := FormatOf(opts.Path); err != nil {
			return nil, err
		}
		fs := opts.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		return NewFileStore(fs, opts.Path, log), nil
	case DriverSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("store: sqlite driver requires a path")
		}
		return NewSQLStore(opts.Path, log)
	default:
		return nil, fmt.Errorf("store: unknown driver %q (available: builtin, file, sqlite)", opts.Driver)
	}
}

// BuiltinStore serves a knowledge base compiled into the binary.
type BuiltinStore struct {
	name string
}

func (s *BuiltinStore) Load(context.Context) (schema.KnowledgeBase, error) {
	return kb.Load(s.name)
}

func (s *BuiltinStore) Save(context.Context, schema.KnowledgeBase) error { return ErrReadOnly }

func (s *BuiltinStore) Reset(context.Context) error { return ErrReadOnly }

func (s *BuiltinStore) Describe() string { return DriverBuiltin + ":" + s.name }

func (s *BuiltinStore) Close() error { return nil }
