// Package store archives generated levels so they can be listed and reloaded later.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samdwyer/dungeongen/internal/world"
)

// ErrNotFound is returned when no level has the requested ID.
var ErrNotFound = errors.New("level not found")

// Storage defines the interface for level archives.
type Storage interface {
	// Save archives the level and returns its new ID.
	Save(ctx context.Context, level *world.Level) (string, error)
	// Load rebuilds an archived level.
	Load(ctx context.Context, id string) (*world.Level, error)
	// List returns summaries of all archived levels, oldest first.
	List(ctx context.Context) ([]Summary, error)
	Close() error
}

// Summary describes an archived level without its tiles.
type Summary struct {
	ID          string          `json:"id"`
	Seed        string          `json:"seed"`
	Algorithm   world.Algorithm `json:"algorithm"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Rooms       int             `json:"rooms"`
	Fingerprint string          `json:"fingerprint"`
	CreatedAt   time.Time       `json:"created_at"`
}

func newSummary(id string, e world.Export, createdAt time.Time) Summary {
	return Summary{
		ID:          id,
		Seed:        e.Seed,
		Algorithm:   e.Algorithm,
		Width:       e.Width,
		Height:      e.Height,
		Rooms:       len(e.Rooms),
		Fingerprint: e.Fingerprint,
		CreatedAt:   createdAt.UTC(),
	}
}

func newID() string {
	return uuid.NewString()
}

// Type selects a storage backend.
type Type string

const (
	TypeJSON     Type = "json"
	TypeSQLite   Type = "sqlite"
	TypePostgres Type = "postgres"
)

// Config selects and configures a backend.
type Config struct {
	Type Type
	Path string // File path for the json and sqlite backends
	DSN  string // Connection string for the postgres backend
}

type options struct {
	logger *slog.Logger
}

// Option configures a store.
type Option func(*options)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func applyOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open creates the backend named by cfg.
func Open(ctx context.Context, cfg Config, opts ...Option) (Storage, error) {
	switch cfg.Type {
	case TypeJSON, "":
		path := cfg.Path
		if path == "" {
			path = "levels.json"
		}
		return NewJSONStore(path, opts...)
	case TypeSQLite:
		path := cfg.Path
		if path == "" {
			path = "levels.db"
		}
		return NewSQLiteStore(ctx, path, opts...)
	case TypePostgres:
		return NewPostgresStore(ctx, cfg.DSN, opts...)
	default:
		return nil, fmt.Errorf("unknown store type %q (want json, sqlite or postgres)", cfg.Type)
	}
}
