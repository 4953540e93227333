package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/samdwyer/dungeongen/internal/world"
)

// DefaultPostgresDSN is used when no connection string is configured.
const DefaultPostgresDSN = "host=localhost user=dungeongen password=dungeongen dbname=dungeongen sslmode=disable"

// pingTries bounds the connection attempts made while the database starts up.
const pingTries = 5

// PostgresStore keeps the archive in PostgreSQL with tiles and rooms as JSONB.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore connects to PostgreSQL and creates the schema if needed.
func NewPostgresStore(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	o := applyOptions(opts)
	if dsn == "" {
		dsn = DefaultPostgresDSN
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The database may still be starting (e.g. next to us in docker compose).
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, db.PingContext(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(pingTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			o.logger.Warn("postgres not ready", "err", err, "retry_in", next)
		}),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db, logger: o.logger}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema initializes the database schema.
func (ps *PostgresStore) initSchema(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS levels (
		id UUID PRIMARY KEY,
		seed TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		walls BOOLEAN NOT NULL,
		fingerprint TEXT NOT NULL,
		rooms JSONB NOT NULL,
		tiles JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`)
	return err
}

// Close closes the database connection.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// Save archives a level.
func (ps *PostgresStore) Save(ctx context.Context, level *world.Level) (string, error) {
	id := newID()
	e := level.Export()

	roomsJSON, err := json.Marshal(e.Rooms)
	if err != nil {
		return "", err
	}
	tilesJSON, err := json.Marshal(e.Tiles)
	if err != nil {
		return "", err
	}

	_, err = ps.db.ExecContext(ctx, `
		INSERT INTO levels (id, seed, algorithm, width, height, walls, fingerprint, rooms, tiles)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, e.Seed, e.Algorithm.String(), e.Width, e.Height, e.Walls, e.Fingerprint, roomsJSON, tilesJSON)
	if err != nil {
		return "", fmt.Errorf("insert level: %w", err)
	}

	ps.logger.Debug("level saved", "id", id, "seed", e.Seed)
	return id, nil
}

// Load rebuilds a level by ID.
func (ps *PostgresStore) Load(ctx context.Context, id string) (*world.Level, error) {
	var (
		e                    world.Export
		algorithm            string
		roomsJSON, tilesJSON []byte
	)
	err := ps.db.QueryRowContext(ctx, `
		SELECT seed, algorithm, width, height, walls, fingerprint, rooms, tiles
		FROM levels WHERE id = $1`, id).
		Scan(&e.Seed, &algorithm, &e.Width, &e.Height, &e.Walls, &e.Fingerprint, &roomsJSON, &tilesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("level %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if e.Algorithm, err = world.ParseAlgorithm(algorithm); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(roomsJSON, &e.Rooms); err != nil {
		return nil, fmt.Errorf("decode rooms: %w", err)
	}
	if err := json.Unmarshal(tilesJSON, &e.Tiles); err != nil {
		return nil, fmt.Errorf("decode tiles: %w", err)
	}
	return world.FromExport(e)
}

// List returns summaries of all archived levels, oldest first.
func (ps *PostgresStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, seed, algorithm, width, height, fingerprint, jsonb_array_length(rooms), created_at
		FROM levels ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var (
			sum       Summary
			algorithm string
		)
		if err := rows.Scan(&sum.ID, &sum.Seed, &algorithm, &sum.Width, &sum.Height,
			&sum.Fingerprint, &sum.Rooms, &sum.CreatedAt); err != nil {
			return nil, err
		}
		if sum.Algorithm, err = world.ParseAlgorithm(algorithm); err != nil {
			return nil, err
		}
		sum.CreatedAt = sum.CreatedAt.UTC()
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
