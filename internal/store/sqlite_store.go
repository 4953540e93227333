package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/hilbert"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/samdwyer/dungeongen/internal/world"
)

// SQLiteStore keeps the archive in a SQLite database file. Rooms are stored one row
// each with the Hilbert curve index of their center, so spatial queries can walk
// neighboring rooms in locality order.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at filePath.
func NewSQLiteStore(ctx context.Context, filePath string, opts ...Option) (*SQLiteStore, error) {
	o := applyOptions(opts)

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// SQLite allows a single writer; batch runs save from several goroutines.
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS levels (
			id TEXT PRIMARY KEY,
			seed TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			walls INTEGER NOT NULL,
			fingerprint TEXT NOT NULL,
			tiles BLOB NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS rooms (
			level_id TEXT NOT NULL REFERENCES levels(id),
			idx INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			hilbert INTEGER NOT NULL,
			PRIMARY KEY (level_id, idx)
		);
		CREATE INDEX IF NOT EXISTS rooms_hilbert ON rooms (level_id, hilbert);
	`)
	if err != nil {
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	o.logger.Debug("sqlite store opened", "path", filePath)
	return &SQLiteStore{db: db, logger: o.logger}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save archives a level in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, level *world.Level) (string, error) {
	id := newID()
	e := level.Export()

	tiles := make([]byte, len(e.Tiles))
	for i, code := range e.Tiles {
		tiles[i] = byte(code)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO levels (id, seed, algorithm, width, height, walls, fingerprint, tiles, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.Seed, e.Algorithm.String(), e.Width, e.Height, e.Walls, e.Fingerprint, tiles,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("insert level: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO rooms (level_id, idx, x, y, width, height, hilbert) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, r := range e.Rooms {
		h, err := hilbertIndex(r, e.Width, e.Height)
		if err != nil {
			return "", err
		}
		if _, err := stmt.ExecContext(ctx, id, i, r.X, r.Y, r.Width, r.Height, h); err != nil {
			return "", fmt.Errorf("insert room %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	s.logger.Debug("level saved", "id", id, "seed", e.Seed, "rooms", len(e.Rooms))
	return id, nil
}

// Load rebuilds a level by ID.
func (s *SQLiteStore) Load(ctx context.Context, id string) (*world.Level, error) {
	var (
		e         world.Export
		algorithm string
		tiles     []byte
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT seed, algorithm, width, height, walls, fingerprint, tiles FROM levels WHERE id = ?", id).
		Scan(&e.Seed, &algorithm, &e.Width, &e.Height, &e.Walls, &e.Fingerprint, &tiles)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("level %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if e.Algorithm, err = world.ParseAlgorithm(algorithm); err != nil {
		return nil, err
	}

	e.Tiles = make([]int, len(tiles))
	for i, b := range tiles {
		e.Tiles[i] = int(b)
	}

	e.Rooms, err = s.queryRooms(ctx, "SELECT x, y, width, height FROM rooms WHERE level_id = ? ORDER BY idx", id)
	if err != nil {
		return nil, err
	}
	return world.FromExport(e)
}

// Rooms returns the rooms of a level ordered along a Hilbert curve over the board,
// which keeps rooms that are close on the map close in the list.
func (s *SQLiteStore) Rooms(ctx context.Context, id string) ([]world.Room, error) {
	rooms, err := s.queryRooms(ctx, "SELECT x, y, width, height FROM rooms WHERE level_id = ? ORDER BY hilbert, idx", id)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM levels WHERE id = ?", id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("level %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
	}
	return rooms, nil
}

func (s *SQLiteStore) queryRooms(ctx context.Context, query, id string) ([]world.Room, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := []world.Room{}
	for rows.Next() {
		var r world.Room
		if err := rows.Scan(&r.X, &r.Y, &r.Width, &r.Height); err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// List returns summaries of all archived levels, oldest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.seed, l.algorithm, l.width, l.height, l.fingerprint, l.created_at,
		       (SELECT COUNT(*) FROM rooms r WHERE r.level_id = l.id)
		FROM levels l
		ORDER BY l.created_at, l.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var (
			sum       Summary
			algorithm string
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Seed, &algorithm, &sum.Width, &sum.Height,
			&sum.Fingerprint, &createdAt, &sum.Rooms); err != nil {
			return nil, err
		}
		if sum.Algorithm, err = world.ParseAlgorithm(algorithm); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// hilbertIndex maps the room center onto a Hilbert curve covering the board.
func hilbertIndex(r world.Room, width, height int) (int, error) {
	side := 1
	for side < max(width, height) {
		side <<= 1
	}
	h, err := hilbert.NewHilbert(side)
	if err != nil {
		return 0, err
	}
	cx, cy := r.Center()
	return h.MapInverse(cx, cy)
}
