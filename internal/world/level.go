package world

import (
	"encoding/binary"
	"fmt"
	"iter"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Level is a finished dungeon: the carved grid, the rooms in generation order and the
// metadata needed to reproduce it. A Level is never modified after construction.
type Level struct {
	seed      string
	algorithm Algorithm
	walls     bool
	grid      *Grid
	rooms     []Room
}

// NewLevel wraps a generated grid and room list. The level takes ownership of grid.
// Every room must lie inside the grid.
func NewLevel(seed string, algorithm Algorithm, walls bool, grid *Grid, rooms []Room) (*Level, error) {
	if grid == nil {
		return nil, fmt.Errorf("new level: nil grid: %w", ErrInvalidDimension)
	}
	for i, room := range rooms {
		if !room.Within(grid.width, grid.height) {
			return nil, fmt.Errorf("room %d %+v outside %dx%d board: %w",
				i, room, grid.width, grid.height, ErrOutOfBounds)
		}
	}

	return &Level{
		seed:      seed,
		algorithm: algorithm,
		walls:     walls,
		grid:      grid,
		rooms:     append([]Room(nil), rooms...),
	}, nil
}

// Width returns the number of columns.
func (l *Level) Width() int { return l.grid.width }

// Height returns the number of rows.
func (l *Level) Height() int { return l.grid.height }

// Seed returns the seed the level was generated from.
func (l *Level) Seed() string { return l.seed }

// Algorithm returns the generator that produced the level.
func (l *Level) Algorithm() Algorithm { return l.algorithm }

// Walls returns true if the wall-border pass ran.
func (l *Level) Walls() bool { return l.walls }

// Tile returns the tile at the given position.
func (l *Level) Tile(x, y int) (Tile, error) {
	return l.grid.Get(x, y)
}

// Rooms returns a copy of the room list in generation order.
func (l *Level) Rooms() []Room {
	return append([]Room(nil), l.rooms...)
}

// Rows iterates over the level's rows from top to bottom.
func (l *Level) Rows() iter.Seq2[int, []Tile] {
	return l.grid.Rows()
}

// Grid returns a copy of the level's grid.
func (l *Level) Grid() *Grid {
	return l.grid.Clone()
}

// String renders the level as text: one line per row, one glyph per tile.
func (l *Level) String() string {
	var sb strings.Builder
	sb.Grow((l.grid.width + 1) * l.grid.height)
	for y := 0; y < l.grid.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < l.grid.width; x++ {
			sb.WriteRune(l.grid.at(x, y).Rune())
		}
	}
	return sb.String()
}

// Fingerprint returns a 64-bit hash of the level layout (dimensions, tiles and rooms).
// Two levels with the same layout always share a fingerprint.
func (l *Level) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	writeInt(l.grid.width)
	writeInt(l.grid.height)
	tiles := make([]byte, len(l.grid.tiles))
	for i, t := range l.grid.tiles {
		tiles[i] = byte(t)
	}
	h.Write(tiles)

	writeInt(len(l.rooms))
	for _, r := range l.rooms {
		writeInt(r.X)
		writeInt(r.Y)
		writeInt(r.Width)
		writeInt(r.Height)
	}
	return h.Sum64()
}
