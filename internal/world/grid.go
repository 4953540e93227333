package world

import (
	"fmt"
	"iter"
	"math"
)

// Grid is a fixed-size, row-major array of tiles addressed by (x, y).
type Grid struct {
	width  int
	height int
	tiles  []Tile
}

// NewGrid creates a grid filled with walls.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 || width > math.MaxInt/height {
		return nil, fmt.Errorf("grid %dx%d: %w", width, height, ErrInvalidDimension)
	}
	return &Grid{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height), // zero value is TileWall
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds returns true if (x, y) addresses a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the tile at the given position.
func (g *Grid) Get(x, y int) (Tile, error) {
	if !g.InBounds(x, y) {
		return TileWall, fmt.Errorf("get (%d,%d) on %dx%d grid: %w", x, y, g.width, g.height, ErrOutOfBounds)
	}
	return g.tiles[y*g.width+x], nil
}

// Set stores a tile at the given position.
func (g *Grid) Set(x, y int, t Tile) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("set (%d,%d) on %dx%d grid: %w", x, y, g.width, g.height, ErrOutOfBounds)
	}
	if !t.Valid() {
		return fmt.Errorf("set (%d,%d): invalid tile %d", x, y, t)
	}
	g.tiles[y*g.width+x] = t
	return nil
}

// Fill sets every cell to t.
func (g *Grid) Fill(t Tile) error {
	if !t.Valid() {
		return fmt.Errorf("fill: invalid tile %d", t)
	}
	for i := range g.tiles {
		g.tiles[i] = t
	}
	return nil
}

// Rows returns an iterator over the grid rows from top to bottom.
// Each yielded row is a copy, so callers cannot mutate the grid through it.
func (g *Grid) Rows() iter.Seq2[int, []Tile] {
	return func(yield func(int, []Tile) bool) {
		for y := 0; y < g.height; y++ {
			row := make([]Tile, g.width)
			copy(row, g.tiles[y*g.width:(y+1)*g.width])
			if !yield(y, row) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	tiles := make([]Tile, len(g.tiles))
	copy(tiles, g.tiles)
	return &Grid{width: g.width, height: g.height, tiles: tiles}
}

// at returns the tile at an in-bounds position without checking.
func (g *Grid) at(x, y int) Tile {
	return g.tiles[y*g.width+x]
}
