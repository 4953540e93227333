// Package generate implements the two dungeon generation algorithms: rooms and
// corridors, and binary space partitioning.
package generate

import (
	"fmt"
	"math"

	"github.com/samdwyer/dungeongen/internal/world"
)

const (
	// Default board and room dimensions.
	DefaultWidth         = 48
	DefaultHeight        = 40
	DefaultMinRoomWidth  = 4
	DefaultMinRoomHeight = 5

	// DefaultRoomMargin is the number of wall tiles kept between placed rooms.
	DefaultRoomMargin = 1
)

// Neighborhood selects which cells count as adjacent in the wall-border pass.
type Neighborhood int

const (
	// NeighborhoodCardinal uses the four orthogonal neighbors.
	NeighborhoodCardinal Neighborhood = iota
	// NeighborhoodMoore uses all eight neighbors, so room corners are bordered too.
	NeighborhoodMoore
)

// Config holds the generation parameters shared by both algorithms.
type Config struct {
	Width  int
	Height int

	MinRoomWidth  int
	MinRoomHeight int

	// Walls enables the wall-border pass.
	Walls        bool
	Neighborhood Neighborhood

	// RoomMargin is the minimum gap between rooms placed by the rooms and corridors
	// algorithm. Zero lets rooms touch.
	RoomMargin int
}

// DefaultConfig returns the configuration used by the command line tool.
func DefaultConfig() Config {
	return Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		MinRoomWidth:  DefaultMinRoomWidth,
		MinRoomHeight: DefaultMinRoomHeight,
		Neighborhood:  NeighborhoodCardinal,
		RoomMargin:    DefaultRoomMargin,
	}
}

// Validate checks that the configuration can produce a level.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("board %dx%d: %w", c.Width, c.Height, world.ErrInvalidConfig)
	case c.Width > math.MaxInt/c.Height:
		return fmt.Errorf("board %dx%d is too large: %w", c.Width, c.Height, world.ErrInvalidConfig)
	case c.MinRoomWidth <= 0 || c.MinRoomHeight <= 0:
		return fmt.Errorf("minimum room %dx%d: %w", c.MinRoomWidth, c.MinRoomHeight, world.ErrInvalidConfig)
	case c.MinRoomWidth > c.Width:
		return fmt.Errorf("minimum room width %d exceeds board width %d: %w", c.MinRoomWidth, c.Width, world.ErrInvalidConfig)
	case c.MinRoomHeight > c.Height:
		return fmt.Errorf("minimum room height %d exceeds board height %d: %w", c.MinRoomHeight, c.Height, world.ErrInvalidConfig)
	case c.RoomMargin < 0:
		return fmt.Errorf("room margin %d: %w", c.RoomMargin, world.ErrInvalidConfig)
	case c.Neighborhood != NeighborhoodCardinal && c.Neighborhood != NeighborhoodMoore:
		return fmt.Errorf("neighborhood %d: %w", c.Neighborhood, world.ErrInvalidConfig)
	}
	return nil
}
