package generate

import (
	"github.com/samdwyer/dungeongen/internal/world"
)

const (
	// roomSizeSpread is how far above the minimum a room dimension may grow.
	roomSizeSpread = 10
	// attemptsPerRoom bounds placement: target rooms x attemptsPerRoom tries in total.
	attemptsPerRoom = 5
	// borderMargin keeps rooms off the outermost ring of the board.
	borderMargin = 1
)

// RoomsCorridors places randomly sized rooms at random positions, rejecting any that
// would overlap an earlier one, then joins consecutive rooms with corridors.
//
// Draw order: for each placement attempt, width, height, x, y. Corridors and the
// wall-border pass draw nothing.
type RoomsCorridors struct{}

// Algorithm identifies the generator.
func (RoomsCorridors) Algorithm() world.Algorithm { return world.AlgorithmRooms }

// Generate builds a level. It fails with world.ErrInvalidConfig before touching any
// state when cfg is unusable. Fewer rooms than targeted is a valid outcome.
func (g RoomsCorridors) Generate(seed string, cfg Config, rng Rand) (*world.Level, error) {
	if err := validate(cfg, rng); err != nil {
		return nil, err
	}

	grid, err := world.NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	rooms, err := placeRooms(grid, cfg, rng)
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(rooms); i++ {
		if err := carveCorridor(grid, rooms[i-1], rooms[i]); err != nil {
			return nil, err
		}
	}

	if cfg.Walls {
		if err := addBorders(grid, cfg.Neighborhood); err != nil {
			return nil, err
		}
	}

	return world.NewLevel(seed, world.AlgorithmRooms, cfg.Walls, grid, rooms)
}

// roomBounds returns the size range for rooms and whether any room fits on the board
// with the border margin.
func roomBounds(cfg Config) (maxWidth, maxHeight int, ok bool) {
	maxWidth = min(cfg.MinRoomWidth+roomSizeSpread, cfg.Width-2*borderMargin)
	maxHeight = min(cfg.MinRoomHeight+roomSizeSpread, cfg.Height-2*borderMargin)
	return maxWidth, maxHeight, maxWidth >= cfg.MinRoomWidth && maxHeight >= cfg.MinRoomHeight
}

// targetRoomCount estimates how many average rooms fit on the board.
func targetRoomCount(cfg Config, maxWidth, maxHeight int) int {
	avgWidth := (cfg.MinRoomWidth + maxWidth) / 2
	avgHeight := (cfg.MinRoomHeight + maxHeight) / 2
	expected := (avgWidth + cfg.RoomMargin) * (avgHeight + cfg.RoomMargin)
	return max(1, cfg.Width*cfg.Height/expected)
}

// placeRooms runs the bounded placement loop and carves accepted rooms.
func placeRooms(grid *world.Grid, cfg Config, rng Rand) ([]world.Room, error) {
	maxWidth, maxHeight, ok := roomBounds(cfg)
	if !ok {
		return nil, nil
	}

	target := targetRoomCount(cfg, maxWidth, maxHeight)
	rooms := make([]world.Room, 0, target)

	for attempt := 0; attempt < target*attemptsPerRoom && len(rooms) < target; attempt++ {
		width := between(rng, cfg.MinRoomWidth, maxWidth)
		height := between(rng, cfg.MinRoomHeight, maxHeight)
		room := world.Room{
			X:      between(rng, borderMargin, cfg.Width-width-borderMargin),
			Y:      between(rng, borderMargin, cfg.Height-height-borderMargin),
			Width:  width,
			Height: height,
		}

		if collides(room, rooms, cfg.RoomMargin) {
			continue
		}
		if err := carveRoom(grid, room); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// collides returns true if room, grown by margin, overlaps any placed room.
func collides(room world.Room, placed []world.Room, margin int) bool {
	padded := room.Expand(margin)
	for _, other := range placed {
		if padded.Intersects(other) {
			return true
		}
	}
	return false
}
