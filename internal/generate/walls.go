package generate

import "github.com/samdwyer/dungeongen/internal/world"

var (
	cardinalOffsets = [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	mooreOffsets    = [][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
)

// addBorders marks every wall touching floor or corridor as a border tile.
// Borders are not passable, so marking one never changes the outcome for its neighbors.
func addBorders(grid *world.Grid, hood Neighborhood) error {
	offsets := cardinalOffsets
	if hood == NeighborhoodMoore {
		offsets = mooreOffsets
	}

	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			t, err := grid.Get(x, y)
			if err != nil {
				return err
			}
			if t != world.TileWall || !touchesPassable(grid, x, y, offsets) {
				continue
			}
			if err := grid.Set(x, y, world.TileBorder); err != nil {
				return err
			}
		}
	}
	return nil
}

func touchesPassable(grid *world.Grid, x, y int, offsets [][2]int) bool {
	for _, d := range offsets {
		nx, ny := x+d[0], y+d[1]
		if !grid.InBounds(nx, ny) {
			continue
		}
		if t, _ := grid.Get(nx, ny); t.IsPassable() {
			return true
		}
	}
	return false
}
