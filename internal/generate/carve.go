package generate

import "github.com/samdwyer/dungeongen/internal/world"

// carveRoom sets all tiles within the room to floor.
func carveRoom(grid *world.Grid, room world.Room) error {
	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			if err := grid.Set(x, y, world.TileFloor); err != nil {
				return err
			}
		}
	}
	return nil
}

// carveCorridor joins the centers of two rooms with an L-shaped corridor.
// The longer leg is dug first: horizontal then vertical when |dx| >= |dy|,
// vertical then horizontal otherwise. Both elbows lie between the two centers,
// so the corridor never leaves the board.
func carveCorridor(grid *world.Grid, from, to world.Room) error {
	x1, y1 := from.Center()
	x2, y2 := to.Center()

	if abs(x2-x1) >= abs(y2-y1) {
		if err := carveHorizontalTunnel(grid, x1, x2, y1); err != nil {
			return err
		}
		return carveVerticalTunnel(grid, y1, y2, x2)
	}
	if err := carveVerticalTunnel(grid, y1, y2, x1); err != nil {
		return err
	}
	return carveHorizontalTunnel(grid, x1, x2, y2)
}

// carveHorizontalTunnel carves a horizontal tunnel.
func carveHorizontalTunnel(grid *world.Grid, x1, x2, y int) error {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		if err := carveCorridorTile(grid, x, y); err != nil {
			return err
		}
	}
	return nil
}

// carveVerticalTunnel carves a vertical tunnel.
func carveVerticalTunnel(grid *world.Grid, y1, y2, x int) error {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		if err := carveCorridorTile(grid, x, y); err != nil {
			return err
		}
	}
	return nil
}

// carveCorridorTile turns a wall into corridor. Floor and existing corridor are left alone.
func carveCorridorTile(grid *world.Grid, x, y int) error {
	t, err := grid.Get(x, y)
	if err != nil {
		return err
	}
	if t != world.TileWall {
		return nil
	}
	return grid.Set(x, y, world.TileCorridor)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
