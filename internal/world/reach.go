package world

import "github.com/zyedidia/generic/mapset"

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

var cardinals = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Reachable returns every passable cell reachable from (x, y) by 4-directional movement.
// The set is empty when the start cell is not passable.
func (g *Grid) Reachable(x, y int) mapset.Set[Point] {
	reachable := mapset.New[Point]()
	if !g.InBounds(x, y) || !g.at(x, y).IsPassable() {
		return reachable
	}

	queue := []Point{{x, y}}
	reachable.Put(Point{x, y})
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, d := range cardinals {
			n := Point{current.X + d.X, current.Y + d.Y}
			if !g.InBounds(n.X, n.Y) || reachable.Has(n) || !g.at(n.X, n.Y).IsPassable() {
				continue
			}
			reachable.Put(n)
			queue = append(queue, n)
		}
	}
	return reachable
}

// Connected returns true if every room can be reached from every other room
// through floor and corridor tiles.
func (l *Level) Connected() bool {
	if len(l.rooms) < 2 {
		return true
	}

	reachable := l.grid.Reachable(l.rooms[0].Center())
	for _, room := range l.rooms[1:] {
		cx, cy := room.Center()
		if !reachable.Has(Point{cx, cy}) {
			return false
		}
	}
	return true
}
