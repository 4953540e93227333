package world

// Room represents a rectangular room in the dungeon.
type Room struct {
	X      int `json:"x"` // Top-left corner position
	Y      int `json:"y"`
	Width  int `json:"width"` // Dimensions of the room
	Height int `json:"height"`
}

// Center returns the center coordinates of the room.
func (r Room) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains returns true if the given point is inside the room.
func (r Room) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersects returns true if this room overlaps with another room.
func (r Room) Intersects(other Room) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Expand grows the room by margin tiles on every side.
func (r Room) Expand(margin int) Room {
	return Room{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Within returns true if the room lies entirely inside a width x height board.
func (r Room) Within(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.Width <= width && r.Y+r.Height <= height
}

// Region is a rectangular area of the board used by space partitioning.
type Region struct {
	X, Y          int
	Width, Height int
}

// Area returns the number of tiles covered by the region.
func (r Region) Area() int {
	return r.Width * r.Height
}

// ContainsRoom returns true if the room lies entirely inside the region.
func (r Region) ContainsRoom(room Room) bool {
	return room.X >= r.X && room.Y >= r.Y &&
		room.X+room.Width <= r.X+r.Width &&
		room.Y+room.Height <= r.Y+r.Height
}
