// Package world provides the tile map data model shared by the dungeon generators:
// tiles, grids, rooms and the finished Level with its exports.
package world

import "fmt"

// Tile represents the state of a single map cell.
type Tile uint8

const (
	// TileWall is solid rock. Every grid starts out filled with it.
	TileWall Tile = iota
	// TileFloor is the interior of a room.
	TileFloor
	// TileCorridor is a carved passage between rooms.
	TileCorridor
	// TileBorder is a wall touching passable space, only produced by the wall-border pass.
	TileBorder
)

// tileRunes maps each tile to its display glyph.
var tileRunes = [...]rune{
	TileWall:     ' ',
	TileFloor:    '.',
	TileCorridor: '#',
	TileBorder:   '+',
}

var tileNames = [...]string{
	TileWall:     "wall",
	TileFloor:    "floor",
	TileCorridor: "corridor",
	TileBorder:   "border",
}

// Valid reports whether t is one of the known tile states.
func (t Tile) Valid() bool {
	return int(t) < len(tileRunes)
}

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	return t == TileFloor || t == TileCorridor
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	if !t.Valid() {
		return '?'
	}
	return tileRunes[t]
}

// Code returns the stable numeric code used by CSV and JSON exports.
func (t Tile) Code() int {
	return int(t)
}

// String returns a human-readable tile name.
func (t Tile) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return tileNames[t]
}

// TileFromCode converts an export code back into a Tile.
func TileFromCode(code int) (Tile, error) {
	if code < 0 || code >= len(tileRunes) {
		return TileWall, fmt.Errorf("unknown tile code %d", code)
	}
	return Tile(code), nil
}

// ParseTile converts a tile name such as "floor" back into a Tile.
func ParseTile(name string) (Tile, error) {
	for i, n := range tileNames {
		if n == name {
			return Tile(i), nil
		}
	}
	return TileWall, fmt.Errorf("unknown tile %q", name)
}
