package palette

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeongen/internal/world"
)

// TileColor defines the colors of one tile, loaded from JSON.
type TileColor struct {
	Tile       string `json:"tile"`       // Tile name (e.g., "floor")
	Foreground string `json:"foreground"` // Glyph color in the terminal
	Background string `json:"background"` // Cell color in the terminal and image fill
}

// File represents the structure of a palette JSON file.
type File struct {
	Name  string      `json:"name"`
	Tiles []TileColor `json:"tiles"`
}

type entry struct {
	fill  color.RGBA
	style tcell.Style
}

// Palette maps every tile state to its colors.
type Palette struct {
	name    string
	entries map[world.Tile]entry
}

// New resolves a palette file. Every tile state must be covered.
func New(file File) (*Palette, error) {
	p := &Palette{name: file.Name, entries: make(map[world.Tile]entry, len(file.Tiles))}

	for _, tc := range file.Tiles {
		tile, err := world.ParseTile(tc.Tile)
		if err != nil {
			return nil, fmt.Errorf("palette %s: %w", file.Name, err)
		}
		fg, err := ParseHexColor(tc.Foreground)
		if err != nil {
			return nil, fmt.Errorf("palette %s tile %s: %w", file.Name, tc.Tile, err)
		}
		bg, err := ParseHexColor(tc.Background)
		if err != nil {
			return nil, fmt.Errorf("palette %s tile %s: %w", file.Name, tc.Tile, err)
		}
		fill, err := ParseRGBA(tc.Background)
		if err != nil {
			return nil, fmt.Errorf("palette %s tile %s: %w", file.Name, tc.Tile, err)
		}
		p.entries[tile] = entry{
			fill:  fill,
			style: tcell.StyleDefault.Foreground(fg).Background(bg),
		}
	}

	for _, t := range []world.Tile{world.TileWall, world.TileFloor, world.TileCorridor, world.TileBorder} {
		if _, ok := p.entries[t]; !ok {
			return nil, fmt.Errorf("palette %s: no colors for tile %s", file.Name, t)
		}
	}
	return p, nil
}

// LoadNamed loads an embedded palette by name, e.g. "default" or "mono".
func LoadNamed(name string) (*Palette, error) {
	file, err := Load[File](name + ".json")
	if err != nil {
		return nil, err
	}
	return New(file)
}

// Default returns the embedded default palette, panicking if it is broken.
func Default() *Palette {
	p, err := LoadNamed("default")
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the palette name.
func (p *Palette) Name() string { return p.name }

// Color returns the image fill color of a tile.
func (p *Palette) Color(t world.Tile) color.RGBA {
	return p.entries[t].fill
}

// Style returns the terminal style of a tile.
func (p *Palette) Style(t world.Tile) tcell.Style {
	e, ok := p.entries[t]
	if !ok {
		return tcell.StyleDefault
	}
	return e.style
}
