package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeongen/internal/palette"
	"github.com/samdwyer/dungeongen/internal/world"
)

// Renderer handles drawing levels to the screen.
type Renderer struct {
	screen  *Screen
	palette *palette.Palette

	// top-left level cell shown at screen origin
	offsetX, offsetY int
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, pal *palette.Palette) *Renderer {
	return &Renderer{screen: screen, palette: pal}
}

// Scroll moves the view by (dx, dy) cells, keeping the origin inside the level.
func (r *Renderer) Scroll(level *world.Level, dx, dy int) {
	r.offsetX = clamp(r.offsetX+dx, 0, level.Width()-1)
	r.offsetY = clamp(r.offsetY+dy, 0, level.Height()-1)
}

// ResetScroll returns the view to the level origin.
func (r *Renderer) ResetScroll() {
	r.offsetX, r.offsetY = 0, 0
}

// Render draws the part of the level that fits above the status line, then the status line.
func (r *Renderer) Render(level *world.Level, status string) {
	r.screen.Clear()

	width, height := r.screen.Size()
	mapHeight := height - 1

	for y, row := range level.Rows() {
		sy := y - r.offsetY
		if sy < 0 {
			continue
		}
		if sy >= mapHeight {
			break
		}
		for x, tile := range row {
			sx := x - r.offsetX
			if sx < 0 || sx >= width {
				continue
			}
			r.screen.SetContent(sx, sy, tile.Rune(), r.palette.Style(tile))
		}
	}

	r.RenderMessage(status, height-1)
	r.screen.Show()
}

// RenderMessage displays a message on the given screen row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	r.screen.SetString(0, y, msg, style)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
