// Package render draws finished levels as PNG images.
package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samdwyer/dungeongen/internal/palette"
	"github.com/samdwyer/dungeongen/internal/world"
)

// DefaultTileSize is the edge length of one tile in pixels.
const DefaultTileSize = 8

// Image paints every tile of the level as a tileSize x tileSize square.
func Image(level *world.Level, pal *palette.Palette, tileSize int) (*image.RGBA, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("tile size %d: %w", tileSize, world.ErrInvalidDimension)
	}

	img := image.NewRGBA(image.Rect(0, 0, level.Width()*tileSize, level.Height()*tileSize))
	for y, row := range level.Rows() {
		for x, tile := range row {
			cell := image.Rect(x*tileSize, y*tileSize, (x+1)*tileSize, (y+1)*tileSize)
			draw.Draw(img, cell, image.NewUniform(pal.Color(tile)), image.Point{}, draw.Src)
		}
	}
	return img, nil
}

// WritePNG encodes the level image to w.
func WritePNG(w io.Writer, level *world.Level, pal *palette.Palette, tileSize int) error {
	img, err := Image(level, pal, tileSize)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// DrawFile writes the level to <dir>/<seed>.png, creating dir if needed, and returns
// the file path. Seeds that are not plain file names are replaced by the level
// fingerprint, so the image always lands inside dir. Failures never affect the level.
func DrawFile(level *world.Level, dir string, pal *palette.Palette, tileSize int) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	path = filepath.Join(dir, fileName(level)+".png")

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := WritePNG(f, level, pal, tileSize); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return path, nil
}

// fileName returns the seed when it is safe to use as a file name in a single directory.
func fileName(level *world.Level) string {
	name := level.Seed()
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Sprintf("%x", level.Fingerprint())
	}
	return name
}
