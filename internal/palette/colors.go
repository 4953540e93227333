package palette

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// parseHex splits a hex color string (e.g., "#FF0000" or "FF0000") into components.
func parseHex(hex string) (r, g, b uint8, err error) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color length: %s", hex)
	}

	rv, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid red component in %s: %w", hex, err)
	}
	gv, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid green component in %s: %w", hex, err)
	}
	bv, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid blue component in %s: %w", hex, err)
	}

	return uint8(rv), uint8(gv), uint8(bv), nil
}

// ParseHexColor converts a hex color string to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return tcell.ColorDefault, err
	}
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}

// ParseRGBA converts a hex color string to an opaque color.RGBA.
func ParseRGBA(hex string) (color.RGBA, error) {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
