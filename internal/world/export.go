package world

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Export is the serializable form of a Level. The schema is the same for both
// algorithms; Algorithm is the discriminant.
type Export struct {
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Seed        string    `json:"seed"`
	Algorithm   Algorithm `json:"algorithm"`
	Walls       bool      `json:"walls"`
	Rooms       []Room    `json:"rooms"`
	Tiles       []int     `json:"tiles"` // Row-major tile codes
	Fingerprint string    `json:"fingerprint"`
}

// Export returns the structured form of the level.
func (l *Level) Export() Export {
	tiles := make([]int, len(l.grid.tiles))
	for i, t := range l.grid.tiles {
		tiles[i] = t.Code()
	}
	rooms := l.Rooms()
	if rooms == nil {
		rooms = []Room{}
	}

	return Export{
		Width:       l.grid.width,
		Height:      l.grid.height,
		Seed:        l.seed,
		Algorithm:   l.algorithm,
		Walls:       l.walls,
		Rooms:       rooms,
		Tiles:       tiles,
		Fingerprint: strconv.FormatUint(l.Fingerprint(), 16),
	}
}

// FromExport rebuilds a Level from its structured form, e.g. after loading it from an
// archive. The tile array must match the declared dimensions.
func FromExport(e Export) (*Level, error) {
	grid, err := NewGrid(e.Width, e.Height)
	if err != nil {
		return nil, err
	}
	if len(e.Tiles) != e.Width*e.Height {
		return nil, fmt.Errorf("export has %d tiles, want %d", len(e.Tiles), e.Width*e.Height)
	}
	for i, code := range e.Tiles {
		t, err := TileFromCode(code)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		grid.tiles[i] = t
	}

	level, err := NewLevel(e.Seed, e.Algorithm, e.Walls, grid, e.Rooms)
	if err != nil {
		return nil, err
	}
	if e.Fingerprint != "" {
		if got := strconv.FormatUint(level.Fingerprint(), 16); got != e.Fingerprint {
			return nil, fmt.Errorf("fingerprint mismatch: stored %s, computed %s", e.Fingerprint, got)
		}
	}
	return level, nil
}

// CSVRows returns the tile codes as Height rows of Width fields.
func (l *Level) CSVRows() [][]string {
	rows := make([][]string, 0, l.grid.height)
	for _, row := range l.grid.Rows() {
		fields := make([]string, len(row))
		for x, t := range row {
			fields[x] = strconv.Itoa(t.Code())
		}
		rows = append(rows, fields)
	}
	return rows
}

// WriteCSV writes the tile codes as CSV, one record per row.
func (l *Level) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(l.CSVRows()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
