package ui

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeongen/internal/generate"
	"github.com/samdwyer/dungeongen/internal/palette"
	"github.com/samdwyer/dungeongen/internal/seed"
	"github.com/samdwyer/dungeongen/internal/world"
)

func newTestScreen(t *testing.T, width, height int) *Screen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := NewScreenFrom(sim)
	if err != nil {
		t.Fatalf("NewScreenFrom: %v", err)
	}
	sim.SetSize(width, height)
	t.Cleanup(screen.Close)
	return screen
}

func TestRendererDrawsTiles(t *testing.T) {
	screen := newTestScreen(t, 80, 24)
	s := seed.FromText("renderer")
	rng, err := seed.NewRand(s)
	if err != nil {
		t.Fatalf("NewRand: %v", err)
	}
	cfg := generate.DefaultConfig()
	cfg.Width, cfg.Height = 30, 20
	level, err := generate.Generate(context.Background(), world.AlgorithmRooms, s, cfg, rng)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	r := NewRenderer(screen, palette.Default())
	r.Render(level, "status")

	for y := range level.Height() {
		for x := range level.Width() {
			tile, err := level.Tile(x, y)
			if err != nil {
				t.Fatalf("Tile(%d,%d): %v", x, y, err)
			}
			got, _, _, _ := screen.screen.GetContent(x, y)
			if want := tile.Rune(); got != want {
				t.Fatalf("cell (%d,%d) = %q, want %q", x, y, got, want)
			}
		}
	}

	got, _, _, _ := screen.screen.GetContent(0, 23)
	if got != 's' {
		t.Errorf("status line starts with %q, want 's'", got)
	}
}

func TestRendererScrollClamps(t *testing.T) {
	screen := newTestScreen(t, 10, 5)
	grid, err := world.NewGrid(12, 8)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	level, err := world.NewLevel(seed.FromText("scroll"), world.AlgorithmRooms, false, grid, nil)
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}

	r := NewRenderer(screen, palette.Default())
	r.Scroll(level, -5, -5)
	if r.offsetX != 0 || r.offsetY != 0 {
		t.Errorf("offset after negative scroll = (%d,%d), want (0,0)", r.offsetX, r.offsetY)
	}
	r.Scroll(level, 100, 100)
	if r.offsetX != 11 || r.offsetY != 7 {
		t.Errorf("offset after large scroll = (%d,%d), want (11,7)", r.offsetX, r.offsetY)
	}
	r.ResetScroll()
	if r.offsetX != 0 || r.offsetY != 0 {
		t.Errorf("offset after reset = (%d,%d), want (0,0)", r.offsetX, r.offsetY)
	}
}

func TestViewerToggles(t *testing.T) {
	ctx := context.Background()
	screen := newTestScreen(t, 80, 50)
	cfg := generate.DefaultConfig()
	s := seed.FromText("viewer")

	v := NewViewer(screen, Options{Config: cfg, Algorithm: world.AlgorithmRooms, Seed: s})
	if err := v.regenerate(ctx); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	first := v.Level().Fingerprint()

	v.toggleAlgorithm(ctx)
	if got := v.Level().Algorithm(); got != world.AlgorithmBSP {
		t.Errorf("algorithm after toggle = %v, want %v", got, world.AlgorithmBSP)
	}
	if v.Level().Seed() != s {
		t.Errorf("toggle changed the seed")
	}

	v.toggleAlgorithm(ctx)
	if got := v.Level().Fingerprint(); got != first {
		t.Errorf("toggling back produced a different level")
	}

	v.toggleWalls(ctx)
	if !v.Level().Walls() {
		t.Errorf("walls not enabled after toggle")
	}

	v.reseed(ctx, seed.FromText("another"))
	if v.Level().Seed() == s {
		t.Errorf("reseed kept the old seed")
	}
	if v.message != "" {
		t.Errorf("unexpected message %q", v.message)
	}
}

func TestViewerKeepsLevelOnError(t *testing.T) {
	ctx := context.Background()
	screen := newTestScreen(t, 80, 50)
	v := NewViewer(screen, Options{Config: generate.DefaultConfig(), Seed: seed.FromText("keep")})
	if err := v.regenerate(ctx); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	before := v.Level()

	v.reseed(ctx, "short")
	if v.Level() != before {
		t.Errorf("level replaced after failed regeneration")
	}
	if v.message == "" {
		t.Errorf("expected an error message in the status line")
	}
}
