package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeongen/internal/generate"
	"github.com/samdwyer/dungeongen/internal/palette"
	"github.com/samdwyer/dungeongen/internal/seed"
	"github.com/samdwyer/dungeongen/internal/telemetry"
	"github.com/samdwyer/dungeongen/internal/world"
)

// Options configures a Viewer.
type Options struct {
	Config    generate.Config
	Algorithm world.Algorithm
	// Seed of the first level. Empty means a random seed.
	Seed    string
	Palette *palette.Palette
}

// Viewer holds the previewer state.
type Viewer struct {
	screen   *Screen
	renderer *Renderer
	cfg      generate.Config
	algo     world.Algorithm
	seed     string
	level    *world.Level
	message  string
	running  bool
}

// NewViewer creates a previewer drawing to screen.
func NewViewer(screen *Screen, opts Options) *Viewer {
	pal := opts.Palette
	if pal == nil {
		pal = palette.Default()
	}
	s := opts.Seed
	if s == "" {
		s = seed.Random()
	}
	return &Viewer{
		screen:   screen,
		renderer: NewRenderer(screen, pal),
		cfg:      opts.Config,
		algo:     opts.Algorithm,
		seed:     s,
		running:  true,
	}
}

// Level returns the level currently on screen.
func (v *Viewer) Level() *world.Level {
	return v.level
}

// Run executes the main preview loop until the user quits.
func (v *Viewer) Run(ctx context.Context) error {
	defer v.screen.Close()

	if err := v.regenerate(ctx); err != nil {
		return err
	}

	for v.running {
		v.renderer.Render(v.level, v.status())
		v.handleInput(ctx)
	}
	return nil
}

// regenerate builds a level for the current seed, algorithm and config.
func (v *Viewer) regenerate(ctx context.Context) error {
	tracer := telemetry.Tracer("ui")
	ctx, span := tracer.Start(ctx, "viewer.regenerate")
	defer span.End()

	rng, err := seed.NewRand(v.seed)
	if err != nil {
		return err
	}
	level, err := generate.Generate(ctx, v.algo, v.seed, v.cfg, rng)
	if err != nil {
		return err
	}

	span.SetAttributes(
		attribute.String("dungeon.algorithm", v.algo.String()),
		attribute.Int("dungeon.rooms", len(level.Rooms())),
	)

	v.level = level
	v.renderer.ResetScroll()
	v.message = ""
	return nil
}

func (v *Viewer) status() string {
	walls := "off"
	if v.cfg.Walls {
		walls = "on"
	}
	line := fmt.Sprintf("%s %dx%d rooms:%d walls:%s seed:%.12s  [r]eseed [a]lgorithm [w]alls [q]uit",
		v.algo, v.level.Width(), v.level.Height(), len(v.level.Rooms()), walls, v.seed)
	if v.message != "" {
		line = v.message + "  " + line
	}
	return line
}

// handleInput processes a single input event.
func (v *Viewer) handleInput(ctx context.Context) {
	ev := v.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		v.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (v *Viewer) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.running = false

	case tcell.KeyUp:
		v.renderer.Scroll(v.level, 0, -1)
	case tcell.KeyDown:
		v.renderer.Scroll(v.level, 0, 1)
	case tcell.KeyLeft:
		v.renderer.Scroll(v.level, -1, 0)
	case tcell.KeyRight:
		v.renderer.Scroll(v.level, 1, 0)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			v.running = false
		case 'r', 'R':
			v.reseed(ctx, seed.Random())
		case 'a', 'A':
			v.toggleAlgorithm(ctx)
		case 'w', 'W':
			v.toggleWalls(ctx)
		}
	}
}

// reseed switches to a new seed and regenerates.
func (v *Viewer) reseed(ctx context.Context, s string) {
	v.seed = s
	v.apply(ctx)
}

// toggleAlgorithm switches between the two generators, keeping the seed.
func (v *Viewer) toggleAlgorithm(ctx context.Context) {
	if v.algo == world.AlgorithmRooms {
		v.algo = world.AlgorithmBSP
	} else {
		v.algo = world.AlgorithmRooms
	}
	v.apply(ctx)
}

// toggleWalls flips the wall-border pass, keeping the seed.
func (v *Viewer) toggleWalls(ctx context.Context) {
	v.cfg.Walls = !v.cfg.Walls
	v.apply(ctx)
}

// apply regenerates and keeps the previous level on failure.
func (v *Viewer) apply(ctx context.Context) {
	if err := v.regenerate(ctx); err != nil {
		v.message = "error: " + err.Error()
	}
}
