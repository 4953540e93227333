package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/samdwyer/dungeongen/internal/generate"
	"github.com/samdwyer/dungeongen/internal/seed"
	"github.com/samdwyer/dungeongen/internal/store"
	"github.com/samdwyer/dungeongen/internal/world"
)

// genFlags are the generation flags shared by generate, view and batch.
type genFlags struct {
	text      string
	seed      string
	algorithm string
	walls     bool
	moore     bool

	width         int
	height        int
	minRoomWidth  int
	minRoomHeight int
}

func (g *genFlags) register(f *flag.FlagSet) {
	stringFlag(f, &g.text, "text", "t", "", "Text to hash into a seed")
	stringFlag(f, &g.seed, "seed", "s", "", "Seed of at least 32 characters")
	stringFlag(f, &g.algorithm, "algorithm", "a", "rooms", "Generation algorithm (rooms, bsp)")
	boolFlag(f, &g.walls, "walls", "w", "Add walls around rooms and corridors")
	f.BoolVar(&g.moore, "moore", false, "Also wall diagonal neighbors (with -walls)")
	intFlag(f, &g.width, "width", "x", generate.DefaultWidth, "Board width")
	intFlag(f, &g.height, "height", "y", generate.DefaultHeight, "Board height")
	intFlag(f, &g.minRoomWidth, "minroomwidth", "m", generate.DefaultMinRoomWidth, "Minimum room width")
	intFlag(f, &g.minRoomHeight, "minroomheight", "n", generate.DefaultMinRoomHeight, "Minimum room height")
}

// resolve turns the flags into generator inputs.
func (g *genFlags) resolve() (world.Algorithm, string, generate.Config, error) {
	cfg := generate.DefaultConfig()
	cfg.Width = g.width
	cfg.Height = g.height
	cfg.MinRoomWidth = g.minRoomWidth
	cfg.MinRoomHeight = g.minRoomHeight
	cfg.Walls = g.walls
	if g.moore {
		cfg.Neighborhood = generate.NeighborhoodMoore
	}

	algo, err := world.ParseAlgorithm(g.algorithm)
	if err != nil {
		return 0, "", cfg, err
	}
	s, err := seed.Resolve(g.seed, g.text)
	if err != nil {
		return 0, "", cfg, err
	}
	return algo, s, cfg, cfg.Validate()
}

// generateLevel builds one level from the flags.
func (g *genFlags) generateLevel(ctx context.Context) (*world.Level, error) {
	algo, s, cfg, err := g.resolve()
	if err != nil {
		return nil, err
	}
	rng, err := seed.NewRand(s)
	if err != nil {
		return nil, err
	}
	return generate.Generate(ctx, algo, s, cfg, rng)
}

// storeFlags select the level archive. Defaults come from the environment.
type storeFlags struct {
	kind    string
	path    string
	dsn     string
	verbose bool
}

func (s *storeFlags) register(f *flag.FlagSet) {
	f.StringVar(&s.kind, "store", envOr("DUNGEONGEN_STORE", string(store.TypeJSON)), "Archive backend (json, sqlite, postgres)")
	f.StringVar(&s.path, "store-path", os.Getenv("DUNGEONGEN_STORE_PATH"), "Archive file for the json and sqlite backends")
	f.StringVar(&s.dsn, "dsn", envOr("DATABASE_URL", store.DefaultPostgresDSN), "PostgreSQL connection string")
	f.BoolVar(&s.verbose, "v", false, "Log archive activity to stderr")
}

func (s *storeFlags) open(ctx context.Context) (store.Storage, error) {
	var opts []store.Option
	if s.verbose {
		opts = append(opts, store.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}
	return store.Open(ctx, store.Config{
		Type: store.Type(s.kind),
		Path: s.path,
		DSN:  s.dsn,
	}, opts...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func stringFlag(f *flag.FlagSet, p *string, name, short, value, usage string) {
	f.StringVar(p, name, value, usage)
	f.StringVar(p, short, value, "Shorthand for -"+name)
}

func boolFlag(f *flag.FlagSet, p *bool, name, short, usage string) {
	f.BoolVar(p, name, false, usage)
	f.BoolVar(p, short, false, "Shorthand for -"+name)
}

func intFlag(f *flag.FlagSet, p *int, name, short string, value int, usage string) {
	f.IntVar(p, name, value, usage)
	f.IntVar(p, short, value, "Shorthand for -"+name)
}
