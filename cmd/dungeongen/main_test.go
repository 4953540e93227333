package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samdwyer/dungeongen/internal/generate"
	"github.com/samdwyer/dungeongen/internal/seed"
	"github.com/samdwyer/dungeongen/internal/store"
	"github.com/samdwyer/dungeongen/internal/world"
)

func parseGenFlags(t *testing.T, args ...string) *genFlags {
	t.Helper()
	var g genFlags
	f := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetOutput(io.Discard)
	g.register(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return &g
}

func TestGenFlagsDefaults(t *testing.T) {
	g := parseGenFlags(t, "-t", "hello")
	algo, s, cfg, err := g.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if algo != world.AlgorithmRooms {
		t.Errorf("algorithm = %v, want rooms", algo)
	}
	if s != seed.FromText("hello") {
		t.Errorf("seed = %q, want hash of text", s)
	}
	if diff := cmp.Diff(generate.DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestGenFlagsLongAndShortNames(t *testing.T) {
	long := parseGenFlags(t, "-algorithm", "bsp", "-walls", "-moore", "-width", "60", "-height", "50",
		"-minroomwidth", "6", "-minroomheight", "7", "-seed", seed.FromText("x"))
	short := parseGenFlags(t, "-a", "bsp", "-w", "-moore", "-x", "60", "-y", "50",
		"-m", "6", "-n", "7", "-s", seed.FromText("x"))

	for name, g := range map[string]*genFlags{"long": long, "short": short} {
		algo, s, cfg, err := g.resolve()
		if err != nil {
			t.Fatalf("%s: resolve: %v", name, err)
		}
		want := generate.Config{
			Width:         60,
			Height:        50,
			MinRoomWidth:  6,
			MinRoomHeight: 7,
			Walls:         true,
			Neighborhood:  generate.NeighborhoodMoore,
			RoomMargin:    generate.DefaultRoomMargin,
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("%s: config mismatch (-want +got):\n%s", name, diff)
		}
		if algo != world.AlgorithmBSP || s != seed.FromText("x") {
			t.Errorf("%s: got %v %q", name, algo, s)
		}
	}
}

func TestGenFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"short seed", []string{"-s", "abc"}, seed.ErrSeedTooShort},
		{"room too wide", []string{"-x", "10", "-m", "11"}, world.ErrInvalidConfig},
		{"zero height", []string{"-y", "0"}, world.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseGenFlags(t, tt.args...).generateLevel(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, _, _, err := parseGenFlags(t, "-a", "maze").resolve(); err == nil {
		t.Error("unknown algorithm accepted")
	}
}

func TestRunBatchIndependentOfWorkers(t *testing.T) {
	ctx := context.Background()
	base := seed.FromText("batch")
	cfg := generate.DefaultConfig()

	var runs [][]string
	for _, workers := range []int{1, 4} {
		storage, err := store.NewJSONStore(filepath.Join(t.TempDir(), "levels.json"))
		if err != nil {
			t.Fatalf("NewJSONStore: %v", err)
		}
		defer storage.Close()

		results, err := runBatch(ctx, storage, world.AlgorithmBSP, base, cfg, 6, workers)
		if err != nil {
			t.Fatalf("runBatch(workers=%d): %v", workers, err)
		}

		var fingerprints []string
		for i, r := range results {
			if r.seed != seed.Derive(base, i) {
				t.Errorf("result %d seed = %q, want derived seed", i, r.seed)
			}
			level, err := storage.Load(ctx, r.id)
			if err != nil {
				t.Fatalf("Load(%s): %v", r.id, err)
			}
			fingerprints = append(fingerprints, level.Export().Fingerprint)
		}
		runs = append(runs, fingerprints)
	}

	if diff := cmp.Diff(runs[0], runs[1]); diff != "" {
		t.Errorf("batch depends on worker count (-1 worker +4 workers):\n%s", diff)
	}
}
