package store

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungeongen/internal/generate"
	"github.com/samdwyer/dungeongen/internal/world"
)

func testLevels(t *testing.T) []*world.Level {
	t.Helper()
	cfg := generate.DefaultConfig()
	cfg.Walls = true

	var levels []*world.Level
	for i, gen := range []generate.Generator{generate.RoomsCorridors{}, generate.BSP{}} {
		rng := rand.New(rand.NewPCG(uint64(i), 99))
		level, err := gen.Generate("store-seed", cfg, rng)
		require.NoError(t, err)
		levels = append(levels, level)
	}
	return levels
}

// testStorage runs the behavior every backend must share.
func testStorage(t *testing.T, s Storage) {
	ctx := context.Background()
	levels := testLevels(t)

	var ids []string
	for _, level := range levels {
		id, err := s.Save(ctx, level)
		require.NoError(t, err)
		require.NotEmpty(t, id)
		ids = append(ids, id)
	}
	require.NotEqual(t, ids[0], ids[1])

	for i, id := range ids {
		loaded, err := s.Load(ctx, id)
		require.NoError(t, err)
		require.Equal(t, levels[i].Export(), loaded.Export())
		require.Equal(t, levels[i].String(), loaded.String())
	}

	summaries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	byID := map[string]Summary{}
	for _, sum := range summaries {
		byID[sum.ID] = sum
	}
	for i, id := range ids {
		sum, ok := byID[id]
		require.True(t, ok, "summary for %s missing", id)
		require.Equal(t, levels[i].Algorithm(), sum.Algorithm)
		require.Equal(t, len(levels[i].Rooms()), sum.Rooms)
		require.Equal(t, levels[i].Export().Fingerprint, sum.Fingerprint)
		require.False(t, sum.CreatedAt.IsZero())
	}

	_, err = s.Load(ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.json")
	s, err := NewJSONStore(path)
	require.NoError(t, err)
	testStorage(t, s)
	require.NoError(t, s.Close())

	// Reopening reads the file back.
	reopened, err := NewJSONStore(path)
	require.NoError(t, err)
	summaries, err := reopened.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
}

func TestJSONStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewJSONStore(path)
	require.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "levels.db"))
	require.NoError(t, err)
	defer s.Close()

	testStorage(t, s)
}

func TestSQLiteStoreHilbertRooms(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "levels.db"))
	require.NoError(t, err)
	defer s.Close()

	level := testLevels(t)[1]
	id, err := s.Save(ctx, level)
	require.NoError(t, err)

	rooms, err := s.Rooms(ctx, id)
	require.NoError(t, err)
	require.ElementsMatch(t, level.Rooms(), rooms)

	prev := -1
	for _, r := range rooms {
		h, err := hilbertIndex(r, level.Width(), level.Height())
		require.NoError(t, err)
		require.GreaterOrEqual(t, h, prev)
		prev = h
	}

	_, err = s.Rooms(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHilbertIndex(t *testing.T) {
	// Every cell of a 4x4 board gets a distinct index, and consecutive indices are
	// neighboring cells.
	byIndex := map[int][2]int{}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			h, err := hilbertIndex(world.Room{X: x, Y: y, Width: 1, Height: 1}, 4, 4)
			require.NoError(t, err)
			require.NotContains(t, byIndex, h)
			byIndex[h] = [2]int{x, y}
		}
	}
	for i := 1; i < 16; i++ {
		a, b := byIndex[i-1], byIndex[i]
		dist := abs(a[0]-b[0]) + abs(a[1]-b[1])
		require.Equal(t, 1, dist, "indices %d and %d are not adjacent", i-1, i)
	}

	// Non power of two boards are padded up.
	_, err := hilbertIndex(world.Room{X: 40, Y: 30, Width: 4, Height: 4}, 48, 40)
	require.NoError(t, err)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DUNGEONGEN_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("DUNGEONGEN_TEST_POSTGRES not set")
	}

	s, err := NewPostgresStore(context.Background(), dsn)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec("TRUNCATE levels")
	require.NoError(t, err)
	testStorage(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, Config{Type: TypeJSON, Path: filepath.Join(dir, "a.json")})
	require.NoError(t, err)
	require.IsType(t, &JSONStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, Config{Type: TypeSQLite, Path: filepath.Join(dir, "a.db")})
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Config{Type: "redis"})
	require.Error(t, err)
}
