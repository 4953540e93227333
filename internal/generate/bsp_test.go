package generate

import (
	"testing"

	"github.com/samdwyer/dungeongen/internal/world"
)

func buildBSP(t *testing.T, cfg Config, seed uint64) (*world.Grid, []world.Room, *bspTree) {
	t.Helper()
	grid, rooms, tree, err := generateBSP(cfg, newRand(seed))
	if err != nil {
		t.Fatalf("generateBSP(seed=%d) failed: %v", seed, err)
	}
	return grid, rooms, tree
}

func TestBSPLeavesTileBoard(t *testing.T) {
	configs := []Config{
		DefaultConfig(),
		{Width: 80, Height: 24, MinRoomWidth: 3, MinRoomHeight: 3},
		{Width: 17, Height: 90, MinRoomWidth: 5, MinRoomHeight: 2},
	}

	for ci, cfg := range configs {
		for s := uint64(0); s < 30; s++ {
			_, rooms, tree := buildBSP(t, cfg, s)

			coverage := make([]int, cfg.Width*cfg.Height)
			leaves := tree.leaves()
			for _, i := range leaves {
				r := tree.nodes[i].region
				for y := r.Y; y < r.Y+r.Height; y++ {
					for x := r.X; x < r.X+r.Width; x++ {
						coverage[y*cfg.Width+x]++
					}
				}
			}
			for i, c := range coverage {
				if c != 1 {
					t.Fatalf("cfg %d seed %d: cell (%d,%d) covered %d times",
						ci, s, i%cfg.Width, i/cfg.Width, c)
				}
			}

			// One room per leaf, inside its leaf, in leaf order.
			if len(rooms) != len(leaves) {
				t.Fatalf("cfg %d seed %d: %d rooms for %d leaves", ci, s, len(rooms), len(leaves))
			}
			for n, i := range leaves {
				leaf := tree.nodes[i]
				if leaf.room != n {
					t.Errorf("cfg %d seed %d: leaf %d holds room %d, want %d", ci, s, i, leaf.room, n)
				}
				if !leaf.region.ContainsRoom(rooms[n]) {
					t.Errorf("cfg %d seed %d: room %+v outside leaf %+v", ci, s, rooms[n], leaf.region)
				}
			}
		}
	}
}

func TestBSPChildrenTileParent(t *testing.T) {
	cfg := DefaultConfig()
	_, _, tree := buildBSP(t, cfg, 8)

	for i, n := range tree.nodes {
		if n.isLeaf() {
			if n.region.Width >= 2*tree.minWidth && n.region.Height >= 2*tree.minHeight {
				t.Errorf("leaf %d %+v could still be split", i, n.region)
			}
			continue
		}
		if n.left == noChild || n.right == noChild {
			t.Fatalf("node %d has a single child", i)
		}
		l, r := tree.nodes[n.left].region, tree.nodes[n.right].region
		if l.Area()+r.Area() != n.region.Area() {
			t.Errorf("node %d: children areas %d+%d != %d", i, l.Area(), r.Area(), n.region.Area())
		}
		if l.X != n.region.X || l.Y != n.region.Y {
			t.Errorf("node %d: first child does not start at parent origin", i)
		}
		cutWidth := l.Height == n.region.Height
		if cutWidth && (l.Width < tree.minWidth || r.Width < tree.minWidth) {
			t.Errorf("node %d: child narrower than minimum leaf %d", i, tree.minWidth)
		}
		if !cutWidth && (l.Height < tree.minHeight || r.Height < tree.minHeight) {
			t.Errorf("node %d: child shorter than minimum leaf %d", i, tree.minHeight)
		}
	}
}

// Default board, BSP.
func TestBSPDefaultBoard(t *testing.T) {
	cfg := DefaultConfig()
	level, err := (BSP{}).Generate("bsp-seed", cfg, newRand(42))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(level.Rooms()) < 2 {
		t.Errorf("a 48x40 board should split into several leaves, got %d rooms", len(level.Rooms()))
	}
	if !level.Connected() {
		t.Errorf("rooms are not connected\n%s", level)
	}
	if level.Algorithm() != world.AlgorithmBSP {
		t.Errorf("Algorithm() = %v, want bsp", level.Algorithm())
	}
}

func TestBSPSmallBoards(t *testing.T) {
	tests := []Config{
		{Width: 4, Height: 5, MinRoomWidth: 4, MinRoomHeight: 5},
		{Width: 5, Height: 6, MinRoomWidth: 4, MinRoomHeight: 5},
		{Width: 6, Height: 7, MinRoomWidth: 4, MinRoomHeight: 5},
		{Width: 1, Height: 1, MinRoomWidth: 1, MinRoomHeight: 1},
	}

	for _, cfg := range tests {
		for s := uint64(0); s < 10; s++ {
			_, rooms, tree := buildBSP(t, cfg, s)
			if len(tree.nodes) != 1 || len(rooms) != 1 {
				t.Fatalf("%dx%d: got %d nodes and %d rooms, want one of each",
					cfg.Width, cfg.Height, len(tree.nodes), len(rooms))
			}
			r := rooms[0]
			if !r.Within(cfg.Width, cfg.Height) || r.Width < cfg.MinRoomWidth || r.Height < cfg.MinRoomHeight {
				t.Errorf("%dx%d: bad room %+v", cfg.Width, cfg.Height, r)
			}
		}
	}

	// With two spare tiles the leaf margin applies.
	_, rooms, _ := buildBSP(t, Config{Width: 6, Height: 7, MinRoomWidth: 4, MinRoomHeight: 5}, 3)
	if want := (world.Room{X: 1, Y: 1, Width: 4, Height: 5}); rooms[0] != want {
		t.Errorf("room = %+v, want %+v", rooms[0], want)
	}
}

func TestBSPFirstRoom(t *testing.T) {
	_, rooms, tree := buildBSP(t, DefaultConfig(), 5)
	if got := tree.firstRoom(0); got != 0 {
		t.Errorf("firstRoom(root) = %d, want 0", got)
	}
	for _, i := range tree.leaves() {
		if got := tree.firstRoom(i); rooms[got] != rooms[tree.nodes[i].room] {
			t.Errorf("firstRoom(leaf %d) = %d, want its own room", i, got)
		}
	}
}
