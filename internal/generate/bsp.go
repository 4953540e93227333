package generate

import (
	"github.com/samdwyer/dungeongen/internal/world"
)

const (
	// splitMargin is added to the minimum room size to get the smallest leaf region.
	// It leaves room for the one-tile margin on both sides plus some variety.
	splitMargin = 4
	// squareRatio decides when a region is "roughly square" and the cut
	// orientation is left to a coin flip.
	squareRatio = 1.25

	noChild = -1
)

// BSP recursively partitions the board, puts one room in each leaf and joins sibling
// subtrees bottom-up, which leaves every room connected.
//
// Draw order: the partition is built depth first, left child before right; each split
// draws a coin flip (only for roughly square regions splittable both ways) and then the
// cut offset. Rooms are then placed leaf by leaf in the same left-to-right order, each
// drawing width, height, x offset, y offset. Corridors draw nothing.
type BSP struct{}

// Algorithm identifies the generator.
func (BSP) Algorithm() world.Algorithm { return world.AlgorithmBSP }

// Generate builds a level. It fails with world.ErrInvalidConfig before touching any
// state when cfg is unusable.
func (g BSP) Generate(seed string, cfg Config, rng Rand) (*world.Level, error) {
	if err := validate(cfg, rng); err != nil {
		return nil, err
	}

	grid, rooms, _, err := generateBSP(cfg, rng)
	if err != nil {
		return nil, err
	}
	return world.NewLevel(seed, world.AlgorithmBSP, cfg.Walls, grid, rooms)
}

// bspNode is one region of the partition, stored in a tree arena and addressed by index.
type bspNode struct {
	region      world.Region
	left, right int // noChild for leaves
	room        int // index into the room list, noChild until placed
}

// isLeaf returns true if this node has no children.
func (n bspNode) isLeaf() bool {
	return n.left == noChild && n.right == noChild
}

// bspTree is the partition arena. Node 0 is the whole board.
type bspTree struct {
	nodes     []bspNode
	minWidth  int // smallest leaf width
	minHeight int // smallest leaf height
}

func generateBSP(cfg Config, rng Rand) (*world.Grid, []world.Room, *bspTree, error) {
	grid, err := world.NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, nil, nil, err
	}

	tree := newBSPTree(cfg)
	tree.split(0, rng)

	rooms, err := tree.createRooms(grid, cfg, rng)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := tree.connectRooms(grid, rooms, 0); err != nil {
		return nil, nil, nil, err
	}

	if cfg.Walls {
		if err := addBorders(grid, cfg.Neighborhood); err != nil {
			return nil, nil, nil, err
		}
	}
	return grid, rooms, tree, nil
}

func newBSPTree(cfg Config) *bspTree {
	return &bspTree{
		nodes: []bspNode{{
			region: world.Region{Width: cfg.Width, Height: cfg.Height},
			left:   noChild,
			right:  noChild,
			room:   noChild,
		}},
		minWidth:  cfg.MinRoomWidth + splitMargin,
		minHeight: cfg.MinRoomHeight + splitMargin,
	}
}

// split recursively splits node i until neither axis can hold two minimum leaves.
// Both children of a cut are at least the minimum leaf size along the cut axis, so
// every leaf can host a minimum-size room.
func (t *bspTree) split(i int, rng Rand) {
	r := t.nodes[i].region
	canCutWidth := r.Width >= 2*t.minWidth
	canCutHeight := r.Height >= 2*t.minHeight
	if !canCutWidth && !canCutHeight {
		return
	}

	// Cut across the longer side; flip a coin for roughly square regions.
	var cutWidth bool
	switch {
	case !canCutHeight:
		cutWidth = true
	case !canCutWidth:
		cutWidth = false
	case float64(r.Width) > float64(r.Height)*squareRatio:
		cutWidth = true
	case float64(r.Height) > float64(r.Width)*squareRatio:
		cutWidth = false
	default:
		cutWidth = rng.IntN(2) == 0
	}

	var first, second world.Region
	if cutWidth {
		pos := between(rng, t.minWidth, r.Width-t.minWidth)
		first = world.Region{X: r.X, Y: r.Y, Width: pos, Height: r.Height}
		second = world.Region{X: r.X + pos, Y: r.Y, Width: r.Width - pos, Height: r.Height}
	} else {
		pos := between(rng, t.minHeight, r.Height-t.minHeight)
		first = world.Region{X: r.X, Y: r.Y, Width: r.Width, Height: pos}
		second = world.Region{X: r.X, Y: r.Y + pos, Width: r.Width, Height: r.Height - pos}
	}

	left := t.add(first)
	right := t.add(second)
	t.nodes[i].left = left
	t.nodes[i].right = right

	t.split(left, rng)
	t.split(right, rng)
}

func (t *bspTree) add(region world.Region) int {
	t.nodes = append(t.nodes, bspNode{region: region, left: noChild, right: noChild, room: noChild})
	return len(t.nodes) - 1
}

// leaves returns the leaf indices in depth-first, left-to-right order.
func (t *bspTree) leaves() []int {
	var out []int
	stack := []int{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[i]
		if n.isLeaf() {
			out = append(out, i)
			continue
		}
		stack = append(stack, n.right, n.left)
	}
	return out
}

// createRooms places exactly one room in every leaf and carves it.
func (t *bspTree) createRooms(grid *world.Grid, cfg Config, rng Rand) ([]world.Room, error) {
	leaves := t.leaves()
	rooms := make([]world.Room, 0, len(leaves))

	for _, i := range leaves {
		r := t.nodes[i].region

		// Keep a one-tile margin to the leaf edge unless the leaf is too thin for it,
		// which only happens when the whole board is barely larger than a room.
		marginX := min(1, (r.Width-cfg.MinRoomWidth)/2)
		marginY := min(1, (r.Height-cfg.MinRoomHeight)/2)

		width := between(rng, cfg.MinRoomWidth, r.Width-2*marginX)
		height := between(rng, cfg.MinRoomHeight, r.Height-2*marginY)
		room := world.Room{
			X:      r.X + between(rng, marginX, r.Width-width-marginX),
			Y:      r.Y + between(rng, marginY, r.Height-height-marginY),
			Width:  width,
			Height: height,
		}

		if err := carveRoom(grid, room); err != nil {
			return nil, err
		}
		t.nodes[i].room = len(rooms)
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// connectRooms joins the two subtrees of every internal node, children first.
func (t *bspTree) connectRooms(grid *world.Grid, rooms []world.Room, i int) error {
	n := t.nodes[i]
	if n.isLeaf() {
		return nil
	}

	if err := t.connectRooms(grid, rooms, n.left); err != nil {
		return err
	}
	if err := t.connectRooms(grid, rooms, n.right); err != nil {
		return err
	}
	return carveCorridor(grid, rooms[t.firstRoom(n.left)], rooms[t.firstRoom(n.right)])
}

// firstRoom returns the room of the leftmost leaf under node i.
func (t *bspTree) firstRoom(i int) int {
	for !t.nodes[i].isLeaf() {
		i = t.nodes[i].left
	}
	return t.nodes[i].room
}
