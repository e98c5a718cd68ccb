package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/pipecanvas/pkg/block"
)

const (
	// GridUnit is the snapping grid size in canvas units.
	GridUnit = 20

	// StackSpacing is the vertical distance between stacked blocks.
	StackSpacing = 3 * GridUnit
)

// Point is a coordinate in viewport (pointer) space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the rendered size of a block.
type Size struct {
	W float64 `json:"w" toml:"width"`
	H float64 `json:"h" toml:"height"`
}

// Snap rounds v to the nearest multiple of GridUnit. Halves round up, the
// way the browser's Math.round does.
func Snap(v float64) int {
	return int(math.Floor(v/GridUnit+0.5)) * GridUnit
}

// Place converts a pointer position into a container-relative, grid-snapped
// position with the block centred on the pointer. origin is the top-left
// corner of the container in viewport space.
func Place(pointer, origin Point, size Size) block.Position {
	return block.Position{
		X: Snap(pointer.X - origin.X - size.W/2),
		Y: Snap(pointer.Y - origin.Y - size.H/2),
	}
}

// Stack sorts blocks by vertical position (stable, so ties keep their
// relative order) and reassigns them to x=0, y=i*StackSpacing. The input
// slice is not modified; the returned slice is in stacked order.
func Stack(blocks []block.Block) []block.Block {
	out := slices.Clone(blocks)
	slices.SortStableFunc(out, func(a, b block.Block) int {
		return cmp.Compare(a.Position.Y, b.Position.Y)
	})
	for i := range out {
		out[i].Position = block.Position{X: 0, Y: i * StackSpacing}
	}
	return out
}
