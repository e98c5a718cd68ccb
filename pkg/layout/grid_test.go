package layout

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/pipecanvas/pkg/block"
)

func TestSnap(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{9.99, 0},
		{10, 20},
		{29, 20},
		{30, 40},
		{-9, 0},
		{-10, 0}, // Math.round(-0.5) rounds toward +inf
		{-11, -20},
		{-30, -20},
		{415.2, 420},
	}
	for _, tt := range tests {
		if got := Snap(tt.in); got != tt.want {
			t.Errorf("Snap(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSnapAlwaysOnGrid(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 10000; i++ {
		v := (r.Float64() - 0.5) * 5000
		if got := Snap(v); got%GridUnit != 0 {
			t.Fatalf("Snap(%v) = %d is not a multiple of %d", v, got, GridUnit)
		}
	}
}

func TestPlace(t *testing.T) {
	pos := Place(Point{X: 312, Y: 247}, Point{X: 100, Y: 80}, Size{W: 120, H: 40})
	// x: 312-100-60 = 152 -> 160, y: 247-80-20 = 147 -> 140
	if pos != (block.Position{X: 160, Y: 140}) {
		t.Errorf("Place() = %+v", pos)
	}
}

func TestPlaceOnGrid(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		p := Point{X: r.Float64() * 2000, Y: r.Float64() * 2000}
		o := Point{X: r.Float64() * 300, Y: r.Float64() * 300}
		pos := Place(p, o, Size{W: 97, H: 33})
		if pos.X%GridUnit != 0 || pos.Y%GridUnit != 0 {
			t.Fatalf("Place(%v, %v) = %+v is off grid", p, o, pos)
		}
	}
}

func stackInput() []block.Block {
	return []block.Block{
		{ID: "b1", Position: block.Position{X: 40, Y: 200}},
		{ID: "b2", Position: block.Position{X: 0, Y: 20}},
		{ID: "b3", Position: block.Position{X: 80, Y: 200}},
		{ID: "b4", Position: block.Position{X: 20, Y: 100}},
	}
}

func ids(blocks []block.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}

func TestStack(t *testing.T) {
	in := stackInput()
	out := Stack(in)

	// b1 and b3 tie on y=200 and keep their relative order.
	if got := ids(out); !slices.Equal(got, []string{"b2", "b4", "b1", "b3"}) {
		t.Errorf("stacked order = %v", got)
	}
	for i, b := range out {
		if b.Position != (block.Position{X: 0, Y: i * StackSpacing}) {
			t.Errorf("block %s at %+v, want y=%d", b.ID, b.Position, i*StackSpacing)
		}
	}
	if in[0].Position.Y != 200 {
		t.Error("Stack must not modify its input")
	}
}

func TestStackIdempotent(t *testing.T) {
	once := Stack(stackInput())
	twice := Stack(once)
	same := func(a, b block.Block) bool { return a.ID == b.ID && a.Position == b.Position }
	if !slices.EqualFunc(once, twice, same) {
		t.Errorf("Stack is not idempotent:\n once=%+v\ntwice=%+v", once, twice)
	}
}
