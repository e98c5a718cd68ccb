package layout_test

import (
	"fmt"

	"github.com/matzehuels/pipecanvas/pkg/block"
	"github.com/matzehuels/pipecanvas/pkg/layout"
)

func ExamplePlace() {
	pos := layout.Place(
		layout.Point{X: 250, Y: 133}, // pointer
		layout.Point{X: 40, Y: 20},   // container origin
		layout.Size{W: 100, H: 40},
	)
	fmt.Println(pos.X, pos.Y)
	// Output: 160 100
}

func ExampleStack() {
	blocks := []block.Block{
		{ID: "deploy", Position: block.Position{X: 60, Y: 240}},
		{ID: "build", Position: block.Position{X: 20, Y: 0}},
		{ID: "test", Position: block.Position{X: 0, Y: 120}},
	}
	for _, b := range layout.Stack(blocks) {
		fmt.Println(b.ID, b.Position.X, b.Position.Y)
	}
	// Output:
	// build 0 0
	// test 0 60
	// deploy 0 120
}
