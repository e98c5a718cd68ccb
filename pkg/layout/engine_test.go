package layout

import (
	"testing"

	"github.com/matzehuels/pipecanvas/pkg/block"
)

func TestSurfaceContainers(t *testing.T) {
	single := NewSurface(ModeSingle)
	if got := single.Containers(); len(got) != 1 || got[0].Name != Canvas {
		t.Errorf("single containers = %+v", got)
	}

	multi := NewSurface(ModeMulti)
	got := multi.Containers()
	if len(got) != Columns*CellsPerColumn {
		t.Fatalf("multi has %d containers, want %d", len(got), Columns*CellsPerColumn)
	}
	if got[0].Name != "col0/cell0" || got[5].Name != "col1/cell0" {
		t.Errorf("unexpected container order: %s, %s", got[0].Name, got[5].Name)
	}
	if _, ok := multi.Resolve(Canvas); ok {
		t.Error("canvas must not resolve in multi mode")
	}
	if _, ok := multi.Resolve("col1/cell4"); !ok {
		t.Error("col1/cell4 should resolve in multi mode")
	}
	if _, ok := multi.Resolve("col2/cell0"); ok {
		t.Error("col2 does not exist")
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeSingle, "single": ModeSingle, "multi": ModeMulti} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("grid"); err == nil {
		t.Error("ParseMode(grid) should fail")
	}
}

func TestDropOutsideSurface(t *testing.T) {
	s := block.NewStore(nil)
	b := s.Create("build")
	e := NewEngine(ModeSingle)

	_, ok, err := e.Drop(s, b.ID, "col0/cell0", Point{X: 100, Y: 100}, Point{}, Size{})
	if err != nil || ok {
		t.Errorf("Drop outside surface = %v, %v; want no-op", ok, err)
	}
	got, _ := s.Get(b.ID)
	if got.Slot != "" {
		t.Errorf("block was placed: %+v", got)
	}
}

func TestStackAllPerCell(t *testing.T) {
	s := block.NewStore(nil)
	e := NewEngine(ModeMulti)
	a := s.Create("a")
	b := s.Create("b")
	c := s.Create("c")
	_ = s.Place(a.ID, "col0/cell0", block.Position{X: 40, Y: 300})
	_ = s.Place(b.ID, "col1/cell2", block.Position{X: 20, Y: 80})
	_ = s.Place(c.ID, "col0/cell0", block.Position{X: 0, Y: 100})

	if err := e.StackAll(s); err != nil {
		t.Fatal(err)
	}
	pos := e.Positions(s)
	if pos[c.ID].Y != 0 || pos[a.ID].Y != StackSpacing {
		t.Errorf("cell col0/cell0 not stacked: a=%+v c=%+v", pos[a.ID], pos[c.ID])
	}
	if pos[b.ID] != (block.Position{}) {
		t.Errorf("cell col1/cell2 should restart at 0: %+v", pos[b.ID])
	}
}

func TestStackAllRepairsUnknownSlots(t *testing.T) {
	s := block.NewStore(nil)
	e := NewEngine(ModeSingle)
	a := s.Create("a")

	if err := e.StackAll(s); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get(a.ID)
	if got.Slot != Canvas {
		t.Errorf("slot = %q, want %q", got.Slot, Canvas)
	}
}

func TestRestructureKeepsBlocks(t *testing.T) {
	s := block.NewStore(nil)
	e := NewEngine(ModeSingle)
	a := s.Create("a")
	b := s.Create("b")
	_ = s.Place(a.ID, Canvas, block.Position{Y: 200})
	_ = s.Place(b.ID, Canvas, block.Position{Y: 40})

	if err := e.Restructure(s, ModeMulti); err != nil {
		t.Fatal(err)
	}
	if e.Surface.Mode() != ModeMulti {
		t.Fatal("mode not switched")
	}
	gotB, _ := s.Get(b.ID)
	gotA, _ := s.Get(a.ID)
	if gotA.Slot != "col0/cell0" || gotB.Slot != "col0/cell0" {
		t.Errorf("blocks not moved to first cell: %q, %q", gotA.Slot, gotB.Slot)
	}
	if gotB.Position.Y != 0 || gotA.Position.Y != StackSpacing {
		t.Errorf("vertical order lost: a=%+v b=%+v", gotA.Position, gotB.Position)
	}

	_ = s.Place(a.ID, "col1/cell0", block.Position{})
	if err := e.Restructure(s, ModeSingle); err != nil {
		t.Fatal(err)
	}
	gotA, _ = s.Get(a.ID)
	gotB, _ = s.Get(b.ID)
	if gotA.Slot != Canvas || gotB.Position.Y != 0 || gotA.Position.Y != StackSpacing {
		t.Errorf("back to single: a=%+v b=%+v", gotA, gotB)
	}
}
