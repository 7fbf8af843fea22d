package view

import (
	"math"
	"testing"

	"framecraft.app/internal/takedown"
)

func buildTwoStoreyModel(t *testing.T) takedown.State {
	t.Helper()
	s := takedown.NewState()
	s = takedown.Reduce(s, takedown.AddStorey{Name: "First", Elevation: 3})
	s = takedown.Reduce(s, takedown.AddColumn{X: 0, Y: 0})
	s = takedown.Reduce(s, takedown.AddColumn{X: 6, Y: 0})
	s = takedown.Reduce(s, takedown.SetActiveStorey{ID: "storey-2"})
	s = takedown.Reduce(s, takedown.AddSlab{X: 0, Y: 0, Width: 6, Depth: 4})
	return s
}

func TestAtLevel_FiltersByElevation(t *testing.T) {
	s := buildTwoStoreyModel(t)

	ground := AtLevel(s, 0)
	if len(ground.SlabIDs) != 0 {
		t.Fatalf("slab at 3 m visible at ground: %+v", ground)
	}
	if len(ground.ColumnIDs) != 2 {
		t.Fatalf("ground-to-first columns must be visible at ground: %+v", ground)
	}

	first := AtLevel(s, 3)
	if len(first.SlabIDs) != 1 {
		t.Fatalf("slab must be visible on its own storey: %+v", first)
	}
	// Columns span [0,3] and the span test is inclusive at the top.
	if len(first.ColumnIDs) != 2 {
		t.Fatalf("columns ending at the level must still show: %+v", first)
	}

	if mid := AtLevel(s, 1.5); len(mid.SlabIDs) != 0 || len(mid.ColumnIDs) != 2 {
		t.Fatalf("mid-height: %+v", mid)
	}
}

func TestConnectedColumns_UsesThicknessTolerance(t *testing.T) {
	s := buildTwoStoreyModel(t)
	slab := s.Slabs[0]

	cols := ConnectedColumns(s, slab)
	if len(cols) != 2 {
		t.Fatalf("columns topping out at the slab plane must connect, got %d", len(cols))
	}

	// A short column stopping 0.1 m below still attaches through the
	// max(0.05, thickness) tolerance when the slab is thick enough.
	s.Columns[0].Height = 2.9
	slab.Thickness = 0.2
	if got := len(ConnectedColumns(s, slab)); got != 2 {
		t.Fatalf("column within tolerance must connect, got %d", got)
	}
	slab.Thickness = 0.02
	if got := len(ConnectedColumns(s, slab)); got != 1 {
		t.Fatalf("column outside tolerance must not connect, got %d", got)
	}
}

func TestTributaries_PartitionSlabArea(t *testing.T) {
	s := buildTwoStoreyModel(t)
	cells := Tributaries(s, s.Slabs[0].ID)
	if len(cells) != 2 {
		t.Fatalf("got %d cells want 2", len(cells))
	}

	slabArea := s.Slabs[0].Width * s.Slabs[0].Depth
	var sum float64
	for _, c := range cells {
		if c.Area <= 0 {
			t.Fatalf("degenerate cell for %s", c.ColumnID)
		}
		if math.Abs(c.Load-c.Area*s.Loads.SlabUDL) > 1e-6 {
			t.Fatalf("cell load: got %v want %v", c.Load, c.Area*s.Loads.SlabUDL)
		}
		sum += c.Area
	}
	if math.Abs(sum-slabArea) > 1e-6 {
		t.Fatalf("cells must tile the slab: got %v want %v", sum, slabArea)
	}

	// Symmetric layout splits the slab evenly.
	if math.Abs(cells[0].Area-cells[1].Area) > 1e-6 {
		t.Fatalf("symmetric columns must share equally: %v vs %v", cells[0].Area, cells[1].Area)
	}
}

func TestTributaries_EdgeCases(t *testing.T) {
	s := buildTwoStoreyModel(t)
	if got := Tributaries(s, "slab-999"); got != nil {
		t.Fatalf("unknown slab must yield nil, got %v", got)
	}

	// No columns reaching the slab: no cells.
	s.Columns = nil
	if got := Tributaries(s, s.Slabs[0].ID); got != nil {
		t.Fatalf("no connected columns must yield nil, got %v", got)
	}
}
