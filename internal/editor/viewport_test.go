package editor

import (
	"testing"

	"framecraft.app/internal/geom"
	"framecraft.app/internal/takedown"
)

func newTestViewport() (*ViewportController, *takedown.Store, *geom.Viewport) {
	st := takedown.NewStore()
	vp := &geom.Viewport{Scale: 50, OffsetX: 400, OffsetY: 300}
	return NewViewportController(st, vp), st, vp
}

func leftClickVP(c *ViewportController, px, py float64) {
	c.PointerDown(PointerEvent{PX: px, PY: py, Button: ButtonLeft})
	c.PointerUp(PointerEvent{PX: px, PY: py, Button: ButtonLeft})
}

func shiftClickVP(c *ViewportController, px, py float64) {
	c.PointerDown(PointerEvent{PX: px, PY: py, Button: ButtonLeft, Shift: true})
	c.PointerUp(PointerEvent{PX: px, PY: py, Button: ButtonLeft, Shift: true})
}

func TestSlabTool_PlacesSnappedSlabAtActiveStorey(t *testing.T) {
	c, st, vp := newTestViewport()
	st.Apply(takedown.AddStorey{Name: "First", Elevation: 3})
	st.Apply(takedown.SetActiveStorey{ID: st.State().Storeys[1].ID})
	c.Tool = ViewportSlab
	c.SlabPreset.Width, c.SlabPreset.Depth = 6, 4

	px, py := vp.ToScreen(2.13, 1.02)
	leftClickVP(c, px, py)

	s := st.State()
	if len(s.Slabs) != 1 {
		t.Fatalf("got %d slabs want 1", len(s.Slabs))
	}
	sl := s.Slabs[0]
	if sl.Origin.X != 2.0 || sl.Origin.Y != 1.0 {
		t.Fatalf("slab not snapped: (%v, %v)", sl.Origin.X, sl.Origin.Y)
	}
	if sl.Width != 6 || sl.Depth != 4 {
		t.Fatalf("preset size lost: %vx%v", sl.Width, sl.Depth)
	}
	if sl.Elevation != 3 {
		t.Fatalf("slab must land on the active storey, elevation %v", sl.Elevation)
	}
}

func TestColumnTool_PlacesColumnWithAutoHeight(t *testing.T) {
	c, st, vp := newTestViewport()
	st.Apply(takedown.AddStorey{Name: "First", Elevation: 3.5})
	c.Tool = ViewportColumn

	// Active storey is Ground (elevation 0); the column reaches First.
	px, py := vp.ToScreen(1.0, 2.0)
	leftClickVP(c, px, py)

	s := st.State()
	if len(s.Columns) != 1 {
		t.Fatalf("got %d columns want 1", len(s.Columns))
	}
	col := s.Columns[0]
	if col.Base.X != 1.0 || col.Base.Y != 2.0 || col.Base.Z != 0 {
		t.Fatalf("column base: %+v", col.Base)
	}
	if col.Height != 3.5 {
		t.Fatalf("auto height: got %v want 3.5", col.Height)
	}
}

func TestSelectTool_ClickAndShiftClick(t *testing.T) {
	c, st, vp := newTestViewport()
	st.Apply(takedown.AddColumn{X: 0, Y: 0})
	st.Apply(takedown.AddColumn{X: 4, Y: 0})
	st.Apply(takedown.AddSlab{X: -2, Y: -2, Width: 8, Depth: 6})
	s := st.State()
	colA, colB := s.Columns[0], s.Columns[1]

	px, py := vp.ToScreen(colA.Base.X, colA.Base.Y)
	leftClickVP(c, px, py)
	if sel := st.State().Selection; sel.Kind != takedown.KindColumn || len(sel.IDs) != 1 || sel.IDs[0] != colA.ID {
		t.Fatalf("selection after click: %+v", sel)
	}

	px, py = vp.ToScreen(colB.Base.X, colB.Base.Y)
	shiftClickVP(c, px, py)
	if sel := st.State().Selection; len(sel.IDs) != 2 {
		t.Fatalf("shift-click must extend a same-kind selection: %+v", sel)
	}

	// Shift-clicking the slab (different kind) leaves the selection alone.
	px, py = vp.ToScreen(3, -1.5)
	shiftClickVP(c, px, py)
	if sel := st.State().Selection; sel.Kind != takedown.KindColumn || len(sel.IDs) != 2 {
		t.Fatalf("mixed-kind shift-click must no-op: %+v", sel)
	}

	// Plain background click clears.
	px, py = vp.ToScreen(50, 50)
	leftClickVP(c, px, py)
	if sel := st.State().Selection; !sel.Empty() {
		t.Fatalf("background click must clear, got %+v", sel)
	}
}

func TestSelectTool_DragMovesElementWithSnapAndSuppressesClick(t *testing.T) {
	c, st, vp := newTestViewport()
	st.Apply(takedown.AddSlab{X: 0, Y: 0, Width: 4, Depth: 4})
	slabID := st.State().Slabs[0].ID
	c.Tool = ViewportSelect

	px, py := vp.ToScreen(2, 2)
	c.PointerDown(PointerEvent{PX: px, PY: py, Button: ButtonLeft})
	tx, ty := vp.ToScreen(3.07, 2.94)
	c.PointerMove(PointerEvent{PX: tx, PY: ty, Button: ButtonLeft})
	c.PointerUp(PointerEvent{PX: tx, PY: ty, Button: ButtonLeft})

	s := st.State()
	sl := s.FindSlab(slabID)
	if sl.Origin.X != 3.0 || sl.Origin.Y != 3.0 {
		t.Fatalf("drag not snapped: (%v, %v)", sl.Origin.X, sl.Origin.Y)
	}
	// The release after a drag must not run the click selection.
	if !s.Selection.Empty() {
		t.Fatalf("drag release must not select, got %+v", s.Selection)
	}
}

func TestEraseTool_DeletesElement(t *testing.T) {
	c, st, vp := newTestViewport()
	st.Apply(takedown.AddColumn{X: 1, Y: 1})
	c.Tool = ViewportErase

	px, py := vp.ToScreen(1, 1)
	leftClickVP(c, px, py)
	if n := len(st.State().Columns); n != 0 {
		t.Fatalf("column not erased: %d left", n)
	}
}

func TestMiddleButton_PansAndSuppressesPlacement(t *testing.T) {
	c, st, vp := newTestViewport()
	c.Tool = ViewportSlab

	c.PointerDown(PointerEvent{PX: 100, PY: 100, Button: ButtonMiddle})
	c.PointerMove(PointerEvent{PX: 140, PY: 70, Button: ButtonMiddle})
	c.PointerUp(PointerEvent{PX: 140, PY: 70, Button: ButtonMiddle})

	if vp.OffsetX != 440 || vp.OffsetY != 270 {
		t.Fatalf("pan offsets: (%v, %v)", vp.OffsetX, vp.OffsetY)
	}
	if n := len(st.State().Slabs); n != 0 {
		t.Fatalf("pan must not place a slab, got %d", n)
	}
}

func TestViewportHitTest_ColumnBeatsSlab(t *testing.T) {
	_, st, vp := newTestViewport()
	st.Apply(takedown.AddSlab{X: 0, Y: 0, Width: 6, Depth: 6})
	st.Apply(takedown.AddColumn{X: 3, Y: 3})
	s := st.State()

	px, py := vp.ToScreen(3, 3)
	hit := ViewportHitTest(s, *vp, px, py)
	if hit.Kind != takedown.KindColumn {
		t.Fatalf("column must win over the slab under it, got %+v", hit)
	}

	px, py = vp.ToScreen(1, 1)
	hit = ViewportHitTest(s, *vp, px, py)
	if hit.Kind != takedown.KindSlab {
		t.Fatalf("point inside the slab outline: %+v", hit)
	}

	hit = ViewportHitTest(s, *vp, -50, -50)
	if !hit.Background() {
		t.Fatalf("empty canvas must miss, got %+v", hit)
	}
}

func TestViewportHitTest_FiltersByActiveStorey(t *testing.T) {
	_, st, vp := newTestViewport()
	st.Apply(takedown.AddSlab{X: 0, Y: 0, Width: 6, Depth: 6})
	st.Apply(takedown.AddStorey{Name: "First", Elevation: 3})
	st.Apply(takedown.SetActiveStorey{ID: st.State().Storeys[1].ID})

	px, py := vp.ToScreen(1, 1)
	hit := ViewportHitTest(st.State(), *vp, px, py)
	if !hit.Background() {
		t.Fatalf("ground-floor slab must not be pickable from level 3: %+v", hit)
	}
}

func TestViewportZoom_Clamps(t *testing.T) {
	c, _, vp := newTestViewport()
	c.Zoom(1000, 400, 300)
	if vp.Scale != maxScale {
		t.Fatalf("scale must clamp high: %v", vp.Scale)
	}
	c.Zoom(1e-6, 400, 300)
	if vp.Scale != minScale {
		t.Fatalf("scale must clamp low: %v", vp.Scale)
	}
}
