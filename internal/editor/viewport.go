package editor

import (
	"math"

	"framecraft.app/internal/geom"
	"framecraft.app/internal/takedown"
	"framecraft.app/internal/view"
)

// ViewportTool selects the takedown viewport interaction mode. The plan
// view works in model X/Y at the active storey's elevation.
type ViewportTool string

const (
	ViewportSelect ViewportTool = "select"
	ViewportPan    ViewportTool = "pan"
	ViewportErase  ViewportTool = "erase"
	ViewportSlab   ViewportTool = "slab"
	ViewportColumn ViewportTool = "column"
)

// columnPickRadiusPx is the pick tolerance around a column base in
// screen pixels.
const columnPickRadiusPx = 10.0

// ViewportHit is the result of picking in the plan view.
type ViewportHit struct {
	Kind takedown.ElementKind
	ID   string
}

func (h ViewportHit) Background() bool { return h.ID == "" }

// ViewportHitTest picks among the elements visible at the active
// storey's level: the nearest column base within the pick radius wins,
// then the first slab whose outline contains the point.
func ViewportHitTest(s takedown.State, vp geom.Viewport, px, py float64) ViewportHit {
	elev := ActiveElevation(s)
	contents := view.AtLevel(s, elev)

	best := ViewportHit{}
	bestDist := columnPickRadiusPx
	for _, id := range contents.ColumnIDs {
		c := s.FindColumn(id)
		cx, cy := vp.ToScreen(c.Base.X, c.Base.Y)
		if d := math.Hypot(px-cx, py-cy); d <= bestDist {
			best = ViewportHit{Kind: takedown.KindColumn, ID: id}
			bestDist = d
		}
	}
	if best.ID != "" {
		return best
	}

	mx, my := vp.ToModel(px, py)
	for _, id := range contents.SlabIDs {
		sl := s.FindSlab(id)
		if mx >= sl.Origin.X && mx <= sl.Origin.X+sl.Width &&
			my >= sl.Origin.Y && my <= sl.Origin.Y+sl.Depth {
			return ViewportHit{Kind: takedown.KindSlab, ID: id}
		}
	}
	return ViewportHit{}
}

// ActiveElevation resolves the plan-view level: the active storey when
// set, else the first storey in creation order.
func ActiveElevation(s takedown.State) float64 {
	if st := s.FindStorey(s.ActiveStoreyID); st != nil {
		return st.Elevation
	}
	if len(s.Storeys) > 0 {
		return s.Storeys[0].Elevation
	}
	return 0
}

// ViewportController drives the takedown plan view. Same gesture state
// machine as the 2D canvas: middle button always pans, a drag past the
// threshold suppresses the click on release, and all model mutations go
// through the store.
type ViewportController struct {
	Store *takedown.Store
	VP    *geom.Viewport

	Tool ViewportTool

	// Placement presets; the panels set these before the user clicks.
	// Zero column sizes fall back to the store's defaults.
	SlabPreset   struct{ Width, Depth float64 }
	ColumnPreset struct{ SizeX, SizeY float64 }

	mode       gestureMode
	didDrag    bool
	downPX     float64
	downPY     float64
	lastPX     float64
	lastPY     float64
	dragElemID string
}

// NewViewportController wires a controller to a store and viewport.
func NewViewportController(st *takedown.Store, vp *geom.Viewport) *ViewportController {
	c := &ViewportController{Store: st, VP: vp, Tool: ViewportSelect}
	c.SlabPreset.Width, c.SlabPreset.Depth = 6, 4
	return c
}

// PointerDown classifies the press and opens the matching gesture.
func (c *ViewportController) PointerDown(ev PointerEvent) {
	c.didDrag = false
	c.downPX, c.downPY = ev.PX, ev.PY
	c.lastPX, c.lastPY = ev.PX, ev.PY

	if ev.Button == ButtonMiddle {
		c.mode = gesturePan
		return
	}
	if ev.Button != ButtonLeft {
		c.mode = gestureIdle
		return
	}

	switch c.Tool {
	case ViewportPan:
		c.mode = gesturePan
	case ViewportSelect:
		hit := ViewportHitTest(c.Store.State(), *c.VP, ev.PX, ev.PY)
		if !hit.Background() {
			c.mode = gestureDragNode
			c.dragElemID = hit.ID
		} else {
			c.mode = gestureIdle
		}
	default:
		c.mode = gestureIdle
	}
}

// PointerMove advances the open gesture.
func (c *ViewportController) PointerMove(ev PointerEvent) {
	dx := ev.PX - c.lastPX
	dy := ev.PY - c.lastPY
	c.lastPX, c.lastPY = ev.PX, ev.PY
	if !c.didDrag && (abs(ev.PX-c.downPX) > dragThresholdPx || abs(ev.PY-c.downPY) > dragThresholdPx) {
		c.didDrag = true
	}

	switch c.mode {
	case gesturePan:
		c.VP.OffsetX += dx
		c.VP.OffsetY += dy
	case gestureDragNode:
		if !c.didDrag {
			return
		}
		s := c.Store.State()
		mx, my := c.VP.ToModel(ev.PX, ev.PY)
		c.Store.Apply(takedown.MoveElement{
			ID: c.dragElemID,
			X:  geom.Snap(mx, s.GridSize),
			Y:  geom.Snap(my, s.GridSize),
		})
	}
}

// PointerUp closes the gesture; drags never fall through to the click
// handler.
func (c *ViewportController) PointerUp(ev PointerEvent) {
	c.mode = gestureIdle
	dragged := c.didDrag
	c.dragElemID = ""

	if dragged || ev.Button != ButtonLeft {
		return
	}
	c.click(ev)
}

// click dispatches the per-tool click action for an undragged release.
func (c *ViewportController) click(ev PointerEvent) {
	s := c.Store.State()
	hit := ViewportHitTest(s, *c.VP, ev.PX, ev.PY)
	mx, my := c.VP.ToModel(ev.PX, ev.PY)
	sx := geom.Snap(mx, s.GridSize)
	sy := geom.Snap(my, s.GridSize)

	switch c.Tool {
	case ViewportSelect:
		if hit.Background() {
			c.Store.Apply(takedown.ClearSelection{})
			return
		}
		c.Store.Apply(takedown.SelectElement{ID: hit.ID, Additive: ev.Shift})

	case ViewportErase:
		if !hit.Background() {
			c.Store.Apply(takedown.DeleteElement{ID: hit.ID})
		}

	case ViewportSlab:
		c.Store.Apply(takedown.AddSlab{
			X: sx, Y: sy,
			Width: c.SlabPreset.Width, Depth: c.SlabPreset.Depth,
		})

	case ViewportColumn:
		c.Store.Apply(takedown.AddColumn{
			X: sx, Y: sy,
			SizeX: c.ColumnPreset.SizeX, SizeY: c.ColumnPreset.SizeY,
		})
	}
}

// Zoom rescales around the given screen anchor, clamped.
func (c *ViewportController) Zoom(factor, px, py float64) {
	ns := clamp(c.VP.Scale*factor, minScale, maxScale)
	c.VP.SetZoomAt(ns, px, py)
}
