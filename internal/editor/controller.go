// Package editor translates pointer gestures into store actions. A
// Controller is a small state machine keyed on (button, active tool,
// target-is-background) at pointer-down; a didDrag flag suppresses the
// click that would otherwise fire on pointer-up after a pan or drag.
package editor

import (
	"framecraft.app/internal/geom"
	"framecraft.app/internal/structure"
)

// Button identifies the mouse button of a pointer event, DOM numbering.
type Button int

const (
	ButtonLeft   Button = 0
	ButtonMiddle Button = 1
	ButtonRight  Button = 2
)

// PointerEvent is a pointer sample in screen pixels.
type PointerEvent struct {
	PX, PY float64
	Button Button
	Shift  bool
}

// dragThresholdPx is how far the pointer must travel before a press
// counts as a drag rather than a click.
const dragThresholdPx = 3.0

// Zoom clamps, pixels per metre.
const (
	minScale = 5.0
	maxScale = 500.0
)

type gestureMode int

const (
	gestureIdle gestureMode = iota
	gesturePan
	gestureDragNode
	gestureBoxSelect
)

// Controller drives one canvas. It owns the viewport and the transient
// gesture state; all model mutations go through the store.
type Controller struct {
	Store *structure.Store
	VP    *geom.Viewport

	// GridSize is the snap pitch in metres for placement and node drags.
	GridSize float64

	// SupportType is applied by the support tool; load presets by the
	// load tool. The panels set these before the user clicks.
	SupportType structure.SupportType
	UDLPreset   struct{ Wx, Wy float64 }
	LoadPreset  struct{ Fx, Fy, Mz float64 }

	// OnBoxSelect receives the rectangle-drag result. The single-id
	// store selection cannot hold a group, so group operations consume
	// the callback payload directly.
	OnBoxSelect func(BoxSelection)

	mode       gestureMode
	didDrag    bool
	downPX     float64
	downPY     float64
	lastPX     float64
	lastPY     float64
	dragNodeID string
}

// NewController wires a controller to a store and viewport.
func NewController(st *structure.Store, vp *geom.Viewport, grid float64) *Controller {
	return &Controller{
		Store:       st,
		VP:          vp,
		GridSize:    grid,
		SupportType: structure.SupportPinned,
	}
}

// PointerDown classifies the press and opens the matching gesture.
func (c *Controller) PointerDown(ev PointerEvent) {
	c.didDrag = false
	c.downPX, c.downPY = ev.PX, ev.PY
	c.lastPX, c.lastPY = ev.PX, ev.PY

	// Middle button pans regardless of tool.
	if ev.Button == ButtonMiddle {
		c.mode = gesturePan
		return
	}
	if ev.Button != ButtonLeft {
		c.mode = gestureIdle
		return
	}

	s := c.Store.State()
	hit := HitTest(s, *c.VP, ev.PX, ev.PY)

	switch s.SelectedTool {
	case structure.ToolPan:
		c.mode = gesturePan
	case structure.ToolSelect:
		if hit.Kind == HitNode {
			c.mode = gestureDragNode
			c.dragNodeID = hit.ID
		} else if hit.Background() {
			c.mode = gestureBoxSelect
		} else {
			c.mode = gestureIdle
		}
	default:
		c.mode = gestureIdle
	}
}

// PointerMove advances the open gesture.
func (c *Controller) PointerMove(ev PointerEvent) {
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
		mx, my := c.VP.ToModel(ev.PX, ev.PY)
		c.Store.Apply(structure.MoveNode{
			ID: c.dragNodeID,
			X:  geom.Snap(mx, c.GridSize),
			Y:  geom.Snap(my, c.GridSize),
		})
	case gestureBoxSelect:
		// Nothing to do until release; the render layer draws the
		// marquee from DragRect.
	}
}

// PointerUp closes the gesture. Clicks (no drag) fall through to the
// per-tool click handler; drags never do.
func (c *Controller) PointerUp(ev PointerEvent) {
	mode := c.mode
	c.mode = gestureIdle
	dragged := c.didDrag
	c.dragNodeID = ""

	if mode == gestureBoxSelect && dragged {
		r := c.dragRectModel(ev)
		sel := BoxSelect(c.Store.State(), r)
		if c.OnBoxSelect != nil {
			c.OnBoxSelect(sel)
		}
		return
	}
	if dragged || ev.Button != ButtonLeft {
		return
	}
	c.click(ev)
}

// DragRect returns the current marquee in screen space, valid while a
// box-select gesture is open.
func (c *Controller) DragRect() (minX, minY, maxX, maxY float64, ok bool) {
	if c.mode != gestureBoxSelect {
		return 0, 0, 0, 0, false
	}
	return min(c.downPX, c.lastPX), min(c.downPY, c.lastPY),
		max(c.downPX, c.lastPX), max(c.downPY, c.lastPY), true
}

func (c *Controller) dragRectModel(ev PointerEvent) geom.Rect {
	ax, ay := c.VP.ToModel(c.downPX, c.downPY)
	bx, by := c.VP.ToModel(ev.PX, ev.PY)
	return geom.Rect{
		MinX: min(ax, bx), MinY: min(ay, by),
		MaxX: max(ax, bx), MaxY: max(ay, by),
	}
}

// click dispatches the per-tool click action for an undragged release.
func (c *Controller) click(ev PointerEvent) {
	s := c.Store.State()
	hit := HitTest(s, *c.VP, ev.PX, ev.PY)
	mx, my := c.VP.ToModel(ev.PX, ev.PY)
	sx := geom.Snap(mx, c.GridSize)
	sy := geom.Snap(my, c.GridSize)

	switch s.SelectedTool {
	case structure.ToolSelect:
		c.Store.Apply(structure.Select{ID: hit.ID})

	case structure.ToolErase:
		switch hit.Kind {
		case HitNode:
			c.Store.Apply(structure.DeleteNode{ID: hit.ID})
		case HitElement:
			c.Store.Apply(structure.DeleteElement{ID: hit.ID})
		}

	case structure.ToolNode:
		c.Store.Apply(structure.AddNode{X: sx, Y: sy})

	case structure.ToolBeam:
		c.draftElement(hit, sx, sy, structure.RoleBeam)
	case structure.ToolColumn:
		c.draftElement(hit, sx, sy, structure.RoleColumn)
	case structure.ToolTruss:
		c.draftElement(hit, sx, sy, structure.RoleTrussMember)

	case structure.ToolSupport:
		if hit.Kind == HitNode {
			c.Store.Apply(structure.AddSupport{NodeID: hit.ID, Type: c.SupportType})
		}

	case structure.ToolLoad:
		switch hit.Kind {
		case HitNode:
			c.Store.Apply(structure.AddOrReplacePointLoad{
				NodeID: hit.ID,
				Fx:     c.LoadPreset.Fx, Fy: c.LoadPreset.Fy, Mz: c.LoadPreset.Mz,
				LoadCaseID: s.ActiveLoadCaseID,
			})
		case HitElement:
			c.Store.Apply(structure.AddOrReplaceUDL{
				ElementID: hit.ID,
				Wx:        c.UDLPreset.Wx, Wy: c.UDLPreset.Wy,
				LoadCaseID: s.ActiveLoadCaseID,
			})
		}
	}
}

// draftElement is the two-click gesture: the first click arms the
// pending node, the second creates the member. Clicking empty canvas
// creates the node first and uses it as the endpoint.
func (c *Controller) draftElement(hit Hit, sx, sy float64, role structure.Role) {
	targetID := ""
	if hit.Kind == HitNode {
		targetID = hit.ID
	} else if hit.Background() {
		s2, _ := c.Store.Apply(structure.AddNode{X: sx, Y: sy})
		if len(s2.Nodes) > 0 {
			targetID = s2.Nodes[len(s2.Nodes)-1].ID
		}
	}
	if targetID == "" {
		return
	}

	pending := c.Store.State().PendingNodeID
	if pending == "" {
		c.Store.Apply(structure.SetPendingNode{ID: targetID})
		return
	}
	if pending == targetID {
		// Clicking the armed node again disarms it.
		c.Store.Apply(structure.SetPendingNode{ID: ""})
		return
	}
	c.Store.Apply(structure.AddElement{NodeI: pending, NodeJ: targetID, Role: role})
}

// Zoom rescales around the given screen anchor, clamped.
func (c *Controller) Zoom(factor, px, py float64) {
	ns := clamp(c.VP.Scale*factor, minScale, maxScale)
	c.VP.SetZoomAt(ns, px, py)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
