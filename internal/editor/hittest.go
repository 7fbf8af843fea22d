package editor

import (
	"math"

	"framecraft.app/internal/geom"
	"framecraft.app/internal/structure"
)

// HitKind tags what a pointer position landed on.
type HitKind string

const (
	HitNone    HitKind = ""
	HitNode    HitKind = "node"
	HitElement HitKind = "element"
)

// Hit is the result of picking at a screen position. Kind HitNone means
// the pointer is over empty canvas.
type Hit struct {
	Kind HitKind
	ID   string
}

// Background reports whether nothing was hit.
func (h Hit) Background() bool { return h.Kind == HitNone }

// nodePickRadiusPx and elementPickRadiusPx are pick tolerances in screen
// pixels. Nodes win over elements so an element endpoint is always
// grabbable.
const (
	nodePickRadiusPx    = 10.0
	elementPickRadiusPx = 6.0
)

// HitTest picks the nearest node within tolerance, then the nearest
// element, at the given screen position.
func HitTest(s structure.State, vp geom.Viewport, px, py float64) Hit {
	bestID := ""
	bestD := nodePickRadiusPx
	for _, n := range s.Nodes {
		sx, sy := vp.ToScreen(n.X, n.Y)
		d := math.Hypot(sx-px, sy-py)
		if d <= bestD {
			bestD = d
			bestID = n.ID
		}
	}
	if bestID != "" {
		return Hit{Kind: HitNode, ID: bestID}
	}

	bestD = elementPickRadiusPx
	for _, el := range s.Elements {
		ni := s.FindNode(el.NodeI)
		nj := s.FindNode(el.NodeJ)
		if ni == nil || nj == nil {
			continue
		}
		ax, ay := vp.ToScreen(ni.X, ni.Y)
		bx, by := vp.ToScreen(nj.X, nj.Y)
		d := geom.DistPointToSegment(geom.Pt{X: px, Y: py}, geom.Pt{X: ax, Y: ay}, geom.Pt{X: bx, Y: by})
		if d <= bestD {
			bestD = d
			bestID = el.ID
		}
	}
	if bestID != "" {
		return Hit{Kind: HitElement, ID: bestID}
	}
	return Hit{}
}
