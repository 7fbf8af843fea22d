// Package geom is the shared geometry kernel for the 2D and 3D editors.
// Everything here is pure and total: degenerate inputs produce defined
// empty or identity results, never panics, because these functions run
// inside per-frame render paths.
package geom

import "math"

// Snap rounds v to the nearest multiple of grid. A non-positive grid
// disables snapping.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// Pt is a point in model space (metres).
type Pt struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport maps model space (metres, Y up) to screen space (pixels, Y down).
// All axis/sign arithmetic lives here; no other package flips axes.
type Viewport struct {
	Scale   float64 // pixels per metre
	OffsetX float64
	OffsetY float64
}

// ToScreen converts a model-space point to pixels.
func (vp Viewport) ToScreen(x, y float64) (px, py float64) {
	return x*vp.Scale + vp.OffsetX, -y*vp.Scale + vp.OffsetY
}

// ToModel converts a pixel position back to model space.
func (vp Viewport) ToModel(px, py float64) (x, y float64) {
	if vp.Scale == 0 {
		return 0, 0
	}
	return (px - vp.OffsetX) / vp.Scale, -(py - vp.OffsetY) / vp.Scale
}

// SetZoomAt rescales the viewport while keeping the model-space point
// under the screen position (px, py) fixed.
func (vp *Viewport) SetZoomAt(newScale, px, py float64) {
	if newScale <= 0 || vp.Scale <= 0 {
		return
	}
	mx, my := vp.ToModel(px, py)
	vp.Scale = newScale
	vp.OffsetX = px - mx*newScale
	vp.OffsetY = py + my*newScale
}

// FitToView positions the viewport so the bounding box of pts fills a
// width×height pixel area with the given margin. Zero-span inputs keep
// the current transform.
func (vp *Viewport) FitToView(pts []Pt, width, height, margin float64) {
	if len(pts) == 0 || width <= 2*margin || height <= 2*margin {
		return
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 && spanY <= 0 {
		// Single point: keep scale, centre on it.
		if vp.Scale <= 0 {
			vp.Scale = 50
		}
		vp.OffsetX = width/2 - minX*vp.Scale
		vp.OffsetY = height/2 + minY*vp.Scale
		return
	}
	availW := width - 2*margin
	availH := height - 2*margin
	scale := math.Inf(1)
	if spanX > 0 {
		scale = availW / spanX
	}
	if spanY > 0 {
		scale = math.Min(scale, availH/spanY)
	}
	if math.IsInf(scale, 1) || scale <= 0 {
		return
	}
	vp.Scale = scale
	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	vp.OffsetX = width/2 - cx*scale
	vp.OffsetY = height/2 + cy*scale
}
