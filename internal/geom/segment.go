package geom

import "math"

// Segment and rectangle predicates used by box-select and element
// hit-testing.

// orientation returns the sign of the cross product (b-a) x (c-a):
// +1 counter-clockwise, -1 clockwise, 0 collinear.
func orientation(ax, ay, bx, by, cx, cy float64) int {
	v := (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
	switch {
	case v > clipEps:
		return 1
	case v < -clipEps:
		return -1
	default:
		return 0
	}
}

func onSegment(ax, ay, bx, by, px, py float64) bool {
	return px >= min(ax, bx)-clipEps && px <= max(ax, bx)+clipEps &&
		py >= min(ay, by)-clipEps && py <= max(ay, by)+clipEps
}

// SegmentsIntersect reports whether segments p1-p2 and p3-p4 intersect,
// including touching endpoints and collinear overlap.
func SegmentsIntersect(p1, p2, p3, p4 Pt) bool {
	o1 := orientation(p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y)
	o2 := orientation(p1.X, p1.Y, p2.X, p2.Y, p4.X, p4.Y)
	o3 := orientation(p3.X, p3.Y, p4.X, p4.Y, p1.X, p1.Y)
	o4 := orientation(p3.X, p3.Y, p4.X, p4.Y, p2.X, p2.Y)

	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegment(p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y) {
		return true
	}
	if o2 == 0 && onSegment(p1.X, p1.Y, p2.X, p2.Y, p4.X, p4.Y) {
		return true
	}
	if o3 == 0 && onSegment(p3.X, p3.Y, p4.X, p4.Y, p1.X, p1.Y) {
		return true
	}
	if o4 == 0 && onSegment(p3.X, p3.Y, p4.X, p4.Y, p2.X, p2.Y) {
		return true
	}
	return false
}

// SegmentIntersectsRect reports whether the segment a-b touches r:
// either endpoint inside, or the segment crosses one of the four edges.
func SegmentIntersectsRect(a, b Pt, r Rect) bool {
	if r.Contains(a.X, a.Y) || r.Contains(b.X, b.Y) {
		return true
	}
	c1 := Pt{r.MinX, r.MinY}
	c2 := Pt{r.MaxX, r.MinY}
	c3 := Pt{r.MaxX, r.MaxY}
	c4 := Pt{r.MinX, r.MaxY}
	return SegmentsIntersect(a, b, c1, c2) ||
		SegmentsIntersect(a, b, c2, c3) ||
		SegmentsIntersect(a, b, c3, c4) ||
		SegmentsIntersect(a, b, c4, c1)
}

// DistPointToSegment returns the distance from p to segment a-b.
func DistPointToSegment(p, a, b Pt) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
