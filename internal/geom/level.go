package geom

import "math"

// Level-membership tests for the 3D load-takedown views.

const levelEps = 1e-6

// SpanContains reports whether elev lies within [z0, z0+h] (either
// orientation) with a small tolerance.
func SpanContains(z0, h, elev float64) bool {
	lo := math.Min(z0, z0+h)
	hi := math.Max(z0, z0+h)
	return elev >= lo-levelEps && elev <= hi+levelEps
}

// OnLevel reports whether an element elevation coincides with elev.
func OnLevel(elementElev, elev float64) bool {
	return math.Abs(elementElev-elev) < levelEps
}

// SpanReaches reports whether elev lies within the vertical span with
// the given tolerance. Used with a looser tolerance than SpanContains
// when attaching columns to a slab plane: columns routinely terminate at
// a node slightly off the reference plane, so the slab thickness (never
// less than 5 cm) is accepted as slack.
func SpanReaches(z0, h, elev, tol float64) bool {
	lo := math.Min(z0, z0+h)
	hi := math.Max(z0, z0+h)
	return elev >= lo-tol && elev <= hi+tol
}

// SlabAttachTolerance is the slack used when collecting the columns
// supporting a slab.
func SlabAttachTolerance(slabThickness float64) float64 {
	return math.Max(0.05, slabThickness)
}
