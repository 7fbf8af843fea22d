package geom

// Bounded-Voronoi tributary cells.
//
// Each site's cell starts as the bounding rectangle and is clipped
// against the perpendicular-bisector half-plane for every other site.
// The result is the zone of the rectangle closer to the site than to
// anyone else: a convex polygon, or nothing when fully dominated.

const clipEps = 1e-9

// Rect is an axis-aligned rectangle in model space.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether (x, y) lies inside the rectangle (inclusive).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// halfPlane is the set of points with a*x + b*y <= c.
type halfPlane struct {
	a, b, c float64
}

// clipPolygon is one Sutherland–Hodgman step against a half-plane.
// Returns nil when the clipped polygon degenerates below 3 vertices.
func clipPolygon(poly []Pt, h halfPlane) []Pt {
	if len(poly) < 3 {
		return nil
	}
	out := make([]Pt, 0, len(poly)+1)
	inside := func(p Pt) bool {
		return h.a*p.X+h.b*p.Y <= h.c+clipEps
	}
	for i := range poly {
		cur := poly[i]
		next := poly[(i+1)%len(poly)]
		curIn := inside(cur)
		nextIn := inside(next)
		if curIn {
			out = append(out, cur)
		}
		if curIn != nextIn {
			// Edge crosses the boundary: insert the intersection point.
			da := h.a*cur.X + h.b*cur.Y - h.c
			db := h.a*next.X + h.b*next.Y - h.c
			denom := da - db
			if denom == 0 {
				continue
			}
			t := da / denom
			out = append(out, Pt{
				X: cur.X + t*(next.X-cur.X),
				Y: cur.Y + t*(next.Y-cur.Y),
			})
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// VoronoiCell computes the bounded Voronoi cell of sites[idx] clipped to
// bounds. Returns nil when the cell is empty (site fully dominated, out
// of range idx, or degenerate bounds).
func VoronoiCell(sites []Pt, idx int, bounds Rect) []Pt {
	if idx < 0 || idx >= len(sites) {
		return nil
	}
	if bounds.MaxX-bounds.MinX <= 0 || bounds.MaxY-bounds.MinY <= 0 {
		return nil
	}
	site := sites[idx]
	poly := []Pt{
		{bounds.MinX, bounds.MinY},
		{bounds.MaxX, bounds.MinY},
		{bounds.MaxX, bounds.MaxY},
		{bounds.MinX, bounds.MaxY},
	}
	for i, other := range sites {
		if i == idx {
			continue
		}
		dx := other.X - site.X
		dy := other.Y - site.Y
		if dx*dx+dy*dy < clipEps*clipEps {
			// Coincident sites: neither dominates, skip the bisector.
			continue
		}
		// Closer-to-site half-plane: dx*x + dy*y <= dx*mx + dy*my,
		// with (mx, my) the midpoint of the two sites.
		mx := (site.X + other.X) / 2
		my := (site.Y + other.Y) / 2
		poly = clipPolygon(poly, halfPlane{a: dx, b: dy, c: dx*mx + dy*my})
		if poly == nil {
			return nil
		}
	}
	return poly
}

// VoronoiCells computes every site's bounded cell. Empty cells are nil
// entries; callers rendering the overlay skip them.
func VoronoiCells(sites []Pt, bounds Rect) [][]Pt {
	cells := make([][]Pt, len(sites))
	for i := range sites {
		cells[i] = VoronoiCell(sites, i, bounds)
	}
	return cells
}

// PolygonArea returns the unsigned area of a simple polygon.
func PolygonArea(poly []Pt) float64 {
	if len(poly) < 3 {
		return 0
	}
	sum := 0.0
	for i := range poly {
		j := (i + 1) % len(poly)
		sum += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// PolygonCentroid returns the centroid of a simple polygon; the centroid
// of fewer than 3 vertices is the mean of what is there.
func PolygonCentroid(poly []Pt) Pt {
	if len(poly) == 0 {
		return Pt{}
	}
	if len(poly) < 3 {
		var c Pt
		for _, p := range poly {
			c.X += p.X
			c.Y += p.Y
		}
		c.X /= float64(len(poly))
		c.Y /= float64(len(poly))
		return c
	}
	var cx, cy, a float64
	for i := range poly {
		j := (i + 1) % len(poly)
		cross := poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
		a += cross
		cx += (poly[i].X + poly[j].X) * cross
		cy += (poly[i].Y + poly[j].Y) * cross
	}
	if a == 0 {
		return PolygonCentroid(poly[:2])
	}
	return Pt{X: cx / (3 * a), Y: cy / (3 * a)}
}
