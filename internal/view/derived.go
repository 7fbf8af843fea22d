// Package view derives per-frame render inputs from store snapshots.
// Everything here is a pure function of the current state.
package view

import (
	"framecraft.app/internal/geom"
	"framecraft.app/internal/takedown"
)

// LevelContents lists what the active-storey filter keeps visible.
type LevelContents struct {
	SlabIDs   []string
	ColumnIDs []string
	WallIDs   []string
}

// AtLevel filters the takedown model to one elevation: slabs sitting on
// the plane, columns and walls whose vertical span crosses it.
func AtLevel(s takedown.State, elevation float64) LevelContents {
	var out LevelContents
	for _, sl := range s.Slabs {
		if geom.OnLevel(sl.Elevation, elevation) {
			out.SlabIDs = append(out.SlabIDs, sl.ID)
		}
	}
	for _, c := range s.Columns {
		if geom.SpanContains(c.Base.Z, c.Height, elevation) {
			out.ColumnIDs = append(out.ColumnIDs, c.ID)
		}
	}
	for _, w := range s.Walls {
		if geom.SpanContains(w.Origin.Z, w.Height, elevation) {
			out.WallIDs = append(out.WallIDs, w.ID)
		}
	}
	return out
}

// TributaryCell is one column's zone of influence on a slab. Pure
// geometry for visualization; the solver does its own takedown.
type TributaryCell struct {
	ColumnID string
	Polygon  []geom.Pt
	Area     float64 // m^2
	Load     float64 // N, area times slabUDL
}

// ConnectedColumns returns the columns whose vertical span reaches the
// slab's plane, within the slab-thickness tolerance.
func ConnectedColumns(s takedown.State, slab takedown.Slab) []takedown.Column {
	tol := geom.SlabAttachTolerance(slab.Thickness)
	var out []takedown.Column
	for _, c := range s.Columns {
		if geom.SpanReaches(c.Base.Z, c.Height, slab.Elevation, tol) {
			out = append(out, c)
		}
	}
	return out
}

// Tributaries computes the bounded-Voronoi cells of a slab's connected
// columns, clipped to the slab outline. Columns with an empty cell
// (fully dominated) are omitted.
func Tributaries(s takedown.State, slabID string) []TributaryCell {
	slab := s.FindSlab(slabID)
	if slab == nil {
		return nil
	}
	cols := ConnectedColumns(s, *slab)
	if len(cols) == 0 {
		return nil
	}
	sites := make([]geom.Pt, len(cols))
	for i, c := range cols {
		sites[i] = geom.Pt{X: c.Base.X, Y: c.Base.Y}
	}
	bounds := geom.Rect{
		MinX: slab.Origin.X,
		MinY: slab.Origin.Y,
		MaxX: slab.Origin.X + slab.Width,
		MaxY: slab.Origin.Y + slab.Depth,
	}
	cells := geom.VoronoiCells(sites, bounds)
	var out []TributaryCell
	for i, cell := range cells {
		if cell == nil {
			continue
		}
		area := geom.PolygonArea(cell)
		out = append(out, TributaryCell{
			ColumnID: cols[i].ID,
			Polygon:  cell,
			Area:     area,
			Load:     area * s.Loads.SlabUDL,
		})
	}
	return out
}
