package takedown

import (
	"fmt"
	"sort"
)

// defaultColumnSpan is the height of a column placed on the topmost
// storey, with no storey above to reach.
const defaultColumnSpan = 3.0

// Reduce applies one action and returns the next snapshot. As in the 2D
// store, referential misses are silent no-ops.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case AddStorey:
		return addStorey(s.Clone(), act.Name, act.Elevation)

	case SetStoreyElevation:
		if s.FindStorey(act.ID) == nil {
			return s
		}
		next := s.Clone()
		next.FindStorey(act.ID).Elevation = act.Elevation
		return next

	case RenameStorey:
		if s.FindStorey(act.ID) == nil || act.Name == "" {
			return s
		}
		next := s.Clone()
		next.FindStorey(act.ID).Name = act.Name
		return next

	case DeleteStorey:
		if s.FindStorey(act.ID) == nil {
			return s
		}
		if len(s.Storeys) <= 1 {
			// At least one storey must always exist.
			return s
		}
		next := s.Clone()
		out := next.Storeys[:0]
		for _, st := range next.Storeys {
			if st.ID != act.ID {
				out = append(out, st)
			}
		}
		next.Storeys = out
		if next.ActiveStoreyID == act.ID {
			if len(next.Storeys) > 0 {
				next.ActiveStoreyID = next.Storeys[0].ID
			} else {
				next.ActiveStoreyID = ""
			}
		}
		return next

	case SetActiveStorey:
		if act.ID != "" && s.FindStorey(act.ID) == nil {
			return s
		}
		next := s.Clone()
		next.ActiveStoreyID = act.ID
		return next

	case AddSlab:
		if act.Width <= 0 || act.Depth <= 0 {
			return s
		}
		next := s.Clone()
		elev := next.placementElevation()
		th := act.Thickness
		if th <= 0 {
			th = next.Loads.SlabThickness
		}
		id := elemID(KindSlab, next.NextElementID)
		next.Slabs = append(next.Slabs, Slab{
			ID:        id,
			Name:      fmt.Sprintf("Slab %d", next.NextElementID),
			Origin:    Vec3{X: act.X, Y: act.Y, Z: elev},
			Width:     act.Width,
			Depth:     act.Depth,
			Thickness: th,
			Elevation: elev,
			Material:  DefaultConcrete(),
		})
		next.NextElementID++
		return next

	case AddColumn:
		sx := act.SizeX
		sy := act.SizeY
		if sx <= 0 {
			sx = 0.3
		}
		if sy <= 0 {
			sy = 0.3
		}
		next := s.Clone()
		elev := next.placementElevation()
		id := elemID(KindColumn, next.NextElementID)
		next.Columns = append(next.Columns, Column{
			ID:       id,
			Name:     fmt.Sprintf("Column %d", next.NextElementID),
			Base:     Vec3{X: act.X, Y: act.Y, Z: elev},
			Height:   next.columnHeightFrom(elev),
			SizeX:    sx,
			SizeY:    sy,
			Material: DefaultConcrete(),
		})
		next.NextElementID++
		return next

	case MoveElement:
		switch s.kindOf(act.ID) {
		case KindSlab:
			next := s.Clone()
			sl := next.FindSlab(act.ID)
			sl.Origin.X = act.X
			sl.Origin.Y = act.Y
			return next
		case KindColumn:
			next := s.Clone()
			c := next.FindColumn(act.ID)
			c.Base.X = act.X
			c.Base.Y = act.Y
			return next
		case KindWall:
			next := s.Clone()
			w := next.FindWall(act.ID)
			w.Origin.X = act.X
			w.Origin.Y = act.Y
			return next
		default:
			return s
		}

	case DeleteElement:
		if s.kindOf(act.ID) == "" {
			return s
		}
		next := s.Clone()
		next.Slabs = filterSlabs(next.Slabs, act.ID)
		next.Columns = filterColumns(next.Columns, act.ID)
		next.Walls = filterWalls(next.Walls, act.ID)
		next.Selection = dropFromSelection(next.Selection, act.ID)
		return next

	case SelectElement:
		kind := s.kindOf(act.ID)
		if kind == "" {
			return s
		}
		next := s.Clone()
		if !act.Additive || next.Selection.Empty() {
			next.Selection = Selection{Kind: kind, IDs: []string{act.ID}}
			return next
		}
		// Additive selection stays homogeneous: a different kind is a
		// silent no-op, a duplicate click toggles the id off.
		if next.Selection.Kind != kind {
			return s
		}
		if next.Selection.Has(act.ID) {
			next.Selection = dropFromSelection(next.Selection, act.ID)
			return next
		}
		next.Selection.IDs = append(next.Selection.IDs, act.ID)
		return next

	case ClearSelection:
		if s.Selection.Empty() {
			return s
		}
		next := s.Clone()
		next.Selection = Selection{}
		return next

	case SetSlabDead:
		next := s.Clone()
		next.Loads.SlabDead = clampNonNeg(act.KNPerM2)
		next.Loads.SlabUDL = deriveSlabUDL(next.Loads)
		return next

	case SetSlabLive:
		next := s.Clone()
		next.Loads.SlabLive = clampNonNeg(act.KNPerM2)
		next.Loads.SlabUDL = deriveSlabUDL(next.Loads)
		return next

	case SetSlabThickness:
		next := s.Clone()
		next.Loads.SlabThickness = clampNonNeg(act.Metres)
		next.Loads.SlabUDL = deriveSlabUDL(next.Loads)
		return next

	case SetConcreteDensity:
		next := s.Clone()
		next.Loads.ConcreteDensity = clampNonNeg(act.KNPerM3)
		next.Loads.SlabUDL = deriveSlabUDL(next.Loads)
		return next

	case SetGridSize:
		if act.Metres <= 0 {
			return s
		}
		next := s.Clone()
		next.GridSize = act.Metres
		return next

	case ReplaceModel:
		return Normalize(act.State)

	case Reset:
		return NewState()

	default:
		return s
	}
}

func clampNonNeg(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func addStorey(next State, name string, elevation float64) State {
	if name == "" {
		name = fmt.Sprintf("Level %d", next.NextStoreyID)
	}
	next.Storeys = append(next.Storeys, Storey{
		ID:        storeyID(next.NextStoreyID),
		Name:      name,
		Elevation: elevation,
	})
	next.NextStoreyID++
	return next
}

// placementElevation resolves where a new element lands: the active
// storey when set, else the first storey in creation order (the list is
// not kept sorted by elevation).
func (s *State) placementElevation() float64 {
	if st := s.FindStorey(s.ActiveStoreyID); st != nil {
		return st.Elevation
	}
	if len(s.Storeys) > 0 {
		return s.Storeys[0].Elevation
	}
	return 0
}

// columnHeightFrom reaches the storey immediately above elev (sorted by
// elevation), or the default span when elev is topmost.
func (s *State) columnHeightFrom(elev float64) float64 {
	elevs := make([]float64, 0, len(s.Storeys))
	for _, st := range s.Storeys {
		elevs = append(elevs, st.Elevation)
	}
	sort.Float64s(elevs)
	for _, e := range elevs {
		if e > elev+1e-9 {
			return e - elev
		}
	}
	return defaultColumnSpan
}

func filterSlabs(in []Slab, dropID string) []Slab {
	out := in[:0]
	for _, v := range in {
		if v.ID != dropID {
			out = append(out, v)
		}
	}
	return out
}

func filterColumns(in []Column, dropID string) []Column {
	out := in[:0]
	for _, v := range in {
		if v.ID != dropID {
			out = append(out, v)
		}
	}
	return out
}

func filterWalls(in []Wall, dropID string) []Wall {
	out := in[:0]
	for _, v := range in {
		if v.ID != dropID {
			out = append(out, v)
		}
	}
	return out
}

func dropFromSelection(sel Selection, id string) Selection {
	out := sel.IDs[:0]
	for _, v := range sel.IDs {
		if v != id {
			out = append(out, v)
		}
	}
	sel.IDs = out
	if len(sel.IDs) == 0 {
		return Selection{}
	}
	return sel
}
