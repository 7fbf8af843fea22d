package takedown

import "strconv"

// Normalize repairs a rehydrated snapshot: at least one storey, a live
// active-storey pointer, a homogeneous selection of live ids, clamped
// load inputs with the derived UDL recomputed, and id counters that
// never move backwards.
func Normalize(in State) State {
	s := in.Clone()

	if s.GridSize <= 0 {
		s.GridSize = 0.5
	}
	if s.NextStoreyID < 1 {
		s.NextStoreyID = 1
	}
	if s.NextElementID < 1 {
		s.NextElementID = 1
	}

	if len(s.Storeys) == 0 {
		s = addStorey(s, "Ground", 0)
	}
	if s.ActiveStoreyID != "" && s.FindStorey(s.ActiveStoreyID) == nil {
		s.ActiveStoreyID = s.Storeys[0].ID
	}

	s.Loads.SlabDead = clampNonNeg(s.Loads.SlabDead)
	s.Loads.SlabLive = clampNonNeg(s.Loads.SlabLive)
	s.Loads.SlabThickness = clampNonNeg(s.Loads.SlabThickness)
	s.Loads.ConcreteDensity = clampNonNeg(s.Loads.ConcreteDensity)
	s.Loads.SlabUDL = deriveSlabUDL(s.Loads)

	if !s.Selection.Empty() {
		ids := s.Selection.IDs[:0]
		for _, id := range s.Selection.IDs {
			if s.kindOf(id) == s.Selection.Kind {
				ids = append(ids, id)
			}
		}
		s.Selection.IDs = ids
		if len(ids) == 0 {
			s.Selection = Selection{}
		}
	}

	nextStorey := s.NextStoreyID
	if nextStorey < 1 {
		nextStorey = 1
	}
	for _, st := range s.Storeys {
		if v, ok := numericSuffix(st.ID); ok && v+1 > nextStorey {
			nextStorey = v + 1
		}
	}
	s.NextStoreyID = nextStorey

	nextElem := s.NextElementID
	if nextElem < 1 {
		nextElem = 1
	}
	bump := func(id string) {
		if v, ok := numericSuffix(id); ok && v+1 > nextElem {
			nextElem = v + 1
		}
	}
	for _, v := range s.Slabs {
		bump(v.ID)
	}
	for _, v := range s.Columns {
		bump(v.ID)
	}
	for _, v := range s.Walls {
		bump(v.ID)
	}
	s.NextElementID = nextElem

	return s
}

func numericSuffix(id string) (int, bool) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == len(id) {
		return 0, false
	}
	v, err := strconv.Atoi(id[i:])
	if err != nil {
		return 0, false
	}
	return v, true
}
