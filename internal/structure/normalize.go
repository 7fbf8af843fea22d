package structure

import "strconv"

// Normalize repairs a rehydrated snapshot (file load, REPLACE_STATE)
// so every invariant holds before the state is installed:
//
//   - id counters are re-derived from the highest numeric suffix in use
//     and never move below the incoming value, so ids are never reused;
//   - records referencing dead nodes/elements/load cases are dropped;
//   - absent or empty load cases/combinations fall back to the defaults;
//   - selection and pending cursors that no longer resolve are cleared.
//
// Unknown fields were already dropped by JSON decoding; missing ones are
// defaulted here rather than rejected.
func Normalize(in State) State {
	s := in.Clone()

	if s.Module != ModuleTruss {
		s.Module = ModuleFrame
	}
	if s.SteelGrade == "" {
		s.SteelGrade = "S355"
	}
	if s.SelectedTool == "" {
		s.SelectedTool = ToolSelect
	}
	if len(s.LoadCases) == 0 {
		s.LoadCases = DefaultLoadCases()
	}
	if len(s.Combos) == 0 {
		s.Combos = DefaultCombinations()
	}
	for i := range s.Combos {
		if s.Combos[i].Factors == nil {
			s.Combos[i].Factors = map[string]float64{}
		}
	}

	// Drop elements referencing dead or coincident nodes.
	s.Elements = filterElements(s.Elements, func(el Element) bool {
		return el.NodeI != el.NodeJ &&
			s.FindNode(el.NodeI) != nil && s.FindNode(el.NodeJ) != nil
	})

	// Drop supports on dead nodes; keep at most one per node.
	seenSupport := map[string]bool{}
	s.Supports = filterSupports(s.Supports, func(sp Support) bool {
		if s.FindNode(sp.NodeID) == nil || seenSupport[sp.NodeID] {
			return false
		}
		seenSupport[sp.NodeID] = true
		return true
	})

	// Loads must reference a live carrier and a live load case; the id
	// scheme admits one record per (case, carrier) pair.
	seenUDL := map[string]bool{}
	s.UDLs = filterUDLs(s.UDLs, func(u UDL) bool {
		id := udlID(u.LoadCaseID, u.ElementID)
		if s.FindElement(u.ElementID) == nil || s.FindLoadCase(u.LoadCaseID) == nil || seenUDL[id] {
			return false
		}
		seenUDL[id] = true
		return true
	})
	for i := range s.UDLs {
		s.UDLs[i].ID = udlID(s.UDLs[i].LoadCaseID, s.UDLs[i].ElementID)
	}
	seenPL := map[string]bool{}
	s.PointLoads = filterPointLoads(s.PointLoads, func(p PointLoad) bool {
		id := plID(p.LoadCaseID, p.NodeID)
		if s.FindNode(p.NodeID) == nil || s.FindLoadCase(p.LoadCaseID) == nil || seenPL[id] {
			return false
		}
		seenPL[id] = true
		return true
	})
	for i := range s.PointLoads {
		s.PointLoads[i].ID = plID(s.PointLoads[i].LoadCaseID, s.PointLoads[i].NodeID)
	}

	if s.ActiveLoadCaseID == "" || s.FindLoadCase(s.ActiveLoadCaseID) == nil {
		s.ActiveLoadCaseID = s.LoadCases[0].ID
	}
	if s.PendingNodeID != "" && s.FindNode(s.PendingNodeID) == nil {
		s.PendingNodeID = ""
	}
	if s.SelectedID != "" && !s.hasSelectable(s.SelectedID) {
		s.SelectedID = ""
	}

	// Counters: max suffix in use + 1, never below the incoming value.
	nextNode := s.NextNodeID
	if nextNode < 1 {
		nextNode = 1
	}
	for _, n := range s.Nodes {
		if v, ok := numericSuffix(n.ID); ok && v+1 > nextNode {
			nextNode = v + 1
		}
	}
	nextElem := s.NextElementID
	if nextElem < 1 {
		nextElem = 1
	}
	for _, el := range s.Elements {
		if v, ok := numericSuffix(el.ID); ok && v+1 > nextElem {
			nextElem = v + 1
		}
	}
	s.NextNodeID = nextNode
	s.NextElementID = nextElem

	return s
}

// numericSuffix extracts the trailing integer of ids like "node-12".
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
