package structure

import (
	"math"
	"sort"
)

const (
	// Nodes closer than this (squared) coincide; elements between them
	// would be zero-length.
	coincideEpsSq = 1e-12
	// Collinearity and parametric-position tolerance for chain splitting.
	collinearEps = 1e-9
)

// Reduce applies one action to a snapshot and returns the next snapshot.
// Referential misses (actions naming a dead id) return the input
// unchanged: in a live editor a stale click must never take the model
// down. Invalid states are unrepresentable on the way out.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case AddNode:
		next := s.Clone()
		n := Node{
			ID:   nodeID(next.NextNodeID),
			Name: nodeName(next.NextNodeID),
			X:    act.X,
			Y:    act.Y,
		}
		next.NextNodeID++
		next.Nodes = append(next.Nodes, n)
		return next

	case MoveNode:
		if s.FindNode(act.ID) == nil {
			return s
		}
		next := s.Clone()
		n := next.FindNode(act.ID)
		n.X = act.X
		n.Y = act.Y
		return next

	case DeleteNode:
		if s.FindNode(act.ID) == nil {
			return s
		}
		return deleteNode(s.Clone(), act.ID)

	case AddElement:
		return addElement(s, act)

	case DeleteElement:
		if s.FindElement(act.ID) == nil {
			return s
		}
		return deleteElement(s.Clone(), act.ID)

	case SetElementDesignation:
		if s.FindElement(act.ID) == nil {
			return s
		}
		next := s.Clone()
		next.FindElement(act.ID).Designation = act.Designation
		return next

	case SetElementReleases:
		el := s.FindElement(act.ID)
		if el == nil || el.Role == RoleTrussMember {
			// Truss members carry no release concept.
			return s
		}
		next := s.Clone()
		e := next.FindElement(act.ID)
		e.ReleaseStart = act.Start
		e.ReleaseEnd = act.End
		return next

	case SetElementYoungsModulus:
		if s.FindElement(act.ID) == nil || act.E < 0 {
			return s
		}
		next := s.Clone()
		next.FindElement(act.ID).YoungsModulus = act.E
		return next

	case AddSupport:
		if s.FindNode(act.NodeID) == nil || !validSupportType(act.Type) {
			return s
		}
		next := s.Clone()
		if sup := next.FindSupport(act.NodeID); sup != nil {
			sup.Type = act.Type
			return next
		}
		next.Supports = append(next.Supports, Support{
			ID:     "sup-" + act.NodeID,
			NodeID: act.NodeID,
			Type:   act.Type,
		})
		return next

	case RemoveSupport:
		if s.FindSupport(act.NodeID) == nil {
			return s
		}
		next := s.Clone()
		next.Supports = filterSupports(next.Supports, func(sp Support) bool {
			return sp.NodeID != act.NodeID
		})
		return next

	case AddOrReplaceUDL:
		if s.FindElement(act.ElementID) == nil || s.FindLoadCase(act.LoadCaseID) == nil {
			return s
		}
		next := s.Clone()
		id := udlID(act.LoadCaseID, act.ElementID)
		for i := range next.UDLs {
			if next.UDLs[i].ID == id {
				next.UDLs[i].Wx = act.Wx
				next.UDLs[i].Wy = act.Wy
				return next
			}
		}
		next.UDLs = append(next.UDLs, UDL{
			ID:         id,
			ElementID:  act.ElementID,
			Wx:         act.Wx,
			Wy:         act.Wy,
			LoadCaseID: act.LoadCaseID,
		})
		return next

	case RemoveUDL:
		id := udlID(act.LoadCaseID, act.ElementID)
		if !hasUDL(s.UDLs, id) {
			return s
		}
		next := s.Clone()
		next.UDLs = filterUDLs(next.UDLs, func(u UDL) bool { return u.ID != id })
		if next.SelectedID == id {
			next.SelectedID = ""
		}
		return next

	case AddOrReplacePointLoad:
		if s.FindNode(act.NodeID) == nil || s.FindLoadCase(act.LoadCaseID) == nil {
			return s
		}
		next := s.Clone()
		id := plID(act.LoadCaseID, act.NodeID)
		for i := range next.PointLoads {
			if next.PointLoads[i].ID == id {
				next.PointLoads[i].Fx = act.Fx
				next.PointLoads[i].Fy = act.Fy
				next.PointLoads[i].Mz = act.Mz
				return next
			}
		}
		next.PointLoads = append(next.PointLoads, PointLoad{
			ID:         id,
			NodeID:     act.NodeID,
			Fx:         act.Fx,
			Fy:         act.Fy,
			Mz:         act.Mz,
			LoadCaseID: act.LoadCaseID,
		})
		return next

	case RemovePointLoad:
		id := plID(act.LoadCaseID, act.NodeID)
		found := false
		for i := range s.PointLoads {
			if s.PointLoads[i].ID == id {
				found = true
				break
			}
		}
		if !found {
			return s
		}
		next := s.Clone()
		next.PointLoads = filterPointLoads(next.PointLoads, func(p PointLoad) bool { return p.ID != id })
		if next.SelectedID == id {
			next.SelectedID = ""
		}
		return next

	case SetActiveLoadCase:
		if s.FindLoadCase(act.ID) == nil {
			return s
		}
		next := s.Clone()
		next.ActiveLoadCaseID = act.ID
		return next

	case SetCombinationFactor:
		if s.FindLoadCase(act.LoadCaseID) == nil {
			return s
		}
		next := s.Clone()
		for i := range next.Combos {
			if next.Combos[i].ID == act.CombinationID {
				next.Combos[i].Factors[act.LoadCaseID] = act.Factor
				return next
			}
		}
		return s

	case SetSteelGrade:
		if act.Grade == "" {
			return s
		}
		next := s.Clone()
		next.SteelGrade = act.Grade
		return next

	case SelectTool:
		next := s.Clone()
		next.SelectedTool = act.Tool
		// Switching tools abandons an in-flight two-click gesture.
		next.PendingNodeID = ""
		return next

	case Select:
		if act.ID != "" && !s.hasSelectable(act.ID) {
			return s
		}
		next := s.Clone()
		next.SelectedID = act.ID
		return next

	case SetPendingNode:
		if act.ID != "" && s.FindNode(act.ID) == nil {
			return s
		}
		next := s.Clone()
		next.PendingNodeID = act.ID
		return next

	case DeleteSelected:
		id := s.SelectedID
		if id == "" {
			return s
		}
		next := s.Clone()
		next.SelectedID = ""
		switch {
		case next.FindNode(id) != nil:
			return deleteNode(next, id)
		case next.FindElement(id) != nil:
			return deleteElement(next, id)
		default:
			next.Supports = filterSupports(next.Supports, func(sp Support) bool { return sp.ID != id })
			next.UDLs = filterUDLs(next.UDLs, func(u UDL) bool { return u.ID != id })
			next.PointLoads = filterPointLoads(next.PointLoads, func(p PointLoad) bool { return p.ID != id })
			return next
		}

	case ReplaceState:
		return Normalize(act.State)

	case Reset:
		return NewState(act.Module)

	default:
		return s
	}
}

func validSupportType(t SupportType) bool {
	return t == SupportFixed || t == SupportPinned || t == SupportRoller
}

// deleteNode cascades: elements touching the node (and their UDLs),
// supports on it, point loads on it, and any dangling selection cursor.
func deleteNode(next State, id string) State {
	doomed := map[string]bool{}
	for _, el := range next.Elements {
		if el.NodeI == id || el.NodeJ == id {
			doomed[el.ID] = true
		}
	}
	next.Elements = filterElements(next.Elements, func(el Element) bool { return !doomed[el.ID] })
	next.UDLs = filterUDLs(next.UDLs, func(u UDL) bool { return !doomed[u.ElementID] })
	next.Supports = filterSupports(next.Supports, func(sp Support) bool { return sp.NodeID != id })
	next.PointLoads = filterPointLoads(next.PointLoads, func(p PointLoad) bool { return p.NodeID != id })
	next.Nodes = filterNodes(next.Nodes, func(n Node) bool { return n.ID != id })
	if next.PendingNodeID == id {
		next.PendingNodeID = ""
	}
	if next.SelectedID != "" && !next.hasSelectable(next.SelectedID) {
		next.SelectedID = ""
	}
	return next
}

func deleteElement(next State, id string) State {
	next.Elements = filterElements(next.Elements, func(el Element) bool { return el.ID != id })
	next.UDLs = filterUDLs(next.UDLs, func(u UDL) bool { return u.ElementID != id })
	if next.SelectedID != "" && !next.hasSelectable(next.SelectedID) {
		next.SelectedID = ""
	}
	return next
}

// addElement creates the member between NodeI and NodeJ, splitting at
// every other node that lies exactly on the segment so two clicks over
// an occupied span snap to the finer subdivision instead of producing an
// overlapping member. Whatever happens, the pending two-click cursor is
// cleared so the gesture always resolves.
func addElement(s State, act AddElement) State {
	next := s.Clone()
	next.PendingNodeID = ""

	ni := next.FindNode(act.NodeI)
	nj := next.FindNode(act.NodeJ)
	if ni == nil || nj == nil {
		return next
	}
	dx := nj.X - ni.X
	dy := nj.Y - ni.Y
	if dx*dx+dy*dy < coincideEpsSq {
		return next
	}
	if !validRole(act.Role, next.Module) {
		return next
	}

	// Intermediate stops: nodes exactly on the open segment.
	type stop struct {
		id string
		t  float64
	}
	lenSq := dx*dx + dy*dy
	var stops []stop
	for _, n := range next.Nodes {
		if n.ID == ni.ID || n.ID == nj.ID {
			continue
		}
		cross := dx*(n.Y-ni.Y) - dy*(n.X-ni.X)
		if math.Abs(cross)/math.Sqrt(lenSq) > collinearEps {
			continue
		}
		t := (dx*(n.X-ni.X) + dy*(n.Y-ni.Y)) / lenSq
		if t <= collinearEps || t >= 1-collinearEps {
			continue
		}
		stops = append(stops, stop{id: n.ID, t: t})
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].t < stops[j].t })

	chain := make([]string, 0, len(stops)+2)
	chain = append(chain, ni.ID)
	for _, st := range stops {
		chain = append(chain, st.id)
	}
	chain = append(chain, nj.ID)

	for k := 0; k+1 < len(chain); k++ {
		a, b := chain[k], chain[k+1]
		if hasElementBetween(next.Elements, a, b, act.Role) {
			continue
		}
		el := Element{
			ID:          elemID(next.NextElementID),
			Name:        elemName(next.NextElementID),
			Role:        act.Role,
			NodeI:       a,
			NodeJ:       b,
			Designation: act.Designation,
		}
		next.NextElementID++
		next.Elements = append(next.Elements, el)
	}
	return next
}

func validRole(r Role, module string) bool {
	switch r {
	case RoleBeam, RoleColumn:
		return module == ModuleFrame
	case RoleTrussMember:
		return module == ModuleTruss
	default:
		return false
	}
}

// hasElementBetween checks both endpoint orders so A-B and B-A count as
// the same member.
func hasElementBetween(els []Element, a, b string, role Role) bool {
	for _, el := range els {
		if el.Role != role {
			continue
		}
		if (el.NodeI == a && el.NodeJ == b) || (el.NodeI == b && el.NodeJ == a) {
			return true
		}
	}
	return false
}

func hasUDL(udls []UDL, id string) bool {
	for _, u := range udls {
		if u.ID == id {
			return true
		}
	}
	return false
}

func filterNodes(in []Node, keep func(Node) bool) []Node {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterElements(in []Element, keep func(Element) bool) []Element {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterSupports(in []Support, keep func(Support) bool) []Support {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterUDLs(in []UDL, keep func(UDL) bool) []UDL {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterPointLoads(in []PointLoad, keep func(PointLoad) bool) []PointLoad {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
