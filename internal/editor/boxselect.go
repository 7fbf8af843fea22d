package editor

import (
	"framecraft.app/internal/geom"
	"framecraft.app/internal/structure"
)

// BoxSelection is the result of a rectangle drag with the select tool:
// every node inside the rectangle, every element whose segment crosses
// it, and every support/load attached to those.
type BoxSelection struct {
	NodeIDs      []string
	ElementIDs   []string
	SupportIDs   []string
	UDLIDs       []string
	PointLoadIDs []string
}

// Empty reports whether the drag caught nothing.
func (b BoxSelection) Empty() bool {
	return len(b.NodeIDs) == 0 && len(b.ElementIDs) == 0
}

// BoxSelect collects the model contents of a model-space rectangle.
func BoxSelect(s structure.State, r geom.Rect) BoxSelection {
	var out BoxSelection
	inNodes := make(map[string]bool)
	for _, n := range s.Nodes {
		if n.X >= r.MinX && n.X <= r.MaxX && n.Y >= r.MinY && n.Y <= r.MaxY {
			out.NodeIDs = append(out.NodeIDs, n.ID)
			inNodes[n.ID] = true
		}
	}

	inElems := make(map[string]bool)
	for _, el := range s.Elements {
		ni := s.FindNode(el.NodeI)
		nj := s.FindNode(el.NodeJ)
		if ni == nil || nj == nil {
			continue
		}
		a := geom.Pt{X: ni.X, Y: ni.Y}
		b := geom.Pt{X: nj.X, Y: nj.Y}
		if geom.SegmentIntersectsRect(a, b, r) {
			out.ElementIDs = append(out.ElementIDs, el.ID)
			inElems[el.ID] = true
		}
	}

	for _, sup := range s.Supports {
		if inNodes[sup.NodeID] {
			out.SupportIDs = append(out.SupportIDs, sup.ID)
		}
	}
	for _, u := range s.UDLs {
		if inElems[u.ElementID] {
			out.UDLIDs = append(out.UDLIDs, u.ID)
		}
	}
	for _, pl := range s.PointLoads {
		if inNodes[pl.NodeID] {
			out.PointLoadIDs = append(out.PointLoadIDs, pl.ID)
		}
	}
	return out
}
