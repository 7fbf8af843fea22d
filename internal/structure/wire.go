package structure

// Projection to the analysis service contract. The external engine keys
// everything by name, never by internal id; this file is the only place
// that translation happens.

type NodeInput struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type SupportInput struct {
	NodeName string `json:"node_name"`
	Type     string `json:"type"`
}

type ElementInput struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	NodeI       string `json:"node_i"`
	NodeJ       string `json:"node_j"`
	Designation string `json:"designation"`
	Release     string `json:"release"` // none | start | end | both
}

type UDLInput struct {
	ElementName string  `json:"element_name"`
	Wx          float64 `json:"wx"`
	Wy          float64 `json:"wy"`
}

type PointLoadInput struct {
	NodeName string  `json:"node_name"`
	Fx       float64 `json:"fx"`
	Fy       float64 `json:"fy"`
	Mz       float64 `json:"mz"`
}

type LoadCaseInput struct {
	Name       string           `json:"name"`
	Category   string           `json:"category"`
	UDLs       []UDLInput       `json:"udls"`
	PointLoads []PointLoadInput `json:"point_loads"`
}

type CombinationInput struct {
	Name            string             `json:"name"`
	CombinationType string             `json:"combination_type"`
	Factors         map[string]float64 `json:"factors"` // case name -> factor
}

type StructureInput struct {
	Name         string             `json:"name"`
	SteelGrade   string             `json:"steel_grade"`
	Nodes        []NodeInput        `json:"nodes"`
	Supports     []SupportInput     `json:"supports"`
	Elements     []ElementInput     `json:"elements"`
	LoadCases    []LoadCaseInput    `json:"load_cases"`
	Combinations []CombinationInput `json:"combinations"`
}

// releaseEnum folds the two boolean flags into the wire enum. Truss
// members carry no release concept and always report "none".
func releaseEnum(el Element) string {
	if el.Role == RoleTrussMember {
		return "none"
	}
	switch {
	case el.ReleaseStart && el.ReleaseEnd:
		return "both"
	case el.ReleaseStart:
		return "start"
	case el.ReleaseEnd:
		return "end"
	default:
		return "none"
	}
}

// ToStructureInput projects the model to the solver request: loads are
// grouped per load case, and combination factor maps are re-keyed from
// load-case ids to load-case names.
func ToStructureInput(s State, name string) StructureInput {
	if name == "" {
		name = "Structure"
	}
	out := StructureInput{
		Name:       name,
		SteelGrade: s.SteelGrade,
	}

	nodeNames := make(map[string]string, len(s.Nodes))
	for _, n := range s.Nodes {
		nodeNames[n.ID] = n.Name
		out.Nodes = append(out.Nodes, NodeInput{Name: n.Name, X: n.X, Y: n.Y})
	}
	for _, sp := range s.Supports {
		nm, ok := nodeNames[sp.NodeID]
		if !ok {
			continue
		}
		out.Supports = append(out.Supports, SupportInput{NodeName: nm, Type: string(sp.Type)})
	}
	elemNames := make(map[string]string, len(s.Elements))
	for _, el := range s.Elements {
		elemNames[el.ID] = el.Name
		out.Elements = append(out.Elements, ElementInput{
			Name:        el.Name,
			Role:        string(el.Role),
			NodeI:       nodeNames[el.NodeI],
			NodeJ:       nodeNames[el.NodeJ],
			Designation: el.Designation,
			Release:     releaseEnum(el),
		})
	}

	caseNames := make(map[string]string, len(s.LoadCases))
	for _, lc := range s.LoadCases {
		caseNames[lc.ID] = lc.Name
		ci := LoadCaseInput{
			Name:       lc.Name,
			Category:   string(lc.Category),
			UDLs:       []UDLInput{},
			PointLoads: []PointLoadInput{},
		}
		for _, u := range s.UDLs {
			if u.LoadCaseID != lc.ID {
				continue
			}
			nm, ok := elemNames[u.ElementID]
			if !ok {
				continue
			}
			ci.UDLs = append(ci.UDLs, UDLInput{ElementName: nm, Wx: u.Wx, Wy: u.Wy})
		}
		for _, p := range s.PointLoads {
			if p.LoadCaseID != lc.ID {
				continue
			}
			nm, ok := nodeNames[p.NodeID]
			if !ok {
				continue
			}
			ci.PointLoads = append(ci.PointLoads, PointLoadInput{NodeName: nm, Fx: p.Fx, Fy: p.Fy, Mz: p.Mz})
		}
		out.LoadCases = append(out.LoadCases, ci)
	}

	for _, c := range s.Combos {
		factors := make(map[string]float64, len(c.Factors))
		for caseID, f := range c.Factors {
			nm, ok := caseNames[caseID]
			if !ok {
				continue
			}
			factors[nm] = f
		}
		out.Combinations = append(out.Combinations, CombinationInput{
			Name:            c.Name,
			CombinationType: string(c.Type),
			Factors:         factors,
		})
	}
	return out
}
