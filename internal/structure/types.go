// Package structure holds the 2D frame/truss model: a single state
// snapshot mutated only through the closed action set in reduce.go.
package structure

import "fmt"

type Role string

const (
	RoleBeam        Role = "beam"
	RoleColumn      Role = "column"
	RoleTrussMember Role = "truss_member"
)

type SupportType string

const (
	SupportFixed  SupportType = "fixed"
	SupportPinned SupportType = "pinned"
	SupportRoller SupportType = "roller"
)

type Category string

const (
	CategoryPermanent Category = "G"
	CategoryImposed   Category = "Q"
	CategoryWind      Category = "W"
	CategorySnow      Category = "S"
)

type CombinationType string

const (
	CombinationULS CombinationType = "ULS"
	CombinationSLS CombinationType = "SLS"
)

// Tool is the active editor tool; the interaction controller reads it to
// classify pointer events.
type Tool string

const (
	ToolSelect  Tool = "select"
	ToolPan     Tool = "pan"
	ToolErase   Tool = "erase"
	ToolNode    Tool = "node"
	ToolBeam    Tool = "beam"
	ToolColumn  Tool = "column"
	ToolTruss   Tool = "truss"
	ToolSupport Tool = "support"
	ToolLoad    Tool = "load"
)

type Node struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"` // metres
	Y    float64 `json:"y"` // metres
}

type Element struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Role          Role    `json:"role"`
	NodeI         string  `json:"nodeI"`
	NodeJ         string  `json:"nodeJ"`
	Designation   string  `json:"designation"`
	YoungsModulus float64 `json:"youngsModulus,omitempty"` // N/m², zero means grade default
	ReleaseStart  bool    `json:"releaseStart,omitempty"`
	ReleaseEnd    bool    `json:"releaseEnd,omitempty"`
}

type Support struct {
	ID     string      `json:"id"`
	NodeID string      `json:"nodeId"`
	Type   SupportType `json:"type"`
}

// UDL is a distributed load on one element under one load case (N/m).
type UDL struct {
	ID         string  `json:"id"`
	ElementID  string  `json:"elementId"`
	Wx         float64 `json:"wx"`
	Wy         float64 `json:"wy"`
	LoadCaseID string  `json:"loadCaseId"`
}

// PointLoad is a concentrated load on one node under one load case (N, N·m).
type PointLoad struct {
	ID         string  `json:"id"`
	NodeID     string  `json:"nodeId"`
	Fx         float64 `json:"fx"`
	Fy         float64 `json:"fy"`
	Mz         float64 `json:"mz"`
	LoadCaseID string  `json:"loadCaseId"`
}

type LoadCase struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Color    string   `json:"color"`
}

type Combination struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Type    CombinationType    `json:"combinationType"`
	Factors map[string]float64 `json:"factors"` // loadCaseId -> scalar
}

// State is one immutable model snapshot. Reducers copy before writing;
// holders of a State never see it change underneath them.
type State struct {
	Module string `json:"module"` // "frame" | "truss"

	Nodes      []Node        `json:"nodes"`
	Elements   []Element     `json:"elements"`
	Supports   []Support     `json:"supports"`
	UDLs       []UDL         `json:"udls"`
	PointLoads []PointLoad   `json:"pointLoads"`
	LoadCases  []LoadCase    `json:"loadCases"`
	Combos     []Combination `json:"combinations"`

	SteelGrade       string `json:"steelGrade"`
	SelectedTool     Tool   `json:"selectedTool"`
	SelectedID       string `json:"selectedId,omitempty"`
	PendingNodeID    string `json:"pendingNodeId,omitempty"`
	ActiveLoadCaseID string `json:"activeLoadCaseId"`

	NextNodeID    int `json:"nextNodeId"`
	NextElementID int `json:"nextElementId"`
}

const (
	ModuleFrame = "frame"
	ModuleTruss = "truss"
)

// DefaultLoadCases is the fixed starter set; ids are stable so saved
// files keep referencing them.
func DefaultLoadCases() []LoadCase {
	return []LoadCase{
		{ID: "lc-g", Name: "Permanent (G)", Category: CategoryPermanent, Color: "#4ade80"},
		{ID: "lc-q", Name: "Imposed (Q)", Category: CategoryImposed, Color: "#60a5fa"},
		{ID: "lc-w", Name: "Wind (W)", Category: CategoryWind, Color: "#f472b6"},
		{ID: "lc-s", Name: "Snow (S)", Category: CategorySnow, Color: "#fbbf24"},
	}
}

// DefaultCombinations gives the EC0 6.10b-style starter combinations.
func DefaultCombinations() []Combination {
	return []Combination{
		{
			ID:   "combo-uls",
			Name: "ULS 6.10b (Q leading)",
			Type: CombinationULS,
			Factors: map[string]float64{
				"lc-g": 1.35,
				"lc-q": 1.5,
			},
		},
		{
			ID:   "combo-sls",
			Name: "SLS Characteristic",
			Type: CombinationSLS,
			Factors: map[string]float64{
				"lc-g": 1.0,
				"lc-q": 1.0,
			},
		},
	}
}

// NewState returns an empty model for the given module.
func NewState(module string) State {
	if module != ModuleTruss {
		module = ModuleFrame
	}
	return State{
		Module:           module,
		SteelGrade:       "S355",
		SelectedTool:     ToolSelect,
		LoadCases:        DefaultLoadCases(),
		Combos:           DefaultCombinations(),
		ActiveLoadCaseID: "lc-g",
		NextNodeID:       1,
		NextElementID:    1,
	}
}

func nodeID(n int) string { return fmt.Sprintf("node-%d", n) }

func nodeName(n int) string { return fmt.Sprintf("N%d", n) }

func elemID(n int) string { return fmt.Sprintf("el-%d", n) }

func elemName(n int) string { return fmt.Sprintf("E%d", n) }

func udlID(caseID, elementID string) string { return "UDL-" + caseID + "-" + elementID }

func plID(caseID, nodeID string) string { return "PL-" + caseID + "-" + nodeID }

func (s *State) FindNode(id string) *Node {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

func (s *State) FindElement(id string) *Element {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return &s.Elements[i]
		}
	}
	return nil
}

func (s *State) FindLoadCase(id string) *LoadCase {
	for i := range s.LoadCases {
		if s.LoadCases[i].ID == id {
			return &s.LoadCases[i]
		}
	}
	return nil
}

func (s *State) FindSupport(nodeID string) *Support {
	for i := range s.Supports {
		if s.Supports[i].NodeID == nodeID {
			return &s.Supports[i]
		}
	}
	return nil
}

// hasSelectable reports whether id refers to any live entity.
func (s *State) hasSelectable(id string) bool {
	if s.FindNode(id) != nil || s.FindElement(id) != nil {
		return true
	}
	for i := range s.Supports {
		if s.Supports[i].ID == id {
			return true
		}
	}
	for i := range s.UDLs {
		if s.UDLs[i].ID == id {
			return true
		}
	}
	for i := range s.PointLoads {
		if s.PointLoads[i].ID == id {
			return true
		}
	}
	return false
}

// Clone deep-copies the snapshot.
func (s State) Clone() State {
	out := s
	out.Nodes = append([]Node(nil), s.Nodes...)
	out.Elements = append([]Element(nil), s.Elements...)
	out.Supports = append([]Support(nil), s.Supports...)
	out.UDLs = append([]UDL(nil), s.UDLs...)
	out.PointLoads = append([]PointLoad(nil), s.PointLoads...)
	out.LoadCases = append([]LoadCase(nil), s.LoadCases...)
	out.Combos = make([]Combination, len(s.Combos))
	for i, c := range s.Combos {
		cc := c
		cc.Factors = make(map[string]float64, len(c.Factors))
		for k, v := range c.Factors {
			cc.Factors[k] = v
		}
		out.Combos[i] = cc
	}
	return out
}
