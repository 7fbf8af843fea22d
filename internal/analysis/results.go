package analysis

// Solver response contract for the 2D solution. Everything is keyed by
// node/element name, matching the name-keyed request.

type NodeDisplacement struct {
	Node string  `json:"node"`
	DX   float64 `json:"dx"` // m
	DY   float64 `json:"dy"` // m
	RZ   float64 `json:"rz"` // rad
}

type Reaction struct {
	Node string  `json:"node"`
	Fx   float64 `json:"fx"` // N
	Fy   float64 `json:"fy"` // N
	Mz   float64 `json:"mz"` // N·m
}

// MemberForces are the end forces in member-local axes.
type MemberForces struct {
	Element string  `json:"element"`
	NStart  float64 `json:"n_start"`
	NEnd    float64 `json:"n_end"`
	VStart  float64 `json:"v_start"`
	VEnd    float64 `json:"v_end"`
	MStart  float64 `json:"m_start"`
	MEnd    float64 `json:"m_end"`
}

// CaseResult is the solution for one load case or combination.
type CaseResult struct {
	Name          string             `json:"name"`
	Displacements []NodeDisplacement `json:"displacements"`
	Reactions     []Reaction         `json:"reactions"`
	MemberForces  []MemberForces     `json:"memberForces"`
	MaxDeflection float64            `json:"maxDeflection"`
}

type StructureResult struct {
	Cases        []CaseResult `json:"cases"`
	Combinations []CaseResult `json:"combinations"`
	Warnings     []string     `json:"warnings,omitempty"`
}

// ElementDiagram samples one member's internal forces along its length.
type ElementDiagram struct {
	Element   string    `json:"element"`
	Positions []float64 `json:"positions"` // m from start node
	Moment    []float64 `json:"moment"`    // N·m
	Shear     []float64 `json:"shear"`     // N
	Axial     []float64 `json:"axial"`     // N
}

type DiagramResult struct {
	Combination string           `json:"combination"`
	Elements    []ElementDiagram `json:"elements"`
}
