package structure

// The closed action set. Every mutation of the 2D model goes through
// one of these; reduce.go is the only writer.

type Action interface{ isAction() }

type AddNode struct {
	X, Y float64
}

type MoveNode struct {
	ID   string
	X, Y float64
}

type DeleteNode struct {
	ID string
}

// AddElement connects two existing nodes. Any other node lying exactly
// on the segment splits the new member into a chain (see reduce.go).
type AddElement struct {
	NodeI, NodeJ string
	Role         Role
	Designation  string
}

type DeleteElement struct {
	ID string
}

type SetElementDesignation struct {
	ID          string
	Designation string
}

type SetElementReleases struct {
	ID         string
	Start, End bool
}

type SetElementYoungsModulus struct {
	ID string
	E  float64
}

// AddSupport is idempotent by node: a second support on the same node
// overwrites the type instead of duplicating.
type AddSupport struct {
	NodeID string
	Type   SupportType
}

type RemoveSupport struct {
	NodeID string
}

// AddOrReplaceUDL upserts the distributed load for (load case, element).
// The id scheme UDL-{case}-{element} admits at most one record per pair;
// the reducer enforces it so callers need no check-then-add dance.
type AddOrReplaceUDL struct {
	ElementID  string
	Wx, Wy     float64
	LoadCaseID string
}

type RemoveUDL struct {
	ElementID  string
	LoadCaseID string
}

// AddOrReplacePointLoad upserts the point load for (load case, node).
type AddOrReplacePointLoad struct {
	NodeID     string
	Fx, Fy, Mz float64
	LoadCaseID string
}

type RemovePointLoad struct {
	NodeID     string
	LoadCaseID string
}

type SetActiveLoadCase struct {
	ID string
}

type SetCombinationFactor struct {
	CombinationID string
	LoadCaseID    string
	Factor        float64
}

type SetSteelGrade struct {
	Grade string
}

type SelectTool struct {
	Tool Tool
}

type Select struct {
	ID string // empty clears the selection
}

type SetPendingNode struct {
	ID string // empty clears the two-click cursor
}

// DeleteSelected erases whatever SelectedID points at, cascading like
// the targeted deletes.
type DeleteSelected struct{}

// ReplaceState rehydrates the whole model, e.g. from a loaded file.
// The incoming state is normalized before it is installed.
type ReplaceState struct {
	State State
}

// Reset tears the model down to an empty state for the given module.
type Reset struct {
	Module string
}

func (AddNode) isAction()                 {}
func (MoveNode) isAction()                {}
func (DeleteNode) isAction()              {}
func (AddElement) isAction()              {}
func (DeleteElement) isAction()           {}
func (SetElementDesignation) isAction()   {}
func (SetElementReleases) isAction()      {}
func (SetElementYoungsModulus) isAction() {}
func (AddSupport) isAction()              {}
func (RemoveSupport) isAction()           {}
func (AddOrReplaceUDL) isAction()         {}
func (RemoveUDL) isAction()               {}
func (AddOrReplacePointLoad) isAction()   {}
func (RemovePointLoad) isAction()         {}
func (SetActiveLoadCase) isAction()       {}
func (SetCombinationFactor) isAction()    {}
func (SetSteelGrade) isAction()           {}
func (SelectTool) isAction()              {}
func (Select) isAction()                  {}
func (SetPendingNode) isAction()          {}
func (DeleteSelected) isAction()          {}
func (ReplaceState) isAction()            {}
func (Reset) isAction()                   {}
