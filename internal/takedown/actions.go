package takedown

// The closed action set for the takedown model.

type Action interface{ isAction() }

type AddStorey struct {
	Name      string
	Elevation float64
}

type SetStoreyElevation struct {
	ID        string
	Elevation float64
}

type RenameStorey struct {
	ID   string
	Name string
}

// DeleteStorey refuses to remove the last remaining storey.
type DeleteStorey struct {
	ID string
}

type SetActiveStorey struct {
	ID string // empty clears
}

// AddSlab places a slab at the active storey's elevation (first storey
// by creation order when none is active).
type AddSlab struct {
	X, Y         float64 // origin corner
	Width, Depth float64
	Thickness    float64 // zero takes the loads slab thickness
}

// AddColumn places a column based at the active storey's elevation; its
// height reaches the next storey up, or spans a default 3 m when the
// active storey is topmost.
type AddColumn struct {
	X, Y         float64
	SizeX, SizeY float64
}

type MoveElement struct {
	ID   string
	X, Y float64
}

type DeleteElement struct {
	ID string
}

// SelectElement replaces the selection, or extends it when Additive and
// the clicked element's kind matches the current selection's kind.
// Additive clicks of a different kind are silently ignored.
type SelectElement struct {
	ID       string
	Additive bool
}

type ClearSelection struct{}

// The four load setters clamp to ≥0 and recompute the derived UDL in
// the same reduction.
type SetSlabDead struct{ KNPerM2 float64 }
type SetSlabLive struct{ KNPerM2 float64 }
type SetSlabThickness struct{ Metres float64 }
type SetConcreteDensity struct{ KNPerM3 float64 }

type SetGridSize struct{ Metres float64 }

// ReplaceModel rehydrates the model from an imported file.
type ReplaceModel struct {
	State State
}

type Reset struct{}

func (AddStorey) isAction()          {}
func (SetStoreyElevation) isAction() {}
func (RenameStorey) isAction()       {}
func (DeleteStorey) isAction()       {}
func (SetActiveStorey) isAction()    {}
func (AddSlab) isAction()            {}
func (AddColumn) isAction()          {}
func (MoveElement) isAction()        {}
func (DeleteElement) isAction()      {}
func (SelectElement) isAction()      {}
func (ClearSelection) isAction()     {}
func (SetSlabDead) isAction()        {}
func (SetSlabLive) isAction()        {}
func (SetSlabThickness) isAction()   {}
func (SetConcreteDensity) isAction() {}
func (SetGridSize) isAction()        {}
func (ReplaceModel) isAction()       {}
func (Reset) isAction()              {}
