// Package takedown holds the 3D load-takedown model: storeys, slabs,
// columns and walls, plus the slab load inputs whose derived UDL is the
// only load value the external engine ever sees.
package takedown

import "fmt"

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type MaterialProps struct {
	Name string  `json:"name"`
	E    float64 `json:"E"`   // N/m²
	Nu   float64 `json:"nu"`  // Poisson's ratio
	Rho  float64 `json:"rho"` // kg/m³
}

// DefaultConcrete is the material new slabs/columns/walls start with.
func DefaultConcrete() MaterialProps {
	return MaterialProps{Name: "C30/37", E: 33e9, Nu: 0.2, Rho: 2500}
}

type Storey struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Elevation float64 `json:"elevation"` // metres
}

type Slab struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Origin    Vec3          `json:"origin"`
	Width     float64       `json:"width"`
	Depth     float64       `json:"depth"`
	Thickness float64       `json:"thickness"`
	Elevation float64       `json:"elevation"`
	Material  MaterialProps `json:"material"`
}

// Column occupies the elevation range [Base.Z, Base.Z+Height].
type Column struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Base     Vec3          `json:"base"`
	Height   float64       `json:"height"`
	SizeX    float64       `json:"sizeX"`
	SizeY    float64       `json:"sizeY"`
	Material MaterialProps `json:"material"`
}

// Wall is modeled but not yet authorable from the viewport.
type Wall struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Origin    Vec3          `json:"origin"`
	Length    float64       `json:"length"`
	Thickness float64       `json:"thickness"`
	Height    float64       `json:"height"`
	RotationZ float64       `json:"rotationZ"`
	Material  MaterialProps `json:"material"`
}

// Loads holds the slab load inputs. SlabUDL is derived: the reducer
// recomputes it on every write to the four inputs, and it is the value
// sent to the analysis engine (N/m²).
type Loads struct {
	SlabDead        float64 `json:"slabDead_kN_m2"`
	SlabLive        float64 `json:"slabLive_kN_m2"`
	SlabThickness   float64 `json:"slabThickness_m"`
	ConcreteDensity float64 `json:"concreteDensity_kN_m3"`
	SlabUDL         float64 `json:"slabUDL"`
}

func DefaultLoads() Loads {
	l := Loads{
		SlabDead:        1.5,
		SlabLive:        2.5,
		SlabThickness:   0.2,
		ConcreteDensity: 25,
	}
	l.SlabUDL = deriveSlabUDL(l)
	return l
}

// deriveSlabUDL converts the kN/m² inputs to the N/m² wire value.
func deriveSlabUDL(l Loads) float64 {
	return (l.SlabDead + l.SlabLive + l.SlabThickness*l.ConcreteDensity) * 1000
}

// ElementKind tags viewport elements for the homogeneous selection.
type ElementKind string

const (
	KindSlab   ElementKind = "slab"
	KindColumn ElementKind = "column"
	KindWall   ElementKind = "wall"
)

// Selection is the tagged union: empty IDs means nothing selected, and
// a non-empty selection is homogeneous by construction. The reducer
// refuses to mix kinds, so batch property edits never need a type check.
type Selection struct {
	Kind ElementKind `json:"kind,omitempty"`
	IDs  []string    `json:"ids,omitempty"`
}

func (sel Selection) Empty() bool { return len(sel.IDs) == 0 }

func (sel Selection) Has(id string) bool {
	for _, v := range sel.IDs {
		if v == id {
			return true
		}
	}
	return false
}

// State is one immutable snapshot of the takedown model.
type State struct {
	GridSize float64 `json:"gridSize"`

	Storeys []Storey `json:"storeys"`
	Slabs   []Slab   `json:"slabs"`
	Columns []Column `json:"columns"`
	Walls   []Wall   `json:"walls"`

	Loads Loads `json:"loads"`

	ActiveStoreyID string    `json:"activeStoreyId,omitempty"`
	Selection      Selection `json:"selection"`

	NextStoreyID  int `json:"nextStoreyId"`
	NextElementID int `json:"nextElementId"`
}

// NewState starts with a single ground storey; the model never has
// fewer than one.
func NewState() State {
	s := State{
		GridSize:      0.5,
		Loads:         DefaultLoads(),
		NextStoreyID:  1,
		NextElementID: 1,
	}
	s = addStorey(s, "Ground", 0)
	s.ActiveStoreyID = s.Storeys[0].ID
	return s
}

func storeyID(n int) string { return fmt.Sprintf("storey-%d", n) }
func elemID(kind ElementKind, n int) string {
	return fmt.Sprintf("%s-%d", kind, n)
}

func (s *State) FindStorey(id string) *Storey {
	for i := range s.Storeys {
		if s.Storeys[i].ID == id {
			return &s.Storeys[i]
		}
	}
	return nil
}

func (s *State) FindSlab(id string) *Slab {
	for i := range s.Slabs {
		if s.Slabs[i].ID == id {
			return &s.Slabs[i]
		}
	}
	return nil
}

func (s *State) FindColumn(id string) *Column {
	for i := range s.Columns {
		if s.Columns[i].ID == id {
			return &s.Columns[i]
		}
	}
	return nil
}

func (s *State) FindWall(id string) *Wall {
	for i := range s.Walls {
		if s.Walls[i].ID == id {
			return &s.Walls[i]
		}
	}
	return nil
}

// kindOf resolves an element id to its kind, or "" when dead.
func (s *State) kindOf(id string) ElementKind {
	switch {
	case s.FindSlab(id) != nil:
		return KindSlab
	case s.FindColumn(id) != nil:
		return KindColumn
	case s.FindWall(id) != nil:
		return KindWall
	default:
		return ""
	}
}

// Clone deep-copies the snapshot.
func (s State) Clone() State {
	out := s
	out.Storeys = append([]Storey(nil), s.Storeys...)
	out.Slabs = append([]Slab(nil), s.Slabs...)
	out.Columns = append([]Column(nil), s.Columns...)
	out.Walls = append([]Wall(nil), s.Walls...)
	out.Selection.IDs = append([]string(nil), s.Selection.IDs...)
	return out
}
