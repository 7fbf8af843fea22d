package takedown

import (
	"encoding/json"
	"fmt"
	"math"
)

// Wire form of the takedown model: the shape both the export file and
// the analysis request use. The export mirrors the full model, load
// inputs included; the analysis request collapses loads to the derived
// slabUDL, which is all the engine reads.

const (
	WireVersion = "0.1"
	WireUnits   = "SI"
)

type SlabInput struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"` // "slab"
	Name      string        `json:"name"`
	Origin    Vec3          `json:"origin"`
	Width     float64       `json:"width"`
	Depth     float64       `json:"depth"`
	Thickness float64       `json:"thickness"`
	Elevation float64       `json:"elevation"`
	Material  MaterialProps `json:"material"`
}

type ColumnInput struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"` // "column"
	Name     string        `json:"name"`
	Base     Vec3          `json:"base"`
	Height   float64       `json:"height"`
	SizeX    float64       `json:"sizeX"`
	SizeY    float64       `json:"sizeY"`
	Material MaterialProps `json:"material"`
}

type WallInput struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"` // "wall"
	Name      string        `json:"name"`
	Origin    Vec3          `json:"origin"`
	Length    float64       `json:"length"`
	Thickness float64       `json:"thickness"`
	Height    float64       `json:"height"`
	RotationZ float64       `json:"rotationZ"`
	Material  MaterialProps `json:"material"`
}

// LoadsInput carries the derived UDL plus the component inputs. The
// components are optional on import (older exports omit them) and are
// stripped from analysis requests.
type LoadsInput struct {
	SlabUDL         float64  `json:"slabUDL"`
	SlabDead        *float64 `json:"slabDead_kN_m2,omitempty"`
	SlabLive        *float64 `json:"slabLive_kN_m2,omitempty"`
	SlabThickness   *float64 `json:"slabThickness_m,omitempty"`
	ConcreteDensity *float64 `json:"concreteDensity_kN_m3,omitempty"`
}

type ModelInput struct {
	Version  string            `json:"version"`
	Units    string            `json:"units"`
	GridSize float64           `json:"gridSize"`
	Storeys  []Storey          `json:"storeys"`
	Elements []json.RawMessage `json:"elements"`
	Loads    LoadsInput        `json:"loads"`
}

// ToModelInput projects the state to the full wire form used by file
// export and autosave: the four load inputs ride along with the derived
// UDL so a save/load cycle preserves them.
func ToModelInput(s State) ModelInput {
	dead, live := s.Loads.SlabDead, s.Loads.SlabLive
	thickness, density := s.Loads.SlabThickness, s.Loads.ConcreteDensity
	m := ModelInput{
		Version:  WireVersion,
		Units:    WireUnits,
		GridSize: s.GridSize,
		Storeys:  append([]Storey{}, s.Storeys...),
		Elements: []json.RawMessage{},
		Loads: LoadsInput{
			SlabUDL:         s.Loads.SlabUDL,
			SlabDead:        &dead,
			SlabLive:        &live,
			SlabThickness:   &thickness,
			ConcreteDensity: &density,
		},
	}
	for _, sl := range s.Slabs {
		b, _ := json.Marshal(SlabInput{
			ID: sl.ID, Type: "slab", Name: sl.Name, Origin: sl.Origin,
			Width: sl.Width, Depth: sl.Depth, Thickness: sl.Thickness,
			Elevation: sl.Elevation, Material: sl.Material,
		})
		m.Elements = append(m.Elements, b)
	}
	for _, c := range s.Columns {
		b, _ := json.Marshal(ColumnInput{
			ID: c.ID, Type: "column", Name: c.Name, Base: c.Base,
			Height: c.Height, SizeX: c.SizeX, SizeY: c.SizeY, Material: c.Material,
		})
		m.Elements = append(m.Elements, b)
	}
	for _, w := range s.Walls {
		b, _ := json.Marshal(WallInput{
			ID: w.ID, Type: "wall", Name: w.Name, Origin: w.Origin,
			Length: w.Length, Thickness: w.Thickness, Height: w.Height,
			RotationZ: w.RotationZ, Material: w.Material,
		})
		m.Elements = append(m.Elements, b)
	}
	return m
}

// ToAnalysisInput projects the state for the analysis request: same
// shape as the export, but loads collapse to the derived slabUDL. The
// component inputs never reach the engine.
func ToAnalysisInput(s State) ModelInput {
	m := ToModelInput(s)
	m.Loads = LoadsInput{SlabUDL: s.Loads.SlabUDL}
	return m
}

// FromModelInput validates the wire document and rebuilds a state.
// Validation is all-or-nothing; load components absent from the file
// are backfilled from the derived UDL (treated as all-dead) so the
// derivation identity holds immediately after import.
func FromModelInput(m ModelInput) (State, error) {
	if m.Version != WireVersion {
		return State{}, fmt.Errorf("unsupported version %q", m.Version)
	}
	if m.Units != WireUnits {
		return State{}, fmt.Errorf("unsupported units %q", m.Units)
	}
	if !(m.GridSize > 0) || math.IsInf(m.GridSize, 0) {
		return State{}, fmt.Errorf("gridSize must be positive and finite")
	}
	if m.Storeys == nil {
		return State{}, fmt.Errorf("storeys must be an array")
	}
	if m.Elements == nil {
		return State{}, fmt.Errorf("elements must be an array")
	}
	if math.IsNaN(m.Loads.SlabUDL) || math.IsInf(m.Loads.SlabUDL, 0) {
		return State{}, fmt.Errorf("loads.slabUDL must be finite")
	}

	s := State{
		GridSize: m.GridSize,
		Storeys:  append([]Storey{}, m.Storeys...),
	}

	for i, raw := range m.Elements {
		var tag struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &tag); err != nil {
			return State{}, fmt.Errorf("element %d: %w", i, err)
		}
		switch tag.Type {
		case "slab":
			var in SlabInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return State{}, fmt.Errorf("element %d: %w", i, err)
			}
			s.Slabs = append(s.Slabs, Slab{
				ID: in.ID, Name: in.Name, Origin: in.Origin,
				Width: in.Width, Depth: in.Depth, Thickness: in.Thickness,
				Elevation: in.Elevation, Material: in.Material,
			})
		case "column":
			var in ColumnInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return State{}, fmt.Errorf("element %d: %w", i, err)
			}
			s.Columns = append(s.Columns, Column{
				ID: in.ID, Name: in.Name, Base: in.Base,
				Height: in.Height, SizeX: in.SizeX, SizeY: in.SizeY,
				Material: in.Material,
			})
		case "wall":
			var in WallInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return State{}, fmt.Errorf("element %d: %w", i, err)
			}
			s.Walls = append(s.Walls, Wall{
				ID: in.ID, Name: in.Name, Origin: in.Origin,
				Length: in.Length, Thickness: in.Thickness, Height: in.Height,
				RotationZ: in.RotationZ, Material: in.Material,
			})
		default:
			return State{}, fmt.Errorf("element %d: unknown type %q", i, tag.Type)
		}
	}

	if m.Loads.SlabDead != nil && m.Loads.SlabLive != nil &&
		m.Loads.SlabThickness != nil && m.Loads.ConcreteDensity != nil {
		s.Loads = Loads{
			SlabDead:        *m.Loads.SlabDead,
			SlabLive:        *m.Loads.SlabLive,
			SlabThickness:   *m.Loads.SlabThickness,
			ConcreteDensity: *m.Loads.ConcreteDensity,
		}
	} else {
		s.Loads = Loads{
			SlabDead:        m.Loads.SlabUDL / 1000,
			ConcreteDensity: 25,
		}
	}

	return Normalize(s), nil
}

// Analysis response types, mirroring the engine contract.

type LevelForce struct {
	Elevation float64 `json:"elevation"`
	NDown     float64 `json:"N_down"`
}

type ColumnReaction struct {
	ID          string       `json:"id"`
	NBase       float64      `json:"N_base"`
	VxBase      float64      `json:"Vx_base"`
	VyBase      float64      `json:"Vy_base"`
	LevelForces []LevelForce `json:"level_forces"`
}

type WallReaction struct {
	ID     string  `json:"id"`
	NBase  float64 `json:"N_base"`
	VxBase float64 `json:"Vx_base"`
	VyBase float64 `json:"Vy_base"`
}

type AnalysisSummary struct {
	TotalVerticalReaction float64 `json:"totalVerticalReaction"`
	TotalAppliedLoad      float64 `json:"totalAppliedLoad"`
}

type AnalysisResult struct {
	Summary  AnalysisSummary  `json:"summary"`
	Columns  []ColumnReaction `json:"columns"`
	Walls    []WallReaction   `json:"walls"`
	Warnings []string         `json:"warnings"`
}
