package takedown

import (
	"encoding/json"
	"math"
	"testing"
)

func TestModelInput_RoundTrip(t *testing.T) {
	s := NewState()
	s = Reduce(s, AddStorey{Name: "First", Elevation: 3})
	s = Reduce(s, AddSlab{X: 0, Y: 0, Width: 6, Depth: 4})
	s = Reduce(s, AddColumn{X: 0, Y: 0})
	s = Reduce(s, SetSlabLive{KNPerM2: 4})
	s = Reduce(s, SetSlabThickness{Metres: 0.25})
	s = Reduce(s, SetConcreteDensity{KNPerM3: 24})

	m := ToModelInput(s)
	if m.Version != "0.1" || m.Units != "SI" {
		t.Fatalf("header: %+v", m)
	}
	if len(m.Elements) != 2 {
		t.Fatalf("got %d elements want 2", len(m.Elements))
	}
	// The export mirrors the model: components ride along with the UDL.
	if m.Loads.SlabDead == nil || m.Loads.SlabLive == nil ||
		m.Loads.SlabThickness == nil || m.Loads.ConcreteDensity == nil {
		t.Fatalf("load components missing from export: %+v", m.Loads)
	}
	if m.Loads.SlabUDL != s.Loads.SlabUDL {
		t.Fatalf("slabUDL: got %v want %v", m.Loads.SlabUDL, s.Loads.SlabUDL)
	}

	// Through JSON and back.
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m2 ModelInput
	if err := json.Unmarshal(b, &m2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, err := FromModelInput(m2)
	if err != nil {
		t.Fatalf("FromModelInput: %v", err)
	}
	if len(got.Slabs) != 1 || len(got.Columns) != 1 || len(got.Storeys) != 2 {
		t.Fatalf("shape lost in round trip: %+v", got)
	}
	if got.Slabs[0].ID != s.Slabs[0].ID || got.Columns[0].Height != s.Columns[0].Height {
		t.Fatalf("element fields lost")
	}
	if got.Loads != s.Loads {
		t.Fatalf("load inputs lost in save/load cycle: got %+v want %+v", got.Loads, s.Loads)
	}
}

func TestToAnalysisInput_CollapsesLoads(t *testing.T) {
	s := NewState()
	s = Reduce(s, SetSlabLive{KNPerM2: 4})
	s = Reduce(s, SetSlabThickness{Metres: 0.25})

	m := ToAnalysisInput(s)
	if m.Loads.SlabDead != nil || m.Loads.SlabLive != nil ||
		m.Loads.SlabThickness != nil || m.Loads.ConcreteDensity != nil {
		t.Fatalf("components must not reach the engine: %+v", m.Loads)
	}
	if m.Loads.SlabUDL != s.Loads.SlabUDL {
		t.Fatalf("slabUDL: got %v want %v", m.Loads.SlabUDL, s.Loads.SlabUDL)
	}
}

func TestFromModelInput_Validation(t *testing.T) {
	ok := ToModelInput(NewState())

	bad := ok
	bad.Version = "0.2"
	if _, err := FromModelInput(bad); err == nil {
		t.Fatalf("wrong version must be rejected")
	}

	bad = ok
	bad.Units = "imperial"
	if _, err := FromModelInput(bad); err == nil {
		t.Fatalf("wrong units must be rejected")
	}

	bad = ok
	bad.GridSize = 0
	if _, err := FromModelInput(bad); err == nil {
		t.Fatalf("non-positive gridSize must be rejected")
	}

	bad = ok
	bad.Storeys = nil
	if _, err := FromModelInput(bad); err == nil {
		t.Fatalf("missing storeys array must be rejected")
	}

	bad = ok
	bad.Loads.SlabUDL = math.Inf(1)
	if _, err := FromModelInput(bad); err == nil {
		t.Fatalf("non-finite slabUDL must be rejected")
	}

	bad = ok
	bad.Elements = []json.RawMessage{json.RawMessage(`{"type":"dome"}`)}
	if _, err := FromModelInput(bad); err == nil {
		t.Fatalf("unknown element type must be rejected")
	}
}

func TestFromModelInput_BackfillsLoadComponents(t *testing.T) {
	m := ToModelInput(NewState())
	m.Loads = LoadsInput{SlabUDL: 9000}
	s, err := FromModelInput(m)
	if err != nil {
		t.Fatalf("FromModelInput: %v", err)
	}
	// Dead-only backfill keeps the derivation identity.
	if s.Loads.SlabDead != 9 || s.Loads.SlabLive != 0 {
		t.Fatalf("backfill: %+v", s.Loads)
	}
	if math.Abs(s.Loads.SlabUDL-9000) > 1e-9 {
		t.Fatalf("derived UDL after backfill: %v", s.Loads.SlabUDL)
	}
}

func TestNormalize_GuaranteesOneStorey(t *testing.T) {
	s := Normalize(State{GridSize: 1})
	if len(s.Storeys) != 1 {
		t.Fatalf("normalize must create a ground storey")
	}
	if s.NextStoreyID != 2 {
		t.Fatalf("storey counter: got %d want 2", s.NextStoreyID)
	}
}
