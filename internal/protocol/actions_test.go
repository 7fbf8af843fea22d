package protocol

import (
	"encoding/json"
	"reflect"
	"testing"

	"framecraft.app/internal/structure"
	"framecraft.app/internal/takedown"
)

func TestStructureActions_EncodeDecode(t *testing.T) {
	cases := []structure.Action{
		structure.AddNode{X: 1.5, Y: -2},
		structure.MoveNode{ID: "node-3", X: 0.5, Y: 0},
		structure.DeleteNode{ID: "node-3"},
		structure.AddElement{NodeI: "node-1", NodeJ: "node-2", Role: structure.RoleBeam, Designation: "UB 305x165x40"},
		structure.DeleteElement{ID: "el-1"},
		structure.SetElementDesignation{ID: "el-1", Designation: "UC 203x203x46"},
		structure.SetElementReleases{ID: "el-1", Start: true},
		structure.SetElementYoungsModulus{ID: "el-1", E: 2.1e11},
		structure.AddSupport{NodeID: "node-1", Type: structure.SupportRoller},
		structure.RemoveSupport{NodeID: "node-1"},
		structure.AddOrReplaceUDL{ElementID: "el-1", Wy: -10000, LoadCaseID: "lc-g"},
		structure.RemoveUDL{ElementID: "el-1", LoadCaseID: "lc-g"},
		structure.AddOrReplacePointLoad{NodeID: "node-2", Fx: 500, Fy: -1200, LoadCaseID: "lc-q"},
		structure.RemovePointLoad{NodeID: "node-2", LoadCaseID: "lc-q"},
		structure.SetActiveLoadCase{ID: "lc-w"},
		structure.SetCombinationFactor{CombinationID: "combo-uls", LoadCaseID: "lc-q", Factor: 1.5},
		structure.SetSteelGrade{Grade: "S275"},
		structure.SelectTool{Tool: structure.ToolBeam},
		structure.Select{ID: "el-1"},
		structure.SetPendingNode{ID: "node-1"},
		structure.DeleteSelected{},
		structure.Reset{Module: structure.ModuleTruss},
	}
	for _, a := range cases {
		kind, raw, err := EncodeStructureAction(a)
		if err != nil {
			t.Fatalf("%T: encode: %v", a, err)
		}
		if k, err := ActionKind(raw); err != nil || k != kind {
			t.Fatalf("%T: kind tag: %q %v", a, k, err)
		}
		got, err := DecodeStructureAction(raw)
		if err != nil {
			t.Fatalf("%T: decode: %v", a, err)
		}
		if !reflect.DeepEqual(got, a) {
			t.Fatalf("round trip: got %#v want %#v", got, a)
		}
	}
}

func TestTakedownActions_EncodeDecode(t *testing.T) {
	cases := []takedown.Action{
		takedown.AddStorey{Name: "First", Elevation: 3},
		takedown.SetStoreyElevation{ID: "storey-2", Elevation: 3.5},
		takedown.RenameStorey{ID: "storey-2", Name: "Mezzanine"},
		takedown.DeleteStorey{ID: "storey-2"},
		takedown.SetActiveStorey{ID: "storey-1"},
		takedown.AddSlab{X: 0, Y: 0, Width: 6, Depth: 4, Thickness: 0.25},
		takedown.AddColumn{X: 1, Y: 1, SizeX: 0.4, SizeY: 0.4},
		takedown.MoveElement{ID: "column-1", X: 2, Y: 2},
		takedown.DeleteElement{ID: "slab-1"},
		takedown.SelectElement{ID: "column-1", Additive: true},
		takedown.ClearSelection{},
		takedown.SetSlabDead{KNPerM2: 2},
		takedown.SetSlabLive{KNPerM2: 3},
		takedown.SetSlabThickness{Metres: 0.2},
		takedown.SetConcreteDensity{KNPerM3: 24},
		takedown.SetGridSize{Metres: 1},
		takedown.Reset{},
	}
	for _, a := range cases {
		kind, raw, err := EncodeTakedownAction(a)
		if err != nil {
			t.Fatalf("%T: encode: %v", a, err)
		}
		if k, err := ActionKind(raw); err != nil || k != kind {
			t.Fatalf("%T: kind tag: %q %v", a, k, err)
		}
		got, err := DecodeTakedownAction(raw)
		if err != nil {
			t.Fatalf("%T: decode: %v", a, err)
		}
		if !reflect.DeepEqual(got, a) {
			t.Fatalf("round trip: got %#v want %#v", got, a)
		}
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	if _, err := DecodeStructureAction(json.RawMessage(`{"kind":"EXPLODE"}`)); err == nil {
		t.Fatalf("unknown structure kind must error")
	}
	if _, err := DecodeTakedownAction(json.RawMessage(`{"kind":"EXPLODE"}`)); err == nil {
		t.Fatalf("unknown takedown kind must error")
	}
	if _, err := ActionKind(json.RawMessage(`{}`)); err == nil {
		t.Fatalf("missing kind must error")
	}
}
