package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"framecraft.app/internal/structure"
	"framecraft.app/internal/takedown"
)

func demoInput(t *testing.T) structure.StructureInput {
	t.Helper()
	s := structure.NewState(structure.ModuleFrame)
	s = structure.Reduce(s, structure.AddNode{X: 0, Y: 0})
	s = structure.Reduce(s, structure.AddNode{X: 6, Y: 0})
	s = structure.Reduce(s, structure.AddElement{
		NodeI: s.Nodes[0].ID, NodeJ: s.Nodes[1].ID, Role: structure.RoleBeam,
	})
	return structure.ToStructureInput(s, "Test frame")
}

func TestAnalyzeStructure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var in structure.StructureInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(in.Nodes) != 2 || len(in.Elements) != 1 {
			t.Fatalf("request shape: %+v", in)
		}
		_ = json.NewEncoder(w).Encode(StructureResult{
			Combinations: []CaseResult{{
				Name:      "ULS 6.10b (Q leading)",
				Reactions: []Reaction{{Node: "N1", Fy: 30000}},
			}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.AnalyzeStructure(context.Background(), demoInput(t))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Combinations) != 1 || res.Combinations[0].Reactions[0].Fy != 30000 {
		t.Fatalf("result: %+v", res)
	}
}

func TestAnalyze_SolverErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"structure is a mechanism"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.AnalyzeStructure(context.Background(), demoInput(t))
	if err == nil || !strings.Contains(err.Error(), "mechanism") {
		t.Fatalf("detail must surface, got %v", err)
	}
}

func TestFetchDiagrams_WrapsCombination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/diagrams" {
			t.Fatalf("path: %s", r.URL.Path)
		}
		var req struct {
			Structure   structure.StructureInput `json:"structure"`
			Combination string                   `json:"combination"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Combination != "SLS Characteristic" {
			t.Fatalf("combination: %q", req.Combination)
		}
		_ = json.NewEncoder(w).Encode(DiagramResult{
			Combination: req.Combination,
			Elements: []ElementDiagram{{
				Element:   "E1",
				Positions: []float64{0, 3, 6},
				Moment:    []float64{0, 45000, 0},
			}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.FetchDiagrams(context.Background(), demoInput(t), "SLS Characteristic")
	if err != nil {
		t.Fatalf("diagrams: %v", err)
	}
	if len(res.Elements) != 1 || res.Elements[0].Moment[1] != 45000 {
		t.Fatalf("result: %+v", res)
	}
}

func TestAnalyzeTakedown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/takedown/analyze" {
			t.Fatalf("path: %s", r.URL.Path)
		}
		var in takedown.ModelInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("request body: %v", err)
		}
		if in.Loads.SlabDead != nil || in.Loads.SlabLive != nil {
			t.Fatalf("analysis request must carry only the derived UDL: %+v", in.Loads)
		}
		_ = json.NewEncoder(w).Encode(takedown.AnalysisResult{
			Summary: takedown.AnalysisSummary{TotalVerticalReaction: 216000},
			Columns: []takedown.ColumnReaction{{ID: "column-1", NBase: 108000}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	s := takedown.NewState()
	s = takedown.Reduce(s, takedown.AddColumn{X: 0, Y: 0})
	res, err := c.AnalyzeTakedown(context.Background(), takedown.ToAnalysisInput(s))
	if err != nil {
		t.Fatalf("takedown: %v", err)
	}
	if res.Summary.TotalVerticalReaction != 216000 || res.Columns[0].NBase != 108000 {
		t.Fatalf("result: %+v", res)
	}
}
