package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.GridSize != 0.5 {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.AutosaveDebounce() != 400*time.Millisecond {
		t.Fatalf("debounce: %v", cfg.AutosaveDebounce())
	}
}

func TestLoad_FileOverridesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	doc := `
listen_addr: ":9090"
solver_url: "http://solver:8000/"
grid_size_m: 1.0
analysis_debounce_ms: 150
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9090" || cfg.GridSize != 1.0 {
		t.Fatalf("overrides: %+v", cfg)
	}
	if cfg.SolverURL != "http://solver:8000" {
		t.Fatalf("trailing slash must be trimmed: %q", cfg.SolverURL)
	}
	// Unset fields keep their defaults.
	if cfg.DataDir != "./data" || cfg.AutosaveDebounceMs != 400 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.AnalysisDebounce() != 150*time.Millisecond {
		t.Fatalf("debounce: %v", cfg.AnalysisDebounce())
	}
}

func TestLoad_Rejections(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file must error")
	}

	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(`solver_url: "ftp://nope"`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("non-http solver_url must error")
	}
}
