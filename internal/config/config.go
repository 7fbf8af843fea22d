// Package config loads the server configuration from YAML. Missing
// file or fields fall back to defaults so a bare binary still runs.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DataDir    string `yaml:"data_dir"`

	// SolverURL is the base URL of the external analysis service.
	SolverURL string `yaml:"solver_url"`

	// GridSize is the default snap pitch in metres for new documents.
	GridSize float64 `yaml:"grid_size_m"`

	AutosaveDebounceMs int `yaml:"autosave_debounce_ms"`
	AnalysisDebounceMs int `yaml:"analysis_debounce_ms"`
}

func Defaults() Config {
	return Config{
		ListenAddr:         ":8080",
		DataDir:            "./data",
		SolverURL:          "http://127.0.0.1:8000",
		GridSize:           0.5,
		AutosaveDebounceMs: 400,
		AnalysisDebounceMs: 300,
	}
}

// Load reads the YAML file at path. An empty path returns the defaults;
// a missing file is an error so typos do not silently run on defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	d := Defaults()
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = d.ListenAddr
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = d.DataDir
	}
	if strings.TrimSpace(c.SolverURL) == "" {
		c.SolverURL = d.SolverURL
	}
	c.SolverURL = strings.TrimRight(c.SolverURL, "/")
	if c.GridSize <= 0 {
		c.GridSize = d.GridSize
	}
	if c.AutosaveDebounceMs <= 0 {
		c.AutosaveDebounceMs = d.AutosaveDebounceMs
	}
	if c.AnalysisDebounceMs <= 0 {
		c.AnalysisDebounceMs = d.AnalysisDebounceMs
	}
}

func (c Config) validate() error {
	if !strings.HasPrefix(c.SolverURL, "http://") && !strings.HasPrefix(c.SolverURL, "https://") {
		return fmt.Errorf("solver_url must be http(s), got %q", c.SolverURL)
	}
	return nil
}

func (c Config) AutosaveDebounce() time.Duration {
	return time.Duration(c.AutosaveDebounceMs) * time.Millisecond
}

func (c Config) AnalysisDebounce() time.Duration {
	return time.Duration(c.AnalysisDebounceMs) * time.Millisecond
}
