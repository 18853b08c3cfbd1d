package ode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDriverConfigAndApply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	const content = `
tolerance: 0.0001
stepsize: 0.05
max_steps: 500
min_stepsize: 1e-8
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadDriverConfig(path)
	if err != nil {
		t.Fatalf("LoadDriverConfig: %v", err)
	}
	if cfg.Tolerance != 1e-4 || cfg.Stepsize != 0.05 || cfg.MaxSteps != 500 {
		t.Fatalf("unexpected parsed config: %+v", cfg)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("want log level debug, got %q", cfg.Log.Level)
	}

	sys := decaySystem(t)
	d, err := NewDriver(sys, NewRK4Stepper(), []float64{1}, 0)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if err := cfg.ApplyTo(d); err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
}

func TestLoadDriverConfigMissingFile(t *testing.T) {
	_, err := LoadDriverConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !IsKind(err, InvalidTuning) {
		t.Fatalf("want InvalidTuning, got %v", err)
	}
}

func TestReadDriverConfigFromReader(t *testing.T) {
	const content = "tolerance: 0.001\nstepsize: 0.2\n"
	cfg, err := ReadDriverConfig(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ReadDriverConfig: %v", err)
	}
	if cfg.Tolerance != 1e-3 || cfg.Stepsize != 0.2 {
		t.Fatalf("unexpected parsed config: %+v", cfg)
	}
}

func TestParseDriverConfigFromBytes(t *testing.T) {
	cfg, err := ParseDriverConfig([]byte("max_steps: 42\n"))
	if err != nil {
		t.Fatalf("ParseDriverConfig: %v", err)
	}
	if cfg.MaxSteps != 42 {
		t.Fatalf("unexpected parsed config: %+v", cfg)
	}
}
