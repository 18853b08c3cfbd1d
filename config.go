package ode

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DriverConfig is a YAML-loadable mirror of a Driver's tuning knobs,
// generalizing the teacher lineage's Config (simulation.go) from a single
// Simulation-wide struct into the Driver-scoped tuning this package
// exposes. Zero fields are left at the Driver's existing value when
// applied via ApplyTo.
type DriverConfig struct {
	Tolerance   float64 `yaml:"tolerance"`
	Stepsize    float64 `yaml:"stepsize"`
	MaxSteps    int     `yaml:"max_steps"`
	MinStepsize float64 `yaml:"min_stepsize"`
	Log         struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// LoadDriverConfig reads and parses a YAML tuning file from path.
func LoadDriverConfig(path string) (DriverConfig, error) {
	const op = "LoadDriverConfig"
	b, err := os.ReadFile(path)
	if err != nil {
		return DriverConfig{}, newErr(op, InvalidTuning, "reading config: %w", err)
	}
	return ParseDriverConfig(b)
}

// ReadDriverConfig parses a YAML tuning document read in full from r.
func ReadDriverConfig(r io.Reader) (DriverConfig, error) {
	const op = "ReadDriverConfig"
	b, err := io.ReadAll(r)
	if err != nil {
		return DriverConfig{}, newErr(op, InvalidTuning, "reading config: %w", err)
	}
	return ParseDriverConfig(b)
}

// ParseDriverConfig parses a YAML tuning document already held in memory.
func ParseDriverConfig(b []byte) (DriverConfig, error) {
	const op = "ParseDriverConfig"
	var cfg DriverConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, newErr(op, InvalidTuning, "parsing config: %w", err)
	}
	return cfg, nil
}

// ApplyTo pushes every nonzero field of cfg onto d via the validated
// setters, stopping at the first rejected value.
func (cfg DriverConfig) ApplyTo(d *Driver) error {
	if cfg.Tolerance != 0 {
		if err := d.SetTolerance(cfg.Tolerance); err != nil {
			return err
		}
	}
	if cfg.Stepsize != 0 {
		if err := d.SetStepsize(cfg.Stepsize); err != nil {
			return err
		}
	}
	if cfg.MaxSteps != 0 {
		if err := d.SetMaxSteps(cfg.MaxSteps); err != nil {
			return err
		}
	}
	if cfg.MinStepsize != 0 {
		if err := d.SetMinStepsize(cfg.MinStepsize); err != nil {
			return err
		}
	}
	return nil
}
