package ode

import (
	"math"
	"testing"
)

func TestSystemDerivatives(t *testing.T) {
	sys, err := NewSystem(1, func(x []float64, t float64, p Params) []float64 {
		return []float64{-x[0]}
	}, nil)
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	dx, err := sys.Derivatives([]float64{2}, 0)
	if err != nil {
		t.Fatalf("Derivatives: %v", err)
	}
	if dx[0] != -2 {
		t.Errorf("want -2, got %v", dx[0])
	}
}

func TestSystemDimensionMismatch(t *testing.T) {
	sys, _ := NewSystem(2, func(x []float64, t float64, p Params) []float64 {
		return x
	}, nil)
	_, err := sys.Derivatives([]float64{1}, 0)
	if !IsKind(err, DimensionMismatch) {
		t.Fatalf("want DimensionMismatch, got %v", err)
	}
}

func TestSystemNonFiniteOutput(t *testing.T) {
	sys, _ := NewSystem(1, func(x []float64, t float64, p Params) []float64 {
		return []float64{math.NaN()}
	}, nil)
	_, err := sys.Derivatives([]float64{1}, 0)
	if !IsKind(err, ComputationError) {
		t.Fatalf("want ComputationError, got %v", err)
	}
}

func TestSystemWrongOutputLength(t *testing.T) {
	sys, _ := NewSystem(2, func(x []float64, t float64, p Params) []float64 {
		return []float64{1}
	}, nil)
	_, err := sys.Derivatives([]float64{1, 2}, 0)
	if !IsKind(err, ComputationError) {
		t.Fatalf("want ComputationError, got %v", err)
	}
}

func TestSystemRecoversPanic(t *testing.T) {
	sys, _ := NewSystem(1, func(x []float64, t float64, p Params) []float64 {
		return []float64{p.Get("undefined")}
	}, nil)
	_, err := sys.Derivatives([]float64{1}, 0)
	if !IsKind(err, ComputationError) {
		t.Fatalf("want ComputationError from recovered panic, got %v", err)
	}
}

func TestSystemParametersRoundTrip(t *testing.T) {
	sys, err := NewSystem(1, func(x []float64, t float64, p Params) []float64 {
		return []float64{p.Get("k") * x[0]}
	}, map[string]float64{"k": -1})
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	if err := sys.SetParameters(map[string]float64{"k": -2, "c": 0.5}); err != nil {
		t.Fatalf("SetParameters: %v", err)
	}
	got := sys.Parameters()
	if got["k"] != -2 || got["c"] != 0.5 {
		t.Errorf("unexpected parameter map after round trip: %v", got)
	}
}

func TestSystemInvalidParameters(t *testing.T) {
	_, err := NewSystem(1, func(x []float64, t float64, p Params) []float64 { return x }, map[string]float64{"k": math.Inf(1)})
	if !IsKind(err, InvalidParameters) {
		t.Fatalf("want InvalidParameters, got %v", err)
	}
}

func TestSystemForcedOscillatorParameters(t *testing.T) {
	// Concrete scenario 4: forced oscillator with parameters.
	sys, err := NewSystem(2, func(x []float64, t float64, p Params) []float64 {
		return []float64{
			x[1],
			-p.Get("k")*x[0] - p.Get("c")*x[1] + p.Get("A")*math.Sin(p.Get("w")*t),
		}
	}, map[string]float64{"k": 1, "c": 0, "A": 2, "w": math.Pi})
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	dx, err := sys.Derivatives([]float64{1, 2}, 1.0)
	if err != nil {
		t.Fatalf("Derivatives: %v", err)
	}
	want := []float64{2, -1}
	for i := range want {
		if math.Abs(dx[i]-want[i]) > 1e-9 {
			t.Errorf("component %d: want %v, got %v", i, want[i], dx[i])
		}
	}
}
