package ode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decaySystem is f(x,t) = -x, whose exact solution from x0=1 is e^-t.
func decaySystem(t *testing.T) *System {
	sys, err := NewSystem(1, func(x []float64, t float64, p Params) []float64 {
		return []float64{-x[0]}
	}, nil)
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	return sys
}

// TestExponentialDecayRK4 is concrete scenario 1: fixed-step RK4 marched
// to t=1 must land within 1e-6 of e^-1.
func TestExponentialDecayRK4(t *testing.T) {
	sys := decaySystem(t)
	d, err := NewDriver(sys, NewRK4Stepper(), []float64{1}, 0)
	require.NoError(t, err)
	require.NoError(t, d.SetStepsize(0.1))
	x, err := d.SolveFixed(1.0)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-1), x[0], 1e-6)
	assert.Equal(t, 1.0, d.CurrentT())
}

// TestStepperProperties checks that every stepper declares the derivative
// count and error-estimate flag named in spec §4.2.
func TestStepperProperties(t *testing.T) {
	cases := []struct {
		s          Stepper
		wantDeriv  int
		wantHasErr bool
	}{
		{NewEulerStepper(), 0, false},
		{NewRK4Stepper(), 3, false},
		{NewFehlberg45Stepper(), 5, true},
		{NewCashKarp45Stepper(), 5, true},
		{NewDormandPrince45Stepper(), 6, true},
	}
	for _, c := range cases {
		props := c.s.Properties()
		if props.DerivativesPerStep != c.wantDeriv {
			t.Errorf("%s: want %d derivatives per step, got %d", props.Name, c.wantDeriv, props.DerivativesPerStep)
		}
		if props.HasErrorEstimate != c.wantHasErr {
			t.Errorf("%s: want hasErrorEstimate=%v, got %v", props.Name, c.wantHasErr, props.HasErrorEstimate)
		}
	}
}

func TestEmbeddedStepperErrMaxWithinTolerance(t *testing.T) {
	// Invariant 5: for every embedded stepper and every accepted step,
	// err_max/tolerance < 1.
	steppers := []Stepper{NewFehlberg45Stepper(), NewCashKarp45Stepper(), NewDormandPrince45Stepper()}
	for _, s := range steppers {
		sys := decaySystem(t)
		d, err := NewDriver(sys, s, []float64{1}, 0)
		if err != nil {
			t.Fatalf("NewDriver: %v", err)
		}
		if err := d.SetTolerance(1e-6); err != nil {
			t.Fatalf("SetTolerance: %v", err)
		}
		var maxRatio float64
		d.SetObserver(StepObserverFunc(func(sig ObserverSignal) {
			if sig.Kind == StepAccepted && sig.ErrRatio > maxRatio {
				maxRatio = sig.ErrRatio
			}
		}))
		if _, err := d.SolveAdaptive(5.0); err != nil {
			t.Fatalf("SolveAdaptive: %v", err)
		}
		if maxRatio >= 1 {
			t.Errorf("%s: accepted step with err_max/tolerance = %v >= 1", s.Properties().Name, maxRatio)
		}
	}
}

func TestEulerStepMatchesFormula(t *testing.T) {
	sys := decaySystem(t)
	dx, err := sys.Derivatives([]float64{2}, 0)
	if err != nil {
		t.Fatalf("Derivatives: %v", err)
	}
	io := &StepIO{T: 0, X: []float64{2}, DX: dx, H: 0.5}
	if err := NewEulerStepper().Step(io, sys); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if io.NewX[0] != 2+0.5*dx[0] {
		t.Errorf("Euler step formula mismatch: got %v", io.NewX[0])
	}
	if io.NewT != 0.5 {
		t.Errorf("want NewT=0.5, got %v", io.NewT)
	}
}
