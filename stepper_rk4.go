package ode

import "github.com/kjmill/rkdrive/internal/rkvec"

// RK4Stepper implements the classic 4th-order Runge-Kutta method: three
// extra derivative evaluations beyond the pre-filled base derivative, no
// embedded error estimate.
type RK4Stepper struct {
	k2, k3, k4 []float64
	xtmp       []float64
}

// NewRK4Stepper builds an RK4Stepper.
func NewRK4Stepper() *RK4Stepper { return &RK4Stepper{} }

// Properties implements Stepper.
func (*RK4Stepper) Properties() StepperProperties {
	return StepperProperties{Name: "RK4", DerivativesPerStep: 3, HasErrorEstimate: false}
}

// Step implements Stepper.
func (s *RK4Stepper) Step(io *StepIO, sys *System) error {
	n := len(io.X)
	h := io.H
	s.k2 = ensureLen(s.k2, n)
	s.k3 = ensureLen(s.k3, n)
	s.k4 = ensureLen(s.k4, n)
	s.xtmp = ensureLen(s.xtmp, n)
	io.NewX = ensureLen(io.NewX, n)

	// k2 at (X + h/2*DX, T + h/2)
	rkvec.AddScaledTo(s.xtmp, io.X, 0.5*h, io.DX)
	k2, err := sys.Derivatives(s.xtmp, io.T+0.5*h)
	if err != nil {
		return err
	}
	copy(s.k2, k2)

	// k3 at (X + h/2*k2, T + h/2)
	rkvec.AddScaledTo(s.xtmp, io.X, 0.5*h, s.k2)
	k3, err := sys.Derivatives(s.xtmp, io.T+0.5*h)
	if err != nil {
		return err
	}
	copy(s.k3, k3)

	// k4 at (X + h*k3, T + h)
	rkvec.AddScaledTo(s.xtmp, io.X, h, s.k3)
	k4, err := sys.Derivatives(s.xtmp, io.T+h)
	if err != nil {
		return err
	}
	copy(s.k4, k4)

	// NewX = X + h*((DX+k4)/6 + (k2+k3)/3)
	for i := 0; i < n; i++ {
		io.NewX[i] = io.X[i] + h*((io.DX[i]+s.k4[i])/6+(s.k2[i]+s.k3[i])/3)
	}
	io.NewT = io.T + h
	return nil
}
