package ode

import "github.com/kjmill/rkdrive/internal/rkvec"

// Runge-Kutta-Fehlberg 4(5) Butcher tableau coefficients (Table III,
// Fehlberg 1969 / Numerical Recipes), reproduced verbatim. Coefficients
// are evaluated once as constants rather than looked up from a matrix.
const (
	fehC2 = 1.0 / 4.0
	fehC3 = 3.0 / 8.0
	fehC4 = 12.0 / 13.0
	fehC5 = 1.0
	fehC6 = 1.0 / 2.0

	fehA21 = 1.0 / 4.0

	fehA31 = 3.0 / 32.0
	fehA32 = 9.0 / 32.0

	fehA41 = 1932.0 / 2197.0
	fehA42 = -7200.0 / 2197.0
	fehA43 = 7296.0 / 2197.0

	fehA51 = 439.0 / 216.0
	fehA52 = -8.0
	fehA53 = 3680.0 / 513.0
	fehA54 = -845.0 / 4104.0

	fehA61 = -8.0 / 27.0
	fehA62 = 2.0
	fehA63 = -3544.0 / 2565.0
	fehA64 = 1859.0 / 4104.0
	fehA65 = -11.0 / 40.0

	// 4th-order solution weights.
	fehB4_1 = 25.0 / 216.0
	fehB4_3 = 1408.0 / 2565.0
	fehB4_4 = 2197.0 / 4104.0
	fehB4_5 = -1.0 / 5.0

	// 5th-order solution weights.
	fehB5_1 = 16.0 / 135.0
	fehB5_3 = 6656.0 / 12825.0
	fehB5_4 = 28561.0 / 56430.0
	fehB5_5 = -9.0 / 50.0
	fehB5_6 = 2.0 / 55.0
)

// Fehlberg45Stepper implements the Runge-Kutta-Fehlberg 4(5) embedded
// pair: five extra derivative evaluations beyond the pre-filled base
// derivative, with a per-component error estimate from the 4th/5th order
// difference.
type Fehlberg45Stepper struct {
	k2, k3, k4, k5, k6 []float64
	y4                 []float64
	xtmp               []float64
}

// NewFehlberg45Stepper builds a Fehlberg45Stepper.
func NewFehlberg45Stepper() *Fehlberg45Stepper { return &Fehlberg45Stepper{} }

// Properties implements Stepper.
func (*Fehlberg45Stepper) Properties() StepperProperties {
	return StepperProperties{Name: "Fehlberg45", DerivativesPerStep: 5, HasErrorEstimate: true}
}

// Step implements Stepper.
func (s *Fehlberg45Stepper) Step(io *StepIO, sys *System) error {
	n := len(io.X)
	h := io.H
	s.k2 = ensureLen(s.k2, n)
	s.k3 = ensureLen(s.k3, n)
	s.k4 = ensureLen(s.k4, n)
	s.k5 = ensureLen(s.k5, n)
	s.k6 = ensureLen(s.k6, n)
	s.y4 = ensureLen(s.y4, n)
	s.xtmp = ensureLen(s.xtmp, n)
	io.NewX = ensureLen(io.NewX, n)
	io.ErrX = ensureLen(io.ErrX, n)

	k1 := io.DX // pre-filled base derivative

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*fehA21*k1[i]
	}
	k2, err := sys.Derivatives(s.xtmp, io.T+fehC2*h)
	if err != nil {
		return err
	}
	copy(s.k2, k2)

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*(fehA31*k1[i]+fehA32*s.k2[i])
	}
	k3, err := sys.Derivatives(s.xtmp, io.T+fehC3*h)
	if err != nil {
		return err
	}
	copy(s.k3, k3)

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*(fehA41*k1[i]+fehA42*s.k2[i]+fehA43*s.k3[i])
	}
	k4, err := sys.Derivatives(s.xtmp, io.T+fehC4*h)
	if err != nil {
		return err
	}
	copy(s.k4, k4)

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*(fehA51*k1[i]+fehA52*s.k2[i]+fehA53*s.k3[i]+fehA54*s.k4[i])
	}
	k5, err := sys.Derivatives(s.xtmp, io.T+fehC5*h)
	if err != nil {
		return err
	}
	copy(s.k5, k5)

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*(fehA61*k1[i]+fehA62*s.k2[i]+fehA63*s.k3[i]+fehA64*s.k4[i]+fehA65*s.k5[i])
	}
	k6, err := sys.Derivatives(s.xtmp, io.T+fehC6*h)
	if err != nil {
		return err
	}
	copy(s.k6, k6)

	for i := 0; i < n; i++ {
		io.NewX[i] = io.X[i] + h*(fehB5_1*k1[i]+fehB5_3*s.k3[i]+fehB5_4*s.k4[i]+fehB5_5*s.k5[i]+fehB5_6*s.k6[i])
		s.y4[i] = io.X[i] + h*(fehB4_1*k1[i]+fehB4_3*s.k3[i]+fehB4_4*s.k4[i]+fehB4_5*s.k5[i])
	}
	rkvec.SubTo(io.ErrX, io.NewX, s.y4)
	io.NewT = io.T + h
	return nil
}
