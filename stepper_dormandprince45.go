package ode

import "github.com/kjmill/rkdrive/internal/rkvec"

// Dormand-Prince 4(5) Butcher tableau coefficients (Dormand & Prince,
// 1980), reproduced verbatim. The tableau is FSAL-shaped (C7=1 and the
// 5th-order weights equal the 7th stage's A row) but this implementation
// does not exploit FSAL: the 7th stage is not reused, and the Driver
// re-evaluates the base-point derivative when it commits the step, matching
// §4.2.
const (
	dpC2 = 1.0 / 5.0
	dpC3 = 3.0 / 10.0
	dpC4 = 4.0 / 5.0
	dpC5 = 8.0 / 9.0
	dpC6 = 1.0
	dpC7 = 1.0

	dpA21 = 1.0 / 5.0

	dpA31 = 3.0 / 40.0
	dpA32 = 9.0 / 40.0

	dpA41 = 44.0 / 45.0
	dpA42 = -56.0 / 15.0
	dpA43 = 32.0 / 9.0

	dpA51 = 19372.0 / 6561.0
	dpA52 = -25360.0 / 2187.0
	dpA53 = 64448.0 / 6561.0
	dpA54 = -212.0 / 729.0

	dpA61 = 9017.0 / 3168.0
	dpA62 = -355.0 / 33.0
	dpA63 = 46732.0 / 5247.0
	dpA64 = 49.0 / 176.0
	dpA65 = -5103.0 / 18656.0

	dpA71 = 35.0 / 384.0
	dpA73 = 500.0 / 1113.0
	dpA74 = 125.0 / 192.0
	dpA75 = -2187.0 / 6784.0
	dpA76 = 11.0 / 84.0

	// 5th-order solution weights (equal to the A7 row, per FSAL shape).
	dpB5_1 = 35.0 / 384.0
	dpB5_3 = 500.0 / 1113.0
	dpB5_4 = 125.0 / 192.0
	dpB5_5 = -2187.0 / 6784.0
	dpB5_6 = 11.0 / 84.0

	// 4th-order solution weights, for the embedded error estimate.
	dpB4_1 = 5179.0 / 57600.0
	dpB4_3 = 7571.0 / 16695.0
	dpB4_4 = 393.0 / 640.0
	dpB4_5 = -92097.0 / 339200.0
	dpB4_6 = 187.0 / 2100.0
	dpB4_7 = 1.0 / 40.0
)

// DormandPrince45Stepper implements the Dormand-Prince 4(5) embedded
// pair: six extra derivative evaluations beyond the pre-filled base
// derivative, with a per-component error estimate from the 4th/5th order
// difference.
type DormandPrince45Stepper struct {
	k2, k3, k4, k5, k6, k7 []float64
	y4                     []float64
	xtmp                   []float64
}

// NewDormandPrince45Stepper builds a DormandPrince45Stepper.
func NewDormandPrince45Stepper() *DormandPrince45Stepper { return &DormandPrince45Stepper{} }

// Properties implements Stepper.
func (*DormandPrince45Stepper) Properties() StepperProperties {
	return StepperProperties{Name: "DormandPrince45", DerivativesPerStep: 6, HasErrorEstimate: true}
}

// Step implements Stepper.
func (s *DormandPrince45Stepper) Step(io *StepIO, sys *System) error {
	n := len(io.X)
	h := io.H
	s.k2 = ensureLen(s.k2, n)
	s.k3 = ensureLen(s.k3, n)
	s.k4 = ensureLen(s.k4, n)
	s.k5 = ensureLen(s.k5, n)
	s.k6 = ensureLen(s.k6, n)
	s.k7 = ensureLen(s.k7, n)
	s.y4 = ensureLen(s.y4, n)
	s.xtmp = ensureLen(s.xtmp, n)
	io.NewX = ensureLen(io.NewX, n)
	io.ErrX = ensureLen(io.ErrX, n)

	k1 := io.DX

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*dpA21*k1[i]
	}
	k2, err := sys.Derivatives(s.xtmp, io.T+dpC2*h)
	if err != nil {
		return err
	}
	copy(s.k2, k2)

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*(dpA31*k1[i]+dpA32*s.k2[i])
	}
	k3, err := sys.Derivatives(s.xtmp, io.T+dpC3*h)
	if err != nil {
		return err
	}
	copy(s.k3, k3)

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*(dpA41*k1[i]+dpA42*s.k2[i]+dpA43*s.k3[i])
	}
	k4, err := sys.Derivatives(s.xtmp, io.T+dpC4*h)
	if err != nil {
		return err
	}
	copy(s.k4, k4)

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*(dpA51*k1[i]+dpA52*s.k2[i]+dpA53*s.k3[i]+dpA54*s.k4[i])
	}
	k5, err := sys.Derivatives(s.xtmp, io.T+dpC5*h)
	if err != nil {
		return err
	}
	copy(s.k5, k5)

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*(dpA61*k1[i]+dpA62*s.k2[i]+dpA63*s.k3[i]+dpA64*s.k4[i]+dpA65*s.k5[i])
	}
	k6, err := sys.Derivatives(s.xtmp, io.T+dpC6*h)
	if err != nil {
		return err
	}
	copy(s.k6, k6)

	for i := 0; i < n; i++ {
		io.NewX[i] = io.X[i] + h*(dpA71*k1[i]+dpA73*s.k3[i]+dpA74*s.k4[i]+dpA75*s.k5[i]+dpA76*s.k6[i])
	}
	io.NewT = io.T + h

	// Evaluate at the candidate point (no FSAL reuse, per §4.2) to get k7
	// for the embedded error estimate.
	k7, err := sys.Derivatives(io.NewX, io.NewT)
	if err != nil {
		return err
	}
	copy(s.k7, k7)

	for i := 0; i < n; i++ {
		s.y4[i] = io.X[i] + h*(dpB4_1*k1[i]+dpB4_3*s.k3[i]+dpB4_4*s.k4[i]+dpB4_5*s.k5[i]+dpB4_6*s.k6[i]+dpB4_7*s.k7[i])
	}
	rkvec.SubTo(io.ErrX, io.NewX, s.y4)
	return nil
}
