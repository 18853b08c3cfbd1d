package ode

import "github.com/kjmill/rkdrive/internal/rkvec"

// Cash-Karp 4(5) Butcher tableau coefficients (Cash & Karp, 1990),
// reproduced verbatim.
const (
	ckC2 = 1.0 / 5.0
	ckC3 = 3.0 / 10.0
	ckC4 = 3.0 / 5.0
	ckC5 = 1.0
	ckC6 = 7.0 / 8.0

	ckA21 = 1.0 / 5.0

	ckA31 = 3.0 / 40.0
	ckA32 = 9.0 / 40.0

	ckA41 = 3.0 / 10.0
	ckA42 = -9.0 / 10.0
	ckA43 = 6.0 / 5.0

	ckA51 = -11.0 / 54.0
	ckA52 = 5.0 / 2.0
	ckA53 = -70.0 / 27.0
	ckA54 = 35.0 / 27.0

	ckA61 = 1631.0 / 55296.0
	ckA62 = 175.0 / 512.0
	ckA63 = 575.0 / 13824.0
	ckA64 = 44275.0 / 110592.0
	ckA65 = 253.0 / 4096.0

	// 5th-order solution weights.
	ckB5_1 = 37.0 / 378.0
	ckB5_3 = 250.0 / 621.0
	ckB5_4 = 125.0 / 594.0
	ckB5_6 = 512.0 / 1771.0

	// 4th-order solution weights.
	ckB4_1 = 2825.0 / 27648.0
	ckB4_3 = 18575.0 / 48384.0
	ckB4_4 = 13525.0 / 55296.0
	ckB4_5 = 277.0 / 14336.0
	ckB4_6 = 1.0 / 4.0
)

// CashKarp45Stepper implements the Cash-Karp 4(5) embedded pair: five
// extra derivative evaluations beyond the pre-filled base derivative, with
// a per-component error estimate from the 4th/5th order difference.
type CashKarp45Stepper struct {
	k2, k3, k4, k5, k6 []float64
	y4                 []float64
	xtmp               []float64
}

// NewCashKarp45Stepper builds a CashKarp45Stepper.
func NewCashKarp45Stepper() *CashKarp45Stepper { return &CashKarp45Stepper{} }

// Properties implements Stepper.
func (*CashKarp45Stepper) Properties() StepperProperties {
	return StepperProperties{Name: "CashKarp45", DerivativesPerStep: 5, HasErrorEstimate: true}
}

// Step implements Stepper.
func (s *CashKarp45Stepper) Step(io *StepIO, sys *System) error {
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

	k1 := io.DX

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*ckA21*k1[i]
	}
	k2, err := sys.Derivatives(s.xtmp, io.T+ckC2*h)
	if err != nil {
		return err
	}
	copy(s.k2, k2)

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*(ckA31*k1[i]+ckA32*s.k2[i])
	}
	k3, err := sys.Derivatives(s.xtmp, io.T+ckC3*h)
	if err != nil {
		return err
	}
	copy(s.k3, k3)

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*(ckA41*k1[i]+ckA42*s.k2[i]+ckA43*s.k3[i])
	}
	k4, err := sys.Derivatives(s.xtmp, io.T+ckC4*h)
	if err != nil {
		return err
	}
	copy(s.k4, k4)

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*(ckA51*k1[i]+ckA52*s.k2[i]+ckA53*s.k3[i]+ckA54*s.k4[i])
	}
	k5, err := sys.Derivatives(s.xtmp, io.T+ckC5*h)
	if err != nil {
		return err
	}
	copy(s.k5, k5)

	for i := 0; i < n; i++ {
		s.xtmp[i] = io.X[i] + h*(ckA61*k1[i]+ckA62*s.k2[i]+ckA63*s.k3[i]+ckA64*s.k4[i]+ckA65*s.k5[i])
	}
	k6, err := sys.Derivatives(s.xtmp, io.T+ckC6*h)
	if err != nil {
		return err
	}
	copy(s.k6, k6)

	for i := 0; i < n; i++ {
		io.NewX[i] = io.X[i] + h*(ckB5_1*k1[i]+ckB5_3*s.k3[i]+ckB5_4*s.k4[i]+ckB5_6*s.k6[i])
		s.y4[i] = io.X[i] + h*(ckB4_1*k1[i]+ckB4_3*s.k3[i]+ckB4_4*s.k4[i]+ckB4_5*s.k5[i]+ckB4_6*s.k6[i])
	}
	rkvec.SubTo(io.ErrX, io.NewX, s.y4)
	io.NewT = io.T + h
	return nil
}
