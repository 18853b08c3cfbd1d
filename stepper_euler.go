package ode

// EulerStepper implements the forward Euler method: one free derivative
// evaluation (the pre-filled base derivative) and no embedded error
// estimate.
type EulerStepper struct{}

// NewEulerStepper builds an EulerStepper.
func NewEulerStepper() *EulerStepper { return &EulerStepper{} }

// Properties implements Stepper.
func (*EulerStepper) Properties() StepperProperties {
	return StepperProperties{Name: "Euler", DerivativesPerStep: 0, HasErrorEstimate: false}
}

// Step implements Stepper.
func (*EulerStepper) Step(io *StepIO, sys *System) error {
	n := len(io.X)
	io.NewX = ensureLen(io.NewX, n)
	h := io.H
	for i := 0; i < n; i++ {
		io.NewX[i] = io.X[i] + h*io.DX[i]
	}
	io.NewT = io.T + h
	return nil
}
