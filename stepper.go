package ode

// StepIO is the per-step context passed between a Driver and a Stepper, in
// place of the ambient-field pattern of the teacher lineage (where a
// stepper read currentT/currentX/currentDX and wrote newT/newX/errorX as
// fields on its parent). The In section is read-only from the Stepper's
// point of view; the Out section is write-only. Views do not outlive the
// call: a Stepper must not retain X, DX, NewX or ErrX past Step returning.
type StepIO struct {
	// In: supplied by the Driver, read-only to the Stepper.
	T  float64   // current time
	X  []float64 // current state, length n
	DX []float64 // current derivative f(X, T), length n, pre-filled
	H  float64   // trial step size, signed

	// Out: written by the Stepper.
	NewT float64   // T + H (or T + actual advance for the final partial step)
	NewX []float64 // candidate next state, length n, allocated by the Stepper on first use and reused
	ErrX []float64 // per-component error estimate, length n, nil if the Stepper has no embedded error
}

// StepperProperties describes the static shape of a Stepper variant.
type StepperProperties struct {
	Name               string
	DerivativesPerStep int  // extra f evaluations per step beyond the pre-filled base derivative
	HasErrorEstimate   bool
}

// Stepper is a single-step advancer for a System. Step reads io.T, io.X and
// io.DX and writes io.NewT, io.NewX and (if Properties().HasErrorEstimate)
// io.ErrX. It never evaluates f at the base point (T, X): that evaluation
// is the Driver's responsibility, and io.DX is guaranteed to already equal
// f(io.X, io.T) when Step is called. Implementations may keep private,
// reusable scratch state sized to the System's dimension.
type Stepper interface {
	Step(io *StepIO, sys *System) error
	Properties() StepperProperties
}
