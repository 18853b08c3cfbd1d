package ode

import (
	"math"

	"github.com/kjmill/rkdrive/internal/rkvec"
)

// Adaptive step-control constants (Numerical Recipes in C, §16.2), carried
// over verbatim from the teacher lineage's algorithms.go.
const (
	driverSafety  = 0.9
	driverPShrink = -0.25
	driverPGrow   = -0.2
	driverTau     = 1e-30
)

// driverErrcon = (5/SAFETY)^(1/PGrow) = (50/9)^-5, the error-ratio
// threshold above which growth is damped rather than applied at the flat
// factor of 5. Computed once rather than left as a magic literal.
var driverErrcon = math.Pow(5.0/driverSafety, 1.0/driverPGrow)

// Driver marches a bound System forward (or backward) in time using a
// Stepper, via fixed-step or embedded-error adaptive step-size control. A
// Driver owns its state vectors; see StepIO for the contract between a
// Driver and its Stepper.
type Driver struct {
	sys     *System
	stepper Stepper

	cT  float64
	cX  []float64
	cDX []float64

	tolerance   float64
	stepsize    float64
	maxSteps    int
	minStepsize float64

	evalCount int

	io       StepIO
	observer StepObserver
	logger   *Logger
}

// NewDriver builds a Driver bound to sys and stepper, with initial
// condition (x0, t0). Default tuning matches the teacher lineage:
// tolerance=1e-6, stepsize=0.01, maxSteps=10000, minStepsize=1e-10.
func NewDriver(sys *System, stepper Stepper, x0 []float64, t0 float64) (*Driver, error) {
	const op = "NewDriver"
	if sys == nil {
		return nil, newErr(op, NullSystem, "system is nil")
	}
	if stepper == nil {
		return nil, newErr(op, InvalidRequest, "stepper must not be nil")
	}
	d := &Driver{
		stepper:     stepper,
		tolerance:   1e-6,
		stepsize:    0.01,
		maxSteps:    10000,
		minStepsize: 1e-10,
	}
	if err := d.SetInitialCondition(sys, x0, t0); err != nil {
		return nil, err
	}
	return d, nil
}

// SetInitialCondition rebinds sys (if non-nil; nil keeps the current
// System) and the state (x0, t0), then re-evaluates cDX = f(cX, cT).
func (d *Driver) SetInitialCondition(sys *System, x0 []float64, t0 float64) error {
	const op = "Driver.SetInitialCondition"
	if sys != nil {
		d.sys = sys
	}
	if d.sys == nil {
		return newErr(op, NoSystem, "no system bound")
	}
	if len(x0) != d.sys.Dimension() {
		return newErr(op, DimensionMismatch, "initial state has length %d, want %d", len(x0), d.sys.Dimension())
	}
	d.cX = append(d.cX[:0], x0...)
	d.cT = t0
	dx, err := d.sys.Derivatives(d.cX, d.cT)
	if err != nil {
		return err
	}
	d.cDX = dx
	return nil
}

// SetSystem rebinds the Driver to a new System with a fresh initial
// condition. It is equivalent to SetInitialCondition(sys, x0, t0).
func (d *Driver) SetSystem(sys *System, x0 []float64, t0 float64) error {
	const op = "Driver.SetSystem"
	if sys == nil {
		return newErr(op, NullSystem, "system is nil")
	}
	return d.SetInitialCondition(sys, x0, t0)
}

// SetTolerance sets the adaptive error tolerance. Fails with InvalidTuning
// unless tolerance > 0.
func (d *Driver) SetTolerance(tol float64) error {
	if tol <= 0 {
		return newErr("Driver.SetTolerance", InvalidTuning, "tolerance must be > 0, got %v", tol)
	}
	d.tolerance = tol
	return nil
}

// SetStepsize sets the persistent trial step size. Its sign encodes the
// default traversal direction; it is realigned automatically by
// SolveFixed/SolveAdaptive. Fails with InvalidTuning if stepsize == 0.
func (d *Driver) SetStepsize(h float64) error {
	if h == 0 {
		return newErr("Driver.SetStepsize", InvalidTuning, "stepsize must be nonzero")
	}
	d.stepsize = h
	return nil
}

// SetMaxSteps bounds the adaptive outer loop. Fails with InvalidTuning
// unless maxSteps >= 1.
func (d *Driver) SetMaxSteps(n int) error {
	if n < 1 {
		return newErr("Driver.SetMaxSteps", InvalidTuning, "maxSteps must be >= 1, got %d", n)
	}
	d.maxSteps = n
	return nil
}

// SetMinStepsize bounds how small an accepted adaptive step may shrink to
// before SolveAdaptive fails with StepTooSmall. Fails with InvalidTuning
// unless minStepsize > 0.
func (d *Driver) SetMinStepsize(h float64) error {
	if h <= 0 {
		return newErr("Driver.SetMinStepsize", InvalidTuning, "minStepsize must be > 0, got %v", h)
	}
	d.minStepsize = h
	return nil
}

// CurrentT returns the Driver's current time.
func (d *Driver) CurrentT() float64 { return d.cT }

// CurrentX returns a copy of the Driver's current state.
func (d *Driver) CurrentX() []float64 {
	out := make([]float64, len(d.cX))
	copy(out, d.cX)
	return out
}

// Evaluations returns the number of f evaluations performed by solves
// since construction. SetInitialCondition and SetSystem neither reset the
// count nor add their base-derivative evaluation to it.
func (d *Driver) Evaluations() int { return d.evalCount }

// HasError reports whether the bound Stepper carries an embedded error
// estimate (and is therefore usable with SolveAdaptive).
func (d *Driver) HasError() bool { return d.stepper.Properties().HasErrorEstimate }

// SetLogger attaches (or, with nil, detaches) a Logger that SolveFixed and
// SolveAdaptive write accept/reject/commit progress lines to. The Logger
// is flushed once when the solve returns, matching the teacher lineage's
// buffer-then-flush-once usage of logger.go.
func (d *Driver) SetLogger(l *Logger) {
	d.logger = l
}

// alignStepSign negates h if needed so that (tEnd-cT)*h > 0: the trial
// step always points toward tEnd.
func alignStepSign(h, cT, tEnd float64) float64 {
	if (tEnd-cT)*h < 0 {
		return -h
	}
	return h
}

// commitStep advances cT/cX/cDX to the Stepper's tentative nT/nX, folding
// in the base-derivative re-evaluation's cost into evalCount.
func (d *Driver) commitStep() error {
	d.cX = append(d.cX[:0], d.io.NewX...)
	d.cT = d.io.NewT
	dx, err := d.sys.Derivatives(d.cX, d.cT)
	if err != nil {
		return err
	}
	d.cDX = dx
	d.evalCount++
	return nil
}

// SolveFixed marches with the persistent stepsize's magnitude (aligned
// toward tEnd) until tEnd is reached exactly, taking one shorter partial
// step at the end. Returns a copy of the landing state.
func (d *Driver) SolveFixed(tEnd float64) ([]float64, error) {
	const op = "Driver.SolveFixed"
	if d.sys == nil {
		return nil, newErr(op, NoSystem, "no system bound")
	}
	defer d.logger.Flush()
	h := alignStepSign(d.stepsize, d.cT, tEnd)
	d.io = StepIO{}
	props := d.stepper.Properties()

	for {
		remaining := tEnd - d.cT
		if remaining == 0 {
			break
		}
		// A further whole step would overshoot: take the partial step and stop.
		if remaining*h <= 0 || math.Abs(remaining) < math.Abs(h) {
			d.io.T, d.io.X, d.io.DX, d.io.H = d.cT, d.cX, d.cDX, remaining
			if err := d.stepper.Step(&d.io, d.sys); err != nil {
				return nil, err
			}
			d.evalCount += props.DerivativesPerStep
			if err := d.commitStep(); err != nil {
				return nil, err
			}
			d.logger.Logf("commit t=%v evals=%d\n", d.cT, d.evalCount)
			break
		}
		d.io.T, d.io.X, d.io.DX, d.io.H = d.cT, d.cX, d.cDX, h
		if err := d.stepper.Step(&d.io, d.sys); err != nil {
			return nil, err
		}
		d.evalCount += props.DerivativesPerStep
		if err := d.commitStep(); err != nil {
			return nil, err
		}
		d.logger.Logf("commit t=%v evals=%d\n", d.cT, d.evalCount)
	}
	return d.CurrentX(), nil
}

// SolveAdaptive marches using embedded-error step-size control until tEnd
// is reached within driverTau. A rejected trial step is shrunk and retried;
// each accepted step becomes the next trial stepsize, so the persistent
// stepsize never grows (the growth factor is computed but not applied). Fails with NoErrorEstimate if the bound Stepper has no
// embedded error estimate.
func (d *Driver) SolveAdaptive(tEnd float64) ([]float64, error) {
	const op = "Driver.SolveAdaptive"
	if d.sys == nil {
		return nil, newErr(op, NoSystem, "no system bound")
	}
	props := d.stepper.Properties()
	if !props.HasErrorEstimate {
		return nil, newErr(op, NoErrorEstimate, "stepper %q has no embedded error estimate", props.Name)
	}

	if tEnd == d.cT {
		return d.CurrentX(), nil
	}

	if d.stepsize == 0 {
		d.stepsize = tEnd - d.cT
	}
	d.stepsize = alignStepSign(d.stepsize, d.cT, tEnd)
	d.io = StepIO{}
	defer d.logger.Flush()

	for iter := 0; iter < d.maxSteps; iter++ {
		hTry := d.stepsize
		if (tEnd-d.cT)*(d.stepsize-(tEnd-d.cT)) > 0 {
			hTry = tEnd - d.cT
		}

		var errMax float64
		for {
			d.io.T, d.io.X, d.io.DX, d.io.H = d.cT, d.cX, d.cDX, hTry
			if err := d.stepper.Step(&d.io, d.sys); err != nil {
				return nil, err
			}
			d.evalCount += props.DerivativesPerStep

			errMax = rkvec.SupNormErrorRatio(d.io.ErrX, d.cX, d.cDX, hTry, driverTau) / d.tolerance
			if errMax < 1 {
				break
			}

			d.notify(StepRejected, d.cT+hTry, hTry, errMax)
			adjstep := driverSafety * hTry * math.Pow(errMax, driverPShrink)
			var stemp float64
			if adjstep > 0 {
				stemp = math.Max(adjstep, 0.1*hTry)
			} else {
				stemp = math.Min(adjstep, 0.1*hTry)
			}
			hTry = stemp

			if d.cT+hTry == d.cT {
				return nil, newErr(op, StepUnderflow, "step size underflow at t=%v", d.cT)
			}
		}

		if err := d.commitStep(); err != nil {
			return nil, err
		}
		d.notify(StepAccepted, d.cT, hTry, errMax)

		var grown float64
		if errMax > driverErrcon {
			grown = driverSafety * d.stepsize * math.Pow(errMax, driverPGrow)
		} else {
			grown = 5 * d.stepsize
		}
		_ = grown // computed per §4.3.2 step 4, then discarded per step 6 (Open Question 2)

		if math.Abs(tEnd-d.cT) <= driverTau {
			return d.CurrentX(), nil
		}

		// Cache the accepted step as the next trial's starting point,
		// overriding the growth just computed — faithful to the source
		// quirk documented as Open Question 2.
		d.stepsize = hTry
		if math.Abs(d.stepsize) < d.minStepsize {
			return nil, newErr(op, StepTooSmall, "accepted stepsize %v below minimum %v", d.stepsize, d.minStepsize)
		}
	}
	return nil, newErr(op, MaxIterationsExceeded, "exceeded %d iterations before reaching t=%v", d.maxSteps, tEnd)
}
