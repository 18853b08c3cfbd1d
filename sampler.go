package ode

import (
	"math"

	"github.com/kjmill/rkdrive/internal/rkvec"
)

// SamplerOptions tunes GetSolutionAtPoints. Zero-value bounds (Xmin/Xmax
// both nil) disable the bounds-escape check; MaxPoints=0 means unlimited;
// MaxChange<=0 defaults to +Inf; MinStep<=0 defaults to driverTau.
type SamplerOptions struct {
	Xmin, Xmax []float64 // optional per-component bounds, length n if set
	MaxPoints  int       // 0 = unlimited, per side of t0
	MaxChange  float64   // maximum sup-norm displacement between stored samples
	MinStep    float64   // minimum internal refinement step
	Adaptive   bool      // use SolveAdaptive rather than SolveFixed for internal marching
}

// Trajectory is the output of GetSolutionAtPoints: two parallel sequences,
// Tvals monotone in the reported traversal direction and Xvals[i] the
// state at Tvals[i].
type Trajectory struct {
	Tvals []float64
	Xvals [][]float64
}

// sampleBuilder accumulates a Trajectory, replacing the teacher lineage's
// closure-captured locals with a small private struct (per Design Notes
// §9, "Sampler inner closure"). MaxPoints is enforced per side by extend,
// which keeps its own counter rather than sharing one through b.
type sampleBuilder struct {
	traj Trajectory
}

func (b *sampleBuilder) append(t float64, x []float64) {
	b.traj.Tvals = append(b.traj.Tvals, t)
	cp := make([]float64, len(x))
	copy(cp, x)
	b.traj.Xvals = append(b.traj.Xvals, cp)
}

func (b *sampleBuilder) reverse() {
	n := len(b.traj.Tvals)
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		b.traj.Tvals[i], b.traj.Tvals[j] = b.traj.Tvals[j], b.traj.Tvals[i]
		b.traj.Xvals[i], b.traj.Xvals[j] = b.traj.Xvals[j], b.traj.Xvals[i]
	}
}

// GetSolutionAtPoints marches d from (x0, t0) and samples the trajectory
// across the interval bounded by t1 and t2 (in the caller's requested
// traversal order: the result runs from t1 to t2), honoring timeStep grid
// spacing and opts' bounds/MaxPoints/MaxChange/MinStep constraints. It
// never returns an error for integration failures reached mid-extension:
// those truncate the trajectory, matching §4.4's "catches, does not
// throw" contract; it does fail for malformed tuning or a malformed
// initial condition.
func GetSolutionAtPoints(d *Driver, x0 []float64, t0, t1, t2, timeStep float64, opts SamplerOptions) (Trajectory, error) {
	const op = "GetSolutionAtPoints"
	if timeStep == 0 {
		return Trajectory{}, newErr(op, InvalidTuning, "timeStep must be nonzero")
	}
	timeStep = math.Abs(timeStep)
	maxChange := opts.MaxChange
	if maxChange <= 0 {
		maxChange = math.Inf(1)
	}
	minStep := opts.MinStep
	if minStep <= 0 {
		minStep = driverTau
	}
	if err := d.SetInitialCondition(nil, x0, t0); err != nil {
		return Trajectory{}, err
	}

	b := &sampleBuilder{}

	between := func(lo, mid, hi float64) bool {
		return (lo <= mid && mid <= hi) || (hi <= mid && mid <= lo)
	}

	switch {
	case between(t1, t0, t2):
		b.append(d.CurrentT(), d.CurrentX())
		if ok := extend(d, b, t1, timeStep, minStep, maxChange, opts); !ok {
			return b.traj, nil
		}
		b.reverse()
		if err := d.SetInitialCondition(nil, x0, t0); err != nil {
			return b.traj, nil
		}
		extend(d, b, t2, timeStep, minStep, maxChange, opts)

	case between(t0, t1, t2):
		if err := marchTo(d, t1, opts.Adaptive); err != nil {
			return b.traj, nil
		}
		b.append(d.CurrentT(), d.CurrentX())
		extend(d, b, t2, timeStep, minStep, maxChange, opts)

	default:
		if err := marchTo(d, t2, opts.Adaptive); err != nil {
			return b.traj, nil
		}
		b.append(d.CurrentT(), d.CurrentX())
		if ok := extend(d, b, t1, timeStep, minStep, maxChange, opts); !ok {
			return b.traj, nil
		}
		b.reverse()
	}

	return b.traj, nil
}

func marchTo(d *Driver, t float64, adaptive bool) error {
	var err error
	if adaptive {
		_, err = d.SolveAdaptive(t)
	} else {
		_, err = d.SolveFixed(t)
	}
	return err
}

// extend walks from the Driver's current tail toward tfinal, appending
// grid-spaced samples to b, refining the internal step whenever a
// candidate sample would exceed maxChange. Returns false if integration
// fails or the trajectory escapes opts' bounds or MaxPoints mid-walk.
func extend(d *Driver, b *sampleBuilder, tfinal, timeStep, minStep, maxChange float64, opts SamplerOptions) bool {
	sideCount := 0
	for {
		lastT, lastX := d.CurrentT(), d.CurrentX()

		tstep := timeStep
		if tfinal < d.CurrentT() {
			tstep = -timeStep
		}

		dt := tstep
		for {
			t := lastT + dt
			if (dt > 0 && t > tfinal) || (dt < 0 && t < tfinal) {
				t = tfinal
			}
			if err := marchTo(d, t, opts.Adaptive); err != nil {
				return false
			}
			dist := rkvec.MaxAbsDiff(d.CurrentX(), lastX)
			if dist < maxChange {
				break
			}
			dt /= 2
			if math.Abs(dt) >= minStep {
				if err := d.SetInitialCondition(nil, lastX, lastT); err != nil {
					return false
				}
				continue
			}
			break
		}

		b.append(d.CurrentT(), d.CurrentX())
		sideCount++

		if dt*(d.CurrentT()-tfinal) >= 0 {
			return true
		}

		x := d.CurrentX()
		for i := range x {
			if opts.Xmin != nil && x[i] < opts.Xmin[i] {
				return false
			}
			if opts.Xmax != nil && x[i] > opts.Xmax[i] {
				return false
			}
		}

		if opts.MaxPoints > 0 && sideCount > opts.MaxPoints {
			return false
		}
	}
}
