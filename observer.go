package ode

// StepKind identifies what kind of step an ObserverSignal reports.
type StepKind int

const (
	// StepAccepted reports a step the Driver committed to cT/cX/cDX.
	StepAccepted StepKind = iota
	// StepRejected reports a trial step the adaptive loop shrank away from.
	StepRejected
)

// ObserverSignal is the narrow descendant of the teacher lineage's Event
// system (event.go, events.go): where that system dispatched targeted
// behaviour/domain-change/error events into a running Simulation, an
// ObserverSignal only ever reports what already happened to a Driver's
// step, read-only, with no capacity to mutate the solve in progress.
type ObserverSignal struct {
	Kind      StepKind
	T         float64 // time after this step (accepted) or attempted (rejected)
	Stepsize  float64 // the step magnitude just taken or rejected
	ErrRatio  float64 // err_max/tolerance for this step; 0 if the stepper has no error estimate
	EvalCount int     // cumulative evaluations at the time of this signal
}

// StepObserver receives an ObserverSignal after every trial step a Driver
// takes during SolveAdaptive. A nil StepObserver (the default) disables
// reporting entirely; Driver.SolveFixed never reports, since it has no
// accept/reject decision to observe.
type StepObserver interface {
	ObserveStep(ObserverSignal)
}

// StepObserverFunc adapts a plain func to StepObserver.
type StepObserverFunc func(ObserverSignal)

// ObserveStep implements StepObserver.
func (f StepObserverFunc) ObserveStep(sig ObserverSignal) { f(sig) }

// SetObserver attaches (or, with nil, detaches) a StepObserver to d.
func (d *Driver) SetObserver(obs StepObserver) {
	d.observer = obs
}

func (d *Driver) notify(kind StepKind, t, h, errRatio float64) {
	if kind == StepAccepted {
		d.logger.Logf("accept t=%v h=%v errRatio=%v evals=%d\n", t, h, errRatio, d.evalCount)
	} else {
		d.logger.Logf("reject t=%v h=%v errRatio=%v evals=%d\n", t, h, errRatio, d.evalCount)
	}
	if d.observer == nil {
		return
	}
	d.observer.ObserveStep(ObserverSignal{
		Kind:      kind,
		T:         t,
		Stepsize:  h,
		ErrRatio:  errRatio,
		EvalCount: d.evalCount,
	})
}
