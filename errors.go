package ode

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the category of a failure raised by this package.
// See the package-level Error type.
type Kind int

const (
	// NoSystem means a solve was requested with no System bound to the Driver.
	NoSystem Kind = iota
	// NullSystem means a constructor or setter was given a nil System.
	NullSystem
	// DimensionMismatch means a vector field input or output had the wrong length.
	DimensionMismatch
	// ComputationError means the vector field raised a fault or produced a
	// non-finite derivative.
	ComputationError
	// InvalidParameters means a parameter assignment held a non-finite or
	// otherwise invalid scalar.
	InvalidParameters
	// InvalidTuning means a Driver or Sampler tuning knob was set outside its
	// valid domain (tolerance <= 0, stepsize == 0, maxSteps == 0, ...).
	InvalidTuning
	// NoErrorEstimate means an adaptive solve was requested with a Stepper
	// that has no embedded error estimate.
	NoErrorEstimate
	// StepUnderflow means step shrinkage produced a step not representable
	// in floating point (cT + h == cT).
	StepUnderflow
	// StepTooSmall means the accepted step size fell below the configured
	// minimum step size.
	StepTooSmall
	// MaxIterationsExceeded means the adaptive outer loop exhausted its
	// iteration budget before reaching the target time.
	MaxIterationsExceeded
	// InvalidRequest covers malformed caller requests not covered above,
	// such as an out-of-range sample lookup.
	InvalidRequest
)

func (k Kind) String() string {
	switch k {
	case NoSystem:
		return "NoSystem"
	case NullSystem:
		return "NullSystem"
	case DimensionMismatch:
		return "DimensionMismatch"
	case ComputationError:
		return "ComputationError"
	case InvalidParameters:
		return "InvalidParameters"
	case InvalidTuning:
		return "InvalidTuning"
	case NoErrorEstimate:
		return "NoErrorEstimate"
	case StepUnderflow:
		return "StepUnderflow"
	case StepTooSmall:
		return "StepTooSmall"
	case MaxIterationsExceeded:
		return "MaxIterationsExceeded"
	case InvalidRequest:
		return "InvalidRequest"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the single error family raised by this package. Op names the
// operation that failed (e.g. "System.Derivatives", "Driver.SolveAdaptive").
type Error struct {
	Kind Kind
	Op   string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("ode: %s: %s: %v", e.Op, e.Kind, e.err)
	}
	return fmt.Sprintf("ode: %s: %s", e.Op, e.Kind)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.err }

// newErr builds an *Error whose cause is the formatted message.
func newErr(op string, kind Kind, format string, a ...interface{}) *Error {
	return &Error{Op: op, Kind: kind, err: fmt.Errorf(format, a...)}
}

// wrapErr builds an *Error from a recovered fault, attaching a stack trace
// via github.com/pkg/errors so the original panic value is not lost.
func wrapErr(op string, kind Kind, cause interface{}) *Error {
	var err error
	if e, ok := cause.(error); ok {
		err = errors.Wrap(e, "vector field fault")
	} else {
		err = errors.Errorf("vector field fault: %v", cause)
	}
	return &Error{Op: op, Kind: kind, err: err}
}

// IsKind reports whether err is an *Error of the given Kind.
func IsKind(err error, k Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == k
}
