package ode

import (
	"math"
)

// VectorField is a user-supplied f(x, t) -> dx/dt, optionally reading named
// scalar parameters. It must return a slice of the same length as x.
// Implementations may panic (e.g. via Params.Get on an undefined name, or
// an out-of-range index into x); System.Derivatives recovers any such panic
// and reports it as a ComputationError, so a VectorField need not guard
// against its own programming errors.
type VectorField func(x []float64, t float64, p Params) []float64

// System wraps a VectorField with its fixed state dimension and parameter
// set. A System has no observable side effects: Derivatives never mutates
// its inputs or the System itself, and SetParameters replaces the
// parameter mapping wholesale rather than merging into it.
type System struct {
	n      int
	f      VectorField
	params Params
}

// NewSystem builds a System of dimension n (n must be >= 1) around f, with
// an initial parameter set (nil or empty is fine).
func NewSystem(n int, f VectorField, params map[string]float64) (*System, error) {
	const op = "NewSystem"
	if n < 1 {
		return nil, newErr(op, InvalidRequest, "dimension must be >= 1, got %d", n)
	}
	if f == nil {
		return nil, newErr(op, InvalidRequest, "vector field must not be nil")
	}
	p := NewParams(params)
	if bad, ok := p.validate(); !ok {
		return nil, newErr(op, InvalidParameters, "parameter %q is not finite", bad)
	}
	return &System{n: n, f: f, params: p}, nil
}

// Dimension returns n, the fixed length of state and derivative vectors.
// It never changes over a System's lifetime.
func (s *System) Dimension() int { return s.n }

// Derivatives evaluates f(x, t) and validates the result. It fails with
// DimensionMismatch if len(x) != Dimension(), and with ComputationError if
// f panics or returns a vector of the wrong length or containing a
// non-finite component. The returned slice is freshly allocated and owned
// by the caller; x is never mutated.
func (s *System) Derivatives(x []float64, t float64) (dx []float64, err error) {
	const op = "System.Derivatives"
	if s == nil {
		return nil, newErr(op, NullSystem, "system is nil")
	}
	if len(x) != s.n {
		return nil, newErr(op, DimensionMismatch, "state has length %d, want %d", len(x), s.n)
	}

	defer func() {
		if r := recover(); r != nil {
			dx = nil
			err = wrapErr(op, ComputationError, r)
		}
	}()

	out := s.f(x, t, s.params)
	if len(out) != s.n {
		return nil, newErr(op, ComputationError, "vector field returned length %d, want %d", len(out), s.n)
	}
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, newErr(op, ComputationError, "component %d of derivative is non-finite (%v)", i, v)
		}
	}
	dx = make([]float64, s.n)
	copy(dx, out)
	return dx, nil
}

// SetParameters validates and replaces the parameter set wholesale (a
// shallow copy of the scalar values). Previously-produced derivative
// vectors are unaffected. It fails with InvalidParameters if any value is
// non-finite.
func (s *System) SetParameters(m map[string]float64) error {
	const op = "System.SetParameters"
	p := NewParams(m)
	if bad, ok := p.validate(); !ok {
		return newErr(op, InvalidParameters, "parameter %q is not finite", bad)
	}
	s.params = p
	return nil
}

// Parameters returns a copy of the current parameter mapping.
func (s *System) Parameters() map[string]float64 {
	return s.params.Map()
}
