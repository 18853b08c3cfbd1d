// Package rkvec collects the elementwise vector arithmetic the Runge-Kutta
// steppers need to build stage vectors and combine them into a solution.
// It is a generalization of the teacher lineage's state/arithmetic.go,
// lowered from a named, symbol-keyed State to plain []float64 since this
// package's state vectors are unnamed (fixed dimension n, no per-component
// identity) — and thinned down to a handful of operations. The elementwise
// operations wrap gonum/floats; the two reductions used by step-size
// control and the sampler (SupNormErrorRatio, MaxAbsDiff) are plain loops.
package rkvec

import "gonum.org/v1/gonum/floats"

// Add performs dst += s elementwise. Panics if lengths differ.
func Add(dst, s []float64) {
	floats.Add(dst, s)
}

// AddScaled performs dst += alpha*s elementwise. Panics if lengths differ.
func AddScaled(dst []float64, alpha float64, s []float64) {
	floats.AddScaled(dst, alpha, s)
}

// AddScaledTo performs dst = y + alpha*s elementwise, returning dst.
// Panics if lengths differ.
func AddScaledTo(dst, y []float64, alpha float64, s []float64) []float64 {
	return floats.AddScaledTo(dst, y, alpha, s)
}

// SubTo performs dst = s - t elementwise, returning dst. Panics if lengths differ.
func SubTo(dst, s, t []float64) []float64 {
	return floats.SubTo(dst, s, t)
}

// Scale multiplies every element of dst by c.
func Scale(c float64, dst []float64) {
	floats.Scale(c, dst)
}

// Copy returns a fresh copy of s.
func Copy(s []float64) []float64 {
	cp := make([]float64, len(s))
	copy(cp, s)
	return cp
}

// SupNormErrorRatio computes the maximum, over components, of
// |errX[i]| / (|x[i]| + |h*dx[i]| + tau), the mixed absolute/relative
// error scale used by embedded-error step-size control.
func SupNormErrorRatio(errX, x, dx []float64, h, tau float64) float64 {
	max := 0.0
	for i := range errX {
		scale := abs(x[i]) + abs(h*dx[i]) + tau
		ratio := abs(errX[i]) / scale
		if ratio > max {
			max = ratio
		}
	}
	return max
}

// MaxAbsDiff returns the sup-norm (max absolute component) of a-b.
// Panics if lengths differ.
func MaxAbsDiff(a, b []float64) float64 {
	max := 0.0
	for i := range a {
		d := abs(a[i] - b[i])
		if d > max {
			max = d
		}
	}
	return max
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
