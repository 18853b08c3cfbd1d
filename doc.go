// Package ode solves initial value problems for systems of first-order
// ordinary differential equations dx/dt = f(x, t) where x is a real vector
// of fixed dimension and f may depend on a named set of scalar parameters.
//
// The entry points are System, which wraps a user-supplied vector field,
// Driver, which marches a System forward in time with a chosen Stepper
// (Euler, classic RK4, or one of the embedded Runge-Kutta pairs), and
// GetSolutionAtPoints, which samples a trajectory over an interval while
// bounding the displacement between consecutive samples.
package ode
