package ode

import (
	"errors"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := newErr("Driver.SolveFixed", InvalidTuning, "stepsize must be nonzero")
	want := "ode: Driver.SolveFixed: InvalidTuning: stepsize must be nonzero"
	if err.Error() != want {
		t.Errorf("want %q, got %q", want, err.Error())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := wrapErr("System.Derivatives", ComputationError, cause)
	if !errors.Is(err, err) {
		t.Fatal("errors.Is should match itself")
	}
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is should reach the cause through Unwrap")
	}
	var target *Error
	if !errors.As(err, &target) {
		t.Fatal("errors.As should find the *Error")
	}
	if target.Kind != ComputationError {
		t.Errorf("want ComputationError, got %v", target.Kind)
	}
}

func TestIsKind(t *testing.T) {
	err := newErr("op", StepUnderflow, "underflow")
	if !IsKind(err, StepUnderflow) {
		t.Error("IsKind should match the exact Kind")
	}
	if IsKind(err, StepTooSmall) {
		t.Error("IsKind should not match a different Kind")
	}
	if IsKind(errors.New("plain"), StepUnderflow) {
		t.Error("IsKind should be false for a non-*Error")
	}
}
