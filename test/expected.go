// Package test collects small assertion helpers shared by this module's
// package-level tests. It deliberately has no dependency beyond the standard
// library.
package test

import (
	"math"
	"reflect"
	"testing"
)

// isFailure mirrors the conventions used throughout this module for
// "did this operation succeed": a bool that is false or a non-nil error is
// a failure; true, a nil error and nil are successes.
func isFailure(v interface{}) bool {
	switch v := v.(type) {
	case bool:
		return !v
	case error:
		return v != nil
	case nil:
		return false
	default:
		return false
	}
}

// ExpectFailure fails the test if v does not represent a failure (false, or
// a non-nil error).
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	if !isFailure(v) {
		t.Errorf("expected failure, got %v", v)
	}
}

// ExpectSuccess fails the test if v does not represent a success (true, a
// nil error, or nil).
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	if isFailure(v) {
		t.Errorf("expected success, got %v", v)
	}
}

// ExpectEquality fails the test if a and b are not deeply equal.
func ExpectEquality(t *testing.T, a, b interface{}) {
	t.Helper()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected equality: %v != %v", a, b)
	}
}

// Equate is an alias for ExpectEquality, used throughout this module's
// tests in preference to the longer name.
func Equate(t *testing.T, a, b interface{}) {
	t.Helper()
	ExpectEquality(t, a, b)
}

// ExpectInequality fails the test if a and b are deeply equal.
func ExpectInequality(t *testing.T, a, b interface{}) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		t.Errorf("expected inequality: %v == %v", a, b)
	}
}

// ExpectApproximate fails the test if a and b differ by more than delta.
func ExpectApproximate(t *testing.T, a, b float64, delta float64) {
	t.Helper()
	if math.Abs(a-b) > delta {
		t.Errorf("expected %v to be within %v of %v", a, delta, b)
	}
}
