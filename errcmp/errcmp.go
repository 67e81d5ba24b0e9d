// errcmp is a dbentry package to compare errors in tests by message substrings.
//
// An empty expectation means "no error", so table driven tests can share one assertion for both
// the happy and the failure paths.
package errcmp

import (
	"strings"
	"testing"
)

// Match reports whether err matches the expected substring.
// An empty expected string matches only a nil error.
func Match(err error, expected string) bool {
	if expected == "" {
		return err == nil
	}
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), expected)
}

// MustMatch fails the test immediately if err does not match expected.
func MustMatch(t testing.TB, err error, expected string) {
	t.Helper()
	if Match(err, expected) {
		return
	}
	if expected == "" {
		t.Fatalf("expected no error, got %v", err)
	}
	t.Fatalf("expected error matching %q, got %v", expected, err)
}

// ShouldMatch is MustMatch without stopping the test.
func ShouldMatch(t testing.TB, err error, expected string) {
	t.Helper()
	if Match(err, expected) {
		return
	}
	if expected == "" {
		t.Errorf("expected no error, got %v", err)
		return
	}
	t.Errorf("expected error matching %q, got %v", expected, err)
}
