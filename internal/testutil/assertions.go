package testutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
)

// CompileFunc renders a statement to SQL text.
type CompileFunc func(nodes.Statement) (string, error)

// AssertEqual checks that got == want and reports a descriptive error if not.
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("expected:\n  %v\ngot:\n  %v", want, got)
	}
}

// AssertSQL compiles stmt and compares the text with the expected string.
func AssertSQL(t *testing.T, compile CompileFunc, stmt nodes.Statement, expected string) {
	t.Helper()
	got, err := compile(stmt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != expected {
		t.Errorf("expected:\n  %s\ngot:\n  %s", expected, got)
	}
}

// AssertNotSupported compiles stmt and expects a not supported error that
// names construct.
func AssertNotSupported(t *testing.T, compile CompileFunc, stmt nodes.Statement, construct string) {
	t.Helper()
	_, err := compile(stmt)
	var ns *sqlerr.NotSupportedError
	if !errors.As(err, &ns) {
		t.Fatalf("expected not supported error, got %v", err)
	}
	if ns.Construct != construct {
		t.Errorf("expected %q to be rejected, got %q", construct, ns.Construct)
	}
}

// AssertNoError fails the test if err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error but got nil")
	}
}

// AssertErrorIs fails the test unless errors.Is(err, target).
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected error matching %v, got %v", target, err)
	}
}

// AssertContains fails the test unless s contains substr.
func AssertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}
