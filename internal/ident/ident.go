// Package ident folds identifiers for case-insensitive lookup.
package ident

import "golang.org/x/text/cases"

// Fold returns the case-folded form of name. Folded strings compare equal
// exactly when the identifiers match ignoring case.
func Fold(name string) string {
	return cases.Fold().String(name)
}

// Equal reports whether a and b name the same identifier.
func Equal(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return Fold(a) == Fold(b)
}
