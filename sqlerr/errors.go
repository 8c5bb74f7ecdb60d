// Package sqlerr defines the error taxonomy shared by the node model, the
// compiler and the dialect translators.
//
// Construction-time validation failures are ArgumentErrors. Dialect
// limitations are NotSupportedErrors and planned gaps are
// NotImplementedErrors; callers distinguish them with errors.Is against
// the sentinel values.
package sqlerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a node built from values that can never be valid.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotSupported marks a construct the active dialect cannot express.
	ErrNotSupported = errors.New("not supported")
	// ErrNotImplemented marks a path that is planned but not written yet.
	ErrNotImplemented = errors.New("not implemented")
	// ErrSectionOutOfRange marks a section value a translator does not handle.
	ErrSectionOutOfRange = errors.New("section out of range")
)

// ArgumentError reports an invalid argument supplied while building a tree.
type ArgumentError struct {
	Param  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("sqldom: invalid argument %q: %s", e.Param, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// NotSupportedError carries the display name of the construct that the
// dialect rejected.
type NotSupportedError struct {
	Construct string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("sqldom: %s is not supported", e.Construct)
}

func (e *NotSupportedError) Unwrap() error { return ErrNotSupported }

// NotImplementedError names a feature that has no implementation yet.
type NotImplementedError struct {
	Feature string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("sqldom: %s is not implemented", e.Feature)
}

func (e *NotImplementedError) Unwrap() error { return ErrNotImplemented }

// SectionError reports a section value outside the set a node defines.
type SectionError struct {
	Section string
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("sqldom: section %s is out of range", e.Section)
}

func (e *SectionError) Unwrap() error { return ErrSectionOutOfRange }

// Argument builds an ArgumentError.
func Argument(param, reason string) error {
	return &ArgumentError{Param: param, Reason: reason}
}

// NotSupported builds a NotSupportedError for the named construct.
func NotSupported(construct string) error {
	return &NotSupportedError{Construct: construct}
}

// NotImplemented builds a NotImplementedError for the named feature.
func NotImplemented(feature string) error {
	return &NotImplementedError{Feature: feature}
}

// OutOfRange builds a SectionError.
func OutOfRange(section fmt.Stringer) error {
	return &SectionError{Section: section.String()}
}
