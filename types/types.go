// Package types describes SQL value types independently of any dialect and
// classifies Go values into the categories dialects map to DDL type names.
package types

import (
	"fmt"
	"strings"
)

// SqlType is the abstract type of a column, cast target or literal.
type SqlType int

const (
	Unknown SqlType = iota
	Boolean
	Int8
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Decimal
	Float
	Double
	DateTime
	DateTimeOffset
	Interval
	Char
	VarChar
	VarCharMax
	Binary
	VarBinary
	VarBinaryMax
	Guid
)

var sqlTypeNames = [...]string{
	Unknown:        "Unknown",
	Boolean:        "Boolean",
	Int8:           "Int8",
	UInt8:          "UInt8",
	Int16:          "Int16",
	UInt16:         "UInt16",
	Int32:          "Int32",
	UInt32:         "UInt32",
	Int64:          "Int64",
	UInt64:         "UInt64",
	Decimal:        "Decimal",
	Float:          "Float",
	Double:         "Double",
	DateTime:       "DateTime",
	DateTimeOffset: "DateTimeOffset",
	Interval:       "Interval",
	Char:           "Char",
	VarChar:        "VarChar",
	VarCharMax:     "VarCharMax",
	Binary:         "Binary",
	VarBinary:      "VarBinary",
	VarBinaryMax:   "VarBinaryMax",
	Guid:           "Guid",
}

func (t SqlType) String() string {
	if t < 0 || int(t) >= len(sqlTypeNames) {
		return fmt.Sprintf("SqlType(%d)", int(t))
	}
	return sqlTypeNames[t]
}

// IsNumeric reports whether t is an integer or fractional type.
func (t SqlType) IsNumeric() bool {
	return t >= Int8 && t <= Double
}

// IsInteger reports whether t is one of the integer widths.
func (t SqlType) IsInteger() bool {
	return t >= Int8 && t <= UInt64
}

// ValueType is a SqlType with its optional facets. A non-empty TypeName is
// a native type name that dialects emit verbatim.
type ValueType struct {
	Type      SqlType
	TypeName  string
	Length    int
	Precision int
	Scale     int
}

// Of returns a ValueType without facets.
func Of(t SqlType) ValueType { return ValueType{Type: t} }

// WithLength returns a character or binary type of the given length.
func WithLength(t SqlType, length int) ValueType {
	return ValueType{Type: t, Length: length}
}

// WithPrecision returns a numeric type with precision and scale.
func WithPrecision(t SqlType, precision, scale int) ValueType {
	return ValueType{Type: t, Precision: precision, Scale: scale}
}

// Native returns a ValueType carrying a dialect-specific type name.
func Native(name string) ValueType {
	return ValueType{Type: Unknown, TypeName: name}
}

func (v ValueType) String() string {
	if v.TypeName != "" {
		return v.TypeName
	}
	var b strings.Builder
	b.WriteString(v.Type.String())
	switch {
	case v.Length > 0:
		fmt.Fprintf(&b, "(%d)", v.Length)
	case v.Precision > 0:
		fmt.Fprintf(&b, "(%d,%d)", v.Precision, v.Scale)
	}
	return b.String()
}
