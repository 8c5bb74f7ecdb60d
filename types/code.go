package types

import (
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Code classifies a Go type into the categories used for DDL type mapping.
type Code int

const (
	CodeObject Code = iota
	CodeBoolean
	CodeSByte
	CodeByte
	CodeInt16
	CodeUInt16
	CodeInt32
	CodeUInt32
	CodeInt64
	CodeUInt64
	CodeSingle
	CodeDouble
	CodeDecimal
	CodeString
	CodeDateTime
	CodeTimeSpan
	CodeGuid
)

var codeNames = [...]string{
	CodeObject:   "Object",
	CodeBoolean:  "Boolean",
	CodeSByte:    "SByte",
	CodeByte:     "Byte",
	CodeInt16:    "Int16",
	CodeUInt16:   "UInt16",
	CodeInt32:    "Int32",
	CodeUInt32:   "UInt32",
	CodeInt64:    "Int64",
	CodeUInt64:   "UInt64",
	CodeSingle:   "Single",
	CodeDouble:   "Double",
	CodeDecimal:  "Decimal",
	CodeString:   "String",
	CodeDateTime: "DateTime",
	CodeTimeSpan: "TimeSpan",
	CodeGuid:     "Guid",
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return "Object"
	}
	return codeNames[c]
}

var (
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
	ratType      = reflect.TypeFor[big.Rat]()
	floatType    = reflect.TypeFor[big.Float]()
)

// CodeOf classifies t. Pointers are classified by their element type.
// time.Duration is a TimeSpan even though its kind is int64.
func CodeOf(t reflect.Type) Code {
	if t == nil {
		return CodeObject
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case durationType:
		return CodeTimeSpan
	case timeType:
		return CodeDateTime
	case uuidType:
		return CodeGuid
	case ratType, floatType:
		return CodeDecimal
	}
	switch t.Kind() {
	case reflect.Bool:
		return CodeBoolean
	case reflect.Int8:
		return CodeSByte
	case reflect.Uint8:
		return CodeByte
	case reflect.Int16:
		return CodeInt16
	case reflect.Uint16:
		return CodeUInt16
	case reflect.Int32:
		return CodeInt32
	case reflect.Uint32:
		return CodeUInt32
	case reflect.Int, reflect.Int64:
		return CodeInt64
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return CodeUInt64
	case reflect.Float32:
		return CodeSingle
	case reflect.Float64:
		return CodeDouble
	case reflect.String:
		return CodeString
	}
	return CodeObject
}

// SqlTypeOf returns the abstract SqlType for a code.
func SqlTypeOf(c Code) SqlType {
	switch c {
	case CodeBoolean:
		return Boolean
	case CodeSByte:
		return Int8
	case CodeByte:
		return UInt8
	case CodeInt16:
		return Int16
	case CodeUInt16:
		return UInt16
	case CodeInt32:
		return Int32
	case CodeUInt32:
		return UInt32
	case CodeInt64:
		return Int64
	case CodeUInt64:
		return UInt64
	case CodeSingle:
		return Float
	case CodeDouble:
		return Double
	case CodeDecimal:
		return Decimal
	case CodeString:
		return VarCharMax
	case CodeDateTime:
		return DateTime
	case CodeTimeSpan:
		return Interval
	case CodeGuid:
		return Guid
	}
	return Unknown
}
