package nodes

import (
	"fmt"

	"github.com/bawdo/sqldom/sqlerr"
)

// IsBoolean reports whether e can stand where a predicate is required.
// Parameters, raw SQL and user functions are accepted because their type
// is only known to the database.
func IsBoolean(e Expression) bool {
	switch n := e.(type) {
	case *Binary:
		switch n.typ {
		case OpEquals, OpNotEquals, OpGreaterThan, OpGreaterThanOrEquals,
			OpLessThan, OpLessThanOrEquals, OpAnd, OpOr, OpIn, OpNotIn, OpOverlaps:
			return true
		}
		return false
	case *Unary:
		switch n.typ {
		case OpNot, OpIsNull, OpIsNotNull, OpExists:
			return true
		}
		return false
	case *Between, *Like:
		return true
	case *Literal:
		_, ok := n.Value.(bool)
		return ok
	case *Parameter, *Native, *UserFunctionCall:
		return true
	case *Case:
		if len(n.Cases) == 0 {
			return false
		}
		for _, w := range n.Cases {
			if !IsBoolean(w.Then) {
				return false
			}
		}
		return n.Else == nil || IsBoolean(n.Else)
	}
	return false
}

// ensurePredicate validates a value assigned to a predicate slot. nil
// clears the slot and a cursor is accepted for WHERE CURRENT OF.
func ensurePredicate(param string, e Expression) error {
	if e == nil {
		return nil
	}
	if _, ok := e.(*Cursor); ok {
		return nil
	}
	if !IsBoolean(e) {
		return sqlerr.Argument(param, fmt.Sprintf("%s expression is not boolean", e.NodeType()))
	}
	return nil
}

func mustNotNil(param string, isNil bool) {
	if isNil {
		panicArgument(param, "must not be nil")
	}
}

func panicArgument(param, reason string) {
	panic(&sqlerr.ArgumentError{Param: param, Reason: reason})
}
