package nodes

// Predications provides comparison methods to expressions that embed it.
// The self field must be set to the embedding node so that comparisons
// reference the correct left-hand side.
type Predications struct {
	self Expression
}

// Eq creates an equality comparison: self = val.
func (p Predications) Eq(val any) *Binary { return NewBinary(OpEquals, p.self, Value(val)) }

// NotEq creates an inequality comparison: self <> val.
func (p Predications) NotEq(val any) *Binary { return NewBinary(OpNotEquals, p.self, Value(val)) }

// Gt creates a greater-than comparison: self > val.
func (p Predications) Gt(val any) *Binary { return NewBinary(OpGreaterThan, p.self, Value(val)) }

// GtEq creates a greater-than-or-equal comparison: self >= val.
func (p Predications) GtEq(val any) *Binary {
	return NewBinary(OpGreaterThanOrEquals, p.self, Value(val))
}

// Lt creates a less-than comparison: self < val.
func (p Predications) Lt(val any) *Binary { return NewBinary(OpLessThan, p.self, Value(val)) }

// LtEq creates a less-than-or-equal comparison: self <= val.
func (p Predications) LtEq(val any) *Binary {
	return NewBinary(OpLessThanOrEquals, p.self, Value(val))
}

// In creates self IN (vals...). A single Query argument becomes a subquery.
func (p Predications) In(vals ...any) *Binary {
	return NewBinary(OpIn, p.self, inOperand(vals))
}

// NotIn creates self NOT IN (vals...).
func (p Predications) NotIn(vals ...any) *Binary {
	return NewBinary(OpNotIn, p.self, inOperand(vals))
}

// Like creates self LIKE pattern.
func (p Predications) Like(pattern any) *Like { return NewLike(p.self, Value(pattern), nil, false) }

// NotLike creates self NOT LIKE pattern.
func (p Predications) NotLike(pattern any) *Like { return NewLike(p.self, Value(pattern), nil, true) }

// Between creates self BETWEEN low AND high.
func (p Predications) Between(low, high any) *Between {
	return NewBetween(p.self, Value(low), Value(high), false)
}

// IsNull creates self IS NULL.
func (p Predications) IsNull() *Unary { return NewUnary(OpIsNull, p.self) }

// IsNotNull creates self IS NOT NULL.
func (p Predications) IsNotNull() *Unary { return NewUnary(OpIsNotNull, p.self) }

// Asc orders by self ascending.
func (p Predications) Asc() *Order { return NewOrder(p.self, true) }

// Desc orders by self descending.
func (p Predications) Desc() *Order { return NewOrder(p.self, false) }

// As aliases self in a projection.
func (p Predications) As(alias string) *ColumnRef { return NewColumnRef(p.self, alias) }

func inOperand(vals []any) Expression {
	if len(vals) == 1 {
		if q, ok := vals[0].(Query); ok {
			return NewSubQuery(q)
		}
		if r, ok := vals[0].(*Row); ok {
			return r
		}
	}
	items := make([]Expression, len(vals))
	for i, v := range vals {
		items[i] = Value(v)
	}
	return NewRow(items...)
}

// Combinable provides logical chaining methods to boolean nodes that embed it.
// The self field must be set to the embedding node.
type Combinable struct {
	self Expression
}

// And creates self AND other.
func (c Combinable) And(other Expression) *Binary { return NewBinary(OpAnd, c.self, other) }

// Or creates self OR other.
func (c Combinable) Or(other Expression) *Binary { return NewBinary(OpOr, c.self, other) }

// Not creates NOT self.
func (c Combinable) Not() *Unary { return NewUnary(OpNot, c.self) }
