package nodes

import "fmt"

// Binary is an infix operator; its NodeType is the operator.
type Binary struct {
	exprBase
	Predications
	Combinable
	Left  Expression
	Right Expression
}

// NewBinary creates left <op> right. It panics if op is not a binary operator.
func NewBinary(op NodeType, left, right Expression) *Binary {
	if !op.IsBinaryOperator() {
		panic(fmt.Sprintf("sqldom: %s is not a binary operator", op))
	}
	mustNotNil("left", left == nil)
	mustNotNil("right", right == nil)
	n := &Binary{exprBase: exprBase{nodeBase{op}}, Left: left, Right: right}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *Binary) Accept(v Visitor) { v.VisitBinary(n) }

func (n *Binary) clone(c *CloneContext) Node {
	cl := &Binary{exprBase: n.exprBase}
	cl.Predications.self = cl
	cl.Combinable.self = cl
	c.register(n, cl)
	cl.Left = cloneExpr(c, n.Left)
	cl.Right = cloneExpr(c, n.Right)
	return cl
}

// Unary is a prefix or postfix operator; its NodeType is the operator.
type Unary struct {
	exprBase
	Combinable
	Operand Expression
}

// NewUnary creates <op> operand. It panics if op is not a unary operator.
func NewUnary(op NodeType, operand Expression) *Unary {
	if !op.IsUnaryOperator() {
		panic(fmt.Sprintf("sqldom: %s is not a unary operator", op))
	}
	mustNotNil("operand", operand == nil)
	n := &Unary{exprBase: exprBase{nodeBase{op}}, Operand: operand}
	n.Combinable.self = n
	return n
}

// IsPostfix reports whether the operator follows its operand (IS NULL).
func (n *Unary) IsPostfix() bool {
	return n.typ == OpIsNull || n.typ == OpIsNotNull
}

func (n *Unary) Accept(v Visitor) { v.VisitUnary(n) }

func (n *Unary) clone(c *CloneContext) Node {
	cl := &Unary{exprBase: n.exprBase}
	cl.Combinable.self = cl
	c.register(n, cl)
	cl.Operand = cloneExpr(c, n.Operand)
	return cl
}

// Between is expr [NOT] BETWEEN low AND high.
type Between struct {
	exprBase
	Combinable
	Expression Expression
	Low        Expression
	High       Expression
}

// NewBetween creates a range predicate.
func NewBetween(expr, low, high Expression, not bool) *Between {
	mustNotNil("expression", expr == nil)
	mustNotNil("low", low == nil)
	mustNotNil("high", high == nil)
	typ := NodeBetween
	if not {
		typ = NodeNotBetween
	}
	n := &Between{exprBase: exprBase{nodeBase{typ}}, Expression: expr, Low: low, High: high}
	n.Combinable.self = n
	return n
}

func (n *Between) Accept(v Visitor) { v.VisitBetween(n) }

func (n *Between) clone(c *CloneContext) Node {
	cl := &Between{exprBase: n.exprBase}
	cl.Combinable.self = cl
	c.register(n, cl)
	cl.Expression = cloneExpr(c, n.Expression)
	cl.Low = cloneExpr(c, n.Low)
	cl.High = cloneExpr(c, n.High)
	return cl
}

// Like is expr [NOT] LIKE pattern [ESCAPE escape].
type Like struct {
	exprBase
	Combinable
	Expression Expression
	Pattern    Expression
	Escape     Expression
	Not        bool
}

// NewLike creates a pattern match. escape may be nil.
func NewLike(expr, pattern, escape Expression, not bool) *Like {
	mustNotNil("expression", expr == nil)
	mustNotNil("pattern", pattern == nil)
	n := &Like{exprBase: exprBase{nodeBase{NodeLike}}, Expression: expr, Pattern: pattern, Escape: escape, Not: not}
	n.Combinable.self = n
	return n
}

func (n *Like) Accept(v Visitor) { v.VisitLike(n) }

func (n *Like) clone(c *CloneContext) Node {
	cl := &Like{exprBase: n.exprBase, Not: n.Not}
	cl.Combinable.self = cl
	c.register(n, cl)
	cl.Expression = cloneExpr(c, n.Expression)
	cl.Pattern = cloneExpr(c, n.Pattern)
	cl.Escape = cloneExpr(c, n.Escape)
	return cl
}

// And joins predicates with AND. It returns nil for no predicates.
func And(preds ...Expression) Expression { return fold(OpAnd, preds) }

// Or joins predicates with OR. It returns nil for no predicates.
func Or(preds ...Expression) Expression { return fold(OpOr, preds) }

func fold(op NodeType, preds []Expression) Expression {
	var out Expression
	for _, p := range preds {
		if p == nil {
			continue
		}
		if out == nil {
			out = p
			continue
		}
		out = NewBinary(op, out, p)
	}
	return out
}

// Not negates a predicate.
func Not(pred Expression) *Unary { return NewUnary(OpNot, pred) }

// Exists creates EXISTS (q).
func Exists(q Query) *Unary { return NewUnary(OpExists, NewSubQuery(q)) }

// Negate creates -expr.
func Negate(expr Expression) *Unary { return NewUnary(OpNegate, expr) }

// Equals creates left = right.
func Equals(left, right Expression) *Binary { return NewBinary(OpEquals, left, right) }

// Add creates left + right.
func Add(left, right Expression) *Binary { return NewBinary(OpAdd, left, right) }

// Subtract creates left - right.
func Subtract(left, right Expression) *Binary { return NewBinary(OpSubtract, left, right) }

// Multiply creates left * right.
func Multiply(left, right Expression) *Binary { return NewBinary(OpMultiply, left, right) }

// Divide creates left / right.
func Divide(left, right Expression) *Binary { return NewBinary(OpDivide, left, right) }

// Modulo creates left % right.
func Modulo(left, right Expression) *Binary { return NewBinary(OpModulo, left, right) }

// Concat creates left || right with the dialect's concatenation operator.
func Concat(left, right Expression) *Binary { return NewBinary(OpConcat, left, right) }
