package nodes

import (
	"fmt"
	"strings"
)

// LockType is a set of row locking flags requested by a SELECT.
type LockType int

const (
	LockEmpty  LockType = 0
	LockShared LockType = 1 << (iota - 1)
	LockUpdate
	LockExclusive
	LockSkipLocked
	LockThrowIfLocked
)

// Supports reports whether every flag in other is set in l.
func (l LockType) Supports(other LockType) bool { return l&other == other }

func (l LockType) String() string {
	if l == LockEmpty {
		return "Empty"
	}
	var parts []string
	for _, f := range []struct {
		flag LockType
		name string
	}{
		{LockShared, "Shared"},
		{LockUpdate, "Update"},
		{LockExclusive, "Exclusive"},
		{LockSkipLocked, "SkipLocked"},
		{LockThrowIfLocked, "ThrowIfLocked"},
	} {
		if l.Supports(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// Order is one ORDER BY item.
type Order struct {
	nodeBase
	Expression Expression
	Ascending  bool
}

// NewOrder creates an ORDER BY item.
func NewOrder(expr Expression, ascending bool) *Order {
	mustNotNil("expression", expr == nil)
	return &Order{nodeBase: nodeBase{NodeOrder}, Expression: expr, Ascending: ascending}
}

func (n *Order) Accept(v Visitor) { v.VisitOrder(n) }

func (n *Order) clone(c *CloneContext) Node {
	cl := &Order{nodeBase: n.nodeBase, Ascending: n.Ascending}
	c.register(n, cl)
	cl.Expression = cloneExpr(c, n.Expression)
	return cl
}

func cloneOrders(c *CloneContext, list []*Order) []*Order {
	out := make([]*Order, len(list))
	for i, o := range list {
		out[i] = c.Clone(o).(*Order)
	}
	return out
}

// Select is a SELECT statement.
type Select struct {
	stmtBase
	From     Table
	Columns  []Expression
	GroupBy  []Expression
	OrderBy  []*Order
	Distinct bool
	Limit    Expression
	Offset   Expression
	Lock     LockType
	where    Expression
	having   Expression
}

// NewSelect creates SELECT ... FROM from. from may be nil.
func NewSelect(from Table) *Select {
	return &Select{
		stmtBase: stmtBase{nodeBase{NodeSelect}},
		From:     from,
		Columns:  []Expression{},
		GroupBy:  []Expression{},
		OrderBy:  []*Order{},
	}
}

// Where returns the WHERE predicate.
func (n *Select) Where() Expression { return n.where }

// SetWhere replaces the WHERE predicate. It fails if e is not boolean.
func (n *Select) SetWhere(e Expression) error {
	if err := ensurePredicate("where", e); err != nil {
		return err
	}
	n.where = e
	return nil
}

// Having returns the HAVING predicate.
func (n *Select) Having() Expression { return n.having }

// SetHaving replaces the HAVING predicate. It fails if e is not boolean.
func (n *Select) SetHaving(e Expression) error {
	if err := ensurePredicate("having", e); err != nil {
		return err
	}
	n.having = e
	return nil
}

// HasPaging reports whether the query carries a limit or an offset.
func (n *Select) HasPaging() bool { return n.Limit != nil || n.Offset != nil }

func (n *Select) Accept(v Visitor) { v.VisitSelect(n) }
func (*Select) query()             {}

func (n *Select) clone(c *CloneContext) Node {
	cl := &Select{stmtBase: n.stmtBase, Distinct: n.Distinct, Lock: n.Lock}
	c.register(n, cl)
	cl.From = cloneTable(c, n.From)
	cl.Columns = cloneExprs(c, n.Columns)
	cl.GroupBy = cloneExprs(c, n.GroupBy)
	cl.OrderBy = cloneOrders(c, n.OrderBy)
	cl.Limit = cloneExpr(c, n.Limit)
	cl.Offset = cloneExpr(c, n.Offset)
	cl.where = cloneExpr(c, n.where)
	cl.having = cloneExpr(c, n.having)
	return cl
}

// SetOperation combines two queries with UNION, UNION ALL, INTERSECT or
// EXCEPT; its NodeType is the operator.
type SetOperation struct {
	stmtBase
	Left    Query
	Right   Query
	OrderBy []*Order
	Limit   Expression
	Offset  Expression
}

// NewSetOperation creates left <op> right.
func NewSetOperation(op NodeType, left, right Query) *SetOperation {
	if !op.IsSetOperator() {
		panic(fmt.Sprintf("sqldom: %s is not a set operator", op))
	}
	mustNotNil("left", left == nil)
	mustNotNil("right", right == nil)
	return &SetOperation{stmtBase: stmtBase{nodeBase{op}}, Left: left, Right: right, OrderBy: []*Order{}}
}

// Union creates left UNION right.
func Union(left, right Query) *SetOperation { return NewSetOperation(OpUnion, left, right) }

// UnionAll creates left UNION ALL right.
func UnionAll(left, right Query) *SetOperation { return NewSetOperation(OpUnionAll, left, right) }

// Intersect creates left INTERSECT right.
func Intersect(left, right Query) *SetOperation { return NewSetOperation(OpIntersect, left, right) }

// Except creates left EXCEPT right.
func Except(left, right Query) *SetOperation { return NewSetOperation(OpExcept, left, right) }

func (n *SetOperation) Accept(v Visitor) { v.VisitSetOperation(n) }
func (*SetOperation) query()             {}

func (n *SetOperation) clone(c *CloneContext) Node {
	cl := &SetOperation{stmtBase: n.stmtBase}
	c.register(n, cl)
	cl.Left = cloneQuery(c, n.Left)
	cl.Right = cloneQuery(c, n.Right)
	cl.OrderBy = cloneOrders(c, n.OrderBy)
	cl.Limit = cloneExpr(c, n.Limit)
	cl.Offset = cloneExpr(c, n.Offset)
	return cl
}
