package nodes

import (
	"github.com/bawdo/sqldom/model"
)

// Value wraps a Go value as an expression. Expressions are returned as-is
// and nil becomes NULL.
func Value(v any) Expression {
	switch x := v.(type) {
	case nil:
		return NewNull()
	case Expression:
		return x
	case Query:
		return NewSubQuery(x)
	}
	return NewLiteral(v)
}

// Literal is a constant value rendered by the dialect's literal rules.
type Literal struct {
	exprBase
	Predications
	Combinable
	Value any
}

// NewLiteral creates a literal.
func NewLiteral(v any) *Literal {
	n := &Literal{exprBase: exprBase{nodeBase{NodeLiteral}}, Value: v}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *Literal) Accept(v Visitor) { v.VisitLiteral(n) }

func (n *Literal) clone(c *CloneContext) Node {
	cl := NewLiteral(n.Value)
	c.register(n, cl)
	return cl
}

// Null is the NULL keyword.
type Null struct{ exprBase }

// NewNull creates a NULL expression.
func NewNull() *Null { return &Null{exprBase{nodeBase{NodeNull}}} }

func (n *Null) Accept(v Visitor) { v.VisitNull(n) }

func (n *Null) clone(c *CloneContext) Node {
	cl := NewNull()
	c.register(n, cl)
	return cl
}

// Default is the DEFAULT keyword in INSERT and UPDATE values.
type Default struct{ exprBase }

// NewDefault creates a DEFAULT expression.
func NewDefault() *Default { return &Default{exprBase{nodeBase{NodeDefault}}} }

func (n *Default) Accept(v Visitor) { v.VisitDefault(n) }

func (n *Default) clone(c *CloneContext) Node {
	cl := NewDefault()
	c.register(n, cl)
	return cl
}

// Parameter is a bound parameter. Its value is either fixed or produced by
// Provider when the statement is executed. An empty Name lets the compiler
// generate one.
type Parameter struct {
	exprBase
	Predications
	Combinable
	Name     string
	Value    any
	Provider func() any
}

// NewParameter creates a parameter with a fixed value.
func NewParameter(name string, value any) *Parameter {
	n := &Parameter{exprBase: exprBase{nodeBase{NodeParameter}}, Name: name, Value: value}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

// NewDeferredParameter creates a parameter whose value is read from provider.
func NewDeferredParameter(name string, provider func() any) *Parameter {
	n := NewParameter(name, nil)
	n.Provider = provider
	return n
}

// Resolve returns the current value of the parameter.
func (n *Parameter) Resolve() any {
	if n.Provider != nil {
		return n.Provider()
	}
	return n.Value
}

func (n *Parameter) Accept(v Visitor) { v.VisitParameter(n) }

func (n *Parameter) clone(c *CloneContext) Node {
	cl := NewParameter(n.Name, n.Value)
	cl.Provider = n.Provider
	c.register(n, cl)
	return cl
}

// Native is raw SQL text emitted verbatim.
//
// SECURITY: Text is never escaped. Do not build it from user input.
type Native struct {
	exprBase
	Predications
	Combinable
	Text string
}

// NewNative creates a raw SQL fragment.
func NewNative(text string) *Native {
	n := &Native{exprBase: exprBase{nodeBase{NodeNative}}, Text: text}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *Native) Accept(v Visitor) { v.VisitNative(n) }

func (n *Native) clone(c *CloneContext) Node {
	cl := NewNative(n.Text)
	c.register(n, cl)
	return cl
}

// Cursor names a cursor for WHERE CURRENT OF.
type Cursor struct {
	exprBase
	Name string
}

// NewCursor creates a cursor reference.
func NewCursor(name string) *Cursor {
	return &Cursor{exprBase: exprBase{nodeBase{NodeCursor}}, Name: name}
}

func (n *Cursor) Accept(v Visitor) { v.VisitCursor(n) }

func (n *Cursor) clone(c *CloneContext) Node {
	cl := NewCursor(n.Name)
	c.register(n, cl)
	return cl
}

// NextValue reads the next value of a sequence.
type NextValue struct {
	exprBase
	Predications
	Sequence *model.Sequence
}

// NewNextValue creates a NEXT VALUE expression.
func NewNextValue(seq *model.Sequence) *NextValue {
	mustNotNil("sequence", seq == nil)
	n := &NextValue{exprBase: exprBase{nodeBase{NodeNextValue}}, Sequence: seq}
	n.Predications.self = n
	return n
}

func (n *NextValue) Accept(v Visitor) { v.VisitNextValue(n) }

func (n *NextValue) clone(c *CloneContext) Node {
	cl := NewNextValue(n.Sequence)
	c.register(n, cl)
	return cl
}

// Column references a column of a table source. A Name of "*" selects all
// columns; a nil Table leaves the reference unqualified.
type Column struct {
	exprBase
	Predications
	Combinable
	Table Table
	Name  string
}

// NewColumn creates a column reference bound to table.
func NewColumn(table Table, name string) *Column {
	n := &Column{exprBase: exprBase{nodeBase{NodeColumn}}, Table: table, Name: name}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

// Star returns an unqualified *.
func Star() *Column { return NewColumn(nil, "*") }

// IsStar reports whether the column selects all columns.
func (n *Column) IsStar() bool { return n.Name == "*" }

func (n *Column) Accept(v Visitor) { v.VisitColumn(n) }

func (n *Column) clone(c *CloneContext) Node {
	cl := NewColumn(nil, n.Name)
	c.register(n, cl)
	cl.Table = cloneTable(c, n.Table)
	return cl
}

// ColumnRef gives a projected expression an alias.
type ColumnRef struct {
	exprBase
	Expression Expression
	Alias      string
}

// NewColumnRef creates expr AS alias.
func NewColumnRef(expr Expression, alias string) *ColumnRef {
	mustNotNil("expression", expr == nil)
	return &ColumnRef{exprBase: exprBase{nodeBase{NodeColumnRef}}, Expression: expr, Alias: alias}
}

func (n *ColumnRef) Accept(v Visitor) { v.VisitColumnRef(n) }

func (n *ColumnRef) clone(c *CloneContext) Node {
	cl := &ColumnRef{exprBase: n.exprBase, Alias: n.Alias}
	c.register(n, cl)
	cl.Expression = cloneExpr(c, n.Expression)
	return cl
}

// Row is a parenthesized expression list.
type Row struct {
	exprBase
	Items []Expression
}

// NewRow creates a row of items.
func NewRow(items ...Expression) *Row {
	if items == nil {
		items = []Expression{}
	}
	return &Row{exprBase: exprBase{nodeBase{NodeRow}}, Items: items}
}

func (n *Row) Accept(v Visitor) { v.VisitRow(n) }

func (n *Row) clone(c *CloneContext) Node {
	cl := &Row{exprBase: n.exprBase}
	c.register(n, cl)
	cl.Items = cloneExprs(c, n.Items)
	return cl
}

// SubQuery uses a query as an expression.
type SubQuery struct {
	exprBase
	Query Query
}

// NewSubQuery wraps q.
func NewSubQuery(q Query) *SubQuery {
	mustNotNil("query", q == nil)
	return &SubQuery{exprBase: exprBase{nodeBase{NodeSubSelect}}, Query: q}
}

func (n *SubQuery) Accept(v Visitor) { v.VisitSubQuery(n) }

func (n *SubQuery) clone(c *CloneContext) Node {
	cl := &SubQuery{exprBase: n.exprBase}
	c.register(n, cl)
	cl.Query = cloneQuery(c, n.Query)
	return cl
}
