package nodes

import (
	"fmt"

	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/sqlerr"
)

// TableRef is a named table or view in FROM, optionally aliased. When
// DataTable is set the dialect renders the qualified name of the schema
// object; otherwise Name is used.
type TableRef struct {
	nodeBase
	DataTable model.Node
	Name      string
	Alias     string
	Columns   *TableColumnCollection
}

// NewTable creates a reference to a table known only by name.
func NewTable(name string, columns ...string) *TableRef {
	if name == "" {
		panicArgument("name", "must not be empty")
	}
	t := &TableRef{nodeBase: nodeBase{NodeTable}, Name: name}
	cols := make([]*Column, len(columns))
	for i, c := range columns {
		cols[i] = NewColumn(t, c)
	}
	t.Columns = NewTableColumnCollection(cols)
	return t
}

// NewTableRef creates a reference to a schema table or view. The column
// collection mirrors the object's columns.
func NewTableRef(obj model.Node, alias string) *TableRef {
	mustNotNil("table", obj == nil)
	t := &TableRef{nodeBase: nodeBase{NodeTable}, DataTable: obj, Name: obj.NodeDbName(), Alias: alias}
	var names []string
	switch o := obj.(type) {
	case *model.Table:
		for _, c := range o.Columns.Items() {
			names = append(names, c.NodeDbName())
		}
	case *model.View:
		names = o.Columns
	}
	cols := make([]*Column, len(names))
	for i, name := range names {
		cols[i] = NewColumn(t, name)
	}
	t.Columns = NewTableColumnCollection(cols)
	return t
}

// As returns an aliased copy of the reference with its own columns.
func (t *TableRef) As(alias string) *TableRef {
	out := &TableRef{nodeBase: t.nodeBase, DataTable: t.DataTable, Name: t.Name, Alias: alias}
	cols := make([]*Column, 0, t.Columns.Len())
	for _, c := range t.Columns.Items() {
		cols = append(cols, NewColumn(out, c.Name))
	}
	out.Columns = NewTableColumnCollection(cols)
	return out
}

// Col returns the declared column with the given name, or a new column
// bound to the table when none is declared.
func (t *TableRef) Col(name string) *Column {
	if c := t.Columns.Get(name); c != nil {
		return c
	}
	return NewColumn(t, name)
}

// Star returns table.*.
func (t *TableRef) Star() *Column { return NewColumn(t, "*") }

func (t *TableRef) Accept(v Visitor) { v.VisitTableRef(t) }
func (*TableRef) tableSource()       {}

func (t *TableRef) clone(c *CloneContext) Node {
	cl := &TableRef{nodeBase: t.nodeBase, DataTable: t.DataTable, Name: t.Name, Alias: t.Alias}
	c.register(t, cl)
	cols := make([]*Column, 0, t.Columns.Len())
	for _, col := range t.Columns.Items() {
		cols = append(cols, cloneColumn(c, col))
	}
	cl.Columns = NewTableColumnCollection(cols)
	return cl
}

// QueryRef uses a query as a derived table. An empty Alias is replaced by
// a generated one at compile time.
type QueryRef struct {
	nodeBase
	Query   Query
	Alias   string
	Columns *TableColumnCollection
}

// NewQueryRef wraps q as a derived table. Its columns are the names the
// query projects.
func NewQueryRef(q Query, alias string) *QueryRef {
	mustNotNil("query", q == nil)
	r := &QueryRef{nodeBase: nodeBase{NodeQueryRef}, Query: q, Alias: alias}
	var cols []*Column
	if s, ok := q.(*Select); ok {
		for _, e := range s.Columns {
			if name := projectedName(e); name != "" {
				cols = append(cols, NewColumn(r, name))
			}
		}
	}
	r.Columns = NewTableColumnCollection(cols)
	return r
}

func projectedName(e Expression) string {
	switch x := e.(type) {
	case *Column:
		if !x.IsStar() {
			return x.Name
		}
	case *ColumnRef:
		return x.Alias
	}
	return ""
}

// Col returns the projected column with the given name, or a new column
// bound to the derived table.
func (r *QueryRef) Col(name string) *Column {
	if c := r.Columns.Get(name); c != nil {
		return c
	}
	return NewColumn(r, name)
}

func (r *QueryRef) Accept(v Visitor) { v.VisitQueryRef(r) }
func (*QueryRef) tableSource()       {}

func (r *QueryRef) clone(c *CloneContext) Node {
	cl := &QueryRef{nodeBase: r.nodeBase, Alias: r.Alias}
	c.register(r, cl)
	cl.Query = cloneQuery(c, r.Query)
	cols := make([]*Column, 0, r.Columns.Len())
	for _, col := range r.Columns.Items() {
		cols = append(cols, cloneColumn(c, col))
	}
	cl.Columns = NewTableColumnCollection(cols)
	return cl
}

// JoinType represents the type of SQL JOIN.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
	CrossJoin
	CrossApply
	OuterApply
)

// String returns the display name for this join type.
func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "INNER JOIN"
	case LeftOuterJoin:
		return "LEFT OUTER JOIN"
	case RightOuterJoin:
		return "RIGHT OUTER JOIN"
	case FullOuterJoin:
		return "FULL OUTER JOIN"
	case CrossJoin:
		return "CROSS JOIN"
	case CrossApply:
		return "CROSS APPLY"
	case OuterApply:
		return "OUTER APPLY"
	default:
		return fmt.Sprintf("JoinType(%d)", int(t))
	}
}

// HasCondition reports whether joins of this type take an ON clause.
func (t JoinType) HasCondition() bool {
	return t == InnerJoin || t == LeftOuterJoin || t == RightOuterJoin || t == FullOuterJoin
}

// JoinMethod is a physical join hint.
type JoinMethod int

const (
	JoinMethodDefault JoinMethod = iota
	JoinMethodHash
	JoinMethodMerge
	JoinMethodLoop
	JoinMethodRemote
)

func (m JoinMethod) String() string {
	switch m {
	case JoinMethodDefault:
		return "Default"
	case JoinMethodHash:
		return "Hash"
	case JoinMethodMerge:
		return "Merge"
	case JoinMethodLoop:
		return "Loop"
	case JoinMethodRemote:
		return "Remote"
	}
	return fmt.Sprintf("JoinMethod(%d)", int(m))
}

// JoinedTable joins two table sources.
type JoinedTable struct {
	nodeBase
	JoinType  JoinType
	Method    JoinMethod
	Left      Table
	Right     Table
	condition Expression
}

// NewJoin creates left <type> right ON on. Cross joins and APPLY take no
// condition; on must then be nil.
func NewJoin(typ JoinType, left, right Table, on Expression) (*JoinedTable, error) {
	mustNotNil("left", left == nil)
	mustNotNil("right", right == nil)
	j := &JoinedTable{nodeBase: nodeBase{NodeJoin}, JoinType: typ, Left: left, Right: right}
	if err := j.SetCondition(on); err != nil {
		return nil, err
	}
	return j, nil
}

// Condition returns the ON predicate.
func (j *JoinedTable) Condition() Expression { return j.condition }

// SetCondition replaces the ON predicate after checking that it is boolean.
func (j *JoinedTable) SetCondition(on Expression) error {
	if on != nil && !j.JoinType.HasCondition() {
		return sqlerr.Argument("on", j.JoinType.String()+" takes no condition")
	}
	if err := ensurePredicate("on", on); err != nil {
		return err
	}
	j.condition = on
	return nil
}

func (j *JoinedTable) Accept(v Visitor) { v.VisitJoinedTable(j) }
func (*JoinedTable) tableSource()       {}

func (j *JoinedTable) clone(c *CloneContext) Node {
	cl := &JoinedTable{nodeBase: j.nodeBase, JoinType: j.JoinType, Method: j.Method}
	c.register(j, cl)
	cl.Left = cloneTable(c, j.Left)
	cl.Right = cloneTable(c, j.Right)
	cl.condition = cloneExpr(c, j.condition)
	return cl
}
