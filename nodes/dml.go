package nodes

import (
	"fmt"

	"github.com/bawdo/sqldom/sqlerr"
)

// Insert is an INSERT statement. With no columns, rows or source query it
// renders as INSERT ... DEFAULT VALUES.
type Insert struct {
	stmtBase
	Into    *TableRef
	Columns []*Column
	Rows    [][]Expression
	From    Query
}

// NewInsert creates INSERT INTO into.
func NewInsert(into *TableRef, columns ...*Column) *Insert {
	mustNotNil("into", into == nil)
	if columns == nil {
		columns = []*Column{}
	}
	return &Insert{stmtBase: stmtBase{nodeBase{NodeInsert}}, Into: into, Columns: columns, Rows: [][]Expression{}}
}

// AddRow appends a VALUES row. The row must have one value per column.
func (n *Insert) AddRow(values ...Expression) error {
	if n.From != nil {
		return sqlerr.Argument("values", "insert already reads from a query")
	}
	if len(values) != len(n.Columns) {
		return sqlerr.Argument("values", fmt.Sprintf("got %d values for %d columns", len(values), len(n.Columns)))
	}
	for i, v := range values {
		if v == nil {
			return sqlerr.Argument(fmt.Sprintf("values[%d]", i), "must not be nil")
		}
	}
	n.Rows = append(n.Rows, values)
	return nil
}

// SetSource makes the insert read its rows from q.
func (n *Insert) SetSource(q Query) error {
	if len(n.Rows) > 0 {
		return sqlerr.Argument("source", "insert already has VALUES rows")
	}
	n.From = q
	return nil
}

// IsDefaultValues reports whether the insert has nothing to insert but
// the column defaults.
func (n *Insert) IsDefaultValues() bool {
	return len(n.Columns) == 0 && len(n.Rows) == 0 && n.From == nil
}

func (n *Insert) Accept(v Visitor) { v.VisitInsert(n) }

func (n *Insert) clone(c *CloneContext) Node {
	cl := &Insert{stmtBase: n.stmtBase}
	c.register(n, cl)
	cl.Into = cloneTableRef(c, n.Into)
	cl.Columns = make([]*Column, len(n.Columns))
	for i, col := range n.Columns {
		cl.Columns[i] = cloneColumn(c, col)
	}
	cl.Rows = make([][]Expression, len(n.Rows))
	for i, row := range n.Rows {
		cl.Rows[i] = cloneExprs(c, row)
	}
	cl.From = cloneQuery(c, n.From)
	return cl
}

// Assignment is one SET column = value item of an UPDATE.
type Assignment struct {
	Column *Column
	Value  Expression
}

// Update is an UPDATE statement.
type Update struct {
	stmtBase
	Table       *TableRef
	Assignments []Assignment
	From        Table
	Limit       Expression
	where       Expression
}

// NewUpdate creates UPDATE table.
func NewUpdate(table *TableRef) *Update {
	mustNotNil("table", table == nil)
	return &Update{stmtBase: stmtBase{nodeBase{NodeUpdate}}, Table: table, Assignments: []Assignment{}}
}

// Set appends column = value and returns the receiver for chaining.
func (n *Update) Set(col *Column, value any) *Update {
	mustNotNil("column", col == nil)
	n.Assignments = append(n.Assignments, Assignment{Column: col, Value: Value(value)})
	return n
}

// Where returns the WHERE predicate.
func (n *Update) Where() Expression { return n.where }

// SetWhere replaces the WHERE predicate. A cursor gives WHERE CURRENT OF.
func (n *Update) SetWhere(e Expression) error {
	if err := ensurePredicate("where", e); err != nil {
		return err
	}
	n.where = e
	return nil
}

func (n *Update) Accept(v Visitor) { v.VisitUpdate(n) }

func (n *Update) clone(c *CloneContext) Node {
	cl := &Update{stmtBase: n.stmtBase}
	c.register(n, cl)
	cl.Table = cloneTableRef(c, n.Table)
	cl.Assignments = make([]Assignment, len(n.Assignments))
	for i, a := range n.Assignments {
		cl.Assignments[i] = Assignment{Column: cloneColumn(c, a.Column), Value: cloneExpr(c, a.Value)}
	}
	cl.From = cloneTable(c, n.From)
	cl.Limit = cloneExpr(c, n.Limit)
	cl.where = cloneExpr(c, n.where)
	return cl
}

// Delete is a DELETE statement. From is an optional additional source for
// dialects that support joined deletes.
type Delete struct {
	stmtBase
	Table *TableRef
	From  Table
	Limit Expression
	where Expression
}

// NewDelete creates DELETE FROM table.
func NewDelete(table *TableRef) *Delete {
	mustNotNil("table", table == nil)
	return &Delete{stmtBase: stmtBase{nodeBase{NodeDelete}}, Table: table}
}

// Where returns the WHERE predicate.
func (n *Delete) Where() Expression { return n.where }

// SetWhere replaces the WHERE predicate. A cursor gives WHERE CURRENT OF.
func (n *Delete) SetWhere(e Expression) error {
	if err := ensurePredicate("where", e); err != nil {
		return err
	}
	n.where = e
	return nil
}

func (n *Delete) Accept(v Visitor) { v.VisitDelete(n) }

func (n *Delete) clone(c *CloneContext) Node {
	cl := &Delete{stmtBase: n.stmtBase}
	c.register(n, cl)
	cl.Table = cloneTableRef(c, n.Table)
	cl.From = cloneTable(c, n.From)
	cl.Limit = cloneExpr(c, n.Limit)
	cl.where = cloneExpr(c, n.where)
	return cl
}

// Batch is a sequence of statements compiled into one command text.
type Batch struct {
	stmtBase
	Statements []Statement
}

// NewBatch creates a batch.
func NewBatch(statements ...Statement) *Batch {
	for i, s := range statements {
		mustNotNil(fmt.Sprintf("statements[%d]", i), s == nil)
	}
	if statements == nil {
		statements = []Statement{}
	}
	return &Batch{stmtBase: stmtBase{nodeBase{NodeBatch}}, Statements: statements}
}

// Add appends a statement.
func (n *Batch) Add(s Statement) {
	mustNotNil("statement", s == nil)
	n.Statements = append(n.Statements, s)
}

func (n *Batch) Accept(v Visitor) { v.VisitBatch(n) }

func (n *Batch) clone(c *CloneContext) Node {
	cl := &Batch{stmtBase: n.stmtBase}
	c.register(n, cl)
	cl.Statements = make([]Statement, len(n.Statements))
	for i, s := range n.Statements {
		cl.Statements[i] = c.Clone(s).(Statement)
	}
	return cl
}
