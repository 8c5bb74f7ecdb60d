package sqlite

import (
	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
)

// Compiler is the SQLite SQL generator.
type Compiler struct {
	*compiler.Compiler
}

// NewCompiler creates a compiler over t.
func NewCompiler(t *compiler.Translator) *Compiler {
	c := &Compiler{Compiler: compiler.New(t)}
	c.SetOuter(c)
	return c
}

// VisitCreateTable leaves out the primary key when an autoincrement column
// declares it inline.
func (c *Compiler) VisitCreateTable(n *nodes.CreateTable) {
	if !hasAutoincrement(n.Table) {
		c.Compiler.VisitCreateTable(n)
		return
	}
	constraints := make([]model.Constraint, 0, len(n.Table.Constraints))
	for _, con := range n.Table.Constraints {
		if _, ok := con.(*model.PrimaryKey); !ok {
			constraints = append(constraints, con)
		}
	}
	c.EmitCreateTable(n, constraints)
}

func hasAutoincrement(t *model.Table) bool {
	if t.PrimaryKey() == nil {
		return false
	}
	for _, col := range t.Columns.Items() {
		if col.SequenceDescriptor != nil {
			return true
		}
	}
	return false
}
