package managers

import (
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/plugins"
	"github.com/bawdo/sqldom/sqlerr"
)

// InsertManager provides a fluent API for building INSERT statements.
type InsertManager struct {
	treeManager
	Statement *nodes.Insert
}

// NewInsertManager creates a new InsertManager targeting the given table.
func NewInsertManager(into *nodes.TableRef) *InsertManager {
	return &InsertManager{Statement: nodes.NewInsert(into)}
}

// Columns sets the column list. It must be called before Values.
func (m *InsertManager) Columns(cols ...*nodes.Column) *InsertManager {
	if len(m.Statement.Rows) > 0 {
		m.fail(sqlerr.Argument("columns", "values were added before the column list"))
		return m
	}
	m.Statement.Columns = cols
	return m
}

// Values appends a row. Go values become literals; expressions and
// parameters are used as given.
func (m *InsertManager) Values(vals ...any) *InsertManager {
	row := make([]nodes.Expression, len(vals))
	for i, v := range vals {
		row[i] = nodes.Value(v)
	}
	m.fail(m.Statement.AddRow(row...))
	return m
}

// FromSelect makes the insert read its rows from a query. The query is
// built with its own transformers first.
func (m *InsertManager) FromSelect(sel *SelectManager) *InsertManager {
	q, err := sel.Build()
	if err != nil {
		m.fail(err)
		return m
	}
	m.fail(m.Statement.SetSource(q))
	return m
}

// Use registers a transformer plugin.
func (m *InsertManager) Use(t plugins.Transformer) *InsertManager {
	m.addTransformer(t)
	return m
}

// Build returns a transformed copy of the statement.
func (m *InsertManager) Build() (*nodes.Insert, error) {
	if err := m.Err(); err != nil {
		return nil, err
	}
	ins := nodes.Clone(m.Statement)
	for _, t := range m.transformers {
		var err error
		if ins, err = t.TransformInsert(ins); err != nil {
			return nil, err
		}
	}
	return ins, nil
}

// ToSQL builds and compiles the statement.
func (m *InsertManager) ToSQL(c Compiler) (string, []any, error) {
	ins, err := m.Build()
	return toSQL(c, ins, err)
}
