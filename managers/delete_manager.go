package managers

import (
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/plugins"
)

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager struct {
	treeManager
	Statement *nodes.Delete
}

// NewDeleteManager creates a new DeleteManager targeting the given table.
func NewDeleteManager(from *nodes.TableRef) *DeleteManager {
	return &DeleteManager{Statement: nodes.NewDelete(from)}
}

// Where ANDs conditions into the WHERE clause.
func (m *DeleteManager) Where(conditions ...nodes.Expression) *DeleteManager {
	m.fail(m.Statement.SetWhere(and(m.Statement.Where(), conditions)))
	return m
}

// WhereCurrentOf deletes the row a cursor is positioned on.
func (m *DeleteManager) WhereCurrentOf(cursor string) *DeleteManager {
	m.fail(m.Statement.SetWhere(nodes.NewCursor(cursor)))
	return m
}

// Using adds a source table for dialects with joined deletes.
func (m *DeleteManager) Using(table nodes.Table) *DeleteManager {
	m.Statement.From = table
	return m
}

// Limit caps the number of rows deleted.
func (m *DeleteManager) Limit(n int) *DeleteManager {
	m.Statement.Limit = nodes.NewLiteral(n)
	return m
}

// Use registers a transformer plugin.
func (m *DeleteManager) Use(t plugins.Transformer) *DeleteManager {
	m.addTransformer(t)
	return m
}

// Build returns a transformed copy of the statement.
func (m *DeleteManager) Build() (*nodes.Delete, error) {
	if err := m.Err(); err != nil {
		return nil, err
	}
	del := nodes.Clone(m.Statement)
	for _, t := range m.transformers {
		var err error
		if del, err = t.TransformDelete(del); err != nil {
			return nil, err
		}
	}
	return del, nil
}

// ToSQL builds and compiles the statement.
func (m *DeleteManager) ToSQL(c Compiler) (string, []any, error) {
	del, err := m.Build()
	return toSQL(c, del, err)
}
