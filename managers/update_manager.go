package managers

import (
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/plugins"
)

// UpdateManager provides a fluent API for building UPDATE statements.
type UpdateManager struct {
	treeManager
	Statement *nodes.Update
}

// NewUpdateManager creates a new UpdateManager targeting the given table.
func NewUpdateManager(table *nodes.TableRef) *UpdateManager {
	return &UpdateManager{Statement: nodes.NewUpdate(table)}
}

// Set adds a column assignment to the SET clause.
// val can be a raw Go value or an expression.
func (m *UpdateManager) Set(col *nodes.Column, val any) *UpdateManager {
	m.Statement.Set(col, val)
	return m
}

// Where ANDs conditions into the WHERE clause.
func (m *UpdateManager) Where(conditions ...nodes.Expression) *UpdateManager {
	m.fail(m.Statement.SetWhere(and(m.Statement.Where(), conditions)))
	return m
}

// WhereCurrentOf updates the row a cursor is positioned on.
func (m *UpdateManager) WhereCurrentOf(cursor string) *UpdateManager {
	m.fail(m.Statement.SetWhere(nodes.NewCursor(cursor)))
	return m
}

// From adds a source table for dialects with joined updates.
func (m *UpdateManager) From(table nodes.Table) *UpdateManager {
	m.Statement.From = table
	return m
}

// Limit caps the number of rows updated.
func (m *UpdateManager) Limit(n int) *UpdateManager {
	m.Statement.Limit = nodes.NewLiteral(n)
	return m
}

// Use registers a transformer plugin.
func (m *UpdateManager) Use(t plugins.Transformer) *UpdateManager {
	m.addTransformer(t)
	return m
}

// Build returns a transformed copy of the statement.
func (m *UpdateManager) Build() (*nodes.Update, error) {
	if err := m.Err(); err != nil {
		return nil, err
	}
	upd := nodes.Clone(m.Statement)
	for _, t := range m.transformers {
		var err error
		if upd, err = t.TransformUpdate(upd); err != nil {
			return nil, err
		}
	}
	return upd, nil
}

// ToSQL builds and compiles the statement.
func (m *UpdateManager) ToSQL(c Compiler) (string, []any, error) {
	upd, err := m.Build()
	return toSQL(c, upd, err)
}
