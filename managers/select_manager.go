// Package managers provides fluent builders for DML statements. Builders
// record construction errors instead of returning them from every call;
// Build and ToSQL report them.
package managers

import (
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/plugins"
	"github.com/bawdo/sqldom/sqlerr"
)

// SelectManager provides a fluent API for building SELECT queries.
type SelectManager struct {
	treeManager
	Query *nodes.Select
}

// NewSelectManager creates a new SelectManager with the given table as FROM.
// If from is nil, the FROM clause is left unset.
func NewSelectManager(from nodes.Table) *SelectManager {
	return &SelectManager{Query: nodes.NewSelect(from)}
}

// Select sets the projection list, replacing any existing projections.
func (m *SelectManager) Select(projections ...nodes.Expression) *SelectManager {
	m.Query.Columns = projections
	return m
}

// Project is an alias for Select.
func (m *SelectManager) Project(projections ...nodes.Expression) *SelectManager {
	return m.Select(projections...)
}

// Distinct enables or disables the DISTINCT modifier.
func (m *SelectManager) Distinct(on ...bool) *SelectManager {
	m.Query.Distinct = len(on) == 0 || on[0]
	return m
}

// Where ANDs conditions into the WHERE clause.
func (m *SelectManager) Where(conditions ...nodes.Expression) *SelectManager {
	m.fail(m.Query.SetWhere(and(m.Query.Where(), conditions)))
	return m
}

// From sets or changes the FROM source.
func (m *SelectManager) From(table nodes.Table) *SelectManager {
	m.Query.From = table
	return m
}

// Join joins table to the current FROM source and returns a JoinContext
// for the ON condition. The default join type is InnerJoin.
func (m *SelectManager) Join(table nodes.Table, joinTypes ...nodes.JoinType) *JoinContext {
	jt := nodes.InnerJoin
	if len(joinTypes) > 0 {
		jt = joinTypes[0]
	}
	return &JoinContext{manager: m, join: m.join(jt, table)}
}

// OuterJoin is a convenience for Join with LeftOuterJoin type.
func (m *SelectManager) OuterJoin(table nodes.Table) *JoinContext {
	return m.Join(table, nodes.LeftOuterJoin)
}

// CrossJoin adds a cross join (no ON clause).
func (m *SelectManager) CrossJoin(table nodes.Table) *SelectManager {
	m.join(nodes.CrossJoin, table)
	return m
}

// CrossApply adds a CROSS APPLY (a lateral inner join).
func (m *SelectManager) CrossApply(table nodes.Table) *SelectManager {
	m.join(nodes.CrossApply, table)
	return m
}

// OuterApply adds an OUTER APPLY (a lateral left join).
func (m *SelectManager) OuterApply(table nodes.Table) *SelectManager {
	m.join(nodes.OuterApply, table)
	return m
}

func (m *SelectManager) join(jt nodes.JoinType, table nodes.Table) *nodes.JoinedTable {
	if m.Query.From == nil {
		m.fail(sqlerr.Argument("join", "query has no FROM source to join to"))
		return nil
	}
	if table == nil {
		m.fail(sqlerr.Argument("join", "table must not be nil"))
		return nil
	}
	j, err := nodes.NewJoin(jt, m.Query.From, table, nil)
	if err != nil {
		m.fail(err)
		return nil
	}
	m.Query.From = j
	return j
}

// Group appends one or more expressions to the GROUP BY clause.
func (m *SelectManager) Group(columns ...nodes.Expression) *SelectManager {
	m.Query.GroupBy = append(m.Query.GroupBy, columns...)
	return m
}

// Having ANDs conditions into the HAVING clause.
func (m *SelectManager) Having(conditions ...nodes.Expression) *SelectManager {
	m.fail(m.Query.SetHaving(and(m.Query.Having(), conditions)))
	return m
}

// Order appends ORDER BY items (e.g., table.Col("name").Asc()).
func (m *SelectManager) Order(orderings ...*nodes.Order) *SelectManager {
	m.Query.OrderBy = append(m.Query.OrderBy, orderings...)
	return m
}

// Limit sets the row limit.
func (m *SelectManager) Limit(n int) *SelectManager {
	m.Query.Limit = nodes.NewLiteral(n)
	return m
}

// Offset sets the number of rows to skip.
func (m *SelectManager) Offset(n int) *SelectManager {
	m.Query.Offset = nodes.NewLiteral(n)
	return m
}

// Take is an alias for Limit.
func (m *SelectManager) Take(n int) *SelectManager {
	return m.Limit(n)
}

// ForUpdate requests update locks on the selected rows.
func (m *SelectManager) ForUpdate() *SelectManager {
	m.Query.Lock |= nodes.LockUpdate
	return m
}

// ForShare requests shared locks on the selected rows.
func (m *SelectManager) ForShare() *SelectManager {
	m.Query.Lock |= nodes.LockShared
	return m
}

// SkipLocked skips rows other transactions hold locks on.
func (m *SelectManager) SkipLocked() *SelectManager {
	m.Query.Lock |= nodes.LockSkipLocked
	return m
}

// NoWait fails instead of waiting for locked rows.
func (m *SelectManager) NoWait() *SelectManager {
	m.Query.Lock |= nodes.LockThrowIfLocked
	return m
}

// Union creates a UNION set operation between this query and another.
func (m *SelectManager) Union(other *SelectManager) *nodes.SetOperation {
	return nodes.Union(m.Query, other.Query)
}

// UnionAll creates a UNION ALL set operation between this query and another.
func (m *SelectManager) UnionAll(other *SelectManager) *nodes.SetOperation {
	return nodes.UnionAll(m.Query, other.Query)
}

// Intersect creates an INTERSECT set operation between this query and another.
func (m *SelectManager) Intersect(other *SelectManager) *nodes.SetOperation {
	return nodes.Intersect(m.Query, other.Query)
}

// Except creates an EXCEPT set operation between this query and another.
func (m *SelectManager) Except(other *SelectManager) *nodes.SetOperation {
	return nodes.Except(m.Query, other.Query)
}

// Use registers a transformer plugin to be applied before SQL generation.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// As wraps the query as a derived table for use in FROM or JOIN.
func (m *SelectManager) As(alias string) *nodes.QueryRef {
	return nodes.NewQueryRef(m.Query, alias)
}

// SubQuery wraps the query for use as an expression, e.g. in IN.
func (m *SelectManager) SubQuery() *nodes.SubQuery {
	return nodes.NewSubQuery(m.Query)
}

// Build returns a transformed copy of the query. The manager's own query
// is never modified by transformers.
func (m *SelectManager) Build() (*nodes.Select, error) {
	if err := m.Err(); err != nil {
		return nil, err
	}
	sel := nodes.Clone(m.Query)
	for _, t := range m.transformers {
		var err error
		if sel, err = t.TransformSelect(sel); err != nil {
			return nil, err
		}
	}
	return sel, nil
}

// ToSQL builds the query and compiles it. It returns the SQL text and the
// parameter values in placeholder order.
func (m *SelectManager) ToSQL(c Compiler) (string, []any, error) {
	sel, err := m.Build()
	return toSQL(c, sel, err)
}
