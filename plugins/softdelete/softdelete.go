// Package softdelete provides a Transformer that hides soft-deleted rows by
// adding "column IS NULL" predicates.
//
// By default every table of the FROM tree gets deleted_at IS NULL; both
// the column and the set of tables can be changed with options:
//
//	sd := softdelete.New(
//	    softdelete.WithTableColumn("users", "deleted_at"),
//	    softdelete.WithTableColumn("posts", "removed_at"),
//	)
//	m := managers.NewSelectManager(users).Use(sd)
//
// Updates and deletes are restricted to live rows of their target table.
// Inserts pass through unchanged.
package softdelete

import (
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/plugins"
)

// SoftDelete is a Transformer that appends IS NULL conditions for a
// soft-delete column on every referenced table (or a configured subset).
type SoftDelete struct {
	plugins.BaseTransformer
	Column  string
	Columns map[string]string // table name -> column name
	tables  map[string]bool   // nil means every table
}

// Option configures a SoftDelete transformer.
type Option func(*SoftDelete)

// WithColumn sets the soft-delete column name. Default is "deleted_at".
func WithColumn(name string) Option {
	return func(sd *SoftDelete) { sd.Column = name }
}

// WithTables restricts the plugin to the named tables.
func WithTables(names ...string) Option {
	return func(sd *SoftDelete) {
		sd.tables = make(map[string]bool, len(names))
		for _, n := range names {
			sd.tables[n] = true
		}
	}
}

// WithTableColumn sets the column of one table and adds the table to the
// set the plugin applies to.
func WithTableColumn(table, column string) Option {
	return func(sd *SoftDelete) {
		if sd.Columns == nil {
			sd.Columns = make(map[string]string)
		}
		sd.Columns[table] = column
		if sd.tables == nil {
			sd.tables = make(map[string]bool)
		}
		sd.tables[table] = true
	}
}

// New creates a SoftDelete transformer with the given options.
func New(opts ...Option) *SoftDelete {
	sd := &SoftDelete{Column: "deleted_at"}
	for _, o := range opts {
		o(sd)
	}
	return sd
}

// TransformSelect ANDs "column IS NULL" into WHERE for each matching table
// of the FROM tree.
func (sd *SoftDelete) TransformSelect(sel *nodes.Select) (*nodes.Select, error) {
	preds := []nodes.Expression{sel.Where()}
	for _, src := range plugins.CollectTables(sel.From) {
		if sd.appliesTo(src.Name) {
			preds = append(preds, src.Ref.Col(sd.columnFor(src.Name)).IsNull())
		}
	}
	if err := sel.SetWhere(nodes.And(preds...)); err != nil {
		return nil, err
	}
	return sel, nil
}

// TransformUpdate leaves soft-deleted rows untouched.
func (sd *SoftDelete) TransformUpdate(upd *nodes.Update) (*nodes.Update, error) {
	if !sd.appliesTo(upd.Table.Name) || isCursor(upd.Where()) {
		return upd, nil
	}
	live := upd.Table.Col(sd.columnFor(upd.Table.Name)).IsNull()
	if err := upd.SetWhere(nodes.And(upd.Where(), live)); err != nil {
		return nil, err
	}
	return upd, nil
}

// TransformDelete only removes rows that are not already soft-deleted.
func (sd *SoftDelete) TransformDelete(del *nodes.Delete) (*nodes.Delete, error) {
	if !sd.appliesTo(del.Table.Name) || isCursor(del.Where()) {
		return del, nil
	}
	live := del.Table.Col(sd.columnFor(del.Table.Name)).IsNull()
	if err := del.SetWhere(nodes.And(del.Where(), live)); err != nil {
		return nil, err
	}
	return del, nil
}

// WHERE CURRENT OF already pins a single row.
func isCursor(e nodes.Expression) bool {
	_, ok := e.(*nodes.Cursor)
	return ok
}

func (sd *SoftDelete) appliesTo(tableName string) bool {
	if sd.tables == nil {
		return true
	}
	return sd.tables[tableName]
}

// columnFor returns the column name to use for the given table.
func (sd *SoftDelete) columnFor(tableName string) string {
	if col, ok := sd.Columns[tableName]; ok {
		return col
	}
	return sd.Column
}
