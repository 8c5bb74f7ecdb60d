// Package infoschema reads schema models through the ANSI information_schema
// views that PostgreSQL, MySQL and SQL Server share.
package infoschema

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
)

// Queryer runs a query; *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Queries are the statements a Reader runs. Each takes the schema name as
// its only parameter, written as %[1]s, and must return the columns listed
// on the default query of the same field. An empty query is skipped.
type Queries struct {
	// Schemata lists the schemas of a catalog; it takes the catalog name.
	Schemata    string
	Tables      string
	Columns     string
	Keys        string
	ForeignKeys string
	Views       string
	Sequences   string
}

// DefaultQueries work unchanged on servers that follow the standard.
var DefaultQueries = Queries{
	// schema_name
	Schemata: `SELECT schema_name FROM information_schema.schemata
WHERE catalog_name = %[1]s AND schema_name <> 'information_schema' ORDER BY schema_name`,
	// table_name
	Tables: `SELECT table_name FROM information_schema.tables
WHERE table_schema = %[1]s AND table_type = 'BASE TABLE' ORDER BY table_name`,
	// table_name, column_name, data_type, is_nullable, column_default,
	// character_maximum_length, numeric_precision, numeric_scale, is_identity
	Columns: `SELECT table_name, column_name, data_type, is_nullable, column_default,
character_maximum_length, numeric_precision, numeric_scale, 'NO'
FROM information_schema.columns WHERE table_schema = %[1]s
ORDER BY table_name, ordinal_position`,
	// constraint_name, table_name, constraint_type, column_name
	Keys: `SELECT tc.constraint_name, tc.table_name, tc.constraint_type, kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON kcu.constraint_schema = tc.constraint_schema
 AND kcu.constraint_name = tc.constraint_name
 AND kcu.table_name = tc.table_name
WHERE tc.table_schema = %[1]s AND tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE')
ORDER BY tc.table_name, tc.constraint_name, kcu.ordinal_position`,
	// constraint_name, table_name, column_name, referenced_table_name,
	// referenced_column_name, update_rule, delete_rule
	ForeignKeys: `SELECT rc.constraint_name, kcu.table_name, kcu.column_name,
ref.table_name, ref.column_name, rc.update_rule, rc.delete_rule
FROM information_schema.referential_constraints rc
JOIN information_schema.key_column_usage kcu
  ON kcu.constraint_schema = rc.constraint_schema
 AND kcu.constraint_name = rc.constraint_name
JOIN information_schema.key_column_usage ref
  ON ref.constraint_schema = rc.unique_constraint_schema
 AND ref.constraint_name = rc.unique_constraint_name
 AND ref.ordinal_position = kcu.position_in_unique_constraint
WHERE rc.constraint_schema = %[1]s
ORDER BY kcu.table_name, rc.constraint_name, kcu.ordinal_position`,
	// table_name, view_definition
	Views: `SELECT table_name, view_definition FROM information_schema.views
WHERE table_schema = %[1]s ORDER BY table_name`,
	// sequence_name, start_value, increment, minimum_value, maximum_value,
	// cycle_option
	Sequences: `SELECT sequence_name, start_value, increment, minimum_value, maximum_value, cycle_option
FROM information_schema.sequences WHERE sequence_schema = %[1]s ORDER BY sequence_name`,
}

// Reader fills schema models from information_schema.
type Reader struct {
	Queries Queries
	// Placeholder is the parameter marker of the driver: "$1", "?" or "@p1".
	Placeholder string
}

// ReadCatalog reads one schema of a catalog, or all of them when schema
// is empty.
func (r *Reader) ReadCatalog(ctx context.Context, q Queryer, catalog, schema string) (*model.Catalog, error) {
	cat := model.NewCatalog(catalog)
	names := []string{schema}
	if schema == "" {
		names = names[:0]
		err := r.each(ctx, q, r.Queries.Schemata, catalog, func(rows *sql.Rows) error {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("read schemata of %s: %w", catalog, err)
		}
	}
	for _, name := range names {
		if err := r.ReadSchema(ctx, q, cat.CreateSchema(name)); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// ReadSchema reads the tables, views and sequences of s from the server.
// Objects already present in s are kept.
func (r *Reader) ReadSchema(ctx context.Context, q Queryer, s *model.Schema) error {
	steps := []struct {
		name  string
		query string
		scan  func(*sql.Rows) error
	}{
		{"tables", r.Queries.Tables, func(rows *sql.Rows) error { return scanTable(rows, s) }},
		{"columns", r.Queries.Columns, func(rows *sql.Rows) error { return scanColumn(rows, s) }},
		{"keys", r.Queries.Keys, func(rows *sql.Rows) error { return scanKey(rows, s) }},
		{"foreign keys", r.Queries.ForeignKeys, func(rows *sql.Rows) error { return scanForeignKey(rows, s) }},
		{"views", r.Queries.Views, func(rows *sql.Rows) error { return scanView(rows, s) }},
		{"sequences", r.Queries.Sequences, func(rows *sql.Rows) error { return scanSequence(rows, s) }},
	}
	for _, step := range steps {
		if step.query == "" {
			continue
		}
		if err := r.each(ctx, q, step.query, s.NodeDbName(), step.scan); err != nil {
			return fmt.Errorf("read %s of %s: %w", step.name, s.Name, err)
		}
	}
	return nil
}

func (r *Reader) each(ctx context.Context, q Queryer, query, schema string, scan func(*sql.Rows) error) error {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(query, r.Placeholder), schema)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func scanTable(rows *sql.Rows, s *model.Schema) error {
	var name string
	if err := rows.Scan(&name); err != nil {
		return err
	}
	if !s.Tables.Contains(name) {
		s.CreateTable(name)
	}
	return nil
}

func scanColumn(rows *sql.Rows, s *model.Schema) error {
	var (
		table, name, dataType, nullable, identity string
		def                                       sql.NullString
		length, precision, scale                  sql.NullInt64
	)
	if err := rows.Scan(&table, &name, &dataType, &nullable, &def, &length, &precision, &scale, &identity); err != nil {
		return err
	}
	t := s.Tables.Get(table)
	if t == nil {
		// a view column
		return nil
	}
	col := t.CreateColumn(name, ParseType(dataType, length.Int64, precision.Int64, scale.Int64))
	col.IsNullable = strings.EqualFold(nullable, "YES")
	if strings.EqualFold(identity, "YES") {
		col.SequenceDescriptor = model.NewSequenceDescriptor(col, 1, 1)
		return nil
	}
	if def.Valid && def.String != "" {
		col.DefaultValue = nodes.NewNative(def.String)
	}
	return nil
}

func scanKey(rows *sql.Rows, s *model.Schema) error {
	var name, table, kind, column string
	if err := rows.Scan(&name, &table, &kind, &column); err != nil {
		return err
	}
	t := s.Tables.Get(table)
	if t == nil {
		return nil
	}
	col := t.Columns.Get(column)
	if col == nil {
		return fmt.Errorf("key %s: column %s.%s not found", name, table, column)
	}
	for _, c := range t.Constraints {
		switch k := c.(type) {
		case *model.PrimaryKey:
			if k.Name == name {
				k.Columns = append(k.Columns, col)
				return nil
			}
		case *model.UniqueConstraint:
			if k.Name == name {
				k.Columns = append(k.Columns, col)
				return nil
			}
		}
	}
	if strings.EqualFold(kind, "PRIMARY KEY") {
		t.CreatePrimaryKey(name, col)
	} else {
		t.CreateUniqueConstraint(name, col)
	}
	return nil
}

func scanForeignKey(rows *sql.Rows, s *model.Schema) error {
	var name, table, column, refTable, refColumn, onUpdate, onDelete string
	if err := rows.Scan(&name, &table, &column, &refTable, &refColumn, &onUpdate, &onDelete); err != nil {
		return err
	}
	t, rt := s.Tables.Get(table), s.Tables.Get(refTable)
	if t == nil || rt == nil {
		return nil
	}
	col, refCol := t.Columns.Get(column), rt.Columns.Get(refColumn)
	if col == nil || refCol == nil {
		return fmt.Errorf("foreign key %s: column not found", name)
	}
	fk := foreignKey(t, name)
	if fk == nil {
		fk = t.CreateForeignKey(name)
		fk.ReferencedTable = rt
		fk.OnUpdate = ParseReferentialAction(onUpdate)
		fk.OnDelete = ParseReferentialAction(onDelete)
	}
	fk.Columns = append(fk.Columns, col)
	fk.ReferencedColumns = append(fk.ReferencedColumns, refCol)
	return nil
}

func foreignKey(t *model.Table, name string) *model.ForeignKey {
	for _, c := range t.Constraints {
		if fk, ok := c.(*model.ForeignKey); ok && fk.Name == name {
			return fk
		}
	}
	return nil
}

func scanView(rows *sql.Rows, s *model.Schema) error {
	var name string
	var def sql.NullString
	if err := rows.Scan(&name, &def); err != nil {
		return err
	}
	if s.Views.Contains(name) {
		return nil
	}
	var definition model.Expression
	if def.Valid && def.String != "" {
		definition = nodes.NewNative(strings.TrimSuffix(strings.TrimSpace(def.String), ";"))
	}
	s.CreateView(name, definition)
	return nil
}

func scanSequence(rows *sql.Rows, s *model.Schema) error {
	var name string
	var start, inc, minValue, maxValue, cycle sql.NullString
	if err := rows.Scan(&name, &start, &inc, &minValue, &maxValue, &cycle); err != nil {
		return err
	}
	seq := s.CreateSequence(name)
	d := seq.Descriptor
	d.StartValue = parseInt(start, d.StartValue)
	d.Increment = parseInt(inc, d.Increment)
	d.MinValue = parseInt(minValue, nil)
	d.MaxValue = parseInt(maxValue, nil)
	if cycle.Valid {
		cyclic := strings.EqualFold(cycle.String, "YES")
		d.IsCyclic = &cyclic
	}
	return nil
}

func parseInt(v sql.NullString, fallback *int64) *int64 {
	if !v.Valid {
		return fallback
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v.String), 10, 64)
	if err != nil {
		return fallback
	}
	return &n
}

// ParseReferentialAction maps an update_rule or delete_rule value.
func ParseReferentialAction(rule string) model.ReferentialAction {
	switch strings.ToUpper(strings.TrimSpace(rule)) {
	case "CASCADE":
		return model.Cascade
	case "SET NULL":
		return model.SetNull
	case "SET DEFAULT":
		return model.SetDefault
	case "RESTRICT":
		return model.Restrict
	}
	return model.NoAction
}
