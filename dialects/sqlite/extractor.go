package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bawdo/sqldom/driver"
	"github.com/bawdo/sqldom/internal/infoschema"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
)

// DefaultSchema is the name of the main database of a connection.
const DefaultSchema = "main"

const (
	tablesQuery = "SELECT name, type, COALESCE(sql, '') FROM sqlite_master " +
		"WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%' ORDER BY name"
	columnsQuery      = "SELECT name, type, \"notnull\", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid"
	foreignKeysQuery  = "SELECT id, \"table\", \"from\", \"to\", on_update, on_delete FROM pragma_foreign_key_list(?) ORDER BY id, seq"
	indexesQuery      = "SELECT name, \"unique\", origin FROM pragma_index_list(?) ORDER BY name"
	indexColumnsQuery = "SELECT name, \"desc\" FROM pragma_index_xinfo(?) WHERE key = 1 ORDER BY seqno"
)

// Extractor reads the main database of a connection. SQLite has one
// catalog per connection; the task's catalog name only labels the result.
type Extractor struct{}

// Extract implements driver.Extractor.
func (Extractor) Extract(ctx context.Context, q driver.Queryer, tasks []driver.ExtractionTask) (*driver.ExtractionResult, error) {
	res := &driver.ExtractionResult{}
	for _, task := range tasks {
		cat := model.NewCatalog(task.Catalog)
		schema := cat.CreateSchema(DefaultSchema)
		if err := readSchema(ctx, q, schema); err != nil {
			return nil, err
		}
		res.Catalogs = append(res.Catalogs, cat)
	}
	return res, nil
}

type tableInfo struct {
	name, kind, sql string
}

func readSchema(ctx context.Context, q driver.Queryer, s *model.Schema) error {
	var objects []tableInfo
	err := each(ctx, q, tablesQuery, nil, func(rows *sql.Rows) error {
		var ti tableInfo
		if err := rows.Scan(&ti.name, &ti.kind, &ti.sql); err != nil {
			return err
		}
		objects = append(objects, ti)
		return nil
	})
	if err != nil {
		return fmt.Errorf("read tables: %w", err)
	}
	for _, o := range objects {
		if o.kind == "view" {
			s.CreateView(o.name, viewDefinition(o.sql))
			continue
		}
		t := s.CreateTable(o.name)
		if err := readColumns(ctx, q, t, strings.Contains(strings.ToUpper(o.sql), "AUTOINCREMENT")); err != nil {
			return fmt.Errorf("read columns of %s: %w", o.name, err)
		}
	}
	// foreign keys may point at tables read later
	for _, t := range s.Tables.Items() {
		if err := readForeignKeys(ctx, q, t); err != nil {
			return fmt.Errorf("read foreign keys of %s: %w", t.Name, err)
		}
		if err := readIndexes(ctx, q, t); err != nil {
			return fmt.Errorf("read indexes of %s: %w", t.Name, err)
		}
	}
	return nil
}

func readColumns(ctx context.Context, q driver.Queryer, t *model.Table, autoincrement bool) error {
	var pk []*model.TableColumn
	err := each(ctx, q, columnsQuery, []any{t.Name}, func(rows *sql.Rows) error {
		var (
			name, decl string
			notNull    bool
			def        sql.NullString
			pkIndex    int
		)
		if err := rows.Scan(&name, &decl, &notNull, &def, &pkIndex); err != nil {
			return err
		}
		col := t.CreateColumn(name, infoschema.ParseDeclaredType(decl))
		col.IsNullable = !notNull
		if def.Valid {
			col.DefaultValue = nodes.NewNative(def.String)
		}
		if pkIndex > 0 {
			for len(pk) < pkIndex {
				pk = append(pk, nil)
			}
			pk[pkIndex-1] = col
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(pk) == 0 {
		return nil
	}
	t.CreatePrimaryKey("PK_"+t.Name, pk...)
	if autoincrement && len(pk) == 1 {
		pk[0].SequenceDescriptor = model.NewSequenceDescriptor(pk[0], 1, 1)
	}
	return nil
}

func readForeignKeys(ctx context.Context, q driver.Queryer, t *model.Table) error {
	byID := map[int]*model.ForeignKey{}
	return each(ctx, q, foreignKeysQuery, []any{t.Name}, func(rows *sql.Rows) error {
		var (
			id                 int
			refTable, from     string
			onUpdate, onDelete string
			to                 sql.NullString
		)
		if err := rows.Scan(&id, &refTable, &from, &to, &onUpdate, &onDelete); err != nil {
			return err
		}
		rt := t.Schema.Tables.Get(refTable)
		if rt == nil {
			return nil
		}
		fk, ok := byID[id]
		if !ok {
			fk = t.CreateForeignKey(fmt.Sprintf("FK_%s_%d", t.Name, id))
			fk.ReferencedTable = rt
			fk.OnUpdate = infoschema.ParseReferentialAction(onUpdate)
			fk.OnDelete = infoschema.ParseReferentialAction(onDelete)
			byID[id] = fk
		}
		if col := t.Columns.Get(from); col != nil {
			fk.Columns = append(fk.Columns, col)
		}
		// a missing target column refers to the primary key
		switch {
		case to.Valid && to.String != "":
			if col := rt.Columns.Get(to.String); col != nil {
				fk.ReferencedColumns = append(fk.ReferencedColumns, col)
			}
		case rt.PrimaryKey() != nil:
			pk := rt.PrimaryKey().Columns
			if n := len(fk.ReferencedColumns); n < len(pk) {
				fk.ReferencedColumns = append(fk.ReferencedColumns, pk[n])
			}
		}
		return nil
	})
}

func readIndexes(ctx context.Context, q driver.Queryer, t *model.Table) error {
	type indexInfo struct {
		name   string
		unique bool
	}
	var list []indexInfo
	err := each(ctx, q, indexesQuery, []any{t.Name}, func(rows *sql.Rows) error {
		var ii indexInfo
		var origin string
		if err := rows.Scan(&ii.name, &ii.unique, &origin); err != nil {
			return err
		}
		// "pk" and "u" indexes back constraints
		if origin == "c" {
			list = append(list, ii)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, ii := range list {
		idx := t.CreateIndex(ii.name)
		idx.IsUnique = ii.unique
		err := each(ctx, q, indexColumnsQuery, []any{ii.name}, func(rows *sql.Rows) error {
			var name sql.NullString
			var desc bool
			if err := rows.Scan(&name, &desc); err != nil {
				return err
			}
			if col := t.Columns.Get(name.String); name.Valid && col != nil {
				idx.CreateIndexColumn(col, !desc)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// viewDefinition returns the query part of a CREATE VIEW statement.
func viewDefinition(ddl string) model.Expression {
	upper := strings.ToUpper(ddl)
	i := strings.Index(upper, " AS ")
	if i < 0 {
		return nil
	}
	return nodes.NewNative(strings.TrimSpace(ddl[i+len(" AS "):]))
}

func each(ctx context.Context, q driver.Queryer, query string, args []any, scan func(*sql.Rows) error) error {
	rows, err := q.QueryContext(ctx, query, args...)
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
