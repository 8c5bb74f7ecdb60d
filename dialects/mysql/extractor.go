package mysql

import (
	"context"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/bawdo/sqldom/driver"
	"github.com/bawdo/sqldom/internal/infoschema"
)

// A MySQL catalog holds one schema: the database itself.
const (
	schemataQuery = `SELECT schema_name FROM information_schema.schemata
WHERE schema_name = %[1]s`
	columnsQuery = `SELECT table_name, column_name, data_type, is_nullable, column_default,
character_maximum_length, numeric_precision, numeric_scale,
CASE WHEN extra LIKE '%%auto_increment%%' THEN 'YES' ELSE 'NO' END
FROM information_schema.columns WHERE table_schema = %[1]s
ORDER BY table_name, ordinal_position`
	// key_column_usage carries the referenced columns directly
	foreignKeysQuery = `SELECT rc.constraint_name, kcu.table_name, kcu.column_name,
kcu.referenced_table_name, kcu.referenced_column_name, rc.update_rule, rc.delete_rule
FROM information_schema.referential_constraints rc
JOIN information_schema.key_column_usage kcu
  ON kcu.constraint_schema = rc.constraint_schema
 AND kcu.constraint_name = rc.constraint_name
 AND kcu.table_name = rc.table_name
WHERE rc.constraint_schema = %[1]s
ORDER BY kcu.table_name, rc.constraint_name, kcu.ordinal_position`
)

// Extractor reads MySQL databases through information_schema.
type Extractor struct {
	reader *infoschema.Reader
}

// NewExtractor returns the MySQL extractor.
func NewExtractor() *Extractor {
	q := infoschema.DefaultQueries
	q.Schemata = schemataQuery
	q.Columns = columnsQuery
	q.ForeignKeys = foreignKeysQuery
	q.Sequences = ""
	return &Extractor{reader: &infoschema.Reader{Queries: q, Placeholder: "?"}}
}

// Extract implements driver.Extractor. A task without a catalog reads the
// connection's current database.
func (x *Extractor) Extract(ctx context.Context, q driver.Queryer, tasks []driver.ExtractionTask) (*driver.ExtractionResult, error) {
	res := &driver.ExtractionResult{}
	for _, task := range tasks {
		name := task.Catalog
		if name == "" {
			var err error
			if name, err = currentDatabase(ctx, q); err != nil {
				return nil, err
			}
		}
		cat, err := x.reader.ReadCatalog(ctx, q, name, task.Schema)
		if err != nil {
			return nil, err
		}
		res.Catalogs = append(res.Catalogs, cat)
	}
	return res, nil
}

func currentDatabase(ctx context.Context, q driver.Queryer) (string, error) {
	rows, err := q.QueryContext(ctx, "SELECT DATABASE()")
	if err != nil {
		return "", fmt.Errorf("current database: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var name *string
	if rows.Next() {
		if err := rows.Scan(&name); err != nil {
			return "", fmt.Errorf("current database: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("current database: %w", err)
	}
	if name == nil || *name == "" {
		return "", fmt.Errorf("current database: no database selected")
	}
	return *name, nil
}

// CatalogFromDSN returns the database named by a go-sql-driver DSN.
func CatalogFromDSN(dsn string) (string, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	return cfg.DBName, nil
}
