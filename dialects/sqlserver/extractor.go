package sqlserver

import (
	"context"

	"github.com/bawdo/sqldom/driver"
	"github.com/bawdo/sqldom/internal/infoschema"
)

// DefaultSchema is the schema unqualified names resolve to.
const DefaultSchema = "dbo"

const (
	schemataQuery = `SELECT schema_name FROM information_schema.schemata
WHERE catalog_name = %[1]s AND schema_name NOT IN ('INFORMATION_SCHEMA', 'sys', 'guest')
AND schema_name NOT LIKE 'db[_]%%' ORDER BY schema_name`
	columnsQuery = `SELECT table_name, column_name, data_type, is_nullable, column_default,
character_maximum_length, numeric_precision, numeric_scale,
CASE COLUMNPROPERTY(OBJECT_ID(QUOTENAME(table_schema) + '.' + QUOTENAME(table_name)), column_name, 'IsIdentity')
WHEN 1 THEN 'YES' ELSE 'NO' END
FROM information_schema.columns WHERE table_schema = %[1]s
ORDER BY table_name, ordinal_position`
	// key_column_usage has no position_in_unique_constraint on SQL Server
	foreignKeysQuery = `SELECT rc.constraint_name, kcu.table_name, kcu.column_name,
ref.table_name, ref.column_name, rc.update_rule, rc.delete_rule
FROM information_schema.referential_constraints rc
JOIN information_schema.key_column_usage kcu
  ON kcu.constraint_schema = rc.constraint_schema
 AND kcu.constraint_name = rc.constraint_name
JOIN information_schema.key_column_usage ref
  ON ref.constraint_schema = rc.unique_constraint_schema
 AND ref.constraint_name = rc.unique_constraint_name
 AND ref.ordinal_position = kcu.ordinal_position
WHERE rc.constraint_schema = %[1]s
ORDER BY kcu.table_name, rc.constraint_name, kcu.ordinal_position`
)

// Extractor reads SQL Server catalogs through information_schema. The
// connection must already use the task's database.
type Extractor struct {
	reader *infoschema.Reader
}

// NewExtractor returns an extractor for a server version. Sequences are
// read from 11.0.
func NewExtractor(major int) *Extractor {
	q := infoschema.DefaultQueries
	q.Schemata = schemataQuery
	q.Columns = columnsQuery
	q.ForeignKeys = foreignKeysQuery
	if major < 11 {
		q.Sequences = ""
	}
	return &Extractor{reader: &infoschema.Reader{Queries: q, Placeholder: "@p1"}}
}

// Extract implements driver.Extractor.
func (x *Extractor) Extract(ctx context.Context, q driver.Queryer, tasks []driver.ExtractionTask) (*driver.ExtractionResult, error) {
	res := &driver.ExtractionResult{}
	for _, task := range tasks {
		cat, err := x.reader.ReadCatalog(ctx, q, task.Catalog, task.Schema)
		if err != nil {
			return nil, err
		}
		res.Catalogs = append(res.Catalogs, cat)
	}
	return res, nil
}
