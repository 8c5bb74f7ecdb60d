package postgresql

import (
	"context"
	"fmt"

	"github.com/bawdo/sqldom/driver"
	"github.com/bawdo/sqldom/internal/infoschema"
)

// DefaultSchema is the schema unqualified names resolve to.
const DefaultSchema = "public"

const (
	schemataQuery = `SELECT schema_name FROM information_schema.schemata
WHERE catalog_name = %[1]s AND schema_name <> 'information_schema'
AND schema_name NOT LIKE 'pg\_%%' ORDER BY schema_name`
	// serial columns default to nextval of their owned sequence
	serialColumnsQuery = `SELECT table_name, column_name, data_type, is_nullable, column_default,
character_maximum_length, numeric_precision, numeric_scale,
CASE WHEN column_default LIKE 'nextval(%%' THEN 'YES' ELSE 'NO' END
FROM information_schema.columns WHERE table_schema = %[1]s
ORDER BY table_name, ordinal_position`
	identityColumnsQuery = `SELECT table_name, column_name, data_type, is_nullable, column_default,
character_maximum_length, numeric_precision, numeric_scale,
CASE WHEN is_identity = 'YES' OR column_default LIKE 'nextval(%%' THEN 'YES' ELSE 'NO' END
FROM information_schema.columns WHERE table_schema = %[1]s
ORDER BY table_name, ordinal_position`
	// owned sequences belong to their serial column
	sequencesQuery = `SELECT s.sequence_name, s.start_value, s.increment, s.minimum_value, s.maximum_value, s.cycle_option
FROM information_schema.sequences s
WHERE s.sequence_schema = %[1]s AND NOT EXISTS (
  SELECT 1 FROM pg_catalog.pg_depend d
  JOIN pg_catalog.pg_class c ON c.oid = d.objid
  JOIN pg_catalog.pg_namespace ns ON ns.oid = c.relnamespace
  WHERE c.relkind = 'S' AND d.deptype IN ('a', 'i')
    AND ns.nspname = s.sequence_schema AND c.relname = s.sequence_name)
ORDER BY s.sequence_name`
)

// Extractor reads PostgreSQL catalogs through information_schema. The
// connection must already use the task's database.
type Extractor struct {
	reader *infoschema.Reader
}

// NewExtractor returns an extractor for a server version. Identity columns
// are read from 10 and sequence options from 9.1.
func NewExtractor(v driver.Version) *Extractor {
	q := infoschema.DefaultQueries
	q.Schemata = schemataQuery
	q.Columns = serialColumnsQuery
	q.Sequences = sequencesQuery
	if v.AtLeast(driver.V(10, 0)) {
		q.Columns = identityColumnsQuery
	}
	if v.Less(driver.V(9, 1)) {
		q.Sequences = ""
	}
	return &Extractor{reader: &infoschema.Reader{Queries: q, Placeholder: "$1"}}
}

// Extract implements driver.Extractor. A task without a catalog reads the
// connection's database.
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
	rows, err := q.QueryContext(ctx, "SELECT current_database()")
	if err != nil {
		return "", fmt.Errorf("current database: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var name string
	if rows.Next() {
		if err := rows.Scan(&name); err != nil {
			return "", fmt.Errorf("current database: %w", err)
		}
	}
	return name, rows.Err()
}
