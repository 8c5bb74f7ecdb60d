package infoschema

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/types"
)

// catalogViews recreates the information_schema tables the default queries
// read inside an attached SQLite database.
const catalogViews = `
ATTACH DATABASE ':memory:' AS information_schema;
CREATE TABLE information_schema.schemata (catalog_name, schema_name);
CREATE TABLE information_schema.tables (table_schema, table_name, table_type);
CREATE TABLE information_schema.columns (table_schema, table_name, column_name, data_type, is_nullable,
	column_default, character_maximum_length, numeric_precision, numeric_scale, ordinal_position);
CREATE TABLE information_schema.table_constraints (constraint_schema, constraint_name, table_schema, table_name, constraint_type);
CREATE TABLE information_schema.key_column_usage (constraint_schema, constraint_name, table_name, column_name,
	ordinal_position, position_in_unique_constraint);
CREATE TABLE information_schema.referential_constraints (constraint_schema, constraint_name,
	unique_constraint_schema, unique_constraint_name, update_rule, delete_rule);
CREATE TABLE information_schema.views (table_schema, table_name, view_definition);
CREATE TABLE information_schema.sequences (sequence_schema, sequence_name, start_value, increment,
	minimum_value, maximum_value, cycle_option);

INSERT INTO information_schema.schemata VALUES
	('db', 'shop'),
	('db', 'other'),
	('db', 'information_schema');
INSERT INTO information_schema.tables VALUES
	('shop', 'customer', 'BASE TABLE'),
	('shop', 'orders', 'BASE TABLE'),
	('shop', 'order_totals', 'VIEW'),
	('other', 'ignored', 'BASE TABLE');
INSERT INTO information_schema.columns VALUES
	('shop', 'customer', 'id', 'integer', 'NO', NULL, NULL, 32, 0, 1),
	('shop', 'customer', 'name', 'character varying', 'YES', NULL, 80, NULL, NULL, 2),
	('shop', 'orders', 'id', 'bigint', 'NO', NULL, NULL, 64, 0, 1),
	('shop', 'orders', 'customer_id', 'integer', 'NO', NULL, NULL, 32, 0, 2),
	('shop', 'orders', 'total', 'numeric', 'NO', '0', NULL, 12, 2, 3),
	('shop', 'order_totals', 'total', 'numeric', 'YES', NULL, NULL, 12, 2, 1);
INSERT INTO information_schema.table_constraints VALUES
	('shop', 'customer_pkey', 'shop', 'customer', 'PRIMARY KEY'),
	('shop', 'orders_pkey', 'shop', 'orders', 'PRIMARY KEY'),
	('shop', 'customer_name_key', 'shop', 'customer', 'UNIQUE');
INSERT INTO information_schema.key_column_usage VALUES
	('shop', 'customer_pkey', 'customer', 'id', 1, NULL),
	('shop', 'orders_pkey', 'orders', 'id', 1, NULL),
	('shop', 'customer_name_key', 'customer', 'name', 1, NULL),
	('shop', 'orders_customer_fk', 'orders', 'customer_id', 1, 1);
INSERT INTO information_schema.referential_constraints VALUES
	('shop', 'orders_customer_fk', 'shop', 'customer_pkey', 'NO ACTION', 'CASCADE');
INSERT INTO information_schema.views VALUES
	('shop', 'order_totals', 'SELECT sum(total) AS total FROM orders;');
INSERT INTO information_schema.sequences VALUES
	('shop', 'invoice_seq', '100', '10', '1', '999999', 'YES');
`

func openCatalog(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(catalogViews)
	require.NoError(t, err)
	return db
}

func readShop(t *testing.T, q Queries) *model.Schema {
	t.Helper()
	s := model.NewCatalog("db").CreateSchema("shop")
	r := &Reader{Queries: q, Placeholder: "?"}
	require.NoError(t, r.ReadSchema(context.Background(), openCatalog(t), s))
	return s
}

func TestReadSchemaTablesAndColumns(t *testing.T) {
	t.Parallel()
	s := readShop(t, DefaultQueries)

	assert.Equal(t, 2, s.Tables.Len())
	assert.False(t, s.Tables.Contains("ignored"))

	orders := s.Tables.Get("orders")
	require.NotNil(t, orders)
	require.Equal(t, 3, orders.Columns.Len())
	assert.Equal(t, types.Of(types.Int64), orders.Columns.Get("id").DataType)
	total := orders.Columns.Get("total")
	assert.Equal(t, types.WithPrecision(types.Decimal, 12, 2), total.DataType)
	assert.False(t, total.IsNullable)
	require.NotNil(t, total.DefaultValue)

	name := s.Tables.Get("customer").Columns.Get("name")
	assert.Equal(t, types.WithLength(types.VarChar, 80), name.DataType)
	assert.True(t, name.IsNullable)
}

func TestReadSchemaKeys(t *testing.T) {
	t.Parallel()
	s := readShop(t, DefaultQueries)
	customer := s.Tables.Get("customer")

	pk := customer.PrimaryKey()
	require.NotNil(t, pk)
	assert.Equal(t, "customer_pkey", pk.Name)
	require.Len(t, pk.Columns, 1)
	assert.Equal(t, "id", pk.Columns[0].Name)

	var unique *model.UniqueConstraint
	for _, c := range customer.Constraints {
		if u, ok := c.(*model.UniqueConstraint); ok {
			unique = u
		}
	}
	require.NotNil(t, unique)
	assert.Equal(t, "customer_name_key", unique.Name)

	fk := foreignKey(s.Tables.Get("orders"), "orders_customer_fk")
	require.NotNil(t, fk)
	assert.Same(t, customer, fk.ReferencedTable)
	assert.Equal(t, model.Cascade, fk.OnDelete)
	assert.Equal(t, model.NoAction, fk.OnUpdate)
	require.Len(t, fk.ReferencedColumns, 1)
	assert.Equal(t, "id", fk.ReferencedColumns[0].Name)
}

func TestReadSchemaViewsAndSequences(t *testing.T) {
	t.Parallel()
	s := readShop(t, DefaultQueries)

	v := s.Views.Get("order_totals")
	require.NotNil(t, v)
	require.NotNil(t, v.Definition)

	seq := s.Sequences.Get("invoice_seq")
	require.NotNil(t, seq)
	d := seq.Descriptor
	assert.Equal(t, int64(100), *d.StartValue)
	assert.Equal(t, int64(10), *d.Increment)
	assert.Equal(t, int64(999999), *d.MaxValue)
	require.NotNil(t, d.IsCyclic)
	assert.True(t, *d.IsCyclic)
}

func TestReadSchemaSkipsEmptyQueries(t *testing.T) {
	t.Parallel()
	q := DefaultQueries
	q.Views, q.Sequences, q.ForeignKeys = "", "", ""
	s := readShop(t, q)
	assert.Equal(t, 0, s.Views.Len())
	assert.Equal(t, 0, s.Sequences.Len())
	assert.Nil(t, foreignKey(s.Tables.Get("orders"), "orders_customer_fk"))
}

func TestReadSchemaWrapsQueryErrors(t *testing.T) {
	t.Parallel()
	q := DefaultQueries
	q.Keys = "SELECT * FROM missing WHERE x = %[1]s"
	s := model.NewCatalog("db").CreateSchema("shop")
	r := &Reader{Queries: q, Placeholder: "?"}
	err := r.ReadSchema(context.Background(), openCatalog(t), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read keys of shop")
}

func TestReadCatalogListsSchemata(t *testing.T) {
	t.Parallel()
	r := &Reader{Queries: DefaultQueries, Placeholder: "?"}
	cat, err := r.ReadCatalog(context.Background(), openCatalog(t), "db", "")
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Schemas.Len())
	assert.True(t, cat.Schemas.Get("other").Tables.Contains("ignored"))
	assert.True(t, cat.Schemas.Get("shop").Tables.Contains("orders"))
}

func TestReadCatalogSingleSchema(t *testing.T) {
	t.Parallel()
	r := &Reader{Queries: DefaultQueries, Placeholder: "?"}
	cat, err := r.ReadCatalog(context.Background(), openCatalog(t), "db", "shop")
	require.NoError(t, err)
	require.Equal(t, 1, cat.Schemas.Len())
	assert.Equal(t, "db", cat.Name)
	assert.Equal(t, 2, cat.Schemas.Get("shop").Tables.Len())
}
