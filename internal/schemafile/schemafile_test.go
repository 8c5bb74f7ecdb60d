package schemafile_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/bawdo/sqldom/dialects/postgresql"
	_ "github.com/bawdo/sqldom/dialects/sqlite"
	"github.com/bawdo/sqldom/driver"
	"github.com/bawdo/sqldom/internal/schemafile"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

func loadShop(t *testing.T) *model.Catalog {
	t.Helper()
	f, err := os.Open("testdata/shop.yaml")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	doc, err := schemafile.Decode(f)
	require.NoError(t, err)
	cat, err := doc.Build()
	require.NoError(t, err)
	return cat
}

func batch(t *testing.T, provider, version string, cat *model.Catalog) string {
	t.Helper()
	d, err := driver.Resolve(provider, version)
	require.NoError(t, err)
	sd, err := driver.NewStorageDriver(d, driver.Config{Provider: provider})
	require.NoError(t, err)

	var texts []string
	for _, stmt := range schemafile.Statements(cat) {
		res, err := sd.Compile(stmt)
		require.NoError(t, err)
		texts = append(texts, res.Text)
	}
	return sd.BuildBatch(texts) + "\n"
}

func TestCreateBatchGolden(t *testing.T) {
	t.Parallel()
	cat := loadShop(t)
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))

	g.Assert(t, "shop_sqlite", []byte(batch(t, driver.ProviderSQLite, "3.45", cat)))
	g.Assert(t, "shop_postgresql", []byte(batch(t, driver.ProviderPostgreSQL, "10", cat)))
}

func TestBuildResolvesReferences(t *testing.T) {
	t.Parallel()
	s := loadShop(t).Schemas.Get("public")
	require.NotNil(t, s)

	author, book := s.Tables.Get("Author"), s.Tables.Get("Book")
	require.NotNil(t, author)
	require.NotNil(t, book)

	id := author.Columns.Get("Id")
	assert.False(t, id.IsNullable)
	assert.Equal(t, types.Of(types.Int64), id.DataType)
	require.NotNil(t, id.SequenceDescriptor)
	assert.Equal(t, int64(1), *id.SequenceDescriptor.Increment)

	price := book.Columns.Get("Price")
	assert.Equal(t, types.WithPrecision(types.Decimal, 10, 2), price.DataType)
	assert.True(t, price.IsNullable)

	var fk *model.ForeignKey
	for _, c := range book.Constraints {
		if x, ok := c.(*model.ForeignKey); ok {
			fk = x
		}
	}
	require.NotNil(t, fk)
	assert.Same(t, author, fk.ReferencedTable)
	assert.Equal(t, model.Cascade, fk.OnDelete)
	assert.Equal(t, model.NoAction, fk.OnUpdate)

	idx := book.Indexes.Get("IX_Book_Title")
	require.NotNil(t, idx)
	require.Len(t, idx.Columns, 1)
	assert.False(t, idx.Columns[0].Ascending)
}

func TestStatementsOrder(t *testing.T) {
	t.Parallel()
	doc := &schemafile.Document{Schemas: []schemafile.Schema{{
		Name:      "public",
		Sequences: []schemafile.Sequence{{Name: "Numbers"}},
		Tables: []schemafile.Table{{
			Name:    "T",
			Columns: []schemafile.Column{{Name: "A", Type: "int32"}},
			Indexes: []schemafile.Index{{Name: "IX_T_A", Columns: []string{"A"}}},
		}},
	}}}
	cat, err := doc.Build()
	require.NoError(t, err)

	stmts := schemafile.Statements(cat)
	require.Len(t, stmts, 3)
	assert.IsType(t, &nodes.CreateSequence{}, stmts[0])
	assert.IsType(t, &nodes.CreateTable{}, stmts[1])
	assert.IsType(t, &nodes.CreateIndex{}, stmts[2])
}

func TestBuildRejectsBadDocuments(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		yaml string
	}{
		{"unknown type", "schemas:\n  - name: s\n    tables:\n      - name: T\n        columns:\n          - {name: A, type: money}\n"},
		{"unknown key column", "schemas:\n  - name: s\n    tables:\n      - name: T\n        columns:\n          - {name: A, type: int32}\n        primary_key: {columns: [B]}\n"},
		{"unknown referenced table", "schemas:\n  - name: s\n    tables:\n      - name: T\n        columns:\n          - {name: A, type: int32}\n" +
			"        foreign_keys:\n          - {columns: [A], references: {table: X, columns: [A]}}\n"},
		{"unknown action", "schemas:\n  - name: s\n    tables:\n      - name: T\n        columns:\n          - {name: A, type: int32}\n" +
			"        foreign_keys:\n          - {columns: [A], references: {table: T, columns: [A]}, on_delete: explode}\n"},
		{"unnamed schema", "schemas:\n  - tables: []\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc, err := schemafile.Decode(strings.NewReader(tc.yaml))
			require.NoError(t, err)
			_, err = doc.Build()
			assert.ErrorIs(t, err, sqlerr.ErrInvalidArgument)
		})
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	_, err := schemafile.Decode(strings.NewReader("schemas: []\ncolour: red\n"))
	assert.Error(t, err)

	_, err = schemafile.Decode(strings.NewReader(""))
	assert.ErrorIs(t, err, sqlerr.ErrInvalidArgument)
}

func TestFromCatalogSurvivesEncoding(t *testing.T) {
	t.Parallel()
	cat := loadShop(t)
	author := cat.Schemas.Get("public").Tables.Get("Author")
	author.Columns.Get("Name").DefaultValue = nodes.NewNative("'anon'")

	var buf bytes.Buffer
	require.NoError(t, schemafile.Encode(&buf, schemafile.FromCatalog(cat)))
	assert.Contains(t, buf.String(), "default_sql:")
	assert.Contains(t, buf.String(), "on_delete: cascade")
	assert.Contains(t, buf.String(), "- Title desc")

	doc, err := schemafile.Decode(&buf)
	require.NoError(t, err)
	again, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, batch(t, driver.ProviderPostgreSQL, "10", cat), batch(t, driver.ProviderPostgreSQL, "10", again))
}
