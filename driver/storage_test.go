package driver

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

func standardCompiler(t *compiler.Translator) Compiler { return compiler.New(t) }

type stubExtractor struct {
	build func(task ExtractionTask) *model.Catalog
}

func (x stubExtractor) Extract(_ context.Context, _ Queryer, tasks []ExtractionTask) (*ExtractionResult, error) {
	res := &ExtractionResult{}
	for _, task := range tasks {
		res.Catalogs = append(res.Catalogs, x.build(task))
	}
	return res, nil
}

func newStandardDriver(provider string, x Extractor) *SqlDriver {
	return NewSqlDriver(provider, ServerInfo{Version: V(1, 0)}, compiler.MustBuild(compiler.Standard()), standardCompiler, x)
}

func newTestStorage(t *testing.T, d *SqlDriver, cfg Config) (*StorageDriver, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s, err := NewStorageDriver(d, cfg, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.NoError(t, err)
	return s, &buf
}

func TestNewStorageDriverRequiresDriver(t *testing.T) {
	t.Parallel()
	_, err := NewStorageDriver(nil, Config{})
	assert.ErrorIs(t, err, sqlerr.ErrInvalidArgument)
}

func TestCompileQualifiesObjectsForMultidatabase(t *testing.T) {
	t.Parallel()
	tbl := model.NewCatalog("shop").CreateSchema("dbo").CreateTable("Orders")
	stmt := nodes.NewSelect(nodes.NewTableRef(tbl, ""))

	single, _ := newTestStorage(t, newStandardDriver("test", nil), Config{})
	res, err := single.Compile(stmt)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "dbo"."Orders"`, res.Text)

	multi, _ := newTestStorage(t, newStandardDriver("test", nil), Config{IsMultidatabase: true})
	res, err = multi.Compile(stmt)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "shop"."dbo"."Orders"`, res.Text)
}

func TestCompileReportsNotSupported(t *testing.T) {
	t.Parallel()
	s, _ := newTestStorage(t, newStandardDriver("test", nil), Config{})
	j, err := nodes.NewJoin(nodes.CrossApply, nodes.NewTable("a"), nodes.NewTable("b"), nil)
	require.NoError(t, err)
	_, err = s.Compile(nodes.NewSelect(j))
	assert.ErrorIs(t, err, sqlerr.ErrNotSupported)
}

func TestBuildBatchAndParameterReference(t *testing.T) {
	t.Parallel()
	s, _ := newTestStorage(t, newStandardDriver("test", nil), Config{})
	st := s.Driver().Translator.Settings()
	assert.Equal(t, "a"+st.BatchItemDelimiter+"b", s.BuildBatch([]string{"a", "b"}))
	assert.Equal(t, st.ParameterPrefix+"id", s.BuildParameterReference("id"))
}

func TestTypeNameIsCached(t *testing.T) {
	t.Parallel()
	s, _ := newTestStorage(t, newStandardDriver("test", nil), Config{})
	typ := reflect.TypeFor[int32]()
	assert.Equal(t, "INTEGER", s.TypeName(typ))
	assert.Equal(t, "INTEGER", s.TypeName(typ))
	cached, ok := s.typeNames.Load(typ)
	require.True(t, ok)
	assert.Equal(t, "INTEGER", cached)
	assert.Equal(t, "BOOLEAN", s.TypeName(reflect.TypeFor[bool]()))
}

func TestExtractWithoutExtractor(t *testing.T) {
	t.Parallel()
	s, _ := newTestStorage(t, newStandardDriver(ProviderOracle, nil), Config{})
	_, err := s.Extract(context.Background(), nil, []ExtractionTask{{Catalog: "db"}})
	assert.ErrorIs(t, err, sqlerr.ErrNotImplemented)

	r := <-s.ExtractAsync(context.Background(), nil, []ExtractionTask{{Catalog: "db"}})
	assert.ErrorIs(t, r.Err, sqlerr.ErrNotImplemented)
	assert.Nil(t, r.Result)
}

func TestExtractDropsSysDiagrams(t *testing.T) {
	t.Parallel()
	x := stubExtractor{build: func(task ExtractionTask) *model.Catalog {
		cat := model.NewCatalog(task.Catalog)
		dbo := cat.CreateSchema("dbo")
		dbo.CreateTable("sysdiagrams")
		dbo.CreateTable("Orders")
		return cat
	}}
	s, logs := newTestStorage(t, newStandardDriver(ProviderSqlServer, x), Config{})
	res, err := s.Extract(context.Background(), nil, []ExtractionTask{{Catalog: "shop"}})
	require.NoError(t, err)
	dbo := res.Catalogs[0].Schemas.Get("dbo")
	assert.False(t, dbo.Tables.Contains("sysdiagrams"))
	assert.True(t, dbo.Tables.Contains("Orders"))
	assert.Contains(t, logs.String(), "removed sysdiagrams")
}

func TestExtractRestoresGenerators(t *testing.T) {
	t.Parallel()
	x := stubExtractor{build: func(task ExtractionTask) *model.Catalog {
		cat := model.NewCatalog(task.Catalog)
		main := cat.CreateSchema("main")
		main.CreateTable("Int64-Generator").CreateColumn("ID", types.Of(types.Int64))
		wide := main.CreateTable("Wide-Generator")
		wide.CreateColumn("A", types.Of(types.Int64))
		wide.CreateColumn("B", types.Of(types.Int64))
		main.CreateTable("Orders").CreateColumn("Id", types.Of(types.Int32))
		return cat
	}}
	s, logs := newTestStorage(t, newStandardDriver(ProviderSQLite, x), Config{})
	res, err := s.Extract(context.Background(), nil, []ExtractionTask{{Catalog: "db"}})
	require.NoError(t, err)
	main := res.Catalogs[0].Schemas.Get("main")

	gen := main.Tables.Get("Int64-Generator").Columns.Get("ID")
	require.NotNil(t, gen.SequenceDescriptor)
	assert.Equal(t, int64(1), *gen.SequenceDescriptor.StartValue)
	assert.Equal(t, int64(1), *gen.SequenceDescriptor.Increment)
	assert.Same(t, gen, gen.SequenceDescriptor.Owner)

	assert.Nil(t, main.Tables.Get("Wide-Generator").Columns.Get("A").SequenceDescriptor)
	assert.Nil(t, main.Tables.Get("Orders").Columns.Get("Id").SequenceDescriptor)
	assert.Contains(t, logs.String(), "restored generator sequence")
}

func TestFixupsAreProviderSpecific(t *testing.T) {
	t.Parallel()
	x := stubExtractor{build: func(task ExtractionTask) *model.Catalog {
		cat := model.NewCatalog(task.Catalog)
		s := cat.CreateSchema("public")
		s.CreateTable("sysdiagrams")
		s.CreateTable("Int32-Generator").CreateColumn("ID", types.Of(types.Int32))
		return cat
	}}
	s, _ := newTestStorage(t, newStandardDriver(ProviderPostgreSQL, x), Config{})
	res, err := s.Extract(context.Background(), nil, []ExtractionTask{{Catalog: "db"}})
	require.NoError(t, err)
	public := res.Catalogs[0].Schemas.Get("public")
	assert.True(t, public.Tables.Contains("sysdiagrams"))
	assert.Nil(t, public.Tables.Get("Int32-Generator").Columns.Get("ID").SequenceDescriptor)
}

// dsnRewriter points every connection at an in-memory database.
type dsnRewriter struct {
	opened bool
}

func (h *dsnRewriter) ConnectionOpening(_ context.Context, info *ConnectionInfo) error {
	info.DSN = ":memory:"
	return nil
}

func (h *dsnRewriter) ConnectionOpened(ctx context.Context, db *sql.DB) error {
	h.opened = true
	return db.PingContext(ctx)
}

func TestConnectionOpenRunsHandlers(t *testing.T) {
	t.Parallel()
	d := newStandardDriver(ProviderSQLite, nil)
	d.DriverName = "sqlite"
	cfg := Config{
		DSN:                         "file:unused.db",
		ConnectionInitializationSQL: "CREATE TABLE t (x)",
		EnsureConnectionIsAlive:     true,
		ConnectionHandlers:          []reflect.Type{HandlerType[*dsnRewriter]()},
	}
	s, _ := newTestStorage(t, d, cfg)
	conn, err := s.CreateConnection()
	require.NoError(t, err)
	require.NoError(t, conn.Open(context.Background()))
	t.Cleanup(func() { _ = conn.Close() })

	assert.Equal(t, ":memory:", conn.Info.DSN)
	require.Len(t, conn.Handlers(), 1)
	assert.True(t, conn.Handlers()[0].(*dsnRewriter).opened)

	// every connection gets its own handler instances
	other, err := s.CreateConnection()
	require.NoError(t, err)
	assert.NotSame(t, conn.Handlers()[0], other.Handlers()[0])
	assert.False(t, other.Handlers()[0].(*dsnRewriter).opened)
}

func TestInitializationSQLRunsOnEveryConnection(t *testing.T) {
	t.Parallel()
	d := newStandardDriver(ProviderSQLite, nil)
	d.DriverName = "sqlite"
	cfg := Config{
		DSN:                         filepath.Join(t.TempDir(), "init.db"),
		ConnectionInitializationSQL: "PRAGMA foreign_keys = ON",
	}
	s, _ := newTestStorage(t, d, cfg)
	conn, err := s.CreateConnection()
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, conn.Open(ctx))
	t.Cleanup(func() { _ = conn.Close() })

	// hold both so the pool has to open a second physical connection
	c1, err := conn.DB.Conn(ctx)
	require.NoError(t, err)
	defer func() { _ = c1.Close() }()
	c2, err := conn.DB.Conn(ctx)
	require.NoError(t, err)
	defer func() { _ = c2.Close() }()

	for _, c := range []*sql.Conn{c1, c2} {
		var on int
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on))
		assert.Equal(t, 1, on)
	}
}

func TestInitializationSQLFailureFailsOpen(t *testing.T) {
	t.Parallel()
	d := newStandardDriver(ProviderSQLite, nil)
	d.DriverName = "sqlite"
	s, _ := newTestStorage(t, d, Config{DSN: ":memory:", ConnectionInitializationSQL: "NOT SQL"})
	conn, err := s.CreateConnection()
	require.NoError(t, err)
	err = conn.Open(context.Background())
	assert.ErrorContains(t, err, "connection initialization")
	assert.Nil(t, conn.DB)
}

func TestConnectionWithoutDriverName(t *testing.T) {
	t.Parallel()
	s, _ := newTestStorage(t, newStandardDriver(ProviderSqlServer, nil), Config{})
	conn, err := s.CreateConnection()
	require.NoError(t, err)
	assert.ErrorIs(t, conn.Open(context.Background()), sqlerr.ErrNotSupported)
	assert.NoError(t, conn.Close())
}

func TestServerVersionPrefersForcedVersion(t *testing.T) {
	t.Parallel()
	conn := newConnection("", &Config{ForcedServerVersion: "10.2"}, nil)
	v, err := conn.ServerVersion(context.Background(), &Provider{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, V(10, 2), v)

	conn = newConnection("", &Config{}, nil)
	_, err = conn.ServerVersion(context.Background(), &Provider{Name: "x"})
	assert.ErrorIs(t, err, sqlerr.ErrInvalidArgument)
}
