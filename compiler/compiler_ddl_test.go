package compiler

import (
	"testing"

	"github.com/bawdo/sqldom/internal/testutil"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/types"
)

type fixture struct {
	schema *model.Schema
	table  *model.Table
	id     *model.TableColumn
	name   *model.TableColumn
}

func newFixture() *fixture {
	s := model.NewCatalog("db").CreateSchema("main")
	tbl := s.CreateTable("T")
	id := tbl.CreateColumn("Id", types.Of(types.Int32))
	id.IsNullable = false
	name := tbl.CreateColumn("Name", types.WithLength(types.VarChar, 50))
	return &fixture{schema: s, table: tbl, id: id, name: name}
}

func TestCreateTable(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.table.CreatePrimaryKey("PK_T", f.id)
	testutil.AssertSQL(t, standardSQL, nodes.NewCreateTable(f.table),
		`CREATE TABLE "main"."T" ("Id" INTEGER NOT NULL, "Name" VARCHAR(50) NULL, CONSTRAINT "PK_T" PRIMARY KEY ("Id"))`)
}

func TestCreateTableDatabaseQualified(t *testing.T) {
	t.Parallel()
	f := newFixture()
	res, err := New(MustBuild(Standard())).Compile(nodes.NewCreateTable(f.table), Configuration{DatabaseQualifiedObjects: true})
	testutil.AssertNoError(t, err)
	testutil.AssertContains(t, res.Text, `CREATE TABLE "db"."main"."T" (`)
}

func TestCreateTableIdentityColumn(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.id.SequenceDescriptor = model.NewSequenceDescriptor(f.id, 10, 5)
	f.table.Columns.Remove(f.name)
	testutil.AssertSQL(t, standardSQL, nodes.NewCreateTable(f.table),
		`CREATE TABLE "main"."T" ("Id" INTEGER GENERATED BY DEFAULT AS IDENTITY (START WITH 10 INCREMENT BY 5) NOT NULL)`)
}

func TestCreateTemporaryTableWithDefault(t *testing.T) {
	t.Parallel()
	s := model.NewCatalog("db").CreateSchema("main")
	tmp := s.CreateTemporaryTable("Scratch")
	flag := tmp.CreateColumn("Flag", types.Of(types.Boolean))
	flag.DefaultValue = nodes.NewLiteral(false)
	testutil.AssertSQL(t, standardSQL, nodes.NewCreateTable(tmp),
		`CREATE GLOBAL TEMPORARY TABLE "main"."Scratch" ("Flag" BOOLEAN DEFAULT FALSE NULL)`)
}

func TestAlterTableAddForeignKey(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ref := f.schema.CreateTable("R")
	refID := ref.CreateColumn("Id", types.Of(types.Int32))
	fk := f.table.CreateForeignKey("FK_T_R")
	fk.Columns = []*model.TableColumn{f.id}
	fk.ReferencedTable = ref
	fk.ReferencedColumns = []*model.TableColumn{refID}
	fk.OnDelete = model.Cascade
	alter, err := nodes.NewAlterTable(f.table, nodes.AddConstraint{Constraint: fk})
	testutil.AssertNoError(t, err)
	testutil.AssertSQL(t, standardSQL, alter,
		`ALTER TABLE "main"."T" ADD CONSTRAINT "FK_T_R" FOREIGN KEY ("Id") REFERENCES "main"."R" ("Id") ON DELETE CASCADE`)
}

func TestAlterTableColumnActions(t *testing.T) {
	t.Parallel()
	f := newFixture()
	tests := []struct {
		name   string
		action nodes.Action
		want   string
	}{
		{"add", nodes.AddColumn{Column: f.name}, `ALTER TABLE "main"."T" ADD COLUMN "Name" VARCHAR(50) NULL`},
		{"drop", nodes.DropColumn{Column: f.name, Cascade: true}, `ALTER TABLE "main"."T" DROP COLUMN "Name" CASCADE`},
		{"set default", nodes.SetDefault{Column: f.name, Value: nodes.NewLiteral("x")},
			`ALTER TABLE "main"."T" ALTER COLUMN "Name" SET DEFAULT 'x'`},
		{"drop default", nodes.DropDefault{Column: f.name}, `ALTER TABLE "main"."T" ALTER COLUMN "Name" DROP DEFAULT`},
		{"rename", nodes.RenameColumn{Column: f.name, NewName: "Title"},
			`ALTER TABLE "main"."T" RENAME COLUMN "Name" TO "Title"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			alter, err := nodes.NewAlterTable(f.table, tt.action)
			testutil.AssertNoError(t, err)
			testutil.AssertSQL(t, standardSQL, alter, tt.want)
		})
	}
}

func TestDropStatements(t *testing.T) {
	t.Parallel()
	f := newFixture()
	seq := f.schema.CreateSequence("Seq1")
	view := f.schema.CreateView("V", nil)
	tests := []struct {
		name string
		stmt nodes.Statement
		want string
	}{
		{"table cascade", nodes.NewDropTable(f.table, true), `DROP TABLE "main"."T" CASCADE`},
		{"table", nodes.NewDropTable(f.table, false), `DROP TABLE "main"."T"`},
		{"view", nodes.NewDropView(view, false), `DROP VIEW "main"."V"`},
		{"sequence", nodes.NewDropSequence(seq, false), `DROP SEQUENCE "main"."Seq1"`},
		{"schema", nodes.NewDropSchema(f.schema, true), `DROP SCHEMA "main" CASCADE`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			testutil.AssertSQL(t, standardSQL, tt.stmt, tt.want)
		})
	}
}

func TestCreateSequence(t *testing.T) {
	t.Parallel()
	seq := newFixture().schema.CreateSequence("Seq1")
	testutil.AssertSQL(t, standardSQL, nodes.NewCreateSequence(seq),
		`CREATE SEQUENCE "main"."Seq1" START WITH 1 INCREMENT BY 1`)
}

func TestCreateIndex(t *testing.T) {
	t.Parallel()
	f := newFixture()
	idx := f.table.CreateIndex("IX_Name")
	idx.IsUnique = true
	idx.CreateIndexColumn(f.name, true)
	testutil.AssertSQL(t, standardSQL, nodes.NewCreateIndex(idx),
		`CREATE UNIQUE INDEX "IX_Name" ON "main"."T" ("Name" ASC)`)
}

func TestCreateFilteredIndex(t *testing.T) {
	t.Parallel()
	f := newFixture()
	idx := f.table.CreateIndex("IX_Id")
	idx.CreateIndexColumn(f.id, false)
	idx.Where = nodes.NewNative("\"Id\" > 0")
	testutil.AssertSQL(t, standardSQL, nodes.NewCreateIndex(idx),
		`CREATE INDEX "IX_Id" ON "main"."T" ("Id" DESC) WHERE "Id" > 0`)
}

func TestCreateView(t *testing.T) {
	t.Parallel()
	f := newFixture()
	def := nodes.NewSubQuery(nodes.NewSelect(nodes.NewTableRef(f.table, "")))
	view := f.schema.CreateView("V", def)
	testutil.AssertSQL(t, standardSQL, nodes.NewCreateView(view), `CREATE VIEW "main"."V" AS SELECT * FROM "main"."T"`)

	view.Columns = []string{"a", "b"}
	testutil.AssertSQL(t, standardSQL, nodes.NewCreateView(view),
		`CREATE VIEW "main"."V" ("a", "b") AS SELECT * FROM "main"."T"`)
}

func TestDomain(t *testing.T) {
	t.Parallel()
	s := newFixture().schema
	d := s.CreateDomain("Pos", types.Of(types.Int32))
	d.CreateConstraint("CK_Pos", nodes.NewNative("VALUE").Gt(0))
	testutil.AssertSQL(t, standardSQL, nodes.NewCreateDomain(d),
		`CREATE DOMAIN "main"."Pos" AS INTEGER CONSTRAINT "CK_Pos" CHECK ((VALUE > 0))`)

	alter, err := nodes.NewAlterDomain(d, nodes.SetDefault{Value: nodes.NewLiteral(0)})
	testutil.AssertNoError(t, err)
	testutil.AssertSQL(t, standardSQL, alter, `ALTER DOMAIN "main"."Pos" SET DEFAULT 0`)
}

func TestUnsupportedModelExpression(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.name.DefaultValue = foreignExpression{}
	testutil.AssertNotSupported(t, standardSQL, nodes.NewCreateTable(f.table), "compiler.foreignExpression expression")
}

type foreignExpression struct{}

func (foreignExpression) SqlExpression() {}
