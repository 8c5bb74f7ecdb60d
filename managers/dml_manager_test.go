package managers

import (
	"testing"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/dialects/mysql"
	"github.com/bawdo/sqldom/internal/testutil"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/plugins/softdelete"
	"github.com/bawdo/sqldom/sqlerr"
)

var mysql80 = CompilerFunc(func(stmt nodes.Statement) (*compiler.Result, error) {
	return mysql.NewCompiler(mysql.NewTranslator(mysql.Version80)).Compile(stmt, compiler.Configuration{})
})

// --- InsertManager ---

func TestInsertValues(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(users).
		Columns(users.Col("id"), users.Col("name")).
		Values(1, "a").
		Values(2, nodes.NewDefault()).
		Values(3, nil)

	testutil.AssertEqual(t, sqlOf(t, m), `INSERT INTO "users" ("id", "name") VALUES (1, 'a'), (2, DEFAULT), (3, NULL)`)
}

func TestInsertDefaultValues(t *testing.T) {
	t.Parallel()
	m := NewInsertManager(nodes.NewTable("users"))
	testutil.AssertEqual(t, sqlOf(t, m), `INSERT INTO "users" DEFAULT VALUES`)
}

func TestInsertValueCountMismatch(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(users).Columns(users.Col("id"), users.Col("name")).Values(1)
	_, _, err := m.ToSQL(standard)
	testutil.AssertErrorIs(t, err, sqlerr.ErrInvalidArgument)
}

func TestInsertColumnsAfterValues(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(users).Columns(users.Col("id")).Values(1).Columns(users.Col("name"))
	_, err := m.Build()
	testutil.AssertErrorIs(t, err, sqlerr.ErrInvalidArgument)
}

func TestInsertFromSelect(t *testing.T) {
	t.Parallel()
	archive, users := nodes.NewTable("archive"), nodes.NewTable("users")
	m := NewInsertManager(archive).
		Columns(archive.Col("id")).
		FromSelect(NewSelectManager(users).Select(users.Col("id")))

	testutil.AssertEqual(t, sqlOf(t, m), `INSERT INTO "archive" ("id") SELECT "users"."id" FROM "users"`)
}

func TestInsertFromSelectAfterValues(t *testing.T) {
	t.Parallel()
	archive, users := nodes.NewTable("archive"), nodes.NewTable("users")
	m := NewInsertManager(archive).
		Columns(archive.Col("id")).
		Values(1).
		FromSelect(NewSelectManager(users).Select(users.Col("id")))

	_, err := m.Build()
	testutil.AssertErrorIs(t, err, sqlerr.ErrInvalidArgument)
}

func TestInsertFromSelectRunsQueryTransformers(t *testing.T) {
	t.Parallel()
	archive, users := nodes.NewTable("archive"), nodes.NewTable("users")
	src := NewSelectManager(users).Select(users.Col("id")).Use(softdelete.New())
	m := NewInsertManager(archive).Columns(archive.Col("id")).FromSelect(src)

	testutil.AssertEqual(t, sqlOf(t, m),
		`INSERT INTO "archive" ("id") SELECT "users"."id" FROM "users" WHERE ("users"."deleted_at" IS NULL)`)
}

// --- UpdateManager ---

func TestUpdateSetWhere(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewUpdateManager(users).
		Set(users.Col("name"), "b").
		Set(users.Col("email"), nil).
		Where(users.Col("id").Eq(1))

	testutil.AssertEqual(t, sqlOf(t, m), `UPDATE "users" SET "name" = 'b', "email" = NULL WHERE ("users"."id" = 1)`)
}

func TestUpdateWhereCurrentOf(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewUpdateManager(users).Set(users.Col("name"), "b").WhereCurrentOf("c1")
	testutil.AssertEqual(t, sqlOf(t, m), `UPDATE "users" SET "name" = 'b' WHERE CURRENT OF c1`)
}

func TestUpdateLimitDependsOnDialect(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	m := NewUpdateManager(tbl).Set(tbl.Col("Name"), "x").Where(tbl.Col("Id").Eq(1)).Limit(1)

	_, _, err := m.ToSQL(standard)
	testutil.AssertErrorIs(t, err, sqlerr.ErrNotSupported)

	sql, _, err := m.ToSQL(mysql80)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, "UPDATE `T` SET `Name` = 'x' WHERE (`T`.`Id` = 1) LIMIT 1")
}

func TestUpdateSoftDelete(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewUpdateManager(users).Set(users.Col("name"), "b").Use(softdelete.New())

	testutil.AssertEqual(t, sqlOf(t, m), `UPDATE "users" SET "name" = 'b' WHERE ("users"."deleted_at" IS NULL)`)
	if m.Statement.Where() != nil {
		t.Error("transformer must not modify the manager's statement")
	}
}

func TestUpdateNonBooleanWhere(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewUpdateManager(users).Set(users.Col("name"), "b").Where(nodes.NewLiteral(1))
	_, err := m.Build()
	testutil.AssertErrorIs(t, err, sqlerr.ErrInvalidArgument)
}

// --- DeleteManager ---

func TestDeleteWhere(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewDeleteManager(users).Where(users.Col("id").In(1, 2))
	testutil.AssertEqual(t, sqlOf(t, m), `DELETE FROM "users" WHERE ("users"."id" IN (1, 2))`)
}

func TestDeleteWithoutWhere(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, sqlOf(t, NewDeleteManager(nodes.NewTable("users"))), `DELETE FROM "users"`)
}

func TestDeleteWhereCurrentOf(t *testing.T) {
	t.Parallel()
	m := NewDeleteManager(nodes.NewTable("users")).WhereCurrentOf("c1").Use(softdelete.New())
	testutil.AssertEqual(t, sqlOf(t, m), `DELETE FROM "users" WHERE CURRENT OF c1`)
}

func TestDeleteLimitDependsOnDialect(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	m := NewDeleteManager(tbl).Where(tbl.Col("Id").Gt(5)).Limit(10)

	_, _, err := m.ToSQL(standard)
	testutil.AssertErrorIs(t, err, sqlerr.ErrNotSupported)

	sql, _, err := m.ToSQL(mysql80)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, "DELETE FROM `T` WHERE (`T`.`Id` > 5) LIMIT 10")
}

func TestDeleteNamedParameters(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewDeleteManager(users).Where(users.Col("id").Eq(nodes.NewParameter("id", 7)))

	sql, args, err := m.ToSQL(standard)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, `DELETE FROM "users" WHERE ("users"."id" = @id)`)
	testutil.AssertEqual(t, len(args), 1)
}
