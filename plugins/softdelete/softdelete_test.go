package softdelete

import (
	"testing"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/internal/testutil"
	"github.com/bawdo/sqldom/nodes"
)

func toSQL(t *testing.T, stmt nodes.Statement) string {
	t.Helper()
	res, err := compiler.New(compiler.MustBuild(compiler.Standard())).Compile(stmt, compiler.Configuration{})
	testutil.AssertNoError(t, err)
	return res.Text
}

func TestDefaultColumnDeletedAt(t *testing.T) {
	t.Parallel()
	sel, err := New().TransformSelect(nodes.NewSelect(nodes.NewTable("users")))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, toSQL(t, sel), `SELECT * FROM "users" WHERE ("users"."deleted_at" IS NULL)`)
}

func TestCustomColumnName(t *testing.T) {
	t.Parallel()
	sel, err := New(WithColumn("removed_at")).TransformSelect(nodes.NewSelect(nodes.NewTable("users")))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, toSQL(t, sel), `SELECT * FROM "users" WHERE ("users"."removed_at" IS NULL)`)
}

func TestPreservesExistingWhere(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	sel := nodes.NewSelect(users)
	testutil.AssertNoError(t, sel.SetWhere(users.Col("name").Eq("a")))

	sel, err := New().TransformSelect(sel)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, toSQL(t, sel),
		`SELECT * FROM "users" WHERE (("users"."name" = 'a') AND ("users"."deleted_at" IS NULL))`)
}

func TestAliasedTablesUseAlias(t *testing.T) {
	t.Parallel()
	u := nodes.NewTable("users").As("u")
	sel, err := New(WithTables("users")).TransformSelect(nodes.NewSelect(u))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, toSQL(t, sel), `SELECT * FROM "users" AS "u" WHERE ("u"."deleted_at" IS NULL)`)
}

func TestPerTableColumnsRestrictScope(t *testing.T) {
	t.Parallel()
	users, posts, tags := nodes.NewTable("users"), nodes.NewTable("posts"), nodes.NewTable("tags")
	j1, err := nodes.NewJoin(nodes.InnerJoin, users, posts, posts.Col("user_id").Eq(users.Col("id")))
	testutil.AssertNoError(t, err)
	j2, err := nodes.NewJoin(nodes.CrossJoin, j1, tags, nil)
	testutil.AssertNoError(t, err)

	sd := New(WithTableColumn("users", "deleted_at"), WithTableColumn("posts", "removed_at"))
	sel, err := sd.TransformSelect(nodes.NewSelect(j2))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, toSQL(t, sel),
		`SELECT * FROM "users" INNER JOIN "posts" ON ("posts"."user_id" = "users"."id") CROSS JOIN "tags" `+
			`WHERE (("users"."deleted_at" IS NULL) AND ("posts"."removed_at" IS NULL))`)
}

func TestUpdateAndDeleteTouchLiveRows(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	upd := nodes.NewUpdate(users).Set(users.Col("name"), "b")
	testutil.AssertNoError(t, upd.SetWhere(users.Col("id").Eq(1)))
	upd, err := New().TransformUpdate(upd)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, toSQL(t, upd),
		`UPDATE "users" SET "name" = 'b' WHERE (("users"."id" = 1) AND ("users"."deleted_at" IS NULL))`)

	del, err := New().TransformDelete(nodes.NewDelete(users))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, toSQL(t, del), `DELETE FROM "users" WHERE ("users"."deleted_at" IS NULL)`)

	other, err := New(WithTables("posts")).TransformDelete(nodes.NewDelete(users))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, toSQL(t, other), `DELETE FROM "users"`)
}

func TestCursorDeleteIsLeftAlone(t *testing.T) {
	t.Parallel()
	del := nodes.NewDelete(nodes.NewTable("users"))
	testutil.AssertNoError(t, del.SetWhere(nodes.NewCursor("c1")))
	del, err := New().TransformDelete(del)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, toSQL(t, del), `DELETE FROM "users" WHERE CURRENT OF c1`)
}
