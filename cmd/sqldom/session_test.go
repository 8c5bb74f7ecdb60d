package main

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bawdo/sqldom/driver"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestSession(t *testing.T, provider string) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	sess, err := NewSession(driver.Config{Provider: provider}, discardLogger, &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	return sess, &out
}

func run(t *testing.T, sess *Session, commands ...string) {
	t.Helper()
	for _, cmd := range commands {
		require.NoError(t, sess.Execute(context.Background(), cmd), "command %q", cmd)
	}
}

// execSQL runs commands against a postgresql session and returns the SQL.
func execSQL(t *testing.T, commands ...string) string {
	t.Helper()
	sess, _ := newTestSession(t, driver.ProviderPostgreSQL)
	run(t, sess, commands...)
	text, _, err := sess.GenerateSQL()
	require.NoError(t, err)
	return text
}

func TestSessionSelect(t *testing.T) {
	t.Parallel()
	got := execSQL(t,
		"table users",
		"from users",
		"select users.id, users.name",
		"where users.age > 18 and users.active = true",
		"order users.name desc",
		"limit 10",
		"offset 5",
	)
	assert.Equal(t, `SELECT "users"."id", "users"."name" FROM "users" `+
		`WHERE (("users"."age" > 18) AND ("users"."active" = TRUE)) `+
		`ORDER BY "users"."name" DESC LIMIT 10 OFFSET 5`, got)
}

func TestSessionConditions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cond string
		want string
	}{
		{"users.id = 1", `("users"."id" = 1)`},
		{"users.id <> users.parent_id", `("users"."id" <> "users"."parent_id")`},
		{"users.name like 'a%'", `("users"."name" LIKE 'a%')`},
		{"users.name not like 'a%'", `("users"."name" NOT LIKE 'a%')`},
		{"users.id in (1, 2)", `("users"."id" IN (1, 2))`},
		{"users.id not in (1)", `("users"."id" NOT IN (1))`},
		{"users.age between 18 and 65", `("users"."age" BETWEEN 18 AND 65)`},
		{"users.email is null", `("users"."email" IS NULL)`},
		{"users.email is not null", `("users"."email" IS NOT NULL)`},
		{"not users.id = 1", `(NOT ("users"."id" = 1))`},
		{"users.a = 1 or users.b = 2 and users.c = 3",
			`(("users"."a" = 1) OR (("users"."b" = 2) AND ("users"."c" = 3)))`},
		{"users.age between 1 and 5 and users.id = 2",
			`(("users"."age" BETWEEN 1 AND 5) AND ("users"."id" = 2))`},
	}
	for _, tt := range tests {
		t.Run(tt.cond, func(t *testing.T) {
			t.Parallel()
			got := execSQL(t, "table users", "from users", "where "+tt.cond)
			assert.Equal(t, `SELECT * FROM "users" WHERE `+tt.want, got)
		})
	}
}

func TestSessionConditionErrors(t *testing.T) {
	t.Parallel()
	for _, cond := range []string{
		"users.id",
		"users.id ~ 1",
		"users.id = bare",
		"orders.id = 1",
		"users.id between 1",
		"users.id is maybe",
		"users.id in ()",
	} {
		sess, _ := newTestSession(t, driver.ProviderPostgreSQL)
		run(t, sess, "table users", "from users")
		assert.Error(t, sess.Execute(context.Background(), "where "+cond), cond)
	}
}

func TestSessionProjections(t *testing.T) {
	t.Parallel()
	got := execSQL(t,
		"table users u",
		"from u",
		"select u.department, count(*) as n, sum(distinct u.salary), u.*",
		"group u.department",
		"having u.department <> 'none'",
	)
	assert.Equal(t, `SELECT "u"."department", COUNT(*) AS "n", SUM(DISTINCT "u"."salary"), "u".* `+
		`FROM "users" AS "u" GROUP BY "u"."department" HAVING ("u"."department" <> 'none')`, got)
}

func TestSessionJoin(t *testing.T) {
	t.Parallel()
	got := execSQL(t,
		"table users",
		"from users",
		"left join posts on posts.user_id = users.id",
	)
	assert.Equal(t, `SELECT * FROM "users" LEFT OUTER JOIN "posts" ON ("posts"."user_id" = "users"."id")`, got)
}

func TestSessionParameterize(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, driver.ProviderPostgreSQL)
	run(t, sess, "table users", "from users", "params", "where users.age > 18 and users.name = 'Ada'")

	text, args, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE (("users"."age" > $1) AND ("users"."name" = $2))`, text)
	assert.Equal(t, []any{int64(18), "Ada"}, args)
}

func TestSessionSoftDelete(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, driver.ProviderPostgreSQL)
	run(t, sess, "table users", "from users", "where users.id = 1", "softdelete")

	text, _, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE (("users"."id" = 1) AND ("users"."deleted_at" IS NULL))`, text)

	out.Reset()
	run(t, sess, "dot")
	assert.Contains(t, out.String(), "digraph AST {")
	assert.Contains(t, out.String(), `label="softdelete";`)

	run(t, sess, "softdelete removed_at")
	text, _, err = sess.GenerateSQL()
	require.NoError(t, err)
	assert.Contains(t, text, `"users"."removed_at" IS NULL`)

	run(t, sess, "softdelete off")
	text, _, err = sess.GenerateSQL()
	require.NoError(t, err)
	assert.NotContains(t, text, "IS NULL")
}

func TestSessionDotFile(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, driver.ProviderPostgreSQL)
	path := filepath.Join(t.TempDir(), "q.dot")
	run(t, sess, "table users", "from users", "dot "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `label="Table\nusers"`)
	assert.NotContains(t, string(data), "cluster_")
	assert.Contains(t, out.String(), "Wrote DOT to "+path)
}

func TestSessionDialectSwitch(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, driver.ProviderPostgreSQL)
	run(t, sess, "table users", "from users", "select users.name", "where users.active = true", "dialect mysql 5.6")

	text, _, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT `users`.`name` FROM `users` WHERE (`users`.`active` = TRUE)", text)
	assert.Contains(t, out.String(), "Dialect: mysql 5.6")

	run(t, sess, "dialect sqlserver")
	text, _, err = sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT [users].[name] FROM [users] WHERE ([users].[active] = 1)`, text)

	assert.Error(t, sess.Execute(context.Background(), "dialect db2"))
	assert.Equal(t, driver.ProviderSqlServer, sess.cfg.Provider)
}

func TestSessionErrors(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, driver.ProviderPostgreSQL)
	ctx := context.Background()

	assert.ErrorIs(t, sess.Execute(ctx, "select users.id"), errNoQuery)
	assert.ErrorIs(t, sess.Execute(ctx, "sql"), errNoQuery)
	assert.ErrorIs(t, sess.Execute(ctx, "exec"), errNotConnected)
	assert.ErrorIs(t, sess.Execute(ctx, "disconnect"), errNotConnected)
	assert.ErrorContains(t, sess.Execute(ctx, "frobnicate now"), "unknown command: frobnicate")

	run(t, sess, "from users")
	assert.Error(t, sess.Execute(ctx, "limit -1"))
	assert.Error(t, sess.Execute(ctx, "order users.id sideways"))
	assert.Error(t, sess.Execute(ctx, "select median(users.id)"))
	assert.Error(t, sess.Execute(ctx, "join posts"))

	run(t, sess, "reset")
	assert.ErrorIs(t, sess.Execute(ctx, "where users.id = 1"), errNoQuery)
}

func TestSessionTablesAndHelp(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, driver.ProviderSQLite)
	run(t, sess, "tables")
	assert.Contains(t, out.String(), "No tables registered")

	run(t, sess, "table users", "t orders o", "tables", "help")
	assert.Contains(t, out.String(), "  o -> orders\n")
	assert.Contains(t, out.String(), "  users\n")
	assert.Contains(t, out.String(), "exec ")
}

func createPeopleDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	_, err = db.Exec(`
CREATE TABLE "people" ("id" INTEGER NOT NULL PRIMARY KEY, "name" VARCHAR(50) NULL);
INSERT INTO "people" VALUES (1, 'Ada'), (2, 'Grace');`)
	require.NoError(t, err)
	return path
}

func TestSessionExec(t *testing.T) {
	t.Parallel()
	path := createPeopleDB(t)
	sess, out := newTestSession(t, driver.ProviderSQLite)

	run(t, sess, "connect "+path)
	assert.Equal(t, []string{"id", "name"}, sess.schema["people"])

	out.Reset()
	run(t, sess, "from people", "select people.id, people.name", "order people.id", "exec")
	assert.True(t, strings.HasSuffix(out.String(),
		"+----+-------+\n"+
			"| id | name  |\n"+
			"+----+-------+\n"+
			"| 1  | Ada   |\n"+
			"| 2  | Grace |\n"+
			"+----+-------+\n"+
			"(2 rows)\n"), out.String())

	run(t, sess, "disconnect")
	assert.Nil(t, sess.conn)
	assert.Nil(t, sess.schema)
}
