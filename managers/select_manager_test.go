package managers

import (
	"errors"
	"testing"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/internal/testutil"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/plugins"
	"github.com/bawdo/sqldom/sqlerr"
)

var standard = CompilerFunc(func(stmt nodes.Statement) (*compiler.Result, error) {
	return compiler.New(compiler.MustBuild(compiler.Standard())).Compile(stmt, compiler.Configuration{})
})

func sqlOf(t *testing.T, m interface {
	ToSQL(Compiler) (string, []any, error)
}) string {
	t.Helper()
	sql, _, err := m.ToSQL(standard)
	testutil.AssertNoError(t, err)
	return sql
}

// --- NewSelectManager ---

func TestNewSelectManagerSetsFrom(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users)

	if m.Query.From != users {
		t.Error("expected From to be the users table")
	}
	testutil.AssertEqual(t, len(m.Query.Columns), 0)
	testutil.AssertEqual(t, sqlOf(t, m), `SELECT * FROM "users"`)
}

func TestNewSelectManagerNilFrom(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nil).Select(nodes.NewLiteral(1))
	testutil.AssertEqual(t, sqlOf(t, m), `SELECT 1`)
}

// --- Projections ---

func TestSelectReplacesProjections(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Select(users.Col("id"))
	m.Project(users.Col("name"), users.Col("email").As("mail"))

	testutil.AssertEqual(t, sqlOf(t, m), `SELECT "users"."name", "users"."email" AS "mail" FROM "users"`)
}

func TestDistinctToggle(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nodes.NewTable("users")).Distinct()
	testutil.AssertEqual(t, sqlOf(t, m), `SELECT DISTINCT * FROM "users"`)
	m.Distinct(false)
	testutil.AssertEqual(t, sqlOf(t, m), `SELECT * FROM "users"`)
}

// --- Where / Having ---

func TestWhereCallsAreAnded(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).
		Where(users.Col("age").Gt(18)).
		Where(users.Col("name").Like("A%"), users.Col("deleted_at").IsNull())

	testutil.AssertEqual(t, sqlOf(t, m),
		`SELECT * FROM "users" WHERE ((("users"."age" > 18) AND ("users"."name" LIKE 'A%')) AND ("users"."deleted_at" IS NULL))`)
}

func TestNonBooleanWhereIsRecorded(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Where(users.Col("age")).Limit(1)

	_, _, err := m.ToSQL(standard)
	testutil.AssertErrorIs(t, err, sqlerr.ErrInvalidArgument)
	_, err = m.Build()
	testutil.AssertErrorIs(t, err, sqlerr.ErrInvalidArgument)
}

func TestGroupAndHaving(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	status := users.Col("status")
	m := NewSelectManager(users).
		Select(status, nodes.Count(nodes.Star())).
		Group(status).
		Having(nodes.Count(nodes.Star()).Gt(5))

	testutil.AssertEqual(t, sqlOf(t, m),
		`SELECT "users"."status", COUNT(*) FROM "users" GROUP BY "users"."status" HAVING (COUNT(*) > 5)`)
}

// --- Joins ---

func TestJoinOn(t *testing.T) {
	t.Parallel()
	users, posts := nodes.NewTable("users"), nodes.NewTable("posts")
	m := NewSelectManager(users).
		Join(posts).On(posts.Col("user_id").Eq(users.Col("id"))).
		Select(users.Col("name"), posts.Col("title"))

	testutil.AssertEqual(t, sqlOf(t, m),
		`SELECT "users"."name", "posts"."title" FROM "users" INNER JOIN "posts" ON ("posts"."user_id" = "users"."id")`)
}

func TestJoinsChainLeftToRight(t *testing.T) {
	t.Parallel()
	users, posts, tags := nodes.NewTable("users"), nodes.NewTable("posts"), nodes.NewTable("tags")
	m := NewSelectManager(users).
		OuterJoin(posts).On(posts.Col("user_id").Eq(users.Col("id"))).
		CrossJoin(tags)

	testutil.AssertEqual(t, sqlOf(t, m),
		`SELECT * FROM "users" LEFT OUTER JOIN "posts" ON ("posts"."user_id" = "users"."id") CROSS JOIN "tags"`)
}

func TestJoinWithoutFromIsRecorded(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nil).Join(nodes.NewTable("posts")).On(nil)
	_, err := m.Build()
	testutil.AssertErrorIs(t, err, sqlerr.ErrInvalidArgument)
}

func TestCrossJoinRejectsCondition(t *testing.T) {
	t.Parallel()
	users, posts := nodes.NewTable("users"), nodes.NewTable("posts")
	m := NewSelectManager(users).Join(posts, nodes.CrossJoin).On(posts.Col("id").Eq(1))
	_, err := m.Build()
	testutil.AssertErrorIs(t, err, sqlerr.ErrInvalidArgument)
}

func TestApplyIsDialectChecked(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nodes.NewTable("users")).CrossApply(nodes.NewTable("posts"))
	_, _, err := m.ToSQL(standard)
	testutil.AssertErrorIs(t, err, sqlerr.ErrNotSupported)
}

// --- Ordering, paging, locks ---

func TestOrderLimitOffset(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Order(users.Col("name").Desc()).Take(10).Offset(20)

	testutil.AssertEqual(t, sqlOf(t, m), `SELECT * FROM "users" ORDER BY "users"."name" DESC LIMIT 10 OFFSET 20`)
}

func TestLockFlagsAccumulate(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nodes.NewTable("users")).ForUpdate().SkipLocked()
	testutil.AssertEqual(t, m.Query.Lock, nodes.LockUpdate|nodes.LockSkipLocked)
	testutil.AssertEqual(t, sqlOf(t, m), `SELECT * FROM "users" FOR UPDATE SKIP LOCKED`)

	shared := NewSelectManager(nodes.NewTable("users")).ForShare().NoWait()
	testutil.AssertEqual(t, shared.Query.Lock, nodes.LockShared|nodes.LockThrowIfLocked)
}

// --- Composition ---

func TestSetOperations(t *testing.T) {
	t.Parallel()
	a, b := NewSelectManager(nodes.NewTable("a")), NewSelectManager(nodes.NewTable("b"))
	res, err := standard.Compile(a.UnionAll(b))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, res.Text, `(SELECT * FROM "a") UNION ALL (SELECT * FROM "b")`)
	testutil.AssertEqual(t, a.Except(b).NodeType(), nodes.OpExcept)
	testutil.AssertEqual(t, a.Intersect(b).NodeType(), nodes.OpIntersect)
	testutil.AssertEqual(t, a.Union(b).NodeType(), nodes.OpUnion)
}

func TestSubqueries(t *testing.T) {
	t.Parallel()
	users, orders := nodes.NewTable("users"), nodes.NewTable("orders")
	buyers := NewSelectManager(orders).Select(orders.Col("user_id"))
	m := NewSelectManager(users).Where(users.Col("id").In(buyers.Query))
	testutil.AssertContains(t, sqlOf(t, m), `IN (SELECT "orders"."user_id" FROM "orders")`)
	if buyers.SubQuery().Query != buyers.Query {
		t.Error("SubQuery must wrap the manager's query")
	}

	derived := buyers.As("b")
	outer := NewSelectManager(derived).Select(derived.Col("user_id"))
	testutil.AssertEqual(t, sqlOf(t, outer), `SELECT "b"."user_id" FROM (SELECT "orders"."user_id" FROM "orders") AS "b"`)
}

// --- Transformers ---

type tagTransformer struct {
	plugins.BaseTransformer
	err error
}

func (tt tagTransformer) TransformSelect(s *nodes.Select) (*nodes.Select, error) {
	if tt.err != nil {
		return nil, tt.err
	}
	s.Limit = nodes.NewLiteral(1)
	return s, nil
}

func TestTransformersRunOnACopy(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nodes.NewTable("users")).Use(tagTransformer{})
	testutil.AssertEqual(t, len(m.Transformers()), 1)
	testutil.AssertEqual(t, sqlOf(t, m), `SELECT * FROM "users" LIMIT 1`)
	if m.Query.Limit != nil {
		t.Error("transformer must not modify the manager's query")
	}
}

func TestTransformerErrorStopsBuild(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	m := NewSelectManager(nodes.NewTable("users")).Use(tagTransformer{err: boom})
	_, _, err := m.ToSQL(standard)
	testutil.AssertErrorIs(t, err, boom)
}

func TestParametersAreReturnedInOrder(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).
		Where(users.Col("name").Eq(nodes.NewParameter("name", "Alice")), users.Col("age").Gt(nodes.NewParameter("age", 30)))

	sql, params, err := m.ToSQL(standard)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, `SELECT * FROM "users" WHERE (("users"."name" = @name) AND ("users"."age" > @age))`)
	testutil.AssertEqual(t, len(params), 2)
}
