package compiler

import (
	"testing"

	"github.com/bawdo/sqldom/internal/testutil"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

func standardSQL(stmt nodes.Statement) (string, error) {
	res, err := New(MustBuild(Standard())).Compile(stmt, Configuration{})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func mustWhere(t *testing.T, sel *nodes.Select, e nodes.Expression) *nodes.Select {
	t.Helper()
	testutil.AssertNoError(t, sel.SetWhere(e))
	return sel
}

func project(e ...nodes.Expression) *nodes.Select {
	sel := nodes.NewSelect(nil)
	sel.Columns = e
	return sel
}

// --- SELECT ---

func TestSelectStar(t *testing.T) {
	t.Parallel()
	testutil.AssertSQL(t, standardSQL, nodes.NewSelect(nodes.NewTable("users")), `SELECT * FROM "users"`)
}

func TestSelectColumnsAndWhere(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users", "id", "name")
	sel := nodes.NewSelect(users)
	sel.Columns = []nodes.Expression{users.Col("id"), users.Col("name")}
	mustWhere(t, sel, users.Col("id").Eq(1))
	testutil.AssertSQL(t, standardSQL, sel,
		`SELECT "users"."id", "users"."name" FROM "users" WHERE ("users"."id" = 1)`)
}

func TestSelectAliasQualifiesColumns(t *testing.T) {
	t.Parallel()
	u := nodes.NewTable("users").As("u")
	sel := nodes.NewSelect(u)
	sel.Columns = []nodes.Expression{u.Col("name").As("n")}
	testutil.AssertSQL(t, standardSQL, sel, `SELECT "u"."name" AS "n" FROM "users" AS "u"`)
}

func TestSelectDistinctGroupHavingOrder(t *testing.T) {
	t.Parallel()
	orders := nodes.NewTable("orders")
	sel := nodes.NewSelect(orders)
	sel.Distinct = true
	sel.Columns = []nodes.Expression{orders.Col("user_id"), nodes.Count(nil)}
	sel.GroupBy = []nodes.Expression{orders.Col("user_id")}
	testutil.AssertNoError(t, sel.SetHaving(nodes.Count(nil).Gt(2)))
	sel.OrderBy = []*nodes.Order{orders.Col("user_id").Desc()}
	testutil.AssertSQL(t, standardSQL, sel,
		`SELECT DISTINCT "orders"."user_id", COUNT(*) FROM "orders" GROUP BY "orders"."user_id" `+
			`HAVING (COUNT(*) > 2) ORDER BY "orders"."user_id" DESC`)
}

func TestSelectLimitOffset(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	sel := nodes.NewSelect(users)
	sel.OrderBy = []*nodes.Order{users.Col("id").Asc()}
	sel.Limit = nodes.NewLiteral(10)
	sel.Offset = nodes.NewLiteral(5)
	testutil.AssertSQL(t, standardSQL, sel, `SELECT * FROM "users" ORDER BY "users"."id" ASC LIMIT 10 OFFSET 5`)
}

func TestSelectOffsetWithoutLimit(t *testing.T) {
	t.Parallel()
	sel := nodes.NewSelect(nodes.NewTable("users"))
	sel.Offset = nodes.NewLiteral(5)
	testutil.AssertSQL(t, standardSQL, sel, `SELECT * FROM "users" OFFSET 5`)
}

func TestSelectLockClause(t *testing.T) {
	t.Parallel()
	sel := nodes.NewSelect(nodes.NewTable("users"))
	sel.Lock = nodes.LockUpdate | nodes.LockSkipLocked
	testutil.AssertSQL(t, standardSQL, sel, `SELECT * FROM "users" FOR UPDATE SKIP LOCKED`)
	sel.Lock = nodes.LockShared
	testutil.AssertSQL(t, standardSQL, sel, `SELECT * FROM "users" FOR SHARE`)
}

func TestSelectWithoutFrom(t *testing.T) {
	t.Parallel()
	testutil.AssertSQL(t, standardSQL, project(nodes.NewLiteral(1)), `SELECT 1`)
}

// --- Table sources ---

func TestInnerJoin(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	orders := nodes.NewTable("orders")
	j, err := nodes.NewJoin(nodes.InnerJoin, users, orders, orders.Col("user_id").Eq(users.Col("id")))
	testutil.AssertNoError(t, err)
	testutil.AssertSQL(t, standardSQL, nodes.NewSelect(j),
		`SELECT * FROM "users" INNER JOIN "orders" ON ("orders"."user_id" = "users"."id")`)
}

func TestCrossApplyIsNotSupported(t *testing.T) {
	t.Parallel()
	j, err := nodes.NewJoin(nodes.CrossApply, nodes.NewTable("a"), nodes.NewTable("b"), nil)
	testutil.AssertNoError(t, err)
	testutil.AssertNotSupported(t, standardSQL, nodes.NewSelect(j), "CROSS APPLY")
}

func TestQueryRefGetsGeneratedAlias(t *testing.T) {
	t.Parallel()
	qr := nodes.NewQueryRef(nodes.NewSelect(nodes.NewTable("orders")), "")
	outer := nodes.NewSelect(qr)
	outer.Columns = []nodes.Expression{qr.Col("x")}
	testutil.AssertSQL(t, standardSQL, outer, `SELECT "t0"."x" FROM (SELECT * FROM "orders") AS "t0"`)
}

func TestSetOperation(t *testing.T) {
	t.Parallel()
	u := nodes.Union(nodes.NewSelect(nodes.NewTable("a")), nodes.NewSelect(nodes.NewTable("b")))
	testutil.AssertSQL(t, standardSQL, u, `(SELECT * FROM "a") UNION (SELECT * FROM "b")`)
}

// --- Expressions ---

func TestPredicates(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	id, name := users.Col("id"), users.Col("name")
	tests := []struct {
		name string
		expr nodes.Expression
		want string
	}{
		{"in", id.In(1, 2, 3), `("users"."id" IN (1, 2, 3))`},
		{"not in", id.NotIn(1), `("users"."id" NOT IN (1))`},
		{"between", id.Between(1, 10), `("users"."id" BETWEEN 1 AND 10)`},
		{"not like", name.NotLike("a%"), `("users"."name" NOT LIKE 'a%')`},
		{"is null", name.IsNull(), `("users"."name" IS NULL)`},
		{"not", id.Eq(1).Not(), `(NOT ("users"."id" = 1))`},
		{"and", id.Eq(1).And(name.NotEq("x")), `(("users"."id" = 1) AND ("users"."name" <> 'x'))`},
		{"exists", nodes.Exists(nodes.NewSelect(nodes.NewTable("orders"))), `(EXISTS (SELECT * FROM "orders"))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sel := mustWhere(t, nodes.NewSelect(users), tt.expr)
			testutil.AssertSQL(t, standardSQL, sel, `SELECT * FROM "users" WHERE `+tt.want)
		})
	}
}

func TestScalarExpressions(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	id, name := users.Col("id"), users.Col("name")
	tests := []struct {
		name string
		expr nodes.Expression
		want string
	}{
		{"coalesce", nodes.NewFunctionCall(nodes.FuncCoalesce, name, nodes.NewLiteral("x")), `COALESCE("users"."name", 'x')`},
		{"niladic", nodes.NewFunctionCall(nodes.FuncCurrentTimestamp), `CURRENT_TIMESTAMP`},
		{"empty parens", nodes.NewFunctionCall(nodes.FuncPi), `PI()`},
		{"concat is infix", nodes.NewFunctionCall(nodes.FuncConcat, nodes.NewLiteral("a"), nodes.NewLiteral("b")), `('a' || 'b')`},
		{"negate is prefix", nodes.NewFunctionCall(nodes.FuncIntervalNegate, nodes.NewLiteral(5)), `(-5)`},
		{"position", nodes.NewFunctionCall(nodes.FuncPosition, nodes.NewLiteral("a"), name), `POSITION('a' IN "users"."name")`},
		{"user function", nodes.NewUserFunctionCall("score", id), `"score"("users"."id")`},
		{"sum distinct", nodes.NewAggregate(nodes.OpSum, id, true), `SUM(DISTINCT "users"."id")`},
		{"cast", nodes.NewCast(id, types.WithLength(types.VarChar, 10)), `CAST("users"."id" AS VARCHAR(10))`},
		{"extract", nodes.NewExtract(nodes.DateTimePartYear, name), `EXTRACT(YEAR FROM "users"."name")`},
		{"trim", nodes.NewTrim(name, nodes.TrimLeading, "x"), `TRIM(LEADING 'x' FROM "users"."name")`},
		{"trim whitespace", nodes.NewTrim(name, nodes.TrimBoth, ""), `TRIM(BOTH FROM "users"."name")`},
		{"case", nodes.NewCase(nil).When(id.Eq(1), nodes.NewLiteral("one")).Otherwise(nodes.NewLiteral("other")),
			`CASE WHEN ("users"."id" = 1) THEN 'one' ELSE 'other' END`},
		{"arithmetic", nodes.Add(id, nodes.Multiply(id, nodes.NewLiteral(2))), `("users"."id" + ("users"."id" * 2))`},
		{"negate", nodes.Negate(id), `(-"users"."id")`},
		{"null", nodes.NewNull(), `NULL`},
		{"native", nodes.NewNative("now()"), `now()`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			testutil.AssertSQL(t, standardSQL, project(tt.expr), `SELECT `+tt.want)
		})
	}
}

func TestUnsupportedFunction(t *testing.T) {
	t.Parallel()
	call := nodes.NewFunctionCall(nodes.FuncDateTimeAddMonths, nodes.NewLiteral(1), nodes.NewLiteral(2))
	testutil.AssertNotSupported(t, standardSQL, project(call), "DateTimeAddMonths")
}

func TestChangedArgumentCountIsAnError(t *testing.T) {
	t.Parallel()
	call := nodes.NewFunctionCall(nodes.FuncReplace, nodes.NewLiteral("a"), nodes.NewLiteral("b"), nodes.NewLiteral("c"))
	call.Arguments = call.Arguments[:2]
	_, err := standardSQL(project(call))
	testutil.AssertErrorIs(t, err, sqlerr.ErrInvalidArgument)
	testutil.AssertContains(t, err.Error(), "Replace takes 3, got 2")
}

// --- DML ---

func TestInsertValues(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	ins := nodes.NewInsert(users, users.Col("id"), users.Col("name"))
	testutil.AssertNoError(t, ins.AddRow(nodes.NewLiteral(1), nodes.NewLiteral("a")))
	testutil.AssertNoError(t, ins.AddRow(nodes.NewLiteral(2), nodes.NewDefault()))
	testutil.AssertSQL(t, standardSQL, ins, `INSERT INTO "users" ("id", "name") VALUES (1, 'a'), (2, DEFAULT)`)
}

func TestInsertDefaultValues(t *testing.T) {
	t.Parallel()
	testutil.AssertSQL(t, standardSQL, nodes.NewInsert(nodes.NewTable("users")), `INSERT INTO "users" DEFAULT VALUES`)
}

func TestInsertFromSelect(t *testing.T) {
	t.Parallel()
	archive := nodes.NewTable("archive")
	ins := nodes.NewInsert(archive, archive.Col("id"))
	users := nodes.NewTable("users")
	testutil.AssertNoError(t, ins.SetSource(project(users.Col("id"))))
	testutil.AssertSQL(t, standardSQL, ins, `INSERT INTO "archive" ("id") SELECT "users"."id"`)
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	upd := nodes.NewUpdate(users).Set(users.Col("name"), "b")
	testutil.AssertNoError(t, upd.SetWhere(users.Col("id").Eq(1)))
	testutil.AssertSQL(t, standardSQL, upd, `UPDATE "users" SET "name" = 'b' WHERE ("users"."id" = 1)`)
}

func TestUpdateLimitIsNotSupported(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	upd := nodes.NewUpdate(users).Set(users.Col("name"), "b")
	upd.Limit = nodes.NewLiteral(1)
	testutil.AssertNotSupported(t, standardSQL, upd, "Limit")
}

func TestDeleteWhereCurrentOf(t *testing.T) {
	t.Parallel()
	del := nodes.NewDelete(nodes.NewTable("users"))
	testutil.AssertNoError(t, del.SetWhere(nodes.NewCursor("c1")))
	testutil.AssertSQL(t, standardSQL, del, `DELETE FROM "users" WHERE CURRENT OF c1`)
}

func TestBatchSeparatesStatements(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	b := nodes.NewBatch(nodes.NewInsert(users), nodes.NewDelete(users))
	testutil.AssertSQL(t, standardSQL, b, "INSERT INTO \"users\" DEFAULT VALUES;\nDELETE FROM \"users\"")
}

// --- Parameters ---

func TestNamedParametersShareBinding(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	p := nodes.NewParameter("id", 5)
	sel := mustWhere(t, nodes.NewSelect(users), nodes.Or(users.Col("id").Eq(p), users.Col("parent").Eq(p)))
	res, err := New(MustBuild(Standard())).Compile(sel, Configuration{})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, res.Text,
		`SELECT * FROM "users" WHERE (("users"."id" = @id) OR ("users"."parent" = @id))`)
	testutil.AssertEqual(t, len(res.Bindings), 1)
	testutil.AssertEqual(t, res.Bindings[0].Value(), any(5))
}

func TestUnnamedParameterGetsGeneratedName(t *testing.T) {
	t.Parallel()
	res, err := New(MustBuild(Standard())).Compile(project(nodes.NewParameter("", "x")), Configuration{})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, res.Text, `SELECT @p0`)
	testutil.AssertEqual(t, res.Bindings[0].Name, "p0")
}

func TestPositionalParametersBindEachOccurrence(t *testing.T) {
	t.Parallel()
	positional := NewLayer("positional")
	positional.Initialize = func(s *Settings) {
		s.ParameterStyle = ParameterPositional
		s.ParameterPrefix = "?"
	}
	p := nodes.NewParameter("id", 7)
	res, err := New(MustBuild(Standard(), positional)).Compile(project(p, p), Configuration{})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, res.Text, `SELECT ?, ?`)
	testutil.AssertEqual(t, len(res.Bindings), 2)
	testutil.AssertEqual(t, len(res.Args()), 2)
	testutil.AssertEqual(t, res.Args()[1], any(7))
}

func TestDeferredParameterResolvesAtCallTime(t *testing.T) {
	t.Parallel()
	v := 1
	p := nodes.NewDeferredParameter("v", func() any { return v })
	res, err := New(MustBuild(Standard())).Compile(project(p), Configuration{})
	testutil.AssertNoError(t, err)
	v = 2
	testutil.AssertEqual(t, res.Bindings[0].Value(), any(2))
}

func TestCompileDoesNotMutateStatement(t *testing.T) {
	t.Parallel()
	sel := nodes.NewSelect(nodes.NewTable("users"))
	first, err := standardSQL(sel)
	testutil.AssertNoError(t, err)
	second, err := standardSQL(sel)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, first, second)
}

func TestCompileNilStatement(t *testing.T) {
	t.Parallel()
	_, err := New(MustBuild(Standard())).Compile(nil, Configuration{})
	testutil.AssertError(t, err)
}
