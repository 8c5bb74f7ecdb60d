package oracle

import (
	"testing"

	"github.com/bawdo/sqldom/internal/testutil"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
)

func TestArithmeticOperators(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	a, b := tbl.Col("A"), tbl.Col("B")
	cases := []struct {
		name string
		expr nodes.Expression
		want string
	}{
		{"modulo", nodes.NewBinary(nodes.OpModulo, a, nodes.NewLiteral(3)), `MOD("T"."A", 3)`},
		{"bit and", nodes.NewBinary(nodes.OpBitAnd, a, b), `BITAND("T"."A", "T"."B")`},
		{"bit or", nodes.NewBinary(nodes.OpBitOr, a, b),
			`(("T"."A" + "T"."B") - BITAND("T"."A", "T"."B"))`},
		{"bit xor", nodes.NewBinary(nodes.OpBitXor, a, b),
			`(("T"."A" + "T"."B") - (BITAND("T"."A", "T"."B") * 2))`},
		{"bit not", nodes.NewUnary(nodes.OpBitNot, a), `(-1 - "T"."A")`},
		{"concat", nodes.NewBinary(nodes.OpConcat, a, b), `("T"."A" || "T"."B")`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			testutil.AssertSQL(t, v09SQL, project(tbl, tc.expr), `SELECT `+tc.want+` FROM "T"`)
		})
	}
}

func TestFunctions(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	x, s := tbl.Col("X"), tbl.Col("S")
	cases := []struct {
		name string
		expr nodes.Expression
		want string
	}{
		{"square", nodes.NewFunctionCall(nodes.FuncSquare, x), `POWER("T"."X", 2)`},
		{"log10", nodes.NewFunctionCall(nodes.FuncLog10, x), `LOG(10, "T"."X")`},
		{"ceiling", nodes.NewFunctionCall(nodes.FuncCeiling, x), `CEIL("T"."X")`},
		{"degrees", nodes.NewFunctionCall(nodes.FuncDegrees, x), `("T"."X" * 180 / ACOS(-1))`},
		{"cot", nodes.NewFunctionCall(nodes.FuncCot, x), `(1 / TAN("T"."X"))`},
		{"position", nodes.NewFunctionCall(nodes.FuncPosition, nodes.NewLiteral("a"), s), `INSTR("T"."S", 'a')`},
		{"char length", nodes.NewFunctionCall(nodes.FuncCharLength, s), `LENGTH("T"."S")`},
		{"substring", nodes.NewFunctionCall(nodes.FuncSubstring, s, nodes.NewLiteral(2), nodes.NewLiteral(3)),
			`SUBSTR("T"."S", 2, 3)`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			testutil.AssertSQL(t, v09SQL, project(tbl, tc.expr), `SELECT `+tc.want+` FROM "T"`)
		})
	}
}

func TestNiladicFunctions(t *testing.T) {
	t.Parallel()
	testutil.AssertSQL(t, v09SQL, project(nil, nodes.NewFunctionCall(nodes.FuncRand)),
		`SELECT DBMS_RANDOM.VALUE FROM DUAL`)
	testutil.AssertSQL(t, v09SQL, project(nil, nodes.NewFunctionCall(nodes.FuncCurrentDate)),
		`SELECT TRUNC(CURRENT_DATE) FROM DUAL`)
	testutil.AssertSQL(t, v09SQL, project(nil, nodes.NewFunctionCall(nodes.FuncSessionUser)),
		`SELECT USER FROM DUAL`)
	testutil.AssertNotSupported(t, v09SQL, project(nil, nodes.NewFunctionCall(nodes.FuncCurrentTime)),
		nodes.FuncCurrentTime.String())
	testutil.AssertNotSupported(t, v12SQL, project(nil, nodes.NewFunctionCall(nodes.FuncLastAutoGeneratedId)),
		nodes.FuncLastAutoGeneratedId.String())
}

func TestIntervalFunctions(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	i := tbl.Col("I")
	millis := `(EXTRACT(DAY FROM "T"."I") * 86400000 + EXTRACT(HOUR FROM "T"."I") * 3600000 + ` +
		`EXTRACT(MINUTE FROM "T"."I") * 60000 + EXTRACT(SECOND FROM "T"."I") * 1000)`
	cases := []struct {
		name string
		expr nodes.Expression
		want string
	}{
		{"construct", nodes.NewFunctionCall(nodes.FuncIntervalConstruct, tbl.Col("Ms")),
			`NUMTODSINTERVAL(("T"."Ms" / 1000), 'SECOND')`},
		{"to milliseconds", nodes.NewFunctionCall(nodes.FuncIntervalToMilliseconds, i), millis},
		{"duration", nodes.NewFunctionCall(nodes.FuncIntervalDuration, i),
			`NUMTODSINTERVAL(ABS(` + millis + `) / 1000, 'SECOND')`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			testutil.AssertSQL(t, v09SQL, project(tbl, tc.expr), `SELECT `+tc.want+` FROM "T"`)
		})
	}
}

func TestDateTimeFunctions(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	d, n, i := tbl.Col("D"), tbl.Col("N"), tbl.Col("I")
	cases := []struct {
		name string
		expr nodes.Expression
		want string
	}{
		{"add months", nodes.NewFunctionCall(nodes.FuncDateTimeAddMonths, d, n), `ADD_MONTHS("T"."D", "T"."N")`},
		{"add years", nodes.NewFunctionCall(nodes.FuncDateTimeAddYears, d, n), `ADD_MONTHS("T"."D", ("T"."N" * 12))`},
		{"add interval", nodes.NewFunctionCall(nodes.FuncDateTimeAddInterval, d, i), `("T"."D" + "T"."I")`},
		{"subtract interval", nodes.NewFunctionCall(nodes.FuncDateTimeSubtractInterval, d, i), `("T"."D" - "T"."I")`},
		{"subtract datetime", nodes.NewFunctionCall(nodes.FuncDateTimeSubtractDateTime, d, tbl.Col("E")),
			`("T"."D" - "T"."E")`},
		{"truncate", nodes.NewFunctionCall(nodes.FuncDateTimeTruncate, d), `CAST(TRUNC("T"."D") AS TIMESTAMP)`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			testutil.AssertSQL(t, v09SQL, project(tbl, tc.expr), `SELECT `+tc.want+` FROM "T"`)
		})
	}
}

func TestDateTimeConstruct(t *testing.T) {
	t.Parallel()
	construct := nodes.NewFunctionCall(nodes.FuncDateTimeConstruct,
		nodes.NewLiteral(2024), nodes.NewLiteral(3), nodes.NewLiteral(15))
	testutil.AssertSQL(t, v09SQL, project(nil, construct),
		`SELECT TO_TIMESTAMP(((((2024 || '-') || 3) || '-') || 15), 'YYYY-MM-DD') FROM DUAL`)
}

func TestExtract(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	d, i := tbl.Col("D"), tbl.Col("I")
	cases := []struct {
		expr *nodes.Extract
		want string
	}{
		{nodes.NewExtract(nodes.DateTimePartYear, d), `EXTRACT(YEAR FROM "T"."D")`},
		{nodes.NewExtract(nodes.DateTimePartSecond, d), `TRUNC(EXTRACT(SECOND FROM "T"."D"))`},
		{nodes.NewExtract(nodes.DateTimePartMillisecond, d),
			`MOD(TRUNC(EXTRACT(SECOND FROM "T"."D") * 1000), 1000)`},
		{nodes.NewExtract(nodes.DateTimePartDayOfWeek, d),
			`MOD(((TRUNC(CAST("T"."D" AS DATE)) - TRUNC(CAST("T"."D" AS DATE), 'IW')) + 1), 7)`},
		{nodes.NewExtract(nodes.DateTimePartDayOfYear, d), `TO_NUMBER(TO_CHAR("T"."D", 'DDD'))`},
		{nodes.NewIntervalExtract(nodes.IntervalPartDay, i), `EXTRACT(DAY FROM "T"."I")`},
		{nodes.NewIntervalExtract(nodes.IntervalPartSecond, i), `TRUNC(EXTRACT(SECOND FROM "T"."I"))`},
		{nodes.NewIntervalExtract(nodes.IntervalPartMillisecond, i),
			`MOD(TRUNC(EXTRACT(SECOND FROM "T"."I") * 1000), 1000)`},
	}
	for _, tc := range cases {
		testutil.AssertSQL(t, v09SQL, project(tbl, tc.expr), `SELECT `+tc.want+` FROM "T"`)
	}
}

func TestTruncatedArgumentsAreAnError(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	d, n := tbl.Col("D"), tbl.Col("N")
	for _, call := range []*nodes.FunctionCall{
		nodes.NewFunctionCall(nodes.FuncPosition, d, n),
		nodes.NewFunctionCall(nodes.FuncDateTimeConstruct, d, n, n),
		nodes.NewFunctionCall(nodes.FuncDateTimeAddYears, d, n),
	} {
		call.Arguments = call.Arguments[:len(call.Arguments)-1]
		_, err := v09SQL(project(tbl, call))
		testutil.AssertErrorIs(t, err, sqlerr.ErrInvalidArgument)
	}
}
