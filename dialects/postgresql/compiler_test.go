package postgresql

import (
	"testing"

	"github.com/bawdo/sqldom/internal/testutil"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
)

func TestSquareUsesPower(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	testutil.AssertSQL(t, v10SQL, project(tbl, nodes.NewFunctionCall(nodes.FuncSquare, tbl.Col("X"))),
		`SELECT POWER("T"."X", 2) FROM "T"`)
}

func TestIntervalFunctions(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	i := tbl.Col("I")
	cases := []struct {
		name string
		expr nodes.Expression
		want string
	}{
		{"construct", nodes.NewFunctionCall(nodes.FuncIntervalConstruct, tbl.Col("Ms")),
			`("T"."Ms" * INTERVAL '1 millisecond')`},
		{"to milliseconds", nodes.NewFunctionCall(nodes.FuncIntervalToMilliseconds, i),
			`(EXTRACT(EPOCH FROM "T"."I") * 1000)`},
		{"duration", nodes.NewFunctionCall(nodes.FuncIntervalDuration, i),
			`GREATEST("T"."I", (-"T"."I"))`},
		{"abs", nodes.NewFunctionCall(nodes.FuncIntervalAbs, i),
			`GREATEST("T"."I", (-"T"."I"))`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			testutil.AssertSQL(t, v10SQL, project(tbl, tc.expr), `SELECT `+tc.want+` FROM "T"`)
		})
	}
}

func TestDateTimeArithmetic(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	d, n, i := tbl.Col("D"), tbl.Col("N"), tbl.Col("I")
	cases := []struct {
		name string
		expr nodes.Expression
		want string
	}{
		{"add months", nodes.NewFunctionCall(nodes.FuncDateTimeAddMonths, d, n),
			`("T"."D" + ("T"."N" * INTERVAL '1 month'))`},
		{"add years", nodes.NewFunctionCall(nodes.FuncDateTimeAddYears, d, n),
			`("T"."D" + ("T"."N" * INTERVAL '1 year'))`},
		{"add interval", nodes.NewFunctionCall(nodes.FuncDateTimeAddInterval, d, i),
			`("T"."D" + "T"."I")`},
		{"subtract interval", nodes.NewFunctionCall(nodes.FuncDateTimeSubtractInterval, d, i),
			`("T"."D" - "T"."I")`},
		{"subtract datetime", nodes.NewFunctionCall(nodes.FuncDateTimeSubtractDateTime, d, tbl.Col("E")),
			`("T"."D" - "T"."E")`},
		{"truncate", nodes.NewFunctionCall(nodes.FuncDateTimeTruncate, d),
			`DATE_TRUNC('day', "T"."D")`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			testutil.AssertSQL(t, v10SQL, project(tbl, tc.expr), `SELECT `+tc.want+` FROM "T"`)
		})
	}
}

func TestDateTimeConstruct(t *testing.T) {
	t.Parallel()
	construct := nodes.NewFunctionCall(nodes.FuncDateTimeConstruct,
		nodes.NewLiteral(2024), nodes.NewLiteral(3), nodes.NewLiteral(15))
	testutil.AssertSQL(t, v83SQL, project(nil, construct),
		`SELECT (((TIMESTAMP '0001-01-01' + ((2024 - 1) * INTERVAL '1 year')) `+
			`+ ((3 - 1) * INTERVAL '1 month')) + ((15 - 1) * INTERVAL '1 day'))`)
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
		{nodes.NewExtract(nodes.DateTimePartDayOfWeek, d), `EXTRACT(DOW FROM "T"."D")`},
		{nodes.NewExtract(nodes.DateTimePartDayOfYear, d), `EXTRACT(DOY FROM "T"."D")`},
		{nodes.NewExtract(nodes.DateTimePartSecond, d), `TRUNC(EXTRACT(SECOND FROM "T"."D"))`},
		{nodes.NewExtract(nodes.DateTimePartMillisecond, d),
			`(CAST(EXTRACT(MILLISECONDS FROM "T"."D") AS integer) % 1000)`},
		{nodes.NewIntervalExtract(nodes.IntervalPartDay, i), `EXTRACT(DAY FROM "T"."I")`},
		{nodes.NewIntervalExtract(nodes.IntervalPartSecond, i), `TRUNC(EXTRACT(SECOND FROM "T"."I"))`},
		{nodes.NewIntervalExtract(nodes.IntervalPartMillisecond, i),
			`(CAST(EXTRACT(MILLISECONDS FROM "T"."I") AS integer) % 1000)`},
	}
	for _, tc := range cases {
		testutil.AssertSQL(t, v10SQL, project(tbl, tc.expr), `SELECT `+tc.want+` FROM "T"`)
	}
}

func TestRewritesLeaveInputUntouched(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	call := nodes.NewFunctionCall(nodes.FuncDateTimeAddMonths, tbl.Col("D"), tbl.Col("N"))
	_, err := v10SQL(project(tbl, call))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, call.Function, nodes.FuncDateTimeAddMonths)
	testutil.AssertEqual(t, len(call.Arguments), 2)
}

func TestTruncatedArgumentsAreAnError(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	d, n := tbl.Col("D"), tbl.Col("N")
	for _, call := range []*nodes.FunctionCall{
		nodes.NewFunctionCall(nodes.FuncDateTimeAddMonths, d, n),
		nodes.NewFunctionCall(nodes.FuncDateTimeConstruct, d, n, n),
		nodes.NewFunctionCall(nodes.FuncIntervalAbs, d),
	} {
		call.Arguments = call.Arguments[:len(call.Arguments)-1]
		_, err := v10SQL(project(tbl, call))
		testutil.AssertErrorIs(t, err, sqlerr.ErrInvalidArgument)
	}
}
