package mysql

import (
	"testing"

	"github.com/bawdo/sqldom/internal/testutil"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
)

func TestConcatUsesFunction(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	sel := project(tbl, nodes.NewBinary(nodes.OpConcat, tbl.Col("A"), tbl.Col("B")))
	testutil.AssertSQL(t, v80SQL, sel, "SELECT CONCAT(`T`.`A`, `T`.`B`) FROM `T`")
}

func TestNumericFunctions(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	x := tbl.Col("X")
	testutil.AssertSQL(t, v80SQL, project(tbl, nodes.NewFunctionCall(nodes.FuncSquare, x)),
		"SELECT POWER(`T`.`X`, 2) FROM `T`")
	testutil.AssertSQL(t, v80SQL, project(tbl, nodes.NewFunctionCall(nodes.FuncTruncate, x)),
		"SELECT TRUNCATE(`T`.`X`, 0) FROM `T`")
}

func TestNiladicFunctions(t *testing.T) {
	t.Parallel()
	testutil.AssertSQL(t, v80SQL, project(nil, nodes.NewFunctionCall(nodes.FuncLastAutoGeneratedId)),
		"SELECT LAST_INSERT_ID()")
	testutil.AssertSQL(t, v80SQL, project(nil, nodes.NewFunctionCall(nodes.FuncSessionUser)),
		"SELECT SESSION_USER()")
}

func TestDateAddMonthsAndYears(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	months := nodes.NewFunctionCall(nodes.FuncDateTimeAddMonths, tbl.Col("D"), tbl.Col("N"))
	testutil.AssertSQL(t, v80SQL, project(tbl, months),
		"SELECT DATE_ADD(`T`.`D`, INTERVAL `T`.`N` MONTH) FROM `T`")
	years := nodes.NewFunctionCall(nodes.FuncDateTimeAddYears, tbl.Col("D"), nodes.NewLiteral(2))
	testutil.AssertSQL(t, v80SQL, project(tbl, years),
		"SELECT DATE_ADD(`T`.`D`, INTERVAL 2 YEAR) FROM `T`")
}

func TestDateTimeIntervalArithmetic(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	d, i := tbl.Col("D"), tbl.Col("I")
	cases := []struct {
		name string
		expr nodes.Expression
		want string
	}{
		{"plus", nodes.NewBinary(nodes.OpDateTimePlusInterval, d, i),
			"DATE_ADD(`T`.`D`, INTERVAL (`T`.`I` * 1000) MICROSECOND)"},
		{"minus", nodes.NewBinary(nodes.OpDateTimeMinusInterval, d, i),
			"DATE_SUB(`T`.`D`, INTERVAL (`T`.`I` * 1000) MICROSECOND)"},
		{"add function", nodes.NewFunctionCall(nodes.FuncDateTimeAddInterval, d, i),
			"DATE_ADD(`T`.`D`, INTERVAL (`T`.`I` * 1000) MICROSECOND)"},
		{"subtract function", nodes.NewFunctionCall(nodes.FuncDateTimeSubtractInterval, d, i),
			"DATE_SUB(`T`.`D`, INTERVAL (`T`.`I` * 1000) MICROSECOND)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			testutil.AssertSQL(t, v80SQL, project(tbl, tc.expr), "SELECT "+tc.want+" FROM `T`")
		})
	}
}

func TestDateTimeMinusDateTime(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	want := "SELECT (TIMESTAMPDIFF(MICROSECOND, `T`.`B`, `T`.`A`) DIV 1000) FROM `T`"
	testutil.AssertSQL(t, v80SQL,
		project(tbl, nodes.NewBinary(nodes.OpDateTimeMinusDateTime, tbl.Col("A"), tbl.Col("B"))), want)
	testutil.AssertSQL(t, v80SQL,
		project(tbl, nodes.NewFunctionCall(nodes.FuncDateTimeSubtractDateTime, tbl.Col("A"), tbl.Col("B"))), want)
}

func TestDateTimeTruncateAndConstruct(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	testutil.AssertSQL(t, v80SQL, project(tbl, nodes.NewFunctionCall(nodes.FuncDateTimeTruncate, tbl.Col("D"))),
		"SELECT DATE(`T`.`D`) FROM `T`")

	construct := nodes.NewFunctionCall(nodes.FuncDateTimeConstruct,
		nodes.NewLiteral(2024), nodes.NewLiteral(3), nodes.NewLiteral(15))
	testutil.AssertSQL(t, v80SQL, project(nil, construct),
		"SELECT DATE_ADD(DATE_ADD(MAKEDATE(2024, 1), INTERVAL (3 - 1) MONTH), INTERVAL (15 - 1) DAY)")
}

func TestExtractDateTimeParts(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	d := tbl.Col("D")
	cases := []struct {
		part nodes.DateTimePart
		want string
	}{
		{nodes.DateTimePartYear, "EXTRACT(YEAR FROM `T`.`D`)"},
		{nodes.DateTimePartDayOfWeek, "(DAYOFWEEK(`T`.`D`) - 1)"},
		{nodes.DateTimePartDayOfYear, "DAYOFYEAR(`T`.`D`)"},
		{nodes.DateTimePartMillisecond, "(EXTRACT(MICROSECOND FROM `T`.`D`) DIV 1000)"},
	}
	for _, tc := range cases {
		testutil.AssertSQL(t, v80SQL, project(tbl, nodes.NewExtract(tc.part, d)), "SELECT "+tc.want+" FROM `T`")
	}
}

func TestExtractIntervalParts(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	i := tbl.Col("I")
	cases := []struct {
		part nodes.IntervalPart
		want string
	}{
		{nodes.IntervalPartDay, "(`T`.`I` DIV 86400000)"},
		{nodes.IntervalPartHour, "((`T`.`I` DIV 3600000) % 24)"},
		{nodes.IntervalPartMinute, "((`T`.`I` DIV 60000) % 60)"},
		{nodes.IntervalPartSecond, "((`T`.`I` DIV 1000) % 60)"},
		{nodes.IntervalPartMillisecond, "(`T`.`I` % 1000)"},
	}
	for _, tc := range cases {
		testutil.AssertSQL(t, v80SQL, project(tbl, nodes.NewIntervalExtract(tc.part, i)), "SELECT "+tc.want+" FROM `T`")
	}
}

func TestIntervalFunctions(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	i := tbl.Col("I")
	testutil.AssertSQL(t, v80SQL, project(tbl, nodes.NewFunctionCall(nodes.FuncIntervalToMilliseconds, i)),
		"SELECT `T`.`I` FROM `T`")
	testutil.AssertSQL(t, v80SQL, project(tbl, nodes.NewFunctionCall(nodes.FuncIntervalDuration, i)),
		"SELECT ABS(`T`.`I`) FROM `T`")
	testutil.AssertSQL(t, v80SQL, project(tbl, nodes.NewFunctionCall(nodes.FuncIntervalConstruct, tbl.Col("Ms"))),
		"SELECT CAST(`T`.`Ms` AS SIGNED) FROM `T`")
}

func TestTruncatedArgumentsAreAnError(t *testing.T) {
	t.Parallel()
	tbl := nodes.NewTable("T")
	d, n := tbl.Col("D"), tbl.Col("N")
	for _, call := range []*nodes.FunctionCall{
		nodes.NewFunctionCall(nodes.FuncDateTimeAddMonths, d, n),
		nodes.NewFunctionCall(nodes.FuncDateTimeConstruct, d, n, n),
		nodes.NewFunctionCall(nodes.FuncSquare, n),
	} {
		call.Arguments = call.Arguments[:len(call.Arguments)-1]
		_, err := v80SQL(project(tbl, call))
		testutil.AssertErrorIs(t, err, sqlerr.ErrInvalidArgument)
	}
}
