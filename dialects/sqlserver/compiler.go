package sqlserver

import (
	"time"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/types"
)

const millisecondsPerDay = 86400000

// builtins are server functions the rewrites call by name. They are
// written unquoted.
var builtins = map[string]bool{
	"DATEADD":  true,
	"DATEDIFF": true,
	"DATEPART": true,
	"LEN":      true,
}

// Compiler is the SQL Server SQL generator. SQL Server stores intervals
// as bigint milliseconds, so date and interval arithmetic is rewritten
// into DATEADD and DATEDIFF calls.
type Compiler struct {
	*compiler.Compiler
}

// NewCompiler creates a compiler over t.
func NewCompiler(t *compiler.Translator) *Compiler {
	c := &Compiler{Compiler: compiler.New(t)}
	c.SetOuter(c)
	return c
}

// VisitSelect adds ORDER BY (SELECT NULL) to unordered paged queries;
// OFFSET requires an ORDER BY clause.
func (c *Compiler) VisitSelect(n *nodes.Select) {
	if c.Translator().Settings().Paging != compiler.PagingOffsetFetch || !n.HasPaging() || len(n.OrderBy) > 0 {
		c.Compiler.VisitSelect(n)
		return
	}
	ordered := *n
	ordered.OrderBy = []*nodes.Order{nodes.NewOrder(nodes.NewNative("(SELECT NULL)"), true)}
	c.Compiler.VisitSelect(&ordered)
}

func (c *Compiler) VisitUserFunctionCall(n *nodes.UserFunctionCall) {
	if !builtins[n.Name] {
		c.Compiler.VisitUserFunctionCall(n)
		return
	}
	c.Emit(n.Name + "(")
	compiler.VisitList(c.Compiler, n.Arguments)
	c.Emit(")")
}

func (c *Compiler) VisitBinary(n *nodes.Binary) {
	switch n.NodeType() {
	case nodes.OpDateTimePlusInterval:
		c.Visit(addInterval(n.Left, n.Right))
	case nodes.OpDateTimeMinusInterval:
		c.Visit(addInterval(n.Left, negate(n.Right)))
	case nodes.OpDateTimeMinusDateTime:
		c.Visit(subtractDateTime(n.Left, n.Right))
	default:
		c.Compiler.VisitBinary(n)
	}
}

func (c *Compiler) VisitFunctionCall(n *nodes.FunctionCall) {
	args := compiler.Arguments(n)
	switch n.Function {
	case nodes.FuncSubstring:
		if len(args) == 2 {
			withLength := nodes.NewFunctionCall(nodes.FuncSubstring, args[0], args[1], call("LEN", args[0]))
			c.Compiler.VisitFunctionCall(withLength)
			return
		}
	case nodes.FuncIntervalConstruct, nodes.FuncIntervalToMilliseconds:
		c.Visit(toBigint(args[0]))
		return
	case nodes.FuncIntervalDuration:
		c.Visit(nodes.NewFunctionCall(nodes.FuncAbs, args[0]))
		return
	case nodes.FuncDateTimeAddMonths:
		c.Visit(dateAdd("month", args[1], args[0]))
		return
	case nodes.FuncDateTimeAddYears:
		c.Visit(dateAdd("year", args[1], args[0]))
		return
	case nodes.FuncDateTimeAddInterval:
		c.Visit(addInterval(args[0], args[1]))
		return
	case nodes.FuncDateTimeSubtractInterval:
		c.Visit(addInterval(args[0], negate(args[1])))
		return
	case nodes.FuncDateTimeSubtractDateTime:
		c.Visit(subtractDateTime(args[0], args[1]))
		return
	case nodes.FuncDateTimeTruncate:
		c.Visit(truncate(args[0]))
		return
	case nodes.FuncDateTimeConstruct:
		base := nodes.NewLiteral(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC))
		years := dateAdd("year", minus(args[0], 2001), base)
		months := dateAdd("month", minus(args[1], 1), years)
		c.Visit(dateAdd("day", minus(args[2], 1), months))
		return
	}
	c.Compiler.VisitFunctionCall(n)
}

// VisitExtract computes the day of week independently of SET DATEFIRST
// and splits millisecond intervals into their parts.
func (c *Compiler) VisitExtract(n *nodes.Extract) {
	if n.IsInterval() {
		c.Visit(intervalPart(n.IntervalPart, n.Operand))
		return
	}
	if n.DateTimePart == nodes.DateTimePartDayOfWeek {
		weekday := call("DATEPART", nodes.NewNative("weekday"), n.Operand)
		shifted := nodes.NewBinary(nodes.OpAdd, nodes.NewBinary(nodes.OpAdd, weekday, nodes.NewNative("@@DATEFIRST")), nodes.NewLiteral(6))
		c.Visit(nodes.NewBinary(nodes.OpModulo, shifted, nodes.NewLiteral(7)))
		return
	}
	c.Compiler.VisitExtract(n)
}

func intervalPart(part nodes.IntervalPart, x nodes.Expression) nodes.Expression {
	switch part {
	case nodes.IntervalPartDay:
		return toBigint(divide(x, millisecondsPerDay))
	case nodes.IntervalPartHour:
		return modulo(toBigint(divide(x, 60*60*1000)), 24)
	case nodes.IntervalPartMinute:
		return modulo(toBigint(divide(x, 60*1000)), 60)
	case nodes.IntervalPartSecond:
		return modulo(toBigint(divide(x, 1000)), 60)
	}
	return modulo(x, 1000)
}

func addInterval(date, interval nodes.Expression) nodes.Expression {
	days := dateAdd("day", divide(interval, millisecondsPerDay), date)
	return dateAdd("ms", modulo(interval, millisecondsPerDay), days)
}

func subtractDateTime(date1, date2 nodes.Expression) nodes.Expression {
	days := call("DATEDIFF", nodes.NewNative("day"), date2, date1)
	whole := nodes.NewBinary(nodes.OpMultiply, toBigint(days), nodes.NewLiteral(millisecondsPerDay))
	rest := call("DATEDIFF", nodes.NewNative("ms"), dateAdd("day", days, date2), date1)
	return nodes.NewBinary(nodes.OpAdd, whole, rest)
}

func truncate(date nodes.Expression) nodes.Expression {
	back := func(part nodes.DateTimePart) nodes.Expression {
		return negate(nodes.NewExtract(part, date))
	}
	d := dateAdd("hour", back(nodes.DateTimePartHour), date)
	d = dateAdd("minute", back(nodes.DateTimePartMinute), d)
	d = dateAdd("second", back(nodes.DateTimePartSecond), d)
	return dateAdd("ms", back(nodes.DateTimePartMillisecond), d)
}

func call(name string, args ...nodes.Expression) *nodes.UserFunctionCall {
	return nodes.NewUserFunctionCall(name, args...)
}

func dateAdd(part string, amount, date nodes.Expression) nodes.Expression {
	return call("DATEADD", nodes.NewNative(part), amount, date)
}

func toBigint(x nodes.Expression) nodes.Expression {
	return nodes.NewCast(x, types.Of(types.Int64))
}

func negate(x nodes.Expression) nodes.Expression {
	return nodes.NewUnary(nodes.OpNegate, x)
}

func minus(x nodes.Expression, n int) nodes.Expression {
	return nodes.NewBinary(nodes.OpSubtract, x, nodes.NewLiteral(n))
}

func divide(x nodes.Expression, n int) nodes.Expression {
	return nodes.NewBinary(nodes.OpDivide, x, nodes.NewLiteral(n))
}

func modulo(x nodes.Expression, n int) nodes.Expression {
	return nodes.NewBinary(nodes.OpModulo, x, nodes.NewLiteral(n))
}
