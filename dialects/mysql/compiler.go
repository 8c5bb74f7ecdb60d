package mysql

import (
	"strconv"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/types"
)

// Compiler is the MySQL SQL generator. Intervals are bigint milliseconds;
// date arithmetic is written with DATE_ADD and TIMESTAMPDIFF.
type Compiler struct {
	*compiler.Compiler
}

// NewCompiler creates a compiler over t.
func NewCompiler(t *compiler.Translator) *Compiler {
	c := &Compiler{Compiler: compiler.New(t)}
	c.SetOuter(c)
	return c
}

func (c *Compiler) VisitBinary(n *nodes.Binary) {
	switch n.NodeType() {
	case nodes.OpConcat:
		c.Visit(nodes.NewFunctionCall(nodes.FuncConcat, n.Left, n.Right))
	case nodes.OpDateTimePlusInterval:
		c.dateAddInterval("DATE_ADD", n.Left, n.Right)
	case nodes.OpDateTimeMinusInterval:
		c.dateAddInterval("DATE_SUB", n.Left, n.Right)
	case nodes.OpDateTimeMinusDateTime:
		c.dateDiff(n.Left, n.Right)
	default:
		c.Compiler.VisitBinary(n)
	}
}

func (c *Compiler) VisitFunctionCall(n *nodes.FunctionCall) {
	args := compiler.Arguments(n)
	switch n.Function {
	case nodes.FuncSquare:
		c.Visit(nodes.NewFunctionCall(nodes.FuncPower, args[0], nodes.NewLiteral(2)))
	case nodes.FuncTruncate:
		if len(args) == 1 {
			c.Compiler.VisitFunctionCall(nodes.NewFunctionCall(nodes.FuncTruncate, args[0], nodes.NewLiteral(0)))
			return
		}
		c.Compiler.VisitFunctionCall(n)
	case nodes.FuncIntervalConstruct:
		c.Visit(nodes.NewCast(args[0], types.Of(types.Int64)))
	case nodes.FuncIntervalToMilliseconds:
		c.Visit(args[0])
	case nodes.FuncIntervalDuration:
		c.Visit(nodes.NewFunctionCall(nodes.FuncAbs, args[0]))
	case nodes.FuncDateTimeAddMonths:
		c.dateAdd(func() { c.Visit(args[0]) }, args[1], "MONTH")
	case nodes.FuncDateTimeAddYears:
		c.dateAdd(func() { c.Visit(args[0]) }, args[1], "YEAR")
	case nodes.FuncDateTimeAddInterval:
		c.dateAddInterval("DATE_ADD", args[0], args[1])
	case nodes.FuncDateTimeSubtractInterval:
		c.dateAddInterval("DATE_SUB", args[0], args[1])
	case nodes.FuncDateTimeSubtractDateTime:
		c.dateDiff(args[0], args[1])
	case nodes.FuncDateTimeTruncate:
		c.call("DATE", args[0])
	case nodes.FuncDateTimeConstruct:
		year := func() { c.call("MAKEDATE", args[0], nodes.NewLiteral(1)) }
		month := func() { c.dateAdd(year, minusOne(args[1]), "MONTH") }
		c.dateAdd(month, minusOne(args[2]), "DAY")
	default:
		c.Compiler.VisitFunctionCall(n)
	}
}

func (c *Compiler) VisitExtract(n *nodes.Extract) {
	if n.IsInterval() {
		c.intervalPart(n.IntervalPart, n.Operand)
		return
	}
	switch n.DateTimePart {
	case nodes.DateTimePartDayOfWeek:
		// DAYOFWEEK counts from 1 on Sunday
		c.Emit("(")
		c.call("DAYOFWEEK", n.Operand)
		c.Emit("- 1)")
	case nodes.DateTimePartDayOfYear:
		c.call("DAYOFYEAR", n.Operand)
	case nodes.DateTimePartMillisecond:
		c.Emit("(EXTRACT(MICROSECOND FROM")
		c.Visit(n.Operand)
		c.Emit(")")
		c.Emit("DIV 1000)")
	default:
		c.Compiler.VisitExtract(n)
	}
}

// VisitAlterTable writes DROP PRIMARY KEY, which takes no name.
func (c *Compiler) VisitAlterTable(n *nodes.AlterTable) {
	if a, ok := n.Action.(nodes.DropConstraint); ok {
		if _, pk := a.Constraint.(*model.PrimaryKey); pk {
			c.EmitSection(n, compiler.AlterTableEntry)
			c.Emit("DROP PRIMARY KEY")
			c.EmitSection(n, compiler.AlterTableExit)
			return
		}
	}
	c.Compiler.VisitAlterTable(n)
}

func (c *Compiler) intervalPart(part nodes.IntervalPart, x nodes.Expression) {
	switch part {
	case nodes.IntervalPartDay:
		c.div(x, 86400000)
	case nodes.IntervalPartHour:
		c.Emit("(")
		c.div(x, 3600000)
		c.Emit("% 24)")
	case nodes.IntervalPartMinute:
		c.Emit("(")
		c.div(x, 60000)
		c.Emit("% 60)")
	case nodes.IntervalPartSecond:
		c.Emit("(")
		c.div(x, 1000)
		c.Emit("% 60)")
	default:
		c.Visit(nodes.NewBinary(nodes.OpModulo, x, nodes.NewLiteral(1000)))
	}
}

// div writes the integer division (x DIV n).
func (c *Compiler) div(x nodes.Expression, n int) {
	c.Emit("(")
	c.Visit(x)
	c.Emit("DIV " + strconv.Itoa(n) + ")")
}

func (c *Compiler) call(name string, args ...nodes.Expression) {
	c.Emit(name + "(")
	compiler.VisitList(c.Compiler, args)
	c.Emit(")")
}

// dateAdd writes DATE_ADD(date, INTERVAL amount unit).
func (c *Compiler) dateAdd(date func(), amount nodes.Expression, unit string) {
	c.Emit("DATE_ADD(")
	date()
	c.Emit(",")
	c.Emit("INTERVAL")
	c.Visit(amount)
	c.Emit(unit)
	c.Emit(")")
}

// dateAddInterval shifts date by a millisecond interval.
func (c *Compiler) dateAddInterval(fn string, date, interval nodes.Expression) {
	c.Emit(fn + "(")
	c.Visit(date)
	c.Emit(",")
	c.Emit("INTERVAL")
	c.Visit(nodes.NewBinary(nodes.OpMultiply, interval, nodes.NewLiteral(1000)))
	c.Emit("MICROSECOND")
	c.Emit(")")
}

// dateDiff writes the milliseconds from date2 to date1.
func (c *Compiler) dateDiff(date1, date2 nodes.Expression) {
	c.Emit("(TIMESTAMPDIFF(MICROSECOND")
	c.Emit(",")
	c.Visit(date2)
	c.Emit(",")
	c.Visit(date1)
	c.Emit(")")
	c.Emit("DIV 1000)")
}

func minusOne(x nodes.Expression) nodes.Expression {
	return nodes.NewBinary(nodes.OpSubtract, x, nodes.NewLiteral(1))
}
