package postgresql

import (
	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/nodes"
)

// Compiler is the PostgreSQL SQL generator. Intervals are native interval
// values; date arithmetic multiplies unit intervals.
type Compiler struct {
	*compiler.Compiler
}

// NewCompiler creates a compiler over t.
func NewCompiler(t *compiler.Translator) *Compiler {
	c := &Compiler{Compiler: compiler.New(t)}
	c.SetOuter(c)
	return c
}

func (c *Compiler) VisitFunctionCall(n *nodes.FunctionCall) {
	args := compiler.Arguments(n)
	switch n.Function {
	case nodes.FuncSquare:
		c.Visit(nodes.NewFunctionCall(nodes.FuncPower, args[0], nodes.NewLiteral(2)))
	case nodes.FuncIntervalConstruct:
		c.Visit(units(args[0], "millisecond"))
	case nodes.FuncIntervalToMilliseconds:
		c.Emit("(EXTRACT(EPOCH FROM")
		c.Visit(args[0])
		c.Emit(")")
		c.Emit("* 1000)")
	case nodes.FuncIntervalAbs, nodes.FuncIntervalDuration:
		// interval has no ABS
		c.Emit("GREATEST(")
		c.Visit(args[0])
		c.Emit(",")
		c.Visit(nodes.NewUnary(nodes.OpNegate, args[0]))
		c.Emit(")")
	case nodes.FuncDateTimeAddMonths:
		c.Visit(nodes.NewBinary(nodes.OpDateTimePlusInterval, args[0], units(args[1], "month")))
	case nodes.FuncDateTimeAddYears:
		c.Visit(nodes.NewBinary(nodes.OpDateTimePlusInterval, args[0], units(args[1], "year")))
	case nodes.FuncDateTimeAddInterval:
		c.Visit(nodes.NewBinary(nodes.OpDateTimePlusInterval, args[0], args[1]))
	case nodes.FuncDateTimeSubtractInterval:
		c.Visit(nodes.NewBinary(nodes.OpDateTimeMinusInterval, args[0], args[1]))
	case nodes.FuncDateTimeSubtractDateTime:
		c.Visit(nodes.NewBinary(nodes.OpDateTimeMinusDateTime, args[0], args[1]))
	case nodes.FuncDateTimeTruncate:
		c.Emit("DATE_TRUNC('day',")
		c.Visit(args[0])
		c.Emit(")")
	case nodes.FuncDateTimeConstruct:
		var date nodes.Expression = nodes.NewNative("TIMESTAMP '0001-01-01'")
		for i, unit := range []string{"year", "month", "day"} {
			date = nodes.NewBinary(nodes.OpDateTimePlusInterval, date, units(minusOne(args[i]), unit))
		}
		c.Visit(date)
	default:
		c.Compiler.VisitFunctionCall(n)
	}
}

// VisitExtract drops the fractional part EXTRACT returns for seconds.
func (c *Compiler) VisitExtract(n *nodes.Extract) {
	switch {
	case n.IsInterval() && n.IntervalPart == nodes.IntervalPartMillisecond,
		!n.IsInterval() && n.DateTimePart == nodes.DateTimePartMillisecond:
		c.Emit("(CAST(EXTRACT(MILLISECONDS FROM")
		c.Visit(n.Operand)
		c.Emit(")")
		c.Emit("AS integer)")
		c.Emit("% 1000)")
	case n.IsInterval() && n.IntervalPart == nodes.IntervalPartSecond,
		!n.IsInterval() && n.DateTimePart == nodes.DateTimePartSecond:
		c.Emit("TRUNC(")
		c.Compiler.VisitExtract(n)
		c.Emit(")")
	default:
		c.Compiler.VisitExtract(n)
	}
}

// units returns n * INTERVAL '1 unit'.
func units(n nodes.Expression, unit string) nodes.Expression {
	return nodes.NewBinary(nodes.OpMultiply, n, nodes.NewNative("INTERVAL '1 "+unit+"'"))
}

func minusOne(x nodes.Expression) nodes.Expression {
	return nodes.NewBinary(nodes.OpSubtract, x, nodes.NewLiteral(1))
}
