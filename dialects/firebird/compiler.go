package firebird

import (
	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/types"
)

var builtins = map[string]bool{
	"BIN_AND":  true,
	"BIN_NOT":  true,
	"BIN_OR":   true,
	"BIN_XOR":  true,
	"DATEADD":  true,
	"DATEDIFF": true,
	"MOD":      true,
	"POWER":    true,
	"TRUNC":    true,
}

var binaryFunctions = map[nodes.NodeType]string{
	nodes.OpModulo: "MOD",
	nodes.OpBitAnd: "BIN_AND",
	nodes.OpBitOr:  "BIN_OR",
	nodes.OpBitXor: "BIN_XOR",
}

// rdbDatabase is the one-row system table of FROM-less selects.
var rdbDatabase = nodes.NewTable("RDB$DATABASE")

// Compiler is the Firebird SQL generator. Firebird has no interval type;
// intervals are bigint milliseconds and date arithmetic uses DATEADD and
// DATEDIFF.
type Compiler struct {
	*compiler.Compiler
}

// NewCompiler creates a compiler over t.
func NewCompiler(t *compiler.Translator) *Compiler {
	c := &Compiler{Compiler: compiler.New(t)}
	c.SetOuter(c)
	return c
}

func (c *Compiler) VisitSelect(n *nodes.Select) {
	if n.From == nil {
		withSource := *n
		withSource.From = rdbDatabase
		n = &withSource
	}
	c.Compiler.VisitSelect(n)
}

func (c *Compiler) VisitTableRef(n *nodes.TableRef) {
	if n == rdbDatabase {
		c.Emit("RDB$DATABASE")
		return
	}
	c.Compiler.VisitTableRef(n)
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
	if name, ok := binaryFunctions[n.NodeType()]; ok {
		c.Visit(call(name, n.Left, n.Right))
		return
	}
	switch n.NodeType() {
	case nodes.OpDateTimePlusInterval:
		c.Visit(dateAdd("MILLISECOND", n.Right, n.Left))
	case nodes.OpDateTimeMinusInterval:
		c.Visit(dateAdd("MILLISECOND", nodes.NewUnary(nodes.OpNegate, n.Right), n.Left))
	case nodes.OpDateTimeMinusDateTime:
		c.Visit(dateDiff(n.Right, n.Left))
	default:
		c.Compiler.VisitBinary(n)
	}
}

func (c *Compiler) VisitUnary(n *nodes.Unary) {
	if n.NodeType() == nodes.OpBitNot {
		c.Visit(call("BIN_NOT", n.Operand))
		return
	}
	c.Compiler.VisitUnary(n)
}

func (c *Compiler) VisitFunctionCall(n *nodes.FunctionCall) {
	args := compiler.Arguments(n)
	switch n.Function {
	case nodes.FuncSquare:
		c.Visit(call("POWER", args[0], nodes.NewLiteral(2)))
	case nodes.FuncDegrees:
		c.Emit("(")
		c.Visit(args[0])
		c.Emit("* 180 / PI())")
	case nodes.FuncRadians:
		c.Emit("(")
		c.Visit(args[0])
		c.Emit("* PI() / 180)")
	case nodes.FuncSubstring:
		c.Emit("SUBSTRING(")
		c.Visit(args[0])
		c.Emit("FROM")
		c.Visit(args[1])
		if len(args) > 2 {
			c.Emit("FOR")
			c.Visit(args[2])
		}
		c.Emit(")")
	case nodes.FuncIntervalConstruct, nodes.FuncIntervalToMilliseconds:
		c.Visit(nodes.NewCast(args[0], types.Of(types.Int64)))
	case nodes.FuncIntervalDuration:
		c.Visit(nodes.NewFunctionCall(nodes.FuncAbs, args[0]))
	case nodes.FuncDateTimeAddMonths:
		c.Visit(dateAdd("MONTH", args[1], args[0]))
	case nodes.FuncDateTimeAddYears:
		c.Visit(dateAdd("YEAR", args[1], args[0]))
	case nodes.FuncDateTimeAddInterval:
		c.Visit(nodes.NewBinary(nodes.OpDateTimePlusInterval, args[0], args[1]))
	case nodes.FuncDateTimeSubtractInterval:
		c.Visit(nodes.NewBinary(nodes.OpDateTimeMinusInterval, args[0], args[1]))
	case nodes.FuncDateTimeSubtractDateTime:
		c.Visit(dateDiff(args[1], args[0]))
	case nodes.FuncDateTimeTruncate:
		date := nodes.NewCast(args[0], types.Native("DATE"))
		c.Visit(nodes.NewCast(date, types.Of(types.DateTime)))
	case nodes.FuncDateTimeConstruct:
		dash := nodes.NewLiteral("-")
		var text nodes.Expression = args[0]
		for _, part := range []nodes.Expression{dash, args[1], dash, args[2]} {
			text = nodes.NewBinary(nodes.OpConcat, text, part)
		}
		c.Visit(nodes.NewCast(text, types.Of(types.DateTime)))
	default:
		c.Compiler.VisitFunctionCall(n)
	}
}

// VisitExtract splits millisecond intervals into their parts and returns
// whole seconds and milliseconds of date/time values.
func (c *Compiler) VisitExtract(n *nodes.Extract) {
	if n.IsInterval() {
		c.Visit(intervalPart(n.IntervalPart, n.Operand))
		return
	}
	switch n.DateTimePart {
	case nodes.DateTimePartSecond, nodes.DateTimePartMillisecond:
		c.Emit("TRUNC(")
		c.Compiler.VisitExtract(n)
		c.Emit(")")
	case nodes.DateTimePartDayOfYear:
		// YEARDAY counts from 0
		c.Emit("(EXTRACT(YEARDAY FROM")
		c.Visit(n.Operand)
		c.Emit(")")
		c.Emit("+ 1)")
	default:
		c.Compiler.VisitExtract(n)
	}
}

func intervalPart(part nodes.IntervalPart, x nodes.Expression) nodes.Expression {
	switch part {
	case nodes.IntervalPartDay:
		return divide(x, 86400000)
	case nodes.IntervalPartHour:
		return modulo(divide(x, 3600000), 24)
	case nodes.IntervalPartMinute:
		return modulo(divide(x, 60000), 60)
	case nodes.IntervalPartSecond:
		return modulo(divide(x, 1000), 60)
	}
	return modulo(x, 1000)
}

func call(name string, args ...nodes.Expression) *nodes.UserFunctionCall {
	return nodes.NewUserFunctionCall(name, args...)
}

func dateAdd(part string, amount, date nodes.Expression) nodes.Expression {
	return call("DATEADD", nodes.NewNative(part), amount, date)
}

func dateDiff(from, to nodes.Expression) nodes.Expression {
	return call("DATEDIFF", nodes.NewNative("MILLISECOND"), from, to)
}

func divide(x nodes.Expression, n int) nodes.Expression {
	return nodes.NewBinary(nodes.OpDivide, x, nodes.NewLiteral(n))
}

func modulo(x nodes.Expression, n int) nodes.Expression {
	return nodes.NewBinary(nodes.OpModulo, x, nodes.NewLiteral(n))
}
