package oracle

import (
	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

// builtins are server functions the rewrites call by name.
var builtins = map[string]bool{
	"ADD_MONTHS":      true,
	"BITAND":          true,
	"INSTR":           true,
	"LOG":             true,
	"MOD":             true,
	"NUMTODSINTERVAL": true,
	"POWER":           true,
	"TO_CHAR":         true,
	"TO_NUMBER":       true,
	"TO_TIMESTAMP":    true,
	"TRUNC":           true,
}

// interval parts with their length in milliseconds
var intervalScales = []struct {
	part  string
	scale string
}{
	{"DAY", "86400000"},
	{"HOUR", "3600000"},
	{"MINUTE", "60000"},
	{"SECOND", "1000"},
}

// dual is the one-row table of FROM-less selects.
var dual = nodes.NewTable("DUAL")

// Compiler is the Oracle SQL generator. Intervals are native
// INTERVAL DAY TO SECOND values.
type Compiler struct {
	*compiler.Compiler
}

// NewCompiler creates a compiler over t.
func NewCompiler(t *compiler.Translator) *Compiler {
	c := &Compiler{Compiler: compiler.New(t)}
	c.SetOuter(c)
	return c
}

// VisitSelect selects from DUAL when there is no FROM and pages with
// ROWNUM before OFFSET/FETCH is available.
func (c *Compiler) VisitSelect(n *nodes.Select) {
	if n.From == nil {
		withDual := *n
		withDual.From = dual
		n = &withDual
	}
	if !n.HasPaging() || c.Translator().Settings().Paging == compiler.PagingOffsetFetch {
		c.Compiler.VisitSelect(n)
		return
	}
	if n.Lock != nodes.LockEmpty {
		panic(sqlerr.NotSupported("paged " + n.Lock.String()))
	}
	inner := *n
	inner.Limit, inner.Offset = nil, nil
	if n.Offset == nil {
		c.Emit("SELECT * FROM (")
		c.Compiler.VisitSelect(&inner)
		c.Emit(") WHERE ROWNUM <=")
		c.Visit(n.Limit)
		return
	}
	t := c.Translator()
	page, rn := t.Quote("page"), t.Quote("rn")
	c.Emit("SELECT * FROM (SELECT")
	c.Emit(page + ".*, ROWNUM " + rn + " FROM (")
	c.Compiler.VisitSelect(&inner)
	c.Emit(")")
	c.Emit(page)
	if n.Limit != nil {
		c.Emit("WHERE ROWNUM <=")
		c.Visit(nodes.NewBinary(nodes.OpAdd, n.Offset, n.Limit))
	}
	c.Emit(") WHERE " + rn + " >")
	c.Visit(n.Offset)
}

func (c *Compiler) VisitTableRef(n *nodes.TableRef) {
	if n == dual {
		c.Emit("DUAL")
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
	l, r := n.Left, n.Right
	switch n.NodeType() {
	case nodes.OpModulo:
		c.Visit(call("MOD", l, r))
	case nodes.OpBitAnd:
		c.Visit(call("BITAND", l, r))
	case nodes.OpBitOr:
		c.Visit(subtract(add(l, r), call("BITAND", l, r)))
	case nodes.OpBitXor:
		twice := nodes.NewBinary(nodes.OpMultiply, call("BITAND", l, r), nodes.NewLiteral(2))
		c.Visit(subtract(add(l, r), twice))
	default:
		c.Compiler.VisitBinary(n)
	}
}

func (c *Compiler) VisitUnary(n *nodes.Unary) {
	if n.NodeType() == nodes.OpBitNot {
		c.Visit(subtract(nodes.NewLiteral(-1), n.Operand))
		return
	}
	c.Compiler.VisitUnary(n)
}

func (c *Compiler) VisitFunctionCall(n *nodes.FunctionCall) {
	args := compiler.Arguments(n)
	switch n.Function {
	case nodes.FuncSquare:
		c.Visit(call("POWER", args[0], nodes.NewLiteral(2)))
	case nodes.FuncLog10:
		c.Visit(call("LOG", nodes.NewLiteral(10), args[0]))
	case nodes.FuncPosition:
		c.Visit(call("INSTR", args[1], args[0]))
	case nodes.FuncRand:
		c.Emit("DBMS_RANDOM.VALUE")
	case nodes.FuncPi:
		c.Emit("ACOS(-1)")
	case nodes.FuncDegrees:
		c.Emit("(")
		c.Visit(args[0])
		c.Emit("* 180 / ACOS(-1))")
	case nodes.FuncRadians:
		c.Emit("(")
		c.Visit(args[0])
		c.Emit("* ACOS(-1) / 180)")
	case nodes.FuncCot:
		c.Emit("(1 / TAN(")
		c.Visit(args[0])
		c.Emit("))")
	case nodes.FuncIntervalConstruct:
		c.Visit(seconds(nodes.NewBinary(nodes.OpDivide, args[0], nodes.NewLiteral(1000))))
	case nodes.FuncIntervalToMilliseconds:
		c.emitMilliseconds(args[0])
	case nodes.FuncIntervalAbs, nodes.FuncIntervalDuration:
		c.Emit("NUMTODSINTERVAL(ABS(")
		c.emitMilliseconds(args[0])
		c.Emit(") / 1000,")
		c.Emit("'SECOND')")
	case nodes.FuncDateTimeAddMonths:
		c.Visit(call("ADD_MONTHS", args[0], args[1]))
	case nodes.FuncDateTimeAddYears:
		c.Visit(call("ADD_MONTHS", args[0], nodes.NewBinary(nodes.OpMultiply, args[1], nodes.NewLiteral(12))))
	case nodes.FuncDateTimeAddInterval:
		c.Visit(nodes.NewBinary(nodes.OpDateTimePlusInterval, args[0], args[1]))
	case nodes.FuncDateTimeSubtractInterval:
		c.Visit(nodes.NewBinary(nodes.OpDateTimeMinusInterval, args[0], args[1]))
	case nodes.FuncDateTimeSubtractDateTime:
		c.Visit(nodes.NewBinary(nodes.OpDateTimeMinusDateTime, args[0], args[1]))
	case nodes.FuncDateTimeTruncate:
		c.Visit(nodes.NewCast(call("TRUNC", args[0]), types.Of(types.DateTime)))
	case nodes.FuncDateTimeConstruct:
		dash := nodes.NewLiteral("-")
		var text nodes.Expression = args[0]
		for _, part := range []nodes.Expression{dash, args[1], dash, args[2]} {
			text = nodes.NewBinary(nodes.OpConcat, text, part)
		}
		c.Visit(call("TO_TIMESTAMP", text, nodes.NewLiteral("YYYY-MM-DD")))
	default:
		c.Compiler.VisitFunctionCall(n)
	}
}

// VisitExtract truncates seconds to whole values and computes the day of
// week independently of NLS_TERRITORY.
func (c *Compiler) VisitExtract(n *nodes.Extract) {
	second := n.DateTimePart == nodes.DateTimePartSecond || (n.IsInterval() && n.IntervalPart == nodes.IntervalPartSecond)
	milli := n.DateTimePart == nodes.DateTimePartMillisecond || (n.IsInterval() && n.IntervalPart == nodes.IntervalPartMillisecond)
	switch {
	case second:
		c.Emit("TRUNC(")
		c.Compiler.VisitExtract(n)
		c.Emit(")")
	case milli:
		c.Emit("MOD(TRUNC(EXTRACT(SECOND FROM")
		c.Visit(n.Operand)
		c.Emit(")")
		c.Emit("* 1000), 1000)")
	case n.DateTimePart == nodes.DateTimePartDayOfWeek:
		date := nodes.NewCast(n.Operand, types.Native("DATE"))
		days := subtract(call("TRUNC", date), call("TRUNC", date, nodes.NewLiteral("IW")))
		c.Visit(call("MOD", add(days, nodes.NewLiteral(1)), nodes.NewLiteral(7)))
	case n.DateTimePart == nodes.DateTimePartDayOfYear:
		c.Visit(call("TO_NUMBER", call("TO_CHAR", n.Operand, nodes.NewLiteral("DDD"))))
	default:
		c.Compiler.VisitExtract(n)
	}
}

// emitMilliseconds writes the total milliseconds of a day-to-second
// interval.
func (c *Compiler) emitMilliseconds(x nodes.Expression) {
	c.Emit("(")
	for i, s := range intervalScales {
		if i > 0 {
			c.Emit("+")
		}
		c.Emit("EXTRACT(" + s.part + " FROM")
		c.Visit(x)
		c.Emit(")")
		c.Emit("* " + s.scale)
	}
	c.Emit(")")
}

func call(name string, args ...nodes.Expression) *nodes.UserFunctionCall {
	return nodes.NewUserFunctionCall(name, args...)
}

func seconds(x nodes.Expression) nodes.Expression {
	return call("NUMTODSINTERVAL", x, nodes.NewLiteral("SECOND"))
}

func add(x, y nodes.Expression) nodes.Expression {
	return nodes.NewBinary(nodes.OpAdd, x, y)
}

func subtract(x, y nodes.Expression) nodes.Expression {
	return nodes.NewBinary(nodes.OpSubtract, x, y)
}
