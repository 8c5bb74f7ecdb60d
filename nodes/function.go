package nodes

import (
	"fmt"

	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

// FunctionType names a built-in function. Dialects map each one to their
// own spelling or reject it.
type FunctionType int

const (
	FuncAbs FunctionType = iota
	FuncAcos
	FuncAsin
	FuncAtan
	FuncAtan2
	FuncCeiling
	FuncCoalesce
	FuncConcat
	FuncCos
	FuncCot
	FuncDegrees
	FuncExp
	FuncFloor
	FuncLog
	FuncLog10
	FuncPi
	FuncPower
	FuncRadians
	FuncRand
	FuncRound
	FuncSign
	FuncSin
	FuncSqrt
	FuncSquare
	FuncTan
	FuncTruncate

	FuncCharLength
	FuncBinaryLength
	FuncLower
	FuncUpper
	FuncNullIf
	FuncPadLeft
	FuncPadRight
	FuncPosition
	FuncReplace
	FuncSubstring

	FuncCurrentDate
	FuncCurrentTime
	FuncCurrentTimestamp
	FuncCurrentUser
	FuncSessionUser
	FuncSystemUser
	FuncLastAutoGeneratedId

	FuncDateTimeConstruct
	FuncDateTimeAddMonths
	FuncDateTimeAddYears
	FuncDateTimeAddInterval
	FuncDateTimeSubtractInterval
	FuncDateTimeSubtractDateTime
	FuncDateTimeTruncate

	FuncIntervalConstruct
	FuncIntervalToMilliseconds
	FuncIntervalAbs
	FuncIntervalNegate
	FuncIntervalDuration

	functionTypeCount
)

var functionTypeNames = [...]string{
	FuncAbs:                      "Abs",
	FuncAcos:                     "Acos",
	FuncAsin:                     "Asin",
	FuncAtan:                     "Atan",
	FuncAtan2:                    "Atan2",
	FuncCeiling:                  "Ceiling",
	FuncCoalesce:                 "Coalesce",
	FuncConcat:                   "Concat",
	FuncCos:                      "Cos",
	FuncCot:                      "Cot",
	FuncDegrees:                  "Degrees",
	FuncExp:                      "Exp",
	FuncFloor:                    "Floor",
	FuncLog:                      "Log",
	FuncLog10:                    "Log10",
	FuncPi:                       "Pi",
	FuncPower:                    "Power",
	FuncRadians:                  "Radians",
	FuncRand:                     "Rand",
	FuncRound:                    "Round",
	FuncSign:                     "Sign",
	FuncSin:                      "Sin",
	FuncSqrt:                     "Sqrt",
	FuncSquare:                   "Square",
	FuncTan:                      "Tan",
	FuncTruncate:                 "Truncate",
	FuncCharLength:               "CharLength",
	FuncBinaryLength:             "BinaryLength",
	FuncLower:                    "Lower",
	FuncUpper:                    "Upper",
	FuncNullIf:                   "NullIf",
	FuncPadLeft:                  "PadLeft",
	FuncPadRight:                 "PadRight",
	FuncPosition:                 "Position",
	FuncReplace:                  "Replace",
	FuncSubstring:                "Substring",
	FuncCurrentDate:              "CurrentDate",
	FuncCurrentTime:              "CurrentTime",
	FuncCurrentTimestamp:         "CurrentTimestamp",
	FuncCurrentUser:              "CurrentUser",
	FuncSessionUser:              "SessionUser",
	FuncSystemUser:               "SystemUser",
	FuncLastAutoGeneratedId:      "LastAutoGeneratedId",
	FuncDateTimeConstruct:        "DateTimeConstruct",
	FuncDateTimeAddMonths:        "DateTimeAddMonths",
	FuncDateTimeAddYears:         "DateTimeAddYears",
	FuncDateTimeAddInterval:      "DateTimeAddInterval",
	FuncDateTimeSubtractInterval: "DateTimeSubtractInterval",
	FuncDateTimeSubtractDateTime: "DateTimeSubtractDateTime",
	FuncDateTimeTruncate:         "DateTimeTruncate",
	FuncIntervalConstruct:        "IntervalConstruct",
	FuncIntervalToMilliseconds:   "IntervalToMilliseconds",
	FuncIntervalAbs:              "IntervalAbs",
	FuncIntervalNegate:           "IntervalNegate",
	FuncIntervalDuration:         "IntervalDuration",
}

func (f FunctionType) String() string {
	if f < 0 || f >= functionTypeCount {
		return fmt.Sprintf("FunctionType(%d)", int(f))
	}
	return functionTypeNames[f]
}

// IsNiladic reports whether the function is written without parentheses.
func (f FunctionType) IsNiladic() bool {
	switch f {
	case FuncCurrentDate, FuncCurrentTime, FuncCurrentTimestamp,
		FuncCurrentUser, FuncSessionUser, FuncSystemUser:
		return true
	}
	return false
}

// FunctionTypes returns every defined function type.
func FunctionTypes() []FunctionType {
	out := make([]FunctionType, functionTypeCount)
	for i := range out {
		out[i] = FunctionType(i)
	}
	return out
}

// variadic marks a function without an upper bound on its arguments.
const variadic = -1

type arity struct{ min, max int }

var functionArity = [...]arity{
	FuncAbs:                      {1, 1},
	FuncAcos:                     {1, 1},
	FuncAsin:                     {1, 1},
	FuncAtan:                     {1, 1},
	FuncAtan2:                    {2, 2},
	FuncCeiling:                  {1, 1},
	FuncCoalesce:                 {1, variadic},
	FuncConcat:                   {2, variadic},
	FuncCos:                      {1, 1},
	FuncCot:                      {1, 1},
	FuncDegrees:                  {1, 1},
	FuncExp:                      {1, 1},
	FuncFloor:                    {1, 1},
	FuncLog:                      {1, 2},
	FuncLog10:                    {1, 1},
	FuncPi:                       {0, 0},
	FuncPower:                    {2, 2},
	FuncRadians:                  {1, 1},
	FuncRand:                     {0, 1},
	FuncRound:                    {1, 2},
	FuncSign:                     {1, 1},
	FuncSin:                      {1, 1},
	FuncSqrt:                     {1, 1},
	FuncSquare:                   {1, 1},
	FuncTan:                      {1, 1},
	FuncTruncate:                 {1, 2},
	FuncCharLength:               {1, 1},
	FuncBinaryLength:             {1, 1},
	FuncLower:                    {1, 1},
	FuncUpper:                    {1, 1},
	FuncNullIf:                   {2, 2},
	FuncPadLeft:                  {2, 3},
	FuncPadRight:                 {2, 3},
	FuncPosition:                 {2, 2},
	FuncReplace:                  {3, 3},
	FuncSubstring:                {2, 3},
	FuncCurrentDate:              {0, 0},
	FuncCurrentTime:              {0, 0},
	FuncCurrentTimestamp:         {0, 0},
	FuncCurrentUser:              {0, 0},
	FuncSessionUser:              {0, 0},
	FuncSystemUser:               {0, 0},
	FuncLastAutoGeneratedId:      {0, 0},
	FuncDateTimeConstruct:        {3, 3},
	FuncDateTimeAddMonths:        {2, 2},
	FuncDateTimeAddYears:         {2, 2},
	FuncDateTimeAddInterval:      {2, 2},
	FuncDateTimeSubtractInterval: {2, 2},
	FuncDateTimeSubtractDateTime: {2, 2},
	FuncDateTimeTruncate:         {1, 1},
	FuncIntervalConstruct:        {1, 1},
	FuncIntervalToMilliseconds:   {1, 1},
	FuncIntervalAbs:              {1, 1},
	FuncIntervalNegate:           {1, 1},
	FuncIntervalDuration:         {1, 1},
}

// Arity returns the fewest and most arguments f takes. hi is -1 when
// there is no upper bound.
func (f FunctionType) Arity() (lo, hi int) {
	if f < 0 || f >= functionTypeCount {
		return 0, variadic
	}
	a := functionArity[f]
	return a.min, a.max
}

// CheckArity returns an ArgumentError unless n arguments fit f.
func (f FunctionType) CheckArity(n int) error {
	lo, hi := f.Arity()
	if n >= lo && (hi == variadic || n <= hi) {
		return nil
	}
	var want string
	switch {
	case lo == hi:
		want = fmt.Sprint(lo)
	case hi == variadic:
		want = fmt.Sprintf("at least %d", lo)
	default:
		want = fmt.Sprintf("%d to %d", lo, hi)
	}
	return sqlerr.Argument("arguments", fmt.Sprintf("%s takes %s, got %d", f, want, n))
}

// FunctionCall invokes a built-in function.
type FunctionCall struct {
	exprBase
	Predications
	Combinable
	Function  FunctionType
	Arguments []Expression
}

// NewFunctionCall creates a call to a built-in function. It panics with an
// ArgumentError when the argument count does not fit fn.
func NewFunctionCall(fn FunctionType, args ...Expression) *FunctionCall {
	for i, a := range args {
		mustNotNil(fmt.Sprintf("arguments[%d]", i), a == nil)
	}
	if err := fn.CheckArity(len(args)); err != nil {
		panic(err)
	}
	if args == nil {
		args = []Expression{}
	}
	n := &FunctionCall{exprBase: exprBase{nodeBase{NodeFunctionCall}}, Function: fn, Arguments: args}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *FunctionCall) Accept(v Visitor) { v.VisitFunctionCall(n) }

func (n *FunctionCall) clone(c *CloneContext) Node {
	cl := &FunctionCall{exprBase: n.exprBase, Function: n.Function}
	cl.Predications.self = cl
	cl.Combinable.self = cl
	c.register(n, cl)
	cl.Arguments = cloneExprs(c, n.Arguments)
	return cl
}

// UserFunctionCall invokes a function by name. The name is quoted by the
// dialect like any other identifier.
type UserFunctionCall struct {
	exprBase
	Predications
	Combinable
	Name      string
	Arguments []Expression
}

// NewUserFunctionCall creates a call to a user-defined function.
func NewUserFunctionCall(name string, args ...Expression) *UserFunctionCall {
	if name == "" {
		panicArgument("name", "must not be empty")
	}
	if args == nil {
		args = []Expression{}
	}
	n := &UserFunctionCall{exprBase: exprBase{nodeBase{NodeUserFunctionCall}}, Name: name, Arguments: args}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *UserFunctionCall) Accept(v Visitor) { v.VisitUserFunctionCall(n) }

func (n *UserFunctionCall) clone(c *CloneContext) Node {
	cl := &UserFunctionCall{exprBase: n.exprBase, Name: n.Name}
	cl.Predications.self = cl
	cl.Combinable.self = cl
	c.register(n, cl)
	cl.Arguments = cloneExprs(c, n.Arguments)
	return cl
}

// Aggregate is COUNT, SUM, AVG, MIN or MAX; its NodeType is the function.
type Aggregate struct {
	exprBase
	Predications
	Distinct   bool
	Expression Expression
}

// NewAggregate creates an aggregate. A nil expression means COUNT(*).
func NewAggregate(fn NodeType, expr Expression, distinct bool) *Aggregate {
	if !fn.IsAggregate() {
		panic(fmt.Sprintf("sqldom: %s is not an aggregate", fn))
	}
	if expr == nil {
		expr = Star()
	}
	n := &Aggregate{exprBase: exprBase{nodeBase{fn}}, Expression: expr, Distinct: distinct}
	n.Predications.self = n
	return n
}

// Count creates COUNT(expr).
func Count(expr Expression) *Aggregate { return NewAggregate(OpCount, expr, false) }

// Sum creates SUM(expr).
func Sum(expr Expression) *Aggregate { return NewAggregate(OpSum, expr, false) }

// Avg creates AVG(expr).
func Avg(expr Expression) *Aggregate { return NewAggregate(OpAvg, expr, false) }

// Min creates MIN(expr).
func Min(expr Expression) *Aggregate { return NewAggregate(OpMin, expr, false) }

// Max creates MAX(expr).
func Max(expr Expression) *Aggregate { return NewAggregate(OpMax, expr, false) }

func (n *Aggregate) Accept(v Visitor) { v.VisitAggregate(n) }

func (n *Aggregate) clone(c *CloneContext) Node {
	cl := &Aggregate{exprBase: n.exprBase, Distinct: n.Distinct}
	cl.Predications.self = cl
	c.register(n, cl)
	cl.Expression = cloneExpr(c, n.Expression)
	return cl
}

// Cast converts an operand to a SQL type.
type Cast struct {
	exprBase
	Predications
	Operand Expression
	Type    types.ValueType
}

// NewCast creates CAST(operand AS typ).
func NewCast(operand Expression, typ types.ValueType) *Cast {
	mustNotNil("operand", operand == nil)
	n := &Cast{exprBase: exprBase{nodeBase{NodeCast}}, Operand: operand, Type: typ}
	n.Predications.self = n
	return n
}

func (n *Cast) Accept(v Visitor) { v.VisitCast(n) }

func (n *Cast) clone(c *CloneContext) Node {
	cl := &Cast{exprBase: n.exprBase, Type: n.Type}
	cl.Predications.self = cl
	c.register(n, cl)
	cl.Operand = cloneExpr(c, n.Operand)
	return cl
}

// DateTimePart is a component of a date/time value.
type DateTimePart int

const (
	DateTimePartNothing DateTimePart = iota
	DateTimePartYear
	DateTimePartMonth
	DateTimePartDay
	DateTimePartHour
	DateTimePartMinute
	DateTimePartSecond
	DateTimePartMillisecond
	DateTimePartDayOfWeek
	DateTimePartDayOfYear
)

var dateTimePartNames = [...]string{
	"Nothing", "Year", "Month", "Day", "Hour", "Minute", "Second", "Millisecond", "DayOfWeek", "DayOfYear",
}

func (p DateTimePart) String() string {
	if p < 0 || int(p) >= len(dateTimePartNames) {
		return fmt.Sprintf("DateTimePart(%d)", int(p))
	}
	return dateTimePartNames[p]
}

// IntervalPart is a component of an interval value.
type IntervalPart int

const (
	IntervalPartNothing IntervalPart = iota
	IntervalPartDay
	IntervalPartHour
	IntervalPartMinute
	IntervalPartSecond
	IntervalPartMillisecond
)

var intervalPartNames = [...]string{"Nothing", "Day", "Hour", "Minute", "Second", "Millisecond"}

func (p IntervalPart) String() string {
	if p < 0 || int(p) >= len(intervalPartNames) {
		return fmt.Sprintf("IntervalPart(%d)", int(p))
	}
	return intervalPartNames[p]
}

// Extract reads one part of a date/time or interval operand. Exactly one
// of DateTimePart and IntervalPart is set.
type Extract struct {
	exprBase
	Predications
	DateTimePart DateTimePart
	IntervalPart IntervalPart
	Operand      Expression
}

// NewExtract creates EXTRACT(part FROM operand) for a date/time operand.
func NewExtract(part DateTimePart, operand Expression) *Extract {
	if part == DateTimePartNothing {
		panicArgument("part", "must name a date/time part")
	}
	mustNotNil("operand", operand == nil)
	n := &Extract{exprBase: exprBase{nodeBase{NodeExtract}}, DateTimePart: part, Operand: operand}
	n.Predications.self = n
	return n
}

// NewIntervalExtract creates EXTRACT(part FROM operand) for an interval operand.
func NewIntervalExtract(part IntervalPart, operand Expression) *Extract {
	if part == IntervalPartNothing {
		panicArgument("part", "must name an interval part")
	}
	mustNotNil("operand", operand == nil)
	n := &Extract{exprBase: exprBase{nodeBase{NodeExtract}}, IntervalPart: part, Operand: operand}
	n.Predications.self = n
	return n
}

// IsInterval reports whether the operand is an interval.
func (n *Extract) IsInterval() bool { return n.IntervalPart != IntervalPartNothing }

func (n *Extract) Accept(v Visitor) { v.VisitExtract(n) }

func (n *Extract) clone(c *CloneContext) Node {
	cl := &Extract{exprBase: n.exprBase, DateTimePart: n.DateTimePart, IntervalPart: n.IntervalPart}
	cl.Predications.self = cl
	c.register(n, cl)
	cl.Operand = cloneExpr(c, n.Operand)
	return cl
}

// TrimType selects the side trimmed by Trim.
type TrimType int

const (
	TrimBoth TrimType = iota
	TrimLeading
	TrimTrailing
)

func (t TrimType) String() string {
	switch t {
	case TrimBoth:
		return "Both"
	case TrimLeading:
		return "Leading"
	case TrimTrailing:
		return "Trailing"
	}
	return fmt.Sprintf("TrimType(%d)", int(t))
}

// Trim removes characters from one or both ends of a string. An empty
// Characters trims whitespace.
type Trim struct {
	exprBase
	Predications
	Expression Expression
	Characters string
	TrimType   TrimType
}

// NewTrim creates TRIM(type characters FROM expr).
func NewTrim(expr Expression, typ TrimType, characters string) *Trim {
	mustNotNil("expression", expr == nil)
	n := &Trim{exprBase: exprBase{nodeBase{NodeTrim}}, Expression: expr, TrimType: typ, Characters: characters}
	n.Predications.self = n
	return n
}

func (n *Trim) Accept(v Visitor) { v.VisitTrim(n) }

func (n *Trim) clone(c *CloneContext) Node {
	cl := &Trim{exprBase: n.exprBase, Characters: n.Characters, TrimType: n.TrimType}
	cl.Predications.self = cl
	c.register(n, cl)
	cl.Expression = cloneExpr(c, n.Expression)
	return cl
}
