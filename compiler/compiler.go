// Package compiler turns node graphs into dialect SQL. A Compiler walks the
// graph and asks its Translator for the text of every section of every
// node; dialects customize the text through translator layers and, where a
// node must be rewritten, by embedding *Compiler and overriding Visit
// methods.
package compiler

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
)

// Compiler is the base SQL generator shared by all dialects. Dialect
// compilers embed *Compiler and call SetOuter with themselves so that
// every recursive Accept goes through their overrides.
//
// A Compiler holds the state of the compilation in progress and must not
// be used by two goroutines at once.
type Compiler struct {
	// outer is the concrete dialect compiler.
	outer      nodes.Visitor
	translator *Translator
	ctx        *Context
	// tableHint is written after every table source while the FROM
	// clause of a locking SELECT is compiled.
	tableHint string
}

var _ nodes.Visitor = (*Compiler)(nil)

// New creates a compiler for translator t.
func New(t *Translator) *Compiler {
	c := &Compiler{translator: t}
	c.outer = c
	return c
}

// SetOuter installs the dialect compiler that embeds c.
func (c *Compiler) SetOuter(v nodes.Visitor) { c.outer = v }

// Translator returns the translator in use.
func (c *Compiler) Translator() *Translator { return c.translator }

// Context returns the context of the compilation in progress.
func (c *Compiler) Context() *Context { return c.ctx }

// Compile renders stmt. Unsupported constructs and invalid nodes found
// during the walk are returned as errors; the statement is not modified.
func (c *Compiler) Compile(stmt nodes.Statement, cfg Configuration) (res *Result, err error) {
	if stmt == nil {
		return nil, sqlerr.Argument("statement", "must not be nil")
	}
	c.ctx = newContext(cfg, &c.translator.settings)
	c.tableHint = ""
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !isCompileError(e) {
				panic(r)
			}
			res, err = nil, fmt.Errorf("compile %s: %w", stmt.NodeType(), e)
		}
		c.ctx = nil
	}()
	c.Visit(stmt)
	return &Result{Text: c.ctx.out.String(), Bindings: slices.Clone(c.ctx.bindings)}, nil
}

func isCompileError(err error) bool {
	return errors.Is(err, sqlerr.ErrNotSupported) ||
		errors.Is(err, sqlerr.ErrNotImplemented) ||
		errors.Is(err, sqlerr.ErrInvalidArgument) ||
		errors.Is(err, sqlerr.ErrSectionOutOfRange)
}

// Visit dispatches n through the outer compiler. A nil node writes nothing.
func (c *Compiler) Visit(n nodes.Node) {
	if n == nil {
		return
	}
	n.Accept(c.outer)
}

// VisitModel compiles an expression stored in the schema model, such as a
// column default or a check condition.
func (c *Compiler) VisitModel(e model.Expression) {
	if e == nil {
		return
	}
	n, ok := e.(nodes.Node)
	if !ok {
		panic(sqlerr.NotSupported(fmt.Sprintf("%T expression", e)))
	}
	c.Visit(n)
}

// Emit appends a token to the output.
func (c *Compiler) Emit(text string) { c.ctx.out.Append(text) }

// EmitRaw appends text without spacing.
func (c *Compiler) EmitRaw(text string) { c.ctx.out.AppendRaw(text) }

// Glue suppresses the space before the next token.
func (c *Compiler) Glue() { c.ctx.out.Glue() }

// Text returns the translation of section s for n.
func (c *Compiler) Text(n any, s Section) string {
	return c.translator.Translate(c.ctx, n, s)
}

// EmitSection appends the translation of section s for n.
func (c *Compiler) EmitSection(n any, s Section) {
	c.Emit(c.Text(n, s))
}

// VisitList compiles items separated by the dialect's column delimiter.
func VisitList[N nodes.Node](c *Compiler, items []N) {
	for i, it := range items {
		if i > 0 {
			c.Emit(c.translator.settings.ColumnDelimiter)
		}
		c.Visit(it)
	}
}

// VisitSelect writes a SELECT statement. Paging keywords are placed
// according to the dialect's paging style.
func (c *Compiler) VisitSelect(n *nodes.Select) {
	st := c.translator.settings
	c.ctx.depth++
	defer func() { c.ctx.depth-- }()

	c.EmitSection(n, SelectEntry)
	if n.Distinct {
		c.EmitSection(n, SelectDistinct)
	}
	if st.Paging == PagingTop || st.Paging == PagingFirstSkip {
		c.emitLimit(n, n.Limit)
		c.emitOffset(n, n.Offset)
	}
	if len(n.Columns) == 0 {
		c.Emit("*")
	} else {
		VisitList(c, n.Columns)
	}
	if n.From != nil {
		c.EmitSection(n, SelectFrom)
		outer := c.tableHint
		c.tableHint = ""
		if st.Lock == LockTableHint && n.Lock != nodes.LockEmpty {
			c.tableHint = c.Text(n, SelectLock)
		}
		c.Visit(n.From)
		c.tableHint = outer
	}
	if w := n.Where(); w != nil {
		c.EmitSection(n, SelectWhere)
		c.Visit(w)
	}
	if len(n.GroupBy) > 0 {
		c.EmitSection(n, SelectGroupBy)
		VisitList(c, n.GroupBy)
	}
	if h := n.Having(); h != nil {
		c.EmitSection(n, SelectHaving)
		c.Visit(h)
	}
	c.emitOrderBy(n, n.OrderBy)
	c.emitTrailingPaging(n, n.Limit, n.Offset)
	if st.Lock == LockClause && n.Lock != nodes.LockEmpty {
		c.EmitSection(n, SelectLock)
	}
	c.EmitSection(n, SelectExit)
}

func (c *Compiler) emitOrderBy(n nodes.Node, orders []*nodes.Order) {
	if len(orders) == 0 {
		return
	}
	c.EmitSection(n, SelectOrderBy)
	VisitList(c, orders)
}

// emitTrailingPaging writes paging for styles that page after ORDER BY.
func (c *Compiler) emitTrailingPaging(n nodes.Node, limit, offset nodes.Expression) {
	st := c.translator.settings
	switch st.Paging {
	case PagingLimitOffset:
		switch {
		case limit != nil:
			c.emitLimit(n, limit)
		case offset != nil && st.UnboundedLimit != "":
			c.EmitSection(n, SelectLimit)
			c.Emit(st.UnboundedLimit)
		}
		c.emitOffset(n, offset)
	case PagingOffsetFetch:
		if limit == nil && offset == nil {
			return
		}
		if offset == nil {
			offset = nodes.NewLiteral(0)
		}
		c.emitOffset(n, offset)
		c.emitLimit(n, limit)
	case PagingTop, PagingFirstSkip:
		if _, ok := n.(*nodes.Select); !ok && (limit != nil || offset != nil) {
			panic(sqlerr.NotSupported("Limit"))
		}
	}
}

func (c *Compiler) emitLimit(n nodes.Node, limit nodes.Expression) {
	if limit == nil {
		return
	}
	c.EmitSection(n, SelectLimit)
	c.Visit(limit)
	c.EmitSection(n, SelectLimitEnd)
}

func (c *Compiler) emitOffset(n nodes.Node, offset nodes.Expression) {
	if offset == nil {
		return
	}
	c.EmitSection(n, SelectOffset)
	c.Visit(offset)
	c.EmitSection(n, SelectOffsetEnd)
}

// VisitSetOperation writes left <op> right with trailing ORDER BY and paging.
func (c *Compiler) VisitSetOperation(n *nodes.SetOperation) {
	c.ctx.depth++
	defer func() { c.ctx.depth-- }()
	c.visitQueryExpression(n.Left)
	c.Emit(c.translator.OperatorName(n.NodeType()))
	c.visitQueryExpression(n.Right)
	c.emitOrderBy(n, n.OrderBy)
	c.emitTrailingPaging(n, n.Limit, n.Offset)
}

func (c *Compiler) visitQueryExpression(q nodes.Query) {
	c.EmitSection(q, QueryExpressionEntry)
	c.Visit(q)
	c.EmitSection(q, QueryExpressionExit)
}

// VisitInsert writes INSERT INTO ... VALUES, INSERT ... SELECT or
// INSERT ... DEFAULT VALUES.
func (c *Compiler) VisitInsert(n *nodes.Insert) {
	c.EmitSection(n, InsertEntry)
	c.Emit(c.TableName(n.Into))
	if n.IsDefaultValues() {
		c.EmitSection(n, InsertDefaultValues)
		c.EmitSection(n, InsertExit)
		return
	}
	if len(n.Columns) > 0 {
		c.EmitSection(n, InsertColumnsEntry)
		for i, col := range n.Columns {
			if i > 0 {
				c.Emit(c.translator.settings.ColumnDelimiter)
			}
			c.Emit(c.translator.Quote(col.Name))
		}
		c.EmitSection(n, InsertColumnsExit)
	}
	if n.From != nil {
		c.Visit(n.From)
	} else {
		c.EmitSection(n, InsertValuesEntry)
		for i, row := range n.Rows {
			if i > 0 {
				c.Emit(c.translator.settings.ColumnDelimiter)
			}
			c.Emit("(")
			VisitList(c, row)
			c.Emit(")")
		}
		c.EmitSection(n, InsertValuesExit)
	}
	c.EmitSection(n, InsertExit)
}

// VisitUpdate writes UPDATE ... SET ... [FROM] [WHERE] [LIMIT].
func (c *Compiler) VisitUpdate(n *nodes.Update) {
	c.EmitSection(n, UpdateEntry)
	c.Visit(n.Table)
	c.EmitSection(n, UpdateSet)
	for i, a := range n.Assignments {
		if i > 0 {
			c.Emit(c.translator.settings.ColumnDelimiter)
		}
		c.Emit(c.translator.Quote(a.Column.Name))
		c.Emit("=")
		c.Visit(a.Value)
	}
	if n.From != nil {
		c.EmitSection(n, UpdateFrom)
		c.Visit(n.From)
	}
	if w := n.Where(); w != nil {
		c.EmitSection(n, UpdateWhere)
		c.Visit(w)
	}
	if n.Limit != nil {
		c.EmitSection(n, UpdateLimit)
		c.Visit(n.Limit)
	}
	c.EmitSection(n, UpdateExit)
}

// VisitDelete writes DELETE FROM ... [joined source] [WHERE] [LIMIT].
func (c *Compiler) VisitDelete(n *nodes.Delete) {
	c.EmitSection(n, DeleteEntry)
	c.Visit(n.Table)
	if n.From != nil {
		c.EmitSection(n, DeleteFrom)
		c.Visit(n.From)
	}
	if w := n.Where(); w != nil {
		c.EmitSection(n, DeleteWhere)
		c.Visit(w)
	}
	if n.Limit != nil {
		c.EmitSection(n, DeleteLimit)
		c.Visit(n.Limit)
	}
	c.EmitSection(n, DeleteExit)
}

// VisitBatch writes the statements separated by the batch delimiter.
func (c *Compiler) VisitBatch(n *nodes.Batch) {
	c.EmitSection(n, BatchEntry)
	for i, s := range n.Statements {
		if i > 0 {
			c.EmitRaw(c.translator.settings.BatchItemDelimiter)
		}
		c.Visit(s)
	}
	c.EmitSection(n, BatchExit)
}

// TableName returns the quoted name of a table reference without alias.
func (c *Compiler) TableName(t *nodes.TableRef) string {
	if t.DataTable != nil {
		return c.translator.ObjectName(c.ctx, t.DataTable)
	}
	return c.translator.Quote(t.Name)
}

// Qualifier returns the prefix used for columns of table source t, or ""
// when columns of t are written unqualified.
func (c *Compiler) Qualifier(t nodes.Table) string {
	switch x := t.(type) {
	case *nodes.TableRef:
		if x.Alias != "" {
			return c.translator.Quote(x.Alias)
		}
		return c.TableName(x)
	case *nodes.QueryRef:
		return c.translator.Quote(c.queryAlias(x))
	}
	return ""
}

func (c *Compiler) queryAlias(r *nodes.QueryRef) string {
	if r.Alias != "" {
		return r.Alias
	}
	return c.ctx.Alias(r)
}

func (c *Compiler) VisitTableRef(n *nodes.TableRef) {
	c.Emit(c.TableName(n))
	if n.Alias != "" {
		c.EmitSection(n, TableRefAlias)
		c.Emit(c.translator.Quote(n.Alias))
	}
	if c.tableHint != "" {
		c.Emit(c.tableHint)
	}
}

func (c *Compiler) VisitQueryRef(n *nodes.QueryRef) {
	hint := c.tableHint
	c.tableHint = ""
	c.EmitSection(n, QueryRefEntry)
	c.Visit(n.Query)
	c.EmitSection(n, QueryRefExit)
	c.tableHint = hint
	c.EmitSection(n, QueryRefAlias)
	c.Emit(c.translator.Quote(c.queryAlias(n)))
}

func (c *Compiler) VisitJoinedTable(n *nodes.JoinedTable) {
	c.Visit(n.Left)
	c.EmitSection(n, JoinEntry)
	c.Emit(c.translator.JoinType(n))
	c.Visit(n.Right)
	if on := n.Condition(); on != nil {
		c.EmitSection(n, JoinOn)
		c.Visit(on)
	}
	c.EmitSection(n, JoinExit)
}

func (c *Compiler) VisitColumn(n *nodes.Column) {
	name := "*"
	if !n.IsStar() {
		name = c.translator.Quote(n.Name)
	}
	if q := c.Qualifier(n.Table); q != "" {
		name = q + "." + name
	}
	c.Emit(name)
}

func (c *Compiler) VisitColumnRef(n *nodes.ColumnRef) {
	c.Visit(n.Expression)
	if n.Alias != "" {
		c.EmitSection(n, ColumnRefAlias)
		c.Emit(c.translator.Quote(n.Alias))
	}
}

func (c *Compiler) VisitLiteral(n *nodes.Literal) {
	c.Emit(c.translator.Literal(c.ctx, n.Value))
}

func (c *Compiler) VisitNull(*nodes.Null) { c.Emit("NULL") }

func (c *Compiler) VisitDefault(*nodes.Default) { c.Emit("DEFAULT") }

func (c *Compiler) VisitParameter(n *nodes.Parameter) { c.Emit(c.ctx.Bind(n)) }

func (c *Compiler) VisitNative(n *nodes.Native) { c.Emit(n.Text) }

func (c *Compiler) VisitCursor(n *nodes.Cursor) {
	c.EmitSection(n, CursorEntry)
	c.Emit(n.Name)
}

func (c *Compiler) VisitNextValue(n *nodes.NextValue) { c.EmitSection(n, NextValueEntry) }

func (c *Compiler) VisitBinary(n *nodes.Binary) {
	c.EmitSection(n, BinaryEntry)
	c.Visit(n.Left)
	c.Emit(c.translator.OperatorName(n.NodeType()))
	c.Visit(n.Right)
	c.EmitSection(n, BinaryExit)
}

func (c *Compiler) VisitUnary(n *nodes.Unary) {
	op := c.translator.OperatorName(n.NodeType())
	c.EmitSection(n, UnaryEntry)
	if n.IsPostfix() {
		c.Visit(n.Operand)
		c.Emit(op)
	} else {
		c.Emit(op)
		if IsOperatorToken(op) {
			c.Glue()
		}
		c.Visit(n.Operand)
	}
	c.EmitSection(n, UnaryExit)
}

func (c *Compiler) VisitBetween(n *nodes.Between) {
	c.EmitSection(n, BetweenEntry)
	c.Visit(n.Expression)
	c.EmitSection(n, BetweenBetween)
	c.Visit(n.Low)
	c.EmitSection(n, BetweenAnd)
	c.Visit(n.High)
	c.EmitSection(n, BetweenExit)
}

func (c *Compiler) VisitLike(n *nodes.Like) {
	c.EmitSection(n, LikeEntry)
	c.Visit(n.Expression)
	c.EmitSection(n, LikeLike)
	c.Visit(n.Pattern)
	if n.Escape != nil {
		c.EmitSection(n, LikeEscape)
		c.Visit(n.Escape)
	}
	c.EmitSection(n, LikeExit)
}

func (c *Compiler) VisitRow(n *nodes.Row) {
	c.EmitSection(n, RowEntry)
	VisitList(c, n.Items)
	c.EmitSection(n, RowExit)
}

func (c *Compiler) VisitSubQuery(n *nodes.SubQuery) {
	c.EmitSection(n, SubQueryEntry)
	c.Visit(n.Query)
	c.EmitSection(n, SubQueryExit)
}

// IsOperatorToken reports whether a function or operator spelling is a
// symbol such as "||" or "-" rather than a name.
func IsOperatorToken(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsFunc(name, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '(' || r == ' '
	})
}

// Arguments returns the arguments of n. A call whose Arguments were
// changed to a count the function does not take panics with the
// ArgumentError, which Compile returns.
func Arguments(n *nodes.FunctionCall) []nodes.Expression {
	if err := n.Function.CheckArity(len(n.Arguments)); err != nil {
		panic(err)
	}
	return n.Arguments
}

// VisitFunctionCall writes name(args). Functions spelled as an operator
// are written infix, or prefix when they take one argument.
func (c *Compiler) VisitFunctionCall(n *nodes.FunctionCall) {
	args := Arguments(n)
	name := c.translator.FunctionName(n.Function)
	if IsOperatorToken(name) && len(args) > 0 {
		c.Emit("(")
		if len(args) == 1 {
			c.Emit(name)
			c.Glue()
			c.Visit(args[0])
		} else {
			for i, a := range args {
				if i > 0 {
					c.Emit(name)
				}
				c.Visit(a)
			}
		}
		c.Emit(")")
		return
	}
	c.EmitSection(n, FunctionCallEntry)
	for i, a := range args {
		if i == 0 {
			c.EmitSection(n, FunctionCallArgumentEntry)
		} else {
			c.EmitSection(n, FunctionCallArgumentDelimiter)
		}
		c.Visit(a)
	}
	c.EmitSection(n, FunctionCallExit)
}

func (c *Compiler) VisitUserFunctionCall(n *nodes.UserFunctionCall) {
	c.Emit(c.translator.Quote(n.Name) + "(")
	for i, a := range n.Arguments {
		if i > 0 {
			c.Emit(c.translator.settings.ArgumentDelimiter)
		}
		c.Visit(a)
	}
	c.Emit(")")
}

func (c *Compiler) VisitAggregate(n *nodes.Aggregate) {
	c.EmitSection(n, AggregateEntry)
	c.Visit(n.Expression)
	c.EmitSection(n, AggregateExit)
}

func (c *Compiler) VisitCast(n *nodes.Cast) {
	c.EmitSection(n, CastEntry)
	c.Visit(n.Operand)
	c.EmitSection(n, CastExit)
}

func (c *Compiler) VisitExtract(n *nodes.Extract) {
	c.EmitSection(n, ExtractEntry)
	if n.IsInterval() {
		c.Emit(c.translator.IntervalPart(n.IntervalPart))
	} else {
		c.Emit(c.translator.DateTimePart(n.DateTimePart))
	}
	c.EmitSection(n, ExtractFrom)
	c.Visit(n.Operand)
	c.EmitSection(n, ExtractExit)
}

func (c *Compiler) VisitTrim(n *nodes.Trim) {
	c.EmitSection(n, TrimEntry)
	c.Emit(c.translator.TrimType(n.TrimType))
	c.EmitSection(n, TrimCharacters)
	c.EmitSection(n, TrimFrom)
	c.Visit(n.Expression)
	c.EmitSection(n, TrimExit)
}

func (c *Compiler) VisitCase(n *nodes.Case) {
	c.EmitSection(n, CaseEntry)
	c.Visit(n.Value)
	for _, w := range n.Cases {
		c.EmitSection(n, CaseWhen)
		c.Visit(w.When)
		c.EmitSection(n, CaseThen)
		c.Visit(w.Then)
	}
	if n.Else != nil {
		c.EmitSection(n, CaseElse)
		c.Visit(n.Else)
	}
	c.EmitSection(n, CaseExit)
}

func (c *Compiler) VisitOrder(n *nodes.Order) {
	c.Visit(n.Expression)
	c.EmitSection(n, OrderExit)
}
