package compiler

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bawdo/sqldom/internal/quoting"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

// SQL spellings of operators, indexed by node type. Empty entries are not
// supported by the standard layer.
var standardOperators = [...]string{
	nodes.OpAdd:                   "+",
	nodes.OpSubtract:              "-",
	nodes.OpMultiply:              "*",
	nodes.OpDivide:                "/",
	nodes.OpModulo:                "%",
	nodes.OpConcat:                "||",
	nodes.OpBitAnd:                "&",
	nodes.OpBitOr:                 "|",
	nodes.OpBitXor:                "^",
	nodes.OpEquals:                "=",
	nodes.OpNotEquals:             "<>",
	nodes.OpGreaterThan:           ">",
	nodes.OpGreaterThanOrEquals:   ">=",
	nodes.OpLessThan:              "<",
	nodes.OpLessThanOrEquals:      "<=",
	nodes.OpAnd:                   "AND",
	nodes.OpOr:                    "OR",
	nodes.OpIn:                    "IN",
	nodes.OpNotIn:                 "NOT IN",
	nodes.OpOverlaps:              "OVERLAPS",
	nodes.OpDateTimePlusInterval:  "+",
	nodes.OpDateTimeMinusInterval: "-",
	nodes.OpDateTimeMinusDateTime: "-",
	nodes.OpNot:                   "NOT",
	nodes.OpNegate:                "-",
	nodes.OpBitNot:                "~",
	nodes.OpIsNull:                "IS NULL",
	nodes.OpIsNotNull:             "IS NOT NULL",
	nodes.OpExists:                "EXISTS",
	nodes.OpAll:                   "ALL",
	nodes.OpAny:                   "ANY",
	nodes.OpCount:                 "COUNT",
	nodes.OpSum:                   "SUM",
	nodes.OpAvg:                   "AVG",
	nodes.OpMin:                   "MIN",
	nodes.OpMax:                   "MAX",
	nodes.OpUnion:                 "UNION",
	nodes.OpUnionAll:              "UNION ALL",
	nodes.OpIntersect:             "INTERSECT",
	nodes.OpExcept:                "EXCEPT",
}

// SQL-2003 function names. Interval and date arithmetic has no portable
// spelling and is left to the dialects.
var standardFunctions = [...]string{
	nodes.FuncAbs:              "ABS",
	nodes.FuncAcos:             "ACOS",
	nodes.FuncAsin:             "ASIN",
	nodes.FuncAtan:             "ATAN",
	nodes.FuncAtan2:            "ATAN2",
	nodes.FuncCeiling:          "CEILING",
	nodes.FuncCoalesce:         "COALESCE",
	nodes.FuncConcat:           "||",
	nodes.FuncCos:              "COS",
	nodes.FuncCot:              "COT",
	nodes.FuncDegrees:          "DEGREES",
	nodes.FuncExp:              "EXP",
	nodes.FuncFloor:            "FLOOR",
	nodes.FuncLog:              "LN",
	nodes.FuncLog10:            "LOG10",
	nodes.FuncPi:               "PI",
	nodes.FuncPower:            "POWER",
	nodes.FuncRadians:          "RADIANS",
	nodes.FuncRand:             "RAND",
	nodes.FuncRound:            "ROUND",
	nodes.FuncSign:             "SIGN",
	nodes.FuncSin:              "SIN",
	nodes.FuncSqrt:             "SQRT",
	nodes.FuncTan:              "TAN",
	nodes.FuncTruncate:         "TRUNCATE",
	nodes.FuncCharLength:       "CHAR_LENGTH",
	nodes.FuncBinaryLength:     "OCTET_LENGTH",
	nodes.FuncLower:            "LOWER",
	nodes.FuncUpper:            "UPPER",
	nodes.FuncNullIf:           "NULLIF",
	nodes.FuncPadLeft:          "LPAD",
	nodes.FuncPadRight:         "RPAD",
	nodes.FuncPosition:         "POSITION",
	nodes.FuncReplace:          "REPLACE",
	nodes.FuncSubstring:        "SUBSTRING",
	nodes.FuncCurrentDate:      "CURRENT_DATE",
	nodes.FuncCurrentTime:      "CURRENT_TIME",
	nodes.FuncCurrentTimestamp: "CURRENT_TIMESTAMP",
	nodes.FuncCurrentUser:      "CURRENT_USER",
	nodes.FuncSessionUser:      "SESSION_USER",
	nodes.FuncSystemUser:       "SYSTEM_USER",
	nodes.FuncIntervalAbs:      "ABS",
	nodes.FuncIntervalNegate:   "-",
}

var dateTimeParts = [...]string{
	nodes.DateTimePartYear:   "YEAR",
	nodes.DateTimePartMonth:  "MONTH",
	nodes.DateTimePartDay:    "DAY",
	nodes.DateTimePartHour:   "HOUR",
	nodes.DateTimePartMinute: "MINUTE",
	nodes.DateTimePartSecond: "SECOND",
}

var intervalParts = [...]string{
	nodes.IntervalPartDay:    "DAY",
	nodes.IntervalPartHour:   "HOUR",
	nodes.IntervalPartMinute: "MINUTE",
	nodes.IntervalPartSecond: "SECOND",
}

var trimTypes = [...]string{
	nodes.TrimBoth:     "BOTH",
	nodes.TrimLeading:  "LEADING",
	nodes.TrimTrailing: "TRAILING",
}

var referentialActions = [...]string{
	model.NoAction:   "NO ACTION",
	model.Restrict:   "RESTRICT",
	model.Cascade:    "CASCADE",
	model.SetNull:    "SET NULL",
	model.SetDefault: "SET DEFAULT",
}

// lookup returns names[i] or rejects the value when it has no spelling.
func lookup[I ~int](names []string, i I) string {
	if i >= 0 && int(i) < len(names) && names[i] != "" {
		return names[i]
	}
	panic(sqlerr.NotSupported(fmt.Sprint(i)))
}

// Standard returns the SQL-2003 base layer every dialect chain starts
// from. It defines a rule for every section and every hook.
func Standard() *Layer {
	l := NewLayer("standard")
	l.Initialize = func(s *Settings) {
		*s = Settings{
			Name:                  "standard",
			Quote:                 quoting.DoubleQuotes,
			ParameterStyle:        ParameterNamed,
			ParameterPrefix:       "@",
			BatchItemDelimiter:    ";\n",
			DdlStatementDelimiter: ";",
			ArgumentDelimiter:     ",",
			ColumnDelimiter:       ",",
			DateTimeFormat:        "2006-01-02 15:04:05.000",
			TimeSpanFormat:        "%s%d",
			DecimalSeparator:      ".",
			Paging:                PagingLimitOffset,
			Lock:                  LockClause,
		}
	}
	l.FunctionName = func(_ *Translator, _ *Context, f nodes.FunctionType, _ Fragment) string {
		return lookup(standardFunctions[:], f)
	}
	l.OperatorName = func(_ *Translator, _ *Context, op nodes.NodeType, _ Fragment) string {
		return lookup(standardOperators[:], op)
	}
	l.Literal = standardLiteral
	l.TypeName = standardTypeName
	l.LockHint = standardLockHint
	l.JoinType = func(_ *Translator, _ *Context, j *nodes.JoinedTable, _ Fragment) string {
		switch j.JoinType {
		case nodes.CrossApply, nodes.OuterApply:
			panic(sqlerr.NotSupported(j.JoinType.String()))
		}
		return j.JoinType.String()
	}
	l.TrimType = func(_ *Translator, _ *Context, tt nodes.TrimType, _ Fragment) string {
		return lookup(trimTypes[:], tt)
	}
	l.DateTimePart = func(_ *Translator, _ *Context, p nodes.DateTimePart, _ Fragment) string {
		return lookup(dateTimeParts[:], p)
	}
	l.IntervalPart = func(_ *Translator, _ *Context, p nodes.IntervalPart, _ Fragment) string {
		return lookup(intervalParts[:], p)
	}
	l.ReferentialAction = func(_ *Translator, _ *Context, a model.ReferentialAction, _ Fragment) string {
		return lookup(referentialActions[:], a)
	}
	l.ObjectName = standardObjectName
	l.GoTypeName = func(t *Translator, _ *Context, code types.Code, _ Fragment) string {
		return t.TypeName(types.Of(types.SqlTypeOf(code)))
	}

	// queries
	l.Text("SELECT", SelectEntry).
		Text("DISTINCT", SelectDistinct).
		Text("FROM", SelectFrom).
		Text("WHERE", SelectWhere).
		Text("GROUP BY", SelectGroupBy).
		Text("HAVING", SelectHaving).
		Text("ORDER BY", SelectOrderBy).
		Text("", SelectExit).
		Text("(", QueryExpressionEntry).
		Text(")", QueryExpressionExit)
	l.On(pagingRule, SelectLimit, SelectLimitEnd, SelectOffset, SelectOffsetEnd)
	l.On(func(t *Translator, _ *Context, n any, _ Section, _ Fragment) string {
		if s, ok := n.(*nodes.Select); ok {
			return t.LockHint(s.Lock)
		}
		return ""
	}, SelectLock)

	// dml
	l.Text("INSERT INTO", InsertEntry).
		Text("(", InsertColumnsEntry).
		Text(")", InsertColumnsExit).
		Text("VALUES", InsertValuesEntry).
		Text("", InsertValuesExit).
		Text("DEFAULT VALUES", InsertDefaultValues).
		Text("", InsertExit).
		Text("UPDATE", UpdateEntry).
		Text("SET", UpdateSet).
		Text("FROM", UpdateFrom).
		Text("WHERE", UpdateWhere).
		Text("", UpdateExit).
		Text("DELETE FROM", DeleteEntry).
		Text("WHERE", DeleteWhere).
		Text("", DeleteExit).
		Text("", BatchEntry).
		Text("", BatchExit)
	l.On(Unsupported("Limit"), UpdateLimit, DeleteLimit)
	l.On(Unsupported("DeleteFrom"), DeleteFrom)

	// table sources and expressions
	l.Text("", JoinEntry).
		Text("ON", JoinOn).
		Text("", JoinExit).
		Text("AS", TableRefAlias).
		Text("(", QueryRefEntry).
		Text(")", QueryRefExit).
		Text("AS", QueryRefAlias).
		Text("AS", ColumnRefAlias).
		Text("CAST(", CastEntry).
		Text("EXTRACT(", ExtractEntry).
		Text("FROM", ExtractFrom).
		Text(")", ExtractExit).
		Text("TRIM(", TrimEntry).
		Text("FROM", TrimFrom).
		Text(")", TrimExit).
		Text("CASE", CaseEntry).
		Text("WHEN", CaseWhen).
		Text("THEN", CaseThen).
		Text("ELSE", CaseElse).
		Text("END", CaseExit).
		Text("(", BetweenEntry).
		Text("AND", BetweenAnd).
		Text(")", BetweenExit).
		Text("(", LikeEntry).
		Text("ESCAPE", LikeEscape).
		Text(")", LikeExit).
		Text("(", BinaryEntry).
		Text(")", BinaryExit).
		Text("(", UnaryEntry).
		Text(")", UnaryExit).
		Text("(", RowEntry).
		Text(")", RowExit).
		Text("(", SubQueryEntry).
		Text(")", SubQueryExit).
		Text(")", AggregateExit).
		Text("CURRENT OF", CursorEntry).
		Text("", FunctionCallArgumentEntry)
	l.On(Handle(func(t *Translator, _ *Context, n *nodes.FunctionCall, _ Section, _ Fragment) string {
		name := t.FunctionName(n.Function)
		if n.Function.IsNiladic() {
			return name
		}
		return name + "("
	}), FunctionCallEntry)
	l.On(func(t *Translator, _ *Context, n any, _ Section, _ Fragment) string {
		if fc, ok := n.(*nodes.FunctionCall); ok && fc.Function == nodes.FuncPosition {
			return "IN"
		}
		return t.settings.ArgumentDelimiter
	}, FunctionCallArgumentDelimiter)
	l.On(func(_ *Translator, _ *Context, n any, _ Section, _ Fragment) string {
		if fc, ok := n.(*nodes.FunctionCall); ok && fc.Function.IsNiladic() {
			return ""
		}
		return ")"
	}, FunctionCallExit)
	l.On(Handle(func(t *Translator, _ *Context, n *nodes.Cast, _ Section, _ Fragment) string {
		return "AS " + t.TypeName(n.Type) + ")"
	}), CastExit)
	l.On(Handle(func(t *Translator, _ *Context, n *nodes.Trim, _ Section, _ Fragment) string {
		if n.Characters == "" {
			return ""
		}
		return t.QuoteString(n.Characters)
	}), TrimCharacters)
	l.On(Handle(func(_ *Translator, _ *Context, n *nodes.Between, _ Section, _ Fragment) string {
		if n.NodeType() == nodes.NodeNotBetween {
			return "NOT BETWEEN"
		}
		return "BETWEEN"
	}), BetweenBetween)
	l.On(Handle(func(_ *Translator, _ *Context, n *nodes.Like, _ Section, _ Fragment) string {
		if n.Not {
			return "NOT LIKE"
		}
		return "LIKE"
	}), LikeLike)
	l.On(Handle(func(t *Translator, _ *Context, n *nodes.Aggregate, _ Section, _ Fragment) string {
		text := t.OperatorName(n.NodeType()) + "("
		if n.Distinct {
			text += "DISTINCT"
		}
		return text
	}), AggregateEntry)
	l.On(Handle(func(t *Translator, c *Context, n *nodes.NextValue, _ Section, _ Fragment) string {
		return "NEXT VALUE FOR " + t.ObjectName(c, n.Sequence)
	}), NextValueEntry)
	l.On(func(_ *Translator, _ *Context, n any, _ Section, _ Fragment) string {
		var asc bool
		switch o := n.(type) {
		case *nodes.Order:
			asc = o.Ascending
		case model.IndexColumn:
			asc = o.Ascending
		}
		if asc {
			return "ASC"
		}
		return "DESC"
	}, OrderExit)

	standardTableRules(l)
	standardAlterRules(l)
	standardObjectRules(l)
	return l
}

// pagingRule writes the keywords around LIMIT and OFFSET values for the
// configured paging style.
func pagingRule(t *Translator, _ *Context, _ any, s Section, _ Fragment) string {
	type keywords struct{ limit, limitEnd, offset, offsetEnd string }
	var k keywords
	switch t.settings.Paging {
	case PagingLimitOffset:
		k = keywords{"LIMIT", "", "OFFSET", ""}
	case PagingTop:
		if s == SelectOffset || s == SelectOffsetEnd {
			panic(sqlerr.NotSupported("Offset"))
		}
		k = keywords{limit: "TOP (", limitEnd: ")"}
	case PagingOffsetFetch:
		k = keywords{"FETCH NEXT", "ROWS ONLY", "OFFSET", "ROWS"}
	case PagingFirstSkip:
		k = keywords{"FIRST (", ")", "SKIP (", ")"}
	}
	switch s {
	case SelectLimit:
		return k.limit
	case SelectLimitEnd:
		return k.limitEnd
	case SelectOffset:
		return k.offset
	case SelectOffsetEnd:
		return k.offsetEnd
	}
	panic(sqlerr.OutOfRange(s))
}

func standardTableRules(l *Layer) {
	l.On(Handle(func(t *Translator, c *Context, n *nodes.CreateTable, _ Section, _ Fragment) string {
		if n.Table.Temporary {
			return "CREATE GLOBAL TEMPORARY TABLE " + t.ObjectName(c, n.Table)
		}
		return "CREATE TABLE " + t.ObjectName(c, n.Table)
	}), CreateTableEntry)
	l.Text("(", CreateTableColumnsEntry).
		Text(")", CreateTableColumnsExit).
		Text("", CreateTableExit)
	l.On(func(t *Translator, _ *Context, _ any, _ Section, _ Fragment) string {
		return t.settings.ColumnDelimiter
	}, CreateTableItemDelimiter)

	l.On(func(t *Translator, _ *Context, n any, _ Section, _ Fragment) string {
		return t.Quote(n.(model.Node).NodeDbName())
	}, TableColumnEntry)
	l.On(Handle(func(t *Translator, _ *Context, col *model.TableColumn, _ Section, _ Fragment) string {
		return t.TypeName(col.DataType)
	}), TableColumnType)
	l.On(Handle(func(_ *Translator, _ *Context, col *model.TableColumn, _ Section, _ Fragment) string {
		if HasSequenceOptions(col.SequenceDescriptor) {
			return "GENERATED BY DEFAULT AS IDENTITY ("
		}
		return "GENERATED BY DEFAULT AS IDENTITY"
	}), TableColumnGeneratedEntry)
	l.On(Handle(func(_ *Translator, _ *Context, col *model.TableColumn, _ Section, _ Fragment) string {
		if HasSequenceOptions(col.SequenceDescriptor) {
			return ")"
		}
		return ""
	}), TableColumnGeneratedExit)
	l.Text("DEFAULT", TableColumnDefault)
	l.On(func(t *Translator, _ *Context, n any, _ Section, _ Fragment) string {
		if coll := CollationOf(n); coll != nil {
			return "COLLATE " + t.Quote(coll.NodeDbName())
		}
		return ""
	}, TableColumnCollate)
	l.On(Handle(func(_ *Translator, _ *Context, col *model.TableColumn, _ Section, _ Fragment) string {
		if col.IsNullable {
			return "NULL"
		}
		return "NOT NULL"
	}), TableColumnNullable)
	l.Text("", TableColumnExit)

	l.On(sequenceRule, SequenceStartValue, SequenceIncrement, SequenceMinValue, SequenceMaxValue, SequenceCycle)

	l.On(func(t *Translator, _ *Context, n any, _ Section, _ Fragment) string {
		con := n.(model.Constraint)
		text := ConstraintKeyword(con) + " ("
		if name := con.NodeDbName(); name != "" {
			text = "CONSTRAINT " + t.Quote(name) + " " + text
		}
		return text
	}, ConstraintEntry)
	l.On(Handle(func(t *Translator, c *Context, fk *model.ForeignKey, _ Section, _ Fragment) string {
		return ") REFERENCES " + t.ObjectName(c, fk.ReferencedTable) + " ("
	}), ConstraintReferencedTable)
	l.On(func(t *Translator, _ *Context, n any, _ Section, _ Fragment) string {
		fk, ok := n.(*model.ForeignKey)
		if !ok {
			return ")"
		}
		text := ")"
		if fk.OnDelete != model.NoAction {
			text += " ON DELETE " + t.ReferentialAction(fk.OnDelete)
		}
		if fk.OnUpdate != model.NoAction {
			text += " ON UPDATE " + t.ReferentialAction(fk.OnUpdate)
		}
		return text
	}, ConstraintExit)
}

func standardAlterRules(l *Layer) {
	l.On(Handle(func(t *Translator, c *Context, n *nodes.AlterTable, _ Section, _ Fragment) string {
		return "ALTER TABLE " + t.ObjectName(c, n.Table)
	}), AlterTableEntry)
	l.Text("ADD COLUMN", AlterTableAddColumn).
		Text("DROP COLUMN", AlterTableDropColumn).
		Text("ADD", AlterTableAddConstraint).
		Text("DROP CONSTRAINT", AlterTableDropConstraint).
		Text("", AlterTableExit)
	l.On(Handle(func(t *Translator, _ *Context, n *nodes.AlterTable, _ Section, _ Fragment) string {
		return "ALTER COLUMN " + t.Quote(ActionColumn(n.Action).NodeDbName()) + " SET DEFAULT"
	}), AlterTableSetDefault)
	l.On(Handle(func(t *Translator, _ *Context, n *nodes.AlterTable, _ Section, _ Fragment) string {
		return "ALTER COLUMN " + t.Quote(ActionColumn(n.Action).NodeDbName()) + " DROP DEFAULT"
	}), AlterTableDropDefault)
	l.On(Handle(func(t *Translator, _ *Context, n *nodes.AlterTable, _ Section, _ Fragment) string {
		a := n.Action.(nodes.RenameColumn)
		return "RENAME COLUMN " + t.Quote(a.Column.NodeDbName()) + " TO " + t.Quote(a.NewName)
	}), AlterTableRenameColumn)
	l.On(dropBehavior, AlterTableDropBehavior, DropBehavior)

	l.On(Handle(func(t *Translator, c *Context, n *nodes.AlterDomain, _ Section, _ Fragment) string {
		return "ALTER DOMAIN " + t.ObjectName(c, n.Domain)
	}), AlterDomainEntry)
	l.Text("ADD", AlterDomainAddConstraint).
		Text("DROP CONSTRAINT", AlterDomainDropConstraint).
		Text("SET DEFAULT", AlterDomainSetDefault).
		Text("DROP DEFAULT", AlterDomainDropDefault).
		Text("", AlterDomainExit)
}

func standardObjectRules(l *Layer) {
	l.On(Handle(func(t *Translator, c *Context, n *nodes.CreateView, _ Section, _ Fragment) string {
		return "CREATE VIEW " + t.ObjectName(c, n.View)
	}), CreateViewEntry)
	l.On(Handle(func(t *Translator, _ *Context, n *nodes.CreateView, _ Section, _ Fragment) string {
		if len(n.View.Columns) == 0 {
			return ""
		}
		quoted := make([]string, len(n.View.Columns))
		for i, name := range n.View.Columns {
			quoted[i] = t.Quote(name)
		}
		return "(" + strings.Join(quoted, t.settings.ColumnDelimiter+" ") + ")"
	}), CreateViewColumns)
	l.Text("AS", CreateViewAs).
		Text("", CreateViewExit)

	l.On(Handle(func(t *Translator, c *Context, n *nodes.CreateIndex, _ Section, _ Fragment) string {
		text := "CREATE INDEX "
		if n.Index.IsUnique {
			text = "CREATE UNIQUE INDEX "
		}
		return text + t.Quote(n.Index.NodeDbName()) + " ON " + t.ObjectName(c, n.Index.Table)
	}), CreateIndexEntry)
	l.Text("(", CreateIndexColumnsEntry).
		Text(")", CreateIndexColumnsExit).
		Text("WHERE", CreateIndexWhere).
		Text("", CreateIndexExit)
	l.On(Handle(func(t *Translator, _ *Context, n *nodes.DropIndex, _ Section, _ Fragment) string {
		return "DROP INDEX " + t.QuoteQualified(n.Index.Table.Schema.NodeDbName(), n.Index.NodeDbName())
	}), DropIndexEntry)

	l.On(Handle(func(t *Translator, c *Context, n *nodes.DropTable, _ Section, _ Fragment) string {
		return "DROP TABLE " + t.ObjectName(c, n.Table)
	}), DropTableEntry)
	l.On(Handle(func(t *Translator, c *Context, n *nodes.DropView, _ Section, _ Fragment) string {
		return "DROP VIEW " + t.ObjectName(c, n.View)
	}), DropViewEntry)
	l.On(Handle(func(t *Translator, c *Context, n *nodes.CreateSchema, _ Section, _ Fragment) string {
		return "CREATE SCHEMA " + t.ObjectName(c, n.Schema)
	}), CreateSchemaEntry)
	l.On(Handle(func(t *Translator, c *Context, n *nodes.DropSchema, _ Section, _ Fragment) string {
		return "DROP SCHEMA " + t.ObjectName(c, n.Schema)
	}), DropSchemaEntry)

	l.On(Handle(func(t *Translator, c *Context, n *nodes.CreateSequence, _ Section, _ Fragment) string {
		return "CREATE SEQUENCE " + t.ObjectName(c, n.Sequence)
	}), CreateSequenceEntry)
	l.Text("", CreateSequenceExit)
	l.On(Handle(func(t *Translator, c *Context, n *nodes.AlterSequence, _ Section, _ Fragment) string {
		return "ALTER SEQUENCE " + t.ObjectName(c, n.Sequence)
	}), AlterSequenceEntry)
	l.On(Handle(func(_ *Translator, _ *Context, n *nodes.AlterSequence, _ Section, _ Fragment) string {
		if n.RestartValue == nil {
			return ""
		}
		return "RESTART WITH " + strconv.FormatInt(*n.RestartValue, 10)
	}), AlterSequenceExit)
	l.On(Handle(func(t *Translator, c *Context, n *nodes.DropSequence, _ Section, _ Fragment) string {
		return "DROP SEQUENCE " + t.ObjectName(c, n.Sequence)
	}), DropSequenceEntry)

	l.On(Handle(func(t *Translator, c *Context, n *nodes.CreateDomain, _ Section, _ Fragment) string {
		return "CREATE DOMAIN " + t.ObjectName(c, n.Domain) + " AS " + t.TypeName(n.Domain.DataType)
	}), CreateDomainEntry)
	l.Text("", CreateDomainExit)
	l.On(Handle(func(t *Translator, c *Context, n *nodes.DropDomain, _ Section, _ Fragment) string {
		return "DROP DOMAIN " + t.ObjectName(c, n.Domain)
	}), DropDomainEntry)
}

func sequenceRule(_ *Translator, _ *Context, n any, s Section, _ Fragment) string {
	d, ok := n.(*model.SequenceDescriptor)
	if !ok || d == nil {
		return ""
	}
	return SequenceOption(d, s)
}

// SequenceOption writes the ANSI spelling of one sequence option section,
// or "" when the option is unset.
func SequenceOption(d *model.SequenceDescriptor, s Section) string {
	switch s {
	case SequenceStartValue:
		return optionalInt("START WITH ", d.StartValue)
	case SequenceIncrement:
		return optionalInt("INCREMENT BY ", d.Increment)
	case SequenceMinValue:
		return optionalInt("MINVALUE ", d.MinValue)
	case SequenceMaxValue:
		return optionalInt("MAXVALUE ", d.MaxValue)
	case SequenceCycle:
		if d.IsCyclic == nil {
			return ""
		}
		if *d.IsCyclic {
			return "CYCLE"
		}
		return "NO CYCLE"
	}
	panic(sqlerr.OutOfRange(s))
}

func optionalInt(prefix string, v *int64) string {
	if v == nil {
		return ""
	}
	return prefix + strconv.FormatInt(*v, 10)
}

func dropBehavior(_ *Translator, _ *Context, n any, _ Section, _ Fragment) string {
	if IsCascade(n) {
		return "CASCADE"
	}
	return ""
}

// IsCascade reports whether a drop statement or drop action asks for
// CASCADE.
func IsCascade(n any) bool {
	switch x := n.(type) {
	case *nodes.DropTable:
		return x.Cascade
	case *nodes.DropView:
		return x.Cascade
	case *nodes.DropSequence:
		return x.Cascade
	case *nodes.DropSchema:
		return x.Cascade
	case *nodes.DropDomain:
		return x.Cascade
	case *nodes.AlterTable:
		return IsCascade(x.Action)
	case *nodes.AlterDomain:
		return IsCascade(x.Action)
	case nodes.DropColumn:
		return x.Cascade
	case nodes.DropConstraint:
		return x.Cascade
	}
	return false
}

// ActionColumn returns the column an ALTER TABLE action applies to, or nil.
func ActionColumn(a nodes.Action) *model.TableColumn {
	switch x := a.(type) {
	case nodes.AddColumn:
		return x.Column
	case nodes.DropColumn:
		return x.Column
	case nodes.SetDefault:
		return x.Column
	case nodes.DropDefault:
		return x.Column
	case nodes.RenameColumn:
		return x.Column
	}
	return nil
}

// ConstraintKeyword returns the constraint kind as written in DDL.
func ConstraintKeyword(c model.Constraint) string {
	switch c.(type) {
	case *model.PrimaryKey:
		return "PRIMARY KEY"
	case *model.UniqueConstraint:
		return "UNIQUE"
	case *model.ForeignKey:
		return "FOREIGN KEY"
	case *model.CheckConstraint, *model.DomainConstraint:
		return "CHECK"
	}
	panic(sqlerr.NotSupported(fmt.Sprintf("%T", c)))
}

// CollationOf returns the collation of a column or domain.
func CollationOf(n any) *model.Collation {
	switch x := n.(type) {
	case *model.TableColumn:
		return x.Collation
	case *model.Domain:
		return x.Collation
	}
	return nil
}

// HasSequenceOptions reports whether any descriptor option is set.
func HasSequenceOptions(d *model.SequenceDescriptor) bool {
	return d != nil && (d.StartValue != nil || d.Increment != nil ||
		d.MinValue != nil || d.MaxValue != nil || d.IsCyclic != nil)
}

// SchemaOf returns the schema that owns a schema object, or nil.
func SchemaOf(n model.Node) *model.Schema {
	switch o := n.(type) {
	case *model.Table:
		return o.Schema
	case *model.View:
		return o.Schema
	case *model.Sequence:
		return o.Schema
	case *model.Domain:
		return o.Schema
	case *model.Collation:
		return o.Schema
	}
	return nil
}

func standardObjectName(t *Translator, c *Context, n model.Node, _ Fragment) string {
	if s, ok := n.(*model.Schema); ok {
		return t.Quote(s.NodeDbName())
	}
	schema := SchemaOf(n)
	if schema == nil {
		return t.Quote(n.NodeDbName())
	}
	var db string
	if c != nil && c.Configuration.DatabaseQualifiedObjects && schema.Catalog != nil {
		db = schema.Catalog.NodeDbName()
	}
	return t.QuoteQualified(db, schema.NodeDbName(), n.NodeDbName())
}

// SizedType appends the length or precision facets of v to name.
func SizedType(name string, v types.ValueType) string {
	switch {
	case v.Length > 0:
		return name + "(" + strconv.Itoa(v.Length) + ")"
	case v.Precision > 0 && v.Scale > 0:
		return name + "(" + strconv.Itoa(v.Precision) + "," + strconv.Itoa(v.Scale) + ")"
	case v.Precision > 0:
		return name + "(" + strconv.Itoa(v.Precision) + ")"
	}
	return name
}

func standardTypeName(_ *Translator, _ *Context, v types.ValueType, _ Fragment) string {
	if v.TypeName != "" {
		return v.TypeName
	}
	switch v.Type {
	case types.Boolean:
		return "BOOLEAN"
	case types.Int8, types.UInt8, types.Int16:
		return "SMALLINT"
	case types.UInt16, types.Int32:
		return "INTEGER"
	case types.UInt32, types.Int64:
		return "BIGINT"
	case types.UInt64:
		return "DECIMAL(20)"
	case types.Decimal:
		return SizedType("DECIMAL", v)
	case types.Float:
		return "REAL"
	case types.Double:
		return "DOUBLE PRECISION"
	case types.DateTime:
		return "TIMESTAMP"
	case types.DateTimeOffset:
		return "TIMESTAMP WITH TIME ZONE"
	case types.Interval:
		return "INTERVAL DAY TO SECOND"
	case types.Char:
		return SizedType("CHAR", v)
	case types.VarChar:
		return SizedType("VARCHAR", v)
	case types.VarCharMax:
		return "CLOB"
	case types.Binary:
		return SizedType("BINARY", v)
	case types.VarBinary:
		return SizedType("VARBINARY", v)
	case types.VarBinaryMax:
		return "BLOB"
	case types.Guid:
		return "CHAR(36)"
	}
	panic(sqlerr.NotSupported(v.String()))
}

func standardLockHint(_ *Translator, _ *Context, l nodes.LockType, _ Fragment) string {
	if l == nodes.LockEmpty {
		return ""
	}
	text := "FOR UPDATE"
	if l.Supports(nodes.LockShared) && !l.Supports(nodes.LockUpdate) && !l.Supports(nodes.LockExclusive) {
		text = "FOR SHARE"
	}
	switch {
	case l.Supports(nodes.LockSkipLocked):
		text += " SKIP LOCKED"
	case l.Supports(nodes.LockThrowIfLocked):
		text += " NOWAIT"
	}
	return text
}

func standardLiteral(t *Translator, _ *Context, v any, _ Fragment) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return t.QuoteString(x)
	case []byte:
		return types.HexLiteral("X'", x, "'")
	case time.Time:
		return "'" + x.Format(t.settings.DateTimeFormat) + "'"
	case time.Duration:
		return IntervalLiteral(x)
	case uuid.UUID:
		return t.QuoteString(x.String())
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case *big.Rat:
		return x.FloatString(ratDigits(x))
	case *big.Float:
		return x.Text('f', -1)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	}
	panic(sqlerr.NotSupported(fmt.Sprintf("%T literal", v)))
}

// ratDigits returns the number of fractional digits that print r
// exactly, or 18 when its expansion does not terminate.
func ratDigits(r *big.Rat) int {
	den := new(big.Int).Set(r.Denom())
	count := func(f int64) int {
		n, div, rem := 0, big.NewInt(f), new(big.Int)
		for {
			q, m := new(big.Int).QuoRem(den, div, rem)
			if m.Sign() != 0 {
				return n
			}
			den = q
			n++
		}
	}
	twos, fives := count(2), count(5)
	if den.Cmp(big.NewInt(1)) != 0 {
		return 18
	}
	return max(twos, fives)
}

// IntervalLiteral renders d as an ANSI day-to-second interval.
func IntervalLiteral(d time.Duration) string {
	p := types.SplitTimeSpan(d)
	sign := ""
	if p.Negative {
		sign = "-"
	}
	return fmt.Sprintf("INTERVAL '%s%d %02d:%02d:%02d.%03d' DAY TO SECOND",
		sign, p.Days, p.Hours, p.Minutes, p.Seconds, p.Milliseconds)
}
