// Package sqlite translates nodes into SQLite 3 SQL and extracts SQLite
// schemas. Importing the package registers the "sqlite" provider.
package sqlite

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

var unsupportedFunctions = map[nodes.FunctionType]bool{
	nodes.FuncAcos:        true,
	nodes.FuncAsin:        true,
	nodes.FuncAtan:        true,
	nodes.FuncAtan2:       true,
	nodes.FuncSin:         true,
	nodes.FuncSessionUser: true,
	nodes.FuncSqrt:        true,
	nodes.FuncSquare:      true,
	nodes.FuncTan:         true,
	nodes.FuncTruncate:    true,
	nodes.FuncPosition:    true,
	nodes.FuncPower:       true,
}

var functionNames = map[nodes.FunctionType]string{
	nodes.FuncConcat:              "||",
	nodes.FuncIntervalAbs:         "ABS",
	nodes.FuncSubstring:           "SUBSTR",
	nodes.FuncIntervalNegate:      "-",
	nodes.FuncCurrentDate:         "DATE()",
	nodes.FuncBinaryLength:        "LENGTH",
	nodes.FuncCharLength:          "LENGTH",
	nodes.FuncLastAutoGeneratedId: "LAST_INSERT_ROWID()",
	nodes.FuncDateTimeAddMonths:   "DATE",
	nodes.FuncDateTimeConstruct:   "DATETIME",
}

// strftime format of each date/time part EXTRACT can read.
var extractFormats = map[nodes.DateTimePart]string{
	nodes.DateTimePartYear:        "'%Y'",
	nodes.DateTimePartMonth:       "'%m'",
	nodes.DateTimePartDay:         "'%d'",
	nodes.DateTimePartDayOfWeek:   "'%w'",
	nodes.DateTimePartHour:        "'%H'",
	nodes.DateTimePartMinute:      "'%M'",
	nodes.DateTimePartSecond:      "'%s'",
	nodes.DateTimePartMillisecond: "'%f'",
}

// NewTranslator returns the SQLite 3 translator.
func NewTranslator() *compiler.Translator {
	return compiler.MustBuild(compiler.Standard(), V3())
}

// V3 returns the SQLite 3 layer.
func V3() *compiler.Layer {
	l := compiler.NewLayer("sqlite.v3")
	l.Initialize = func(s *compiler.Settings) {
		s.Name = "sqlite"
		s.BatchItemDelimiter = ";\r\n"
		s.DdlStatementDelimiter = ";"
		s.ColumnDelimiter = ","
		s.DateTimeFormat = "2006-01-02 15:04:05.000000"
		s.TimeSpanFormat = "%s%d"
		s.DecimalSeparator = "."
		s.ParameterPrefix = "@"
		s.UnboundedLimit = "-1"
		s.Lock = compiler.LockIgnored
	}

	l.FunctionName = func(_ *compiler.Translator, _ *compiler.Context, f nodes.FunctionType, base compiler.Fragment) string {
		if unsupportedFunctions[f] {
			panic(sqlerr.NotSupported(f.String()))
		}
		if name, ok := functionNames[f]; ok {
			return name
		}
		return base()
	}
	l.OperatorName = func(_ *compiler.Translator, _ *compiler.Context, op nodes.NodeType, base compiler.Fragment) string {
		switch op {
		case nodes.OpDateTimePlusInterval:
			return "+"
		case nodes.OpDateTimeMinusInterval, nodes.OpDateTimeMinusDateTime:
			return "-"
		case nodes.OpOverlaps:
			panic(sqlerr.NotSupported(op.String()))
		}
		return base()
	}
	l.Literal = literal
	l.LockHint = func(_ *compiler.Translator, _ *compiler.Context, lock nodes.LockType, base compiler.Fragment) string {
		switch {
		case lock.Supports(nodes.LockShared):
			return "SHARED"
		case lock.Supports(nodes.LockExclusive):
			return "EXCLUSIVE"
		case lock.Supports(nodes.LockSkipLocked), lock.Supports(nodes.LockThrowIfLocked):
			return base()
		}
		return "PENDING"
	}
	l.TrimType = func(*compiler.Translator, *compiler.Context, nodes.TrimType, compiler.Fragment) string {
		return ""
	}
	l.ObjectName = func(t *compiler.Translator, _ *compiler.Context, n model.Node, _ compiler.Fragment) string {
		return t.Quote(n.NodeDbName())
	}
	l.GoTypeName = goTypeName

	// dml
	l.Text("", compiler.QueryExpressionEntry, compiler.QueryExpressionExit)
	l.Text("UPDATE", compiler.UpdateEntry).
		Text("SET", compiler.UpdateSet).
		Text("FROM", compiler.UpdateFrom).
		Text("WHERE", compiler.UpdateWhere).
		Text("", compiler.UpdateExit)

	// expressions
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.FunctionCall, _ compiler.Section, base compiler.Fragment) string {
		if name := t.FunctionName(n.Function); strings.HasSuffix(name, "()") {
			return name
		}
		return base()
	}), compiler.FunctionCallEntry)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.FunctionCall, _ compiler.Section, base compiler.Fragment) string {
		if strings.HasSuffix(t.FunctionName(n.Function), "()") {
			return ""
		}
		return base()
	}), compiler.FunctionCallExit)

	l.Text("STRFTIME(", compiler.ExtractEntry).
		Text(")", compiler.ExtractExit)
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.Extract, _ compiler.Section, _ compiler.Fragment) string {
		if n.IsInterval() {
			panic(sqlerr.NotSupported(n.IntervalPart.String()))
		}
		if f, ok := extractFormats[n.DateTimePart]; ok {
			return f + ","
		}
		panic(sqlerr.NotSupported(n.DateTimePart.String()))
	}), compiler.ExtractFrom)
	l.DateTimePart = func(*compiler.Translator, *compiler.Context, nodes.DateTimePart, compiler.Fragment) string {
		return ""
	}
	l.IntervalPart = func(*compiler.Translator, *compiler.Context, nodes.IntervalPart, compiler.Fragment) string {
		return ""
	}

	l.On(compiler.Handle(castEntry), compiler.CastEntry)
	l.On(compiler.Handle(castExit), compiler.CastExit)

	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.Trim, _ compiler.Section, _ compiler.Fragment) string {
		switch n.TrimType {
		case nodes.TrimLeading:
			return "LTRIM("
		case nodes.TrimTrailing:
			return "RTRIM("
		}
		return "TRIM("
	}), compiler.TrimEntry)
	l.Text("", compiler.TrimCharacters, compiler.TrimFrom)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.Trim, _ compiler.Section, _ compiler.Fragment) string {
		if n.Characters == "" {
			return ")"
		}
		return ", " + t.QuoteString(n.Characters) + ")"
	}), compiler.TrimExit)

	ddlRules(l)
	return l
}

func ddlRules(l *compiler.Layer) {
	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.CreateTable, _ compiler.Section, _ compiler.Fragment) string {
		if n.Table.Temporary {
			return "CREATE TEMPORARY TABLE " + t.ObjectName(c, n.Table)
		}
		return "CREATE TABLE " + t.ObjectName(c, n.Table)
	}), compiler.CreateTableEntry)

	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, col *model.TableColumn, _ compiler.Section, base compiler.Fragment) string {
		if col.SequenceDescriptor == nil {
			return base()
		}
		// autoincrement requires exactly this type name
		return "integer"
	}), compiler.TableColumnType)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, col *model.TableColumn, _ compiler.Section, _ compiler.Fragment) string {
		if col.SequenceDescriptor == nil || col.Table == nil {
			return ""
		}
		pk := col.Table.PrimaryKey()
		if pk == nil {
			return ""
		}
		return "CONSTRAINT " + t.Quote(pk.NodeDbName()) + " PRIMARY KEY AUTOINCREMENT"
	}), compiler.TableColumnExit)
	l.Text("", compiler.TableColumnGeneratedEntry, compiler.TableColumnGeneratedExit)
	l.Text("", compiler.SequenceStartValue, compiler.SequenceIncrement,
		compiler.SequenceMinValue, compiler.SequenceMaxValue, compiler.SequenceCycle)
	l.On(func(_ *compiler.Translator, _ *compiler.Context, n any, _ compiler.Section, _ compiler.Fragment) string {
		if coll := compiler.CollationOf(n); coll != nil {
			return "COLLATE " + coll.NodeDbName()
		}
		return ""
	}, compiler.TableColumnCollate)

	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, fk *model.ForeignKey, _ compiler.Section, _ compiler.Fragment) string {
		switch {
		case fk.OnUpdate == model.Cascade:
			return ") ON UPDATE CASCADE"
		case fk.OnDelete == model.Cascade:
			return ") ON DELETE CASCADE"
		}
		return ")"
	}), compiler.ConstraintExit)

	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.AlterTable, _ compiler.Section, _ compiler.Fragment) string {
		if _, ok := n.Action.(nodes.AddColumn); !ok {
			panic(sqlerr.NotSupported(n.Action.ActionName()))
		}
		return "ALTER TABLE " + t.ObjectName(c, n.Table)
	}), compiler.AlterTableEntry)
	l.Text("ADD", compiler.AlterTableAddColumn).
		Text("", compiler.AlterTableExit)
	l.On(compiler.Unsupported("RenameColumn"), compiler.AlterTableRenameColumn)

	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.CreateView, _ compiler.Section, _ compiler.Fragment) string {
		if len(n.View.Columns) == 0 {
			return ""
		}
		return " (" + strings.Join(n.View.Columns, t.Settings().ColumnDelimiter+" ") + ")"
	}), compiler.CreateViewColumns)

	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.CreateIndex, _ compiler.Section, _ compiler.Fragment) string {
		kind := "CREATE INDEX "
		if n.Index.IsUnique {
			kind = "CREATE UNIQUE INDEX "
		}
		return kind + t.Quote(n.Index.NodeDbName()) + " ON " + t.ObjectName(c, n.Index.Table) + " "
	}), compiler.CreateIndexEntry)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.DropIndex, _ compiler.Section, _ compiler.Fragment) string {
		return "DROP INDEX " + n.Index.Table.Schema.NodeDbName() + "." + t.Quote(n.Index.NodeDbName())
	}), compiler.DropIndexEntry)

	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.DropTable, _ compiler.Section, _ compiler.Fragment) string {
		return "DROP TABLE IF EXISTS " + t.ObjectName(c, n.Table)
	}), compiler.DropTableEntry)
	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.DropView, _ compiler.Section, _ compiler.Fragment) string {
		return "DROP VIEW IF EXISTS " + t.ObjectName(c, n.View)
	}), compiler.DropViewEntry)
	l.Text("", compiler.DropBehavior, compiler.AlterTableDropBehavior)
	l.On(compiler.Unsupported("DropSchema"), compiler.DropSchemaEntry)
	l.On(compiler.Unsupported("CreateSchema"), compiler.CreateSchemaEntry)
	l.On(compiler.Unsupported("Sequence"), compiler.CreateSequenceEntry, compiler.AlterSequenceEntry, compiler.DropSequenceEntry)
	l.On(compiler.Unsupported("Domain"), compiler.CreateDomainEntry, compiler.AlterDomainEntry, compiler.DropDomainEntry)
	l.On(compiler.Unsupported("NextValue"), compiler.NextValueEntry)
}

func castEntry(_ *compiler.Translator, _ *compiler.Context, n *nodes.Cast, _ compiler.Section, _ compiler.Fragment) string {
	switch n.Type.Type {
	case types.Binary, types.Char, types.Interval, types.DateTime, types.Int16, types.Int32:
		return "CAST("
	}
	return ""
}

func castExit(t *compiler.Translator, _ *compiler.Context, n *nodes.Cast, _ compiler.Section, _ compiler.Fragment) string {
	switch n.Type.Type {
	case types.Binary, types.Char, types.Interval, types.DateTime, types.Int16, types.Int32:
		return "AS " + t.TypeName(n.Type) + ")"
	case types.Decimal, types.Double, types.Float:
		return "+ 0.0"
	}
	return ""
}

func literal(t *compiler.Translator, c *compiler.Context, v any, base compiler.Fragment) string {
	switch x := v.(type) {
	case []byte:
		return types.HexLiteral("x'", x, "'")
	case time.Duration:
		return types.TimeSpanToString(x, t.Settings().TimeSpanFormat)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case uuid.UUID:
		return types.HexLiteral("x'", x[:], "'")
	}
	return base()
}

func goTypeName(_ *compiler.Translator, _ *compiler.Context, code types.Code, _ compiler.Fragment) string {
	switch code {
	case types.CodeBoolean:
		return "bit"
	case types.CodeByte, types.CodeSByte, types.CodeInt16, types.CodeUInt16, types.CodeInt32, types.CodeUInt32:
		return "int"
	case types.CodeInt64, types.CodeUInt64, types.CodeTimeSpan:
		return "bigint"
	case types.CodeDecimal, types.CodeSingle, types.CodeDouble:
		return "numeric"
	case types.CodeDateTime:
		return "timestamp"
	case types.CodeGuid:
		return "guid"
	}
	return "text"
}
