// Package sqlserver translates nodes into Transact-SQL for SQL Server 2005
// (v09), 2008 (v10) and 2012 or later (v11) and reads SQL Server schemas
// through information_schema. Importing the package registers the
// "sqlserver" provider.
package sqlserver

import (
	"strconv"
	"strings"
	"time"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/internal/quoting"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

var functionNames = map[nodes.FunctionType]string{
	nodes.FuncAtan2:               "ATN2",
	nodes.FuncBinaryLength:        "DATALENGTH",
	nodes.FuncCharLength:          "LEN",
	nodes.FuncConcat:              "+",
	nodes.FuncCurrentDate:         "DATEADD(day, DATEDIFF(day, 0, GETDATE()), 0)",
	nodes.FuncCurrentTimestamp:    "GETDATE()",
	nodes.FuncLastAutoGeneratedId: "SCOPE_IDENTITY",
	nodes.FuncLog:                 "LOG",
	nodes.FuncPosition:            "CHARINDEX",
	nodes.FuncSquare:              "SQUARE",
}

var unsupportedFunctions = map[nodes.FunctionType]bool{
	nodes.FuncCurrentTime: true,
	nodes.FuncPadLeft:     true,
	nodes.FuncPadRight:    true,
	nodes.FuncTruncate:    true,
}

var dateTimeParts = map[nodes.DateTimePart]string{
	nodes.DateTimePartYear:        "year",
	nodes.DateTimePartMonth:       "month",
	nodes.DateTimePartDay:         "day",
	nodes.DateTimePartHour:        "hour",
	nodes.DateTimePartMinute:      "minute",
	nodes.DateTimePartSecond:      "second",
	nodes.DateTimePartMillisecond: "millisecond",
	nodes.DateTimePartDayOfYear:   "dayofyear",
}

var joinMethods = map[nodes.JoinMethod]string{
	nodes.JoinMethodHash:   "HASH",
	nodes.JoinMethodMerge:  "MERGE",
	nodes.JoinMethodLoop:   "LOOP",
	nodes.JoinMethodRemote: "REMOTE",
}

// NewTranslator returns the translator for a server version: V11 layers
// from 11.0, V10 from 10.0 and V09 below.
func NewTranslator(major int) *compiler.Translator {
	switch {
	case major >= 11:
		return compiler.MustBuild(compiler.Standard(), V09(), V10(), V11())
	case major >= 10:
		return compiler.MustBuild(compiler.Standard(), V09(), V10())
	}
	return compiler.MustBuild(compiler.Standard(), V09())
}

// V09 returns the SQL Server 2005 layer.
func V09() *compiler.Layer {
	l := compiler.NewLayer("sqlserver.v09")
	l.Initialize = func(s *compiler.Settings) {
		s.Name = "sqlserver"
		s.Quote = quoting.Brackets
		s.ParameterStyle = compiler.ParameterNamed
		s.ParameterPrefix = "@"
		s.BatchItemDelimiter = ";\n"
		s.DateTimeFormat = "2006-01-02T15:04:05.000"
		s.Paging = compiler.PagingTop
		s.Lock = compiler.LockTableHint
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
		case nodes.OpConcat:
			return "+"
		case nodes.OpOverlaps:
			panic(sqlerr.NotSupported(op.String()))
		}
		return base()
	}
	l.Literal = literal
	l.TypeName = typeName
	l.LockHint = lockHint
	l.JoinType = func(_ *compiler.Translator, _ *compiler.Context, j *nodes.JoinedTable, _ compiler.Fragment) string {
		kind := j.JoinType.String()
		method, ok := joinMethods[j.Method]
		if !ok || !j.JoinType.HasCondition() {
			return kind
		}
		return strings.TrimSuffix(kind, " JOIN") + " " + method + " JOIN"
	}
	l.DateTimePart = func(_ *compiler.Translator, _ *compiler.Context, p nodes.DateTimePart, _ compiler.Fragment) string {
		if name, ok := dateTimeParts[p]; ok {
			return name
		}
		panic(sqlerr.NotSupported(p.String()))
	}
	l.TrimType = func(*compiler.Translator, *compiler.Context, nodes.TrimType, compiler.Fragment) string {
		return ""
	}

	// expressions
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.FunctionCall, _ compiler.Section, base compiler.Fragment) string {
		if n.Function == nodes.FuncPosition {
			return t.Settings().ArgumentDelimiter
		}
		return base()
	}), compiler.FunctionCallArgumentDelimiter)
	l.Text("DATEPART(", compiler.ExtractEntry).
		Text(",", compiler.ExtractFrom)

	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.Trim, _ compiler.Section, _ compiler.Fragment) string {
		switch n.TrimType {
		case nodes.TrimLeading:
			return "LTRIM("
		case nodes.TrimTrailing:
			return "RTRIM("
		}
		return "LTRIM(RTRIM("
	}), compiler.TrimEntry)
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.Trim, _ compiler.Section, _ compiler.Fragment) string {
		if n.Characters != "" {
			panic(sqlerr.NotSupported("Trim characters"))
		}
		return ""
	}), compiler.TrimCharacters)
	l.Text("", compiler.TrimFrom)
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.Trim, _ compiler.Section, _ compiler.Fragment) string {
		if n.TrimType == nodes.TrimBoth {
			return "))"
		}
		return ")"
	}), compiler.TrimExit)

	// dml
	l.Text("FROM", compiler.DeleteFrom)

	ddlRules(l)
	return l
}

// V10 returns the SQL Server 2008 layer. It adds the date, time and
// datetime2 types.
func V10() *compiler.Layer {
	l := compiler.NewLayer("sqlserver.v10")
	l.Initialize = func(s *compiler.Settings) {
		s.DateTimeFormat = "2006-01-02T15:04:05.0000000"
	}
	l.FunctionName = func(_ *compiler.Translator, _ *compiler.Context, f nodes.FunctionType, base compiler.Fragment) string {
		switch f {
		case nodes.FuncCurrentDate:
			return "CAST(GETDATE() AS date)"
		case nodes.FuncCurrentTime:
			return "CAST(GETDATE() AS time)"
		case nodes.FuncCurrentTimestamp:
			return "SYSDATETIME()"
		}
		return base()
	}
	l.TypeName = func(_ *compiler.Translator, _ *compiler.Context, v types.ValueType, base compiler.Fragment) string {
		if v.TypeName != "" {
			return base()
		}
		switch v.Type {
		case types.DateTime:
			return "datetime2"
		case types.DateTimeOffset:
			return "datetimeoffset"
		}
		return base()
	}
	return l
}

// V11 returns the SQL Server 2012 layer: OFFSET/FETCH paging and
// sequences.
func V11() *compiler.Layer {
	l := compiler.NewLayer("sqlserver.v11")
	l.Initialize = func(s *compiler.Settings) {
		s.Paging = compiler.PagingOffsetFetch
	}
	l.FunctionName = func(_ *compiler.Translator, _ *compiler.Context, f nodes.FunctionType, base compiler.Fragment) string {
		if f == nodes.FuncConcat {
			return "CONCAT"
		}
		return base()
	}

	l.On(sequenceStatement("CREATE"), compiler.CreateSequenceEntry)
	l.On(sequenceStatement("ALTER"), compiler.AlterSequenceEntry)
	l.On(sequenceStatement("DROP"), compiler.DropSequenceEntry)
	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.NextValue, _ compiler.Section, _ compiler.Fragment) string {
		return "NEXT VALUE FOR " + t.ObjectName(c, n.Sequence)
	}), compiler.NextValueEntry)
	return l
}

// sequenceStatement writes a sequence statement preceded by USE of the
// sequence's database: SQL Server rejects database-qualified names in
// sequence DDL, so the statement switches the session's database.
func sequenceStatement(action string) compiler.Rule {
	return func(t *compiler.Translator, _ *compiler.Context, n any, _ compiler.Section, _ compiler.Fragment) string {
		var seq *model.Sequence
		switch x := n.(type) {
		case *nodes.CreateSequence:
			seq = x.Sequence
		case *nodes.AlterSequence:
			seq = x.Sequence
		case *nodes.DropSequence:
			seq = x.Sequence
		}
		text := action + " SEQUENCE " + t.QuoteQualified(seq.Schema.NodeDbName(), seq.NodeDbName())
		if cat := seq.Schema.Catalog; cat != nil && cat.NodeDbName() != "" {
			text = "USE " + t.Quote(cat.NodeDbName()) + "; " + text
		}
		return text
	}
}

func ddlRules(l *compiler.Layer) {
	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.CreateTable, _ compiler.Section, _ compiler.Fragment) string {
		if n.Table.Temporary {
			return "CREATE TABLE " + t.Quote("#"+n.Table.NodeDbName())
		}
		return "CREATE TABLE " + t.ObjectName(c, n.Table)
	}), compiler.CreateTableEntry)

	l.Text("IDENTITY(", compiler.TableColumnGeneratedEntry).
		Text(")", compiler.TableColumnGeneratedExit)
	// sequences keep the standard options
	l.On(func(_ *compiler.Translator, _ *compiler.Context, n any, s compiler.Section, base compiler.Fragment) string {
		if d, ok := n.(*model.SequenceDescriptor); ok && d != nil {
			if _, column := d.Owner.(*model.TableColumn); column {
				return identityOption(d, s)
			}
		}
		return base()
	}, compiler.SequenceStartValue, compiler.SequenceIncrement,
		compiler.SequenceMinValue, compiler.SequenceMaxValue, compiler.SequenceCycle)

	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.AlterTable, _ compiler.Section, base compiler.Fragment) string {
		switch a := n.Action.(type) {
		case nodes.RenameColumn:
			target := t.QuoteQualified(n.Table.Schema.NodeDbName(), n.Table.NodeDbName(), a.Column.NodeDbName())
			return "EXEC sp_rename " + t.QuoteString(target) + ", " + t.QuoteString(a.NewName) + ", 'COLUMN'"
		case nodes.DropDefault:
			panic(sqlerr.NotSupported(a.ActionName()))
		}
		return base()
	}), compiler.AlterTableEntry)
	l.Text("ADD", compiler.AlterTableAddColumn).
		Text("ADD DEFAULT", compiler.AlterTableSetDefault).
		Text("", compiler.AlterTableRenameColumn)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.AlterTable, _ compiler.Section, _ compiler.Fragment) string {
		if a, ok := n.Action.(nodes.SetDefault); ok {
			return "FOR " + t.Quote(a.Column.NodeDbName())
		}
		return ""
	}), compiler.AlterTableExit)
	l.Text("", compiler.DropBehavior, compiler.AlterTableDropBehavior)

	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.DropIndex, _ compiler.Section, _ compiler.Fragment) string {
		return "DROP INDEX " + t.Quote(n.Index.NodeDbName()) + " ON " + t.ObjectName(c, n.Index.Table)
	}), compiler.DropIndexEntry)

	l.On(compiler.Unsupported("Sequence"), compiler.CreateSequenceEntry, compiler.AlterSequenceEntry, compiler.DropSequenceEntry)
	l.On(compiler.Unsupported("NextValue"), compiler.NextValueEntry)
	l.On(compiler.Unsupported("Domain"), compiler.CreateDomainEntry, compiler.AlterDomainEntry, compiler.DropDomainEntry)
}

// identityOption writes the seed and increment of IDENTITY(seed, increment).
func identityOption(d *model.SequenceDescriptor, s compiler.Section) string {
	switch s {
	case compiler.SequenceStartValue:
		return strconv.FormatInt(valueOr(d.StartValue, 1), 10)
	case compiler.SequenceIncrement:
		return ", " + strconv.FormatInt(valueOr(d.Increment, 1), 10)
	}
	return ""
}

func valueOr(v *int64, fallback int64) int64 {
	if v == nil {
		return fallback
	}
	return *v
}

func lockHint(_ *compiler.Translator, _ *compiler.Context, lock nodes.LockType, _ compiler.Fragment) string {
	if lock == nodes.LockEmpty {
		return ""
	}
	var hints []string
	switch {
	case lock.Supports(nodes.LockExclusive):
		hints = append(hints, "XLOCK")
	case lock.Supports(nodes.LockUpdate):
		hints = append(hints, "UPDLOCK")
	case lock.Supports(nodes.LockShared):
		hints = append(hints, "HOLDLOCK")
	}
	hints = append(hints, "ROWLOCK")
	switch {
	case lock.Supports(nodes.LockSkipLocked):
		hints = append(hints, "READPAST")
	case lock.Supports(nodes.LockThrowIfLocked):
		hints = append(hints, "NOWAIT")
	}
	return "WITH (" + strings.Join(hints, ", ") + ")"
}

func literal(t *compiler.Translator, _ *compiler.Context, v any, base compiler.Fragment) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "1"
		}
		return "0"
	case string:
		return "N" + t.QuoteString(x)
	case time.Duration:
		// intervals are stored as milliseconds
		return strconv.FormatInt(x.Milliseconds(), 10)
	case []byte:
		return types.HexLiteral("0x", x, "")
	}
	return base()
}

func typeName(_ *compiler.Translator, _ *compiler.Context, v types.ValueType, base compiler.Fragment) string {
	if v.TypeName != "" {
		return base()
	}
	switch v.Type {
	case types.Boolean:
		return "bit"
	case types.UInt8:
		return "tinyint"
	case types.Int8, types.Int16:
		return "smallint"
	case types.UInt16, types.Int32:
		return "int"
	case types.UInt32, types.Int64, types.Interval:
		return "bigint"
	case types.UInt64:
		return "decimal(20)"
	case types.Decimal:
		return compiler.SizedType("decimal", v)
	case types.Float:
		return "real"
	case types.Double:
		return "float"
	case types.DateTime:
		return "datetime"
	case types.DateTimeOffset:
		panic(sqlerr.NotSupported(v.String()))
	case types.Char:
		return compiler.SizedType("nchar", v)
	case types.VarChar:
		return compiler.SizedType("nvarchar", v)
	case types.VarCharMax:
		return "nvarchar(max)"
	case types.Binary:
		return compiler.SizedType("binary", v)
	case types.VarBinary:
		return compiler.SizedType("varbinary", v)
	case types.VarBinaryMax:
		return "varbinary(max)"
	case types.Guid:
		return "uniqueidentifier"
	}
	return base()
}
