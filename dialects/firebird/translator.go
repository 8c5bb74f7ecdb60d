// Package firebird translates nodes into Firebird SQL (dialect 3) for
// servers 2.5 and later. Firebird has no schemas; object names are written
// unqualified. Schema extraction is not implemented for Firebird.
package firebird

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/internal/quoting"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

var functionNames = map[nodes.FunctionType]string{
	nodes.FuncTruncate:    "TRUNC",
	nodes.FuncSessionUser: "CURRENT_USER",
	nodes.FuncSystemUser:  "CURRENT_USER",
}

var dateTimeParts = map[nodes.DateTimePart]string{
	nodes.DateTimePartDayOfWeek:   "WEEKDAY",
	nodes.DateTimePartMillisecond: "MILLISECOND",
}

// NewTranslator returns the translator for a server major version.
func NewTranslator(major int) *compiler.Translator {
	if major >= 4 {
		return compiler.MustBuild(compiler.Standard(), V25(), V40())
	}
	return compiler.MustBuild(compiler.Standard(), V25())
}

// V25 returns the Firebird 2.5 layer: FIRST/SKIP paging, no boolean type
// and no identity columns.
func V25() *compiler.Layer {
	l := compiler.NewLayer("firebird.v2_5")
	l.Initialize = func(s *compiler.Settings) {
		s.Name = "firebird"
		s.Quote = quoting.DoubleQuotes
		s.ParameterStyle = compiler.ParameterPositional
		s.ParameterPrefix = "?"
		s.DateTimeFormat = "2006-01-02 15:04:05.0000"
		s.Paging = compiler.PagingFirstSkip
	}

	l.FunctionName = func(_ *compiler.Translator, _ *compiler.Context, f nodes.FunctionType, base compiler.Fragment) string {
		if name, ok := functionNames[f]; ok {
			return name
		}
		return base()
	}
	l.OperatorName = func(_ *compiler.Translator, _ *compiler.Context, op nodes.NodeType, base compiler.Fragment) string {
		switch op {
		case nodes.OpIntersect, nodes.OpExcept:
			panic(sqlerr.NotSupported(op.String()))
		}
		return base()
	}
	l.DateTimePart = func(_ *compiler.Translator, _ *compiler.Context, p nodes.DateTimePart, base compiler.Fragment) string {
		if name, ok := dateTimeParts[p]; ok {
			return name
		}
		return base()
	}
	l.Literal = func(t *compiler.Translator, _ *compiler.Context, v any, base compiler.Fragment) string {
		if b, ok := v.(bool); ok {
			if b {
				return "1"
			}
			return "0"
		}
		return literal(t, v, base)
	}
	l.TypeName = func(_ *compiler.Translator, _ *compiler.Context, v types.ValueType, base compiler.Fragment) string {
		switch {
		case v.TypeName != "":
			return base()
		case v.Type == types.Boolean:
			return "SMALLINT"
		case v.Type == types.UInt64:
			return "NUMERIC(18)"
		case v.Type == types.DateTimeOffset:
			panic(sqlerr.NotSupported(v.String()))
		}
		return typeName(v, base)
	}
	l.LockHint = func(_ *compiler.Translator, _ *compiler.Context, lock nodes.LockType, _ compiler.Fragment) string {
		switch {
		case lock == nodes.LockEmpty:
			return ""
		case lock == nodes.LockUpdate, lock == nodes.LockExclusive, lock == nodes.LockUpdate|nodes.LockExclusive:
			return "WITH LOCK"
		}
		panic(sqlerr.NotSupported(lock.String()))
	}
	l.ObjectName = func(t *compiler.Translator, _ *compiler.Context, n model.Node, _ compiler.Fragment) string {
		if _, ok := n.(*model.Schema); ok {
			panic(sqlerr.NotSupported("Schema"))
		}
		return t.Quote(n.NodeDbName())
	}

	// FIRST and SKIP come before DISTINCT
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.Select, _ compiler.Section, base compiler.Fragment) string {
		if distinctAfterPaging(t, n) {
			return ""
		}
		return base()
	}), compiler.SelectDistinct)
	l.On(func(t *compiler.Translator, _ *compiler.Context, n any, s compiler.Section, base compiler.Fragment) string {
		sel, ok := n.(*nodes.Select)
		if ok && distinctAfterPaging(t, sel) && (s == compiler.SelectOffsetEnd || sel.Offset == nil) {
			return base() + " DISTINCT"
		}
		return base()
	}, compiler.SelectLimitEnd, compiler.SelectOffsetEnd)

	// dml
	l.Text("ROWS", compiler.UpdateLimit, compiler.DeleteLimit)

	// ddl
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.CreateTable, _ compiler.Section, _ compiler.Fragment) string {
		if n.Table.Temporary {
			return "ON COMMIT PRESERVE ROWS"
		}
		return ""
	}), compiler.CreateTableExit)
	l.On(compiler.Unsupported("Identity"), compiler.TableColumnGeneratedEntry)
	// columns take COLLATE last and have no NULL keyword
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, _ *model.TableColumn, _ compiler.Section, _ compiler.Fragment) string {
		return ""
	}), compiler.TableColumnCollate)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, col *model.TableColumn, _ compiler.Section, _ compiler.Fragment) string {
		text := ""
		if !col.IsNullable {
			text = "NOT NULL"
		}
		if col.Collation != nil {
			if text != "" {
				text += " "
			}
			text += "COLLATE " + t.Quote(col.Collation.NodeDbName())
		}
		return text
	}), compiler.TableColumnNullable)
	l.On(sequenceOption(false), compiler.SequenceStartValue, compiler.SequenceIncrement,
		compiler.SequenceMinValue, compiler.SequenceMaxValue, compiler.SequenceCycle)

	l.Text("ADD", compiler.AlterTableAddColumn).
		Text("DROP", compiler.AlterTableDropColumn)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.AlterTable, _ compiler.Section, _ compiler.Fragment) string {
		a := n.Action.(nodes.RenameColumn)
		return "ALTER COLUMN " + t.Quote(a.Column.NodeDbName()) + " TO " + t.Quote(a.NewName)
	}), compiler.AlterTableRenameColumn)
	l.On(func(_ *compiler.Translator, _ *compiler.Context, n any, _ compiler.Section, _ compiler.Fragment) string {
		if compiler.IsCascade(n) {
			panic(sqlerr.NotSupported("Cascade"))
		}
		return ""
	}, compiler.AlterTableDropBehavior, compiler.DropBehavior)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.DropIndex, _ compiler.Section, _ compiler.Fragment) string {
		return "DROP INDEX " + t.Quote(n.Index.NodeDbName())
	}), compiler.DropIndexEntry)
	l.On(compiler.Unsupported("CreateSchema"), compiler.CreateSchemaEntry)
	l.On(compiler.Unsupported("DropSchema"), compiler.DropSchemaEntry)
	return l
}

// V40 returns the Firebird 4.0 layer: booleans, identity columns,
// OFFSET/FETCH paging, lateral joins and time zones.
func V40() *compiler.Layer {
	l := compiler.NewLayer("firebird.v4_0")
	l.Initialize = func(s *compiler.Settings) {
		s.Paging = compiler.PagingOffsetFetch
	}
	l.Literal = func(_ *compiler.Translator, _ *compiler.Context, v any, base compiler.Fragment) string {
		if b, ok := v.(bool); ok {
			if b {
				return "TRUE"
			}
			return "FALSE"
		}
		return base()
	}
	l.TypeName = func(_ *compiler.Translator, _ *compiler.Context, v types.ValueType, base compiler.Fragment) string {
		switch {
		case v.TypeName != "":
			return base()
		case v.Type == types.Boolean:
			return "BOOLEAN"
		case v.Type == types.UInt64:
			return "NUMERIC(20)"
		case v.Type == types.DateTimeOffset:
			return "TIMESTAMP WITH TIME ZONE"
		case v.Type == types.Binary:
			return compiler.SizedType("BINARY", v)
		case v.Type == types.VarBinary && v.Length > 0:
			return compiler.SizedType("VARBINARY", v)
		}
		return base()
	}
	l.JoinType = func(_ *compiler.Translator, _ *compiler.Context, j *nodes.JoinedTable, base compiler.Fragment) string {
		switch j.JoinType {
		case nodes.CrossApply:
			return "CROSS JOIN LATERAL"
		case nodes.OuterApply:
			return "LEFT OUTER JOIN LATERAL"
		}
		return base()
	}
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, j *nodes.JoinedTable, _ compiler.Section, base compiler.Fragment) string {
		if j.JoinType == nodes.OuterApply {
			return "ON TRUE"
		}
		return base()
	}), compiler.JoinExit)

	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, col *model.TableColumn, _ compiler.Section, _ compiler.Fragment) string {
		if compiler.HasSequenceOptions(col.SequenceDescriptor) {
			return "GENERATED BY DEFAULT AS IDENTITY ("
		}
		return "GENERATED BY DEFAULT AS IDENTITY"
	}), compiler.TableColumnGeneratedEntry)
	l.On(sequenceOption(true), compiler.SequenceStartValue, compiler.SequenceIncrement,
		compiler.SequenceMinValue, compiler.SequenceMaxValue, compiler.SequenceCycle)
	return l
}

func distinctAfterPaging(t *compiler.Translator, n *nodes.Select) bool {
	return n.Distinct && n.HasPaging() && t.Settings().Paging == compiler.PagingFirstSkip
}

// sequenceOption writes START WITH and INCREMENT BY when the server has
// them. Firebird sequences have no bounds and never cycle.
func sequenceOption(startAndIncrement bool) compiler.Rule {
	return func(_ *compiler.Translator, _ *compiler.Context, n any, s compiler.Section, _ compiler.Fragment) string {
		d, ok := n.(*model.SequenceDescriptor)
		if !ok || d == nil {
			return ""
		}
		text := compiler.SequenceOption(d, s)
		if text == "" {
			return ""
		}
		switch s {
		case compiler.SequenceStartValue, compiler.SequenceIncrement:
			if startAndIncrement {
				return text
			}
		case compiler.SequenceCycle:
			if !*d.IsCyclic {
				return ""
			}
		}
		panic(sqlerr.NotSupported(s.String()))
	}
}

func literal(t *compiler.Translator, v any, base compiler.Fragment) string {
	switch x := v.(type) {
	case uuid.UUID:
		return "CHAR_TO_UUID(" + t.QuoteString(x.String()) + ")"
	case time.Time:
		return "TIMESTAMP '" + x.Format(t.Settings().DateTimeFormat) + "'"
	case time.Duration:
		// intervals are stored as milliseconds
		return strconv.FormatInt(x.Milliseconds(), 10)
	}
	return base()
}

func typeName(v types.ValueType, base compiler.Fragment) string {
	switch v.Type {
	case types.Int8, types.UInt8, types.Int16:
		return "SMALLINT"
	case types.UInt16, types.Int32:
		return "INTEGER"
	case types.UInt32, types.Int64, types.Interval:
		return "BIGINT"
	case types.Decimal:
		return compiler.SizedType("NUMERIC", v)
	case types.Float:
		return "FLOAT"
	case types.VarChar:
		if v.Length == 0 {
			return "VARCHAR(8191)"
		}
		return compiler.SizedType("VARCHAR", v)
	case types.VarCharMax:
		return "BLOB SUB_TYPE TEXT"
	case types.Binary:
		return compiler.SizedType("CHAR", v) + " CHARACTER SET OCTETS"
	case types.VarBinary:
		if v.Length == 0 {
			return "VARCHAR(32765) CHARACTER SET OCTETS"
		}
		return compiler.SizedType("VARCHAR", v) + " CHARACTER SET OCTETS"
	case types.VarBinaryMax:
		return "BLOB SUB_TYPE BINARY"
	case types.Guid:
		return "CHAR(16) CHARACTER SET OCTETS"
	}
	return base()
}
