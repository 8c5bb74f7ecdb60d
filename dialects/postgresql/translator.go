// Package postgresql translates nodes into PostgreSQL SQL for servers 8.3
// and later and reads PostgreSQL schemas through information_schema.
// Importing the package registers the "postgresql" provider and the pgx
// database/sql driver.
package postgresql

import (
	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/internal/quoting"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

var functionNames = map[nodes.FunctionType]string{
	nodes.FuncLog10:               "LOG",
	nodes.FuncRand:                "RANDOM",
	nodes.FuncTruncate:            "TRUNC",
	nodes.FuncLastAutoGeneratedId: "LASTVAL",
}

var dateTimeParts = map[nodes.DateTimePart]string{
	nodes.DateTimePartDayOfWeek: "DOW",
	nodes.DateTimePartDayOfYear: "DOY",
}

// NewTranslator returns the translator for a server major version. Servers
// before 10 get serial identity columns.
func NewTranslator(major int) *compiler.Translator {
	if major >= 10 {
		return compiler.MustBuild(compiler.Standard(), V83(), V10())
	}
	return compiler.MustBuild(compiler.Standard(), V83())
}

// V83 returns the PostgreSQL 8.3 layer.
func V83() *compiler.Layer {
	l := compiler.NewLayer("postgresql.v8_3")
	l.Initialize = func(s *compiler.Settings) {
		s.Name = "postgresql"
		s.Quote = quoting.DoubleQuotes
		s.ParameterStyle = compiler.ParameterNumbered
		s.ParameterPrefix = "$"
		s.DateTimeFormat = "2006-01-02 15:04:05.000000"
	}

	l.FunctionName = func(_ *compiler.Translator, _ *compiler.Context, f nodes.FunctionType, base compiler.Fragment) string {
		if name, ok := functionNames[f]; ok {
			return name
		}
		return base()
	}
	l.Literal = func(_ *compiler.Translator, _ *compiler.Context, v any, base compiler.Fragment) string {
		if b, ok := v.([]byte); ok {
			return types.HexLiteral("decode('", b, "', 'hex')")
		}
		return base()
	}
	l.TypeName = typeName
	l.LockHint = func(_ *compiler.Translator, _ *compiler.Context, lock nodes.LockType, base compiler.Fragment) string {
		// SKIP LOCKED arrived in 9.5
		if lock.Supports(nodes.LockSkipLocked) {
			panic(sqlerr.NotSupported(lock.String()))
		}
		return base()
	}
	l.DateTimePart = func(_ *compiler.Translator, _ *compiler.Context, p nodes.DateTimePart, base compiler.Fragment) string {
		if name, ok := dateTimeParts[p]; ok {
			return name
		}
		return base()
	}

	// dml
	l.Text("USING", compiler.DeleteFrom)

	// ddl
	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.CreateTable, _ compiler.Section, _ compiler.Fragment) string {
		if n.Table.Temporary {
			// temporary tables live in a session schema
			return "CREATE TEMPORARY TABLE " + t.Quote(n.Table.NodeDbName())
		}
		return "CREATE TABLE " + t.ObjectName(c, n.Table)
	}), compiler.CreateTableEntry)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, col *model.TableColumn, _ compiler.Section, base compiler.Fragment) string {
		if col.SequenceDescriptor == nil {
			return base()
		}
		if col.DataType.Type == types.Int64 || col.DataType.Type == types.UInt32 {
			return "bigserial"
		}
		return "serial"
	}), compiler.TableColumnType)
	l.Text("", compiler.TableColumnGeneratedEntry, compiler.TableColumnGeneratedExit)
	l.On(func(_ *compiler.Translator, _ *compiler.Context, n any, _ compiler.Section, base compiler.Fragment) string {
		if ownedByColumn(n) {
			return ""
		}
		return base()
	}, compiler.SequenceStartValue, compiler.SequenceIncrement,
		compiler.SequenceMinValue, compiler.SequenceMaxValue, compiler.SequenceCycle)
	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.NextValue, _ compiler.Section, _ compiler.Fragment) string {
		return "NEXTVAL(" + t.QuoteString(t.ObjectName(c, n.Sequence)) + ")"
	}), compiler.NextValueEntry)
	return l
}

// V10 returns the PostgreSQL 10 layer: identity columns, SKIP LOCKED and
// lateral joins.
func V10() *compiler.Layer {
	l := compiler.NewLayer("postgresql.v10")
	l.LockHint = func(_ *compiler.Translator, _ *compiler.Context, lock nodes.LockType, _ compiler.Fragment) string {
		if lock == nodes.LockEmpty {
			return ""
		}
		text := "FOR UPDATE"
		if lock.Supports(nodes.LockShared) && !lock.Supports(nodes.LockUpdate) && !lock.Supports(nodes.LockExclusive) {
			text = "FOR SHARE"
		}
		switch {
		case lock.Supports(nodes.LockSkipLocked):
			text += " SKIP LOCKED"
		case lock.Supports(nodes.LockThrowIfLocked):
			text += " NOWAIT"
		}
		return text
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

	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, col *model.TableColumn, _ compiler.Section, _ compiler.Fragment) string {
		return t.TypeName(col.DataType)
	}), compiler.TableColumnType)
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, col *model.TableColumn, _ compiler.Section, _ compiler.Fragment) string {
		if compiler.HasSequenceOptions(col.SequenceDescriptor) {
			return "GENERATED BY DEFAULT AS IDENTITY ("
		}
		return "GENERATED BY DEFAULT AS IDENTITY"
	}), compiler.TableColumnGeneratedEntry)
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, col *model.TableColumn, _ compiler.Section, _ compiler.Fragment) string {
		if compiler.HasSequenceOptions(col.SequenceDescriptor) {
			return ")"
		}
		return ""
	}), compiler.TableColumnGeneratedExit)
	l.On(func(_ *compiler.Translator, _ *compiler.Context, n any, s compiler.Section, base compiler.Fragment) string {
		if ownedByColumn(n) {
			return compiler.SequenceOption(n.(*model.SequenceDescriptor), s)
		}
		return base()
	}, compiler.SequenceStartValue, compiler.SequenceIncrement,
		compiler.SequenceMinValue, compiler.SequenceMaxValue, compiler.SequenceCycle)
	return l
}

func ownedByColumn(n any) bool {
	d, ok := n.(*model.SequenceDescriptor)
	if !ok || d == nil {
		return false
	}
	_, column := d.Owner.(*model.TableColumn)
	return column
}

func typeName(_ *compiler.Translator, _ *compiler.Context, v types.ValueType, base compiler.Fragment) string {
	if v.TypeName != "" {
		return base()
	}
	switch v.Type {
	case types.Boolean:
		return "boolean"
	case types.Int8, types.UInt8, types.Int16:
		return "smallint"
	case types.UInt16, types.Int32:
		return "integer"
	case types.UInt32, types.Int64:
		return "bigint"
	case types.UInt64:
		return "numeric(20)"
	case types.Decimal:
		return compiler.SizedType("numeric", v)
	case types.Float:
		return "real"
	case types.Double:
		return "double precision"
	case types.DateTime:
		return "timestamp"
	case types.DateTimeOffset:
		return "timestamp with time zone"
	case types.Interval:
		return "interval"
	case types.Char:
		return compiler.SizedType("char", v)
	case types.VarChar:
		return compiler.SizedType("varchar", v)
	case types.VarCharMax:
		return "text"
	case types.Binary, types.VarBinary, types.VarBinaryMax:
		return "bytea"
	case types.Guid:
		return "uuid"
	}
	return base()
}
