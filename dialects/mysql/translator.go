// Package mysql translates nodes into MySQL SQL for servers 5.0 through 8.x
// and reads MySQL schemas through information_schema. Importing the package
// registers the "mysql" provider and the go-sql-driver/mysql driver.
package mysql

import (
	"strconv"
	"time"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/internal/quoting"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

// UnboundedLimit is the largest row count LIMIT accepts.
const UnboundedLimit = "18446744073709551615"

var functionNames = map[nodes.FunctionType]string{
	nodes.FuncBinaryLength:        "LENGTH",
	nodes.FuncConcat:              "CONCAT",
	nodes.FuncLastAutoGeneratedId: "LAST_INSERT_ID",
	nodes.FuncSessionUser:         "SESSION_USER()",
	nodes.FuncSystemUser:          "SYSTEM_USER()",
}

// NewTranslator returns the translator for a server version.
func NewTranslator(v Version) *compiler.Translator {
	layers := []*compiler.Layer{V50()}
	if v >= Version56 {
		layers = append(layers, V56())
	}
	if v >= Version57 {
		layers = append(layers, V57())
	}
	if v >= Version80 {
		layers = append(layers, V80())
	}
	return compiler.MustBuild(compiler.Standard(), layers...)
}

// Version selects the layer chain of NewTranslator.
type Version int

const (
	Version50 Version = iota
	Version56
	Version57
	Version80
)

// V50 returns the MySQL 5.0 layer.
func V50() *compiler.Layer {
	l := compiler.NewLayer("mysql.v5_0")
	l.Initialize = func(s *compiler.Settings) {
		s.Name = "mysql"
		s.Quote = quoting.Backticks
		s.ParameterStyle = compiler.ParameterPositional
		s.ParameterPrefix = "?"
		s.BatchItemDelimiter = ";\n"
		s.DateTimeFormat = "2006-01-02 15:04:05"
		s.DecimalSeparator = "."
		s.UnboundedLimit = UnboundedLimit
		s.StringEscapeBackslash = true
	}

	l.FunctionName = func(_ *compiler.Translator, _ *compiler.Context, f nodes.FunctionType, base compiler.Fragment) string {
		if name, ok := functionNames[f]; ok {
			return name
		}
		return base()
	}
	l.OperatorName = func(_ *compiler.Translator, _ *compiler.Context, op nodes.NodeType, base compiler.Fragment) string {
		switch op {
		case nodes.OpIntersect, nodes.OpExcept, nodes.OpOverlaps:
			panic(sqlerr.NotSupported(op.String()))
		}
		return base()
	}
	l.Literal = func(_ *compiler.Translator, _ *compiler.Context, v any, base compiler.Fragment) string {
		if d, ok := v.(time.Duration); ok {
			// intervals are stored as milliseconds
			return strconv.FormatInt(d.Milliseconds(), 10)
		}
		return base()
	}
	l.TypeName = typeName
	l.LockHint = func(_ *compiler.Translator, _ *compiler.Context, lock nodes.LockType, _ compiler.Fragment) string {
		return lockHint(lock, false)
	}
	l.JoinType = func(_ *compiler.Translator, _ *compiler.Context, j *nodes.JoinedTable, base compiler.Fragment) string {
		if j.JoinType == nodes.FullOuterJoin {
			panic(sqlerr.NotSupported(j.JoinType.String()))
		}
		return base()
	}
	l.ObjectName = func(t *compiler.Translator, _ *compiler.Context, n model.Node, _ compiler.Fragment) string {
		// a schema is a database; names never carry a catalog part
		if s, ok := n.(*model.Schema); ok {
			return t.Quote(s.NodeDbName())
		}
		if s := compiler.SchemaOf(n); s != nil {
			return t.QuoteQualified(s.NodeDbName(), n.NodeDbName())
		}
		return t.Quote(n.NodeDbName())
	}

	// dml
	l.On(compiler.Unsupported("UpdateFrom"), compiler.UpdateFrom)
	l.Text("LIMIT", compiler.UpdateLimit, compiler.DeleteLimit)
	l.Text("USING", compiler.DeleteFrom)

	// expressions
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.Cast, _ compiler.Section, _ compiler.Fragment) string {
		return "AS " + castType(n.Type, false) + ")"
	}), compiler.CastExit)

	ddlRules(l)
	return l
}

// V56 returns the MySQL 5.6 layer: fractional seconds.
func V56() *compiler.Layer {
	l := compiler.NewLayer("mysql.v5_6")
	l.Initialize = func(s *compiler.Settings) {
		s.DateTimeFormat = "2006-01-02 15:04:05.000000"
	}
	l.TypeName = func(_ *compiler.Translator, _ *compiler.Context, v types.ValueType, base compiler.Fragment) string {
		if v.TypeName == "" && v.Type == types.DateTime {
			return "datetime(6)"
		}
		return base()
	}
	return l
}

// V57 returns the MySQL 5.7 layer. Casts to DATETIME keep the fractional
// seconds.
func V57() *compiler.Layer {
	l := compiler.NewLayer("mysql.v5_7")
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.Cast, _ compiler.Section, base compiler.Fragment) string {
		if n.Type.Type == types.DateTime {
			return "AS DATETIME(6))"
		}
		return base()
	}), compiler.CastExit)
	return l
}

// V80 returns the MySQL 8.0 layer: FOR SHARE locks with SKIP LOCKED and
// NOWAIT, RENAME COLUMN and floating point casts.
func V80() *compiler.Layer {
	l := compiler.NewLayer("mysql.v8_0")
	l.LockHint = func(_ *compiler.Translator, _ *compiler.Context, lock nodes.LockType, _ compiler.Fragment) string {
		return lockHint(lock, true)
	}
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.Cast, _ compiler.Section, base compiler.Fragment) string {
		switch n.Type.Type {
		case types.Float, types.Double:
			return "AS " + castType(n.Type, true) + ")"
		}
		return base()
	}), compiler.CastExit)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.AlterTable, _ compiler.Section, _ compiler.Fragment) string {
		a := n.Action.(nodes.RenameColumn)
		return "RENAME COLUMN " + t.Quote(a.Column.NodeDbName()) + " TO " + t.Quote(a.NewName)
	}), compiler.AlterTableRenameColumn)
	return l
}

func ddlRules(l *compiler.Layer) {
	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.CreateTable, _ compiler.Section, _ compiler.Fragment) string {
		if n.Table.Temporary {
			return "CREATE TEMPORARY TABLE " + t.ObjectName(c, n.Table)
		}
		return "CREATE TABLE " + t.ObjectName(c, n.Table)
	}), compiler.CreateTableEntry)
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.CreateTable, _ compiler.Section, _ compiler.Fragment) string {
		for _, col := range n.Table.Columns.Items() {
			if d := col.SequenceDescriptor; d != nil && d.StartValue != nil && *d.StartValue != 1 {
				return "AUTO_INCREMENT=" + strconv.FormatInt(*d.StartValue, 10)
			}
		}
		return ""
	}), compiler.CreateTableExit)

	l.Text("", compiler.TableColumnGeneratedEntry, compiler.TableColumnGeneratedExit)
	l.Text("", compiler.SequenceStartValue, compiler.SequenceIncrement,
		compiler.SequenceMinValue, compiler.SequenceMaxValue, compiler.SequenceCycle)
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, col *model.TableColumn, _ compiler.Section, _ compiler.Fragment) string {
		if col.SequenceDescriptor != nil {
			return "AUTO_INCREMENT"
		}
		return ""
	}), compiler.TableColumnExit)
	l.On(func(_ *compiler.Translator, _ *compiler.Context, n any, _ compiler.Section, _ compiler.Fragment) string {
		if coll := compiler.CollationOf(n); coll != nil {
			return "COLLATE " + coll.NodeDbName()
		}
		return ""
	}, compiler.TableColumnCollate)

	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.AlterTable, _ compiler.Section, _ compiler.Fragment) string {
		switch n.Action.(nodes.DropConstraint).Constraint.(type) {
		case *model.ForeignKey:
			return "DROP FOREIGN KEY"
		case *model.UniqueConstraint:
			return "DROP INDEX"
		case *model.CheckConstraint:
			return "DROP CHECK"
		}
		return "DROP CONSTRAINT"
	}), compiler.AlterTableDropConstraint)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.AlterTable, _ compiler.Section, _ compiler.Fragment) string {
		a := n.Action.(nodes.RenameColumn)
		text := "CHANGE COLUMN " + t.Quote(a.Column.NodeDbName()) + " " + t.Quote(a.NewName) + " " + t.TypeName(a.Column.DataType)
		if a.Column.IsNullable {
			return text + " NULL"
		}
		return text + " NOT NULL"
	}), compiler.AlterTableRenameColumn)
	l.Text("", compiler.AlterTableDropBehavior, compiler.DropBehavior)

	l.On(compiler.Unsupported("FilteredIndex"), compiler.CreateIndexWhere)
	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.DropIndex, _ compiler.Section, _ compiler.Fragment) string {
		return "DROP INDEX " + t.Quote(n.Index.NodeDbName()) + " ON " + t.ObjectName(c, n.Index.Table)
	}), compiler.DropIndexEntry)

	l.On(compiler.Unsupported("Sequence"), compiler.CreateSequenceEntry, compiler.AlterSequenceEntry, compiler.DropSequenceEntry)
	l.On(compiler.Unsupported("NextValue"), compiler.NextValueEntry)
	l.On(compiler.Unsupported("Domain"), compiler.CreateDomainEntry, compiler.AlterDomainEntry, compiler.DropDomainEntry)
}

func lockHint(lock nodes.LockType, modern bool) string {
	if lock == nodes.LockEmpty {
		return ""
	}
	shared := lock.Supports(nodes.LockShared) && !lock.Supports(nodes.LockUpdate) && !lock.Supports(nodes.LockExclusive)
	if !modern {
		if lock.Supports(nodes.LockSkipLocked) || lock.Supports(nodes.LockThrowIfLocked) {
			panic(sqlerr.NotSupported(lock.String()))
		}
		if shared {
			return "LOCK IN SHARE MODE"
		}
		return "FOR UPDATE"
	}
	text := "FOR UPDATE"
	if shared {
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

// castType returns the CAST target for v. CAST accepts only a few type
// names; floating point targets exist from 8.0.
func castType(v types.ValueType, floats bool) string {
	switch v.Type {
	case types.Boolean, types.Int8, types.Int16, types.Int32, types.Int64, types.Interval:
		return "SIGNED"
	case types.UInt8, types.UInt16, types.UInt32, types.UInt64:
		return "UNSIGNED"
	case types.Decimal:
		return compiler.SizedType("DECIMAL", v)
	case types.Float:
		if floats {
			return "FLOAT"
		}
		return "DECIMAL(65,30)"
	case types.Double:
		if floats {
			return "DOUBLE"
		}
		return "DECIMAL(65,30)"
	case types.DateTime:
		return "DATETIME"
	case types.Char, types.VarChar, types.VarCharMax:
		return compiler.SizedType("CHAR", types.WithLength(types.Char, v.Length))
	case types.Binary, types.VarBinary, types.VarBinaryMax:
		return compiler.SizedType("BINARY", types.WithLength(types.Binary, v.Length))
	case types.Guid:
		return "CHAR(36)"
	}
	panic(sqlerr.NotSupported(v.String()))
}

func typeName(_ *compiler.Translator, _ *compiler.Context, v types.ValueType, base compiler.Fragment) string {
	if v.TypeName != "" {
		return base()
	}
	switch v.Type {
	case types.Boolean:
		return "bit"
	case types.Int8:
		return "tinyint"
	case types.UInt8:
		return "tinyint unsigned"
	case types.Int16:
		return "smallint"
	case types.UInt16:
		return "smallint unsigned"
	case types.Int32:
		return "int"
	case types.UInt32:
		return "int unsigned"
	case types.Int64, types.Interval:
		return "bigint"
	case types.UInt64:
		return "bigint unsigned"
	case types.Decimal:
		return compiler.SizedType("decimal", v)
	case types.Float:
		return "float"
	case types.Double:
		return "double"
	case types.DateTime:
		return "datetime"
	case types.DateTimeOffset:
		panic(sqlerr.NotSupported(v.String()))
	case types.Char:
		return compiler.SizedType("char", v)
	case types.VarChar:
		return compiler.SizedType("varchar", v)
	case types.VarCharMax:
		return "longtext"
	case types.Binary:
		return compiler.SizedType("binary", v)
	case types.VarBinary:
		return compiler.SizedType("varbinary", v)
	case types.VarBinaryMax:
		return "longblob"
	case types.Guid:
		return "char(36)"
	}
	return base()
}
