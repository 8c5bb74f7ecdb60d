// Package oracle translates nodes into Oracle SQL for servers 9i and
// later. Schema extraction is not implemented for Oracle.
package oracle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/internal/quoting"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

// MaxIdentifierLength is the longest name Oracle accepts before 12.2.
const MaxIdentifierLength = 30

var functionNames = map[nodes.FunctionType]string{
	nodes.FuncCeiling:      "CEIL",
	nodes.FuncCharLength:   "LENGTH",
	nodes.FuncBinaryLength: "LENGTHB",
	nodes.FuncSubstring:    "SUBSTR",
	nodes.FuncTruncate:     "TRUNC",
	nodes.FuncCurrentDate:  "TRUNC(CURRENT_DATE)",
	nodes.FuncCurrentUser:  "USER",
	nodes.FuncSessionUser:  "USER",
	nodes.FuncSystemUser:   "USER",
}

// NewTranslator returns the translator for a server major version.
func NewTranslator(major int) *compiler.Translator {
	layers := []*compiler.Layer{V09()}
	if major >= 11 {
		layers = append(layers, V11())
	}
	if major >= 12 {
		layers = append(layers, V12())
	}
	return compiler.MustBuild(compiler.Standard(), layers...)
}

// V09 returns the Oracle 9i layer. Paging is done with ROWNUM by the
// compiler and identity columns are not available.
func V09() *compiler.Layer {
	l := compiler.NewLayer("oracle.v09")
	l.Initialize = func(s *compiler.Settings) {
		s.Name = "oracle"
		s.Quote = quoting.DoubleQuotes
		s.ParameterStyle = compiler.ParameterNamed
		s.ParameterPrefix = ":"
		s.DateTimeFormat = "2006-01-02 15:04:05.000000"
	}

	l.FunctionName = func(_ *compiler.Translator, _ *compiler.Context, f nodes.FunctionType, base compiler.Fragment) string {
		if name, ok := functionNames[f]; ok {
			return name
		}
		if f == nodes.FuncCurrentTime {
			panic(sqlerr.NotSupported(f.String()))
		}
		return base()
	}
	l.OperatorName = func(_ *compiler.Translator, _ *compiler.Context, op nodes.NodeType, base compiler.Fragment) string {
		if op == nodes.OpExcept {
			return "MINUS"
		}
		return base()
	}
	l.Literal = literal
	l.TypeName = typeName
	l.LockHint = func(_ *compiler.Translator, _ *compiler.Context, lock nodes.LockType, _ compiler.Fragment) string {
		if lock.Supports(nodes.LockSkipLocked) {
			panic(sqlerr.NotSupported(lock.String()))
		}
		return lockHint(lock)
	}
	l.ReferentialAction = func(_ *compiler.Translator, _ *compiler.Context, a model.ReferentialAction, base compiler.Fragment) string {
		switch a {
		case model.Restrict, model.SetDefault:
			panic(sqlerr.NotSupported(a.String()))
		}
		return base()
	}
	l.ObjectName = func(_ *compiler.Translator, _ *compiler.Context, n model.Node, base compiler.Fragment) string {
		if name := n.NodeDbName(); len(name) > MaxIdentifierLength {
			panic(sqlerr.Argument("name", fmt.Sprintf("%q is longer than %d characters", name, MaxIdentifierLength)))
		}
		return base()
	}

	// table aliases take no AS
	l.Text("", compiler.TableRefAlias, compiler.QueryRefAlias)

	// ddl
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.CreateTable, _ compiler.Section, _ compiler.Fragment) string {
		if n.Table.Temporary {
			return "ON COMMIT PRESERVE ROWS"
		}
		return ""
	}), compiler.CreateTableExit)
	l.On(compiler.Unsupported("Identity"), compiler.TableColumnGeneratedEntry)
	l.On(func(_ *compiler.Translator, _ *compiler.Context, n any, _ compiler.Section, _ compiler.Fragment) string {
		if compiler.CollationOf(n) != nil {
			panic(sqlerr.NotSupported("Collation"))
		}
		return ""
	}, compiler.TableColumnCollate)
	l.On(func(t *compiler.Translator, _ *compiler.Context, n any, _ compiler.Section, base compiler.Fragment) string {
		fk, ok := n.(*model.ForeignKey)
		if !ok {
			return base()
		}
		if fk.OnUpdate != model.NoAction {
			panic(sqlerr.NotSupported("OnUpdate"))
		}
		if fk.OnDelete != model.NoAction {
			return ") ON DELETE " + t.ReferentialAction(fk.OnDelete)
		}
		return ")"
	}, compiler.ConstraintExit)

	l.Text("ADD", compiler.AlterTableAddColumn)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.AlterTable, _ compiler.Section, _ compiler.Fragment) string {
		return "MODIFY " + t.Quote(compiler.ActionColumn(n.Action).NodeDbName()) + " DEFAULT"
	}), compiler.AlterTableSetDefault)
	l.On(compiler.Handle(func(t *compiler.Translator, _ *compiler.Context, n *nodes.AlterTable, _ compiler.Section, _ compiler.Fragment) string {
		return "MODIFY " + t.Quote(compiler.ActionColumn(n.Action).NodeDbName()) + " DEFAULT NULL"
	}), compiler.AlterTableDropDefault)
	l.On(func(_ *compiler.Translator, _ *compiler.Context, n any, _ compiler.Section, _ compiler.Fragment) string {
		return dropBehavior(n)
	}, compiler.AlterTableDropBehavior, compiler.DropBehavior)

	l.On(func(_ *compiler.Translator, _ *compiler.Context, n any, _ compiler.Section, base compiler.Fragment) string {
		if d, ok := n.(*model.SequenceDescriptor); ok && d != nil && d.IsCyclic != nil && !*d.IsCyclic {
			return "NOCYCLE"
		}
		return base()
	}, compiler.SequenceCycle)
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, n *nodes.AlterSequence, _ compiler.Section, _ compiler.Fragment) string {
		if n.RestartValue != nil {
			panic(sqlerr.NotSupported("RestartSequence"))
		}
		return ""
	}), compiler.AlterSequenceExit)
	l.On(compiler.Handle(func(t *compiler.Translator, c *compiler.Context, n *nodes.NextValue, _ compiler.Section, _ compiler.Fragment) string {
		return t.ObjectName(c, n.Sequence) + ".NEXTVAL"
	}), compiler.NextValueEntry)

	// a schema is a user
	l.On(compiler.Unsupported("CreateSchema"), compiler.CreateSchemaEntry)
	l.On(compiler.Unsupported("DropSchema"), compiler.DropSchemaEntry)
	l.On(compiler.Unsupported("Domain"), compiler.CreateDomainEntry, compiler.AlterDomainEntry, compiler.DropDomainEntry)
	return l
}

// V11 returns the Oracle 11g layer: SKIP LOCKED.
func V11() *compiler.Layer {
	l := compiler.NewLayer("oracle.v11")
	l.LockHint = func(_ *compiler.Translator, _ *compiler.Context, lock nodes.LockType, _ compiler.Fragment) string {
		return lockHint(lock)
	}
	return l
}

// V12 returns the Oracle 12c layer: OFFSET/FETCH paging, identity
// columns and lateral APPLY joins.
func V12() *compiler.Layer {
	l := compiler.NewLayer("oracle.v12")
	l.Initialize = func(s *compiler.Settings) {
		s.Paging = compiler.PagingOffsetFetch
	}
	l.JoinType = func(_ *compiler.Translator, _ *compiler.Context, j *nodes.JoinedTable, base compiler.Fragment) string {
		switch j.JoinType {
		case nodes.CrossApply:
			return "CROSS APPLY"
		case nodes.OuterApply:
			return "OUTER APPLY"
		}
		return base()
	}
	l.On(compiler.Handle(func(_ *compiler.Translator, _ *compiler.Context, col *model.TableColumn, _ compiler.Section, _ compiler.Fragment) string {
		if compiler.HasSequenceOptions(col.SequenceDescriptor) {
			return "GENERATED BY DEFAULT AS IDENTITY ("
		}
		return "GENERATED BY DEFAULT AS IDENTITY"
	}), compiler.TableColumnGeneratedEntry)
	return l
}

// lockHint writes FOR UPDATE with its wait option. Oracle has no shared
// row lock.
func lockHint(lock nodes.LockType) string {
	if lock == nodes.LockEmpty {
		return ""
	}
	if lock.Supports(nodes.LockShared) && !lock.Supports(nodes.LockUpdate) && !lock.Supports(nodes.LockExclusive) {
		panic(sqlerr.NotSupported(lock.String()))
	}
	switch {
	case lock.Supports(nodes.LockSkipLocked):
		return "FOR UPDATE SKIP LOCKED"
	case lock.Supports(nodes.LockThrowIfLocked):
		return "FOR UPDATE NOWAIT"
	}
	return "FOR UPDATE"
}

func dropBehavior(n any) string {
	if !compiler.IsCascade(n) {
		return ""
	}
	switch x := n.(type) {
	case *nodes.DropSequence:
		return ""
	case *nodes.AlterTable:
		if _, ok := x.Action.(nodes.DropConstraint); ok {
			return "CASCADE"
		}
	}
	return "CASCADE CONSTRAINTS"
}

func literal(t *compiler.Translator, _ *compiler.Context, v any, base compiler.Fragment) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "1"
		}
		return "0"
	case []byte:
		return types.HexLiteral("HEXTORAW('", x, "')")
	case uuid.UUID:
		return types.HexLiteral("HEXTORAW('", x[:], "')")
	case time.Time:
		return "TIMESTAMP '" + x.Format(t.Settings().DateTimeFormat) + "'"
	case time.Duration:
		// the default day precision of 2 is too small for long spans
		return strings.Replace(compiler.IntervalLiteral(x), "DAY TO SECOND", "DAY(9) TO SECOND(3)", 1)
	}
	return base()
}

func typeName(_ *compiler.Translator, _ *compiler.Context, v types.ValueType, base compiler.Fragment) string {
	if v.TypeName != "" {
		return base()
	}
	switch v.Type {
	case types.Boolean:
		return "NUMBER(1)"
	case types.Int8, types.UInt8:
		return "NUMBER(3)"
	case types.Int16, types.UInt16:
		return "NUMBER(5)"
	case types.Int32, types.UInt32:
		return "NUMBER(10)"
	case types.Int64:
		return "NUMBER(19)"
	case types.UInt64:
		return "NUMBER(20)"
	case types.Decimal:
		return compiler.SizedType("NUMBER", v)
	case types.Float:
		return "BINARY_FLOAT"
	case types.Double:
		return "BINARY_DOUBLE"
	case types.Interval:
		return "INTERVAL DAY(9) TO SECOND(3)"
	case types.Char:
		return compiler.SizedType("NCHAR", v)
	case types.VarChar:
		if v.Length == 0 {
			return "NVARCHAR2(2000)"
		}
		return compiler.SizedType("NVARCHAR2", v)
	case types.VarCharMax:
		return "NCLOB"
	case types.Binary, types.VarBinary:
		if v.Length == 0 {
			return "RAW(2000)"
		}
		return compiler.SizedType("RAW", v)
	case types.Guid:
		return "RAW(16)"
	}
	return base()
}
