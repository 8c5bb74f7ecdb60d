// Package nodes defines the SQL expression graph: DML and DDL statements,
// table sources and scalar or boolean expressions. Trees are built once,
// handed to a compiler and discarded; Clone produces an independent copy
// that keeps shared subtrees shared.
package nodes

import "fmt"

// NodeType tags every node with the SQL construct it represents. Binary,
// unary and aggregate nodes carry their operator as the tag.
type NodeType int

const (
	NodeUnknown NodeType = iota
	NodeSelect
	NodeInsert
	NodeUpdate
	NodeDelete
	NodeBatch
	NodeCreate
	NodeAlter
	NodeDrop
	NodeTable
	NodeQueryRef
	NodeJoin
	NodeColumn
	NodeColumnRef
	NodeLiteral
	NodeNull
	NodeDefault
	NodeParameter
	NodeNative
	NodeCursor
	NodeNextValue
	NodeRow
	NodeSubSelect
	NodeFunctionCall
	NodeUserFunctionCall
	NodeCast
	NodeExtract
	NodeTrim
	NodeCase
	NodeOrder
	NodeBetween
	NodeNotBetween
	NodeLike

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpConcat
	OpBitAnd
	OpBitOr
	OpBitXor
	OpEquals
	OpNotEquals
	OpGreaterThan
	OpGreaterThanOrEquals
	OpLessThan
	OpLessThanOrEquals
	OpAnd
	OpOr
	OpIn
	OpNotIn
	OpOverlaps
	OpDateTimePlusInterval
	OpDateTimeMinusInterval
	OpDateTimeMinusDateTime

	OpNot
	OpNegate
	OpBitNot
	OpIsNull
	OpIsNotNull
	OpExists
	OpAll
	OpAny

	OpCount
	OpSum
	OpAvg
	OpMin
	OpMax

	OpUnion
	OpUnionAll
	OpIntersect
	OpExcept

	nodeTypeCount
)

var nodeTypeNames = [...]string{
	NodeUnknown:             "Unknown",
	NodeSelect:              "Select",
	NodeInsert:              "Insert",
	NodeUpdate:              "Update",
	NodeDelete:              "Delete",
	NodeBatch:               "Batch",
	NodeCreate:              "Create",
	NodeAlter:               "Alter",
	NodeDrop:                "Drop",
	NodeTable:               "Table",
	NodeQueryRef:            "QueryRef",
	NodeJoin:                "Join",
	NodeColumn:              "Column",
	NodeColumnRef:           "ColumnRef",
	NodeLiteral:             "Literal",
	NodeNull:                "Null",
	NodeDefault:             "Default",
	NodeParameter:           "Parameter",
	NodeNative:              "Native",
	NodeCursor:              "Cursor",
	NodeNextValue:           "NextValue",
	NodeRow:                 "Row",
	NodeSubSelect:           "SubSelect",
	NodeFunctionCall:        "FunctionCall",
	NodeUserFunctionCall:    "UserFunctionCall",
	NodeCast:                "Cast",
	NodeExtract:             "Extract",
	NodeTrim:                "Trim",
	NodeCase:                "Case",
	NodeOrder:               "Order",
	NodeBetween:             "Between",
	NodeNotBetween:          "NotBetween",
	NodeLike:                "Like",
	OpAdd:                   "Add",
	OpSubtract:              "Subtract",
	OpMultiply:              "Multiply",
	OpDivide:                "Divide",
	OpModulo:                "Modulo",
	OpConcat:                "Concat",
	OpBitAnd:                "BitAnd",
	OpBitOr:                 "BitOr",
	OpBitXor:                "BitXor",
	OpEquals:                "Equals",
	OpNotEquals:             "NotEquals",
	OpGreaterThan:           "GreaterThan",
	OpGreaterThanOrEquals:   "GreaterThanOrEquals",
	OpLessThan:              "LessThan",
	OpLessThanOrEquals:      "LessThanOrEquals",
	OpAnd:                   "And",
	OpOr:                    "Or",
	OpIn:                    "In",
	OpNotIn:                 "NotIn",
	OpOverlaps:              "Overlaps",
	OpDateTimePlusInterval:  "DateTimePlusInterval",
	OpDateTimeMinusInterval: "DateTimeMinusInterval",
	OpDateTimeMinusDateTime: "DateTimeMinusDateTime",
	OpNot:                   "Not",
	OpNegate:                "Negate",
	OpBitNot:                "BitNot",
	OpIsNull:                "IsNull",
	OpIsNotNull:             "IsNotNull",
	OpExists:                "Exists",
	OpAll:                   "All",
	OpAny:                   "Any",
	OpCount:                 "Count",
	OpSum:                   "Sum",
	OpAvg:                   "Avg",
	OpMin:                   "Min",
	OpMax:                   "Max",
	OpUnion:                 "Union",
	OpUnionAll:              "UnionAll",
	OpIntersect:             "Intersect",
	OpExcept:                "Except",
}

func (t NodeType) String() string {
	if t < 0 || t >= nodeTypeCount {
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
	return nodeTypeNames[t]
}

// IsBinaryOperator reports whether t tags a Binary node.
func (t NodeType) IsBinaryOperator() bool { return t >= OpAdd && t <= OpDateTimeMinusDateTime }

// IsUnaryOperator reports whether t tags a Unary node.
func (t NodeType) IsUnaryOperator() bool { return t >= OpNot && t <= OpAny }

// IsAggregate reports whether t tags an Aggregate node.
func (t NodeType) IsAggregate() bool { return t >= OpCount && t <= OpMax }

// IsSetOperator reports whether t tags a SetOperation node.
func (t NodeType) IsSetOperator() bool { return t >= OpUnion && t <= OpExcept }

// NodeTypes returns every defined tag except NodeUnknown.
func NodeTypes() []NodeType {
	out := make([]NodeType, 0, nodeTypeCount-1)
	for t := NodeUnknown + 1; t < nodeTypeCount; t++ {
		out = append(out, t)
	}
	return out
}

// Node is implemented by every element of the graph.
type Node interface {
	NodeType() NodeType
	Accept(v Visitor)
	clone(c *CloneContext) Node
}

// Expression is a scalar or boolean expression.
type Expression interface {
	Node
	SqlExpression()
}

// Statement is a compile unit: a node that can be submitted to a compiler
// on its own.
type Statement interface {
	Node
	CompileUnit()
}

// Query is a statement that produces rows.
type Query interface {
	Statement
	query()
}

// Table is a row source usable in FROM.
type Table interface {
	Node
	tableSource()
}

type nodeBase struct {
	typ NodeType
}

func (b *nodeBase) NodeType() NodeType { return b.typ }

type exprBase struct{ nodeBase }

func (*exprBase) SqlExpression() {}

type stmtBase struct{ nodeBase }

func (*stmtBase) CompileUnit() {}

// Visitor walks the graph. Each concrete node calls back the method for
// its own type from Accept.
type Visitor interface {
	VisitSelect(n *Select)
	VisitSetOperation(n *SetOperation)
	VisitInsert(n *Insert)
	VisitUpdate(n *Update)
	VisitDelete(n *Delete)
	VisitBatch(n *Batch)

	VisitTableRef(n *TableRef)
	VisitQueryRef(n *QueryRef)
	VisitJoinedTable(n *JoinedTable)

	VisitColumn(n *Column)
	VisitColumnRef(n *ColumnRef)
	VisitLiteral(n *Literal)
	VisitNull(n *Null)
	VisitDefault(n *Default)
	VisitParameter(n *Parameter)
	VisitNative(n *Native)
	VisitCursor(n *Cursor)
	VisitNextValue(n *NextValue)
	VisitBinary(n *Binary)
	VisitUnary(n *Unary)
	VisitBetween(n *Between)
	VisitLike(n *Like)
	VisitRow(n *Row)
	VisitSubQuery(n *SubQuery)
	VisitFunctionCall(n *FunctionCall)
	VisitUserFunctionCall(n *UserFunctionCall)
	VisitAggregate(n *Aggregate)
	VisitCast(n *Cast)
	VisitExtract(n *Extract)
	VisitTrim(n *Trim)
	VisitCase(n *Case)
	VisitOrder(n *Order)

	VisitCreateTable(n *CreateTable)
	VisitAlterTable(n *AlterTable)
	VisitDropTable(n *DropTable)
	VisitCreateView(n *CreateView)
	VisitDropView(n *DropView)
	VisitCreateIndex(n *CreateIndex)
	VisitDropIndex(n *DropIndex)
	VisitCreateSequence(n *CreateSequence)
	VisitAlterSequence(n *AlterSequence)
	VisitDropSequence(n *DropSequence)
	VisitCreateSchema(n *CreateSchema)
	VisitDropSchema(n *DropSchema)
	VisitCreateDomain(n *CreateDomain)
	VisitAlterDomain(n *AlterDomain)
	VisitDropDomain(n *DropDomain)
}
