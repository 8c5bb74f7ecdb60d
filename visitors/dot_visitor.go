// Package visitors renders node graphs for inspection. DotVisitor writes
// Graphviz DOT; a node reachable along several paths is drawn once with
// an edge from every parent.
package visitors

import (
	"fmt"
	"strings"

	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
)

// Color constants for DOT node categories.
const (
	colorTable      = "#6CA6CD" // tables, aliases, derived tables
	colorAttribute  = "#B0D4E8" // columns, stars
	colorComparison = "#FFB347" // comparisons, predicates
	colorLogical    = "#FFEB80" // AND, OR, NOT
	colorLiteral    = "#D3D3D3" // literals, parameters
	colorJoin       = "#77DD77"
	colorOrdering   = "#CDA0E0"
	colorStatement  = "#FF6961" // DML and DDL statements
	colorArithmetic = "#98FB98"
	colorAction     = "#F4A6C6" // ALTER actions
	colorFunction   = "#87CEEB" // aggregates, functions, casts
)

type dotNode struct {
	id    string
	label string
	color string
}

type dotEdge struct {
	from  string
	to    string
	label string
}

// cluster groups the nodes of one or more subtrees into a DOT subgraph.
type cluster struct {
	name  string
	color string
	roots []nodes.Node
}

// DotVisitor walks a node graph and produces Graphviz DOT output.
// It implements nodes.Visitor.
type DotVisitor struct {
	nextID    int
	nodes     []dotNode
	edges     []dotEdge
	clusters  []cluster
	parentID  string
	edgeLabel string
	last      string

	ids   map[nodes.Node]string
	spans map[nodes.Node][2]int
}

var _ nodes.Visitor = (*DotVisitor)(nil)

// NewDotVisitor creates a new DotVisitor ready to walk a graph.
func NewDotVisitor() *DotVisitor {
	return &DotVisitor{
		ids:   make(map[nodes.Node]string),
		spans: make(map[nodes.Node][2]int),
	}
}

// Render walks n and returns the DOT text.
func Render(n nodes.Node) string {
	dv := NewDotVisitor()
	dv.Walk(n)
	return dv.ToDot()
}

// Walk visits a root node. It may be called for several roots; nodes
// shared between them are drawn once.
func (dv *DotVisitor) Walk(n nodes.Node) string {
	return dv.visitChild("", "", n)
}

// Cluster draws the subtrees under roots inside a labelled, dashed
// subgraph. Roots never walked are ignored.
func (dv *DotVisitor) Cluster(name, color string, roots ...nodes.Node) {
	dv.clusters = append(dv.clusters, cluster{name: name, color: color, roots: roots})
}

// NodeCount returns the number of nodes drawn so far.
func (dv *DotVisitor) NodeCount() int {
	return len(dv.nodes)
}

// enter draws n, links it to the current parent and reports whether the
// caller should describe its children. A node already drawn only gets
// the new edge.
func (dv *DotVisitor) enter(n nodes.Node, label, color string) (string, bool) {
	if id, ok := dv.ids[n]; ok {
		dv.connect(id)
		dv.last = id
		return id, false
	}
	id := fmt.Sprintf("n%d", dv.nextID)
	dv.nextID++
	dv.nodes = append(dv.nodes, dotNode{id: id, label: label, color: color})
	dv.ids[n] = id
	dv.connect(id)
	dv.last = id
	return id, true
}

func (dv *DotVisitor) connect(id string) {
	if dv.parentID != "" {
		dv.edges = append(dv.edges, dotEdge{from: dv.parentID, to: id, label: dv.edgeLabel})
	}
}

// annotate draws a node for a property that has no node of its own,
// such as a lock mode or an ALTER action.
func (dv *DotVisitor) annotate(parentID, edge, label, color string) string {
	id := fmt.Sprintf("n%d", dv.nextID)
	dv.nextID++
	dv.nodes = append(dv.nodes, dotNode{id: id, label: label, color: color})
	dv.edges = append(dv.edges, dotEdge{from: parentID, to: id, label: edge})
	return id
}

// leaf draws a node with no children.
func (dv *DotVisitor) leaf(n nodes.Node, label, color string) {
	dv.enter(n, label, color)
}

// visitChild visits child under parentID with an edge label and returns
// the child's node ID. Nil children are skipped.
func (dv *DotVisitor) visitChild(parentID, label string, child nodes.Node) string {
	if child == nil {
		return ""
	}
	savedParent, savedLabel := dv.parentID, dv.edgeLabel
	dv.parentID, dv.edgeLabel = parentID, label
	start := len(dv.nodes)
	child.Accept(dv)
	if _, seen := dv.spans[child]; !seen {
		dv.spans[child] = [2]int{start, len(dv.nodes)}
	}
	dv.parentID, dv.edgeLabel = savedParent, savedLabel
	return dv.last
}

func (dv *DotVisitor) visitList(parentID, prefix string, items []nodes.Expression) {
	for i, e := range items {
		dv.visitChild(parentID, fmt.Sprintf("%s[%d]", prefix, i), e)
	}
}

// visitModelExpr follows an expression stored in the schema model.
func (dv *DotVisitor) visitModelExpr(parentID, label string, e model.Expression) {
	if n, ok := e.(nodes.Node); ok {
		dv.visitChild(parentID, label, n)
	}
}

// ToDot generates the complete DOT graph text.
func (dv *DotVisitor) ToDot() string {
	var sb strings.Builder

	sb.WriteString("digraph AST {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")

	owner := make(map[int]int) // node index -> cluster index
	for ci, c := range dv.clusters {
		for _, r := range c.roots {
			span, ok := dv.spans[r]
			if !ok {
				continue
			}
			for i := span[0]; i < span[1]; i++ {
				if _, taken := owner[i]; !taken {
					owner[i] = ci
				}
			}
		}
	}

	for i, n := range dv.nodes {
		if _, clustered := owner[i]; !clustered {
			writeNode(&sb, "  ", n)
		}
	}

	for ci, c := range dv.clusters {
		var members []dotNode
		for i, n := range dv.nodes {
			if o, ok := owner[i]; ok && o == ci {
				members = append(members, n)
			}
		}
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  subgraph cluster_%d {\n", ci)
		fmt.Fprintf(&sb, "    label=\"%s\";\n", escapeLabel(c.name))
		sb.WriteString("    style=dashed;\n")
		fmt.Fprintf(&sb, "    color=\"%s\";\n", c.color)
		sb.WriteString("    fontname=\"Helvetica\";\n")
		for _, n := range members {
			writeNode(&sb, "    ", n)
		}
		sb.WriteString("  }\n")
	}

	for _, e := range dv.edges {
		if e.label != "" {
			fmt.Fprintf(&sb, "  %s -> %s [label=\"%s\"];\n", e.from, e.to, escapeLabel(e.label))
		} else {
			fmt.Fprintf(&sb, "  %s -> %s;\n", e.from, e.to)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func writeNode(sb *strings.Builder, indent string, n dotNode) {
	fmt.Fprintf(sb, "%s%s [label=\"%s\", fillcolor=\"%s\"];\n", indent, n.id, escapeLabel(n.label), n.color)
}

// escapeLabel escapes double quotes in DOT labels. Backslash sequences
// like \n are intentional DOT line breaks and are preserved.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}

// --- Statements ---

func (dv *DotVisitor) VisitSelect(n *nodes.Select) {
	label := "Select"
	if n.Distinct {
		label += "\\nDISTINCT"
	}
	id, fresh := dv.enter(n, label, colorStatement)
	if !fresh {
		return
	}
	dv.visitList(id, "COLUMN", n.Columns)
	if n.From != nil {
		dv.visitChild(id, "FROM", n.From)
	}
	dv.visitChild(id, "WHERE", n.Where())
	dv.visitList(id, "GROUP", n.GroupBy)
	dv.visitChild(id, "HAVING", n.Having())
	dv.visitOrders(id, n.OrderBy)
	dv.visitChild(id, "LIMIT", n.Limit)
	dv.visitChild(id, "OFFSET", n.Offset)
	if n.Lock != nodes.LockEmpty {
		dv.annotate(id, "LOCK", "Lock\\n"+n.Lock.String(), colorLogical)
	}
}

func (dv *DotVisitor) visitOrders(parentID string, orders []*nodes.Order) {
	for i, o := range orders {
		dv.visitChild(parentID, fmt.Sprintf("ORDER[%d]", i), o)
	}
}

func (dv *DotVisitor) VisitSetOperation(n *nodes.SetOperation) {
	id, fresh := dv.enter(n, "SetOperation\\n"+n.NodeType().String(), colorLogical)
	if !fresh {
		return
	}
	dv.visitChild(id, "LEFT", n.Left)
	dv.visitChild(id, "RIGHT", n.Right)
	dv.visitOrders(id, n.OrderBy)
	dv.visitChild(id, "LIMIT", n.Limit)
	dv.visitChild(id, "OFFSET", n.Offset)
}

func (dv *DotVisitor) VisitInsert(n *nodes.Insert) {
	id, fresh := dv.enter(n, "Insert", colorStatement)
	if !fresh {
		return
	}
	dv.visitChild(id, "INTO", n.Into)
	for i, c := range n.Columns {
		dv.visitChild(id, fmt.Sprintf("COLUMN[%d]", i), c)
	}
	for i, row := range n.Rows {
		for j, v := range row {
			dv.visitChild(id, fmt.Sprintf("VALUES[%d][%d]", i, j), v)
		}
	}
	if n.From != nil {
		dv.visitChild(id, "SELECT", n.From)
	}
}

func (dv *DotVisitor) VisitUpdate(n *nodes.Update) {
	id, fresh := dv.enter(n, "Update", colorStatement)
	if !fresh {
		return
	}
	dv.visitChild(id, "TABLE", n.Table)
	for i, a := range n.Assignments {
		dv.visitChild(id, fmt.Sprintf("SET[%d]", i), a.Column)
		dv.visitChild(id, fmt.Sprintf("VALUE[%d]", i), a.Value)
	}
	if n.From != nil {
		dv.visitChild(id, "FROM", n.From)
	}
	dv.visitChild(id, "WHERE", n.Where())
	dv.visitChild(id, "LIMIT", n.Limit)
}

func (dv *DotVisitor) VisitDelete(n *nodes.Delete) {
	id, fresh := dv.enter(n, "Delete", colorStatement)
	if !fresh {
		return
	}
	dv.visitChild(id, "TABLE", n.Table)
	if n.From != nil {
		dv.visitChild(id, "USING", n.From)
	}
	dv.visitChild(id, "WHERE", n.Where())
	dv.visitChild(id, "LIMIT", n.Limit)
}

func (dv *DotVisitor) VisitBatch(n *nodes.Batch) {
	id, fresh := dv.enter(n, "Batch", colorStatement)
	if !fresh {
		return
	}
	for i, s := range n.Statements {
		dv.visitChild(id, fmt.Sprintf("[%d]", i), s)
	}
}

// --- Row sources ---

func (dv *DotVisitor) VisitTableRef(n *nodes.TableRef) {
	label := "Table\\n" + n.Name
	if n.Alias != "" {
		label += " AS " + n.Alias
	}
	dv.leaf(n, label, colorTable)
}

func (dv *DotVisitor) VisitQueryRef(n *nodes.QueryRef) {
	label := "QueryRef"
	if n.Alias != "" {
		label += "\\n" + n.Alias
	}
	id, fresh := dv.enter(n, label, colorTable)
	if fresh {
		dv.visitChild(id, "QUERY", n.Query)
	}
}

func (dv *DotVisitor) VisitJoinedTable(n *nodes.JoinedTable) {
	id, fresh := dv.enter(n, "Join\\n"+n.JoinType.String(), colorJoin)
	if !fresh {
		return
	}
	dv.visitChild(id, "LEFT", n.Left)
	dv.visitChild(id, "RIGHT", n.Right)
	dv.visitChild(id, "ON", n.Condition())
}

// --- Leaves ---

func (dv *DotVisitor) VisitColumn(n *nodes.Column) {
	label := "Column\\n"
	if n.IsStar() {
		label = "Star\\n"
	}
	switch t := n.Table.(type) {
	case *nodes.TableRef:
		if t.Alias != "" {
			label += t.Alias + "."
		} else {
			label += t.Name + "."
		}
	case *nodes.QueryRef:
		if t.Alias != "" {
			label += t.Alias + "."
		}
	}
	dv.leaf(n, label+n.Name, colorAttribute)
}

func (dv *DotVisitor) VisitColumnRef(n *nodes.ColumnRef) {
	id, fresh := dv.enter(n, "Alias\\n"+n.Alias, colorAttribute)
	if fresh {
		dv.visitChild(id, "EXPR", n.Expression)
	}
}

func (dv *DotVisitor) VisitLiteral(n *nodes.Literal) {
	dv.leaf(n, fmt.Sprintf("Literal\\n%v", n.Value), colorLiteral)
}

func (dv *DotVisitor) VisitNull(n *nodes.Null) { dv.leaf(n, "Null", colorLiteral) }

func (dv *DotVisitor) VisitDefault(n *nodes.Default) { dv.leaf(n, "Default", colorLiteral) }

func (dv *DotVisitor) VisitParameter(n *nodes.Parameter) {
	label := "Parameter"
	if n.Name != "" {
		label += "\\n@" + n.Name
	}
	dv.leaf(n, label, colorLiteral)
}

func (dv *DotVisitor) VisitNative(n *nodes.Native) { dv.leaf(n, "Native\\n"+n.Text, colorLiteral) }

func (dv *DotVisitor) VisitCursor(n *nodes.Cursor) {
	dv.leaf(n, "CurrentOf\\n"+n.Name, colorComparison)
}

func (dv *DotVisitor) VisitNextValue(n *nodes.NextValue) {
	dv.leaf(n, "NextValue\\n"+n.Sequence.NodeName(), colorFunction)
}

// --- Operators ---

var operatorName = map[nodes.NodeType]string{
	nodes.OpEquals:              "=",
	nodes.OpNotEquals:           "<>",
	nodes.OpGreaterThan:         ">",
	nodes.OpGreaterThanOrEquals: ">=",
	nodes.OpLessThan:            "<",
	nodes.OpLessThanOrEquals:    "<=",
	nodes.OpAnd:                 "AND",
	nodes.OpOr:                  "OR",
	nodes.OpAdd:                 "+",
	nodes.OpSubtract:            "-",
	nodes.OpMultiply:            "*",
	nodes.OpDivide:              "/",
	nodes.OpModulo:              "%",
	nodes.OpConcat:              "||",
	nodes.OpIn:                  "IN",
	nodes.OpNotIn:               "NOT IN",
	nodes.OpNot:                 "NOT",
	nodes.OpNegate:              "-",
	nodes.OpIsNull:              "IS NULL",
	nodes.OpIsNotNull:           "IS NOT NULL",
	nodes.OpExists:              "EXISTS",
}

func opLabel(t nodes.NodeType) string {
	if s, ok := operatorName[t]; ok {
		return s
	}
	return t.String()
}

func operatorColor(t nodes.NodeType) string {
	switch t {
	case nodes.OpAnd, nodes.OpOr, nodes.OpNot:
		return colorLogical
	case nodes.OpAdd, nodes.OpSubtract, nodes.OpMultiply, nodes.OpDivide, nodes.OpModulo, nodes.OpNegate:
		return colorArithmetic
	}
	return colorComparison
}

func (dv *DotVisitor) VisitBinary(n *nodes.Binary) {
	id, fresh := dv.enter(n, "Binary\\n"+opLabel(n.NodeType()), operatorColor(n.NodeType()))
	if !fresh {
		return
	}
	dv.visitChild(id, "LEFT", n.Left)
	dv.visitChild(id, "RIGHT", n.Right)
}

func (dv *DotVisitor) VisitUnary(n *nodes.Unary) {
	id, fresh := dv.enter(n, "Unary\\n"+opLabel(n.NodeType()), operatorColor(n.NodeType()))
	if fresh {
		dv.visitChild(id, "OPERAND", n.Operand)
	}
}

func (dv *DotVisitor) VisitBetween(n *nodes.Between) {
	id, fresh := dv.enter(n, "Between", colorComparison)
	if !fresh {
		return
	}
	dv.visitChild(id, "EXPR", n.Expression)
	dv.visitChild(id, "LOW", n.Low)
	dv.visitChild(id, "HIGH", n.High)
}

func (dv *DotVisitor) VisitLike(n *nodes.Like) {
	label := "Like"
	if n.Not {
		label = "NotLike"
	}
	id, fresh := dv.enter(n, label, colorComparison)
	if !fresh {
		return
	}
	dv.visitChild(id, "EXPR", n.Expression)
	dv.visitChild(id, "PATTERN", n.Pattern)
	dv.visitChild(id, "ESCAPE", n.Escape)
}

func (dv *DotVisitor) VisitRow(n *nodes.Row) {
	id, fresh := dv.enter(n, "Row", colorLiteral)
	if fresh {
		dv.visitList(id, "ITEM", n.Items)
	}
}

func (dv *DotVisitor) VisitSubQuery(n *nodes.SubQuery) {
	id, fresh := dv.enter(n, "SubQuery", colorTable)
	if fresh {
		dv.visitChild(id, "QUERY", n.Query)
	}
}

// --- Functions ---

func (dv *DotVisitor) VisitFunctionCall(n *nodes.FunctionCall) {
	id, fresh := dv.enter(n, "Function\\n"+n.Function.String(), colorFunction)
	if fresh {
		dv.visitList(id, "ARG", n.Arguments)
	}
}

func (dv *DotVisitor) VisitUserFunctionCall(n *nodes.UserFunctionCall) {
	id, fresh := dv.enter(n, "UserFunction\\n"+n.Name, colorFunction)
	if fresh {
		dv.visitList(id, "ARG", n.Arguments)
	}
}

func (dv *DotVisitor) VisitAggregate(n *nodes.Aggregate) {
	label := "Aggregate\\n" + strings.ToUpper(n.NodeType().String())
	if n.Distinct {
		label += " DISTINCT"
	}
	id, fresh := dv.enter(n, label, colorFunction)
	if fresh {
		dv.visitChild(id, "EXPR", n.Expression)
	}
}

func (dv *DotVisitor) VisitCast(n *nodes.Cast) {
	id, fresh := dv.enter(n, "Cast\\n"+n.Type.String(), colorFunction)
	if fresh {
		dv.visitChild(id, "OPERAND", n.Operand)
	}
}

func (dv *DotVisitor) VisitExtract(n *nodes.Extract) {
	part := n.DateTimePart.String()
	if n.IsInterval() {
		part = n.IntervalPart.String()
	}
	id, fresh := dv.enter(n, "Extract\\n"+part, colorFunction)
	if fresh {
		dv.visitChild(id, "OPERAND", n.Operand)
	}
}

func (dv *DotVisitor) VisitTrim(n *nodes.Trim) {
	label := "Trim\\n" + n.TrimType.String()
	if n.Characters != "" {
		label += " '" + n.Characters + "'"
	}
	id, fresh := dv.enter(n, label, colorFunction)
	if fresh {
		dv.visitChild(id, "EXPR", n.Expression)
	}
}

func (dv *DotVisitor) VisitCase(n *nodes.Case) {
	id, fresh := dv.enter(n, "Case", colorLogical)
	if !fresh {
		return
	}
	dv.visitChild(id, "VALUE", n.Value)
	for i, w := range n.Cases {
		dv.visitChild(id, fmt.Sprintf("WHEN[%d]", i), w.When)
		dv.visitChild(id, fmt.Sprintf("THEN[%d]", i), w.Then)
	}
	dv.visitChild(id, "ELSE", n.Else)
}

func (dv *DotVisitor) VisitOrder(n *nodes.Order) {
	dir := "ASC"
	if !n.Ascending {
		dir = "DESC"
	}
	id, fresh := dv.enter(n, "Order\\n"+dir, colorOrdering)
	if fresh {
		dv.visitChild(id, "EXPR", n.Expression)
	}
}

// --- DDL ---

func (dv *DotVisitor) ddl(n nodes.Node, verb string, obj model.Node) (string, bool) {
	return dv.enter(n, verb+"\\n"+obj.NodeDbName(), colorStatement)
}

func (dv *DotVisitor) action(parentID string, a nodes.Action) {
	label := a.ActionName()
	switch x := a.(type) {
	case nodes.AddColumn:
		label += "\\n" + x.Column.NodeDbName()
	case nodes.DropColumn:
		label += "\\n" + x.Column.NodeDbName()
	case nodes.AddConstraint:
		label += "\\n" + x.Constraint.NodeDbName()
	case nodes.DropConstraint:
		label += "\\n" + x.Constraint.NodeDbName()
	case nodes.RenameColumn:
		label += "\\n" + x.Column.NodeDbName() + " -> " + x.NewName
	}
	aid := dv.annotate(parentID, "ACTION", label, colorAction)
	if sd, ok := a.(nodes.SetDefault); ok {
		dv.visitChild(aid, "DEFAULT", sd.Value)
	}
}

func (dv *DotVisitor) VisitCreateTable(n *nodes.CreateTable) {
	id, fresh := dv.ddl(n, "CreateTable", n.Table)
	if !fresh {
		return
	}
	for _, c := range n.Table.Columns.Items() {
		dv.visitModelExpr(id, "DEFAULT "+c.NodeDbName(), c.DefaultValue)
	}
}

func (dv *DotVisitor) VisitAlterTable(n *nodes.AlterTable) {
	if id, fresh := dv.ddl(n, "AlterTable", n.Table); fresh {
		dv.action(id, n.Action)
	}
}

func (dv *DotVisitor) VisitDropTable(n *nodes.DropTable) { dv.ddl(n, "DropTable", n.Table) }

func (dv *DotVisitor) VisitCreateView(n *nodes.CreateView) {
	if id, fresh := dv.ddl(n, "CreateView", n.View); fresh {
		dv.visitModelExpr(id, "AS", n.View.Definition)
	}
}

func (dv *DotVisitor) VisitDropView(n *nodes.DropView) { dv.ddl(n, "DropView", n.View) }

func (dv *DotVisitor) VisitCreateIndex(n *nodes.CreateIndex) {
	if id, fresh := dv.ddl(n, "CreateIndex", n.Index); fresh {
		dv.visitModelExpr(id, "WHERE", n.Index.Where)
	}
}

func (dv *DotVisitor) VisitDropIndex(n *nodes.DropIndex) { dv.ddl(n, "DropIndex", n.Index) }

func (dv *DotVisitor) VisitCreateSequence(n *nodes.CreateSequence) {
	dv.ddl(n, "CreateSequence", n.Sequence)
}

func (dv *DotVisitor) VisitAlterSequence(n *nodes.AlterSequence) {
	dv.ddl(n, "AlterSequence", n.Sequence)
}

func (dv *DotVisitor) VisitDropSequence(n *nodes.DropSequence) {
	dv.ddl(n, "DropSequence", n.Sequence)
}

func (dv *DotVisitor) VisitCreateSchema(n *nodes.CreateSchema) { dv.ddl(n, "CreateSchema", n.Schema) }

func (dv *DotVisitor) VisitDropSchema(n *nodes.DropSchema) { dv.ddl(n, "DropSchema", n.Schema) }

func (dv *DotVisitor) VisitCreateDomain(n *nodes.CreateDomain) {
	id, fresh := dv.ddl(n, "CreateDomain", n.Domain)
	if !fresh {
		return
	}
	dv.visitModelExpr(id, "DEFAULT", n.Domain.DefaultValue)
	for _, c := range n.Domain.Constraints.Items() {
		dv.visitModelExpr(id, "CHECK "+c.NodeDbName(), c.Condition)
	}
}

func (dv *DotVisitor) VisitAlterDomain(n *nodes.AlterDomain) {
	if id, fresh := dv.ddl(n, "AlterDomain", n.Domain); fresh {
		dv.action(id, n.Action)
	}
}

func (dv *DotVisitor) VisitDropDomain(n *nodes.DropDomain) { dv.ddl(n, "DropDomain", n.Domain) }
