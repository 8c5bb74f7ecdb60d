// Package testutil provides shared test helpers for the sqldom project.
package testutil

import "github.com/bawdo/sqldom/nodes"

// StubVisitor implements nodes.Visitor by recording the name of every
// method called. It does not descend into children.
type StubVisitor struct {
	Visited []string
}

var _ nodes.Visitor = (*StubVisitor)(nil)

func (sv *StubVisitor) record(name string) { sv.Visited = append(sv.Visited, name) }

// Last returns the most recent visit or "".
func (sv *StubVisitor) Last() string {
	if len(sv.Visited) == 0 {
		return ""
	}
	return sv.Visited[len(sv.Visited)-1]
}

func (sv *StubVisitor) VisitSelect(*nodes.Select)                     { sv.record("Select") }
func (sv *StubVisitor) VisitSetOperation(*nodes.SetOperation)         { sv.record("SetOperation") }
func (sv *StubVisitor) VisitInsert(*nodes.Insert)                     { sv.record("Insert") }
func (sv *StubVisitor) VisitUpdate(*nodes.Update)                     { sv.record("Update") }
func (sv *StubVisitor) VisitDelete(*nodes.Delete)                     { sv.record("Delete") }
func (sv *StubVisitor) VisitBatch(*nodes.Batch)                       { sv.record("Batch") }
func (sv *StubVisitor) VisitTableRef(*nodes.TableRef)                 { sv.record("TableRef") }
func (sv *StubVisitor) VisitQueryRef(*nodes.QueryRef)                 { sv.record("QueryRef") }
func (sv *StubVisitor) VisitJoinedTable(*nodes.JoinedTable)           { sv.record("JoinedTable") }
func (sv *StubVisitor) VisitColumn(*nodes.Column)                     { sv.record("Column") }
func (sv *StubVisitor) VisitColumnRef(*nodes.ColumnRef)               { sv.record("ColumnRef") }
func (sv *StubVisitor) VisitLiteral(*nodes.Literal)                   { sv.record("Literal") }
func (sv *StubVisitor) VisitNull(*nodes.Null)                         { sv.record("Null") }
func (sv *StubVisitor) VisitDefault(*nodes.Default)                   { sv.record("Default") }
func (sv *StubVisitor) VisitParameter(*nodes.Parameter)               { sv.record("Parameter") }
func (sv *StubVisitor) VisitNative(*nodes.Native)                     { sv.record("Native") }
func (sv *StubVisitor) VisitCursor(*nodes.Cursor)                     { sv.record("Cursor") }
func (sv *StubVisitor) VisitNextValue(*nodes.NextValue)               { sv.record("NextValue") }
func (sv *StubVisitor) VisitBinary(*nodes.Binary)                     { sv.record("Binary") }
func (sv *StubVisitor) VisitUnary(*nodes.Unary)                       { sv.record("Unary") }
func (sv *StubVisitor) VisitBetween(*nodes.Between)                   { sv.record("Between") }
func (sv *StubVisitor) VisitLike(*nodes.Like)                         { sv.record("Like") }
func (sv *StubVisitor) VisitRow(*nodes.Row)                           { sv.record("Row") }
func (sv *StubVisitor) VisitSubQuery(*nodes.SubQuery)                 { sv.record("SubQuery") }
func (sv *StubVisitor) VisitFunctionCall(*nodes.FunctionCall)         { sv.record("FunctionCall") }
func (sv *StubVisitor) VisitUserFunctionCall(*nodes.UserFunctionCall) { sv.record("UserFunctionCall") }
func (sv *StubVisitor) VisitAggregate(*nodes.Aggregate)               { sv.record("Aggregate") }
func (sv *StubVisitor) VisitCast(*nodes.Cast)                         { sv.record("Cast") }
func (sv *StubVisitor) VisitExtract(*nodes.Extract)                   { sv.record("Extract") }
func (sv *StubVisitor) VisitTrim(*nodes.Trim)                         { sv.record("Trim") }
func (sv *StubVisitor) VisitCase(*nodes.Case)                         { sv.record("Case") }
func (sv *StubVisitor) VisitOrder(*nodes.Order)                       { sv.record("Order") }
func (sv *StubVisitor) VisitCreateTable(*nodes.CreateTable)           { sv.record("CreateTable") }
func (sv *StubVisitor) VisitAlterTable(*nodes.AlterTable)             { sv.record("AlterTable") }
func (sv *StubVisitor) VisitDropTable(*nodes.DropTable)               { sv.record("DropTable") }
func (sv *StubVisitor) VisitCreateView(*nodes.CreateView)             { sv.record("CreateView") }
func (sv *StubVisitor) VisitDropView(*nodes.DropView)                 { sv.record("DropView") }
func (sv *StubVisitor) VisitCreateIndex(*nodes.CreateIndex)           { sv.record("CreateIndex") }
func (sv *StubVisitor) VisitDropIndex(*nodes.DropIndex)               { sv.record("DropIndex") }
func (sv *StubVisitor) VisitCreateSequence(*nodes.CreateSequence)     { sv.record("CreateSequence") }
func (sv *StubVisitor) VisitAlterSequence(*nodes.AlterSequence)       { sv.record("AlterSequence") }
func (sv *StubVisitor) VisitDropSequence(*nodes.DropSequence)         { sv.record("DropSequence") }
func (sv *StubVisitor) VisitCreateSchema(*nodes.CreateSchema)         { sv.record("CreateSchema") }
func (sv *StubVisitor) VisitDropSchema(*nodes.DropSchema)             { sv.record("DropSchema") }
func (sv *StubVisitor) VisitCreateDomain(*nodes.CreateDomain)         { sv.record("CreateDomain") }
func (sv *StubVisitor) VisitAlterDomain(*nodes.AlterDomain)           { sv.record("AlterDomain") }
func (sv *StubVisitor) VisitDropDomain(*nodes.DropDomain)             { sv.record("DropDomain") }
