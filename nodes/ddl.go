package nodes

import (
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/sqlerr"
)

// Action is one change applied by ALTER TABLE or ALTER DOMAIN.
type Action interface {
	// ActionName is the display name used in not supported errors.
	ActionName() string
	appliesToTable() bool
	appliesToDomain() bool
	cloneAction(c *CloneContext) Action
}

// AddColumn adds a column that already belongs to the table model.
type AddColumn struct{ Column *model.TableColumn }

// DropColumn drops a column.
type DropColumn struct {
	Column  *model.TableColumn
	Cascade bool
}

// AddConstraint adds a table or domain constraint.
type AddConstraint struct{ Constraint model.Constraint }

// DropConstraint drops a table or domain constraint.
type DropConstraint struct {
	Constraint model.Constraint
	Cascade    bool
}

// SetDefault sets the default of a column, or of the domain when Column is nil.
type SetDefault struct {
	Column *model.TableColumn
	Value  Expression
}

// DropDefault drops the default of a column, or of the domain when Column is nil.
type DropDefault struct{ Column *model.TableColumn }

// RenameColumn renames a column.
type RenameColumn struct {
	Column  *model.TableColumn
	NewName string
}

func (AddColumn) ActionName() string      { return "AddColumn" }
func (DropColumn) ActionName() string     { return "DropColumn" }
func (AddConstraint) ActionName() string  { return "AddConstraint" }
func (DropConstraint) ActionName() string { return "DropConstraint" }
func (SetDefault) ActionName() string     { return "SetDefault" }
func (DropDefault) ActionName() string    { return "DropDefault" }
func (RenameColumn) ActionName() string   { return "RenameColumn" }

func (AddColumn) appliesToTable() bool      { return true }
func (DropColumn) appliesToTable() bool     { return true }
func (AddConstraint) appliesToTable() bool  { return true }
func (DropConstraint) appliesToTable() bool { return true }
func (a SetDefault) appliesToTable() bool   { return a.Column != nil }
func (a DropDefault) appliesToTable() bool  { return a.Column != nil }
func (RenameColumn) appliesToTable() bool   { return true }

func (AddColumn) appliesToDomain() bool      { return false }
func (DropColumn) appliesToDomain() bool     { return false }
func (AddConstraint) appliesToDomain() bool  { return true }
func (DropConstraint) appliesToDomain() bool { return true }
func (a SetDefault) appliesToDomain() bool   { return a.Column == nil }
func (a DropDefault) appliesToDomain() bool  { return a.Column == nil }
func (RenameColumn) appliesToDomain() bool   { return false }

func (a AddColumn) cloneAction(*CloneContext) Action      { return a }
func (a DropColumn) cloneAction(*CloneContext) Action     { return a }
func (a AddConstraint) cloneAction(*CloneContext) Action  { return a }
func (a DropConstraint) cloneAction(*CloneContext) Action { return a }
func (a DropDefault) cloneAction(*CloneContext) Action    { return a }
func (a RenameColumn) cloneAction(*CloneContext) Action   { return a }

func (a SetDefault) cloneAction(c *CloneContext) Action {
	return SetDefault{Column: a.Column, Value: cloneExpr(c, a.Value)}
}

func cloneAction(c *CloneContext, a Action) Action {
	if a == nil {
		return nil
	}
	return a.cloneAction(c)
}

// CreateTable is CREATE TABLE for a table model, including its columns and
// table-level constraints.
type CreateTable struct {
	stmtBase
	Table *model.Table
}

// NewCreateTable creates CREATE TABLE t.
func NewCreateTable(t *model.Table) *CreateTable {
	mustNotNil("table", t == nil)
	return &CreateTable{stmtBase: stmtBase{nodeBase{NodeCreate}}, Table: t}
}

func (n *CreateTable) Accept(v Visitor) { v.VisitCreateTable(n) }

func (n *CreateTable) clone(c *CloneContext) Node {
	cl := &CreateTable{stmtBase: n.stmtBase, Table: n.Table}
	c.register(n, cl)
	return cl
}

// AlterTable applies one action to a table.
type AlterTable struct {
	stmtBase
	Table  *model.Table
	Action Action
}

// NewAlterTable creates ALTER TABLE t <action>. It fails with a not
// supported error when the action only applies to domains.
func NewAlterTable(t *model.Table, action Action) (*AlterTable, error) {
	mustNotNil("table", t == nil)
	mustNotNil("action", action == nil)
	if !action.appliesToTable() {
		return nil, sqlerr.NotSupported(action.ActionName())
	}
	return &AlterTable{stmtBase: stmtBase{nodeBase{NodeAlter}}, Table: t, Action: action}, nil
}

func (n *AlterTable) Accept(v Visitor) { v.VisitAlterTable(n) }

func (n *AlterTable) clone(c *CloneContext) Node {
	cl := &AlterTable{stmtBase: n.stmtBase, Table: n.Table}
	c.register(n, cl)
	cl.Action = cloneAction(c, n.Action)
	return cl
}

// DropTable is DROP TABLE.
type DropTable struct {
	stmtBase
	Table   *model.Table
	Cascade bool
}

// NewDropTable creates DROP TABLE t.
func NewDropTable(t *model.Table, cascade bool) *DropTable {
	mustNotNil("table", t == nil)
	return &DropTable{stmtBase: stmtBase{nodeBase{NodeDrop}}, Table: t, Cascade: cascade}
}

func (n *DropTable) Accept(v Visitor) { v.VisitDropTable(n) }

func (n *DropTable) clone(c *CloneContext) Node {
	cl := &DropTable{stmtBase: n.stmtBase, Table: n.Table, Cascade: n.Cascade}
	c.register(n, cl)
	return cl
}

// CreateView is CREATE VIEW name [(columns)] AS definition.
type CreateView struct {
	stmtBase
	View *model.View
}

// NewCreateView creates CREATE VIEW v.
func NewCreateView(v *model.View) *CreateView {
	mustNotNil("view", v == nil)
	return &CreateView{stmtBase: stmtBase{nodeBase{NodeCreate}}, View: v}
}

func (n *CreateView) Accept(v Visitor) { v.VisitCreateView(n) }

func (n *CreateView) clone(c *CloneContext) Node {
	cl := &CreateView{stmtBase: n.stmtBase, View: n.View}
	c.register(n, cl)
	return cl
}

// DropView is DROP VIEW.
type DropView struct {
	stmtBase
	View    *model.View
	Cascade bool
}

// NewDropView creates DROP VIEW v.
func NewDropView(v *model.View, cascade bool) *DropView {
	mustNotNil("view", v == nil)
	return &DropView{stmtBase: stmtBase{nodeBase{NodeDrop}}, View: v, Cascade: cascade}
}

func (n *DropView) Accept(v Visitor) { v.VisitDropView(n) }

func (n *DropView) clone(c *CloneContext) Node {
	cl := &DropView{stmtBase: n.stmtBase, View: n.View, Cascade: n.Cascade}
	c.register(n, cl)
	return cl
}

// CreateIndex is CREATE [UNIQUE] INDEX.
type CreateIndex struct {
	stmtBase
	Index *model.Index
}

// NewCreateIndex creates CREATE INDEX for idx.
func NewCreateIndex(idx *model.Index) *CreateIndex {
	mustNotNil("index", idx == nil)
	return &CreateIndex{stmtBase: stmtBase{nodeBase{NodeCreate}}, Index: idx}
}

func (n *CreateIndex) Accept(v Visitor) { v.VisitCreateIndex(n) }

func (n *CreateIndex) clone(c *CloneContext) Node {
	cl := &CreateIndex{stmtBase: n.stmtBase, Index: n.Index}
	c.register(n, cl)
	return cl
}

// DropIndex is DROP INDEX.
type DropIndex struct {
	stmtBase
	Index *model.Index
}

// NewDropIndex creates DROP INDEX idx.
func NewDropIndex(idx *model.Index) *DropIndex {
	mustNotNil("index", idx == nil)
	return &DropIndex{stmtBase: stmtBase{nodeBase{NodeDrop}}, Index: idx}
}

func (n *DropIndex) Accept(v Visitor) { v.VisitDropIndex(n) }

func (n *DropIndex) clone(c *CloneContext) Node {
	cl := &DropIndex{stmtBase: n.stmtBase, Index: n.Index}
	c.register(n, cl)
	return cl
}

// CreateSequence is CREATE SEQUENCE with the sequence's descriptor.
type CreateSequence struct {
	stmtBase
	Sequence *model.Sequence
}

// NewCreateSequence creates CREATE SEQUENCE s.
func NewCreateSequence(s *model.Sequence) *CreateSequence {
	mustNotNil("sequence", s == nil)
	return &CreateSequence{stmtBase: stmtBase{nodeBase{NodeCreate}}, Sequence: s}
}

func (n *CreateSequence) Accept(v Visitor) { v.VisitCreateSequence(n) }

func (n *CreateSequence) clone(c *CloneContext) Node {
	cl := &CreateSequence{stmtBase: n.stmtBase, Sequence: n.Sequence}
	c.register(n, cl)
	return cl
}

// AlterSequence changes a sequence to match Descriptor. A non-nil
// RestartValue adds RESTART WITH.
type AlterSequence struct {
	stmtBase
	Sequence     *model.Sequence
	Descriptor   *model.SequenceDescriptor
	RestartValue *int64
}

// NewAlterSequence creates ALTER SEQUENCE s with the given descriptor.
func NewAlterSequence(s *model.Sequence, d *model.SequenceDescriptor) *AlterSequence {
	mustNotNil("sequence", s == nil)
	mustNotNil("descriptor", d == nil)
	return &AlterSequence{stmtBase: stmtBase{nodeBase{NodeAlter}}, Sequence: s, Descriptor: d}
}

func (n *AlterSequence) Accept(v Visitor) { v.VisitAlterSequence(n) }

func (n *AlterSequence) clone(c *CloneContext) Node {
	cl := &AlterSequence{stmtBase: n.stmtBase, Sequence: n.Sequence, Descriptor: n.Descriptor, RestartValue: n.RestartValue}
	c.register(n, cl)
	return cl
}

// DropSequence is DROP SEQUENCE.
type DropSequence struct {
	stmtBase
	Sequence *model.Sequence
	Cascade  bool
}

// NewDropSequence creates DROP SEQUENCE s.
func NewDropSequence(s *model.Sequence, cascade bool) *DropSequence {
	mustNotNil("sequence", s == nil)
	return &DropSequence{stmtBase: stmtBase{nodeBase{NodeDrop}}, Sequence: s, Cascade: cascade}
}

func (n *DropSequence) Accept(v Visitor) { v.VisitDropSequence(n) }

func (n *DropSequence) clone(c *CloneContext) Node {
	cl := &DropSequence{stmtBase: n.stmtBase, Sequence: n.Sequence, Cascade: n.Cascade}
	c.register(n, cl)
	return cl
}

// CreateSchema is CREATE SCHEMA.
type CreateSchema struct {
	stmtBase
	Schema *model.Schema
}

// NewCreateSchema creates CREATE SCHEMA s.
func NewCreateSchema(s *model.Schema) *CreateSchema {
	mustNotNil("schema", s == nil)
	return &CreateSchema{stmtBase: stmtBase{nodeBase{NodeCreate}}, Schema: s}
}

func (n *CreateSchema) Accept(v Visitor) { v.VisitCreateSchema(n) }

func (n *CreateSchema) clone(c *CloneContext) Node {
	cl := &CreateSchema{stmtBase: n.stmtBase, Schema: n.Schema}
	c.register(n, cl)
	return cl
}

// DropSchema is DROP SCHEMA.
type DropSchema struct {
	stmtBase
	Schema  *model.Schema
	Cascade bool
}

// NewDropSchema creates DROP SCHEMA s.
func NewDropSchema(s *model.Schema, cascade bool) *DropSchema {
	mustNotNil("schema", s == nil)
	return &DropSchema{stmtBase: stmtBase{nodeBase{NodeDrop}}, Schema: s, Cascade: cascade}
}

func (n *DropSchema) Accept(v Visitor) { v.VisitDropSchema(n) }

func (n *DropSchema) clone(c *CloneContext) Node {
	cl := &DropSchema{stmtBase: n.stmtBase, Schema: n.Schema, Cascade: n.Cascade}
	c.register(n, cl)
	return cl
}

// CreateDomain is CREATE DOMAIN.
type CreateDomain struct {
	stmtBase
	Domain *model.Domain
}

// NewCreateDomain creates CREATE DOMAIN d.
func NewCreateDomain(d *model.Domain) *CreateDomain {
	mustNotNil("domain", d == nil)
	return &CreateDomain{stmtBase: stmtBase{nodeBase{NodeCreate}}, Domain: d}
}

func (n *CreateDomain) Accept(v Visitor) { v.VisitCreateDomain(n) }

func (n *CreateDomain) clone(c *CloneContext) Node {
	cl := &CreateDomain{stmtBase: n.stmtBase, Domain: n.Domain}
	c.register(n, cl)
	return cl
}

// AlterDomain applies one action to a domain.
type AlterDomain struct {
	stmtBase
	Domain *model.Domain
	Action Action
}

// NewAlterDomain creates ALTER DOMAIN d <action>. Column actions fail with
// a not supported error naming the action.
func NewAlterDomain(d *model.Domain, action Action) (*AlterDomain, error) {
	mustNotNil("domain", d == nil)
	mustNotNil("action", action == nil)
	if !action.appliesToDomain() {
		return nil, sqlerr.NotSupported(action.ActionName())
	}
	return &AlterDomain{stmtBase: stmtBase{nodeBase{NodeAlter}}, Domain: d, Action: action}, nil
}

func (n *AlterDomain) Accept(v Visitor) { v.VisitAlterDomain(n) }

func (n *AlterDomain) clone(c *CloneContext) Node {
	cl := &AlterDomain{stmtBase: n.stmtBase, Domain: n.Domain}
	c.register(n, cl)
	cl.Action = cloneAction(c, n.Action)
	return cl
}

// DropDomain is DROP DOMAIN.
type DropDomain struct {
	stmtBase
	Domain  *model.Domain
	Cascade bool
}

// NewDropDomain creates DROP DOMAIN d.
func NewDropDomain(d *model.Domain, cascade bool) *DropDomain {
	mustNotNil("domain", d == nil)
	return &DropDomain{stmtBase: stmtBase{nodeBase{NodeDrop}}, Domain: d, Cascade: cascade}
}

func (n *DropDomain) Accept(v Visitor) { v.VisitDropDomain(n) }

func (n *DropDomain) clone(c *CloneContext) Node {
	cl := &DropDomain{stmtBase: n.stmtBase, Domain: n.Domain, Cascade: n.Cascade}
	c.register(n, cl)
	return cl
}
