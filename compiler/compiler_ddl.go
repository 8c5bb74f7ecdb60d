package compiler

import (
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
)

// VisitCreateTable writes the table with all of its columns and
// constraints.
func (c *Compiler) VisitCreateTable(n *nodes.CreateTable) {
	c.EmitCreateTable(n, n.Table.Constraints)
}

// EmitCreateTable writes CREATE TABLE with the given table constraints.
// Dialects that fold a constraint into a column definition pass the rest.
func (c *Compiler) EmitCreateTable(n *nodes.CreateTable, constraints []model.Constraint) {
	c.EmitSection(n, CreateTableEntry)
	c.EmitSection(n, CreateTableColumnsEntry)
	first := true
	for _, col := range n.Table.Columns.Items() {
		if !first {
			c.EmitSection(n, CreateTableItemDelimiter)
		}
		first = false
		c.EmitColumnDefinition(col)
	}
	for _, con := range constraints {
		if !first {
			c.EmitSection(n, CreateTableItemDelimiter)
		}
		first = false
		c.EmitConstraint(con)
	}
	c.EmitSection(n, CreateTableColumnsExit)
	c.EmitSection(n, CreateTableExit)
}

// EmitColumnDefinition writes name, type, identity, default, collation
// and nullability of a column.
func (c *Compiler) EmitColumnDefinition(col *model.TableColumn) {
	c.EmitSection(col, TableColumnEntry)
	c.EmitSection(col, TableColumnType)
	if col.SequenceDescriptor != nil {
		c.EmitSection(col, TableColumnGeneratedEntry)
		c.EmitSequenceDescriptor(col.SequenceDescriptor)
		c.EmitSection(col, TableColumnGeneratedExit)
	}
	if col.DefaultValue != nil {
		c.EmitSection(col, TableColumnDefault)
		c.VisitModel(col.DefaultValue)
	}
	c.EmitSection(col, TableColumnCollate)
	c.EmitSection(col, TableColumnNullable)
	c.EmitSection(col, TableColumnExit)
}

// EmitSequenceDescriptor writes the options of a sequence or identity.
func (c *Compiler) EmitSequenceDescriptor(d *model.SequenceDescriptor) {
	c.EmitSection(d, SequenceStartValue)
	c.EmitSection(d, SequenceIncrement)
	c.EmitSection(d, SequenceMinValue)
	c.EmitSection(d, SequenceMaxValue)
	c.EmitSection(d, SequenceCycle)
}

// EmitConstraint writes a table or domain constraint definition.
func (c *Compiler) EmitConstraint(con model.Constraint) {
	c.EmitSection(con, ConstraintEntry)
	switch x := con.(type) {
	case *model.PrimaryKey:
		c.emitColumnNames(x.Columns)
	case *model.UniqueConstraint:
		c.emitColumnNames(x.Columns)
	case *model.ForeignKey:
		c.emitColumnNames(x.Columns)
		c.EmitSection(x, ConstraintReferencedTable)
		c.emitColumnNames(x.ReferencedColumns)
	case *model.CheckConstraint:
		c.VisitModel(x.Condition)
	case *model.DomainConstraint:
		c.VisitModel(x.Condition)
	}
	c.EmitSection(con, ConstraintExit)
}

func (c *Compiler) emitColumnNames(cols []*model.TableColumn) {
	for i, col := range cols {
		if i > 0 {
			c.Emit(c.translator.settings.ColumnDelimiter)
		}
		c.Emit(c.translator.Quote(col.NodeDbName()))
	}
}

func (c *Compiler) VisitAlterTable(n *nodes.AlterTable) {
	c.EmitSection(n, AlterTableEntry)
	switch a := n.Action.(type) {
	case nodes.AddColumn:
		c.EmitSection(n, AlterTableAddColumn)
		c.EmitColumnDefinition(a.Column)
	case nodes.DropColumn:
		c.EmitSection(n, AlterTableDropColumn)
		c.Emit(c.translator.Quote(a.Column.NodeDbName()))
		c.EmitSection(n, AlterTableDropBehavior)
	case nodes.AddConstraint:
		c.EmitSection(n, AlterTableAddConstraint)
		c.EmitConstraint(a.Constraint)
	case nodes.DropConstraint:
		c.EmitSection(n, AlterTableDropConstraint)
		c.Emit(c.translator.Quote(a.Constraint.NodeDbName()))
		c.EmitSection(n, AlterTableDropBehavior)
	case nodes.SetDefault:
		c.EmitSection(n, AlterTableSetDefault)
		c.Visit(a.Value)
	case nodes.DropDefault:
		c.EmitSection(n, AlterTableDropDefault)
	case nodes.RenameColumn:
		c.EmitSection(n, AlterTableRenameColumn)
	default:
		panic(sqlerr.NotSupported(n.Action.ActionName()))
	}
	c.EmitSection(n, AlterTableExit)
}

func (c *Compiler) VisitDropTable(n *nodes.DropTable) {
	c.EmitSection(n, DropTableEntry)
	c.EmitSection(n, DropBehavior)
}

// VisitCreateView writes the view header followed by its definition. A
// sub-query definition is written without parentheses.
func (c *Compiler) VisitCreateView(n *nodes.CreateView) {
	c.EmitSection(n, CreateViewEntry)
	c.EmitSection(n, CreateViewColumns)
	c.EmitSection(n, CreateViewAs)
	switch def := n.View.Definition.(type) {
	case *nodes.SubQuery:
		c.Visit(def.Query)
	default:
		c.VisitModel(def)
	}
	c.EmitSection(n, CreateViewExit)
}

func (c *Compiler) VisitDropView(n *nodes.DropView) {
	c.EmitSection(n, DropViewEntry)
	c.EmitSection(n, DropBehavior)
}

func (c *Compiler) VisitCreateIndex(n *nodes.CreateIndex) {
	c.EmitSection(n, CreateIndexEntry)
	c.EmitSection(n, CreateIndexColumnsEntry)
	for i, ic := range n.Index.Columns {
		if i > 0 {
			c.Emit(c.translator.settings.ColumnDelimiter)
		}
		c.Emit(c.translator.Quote(ic.Column.NodeDbName()))
		c.EmitSection(ic, OrderExit)
	}
	c.EmitSection(n, CreateIndexColumnsExit)
	if n.Index.Where != nil {
		c.EmitSection(n, CreateIndexWhere)
		c.VisitModel(n.Index.Where)
	}
	c.EmitSection(n, CreateIndexExit)
}

func (c *Compiler) VisitDropIndex(n *nodes.DropIndex) { c.EmitSection(n, DropIndexEntry) }

func (c *Compiler) VisitCreateSequence(n *nodes.CreateSequence) {
	c.EmitSection(n, CreateSequenceEntry)
	c.EmitSequenceDescriptor(n.Sequence.Descriptor)
	c.EmitSection(n, CreateSequenceExit)
}

func (c *Compiler) VisitAlterSequence(n *nodes.AlterSequence) {
	c.EmitSection(n, AlterSequenceEntry)
	c.EmitSequenceDescriptor(n.Descriptor)
	c.EmitSection(n, AlterSequenceExit)
}

func (c *Compiler) VisitDropSequence(n *nodes.DropSequence) {
	c.EmitSection(n, DropSequenceEntry)
	c.EmitSection(n, DropBehavior)
}

func (c *Compiler) VisitCreateSchema(n *nodes.CreateSchema) { c.EmitSection(n, CreateSchemaEntry) }

func (c *Compiler) VisitDropSchema(n *nodes.DropSchema) {
	c.EmitSection(n, DropSchemaEntry)
	c.EmitSection(n, DropBehavior)
}

func (c *Compiler) VisitCreateDomain(n *nodes.CreateDomain) {
	d := n.Domain
	c.EmitSection(n, CreateDomainEntry)
	if d.DefaultValue != nil {
		c.EmitSection(d, TableColumnDefault)
		c.VisitModel(d.DefaultValue)
	}
	c.EmitSection(d, TableColumnCollate)
	for _, con := range d.Constraints.Items() {
		c.EmitConstraint(con)
	}
	c.EmitSection(n, CreateDomainExit)
}

func (c *Compiler) VisitAlterDomain(n *nodes.AlterDomain) {
	c.EmitSection(n, AlterDomainEntry)
	switch a := n.Action.(type) {
	case nodes.AddConstraint:
		c.EmitSection(n, AlterDomainAddConstraint)
		c.EmitConstraint(a.Constraint)
	case nodes.DropConstraint:
		c.EmitSection(n, AlterDomainDropConstraint)
		c.Emit(c.translator.Quote(a.Constraint.NodeDbName()))
	case nodes.SetDefault:
		c.EmitSection(n, AlterDomainSetDefault)
		c.Visit(a.Value)
	case nodes.DropDefault:
		c.EmitSection(n, AlterDomainDropDefault)
	default:
		panic(sqlerr.NotSupported(n.Action.ActionName()))
	}
	c.EmitSection(n, AlterDomainExit)
}

func (c *Compiler) VisitDropDomain(n *nodes.DropDomain) {
	c.EmitSection(n, DropDomainEntry)
	c.EmitSection(n, DropBehavior)
}
