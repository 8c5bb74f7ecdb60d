package model

import "github.com/bawdo/sqldom/types"

// Table is a base or temporary table.
type Table struct {
	Named
	Schema      *Schema
	Temporary   bool
	Columns     Collection[*TableColumn]
	Constraints []Constraint
	Indexes     Collection[*Index]
}

// CreateColumn adds a nullable column.
func (t *Table) CreateColumn(name string, dataType types.ValueType) *TableColumn {
	c := &TableColumn{Named: named(name), Table: t, DataType: dataType, IsNullable: true}
	t.Columns.Add(c)
	return c
}

// PrimaryKey returns the table's primary key constraint, if any.
func (t *Table) PrimaryKey() *PrimaryKey {
	for _, c := range t.Constraints {
		if pk, ok := c.(*PrimaryKey); ok {
			return pk
		}
	}
	return nil
}

// CreatePrimaryKey adds a primary key over columns.
func (t *Table) CreatePrimaryKey(name string, columns ...*TableColumn) *PrimaryKey {
	pk := &PrimaryKey{TableConstraint: newTableConstraint(name, t), Columns: columns}
	t.Constraints = append(t.Constraints, pk)
	return pk
}

// CreateUniqueConstraint adds a unique constraint over columns.
func (t *Table) CreateUniqueConstraint(name string, columns ...*TableColumn) *UniqueConstraint {
	u := &UniqueConstraint{TableConstraint: newTableConstraint(name, t), Columns: columns}
	t.Constraints = append(t.Constraints, u)
	return u
}

// CreateForeignKey adds a foreign key. Columns are filled in by the caller.
func (t *Table) CreateForeignKey(name string) *ForeignKey {
	fk := &ForeignKey{TableConstraint: newTableConstraint(name, t)}
	t.Constraints = append(t.Constraints, fk)
	return fk
}

// CreateCheckConstraint adds a check constraint.
func (t *Table) CreateCheckConstraint(name string, condition Expression) *CheckConstraint {
	c := &CheckConstraint{TableConstraint: newTableConstraint(name, t), Condition: condition}
	t.Constraints = append(t.Constraints, c)
	return c
}

// CreateIndex adds an empty index.
func (t *Table) CreateIndex(name string) *Index {
	idx := &Index{Named: named(name), Table: t}
	t.Indexes.Add(idx)
	return idx
}

// TableColumn is a column of a table.
type TableColumn struct {
	Named
	Table              *Table
	DataType           types.ValueType
	IsNullable         bool
	DefaultValue       Expression
	Collation          *Collation
	SequenceDescriptor *SequenceDescriptor
}

// Index is a table index.
type Index struct {
	Named
	Table    *Table
	Columns  []IndexColumn
	IsUnique bool
	Where    Expression
}

// IndexColumn is one key column of an index.
type IndexColumn struct {
	Column    *TableColumn
	Ascending bool
}

// CreateIndexColumn appends a key column.
func (i *Index) CreateIndexColumn(column *TableColumn, ascending bool) {
	i.Columns = append(i.Columns, IndexColumn{Column: column, Ascending: ascending})
}
