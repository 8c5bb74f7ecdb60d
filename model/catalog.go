package model

import "github.com/bawdo/sqldom/types"

// Catalog is a database.
type Catalog struct {
	Named
	Schemas       Collection[*Schema]
	DefaultSchema *Schema
}

// NewCatalog creates an empty catalog.
func NewCatalog(name string) *Catalog {
	return &Catalog{Named: named(name)}
}

// CreateSchema adds a schema. The first schema becomes the default one.
func (c *Catalog) CreateSchema(name string) *Schema {
	s := &Schema{Named: named(name), Catalog: c}
	c.Schemas.Add(s)
	if c.DefaultSchema == nil {
		c.DefaultSchema = s
	}
	return s
}

// Schema groups tables, views, sequences and domains.
type Schema struct {
	Named
	Catalog    *Catalog
	Tables     Collection[*Table]
	Views      Collection[*View]
	Sequences  Collection[*Sequence]
	Domains    Collection[*Domain]
	Collations Collection[*Collation]
}

// CreateTable adds a table.
func (s *Schema) CreateTable(name string) *Table {
	t := &Table{Named: named(name), Schema: s}
	s.Tables.Add(t)
	return t
}

// CreateTemporaryTable adds a temporary table.
func (s *Schema) CreateTemporaryTable(name string) *Table {
	t := s.CreateTable(name)
	t.Temporary = true
	return t
}

// CreateView adds a view defined by definition.
func (s *Schema) CreateView(name string, definition Expression) *View {
	v := &View{Named: named(name), Schema: s, Definition: definition}
	s.Views.Add(v)
	return v
}

// CreateSequence adds a sequence with a default descriptor (start 1, increment 1).
func (s *Schema) CreateSequence(name string) *Sequence {
	seq := &Sequence{Named: named(name), Schema: s}
	seq.Descriptor = NewSequenceDescriptor(seq, 1, 1)
	s.Sequences.Add(seq)
	return seq
}

// CreateDomain adds a domain over dataType.
func (s *Schema) CreateDomain(name string, dataType types.ValueType) *Domain {
	d := &Domain{Named: named(name), Schema: s, DataType: dataType}
	s.Domains.Add(d)
	return d
}

// CreateCollation adds a collation.
func (s *Schema) CreateCollation(name string) *Collation {
	c := &Collation{Named: named(name), Schema: s}
	s.Collations.Add(c)
	return c
}

// Collation is a named collation.
type Collation struct {
	Named
	Schema *Schema
}

// View is a named query.
type View struct {
	Named
	Schema     *Schema
	Definition Expression
	Columns    []string
}

// Domain is a user-defined type with a default and check constraints.
type Domain struct {
	Named
	Schema       *Schema
	DataType     types.ValueType
	DefaultValue Expression
	Collation    *Collation
	Constraints  Collection[*DomainConstraint]
}

// CreateConstraint adds a check constraint to the domain.
func (d *Domain) CreateConstraint(name string, condition Expression) *DomainConstraint {
	c := &DomainConstraint{Named: named(name), Domain: d, Condition: condition}
	d.Constraints.Add(c)
	return c
}

// Sequence is a named number generator.
type Sequence struct {
	Named
	Schema     *Schema
	Descriptor *SequenceDescriptor
}

// SequenceDescriptor describes a number generator. Its owner is either a
// *Sequence or the identity *TableColumn it feeds.
type SequenceDescriptor struct {
	Owner      Node
	StartValue *int64
	Increment  *int64
	MinValue   *int64
	MaxValue   *int64
	IsCyclic   *bool
}

// NewSequenceDescriptor returns a descriptor with start value and increment set.
func NewSequenceDescriptor(owner Node, start, increment int64) *SequenceDescriptor {
	return &SequenceDescriptor{Owner: owner, StartValue: &start, Increment: &increment}
}
