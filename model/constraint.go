package model

// ReferentialAction is the action taken on referencing rows.
type ReferentialAction int

const (
	NoAction ReferentialAction = iota
	Restrict
	Cascade
	SetNull
	SetDefault
)

var referentialActionNames = [...]string{
	NoAction:   "NoAction",
	Restrict:   "Restrict",
	Cascade:    "Cascade",
	SetNull:    "SetNull",
	SetDefault: "SetDefault",
}

func (a ReferentialAction) String() string {
	if a < 0 || int(a) >= len(referentialActionNames) {
		return "ReferentialAction(?)"
	}
	return referentialActionNames[a]
}

// Constraint is a table or domain constraint.
type Constraint interface {
	Node
	constraint()
}

// TableConstraint is the part shared by all table constraints.
type TableConstraint struct {
	Named
	Table *Table
}

func newTableConstraint(name string, t *Table) TableConstraint {
	return TableConstraint{Named: named(name), Table: t}
}

func (*TableConstraint) constraint() {}

// PrimaryKey is a PRIMARY KEY constraint.
type PrimaryKey struct {
	TableConstraint
	Columns []*TableColumn
}

// UniqueConstraint is a UNIQUE constraint.
type UniqueConstraint struct {
	TableConstraint
	Columns []*TableColumn
}

// ForeignKey is a FOREIGN KEY constraint.
type ForeignKey struct {
	TableConstraint
	Columns           []*TableColumn
	ReferencedTable   *Table
	ReferencedColumns []*TableColumn
	OnDelete          ReferentialAction
	OnUpdate          ReferentialAction
}

// CheckConstraint is a CHECK constraint on a table.
type CheckConstraint struct {
	TableConstraint
	Condition Expression
}

// DomainConstraint is a CHECK constraint on a domain.
type DomainConstraint struct {
	Named
	Domain    *Domain
	Condition Expression
}

func (*DomainConstraint) constraint() {}
