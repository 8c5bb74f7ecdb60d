// Package schemafile reads and writes catalogs as YAML documents. The
// CLI uses it for DDL generation input and for schema extraction output.
package schemafile

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

// Document is the YAML form of one catalog.
type Document struct {
	Catalog string   `yaml:"catalog,omitempty"`
	Schemas []Schema `yaml:"schemas"`
}

// Schema lists the tables and sequences of one schema.
type Schema struct {
	Name      string     `yaml:"name"`
	Sequences []Sequence `yaml:"sequences,omitempty"`
	Tables    []Table    `yaml:"tables,omitempty"`
}

// Sequence describes a standalone sequence.
type Sequence struct {
	Name      string `yaml:"name"`
	Start     *int64 `yaml:"start,omitempty"`
	Increment *int64 `yaml:"increment,omitempty"`
	Min       *int64 `yaml:"min,omitempty"`
	Max       *int64 `yaml:"max,omitempty"`
	Cycle     *bool  `yaml:"cycle,omitempty"`
}

// Table describes a table with its keys and indexes.
type Table struct {
	Name        string       `yaml:"name"`
	Temporary   bool         `yaml:"temporary,omitempty"`
	Columns     []Column     `yaml:"columns"`
	PrimaryKey  *Key         `yaml:"primary_key,omitempty"`
	Unique      []Key        `yaml:"unique,omitempty"`
	ForeignKeys []ForeignKey `yaml:"foreign_keys,omitempty"`
	Indexes     []Index      `yaml:"indexes,omitempty"`
}

// Column describes a table column. Type is a SqlType name such as
// "varchar" or "int64"; Native overrides it with a dialect type name.
type Column struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type,omitempty"`
	Native    string `yaml:"native,omitempty"`
	Length    int    `yaml:"length,omitempty"`
	Precision int    `yaml:"precision,omitempty"`
	Scale     int    `yaml:"scale,omitempty"`
	NotNull   bool   `yaml:"not_null,omitempty"`
	Default   any    `yaml:"default,omitempty"`

	// DefaultSQL is a default expression emitted verbatim.
	DefaultSQL string    `yaml:"default_sql,omitempty"`
	Identity   *Sequence `yaml:"identity,omitempty"`
	Collation  string    `yaml:"collation,omitempty"`
}

// Key is a primary key or unique constraint.
type Key struct {
	Name    string   `yaml:"name,omitempty"`
	Columns []string `yaml:"columns"`
}

// ForeignKey references columns of another table in the same schema.
type ForeignKey struct {
	Name       string    `yaml:"name,omitempty"`
	Columns    []string  `yaml:"columns"`
	References Reference `yaml:"references"`
	OnDelete   string    `yaml:"on_delete,omitempty"`
	OnUpdate   string    `yaml:"on_update,omitempty"`
}

// Reference names the referenced table and columns.
type Reference struct {
	Table   string   `yaml:"table"`
	Columns []string `yaml:"columns"`
}

// Index is a table index. A column may carry a " desc" suffix.
type Index struct {
	Name    string   `yaml:"name"`
	Unique  bool     `yaml:"unique,omitempty"`
	Columns []string `yaml:"columns"`
}

// Decode reads a document. Unknown fields are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, sqlerr.Argument("schema", "document is empty")
		}
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	return &doc, nil
}

// Encode writes documents as a YAML stream.
func Encode(w io.Writer, docs ...*Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encoding schema: %w", err)
		}
	}
	return enc.Close()
}

// Build turns the document into a catalog. References between tables are
// resolved within their schema.
func (d *Document) Build() (*model.Catalog, error) {
	cat := model.NewCatalog(d.Catalog)
	for _, sd := range d.Schemas {
		if sd.Name == "" {
			return nil, sqlerr.Argument("schema", "name is required")
		}
		s := cat.CreateSchema(sd.Name)
		for _, q := range sd.Sequences {
			seq := s.CreateSequence(q.Name)
			q.apply(seq.Descriptor)
		}
		for _, td := range sd.Tables {
			if err := buildTable(s, td); err != nil {
				return nil, fmt.Errorf("table %s: %w", td.Name, err)
			}
		}
		// foreign keys last so they may point at any table of the schema
		for _, td := range sd.Tables {
			if err := buildForeignKeys(s, td); err != nil {
				return nil, fmt.Errorf("table %s: %w", td.Name, err)
			}
		}
	}
	return cat, nil
}

func (q Sequence) apply(d *model.SequenceDescriptor) {
	if q.Start != nil {
		d.StartValue = q.Start
	}
	if q.Increment != nil {
		d.Increment = q.Increment
	}
	d.MinValue, d.MaxValue, d.IsCyclic = q.Min, q.Max, q.Cycle
}

func buildTable(s *model.Schema, td Table) error {
	if td.Name == "" {
		return sqlerr.Argument("table", "name is required")
	}
	var t *model.Table
	if td.Temporary {
		t = s.CreateTemporaryTable(td.Name)
	} else {
		t = s.CreateTable(td.Name)
	}
	for _, cd := range td.Columns {
		vt, err := cd.valueType()
		if err != nil {
			return fmt.Errorf("column %s: %w", cd.Name, err)
		}
		col := t.CreateColumn(cd.Name, vt)
		col.IsNullable = !cd.NotNull
		switch {
		case cd.DefaultSQL != "":
			col.DefaultValue = nodes.NewNative(cd.DefaultSQL)
		case cd.Default != nil:
			col.DefaultValue = nodes.NewLiteral(cd.Default)
		}
		if cd.Identity != nil {
			col.SequenceDescriptor = model.NewSequenceDescriptor(col, 1, 1)
			cd.Identity.apply(col.SequenceDescriptor)
		}
		if cd.Collation != "" {
			col.Collation = s.Collations.Get(cd.Collation)
			if col.Collation == nil {
				col.Collation = s.CreateCollation(cd.Collation)
			}
		}
	}
	if pk := td.PrimaryKey; pk != nil {
		cols, err := columns(t, pk.Columns)
		if err != nil {
			return err
		}
		t.CreatePrimaryKey(pk.Name, cols...)
	}
	for _, u := range td.Unique {
		cols, err := columns(t, u.Columns)
		if err != nil {
			return err
		}
		t.CreateUniqueConstraint(u.Name, cols...)
	}
	for _, id := range td.Indexes {
		idx := t.CreateIndex(id.Name)
		idx.IsUnique = id.Unique
		for _, spec := range id.Columns {
			name, asc := splitDirection(spec)
			col := t.Columns.Get(name)
			if col == nil {
				return sqlerr.Argument("index "+id.Name, "unknown column "+name)
			}
			idx.CreateIndexColumn(col, asc)
		}
	}
	return nil
}

func buildForeignKeys(s *model.Schema, td Table) error {
	t := s.Tables.Get(td.Name)
	for _, fd := range td.ForeignKeys {
		ref := s.Tables.Get(fd.References.Table)
		if ref == nil {
			return sqlerr.Argument("foreign key "+fd.Name, "unknown table "+fd.References.Table)
		}
		cols, err := columns(t, fd.Columns)
		if err != nil {
			return err
		}
		refCols, err := columns(ref, fd.References.Columns)
		if err != nil {
			return err
		}
		if len(cols) != len(refCols) {
			return sqlerr.Argument("foreign key "+fd.Name, "column count differs from the referenced columns")
		}
		onDelete, err := parseAction(fd.OnDelete)
		if err != nil {
			return err
		}
		onUpdate, err := parseAction(fd.OnUpdate)
		if err != nil {
			return err
		}
		fk := t.CreateForeignKey(fd.Name)
		fk.Columns, fk.ReferencedTable, fk.ReferencedColumns = cols, ref, refCols
		fk.OnDelete, fk.OnUpdate = onDelete, onUpdate
	}
	return nil
}

func columns(t *model.Table, names []string) ([]*model.TableColumn, error) {
	if len(names) == 0 {
		return nil, sqlerr.Argument("columns", "at least one column is required")
	}
	cols := make([]*model.TableColumn, len(names))
	for i, n := range names {
		if cols[i] = t.Columns.Get(n); cols[i] == nil {
			return nil, sqlerr.Argument("columns", "unknown column "+n)
		}
	}
	return cols, nil
}

func splitDirection(spec string) (string, bool) {
	fields := strings.Fields(spec)
	if len(fields) == 2 && strings.EqualFold(fields[1], "desc") {
		return fields[0], false
	}
	if len(fields) == 2 && strings.EqualFold(fields[1], "asc") {
		return fields[0], true
	}
	return strings.TrimSpace(spec), true
}

func (cd Column) valueType() (types.ValueType, error) {
	if cd.Native != "" {
		return types.Native(cd.Native), nil
	}
	t, ok := ParseType(cd.Type)
	if !ok {
		return types.ValueType{}, sqlerr.Argument("type", fmt.Sprintf("unknown type %q", cd.Type))
	}
	return types.ValueType{Type: t, Length: cd.Length, Precision: cd.Precision, Scale: cd.Scale}, nil
}

// ParseType returns the SqlType with the given name, ignoring case.
func ParseType(name string) (types.SqlType, bool) {
	for t := types.Boolean; t <= types.Guid; t++ {
		if strings.EqualFold(t.String(), name) {
			return t, true
		}
	}
	return types.Unknown, false
}

var actionNames = map[string]model.ReferentialAction{
	"":            model.NoAction,
	"no_action":   model.NoAction,
	"restrict":    model.Restrict,
	"cascade":     model.Cascade,
	"set_null":    model.SetNull,
	"set_default": model.SetDefault,
}

func parseAction(s string) (model.ReferentialAction, error) {
	a, ok := actionNames[strings.ToLower(s)]
	if !ok {
		return model.NoAction, sqlerr.Argument("referential action", fmt.Sprintf("unknown action %q", s))
	}
	return a, nil
}

func actionName(a model.ReferentialAction) string {
	for name, v := range actionNames {
		if v == a && name != "" && name != "no_action" {
			return name
		}
	}
	return ""
}

// Statements returns the CREATE statements for the catalog: sequences,
// then tables, then indexes of each schema.
func Statements(cat *model.Catalog) []nodes.Statement {
	var stmts []nodes.Statement
	for _, s := range cat.Schemas.Items() {
		for _, seq := range s.Sequences.Items() {
			stmts = append(stmts, nodes.NewCreateSequence(seq))
		}
		for _, t := range s.Tables.Items() {
			stmts = append(stmts, nodes.NewCreateTable(t))
		}
		for _, t := range s.Tables.Items() {
			for _, idx := range t.Indexes.Items() {
				stmts = append(stmts, nodes.NewCreateIndex(idx))
			}
		}
	}
	return stmts
}

// FromCatalog converts an extracted catalog into a document.
func FromCatalog(cat *model.Catalog) *Document {
	doc := &Document{Catalog: cat.NodeDbName()}
	for _, s := range cat.Schemas.Items() {
		sd := Schema{Name: s.NodeDbName()}
		for _, seq := range s.Sequences.Items() {
			sd.Sequences = append(sd.Sequences, sequenceOf(seq.NodeDbName(), seq.Descriptor))
		}
		for _, t := range s.Tables.Items() {
			sd.Tables = append(sd.Tables, tableOf(t))
		}
		doc.Schemas = append(doc.Schemas, sd)
	}
	return doc
}

func sequenceOf(name string, d *model.SequenceDescriptor) Sequence {
	q := Sequence{Name: name}
	if d != nil {
		q.Start, q.Increment, q.Min, q.Max, q.Cycle = d.StartValue, d.Increment, d.MinValue, d.MaxValue, d.IsCyclic
	}
	return q
}

func tableOf(t *model.Table) Table {
	td := Table{Name: t.NodeDbName(), Temporary: t.Temporary}
	for _, c := range t.Columns.Items() {
		cd := Column{
			Name:      c.NodeDbName(),
			Native:    c.DataType.TypeName,
			Length:    c.DataType.Length,
			Precision: c.DataType.Precision,
			Scale:     c.DataType.Scale,
			NotNull:   !c.IsNullable,
		}
		if cd.Native == "" {
			cd.Type = strings.ToLower(c.DataType.Type.String())
		}
		switch def := c.DefaultValue.(type) {
		case *nodes.Literal:
			cd.Default = def.Value
		case *nodes.Native:
			cd.DefaultSQL = def.Text
		}
		if c.SequenceDescriptor != nil {
			q := sequenceOf("", c.SequenceDescriptor)
			cd.Identity = &q
		}
		if c.Collation != nil {
			cd.Collation = c.Collation.NodeDbName()
		}
		td.Columns = append(td.Columns, cd)
	}
	for _, con := range t.Constraints {
		switch x := con.(type) {
		case *model.PrimaryKey:
			td.PrimaryKey = &Key{Name: x.NodeDbName(), Columns: names(x.Columns)}
		case *model.UniqueConstraint:
			td.Unique = append(td.Unique, Key{Name: x.NodeDbName(), Columns: names(x.Columns)})
		case *model.ForeignKey:
			td.ForeignKeys = append(td.ForeignKeys, ForeignKey{
				Name:       x.NodeDbName(),
				Columns:    names(x.Columns),
				References: Reference{Table: x.ReferencedTable.NodeDbName(), Columns: names(x.ReferencedColumns)},
				OnDelete:   actionName(x.OnDelete),
				OnUpdate:   actionName(x.OnUpdate),
			})
		}
	}
	for _, idx := range t.Indexes.Items() {
		id := Index{Name: idx.NodeDbName(), Unique: idx.IsUnique}
		for _, ic := range idx.Columns {
			spec := ic.Column.NodeDbName()
			if !ic.Ascending {
				spec += " desc"
			}
			id.Columns = append(id.Columns, spec)
		}
		td.Indexes = append(td.Indexes, id)
	}
	return td
}

func names(cols []*model.TableColumn) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.NodeDbName()
	}
	return out
}
