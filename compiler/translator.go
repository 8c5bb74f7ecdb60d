package compiler

import (
	"errors"
	"fmt"

	"github.com/bawdo/sqldom/internal/quoting"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

// ParameterStyle selects how placeholders are written.
type ParameterStyle int

const (
	// ParameterNamed writes prefix+name (@p0, :p0).
	ParameterNamed ParameterStyle = iota
	// ParameterNumbered writes prefix+ordinal ($1).
	ParameterNumbered
	// ParameterPositional writes the prefix alone (?).
	ParameterPositional
)

// PagingStyle selects where and how row limits are written.
type PagingStyle int

const (
	PagingLimitOffset PagingStyle = iota
	PagingTop
	PagingOffsetFetch
	PagingFirstSkip
)

// LockPlacement selects where a SELECT's lock request is written.
type LockPlacement int

const (
	// LockClause appends the lock after the statement (FOR UPDATE).
	LockClause LockPlacement = iota
	// LockTableHint writes the lock as a hint after the FROM source.
	LockTableHint
	// LockIgnored drops the lock request.
	LockIgnored
)

// Settings are the dialect constants a translator exposes.
type Settings struct {
	Name                  string
	Quote                 quoting.Style
	ParameterStyle        ParameterStyle
	ParameterPrefix       string
	BatchItemDelimiter    string
	DdlStatementDelimiter string
	ArgumentDelimiter     string
	ColumnDelimiter       string
	// DateTimeFormat is a time.Format layout for date/time literals.
	DateTimeFormat string
	// TimeSpanFormat receives the sign and the signed tick count.
	TimeSpanFormat string
	// DecimalSeparator is always "." once the translator is built.
	DecimalSeparator string
	Paging           PagingStyle
	// UnboundedLimit is written as LIMIT when only an offset is given.
	UnboundedLimit        string
	Lock                  LockPlacement
	StringEscapeBackslash bool
}

// Fragment computes the text the next less specific layer produces.
type Fragment func() string

// Rule translates one section of a node. n is the node being compiled or,
// for DDL sections, the schema object the section describes.
type Rule func(t *Translator, c *Context, n any, s Section, base Fragment) string

// Hook translates a scalar value such as a function type or a literal.
type Hook[K any] func(t *Translator, c *Context, k K, base Fragment) string

// Layer holds the overrides one dialect version adds on top of the layers
// below it. Nil hooks and missing rules fall through.
type Layer struct {
	Name  string
	rules map[Section]Rule

	Initialize        func(*Settings)
	FunctionName      Hook[nodes.FunctionType]
	OperatorName      Hook[nodes.NodeType]
	Literal           Hook[any]
	TypeName          Hook[types.ValueType]
	LockHint          Hook[nodes.LockType]
	JoinType          Hook[*nodes.JoinedTable]
	TrimType          Hook[nodes.TrimType]
	DateTimePart      Hook[nodes.DateTimePart]
	IntervalPart      Hook[nodes.IntervalPart]
	ReferentialAction Hook[model.ReferentialAction]
	ObjectName        Hook[model.Node]
	GoTypeName        Hook[types.Code]
}

// NewLayer creates an empty layer.
func NewLayer(name string) *Layer {
	return &Layer{Name: name, rules: make(map[Section]Rule)}
}

// On registers rule for every listed section.
func (l *Layer) On(rule Rule, sections ...Section) *Layer {
	for _, s := range sections {
		l.rules[s] = rule
	}
	return l
}

// Text registers constant text for every listed section.
func (l *Layer) Text(text string, sections ...Section) *Layer {
	return l.On(Text(text), sections...)
}

// Overrides returns the sections the layer defines.
func (l *Layer) Overrides() []Section {
	out := make([]Section, 0, len(l.rules))
	for s := range l.rules {
		out = append(out, s)
	}
	return out
}

// Text returns a rule producing constant text.
func Text(text string) Rule {
	return func(*Translator, *Context, any, Section, Fragment) string { return text }
}

// Unsupported returns a rule that rejects the construct.
func Unsupported(construct string) Rule {
	return func(*Translator, *Context, any, Section, Fragment) string {
		panic(sqlerr.NotSupported(construct))
	}
}

// Handle adapts a rule for a specific node type. Other node types fall
// through to the base layer.
func Handle[N any](fn func(t *Translator, c *Context, n N, s Section, base Fragment) string) Rule {
	return func(t *Translator, c *Context, n any, s Section, base Fragment) string {
		typed, ok := n.(N)
		if !ok {
			return base()
		}
		return fn(t, c, typed, s, base)
	}
}

// Translator resolves sections and scalar translations through a chain of
// layers, most specific first. It is immutable after Build and safe for
// concurrent use.
type Translator struct {
	layers   []*Layer
	settings Settings
}

// Build chains base and the version layers in ascending order and
// validates the result.
func Build(base *Layer, layers ...*Layer) (*Translator, error) {
	t := &Translator{layers: append([]*Layer{base}, layers...)}
	for _, l := range t.layers {
		if l.Initialize != nil {
			l.Initialize(&t.settings)
		}
	}
	// literals are locale independent whatever a layer asks for
	t.settings.DecimalSeparator = "."
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustBuild is like Build but panics on an invalid chain.
func MustBuild(base *Layer, layers ...*Layer) *Translator {
	t, err := Build(base, layers...)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate checks that every registered section resolves, that no layer
// overrides an unknown section and that the base layer defines every hook.
func (t *Translator) Validate() error {
	var errs []error
	base := t.layers[0]
	for _, s := range Sections() {
		if base.rules[s] == nil {
			errs = append(errs, fmt.Errorf("layer %s: %w", base.Name, sqlerr.OutOfRange(s)))
		}
	}
	for _, l := range t.layers {
		for s := range l.rules {
			if !s.Valid() {
				errs = append(errs, fmt.Errorf("layer %s: %w", l.Name, sqlerr.OutOfRange(s)))
			}
		}
	}
	hooks := map[string]bool{
		"FunctionName":      base.FunctionName != nil,
		"OperatorName":      base.OperatorName != nil,
		"Literal":           base.Literal != nil,
		"TypeName":          base.TypeName != nil,
		"LockHint":          base.LockHint != nil,
		"JoinType":          base.JoinType != nil,
		"TrimType":          base.TrimType != nil,
		"DateTimePart":      base.DateTimePart != nil,
		"IntervalPart":      base.IntervalPart != nil,
		"ReferentialAction": base.ReferentialAction != nil,
		"ObjectName":        base.ObjectName != nil,
		"GoTypeName":        base.GoTypeName != nil,
	}
	for name, ok := range hooks {
		if !ok {
			errs = append(errs, fmt.Errorf("layer %s: hook %s is not defined", base.Name, name))
		}
	}
	return errors.Join(errs...)
}

// Settings returns a copy of the dialect constants.
func (t *Translator) Settings() Settings { return t.settings }

// Name returns the dialect name.
func (t *Translator) Name() string { return t.settings.Name }

// Layers returns the layer names from base to most specific.
func (t *Translator) Layers() []string {
	out := make([]string, len(t.layers))
	for i, l := range t.layers {
		out[i] = l.Name
	}
	return out
}

// Translate returns the text of section s for node n.
func (t *Translator) Translate(c *Context, n any, s Section) string {
	if !s.Valid() {
		panic(sqlerr.OutOfRange(s))
	}
	return t.ruleAt(c, n, s, len(t.layers)-1)
}

func (t *Translator) ruleAt(c *Context, n any, s Section, top int) string {
	for i := top; i >= 0; i-- {
		if r := t.layers[i].rules[s]; r != nil {
			next := i - 1
			return r(t, c, n, s, func() string { return t.ruleAt(c, n, s, next) })
		}
	}
	panic(sqlerr.OutOfRange(s))
}

func resolve[K any](t *Translator, c *Context, pick func(*Layer) Hook[K], k K, top int) string {
	for i := top; i >= 0; i-- {
		if h := pick(t.layers[i]); h != nil {
			next := i - 1
			return h(t, c, k, func() string { return resolve(t, c, pick, k, next) })
		}
	}
	panic(sqlerr.NotSupported(fmt.Sprint(k)))
}

func (t *Translator) top() int { return len(t.layers) - 1 }

// FunctionName returns the dialect spelling of a built-in function.
func (t *Translator) FunctionName(f nodes.FunctionType) string {
	return resolve(t, nil, func(l *Layer) Hook[nodes.FunctionType] { return l.FunctionName }, f, t.top())
}

// OperatorName returns the dialect spelling of an operator.
func (t *Translator) OperatorName(op nodes.NodeType) string {
	return resolve(t, nil, func(l *Layer) Hook[nodes.NodeType] { return l.OperatorName }, op, t.top())
}

// Literal renders a Go value as a SQL literal.
func (t *Translator) Literal(c *Context, v any) string {
	return resolve(t, c, func(l *Layer) Hook[any] { return l.Literal }, v, t.top())
}

// TypeName renders a SQL type.
func (t *Translator) TypeName(v types.ValueType) string {
	return resolve(t, nil, func(l *Layer) Hook[types.ValueType] { return l.TypeName }, v, t.top())
}

// LockHint renders a lock request.
func (t *Translator) LockHint(lock nodes.LockType) string {
	return resolve(t, nil, func(l *Layer) Hook[nodes.LockType] { return l.LockHint }, lock, t.top())
}

// JoinType renders the join keyword including any join method hint.
func (t *Translator) JoinType(j *nodes.JoinedTable) string {
	return resolve(t, nil, func(l *Layer) Hook[*nodes.JoinedTable] { return l.JoinType }, j, t.top())
}

// TrimType renders the side keyword of TRIM.
func (t *Translator) TrimType(tt nodes.TrimType) string {
	return resolve(t, nil, func(l *Layer) Hook[nodes.TrimType] { return l.TrimType }, tt, t.top())
}

// DateTimePart renders a date/time part keyword.
func (t *Translator) DateTimePart(p nodes.DateTimePart) string {
	return resolve(t, nil, func(l *Layer) Hook[nodes.DateTimePart] { return l.DateTimePart }, p, t.top())
}

// IntervalPart renders an interval part keyword.
func (t *Translator) IntervalPart(p nodes.IntervalPart) string {
	return resolve(t, nil, func(l *Layer) Hook[nodes.IntervalPart] { return l.IntervalPart }, p, t.top())
}

// ReferentialAction renders a foreign key action.
func (t *Translator) ReferentialAction(a model.ReferentialAction) string {
	return resolve(t, nil, func(l *Layer) Hook[model.ReferentialAction] { return l.ReferentialAction }, a, t.top())
}

// ObjectName renders the qualified, quoted name of a schema object.
func (t *Translator) ObjectName(c *Context, n model.Node) string {
	return resolve(t, c, func(l *Layer) Hook[model.Node] { return l.ObjectName }, n, t.top())
}

// GoTypeName returns the DDL type name used for a Go type code.
func (t *Translator) GoTypeName(code types.Code) string {
	return resolve(t, nil, func(l *Layer) Hook[types.Code] { return l.GoTypeName }, code, t.top())
}

// Quote quotes one identifier.
func (t *Translator) Quote(name string) string { return t.settings.Quote.Quote(name) }

// QuoteQualified quotes the non-empty parts of a dotted name.
func (t *Translator) QuoteQualified(parts ...string) string {
	return t.settings.Quote.QuoteQualified(parts...)
}

// QuoteString renders s as a string literal.
func (t *Translator) QuoteString(s string) string {
	if t.settings.StringEscapeBackslash {
		return "'" + quoting.EscapeStringBackslash(s) + "'"
	}
	return "'" + quoting.EscapeString(s) + "'"
}
