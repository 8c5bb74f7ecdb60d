package compiler

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/sqldom/nodes"
)

// Configuration holds per-compilation options.
type Configuration struct {
	// DatabaseQualifiedObjects prefixes schema object names with their
	// catalog name.
	DatabaseQualifiedObjects bool
}

// Context is the mutable state of one compilation.
type Context struct {
	Configuration Configuration

	out      Output
	settings *Settings
	bindings []Binding
	shared   map[*nodes.Parameter]int
	aliases  map[nodes.Node]string
	depth    int
}

func newContext(cfg Configuration, settings *Settings) *Context {
	return &Context{
		Configuration: cfg,
		settings:      settings,
		shared:        make(map[*nodes.Parameter]int),
		aliases:       make(map[nodes.Node]string),
	}
}

// Output returns the text sink.
func (c *Context) Output() *Output { return &c.out }

// Depth returns the query nesting level: 1 inside the outermost query.
func (c *Context) Depth() int { return c.depth }

// Alias returns the alias generated for an unnamed table source, creating
// it on first use.
func (c *Context) Alias(n nodes.Node) string {
	if a, ok := c.aliases[n]; ok {
		return a
	}
	a := "t" + strconv.Itoa(len(c.aliases))
	c.aliases[n] = a
	return a
}

// Bind registers a parameter occurrence and returns its placeholder text.
// Named and numbered styles reuse one binding for every occurrence of the
// same parameter; positional placeholders bind each occurrence.
func (c *Context) Bind(p *nodes.Parameter) string {
	st := c.settings
	if st.ParameterStyle == ParameterPositional {
		c.bindings = append(c.bindings, Binding{Position: len(c.bindings), Parameter: p})
		return st.ParameterPrefix
	}
	if i, ok := c.shared[p]; ok {
		return c.bindings[i].Placeholder
	}
	i := len(c.bindings)
	var placeholder, name string
	switch st.ParameterStyle {
	case ParameterNumbered:
		placeholder = st.ParameterPrefix + strconv.Itoa(i+1)
	default:
		name = p.Name
		if name == "" {
			name = "p" + strconv.Itoa(i)
		}
		placeholder = st.ParameterPrefix + name
	}
	c.bindings = append(c.bindings, Binding{Name: name, Placeholder: placeholder, Position: i, Parameter: p})
	c.shared[p] = i
	return placeholder
}

// Binding ties a placeholder in the command text to a parameter.
type Binding struct {
	// Name is the bare parameter name for named styles.
	Name        string
	Placeholder string
	Position    int
	Parameter   *nodes.Parameter
}

// Value resolves the parameter value at call time.
func (b Binding) Value() any { return b.Parameter.Resolve() }

// Result is the immutable output of a compilation.
type Result struct {
	Text     string
	Bindings []Binding
}

// Args returns the binding values in the form database/sql expects:
// sql.Named values for named placeholders, plain values otherwise.
func (r *Result) Args() []any {
	args := make([]any, len(r.Bindings))
	for i, b := range r.Bindings {
		if b.Name != "" {
			args[i] = sql.Named(b.Name, b.Value())
			continue
		}
		args[i] = b.Value()
	}
	return args
}

func (r *Result) String() string {
	if len(r.Bindings) == 0 {
		return r.Text
	}
	parts := make([]string, len(r.Bindings))
	for i, b := range r.Bindings {
		ph := b.Placeholder
		if ph == "" {
			ph = "?" + strconv.Itoa(b.Position)
		}
		parts[i] = ph + "=" + fmt.Sprint(b.Value())
	}
	return r.Text + " -- " + strings.Join(parts, ", ")
}
