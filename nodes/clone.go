package nodes

// CloneContext maps original nodes to their clones for the duration of one
// clone operation. A node reached twice is cloned once, and a node reached
// again while its own children are being cloned resolves to the clone that
// is already registered.
type CloneContext struct {
	mapping map[Node]Node
}

// NewCloneContext returns an empty context.
func NewCloneContext() *CloneContext {
	return &CloneContext{mapping: make(map[Node]Node)}
}

// Clone returns the clone of n, creating it on first use.
func (c *CloneContext) Clone(n Node) Node {
	if n == nil {
		return nil
	}
	if cl, ok := c.mapping[n]; ok {
		return cl
	}
	return n.clone(c)
}

// Lookup returns the clone already made for n.
func (c *CloneContext) Lookup(n Node) (Node, bool) {
	cl, ok := c.mapping[n]
	return cl, ok
}

// Len returns the number of nodes cloned so far.
func (c *CloneContext) Len() int { return len(c.mapping) }

func (c *CloneContext) register(orig, clone Node) {
	c.mapping[orig] = clone
}

// Clone deep-copies the tree rooted at n with a fresh context.
func Clone[T Node](n T) T {
	var zero T
	if Node(n) == nil {
		return zero
	}
	return NewCloneContext().Clone(n).(T)
}

func cloneExpr(c *CloneContext, e Expression) Expression {
	if e == nil {
		return nil
	}
	return c.Clone(e).(Expression)
}

func cloneExprs(c *CloneContext, list []Expression) []Expression {
	if list == nil {
		return nil
	}
	out := make([]Expression, len(list))
	for i, e := range list {
		out[i] = cloneExpr(c, e)
	}
	return out
}

func cloneTable(c *CloneContext, t Table) Table {
	if t == nil {
		return nil
	}
	return c.Clone(t).(Table)
}

func cloneQuery(c *CloneContext, q Query) Query {
	if q == nil {
		return nil
	}
	return c.Clone(q).(Query)
}

func cloneColumn(c *CloneContext, col *Column) *Column {
	if col == nil {
		return nil
	}
	return c.Clone(col).(*Column)
}

func cloneTableRef(c *CloneContext, t *TableRef) *TableRef {
	if t == nil {
		return nil
	}
	return c.Clone(t).(*TableRef)
}
