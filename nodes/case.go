package nodes

// When is one WHEN ... THEN ... arm of a Case.
type When struct {
	When Expression
	Then Expression
}

// Case is a CASE expression. A nil Value makes it a searched CASE whose
// arms hold predicates; otherwise each arm is compared to Value.
type Case struct {
	exprBase
	Predications
	Value Expression
	Cases []When
	Else  Expression
}

// NewCase creates an empty CASE. value may be nil.
func NewCase(value Expression) *Case {
	n := &Case{exprBase: exprBase{nodeBase{NodeCase}}, Value: value, Cases: []When{}}
	n.Predications.self = n
	return n
}

// When appends an arm and returns the receiver for chaining.
func (n *Case) When(when, then Expression) *Case {
	mustNotNil("when", when == nil)
	mustNotNil("then", then == nil)
	n.Cases = append(n.Cases, When{When: when, Then: then})
	return n
}

// Otherwise sets the ELSE result.
func (n *Case) Otherwise(e Expression) *Case {
	n.Else = e
	return n
}

func (n *Case) Accept(v Visitor) { v.VisitCase(n) }

func (n *Case) clone(c *CloneContext) Node {
	cl := &Case{exprBase: n.exprBase}
	cl.Predications.self = cl
	c.register(n, cl)
	cl.Value = cloneExpr(c, n.Value)
	cl.Cases = make([]When, len(n.Cases))
	for i, w := range n.Cases {
		cl.Cases[i] = When{When: cloneExpr(c, w.When), Then: cloneExpr(c, w.Then)}
	}
	cl.Else = cloneExpr(c, n.Else)
	return cl
}
