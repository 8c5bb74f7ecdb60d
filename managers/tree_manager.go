package managers

import (
	"errors"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/plugins"
)

// Compiler renders a finished statement. *driver.StorageDriver satisfies
// it; CompilerFunc adapts anything else.
type Compiler interface {
	Compile(stmt nodes.Statement) (*compiler.Result, error)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(stmt nodes.Statement) (*compiler.Result, error)

func (f CompilerFunc) Compile(stmt nodes.Statement) (*compiler.Result, error) { return f(stmt) }

// treeManager is the shared base for all manager types. It holds the
// transformer pipeline and the errors recorded while chaining.
type treeManager struct {
	transformers []plugins.Transformer
	errs         []error
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// fail records err so the chain can continue; Build reports it.
func (tm *treeManager) fail(err error) {
	if err != nil {
		tm.errs = append(tm.errs, err)
	}
}

// Err returns every error recorded by the chain so far, or nil.
func (tm *treeManager) Err() error {
	return errors.Join(tm.errs...)
}

// toSQL compiles stmt and returns its text with the driver arguments.
func toSQL(c Compiler, stmt nodes.Statement, err error) (string, []any, error) {
	if err != nil {
		return "", nil, err
	}
	res, err := c.Compile(stmt)
	if err != nil {
		return "", nil, err
	}
	return res.Text, res.Args(), nil
}

// and appends conds to an existing predicate with AND.
func and(existing nodes.Expression, conds []nodes.Expression) nodes.Expression {
	return nodes.And(append([]nodes.Expression{existing}, conds...)...)
}
