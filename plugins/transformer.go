// Package plugins defines the Transformer interface managers run over a
// statement copy before it is compiled.
package plugins

import "github.com/bawdo/sqldom/nodes"

// Transformer rewrites DML statements. Managers hand transformers a clone,
// so a transformer may modify its argument in place and return it.
type Transformer interface {
	TransformSelect(sel *nodes.Select) (*nodes.Select, error)
	TransformInsert(ins *nodes.Insert) (*nodes.Insert, error)
	TransformUpdate(upd *nodes.Update) (*nodes.Update, error)
	TransformDelete(del *nodes.Delete) (*nodes.Delete, error)
}

// BaseTransformer provides no-op defaults for all Transformer methods.
// Plugins embed this and override only the methods they care about.
type BaseTransformer struct{}

func (BaseTransformer) TransformSelect(s *nodes.Select) (*nodes.Select, error) { return s, nil }
func (BaseTransformer) TransformInsert(s *nodes.Insert) (*nodes.Insert, error) { return s, nil }
func (BaseTransformer) TransformUpdate(s *nodes.Update) (*nodes.Update, error) { return s, nil }
func (BaseTransformer) TransformDelete(s *nodes.Delete) (*nodes.Delete, error) { return s, nil }
