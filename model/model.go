// Package model describes database catalogs: schemas, tables, columns,
// constraints, indexes, views, sequences and domains. DDL nodes point at
// these objects, and schema extraction produces them.
package model

import (
	"slices"

	"github.com/bawdo/sqldom/internal/ident"
)

// Expression is a SQL expression attached to a schema object (a column
// default, a check condition, an index filter, a view definition). The
// nodes package supplies the concrete trees.
type Expression interface {
	SqlExpression()
}

// Node is implemented by every named schema object.
type Node interface {
	NodeName() string
	NodeDbName() string
}

// Named holds the logical and physical names of a schema object.
type Named struct {
	Name   string
	DbName string
}

// NodeName returns the logical name.
func (n *Named) NodeName() string { return n.Name }

// NodeDbName returns the physical name, falling back to the logical one.
func (n *Named) NodeDbName() string {
	if n.DbName != "" {
		return n.DbName
	}
	return n.Name
}

func named(name string) Named { return Named{Name: name, DbName: name} }

// Item is a schema object that can live in a Collection.
type Item interface {
	comparable
	Node
}

// Collection is an ordered set of schema objects with case-insensitive
// lookup by name.
type Collection[T Item] struct {
	items []T
}

// Add appends item.
func (c *Collection[T]) Add(item T) {
	c.items = append(c.items, item)
}

// Get returns the item with the given name, or the zero value.
func (c *Collection[T]) Get(name string) T {
	var zero T
	if name == "" {
		return zero
	}
	for _, it := range c.items {
		if ident.Equal(it.NodeName(), name) {
			return it
		}
	}
	return zero
}

// Contains reports whether an item with name exists.
func (c *Collection[T]) Contains(name string) bool {
	var zero T
	return c.Get(name) != zero
}

// Remove deletes item and reports whether it was present.
func (c *Collection[T]) Remove(item T) bool {
	i := slices.Index(c.items, item)
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	return true
}

// Len returns the number of items.
func (c *Collection[T]) Len() int { return len(c.items) }

// Items returns a copy of the items in insertion order.
func (c *Collection[T]) Items() []T { return slices.Clone(c.items) }
