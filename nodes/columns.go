package nodes

import "github.com/bawdo/sqldom/internal/ident"

// linearLookupLimit is the size up to which lookups scan the slice.
const linearLookupLimit = 8

// TableColumnCollection is an ordered, read-only set of columns with
// case-insensitive lookup by name.
type TableColumnCollection struct {
	list   []*Column
	lookup map[string]*Column
}

// NewTableColumnCollection wraps columns. Collections larger than eight
// columns are indexed; when two columns fold to the same name the first
// one wins.
func NewTableColumnCollection(columns []*Column) *TableColumnCollection {
	c := &TableColumnCollection{list: append([]*Column(nil), columns...)}
	if len(columns) > linearLookupLimit {
		c.lookup = make(map[string]*Column, len(columns))
		for _, col := range columns {
			key := ident.Fold(col.Name)
			if _, dup := c.lookup[key]; !dup {
				c.lookup[key] = col
			}
		}
	}
	return c
}

// Get returns the column with the given name or nil.
func (c *TableColumnCollection) Get(name string) *Column {
	if c == nil || name == "" {
		return nil
	}
	if c.lookup != nil {
		return c.lookup[ident.Fold(name)]
	}
	for _, col := range c.list {
		if ident.Equal(col.Name, name) {
			return col
		}
	}
	return nil
}

// At returns the column at index i.
func (c *TableColumnCollection) At(i int) *Column { return c.list[i] }

// Len returns the number of columns.
func (c *TableColumnCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.list)
}

// Items returns the columns in declaration order.
func (c *TableColumnCollection) Items() []*Column {
	if c == nil {
		return nil
	}
	return c.list
}

// indexed reports whether lookups go through the map.
func (c *TableColumnCollection) indexed() bool { return c.lookup != nil }
