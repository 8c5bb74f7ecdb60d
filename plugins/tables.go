package plugins

import "github.com/bawdo/sqldom/nodes"

// TableSource is a table reference found in a FROM clause. Ref carries the
// alias, so columns built from it are qualified the way the query names
// the table; Name is the underlying table name used for matching.
type TableSource struct {
	Ref  *nodes.TableRef
	Name string
}

// CollectTables returns the table references of a FROM tree in join
// order. Derived tables are skipped.
func CollectTables(from nodes.Table) []TableSource {
	var out []TableSource
	var walk func(nodes.Table)
	walk = func(t nodes.Table) {
		switch r := t.(type) {
		case *nodes.TableRef:
			out = append(out, TableSource{Ref: r, Name: r.Name})
		case *nodes.JoinedTable:
			walk(r.Left)
			walk(r.Right)
		}
	}
	if from != nil {
		walk(from)
	}
	return out
}
