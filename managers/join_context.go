package managers

import "github.com/bawdo/sqldom/nodes"

// JoinContext is returned by SelectManager.Join and takes the ON condition
// before the chain continues.
type JoinContext struct {
	manager *SelectManager
	join    *nodes.JoinedTable
}

// On sets the join condition and returns the SelectManager for
// continued method chaining. A non-boolean condition is recorded as an
// error.
func (jc *JoinContext) On(condition nodes.Expression) *SelectManager {
	if jc.join != nil {
		jc.manager.fail(jc.join.SetCondition(condition))
	}
	return jc.manager
}
