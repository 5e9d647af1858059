package exec

import "github.com/aleksaelezovic/rdfquery/internal/engine/plan"

// unionIterator exhausts Left before pulling from Right, preserving
// Left's mappings ahead of Right's (spec.md §4.2, §5).
type unionIterator struct {
	left, right Iterator
}

func (u *unionIterator) Next() (*plan.Mapping, bool) {
	if m, ok := u.left.Next(); ok {
		return m, true
	}
	return u.right.Next()
}
