package exec

import "github.com/aleksaelezovic/rdfquery/internal/engine/plan"

// limitIterator yields at most Count of Input's mappings and becomes
// terminal on the (Count+1)th pull (spec.md §4.2).
type limitIterator struct {
	input     Iterator
	remaining int
}

func (l *limitIterator) Next() (*plan.Mapping, bool) {
	if l.remaining <= 0 {
		return nil, false
	}
	m, ok := l.input.Next()
	if !ok {
		l.remaining = 0
		return nil, false
	}
	l.remaining--
	return m, true
}
