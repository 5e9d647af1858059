package exec

import "github.com/aleksaelezovic/rdfquery/internal/engine/plan"

// offsetIterator discards Input's first Count mappings.
type offsetIterator struct {
	input     Iterator
	remaining int
}

func (o *offsetIterator) Next() (*plan.Mapping, bool) {
	for o.remaining > 0 {
		if _, ok := o.input.Next(); !ok {
			return nil, false
		}
		o.remaining--
	}
	return o.input.Next()
}
