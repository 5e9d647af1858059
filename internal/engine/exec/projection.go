package exec

import (
	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

// projectionIterator rebinds each Input mapping to exactly Variables,
// substituting rdf.BlankSentinel for any variable Input left unbound
// (spec.md §4.2).
type projectionIterator struct {
	input     Iterator
	variables query.Variables
}

func (p *projectionIterator) Next() (*plan.Mapping, bool) {
	in, ok := p.input.Next()
	if !ok {
		return nil, false
	}

	out := plan.NewMapping()
	for _, v := range p.variables {
		if t, ok := in.Get(v); ok {
			out.Set(v, t)
		} else {
			out.Set(v, rdf.BlankSentinel)
		}
	}
	return out, true
}
