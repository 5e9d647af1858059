package exec

import "github.com/aleksaelezovic/rdfquery/internal/engine/plan"

// minusIterator materializes every Right mapping up front as a
// rejection set, then yields each Left mapping compatible with none of
// them. An empty Right keeps every Left mapping (spec.md §4.2, §9).
type minusIterator struct {
	left     Iterator
	right    Iterator
	rejected []*plan.Mapping
	built    bool
}

func newMinusIterator(o plan.Minus) *minusIterator {
	return &minusIterator{left: Build(o.Left), right: Build(o.Right)}
}

func (m *minusIterator) Next() (*plan.Mapping, bool) {
	if !m.built {
		for {
			r, ok := m.right.Next()
			if !ok {
				break
			}
			m.rejected = append(m.rejected, r)
		}
		m.built = true
	}

	for {
		next, ok := m.left.Next()
		if !ok {
			return nil, false
		}
		if !compatibleWithAny(next, m.rejected) {
			return next, true
		}
	}
}

func compatibleWithAny(m *plan.Mapping, others []*plan.Mapping) bool {
	for _, o := range others {
		if m.Compatible(o) {
			return true
		}
	}
	return false
}
