package exec

import (
	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

// filterIterator yields only Input's mappings that satisfy Condition.
type filterIterator struct {
	input     Iterator
	condition query.Condition
}

func (f *filterIterator) Next() (*plan.Mapping, bool) {
	for {
		m, ok := f.input.Next()
		if !ok {
			return nil, false
		}
		if satisfies(m, f.condition) {
			return m, true
		}
	}
}

// satisfies evaluates c against m, dispatching through
// query.VisitCondition the same way the rest of this codebase
// generalizes per-variant visitor traits into one generic interface.
func satisfies(m *plan.Mapping, c query.Condition) bool {
	return query.VisitCondition[bool](conditionEvaluator{m: m}, c)
}

type conditionEvaluator struct{ m *plan.Mapping }

func (e conditionEvaluator) resolve(o query.Object) (rdf.Term, bool) {
	switch x := o.(type) {
	case query.Variable:
		return e.m.Get(x)
	case query.IRITerm:
		return x.IRI, true
	case query.LiteralTerm:
		return x.Literal, true
	default:
		return nil, false
	}
}

func (e conditionEvaluator) VisitEquals(left, right query.Object) bool {
	lv, lok := e.resolve(left)
	rv, rok := e.resolve(right)
	if !lok || !rok {
		return false
	}
	return lv.Equals(rv)
}

func (e conditionEvaluator) VisitGT(left, right query.Object) bool {
	return e.compare(left, right) == rdf.Greater
}

func (e conditionEvaluator) VisitLT(left, right query.Object) bool {
	return e.compare(left, right) == rdf.Less
}

// compare returns rdf.Equal whenever either side isn't a bound literal
// or the two literals don't both parse numerically, so LT/GT are
// false in every case that isn't a genuine numeric ordering (spec.md
// §4.2).
func (e conditionEvaluator) compare(left, right query.Object) rdf.Ordering {
	lv, lok := e.resolve(left)
	rv, rok := e.resolve(right)
	if !lok || !rok {
		return rdf.Equal
	}
	ll, lok := lv.(*rdf.Literal)
	rl, rok := rv.(*rdf.Literal)
	if !lok || !rok {
		return rdf.Equal
	}
	ord, ok := rdf.CompareLiterals(ll, rl)
	if !ok {
		return rdf.Equal
	}
	return ord
}

func (e conditionEvaluator) VisitBound(v query.Variable) bool {
	return e.m.Has(v)
}

func (e conditionEvaluator) VisitNot(c query.Condition) bool {
	return !satisfies(e.m, c)
}

func (e conditionEvaluator) VisitAnd(left, right query.Condition) bool {
	return satisfies(e.m, left) && satisfies(e.m, right)
}

func (e conditionEvaluator) VisitOr(left, right query.Condition) bool {
	return satisfies(e.m, left) || satisfies(e.m, right)
}
