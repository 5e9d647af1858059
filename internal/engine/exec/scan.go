package exec

import (
	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

// scanIterator streams a database's triples, yielding a Mapping for
// each one that matches the scan's pattern (spec.md §4.2).
type scanIterator struct {
	scan    plan.Scan
	triples []rdf.Triple
	pos     int
}

func newScanIterator(o plan.Scan) *scanIterator {
	return &scanIterator{scan: o, triples: o.DB.Triples()}
}

func (s *scanIterator) Next() (*plan.Mapping, bool) {
	for s.pos < len(s.triples) {
		t := s.triples[s.pos]
		s.pos++
		if m, ok := matchTriple(s.scan, t); ok {
			return m, true
		}
	}
	return nil, false
}

// matchTriple reports whether t satisfies scan's pattern and, if so,
// returns the mapping binding each variable position names.
func matchTriple(scan plan.Scan, t rdf.Triple) (*plan.Mapping, bool) {
	if !matchPosition(scan.Subject, t.Subject) {
		return nil, false
	}
	if !matchPosition(scan.Predicate, t.Predicate) {
		return nil, false
	}
	if !matchPosition(scan.Object, t.Object) {
		return nil, false
	}

	m := plan.NewMapping()
	if v, ok := scan.Subject.(query.Variable); ok {
		m.Set(v, t.Subject)
	}
	if v, ok := scan.Predicate.(query.Variable); ok {
		m.Set(v, t.Predicate)
	}
	if v, ok := scan.Object.(query.Variable); ok {
		m.Set(v, t.Object)
	}
	return m, true
}

// matchPosition reports whether term satisfies pattern: a Variable
// matches unconditionally, a BlankTerm matches unconditionally too
// (blank nodes in a pattern never constrain the scan, spec.md §4.2),
// and any concrete term must compare equal to the triple's term.
func matchPosition(pattern interface{}, term rdf.Term) bool {
	switch p := pattern.(type) {
	case query.Variable:
		return true
	case query.BlankTerm:
		return true
	case query.IRITerm:
		iri, ok := term.(*rdf.IRI)
		return ok && p.IRI.Equals(iri)
	case query.LiteralTerm:
		lit, ok := term.(*rdf.Literal)
		return ok && p.Literal.Equals(lit)
	default:
		return false
	}
}
