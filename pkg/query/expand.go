package query

import (
	"fmt"

	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

// PrefixNotFoundError is returned when prologue expansion encounters a
// prefixed name whose namespace isn't registered in the query's
// Prologue (spec.md §7: ParsePrefixNotFound).
type PrefixNotFoundError struct {
	NS string
}

func (e *PrefixNotFoundError) Error() string {
	return fmt.Sprintf("query: prefix not found: %s", e.NS)
}

// Expand replaces every prefixed IRI term in q by its absolute form,
// using q's own Prologue. Blank-node-style prefixes ("_") pass
// through unchanged (spec.md §4.1).
func Expand(q Query) (Query, error) {
	switch x := q.(type) {
	case SelectQuery:
		expr, err := expandExpression(x.Prologue, x.Expr)
		if err != nil {
			return nil, err
		}
		return SelectQuery{Prologue: x.Prologue, Vars: x.Vars, Expr: expr, Modifier: x.Modifier}, nil
	case AskQuery:
		expr, err := expandExpression(x.Prologue, x.Expr)
		if err != nil {
			return nil, err
		}
		return AskQuery{Prologue: x.Prologue, Expr: expr, Modifier: x.Modifier}, nil
	default:
		return nil, fmt.Errorf("query: unhandled Query variant in Expand")
	}
}

func expandExpression(p Prologue, e Expression) (Expression, error) {
	switch x := e.(type) {
	case Triple:
		s, err := expandSubject(p, x.Subject)
		if err != nil {
			return nil, err
		}
		pr, err := expandPredicate(p, x.Predicate)
		if err != nil {
			return nil, err
		}
		o, err := expandObject(p, x.Object)
		if err != nil {
			return nil, err
		}
		return Triple{Subject: s, Predicate: pr, Object: o}, nil
	case And:
		l, err := expandExpression(p, x.Left)
		if err != nil {
			return nil, err
		}
		r, err := expandExpression(p, x.Right)
		if err != nil {
			return nil, err
		}
		return And{Left: l, Right: r}, nil
	case Union:
		l, err := expandExpression(p, x.Left)
		if err != nil {
			return nil, err
		}
		r, err := expandExpression(p, x.Right)
		if err != nil {
			return nil, err
		}
		return Union{Left: l, Right: r}, nil
	case Optional:
		l, err := expandExpression(p, x.Left)
		if err != nil {
			return nil, err
		}
		r, err := expandExpression(p, x.Right)
		if err != nil {
			return nil, err
		}
		return Optional{Left: l, Right: r}, nil
	case Filter:
		inner, err := expandExpression(p, x.Expression)
		if err != nil {
			return nil, err
		}
		cond, err := expandCondition(p, x.Condition)
		if err != nil {
			return nil, err
		}
		return Filter{Expression: inner, Condition: cond}, nil
	default:
		return nil, fmt.Errorf("query: unhandled Expression variant in Expand")
	}
}

func expandCondition(p Prologue, c Condition) (Condition, error) {
	switch x := c.(type) {
	case Equals:
		l, err := expandObject(p, x.Left)
		if err != nil {
			return nil, err
		}
		r, err := expandObject(p, x.Right)
		if err != nil {
			return nil, err
		}
		return Equals{Left: l, Right: r}, nil
	case LT:
		l, err := expandObject(p, x.Left)
		if err != nil {
			return nil, err
		}
		r, err := expandObject(p, x.Right)
		if err != nil {
			return nil, err
		}
		return LT{Left: l, Right: r}, nil
	case GT:
		l, err := expandObject(p, x.Left)
		if err != nil {
			return nil, err
		}
		r, err := expandObject(p, x.Right)
		if err != nil {
			return nil, err
		}
		return GT{Left: l, Right: r}, nil
	case Bound:
		return x, nil
	case Not:
		inner, err := expandCondition(p, x.Condition)
		if err != nil {
			return nil, err
		}
		return Not{Condition: inner}, nil
	case AndCond:
		l, err := expandCondition(p, x.Left)
		if err != nil {
			return nil, err
		}
		r, err := expandCondition(p, x.Right)
		if err != nil {
			return nil, err
		}
		return AndCond{Left: l, Right: r}, nil
	case OrCond:
		l, err := expandCondition(p, x.Left)
		if err != nil {
			return nil, err
		}
		r, err := expandCondition(p, x.Right)
		if err != nil {
			return nil, err
		}
		return OrCond{Left: l, Right: r}, nil
	default:
		return nil, fmt.Errorf("query: unhandled Condition variant in Expand")
	}
}

func expandSubject(p Prologue, s Subject) (Subject, error) {
	if t, ok := s.(IRITerm); ok {
		iri, err := expandIRI(p, t.IRI)
		if err != nil {
			return nil, err
		}
		return NewIRITerm(iri), nil
	}
	return s, nil
}

func expandPredicate(p Prologue, pred Predicate) (Predicate, error) {
	if t, ok := pred.(IRITerm); ok {
		iri, err := expandIRI(p, t.IRI)
		if err != nil {
			return nil, err
		}
		return NewIRITerm(iri), nil
	}
	return pred, nil
}

func expandObject(p Prologue, o Object) (Object, error) {
	if t, ok := o.(IRITerm); ok {
		iri, err := expandIRI(p, t.IRI)
		if err != nil {
			return nil, err
		}
		return NewIRITerm(iri), nil
	}
	return o, nil
}

// expandIRI returns iri unchanged if it's already absolute or carries
// a blank-node-style "_" prefix, otherwise resolves iri.NS against p
// and returns a copy with Expanded set.
func expandIRI(p Prologue, iri *rdf.IRI) (*rdf.IRI, error) {
	if !iri.Prefixed {
		return iri, nil
	}
	if rdf.IsBlankPrefix(iri.NS) {
		return iri, nil
	}
	ns, ok := p[iri.NS]
	if !ok {
		return nil, &PrefixNotFoundError{NS: iri.NS}
	}
	expanded := *iri
	expanded.Expanded = ns + iri.Local
	return &expanded, nil
}
