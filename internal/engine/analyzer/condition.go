// Package analyzer implements the operator-tree visitors that drive
// the optimizer: the condition analyzer, bound-variable computation,
// BGP flattening, metric accounting, filter synthesis, and the plan
// printer (spec.md §4.3, §9).
package analyzer

import (
	"github.com/aleksaelezovic/rdfquery/pkg/query"
	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

// VariableInfoKind names one fact a Condition established about a
// variable (spec.md §4.3).
type VariableInfoKind int

const (
	InfoLt VariableInfoKind = iota
	InfoGt
	InfoLte
	InfoGte
	InfoEqualsLiteral
	InfoEqualsIri
	InfoNotEqualsLiteral
	InfoNotEqualsIri
	InfoBound
	InfoUnbound
)

// VariableInfo is one fact about a variable, e.g. "greater than this
// literal" or "equal to this IRI". It's comparable so it can live in a
// Go map used as a set.
type VariableInfo struct {
	Kind    VariableInfoKind
	Literal *rdf.Literal
	IRI     *rdf.IRI
}

// Invert maps a VariableInfo to the fact implied by negating the
// condition that produced it (spec.md §4.3): Lt<->Gte, Gt<->Lte,
// Equals<->NotEquals, Bound<->Unbound.
func (v VariableInfo) Invert() VariableInfo {
	switch v.Kind {
	case InfoLt:
		return VariableInfo{Kind: InfoGte, Literal: v.Literal}
	case InfoGt:
		return VariableInfo{Kind: InfoLte, Literal: v.Literal}
	case InfoLte:
		return VariableInfo{Kind: InfoGt, Literal: v.Literal}
	case InfoGte:
		return VariableInfo{Kind: InfoLt, Literal: v.Literal}
	case InfoEqualsLiteral:
		return VariableInfo{Kind: InfoNotEqualsLiteral, Literal: v.Literal}
	case InfoNotEqualsLiteral:
		return VariableInfo{Kind: InfoEqualsLiteral, Literal: v.Literal}
	case InfoEqualsIri:
		return VariableInfo{Kind: InfoNotEqualsIri, IRI: v.IRI}
	case InfoNotEqualsIri:
		return VariableInfo{Kind: InfoEqualsIri, IRI: v.IRI}
	case InfoBound:
		return VariableInfo{Kind: InfoUnbound}
	case InfoUnbound:
		return VariableInfo{Kind: InfoBound}
	default:
		return v
	}
}

// ConditionInfo maps a variable name to the set of facts established
// about it across every Filter condition in a (sub)query (spec.md
// §4.3). It's used to synthesize additional pushdown filters; it's
// deliberately an over-approximation where exactness isn't available
// (see VisitOr).
type ConditionInfo struct {
	byVar map[string]map[VariableInfo]struct{}
}

// NewConditionInfo returns an empty ConditionInfo.
func NewConditionInfo() ConditionInfo {
	return ConditionInfo{byVar: make(map[string]map[VariableInfo]struct{})}
}

func (c ConditionInfo) clone() ConditionInfo {
	out := NewConditionInfo()
	for k, set := range c.byVar {
		ns := make(map[VariableInfo]struct{}, len(set))
		for vi := range set {
			ns[vi] = struct{}{}
		}
		out.byVar[k] = ns
	}
	return out
}

func (c ConditionInfo) insert(v query.Variable, info VariableInfo) ConditionInfo {
	out := c.clone()
	set := out.byVar[v.Name]
	if set == nil {
		set = make(map[VariableInfo]struct{})
		out.byVar[v.Name] = set
	}
	set[info] = struct{}{}
	return out
}

// Get returns the facts known about the variable named name.
func (c ConditionInfo) Get(name string) map[VariableInfo]struct{} {
	return c.byVar[name]
}

// IsEmpty reports whether no variable carries any fact.
func (c ConditionInfo) IsEmpty() bool { return len(c.byVar) == 0 }

// Invert returns a ConditionInfo with every fact replaced by its
// negation (used when a Not wraps a compound condition that the
// normalizer hasn't fully pushed down, or when analyzing Not directly).
func (c ConditionInfo) Invert() ConditionInfo {
	out := NewConditionInfo()
	for k, set := range c.byVar {
		ns := make(map[VariableInfo]struct{}, len(set))
		for vi := range set {
			ns[vi.Invert()] = struct{}{}
		}
		out.byVar[k] = ns
	}
	return out
}

// Union merges the facts of c and other per variable.
func (c ConditionInfo) Union(other ConditionInfo) ConditionInfo {
	out := c.clone()
	for k, set := range other.byVar {
		ns := out.byVar[k]
		if ns == nil {
			ns = make(map[VariableInfo]struct{})
			out.byVar[k] = ns
		}
		for vi := range set {
			ns[vi] = struct{}{}
		}
	}
	return out
}

// AnalyzeCondition walks a normalized Condition and builds the facts
// it establishes about each variable it mentions (spec.md §4.3).
func AnalyzeCondition(c query.Condition) ConditionInfo {
	return query.VisitCondition[ConditionInfo](conditionVisitor{}, c)
}

type conditionVisitor struct{}

func (conditionVisitor) VisitEquals(left, right query.Object) ConditionInfo {
	return equalsInfo(left, right)
}

func (conditionVisitor) VisitGT(left, right query.Object) ConditionInfo {
	return comparisonInfo(left, right, InfoGt, InfoLt)
}

func (conditionVisitor) VisitLT(left, right query.Object) ConditionInfo {
	return comparisonInfo(left, right, InfoLt, InfoGt)
}

func (conditionVisitor) VisitBound(v query.Variable) ConditionInfo {
	return NewConditionInfo().insert(v, VariableInfo{Kind: InfoBound})
}

func (cv conditionVisitor) VisitNot(c query.Condition) ConditionInfo {
	return AnalyzeCondition(c).Invert()
}

func (cv conditionVisitor) VisitAnd(left, right query.Condition) ConditionInfo {
	return AnalyzeCondition(left).Union(AnalyzeCondition(right))
}

// VisitOr discards both branches: the intersection of facts true in
// either disjunct generally isn't any single fact, so an empty map is
// the only sound answer. This is safe because the optimizer only ever
// uses ConditionInfo to synthesize *additional* filters on top of an
// already-correct plan; under-reporting never changes query results,
// only how much gets pushed down (spec.md §4.3, §9).
func (cv conditionVisitor) VisitOr(left, right query.Condition) ConditionInfo {
	return NewConditionInfo()
}

func equalsInfo(left, right query.Object) ConditionInfo {
	if v, ok := left.(query.Variable); ok {
		return objectInfo(v, right, InfoEqualsLiteral, InfoEqualsIri)
	}
	if v, ok := right.(query.Variable); ok {
		return objectInfo(v, left, InfoEqualsLiteral, InfoEqualsIri)
	}
	return NewConditionInfo()
}

func objectInfo(v query.Variable, o query.Object, litKind, iriKind VariableInfoKind) ConditionInfo {
	switch t := o.(type) {
	case query.LiteralTerm:
		return NewConditionInfo().insert(v, VariableInfo{Kind: litKind, Literal: t.Literal})
	case query.IRITerm:
		return NewConditionInfo().insert(v, VariableInfo{Kind: iriKind, IRI: t.IRI})
	default:
		return NewConditionInfo()
	}
}

// comparisonInfo handles a Condition{Left,Right} meaning Left <op>
// Right. If Left is the variable, sameKind applies directly; if Right
// is the variable, the relation flips direction (flippedKind).
func comparisonInfo(left, right query.Object, sameKind, flippedKind VariableInfoKind) ConditionInfo {
	if v, ok := left.(query.Variable); ok {
		if lit, ok := right.(query.LiteralTerm); ok {
			return NewConditionInfo().insert(v, VariableInfo{Kind: sameKind, Literal: lit.Literal})
		}
	}
	if v, ok := right.(query.Variable); ok {
		if lit, ok := left.(query.LiteralTerm); ok {
			return NewConditionInfo().insert(v, VariableInfo{Kind: flippedKind, Literal: lit.Literal})
		}
	}
	return NewConditionInfo()
}

// Analyze walks a query Expression, folding in the ConditionInfo of
// every Filter it contains (spec.md §4.3): And merges both sides,
// Optional keeps only the left (required) side, Union discards both
// since a fact true on one branch needn't hold on the other, and
// Filter merges its inner expression's info with its own condition's.
func Analyze(e query.Expression) ConditionInfo {
	return query.VisitExpression[ConditionInfo](expressionVisitor{}, e)
}

// AnalyzeQuery analyzes a query's top-level expression, ignoring its
// solution modifier (limit/offset never establish variable facts).
func AnalyzeQuery(q query.Query) ConditionInfo {
	return query.VisitQuery[ConditionInfo](queryVisitor{}, q)
}

type expressionVisitor struct{}

func (expressionVisitor) VisitTriple(query.Subject, query.Predicate, query.Object) ConditionInfo {
	return NewConditionInfo()
}

func (a expressionVisitor) VisitAnd(left, right query.Expression) ConditionInfo {
	return Analyze(left).Union(Analyze(right))
}

func (a expressionVisitor) VisitUnion(left, right query.Expression) ConditionInfo {
	return NewConditionInfo()
}

func (a expressionVisitor) VisitOptional(left, right query.Expression) ConditionInfo {
	return Analyze(left)
}

func (a expressionVisitor) VisitFilter(expr query.Expression, cond query.Condition) ConditionInfo {
	return Analyze(expr).Union(AnalyzeCondition(cond))
}

type queryVisitor struct{}

func (queryVisitor) VisitSelect(vars query.Variables, expr query.Expression, mod query.SolutionModifier) ConditionInfo {
	return Analyze(expr)
}

func (queryVisitor) VisitAsk(expr query.Expression, mod query.SolutionModifier) ConditionInfo {
	return Analyze(expr)
}
