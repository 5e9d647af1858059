package analyzer

import (
	"fmt"
	"sort"

	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
)

// InsertFilters pushes the facts recorded in info down onto the
// earliest Scan that binds each variable, synthesizing a Filter node
// there (spec.md §4.3, §9: filter pushdown). Within a Join or LeftJoin
// a variable is only filtered once: once a Scan in the left subtree has
// been wrapped for a variable, Scans in the right subtree skip it.
// Union and Minus branches are each filtered independently.
func InsertFilters(root plan.Operation, info ConditionInfo) plan.Operation {
	res := plan.Visit[insertFilterResult](insertFilterVisitor{info: info, applied: NewVarSet()}, root)
	return res.op
}

type insertFilterResult struct {
	op      plan.Operation
	applied VarSet
}

type insertFilterVisitor struct {
	info    ConditionInfo
	applied VarSet
}

func (v insertFilterVisitor) recurse(child plan.Operation, applied VarSet) insertFilterResult {
	return plan.Visit[insertFilterResult](insertFilterVisitor{info: v.info, applied: applied}, child)
}

func (v insertFilterVisitor) VisitScan(o plan.Scan) insertFilterResult {
	vars := NewVarSet()
	if vr, ok := o.Subject.(query.Variable); ok {
		vars = vars.Add(vr)
	}
	if vr, ok := o.Predicate.(query.Variable); ok {
		vars = vars.Add(vr)
	}
	if vr, ok := o.Object.(query.Variable); ok {
		vars = vars.Add(vr)
	}

	var cond query.Condition
	newlyApplied := v.applied
	for _, vr := range vars.List() {
		if v.applied.Contains(vr.Name) {
			continue
		}
		facts := v.info.Get(vr.Name)
		if len(facts) == 0 {
			continue
		}
		for _, fact := range sortedFacts(facts) {
			c := toCondition(vr, fact)
			if c == nil {
				continue
			}
			if cond == nil {
				cond = c
			} else {
				cond = query.AndCond{Left: cond, Right: c}
			}
		}
		newlyApplied = newlyApplied.Add(vr)
	}

	var op plan.Operation = o
	if cond != nil {
		op = plan.Filter{Input: o, Condition: cond}
	}
	return insertFilterResult{op: op, applied: newlyApplied}
}

func (v insertFilterVisitor) VisitJoin(o plan.Join) insertFilterResult {
	left := v.recurse(o.Left, v.applied)
	right := v.recurse(o.Right, left.applied)
	return insertFilterResult{
		op:      plan.Join{Left: left.op, Right: right.op},
		applied: left.applied.Union(right.applied),
	}
}

func (v insertFilterVisitor) VisitLeftJoin(o plan.LeftJoin) insertFilterResult {
	left := v.recurse(o.Left, v.applied)
	right := v.recurse(o.Right, left.applied)
	return insertFilterResult{
		op:      plan.LeftJoin{Left: left.op, Right: right.op},
		applied: left.applied.Union(right.applied),
	}
}

func (v insertFilterVisitor) VisitUnion(o plan.Union) insertFilterResult {
	left := v.recurse(o.Left, v.applied)
	right := v.recurse(o.Right, v.applied)
	return insertFilterResult{
		op:      plan.Union{Left: left.op, Right: right.op},
		applied: left.applied.Union(right.applied),
	}
}

func (v insertFilterVisitor) VisitMinus(o plan.Minus) insertFilterResult {
	left := v.recurse(o.Left, v.applied)
	right := v.recurse(o.Right, v.applied)
	return insertFilterResult{
		op:      plan.Minus{Left: left.op, Right: right.op},
		applied: left.applied,
	}
}

func (v insertFilterVisitor) VisitFilter(o plan.Filter) insertFilterResult {
	inner := v.recurse(o.Input, v.applied)
	return insertFilterResult{
		op:      plan.Filter{Input: inner.op, Condition: o.Condition},
		applied: inner.applied,
	}
}

func (v insertFilterVisitor) VisitProjection(o plan.Projection) insertFilterResult {
	inner := v.recurse(o.Input, v.applied)
	return insertFilterResult{
		op:      plan.Projection{Input: inner.op, Variables: o.Variables},
		applied: inner.applied,
	}
}

func (v insertFilterVisitor) VisitOffset(o plan.Offset) insertFilterResult {
	inner := v.recurse(o.Input, v.applied)
	return insertFilterResult{
		op:      plan.Offset{Input: inner.op, Count: o.Count},
		applied: inner.applied,
	}
}

func (v insertFilterVisitor) VisitLimit(o plan.Limit) insertFilterResult {
	inner := v.recurse(o.Input, v.applied)
	return insertFilterResult{
		op:      plan.Limit{Input: inner.op, Count: o.Count},
		applied: inner.applied,
	}
}

// sortedFacts orders a variable's facts deterministically before
// they're folded into a conjunction. facts is a map[VariableInfo]
// struct{} (condition.go), and Go's map iteration order is randomized
// per range, including across separate iterations of the same map
// within one run; ranging it directly here would let the same (a,
// info) pair fold into structurally different (non-==) AndCond trees
// on different calls, which defeats containsOperation's == dedup in
// the optimizer whenever a scan participates in more than one
// candidate pair.
func sortedFacts(facts map[VariableInfo]struct{}) []VariableInfo {
	out := make([]VariableInfo, 0, len(facts))
	for fact := range facts {
		out = append(out, fact)
	}
	sort.Slice(out, func(i, j int) bool { return factSortKey(out[i]) < factSortKey(out[j]) })
	return out
}

// factSortKey renders a VariableInfo into a string that totally orders
// it alongside its peers, independent of map iteration order.
func factSortKey(v VariableInfo) string {
	switch {
	case v.Literal != nil:
		return fmt.Sprintf("%d:%s", v.Kind, v.Literal.String())
	case v.IRI != nil:
		return fmt.Sprintf("%d:%s", v.Kind, v.IRI.Value)
	default:
		return fmt.Sprintf("%d:", v.Kind)
	}
}

// toCondition renders a single fact about v back into a Condition
// (spec.md §4.3): the inverse of AnalyzeCondition's forward mapping.
func toCondition(v query.Variable, fact VariableInfo) query.Condition {
	switch fact.Kind {
	case InfoLt:
		return query.LT{Left: v, Right: query.LiteralTerm{Literal: fact.Literal}}
	case InfoGt:
		return query.GT{Left: v, Right: query.LiteralTerm{Literal: fact.Literal}}
	case InfoLte:
		return query.Not{Condition: query.GT{Left: v, Right: query.LiteralTerm{Literal: fact.Literal}}}
	case InfoGte:
		return query.Not{Condition: query.LT{Left: v, Right: query.LiteralTerm{Literal: fact.Literal}}}
	case InfoEqualsLiteral:
		return query.Equals{Left: v, Right: query.LiteralTerm{Literal: fact.Literal}}
	case InfoEqualsIri:
		return query.Equals{Left: v, Right: query.IRITerm{IRI: fact.IRI}}
	case InfoNotEqualsLiteral:
		return query.Not{Condition: query.Equals{Left: v, Right: query.LiteralTerm{Literal: fact.Literal}}}
	case InfoNotEqualsIri:
		return query.Not{Condition: query.Equals{Left: v, Right: query.IRITerm{IRI: fact.IRI}}}
	case InfoBound:
		return query.Bound{Variable: v}
	case InfoUnbound:
		return query.Not{Condition: query.Bound{Variable: v}}
	default:
		return nil
	}
}
