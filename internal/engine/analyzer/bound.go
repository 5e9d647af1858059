package analyzer

import (
	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
)

// BoundVars computes the set of variables an operator's output is
// *guaranteed* to bind on every row (spec.md §3 invariant iii,
// grounded on the source's BoundVars visitor).
//
// Join's guarantee is the union of both sides, since a join row always
// carries bindings from both children. Union's guarantee is only the
// intersection, since a row may come from either branch alone. Minus
// never contributes its right side to the output, so only its left
// side is guaranteed. LeftJoin = Union(Join(L,R), Minus(L,R)): the
// guarantee of that expansion is Join's guarantee (L∪R) intersected
// with Minus's guarantee (L), which reduces to exactly L — so LeftJoin
// is handled the same as Minus.
func BoundVars(o plan.Operation) VarSet {
	return plan.Visit[VarSet](boundVarsVisitor{}, o)
}

type boundVarsVisitor struct{}

func (boundVarsVisitor) VisitScan(o plan.Scan) VarSet {
	out := NewVarSet()
	if v, ok := o.Subject.(query.Variable); ok {
		out = out.Add(v)
	}
	if v, ok := o.Predicate.(query.Variable); ok {
		out = out.Add(v)
	}
	if v, ok := o.Object.(query.Variable); ok {
		out = out.Add(v)
	}
	return out
}

func (boundVarsVisitor) VisitJoin(o plan.Join) VarSet {
	return BoundVars(o.Left).Union(BoundVars(o.Right))
}

func (boundVarsVisitor) VisitLeftJoin(o plan.LeftJoin) VarSet {
	return BoundVars(o.Left)
}

func (boundVarsVisitor) VisitUnion(o plan.Union) VarSet {
	return BoundVars(o.Left).Intersect(BoundVars(o.Right))
}

func (boundVarsVisitor) VisitMinus(o plan.Minus) VarSet {
	return BoundVars(o.Left)
}

func (boundVarsVisitor) VisitFilter(o plan.Filter) VarSet {
	return BoundVars(o.Input)
}

func (boundVarsVisitor) VisitProjection(o plan.Projection) VarSet {
	inner := BoundVars(o.Input)
	out := NewVarSet()
	for _, v := range o.Variables {
		if inner.Contains(v.Name) {
			out = out.Add(v)
		}
	}
	return out
}

func (boundVarsVisitor) VisitOffset(o plan.Offset) VarSet {
	return BoundVars(o.Input)
}

func (boundVarsVisitor) VisitLimit(o plan.Limit) VarSet {
	return BoundVars(o.Input)
}

// JoinVars returns the variables a Join/LeftJoin must equi-join on:
// the intersection of its two children's bound variables (spec.md §3
// invariant iii).
func JoinVars(left, right plan.Operation) VarSet {
	return BoundVars(left).Intersect(BoundVars(right))
}
