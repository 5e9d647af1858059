// Package exec implements the pull-based runtime that drives a
// physical operator tree: each Operation lowers to an Iterator whose
// Next method produces one Mapping at a time (spec.md §4.2, §4.6).
package exec

import (
	"github.com/aleksaelezovic/rdfquery/internal/engine/analyzer"
	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
)

// Iterator pulls Mappings one at a time. Next returns (nil, false)
// once exhausted and must keep returning (nil, false) on every
// subsequent call.
type Iterator interface {
	Next() (*plan.Mapping, bool)
}

// Build lowers op into its Iterator, recursively building every child
// operation's iterator first (spec.md §4.6 step 6, "lower the
// optimized plan into iterators").
func Build(op plan.Operation) Iterator {
	return plan.Visit[Iterator](buildVisitor{}, op)
}

type buildVisitor struct{}

func (buildVisitor) VisitScan(o plan.Scan) Iterator {
	return newScanIterator(o)
}

func (buildVisitor) VisitJoin(o plan.Join) Iterator {
	return newJoinIterator(o)
}

// VisitLeftJoin builds LeftJoin the same way the source does: as
// Union(Join(Left, Right), Minus(Left, Right)), since a left join's
// output is exactly every inner-join match plus every unmatched left
// mapping (spec.md §4.2).
func (buildVisitor) VisitLeftJoin(o plan.LeftJoin) Iterator {
	return Build(plan.Union{
		Left:  plan.Join{Left: o.Left, Right: o.Right},
		Right: plan.Minus{Left: o.Left, Right: o.Right},
	})
}

func (buildVisitor) VisitUnion(o plan.Union) Iterator {
	return &unionIterator{left: Build(o.Left), right: Build(o.Right)}
}

func (buildVisitor) VisitMinus(o plan.Minus) Iterator {
	return newMinusIterator(o)
}

func (buildVisitor) VisitFilter(o plan.Filter) Iterator {
	return &filterIterator{input: Build(o.Input), condition: o.Condition}
}

func (buildVisitor) VisitProjection(o plan.Projection) Iterator {
	return &projectionIterator{input: Build(o.Input), variables: o.Variables}
}

func (buildVisitor) VisitOffset(o plan.Offset) Iterator {
	return &offsetIterator{input: Build(o.Input), remaining: o.Count}
}

func (buildVisitor) VisitLimit(o plan.Limit) Iterator {
	return &limitIterator{input: Build(o.Input), remaining: o.Count}
}

// joinVariables returns the variables Left and Right both guarantee
// bound, used to bucket mappings for the hash join.
func joinVariables(left, right plan.Operation) []query.Variable {
	return analyzer.JoinVars(left, right).List()
}
