package analyzer

import "github.com/aleksaelezovic/rdfquery/internal/engine/plan"

// OperationMeta tallies how a plan is shaped: how many joins, scans,
// and filters it contains, and how many of its joins are disjunct
// (empty join_vars, i.e. a Cartesian product) — spec.md §4.6's
// QueryResult.operations().
type OperationMeta struct {
	Joins         int
	Scans         int
	Filters       int
	DisjunctJoins int
}

// Add combines two tallies field-by-field.
func (m OperationMeta) Add(other OperationMeta) OperationMeta {
	return OperationMeta{
		Joins:         m.Joins + other.Joins,
		Scans:         m.Scans + other.Scans,
		Filters:       m.Filters + other.Filters,
		DisjunctJoins: m.DisjunctJoins + other.DisjunctJoins,
	}
}

// Meta walks o and accumulates its OperationMeta.
func Meta(o plan.Operation) OperationMeta {
	return plan.Visit[OperationMeta](metaVisitor{}, o)
}

type metaVisitor struct{}

func (metaVisitor) VisitScan(plan.Scan) OperationMeta {
	return OperationMeta{Scans: 1}
}

func (metaVisitor) VisitJoin(o plan.Join) OperationMeta {
	self := OperationMeta{Joins: 1, DisjunctJoins: disjunctCount(o.Left, o.Right)}
	return self.Add(Meta(o.Left)).Add(Meta(o.Right))
}

// VisitLeftJoin counts a LeftJoin like a Join: our executor iterates
// Left and Right once each to produce the Union(Join,Minus) semantics
// rather than literally duplicating the subtrees, so neither child's
// meta is double-counted.
func (metaVisitor) VisitLeftJoin(o plan.LeftJoin) OperationMeta {
	self := OperationMeta{Joins: 1, DisjunctJoins: disjunctCount(o.Left, o.Right)}
	return self.Add(Meta(o.Left)).Add(Meta(o.Right))
}

func (metaVisitor) VisitUnion(o plan.Union) OperationMeta {
	return Meta(o.Left).Add(Meta(o.Right))
}

func (metaVisitor) VisitMinus(o plan.Minus) OperationMeta {
	return Meta(o.Left).Add(Meta(o.Right))
}

func (metaVisitor) VisitFilter(o plan.Filter) OperationMeta {
	return OperationMeta{Filters: 1}.Add(Meta(o.Input))
}

func (metaVisitor) VisitProjection(o plan.Projection) OperationMeta {
	return Meta(o.Input)
}

func (metaVisitor) VisitOffset(o plan.Offset) OperationMeta {
	return Meta(o.Input)
}

func (metaVisitor) VisitLimit(o plan.Limit) OperationMeta {
	return Meta(o.Input)
}

func disjunctCount(left, right plan.Operation) int {
	if JoinVars(left, right).Len() == 0 {
		return 1
	}
	return 0
}
