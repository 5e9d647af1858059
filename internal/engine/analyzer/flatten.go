package analyzer

import (
	"errors"

	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
)

// ErrNonConjunctiveStructure is returned when Flatten meets anything
// other than a Scan or a Join of such subtrees (spec.md §7).
var ErrNonConjunctiveStructure = errors.New("analyzer: non-conjunctive structure")

type flattenResult struct {
	scans []plan.Scan
	err   error
}

// Flatten decomposes a pure conjunction of Scans (a basic graph
// pattern) into its list of leaf Scans, used by the optimizer to
// detect subtrees it can reorder (spec.md §4.5).
func Flatten(o plan.Operation) ([]plan.Scan, error) {
	res := plan.Visit[flattenResult](flattenVisitor{}, o)
	return res.scans, res.err
}

type flattenVisitor struct{}

func (flattenVisitor) VisitScan(o plan.Scan) flattenResult {
	return flattenResult{scans: []plan.Scan{o}}
}

func (flattenVisitor) VisitJoin(o plan.Join) flattenResult {
	left := plan.Visit[flattenResult](flattenVisitor{}, o.Left)
	if left.err != nil {
		return left
	}
	right := plan.Visit[flattenResult](flattenVisitor{}, o.Right)
	if right.err != nil {
		return right
	}
	return flattenResult{scans: append(left.scans, right.scans...)}
}

func (flattenVisitor) VisitLeftJoin(plan.LeftJoin) flattenResult {
	return flattenResult{err: ErrNonConjunctiveStructure}
}

func (flattenVisitor) VisitUnion(plan.Union) flattenResult {
	return flattenResult{err: ErrNonConjunctiveStructure}
}

func (flattenVisitor) VisitMinus(plan.Minus) flattenResult {
	return flattenResult{err: ErrNonConjunctiveStructure}
}

func (flattenVisitor) VisitFilter(plan.Filter) flattenResult {
	return flattenResult{err: ErrNonConjunctiveStructure}
}

func (flattenVisitor) VisitProjection(plan.Projection) flattenResult {
	return flattenResult{err: ErrNonConjunctiveStructure}
}

func (flattenVisitor) VisitOffset(plan.Offset) flattenResult {
	return flattenResult{err: ErrNonConjunctiveStructure}
}

func (flattenVisitor) VisitLimit(plan.Limit) flattenResult {
	return flattenResult{err: ErrNonConjunctiveStructure}
}
