// Package optimizer implements the plan rewrite described in spec.md
// §4.5: flatten a conjunction of scans, price scans and candidate
// joins with a selectivity estimator, synthesize pushdown filters, and
// grow a left-deep join tree ordered by estimated cost.
package optimizer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aleksaelezovic/rdfquery/internal/engine/analyzer"
	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/internal/engine/selectivity"
)

// ErrUnexpectedOperation is returned when a Join reaches the structural
// walk: a Join with any descendant other than a Scan or Join (for
// example Join(Filter(Scan), Scan)) fails Flatten, and the walk does
// not recurse through Joins. It is an error rather than a panic
// (spec.md §7's OptimizerError::UnexpectedOperation).
var ErrUnexpectedOperation = errors.New("optimizer: unexpected non-scan operation where a scan was expected")

// Optimizer rewrites a physical plan in place of the planner's naive
// left-to-right lowering (spec.md §4.5), grounded on the source's
// Optimize visitor.
type Optimizer struct {
	Estimator selectivity.Estimator
	// Condition enables accumulating ConditionInfo from Filter nodes
	// encountered during the structural walk, used to synthesize
	// pushdown filters at candidate join boundaries.
	Condition bool
}

// New returns an Optimizer using estimator, with condition-aware
// filter synthesis disabled.
func New(estimator selectivity.Estimator) Optimizer {
	return Optimizer{Estimator: estimator}
}

// WithCondition returns a copy of o with condition-aware filter
// synthesis toggled.
func (o Optimizer) WithCondition(v bool) Optimizer {
	o.Condition = v
	return o
}

// Optimize rewrites root. The Off estimator is a no-op (spec.md §4.4).
func (o Optimizer) Optimize(root plan.Operation) (plan.Operation, error) {
	result, _, err := o.optimize(root, analyzer.NewConditionInfo())
	return result, err
}

func (o Optimizer) optimize(op plan.Operation, info analyzer.ConditionInfo) (plan.Operation, analyzer.ConditionInfo, error) {
	if o.Estimator.Kind == selectivity.Off {
		return op, info, nil
	}

	if scans, err := analyzer.Flatten(op); err == nil {
		rewritten, rerr := o.reorder(scans, info)
		return rewritten, info, rerr
	}

	switch x := op.(type) {
	case plan.Scan, plan.Join:
		// A lone Scan always flattens above. A Join reaches here when
		// some descendant is neither a Scan nor a Join; such a Join
		// is not optimized and the whole Optimize call fails.
		return nil, info, fmt.Errorf("%w: %T reached past Flatten", ErrUnexpectedOperation, x)

	case plan.Projection:
		inner, info2, err := o.optimize(x.Input, info)
		if err != nil {
			return nil, info, err
		}
		return plan.Projection{Input: inner, Variables: x.Variables}, info2, nil

	case plan.Union:
		left, info2, err := o.optimize(x.Left, info)
		if err != nil {
			return nil, info, err
		}
		right, info3, err := o.optimize(x.Right, info2)
		if err != nil {
			return nil, info, err
		}
		return plan.Union{Left: left, Right: right}, info3, nil

	case plan.Filter:
		next := info
		if o.Condition {
			next = info.Union(analyzer.AnalyzeCondition(x.Condition))
		}
		inner, info2, err := o.optimize(x.Input, next)
		if err != nil {
			return nil, info, err
		}
		return plan.Filter{Input: inner, Condition: x.Condition}, info2, nil

	case plan.LeftJoin:
		left, info2, err := o.optimize(x.Left, info)
		if err != nil {
			return nil, info, err
		}
		right, info3, err := o.optimize(x.Right, info2)
		if err != nil {
			return nil, info, err
		}
		return plan.LeftJoin{Left: left, Right: right}, info3, nil

	case plan.Minus:
		left, info2, err := o.optimize(x.Left, info)
		if err != nil {
			return nil, info, err
		}
		right, info3, err := o.optimize(x.Right, info2)
		if err != nil {
			return nil, info, err
		}
		return plan.Minus{Left: left, Right: right}, info3, nil

	case plan.Offset:
		inner, info2, err := o.optimize(x.Input, info)
		if err != nil {
			return nil, info, err
		}
		return plan.Offset{Input: inner, Count: x.Count}, info2, nil

	case plan.Limit:
		inner, info2, err := o.optimize(x.Input, info)
		if err != nil {
			return nil, info, err
		}
		return plan.Limit{Input: inner, Count: x.Count}, info2, nil

	default:
		return nil, info, fmt.Errorf("optimizer: unhandled operation %T", x)
	}
}

type scanPrice struct {
	scan plan.Scan
	sel  float64
}

type joinCandidate struct {
	join plan.Join // children may already carry synthesized filters
	sel  float64
}

// reorder implements spec.md §4.5 steps 1-7 over a flattened
// conjunction of scans.
func (o Optimizer) reorder(scans []plan.Scan, info analyzer.ConditionInfo) (plan.Operation, error) {
	if len(scans) == 1 {
		return scans[0], nil
	}

	priced := make([]scanPrice, 0, len(scans))
	for _, s := range scans {
		sel, err := o.Estimator.Selectivity(s)
		if err != nil {
			return nil, err
		}
		priced = append(priced, scanPrice{scan: s, sel: sel})
	}
	sort.SliceStable(priced, func(i, j int) bool { return priced[i].sel < priced[j].sel })

	candidates := make([]joinCandidate, 0, len(scans)*(len(scans)-1))
	for i, a := range scans {
		for j, b := range scans {
			if i == j {
				continue
			}
			sel, err := o.Estimator.Selectivity(plan.Join{Left: a, Right: b})
			if err != nil {
				return nil, err
			}
			filteredLeft := analyzer.InsertFilters(a, info)
			filteredRight := analyzer.InsertFilters(b, info)
			candidates = append(candidates, joinCandidate{
				join: plan.Join{Left: filteredLeft, Right: filteredRight},
				sel:  sel,
			})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].sel < candidates[j].sel })

	seedIdx := 0
	for i, c := range candidates {
		if analyzer.JoinVars(c.join.Left, c.join.Right).Len() > 0 {
			seedIdx = i
			break
		}
	}
	seed := candidates[seedIdx].join

	leftSel, err := o.Estimator.Selectivity(seed.Left)
	if err != nil {
		return nil, err
	}
	rightSel, err := o.Estimator.Selectivity(seed.Right)
	if err != nil {
		return nil, err
	}
	if leftSel > rightSel {
		seed = plan.Join{Left: seed.Right, Right: seed.Left}
	}

	visited := []plan.Operation{seed.Left, seed.Right}
	current := plan.Operation(seed)

	for len(visited) < len(scans) {
		if grown, next, ok := growRight(candidates, visited, current); ok {
			current, visited = grown, next
			continue
		}
		if grown, next, ok := growLeft(candidates, visited, current); ok {
			current, visited = grown, next
			continue
		}
		// No candidate connects to the visited set on a shared
		// variable: attach the cheapest candidate operand not yet
		// visited as a cartesian edge so the walk still terminates
		// (spec.md §4.5 step 6, "degenerates to a Cartesian
		// product"). candidates[0] alone isn't safe here: for 3+
		// mutually disjoint scans it's the seed pair itself, and
		// re-appending an already-visited operand grows len(visited)
		// without ever joining the remaining scans into the plan.
		grown, next, ok := growCartesian(candidates, visited, current)
		if !ok {
			return nil, fmt.Errorf("optimizer: no unvisited operand remains to extend the join tree")
		}
		current, visited = grown, next
	}

	return current, nil
}

func containsOperation(list []plan.Operation, target plan.Operation) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}

// growRight extends plan with the first candidate whose left side is
// already visited and whose right side isn't, joining as Join(new,
// plan) (spec.md §4.5 step 6, "right side first").
func growRight(candidates []joinCandidate, visited []plan.Operation, current plan.Operation) (plan.Operation, []plan.Operation, bool) {
	for _, c := range candidates {
		if analyzer.JoinVars(c.join.Left, c.join.Right).Len() == 0 {
			continue
		}
		if containsOperation(visited, c.join.Left) && !containsOperation(visited, c.join.Right) {
			return plan.Join{Left: c.join.Right, Right: current}, append(visited, c.join.Right), true
		}
	}
	return nil, visited, false
}

// growLeft extends plan with the first candidate whose right side is
// already visited and whose left side isn't, joining as Join(plan,
// new).
func growLeft(candidates []joinCandidate, visited []plan.Operation, current plan.Operation) (plan.Operation, []plan.Operation, bool) {
	for _, c := range candidates {
		if analyzer.JoinVars(c.join.Left, c.join.Right).Len() == 0 {
			continue
		}
		if containsOperation(visited, c.join.Right) && !containsOperation(visited, c.join.Left) {
			return plan.Join{Left: current, Right: c.join.Left}, append(visited, c.join.Left), true
		}
	}
	return nil, visited, false
}

// growCartesian extends plan with the cheapest candidate operand not
// already visited, unconditionally — no shared-variable requirement,
// unlike growRight/growLeft. It only runs once neither of those found
// a connected candidate, i.e. the remaining scans are disjoint from
// the visited set. candidates is sorted ascending by selectivity, so
// the first candidate offering an unvisited operand is the cheapest
// such choice.
func growCartesian(candidates []joinCandidate, visited []plan.Operation, current plan.Operation) (plan.Operation, []plan.Operation, bool) {
	for _, c := range candidates {
		if !containsOperation(visited, c.join.Right) {
			return plan.Join{Left: c.join.Right, Right: current}, append(visited, c.join.Right), true
		}
		if !containsOperation(visited, c.join.Left) {
			return plan.Join{Left: c.join.Left, Right: current}, append(visited, c.join.Left), true
		}
	}
	return nil, visited, false
}
