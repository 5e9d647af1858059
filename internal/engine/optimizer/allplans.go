package optimizer

import (
	"errors"
	"fmt"

	"github.com/aleksaelezovic/rdfquery/internal/engine/analyzer"
	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
)

// ErrTooManyScans is returned by AllPlans when a conjunction has more
// than 6 scans — the number of full binary tree shapes times scan
// permutations grows factorially and stops being a useful diagnostic
// well before that point.
var ErrTooManyScans = errors.New("optimizer: too many scans to enumerate all plans")

// AllPlans enumerates every full binary join tree shape over every
// permutation of a conjunction's scans, used as an exhaustive
// alternative to Optimizer's heuristic search for small queries
// (debugging and cost-model comparison).
func AllPlans(op plan.Operation) ([]plan.Operation, error) {
	if scans, err := analyzer.Flatten(op); err == nil {
		return allPlansForScans(scans)
	}

	switch x := op.(type) {
	case plan.Scan, plan.Join:
		return nil, fmt.Errorf("%w: %T reached past Flatten", ErrUnexpectedOperation, x)

	case plan.Projection:
		inner, err := AllPlans(x.Input)
		if err != nil {
			return nil, err
		}
		out := make([]plan.Operation, len(inner))
		for i, in := range inner {
			out[i] = plan.Projection{Input: in, Variables: x.Variables}
		}
		return out, nil

	case plan.Filter:
		inner, err := AllPlans(x.Input)
		if err != nil {
			return nil, err
		}
		out := make([]plan.Operation, len(inner))
		for i, in := range inner {
			out[i] = plan.Filter{Input: in, Condition: x.Condition}
		}
		return out, nil

	case plan.Offset:
		inner, err := AllPlans(x.Input)
		if err != nil {
			return nil, err
		}
		out := make([]plan.Operation, len(inner))
		for i, in := range inner {
			out[i] = plan.Offset{Input: in, Count: x.Count}
		}
		return out, nil

	case plan.Limit:
		inner, err := AllPlans(x.Input)
		if err != nil {
			return nil, err
		}
		out := make([]plan.Operation, len(inner))
		for i, in := range inner {
			out[i] = plan.Limit{Input: in, Count: x.Count}
		}
		return out, nil

	case plan.Union:
		return cartesianWrap(x.Left, x.Right, func(l, r plan.Operation) plan.Operation {
			return plan.Union{Left: l, Right: r}
		})

	case plan.LeftJoin:
		return cartesianWrap(x.Left, x.Right, func(l, r plan.Operation) plan.Operation {
			return plan.LeftJoin{Left: l, Right: r}
		})

	case plan.Minus:
		return cartesianWrap(x.Left, x.Right, func(l, r plan.Operation) plan.Operation {
			return plan.Minus{Left: l, Right: r}
		})

	default:
		return nil, fmt.Errorf("optimizer: unhandled operation %T", x)
	}
}

func cartesianWrap(left, right plan.Operation, combine func(l, r plan.Operation) plan.Operation) ([]plan.Operation, error) {
	lefts, err := AllPlans(left)
	if err != nil {
		return nil, err
	}
	rights, err := AllPlans(right)
	if err != nil {
		return nil, err
	}
	out := make([]plan.Operation, 0, len(lefts)*len(rights))
	for _, l := range lefts {
		for _, r := range rights {
			out = append(out, combine(l, r))
		}
	}
	return out, nil
}

func allPlansForScans(scans []plan.Scan) ([]plan.Operation, error) {
	if len(scans) > 6 {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyScans, len(scans))
	}
	if len(scans) == 1 {
		return []plan.Operation{scans[0]}, nil
	}

	trees := allFullBinaryTrees(2*len(scans) - 1)
	perms := permuteScans(scans)

	out := make([]plan.Operation, 0, len(trees)*len(perms))
	for _, tree := range trees {
		leafed := tree.enumerateLeaves()
		for _, perm := range perms {
			out = append(out, leafed.toOperation(perm))
		}
	}
	return out, nil
}

// treeNode is a full binary tree shape: every node has either zero or
// two children. Leaves carry a 1-based position assigned by
// enumerateLeaves; internal nodes carry no meaning in val until then.
type treeNode struct {
	val         int
	left, right *treeNode
}

func (t *treeNode) isLeaf() bool { return t.left == nil && t.right == nil }

// enumerateLeaves returns a copy of t with leaves numbered left to
// right starting at 1, used to key a scan permutation map.
func (t *treeNode) enumerateLeaves() *treeNode {
	n := 0
	var walk func(*treeNode) *treeNode
	walk = func(node *treeNode) *treeNode {
		if node.isLeaf() {
			n++
			return &treeNode{val: n}
		}
		return &treeNode{left: walk(node.left), right: walk(node.right)}
	}
	return walk(t)
}

func (t *treeNode) toOperation(scans map[int]plan.Scan) plan.Operation {
	if t.isLeaf() {
		return scans[t.val]
	}
	return plan.Join{Left: t.left.toOperation(scans), Right: t.right.toOperation(scans)}
}

// allFullBinaryTrees returns every distinct full binary tree shape
// with n nodes (n must be odd), memoized by node count — transcribed
// from the leetcode "All Possible Full Binary Trees" recurrence.
func allFullBinaryTrees(n int) []*treeNode {
	cache := map[int][]*treeNode{}
	var helper func(i int) []*treeNode
	helper = func(i int) []*treeNode {
		if cached, ok := cache[i]; ok {
			return cached
		}
		var ans []*treeNode
		if i == 1 {
			ans = append(ans, &treeNode{})
		} else {
			for k := 1; k < i-1; k += 2 {
				lefts := helper(k)
				rights := helper(i - 1 - k)
				for _, l := range lefts {
					for _, r := range rights {
						ans = append(ans, &treeNode{left: l, right: r})
					}
				}
			}
		}
		cache[i] = ans
		return ans
	}
	return helper(n)
}

// permuteScans returns every ordering of scans as a 1-based position
// map, matching the leaf numbering produced by enumerateLeaves.
func permuteScans(scans []plan.Scan) []map[int]plan.Scan {
	n := len(scans)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	var perms [][]int
	var permute func(remaining []int, acc []int)
	permute = func(remaining []int, acc []int) {
		if len(remaining) == 0 {
			cp := make([]int, len(acc))
			copy(cp, acc)
			perms = append(perms, cp)
			return
		}
		for i, v := range remaining {
			next := make([]int, 0, len(remaining)-1)
			next = append(next, remaining[:i]...)
			next = append(next, remaining[i+1:]...)
			permute(next, append(acc, v))
		}
	}
	permute(indices, nil)

	out := make([]map[int]plan.Scan, 0, len(perms))
	for _, perm := range perms {
		m := make(map[int]plan.Scan, n)
		for pos, idx := range perm {
			m[pos+1] = scans[idx]
		}
		out = append(out, m)
	}
	return out
}
