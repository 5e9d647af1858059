package analyzer

import (
	"fmt"
	"strings"

	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
)

// Printer renders a plan.Operation tree as an indented, human-readable
// string for debugging and tests (spec.md §9), grounded
// on the source's Printer visitor. Each toggle controls one optional
// annotation; all default on via NewPrinter.
type Printer struct {
	bound     bool
	join      bool
	bgp       bool
	estimator Estimator
}

// Estimator is the subset of a selectivity estimator's interface the
// printer needs to annotate scans and joins with their estimated cost.
// A nil Estimator disables the annotation.
type Estimator interface {
	Name() string
	Selectivity(o plan.Operation) (float64, error)
}

// NewPrinter returns a Printer with every annotation enabled and no
// selectivity estimator.
func NewPrinter() Printer {
	return Printer{bound: true, join: true, bgp: true}
}

func (p Printer) WithBound(v bool) Printer     { p.bound = v; return p }
func (p Printer) WithJoin(v bool) Printer       { p.join = v; return p }
func (p Printer) WithBGP(v bool) Printer        { p.bgp = v; return p }
func (p Printer) WithEstimator(e Estimator) Printer { p.estimator = e; return p }

// Print renders o as a multi-line string.
func (p Printer) Print(o plan.Operation) string {
	return plan.Visit[string](printVisitor{p}, o)
}

// Print renders o using the default Printer configuration.
func Print(o plan.Operation) string {
	return NewPrinter().Print(o)
}

type printVisitor struct {
	p Printer
}

func (v printVisitor) recurse(o plan.Operation) string {
	return plan.Visit[string](v, o)
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}

func indent(lines ...string) string {
	return strings.ReplaceAll(strings.Join(lines, "\n"), "\n", "\n  ")
}

func (v printVisitor) VisitScan(o plan.Scan) string {
	var bound, bgp, selectivity string
	if v.p.bound {
		bound = fmt.Sprintf("Bound: %s", BoundVars(o).List())
	}
	if v.p.bgp {
		bgp = fmt.Sprintf("BGP: { %s %s %s }", termString(o.Subject), termString(o.Predicate), termString(o.Object))
	}
	if v.p.estimator != nil {
		s, err := v.p.estimator.Selectivity(o)
		if err != nil {
			selectivity = fmt.Sprintf("%s: NaN", v.p.estimator.Name())
		} else {
			selectivity = fmt.Sprintf("%s: %1.2e", v.p.estimator.Name(), s)
		}
	}
	return joinNonEmpty("SCAN", selectivity, bound, bgp)
}

func (v printVisitor) VisitJoin(o plan.Join) string {
	var bound, join, selectivity string
	if v.p.bound {
		bound = fmt.Sprintf("Bound: %s", BoundVars(o).List())
	}
	if v.p.join {
		join = fmt.Sprintf("Join: %s", JoinVars(o.Left, o.Right).List())
	}
	if v.p.estimator != nil {
		s, err := v.p.estimator.Selectivity(o)
		if err != nil {
			selectivity = fmt.Sprintf("%s: NaN", v.p.estimator.Name())
		} else {
			selectivity = fmt.Sprintf("%s: %1.2e", v.p.estimator.Name(), s)
		}
	}
	line := joinNonEmpty("JOIN", selectivity, bound, join)
	return indent(line, v.recurse(o.Left), v.recurse(o.Right))
}

func (v printVisitor) VisitLeftJoin(o plan.LeftJoin) string {
	return indent("LEFTJOIN", v.recurse(o.Left), v.recurse(o.Right))
}

func (v printVisitor) VisitUnion(o plan.Union) string {
	return indent("UNION", v.recurse(o.Left), v.recurse(o.Right))
}

func (v printVisitor) VisitMinus(o plan.Minus) string {
	return indent("MINUS", v.recurse(o.Left), v.recurse(o.Right))
}

func (v printVisitor) VisitFilter(o plan.Filter) string {
	return indent(fmt.Sprintf("FILTER %s", query.ConditionString(o.Condition)), v.recurse(o.Input))
}

func (v printVisitor) VisitProjection(o plan.Projection) string {
	return indent(fmt.Sprintf("PROJECTION %s", o.Variables), v.recurse(o.Input))
}

func (v printVisitor) VisitOffset(o plan.Offset) string {
	return indent(fmt.Sprintf("OFFSET %d", o.Count), v.recurse(o.Input))
}

func (v printVisitor) VisitLimit(o plan.Limit) string {
	return indent(fmt.Sprintf("LIMIT %d", o.Count), v.recurse(o.Input))
}

func termString(t interface{}) string {
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", t)
}
