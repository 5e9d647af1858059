// Package selectivity implements the pluggable cost models the
// optimizer uses to order scans and joins (spec.md §4.4), grounded on
// the source's Selectivity trait and SelectivityEstimator enum.
package selectivity

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/aleksaelezovic/rdfquery/internal/database"
	"github.com/aleksaelezovic/rdfquery/internal/engine/analyzer"
	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

// Kind names one of the nine cost models.
type Kind int

const (
	Off Kind = iota
	Random
	Fixed
	ArqPF
	ArqPFC
	ArqPFJ
	ArqPFJC
	ArqVC
	ArqVCP
)

func (k Kind) String() string {
	switch k {
	case Off:
		return "Off"
	case Random:
		return "Random"
	case Fixed:
		return "Fixed"
	case ArqPF:
		return "ARQ/PF"
	case ArqPFC:
		return "ARQ/PFC"
	case ArqPFJ:
		return "ARQ/PFJ"
	case ArqPFJC:
		return "ARQ/PFJC"
	case ArqVC:
		return "ARQ/VC"
	case ArqVCP:
		return "ARQ/VCP"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind resolves the CLI/config spelling of an estimator name.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{Off, Random, Fixed, ArqPF, ArqPFC, ArqPFJ, ArqPFJC, ArqVC, ArqVCP} {
		if k.String() == s {
			return k, nil
		}
	}
	return Off, fmt.Errorf("selectivity: unknown estimator %q", s)
}

// ErrNonConjunctiveStructure is returned when an estimator is asked to
// price a node it doesn't apply to (spec.md §4.4's NonConjunctiveStructure).
var ErrNonConjunctiveStructure = errors.New("selectivity: estimator does not apply to this node")

// ErrNoSelectivityForJoin is returned by the PF family when a join's
// children aren't both scans.
var ErrNoSelectivityForJoin = errors.New("selectivity: join children are not both scans")

// ErrEncounteredNaNValue is returned when a computed selectivity is NaN
// (e.g. a divide-by-zero against an empty summary).
var ErrEncounteredNaNValue = errors.New("selectivity: encountered NaN value")

// Estimator computes a selectivity for a plan.Operation under one cost
// model, backed by a dataset Summary and (for the condition-aware
// variants) a ConditionInfo (spec.md §4.4).
type Estimator struct {
	Kind    Kind
	Summary *database.Summary
	Info    analyzer.ConditionInfo
}

// New returns an Estimator. Info may be the zero value for estimators
// that don't use it.
func New(kind Kind, summary *database.Summary, info analyzer.ConditionInfo) Estimator {
	return Estimator{Kind: kind, Summary: summary, Info: info}
}

func (e Estimator) Name() string { return e.Kind.String() }

// Selectivity computes σ for o. The Off estimator panics if queried —
// callers must never query it (spec.md §4.4).
func (e Estimator) Selectivity(o plan.Operation) (float64, error) {
	if e.Kind == Off {
		panic("selectivity: Off estimator must never be queried")
	}

	switch x := o.(type) {
	case plan.Scan:
		return e.scanSelectivity(x)
	case plan.Join:
		return e.joinSelectivity(x)
	case plan.LeftJoin:
		return e.joinSelectivity(plan.Join{Left: x.Left, Right: x.Right})
	// Filter/Projection/Offset/Limit don't change an operation's
	// cardinality estimate on their own (the PFC/PFJC variants already
	// fold condition narrowing into the scan formula itself), so the
	// optimizer's seed-selection and growth steps — which may query the
	// selectivity of an already filter-wrapped candidate — see through
	// to the wrapped operation.
	case plan.Filter:
		return e.Selectivity(x.Input)
	case plan.Projection:
		return e.Selectivity(x.Input)
	case plan.Offset:
		return e.Selectivity(x.Input)
	case plan.Limit:
		return e.Selectivity(x.Input)
	default:
		return 0, ErrNonConjunctiveStructure
	}
}

func checkNaN(v float64) (float64, error) {
	if math.IsNaN(v) {
		return 0, ErrEncounteredNaNValue
	}
	return v, nil
}

func (e Estimator) scanSelectivity(s plan.Scan) (float64, error) {
	switch e.Kind {
	case Random:
		return rand.Float64(), nil
	case Fixed:
		return 1.0, nil
	case ArqVC, ArqVCP:
		return scanVC(s), nil
	case ArqPF, ArqPFJ:
		return e.scanPF(s)
	case ArqPFC, ArqPFJC:
		return e.scanPFC(s)
	default:
		return 0, ErrNonConjunctiveStructure
	}
}

func (e Estimator) joinSelectivity(j plan.Join) (float64, error) {
	switch e.Kind {
	case Random:
		return rand.Float64(), nil
	case Fixed:
		return 1.0, nil
	case ArqVC:
		return e.joinVC(j, false)
	case ArqVCP:
		return e.joinVC(j, true)
	case ArqPF:
		return e.joinPF(j)
	case ArqPFC:
		return e.joinPFC(j)
	case ArqPFJ:
		return e.joinPFJ(j)
	case ArqPFJC:
		return e.joinPFJC(j)
	default:
		return 0, ErrNonConjunctiveStructure
	}
}

// --- ARQ/VC, ARQ/VCP ---------------------------------------------------

func selSubject(s query.Subject) float64 {
	if _, ok := s.(query.Variable); ok {
		return 1.0
	}
	return 0.25
}

func selPredicateVC(p query.Predicate) float64 {
	if _, ok := p.(query.Variable); ok {
		return 1.0
	}
	return 0.75
}

func selObjectVC(o query.Object) float64 {
	if _, ok := o.(query.Variable); ok {
		return 1.0
	}
	return 0.5
}

func scanVC(s plan.Scan) float64 {
	return selSubject(s.Subject) * selPredicateVC(s.Predicate) * selObjectVC(s.Object)
}

func (e Estimator) joinVC(j plan.Join, cartesianOverride bool) (float64, error) {
	left, err := e.Selectivity(j.Left)
	if err != nil {
		return 0, err
	}
	right, err := e.Selectivity(j.Right)
	if err != nil {
		return 0, err
	}

	weight := 1.0
	leftScan, leftIsScan := j.Left.(plan.Scan)
	rightScan, rightIsScan := j.Right.(plan.Scan)
	if leftIsScan && rightIsScan {
		if cartesianOverride && isBareObjectPattern(leftScan) && isBareObjectPattern(rightScan) &&
			distinctSubjects(leftScan, rightScan) {
			return 1.0, nil
		}
		weight = joinShapeWeight(leftScan, rightScan)
	}

	return checkNaN(left * right * weight)
}

// isBareObjectPattern reports whether s is shaped `(?var, _, const)`:
// a variable subject with a bound object, used by ARQ/VCP's cartesian
// special case.
func isBareObjectPattern(s plan.Scan) bool {
	if _, ok := s.Subject.(query.Variable); !ok {
		return false
	}
	if _, ok := s.Object.(query.Variable); ok {
		return false
	}
	return true
}

func distinctSubjects(a, b plan.Scan) bool {
	va, ok := a.Subject.(query.Variable)
	if !ok {
		return false
	}
	vb, ok := b.Subject.(query.Variable)
	if !ok {
		return false
	}
	return va.Name != vb.Name
}

// joinShapeWeight implements spec.md §4.4's "take the minimum
// applicable" join-shape weighting: subject-predicate shared variable
// 0.25, subject-subject 0.5, subject-object/object-object 0.75,
// otherwise 1.0.
func joinShapeWeight(a, b plan.Scan) float64 {
	type slot struct {
		name string
		v    query.Variable
		ok   bool
	}
	varOf := func(t interface{}) (query.Variable, bool) {
		v, ok := t.(query.Variable)
		return v, ok
	}
	aSlots := []slot{}
	if v, ok := varOf(a.Subject); ok {
		aSlots = append(aSlots, slot{"S", v, ok})
	}
	if v, ok := varOf(a.Predicate); ok {
		aSlots = append(aSlots, slot{"P", v, ok})
	}
	if v, ok := varOf(a.Object); ok {
		aSlots = append(aSlots, slot{"O", v, ok})
	}
	bSlots := []slot{}
	if v, ok := varOf(b.Subject); ok {
		bSlots = append(bSlots, slot{"S", v, ok})
	}
	if v, ok := varOf(b.Predicate); ok {
		bSlots = append(bSlots, slot{"P", v, ok})
	}
	if v, ok := varOf(b.Object); ok {
		bSlots = append(bSlots, slot{"O", v, ok})
	}

	weight := 1.0
	for _, as := range aSlots {
		for _, bs := range bSlots {
			if as.v.Name != bs.v.Name {
				continue
			}
			w := 1.0
			switch {
			case (as.name == "S" && bs.name == "P") || (as.name == "P" && bs.name == "S"):
				w = 0.25
			case as.name == "S" && bs.name == "S":
				w = 0.5
			case (as.name == "S" && bs.name == "O") || (as.name == "O" && bs.name == "S") || (as.name == "O" && bs.name == "O"):
				w = 0.75
			}
			if w < weight {
				weight = w
			}
		}
	}
	return weight
}

// --- ARQ/PF, ARQ/PFJ (scan) ---------------------------------------------

func (e Estimator) scanPF(s plan.Scan) (float64, error) {
	sSel := 1.0
	if _, ok := s.Subject.(query.Variable); !ok {
		if r := e.Summary.R(); r > 0 {
			sSel = 1.0 / r
		}
	}

	pTerm, pBound := predicateTerm(s.Predicate)
	pSel := 1.0
	if pBound {
		t := e.Summary.T()
		if t > 0 {
			pSel = e.Summary.TP(pTerm) / t
		}
	}

	oSel, err := e.objectGivenPredicateSel(s)
	if err != nil {
		return 0, err
	}

	return checkNaN(sSel * pSel * oSel)
}

func (e Estimator) objectGivenPredicateSel(s plan.Scan) (float64, error) {
	oTerm, oBound := objectTerm(s.Object)
	if !oBound {
		return 1.0, nil
	}
	pTerm, pBound := predicateTerm(s.Predicate)
	if pBound {
		tp := e.Summary.TP(pTerm)
		if tp == 0 {
			return 0, nil
		}
		return e.Summary.OC(pTerm, oTerm) / tp, nil
	}
	// Marginal over every predicate seen so far.
	sum := 0.0
	for _, p := range e.Summary.Predicates() {
		tp := e.Summary.TP(p)
		if tp == 0 {
			continue
		}
		sum += e.Summary.OC(p, oTerm) / tp
	}
	return sum, nil
}

func predicateTerm(p query.Predicate) (rdf.Term, bool) {
	if t, ok := p.(query.IRITerm); ok {
		return t.IRI, true
	}
	return nil, false
}

func objectTerm(o query.Object) (rdf.Term, bool) {
	switch t := o.(type) {
	case query.IRITerm:
		return t.IRI, true
	case query.LiteralTerm:
		return t.Literal, true
	default:
		return nil, false
	}
}

// --- ARQ/PFC, ARQ/PFJC (scan) --------------------------------------------

func (e Estimator) scanPFC(s plan.Scan) (float64, error) {
	base, err := e.scanPF(s)
	if err != nil {
		return 0, err
	}
	factor, err := e.conditionFactor(s)
	if err != nil {
		return 0, err
	}
	return checkNaN(base * factor)
}

// conditionFactor narrows a scan's estimate using the facts
// ConditionInfo recorded about its object variable, consulting the
// predicate's sparse histogram (spec.md §4.4).
func (e Estimator) conditionFactor(s plan.Scan) (float64, error) {
	v, ok := s.Object.(query.Variable)
	if !ok {
		return 1.0, nil
	}
	pTerm, pBound := predicateTerm(s.Predicate)
	if !pBound {
		return 1.0, nil
	}
	tp := e.Summary.TP(pTerm)
	if tp == 0 {
		return 1.0, nil
	}

	var lower, upper *float64
	for fact := range e.Info.Get(v.Name) {
		if fact.Literal == nil {
			continue
		}
		val, ok := fact.Literal.NumericValue()
		if !ok {
			continue
		}
		switch fact.Kind {
		case analyzer.InfoGt, analyzer.InfoGte:
			if lower == nil || val > *lower {
				lv := val
				lower = &lv
			}
		case analyzer.InfoLt, analyzer.InfoLte:
			if upper == nil || val < *upper {
				uv := val
				upper = &uv
			}
		case analyzer.InfoEqualsLiteral:
			lv, uv := val, val
			lower, upper = &lv, &uv
		}
	}
	if lower == nil && upper == nil {
		return 1.0, nil
	}

	full := e.Summary.HistogramCount(pTerm, nil, nil)
	if full == 0 {
		return 1.0, nil
	}
	count := e.Summary.HistogramCount(pTerm, lower, upper)
	return checkNaN(count / tp)
}

// --- ARQ/PF, ARQ/PFC joins -----------------------------------------------

func (e Estimator) joinPF(j plan.Join) (float64, error) {
	left, right, err := bothScans(j)
	if err != nil {
		return 0, err
	}

	t := e.Summary.T()
	if t == 0 {
		return 0, nil
	}

	base := e.sampledJoinBase(left, right) / (t * t)

	legL, err := e.perLegBoundFactor(left)
	if err != nil {
		return 0, err
	}
	legR, err := e.perLegBoundFactor(right)
	if err != nil {
		return 0, err
	}

	return checkNaN(base * legL * legR)
}

// sampledJoinBase looks up S_P(p1,p2) when both predicates are bound;
// when one is a variable, falls back to the average per-predicate
// triple count T/P as a neutral stand-in (spec.md §4.4 doesn't specify
// this corner case explicitly).
func (e Estimator) sampledJoinBase(left, right plan.Scan) float64 {
	p1, ok1 := predicateTerm(left.Predicate)
	p2, ok2 := predicateTerm(right.Predicate)
	if ok1 && ok2 {
		return e.Summary.SP(p1, p2)
	}
	p := e.Summary.P()
	if p == 0 {
		return 0
	}
	avg := e.Summary.T() / p
	return avg
}

// perLegBoundFactor is a scan's sel(S)*sel(O|P) factor, excluding the
// predicate factor already folded into the S_P lookup.
func (e Estimator) perLegBoundFactor(s plan.Scan) (float64, error) {
	sSel := 1.0
	if _, ok := s.Subject.(query.Variable); !ok {
		if r := e.Summary.R(); r > 0 {
			sSel = 1.0 / r
		}
	}
	oSel, err := e.objectGivenPredicateSel(s)
	if err != nil {
		return 0, err
	}
	return sSel * oSel, nil
}

func bothScans(j plan.Join) (plan.Scan, plan.Scan, error) {
	left, ok := j.Left.(plan.Scan)
	if !ok {
		return plan.Scan{}, plan.Scan{}, ErrNoSelectivityForJoin
	}
	right, ok := j.Right.(plan.Scan)
	if !ok {
		return plan.Scan{}, plan.Scan{}, ErrNoSelectivityForJoin
	}
	return left, right, nil
}

func (e Estimator) joinPFC(j plan.Join) (float64, error) {
	base, err := e.joinPF(j)
	if err != nil {
		return 0, err
	}
	left, right, err := bothScans(j)
	if err != nil {
		return 0, err
	}
	factorL, err := e.conditionFactor(left)
	if err != nil {
		return 0, err
	}
	factorR, err := e.conditionFactor(right)
	if err != nil {
		return 0, err
	}
	return checkNaN(base * factorL * factorR)
}

// --- ARQ/PFJ, ARQ/PFJC joins ---------------------------------------------

func (e Estimator) joinPFJ(j plan.Join) (float64, error) {
	base, err := e.joinPF(j)
	if err != nil {
		return 0, err
	}
	left, right, err := bothScans(j)
	if err != nil {
		return 0, err
	}
	selL, err := e.scanPF(left)
	if err != nil {
		return 0, err
	}
	selR, err := e.scanPF(right)
	if err != nil {
		return 0, err
	}
	return checkNaN(base * math.Min(selL, selR))
}

func (e Estimator) joinPFJC(j plan.Join) (float64, error) {
	base, err := e.joinPFC(j)
	if err != nil {
		return 0, err
	}
	left, right, err := bothScans(j)
	if err != nil {
		return 0, err
	}
	selL, err := e.scanPFC(left)
	if err != nil {
		return 0, err
	}
	selR, err := e.scanPFC(right)
	if err != nil {
		return 0, err
	}
	return checkNaN(base * math.Min(selL, selR))
}
