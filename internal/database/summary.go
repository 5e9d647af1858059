// Package database owns the in-memory triple store and the dataset
// summary the selectivity estimators consult (spec.md §3).
package database

import (
	"math"
	"math/rand"

	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

// Histogram geometry for P_L: a sparse, per-predicate count of
// literal objects falling in 200,000 equal-width bins over
// [-10^6, 10^6] (spec.md §3, §4.4).
const (
	histogramBins = 200000
	histogramMin  = -1_000_000.0
	histogramMax  = 1_000_000.0
	histogramWidth = (histogramMax - histogramMin) / histogramBins
)

// selfJoinSampleLimit bounds how many distinct subjects buildDerived
// samples when estimating S_P; the estimate is scaled by T/|sample|
// to compensate (spec.md §3).
const selfJoinSampleLimit = 500

// Summary holds the dataset statistics consulted by the selectivity
// estimators: T (total triples), R (distinct subjects), P (distinct
// predicates), T_P[p], O_c[p][o], S_P[(p1,p2)], and P_L[p].
//
// T/R/P/T_P/O_c and the P_L histograms are maintained incrementally as
// triples are added. S_P requires the fully populated triple set and is
// filled in by BuildStatistics's separate pass.
type Summary struct {
	t          uint64
	subjects   map[string]struct{}
	predicates map[string]rdf.Term
	tP         map[string]uint64
	oC         map[string]map[string]uint64
	sP         map[[2]string]float64
	pL         map[string]map[int]uint64
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{
		subjects:   make(map[string]struct{}),
		predicates: make(map[string]rdf.Term),
		tP:         make(map[string]uint64),
		oC:         make(map[string]map[string]uint64),
		sP:         make(map[[2]string]float64),
		pL:         make(map[string]map[int]uint64),
	}
}

func termKey(t rdf.Term) string { return t.String() }

// update folds one triple into the incremental counters.
func (s *Summary) update(t rdf.Triple) {
	s.t++
	s.subjects[termKey(t.Subject)] = struct{}{}

	pKey := termKey(t.Predicate)
	if _, ok := s.predicates[pKey]; !ok {
		s.predicates[pKey] = t.Predicate
	}
	s.tP[pKey]++

	oKey := termKey(t.Object)
	bucket := s.oC[pKey]
	if bucket == nil {
		bucket = make(map[string]uint64)
		s.oC[pKey] = bucket
	}
	bucket[oKey]++

	if lit, ok := t.Object.(*rdf.Literal); ok {
		if v, ok := lit.NumericValue(); ok {
			s.addToHistogram(pKey, v)
		}
	}
}

func (s *Summary) addToHistogram(pKey string, v float64) {
	bins := s.pL[pKey]
	if bins == nil {
		bins = make(map[int]uint64)
		s.pL[pKey] = bins
	}
	bins[binIndex(v)]++
}

func binIndex(v float64) int {
	idx := int(math.Floor((v - histogramMin) / histogramWidth))
	if idx < 0 {
		idx = 0
	}
	if idx >= histogramBins {
		idx = histogramBins - 1
	}
	return idx
}

// T returns the total triple count.
func (s *Summary) T() float64 { return float64(s.t) }

// R returns the number of distinct subjects.
func (s *Summary) R() float64 { return float64(len(s.subjects)) }

// P returns the number of distinct predicates.
func (s *Summary) P() float64 { return float64(len(s.predicates)) }

// Predicates returns the set of predicate terms seen so far, in no
// particular order. Used by estimators that need to sum over all
// predicates (spec.md §4.4's marginal O_c rule).
func (s *Summary) Predicates() []rdf.Term {
	out := make([]rdf.Term, 0, len(s.predicates))
	for _, p := range s.predicates {
		out = append(out, p)
	}
	return out
}

// TP returns T_P[p], the number of triples with predicate p.
func (s *Summary) TP(p rdf.Term) float64 {
	return float64(s.tP[termKey(p)])
}

// OC returns O_c[p][o], the number of triples with predicate p and
// object o.
func (s *Summary) OC(p, o rdf.Term) float64 {
	bucket, ok := s.oC[termKey(p)]
	if !ok {
		return 0
	}
	return float64(bucket[termKey(o)])
}

// SP returns the sampled self-join estimate S_P[(p1,p2)]: roughly how
// many pairs of triples share a subject across predicates p1 and p2.
func (s *Summary) SP(p1, p2 rdf.Term) float64 {
	return s.sP[[2]string{termKey(p1), termKey(p2)}]
}

// HistogramCount sums P_L[p]'s bin counts whose range overlaps
// [lower, upper). A nil bound falls back to the histogram's own
// extreme, so an unbounded side is absorbed by the first/last bin
// (spec.md §4.4's underflow/overflow behavior).
func (s *Summary) HistogramCount(p rdf.Term, lower, upper *float64) float64 {
	bins, ok := s.pL[termKey(p)]
	if !ok {
		return 0
	}
	lo := histogramMin
	if lower != nil {
		lo = *lower
	}
	hi := histogramMax
	if upper != nil {
		hi = *upper
	}
	if hi < lo {
		return 0
	}
	loBin := binIndex(lo)
	hiBin := binIndex(hi)
	var sum uint64
	for b, c := range bins {
		if b >= loBin && b <= hiBin {
			sum += c
		}
	}
	return float64(sum)
}

// buildDerived computes S_P by sampling up to selfJoinSampleLimit
// subjects (shuffled with a fixed seed so results are reproducible),
// counting per-subject predicate co-occurrence, and scaling the
// sampled total by T/|sample|.
func (s *Summary) buildDerived(triples []rdf.Triple) {
	bySubject := make(map[string][]rdf.Triple)
	order := make([]string, 0)
	for _, t := range triples {
		k := termKey(t.Subject)
		if _, ok := bySubject[k]; !ok {
			order = append(order, k)
		}
		bySubject[k] = append(bySubject[k], t)
	}
	if len(order) == 0 {
		return
	}

	rng := rand.New(rand.NewSource(1))
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	sampleN := len(order)
	if sampleN > selfJoinSampleLimit {
		sampleN = selfJoinSampleLimit
	}
	sample := order[:sampleN]

	counts := make(map[[2]string]uint64)
	for _, subjKey := range sample {
		perPred := make(map[string]uint64)
		for _, t := range bySubject[subjKey] {
			perPred[termKey(t.Predicate)]++
		}
		for p1, c1 := range perPred {
			for p2, c2 := range perPred {
				counts[[2]string{p1, p2}] += c1 * c2
			}
		}
	}

	scale := s.T() / float64(sampleN)
	result := make(map[[2]string]float64, len(counts))
	for k, c := range counts {
		result[k] = float64(c) * scale
	}
	s.sP = result
}

// Snapshot captures the derived (expensive-to-compute) fields for
// sidecar persistence: S_P and P_L. The incremental counters are
// cheap to rebuild from triples and aren't persisted.
type Snapshot struct {
	TripleCount uint64
	SP          map[[2]string]float64
	PL          map[string]map[int]uint64
}

// Snapshot returns the persistable derived state.
func (s *Summary) Snapshot() Snapshot {
	return Snapshot{TripleCount: s.t, SP: s.sP, PL: s.pL}
}

// RestoreDerived installs previously persisted S_P/P_L state, skipping
// the sampling pass in buildDerived. The caller is responsible for
// checking snap.TripleCount against the live triple count before
// trusting it.
func (s *Summary) RestoreDerived(snap Snapshot) {
	if snap.SP != nil {
		s.sP = snap.SP
	}
	if snap.PL != nil {
		s.pL = snap.PL
	}
}
