package selectivity

import (
	"errors"
	"testing"

	"github.com/aleksaelezovic/rdfquery/internal/database"
	"github.com/aleksaelezovic/rdfquery/internal/engine/analyzer"
	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

func sampleDB() *database.Database {
	db := database.New()
	p1 := rdf.NewIRI("http://ex.org/age")
	p2 := rdf.NewIRI("http://ex.org/email")
	// Ages 20, 30, ..., 110: one per 10-wide histogram bin, so a bounded
	// range can select fewer bins than the full set.
	for i := 0; i < 10; i++ {
		s := rdf.NewIRI("http://ex.org/person" + string(rune('a'+i)))
		db.Add(rdf.NewTriple(s, p1, rdf.NewIntegerLiteral(int64(20+10*i))))
	}
	db.Add(rdf.NewTriple(rdf.NewIRI("http://ex.org/persona"), p2, rdf.NewLiteral("a@ex.org")))
	db.BuildStatistics("")
	return db
}

func TestKind_StringRoundTripsThroughParseKind(t *testing.T) {
	for _, k := range []Kind{Off, Random, Fixed, ArqPF, ArqPFC, ArqPFJ, ArqPFJC, ArqVC, ArqVCP} {
		parsed, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k.String(), err)
		}
		if parsed != k {
			t.Errorf("expected %v, got %v", k, parsed)
		}
	}
}

func TestSelectivity_OffPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected Off estimator to panic")
		}
	}()
	db := sampleDB()
	e := New(Off, db.Summary(), analyzer.NewConditionInfo())
	scan := plan.Scan{DB: db, Subject: query.NewVariable("s"), Predicate: query.NewVariable("p"), Object: query.NewVariable("o")}
	_, _ = e.Selectivity(scan)
}

func TestSelectivity_FixedAlwaysOne(t *testing.T) {
	db := sampleDB()
	e := New(Fixed, db.Summary(), analyzer.NewConditionInfo())
	scan := plan.Scan{DB: db, Subject: query.NewVariable("s"), Predicate: query.NewVariable("p"), Object: query.NewVariable("o")}
	s, err := e.Selectivity(scan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != 1.0 {
		t.Errorf("expected 1.0, got %v", s)
	}
}

func TestScanVC_FullyVariablePatternIsOne(t *testing.T) {
	db := sampleDB()
	scan := plan.Scan{DB: db, Subject: query.NewVariable("s"), Predicate: query.NewVariable("p"), Object: query.NewVariable("o")}
	if got := scanVC(scan); got != 1.0 {
		t.Errorf("expected 1.0 for fully unbound scan, got %v", got)
	}
}

func TestScanVC_BoundPositionsMultiply(t *testing.T) {
	db := sampleDB()
	scan := plan.Scan{
		DB:        db,
		Subject:   query.NewIRITerm(rdf.NewIRI("http://ex.org/persona")),
		Predicate: query.NewIRITerm(rdf.NewIRI("http://ex.org/age")),
		Object:    query.NewLiteralTerm(rdf.NewIntegerLiteral(20)),
	}
	want := 0.25 * 0.75 * 0.5
	if got := scanVC(scan); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestJoinVars_ShapeWeight_SubjectSubjectSharing(t *testing.T) {
	shared := query.NewVariable("shared")
	a := plan.Scan{Subject: shared, Predicate: query.NewVariable("p1"), Object: query.NewVariable("o1")}
	b := plan.Scan{Subject: shared, Predicate: query.NewVariable("p2"), Object: query.NewVariable("o2")}
	if w := joinShapeWeight(a, b); w != 0.5 {
		t.Errorf("expected subject-subject weight 0.5, got %v", w)
	}
}

func TestJoinVars_ShapeWeight_NoSharedVariableIsOne(t *testing.T) {
	a := plan.Scan{Subject: query.NewVariable("a"), Predicate: query.NewVariable("p1"), Object: query.NewVariable("o1")}
	b := plan.Scan{Subject: query.NewVariable("b"), Predicate: query.NewVariable("p2"), Object: query.NewVariable("o2")}
	if w := joinShapeWeight(a, b); w != 1.0 {
		t.Errorf("expected weight 1.0 when nothing shared, got %v", w)
	}
}

func TestScanPF_BoundSubjectUsesInverseDistinctSubjects(t *testing.T) {
	db := sampleDB()
	e := New(ArqPF, db.Summary(), analyzer.NewConditionInfo())
	scan := plan.Scan{
		DB:        db,
		Subject:   query.NewIRITerm(rdf.NewIRI("http://ex.org/persona")),
		Predicate: query.NewVariable("p"),
		Object:    query.NewVariable("o"),
	}
	s, err := e.Selectivity(scan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantS := 1.0 / db.Summary().R()
	if s != wantS {
		t.Errorf("expected sel(S)=1/R=%v with unbound P/O, got %v", wantS, s)
	}
}

func TestScanPF_BoundPredicateUsesTPOverT(t *testing.T) {
	db := sampleDB()
	e := New(ArqPF, db.Summary(), analyzer.NewConditionInfo())
	ageIRI := rdf.NewIRI("http://ex.org/age")
	scan := plan.Scan{
		DB:        db,
		Subject:   query.NewVariable("s"),
		Predicate: query.NewIRITerm(ageIRI),
		Object:    query.NewVariable("o"),
	}
	s, err := e.Selectivity(scan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := db.Summary().TP(ageIRI) / db.Summary().T()
	if s != want {
		t.Errorf("expected sel(P)=T_P/T=%v, got %v", want, s)
	}
}

func TestJoinPF_RequiresBothScans(t *testing.T) {
	db := sampleDB()
	e := New(ArqPF, db.Summary(), analyzer.NewConditionInfo())
	scan := plan.Scan{DB: db, Subject: query.NewVariable("s"), Predicate: query.NewVariable("p"), Object: query.NewVariable("o")}
	nonScan := plan.Filter{Input: scan, Condition: query.Bound{Variable: query.NewVariable("s")}}

	_, err := e.Selectivity(plan.Join{Left: scan, Right: nonScan})
	if !errors.Is(err, ErrNoSelectivityForJoin) {
		t.Fatalf("expected ErrNoSelectivityForJoin, got %v", err)
	}
}

func TestJoinPF_BothScansComputesWithoutError(t *testing.T) {
	db := sampleDB()
	e := New(ArqPF, db.Summary(), analyzer.NewConditionInfo())
	shared := query.NewVariable("s")
	a := plan.Scan{DB: db, Subject: shared, Predicate: query.NewIRITerm(rdf.NewIRI("http://ex.org/age")), Object: query.NewVariable("age")}
	b := plan.Scan{DB: db, Subject: shared, Predicate: query.NewIRITerm(rdf.NewIRI("http://ex.org/email")), Object: query.NewVariable("email")}

	s, err := e.Selectivity(plan.Join{Left: a, Right: b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s < 0 {
		t.Errorf("expected non-negative selectivity, got %v", s)
	}
}

func TestConditionFactor_NoFactsIsNeutral(t *testing.T) {
	db := sampleDB()
	e := New(ArqPFC, db.Summary(), analyzer.NewConditionInfo())
	scan := plan.Scan{
		DB:        db,
		Subject:   query.NewVariable("s"),
		Predicate: query.NewIRITerm(rdf.NewIRI("http://ex.org/age")),
		Object:    query.NewVariable("age"),
	}
	factor, err := e.conditionFactor(scan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if factor != 1.0 {
		t.Errorf("expected neutral factor 1.0 with no condition facts, got %v", factor)
	}
}

func TestConditionFactor_NarrowsWithBoundedRange(t *testing.T) {
	db := sampleDB()
	age := query.NewVariable("age")
	info := analyzer.AnalyzeCondition(query.AndCond{
		Left:  query.GT{Left: age, Right: query.LiteralTerm{Literal: rdf.NewIntegerLiteral(24)}},
		Right: query.LT{Left: age, Right: query.LiteralTerm{Literal: rdf.NewIntegerLiteral(27)}},
	})
	e := New(ArqPFC, db.Summary(), info)
	scan := plan.Scan{
		DB:        db,
		Subject:   query.NewVariable("s"),
		Predicate: query.NewIRITerm(rdf.NewIRI("http://ex.org/age")),
		Object:    age,
	}
	factor, err := e.conditionFactor(scan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if factor <= 0 || factor >= 1.0 {
		t.Errorf("expected a narrowed factor strictly between 0 and 1, got %v", factor)
	}
}
