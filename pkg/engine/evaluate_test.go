package engine

import (
	"testing"

	"github.com/aleksaelezovic/rdfquery/internal/database"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

func sampleDB(t *testing.T) *database.Database {
	t.Helper()
	db := database.New()
	age := rdf.NewIRI("http://ex.org/age")
	db.Add(rdf.NewTriple(rdf.NewIRI("http://ex.org/alice"), age, rdf.NewIntegerLiteral(30)))
	db.Add(rdf.NewTriple(rdf.NewIRI("http://ex.org/bob"), age, rdf.NewIntegerLiteral(25)))
	if err := db.BuildStatistics(""); err != nil {
		t.Fatalf("BuildStatistics: %v", err)
	}
	return db
}

func ageSelect() query.Query {
	s := query.NewVariable("s")
	age := query.NewVariable("age")
	return query.SelectQuery{
		Prologue: query.Prologue{},
		Vars:     query.Variables{s, age},
		Expr: query.Triple{
			Subject:   s,
			Predicate: query.NewIRITerm(rdf.NewIRI("http://ex.org/age")),
			Object:    age,
		},
	}
}

func TestEvaluate_SelectCollectsAllMatchingMappings(t *testing.T) {
	db := sampleDB(t)
	result, err := Evaluate(db, ageSelect(), EvalOptions{}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Kind() != SelectResult {
		t.Fatalf("expected SelectResult, got %v", result.Kind())
	}
	if result.Size() != 2 {
		t.Fatalf("expected 2 mappings, got %d", result.Size())
	}
	if result.IsDryrun() {
		t.Error("expected IsDryrun() false")
	}
}

func TestEvaluate_DryrunSkipsExecution(t *testing.T) {
	db := sampleDB(t)
	result, err := Evaluate(db, ageSelect(), EvalOptions{Dryrun: true}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !result.IsDryrun() {
		t.Fatal("expected IsDryrun() true")
	}
	if result.Size() != 0 {
		t.Errorf("expected 0 mappings on a dry run, got %d", result.Size())
	}
	if result.RunDuration() != 0 {
		t.Errorf("expected zero RunDuration on a dry run, got %v", result.RunDuration())
	}
}

func TestEvaluate_AskReturnsBooleanPresence(t *testing.T) {
	db := sampleDB(t)
	s := query.NewVariable("s")
	q := query.AskQuery{
		Prologue: query.Prologue{},
		Expr: query.Triple{
			Subject:   s,
			Predicate: query.NewIRITerm(rdf.NewIRI("http://ex.org/age")),
			Object:    query.NewVariable("age"),
		},
	}

	result, err := Evaluate(db, q, EvalOptions{}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Kind() != AskResult {
		t.Fatalf("expected AskResult, got %v", result.Kind())
	}
	if !result.Ask() {
		t.Error("expected Ask() true (at least one age triple exists)")
	}
}

func TestEvaluate_AskFalseWhenNoMatch(t *testing.T) {
	db := sampleDB(t)
	q := query.AskQuery{
		Prologue: query.Prologue{},
		Expr: query.Triple{
			Subject:   query.NewVariable("s"),
			Predicate: query.NewIRITerm(rdf.NewIRI("http://ex.org/nonexistent")),
			Object:    query.NewVariable("o"),
		},
	}

	result, err := Evaluate(db, q, EvalOptions{}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Ask() {
		t.Error("expected Ask() false for an unmatched predicate")
	}
}

func TestEvaluate_UnknownOptimizerNameErrors(t *testing.T) {
	db := sampleDB(t)
	_, err := Evaluate(db, ageSelect(), EvalOptions{Optimizer: "not-a-real-optimizer"}, nil)
	if err == nil {
		t.Fatal("expected an error for an unrecognized optimizer name")
	}
}

func TestEvaluate_DefaultOptimizerNameIsReported(t *testing.T) {
	db := sampleDB(t)
	result, err := Evaluate(db, ageSelect(), EvalOptions{}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Optimizers() != "ARQ/PFJ" {
		t.Errorf("expected default optimizer ARQ/PFJ, got %q", result.Optimizers())
	}
}

func TestEvaluate_PrefixNotFoundPropagates(t *testing.T) {
	db := sampleDB(t)
	q := query.SelectQuery{
		Prologue: query.Prologue{},
		Vars:     query.Variables{query.NewVariable("s")},
		Expr: query.Triple{
			Subject:   query.NewVariable("s"),
			Predicate: query.NewIRITerm(rdf.NewPrefixedIRI("unknown", "age")),
			Object:    query.NewVariable("o"),
		},
	}
	_, err := Evaluate(db, q, EvalOptions{}, nil)
	if err == nil {
		t.Fatal("expected a PrefixNotFoundError for an unresolvable prefix")
	}
}

type recordingLogger struct{ lines []string }

func (r *recordingLogger) Printf(format string, args ...any) {
	r.lines = append(r.lines, format)
}

func TestEvaluate_LogOptionEmitsProgressLines(t *testing.T) {
	db := sampleDB(t)
	logger := &recordingLogger{}
	_, err := Evaluate(db, ageSelect(), EvalOptions{Log: true}, logger)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(logger.lines) == 0 {
		t.Error("expected Log: true to produce at least one progress line")
	}
}
