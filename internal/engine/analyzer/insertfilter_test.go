package analyzer

import (
	"testing"

	"github.com/aleksaelezovic/rdfquery/internal/database"
	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

func TestInsertFilters_WrapsScanWhoseVariableHasFacts(t *testing.T) {
	db := database.New()
	age := query.NewVariable("age")
	scan := plan.Scan{DB: db, Subject: query.NewVariable("s"), Predicate: query.NewVariable("p"), Object: age}

	lit := rdf.NewIntegerLiteral(18)
	info := NewConditionInfo().insert(age, VariableInfo{Kind: InfoGt, Literal: lit})

	op := InsertFilters(scan, info)
	filter, ok := op.(plan.Filter)
	if !ok {
		t.Fatalf("expected Scan to be wrapped in a Filter, got %T", op)
	}
	gt, ok := filter.Condition.(query.GT)
	if !ok {
		t.Fatalf("expected a GT condition, got %T", filter.Condition)
	}
	if v, ok := gt.Left.(query.Variable); !ok || v.Name != "age" {
		t.Errorf("expected GT over ?age, got %+v", gt.Left)
	}
}

func TestInsertFilters_NoFactsLeavesOperationUnchanged(t *testing.T) {
	db := database.New()
	scan := plan.Scan{DB: db, Subject: query.NewVariable("s"), Predicate: query.NewVariable("p"), Object: query.NewVariable("o")}

	op := InsertFilters(scan, NewConditionInfo())
	if _, ok := op.(plan.Filter); ok {
		t.Errorf("expected no Filter synthesized when there are no facts")
	}
	if op != plan.Operation(scan) {
		t.Errorf("expected the scan to be returned unchanged")
	}
}

func TestInsertFilters_AppliesOnceAcrossSharedJoinVariable(t *testing.T) {
	db := database.New()
	shared := query.NewVariable("shared")
	left := plan.Scan{DB: db, Subject: shared, Predicate: query.NewVariable("p1"), Object: query.NewVariable("o1")}
	right := plan.Scan{DB: db, Subject: shared, Predicate: query.NewVariable("p2"), Object: query.NewVariable("o2")}

	info := NewConditionInfo().insert(shared, VariableInfo{Kind: InfoBound})
	op := InsertFilters(plan.Join{Left: left, Right: right}, info)

	join, ok := op.(plan.Join)
	if !ok {
		t.Fatalf("expected Join, got %T", op)
	}
	_, leftFiltered := join.Left.(plan.Filter)
	_, rightFiltered := join.Right.(plan.Filter)
	if !leftFiltered {
		t.Errorf("expected the left scan (first to bind shared) to carry the filter")
	}
	if rightFiltered {
		t.Errorf("expected the right scan not to duplicate an already-applied filter")
	}
}

func TestInsertFilters_CombinesMultipleFactsWithAnd(t *testing.T) {
	db := database.New()
	age := query.NewVariable("age")
	scan := plan.Scan{DB: db, Subject: query.NewVariable("s"), Predicate: query.NewVariable("p"), Object: age}

	info := NewConditionInfo().
		insert(age, VariableInfo{Kind: InfoGt, Literal: rdf.NewIntegerLiteral(18)}).
		insert(age, VariableInfo{Kind: InfoLt, Literal: rdf.NewIntegerLiteral(65)})

	op := InsertFilters(scan, info)
	filter, ok := op.(plan.Filter)
	if !ok {
		t.Fatalf("expected Filter, got %T", op)
	}
	if _, ok := filter.Condition.(query.AndCond); !ok {
		t.Errorf("expected two facts combined with AndCond, got %T", filter.Condition)
	}
}

func TestToCondition_InvertedKindsWrapInNot(t *testing.T) {
	v := query.NewVariable("v")
	lit := rdf.NewIntegerLiteral(1)

	lte := toCondition(v, VariableInfo{Kind: InfoLte, Literal: lit})
	if _, ok := lte.(query.Not); !ok {
		t.Errorf("expected InfoLte to render as Not(GT), got %T", lte)
	}

	unbound := toCondition(v, VariableInfo{Kind: InfoUnbound})
	if _, ok := unbound.(query.Not); !ok {
		t.Errorf("expected InfoUnbound to render as Not(Bound), got %T", unbound)
	}

	bound := toCondition(v, VariableInfo{Kind: InfoBound})
	if _, ok := bound.(query.Bound); !ok {
		t.Errorf("expected InfoBound to render as Bound, got %T", bound)
	}
}
