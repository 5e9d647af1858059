package plan

import (
	"testing"

	"github.com/aleksaelezovic/rdfquery/pkg/query"
	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

func TestMapping_SetGetOverwrite(t *testing.T) {
	m := NewMapping()
	v := query.NewVariable("x")
	m.Set(v, rdf.NewLiteral("30"))

	got, ok := m.Get(v)
	if !ok || got.String() != `"30"` {
		t.Fatalf("expected bound 30, got %v ok=%v", got, ok)
	}

	m.Set(v, rdf.NewLiteral("31"))
	got, ok = m.Get(v)
	if !ok || got.String() != `"31"` {
		t.Fatalf("expected overwritten 31, got %v ok=%v", got, ok)
	}
	if m.Len() != 1 {
		t.Errorf("expected overwrite to not grow mapping, len=%d", m.Len())
	}
}

func TestMapping_InsertionOrderPreserved(t *testing.T) {
	m := NewMapping()
	a, b, c := query.NewVariable("a"), query.NewVariable("b"), query.NewVariable("c")
	m.Set(b, rdf.NewLiteral("2"))
	m.Set(a, rdf.NewLiteral("1"))
	m.Set(c, rdf.NewLiteral("3"))

	vars := m.Variables()
	want := []string{"b", "a", "c"}
	for i, v := range vars {
		if v.Name != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], v.Name)
		}
	}
}

func TestMapping_CompatibleAndIncompatible(t *testing.T) {
	x := query.NewVariable("x")
	m1 := NewMapping()
	m1.Set(x, rdf.NewLiteral("30"))
	m2 := NewMapping()
	m2.Set(x, rdf.NewLiteral("30"))
	m3 := NewMapping()
	m3.Set(x, rdf.NewLiteral("31"))

	if !m1.Compatible(m2) {
		t.Error("expected mappings agreeing on shared var to be compatible")
	}
	if m1.Compatible(m3) {
		t.Error("expected mappings disagreeing on shared var to be incompatible")
	}
}

func TestMapping_CompatibleIgnoresDisjointVars(t *testing.T) {
	x, y := query.NewVariable("x"), query.NewVariable("y")
	m1 := NewMapping()
	m1.Set(x, rdf.NewLiteral("30"))
	m2 := NewMapping()
	m2.Set(y, rdf.NewLiteral("hello"))

	if !m1.Compatible(m2) {
		t.Error("expected mappings over disjoint variables to be compatible")
	}
}

func TestMapping_Merge(t *testing.T) {
	x, y := query.NewVariable("x"), query.NewVariable("y")
	m1 := NewMapping()
	m1.Set(x, rdf.NewLiteral("30"))
	m2 := NewMapping()
	m2.Set(y, rdf.NewLiteral("hello"))

	merged := m1.Merge(m2)
	if merged.Len() != 2 {
		t.Fatalf("expected merged mapping of len 2, got %d", merged.Len())
	}
	vx, _ := merged.Get(x)
	vy, _ := merged.Get(y)
	if vx.String() != `"30"` || vy.String() != `"hello"` {
		t.Errorf("unexpected merged values: %v %v", vx, vy)
	}
}

func TestMapping_MergeDoesNotMutateReceiver(t *testing.T) {
	x := query.NewVariable("x")
	m1 := NewMapping()
	m1.Set(x, rdf.NewLiteral("30"))
	m2 := NewMapping()
	m2.Set(x, rdf.NewLiteral("31"))

	_ = m1.Merge(m2)
	v, _ := m1.Get(x)
	if v.String() != `"30"` {
		t.Errorf("expected receiver unchanged, got %v", v)
	}
}

func TestMapping_KeyDistinguishesUnboundFromBound(t *testing.T) {
	x := query.NewVariable("x")
	bound := NewMapping()
	bound.Set(x, rdf.NewLiteral("")) // bound to empty-string literal
	unbound := NewMapping()

	vars := []query.Variable{x}
	if bound.Key(vars) == unbound.Key(vars) {
		t.Error("expected bound-to-empty-string and unbound to produce distinct keys")
	}
}

func TestMapping_Clone(t *testing.T) {
	x := query.NewVariable("x")
	m := NewMapping()
	m.Set(x, rdf.NewLiteral("30"))

	clone := m.Clone()
	clone.Set(x, rdf.NewLiteral("99"))

	v, _ := m.Get(x)
	if v.String() != `"30"` {
		t.Errorf("expected original unaffected by clone mutation, got %v", v)
	}
}
