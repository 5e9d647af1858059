package rdf

import "testing"

func TestIRI_Type(t *testing.T) {
	node := NewIRI("http://example.org/resource")
	if node.Type() != TermTypeIRI {
		t.Errorf("expected TermTypeIRI, got %v", node.Type())
	}
}

func TestIRI_String(t *testing.T) {
	node := NewIRI("http://example.org/resource")
	expected := "<http://example.org/resource>"
	if node.String() != expected {
		t.Errorf("expected %s, got %s", expected, node.String())
	}
}

func TestIRI_Equals_Absolute(t *testing.T) {
	a := NewIRI("http://example.org/resource")
	b := NewIRI("http://example.org/resource")
	c := NewIRI("http://example.org/different")

	if !a.Equals(b) {
		t.Error("expected equal absolute IRIs to be equal")
	}
	if a.Equals(c) {
		t.Error("expected different absolute IRIs to not be equal")
	}
	if a.Equals(NewLiteral("test")) {
		t.Error("IRI should not equal Literal")
	}
}

func TestIRI_Equals_PrefixedVsExpanded(t *testing.T) {
	prefixed := NewPrefixedIRI("ex", "resource")
	prefixed.Expanded = "http://example.org/resource"
	absolute := NewIRI("http://example.org/resource")

	if !prefixed.Equals(absolute) {
		t.Error("expected expanded prefixed IRI to equal its absolute form")
	}
	if !absolute.Equals(prefixed) {
		t.Error("equality should be symmetric")
	}
}

func TestIRI_Equals_SharedNSAndLocal(t *testing.T) {
	a := NewPrefixedIRI("ex", "resource")
	b := NewPrefixedIRI("ex", "resource")
	c := NewPrefixedIRI("ex", "other")

	if !a.Equals(b) {
		t.Error("expected unexpanded prefixed IRIs sharing ns/local to be equal")
	}
	if a.Equals(c) {
		t.Error("expected different locals to not be equal")
	}
}

func TestBlankNode_Type(t *testing.T) {
	node := NewBlankNode("b1")
	if node.Type() != TermTypeBlankNode {
		t.Errorf("expected TermTypeBlankNode, got %v", node.Type())
	}
}

func TestBlankNode_String(t *testing.T) {
	node := NewBlankNode("b1")
	if node.String() != "_:b1" {
		t.Errorf("expected _:b1, got %s", node.String())
	}
}

func TestBlankNode_Equals(t *testing.T) {
	a := NewBlankNode("b1")
	b := NewBlankNode("b1")
	c := NewBlankNode("b2")

	if !a.Equals(b) {
		t.Error("expected equal blank nodes to be equal")
	}
	if a.Equals(c) {
		t.Error("expected different blank nodes to not be equal")
	}
	if a.Equals(NewIRI("http://example.org/resource")) {
		t.Error("BlankNode should not equal IRI")
	}
}

func TestLiteral_Type(t *testing.T) {
	lit := NewLiteral("test")
	if lit.Type() != TermTypeLiteral {
		t.Errorf("expected TermTypeLiteral, got %v", lit.Type())
	}
}

func TestLiteral_String(t *testing.T) {
	tests := []struct {
		name     string
		literal  *Literal
		expected string
	}{
		{"plain", NewLiteral("hello"), `"hello"`},
		{"language", NewLiteralWithLanguage("hello", "en"), `"hello"@en`},
		{"typed", NewLiteralWithDatatype("42", XSDInteger), `"42"^^<http://www.w3.org/2001/XMLSchema#integer>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.literal.String(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLiteral_Equals(t *testing.T) {
	lit1 := NewLiteral("hello")
	lit2 := NewLiteral("hello")
	lit3 := NewLiteral("world")

	if !lit1.Equals(lit2) {
		t.Error("expected equal plain literals to be equal")
	}
	if lit1.Equals(lit3) {
		t.Error("expected different plain literals to not be equal")
	}

	langA := NewLiteralWithLanguage("hello", "en")
	langB := NewLiteralWithLanguage("hello", "en")
	langC := NewLiteralWithLanguage("hello", "fr")

	if !langA.Equals(langB) {
		t.Error("expected equal language-tagged literals to be equal")
	}
	if langA.Equals(langC) {
		t.Error("expected different languages to not be equal")
	}
	if langA.Equals(lit1) {
		t.Error("language-tagged literal should not equal plain literal")
	}

	typedA := NewLiteralWithDatatype("42", XSDInteger)
	typedB := NewLiteralWithDatatype("42", XSDInteger)
	typedC := NewLiteralWithDatatype("42", XSDString)

	if !typedA.Equals(typedB) {
		t.Error("expected equal typed literals to be equal")
	}
	if typedA.Equals(typedC) {
		t.Error("expected different datatypes to not be equal")
	}
	if lit1.Equals(NewIRI("http://example.org/resource")) {
		t.Error("literal should not equal IRI")
	}
}

func TestLiteral_NumericValue(t *testing.T) {
	n := NewLiteral("30")
	if v, ok := n.NumericValue(); !ok || v != 30 {
		t.Errorf("expected numeric 30, got %v ok=%v", v, ok)
	}

	s := NewLiteral("joe@tld.com")
	if _, ok := s.NumericValue(); ok {
		t.Error("expected non-numeric lexical form to fail numeric parse")
	}
}

func TestCompareLiterals_Numeric(t *testing.T) {
	a := NewLiteral("29")
	b := NewLiteral("30")

	ord, ok := CompareLiterals(a, b)
	if !ok || ord != Less {
		t.Errorf("expected 29 < 30, got ord=%v ok=%v", ord, ok)
	}
}

func TestCompareLiterals_NonNumericFails(t *testing.T) {
	a := NewLiteral("abc")
	b := NewLiteral("30")

	if _, ok := CompareLiterals(a, b); ok {
		t.Error("expected comparison to fail when one side is non-numeric")
	}
}

func TestTriple_String(t *testing.T) {
	triple := NewTriple(
		NewIRI("http://example.org/subject"),
		NewIRI("http://example.org/predicate"),
		NewLiteral("value"),
	)
	expected := `<http://example.org/subject> <http://example.org/predicate> "value" .`
	if triple.String() != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, triple.String())
	}
}

func TestNewIntegerLiteral(t *testing.T) {
	lit := NewIntegerLiteral(42)
	if lit.Lexical != "42" {
		t.Errorf("expected lexical '42', got %q", lit.Lexical)
	}
	if lit.Datatype == nil || !lit.Datatype.Equals(XSDInteger) {
		t.Errorf("expected datatype %s", XSDInteger)
	}
	if v, ok := lit.NumericValue(); !ok || v != 42 {
		t.Errorf("expected numeric 42, got %v ok=%v", v, ok)
	}
}

func TestNewBooleanLiteral(t *testing.T) {
	if NewBooleanLiteral(true).Lexical != "true" {
		t.Error("expected lexical 'true'")
	}
	if NewBooleanLiteral(false).Lexical != "false" {
		t.Error("expected lexical 'false'")
	}
}

func TestLiteral_EmptyString(t *testing.T) {
	lit := NewLiteral("")
	if lit.Lexical != "" {
		t.Errorf("expected empty lexical, got %q", lit.Lexical)
	}
	if lit.String() != `""` {
		t.Errorf(`expected "", got %s`, lit.String())
	}
}

func TestBlankNode_EmptyLabel(t *testing.T) {
	node := NewBlankNode("")
	if node.String() != "_:" {
		t.Errorf("expected _:, got %s", node.String())
	}
}
