// Package query defines the immutable query AST the planner lowers
// into a physical operator tree: expressions, filter conditions,
// variables, and the query prologue.
package query

import (
	"fmt"
	"strings"

	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

// Variable is `{name, position?}` (spec.md §3). Ordering for use as a
// map key: if both sides carry a position, compare positions;
// otherwise compare names.
type Variable struct {
	Name     string
	Position *int
}

func NewVariable(name string) Variable {
	return Variable{Name: name}
}

// SetPos returns a position-tagged copy of v.
func (v Variable) SetPos(pos int) Variable {
	p := pos
	return Variable{Name: v.Name, Position: &p}
}

func (v Variable) String() string { return "?" + v.Name }

// Less orders two variables per spec.md §3.
func (v Variable) Less(other Variable) bool {
	if v.Position != nil && other.Position != nil {
		return *v.Position < *other.Position
	}
	return v.Name < other.Name
}

func (v Variable) isSubject()   {}
func (v Variable) isPredicate() {}
func (v Variable) isObject()    {}

// Variables is an ordered sequence of Variable with no duplicates.
type Variables []Variable

func (vs Variables) String() string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (vs Variables) Contains(v Variable) bool {
	for _, x := range vs {
		if x.Name == v.Name {
			return true
		}
	}
	return false
}

// Subject, Predicate, Object are the three scan-pattern positions. A
// position holds either a concrete term or a Variable naming a
// binding to produce (spec.md §3).
type Subject interface{ isSubject() }
type Predicate interface{ isPredicate() }
type Object interface{ isObject() }

// IRITerm is a concrete IRI occupying a Subject/Predicate/Object
// position.
type IRITerm struct{ IRI *rdf.IRI }

func NewIRITerm(iri *rdf.IRI) IRITerm { return IRITerm{IRI: iri} }
func (IRITerm) isSubject()           {}
func (IRITerm) isPredicate()         {}
func (IRITerm) isObject()            {}
func (t IRITerm) String() string     { return t.IRI.String() }

// BlankTerm is a blank-node pattern position. Blank-node subjects and
// objects are always treated as unconstrained matches (they never
// resolve to a literal equality).
type BlankTerm struct{}

func (BlankTerm) isSubject()     {}
func (BlankTerm) isObject()      {}
func (t BlankTerm) String() string { return "()" }

// LiteralTerm is a concrete literal occupying an Object position.
type LiteralTerm struct{ Literal *rdf.Literal }

func NewLiteralTerm(l *rdf.Literal) LiteralTerm { return LiteralTerm{Literal: l} }
func (LiteralTerm) isObject()                    {}
func (t LiteralTerm) String() string             { return t.Literal.String() }

// Expression is the sum type {Triple, And, Union, Optional, Filter}
// (spec.md §3).
type Expression interface{ isExpression() }

type Triple struct {
	Subject   Subject
	Predicate Predicate
	Object    Object
}

func (Triple) isExpression() {}

type And struct{ Left, Right Expression }

func (And) isExpression() {}

type Union struct{ Left, Right Expression }

func (Union) isExpression() {}

type Optional struct{ Left, Right Expression }

func (Optional) isExpression() {}

type Filter struct {
	Expression Expression
	Condition  Condition
}

func (Filter) isExpression() {}

// Condition is the sum type {Equals, LT, GT, Bound, Not, And, Or}
// (spec.md §3). Equals/LT/GT compare two Object-typed operands so a
// variable may be compared against a variable, literal, or IRI.
type Condition interface{ isCondition() }

type Equals struct{ Left, Right Object }

func (Equals) isCondition() {}

type LT struct{ Left, Right Object }

func (LT) isCondition() {}

type GT struct{ Left, Right Object }

func (GT) isCondition() {}

type Bound struct{ Variable Variable }

func (Bound) isCondition() {}

type Not struct{ Condition Condition }

func (Not) isCondition() {}

type AndCond struct{ Left, Right Condition }

func (AndCond) isCondition() {}

type OrCond struct{ Left, Right Condition }

func (OrCond) isCondition() {}

// ConditionString renders a condition in a debug-friendly infix form, used by
// the plan printer.
func ConditionString(c Condition) string {
	switch x := c.(type) {
	case Equals:
		return fmt.Sprintf("(%v = %v)", x.Left, x.Right)
	case LT:
		return fmt.Sprintf("(%v < %v)", x.Left, x.Right)
	case GT:
		return fmt.Sprintf("(%v > %v)", x.Left, x.Right)
	case Bound:
		return fmt.Sprintf("bound(%v)", x.Variable)
	case Not:
		return fmt.Sprintf("!%s", ConditionString(x.Condition))
	case AndCond:
		return fmt.Sprintf("(%s && %s)", ConditionString(x.Left), ConditionString(x.Right))
	case OrCond:
		return fmt.Sprintf("(%s || %s)", ConditionString(x.Left), ConditionString(x.Right))
	default:
		return fmt.Sprintf("%v", c)
	}
}

// SolutionModifier is `{limit?, offset?}` (spec.md §3).
type SolutionModifier struct {
	Limit  *int
	Offset *int
}

// Prologue is the prefix map a query is parsed with; ns -> absolute
// namespace IRI text.
type Prologue map[string]string

// Query is the sum type {SelectQuery, AskQuery}, each carrying a
// Prologue (spec.md §3).
type Query interface{ isQuery() }

type SelectQuery struct {
	Prologue Prologue
	Vars     Variables
	Expr     Expression
	Modifier SolutionModifier
}

func (SelectQuery) isQuery() {}

type AskQuery struct {
	Prologue Prologue
	Expr     Expression
	Modifier SolutionModifier
}

func (AskQuery) isQuery() {}
