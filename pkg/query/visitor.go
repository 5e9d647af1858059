package query

// ExpressionVisitor dispatches on Expression's tag and returns a
// caller-chosen result type R, generalizing the source's per-variant
// visitor trait to a single Go generic interface (spec.md §9:
// "polymorphism over operator kinds ... a visitor protocol dispatches
// on the tag"). The planner, the condition analyzer, and the engine's
// condition-info walk all implement this for their own R.
type ExpressionVisitor[R any] interface {
	VisitTriple(s Subject, p Predicate, o Object) R
	VisitAnd(left, right Expression) R
	VisitUnion(left, right Expression) R
	VisitOptional(left, right Expression) R
	VisitFilter(expr Expression, cond Condition) R
}

// VisitExpression dispatches e to the matching method of v.
func VisitExpression[R any](v ExpressionVisitor[R], e Expression) R {
	switch x := e.(type) {
	case Triple:
		return v.VisitTriple(x.Subject, x.Predicate, x.Object)
	case And:
		return v.VisitAnd(x.Left, x.Right)
	case Union:
		return v.VisitUnion(x.Left, x.Right)
	case Optional:
		return v.VisitOptional(x.Left, x.Right)
	case Filter:
		return v.VisitFilter(x.Expression, x.Condition)
	default:
		panic("query: unhandled Expression variant")
	}
}

// ConditionVisitor dispatches on Condition's tag.
type ConditionVisitor[R any] interface {
	VisitEquals(left, right Object) R
	VisitGT(left, right Object) R
	VisitLT(left, right Object) R
	VisitBound(v Variable) R
	VisitNot(c Condition) R
	VisitAnd(left, right Condition) R
	VisitOr(left, right Condition) R
}

// VisitCondition dispatches c to the matching method of v.
func VisitCondition[R any](v ConditionVisitor[R], c Condition) R {
	switch x := c.(type) {
	case Equals:
		return v.VisitEquals(x.Left, x.Right)
	case GT:
		return v.VisitGT(x.Left, x.Right)
	case LT:
		return v.VisitLT(x.Left, x.Right)
	case Bound:
		return v.VisitBound(x.Variable)
	case Not:
		return v.VisitNot(x.Condition)
	case AndCond:
		return v.VisitAnd(x.Left, x.Right)
	case OrCond:
		return v.VisitOr(x.Left, x.Right)
	default:
		panic("query: unhandled Condition variant")
	}
}

// QueryVisitor dispatches on Query's tag; both VisitSelect and VisitAsk
// receive the query's SolutionModifier, which each implementer applies
// itself (spec.md §4.1's applyMod).
type QueryVisitor[R any] interface {
	VisitSelect(vars Variables, expr Expression, mod SolutionModifier) R
	VisitAsk(expr Expression, mod SolutionModifier) R
}

// VisitQuery dispatches q to the matching method of v.
func VisitQuery[R any](v QueryVisitor[R], q Query) R {
	switch x := q.(type) {
	case SelectQuery:
		return v.VisitSelect(x.Vars, x.Expr, x.Modifier)
	case AskQuery:
		return v.VisitAsk(x.Expr, x.Modifier)
	default:
		panic("query: unhandled Query variant")
	}
}
