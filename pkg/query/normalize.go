package query

// normalizer pushes Not down through And/Or via De Morgan's laws until
// every Not wraps only an atom (Equals/LT/GT/Bound), and collapses
// double negation. Grounded on the source's Normalize visitor.
type normalizer struct{}

// Normalize rewrites c so that negation only ever wraps an atomic
// condition (spec.md §4.1).
func Normalize(c Condition) Condition {
	return VisitCondition[Condition](normalizer{}, c)
}

func (normalizer) VisitEquals(left, right Object) Condition { return Equals{Left: left, Right: right} }
func (normalizer) VisitGT(left, right Object) Condition     { return GT{Left: left, Right: right} }
func (normalizer) VisitLT(left, right Object) Condition     { return LT{Left: left, Right: right} }
func (normalizer) VisitBound(v Variable) Condition          { return Bound{Variable: v} }

func (n normalizer) VisitNot(c Condition) Condition {
	switch x := c.(type) {
	case Not:
		return Normalize(x.Condition)
	case AndCond:
		return OrCond{
			Left:  Normalize(Not{Condition: x.Left}),
			Right: Normalize(Not{Condition: x.Right}),
		}
	case OrCond:
		return AndCond{
			Left:  Normalize(Not{Condition: x.Left}),
			Right: Normalize(Not{Condition: x.Right}),
		}
	default:
		return Not{Condition: Normalize(c)}
	}
}

func (n normalizer) VisitAnd(left, right Condition) Condition {
	return AndCond{Left: Normalize(left), Right: Normalize(right)}
}

func (n normalizer) VisitOr(left, right Condition) Condition {
	return OrCond{Left: Normalize(left), Right: Normalize(right)}
}
