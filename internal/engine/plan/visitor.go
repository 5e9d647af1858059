package plan

// Visitor dispatches on Operation's tag and returns a caller-chosen
// result type R, generalizing the source's nine per-variant
// OperationVisitor traits (BoundVars, Flatten, Meta, FilterInserter,
// Printer, Optimize, ...) into a single Go generic interface, the same
// way pkg/query does for the query AST (spec.md §9).
type Visitor[R any] interface {
	VisitScan(o Scan) R
	VisitJoin(o Join) R
	VisitLeftJoin(o LeftJoin) R
	VisitUnion(o Union) R
	VisitMinus(o Minus) R
	VisitFilter(o Filter) R
	VisitProjection(o Projection) R
	VisitOffset(o Offset) R
	VisitLimit(o Limit) R
}

// Visit dispatches o to the matching method of v.
func Visit[R any](v Visitor[R], o Operation) R {
	switch x := o.(type) {
	case Scan:
		return v.VisitScan(x)
	case Join:
		return v.VisitJoin(x)
	case LeftJoin:
		return v.VisitLeftJoin(x)
	case Union:
		return v.VisitUnion(x)
	case Minus:
		return v.VisitMinus(x)
	case Filter:
		return v.VisitFilter(x)
	case Projection:
		return v.VisitProjection(x)
	case Offset:
		return v.VisitOffset(x)
	case Limit:
		return v.VisitLimit(x)
	default:
		panic("plan: unhandled Operation variant")
	}
}
