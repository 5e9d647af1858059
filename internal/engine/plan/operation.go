package plan

import (
	"github.com/aleksaelezovic/rdfquery/internal/database"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
)

// Operation is the physical operator tree (spec.md §3): a finite,
// parent-pointer-free sum type whose Scan leaves read a Database
// read-only and whose interior nodes own their children outright.
// Operator trees are built once per query and mutated only by the
// optimizer before execution consumes them.
type Operation interface{ isOperation() }

// Scan streams db's triples, matching each position against a
// concrete term (by equality) or binding it unconditionally when it
// names a Variable. The yielded mapping carries exactly the variables
// appearing in Subject/Predicate/Object (spec.md §4.2).
type Scan struct {
	DB        *database.Database
	Subject   query.Subject
	Predicate query.Predicate
	Object    query.Object
}

func (Scan) isOperation() {}

// Join is a symmetric equi-join of Left and Right on their shared
// bound variables (spec.md §3 invariant iii, §4.2).
type Join struct{ Left, Right Operation }

func (Join) isOperation() {}

// LeftJoin preserves every Left mapping, extended by a compatible
// Right mapping when one exists. It's defined as
// Union(Join(Left,Right), Minus(Left,Right)) (spec.md §4.2).
type LeftJoin struct{ Left, Right Operation }

func (LeftJoin) isOperation() {}

// Union yields Left's mappings followed by Right's; the order is
// observable (spec.md §4.2, §5).
type Union struct{ Left, Right Operation }

func (Union) isOperation() {}

// Minus yields every Left mapping that is compatible with no Right
// mapping. An empty Right keeps every Left mapping, since "compatible
// with none" is vacuously true (spec.md §4.2, §9).
type Minus struct{ Left, Right Operation }

func (Minus) isOperation() {}

// Filter yields Input's mappings that satisfy Condition.
type Filter struct {
	Input     Operation
	Condition query.Condition
}

func (Filter) isOperation() {}

// Projection rebinds each Input mapping to exactly Variables, in
// Variables' order, substituting rdf.BlankSentinel for any variable
// Input left unbound (spec.md §4.2).
type Projection struct {
	Input     Operation
	Variables query.Variables
}

func (Projection) isOperation() {}

// Offset discards Input's first Count mappings.
type Offset struct {
	Input Operation
	Count int
}

func (Offset) isOperation() {}

// Limit yields at most Count of Input's mappings and becomes terminal
// on the (Count+1)th pull (spec.md §4.2).
type Limit struct {
	Input Operation
	Count int
}

func (Limit) isOperation() {}
