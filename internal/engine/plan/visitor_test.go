package plan

import (
	"testing"

	"github.com/aleksaelezovic/rdfquery/pkg/query"
)

// counter is a minimal Visitor[int] used to exercise dispatch without
// pulling in the database or query-condition machinery.
type counter struct{}

func (counter) VisitScan(Scan) int             { return 1 }
func (counter) VisitJoin(o Join) int           { return 1 + Visit[int](counter{}, o.Left) + Visit[int](counter{}, o.Right) }
func (counter) VisitLeftJoin(o LeftJoin) int    { return 1 + Visit[int](counter{}, o.Left) + Visit[int](counter{}, o.Right) }
func (counter) VisitUnion(o Union) int          { return 1 + Visit[int](counter{}, o.Left) + Visit[int](counter{}, o.Right) }
func (counter) VisitMinus(o Minus) int          { return 1 + Visit[int](counter{}, o.Left) + Visit[int](counter{}, o.Right) }
func (counter) VisitFilter(o Filter) int        { return 1 + Visit[int](counter{}, o.Input) }
func (counter) VisitProjection(o Projection) int { return 1 + Visit[int](counter{}, o.Input) }
func (counter) VisitOffset(o Offset) int        { return 1 + Visit[int](counter{}, o.Input) }
func (counter) VisitLimit(o Limit) int          { return 1 + Visit[int](counter{}, o.Input) }

func TestVisit_DispatchesAndCountsNodes(t *testing.T) {
	tree := Projection{
		Input: Join{
			Left:  Scan{Subject: query.NewVariable("s"), Predicate: query.NewVariable("p"), Object: query.NewVariable("o")},
			Right: Scan{Subject: query.NewVariable("s"), Predicate: query.NewVariable("p2"), Object: query.NewVariable("o2")},
		},
		Variables: query.Variables{query.NewVariable("s")},
	}

	got := Visit[int](counter{}, tree)
	if got != 4 {
		t.Errorf("expected 4 nodes (projection+join+2 scans), got %d", got)
	}
}

func TestVisit_PanicsOnUnknownVariant(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on unhandled Operation variant")
		}
	}()
	Visit[int](counter{}, unknownOperation{})
}

type unknownOperation struct{}

func (unknownOperation) isOperation() {}
