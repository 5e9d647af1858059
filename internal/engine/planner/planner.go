// Package planner lowers a query AST into its initial, unoptimized
// physical operator tree (spec.md §4.1).
package planner

import (
	"github.com/aleksaelezovic/rdfquery/internal/database"
	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
)

// Planner lowers AST expressions against a fixed Database, grounded
// directly on the source's Planner.
type Planner struct {
	DB *database.Database
}

// New returns a Planner that lowers Scans against db.
func New(db *database.Database) *Planner {
	return &Planner{DB: db}
}

// Plan lowers q into its initial Operation tree.
func (p *Planner) Plan(q query.Query) plan.Operation {
	return query.VisitQuery[plan.Operation](p, q)
}

func (p *Planner) VisitSelect(vars query.Variables, expr query.Expression, mod query.SolutionModifier) plan.Operation {
	return plan.Projection{
		Input:     p.applyModifier(expr, mod),
		Variables: positioned(vars),
	}
}

// positioned tags each variable with its declared output position
// (spec.md §8 property 2: {v.set_pos(i) : (i,v) ∈ enumerate(V)}), so
// the projected mapping's variables carry position even though
// Mapping keys by name alone.
func positioned(vars query.Variables) query.Variables {
	out := make(query.Variables, len(vars))
	for i, v := range vars {
		out[i] = v.SetPos(i)
	}
	return out
}

func (p *Planner) VisitAsk(expr query.Expression, mod query.SolutionModifier) plan.Operation {
	return p.applyModifier(expr, mod)
}

// applyModifier wraps the lowered expression in Offset then Limit, so
// offset discards rows before limit counts the remainder (spec.md
// §4.1).
func (p *Planner) applyModifier(expr query.Expression, mod query.SolutionModifier) plan.Operation {
	op := query.VisitExpression[plan.Operation](p, expr)
	if mod.Offset != nil {
		op = plan.Offset{Input: op, Count: *mod.Offset}
	}
	if mod.Limit != nil {
		op = plan.Limit{Input: op, Count: *mod.Limit}
	}
	return op
}

func (p *Planner) VisitTriple(s query.Subject, pr query.Predicate, o query.Object) plan.Operation {
	return plan.Scan{DB: p.DB, Subject: s, Predicate: pr, Object: o}
}

func (p *Planner) VisitAnd(left, right query.Expression) plan.Operation {
	return plan.Join{
		Left:  query.VisitExpression[plan.Operation](p, left),
		Right: query.VisitExpression[plan.Operation](p, right),
	}
}

func (p *Planner) VisitUnion(left, right query.Expression) plan.Operation {
	return plan.Union{
		Left:  query.VisitExpression[plan.Operation](p, left),
		Right: query.VisitExpression[plan.Operation](p, right),
	}
}

func (p *Planner) VisitOptional(left, right query.Expression) plan.Operation {
	return plan.LeftJoin{
		Left:  query.VisitExpression[plan.Operation](p, left),
		Right: query.VisitExpression[plan.Operation](p, right),
	}
}

func (p *Planner) VisitFilter(expr query.Expression, cond query.Condition) plan.Operation {
	return plan.Filter{
		Input:     query.VisitExpression[plan.Operation](p, expr),
		Condition: query.Normalize(cond),
	}
}
