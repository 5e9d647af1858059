package main

import (
	"fmt"
	"sort"

	"github.com/aleksaelezovic/rdfquery/pkg/query"
	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

// Concrete SPARQL-style syntax parsing is an external collaborator
// (spec.md §1: "Out of scope"), so the CLI offers a fixed registry of
// named queries built directly against the AST instead of accepting
// raw query text.
var sampleQueries = map[string]query.Query{
	"people-ages":     peopleAgesQuery(),
	"adults":          adultsQuery(),
	"acquaintances":   acquaintancesQuery(),
	"knows-someone":   knowsSomeoneQuery(),
	"has-middle-name": hasMiddleNameQuery(),
}

func sampleQueryNames() []string {
	names := make([]string, 0, len(sampleQueries))
	for name := range sampleQueries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupSampleQuery(name string) (query.Query, error) {
	q, ok := sampleQueries[name]
	if !ok {
		return nil, fmt.Errorf("unknown query %q (available: %v)", name, sampleQueryNames())
	}
	return q, nil
}

func foafIRI(local string) *rdf.IRI {
	return rdf.NewIRI("http://xmlns.com/foaf/0.1/" + local)
}

// peopleAgesQuery selects every (person, name, age) triple pair.
func peopleAgesQuery() query.Query {
	person := query.NewVariable("person")
	name := query.NewVariable("name")
	age := query.NewVariable("age")

	return query.SelectQuery{
		Prologue: query.Prologue{},
		Vars:     query.Variables{person, name, age},
		Expr: query.And{
			Left: query.Triple{
				Subject:   person,
				Predicate: query.NewIRITerm(foafIRI("name")),
				Object:    name,
			},
			Right: query.Triple{
				Subject:   person,
				Predicate: query.NewIRITerm(foafIRI("age")),
				Object:    age,
			},
		},
	}
}

// adultsQuery filters people-ages down to age > 27.
func adultsQuery() query.Query {
	person := query.NewVariable("person")
	name := query.NewVariable("name")
	age := query.NewVariable("age")

	return query.SelectQuery{
		Prologue: query.Prologue{},
		Vars:     query.Variables{person, name, age},
		Expr: query.Filter{
			Expression: query.And{
				Left: query.Triple{
					Subject:   person,
					Predicate: query.NewIRITerm(foafIRI("name")),
					Object:    name,
				},
				Right: query.Triple{
					Subject:   person,
					Predicate: query.NewIRITerm(foafIRI("age")),
					Object:    age,
				},
			},
			Condition: query.GT{
				Left:  age,
				Right: query.LiteralTerm{Literal: rdf.NewIntegerLiteral(27)},
			},
		},
	}
}

// acquaintancesQuery joins the knows edge with both endpoints' names.
func acquaintancesQuery() query.Query {
	a := query.NewVariable("a")
	b := query.NewVariable("b")
	nameA := query.NewVariable("nameA")
	nameB := query.NewVariable("nameB")

	return query.SelectQuery{
		Prologue: query.Prologue{},
		Vars:     query.Variables{nameA, nameB},
		Expr: query.And{
			Left: query.And{
				Left: query.Triple{
					Subject:   a,
					Predicate: query.NewIRITerm(foafIRI("knows")),
					Object:    b,
				},
				Right: query.Triple{
					Subject:   a,
					Predicate: query.NewIRITerm(foafIRI("name")),
					Object:    nameA,
				},
			},
			Right: query.Triple{
				Subject:   b,
				Predicate: query.NewIRITerm(foafIRI("name")),
				Object:    nameB,
			},
		},
	}
}

// knowsSomeoneQuery is an Ask query: does anyone know anyone?
func knowsSomeoneQuery() query.Query {
	return query.AskQuery{
		Prologue: query.Prologue{},
		Expr: query.Triple{
			Subject:   query.NewVariable("a"),
			Predicate: query.NewIRITerm(foafIRI("knows")),
			Object:    query.NewVariable("b"),
		},
	}
}

// hasMiddleNameQuery demonstrates Optional: every person, left-joined
// against a middle-name predicate nobody in the sample data has.
func hasMiddleNameQuery() query.Query {
	person := query.NewVariable("person")
	name := query.NewVariable("name")
	middle := query.NewVariable("middle")

	return query.SelectQuery{
		Prologue: query.Prologue{},
		Vars:     query.Variables{person, name, middle},
		Expr: query.Optional{
			Left: query.Triple{
				Subject:   person,
				Predicate: query.NewIRITerm(foafIRI("name")),
				Object:    name,
			},
			Right: query.Triple{
				Subject:   person,
				Predicate: query.NewIRITerm(foafIRI("middleName")),
				Object:    middle,
			},
		},
	}
}
