package main

import (
	"github.com/aleksaelezovic/rdfquery/internal/database"
	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

// sampleDatabase builds a small in-memory social dataset, the same
// three-person shape the teacher's own demo seeds, so the CLI has
// something to plan and execute against without a concrete-syntax
// parser (out of scope; spec.md §1).
func sampleDatabase() *database.Database {
	db := database.New()

	alice := rdf.NewIRI("http://example.org/alice")
	bob := rdf.NewIRI("http://example.org/bob")
	carol := rdf.NewIRI("http://example.org/carol")

	name := rdf.NewIRI("http://xmlns.com/foaf/0.1/name")
	age := rdf.NewIRI("http://xmlns.com/foaf/0.1/age")
	knows := rdf.NewIRI("http://xmlns.com/foaf/0.1/knows")

	db.Add(rdf.NewTriple(alice, name, rdf.NewLiteral("Alice")))
	db.Add(rdf.NewTriple(alice, age, rdf.NewIntegerLiteral(30)))
	db.Add(rdf.NewTriple(alice, knows, bob))

	db.Add(rdf.NewTriple(bob, name, rdf.NewLiteral("Bob")))
	db.Add(rdf.NewTriple(bob, age, rdf.NewIntegerLiteral(25)))
	db.Add(rdf.NewTriple(bob, knows, carol))

	db.Add(rdf.NewTriple(carol, name, rdf.NewLiteral("Carol")))
	db.Add(rdf.NewTriple(carol, age, rdf.NewIntegerLiteral(28)))

	return db
}
