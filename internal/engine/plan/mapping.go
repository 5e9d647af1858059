// Package plan defines the physical operator tree a query lowers into,
// and the Mapping type its iterators pull (spec.md §3, §4.2).
package plan

import (
	"strings"

	"github.com/aleksaelezovic/rdfquery/pkg/query"
	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

type binding struct {
	Var query.Variable
	Val rdf.Term
}

// Mapping is an order-preserving Variable -> Term binding. Inserting a
// variable that's already present overwrites its value without
// disturbing its position (spec.md §3).
type Mapping struct {
	order []binding
	index map[string]int
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Set binds v to t, overwriting any existing binding for v.
func (m *Mapping) Set(v query.Variable, t rdf.Term) {
	if i, ok := m.index[v.Name]; ok {
		m.order[i].Val = t
		return
	}
	m.index[v.Name] = len(m.order)
	m.order = append(m.order, binding{Var: v, Val: t})
}

// Get returns v's bound term, if any.
func (m *Mapping) Get(v query.Variable) (rdf.Term, bool) {
	i, ok := m.index[v.Name]
	if !ok {
		return nil, false
	}
	return m.order[i].Val, true
}

// Has reports whether v is bound.
func (m *Mapping) Has(v query.Variable) bool {
	_, ok := m.index[v.Name]
	return ok
}

// Variables returns the bound variables in insertion order.
func (m *Mapping) Variables() []query.Variable {
	out := make([]query.Variable, len(m.order))
	for i, b := range m.order {
		out[i] = b.Var
	}
	return out
}

// Len returns the number of bound variables.
func (m *Mapping) Len() int { return len(m.order) }

// Clone returns an independent copy of m.
func (m *Mapping) Clone() *Mapping {
	out := &Mapping{
		order: append([]binding(nil), m.order...),
		index: make(map[string]int, len(m.index)),
	}
	for k, v := range m.index {
		out.index[k] = v
	}
	return out
}

// Compatible reports whether m and other agree on every variable they
// both bind (spec.md §3).
func (m *Mapping) Compatible(other *Mapping) bool {
	for _, b := range m.order {
		if ov, ok := other.Get(b.Var); ok {
			if !b.Val.Equals(ov) {
				return false
			}
		}
	}
	return true
}

// Merge returns a new mapping with m's bindings overlaid by other's.
// Under the compatibility invariant, values on shared keys already
// agree, so which side "wins" is only observable when the caller
// hasn't checked Compatible first.
func (m *Mapping) Merge(other *Mapping) *Mapping {
	out := m.Clone()
	for _, b := range other.order {
		out.Set(b.Var, b.Val)
	}
	return out
}

// Key builds a hash/equality key over an ordered subset of variables,
// used by the hash join to bucket mappings by their shared variables.
// A variable with no binding contributes a sentinel byte so
// unbound-vs-bound never collides with any bound value's string form.
func (m *Mapping) Key(vars []query.Variable) string {
	if len(vars) == 0 {
		return ""
	}
	parts := make([]string, len(vars))
	for i, v := range vars {
		if t, ok := m.Get(v); ok {
			parts[i] = t.String()
		} else {
			parts[i] = "\x00"
		}
	}
	return strings.Join(parts, "\x1f")
}
