package analyzer

import "github.com/aleksaelezovic/rdfquery/pkg/query"

// VarSet is an immutable set of query.Variable keyed by name.
type VarSet struct {
	m map[string]query.Variable
}

// NewVarSet returns an empty VarSet.
func NewVarSet() VarSet {
	return VarSet{m: make(map[string]query.Variable)}
}

func (s VarSet) clone() VarSet {
	out := NewVarSet()
	for k, v := range s.m {
		out.m[k] = v
	}
	return out
}

// Add returns a VarSet with v included.
func (s VarSet) Add(v query.Variable) VarSet {
	out := s.clone()
	out.m[v.Name] = v
	return out
}

// Contains reports whether name is in the set.
func (s VarSet) Contains(name string) bool {
	_, ok := s.m[name]
	return ok
}

// Len returns the number of variables in the set.
func (s VarSet) Len() int { return len(s.m) }

// List returns the set's variables in no particular order.
func (s VarSet) List() []query.Variable {
	out := make([]query.Variable, 0, len(s.m))
	for _, v := range s.m {
		out = append(out, v)
	}
	return out
}

// Union returns the set of variables in s or other.
func (s VarSet) Union(other VarSet) VarSet {
	out := s.clone()
	for k, v := range other.m {
		out.m[k] = v
	}
	return out
}

// Intersect returns the set of variables present in both s and other.
func (s VarSet) Intersect(other VarSet) VarSet {
	out := NewVarSet()
	for k, v := range s.m {
		if _, ok := other.m[k]; ok {
			out.m[k] = v
		}
	}
	return out
}
