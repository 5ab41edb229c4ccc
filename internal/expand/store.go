// Package expand implements variable substitution for command input and
// control-mode text injection.
package expand

import "sort"

// Var is a single stored variable.
type Var struct {
	Name  string
	Value string
}

// Store maps variable names to values for the life of the process.
type Store struct {
	vars map[string]string
}

// NewStore creates an empty variable store.
func NewStore() *Store {
	return &Store{vars: make(map[string]string)}
}

// Get returns the value of name.
func (s *Store) Get(name string) (string, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Set assigns value to name, replacing any previous value.
func (s *Store) Set(name, value string) {
	s.vars[name] = value
}

// All returns every variable sorted by name.
func (s *Store) All() []Var {
	out := make([]Var, 0, len(s.vars))
	for name, value := range s.vars {
		out = append(out, Var{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of variables.
func (s *Store) Len() int {
	return len(s.vars)
}
