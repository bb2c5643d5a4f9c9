package model

import "sort"

// Selection represents a set-valued filter dimension. The zero value is
// unconstrained ("accept anything"). A selection that covers its entire
// domain is collapsed back to unconstrained at construction time, preserving
// the source convention that full selection and empty selection both mean
// "no constraint". Encoding this once here keeps the equivalence from being
// re-derived (and diverging) inside the filter engine.
type Selection[T comparable] struct {
	members map[T]struct{}
}

// Select builds a selection from explicit values. No values means
// unconstrained.
func Select[T comparable](values ...T) Selection[T] {
	if len(values) == 0 {
		return Selection[T]{}
	}
	m := make(map[T]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return Selection[T]{members: m}
}

// SelectFrom builds a selection normalized against its domain: choosing
// every value in the domain is the same as choosing none.
func SelectFrom[T comparable](domain []T, values ...T) Selection[T] {
	s := Select(values...)
	if s.Unconstrained() {
		return s
	}
	covered := 0
	for _, d := range domain {
		if _, ok := s.members[d]; ok {
			covered++
		}
	}
	if len(domain) > 0 && covered == len(domain) {
		return Selection[T]{}
	}
	return s
}

// Unconstrained reports whether this dimension accepts any value.
func (s Selection[T]) Unconstrained() bool {
	return len(s.members) == 0
}

// Contains reports whether v is in the selection. An unconstrained
// selection contains everything.
func (s Selection[T]) Contains(v T) bool {
	if s.Unconstrained() {
		return true
	}
	_, ok := s.members[v]
	return ok
}

// Size returns the number of selected values; 0 when unconstrained.
func (s Selection[T]) Size() int {
	return len(s.members)
}

// Values returns the selected values. Order is unspecified; use
// SortedStrings-style helpers in callers that need determinism.
func (s Selection[T]) Values() []T {
	out := make([]T, 0, len(s.members))
	for v := range s.members {
		out = append(out, v)
	}
	return out
}

// SortedStringValues returns a string selection's values in sorted order,
// for deterministic logging and cache keys.
func SortedStringValues(s Selection[string]) []string {
	vals := s.Values()
	sort.Strings(vals)
	return vals
}
