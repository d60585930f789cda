package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// KeySet is a map[E comparable]bool with methods added to treat it as a set.
// The zero value is not usable for adding; create one with NewKeySet or
// KeySetOf.
type KeySet[E comparable] map[E]bool

// NewKeySet creates a KeySet holding every key of the given maps.
func NewKeySet[E comparable](of ...map[E]bool) KeySet[E] {
	s := KeySet[E]{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

// KeySetOf creates a KeySet holding every element of sl.
func KeySetOf[E comparable](sl []E) KeySet[E] {
	s := KeySet[E]{}
	for i := range sl {
		s.Add(sl[i])
	}
	return s
}

// Add adds an element. Has no effect if it's already there.
func (s KeySet[E]) Add(value E) {
	s[value] = true
}

// AddAll adds all elements in s2 to the set.
func (s KeySet[E]) AddAll(s2 KeySet[E]) {
	for k := range s2 {
		s.Add(k)
	}
}

// Has returns whether the set has the specified element.
func (s KeySet[E]) Has(value E) bool {
	_, has := s[value]
	return has
}

// Len returns the number of elements in the set.
func (s KeySet[E]) Len() int {
	return len(s)
}

// Empty returns whether the set is empty.
func (s KeySet[E]) Empty() bool {
	return s.Len() == 0
}

// Elements returns the elements of the set in no particular order.
func (s KeySet[E]) Elements() []E {
	elems := make([]E, 0, len(s))
	for k := range s {
		elems = append(elems, k)
	}
	return elems
}

// Ordered returns the elements of a set of an ordered type in ascending order.
func Ordered[E constraints.Ordered](s KeySet[E]) []E {
	elems := s.Elements()
	sort.Slice(elems, func(i, j int) bool {
		return elems[i] < elems[j]
	})
	return elems
}
