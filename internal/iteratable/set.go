/*
Package iteratable provides a set type that doubles as a work queue: new
items may be Add()-ed while a Next()-based iteration over the set is in
progress, and the iteration will visit them before it ends.

This is the representation the recognizer uses for every chart position:
predict/scan/complete add newly derived states to the very set they are
currently iterating over, and iteration only stops once a full pass finds
nothing new to add (the fixed point).

Ported and adapted from gorgo's lr/iteratable package (only its doc.go
survived retrieval; the Set body here is reconstructed from every call
site observed in gorgo's lr/tables.go, lr/earley, and lr/sppf packages —
see DESIGN.md).

Unusually, all set operations are destructive: Remove and Subset mutate
the receiver rather than returning an unrelated copy, except where noted.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package iteratable

import "sort"

// Set is an insertion-ordered collection of comparable values supporting
// both classical set operations and queue-style iteration. Elements must
// have a dynamic type that is itself comparable (usable as a Go map key);
// Add panics otherwise, exactly as a map assignment would.
type Set struct {
	items []interface{}
	index map[interface{}]int
	pos   int
}

// NewSet creates an empty set with room for at least capacity elements.
func NewSet(capacity int) *Set {
	if capacity <= 0 {
		capacity = 8
	}
	return &Set{
		items: make([]interface{}, 0, capacity),
		index: make(map[interface{}]int, capacity),
	}
}

// Add inserts item if not already present. It returns true if item was
// new.
func (s *Set) Add(item interface{}) bool {
	if _, ok := s.index[item]; ok {
		return false
	}
	s.index[item] = len(s.items)
	s.items = append(s.items, item)
	return true
}

// Contains reports whether item is a member of s.
func (s *Set) Contains(item interface{}) bool {
	_, ok := s.index[item]
	return ok
}

// Remove deletes item from s, if present, preserving the relative order
// of the remaining elements (a stable, O(n) operation; see the package
// doc comment on destructiveness). It returns true if item was removed.
func (s *Set) Remove(item interface{}) bool {
	i, ok := s.index[item]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, item)
	for k := i; k < len(s.items); k++ {
		s.index[s.items[k]] = k
	}
	if s.pos > i {
		s.pos--
	}
	return true
}

// Size returns the number of elements currently in s.
func (s *Set) Size() int { return len(s.items) }

// Copy returns a shallow copy of s, with its own iteration cursor reset.
func (s *Set) Copy() *Set {
	cp := NewSet(len(s.items))
	for _, it := range s.items {
		cp.Add(it)
	}
	return cp
}

// Subset mutates s in place, keeping only the elements for which pred
// returns true, and also returns s for convenient chaining.
func (s *Set) Subset(pred func(interface{}) bool) *Set {
	kept := s.items[:0:0]
	for _, it := range s.items {
		if pred(it) {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.index = make(map[interface{}]int, len(kept))
	for i, it := range s.items {
		s.index[it] = i
	}
	s.pos = 0
	return s
}

// Union adds every element of other into s and returns s.
func (s *Set) Union(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, it := range other.items {
		s.Add(it)
	}
	return s
}

// Each calls f once for every element of s, in insertion order.
func (s *Set) Each(f func(interface{})) {
	for _, it := range s.items {
		f(it)
	}
}

// First returns the first element of s, or nil if s is empty.
func (s *Set) First() interface{} {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[0]
}

// FirstMatch returns the first element for which pred returns true, or
// nil if none match.
func (s *Set) FirstMatch(pred func(interface{}) bool) interface{} {
	for _, it := range s.items {
		if pred(it) {
			return it
		}
	}
	return nil
}

// Values returns a snapshot slice of the current elements, in insertion
// order.
func (s *Set) Values() []interface{} {
	return append([]interface{}(nil), s.items...)
}

// Sort reorders s's elements in place according to less.
func (s *Set) Sort(less func(a, b interface{}) bool) {
	sort.Slice(s.items, func(i, j int) bool { return less(s.items[i], s.items[j]) })
	for i, it := range s.items {
		s.index[it] = i
	}
}

// IterateOnce resets the iteration cursor to the start of s. Call it
// before a Next()/Item() loop.
func (s *Set) IterateOnce() { s.pos = -1 }

// Next advances the iteration cursor and reports whether another element
// is available. Because it re-checks the current length of s each call,
// elements Add()-ed after IterateOnce was called — even ones added by the
// body of the very loop calling Next — are still visited. This is the
// work-queue property the recognizer relies on.
func (s *Set) Next() bool {
	s.pos++
	return s.pos < len(s.items)
}

// Item returns the element at the current iteration cursor. Only valid
// after a call to Next that returned true.
func (s *Set) Item() interface{} {
	return s.items[s.pos]
}
