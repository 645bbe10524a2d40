// Package selection tracks the user's multi-selection of changes,
// independent of cursor position.
package selection

import "sync"

// Set is a mutable set of change IDs. Insertion order is retained so that
// argument vectors built from the selection are stable. Safe for concurrent
// use: tea.Cmd closures read it from other goroutines.
type Set struct {
	mu      sync.Mutex
	members map[string]bool
	order   []string
}

// NewSet returns an empty selection.
func NewSet() *Set {
	return &Set{members: make(map[string]bool)}
}

// Toggle flips membership of the given ID. Toggling twice restores the
// prior membership.
func (s *Set) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[id] {
		delete(s.members, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return
	}
	s.members[id] = true
	s.order = append(s.order, id)
}

// Contains reports whether the ID is selected.
func (s *Set) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members[id]
}

// List returns the selected IDs in insertion order.
func (s *Set) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Count returns the number of selected IDs.
func (s *Set) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Clear empties the selection.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = make(map[string]bool)
	s.order = nil
}
