package world

import "github.com/cobalthex/dyingandmore/internal/core/ecs"

// idSet is an insertion-ordered set of entity handles with O(1) add, remove
// and membership. Removal swaps with the last element, so iteration order is
// deterministic for a given sequence of operations.
type idSet struct {
	items []ecs.EntityID
	index map[ecs.EntityID]int
}

func newIDSet() idSet {
	return idSet{index: make(map[ecs.EntityID]int)}
}

func (s *idSet) Add(id ecs.EntityID) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = len(s.items)
	s.items = append(s.items, id)
	return true
}

func (s *idSet) Remove(id ecs.EntityID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	last := len(s.items) - 1
	if i != last {
		moved := s.items[last]
		s.items[i] = moved
		s.index[moved] = i
	}
	s.items = s.items[:last]
	delete(s.index, id)
	return true
}

func (s *idSet) Has(id ecs.EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *idSet) Len() int { return len(s.items) }

// Items returns the backing slice; callers must not mutate it or hold it
// across Add/Remove.
func (s *idSet) Items() []ecs.EntityID { return s.items }

func (s *idSet) Clear() {
	s.items = s.items[:0]
	clear(s.index)
}
