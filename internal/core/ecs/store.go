package ecs

// Removable is implemented by every per-entity store so the Registry can
// drop an entity's data from all of them on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store is a slot-indexed arena of *T keyed by EntityID. Lookups are O(1)
// and validate the handle generation, so a stale handle reads as missing.
type Store[T any] struct {
	ids   []EntityID
	slots []*T
	n     int
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		ids:   make([]EntityID, 0, 256),
		slots: make([]*T, 0, 256),
	}
}

func (s *Store[T]) grow(idx int) {
	for len(s.slots) <= idx {
		s.slots = append(s.slots, nil)
		s.ids = append(s.ids, 0)
	}
}

func (s *Store[T]) Set(id EntityID, c *T) {
	idx := int(id.Index())
	s.grow(idx)
	if s.slots[idx] == nil {
		s.n++
	}
	s.ids[idx] = id
	s.slots[idx] = c
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	idx := int(id.Index())
	if idx >= len(s.slots) || s.ids[idx] != id || s.slots[idx] == nil {
		return nil, false
	}
	return s.slots[idx], true
}

func (s *Store[T]) Remove(id EntityID) {
	idx := int(id.Index())
	if idx >= len(s.slots) || s.ids[idx] != id || s.slots[idx] == nil {
		return
	}
	s.slots[idx] = nil
	s.ids[idx] = 0
	s.n--
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.Get(id)
	return ok
}

func (s *Store[T]) Len() int {
	return s.n
}

// Each visits live entries in slot order, which keeps iteration
// deterministic across runs.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for i, c := range s.slots {
		if c != nil {
			fn(s.ids[i], c)
		}
	}
}
