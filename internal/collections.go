package internal

// Set is a collection of unique items that remembers insertion order, so
// exclusion lists and file type lists keep a stable rendering order.
type Set[T comparable] struct {
	index map[T]int
	items []T
}

// NewSet creates a set holding items in first-seen order.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{index: make(map[T]int, len(items))}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts an item into the set. If the item already exists, it has no effect.
func (s *Set[T]) Add(item T) bool {
	if _, exists := s.index[item]; exists {
		return false
	}
	s.index[item] = len(s.items)
	s.items = append(s.items, item)
	return true
}

// Remove deletes an item from the set. If the item doesn't exist, it has no effect.
func (s *Set[T]) Remove(item T) bool {
	pos, exists := s.index[item]
	if !exists {
		return false
	}
	delete(s.index, item)
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i]] = i
	}
	return true
}

// Contains checks if an item exists in the set.
func (s *Set[T]) Contains(item T) bool {
	_, exists := s.index[item]
	return exists
}

// Size returns the number of items in the set.
func (s *Set[T]) Size() int {
	return len(s.items)
}

// ToSlice returns a copy of the items in insertion order. It never returns nil.
func (s *Set[T]) ToSlice() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Unique returns items without duplicates, keeping the first occurrence.
func Unique[T comparable](items []T) []T {
	return NewSet(items...).ToSlice()
}
