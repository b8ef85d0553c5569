package concurrent

import "sync"

// Set is a mutex-guarded hash set. The zero value is an empty set ready for use.
type Set[T comparable] struct {
	mu  sync.Mutex
	raw map[T]struct{}
}

var _ ItemCollection[int] = (*Set[int])(nil)

// NewSet creates a set seeded with items; duplicates collapse.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{raw: make(map[T]struct{}, len(items))}
	for _, item := range items {
		s.raw[item] = struct{}{}
	}
	return s
}

// Unguarded core. Callers must hold s.mu.

func (s *Set[T]) add(item T) bool {
	if s.raw == nil {
		s.raw = make(map[T]struct{})
	} else if _, ok := s.raw[item]; ok {
		return false
	}
	s.raw[item] = struct{}{}
	return true
}
func (s *Set[T]) remove(item T) bool {
	if _, ok := s.raw[item]; !ok {
		return false
	}
	delete(s.raw, item)
	return true
}
func (s *Set[T]) clear() {
	s.raw = nil
}
func (s *Set[T]) snapshot() []T {
	all := make([]T, 0, len(s.raw))
	for item := range s.raw {
		all = append(all, item)
	}
	return all
}
func (s *Set[T]) swap(items []T) (prev []T) {
	prev = s.snapshot()
	s.clear()
	for _, item := range items {
		s.add(item)
	}
	return
}

func (s *Set[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.raw)
}
func (s *Set[T]) Has(item T) (ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok = s.raw[item]
	return
}
func (s *Set[T]) Add(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(item)
}
func (s *Set[T]) TryAdd(item T) (added bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(item)
}
func (s *Set[T]) AddRange(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.add(item)
	}
}

// TryAddRange is AddRange reporting how many items were not already present.
func (s *Set[T]) TryAddRange(items ...T) (added int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		if s.add(item) {
			added++
		}
	}
	return
}
func (s *Set[T]) TryRemove(item T) (removed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(item)
}

// TryConsume removes and returns some element of the set. Which one is
// unspecified and varies between calls; it is neither FIFO nor LIFO.
func (s *Set[T]) TryConsume() (item T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for item = range s.raw {
		delete(s.raw, item)
		return item, true
	}
	return
}
func (s *Set[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}
func (s *Set[T]) GetAndClear() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swap(nil)
}
func (s *Set[T]) ClearAndAdd(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swap(items)
}

// GetAndClearAndAdd atomically returns everything in the set and replaces it
// with items. A consumer draining a set that producers keep adding to can use
// it to take the current batch and seed the next one in a single step.
func (s *Set[T]) GetAndClearAndAdd(items ...T) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swap(items)
}
func (s *Set[T]) All() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}
func (s *Set[T]) Range(f func(item T) bool) {
	for _, item := range s.All() {
		if !f(item) {
			return
		}
	}
}
