package concurrent

import (
	"sync"

	"github.com/samber/lo"
)

// Dictionary is the key/value variant of Collection. Its elements are the
// map's entries.
type Dictionary[K comparable, V any] interface {
	Collection[lo.Entry[K, V]]

	// Get returns the value for key or an error matching ErrKeyNotFound.
	Get(key K) (V, error)
	// Set inserts or overwrites the value for key.
	Set(key K, value V)
	// Add inserts the value for key or fails with ErrDuplicateKey.
	Add(key K, value V) error
	AddOrSet(key K, value V)
	TryAdd(key K, value V) (added bool)
	ContainsKey(key K) bool
	TryGetValue(key K) (value V, ok bool)
	GetOrDefault(key K) V
	// GetOrAdd returns the value for key, computing and inserting it with
	// factory if absent. The factory runs while the guard is held and must
	// not use the same dictionary.
	GetOrAdd(key K, factory func(K) V) V
	TryRemove(key K) (removed bool)
	Keys() []K
	Values() []V
}

// Map is a mutex-guarded hash map. The zero value is an empty map ready for use.
type Map[K comparable, V any] struct {
	mu  sync.Mutex
	raw map[K]V
}

var _ Dictionary[string, int] = (*Map[string, int])(nil)

// NewMap creates an empty map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{raw: make(map[K]V)}
}

// NewMapFrom creates a map holding a copy of seed.
func NewMapFrom[K comparable, V any](seed map[K]V) *Map[K, V] {
	m := &Map[K, V]{raw: make(map[K]V, len(seed))}
	for k, v := range seed {
		m.raw[k] = v
	}
	return m
}

// Unguarded core. Callers must hold m.mu.

func (m *Map[K, V]) store(key K, value V) {
	if m.raw == nil {
		m.raw = make(map[K]V)
	}
	m.raw[key] = value
}
func (m *Map[K, V]) load(key K) (value V, ok bool) {
	value, ok = m.raw[key]
	return
}
func (m *Map[K, V]) insert(key K, value V) bool {
	if _, ok := m.raw[key]; ok {
		return false
	}
	m.store(key, value)
	return true
}
func (m *Map[K, V]) remove(key K) bool {
	if _, ok := m.raw[key]; !ok {
		return false
	}
	delete(m.raw, key)
	return true
}
func (m *Map[K, V]) entries() []lo.Entry[K, V] {
	all := make([]lo.Entry[K, V], 0, len(m.raw))
	for k, v := range m.raw {
		all = append(all, lo.Entry[K, V]{Key: k, Value: v})
	}
	return all
}
func (m *Map[K, V]) swap(entries []lo.Entry[K, V]) (prev []lo.Entry[K, V]) {
	prev = m.entries()
	m.raw = nil
	for _, e := range entries {
		m.store(e.Key, e.Value)
	}
	return
}

func (m *Map[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.raw)
}
func (m *Map[K, V]) Get(key K) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.load(key)
	if !ok {
		return value, keyError(ErrKeyNotFound, key)
	}
	return value, nil
}
func (m *Map[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store(key, value)
}
func (m *Map[K, V]) Add(key K, value V) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.insert(key, value) {
		return keyError(ErrDuplicateKey, key)
	}
	return nil
}
func (m *Map[K, V]) AddOrSet(key K, value V) {
	m.Set(key, value)
}
func (m *Map[K, V]) TryAdd(key K, value V) (added bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(key, value)
}
func (m *Map[K, V]) ContainsKey(key K) (ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok = m.raw[key]
	return
}
func (m *Map[K, V]) TryGetValue(key K) (value V, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(key)
}
func (m *Map[K, V]) GetOrDefault(key K) (value V) {
	value, _ = m.TryGetValue(key)
	return
}
func (m *Map[K, V]) GetOrAdd(key K, factory func(K) V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value, ok := m.load(key); ok {
		return value
	}
	value := factory(key)
	m.store(key, value)
	return value
}

// GetOrAddErr is GetOrAdd with a fallible factory. If the factory fails,
// nothing is inserted and its error is returned.
func (m *Map[K, V]) GetOrAddErr(key K, factory func(K) (V, error)) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value, ok := m.load(key); ok {
		return value, nil
	}
	value, err := factory(key)
	if err != nil {
		return value, err
	}
	m.store(key, value)
	return value, nil
}

// Swap stores value and returns the previous value, if any.
func (m *Map[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	previous, loaded = m.load(key)
	m.store(key, value)
	return
}
func (m *Map[K, V]) TryRemove(key K) (removed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(key)
}

// RemoveFunc deletes key only if it is present and pred accepts its value.
// pred runs under the guard.
func (m *Map[K, V]) RemoveFunc(key K, pred func(V) bool) (removed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value, ok := m.load(key); ok && pred(value) {
		delete(m.raw, key)
		return true
	}
	return false
}

// LoadAndRemove deletes key and returns the value it held.
func (m *Map[K, V]) LoadAndRemove(key K) (value V, loaded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value, loaded = m.load(key); loaded {
		delete(m.raw, key)
	}
	return
}
func (m *Map[K, V]) AddRange(entries ...lo.Entry[K, V]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.store(e.Key, e.Value)
	}
}
func (m *Map[K, V]) TryConsume() (entry lo.Entry[K, V], ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.raw {
		delete(m.raw, k)
		return lo.Entry[K, V]{Key: k, Value: v}, true
	}
	return
}
func (m *Map[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = nil
}
func (m *Map[K, V]) GetAndClear() []lo.Entry[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.swap(nil)
}
func (m *Map[K, V]) ClearAndAdd(entries ...lo.Entry[K, V]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swap(entries)
}
func (m *Map[K, V]) GetAndClearAndAdd(entries ...lo.Entry[K, V]) []lo.Entry[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.swap(entries)
}
func (m *Map[K, V]) All() []lo.Entry[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries()
}
func (m *Map[K, V]) Range(f func(entry lo.Entry[K, V]) bool) {
	for _, e := range m.All() {
		if !f(e) {
			return
		}
	}
}

// RangeKV is Range with the entry unpacked.
func (m *Map[K, V]) RangeKV(f func(key K, value V) bool) {
	m.Range(func(e lo.Entry[K, V]) bool {
		return f(e.Key, e.Value)
	})
}

// Clone returns a plain copy of the map's contents.
func (m *Map[K, V]) Clone() map[K]V {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Assign(m.raw)
}
func (m *Map[K, V]) Keys() []K {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Keys(m.raw)
}
func (m *Map[K, V]) Values() []V {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Values(m.raw)
}
