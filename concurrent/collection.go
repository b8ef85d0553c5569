package concurrent

// Collection is the operation set shared by every atomic collection.
//
// Each method is a single critical section on the instance's own guard.
// Composite methods (ClearAndAdd, GetAndClearAndAdd) are indivisible: no
// concurrent caller observes the store between their steps.
type Collection[T any] interface {
	// Len returns the current number of elements.
	Len() int
	// AddRange inserts every item as one critical section.
	AddRange(items ...T)
	// TryConsume removes and returns an arbitrary element. The selection is
	// unspecified; callers must not rely on any ordering.
	TryConsume() (item T, ok bool)
	// Clear empties the collection.
	Clear()
	// GetAndClear returns the prior contents and leaves the collection empty.
	GetAndClear() []T
	// ClearAndAdd replaces the contents with items.
	ClearAndAdd(items ...T)
	// GetAndClearAndAdd returns the prior contents and replaces them with items.
	GetAndClearAndAdd(items ...T) []T
	// All returns a snapshot of the current contents.
	All() []T
	// Range calls f for each element of a snapshot taken under the guard.
	// The guard is not held while f runs, so f may use the collection.
	Range(f func(item T) bool)
}

// ItemCollection is a Collection whose elements are their own keys.
type ItemCollection[T comparable] interface {
	Collection[T]
	Add(item T)
	TryAdd(item T) (added bool)
	TryRemove(item T) (removed bool)
}
