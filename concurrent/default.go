package concurrent

// GetOrAddZero returns the value for key, inserting V's zero value if absent.
func GetOrAddZero[K comparable, V any](d Dictionary[K, V], key K) V {
	return d.GetOrAdd(key, func(K) V {
		var zero V
		return zero
	})
}

// GetOrAddNew returns the value for key, inserting a freshly allocated *V if absent.
func GetOrAddNew[K comparable, V any](d Dictionary[K, *V], key K) *V {
	return d.GetOrAdd(key, func(K) *V {
		return new(V)
	})
}
