package lru

import (
	"sync/atomic"
	"time"

	"get.pme.sh/atomix/concurrent"
)

type Entry[V any] struct {
	Value   V
	lastUse atomic.Int64
	nAcq    atomic.Int64
}

func (e *Entry[V]) Acquire() {
	e.nAcq.Add(1)
}
func (e *Entry[V]) Release() {
	e.Bump()
	e.nAcq.Add(-1)
}
func (e *Entry[V]) Bump() {
	e.lastUse.Store(time.Now().UnixMilli())
}
func (e *Entry[V]) Expired(threshold time.Time) bool {
	if e.nAcq.Load() == 0 {
		return e.lastUse.Load() < threshold.UnixMilli()
	}
	return false
}

// Cache is an expiring get-or-create cache. Entries that are not acquired
// and were not used within Expiry are evicted by Cleanup, which runs every
// CleanupInterval while the cache is non-empty.
//
// New and Evict must not call back into the cache: New may run while the
// underlying map's guard is held.
type Cache[K comparable, V any] struct {
	Expiry          time.Duration
	CleanupInterval time.Duration
	New             func(K, *Entry[V]) error
	Evict           func(K, V)
	Singleflight    bool

	entries       concurrent.Map[K, *Entry[V]]
	cleanupTicker atomic.Pointer[time.Ticker]
}

func (c *Cache[K, V]) Len() int {
	return c.entries.Len()
}

func (c *Cache[K, V]) Delete(key K) {
	if e, ok := c.entries.LoadAndRemove(key); ok {
		c.onDelete(key, e.Value)
	}
}

// Purge evicts every entry regardless of use.
func (c *Cache[K, V]) Purge() {
	for _, e := range c.entries.GetAndClear() {
		c.onDelete(e.Key, e.Value.Value)
	}
}

func (c *Cache[K, V]) Cleanup() {
	threshold := time.Now().Add(-c.Expiry)
	c.entries.RangeKV(func(key K, e *Entry[V]) bool {
		expired := c.entries.RemoveFunc(key, func(cur *Entry[V]) bool {
			return cur == e && cur.Expired(threshold)
		})
		if expired {
			c.onDelete(key, e.Value)
		}
		return true
	})
}

func (c *Cache[K, V]) onDelete(k K, v V) {
	if c.Evict != nil {
		c.Evict(k, v)
	}
}
func (c *Cache[K, V]) onInsert() {
	if c.CleanupInterval <= 0 || c.cleanupTicker.Load() != nil {
		return
	}
	ticker := time.NewTicker(c.CleanupInterval)
	if !c.cleanupTicker.CompareAndSwap(nil, ticker) {
		ticker.Stop()
		return
	}
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			c.Cleanup()
			if c.entries.Len() == 0 {
				c.cleanupTicker.CompareAndSwap(ticker, nil)
				return
			}
		}
	}()
}

func (c *Cache[K, V]) ReplaceEntry(key K, v *Entry[V]) {
	v.Bump()
	prev, ok := c.entries.Swap(key, v)
	if !ok {
		c.onInsert()
	} else if prev != v {
		c.onDelete(key, prev.Value)
	}
}
func (c *Cache[K, V]) SetEntry(key K, v *Entry[V]) (result *Entry[V], ok bool) {
	v.Bump()
	if c.entries.TryAdd(key, v) {
		c.onInsert()
		return v, true
	}
	result, _ = c.entries.TryGetValue(key)
	if result == nil {
		// removed in between, retry the insert
		return c.SetEntry(key, v)
	}
	return result, false
}
func (c *Cache[K, V]) GetEntryIf(key K) (value *Entry[V], ok bool) {
	value, ok = c.entries.TryGetValue(key)
	if ok {
		value.Bump()
	}
	return
}
func (c *Cache[K, V]) GetEntry(key K) (value *Entry[V], err error) {
	if value, ok := c.GetEntryIf(key); ok {
		return value, nil
	} else if c.New == nil {
		return nil, nil
	}

	if c.Singleflight {
		created := false
		value, err = c.entries.GetOrAddErr(key, func(k K) (*Entry[V], error) {
			e := &Entry[V]{}
			if err := c.New(k, e); err != nil {
				return nil, err
			}
			created = true
			return e, nil
		})
		if err != nil {
			return nil, err
		}
		value.Bump()
		if created {
			c.onInsert()
		}
		return value, nil
	}

	value = &Entry[V]{}
	if err = c.New(key, value); err != nil {
		return nil, err
	}
	value, _ = c.SetEntry(key, value)
	return value, nil
}

func (c *Cache[K, V]) Set(key K, value V) (result V, ok bool) {
	r, ok := c.SetEntry(key, &Entry[V]{Value: value})
	return r.Value, ok
}
func (c *Cache[K, V]) Replace(key K, value V) {
	c.ReplaceEntry(key, &Entry[V]{Value: value})
}
func (c *Cache[K, V]) GetIf(key K) (value V, ok bool) {
	v, ok := c.GetEntryIf(key)
	if ok {
		value = v.Value
	}
	return
}
func (c *Cache[K, V]) Get(key K) (value V, err error) {
	v, err := c.GetEntry(key)
	if err == nil && v != nil {
		value = v.Value
	}
	return
}
