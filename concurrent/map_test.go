package concurrent_test

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"get.pme.sh/atomix/concurrent"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedKeys[V any](entries []lo.Entry[string, V]) []string {
	keys := lo.Map(entries, func(e lo.Entry[string, V], _ int) string { return e.Key })
	sort.Strings(keys)
	return keys
}

func TestMap_Indexer(t *testing.T) {
	m := concurrent.NewMap[string, int]()

	_, err := m.Get("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, concurrent.ErrKeyNotFound))
	assert.Contains(t, err.Error(), "missing")

	m.Set("a", 1)
	m.Set("a", 2)
	v, err := m.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestMap_Add(t *testing.T) {
	m := concurrent.NewMap[string, int]()

	require.NoError(t, m.Add("a", 1))
	err := m.Add("a", 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, concurrent.ErrDuplicateKey)
	assert.Equal(t, 1, m.GetOrDefault("a"))

	m.AddOrSet("a", 3)
	assert.Equal(t, 3, m.GetOrDefault("a"))

	assert.False(t, m.TryAdd("a", 4))
	assert.True(t, m.TryAdd("b", 4))
	assert.Equal(t, 2, m.Len())
}

func TestMap_Lookup(t *testing.T) {
	m := concurrent.NewMapFrom(map[string]int{"a": 1})

	assert.True(t, m.ContainsKey("a"))
	assert.False(t, m.ContainsKey("b"))

	v, ok := m.TryGetValue("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = m.TryGetValue("b")
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Zero(t, m.GetOrDefault("b"))
	assert.False(t, m.ContainsKey("b"), "GetOrDefault must not insert")
}

func TestMap_NewMapFromCopies(t *testing.T) {
	seed := map[string]int{"a": 1}
	m := concurrent.NewMapFrom(seed)
	seed["b"] = 2
	assert.Equal(t, 1, m.Len())

	clone := m.Clone()
	clone["c"] = 3
	assert.Equal(t, 1, m.Len())
}

func TestMap_Remove(t *testing.T) {
	m := concurrent.NewMapFrom(map[string]int{"a": 1, "b": 2})

	assert.True(t, m.TryRemove("a"))
	assert.False(t, m.TryRemove("a"))

	assert.False(t, m.RemoveFunc("b", func(v int) bool { return v > 5 }))
	assert.True(t, m.ContainsKey("b"))
	assert.True(t, m.RemoveFunc("b", func(v int) bool { return v == 2 }))
	assert.False(t, m.RemoveFunc("b", func(int) bool { return true }))

	m.Set("c", 3)
	v, ok := m.LoadAndRemove("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 0, m.Len())
}

func TestMap_Swap(t *testing.T) {
	m := concurrent.NewMap[string, int]()

	_, loaded := m.Swap("a", 1)
	assert.False(t, loaded)
	prev, loaded := m.Swap("a", 2)
	assert.True(t, loaded)
	assert.Equal(t, 1, prev)
}

func TestMap_GetOrAdd(t *testing.T) {
	m := concurrent.NewMap[string, int]()
	calls := 0
	factory := func(k string) int {
		calls++
		return len(k)
	}

	assert.Equal(t, 3, m.GetOrAdd("abc", factory))
	assert.Equal(t, 3, m.GetOrAdd("abc", factory))
	assert.Equal(t, 1, calls)

	m.Set("x", 42)
	assert.Equal(t, 42, m.GetOrAdd("x", factory))
	assert.Equal(t, 1, calls)
}

func TestMap_GetOrAddErr(t *testing.T) {
	m := concurrent.NewMap[string, int]()
	boom := errors.New("boom")

	_, err := m.GetOrAddErr("a", func(string) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, m.ContainsKey("a"))

	v, err := m.GetOrAddErr("a", func(string) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = m.GetOrAddErr("a", func(string) (int, error) { return 0, boom })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestMap_GetOrAddSingleComputation(t *testing.T) {
	m := concurrent.NewMap[string, *int]()
	var calls atomic.Int32

	const workers = 32
	results := make([]*int, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = m.GetOrAdd("key", func(string) *int {
				calls.Add(1)
				return new(int)
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestMap_CollectionOps(t *testing.T) {
	t.Run("AddRange upserts", func(t *testing.T) {
		m := concurrent.NewMapFrom(map[string]int{"a": 1})
		m.AddRange(lo.Entry[string, int]{Key: "a", Value: 10}, lo.Entry[string, int]{Key: "b", Value: 2})
		assert.Equal(t, map[string]int{"a": 10, "b": 2}, m.Clone())
	})

	t.Run("GetAndClearAndAdd swaps", func(t *testing.T) {
		m := concurrent.NewMapFrom(map[string]int{"a": 1, "b": 2})
		prev := m.GetAndClearAndAdd(lo.Entry[string, int]{Key: "c", Value: 3})
		assert.Equal(t, []string{"a", "b"}, sortedKeys(prev))
		assert.Equal(t, map[string]int{"c": 3}, m.Clone())
	})

	t.Run("ClearAndAdd later duplicates win", func(t *testing.T) {
		m := concurrent.NewMapFrom(map[string]int{"a": 1})
		m.ClearAndAdd(lo.Entry[string, int]{Key: "x", Value: 1}, lo.Entry[string, int]{Key: "x", Value: 2})
		assert.Equal(t, map[string]int{"x": 2}, m.Clone())
	})

	t.Run("GetAndClear empties", func(t *testing.T) {
		m := concurrent.NewMapFrom(map[string]int{"a": 1, "b": 2})
		assert.Equal(t, []string{"a", "b"}, sortedKeys(m.GetAndClear()))
		assert.Equal(t, 0, m.Len())
		m.Clear()
		assert.Equal(t, 0, m.Len())
	})

	t.Run("TryConsume drains", func(t *testing.T) {
		m := concurrent.NewMapFrom(map[string]int{"a": 1, "b": 2, "c": 3})
		got := map[string]int{}
		for {
			e, ok := m.TryConsume()
			if !ok {
				break
			}
			got[e.Key] = e.Value
		}
		assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, got)
	})

	t.Run("Keys and Values", func(t *testing.T) {
		m := concurrent.NewMapFrom(map[string]int{"a": 1, "b": 2})
		keys := m.Keys()
		sort.Strings(keys)
		assert.Equal(t, []string{"a", "b"}, keys)
		assert.ElementsMatch(t, []int{1, 2}, m.Values())
	})

	t.Run("RangeKV may re-enter", func(t *testing.T) {
		m := concurrent.NewMapFrom(map[string]int{"a": 1, "b": 2})
		m.RangeKV(func(k string, v int) bool {
			m.Set(k, v*10)
			return true
		})
		assert.Equal(t, map[string]int{"a": 10, "b": 20}, m.Clone())
	})
}
