package snowflake

import (
	"sync"
	"testing"
	"time"

	"get.pme.sh/atomix/concurrent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromParts(t *testing.T) {
	ts := time.UnixMilli(EpochBegin + 123456)
	id := FromParts(0x2A5, 0x1234, ts.UnixMilli())

	assert.Equal(t, uint32(0x234), id.Sequence())
	assert.Equal(t, uint32(0x2A5), id.MachineID())
	assert.Equal(t, ts, id.Timestamp())
}

func TestID_Text(t *testing.T) {
	id := New()
	text, err := id.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, id.String(), string(text))

	var back ID
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, id, back)
	assert.Error(t, back.UnmarshalText([]byte("x")))
}

func TestGenerator_UniqueAcrossGoroutines(t *testing.T) {
	g := &Generator{MachineID: 7}
	now := time.Now()
	seen := concurrent.NewSet[ID]()

	// more ids than one millisecond holds
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 2000 {
				assert.True(t, seen.TryAdd(g.NextAt(now)))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8000, seen.Len())
}

func TestGenerator_Increasing(t *testing.T) {
	g := &Generator{}
	now := time.Now()
	prev := g.NextAt(now)
	for range 5000 {
		next := g.NextAt(now)
		require.Greater(t, uint64(next), uint64(prev))
		prev = next
	}
	// a clock stepping back does not reorder ids
	assert.Greater(t, uint64(g.NextAt(now.Add(-time.Hour))), uint64(prev))
	assert.Equal(t, now.Add(time.Millisecond).UnixMilli(), prev.Timestamp().UnixMilli())
}
