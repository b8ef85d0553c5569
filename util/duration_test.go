package util

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1.5s")))
	assert.Equal(t, 1500*time.Millisecond, d.Duration())

	require.NoError(t, d.UnmarshalText([]byte("never")))
	assert.Equal(t, Duration(-1), d)

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestDuration_YAML(t *testing.T) {
	var v struct {
		Every Duration `yaml:"every"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("every: 250ms\n"), &v))
	assert.Equal(t, 250*time.Millisecond, v.Every.Duration())

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "every: 250ms\n", string(out))
}

func TestDuration_JSON(t *testing.T) {
	out, err := json.Marshal(Duration(2 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(out))

	var d Duration
	require.NoError(t, json.Unmarshal(out, &d))
	assert.Equal(t, 2*time.Second, d.Duration())
}

func TestDuration_Or(t *testing.T) {
	assert.Equal(t, Duration(time.Second), Duration(0).Or(time.Second))
	assert.Equal(t, Duration(5), Duration(5).Or(time.Second))
	assert.Equal(t, Duration(0), Duration(-1).Or(time.Second))
	assert.Nil(t, Duration(0).Ticker())
}

func TestDuration_Timeout(t *testing.T) {
	ctx, cancel := Duration(time.Millisecond).Timeout(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok)
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)

	ctx, cancel = Duration(0).Timeout(context.Background())
	_, ok = ctx.Deadline()
	assert.False(t, ok)
	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
