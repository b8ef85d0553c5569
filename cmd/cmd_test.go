package cmd

import (
	"context"
	"testing"
	"time"

	"get.pme.sh/atomix/config"
	"get.pme.sh/atomix/retry"
	"get.pme.sh/atomix/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainOnce(t *testing.T) {
	collected, remaining := drainOnce([]int{3, 1, 2, 2})
	assert.Equal(t, []int{1, 2, 3}, collected)
	assert.Equal(t, 0, remaining)
}

func TestRunHandoff(t *testing.T) {
	h := config.Handoff{
		Producers:   4,
		Items:       500,
		Duplicates:  0.2,
		FailureRate: 0.3,
		Interval:    util.Duration(time.Millisecond),
		Retry:       retry.Policy{Attempts: 3},
	}
	require.NoError(t, h.Validate())

	report, err := runHandoff(context.Background(), h)
	require.NoError(t, err)
	assert.Zero(t, report.Lost)
	assert.Zero(t, report.Duplicates)
	assert.Equal(t, report.Produced, report.Handled+report.Dropped)
	assert.LessOrEqual(t, report.Produced, int64(h.Producers*h.Items))
	assert.Positive(t, report.Flushes)
}

func TestRunHandoff_NothingFails(t *testing.T) {
	h := config.DefaultHandoff()
	h.Items = 200
	h.FailureRate = 0

	report, err := runHandoff(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, report.Produced, report.Handled)
	assert.Zero(t, report.Dropped)
	assert.Zero(t, report.Deferred)
}
