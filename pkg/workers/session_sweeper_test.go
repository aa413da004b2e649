package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEvictor struct {
	calls atomic.Int32
	ttl   atomic.Int64
}

func (c *countingEvictor) EvictIdle(ttl time.Duration) int {
	c.calls.Add(1)
	c.ttl.Store(int64(ttl))
	return 1
}

func TestNewSessionSweeper_RejectsNonPositiveTTL(t *testing.T) {
	_, err := NewSessionSweeper(&countingEvictor{}, 0, "@every 1s")
	assert.Error(t, err)
}

func TestSessionSweeper_BadSchedule(t *testing.T) {
	s, err := NewSessionSweeper(&countingEvictor{}, time.Minute, "not a schedule")
	require.NoError(t, err)

	err = s.Start(context.Background())
	assert.Error(t, err)
}

func TestSessionSweeper_Sweeps(t *testing.T) {
	evictor := &countingEvictor{}
	s, err := NewSessionSweeper(evictor, time.Minute, "@every 1s")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Start(ctx) }()

	assert.Eventually(t, func() bool { return evictor.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, int64(time.Minute), evictor.ttl.Load())
}
