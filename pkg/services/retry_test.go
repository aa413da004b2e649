package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

func TestRetrier_Backoff(t *testing.T) {
	r := retrier{policy: domain.RetryPolicy{MaxRetries: 4, Delay: 500 * time.Millisecond}}

	assert.Equal(t, 500*time.Millisecond, r.backoff(0))
	assert.Equal(t, time.Second, r.backoff(1))
	assert.Equal(t, 2*time.Second, r.backoff(2))
	assert.Equal(t, 4*time.Second, r.backoff(3))
}

func TestRetry_ReturnsLastError(t *testing.T) {
	sleeper := &sleepRecorder{}
	r := retrier{policy: domain.RetryPolicy{MaxRetries: 2, Delay: time.Millisecond}, sleep: sleeper.sleep}

	calls := 0
	_, attempts, err := retry(context.Background(), r, func(context.Context) (string, error) {
		calls++
		return "", errors.New("failure " + string(rune('0'+calls)))
	})

	require.Error(t, err)
	assert.Equal(t, "failure 2", err.Error())
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []time.Duration{time.Millisecond}, sleeper.waits)
}

func TestSleepContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sleepContext(ctx, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
}
