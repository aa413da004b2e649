package domain

import (
	"sync"
	"time"
)

type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, Delay: time.Second}

// Chat is one conversation session. Callers serialize access with Lock/Unlock;
// the fields are not safe for concurrent use on their own.
type Chat struct {
	mu sync.Mutex

	ID           string
	SystemPrompt string
	Model        string
	Log          *MessageLog
	Usage        *UsageAccumulator
	Retry        RetryPolicy
	CreatedAt    time.Time
}

func NewChat(id, systemPrompt, model string, retry RetryPolicy, now time.Time) *Chat {
	return &Chat{
		ID:           id,
		SystemPrompt: systemPrompt,
		Model:        model,
		Log:          NewMessageLog(),
		Usage:        NewUsageAccumulator(now),
		Retry:        retry,
		CreatedAt:    now,
	}
}

func (c *Chat) Lock()   { c.mu.Lock() }
func (c *Chat) Unlock() { c.mu.Unlock() }

// TryLock reports whether the chat was free and is now locked by the caller.
func (c *Chat) TryLock() bool { return c.mu.TryLock() }
