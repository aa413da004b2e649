package repository

import (
	"sync"
	"time"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

type ChatDefaults struct {
	SystemPrompt string
	Model        string
	Retry        domain.RetryPolicy
}

type chatEntry struct {
	chat       *domain.Chat
	lastAccess time.Time
}

type chatRepository struct {
	mu       sync.RWMutex
	chats    map[string]*chatEntry
	defaults ChatDefaults
	now      func() time.Time
}

func NewChatRepository(defaults ChatDefaults) *chatRepository {
	return &chatRepository{
		chats:    make(map[string]*chatEntry),
		defaults: defaults,
		now:      time.Now,
	}
}

// GetOrCreate returns the chat for sessionID, creating it with the defaults on
// first access. Concurrent first touches of the same id build one chat.
func (c *chatRepository) GetOrCreate(sessionID string) *domain.Chat {
	c.mu.RLock()
	entry, ok := c.chats[sessionID]
	c.mu.RUnlock()
	if ok {
		c.touch(entry)
		return entry.chat
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.chats[sessionID]; ok {
		entry.lastAccess = c.now()
		return entry.chat
	}

	now := c.now()
	chat := domain.NewChat(sessionID, c.defaults.SystemPrompt, c.defaults.Model, c.defaults.Retry, now)
	c.chats[sessionID] = &chatEntry{chat: chat, lastAccess: now}

	return chat
}

func (c *chatRepository) touch(entry *chatEntry) {
	c.mu.Lock()
	entry.lastAccess = c.now()
	c.mu.Unlock()
}

func (c *chatRepository) SetModel(sessionID, model string) {
	chat := c.GetOrCreate(sessionID)
	chat.Lock()
	defer chat.Unlock()

	chat.Model = model
}

func (c *chatRepository) SetSystemPrompt(sessionID, prompt string) {
	chat := c.GetOrCreate(sessionID)
	chat.Lock()
	defer chat.Unlock()

	chat.SystemPrompt = prompt
}

func (c *chatRepository) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.chats)
}

// EvictIdle drops chats not accessed within ttl and returns how many were removed.
// A chat held by an in-flight request counts as accessed and is kept.
// A non-positive ttl disables eviction.
func (c *chatRepository) EvictIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	evicted := 0
	for id, entry := range c.chats {
		if now.Sub(entry.lastAccess) <= ttl {
			continue
		}
		if !entry.chat.TryLock() {
			entry.lastAccess = now
			continue
		}
		delete(c.chats, id)
		entry.chat.Unlock()
		evicted++
	}

	return evicted
}
