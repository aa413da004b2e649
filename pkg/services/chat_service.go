package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

type ChatRepository interface {
	GetOrCreate(sessionID string) *domain.Chat
	SetModel(sessionID, model string)
	SetSystemPrompt(sessionID, prompt string)
}

type CatalogRepository interface {
	Persona(key string) domain.Persona
	Personas() map[string]domain.Persona
	Template(key string) (domain.Template, error)
	Templates() map[string]domain.Template
}

type ConversationStore interface {
	Save(name string, messages []domain.Message) (string, error)
	Load(name string) ([]domain.Message, error)
}

type chatService struct {
	chatRepo    ChatRepository
	catalogRepo CatalogRepository
	store       ConversationStore
	info        domain.AppInfo
	now         func() time.Time
}

func NewChatService(
	chatRepo ChatRepository,
	catalogRepo CatalogRepository,
	store ConversationStore,
	info domain.AppInfo,
) *chatService {
	return &chatService{
		chatRepo:    chatRepo,
		catalogRepo: catalogRepo,
		store:       store,
		info:        info,
		now:         time.Now,
	}
}

func (c *chatService) ClearHistory(sessionID string) {
	chat := c.chatRepo.GetOrCreate(sessionID)
	chat.Lock()
	defer chat.Unlock()

	chat.Log.Clear()
}

// ResetStats zeroes the usage counters and leaves the log untouched.
func (c *chatService) ResetStats(sessionID string) {
	chat := c.chatRepo.GetOrCreate(sessionID)
	chat.Lock()
	defer chat.Unlock()

	chat.Usage.Reset(c.now())
}

func (c *chatService) SetModel(sessionID, model string) {
	c.chatRepo.SetModel(sessionID, model)
}

// SetPersona overwrites the session's system prompt. Unknown keys resolve to
// the default persona.
func (c *chatService) SetPersona(sessionID, key string) domain.Persona {
	persona := c.catalogRepo.Persona(key)
	c.chatRepo.SetSystemPrompt(sessionID, persona.SystemPrompt)

	slog.Debug("Persona set", "sessionID", sessionID, "requested", key, "persona", persona.Key)

	return persona
}

func (c *chatService) Personas() map[string]domain.Persona {
	return c.catalogRepo.Personas()
}

func (c *chatService) Templates() map[string]domain.Template {
	return c.catalogRepo.Templates()
}

func (c *chatService) Template(key string) (domain.Template, error) {
	return c.catalogRepo.Template(key)
}

func (c *chatService) Info() domain.AppInfo {
	return c.info
}

// SaveConversation writes the session log to the store. An empty name gets a
// session and time based default.
func (c *chatService) SaveConversation(sessionID, name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("conversation_%s_%s", sessionID, c.now().Format(exportFileLayout))
	}

	chat := c.chatRepo.GetOrCreate(sessionID)
	chat.Lock()
	messages := chat.Log.All()
	chat.Unlock()

	file, err := c.store.Save(name, messages)
	if err != nil {
		return "", fmt.Errorf("saving conversation: %w", err)
	}

	return file, nil
}

// LoadConversation replaces the session log with the stored document, verbatim.
func (c *chatService) LoadConversation(sessionID, name string) (int, error) {
	if name == "" {
		return 0, &domain.ValidationError{Field: "file", Message: "File is required"}
	}

	messages, err := c.store.Load(name)
	if err != nil {
		return 0, fmt.Errorf("loading conversation: %w", err)
	}

	chat := c.chatRepo.GetOrCreate(sessionID)
	chat.Lock()
	defer chat.Unlock()

	chat.Log.Replace(messages)

	return len(messages), nil
}
