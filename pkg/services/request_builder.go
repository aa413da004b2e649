package services

import (
	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

// buildRequest prepends the system prompt to the chat log. The user's new
// message must already be in the log. Parameters are passed through unchecked.
func buildRequest(chat *domain.Chat, params domain.RequestParameters) domain.ProviderRequest {
	history := chat.Log.All()

	messages := make([]domain.Message, 0, len(history)+1)
	messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: chat.SystemPrompt})
	messages = append(messages, history...)

	return domain.ProviderRequest{
		Model:       chat.Model,
		Messages:    messages,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}
}
