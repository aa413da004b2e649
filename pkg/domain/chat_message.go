package domain

import (
	"strings"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// MessageLog is the ordered turn log of one session. The system prompt is
// kept on the session and never appended here.
type MessageLog struct {
	messages []Message
}

func NewMessageLog(messages ...Message) *MessageLog {
	l := &MessageLog{}
	l.Replace(messages)
	return l
}

func (l *MessageLog) Append(role Role, content string) {
	l.messages = append(l.messages, Message{Role: role, Content: content})
}

func (l *MessageLog) Clear() {
	l.messages = nil
}

// All returns a copy of the log in chronological order.
func (l *MessageLog) All() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *MessageLog) Len() int {
	return len(l.messages)
}

// Replace swaps the whole log for messages, verbatim.
func (l *MessageLog) Replace(messages []Message) {
	l.messages = make([]Message, len(messages))
	copy(l.messages, messages)
}

// Search returns every message whose content contains query, ignoring case.
func (l *MessageLog) Search(query string) []Message {
	q := strings.ToLower(query)

	out := []Message{}
	for _, m := range l.messages {
		if strings.Contains(strings.ToLower(m.Content), q) {
			out = append(out, m)
		}
	}
	return out
}
