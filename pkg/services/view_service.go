package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/russross/blackfriday"
	"github.com/samber/lo"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

const (
	summaryPreviewLength = 100
	exportDateLayout     = "2006-01-02T15:04:05.000000"
	exportBannerLayout   = "2006-01-02 15:04:05"
	exportFileLayout     = "20060102_150405"
)

var exportRule = strings.Repeat("=", 60)

const (
	markdownHTMLFlags = blackfriday.HTML_SKIP_HTML | blackfriday.HTML_SAFELINK | blackfriday.HTML_USE_XHTML

	markdownExtensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
		blackfriday.EXTENSION_TABLES |
		blackfriday.EXTENSION_FENCED_CODE |
		blackfriday.EXTENSION_AUTOLINK |
		blackfriday.EXTENSION_STRIKETHROUGH
)

// ConversationExport is the downloadable JSON document of one session.
type ConversationExport struct {
	Conversation []domain.Message `json:"conversation"`
	Statistics   domain.Stats     `json:"statistics"`
	ExportDate   string           `json:"export_date"`
	Author       string           `json:"author"`
}

// viewService computes read-only views of a session. It never mutates the log
// or the usage counters.
type viewService struct {
	chats ChatProvider
	info  domain.AppInfo
	now   func() time.Time
}

func NewViewService(chats ChatProvider, info domain.AppInfo) *viewService {
	return &viewService{
		chats: chats,
		info:  info,
		now:   time.Now,
	}
}

// read runs fn with the session locked.
func (v *viewService) read(sessionID string, fn func(chat *domain.Chat)) {
	chat := v.chats.GetOrCreate(sessionID)
	chat.Lock()
	defer chat.Unlock()

	fn(chat)
}

func (v *viewService) History(sessionID string) []domain.Message {
	var out []domain.Message
	v.read(sessionID, func(chat *domain.Chat) {
		out = chat.Log.All()
	})
	return out
}

func (v *viewService) Stats(sessionID string) domain.Stats {
	var out domain.Stats
	v.read(sessionID, func(chat *domain.Chat) {
		out = chat.Usage.Snapshot(v.now())
	})
	return out
}

// Search matches query case-insensitively. Rejecting an empty query is the caller's job.
func (v *viewService) Search(sessionID, query string) []domain.Message {
	var out []domain.Message
	v.read(sessionID, func(chat *domain.Chat) {
		out = chat.Log.Search(query)
	})
	return out
}

func (v *viewService) Summary(sessionID string) string {
	var (
		messages []domain.Message
		tokens   domain.TokenUsage
		requests int
	)
	v.read(sessionID, func(chat *domain.Chat) {
		messages = chat.Log.All()
		tokens = chat.Usage.Tokens()
		requests = chat.Usage.TotalRequests()
	})

	users := lo.Filter(messages, func(m domain.Message, _ int) bool { return m.Role == domain.RoleUser })
	assistants := lo.CountBy(messages, func(m domain.Message) bool { return m.Role == domain.RoleAssistant })

	var sb strings.Builder
	sb.WriteString("Conversation Summary:\n")
	fmt.Fprintf(&sb, "- Total Messages: %d\n", len(messages))
	fmt.Fprintf(&sb, "- User Messages: %d\n", len(users))
	fmt.Fprintf(&sb, "- Assistant Messages: %d\n", assistants)
	fmt.Fprintf(&sb, "- Total Tokens Used: %d\n", tokens.TotalTokens)
	fmt.Fprintf(&sb, "- Total Requests: %d\n", requests)

	if len(users) > 0 {
		fmt.Fprintf(&sb, "\nFirst User Message: %s\n", preview(users[0].Content, summaryPreviewLength))
	}

	return sb.String()
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func (v *viewService) author() string {
	return fmt.Sprintf("%s (%s)", v.info.Author, v.info.Website)
}

func (v *viewService) ExportJSON(sessionID string) ([]byte, error) {
	now := v.now()

	export := ConversationExport{
		ExportDate: now.Format(exportDateLayout),
		Author:     v.author(),
	}
	v.read(sessionID, func(chat *domain.Chat) {
		export.Conversation = chat.Log.All()
		export.Statistics = chat.Usage.Snapshot(now)
	})

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(export); err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}

	return buf.Bytes(), nil
}

func (v *viewService) ExportText(sessionID string) string {
	var (
		messages []domain.Message
		tokens   domain.TokenUsage
	)
	v.read(sessionID, func(chat *domain.Chat) {
		messages = chat.Log.All()
		tokens = chat.Usage.Tokens()
	})

	var sb strings.Builder
	sb.WriteString(exportRule + "\n")
	fmt.Fprintf(&sb, "%s Conversation\n", v.info.Name)
	fmt.Fprintf(&sb, "Created by %s\n", v.author())
	fmt.Fprintf(&sb, "Export Date: %s\n", v.now().Format(exportBannerLayout))
	sb.WriteString(exportRule + "\n\n")

	for _, m := range messages {
		fmt.Fprintf(&sb, "[%s]\n%s\n\n", strings.ToUpper(string(m.Role)), m.Content)
	}

	sb.WriteString("\n" + exportRule + "\n")
	sb.WriteString("Token Usage Statistics\n")
	sb.WriteString(exportRule + "\n")
	fmt.Fprintf(&sb, "Prompt Tokens: %d\n", tokens.PromptTokens)
	fmt.Fprintf(&sb, "Completion Tokens: %d\n", tokens.CompletionTokens)
	fmt.Fprintf(&sb, "Total Tokens: %d\n", tokens.TotalTokens)

	return sb.String()
}

// ExportHTML renders the transcript as a standalone page, turning each
// message's markdown into HTML. Raw HTML in messages is dropped.
func (v *viewService) ExportHTML(sessionID string) []byte {
	messages := v.History(sessionID)
	title := html.EscapeString(v.info.Name + " Conversation")

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", title)
	fmt.Fprintf(&buf, "<h1>%s</h1>\n", title)
	fmt.Fprintf(&buf, "<p>Created by %s. Exported %s.</p>\n", html.EscapeString(v.author()), v.now().Format(exportBannerLayout))

	renderer := blackfriday.HtmlRenderer(markdownHTMLFlags, "", "")
	for _, m := range messages {
		role := html.EscapeString(string(m.Role))
		fmt.Fprintf(&buf, "<section class=\"message %s\">\n<h2>%s</h2>\n", role, strings.ToUpper(role))
		buf.Write(blackfriday.Markdown([]byte(m.Content), renderer, markdownExtensions))
		buf.WriteString("</section>\n")
	}

	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

func (v *viewService) ExportFilename(ext string) string {
	return fmt.Sprintf("conversation_export_%s.%s", v.now().Format(exportFileLayout), ext)
}
