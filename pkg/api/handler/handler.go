package handler

import (
	"context"
	"iter"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dskvich/chatgpt-web-chat/pkg/api/middleware"
	"github.com/dskvich/chatgpt-web-chat/pkg/api/response"
	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

const timestampLayout = "2006-01-02T15:04:05.000000"

type CompletionService interface {
	Send(ctx context.Context, sessionID, message string, params domain.RequestParameters) (string, error)
	Stream(ctx context.Context, sessionID, message string, params domain.RequestParameters) (iter.Seq[domain.Chunk], error)
}

type ViewService interface {
	History(sessionID string) []domain.Message
	Stats(sessionID string) domain.Stats
	Search(sessionID, query string) []domain.Message
	Summary(sessionID string) string
	ExportJSON(sessionID string) ([]byte, error)
	ExportText(sessionID string) string
	ExportHTML(sessionID string) []byte
	ExportFilename(ext string) string
}

type ChatService interface {
	ClearHistory(sessionID string)
	ResetStats(sessionID string)
	SetModel(sessionID, model string)
	SetPersona(sessionID, key string) domain.Persona
	Personas() map[string]domain.Persona
	Templates() map[string]domain.Template
	Template(key string) (domain.Template, error)
	Info() domain.AppInfo
	SaveConversation(sessionID, name string) (string, error)
	LoadConversation(sessionID, name string) (int, error)
}

type handler struct {
	completions CompletionService
	views       ViewService
	chats       ChatService
	defaults    domain.RequestParameters
	writer      response.JSONResponseWriter
}

// NewHandler wires the HTTP surface. defaults fill in the request parameters a
// chat body leaves out.
func NewHandler(
	completions CompletionService,
	views ViewService,
	chats ChatService,
	defaults domain.RequestParameters,
) *handler {
	return &handler{
		completions: completions,
		views:       views,
		chats:       chats,
		defaults:    defaults,
		writer:      response.JSONResponseWriter{},
	}
}

func (h *handler) RegisterRoutes(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	api := e.Group("/api", mw...)

	api.POST("/chat", h.Chat)
	api.POST("/chat/stream", h.ChatStream)
	api.POST("/clear", h.ClearHistory)
	api.GET("/history", h.History)
	api.GET("/stats", h.Stats)
	api.POST("/reset-stats", h.ResetStats)
	api.POST("/search", h.Search)
	api.GET("/summary", h.Summary)
	api.POST("/model", h.SetModel)

	api.GET("/export/json", h.ExportJSON)
	api.GET("/export/txt", h.ExportText)
	api.GET("/export/html", h.ExportHTML)

	api.POST("/conversation/save", h.SaveConversation)
	api.POST("/conversation/load", h.LoadConversation)

	api.GET("/personas", h.Personas)
	api.POST("/personas/:key", h.SetPersona)
	api.GET("/templates", h.Templates)
	api.GET("/templates/:key", h.Template)
	api.GET("/info", h.Info)
}

func (h *handler) Health(c echo.Context) error {
	return h.writer.WriteSuccessResponse(c, map[string]string{
		"status":  "healthy",
		"version": h.chats.Info().Version,
	})
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return &domain.ValidationError{Field: "body", Message: "Invalid request body"}
	}
	return nil
}

func sessionID(c echo.Context) string {
	return middleware.SessionID(c)
}

func (h *handler) notFound(c echo.Context, what string) error {
	return h.writer.WriteErrorResponse(c, http.StatusNotFound, what+" not found")
}
