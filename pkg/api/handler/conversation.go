package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Query   string           `json:"query"`
	Results []domain.Message `json:"results"`
	Count   int              `json:"count"`
}

// POST /api/clear
func (h *handler) ClearHistory(c echo.Context) error {
	h.chats.ClearHistory(sessionID(c))
	return h.writer.WriteMessage(c, "Conversation history cleared")
}

// GET /api/history
func (h *handler) History(c echo.Context) error {
	return h.writer.WriteSuccessResponse(c, map[string][]domain.Message{
		"history": h.views.History(sessionID(c)),
	})
}

// GET /api/stats
func (h *handler) Stats(c echo.Context) error {
	return h.writer.WriteSuccessResponse(c, h.views.Stats(sessionID(c)))
}

// POST /api/reset-stats
func (h *handler) ResetStats(c echo.Context) error {
	h.chats.ResetStats(sessionID(c))
	return h.writer.WriteMessage(c, "Statistics reset successfully")
}

// POST /api/search
func (h *handler) Search(c echo.Context) error {
	var req searchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return &domain.ValidationError{Field: "query", Message: "Search query is required"}
	}

	results := h.views.Search(sessionID(c), req.Query)

	return h.writer.WriteSuccessResponse(c, searchResponse{
		Query:   req.Query,
		Results: results,
		Count:   len(results),
	})
}

// GET /api/summary
func (h *handler) Summary(c echo.Context) error {
	return h.writer.WriteSuccessResponse(c, map[string]string{
		"summary": h.views.Summary(sessionID(c)),
	})
}

// GET /api/export/json
func (h *handler) ExportJSON(c echo.Context) error {
	body, err := h.views.ExportJSON(sessionID(c))
	if err != nil {
		return err
	}
	return h.writer.WriteAttachment(c, echo.MIMEApplicationJSON, h.views.ExportFilename("json"), body)
}

// GET /api/export/txt
func (h *handler) ExportText(c echo.Context) error {
	body := h.views.ExportText(sessionID(c))
	return h.writer.WriteAttachment(c, echo.MIMETextPlainCharsetUTF8, h.views.ExportFilename("txt"), []byte(body))
}

// GET /api/export/html
func (h *handler) ExportHTML(c echo.Context) error {
	return h.writer.WriteAttachment(c, echo.MIMETextHTMLCharsetUTF8, h.views.ExportFilename("html"), h.views.ExportHTML(sessionID(c)))
}

type saveRequest struct {
	Name string `json:"name"`
}

type loadRequest struct {
	File string `json:"file"`
}

// POST /api/conversation/save
func (h *handler) SaveConversation(c echo.Context) error {
	var req saveRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}

	file, err := h.chats.SaveConversation(sessionID(c), strings.TrimSpace(req.Name))
	if err != nil {
		return err
	}

	return h.writer.WriteSuccessResponse(c, map[string]string{
		"message": "Conversation saved",
		"file":    file,
	})
}

// POST /api/conversation/load
func (h *handler) LoadConversation(c echo.Context) error {
	var req loadRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	count, err := h.chats.LoadConversation(sessionID(c), strings.TrimSpace(req.File))
	if err != nil {
		return err
	}

	return h.writer.WriteSuccessResponse(c, map[string]any{
		"message": "Conversation loaded",
		"count":   count,
	})
}
