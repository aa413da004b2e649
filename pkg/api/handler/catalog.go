package handler

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

// GET /api/personas
func (h *handler) Personas(c echo.Context) error {
	return h.writer.WriteSuccessResponse(c, h.chats.Personas())
}

// SetPersona switches the session's system prompt. Unknown keys fall back to
// the default persona.
// POST /api/personas/:key
func (h *handler) SetPersona(c echo.Context) error {
	persona := h.chats.SetPersona(sessionID(c), c.Param("key"))

	return h.writer.WriteSuccessResponse(c, map[string]any{
		"message": fmt.Sprintf("Persona '%s' set successfully", persona.Name),
		"persona": persona,
	})
}

// GET /api/templates
func (h *handler) Templates(c echo.Context) error {
	return h.writer.WriteSuccessResponse(c, h.chats.Templates())
}

// GET /api/templates/:key
func (h *handler) Template(c echo.Context) error {
	template, err := h.chats.Template(c.Param("key"))
	if errors.Is(err, domain.ErrNotFound) {
		return h.notFound(c, "Template")
	}
	if err != nil {
		return err
	}

	return h.writer.WriteSuccessResponse(c, template)
}

// GET /api/info
func (h *handler) Info(c echo.Context) error {
	return h.writer.WriteSuccessResponse(c, h.chats.Info())
}
