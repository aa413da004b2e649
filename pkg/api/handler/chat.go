package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
	"github.com/dskvich/chatgpt-web-chat/pkg/logger"
)

type chatRequest struct {
	Message     string   `json:"message"`
	Model       *string  `json:"model"`
	Temperature *float32 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

type streamEvent struct {
	Chunk *string `json:"chunk,omitempty"`
	Done  bool    `json:"done,omitempty"`
	Error string  `json:"error,omitempty"`
}

func (h *handler) params(req chatRequest) domain.RequestParameters {
	params := h.defaults
	if req.Model != nil && *req.Model != "" {
		params.Model = *req.Model
	}
	if req.Temperature != nil {
		params.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		params.MaxTokens = *req.MaxTokens
	}
	return params
}

func (h *handler) bindChat(c echo.Context) (chatRequest, error) {
	var req chatRequest
	if err := bind(c, &req); err != nil {
		return req, err
	}
	req.Message = strings.TrimSpace(req.Message)
	return req, nil
}

// Chat answers with the full reply. Provider failures come back as the reply text.
// POST /api/chat
func (h *handler) Chat(c echo.Context) error {
	req, err := h.bindChat(c)
	if err != nil {
		return err
	}

	reply, err := h.completions.Send(c.Request().Context(), sessionID(c), req.Message, h.params(req))
	if err != nil {
		return err
	}

	return h.writer.WriteSuccessResponse(c, chatResponse{
		Response:  reply,
		Timestamp: time.Now().Format(timestampLayout),
	})
}

// ChatStream pushes the reply as server-sent events: one {chunk} per fragment,
// then {done:true}, or a single {error} on failure.
// POST /api/chat/stream
func (h *handler) ChatStream(c echo.Context) error {
	req, err := h.bindChat(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	chunks, err := h.completions.Stream(ctx, sessionID(c), req.Message, h.params(req))
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	for chunk := range chunks {
		if chunk.Err != nil {
			return writeEvent(c, streamEvent{Error: chunk.Text})
		}

		text := chunk.Text
		if err := writeEvent(c, streamEvent{Chunk: &text}); err != nil {
			slog.WarnContext(ctx, "Stream client went away", logger.Err(err))
			return nil
		}
	}

	return writeEvent(c, streamEvent{Done: true})
}

func writeEvent(c echo.Context, event streamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling stream event: %w", err)
	}

	if _, err := fmt.Fprintf(c.Response(), "data: %s\n\n", data); err != nil {
		return fmt.Errorf("writing stream event: %w", err)
	}
	c.Response().Flush()

	return nil
}

type modelRequest struct {
	Model string `json:"model"`
}

// SetModel retargets the session to another model.
// POST /api/model
func (h *handler) SetModel(c echo.Context) error {
	var req modelRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Model = strings.TrimSpace(req.Model)
	if req.Model == "" {
		return &domain.ValidationError{Field: "model", Message: "Model is required"}
	}

	h.chats.SetModel(sessionID(c), req.Model)

	return h.writer.WriteSuccessResponse(c, map[string]string{
		"message": fmt.Sprintf("Model '%s' set successfully", req.Model),
		"model":   req.Model,
	})
}
