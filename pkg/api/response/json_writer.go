package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
	"github.com/dskvich/chatgpt-web-chat/pkg/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type JSONResponseWriter struct{}

func (j *JSONResponseWriter) WriteSuccessResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

func (j *JSONResponseWriter) WriteMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: message})
}

func (j *JSONResponseWriter) WriteErrorResponse(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, ErrorResponse{Error: message})
}

// WriteAttachment sends body as a download named filename.
func (j *JSONResponseWriter) WriteAttachment(c echo.Context, contentType, filename string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, contentType, body)
}

// ErrorHandler is the last stop for handler errors: validation problems become
// 400, missing resources 404, echo errors keep their status and anything else
// is a 500 carrying only the error text.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		validationErr *domain.ValidationError
		httpErr       *echo.HTTPError
		w             JSONResponseWriter
		writeErr      error
	)

	switch {
	case errors.As(err, &validationErr):
		writeErr = w.WriteErrorResponse(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrNotFound):
		writeErr = w.WriteErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.As(err, &httpErr):
		msg := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		}
		writeErr = w.WriteErrorResponse(c, httpErr.Code, msg)
	default:
		slog.ErrorContext(c.Request().Context(), "Request failed", "path", c.Path(), logger.Err(err))
		writeErr = w.WriteErrorResponse(c, http.StatusInternalServerError, err.Error())
	}

	if writeErr != nil {
		slog.Error("encoding error response", logger.Err(writeErr))
	}
}
