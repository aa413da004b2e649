package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dskvich/chatgpt-web-chat/pkg/logger"
)

// RequestID tags the request context with the incoming X-Request-ID or a fresh one.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(echo.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Response().Header().Set(echo.HeaderXRequestID, id)

		ctx := logger.ContextWithRequestID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
