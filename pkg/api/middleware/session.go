package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dskvich/chatgpt-web-chat/pkg/logger"
)

const sessionIDContextKey = "session_id"

// Session resolves the caller's session identity from cookieName, minting a
// new one on first visit.
func Session(cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sessionID string
			if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			} else {
				sessionID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cookieName,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(sessionIDContextKey, sessionID)

			ctx := logger.ContextWithSessionID(c.Request().Context(), sessionID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// SessionID returns the identity stored by Session, or "" outside it.
func SessionID(c echo.Context) string {
	id, _ := c.Get(sessionIDContextKey).(string)
	return id
}
