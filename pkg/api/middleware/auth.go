package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type Authenticator interface {
	IsAuthorized(token string) bool
}

func Auth(authenticator Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")

			if authenticator.IsAuthorized(token) {
				return next(c)
			}

			slog.WarnContext(c.Request().Context(), "Unauthorized access attempt", "path", c.Path())

			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
		}
	}
}
