package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// Require gates a route on a capability flag derived from the session's role.
// Must run after Auth.
func Require(check func(domain.Capabilities) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := c.Get(SessionKey).(*ports.Session)
			if sess == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !check(sess.Caps) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireAI gates AI feature routes.
func RequireAI() echo.MiddlewareFunc {
	return Require(func(caps domain.Capabilities) bool { return caps.UseAI })
}

// RequireFullData gates routes that expose unrestricted record data.
func RequireFullData() echo.MiddlewareFunc {
	return Require(func(caps domain.Capabilities) bool { return caps.ViewAllData })
}

// RequireAdmin gates the administrative surface.
func RequireAdmin() echo.MiddlewareFunc {
	return Require(func(caps domain.Capabilities) bool { return caps.Admin })
}
