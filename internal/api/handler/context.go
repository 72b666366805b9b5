package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turfworks/greenmaster/internal/api/middleware"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// ctxSession extracts the session injected by the Auth middleware. Its
// presence proves the middleware ran; absence on a protected route means the
// route was wired without Auth, which is rejected rather than served.
func ctxSession(c echo.Context) (*ports.Session, error) {
	sess, _ := c.Get(middleware.SessionKey).(*ports.Session)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return sess, nil
}
