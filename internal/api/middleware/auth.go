package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/turfworks/greenmaster/internal/core/ports"
)

// SessionKey is the context key under which the resolved session is stored.
const SessionKey = "session"

// Auth validates the bearer JWT, resolves its subject to a live session, and
// injects the session into context. A valid token for a session not held in
// memory (process restart) is resumed from the persisted slot.
func Auth(jwtSecret string, sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, _ := claims["sub"].(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			sess, ok := sessions.Current(userID)
			if !ok {
				sess, err = sessions.Resume(c.Request().Context(), userID)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
				}
			}

			c.Set(SessionKey, sess)
			return next(c)
		}
	}
}
