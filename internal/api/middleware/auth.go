package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// subjectKey is the context key the verified token subject is stored under.
const subjectKey = "subject"

// TokenVerifier resolves a bearer token string to its subject identifier.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth validates the bearer token and injects its subject into the request
// context. Verification happens on every request; nothing survives rotation
// of the signing secret.
func Auth(tokens TokenVerifier) echo.MiddlewareFunc {
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

			subject, err := tokens.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(subjectKey, subject)
			return next(c)
		}
	}
}

// Subject returns the token subject injected by Auth, or "" when the request
// did not pass through it.
func Subject(c echo.Context) string {
	subject, _ := c.Get(subjectKey).(string)
	return subject
}
