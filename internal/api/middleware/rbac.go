package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesskit/identity-service/internal/core/domain"
)

// SessionSource resolves a subject id to its current session identity.
// An unknown subject resolves to (nil, nil).
type SessionSource interface {
	Profile(ctx context.Context, id string) (*domain.Session, error)
}

// RequirePermission enforces that the authenticated caller's role currently
// grants the given permission code. The session is resolved per request so a
// role mutation takes effect immediately; nothing is cached across requests.
func RequirePermission(sessions SessionSource, code string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject := Subject(c)
			if subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}

			session, err := sessions.Profile(c.Request().Context(), subject)
			if err != nil {
				return err
			}
			if session == nil || !session.Active {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown subject")
			}

			for _, granted := range session.Role.Permissions {
				if granted == code {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
