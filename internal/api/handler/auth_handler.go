package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/accesskit/identity-service/internal/api/metrics"
	"github.com/accesskit/identity-service/internal/api/middleware"
	"github.com/accesskit/identity-service/internal/core/domain"
	"github.com/accesskit/identity-service/internal/core/ports"
)

// LoginThrottle limits credential attempts per caller. Nil disables
// throttling.
type LoginThrottle interface {
	Allow(ctx context.Context, email, ip string) (bool, error)
}

type AuthHandler struct {
	authService ports.AuthService
	throttle    LoginThrottle
	logger      zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, throttle LoginThrottle, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, throttle: throttle, logger: logger}
}

type signinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	RoleID   int64  `json:"roleId" validate:"required,gt=0"`
}

type authResponse struct {
	Token string          `json:"token,omitempty"`
	User  *domain.Session `json:"user,omitempty"`
}

// SignIn authenticates a user and returns a bearer token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if h.throttle != nil {
		allowed, err := h.throttle.Allow(c.Request().Context(), req.Email, c.RealIP())
		if err != nil {
			// Throttling is best effort: an unreachable limiter must not
			// lock every account out.
			h.logger.Warn().Err(err).Msg("login throttle unavailable")
		} else if !allowed {
			metrics.SigninsTotal.WithLabelValues("throttled").Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts")
		}
	}

	token, user, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.SigninsTotal.WithLabelValues(signinResult(err)).Inc()
		return err
	}

	metrics.SigninsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// SignUp registers a new account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		RoleID:   req.RoleID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.SignupsTotal.WithLabelValues("duplicate_email").Inc()
		} else {
			metrics.SignupsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.SignupsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// Profile returns the caller's session identity.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Session
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	subject := middleware.Subject(c)
	if subject == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	session, err := h.authService.Profile(c.Request().Context(), subject)
	if err != nil {
		return err
	}
	if session == nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, session)
}

func signinResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountDisabled):
		return "disabled"
	default:
		return "error"
	}
}
