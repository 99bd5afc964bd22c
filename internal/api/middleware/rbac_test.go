package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/accesskit/identity-service/internal/core/domain"
)

type stubSessions struct {
	sessions map[string]*domain.Session
}

func (s *stubSessions) Profile(_ context.Context, id string) (*domain.Session, error) {
	return s.sessions[id], nil
}

func sessionWith(id string, active bool, codes ...string) *domain.Session {
	return &domain.Session{
		ID:     id,
		Active: active,
		Role:   domain.SessionRole{ID: 1, Name: "staff", Permissions: codes},
	}
}

func TestRequirePermission_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("subject", "u1")

	sessions := &stubSessions{sessions: map[string]*domain.Session{
		"u1": sessionWith("u1", true, "roles:read", "roles:write"),
	}}

	called := false
	mw := RequirePermission(sessions, "roles:write")
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRequirePermission_Forbids(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("subject", "u1")

	sessions := &stubSessions{sessions: map[string]*domain.Session{
		"u1": sessionWith("u1", true, "roles:read"),
	}}

	mw := RequirePermission(sessions, "roles:write")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequirePermission_UnknownSubject(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("subject", "ghost")

	mw := RequirePermission(&stubSessions{sessions: map[string]*domain.Session{}}, "roles:read")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestRequirePermission_DisabledAccount(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("subject", "u1")

	sessions := &stubSessions{sessions: map[string]*domain.Session{
		"u1": sessionWith("u1", false, "roles:read"),
	}}

	mw := RequirePermission(sessions, "roles:read")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestRequirePermission_NoSubject(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequirePermission(&stubSessions{sessions: map[string]*domain.Session{}}, "roles:read")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %v", err)
	}
}
