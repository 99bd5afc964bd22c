package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/accesskit/identity-service/internal/core/domain"
)

func runErrorHandler(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, resp["error"]
}

func TestErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"account disabled", domain.ErrAccountDisabled, http.StatusUnauthorized},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized},
		{"email taken", domain.ErrEmailTaken, http.StatusBadRequest},
		{"role conflict", domain.ErrRoleConflict, http.StatusConflict},
		{"role not found", domain.ErrRoleNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := runErrorHandler(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			// Wrapped variants map identically.
			code, _ = runErrorHandler(t, fmt.Errorf("context: %w", tc.err))
			if code != tc.code {
				t.Fatalf("wrapped: expected %d, got %d", tc.code, code)
			}
		})
	}
}

func TestErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	code, msg := runErrorHandler(t, errors.New("pq: connection reset by peer"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestErrorHandler_IntegrityFaultsAreOpaque(t *testing.T) {
	for _, err := range []error{domain.ErrMalformedDigest, domain.ErrMalformedGrant} {
		code, msg := runErrorHandler(t, err)
		if code != http.StatusInternalServerError {
			t.Fatalf("expected 500 for %v, got %d", err, code)
		}
		if msg != "internal server error" {
			t.Fatalf("integrity detail leaked: %q", msg)
		}
	}
}

func TestErrorHandler_EchoErrors(t *testing.T) {
	code, msg := runErrorHandler(t, echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts"))
	if code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if msg != "too many attempts" {
		t.Fatalf("unexpected message: %q", msg)
	}
}
