package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/propertyhub/backoffice/internal/core/domain"
)

func TestRBAC_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextRole, domain.RoleAdministrator)

	called := false
	mw := RBAC(domain.RoleAdministrator, domain.RoleSalesperson)
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
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	e := echo.New()
	for _, role := range []any{domain.RoleOwner, nil, "administrator"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set(ContextRole, role)

		handler := RBAC(domain.RoleAdministrator)(func(c echo.Context) error {
			t.Fatalf("should not reach next handler")
			return nil
		})

		if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("role %v: expected ErrForbidden, got %v", role, err)
		}
	}
}
