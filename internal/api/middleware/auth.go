package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/service"
)

// Context keys set by Auth.
const (
	ContextIdentityKey = "identity_key"
	ContextHandle      = "login_handle"
	ContextRole        = "role"
)

// CredentialLookup is the part of the credential store Auth needs.
type CredentialLookup interface {
	FindByIdentityKey(ctx context.Context, identityKey string) (*domain.Credential, error)
}

// Auth validates the Bearer token, re-reads the credential and rejects it when
// it no longer exists or was deactivated. The stored role is what lands in the
// context, so role changes apply to tokens already issued.
func Auth(tokens *service.TokenManager, creds CredentialLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			if err := authenticate(c, tokens, creds, authHeader); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalAuth lets anonymous requests through untouched. A request that does
// carry an Authorization header gets the same checks as Auth.
func OptionalAuth(tokens *service.TokenManager, creds CredentialLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}
			if err := authenticate(c, tokens, creds, authHeader); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func authenticate(c echo.Context, tokens *service.TokenManager, creds CredentialLookup, authHeader string) error {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return err
	}

	cred, err := creds.FindByIdentityKey(c.Request().Context(), claims.IdentityKey())
	if errors.Is(err, domain.ErrCredentialNotFound) {
		return domain.ErrInvalidToken
	}
	if err != nil {
		return err
	}
	if !cred.Active {
		return domain.ErrInvalidToken
	}

	c.Set(ContextIdentityKey, cred.IdentityKey)
	c.Set(ContextHandle, cred.LoginHandle)
	c.Set(ContextRole, cred.Role)
	return nil
}
