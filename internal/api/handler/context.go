package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertyhub/backoffice/internal/api/middleware"
	"github.com/propertyhub/backoffice/internal/core/domain"
)

// ctxActor extracts the identity injected by the Auth middleware. An empty
// identity key means the middleware did not run for this route.
func ctxActor(c echo.Context) (identityKey string, role domain.Role, err error) {
	identityKey, _ = c.Get(middleware.ContextIdentityKey).(string)
	if identityKey == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ = c.Get(middleware.ContextRole).(domain.Role)
	return identityKey, role, nil
}
