package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/service"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(domain.Role)
			if err := service.AuthorizeRole(role, allowedRoles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
