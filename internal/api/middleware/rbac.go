package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
)

// RestrictTo enforces role-based access control on top of Auth.
func RestrictTo(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(UserContextKey).(*domain.User)
			if user == nil {
				return domain.NewUnauthorized("No token provided")
			}
			if _, ok := allowed[user.Role]; !ok {
				return domain.NewForbidden("You do not have permission to perform this action")
			}
			return next(c)
		}
	}
}
