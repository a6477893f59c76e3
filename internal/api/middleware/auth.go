package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

// UserContextKey is where Auth stores the sanitized authenticated user.
const UserContextKey = "user"

// Auth validates the bearer token and injects the resolved, sanitized user
// into the request context. Missing or malformed headers fail with 401; a
// token whose user no longer exists fails with 404 from the service.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return domain.NewUnauthorized("No token provided")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.NewUnauthorized("Invalid authorization header")
			}

			user, err := auth.VerifyToken(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}
