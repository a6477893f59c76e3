package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/vansh-justcharge/Autocredits-backend/internal/api/middleware"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
)

// currentUser extracts the authenticated user injected by the Auth
// middleware. Its presence proves the middleware ran; absence on a protected
// route is a 401, not a programming error.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if user == nil {
		return nil, domain.NewUnauthorized("No token provided")
	}
	return user, nil
}
