package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

// stubAuthService accepts exactly one token and resolves it to a fixed user.
type stubAuthService struct {
	token string
	user  *domain.User
}

func (s *stubAuthService) VerifyToken(_ context.Context, token string) (*domain.User, error) {
	if token != s.token {
		return nil, domain.NewUnauthorized("Invalid token")
	}
	return s.user, nil
}

func (s *stubAuthService) Register(context.Context, ports.RegisterInput) (*domain.User, string, error) {
	return nil, "", errors.New("not implemented")
}

func (s *stubAuthService) Login(context.Context, string, string) (*domain.User, string, error) {
	return nil, "", errors.New("not implemented")
}

func (s *stubAuthService) VerifyEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) ForgotPassword(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubAuthService) ResetPassword(context.Context, string, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) ChangePassword(context.Context, string, string, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) GetUser(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) UpdateProfile(context.Context, string, ports.Filter) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	user := &domain.User{FirstName: "Asha", LastName: "Verma", Role: domain.RoleAdmin}
	svc := &stubAuthService{token: "good-token", user: user}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(svc)(func(c echo.Context) error {
		called = true
		got, _ := c.Get(UserContextKey).(*domain.User)
		if got == nil || got.Role != domain.RoleAdmin {
			t.Fatalf("user not set in context: %+v", got)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(&stubAuthService{token: "good-token"})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if appErr.Message != "No token provided" {
		t.Fatalf("unexpected message: %q", appErr.Message)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(&stubAuthService{token: "good-token"})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-the-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(&stubAuthService{token: "good-token"})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
