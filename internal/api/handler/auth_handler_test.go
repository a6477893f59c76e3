package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vansh-justcharge/Autocredits-backend/internal/api/middleware"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

// stubAuthService returns canned results and records the last inputs.
type stubAuthService struct {
	lastRegister ports.RegisterInput
	lastFields   ports.Filter

	user  *domain.User
	token string
	err   error
}

func (s *stubAuthService) Register(_ context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	s.lastRegister = in
	return s.user, s.token, s.err
}

func (s *stubAuthService) Login(context.Context, string, string) (*domain.User, string, error) {
	return s.user, s.token, s.err
}

func (s *stubAuthService) VerifyToken(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubAuthService) VerifyEmail(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubAuthService) ForgotPassword(context.Context, string) (string, error) {
	return s.token, s.err
}

func (s *stubAuthService) ResetPassword(context.Context, string, string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubAuthService) ChangePassword(context.Context, string, string, string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubAuthService) GetUser(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubAuthService) UpdateProfile(_ context.Context, _ string, fields ports.Filter) (*domain.User, error) {
	s.lastFields = fields
	return s.user, s.err
}

func newAuthTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sampleUser() *domain.User {
	user := &domain.User{
		FirstName: "Asha",
		LastName:  "Verma",
		Email:     "asha@example.com",
		Role:      domain.RoleUser,
		Active:    true,
	}
	user.ID = primitive.NewObjectID()
	return user
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{user: sampleUser(), token: "signed-token"}
	h := NewAuthHandler(svc)

	body := `{"firstName":"Asha","lastName":"Verma","email":"asha@example.com","password":"pass12345"}`
	c, rec := newAuthTestContext(t, http.MethodPost, "/auth/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.lastRegister.Email != "asha@example.com" {
		t.Fatalf("input not passed through: %+v", svc.lastRegister)
	}

	var envelope struct {
		Status string `json:"status"`
		Data   struct {
			User  *domain.User `json:"user"`
			Token string       `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Status != "success" || envelope.Data.Token != "signed-token" {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	body := `{"firstName":"Asha","lastName":"Verma","email":"asha@example.com","password":"short"}`
	c, _ := newAuthTestContext(t, http.MethodPost, "/auth/register", body)

	err := h.Register(c)
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_PassesThroughFailure(t *testing.T) {
	svc := &stubAuthService{err: domain.ErrInvalidCredentials}
	h := NewAuthHandler(svc)

	body := `{"email":"asha@example.com","password":"wrongpass"}`
	c, _ := newAuthTestContext(t, http.MethodPost, "/auth/login", body)

	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_ForgotPassword_HidesToken(t *testing.T) {
	svc := &stubAuthService{token: "raw-reset-token"}
	h := NewAuthHandler(svc)

	c, rec := newAuthTestContext(t, http.MethodPost, "/auth/forgot-password", `{"email":"asha@example.com"}`)
	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "raw-reset-token") {
		t.Fatalf("reset token leaked in response: %s", rec.Body.String())
	}
}

func TestAuthHandler_GetMe(t *testing.T) {
	user := sampleUser()
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newAuthTestContext(t, http.MethodGet, "/auth/me", "")
	c.Set(middleware.UserContextKey, user)

	if err := h.GetMe(c); err != nil {
		t.Fatalf("GetMe returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), user.Email) {
		t.Fatalf("profile missing from response: %s", rec.Body.String())
	}
}

func TestAuthHandler_GetMe_NoUser(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := newAuthTestContext(t, http.MethodGet, "/auth/me", "")

	err := h.GetMe(c)
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_UpdateMe_ForwardsPasswordForRejection(t *testing.T) {
	svc := &stubAuthService{err: domain.NewValidationError("This route is not for password updates. Please use /change-password")}
	h := NewAuthHandler(svc)

	c, _ := newAuthTestContext(t, http.MethodPatch, "/auth/update-me", `{"password":"sneaky123"}`)
	c.Set(middleware.UserContextKey, sampleUser())

	err := h.UpdateMe(c)
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if _, ok := svc.lastFields["password"]; !ok {
		t.Fatalf("password not forwarded for service-side rejection: %+v", svc.lastFields)
	}
}

func TestAuthHandler_UpdateMe_OmitsUnsetFields(t *testing.T) {
	svc := &stubAuthService{user: sampleUser()}
	h := NewAuthHandler(svc)

	c, rec := newAuthTestContext(t, http.MethodPatch, "/auth/update-me", `{"firstName":"Renamed"}`)
	c.Set(middleware.UserContextKey, sampleUser())

	if err := h.UpdateMe(c); err != nil {
		t.Fatalf("UpdateMe returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.lastFields) != 1 || svc.lastFields["firstName"] != "Renamed" {
		t.Fatalf("unexpected fields: %+v", svc.lastFields)
	}
}
