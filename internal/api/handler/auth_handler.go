package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vansh-justcharge/Autocredits-backend/internal/api/metrics"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Phone     string `json:"phone"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin manager"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type updateMeRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Password  *string `json:"password"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

// Register creates a new account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError(err.Error())
	}

	user, token, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	return c.JSON(http.StatusCreated, success(authResponse{User: user, Token: token}))
}

// Login authenticates a user and returns a signed token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  map[string]any
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError(err.Error())
	}

	user, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, success(authResponse{User: user, Token: token}))
}

// VerifyEmail confirms an email address from the emailed token.
//
// @Summary      Verify email address
// @Tags         auth
// @Produce      json
// @Param        token  path      string  true  "Verification token"
// @Success      200    {object}  map[string]any
// @Failure      400    {object}  map[string]string
// @Router       /auth/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	user, err := h.auth.VerifyEmail(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"user": user}))
}

// ForgotPassword issues a password reset token.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError(err.Error())
	}

	// The raw token would be emailed; delivery is out of scope, so it is
	// acknowledged without being returned.
	if _, err := h.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Password reset token sent to email",
	})
}

// ResetPassword completes a password reset from the emailed token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  map[string]any
// @Failure      400    {object}  map[string]string
// @Router       /auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError(err.Error())
	}

	user, err := h.auth.ResetPassword(c.Request().Context(), c.Param("token"), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"user": user}))
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  map[string]any
// @Failure      401   {object}  map[string]string
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError(err.Error())
	}

	updated, err := h.auth.ChangePassword(c.Request().Context(), user.ID.Hex(), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"user": updated}))
}

// GetMe returns the caller's profile.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /auth/me [get]
func (h *AuthHandler) GetMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"user": user}))
}

// UpdateMe applies a partial profile update. Password changes are rejected
// here and routed to /auth/change-password.
//
// @Summary      Update current user profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateMeRequest  true  "Profile fields"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Router       /auth/update-me [patch]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateMeRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError(err.Error())
	}

	fields := ports.Filter{}
	if req.Password != nil {
		fields["password"] = *req.Password
	}
	if req.FirstName != nil {
		fields["firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["lastName"] = *req.LastName
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}

	updated, err := h.auth.UpdateProfile(c.Request().Context(), user.ID.Hex(), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"user": updated}))
}

// Logout acknowledges a logout; tokens are stateless, so the client simply
// discards its copy.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Logged out successfully",
	})
}
