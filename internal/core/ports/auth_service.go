package ports

import (
	"context"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
)

// RegisterInput carries a registration request into the auth service.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Role      string
}

// AuthService covers the full account lifecycle: registration, login, token
// verification, email verification, and the password reset/change flows.
// Every *domain.User it returns is sanitized.
type AuthService interface {
	// Register creates an account and returns the user plus a signed token.
	// Fails with a 400 operational error when the email is taken.
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)

	// Login verifies credentials, stamps lastLogin, and returns the user
	// plus a signed token. Unknown email and wrong password both yield 401.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// VerifyToken decodes a signed token (401 on invalid/expired signature)
	// and resolves its user (404 when the user no longer exists).
	VerifyToken(ctx context.Context, token string) (*domain.User, error)

	// VerifyEmail matches the hashed verification token, marks the account
	// verified, and clears the token. 400 when nothing matches.
	VerifyEmail(ctx context.Context, token string) (*domain.User, error)

	// ForgotPassword stores a hashed reset token with an expiry and returns
	// the raw token for delivery. 404 when the email is unknown.
	ForgotPassword(ctx context.Context, email string) (string, error)

	// ResetPassword matches an unexpired hashed reset token, replaces the
	// credential, and clears the reset fields. 400 otherwise.
	ResetPassword(ctx context.Context, token, newPassword string) (*domain.User, error)

	// ChangePassword verifies the current credential (401 on mismatch,
	// 404 when the user is missing) and replaces it.
	ChangePassword(ctx context.Context, userID, current, newPassword string) (*domain.User, error)

	// GetUser resolves a user by id. 404 when absent.
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// UpdateProfile applies a partial profile update. Password changes are
	// rejected with 400; use ChangePassword.
	UpdateProfile(ctx context.Context, userID string, fields Filter) (*domain.User, error)
}
