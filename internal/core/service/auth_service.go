package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

const resetTokenTTL = 10 * time.Minute

// AuthService implements the account lifecycle over the user repository.
// It is stateless; construct one at process start and share it.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, "", domain.NewValidationError("Invalid role")
	}

	taken, err := s.users.Exists(ctx, ports.Filter{"email": in.Email})
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	// The raw verification token would be emailed; delivery is out of scope,
	// so only the hash is kept.
	_, verifyHash, err := generateToken()
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		FirstName:              in.FirstName,
		LastName:               in.LastName,
		Email:                  in.Email,
		Password:               string(hash),
		Phone:                  in.Phone,
		Role:                   role,
		Active:                 true,
		EmailVerificationToken: verifyHash,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.signToken(created)
	if err != nil {
		return nil, "", err
	}
	return created.Sanitized(), token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// An unknown email is indistinguishable from a wrong password to
		// the caller; an infrastructure failure is not.
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if _, err := s.users.Update(ctx, user.ID.Hex(), ports.Filter{"lastLogin": now}); err != nil {
		return nil, "", err
	}
	user.LastLogin = now

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}
	return user.Sanitized(), token, nil
}

func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.NewUnauthorized("Token expired")
		}
		return nil, domain.NewUnauthorized("Invalid token")
	}

	id, _ := claims["id"].(string)
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, userLookupErr(err)
	}
	return user.Sanitized(), nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.users.FindOne(ctx, ports.Filter{
		"emailVerificationToken": hashToken(token),
		"emailVerified":          false,
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewValidationError("Invalid or expired verification token")
	}

	updated, err := s.users.Update(ctx, user.ID.Hex(), ports.Filter{
		"emailVerified":          true,
		"emailVerificationToken": "",
	})
	if err != nil {
		return nil, err
	}
	return updated.Sanitized(), nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.NewNotFound("No user found with that email address")
		}
		return "", err
	}

	raw, hashed, err := generateToken()
	if err != nil {
		return "", err
	}

	_, err = s.users.Update(ctx, user.ID.Hex(), ports.Filter{
		"passwordResetToken":   hashed,
		"passwordResetExpires": time.Now().UTC().Add(resetTokenTTL),
	})
	if err != nil {
		return "", err
	}
	return raw, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (*domain.User, error) {
	user, err := s.users.FindOne(ctx, ports.Filter{
		"passwordResetToken":   hashToken(token),
		"passwordResetExpires": map[string]any{"$gt": time.Now().UTC()},
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewValidationError("Invalid or expired password reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.Update(ctx, user.ID.Hex(), ports.Filter{
		"password":             string(hash),
		"passwordResetToken":   "",
		"passwordResetExpires": time.Time{},
	})
	if err != nil {
		return nil, err
	}
	return updated.Sanitized(), nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, userLookupErr(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return nil, domain.NewUnauthorized("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.Update(ctx, userID, ports.Filter{"password": string(hash)})
	if err != nil {
		return nil, err
	}
	return updated.Sanitized(), nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, fields ports.Filter) (*domain.User, error) {
	if _, ok := fields["password"]; ok {
		return nil, domain.NewValidationError("This route is not for password updates. Please use /change-password")
	}
	for _, restricted := range []string{"_id", "id", "createdAt", "role", "active"} {
		delete(fields, restricted)
	}

	updated, err := s.users.Update(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	return updated.Sanitized(), nil
}

func (s *AuthService) signToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"id":  user.ID.Hex(),
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// generateToken returns a random token and its sha256 hex digest. Only the
// digest is persisted; the raw value goes to the user out of band.
func generateToken() (raw, hashed string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	raw = hex.EncodeToString(b)
	return raw, hashToken(raw), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// userLookupErr narrows a repository lookup failure: a missing record maps to
// the not-found sentinel, anything else (bad id, infrastructure) propagates.
func userLookupErr(err error) error {
	var ae *domain.AppError
	if errors.As(err, &ae) && ae.Code == http.StatusNotFound {
		return domain.ErrUserNotFound
	}
	return err
}
