package domain

import "time"

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleManager:
		return true
	}
	return false
}

// User models an authenticated actor in the system. The password hash and the
// verification/reset tokens never serialize to JSON, and Sanitized strips
// them again before a user leaves the service boundary.
type User struct {
	Model     `bson:",inline"`
	FirstName string `bson:"firstName" json:"firstName" validate:"required"`
	LastName  string `bson:"lastName" json:"lastName" validate:"required"`
	Email     string `bson:"email" json:"email" validate:"required,email"`
	Password  string `bson:"password" json:"-"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	Role      string `bson:"role" json:"role"`
	Active    bool   `bson:"active" json:"active"`

	EmailVerified          bool      `bson:"emailVerified" json:"emailVerified"`
	EmailVerificationToken string    `bson:"emailVerificationToken,omitempty" json:"-"`
	PasswordResetToken     string    `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires   time.Time `bson:"passwordResetExpires,omitempty" json:"-"`
	LastLogin              time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Sanitized returns a copy with all credential material removed.
func (u *User) Sanitized() *User {
	clone := *u
	clone.Password = ""
	clone.EmailVerificationToken = ""
	clone.PasswordResetToken = ""
	clone.PasswordResetExpires = time.Time{}
	return &clone
}

// UserSummary is the projection used when another entity references a user.
type UserSummary struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

var ErrUserExists = NewValidationError("User already exists")
var ErrInvalidCredentials = NewUnauthorized("Invalid credentials")
var ErrUserNotFound = NewNotFound("User not found")
