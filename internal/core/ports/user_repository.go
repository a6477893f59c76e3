package ports

import (
	"context"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
)

// UserRepository extends the generic contract with the email lookup the auth
// flows need. FindByEmail returns the stored password hash; callers must
// sanitize before the user leaves the service boundary.
type UserRepository interface {
	Repository[domain.User]
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
