package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

const usersCollection = "users"

// UserRepository persists users. Email uniqueness is enforced by an index.
type UserRepository struct {
	*Repository[domain.User, *domain.User]
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		Repository: NewRepository[domain.User, *domain.User](db.Collection(usersCollection)),
	}
}

// FindByEmail resolves a user including the stored password hash. Auth flows
// need the hash for comparison; the service sanitizes before returning.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := r.FindOne(ctx, ports.Filter{"email": email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "passwordResetToken", Value: 1}}, Options: options.Index().SetSparse(true)},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
