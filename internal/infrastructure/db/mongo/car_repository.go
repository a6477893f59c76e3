package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
)

const carsCollection = "cars"

// CarRepository persists inventory cars. The VIN index is sparse, so cars
// without a VIN do not collide.
type CarRepository struct {
	*Repository[domain.Car, *domain.Car]
}

func NewCarRepository(db *mongo.Database) *CarRepository {
	return &CarRepository{
		Repository: NewRepository[domain.Car, *domain.Car](db.Collection(carsCollection)),
	}
}

func (r *CarRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "vin", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "brand", Value: 1}, {Key: "model", Value: 1}, {Key: "year", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
