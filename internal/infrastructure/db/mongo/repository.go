package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

// Repository implements ports.Repository[T] over a single collection.
// The PT parameter ties *T to domain.Entity so inserts can stamp timestamps
// and assign the generated id.
type Repository[T any, PT interface {
	*T
	domain.Entity
}] struct {
	coll *mongo.Collection
}

func NewRepository[T any, PT interface {
	*T
	domain.Entity
}](coll *mongo.Collection) *Repository[T, PT] {
	return &Repository[T, PT]{coll: coll}
}

func (r *Repository[T, PT]) Create(ctx context.Context, doc *T) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	PT(doc).Stamp(time.Now().UTC())

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.NewValidationError("Duplicate field value. Please use another value!")
		}
		return nil, fmt.Errorf("insert %s: %w", r.coll.Name(), err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		PT(doc).SetID(id)
	}
	return doc, nil
}

func (r *Repository[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out T
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFound("Record not found")
		}
		return nil, fmt.Errorf("find %s by id: %w", r.coll.Name(), err)
	}
	return &out, nil
}

// FindOne returns the first match, or (nil, nil) when nothing matches.
func (r *Repository[T, PT]) FindOne(ctx context.Context, filter ports.Filter) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out T
	if err := r.coll.FindOne(ctx, bson.M(filter)).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s: %w", r.coll.Name(), err)
	}
	return &out, nil
}

func (r *Repository[T, PT]) Find(ctx context.Context, filter ports.Filter, opts ports.ListOptions) (*ports.Page[T], error) {
	opts = opts.Normalize()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M(filter)
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", r.coll.Name(), err)
	}

	findOpts := options.Find().
		SetSkip((opts.Page - 1) * opts.Limit).
		SetLimit(opts.Limit).
		SetSort(parseSort(opts.Sort))

	cursor, err := r.coll.Find(ctx, query, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	data := make([]*T, 0, opts.Limit)
	if err := cursor.All(ctx, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.coll.Name(), err)
	}

	return &ports.Page[T]{
		Data: data,
		Pagination: ports.Pagination{
			Total: total,
			Page:  opts.Page,
			Limit: opts.Limit,
			Pages: (total + opts.Limit - 1) / opts.Limit,
		},
	}, nil
}

func (r *Repository[T, PT]) Update(ctx context.Context, id string, set ports.Filter) (*T, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range set {
		fields[k] = v
	}

	var out T
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFound("Record not found")
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.NewValidationError("Duplicate field value. Please use another value!")
		}
		return nil, fmt.Errorf("update %s: %w", r.coll.Name(), err)
	}
	return &out, nil
}

func (r *Repository[T, PT]) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return domain.NewNotFound("Record not found")
	}
	return nil
}

func (r *Repository[T, PT]) Exists(ctx context.Context, filter ports.Filter) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M(filter), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", r.coll.Name(), err)
	}
	return n > 0, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NewValidationError("Invalid id: " + id)
	}
	return oid, nil
}

// parseSort converts a "-createdAt"-style sort key to a bson sort document.
func parseSort(sort string) bson.D {
	field, order := sort, 1
	if strings.HasPrefix(sort, "-") {
		field, order = sort[1:], -1
	}
	return bson.D{{Key: field, Value: order}}
}
