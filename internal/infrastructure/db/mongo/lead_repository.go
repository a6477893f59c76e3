package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
)

const leadsCollection = "leads"

// LeadRepository persists leads. The multi-step mutations (note append,
// status change) are single atomic updates: concurrent appends rely on
// $push to avoid lost notes.
type LeadRepository struct {
	*Repository[domain.Lead, *domain.Lead]
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{
		Repository: NewRepository[domain.Lead, *domain.Lead](db.Collection(leadsCollection)),
	}
}

func (r *LeadRepository) AddNote(ctx context.Context, id string, note domain.LeadNote) (*domain.Lead, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out domain.Lead
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{
			"$push": bson.M{"notes": note},
			"$set": bson.M{
				"lastContact": note.CreatedAt,
				"updatedAt":   note.CreatedAt,
			},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("add lead note: %w", err)
	}
	return &out, nil
}

func (r *LeadRepository) SetStatus(ctx context.Context, id string, status domain.LeadStatus, note domain.LeadNote) (*domain.Lead, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out domain.Lead
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{
			"$set": bson.M{
				"status":           status,
				"lastStatusChange": note.CreatedAt,
				"updatedAt":        note.CreatedAt,
			},
			"$push": bson.M{"notes": note},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("set lead status: %w", err)
	}
	return &out, nil
}

func (r *LeadRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "phone", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
		{Keys: bson.D{{Key: "source", Value: 1}}},
		{Keys: bson.D{{Key: "service", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
