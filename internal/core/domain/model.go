package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Model carries the fields shared by every persisted entity. Embed it with
// `bson:",inline"` so the fields land at the top level of the document.
type Model struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (m *Model) GetID() primitive.ObjectID { return m.ID }

func (m *Model) SetID(id primitive.ObjectID) { m.ID = id }

// Stamp sets the timestamps before an insert. CreatedAt is only written once.
func (m *Model) Stamp(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// Entity is the constraint satisfied by every persisted aggregate; the
// generic repository relies on it to assign ids and timestamps.
type Entity interface {
	GetID() primitive.ObjectID
	SetID(primitive.ObjectID)
	Stamp(time.Time)
}
