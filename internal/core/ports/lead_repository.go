package ports

import (
	"context"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
)

// LeadRepository extends the generic contract with the two multi-step lead
// mutations. Both are issued as a single atomic document update so that
// concurrent note appends cannot lose writes.
type LeadRepository interface {
	Repository[domain.Lead]

	// AddNote appends note and stamps lastContact in one update.
	AddNote(ctx context.Context, id string, note domain.LeadNote) (*domain.Lead, error)

	// SetStatus sets the status, stamps lastStatusChange, and appends the
	// audit note in one update.
	SetStatus(ctx context.Context, id string, status domain.LeadStatus, note domain.LeadNote) (*domain.Lead, error)
}
