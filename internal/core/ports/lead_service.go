package ports

import (
	"context"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
)

// LeadInterestInput mirrors domain.LeadInterest with the car reference still
// in wire form.
type LeadInterestInput struct {
	Car    string
	Make   string
	Model  string
	Year   int
	Budget domain.Budget
}

// CreateLeadInput carries a lead creation request. AssignedTo and the date
// fields arrive as raw strings and are normalized by the service: a malformed
// assignedTo fails with 400 before anything is persisted, and an empty
// lastContact leaves the field unset.
type CreateLeadInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Status    string
	Source    string
	Service   string

	Interest     *LeadInterestInput
	AssignedTo   string
	LastContact  string
	NextFollowUp string

	Tags              []string
	CustomFields      map[string]any
	AdditionalDetails string
}

// ListLeadsFilter carries the query parameters for listing leads.
type ListLeadsFilter struct {
	Status     string
	AssignedTo string
	Source     string
	Service    string
	Page       int64
	Limit      int64
}

// LeadListResult is the listing payload, with the navigation flags the
// dealership UI paginates on.
type LeadListResult struct {
	Data        []*domain.Lead `json:"data"`
	Total       int64          `json:"total"`
	Page        int64          `json:"page"`
	TotalPages  int64          `json:"totalPages"`
	HasNextPage bool           `json:"hasNextPage"`
	HasPrevPage bool           `json:"hasPrevPage"`
}

// LeadService layers lead-specific behavior over the generic repository:
// reference normalization, note appends, status transitions with audit
// notes, and CSV export.
type LeadService interface {
	Create(ctx context.Context, in CreateLeadInput) (*domain.Lead, error)
	Get(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, f ListLeadsFilter) (*LeadListResult, error)

	// Update applies a partial update. Restricted fields (id, createdAt,
	// createdBy) are stripped; assignedTo and lastContact are normalized
	// with the same rules as Create.
	Update(ctx context.Context, id string, fields Filter) (*domain.Lead, error)
	Delete(ctx context.Context, id string) error

	AddNote(ctx context.Context, id, content, authorID string) (*domain.Lead, error)
	UpdateStatus(ctx context.Context, id, status, authorID string) (*domain.Lead, error)

	// ExportCSV renders every lead as CSV, newest first.
	ExportCSV(ctx context.Context) ([]byte, error)
}
