package ports

import (
	"context"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
)

// Filter is a structured query passed to the repository. Keys are document
// field names; values may be literals or nested operator maps such as
// {"$gt": ...}.
type Filter map[string]any

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 100
)

// ListOptions controls paging and ordering for Find. Sort uses the
// "-createdAt" convention: a leading dash means descending.
type ListOptions struct {
	Page  int64
	Limit int64
	Sort  string
}

// Normalize applies the documented defaults and caps the limit.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.Sort == "" {
		o.Sort = "-createdAt"
	}
	return o
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Pages int64 `json:"pages"`
}

// Page is one page of results plus the pagination envelope.
type Page[T any] struct {
	Data       []*T       `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Repository is the uniform CRUD surface over a single entity collection.
// FindOne returns (nil, nil) when nothing matches; every other lookup by id
// reports a not-found operational error.
type Repository[T any] interface {
	Create(ctx context.Context, doc *T) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, filter Filter) (*T, error)
	Find(ctx context.Context, filter Filter, opts ListOptions) (*Page[T], error)
	Update(ctx context.Context, id string, set Filter) (*T, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, filter Filter) (bool, error)
}

// CarRepository has no operations beyond the generic contract.
type CarRepository = Repository[domain.Car]
