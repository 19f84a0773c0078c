package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the generic persistence contract shared by all aggregates.
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

// TenantRepository narrows lookups to one company. Business data access
// goes through these methods so tenant isolation cannot be skipped by
// accident.
type TenantRepository[T any] interface {
	Repository[T]
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*T, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter Filter) ([]T, error)
}

// Filter carries list query options. A zero PageSize disables pagination
// and returns every matching row, which batch jobs rely on.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}
