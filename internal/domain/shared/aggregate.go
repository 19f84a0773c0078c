package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot adds an optimistic-lock version on top of Entity. Domain
// methods that mutate state bump the version so concurrent saves of a
// stale copy fail instead of overwriting.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot is the embeddable implementation of AggregateRoot.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// NewBaseAggregateRoot starts a new aggregate at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// TenantAggregateRoot scopes an aggregate to one company. Every business
// record in the ledger belongs to exactly one company, and the posting
// user is recorded for the audit trail.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// NewTenantAggregateRoot starts a new aggregate owned by companyID.
func NewTenantAggregateRoot(companyID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CompanyID:         companyID,
	}
}

// SetCreatedBy records which user created the aggregate.
func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	t.CreatedBy = &userID
}
