package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// Plan is the subscription tier of a company.
type Plan string

const (
	PlanTrial    Plan = "TRIAL"
	PlanBasic    Plan = "BASIC"
	PlanStandard Plan = "STANDARD"
	PlanDeluxe   Plan = "DELUXE"
	PlanPremium  Plan = "PREMIUM"
)

// IsValid checks whether the plan is one of the known plans
func (p Plan) IsValid() bool {
	switch p {
	case PlanTrial, PlanBasic, PlanStandard, PlanDeluxe, PlanPremium:
		return true
	}
	return false
}

// DefaultMaxUsers returns the user ceiling bundled with the plan
func (p Plan) DefaultMaxUsers() int {
	switch p {
	case PlanTrial:
		return 2
	case PlanBasic:
		return 5
	case PlanStandard:
		return 15
	case PlanDeluxe:
		return 50
	case PlanPremium:
		return 200
	default:
		return 1
	}
}

// Feature is a gated capability.
type Feature string

const (
	// FeatureProduction is the manufacturing / production module.
	FeatureProduction Feature = "production"
)

// Includes reports whether the plan carries the feature
func (p Plan) Includes(feature Feature) bool {
	switch feature {
	case FeatureProduction:
		return p == PlanDeluxe || p == PlanPremium
	}
	return false
}

// SubscriptionStatus is the lifecycle state of a subscription
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionSuspended SubscriptionStatus = "SUSPENDED"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
)

// Subscription is a company's plan with its user ceiling and expiry.
type Subscription struct {
	shared.BaseAggregateRoot
	CompanyID   uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex"`
	Plan        Plan               `gorm:"size:20;not null;default:'TRIAL'"`
	MaxUsers    int                `gorm:"not null;default:2"`
	ActivatedOn time.Time          `gorm:"type:date;not null"`
	ExpiresOn   time.Time          `gorm:"type:date;not null"`
	Status      SubscriptionStatus `gorm:"size:20;not null;default:'ACTIVE'"`
	IsActive    bool               `gorm:"not null;default:true"`
}

// TableName specifies the database table name
func (Subscription) TableName() string {
	return "subscriptions"
}

// NewSubscription activates a plan for a company
func NewSubscription(companyID uuid.UUID, plan Plan, activatedOn, expiresOn time.Time) (*Subscription, error) {
	if !plan.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}
	if !expiresOn.After(activatedOn) {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Expiry must be after activation")
	}
	return &Subscription{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyID:         companyID,
		Plan:              plan,
		MaxUsers:          plan.DefaultMaxUsers(),
		ActivatedOn:       activatedOn,
		ExpiresOn:         expiresOn,
		Status:            SubscriptionActive,
		IsActive:          true,
	}, nil
}

// IsValidAt reports whether the subscription authorizes use at the moment
func (s *Subscription) IsValidAt(now time.Time) bool {
	return s.IsActive && s.Status == SubscriptionActive && !now.After(s.ExpiresOn)
}

// CanAddUser reports whether another user fits under the ceiling
func (s *Subscription) CanAddUser(currentUsers int64) bool {
	return currentUsers < int64(s.MaxUsers)
}

// HasFeature reports whether the current plan carries the feature
func (s *Subscription) HasFeature(feature Feature) bool {
	return s.Plan.Includes(feature)
}

// ChangePlan switches the plan and resets the user ceiling
func (s *Subscription) ChangePlan(plan Plan, expiresOn time.Time) error {
	if !plan.IsValid() {
		return shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}
	s.Plan = plan
	s.MaxUsers = plan.DefaultMaxUsers()
	s.ExpiresOn = expiresOn
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Suspend halts the subscription without cancelling it
func (s *Subscription) Suspend() {
	s.Status = SubscriptionSuspended
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Reactivate restores a suspended subscription
func (s *Subscription) Reactivate() {
	s.Status = SubscriptionActive
	s.IsActive = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Repository persists subscriptions
type Repository interface {
	Save(ctx context.Context, subscription *Subscription) error
	FindByCompany(ctx context.Context, companyID uuid.UUID) (*Subscription, error)
}
