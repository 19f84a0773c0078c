package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerly/backend/internal/domain/billing"
	"github.com/ledgerly/backend/internal/domain/identity"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// SubscriptionService manages company subscriptions and enforces the
// gates the rest of the system consults: validity, user ceiling and
// plan features.
type SubscriptionService struct {
	subscriptions billing.Repository
	users         identity.UserRepository
	clock         shared.Clock
	logger        *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(subscriptions billing.Repository, users identity.UserRepository, clock shared.Clock, logger *zap.Logger) *SubscriptionService {
	if clock == nil {
		clock = shared.SystemClock
	}
	return &SubscriptionService{
		subscriptions: subscriptions,
		users:         users,
		clock:         clock,
		logger:        logger,
	}
}

// Activate starts a plan for the company, replacing any prior one
func (s *SubscriptionService) Activate(ctx context.Context, companyID uuid.UUID, plan billing.Plan, duration time.Duration) (*billing.Subscription, error) {
	now := s.clock()
	existing, err := s.subscriptions.FindByCompany(ctx, companyID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if err := existing.ChangePlan(plan, now.Add(duration)); err != nil {
			return nil, err
		}
		existing.Reactivate()
		if err := s.subscriptions.Save(ctx, existing); err != nil {
			return nil, err
		}
		s.logger.Info("subscription plan changed",
			zap.String("company_id", companyID.String()),
			zap.String("plan", string(plan)))
		return existing, nil
	}

	subscription, err := billing.NewSubscription(companyID, plan, now, now.Add(duration))
	if err != nil {
		return nil, err
	}
	if err := s.subscriptions.Save(ctx, subscription); err != nil {
		return nil, err
	}
	s.logger.Info("subscription activated",
		zap.String("company_id", companyID.String()),
		zap.String("plan", string(plan)))
	return subscription, nil
}

// RequireValid returns the subscription or ErrSubscriptionExpired when
// the company has no currently valid one.
func (s *SubscriptionService) RequireValid(ctx context.Context, companyID uuid.UUID) (*billing.Subscription, error) {
	subscription, err := s.subscriptions.FindByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrSubscriptionExpired
		}
		return nil, err
	}
	if !subscription.IsValidAt(s.clock()) {
		return nil, shared.ErrSubscriptionExpired
	}
	return subscription, nil
}

// CheckUserCapacity returns ErrSubscriptionCapReached when the company
// cannot add another user under its plan.
func (s *SubscriptionService) CheckUserCapacity(ctx context.Context, companyID uuid.UUID) error {
	subscription, err := s.RequireValid(ctx, companyID)
	if err != nil {
		return err
	}
	current, err := s.users.CountForCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if !subscription.CanAddUser(current) {
		return shared.ErrSubscriptionCapReached
	}
	return nil
}

// RequireFeature returns ErrFeatureNotIncluded when the company's plan
// does not carry the feature.
func (s *SubscriptionService) RequireFeature(ctx context.Context, companyID uuid.UUID, feature billing.Feature) error {
	subscription, err := s.RequireValid(ctx, companyID)
	if err != nil {
		return err
	}
	if !subscription.HasFeature(feature) {
		return shared.ErrFeatureNotIncluded
	}
	return nil
}
