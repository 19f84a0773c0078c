package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appbilling "github.com/ledgerly/backend/internal/application/billing"
	"github.com/ledgerly/backend/internal/domain/identity"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// Five straight failures lock the account for fifteen minutes.
const (
	maxLoginAttempts = 5
	loginLockPeriod  = 15 * time.Minute
)

// UserService manages user accounts within a company, gated by the
// company's subscription.
type UserService struct {
	users         identity.UserRepository
	subscriptions *appbilling.SubscriptionService
	logger        *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users identity.UserRepository, subscriptions *appbilling.SubscriptionService, logger *zap.Logger) *UserService {
	return &UserService{users: users, subscriptions: subscriptions, logger: logger}
}

// Create adds a user, enforcing the subscription's user ceiling
func (s *UserService) Create(ctx context.Context, companyID uuid.UUID, username, password, email string, role identity.Role) (*identity.User, error) {
	if err := s.subscriptions.CheckUserCapacity(ctx, companyID); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsername(ctx, companyID, username)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	user, err := identity.NewUser(companyID, username, password, role)
	if err != nil {
		return nil, err
	}
	if email != "" {
		if err := user.SetEmail(email); err != nil {
			return nil, err
		}
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("company_id", companyID.String()),
		zap.String("username", username),
		zap.String("role", string(role)))
	return user, nil
}

// Authenticate verifies credentials. The company must hold a valid
// subscription; repeated failures lock the account.
func (s *UserService) Authenticate(ctx context.Context, companyID uuid.UUID, username, password string) (*identity.User, error) {
	if _, err := s.subscriptions.RequireValid(ctx, companyID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, companyID, username)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, shared.ErrForbidden
	}
	if !user.VerifyPassword(password) {
		user.RecordLoginFailure(maxLoginAttempts, loginLockPeriod)
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
		return nil, shared.ErrUnauthorized
	}

	user.RecordLoginSuccess()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangeRole reassigns a user's role
func (s *UserService) ChangeRole(ctx context.Context, companyID, userID uuid.UUID, role identity.Role) (*identity.User, error) {
	user, err := s.users.FindByIDForCompany(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	if err := user.SetRole(role); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate disables a user without deleting it
func (s *UserService) Deactivate(ctx context.Context, companyID, userID uuid.UUID) error {
	user, err := s.users.FindByIDForCompany(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}
