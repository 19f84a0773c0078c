package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly/backend/internal/domain/identity"
	"github.com/ledgerly/backend/internal/domain/shared"
	"github.com/ledgerly/backend/internal/domain/tenant"
)

// Actor identifies who is performing an operation.
type Actor struct {
	UserID uuid.UUID
	Role   identity.Role
}

// PeriodGuard decides whether a posting date is still open for an actor.
type PeriodGuard struct {
	companies tenant.Repository
	clock     shared.Clock
}

// NewPeriodGuard creates a period guard
func NewPeriodGuard(companies tenant.Repository, clock shared.Clock) *PeriodGuard {
	if clock == nil {
		clock = shared.SystemClock
	}
	return &PeriodGuard{companies: companies, clock: clock}
}

// IsClosed reports whether the date falls in a closed period for the company
func (g *PeriodGuard) IsClosed(ctx context.Context, companyID uuid.UUID, date time.Time) (bool, error) {
	company, err := g.companies.FindByID(ctx, companyID)
	if err != nil {
		return false, err
	}
	return company.IsPeriodClosed(date, g.clock()), nil
}

// Check returns ErrPeriodClosed when the actor may not post on the date.
// Admins may post into closed periods.
func (g *PeriodGuard) Check(ctx context.Context, companyID uuid.UUID, date time.Time, actor Actor) error {
	closed, err := g.IsClosed(ctx, companyID, date)
	if err != nil {
		return err
	}
	if closed && !actor.Role.CanPostToClosedPeriod() {
		return shared.ErrPeriodClosed
	}
	return nil
}
