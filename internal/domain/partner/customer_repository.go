package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// CustomerRepository persists counter-parties
type CustomerRepository interface {
	shared.TenantRepository[Customer]
	FindByName(ctx context.Context, companyID uuid.UUID, name string) (*Customer, error)
	FindByEmail(ctx context.Context, companyID uuid.UUID, email string) (*Customer, error)
	FindByPhone(ctx context.Context, companyID uuid.UUID, phone string) (*Customer, error)
}
