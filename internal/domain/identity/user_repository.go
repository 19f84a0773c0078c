package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// UserRepository persists users
type UserRepository interface {
	shared.TenantRepository[User]
	FindByUsername(ctx context.Context, companyID uuid.UUID, username string) (*User, error)
	CountForCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
}
