package shared

import "context"

// UnitOfWork runs a function inside a single transactional boundary.
// Everything the function writes through its repositories either commits
// together or rolls back together.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
