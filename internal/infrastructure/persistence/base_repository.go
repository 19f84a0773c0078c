package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// translateError maps GORM errors onto the domain's sentinel errors
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// repo is the generic GORM backing shared by every repository. The
// domain aggregates carry their own schema tags, so no separate model
// mapping layer is needed. Repositories with extra finders embed it.
type repo[T any] struct {
	db         *gorm.DB
	sortFields map[string]bool
}

func newRepo[T any](db *gorm.DB, sortFields map[string]bool) repo[T] {
	if sortFields == nil {
		sortFields = CommonSortFields
	}
	return repo[T]{db: db, sortFields: sortFields}
}

// conn resolves the database handle, preferring a transaction carried by
// the context.
func (r repo[T]) conn(ctx context.Context) *gorm.DB {
	if tx, ok := TxFrom(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// FindByID finds an entity by its ID
func (r repo[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.conn(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

// FindByIDForCompany finds an entity by ID within a company
func (r repo[T]) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.conn(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&entity).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

// FindAll finds all entities matching the filter
func (r repo[T]) FindAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	var entities []T
	var model T
	query := r.applyFilter(r.conn(ctx).Model(&model), filter)
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// FindAllForCompany finds all entities of a company matching the filter
func (r repo[T]) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]T, error) {
	var entities []T
	var model T
	query := r.applyFilter(r.conn(ctx).Model(&model).Where("company_id = ?", companyID), filter)
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Save persists the entity, inserting or updating as needed
func (r repo[T]) Save(ctx context.Context, entity *T) error {
	if err := r.conn(ctx).Save(entity).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Delete removes the entity by ID
func (r repo[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var model T
	result := r.conn(ctx).Delete(&model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts entities matching the filter
func (r repo[T]) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	var model T
	query := r.conn(ctx).Model(&model)
	if filter.Filters != nil {
		for field, value := range filter.Filters {
			if r.sortFields[field] {
				query = query.Where(fmt.Sprintf("%s = ?", field), value)
			}
		}
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies pagination and ordering. Sort fields are validated
// against the repository's whitelist to keep user input out of SQL.
func (r repo[T]) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Filters != nil {
		for field, value := range filter.Filters {
			if r.sortFields[field] {
				query = query.Where(fmt.Sprintf("%s = ?", field), value)
			}
		}
	}

	orderBy := ValidateSortField(filter.OrderBy, r.sortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}
