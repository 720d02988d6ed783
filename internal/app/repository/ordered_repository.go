package repository

import (
	"context"
	"errors"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderedRepository persists company resources kept in a dense position order.
// Every write is scoped by company so an owner can only touch its own rows.
type OrderedRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	CreateBatch(ctx context.Context, items []T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, companyID, id uint) error
	SetActive(ctx context.Context, companyID, id uint, active bool) error
	SaveOrder(ctx context.Context, companyID uint, ids []uint) error
	FindByID(ctx context.Context, id uint) (*T, error)
	FindByCompany(ctx context.Context, companyID uint, activeOnly bool) ([]T, error)
	IncrementClicks(ctx context.Context, id uint) error
}

type orderedRepository[T any] struct {
	db       *gorm.DB
	resource string
	columns  []string
}

// companyOrdered is implemented by the pointer types stored here.
type companyOrdered interface {
	OwningCompanyID() uint
	SetPosition(position int)
}

// lockCompany takes the company row lock for the rest of tx. Writes that
// depend on sibling rows (positions, slot counts) go through it.
func lockCompany(tx *gorm.DB, companyID uint) error {
	var company model.Company
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&company, companyID).Error
}

// Create appends item after the company's existing rows, so stored positions
// stay dense whatever position the caller set.
func (r *orderedRepository[T]) Create(ctx context.Context, item *T) error {
	placed, ok := any(item).(companyOrdered)
	if !ok {
		if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
			logger.Error("Failed to create "+r.resource, err)
			return err
		}
		return nil
	}

	companyID := placed.OwningCompanyID()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCompany(tx, companyID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(new(T)).Where("company_id = ?", companyID).Count(&count).Error; err != nil {
			return err
		}
		placed.SetPosition(int(count))
		return tx.Create(item).Error
	})
	if err != nil {
		logger.Error("Failed to create "+r.resource, err, map[string]interface{}{
			"company_id": companyID,
		})
		return err
	}
	return nil
}

func (r *orderedRepository[T]) CreateBatch(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		logger.Error("Failed to create "+r.resource+" batch", err, map[string]interface{}{
			"count": len(items),
		})
		return err
	}
	return nil
}

// Update writes the editable columns only; position and counters are left alone.
func (r *orderedRepository[T]) Update(ctx context.Context, item *T) error {
	result := r.db.WithContext(ctx).Model(item).Select(r.columns).Updates(item)
	if result.Error != nil {
		logger.Error("Failed to update "+r.resource, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the row and closes the gap it leaves in the positions.
func (r *orderedRepository[T]) Delete(ctx context.Context, companyID, id uint) error {
	logger.Debug("Deleting "+r.resource, map[string]interface{}{
		"company_id": companyID,
		"id":         id,
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCompany(tx, companyID); err != nil {
			return err
		}
		var positions []int
		err := tx.Model(new(T)).
			Where("id = ? AND company_id = ?", id, companyID).
			Pluck("position", &positions).Error
		if err != nil {
			return err
		}
		if len(positions) == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("id = ? AND company_id = ?", id, companyID).Delete(new(T)).Error; err != nil {
			return err
		}
		return tx.Model(new(T)).
			Where("company_id = ? AND position > ?", companyID, positions[0]).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to delete "+r.resource, err, map[string]interface{}{
				"company_id": companyID,
				"id":         id,
			})
		}
		return err
	}
	return nil
}

func (r *orderedRepository[T]) SetActive(ctx context.Context, companyID, id uint, active bool) error {
	result := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ? AND company_id = ?", id, companyID).
		Update("is_active", active)
	if result.Error != nil {
		logger.Error("Failed to toggle "+r.resource, result.Error, map[string]interface{}{
			"company_id": companyID,
			"id":         id,
			"active":     active,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaveOrder assigns position i to ids[i] in one transaction. Any id that does
// not belong to the company rolls the whole batch back.
func (r *orderedRepository[T]) SaveOrder(ctx context.Context, companyID uint, ids []uint) error {
	logger.Debug("Saving "+r.resource+" order", map[string]interface{}{
		"company_id": companyID,
		"count":      len(ids),
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for position, id := range ids {
			result := tx.Model(new(T)).
				Where("id = ? AND company_id = ?", id, companyID).
				Update("position", position)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to save "+r.resource+" order", err, map[string]interface{}{
			"company_id": companyID,
		})
	}
	return err
}

func (r *orderedRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	item := new(T)
	if err := r.db.WithContext(ctx).First(item, id).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *orderedRepository[T]) FindByCompany(ctx context.Context, companyID uint, activeOnly bool) ([]T, error) {
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var items []T
	if err := query.Order("position ASC, id ASC").Find(&items).Error; err != nil {
		logger.Error("Failed to list "+r.resource+"s", err, map[string]interface{}{
			"company_id": companyID,
		})
		return nil, err
	}
	return items, nil
}

func (r *orderedRepository[T]) IncrementClicks(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
