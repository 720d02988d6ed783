package repository

import (
	"context"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"gorm.io/gorm"
)

type CompanyImageRepository interface {
	Create(ctx context.Context, image *model.CompanyImage) error
	// Replace points an existing record at a new blob, keeping its id.
	Replace(ctx context.Context, image *model.CompanyImage) error
	Delete(ctx context.Context, companyID, id uint) error
	FindByID(ctx context.Context, id uint) (*model.CompanyImage, error)
	FindBySlot(ctx context.Context, companyID uint, slot model.ImageType) ([]model.CompanyImage, error)
	FindByCompany(ctx context.Context, companyID uint) ([]model.CompanyImage, error)
	// WithSlotLock runs fn in a transaction holding the company row lock, so
	// slot occupancy read inside fn cannot change until it returns.
	WithSlotLock(ctx context.Context, companyID uint, fn func(repo CompanyImageRepository) error) error
}

type companyImageRepository struct {
	db *gorm.DB
}

func NewCompanyImageRepository(db *gorm.DB) CompanyImageRepository {
	return &companyImageRepository{db: db}
}

func (r *companyImageRepository) Create(ctx context.Context, image *model.CompanyImage) error {
	logger.Debug("Creating company image", map[string]interface{}{
		"company_id": image.CompanyID,
		"image_type": image.ImageType,
	})

	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		logger.Error("Failed to create company image", err, map[string]interface{}{
			"company_id": image.CompanyID,
			"image_type": image.ImageType,
		})
		return err
	}
	return nil
}

func (r *companyImageRepository) Replace(ctx context.Context, image *model.CompanyImage) error {
	result := r.db.WithContext(ctx).
		Model(image).
		Select("url", "storage_path", "content_type", "size").
		Updates(image)
	if result.Error != nil {
		logger.Error("Failed to replace company image", result.Error, map[string]interface{}{
			"image_id": image.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *companyImageRepository) Delete(ctx context.Context, companyID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&model.CompanyImage{})
	if result.Error != nil {
		logger.Error("Failed to delete company image", result.Error, map[string]interface{}{
			"company_id": companyID,
			"image_id":   id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *companyImageRepository) FindByID(ctx context.Context, id uint) (*model.CompanyImage, error) {
	var image model.CompanyImage
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// FindBySlot returns the slot's images in insertion order.
func (r *companyImageRepository) FindBySlot(ctx context.Context, companyID uint, slot model.ImageType) ([]model.CompanyImage, error) {
	var images []model.CompanyImage
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND image_type = ?", companyID, slot).
		Order("created_at ASC, id ASC").
		Find(&images).Error
	if err != nil {
		logger.Error("Failed to find company images by slot", err, map[string]interface{}{
			"company_id": companyID,
			"image_type": slot,
		})
		return nil, err
	}
	return images, nil
}

func (r *companyImageRepository) FindByCompany(ctx context.Context, companyID uint) ([]model.CompanyImage, error) {
	var images []model.CompanyImage
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC, id ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *companyImageRepository) WithSlotLock(ctx context.Context, companyID uint, fn func(repo CompanyImageRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCompany(tx, companyID); err != nil {
			logger.Error("Failed to lock company for media update", err, map[string]interface{}{
				"company_id": companyID,
			})
			return err
		}
		return fn(&companyImageRepository{db: tx})
	})
}
