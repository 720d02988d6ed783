package repository

import (
	"context"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.CompanyReview) error
	Update(ctx context.Context, review *model.CompanyReview) error
	Delete(ctx context.Context, companyID, id uint) error
	FindByID(ctx context.Context, id uint) (*model.CompanyReview, error)
	FindByCompany(ctx context.Context, companyID uint, approvedOnly bool) ([]model.CompanyReview, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create stores a new review as submitted.
func (r *reviewRepository) Create(ctx context.Context, review *model.CompanyReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Update(ctx context.Context, review *model.CompanyReview) error {
	return r.db.WithContext(ctx).
		Model(review).
		Select("author_name", "rating", "content", "is_approved", "approved_at").
		Updates(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, companyID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&model.CompanyReview{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*model.CompanyReview, error) {
	var review model.CompanyReview
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByCompany lists reviews newest first.
func (r *reviewRepository) FindByCompany(ctx context.Context, companyID uint, approvedOnly bool) ([]model.CompanyReview, error) {
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if approvedOnly {
		query = query.Where("is_approved = ?", true)
	}

	var reviews []model.CompanyReview
	if err := query.Order("created_at DESC, id DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
