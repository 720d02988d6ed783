package repository

import (
	"context"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"gorm.io/gorm"
)

type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	Update(ctx context.Context, blog *model.Blog) error
	Delete(ctx context.Context, companyID, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Blog, error)
	FindBySlug(ctx context.Context, companyID uint, slug string) (*model.Blog, error)
	FindByCompany(ctx context.Context, companyID uint, publishedOnly bool) ([]model.Blog, error)
	IsSlugAvailable(ctx context.Context, companyID uint, slug string, excludeID uint) (bool, error)
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *model.Blog) error {
	return r.db.WithContext(ctx).Create(blog).Error
}

func (r *blogRepository) Update(ctx context.Context, blog *model.Blog) error {
	return r.db.WithContext(ctx).
		Model(blog).
		Select("title", "slug", "excerpt", "content", "cover_url", "is_published", "published_at").
		Updates(blog).Error
}

func (r *blogRepository) Delete(ctx context.Context, companyID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&model.Blog{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *blogRepository) FindByID(ctx context.Context, id uint) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.WithContext(ctx).First(&blog, id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) FindBySlug(ctx context.Context, companyID uint, slug string) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND slug = ?", companyID, slug).
		First(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) FindByCompany(ctx context.Context, companyID uint, publishedOnly bool) ([]model.Blog, error) {
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var blogs []model.Blog
	if err := query.Order("created_at DESC, id DESC").Find(&blogs).Error; err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *blogRepository) IsSlugAvailable(ctx context.Context, companyID uint, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Blog{}).
		Where("company_id = ? AND slug = ?", companyID, slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
