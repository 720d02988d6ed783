package repository

import (
	"context"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"gorm.io/gorm"
)

// CompanyUpdatableColumns are written by an edit submission. name is excluded
// because it never changes after creation.
var CompanyUpdatableColumns = []string{
	"slug", "category", "short_description", "description", "phone", "email",
	"website", "address", "city", "region", "founded_year", "employee_count",
	"industry", "theme_color", "social_links",
}

type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	Update(ctx context.Context, company *model.Company) error
	FindByID(ctx context.Context, id uint) (*model.Company, error)
	FindBySlug(ctx context.Context, slug string) (*model.Company, error)
	FindByOwner(ctx context.Context, ownerID uint) ([]model.Company, error)
	IsSlugAvailable(ctx context.Context, slug string, excludeID uint) (bool, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *model.Company) error {
	logger.Debug("Creating company in database", map[string]interface{}{
		"name":     company.Name,
		"slug":     company.Slug,
		"owner_id": company.OwnerID,
	})

	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		logger.Error("Failed to create company in database", err, map[string]interface{}{
			"slug":     company.Slug,
			"owner_id": company.OwnerID,
		})
		return err
	}

	logger.Debug("Company created in database", map[string]interface{}{
		"company_id": company.ID,
		"slug":       company.Slug,
	})
	return nil
}

// Update writes the mutable columns in a single statement.
func (r *companyRepository) Update(ctx context.Context, company *model.Company) error {
	logger.Debug("Updating company in database", map[string]interface{}{
		"company_id": company.ID,
		"slug":       company.Slug,
	})

	result := r.db.WithContext(ctx).
		Model(company).
		Select(CompanyUpdatableColumns).
		Updates(company)
	if result.Error != nil {
		logger.Error("Failed to update company in database", result.Error, map[string]interface{}{
			"company_id": company.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *companyRepository) FindByID(ctx context.Context, id uint) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find company by ID", err, map[string]interface{}{
				"company_id": id,
			})
		}
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) FindBySlug(ctx context.Context, slug string) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&company).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find company by slug", err, map[string]interface{}{
				"slug": slug,
			})
		}
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) FindByOwner(ctx context.Context, ownerID uint) ([]model.Company, error) {
	var companies []model.Company
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&companies).Error; err != nil {
		logger.Error("Failed to find companies by owner", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}
	return companies, nil
}

// IsSlugAvailable reports whether no company other than excludeID holds slug.
// excludeID 0 means none is excluded.
func (r *companyRepository) IsSlugAvailable(ctx context.Context, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Company{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check slug availability", err, map[string]interface{}{
			"slug": slug,
		})
		return false, err
	}
	return count == 0, nil
}
