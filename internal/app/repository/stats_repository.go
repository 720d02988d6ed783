package repository

import (
	"context"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"gorm.io/gorm"
)

type StatsRepository interface {
	Create(ctx context.Context, companyID uint) error
	FindByCompany(ctx context.Context, companyID uint) (*model.CompanyStats, error)
	IncrementViews(ctx context.Context, companyID uint) error
	IncrementClicks(ctx context.Context, companyID uint) error
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Create inserts the zero counters row of a new company.
func (r *statsRepository) Create(ctx context.Context, companyID uint) error {
	stats := &model.CompanyStats{CompanyID: companyID}
	if err := r.db.WithContext(ctx).Create(stats).Error; err != nil {
		logger.Error("Failed to create company stats", err, map[string]interface{}{
			"company_id": companyID,
		})
		return err
	}
	return nil
}

func (r *statsRepository) FindByCompany(ctx context.Context, companyID uint) (*model.CompanyStats, error) {
	var stats model.CompanyStats
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *statsRepository) IncrementViews(ctx context.Context, companyID uint) error {
	return r.increment(ctx, companyID, "view_count")
}

func (r *statsRepository) IncrementClicks(ctx context.Context, companyID uint) error {
	return r.increment(ctx, companyID, "click_count")
}

func (r *statsRepository) increment(ctx context.Context, companyID uint, column string) error {
	err := r.db.WithContext(ctx).
		Model(&model.CompanyStats{}).
		Where("company_id = ?", companyID).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1)).Error
	if err != nil {
		logger.Error("Failed to increment company counter", err, map[string]interface{}{
			"company_id": companyID,
			"column":     column,
		})
	}
	return err
}
