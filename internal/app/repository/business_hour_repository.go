package repository

import (
	"context"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BusinessHourRepository interface {
	Upsert(ctx context.Context, hour *model.BusinessHour) error
	DeleteDay(ctx context.Context, companyID uint, day int) error
	FindByCompany(ctx context.Context, companyID uint) ([]model.BusinessHour, error)
}

type businessHourRepository struct {
	db *gorm.DB
}

func NewBusinessHourRepository(db *gorm.DB) BusinessHourRepository {
	return &businessHourRepository{db: db}
}

// Upsert writes the schedule of one weekday, replacing any existing row.
func (r *businessHourRepository) Upsert(ctx context.Context, hour *model.BusinessHour) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}, {Name: "day_of_week"}},
		DoUpdates: clause.AssignmentColumns([]string{"open_time", "close_time", "is_closed", "updated_at"}),
	}).Create(hour).Error
	if err != nil {
		logger.Error("Failed to upsert business hour", err, map[string]interface{}{
			"company_id":  hour.CompanyID,
			"day_of_week": hour.DayOfWeek,
		})
		return err
	}
	return nil
}

// DeleteDay removes a weekday row. Missing rows are not an error.
func (r *businessHourRepository) DeleteDay(ctx context.Context, companyID uint, day int) error {
	return r.db.WithContext(ctx).
		Where("company_id = ? AND day_of_week = ?", companyID, day).
		Delete(&model.BusinessHour{}).Error
}

func (r *businessHourRepository) FindByCompany(ctx context.Context, companyID uint) ([]model.BusinessHour, error) {
	var hours []model.BusinessHour
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("day_of_week ASC").
		Find(&hours).Error
	if err != nil {
		return nil, err
	}
	return hours, nil
}
