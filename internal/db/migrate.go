package db

import (
	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Company{},
		&model.CompanyStats{},
		&model.SocialLink{},
		&model.Product{},
		&model.CompanyImage{},
		&model.BusinessHour{},
		&model.CompanyReview{},
		&model.Blog{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := backfillStats(DB); err != nil {
		logger.Error("Failed to backfill company stats", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// backfillStats inserts the zero stats row for companies created before
// company_stats existed.
func backfillStats(db *gorm.DB) error {
	result := db.Exec(`
		INSERT INTO company_stats (company_id, view_count, click_count, created_at, updated_at)
		SELECT c.id, 0, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP
		FROM companies c
		WHERE NOT EXISTS (SELECT 1 FROM company_stats s WHERE s.company_id = c.id)
	`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		logger.Info("Backfilled company stats", map[string]interface{}{
			"rows": result.RowsAffected,
		})
	}
	return nil
}
