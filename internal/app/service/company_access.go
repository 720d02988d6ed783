package service

import (
	"context"
	"errors"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"gorm.io/gorm"
)

// requireOwner loads the company and checks that ownerID may write to it.
func requireOwner(ctx context.Context, companyRepo repository.CompanyRepository, ownerID, companyID uint) (*model.Company, error) {
	company, err := companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, apperrors.NewTransportError("load company", err)
	}
	if company.OwnerID != ownerID {
		logger.Warn("Company write denied", map[string]interface{}{
			"company_id": companyID,
			"owner_id":   ownerID,
		})
		return nil, ErrCompanyAccessDenied
	}
	return company, nil
}
