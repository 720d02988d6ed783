package service

import (
	"context"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/pkg/logger"
)

type HourInput struct {
	OpenTime  string `json:"open_time" validate:"omitempty,datetime=15:04"`
	CloseTime string `json:"close_time" validate:"omitempty,datetime=15:04"`
	IsClosed  bool   `json:"is_closed"`
}

type HoursService interface {
	SetHours(ctx context.Context, ownerID, companyID uint, day int, in HourInput) (*model.BusinessHour, error)
	ClearDay(ctx context.Context, ownerID, companyID uint, day int) error
	ListHours(ctx context.Context, companyID uint) ([]model.BusinessHour, error)
}

type hoursService struct {
	companyRepo repository.CompanyRepository
	hourRepo    repository.BusinessHourRepository
}

func NewHoursService(companyRepo repository.CompanyRepository, hourRepo repository.BusinessHourRepository) HoursService {
	return &hoursService{companyRepo: companyRepo, hourRepo: hourRepo}
}

func validateHours(day int, in *HourInput) error {
	if day < 0 || day > 6 {
		return apperrors.NewFieldError(apperrors.ValidationInvalidRange, "day_of_week", "range")
	}
	if err := validateInput(apperrors.ValidationInvalidInput, in); err != nil {
		return err
	}
	if in.IsClosed {
		in.OpenTime, in.CloseTime = "", ""
		return nil
	}
	if in.OpenTime == "" || in.CloseTime == "" {
		field := "open_time"
		if in.OpenTime != "" {
			field = "close_time"
		}
		return apperrors.NewFieldError(apperrors.ValidationRequired, field, "required")
	}
	// HH:MM compares correctly as text
	if in.CloseTime <= in.OpenTime {
		return apperrors.NewFieldError(apperrors.ValidationInvalidRange, "close_time", "after_open")
	}
	return nil
}

func (s *hoursService) SetHours(ctx context.Context, ownerID, companyID uint, day int, in HourInput) (*model.BusinessHour, error) {
	if err := validateHours(day, &in); err != nil {
		return nil, err
	}
	if _, err := requireOwner(ctx, s.companyRepo, ownerID, companyID); err != nil {
		return nil, err
	}

	hour := &model.BusinessHour{
		CompanyID: companyID,
		DayOfWeek: day,
		OpenTime:  in.OpenTime,
		CloseTime: in.CloseTime,
		IsClosed:  in.IsClosed,
	}
	if err := s.hourRepo.Upsert(ctx, hour); err != nil {
		return nil, apperrors.NewTransportError("save hours", err)
	}

	logger.Info("Business hours updated", map[string]interface{}{
		"company_id":  companyID,
		"day_of_week": day,
		"is_closed":   in.IsClosed,
	})
	return hour, nil
}

func (s *hoursService) ClearDay(ctx context.Context, ownerID, companyID uint, day int) error {
	if day < 0 || day > 6 {
		return apperrors.NewFieldError(apperrors.ValidationInvalidRange, "day_of_week", "range")
	}
	if _, err := requireOwner(ctx, s.companyRepo, ownerID, companyID); err != nil {
		return err
	}
	return apperrors.NewTransportError("clear hours", s.hourRepo.DeleteDay(ctx, companyID, day))
}

func (s *hoursService) ListHours(ctx context.Context, companyID uint) ([]model.BusinessHour, error) {
	hours, err := s.hourRepo.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, apperrors.NewTransportError("load hours", err)
	}
	return hours, nil
}
