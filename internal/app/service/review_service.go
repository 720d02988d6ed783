package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewInput struct {
	AuthorName  string `json:"author_name" validate:"required,max=100"`
	AuthorEmail string `json:"author_email" validate:"omitempty,email"`
	Rating      int    `json:"rating" validate:"min=1,max=5"`
	Content     string `json:"content" validate:"required,max=2000"`
}

type ReviewService interface {
	// CreateReview is public; new reviews wait for the owner's approval.
	CreateReview(ctx context.Context, companyID uint, in ReviewInput) (*model.CompanyReview, error)
	ListReviews(ctx context.Context, ownerID, companyID uint) ([]model.CompanyReview, error)
	ListApproved(ctx context.Context, companyID uint) ([]model.CompanyReview, error)
	ApproveReview(ctx context.Context, ownerID, companyID, reviewID uint) (*model.CompanyReview, error)
	UpdateReview(ctx context.Context, ownerID, companyID, reviewID uint, in ReviewInput) (*model.CompanyReview, error)
	DeleteReview(ctx context.Context, ownerID, companyID, reviewID uint) error
}

type reviewService struct {
	companyRepo repository.CompanyRepository
	reviewRepo  repository.ReviewRepository
	now         func() time.Time
}

func NewReviewService(companyRepo repository.CompanyRepository, reviewRepo repository.ReviewRepository) ReviewService {
	return &reviewService{companyRepo: companyRepo, reviewRepo: reviewRepo, now: time.Now}
}

func normalizeReviewInput(in *ReviewInput) error {
	in.AuthorName = strings.TrimSpace(in.AuthorName)
	in.AuthorEmail = strings.TrimSpace(in.AuthorEmail)
	in.Content = strings.TrimSpace(in.Content)
	if err := validateInput(apperrors.ValidationInvalidInput, in); err != nil {
		var validationErr *apperrors.ValidationError
		if errors.As(err, &validationErr) {
			if _, ok := validationErr.Fields["rating"]; ok {
				validationErr.Code = apperrors.ReviewInvalidRating
			}
		}
		return err
	}
	return nil
}

func (s *reviewService) CreateReview(ctx context.Context, companyID uint, in ReviewInput) (*model.CompanyReview, error) {
	if err := normalizeReviewInput(&in); err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, apperrors.NewTransportError("load company", err)
	}

	review := &model.CompanyReview{
		CompanyID:   companyID,
		AuthorName:  in.AuthorName,
		AuthorEmail: in.AuthorEmail,
		Rating:      in.Rating,
		Content:     in.Content,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, apperrors.NewTransportError("create review", err)
	}

	logger.Info("Review submitted", map[string]interface{}{
		"company_id": companyID,
		"review_id":  review.ID,
		"rating":     review.Rating,
	})
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, ownerID, companyID uint) ([]model.CompanyReview, error) {
	if _, err := requireOwner(ctx, s.companyRepo, ownerID, companyID); err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.FindByCompany(ctx, companyID, false)
	if err != nil {
		return nil, apperrors.NewTransportError("load reviews", err)
	}
	return reviews, nil
}

func (s *reviewService) ListApproved(ctx context.Context, companyID uint) ([]model.CompanyReview, error) {
	reviews, err := s.reviewRepo.FindByCompany(ctx, companyID, true)
	if err != nil {
		return nil, apperrors.NewTransportError("load reviews", err)
	}
	return reviews, nil
}

// ownedReview checks ownership and that the review belongs to the company.
func (s *reviewService) ownedReview(ctx context.Context, ownerID, companyID, reviewID uint) (*model.CompanyReview, error) {
	if _, err := requireOwner(ctx, s.companyRepo, ownerID, companyID); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, apperrors.NewTransportError("load review", err)
	}
	if review.CompanyID != companyID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// ApproveReview publishes the review. Approving twice is a no-op.
func (s *reviewService) ApproveReview(ctx context.Context, ownerID, companyID, reviewID uint) (*model.CompanyReview, error) {
	review, err := s.ownedReview(ctx, ownerID, companyID, reviewID)
	if err != nil {
		return nil, err
	}
	if review.IsApproved {
		return review, nil
	}

	now := s.now()
	review.IsApproved = true
	review.ApprovedAt = &now
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, apperrors.NewTransportError("approve review", err)
	}

	logger.Info("Review approved", map[string]interface{}{
		"company_id": companyID,
		"review_id":  reviewID,
	})
	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, ownerID, companyID, reviewID uint, in ReviewInput) (*model.CompanyReview, error) {
	if err := normalizeReviewInput(&in); err != nil {
		return nil, err
	}
	review, err := s.ownedReview(ctx, ownerID, companyID, reviewID)
	if err != nil {
		return nil, err
	}
	if review.IsApproved {
		return nil, ErrReviewApprovedImmutable
	}

	review.AuthorName = in.AuthorName
	review.Rating = in.Rating
	review.Content = in.Content
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, apperrors.NewTransportError("update review", err)
	}
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, ownerID, companyID, reviewID uint) error {
	if _, err := s.ownedReview(ctx, ownerID, companyID, reviewID); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, companyID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return apperrors.NewTransportError("delete review", err)
	}

	logger.Info("Review deleted", map[string]interface{}{
		"company_id": companyID,
		"review_id":  reviewID,
	})
	return nil
}
