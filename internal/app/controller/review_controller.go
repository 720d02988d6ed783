package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/directorio-backend/internal/app/service"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
)

type ReviewController struct {
	reviewService service.ReviewService
	publicService service.PublicService
}

func NewReviewController(reviewService service.ReviewService, publicService service.PublicService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		publicService: publicService,
	}
}

// CreateReview leaves a review on a public profile. It stays hidden until the
// owner approves it.
// POST /api/v1/companies/:slug/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	company, err := ctrl.publicService.FindCompany(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apperrors.RespondWithAppError(c, err, "company")
		return
	}

	var input service.ReviewInput
	if !bindJSON(c, &input) {
		return
	}

	review, err := ctrl.reviewService.CreateReview(c.Request.Context(), company.ID, input)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "review")
		return
	}
	c.JSON(http.StatusCreated, review)
}

// ListReviews returns every review, pending ones included.
// GET /api/v1/admin/companies/:companyId/reviews
func (ctrl *ReviewController) ListReviews(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	companyID, ok := parseID(c, "companyId")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.ListReviews(c.Request.Context(), userID, companyID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "review")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// ApproveReview
// POST /api/v1/admin/companies/:companyId/reviews/:reviewId/approve
func (ctrl *ReviewController) ApproveReview(c *gin.Context) {
	userID, companyID, reviewID, ok := reviewParams(c)
	if !ok {
		return
	}

	review, err := ctrl.reviewService.ApproveReview(c.Request.Context(), userID, companyID, reviewID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// UpdateReview edits a pending review.
// PUT /api/v1/admin/companies/:companyId/reviews/:reviewId
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	userID, companyID, reviewID, ok := reviewParams(c)
	if !ok {
		return
	}

	var input service.ReviewInput
	if !bindJSON(c, &input) {
		return
	}

	review, err := ctrl.reviewService.UpdateReview(c.Request.Context(), userID, companyID, reviewID, input)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// DeleteReview
// DELETE /api/v1/admin/companies/:companyId/reviews/:reviewId
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	userID, companyID, reviewID, ok := reviewParams(c)
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(c.Request.Context(), userID, companyID, reviewID); err != nil {
		apperrors.RespondWithAppError(c, err, "review")
		return
	}
	c.Status(http.StatusNoContent)
}

func reviewParams(c *gin.Context) (userID, companyID, reviewID uint, ok bool) {
	if userID, ok = requireUser(c); !ok {
		return
	}
	if companyID, ok = parseID(c, "companyId"); !ok {
		return
	}
	reviewID, ok = parseID(c, "reviewId")
	return
}
