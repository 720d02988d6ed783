package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	"github.com/ikkim/directorio-backend/internal/app/service"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewRouter(testDB *gorm.DB, userID uint) *gin.Engine {
	companyRepo := repository.NewCompanyRepository(testDB)
	ctrl := NewReviewController(
		service.NewReviewService(companyRepo, repository.NewReviewRepository(testDB)),
		service.NewPublicService(testDB),
	)

	router := newTestRouter(userID)
	router.POST("/companies/:slug/reviews", ctrl.CreateReview)
	admin := router.Group("/admin/companies/:companyId/reviews")
	admin.GET("", ctrl.ListReviews)
	admin.PUT("/:reviewId", ctrl.UpdateReview)
	admin.POST("/:reviewId/approve", ctrl.ApproveReview)
	admin.DELETE("/:reviewId", ctrl.DeleteReview)
	return router
}

func TestReviewController_ModerationFlow(t *testing.T) {
	testDB := setupControllerTest(t)
	company := createCompany(t, testDB, "vitro", 7)
	guest := setupReviewRouter(testDB, 0)
	owner := setupReviewRouter(testDB, 7)

	w := serve(t, guest, http.MethodPost, "/companies/vitro/reviews", gin.H{
		"author_name": "Ana", "rating": 5, "content": "Excelente atención",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var review model.CompanyReview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
	assert.False(t, review.IsApproved)

	admin := fmt.Sprintf("/admin/companies/%d/reviews", company.ID)

	w = serve(t, owner, http.MethodGet, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	w = serve(t, owner, http.MethodPut, fmt.Sprintf("%s/%d", admin, review.ID), gin.H{
		"author_name": "Ana", "rating": 4, "content": "Muy buena atención",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = serve(t, owner, http.MethodPost, fmt.Sprintf("%s/%d/approve", admin, review.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
	assert.True(t, review.IsApproved)
	assert.Equal(t, 4, review.Rating)

	w = serve(t, owner, http.MethodPut, fmt.Sprintf("%s/%d", admin, review.ID), gin.H{
		"author_name": "Ana", "rating": 1, "content": "Cambio",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.ReviewApprovedImmutable, errorBody(t, w).Error)

	w = serve(t, setupReviewRouter(testDB, 8), http.MethodDelete, fmt.Sprintf("%s/%d", admin, review.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(t, owner, http.MethodDelete, fmt.Sprintf("%s/%d", admin, review.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestReviewController_CreateRejections(t *testing.T) {
	testDB := setupControllerTest(t)
	createCompany(t, testDB, "vitro", 7)
	router := setupReviewRouter(testDB, 0)

	w := serve(t, router, http.MethodPost, "/companies/vitro/reviews", gin.H{
		"author_name": "Ana", "rating": 6, "content": "Demasiado",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ReviewInvalidRating, errorBody(t, w).Error)

	w = serve(t, router, http.MethodPost, "/companies/no-existe/reviews", gin.H{
		"author_name": "Ana", "rating": 5, "content": "Hola",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.CompanyNotFound, errorBody(t, w).Error)
}
