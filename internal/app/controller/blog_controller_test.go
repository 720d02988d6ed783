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

func setupBlogRouter(testDB *gorm.DB, userID uint) *gin.Engine {
	companyRepo := repository.NewCompanyRepository(testDB)
	ctrl := NewBlogController(
		service.NewBlogService(companyRepo, repository.NewBlogRepository(testDB)),
		service.NewPublicService(testDB),
	)

	router := newTestRouter(userID)
	router.GET("/companies/:slug/blogs/:blogSlug", ctrl.GetPublished)
	admin := router.Group("/admin/companies/:companyId/blogs")
	admin.GET("", ctrl.ListBlogs)
	admin.POST("", ctrl.CreateBlog)
	admin.PUT("/:blogId", ctrl.UpdateBlog)
	admin.PUT("/:blogId/published", ctrl.SetPublished)
	admin.DELETE("/:blogId", ctrl.DeleteBlog)
	return router
}

func TestBlogController_PublishFlow(t *testing.T) {
	testDB := setupControllerTest(t)
	company := createCompany(t, testDB, "vitro", 7)
	owner := setupBlogRouter(testDB, 7)
	admin := fmt.Sprintf("/admin/companies/%d/blogs", company.ID)

	w := serve(t, owner, http.MethodPost, admin, gin.H{"title": "Cuidados en Invierno", "content": "..."})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var blog model.Blog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &blog))
	assert.Equal(t, "cuidados-en-invierno", blog.Slug)

	// drafts are not public
	w = serve(t, owner, http.MethodGet, "/companies/vitro/blogs/cuidados-en-invierno", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, owner, http.MethodPut, fmt.Sprintf("%s/%d/published", admin, blog.ID), gin.H{"published": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = serve(t, owner, http.MethodGet, "/companies/vitro/blogs/cuidados-en-invierno", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// the same title derives a suffixed slug
	w = serve(t, owner, http.MethodPost, admin, gin.H{"title": "Cuidados en invierno"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &blog))
	assert.Equal(t, "cuidados-en-invierno-2", blog.Slug)

	// a manual slug that is taken is rejected
	w = serve(t, owner, http.MethodPost, admin, gin.H{"title": "Otro", "slug": "cuidados-en-invierno"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.SlugTaken, errorBody(t, w).Error)

	w = serve(t, owner, http.MethodPut, fmt.Sprintf("%s/%d/published", admin, blog.ID), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, owner, http.MethodDelete, fmt.Sprintf("%s/%d", admin, blog.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(t, owner, http.MethodGet, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
}
