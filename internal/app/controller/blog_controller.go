package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/directorio-backend/internal/app/service"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
)

type BlogController struct {
	blogService   service.BlogService
	publicService service.PublicService
}

func NewBlogController(blogService service.BlogService, publicService service.PublicService) *BlogController {
	return &BlogController{
		blogService:   blogService,
		publicService: publicService,
	}
}

// ListBlogs returns drafts and published posts.
// GET /api/v1/admin/companies/:companyId/blogs
func (ctrl *BlogController) ListBlogs(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	companyID, ok := parseID(c, "companyId")
	if !ok {
		return
	}

	blogs, err := ctrl.blogService.ListBlogs(c.Request.Context(), userID, companyID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "blog")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"blogs": blogs,
		"count": len(blogs),
	})
}

// CreateBlog
// POST /api/v1/admin/companies/:companyId/blogs
func (ctrl *BlogController) CreateBlog(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	companyID, ok := parseID(c, "companyId")
	if !ok {
		return
	}

	var input service.BlogInput
	if !bindJSON(c, &input) {
		return
	}

	blog, err := ctrl.blogService.CreateBlog(c.Request.Context(), userID, companyID, input)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "blog")
		return
	}
	c.JSON(http.StatusCreated, blog)
}

// UpdateBlog
// PUT /api/v1/admin/companies/:companyId/blogs/:blogId
func (ctrl *BlogController) UpdateBlog(c *gin.Context) {
	userID, companyID, blogID, ok := blogParams(c)
	if !ok {
		return
	}

	var input service.BlogInput
	if !bindJSON(c, &input) {
		return
	}

	blog, err := ctrl.blogService.UpdateBlog(c.Request.Context(), userID, companyID, blogID, input)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "blog")
		return
	}
	c.JSON(http.StatusOK, blog)
}

// SetPublished publishes or unpublishes a post.
// PUT /api/v1/admin/companies/:companyId/blogs/:blogId/published
func (ctrl *BlogController) SetPublished(c *gin.Context) {
	userID, companyID, blogID, ok := blogParams(c)
	if !ok {
		return
	}

	var input struct {
		Published *bool `json:"published" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	blog, err := ctrl.blogService.SetPublished(c.Request.Context(), userID, companyID, blogID, *input.Published)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "blog")
		return
	}
	c.JSON(http.StatusOK, blog)
}

// DeleteBlog
// DELETE /api/v1/admin/companies/:companyId/blogs/:blogId
func (ctrl *BlogController) DeleteBlog(c *gin.Context) {
	userID, companyID, blogID, ok := blogParams(c)
	if !ok {
		return
	}

	if err := ctrl.blogService.DeleteBlog(c.Request.Context(), userID, companyID, blogID); err != nil {
		apperrors.RespondWithAppError(c, err, "blog")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPublished renders one published post of a public profile.
// GET /api/v1/companies/:slug/blogs/:blogSlug
func (ctrl *BlogController) GetPublished(c *gin.Context) {
	company, err := ctrl.publicService.FindCompany(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apperrors.RespondWithAppError(c, err, "company")
		return
	}

	blog, err := ctrl.blogService.GetPublished(c.Request.Context(), company.ID, c.Param("blogSlug"))
	if err != nil {
		apperrors.RespondWithAppError(c, err, "blog")
		return
	}
	c.JSON(http.StatusOK, blog)
}

func blogParams(c *gin.Context) (userID, companyID, blogID uint, ok bool) {
	if userID, ok = requireUser(c); !ok {
		return
	}
	if companyID, ok = parseID(c, "companyId"); !ok {
		return
	}
	blogID, ok = parseID(c, "blogId")
	return
}
