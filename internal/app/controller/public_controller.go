package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/service"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
)

type PublicController struct {
	publicService service.PublicService
}

func NewPublicController(publicService service.PublicService) *PublicController {
	return &PublicController{
		publicService: publicService,
	}
}

// GetProfile renders the public page of a company and counts a view.
// GET /api/v1/companies/:slug
func (ctrl *PublicController) GetProfile(c *gin.Context) {
	profile, err := ctrl.publicService.GetProfile(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apperrors.RespondWithAppError(c, err, "company")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ClickLink counts a visit through a link and returns where to go.
// POST /api/v1/links/:id/click
func (ctrl *PublicController) ClickLink(c *gin.Context) {
	linkID, ok := parseID(c, "id")
	if !ok {
		return
	}

	link, err := ctrl.publicService.ClickLink(c.Request.Context(), linkID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "link")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":         link.URL,
		"click_count": link.ClickCount,
	})
}

// ClickProduct
// POST /api/v1/products/:id/click
func (ctrl *PublicController) ClickProduct(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.publicService.ClickProduct(c.Request.Context(), productID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "product")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":         product.URL,
		"click_count": product.ClickCount,
	})
}

// ListPlatforms returns the supported social platforms.
// GET /api/v1/platforms
func (ctrl *PublicController) ListPlatforms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"platforms": model.SocialPlatforms()})
}

// ListCategories returns the company categories.
// GET /api/v1/categories
func (ctrl *PublicController) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": model.CompanyCategories()})
}
