package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/service"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/internal/middleware"
)

type MediaController struct {
	mediaService service.MediaService
}

func NewMediaController(mediaService service.MediaService) *MediaController {
	return &MediaController{
		mediaService: mediaService,
	}
}

// Upload stores an image in a slot. Logo and cover replace their occupant.
// POST /api/v1/admin/companies/:companyId/media/:slot (multipart: file, purpose)
func (ctrl *MediaController) Upload(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	companyID, ok := parseID(c, "companyId")
	if !ok {
		return
	}

	input := service.UploadInput{
		Slot:    model.ImageType(c.Param("slot")),
		Purpose: service.PurposeGeneral,
	}
	if c.PostForm("purpose") == string(service.PurposePortrait) {
		input.Purpose = service.PurposePortrait
	}

	// a missing file is reported by the service as a field error
	if header, err := c.FormFile("file"); err == nil {
		file, err := header.Open()
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "No pudimos leer el archivo")
			return
		}
		defer file.Close()

		input.Filename = header.Filename
		input.ContentType = header.Header.Get("Content-Type")
		input.Size = header.Size
		input.Body = file
	}

	image, err := ctrl.mediaService.Upload(c.Request.Context(), userID, companyID, input)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Image upload rejected", map[string]interface{}{
			"company_id": companyID,
			"slot":       input.Slot,
			"error":      err.Error(),
		})
		apperrors.RespondWithAppError(c, err, "upload")
		return
	}

	c.JSON(http.StatusCreated, image)
}

// Remove deletes an image from its slot.
// DELETE /api/v1/admin/companies/:companyId/media/:imageId
func (ctrl *MediaController) Remove(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	companyID, ok := parseID(c, "companyId")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageId")
	if !ok {
		return
	}

	if err := ctrl.mediaService.Remove(c.Request.Context(), userID, companyID, imageID); err != nil {
		apperrors.RespondWithAppError(c, err, "image")
		return
	}
	c.Status(http.StatusNoContent)
}

// Slots returns the slot occupancy.
// GET /api/v1/admin/companies/:companyId/media
func (ctrl *MediaController) Slots(c *gin.Context) {
	companyID, ok := parseID(c, "companyId")
	if !ok {
		return
	}

	slots, err := ctrl.mediaService.Slots(c.Request.Context(), companyID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "image")
		return
	}
	c.JSON(http.StatusOK, slots)
}
