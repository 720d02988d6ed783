package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/directorio-backend/internal/app/service"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
)

type HoursController struct {
	hoursService service.HoursService
}

func NewHoursController(hoursService service.HoursService) *HoursController {
	return &HoursController{
		hoursService: hoursService,
	}
}

// parseDay reads the :day parameter; range checks happen in the service.
func parseDay(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Día de la semana inválido")
		return 0, false
	}
	return day, true
}

// ListHours
// GET /api/v1/admin/companies/:companyId/hours
func (ctrl *HoursController) ListHours(c *gin.Context) {
	companyID, ok := parseID(c, "companyId")
	if !ok {
		return
	}

	hours, err := ctrl.hoursService.ListHours(c.Request.Context(), companyID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "hours")
		return
	}
	c.JSON(http.StatusOK, gin.H{"hours": hours})
}

// SetHours replaces the opening hours of one weekday (0 = Sunday).
// PUT /api/v1/admin/companies/:companyId/hours/:day
func (ctrl *HoursController) SetHours(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	companyID, ok := parseID(c, "companyId")
	if !ok {
		return
	}
	day, ok := parseDay(c)
	if !ok {
		return
	}

	var input service.HourInput
	if !bindJSON(c, &input) {
		return
	}

	hour, err := ctrl.hoursService.SetHours(c.Request.Context(), userID, companyID, day, input)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "hours")
		return
	}
	c.JSON(http.StatusOK, hour)
}

// ClearDay
// DELETE /api/v1/admin/companies/:companyId/hours/:day
func (ctrl *HoursController) ClearDay(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	companyID, ok := parseID(c, "companyId")
	if !ok {
		return
	}
	day, ok := parseDay(c)
	if !ok {
		return
	}

	if err := ctrl.hoursService.ClearDay(c.Request.Context(), userID, companyID, day); err != nil {
		apperrors.RespondWithAppError(c, err, "hours")
		return
	}
	c.Status(http.StatusNoContent)
}
