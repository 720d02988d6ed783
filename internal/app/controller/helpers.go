package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/internal/middleware"
)

// currentUser returns the signed-in user, or 0 for guests.
func currentUser(c *gin.Context) uint {
	userID, _ := middleware.GetUserID(c)
	return userID
}

// requireUser writes 401 and returns false when nobody is signed in.
func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok || userID == 0 {
		apperrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Identificador inválido")
		return 0, false
	}
	return uint(id), true
}

// bindJSON writes 400 and returns false on a malformed body.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El cuerpo de la solicitud no es válido")
		return false
	}
	return true
}
