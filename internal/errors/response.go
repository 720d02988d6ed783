package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string            `json:"error"`            // error code, mapped by clients
	Message string            `json:"message"`          // user facing message
	Fields  map[string]string `json:"fields,omitempty"` // per-field reasons for validation errors
}

// RespondWithError writes the standard error body.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Debes iniciar sesión"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "No tienes permiso para realizar esta acción"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Ocurrió un error en el servidor. Inténtalo de nuevo más tarde"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   ValidationInvalidInput,
		Message: "Los datos ingresados no son válidos",
		Fields:  fields,
	})
}

// RespondWithAppError maps the error taxonomy onto HTTP responses:
// validation -> 400, conflict -> 409, status errors -> their status,
// transport -> 502, submission -> 500. Anything else goes through ParseError.
func RespondWithAppError(c *gin.Context, err error, context string) {
	var (
		validationErr *ValidationError
		conflictErr   *ConflictError
		statusErr     *StatusError
		transportErr  *TransportError
		submissionErr *SubmissionError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   validationErr.Code,
			Message: validationErr.Message,
			Fields:  validationErr.Fields,
		})
	case errors.As(err, &conflictErr):
		resp := ErrorResponse{Error: conflictErr.Code, Message: conflictErr.Message}
		if conflictErr.Field != "" {
			resp.Fields = map[string]string{conflictErr.Field: conflictErr.Message}
		}
		c.JSON(http.StatusConflict, resp)
	case errors.As(err, &statusErr):
		RespondWithError(c, statusErr.Status, statusErr.Code, statusErr.Message)
	case errors.As(err, &submissionErr):
		RespondWithError(c, http.StatusInternalServerError, SubmissionFailed,
			"No pudimos publicar tu perfil. Tus datos se conservaron, inténtalo de nuevo")
	case errors.As(err, &transportErr):
		RespondWithError(c, http.StatusBadGateway, InternalExternalAPI,
			"No pudimos guardar los cambios. Inténtalo de nuevo")
	case errors.Is(err, gorm.ErrRecordNotFound):
		ParseAndRespond(c, http.StatusNotFound, err, context)
	default:
		ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
