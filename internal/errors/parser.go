package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a code plus a user facing message.
type ErrorInfo struct {
	Code    string // see codes.go
	Message string
}

// ParseError turns a raw store error into a code and message safe to show.
// Driver details are never echoed back to the client.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Ocurrió un error en el servidor",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM sentinels
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    notFoundCode(context),
			Message: getNotFoundMessage(context),
		}
	}

	// 2. Constraint violations. Postgres and sqlite word these differently.

	// 2-1. Unique (23505 / "UNIQUE constraint failed")
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// 2-2. Foreign key (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	// 2-3. Not null (23502)
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "Falta un campo obligatorio"}
	}

	// 2-4. Check (23514)
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{Code: ReviewInvalidRating, Message: "La calificación debe estar entre 1 y 5"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Los datos ingresados no son válidos"}
	}

	// 3. Network
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "No pudimos conectar con un servicio externo. Inténtalo de nuevo más tarde",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "slug") && strings.Contains(errLower, "blogs"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Ya existe una publicación con esa dirección"}
	case strings.Contains(errLower, "slug"):
		return ErrorInfo{Code: SlugTaken, Message: "Esa dirección ya está en uso"}
	case strings.Contains(errLower, "day_of_week"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Ese día ya tiene horario registrado"}
	case strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "El registro ya existe. Inténtalo de nuevo"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "El registro ya existe"}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "No se puede eliminar porque tiene datos relacionados",
		}
	}
	if strings.Contains(errLower, "company_id") || strings.Contains(errLower, "fk_companies") {
		return ErrorInfo{Code: CompanyNotFound, Message: "La empresa no existe"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "No se encontró el dato relacionado"}
}

func notFoundCode(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "company"), strings.Contains(contextLower, "profile"):
		return CompanyNotFound
	case strings.Contains(contextLower, "review"):
		return ReviewNotFound
	case strings.Contains(contextLower, "blog"):
		return BlogNotFound
	case strings.Contains(contextLower, "link"), strings.Contains(contextLower, "product"):
		return CollectionItemNotFound
	case strings.Contains(contextLower, "wizard"):
		return WizardSessionNotFound
	}
	return ResourceNotFound
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "company"), strings.Contains(contextLower, "profile"):
		return "No encontramos la empresa"
	case strings.Contains(contextLower, "review"):
		return "No encontramos la reseña"
	case strings.Contains(contextLower, "blog"):
		return "No encontramos la publicación"
	case strings.Contains(contextLower, "link"):
		return "No encontramos el enlace"
	case strings.Contains(contextLower, "product"):
		return "No encontramos el producto"
	case strings.Contains(contextLower, "image"):
		return "No encontramos la imagen"
	case strings.Contains(contextLower, "wizard"):
		return "La sesión de registro expiró. Empieza de nuevo"
	}
	return "No encontramos lo que buscabas"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "create"):
		return "Ocurrió un error al registrar. Inténtalo de nuevo más tarde"
	case strings.Contains(contextLower, "update"):
		return "Ocurrió un error al guardar los cambios. Inténtalo de nuevo más tarde"
	case strings.Contains(contextLower, "delete"):
		return "Ocurrió un error al eliminar. Inténtalo de nuevo más tarde"
	case strings.Contains(contextLower, "upload"):
		return "No pudimos subir la imagen. Inténtalo de nuevo más tarde"
	}
	return "Ocurrió un error en el servidor. Inténtalo de nuevo más tarde"
}

// ParseAndRespond parses err and writes it as an ErrorResponse.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
