package service

import (
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
)

var (
	ErrSignInRequired = apperrors.UnauthorizedError(apperrors.AuthUnauthorized, "Debes iniciar sesión para publicar")

	ErrCompanyNotFound     = apperrors.NotFoundError(apperrors.CompanyNotFound, "No encontramos la empresa")
	ErrCompanyAccessDenied = apperrors.ForbiddenError(apperrors.AuthzOwnerOnly, "Solo el dueño puede modificar esta empresa")

	ErrWizardSessionNotFound = apperrors.NotFoundError(apperrors.WizardSessionNotFound, "La sesión de registro expiró. Empieza de nuevo")
	ErrWizardStepMismatch    = apperrors.BadRequestError(apperrors.WizardStepMismatch, "El paso enviado no corresponde al paso actual")
	ErrWizardCannotGoBack    = apperrors.BadRequestError(apperrors.WizardCannotGoBack, "Ya estás en el primer paso")
	ErrWizardNotReady        = apperrors.BadRequestError(apperrors.WizardNotReady, "Completa todos los pasos antes de publicar")

	ErrImageNotFound = apperrors.NotFoundError(apperrors.ResourceNotFound, "No encontramos la imagen")
	ErrInvalidSlot   = apperrors.BadRequestError(apperrors.MediaInvalidSlot, "Tipo de imagen desconocido")

	ErrReviewNotFound          = apperrors.NotFoundError(apperrors.ReviewNotFound, "No encontramos la reseña")
	ErrReviewApprovedImmutable = apperrors.NewConflict(apperrors.ReviewApprovedImmutable, "content", "Una reseña aprobada no se puede modificar")

	ErrBlogNotFound = apperrors.NotFoundError(apperrors.BlogNotFound, "No encontramos la publicación")

	ErrLinkNotFound = apperrors.NotFoundError(apperrors.CollectionItemNotFound, "No encontramos el enlace")
)
