package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/service"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/internal/middleware"
)

type WizardController struct {
	wizardService     service.WizardService
	submissionService service.SubmissionService
}

func NewWizardController(wizardService service.WizardService, submissionService service.SubmissionService) *WizardController {
	return &WizardController{
		wizardService:     wizardService,
		submissionService: submissionService,
	}
}

type sessionResponse struct {
	*model.WizardSession
	StepName string `json:"step_name"`
}

func newSessionResponse(session *model.WizardSession) sessionResponse {
	return sessionResponse{WizardSession: session, StepName: session.Step.String()}
}

// StartSession opens a wizard session. A company_id in the body opens the
// edit wizard for that company, which requires a signed-in owner.
// POST /api/v1/wizard/sessions
func (ctrl *WizardController) StartSession(c *gin.Context) {
	var input struct {
		CompanyID *uint `json:"company_id"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &input) {
		return
	}

	var (
		session *model.WizardSession
		err     error
	)
	if input.CompanyID != nil {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		session, err = ctrl.wizardService.StartEdit(c.Request.Context(), userID, *input.CompanyID)
	} else {
		session, err = ctrl.wizardService.Start(c.Request.Context(), currentUser(c))
	}
	if err != nil {
		apperrors.RespondWithAppError(c, err, "wizard")
		return
	}

	c.JSON(http.StatusCreated, newSessionResponse(session))
}

// GetSession returns the session and its draft.
// GET /api/v1/wizard/sessions/:id
func (ctrl *WizardController) GetSession(c *gin.Context) {
	session, err := ctrl.wizardService.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		apperrors.RespondWithAppError(c, err, "wizard")
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session))
}

// CompleteStep validates the current step and moves forward.
// POST /api/v1/wizard/sessions/:id/steps/:step
func (ctrl *WizardController) CompleteStep(c *gin.Context) {
	step, ok := model.ParseWizardStep(c.Param("step"))
	if !ok {
		apperrors.RespondWithAppError(c, service.ErrWizardStepMismatch, "wizard")
		return
	}

	var input service.StepInput
	if !bindJSON(c, &input) {
		return
	}

	log := middleware.GetLoggerFromContext(c)
	session, err := ctrl.wizardService.Advance(c.Request.Context(), currentUser(c), c.Param("id"), step, input)
	if err != nil {
		log.Debug("Wizard step not completed", map[string]interface{}{
			"session_id": c.Param("id"),
			"step":       step.String(),
			"error":      err.Error(),
		})
		apperrors.RespondWithAppError(c, err, "wizard")
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(session))
}

// Back returns to the previous step keeping the draft.
// POST /api/v1/wizard/sessions/:id/back
func (ctrl *WizardController) Back(c *gin.Context) {
	session, err := ctrl.wizardService.Back(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		apperrors.RespondWithAppError(c, err, "wizard")
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session))
}

// Discard drops the session.
// DELETE /api/v1/wizard/sessions/:id
func (ctrl *WizardController) Discard(c *gin.Context) {
	if err := ctrl.wizardService.Discard(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		apperrors.RespondWithAppError(c, err, "wizard")
		return
	}
	c.Status(http.StatusNoContent)
}

// Submit publishes the draft. Guests get 401 and keep their draft.
// POST /api/v1/wizard/sessions/:id/submit
func (ctrl *WizardController) Submit(c *gin.Context) {
	userID := currentUser(c)
	result, err := ctrl.submissionService.Submit(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Profile submission failed", map[string]interface{}{
			"session_id": c.Param("id"),
			"owner_id":   userID,
			"error":      err.Error(),
		})
		apperrors.RespondWithAppError(c, err, "submission")
		return
	}

	c.JSON(http.StatusOK, result)
}
