package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"github.com/ikkim/directorio-backend/pkg/util"
	"gorm.io/gorm"
)

var errSlugLookup = errors.New("slug availability lookup failed")

type BasicInfoInput struct {
	Name     string                `json:"name" validate:"required,min=3,max=120"`
	Slug     string                `json:"slug" validate:"omitempty,max=80"`
	Category model.CompanyCategory `json:"category" validate:"required,company_category"`
}

type CompanyDetailsInput struct {
	ShortDescription string `json:"short_description" validate:"max=280"`
	Description      string `json:"description" validate:"max=5000"`
	Phone            string `json:"phone" validate:"max=30"`
	Email            string `json:"email" validate:"omitempty,email"`
	Website          string `json:"website" validate:"omitempty,url"`
	Address          string `json:"address" validate:"max=300"`
	City             string `json:"city" validate:"max=100"`
	Region           string `json:"region" validate:"max=100"`
	FoundedYear      *int   `json:"founded_year" validate:"omitempty,min=1800,max=2100"`
	EmployeeCount    string `json:"employee_count" validate:"omitempty,employee_bucket"`
	Industry         string `json:"industry" validate:"max=100"`
	ThemeColor       string `json:"theme_color" validate:"omitempty,hexcolor"`
}

type SocialLinkInput struct {
	Platform string `json:"platform" validate:"required"`
	URL      string `json:"url" validate:"required,max=500"`
}

type SocialLinksInput struct {
	Links []SocialLinkInput `json:"links" validate:"max=20,dive"`
}

// StepInput carries the fields of the step being completed. Only the member
// matching the session's current step is read.
type StepInput struct {
	BasicInfo      *BasicInfoInput      `json:"basic_info,omitempty"`
	CompanyDetails *CompanyDetailsInput `json:"company_details,omitempty"`
	SocialLinks    *SocialLinksInput    `json:"social_links,omitempty"`
}

type WizardService interface {
	// Start opens a create session. ownerID 0 starts an anonymous session that
	// is claimed by the first signed-in request.
	Start(ctx context.Context, ownerID uint) (*model.WizardSession, error)
	StartEdit(ctx context.Context, ownerID, companyID uint) (*model.WizardSession, error)
	Get(ctx context.Context, ownerID uint, sessionID string) (*model.WizardSession, error)
	Advance(ctx context.Context, ownerID uint, sessionID string, step model.WizardStep, input StepInput) (*model.WizardSession, error)
	Back(ctx context.Context, ownerID uint, sessionID string) (*model.WizardSession, error)
	Discard(ctx context.Context, ownerID uint, sessionID string) error
}

type wizardService struct {
	drafts      repository.DraftStore
	companyRepo repository.CompanyRepository
	slugs       SlugChecker
	now         func() time.Time
}

func NewWizardService(drafts repository.DraftStore, companyRepo repository.CompanyRepository, slugs SlugChecker) WizardService {
	return &wizardService{
		drafts:      drafts,
		companyRepo: companyRepo,
		slugs:       slugs,
		now:         time.Now,
	}
}

func (s *wizardService) Start(ctx context.Context, ownerID uint) (*model.WizardSession, error) {
	session := &model.WizardSession{
		ID:   uuid.NewString(),
		Mode: model.WizardCreate,
		Step: model.StepBasicInfo,
		Draft: model.Draft{
			SocialLinks: []model.SocialLinkEntry{},
		},
	}
	if ownerID != 0 {
		owner := ownerID
		session.OwnerID = &owner
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	logger.Info("Wizard session started", map[string]interface{}{
		"session_id": session.ID,
		"owner_id":   ownerID,
	})
	return session, nil
}

func (s *wizardService) StartEdit(ctx context.Context, ownerID, companyID uint) (*model.WizardSession, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, apperrors.NewTransportError("load company", err)
	}
	if company.OwnerID != ownerID {
		logger.Warn("Edit wizard denied", map[string]interface{}{
			"company_id": companyID,
			"owner_id":   ownerID,
		})
		return nil, ErrCompanyAccessDenied
	}

	owner := ownerID
	id := company.ID
	session := &model.WizardSession{
		ID:           uuid.NewString(),
		Mode:         model.WizardEdit,
		Step:         model.StepBasicInfo,
		OwnerID:      &owner,
		CompanyID:    &id,
		OriginalSlug: company.Slug,
		Draft:        model.HydrateDraft(company),
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	logger.Info("Edit wizard session started", map[string]interface{}{
		"session_id": session.ID,
		"company_id": companyID,
	})
	return session, nil
}

func (s *wizardService) Get(ctx context.Context, ownerID uint, sessionID string) (*model.WizardSession, error) {
	session, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrDraftNotFound) {
			return nil, ErrWizardSessionNotFound
		}
		return nil, apperrors.NewTransportError("load draft", err)
	}

	switch {
	case session.OwnerID == nil && ownerID != 0:
		// anonymous session picked up after sign in
		owner := ownerID
		session.OwnerID = &owner
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
	case session.OwnerID != nil && *session.OwnerID != ownerID:
		return nil, ErrWizardSessionNotFound
	}
	return session, nil
}

func (s *wizardService) Advance(ctx context.Context, ownerID uint, sessionID string, step model.WizardStep, input StepInput) (*model.WizardSession, error) {
	session, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if step != session.Step || step == model.StepReview {
		return nil, ErrWizardStepMismatch
	}

	var patch model.DraftPatch
	switch step {
	case model.StepBasicInfo:
		patch, err = s.basicInfoPatch(ctx, session, input.BasicInfo)
	case model.StepCompanyDetails:
		patch, err = companyDetailsPatch(input.CompanyDetails)
	case model.StepSocialLinks:
		patch, err = socialLinksPatch(input.SocialLinks)
	}
	if err != nil {
		logger.Debug("Wizard step rejected", map[string]interface{}{
			"session_id": session.ID,
			"step":       step.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	session.Draft.Apply(patch)
	session.Step = step + 1
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *wizardService) Back(ctx context.Context, ownerID uint, sessionID string) (*model.WizardSession, error) {
	session, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step == model.StepBasicInfo {
		return nil, ErrWizardCannotGoBack
	}
	session.Step--
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *wizardService) Discard(ctx context.Context, ownerID uint, sessionID string) error {
	if _, err := s.Get(ctx, ownerID, sessionID); err != nil {
		return err
	}
	return apperrors.NewTransportError("delete draft", s.drafts.Delete(ctx, sessionID))
}

func (s *wizardService) save(ctx context.Context, session *model.WizardSession) error {
	session.UpdatedAt = s.now()
	if err := s.drafts.Save(ctx, session); err != nil {
		logger.Error("Failed to save wizard session", err, map[string]interface{}{
			"session_id": session.ID,
		})
		return apperrors.NewTransportError("save draft", err)
	}
	return nil
}

func (s *wizardService) basicInfoPatch(ctx context.Context, session *model.WizardSession, in *BasicInfoInput) (model.DraftPatch, error) {
	if in == nil {
		return model.DraftPatch{}, apperrors.NewFieldError(apperrors.ValidationRequired, "basic_info", "required")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := validateInput(apperrors.ValidationInvalidInput, in); err != nil {
		return model.DraftPatch{}, err
	}
	if session.Mode == model.WizardEdit && in.Name != session.Draft.Name {
		return model.DraftPatch{}, apperrors.NewFieldError(apperrors.CompanyNameImmutable, "name", "immutable")
	}

	slug := in.Slug
	if slug == "" {
		slug = util.DeriveSlug(in.Name)
	}
	if err := s.ensureSlugAvailable(ctx, session, slug); err != nil {
		return model.DraftPatch{}, err
	}

	name, category := in.Name, in.Category
	return model.DraftPatch{Name: &name, Slug: &slug, Category: &category}, nil
}

// ensureSlugAvailable turns a slug check into the error taxonomy.
func (s *wizardService) ensureSlugAvailable(ctx context.Context, session *model.WizardSession, slug string) error {
	return slugResultError(s.slugs.CheckAvailability(ctx, slug, slugOptions(session)))
}

func slugOptions(session *model.WizardSession) SlugCheckOptions {
	opts := SlugCheckOptions{CurrentSlug: session.OriginalSlug}
	if session.CompanyID != nil {
		opts.ExcludeID = *session.CompanyID
	}
	return opts
}

func slugResultError(result SlugResult) error {
	switch result.Status {
	case SlugAvailable:
		return nil
	case SlugInvalid:
		return apperrors.NewFieldError(apperrors.SlugInvalid, "slug", result.Reason)
	case SlugTaken:
		return apperrors.NewConflict(apperrors.SlugTaken, "slug", "Esa dirección ya está en uso")
	default:
		return apperrors.NewTransportError("slug check", fmt.Errorf("%w: %s", errSlugLookup, result.Candidate))
	}
}

func companyDetailsPatch(in *CompanyDetailsInput) (model.DraftPatch, error) {
	if in == nil {
		return model.DraftPatch{}, apperrors.NewFieldError(apperrors.ValidationRequired, "company_details", "required")
	}
	if err := validateInput(apperrors.ValidationInvalidInput, in); err != nil {
		return model.DraftPatch{}, err
	}
	patch := model.DraftPatch{
		ShortDescription: &in.ShortDescription,
		Description:      &in.Description,
		Phone:            &in.Phone,
		Email:            &in.Email,
		Website:          &in.Website,
		Address:          &in.Address,
		City:             &in.City,
		Region:           &in.Region,
		EmployeeCount:    &in.EmployeeCount,
		Industry:         &in.Industry,
		ThemeColor:       &in.ThemeColor,
	}
	if in.FoundedYear != nil {
		patch.FoundedYear = in.FoundedYear
	}
	return patch, nil
}

// socialLinksPatch normalizes handles into URLs and replaces the draft's list.
// A platform may appear only once.
func socialLinksPatch(in *SocialLinksInput) (model.DraftPatch, error) {
	if in == nil {
		in = &SocialLinksInput{}
	}
	if err := validateInput(apperrors.ValidationInvalidInput, in); err != nil {
		return model.DraftPatch{}, err
	}

	links := make([]model.SocialLinkEntry, 0, len(in.Links))
	seen := make(map[string]bool, len(in.Links))
	for i, link := range in.Links {
		field := fmt.Sprintf("links[%d].platform", i)
		platform := strings.ToLower(strings.TrimSpace(link.Platform))
		if _, ok := model.LookupSocialPlatform(platform); !ok {
			return model.DraftPatch{}, apperrors.NewFieldError(apperrors.CollectionUnknownPlatform, field, "unknown_platform")
		}
		if seen[platform] {
			return model.DraftPatch{}, apperrors.NewConflict(apperrors.CollectionDuplicatePlatform, field, "Esa red social ya fue agregada")
		}
		seen[platform] = true

		url := model.NormalizeSocialURL(platform, link.URL)
		if url == "" {
			return model.DraftPatch{}, apperrors.NewFieldError(apperrors.ValidationRequired, fmt.Sprintf("links[%d].url", i), "required")
		}
		links = append(links, model.SocialLinkEntry{Platform: platform, URL: url})
	}
	return model.DraftPatch{SocialLinks: &links}, nil
}
