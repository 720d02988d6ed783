package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"gorm.io/gorm"
)

// Submission stages reported in SubmissionError.
const (
	StageSlugCheck     = "slug_check"
	StageInsertCompany = "insert_company"
	StageInsertLinks   = "insert_links"
	StageInsertStats   = "insert_stats"
	StageUpdateCompany = "update_company"
	StageCommit        = "commit"
)

const AdminRedirect = "/admin"

type SubmissionResult struct {
	Company   *model.Company `json:"company"`
	Redirect  string         `json:"redirect"`
	PublicURL string         `json:"public_url,omitempty"`
}

type SubmissionService interface {
	// Submit publishes the session's draft. The session survives any failure so
	// the owner can retry without re-entering data.
	Submit(ctx context.Context, ownerID uint, sessionID string) (*SubmissionResult, error)
}

type submissionService struct {
	db            *gorm.DB
	wizard        WizardService
	drafts        repository.DraftStore
	companyRepo   repository.CompanyRepository
	slugs         SlugChecker
	publicBaseURL string
}

func NewSubmissionService(
	db *gorm.DB,
	wizard WizardService,
	drafts repository.DraftStore,
	companyRepo repository.CompanyRepository,
	slugs SlugChecker,
	publicBaseURL string,
) SubmissionService {
	return &submissionService{
		db:            db,
		wizard:        wizard,
		drafts:        drafts,
		companyRepo:   companyRepo,
		slugs:         slugs,
		publicBaseURL: publicBaseURL,
	}
}

func SuccessRedirect(slug string) string {
	return fmt.Sprintf("/company/%s/success", slug)
}

func (s *submissionService) Submit(ctx context.Context, ownerID uint, sessionID string) (*SubmissionResult, error) {
	if ownerID == 0 {
		return nil, ErrSignInRequired
	}
	session, err := s.wizard.Get(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != model.StepReview {
		return nil, ErrWizardNotReady
	}
	if err := validateDraft(&session.Draft); err != nil {
		return nil, err
	}

	if err := slugResultError(s.slugs.CheckAvailability(ctx, session.Draft.Slug, slugOptions(session))); err != nil {
		var transportErr *apperrors.TransportError
		if errors.As(err, &transportErr) {
			return nil, &apperrors.SubmissionError{Stage: StageSlugCheck, Err: err}
		}
		return nil, err
	}

	var result *SubmissionResult
	if session.Mode == model.WizardEdit {
		result, err = s.submitEdit(ctx, ownerID, session)
	} else {
		result, err = s.submitCreate(ctx, ownerID, session)
	}
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, session.ID); err != nil {
		logger.Warn("Failed to discard consumed wizard session", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
	}
	if s.publicBaseURL != "" {
		result.PublicURL = s.publicBaseURL + "/company/" + result.Company.Slug
	}
	return result, nil
}

// submitCreate writes the company, its links and its stats row in one
// transaction so a failure never leaves a half-built profile behind.
func (s *submissionService) submitCreate(ctx context.Context, ownerID uint, session *model.WizardSession) (*SubmissionResult, error) {
	company := companyFromDraft(&session.Draft, ownerID)

	logger.Info("Publishing company", map[string]interface{}{
		"session_id": session.ID,
		"owner_id":   ownerID,
		"slug":       company.Slug,
		"links":      len(company.SocialLinks),
	})

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, &apperrors.SubmissionError{Stage: StageInsertCompany, Err: tx.Error}
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Company publication rolled back due to panic", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"session_id": session.ID,
			})
			panic(r)
		}
	}()

	if err := repository.NewCompanyRepository(tx).Create(ctx, company); err != nil {
		tx.Rollback()
		if apperrors.ParseError(err, "create company").Code == apperrors.SlugTaken {
			// lost a race with another owner between the check and the insert
			return nil, apperrors.NewConflict(apperrors.SlugTaken, "slug", "Esa dirección ya está en uso")
		}
		return nil, &apperrors.SubmissionError{Stage: StageInsertCompany, Err: err}
	}

	links := linksFromEntries(company.ID, company.SocialLinks)
	if err := repository.NewSocialLinkRepository(tx).CreateBatch(ctx, links); err != nil {
		tx.Rollback()
		return nil, &apperrors.SubmissionError{Stage: StageInsertLinks, Err: err}
	}

	if err := repository.NewStatsRepository(tx).Create(ctx, company.ID); err != nil {
		tx.Rollback()
		return nil, &apperrors.SubmissionError{Stage: StageInsertStats, Err: err}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, &apperrors.SubmissionError{Stage: StageCommit, Err: err}
	}

	logger.Info("Company published", map[string]interface{}{
		"company_id": company.ID,
		"slug":       company.Slug,
	})
	return &SubmissionResult{Company: company, Redirect: SuccessRedirect(company.Slug)}, nil
}

func (s *submissionService) submitEdit(ctx context.Context, ownerID uint, session *model.WizardSession) (*SubmissionResult, error) {
	company, err := s.companyRepo.FindByID(ctx, *session.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, &apperrors.SubmissionError{Stage: StageUpdateCompany, Err: err}
	}
	if company.OwnerID != ownerID {
		return nil, ErrCompanyAccessDenied
	}

	applyDraft(company, &session.Draft)
	if err := s.companyRepo.Update(ctx, company); err != nil {
		if apperrors.ParseError(err, "update company").Code == apperrors.SlugTaken {
			return nil, apperrors.NewConflict(apperrors.SlugTaken, "slug", "Esa dirección ya está en uso")
		}
		return nil, &apperrors.SubmissionError{Stage: StageUpdateCompany, Err: err}
	}

	logger.Info("Company updated from wizard", map[string]interface{}{
		"company_id": company.ID,
		"slug":       company.Slug,
	})
	return &SubmissionResult{Company: company, Redirect: AdminRedirect}, nil
}

// validateDraft re-checks the invariants a stored session could have lost.
func validateDraft(d *model.Draft) error {
	fields := map[string]string{}
	if len([]rune(d.Name)) < model.MinCompanyNameLength {
		fields["name"] = "min"
	}
	if !d.Category.Valid() {
		fields["category"] = "company_category"
	}
	if d.Slug == "" {
		fields["slug"] = "required"
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{
			Code:    apperrors.WizardNotReady,
			Message: "Completa todos los pasos antes de publicar",
			Fields:  fields,
		}
	}
	return nil
}

func companyFromDraft(d *model.Draft, ownerID uint) *model.Company {
	company := &model.Company{OwnerID: ownerID, Name: d.Name}
	applyDraft(company, d)
	return company
}

// applyDraft copies every mutable field. Name is set only on creation.
func applyDraft(c *model.Company, d *model.Draft) {
	c.Slug = d.Slug
	c.Category = d.Category
	c.ShortDescription = d.ShortDescription
	c.Description = d.Description
	c.Phone = d.Phone
	c.Email = d.Email
	c.Website = d.Website
	c.Address = d.Address
	c.City = d.City
	c.Region = d.Region
	c.FoundedYear = d.FoundedYear
	c.EmployeeCount = d.EmployeeCount
	c.Industry = d.Industry
	c.ThemeColor = d.ThemeColor

	var set model.SocialLinkSet
	for _, entry := range d.SocialLinks {
		if entry.Platform == "" || entry.URL == "" || set.Has(entry.Platform) {
			continue
		}
		set = append(set, entry)
	}
	c.SocialLinks = set
}

// linksFromEntries builds link rows with positions 0..n-1 in list order.
func linksFromEntries(companyID uint, entries model.SocialLinkSet) []model.SocialLink {
	links := make([]model.SocialLink, 0, len(entries))
	for i, entry := range entries {
		platform := entry.Platform
		title := platform
		if p, ok := model.LookupSocialPlatform(platform); ok {
			title = p.Label
		}
		links = append(links, model.SocialLink{
			CompanyID: companyID,
			Title:     title,
			URL:       entry.URL,
			Position:  i,
			IsActive:  true,
			Platform:  &platform,
		})
	}
	return links
}
