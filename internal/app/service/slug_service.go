package service

import (
	"context"

	"github.com/ikkim/directorio-backend/internal/app/repository"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"github.com/ikkim/directorio-backend/pkg/util"
)

type SlugStatus string

const (
	SlugAvailable SlugStatus = "available"
	SlugTaken     SlugStatus = "taken"
	SlugInvalid   SlugStatus = "invalid"
	// SlugUnknown means the lookup itself failed; the candidate may be retried.
	SlugUnknown SlugStatus = "unknown"
)

const slugLookupFailed = "lookup_failed"

type SlugResult struct {
	Candidate string     `json:"candidate"`
	Status    SlugStatus `json:"status"`
	Reason    string     `json:"reason,omitempty"`
}

// SlugCheckOptions describe the company being edited, if any.
type SlugCheckOptions struct {
	ExcludeID   uint
	CurrentSlug string
}

type SlugChecker interface {
	CheckAvailability(ctx context.Context, candidate string, opts SlugCheckOptions) SlugResult
}

type SlugService interface {
	SlugChecker
	Derive(name string) string
}

type slugService struct {
	companyRepo repository.CompanyRepository
}

func NewSlugService(companyRepo repository.CompanyRepository) SlugService {
	return &slugService{companyRepo: companyRepo}
}

func (s *slugService) Derive(name string) string {
	return util.DeriveSlug(name)
}

// checkSlugLocally resolves what needs no store access: malformed candidates
// and a company keeping its own slug.
func checkSlugLocally(candidate string, opts SlugCheckOptions) (SlugResult, bool) {
	if reason := util.CheckSlugFormat(candidate); reason != "" {
		return SlugResult{Candidate: candidate, Status: SlugInvalid, Reason: reason}, true
	}
	if opts.CurrentSlug != "" && candidate == opts.CurrentSlug {
		return SlugResult{Candidate: candidate, Status: SlugAvailable}, true
	}
	return SlugResult{}, false
}

func (s *slugService) CheckAvailability(ctx context.Context, candidate string, opts SlugCheckOptions) SlugResult {
	if result, ok := checkSlugLocally(candidate, opts); ok {
		return result
	}

	available, err := s.companyRepo.IsSlugAvailable(ctx, candidate, opts.ExcludeID)
	if err != nil {
		logger.Warn("Slug lookup failed", map[string]interface{}{
			"candidate": candidate,
			"error":     err.Error(),
		})
		return SlugResult{Candidate: candidate, Status: SlugUnknown, Reason: slugLookupFailed}
	}
	if !available {
		return SlugResult{Candidate: candidate, Status: SlugTaken}
	}
	return SlugResult{Candidate: candidate, Status: SlugAvailable}
}
