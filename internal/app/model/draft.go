package model

import (
	"errors"
	"fmt"
	"time"
)

// WizardStep is a position in the linear profile wizard.
type WizardStep int

const (
	StepBasicInfo WizardStep = iota + 1
	StepCompanyDetails
	StepSocialLinks
	StepReview
)

var wizardStepNames = map[WizardStep]string{
	StepBasicInfo:      "basic_info",
	StepCompanyDetails: "company_details",
	StepSocialLinks:    "social_links",
	StepReview:         "review",
}

func (s WizardStep) String() string {
	if name, ok := wizardStepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s is one of the four wizard steps.
func (s WizardStep) Valid() bool {
	return s >= StepBasicInfo && s <= StepReview
}

// ParseWizardStep maps a step name back to its value.
func ParseWizardStep(name string) (WizardStep, bool) {
	for step, n := range wizardStepNames {
		if n == name {
			return step, true
		}
	}
	return 0, false
}

type WizardMode string

const (
	WizardCreate WizardMode = "create"
	WizardEdit   WizardMode = "edit"
)

// Draft is the unpersisted accumulation of a company's fields across wizard steps.
type Draft struct {
	Name             string            `json:"name"`
	Slug             string            `json:"slug"`
	Category         CompanyCategory   `json:"category"`
	ShortDescription string            `json:"short_description"`
	Description      string            `json:"description"`
	Phone            string            `json:"phone"`
	Email            string            `json:"email"`
	Website          string            `json:"website"`
	Address          string            `json:"address"`
	City             string            `json:"city"`
	Region           string            `json:"region"`
	FoundedYear      *int              `json:"founded_year,omitempty"`
	EmployeeCount    string            `json:"employee_count"`
	Industry         string            `json:"industry"`
	ThemeColor       string            `json:"theme_color"`
	SocialLinks      []SocialLinkEntry `json:"social_links"`
}

// DraftPatch is a partial update. Nil fields are left untouched; SocialLinks
// replaces the whole list when set.
type DraftPatch struct {
	Name             *string
	Slug             *string
	Category         *CompanyCategory
	ShortDescription *string
	Description      *string
	Phone            *string
	Email            *string
	Website          *string
	Address          *string
	City             *string
	Region           *string
	FoundedYear      *int
	EmployeeCount    *string
	Industry         *string
	ThemeColor       *string
	SocialLinks      *[]SocialLinkEntry
}

// Apply merges p into d, last write wins.
func (d *Draft) Apply(p DraftPatch) {
	setString(&d.Name, p.Name)
	setString(&d.Slug, p.Slug)
	if p.Category != nil {
		d.Category = *p.Category
	}
	setString(&d.ShortDescription, p.ShortDescription)
	setString(&d.Description, p.Description)
	setString(&d.Phone, p.Phone)
	setString(&d.Email, p.Email)
	setString(&d.Website, p.Website)
	setString(&d.Address, p.Address)
	setString(&d.City, p.City)
	setString(&d.Region, p.Region)
	if p.FoundedYear != nil {
		year := *p.FoundedYear
		d.FoundedYear = &year
	}
	setString(&d.EmployeeCount, p.EmployeeCount)
	setString(&d.Industry, p.Industry)
	setString(&d.ThemeColor, p.ThemeColor)
	if p.SocialLinks != nil {
		links := make([]SocialLinkEntry, len(*p.SocialLinks))
		copy(links, *p.SocialLinks)
		d.SocialLinks = links
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// HydrateDraft builds a draft from a persisted company for edit mode.
func HydrateDraft(c *Company) Draft {
	d := Draft{
		Name:             c.Name,
		Slug:             c.Slug,
		Category:         c.Category,
		ShortDescription: c.ShortDescription,
		Description:      c.Description,
		Phone:            c.Phone,
		Email:            c.Email,
		Website:          c.Website,
		Address:          c.Address,
		City:             c.City,
		Region:           c.Region,
		EmployeeCount:    c.EmployeeCount,
		Industry:         c.Industry,
		ThemeColor:       c.ThemeColor,
		SocialLinks:      []SocialLinkEntry{},
	}
	if c.FoundedYear != nil {
		year := *c.FoundedYear
		d.FoundedYear = &year
	}
	d.SocialLinks = append(d.SocialLinks, c.SocialLinks...)
	return d
}

// WizardSession is the typed wizard state carried between requests.
type WizardSession struct {
	ID           string     `json:"id"`
	Mode         WizardMode `json:"mode"`
	Step         WizardStep `json:"step"`
	OwnerID      *uint      `json:"owner_id,omitempty"`
	CompanyID    *uint      `json:"company_id,omitempty"`
	OriginalSlug string     `json:"original_slug,omitempty"`
	Draft        Draft      `json:"draft"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

var ErrInvalidWizardSession = errors.New("invalid wizard session")

// Validate checks a session decoded from the draft store before it is trusted.
func (s *WizardSession) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidWizardSession)
	}
	if !s.Step.Valid() {
		return fmt.Errorf("%w: unknown step %d", ErrInvalidWizardSession, int(s.Step))
	}
	switch s.Mode {
	case WizardCreate:
	case WizardEdit:
		if s.CompanyID == nil {
			return fmt.Errorf("%w: edit session without company", ErrInvalidWizardSession)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidWizardSession, s.Mode)
	}
	if s.Draft.Category != "" && !s.Draft.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidWizardSession, s.Draft.Category)
	}
	return nil
}
