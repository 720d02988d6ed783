package model

import (
	"time"
)

// CompanyCategory is the closed set of profile kinds.
type CompanyCategory string

const (
	CategoryMedicalCenter CompanyCategory = "centro-medico"
	CategoryClinic        CompanyCategory = "clinica"
	CategoryPractice      CompanyCategory = "consultorio"
	CategoryLaboratory    CompanyCategory = "laboratorio"
	CategoryPharmacy      CompanyCategory = "farmacia"
	CategoryProfessional  CompanyCategory = "profesional"
	CategoryCompany       CompanyCategory = "empresa"
	CategoryStore         CompanyCategory = "comercio"
)

var companyCategories = []CompanyCategory{
	CategoryMedicalCenter,
	CategoryClinic,
	CategoryPractice,
	CategoryLaboratory,
	CategoryPharmacy,
	CategoryProfessional,
	CategoryCompany,
	CategoryStore,
}

// CompanyCategories returns the enumerated categories in display order.
func CompanyCategories() []CompanyCategory {
	out := make([]CompanyCategory, len(companyCategories))
	copy(out, companyCategories)
	return out
}

// Valid reports whether c belongs to the enumerated set.
func (c CompanyCategory) Valid() bool {
	for _, known := range companyCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Employee count buckets
const (
	EmployeesMicro      = "1-10"
	EmployeesSmall      = "11-50"
	EmployeesMedium     = "51-200"
	EmployeesLarge      = "201-500"
	EmployeesEnterprise = "500+"
)

const (
	MinCompanyNameLength = 3
	MaxSlugLength        = 80
)

// Company is the public profile owned by one account and reachable by its slug.
type Company struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	OwnerID          uint            `gorm:"index;not null" json:"owner_id"`
	Name             string          `gorm:"not null" json:"name"` // immutable after creation
	Slug             string          `gorm:"type:varchar(80);uniqueIndex;not null" json:"slug"`
	Category         CompanyCategory `gorm:"type:varchar(50);index;not null" json:"category"`
	ShortDescription string          `gorm:"type:varchar(280)" json:"short_description"`
	Description      string          `gorm:"type:text" json:"description"`
	Phone            string          `gorm:"type:varchar(30)" json:"phone"`
	Email            string          `json:"email"`
	Website          string          `json:"website"`
	Address          string          `gorm:"type:text" json:"address"`
	City             string          `gorm:"index" json:"city"`
	Region           string          `gorm:"index" json:"region"`
	FoundedYear      *int            `json:"founded_year,omitempty"`
	EmployeeCount    string          `gorm:"type:varchar(20)" json:"employee_count"`
	Industry         string          `gorm:"type:varchar(100)" json:"industry"`
	ThemeColor       string          `gorm:"type:varchar(7)" json:"theme_color"`

	// Stored as a flat platform -> url object; see SocialLinkSet.
	SocialLinks SocialLinkSet `gorm:"type:text" json:"social_links"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}

// CompanyStats holds the public counters of a company.
type CompanyStats struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CompanyID  uint      `gorm:"uniqueIndex;not null" json:"company_id"`
	Company    Company   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ViewCount  int64     `gorm:"default:0" json:"view_count"`
	ClickCount int64     `gorm:"default:0" json:"click_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CompanyStats) TableName() string {
	return "company_stats"
}
