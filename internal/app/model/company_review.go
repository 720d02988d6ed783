package model

import (
	"time"
)

// CompanyReview is a visitor review. New reviews start unapproved; once approved the
// content can no longer change.
type CompanyReview struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CompanyID   uint       `gorm:"not null;index" json:"company_id"`
	Company     Company    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	AuthorName  string     `gorm:"not null" json:"author_name"`
	AuthorEmail string     `json:"-"`
	Rating      int        `gorm:"not null" json:"rating"` // 1-5
	Content     string     `gorm:"type:text;not null" json:"content"`
	IsApproved  bool       `gorm:"default:false;index" json:"is_approved"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (CompanyReview) TableName() string {
	return "company_reviews"
}
