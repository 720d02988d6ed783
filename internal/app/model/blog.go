package model

import "time"

type Blog struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CompanyID   uint       `gorm:"not null;uniqueIndex:idx_blogs_company_slug" json:"company_id"`
	Company     Company    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"type:varchar(80);not null;uniqueIndex:idx_blogs_company_slug" json:"slug"`
	Excerpt     string     `gorm:"type:varchar(300)" json:"excerpt"`
	Content     string     `gorm:"type:text" json:"content"`
	CoverURL    string     `json:"cover_url"`
	IsPublished bool       `gorm:"default:false;index" json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Blog) TableName() string {
	return "blogs"
}
