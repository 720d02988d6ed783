package model

import (
	"time"
)

type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CompanyID   uint      `gorm:"not null;index" json:"company_id"`
	Company     Company   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       *float64  `json:"price,omitempty"`
	URL         string    `gorm:"type:text" json:"url"`
	ImageURL    string    `json:"image_url"`
	Position    int       `gorm:"not null;default:0;index" json:"position"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	ClickCount  int64     `gorm:"default:0" json:"click_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) ResourceID() uint          { return p.ID }
func (p *Product) SetResourceID(id uint)     { p.ID = id }
func (p *Product) ResourceTitle() string     { return p.Name }
func (p *Product) SetResourceTitle(t string) { p.Name = t }
func (p *Product) Active() bool              { return p.IsActive }
func (p *Product) SetActive(active bool)     { p.IsActive = active }
func (p *Product) SetPosition(position int)  { p.Position = position }
func (p *Product) ResetCounters()            { p.ClickCount = 0 }
func (p *Product) OwningCompanyID() uint     { return p.CompanyID }
