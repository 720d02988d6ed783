package model

import "time"

// ImageType names the slot a media asset occupies.
type ImageType string

const (
	ImageLogo    ImageType = "logo"
	ImageCover   ImageType = "cover"
	ImageGallery ImageType = "gallery"
)

// Valid reports whether t is a known slot.
func (t ImageType) Valid() bool {
	return t == ImageLogo || t == ImageCover || t == ImageGallery
}

// SingleOccupancy reports whether the slot holds at most one asset.
func (t ImageType) SingleOccupancy() bool {
	return t == ImageLogo || t == ImageCover
}

// CompanyImage is a media asset attached to a company slot.
type CompanyImage struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CompanyID   uint      `gorm:"not null;index:idx_company_images_slot" json:"company_id"`
	Company     Company   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ImageType   ImageType `gorm:"type:varchar(20);not null;index:idx_company_images_slot" json:"image_type"`
	URL         string    `gorm:"type:text;not null" json:"url"`
	StoragePath string    `gorm:"type:text;not null" json:"storage_path"`
	ContentType string    `gorm:"type:varchar(50)" json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (CompanyImage) TableName() string {
	return "company_images"
}

// MediaSlots is the current slot occupancy of a company.
type MediaSlots struct {
	Logo    *CompanyImage  `json:"logo"`
	Cover   *CompanyImage  `json:"cover"`
	Gallery []CompanyImage `json:"gallery"`
}
