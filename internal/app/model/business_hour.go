package model

import "time"

// BusinessHour is the schedule of one weekday (0 = Sunday ... 6 = Saturday).
// Days without a row fall back to whatever default the consumer renders.
type BusinessHour struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CompanyID uint      `gorm:"not null;uniqueIndex:idx_business_hours_day" json:"company_id"`
	Company   Company   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	DayOfWeek int       `gorm:"not null;uniqueIndex:idx_business_hours_day" json:"day_of_week"`
	OpenTime  string    `gorm:"type:varchar(5)" json:"open_time"`  // "09:00"
	CloseTime string    `gorm:"type:varchar(5)" json:"close_time"` // "18:00"
	IsClosed  bool      `gorm:"default:false" json:"is_closed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BusinessHour) TableName() string {
	return "business_hours"
}
