package repository

import (
	"github.com/ikkim/directorio-backend/internal/app/model"
	"gorm.io/gorm"
)

type SocialLinkRepository interface {
	OrderedRepository[model.SocialLink]
}

func NewSocialLinkRepository(db *gorm.DB) SocialLinkRepository {
	return &orderedRepository[model.SocialLink]{
		db:       db,
		resource: "social link",
		columns:  []string{"title", "url", "platform", "is_active"},
	}
}
