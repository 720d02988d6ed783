package repository

import (
	"github.com/ikkim/directorio-backend/internal/app/model"
	"gorm.io/gorm"
)

type ProductRepository interface {
	OrderedRepository[model.Product]
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &orderedRepository[model.Product]{
		db:       db,
		resource: "product",
		columns:  []string{"name", "description", "price", "url", "image_url", "is_active"},
	}
}
