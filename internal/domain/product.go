package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;size:140" json:"slug"`
	Name        string         `gorm:"size:180;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null;default:0" json:"price"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	ImageURL    string         `gorm:"size:255" json:"imageUrl"`
	CategoryID  *uuid.UUID     `gorm:"type:uuid;index" json:"categoryId,omitempty"`
	Category    *Category      `json:"category,omitempty"`
	Galleries   []GalleryImage `json:"galleries"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// GalleryImage is a secondary product image shown in the detail carousel.
// SortOrder fixes the carousel position after the primary image.
type GalleryImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"-"`
	URL       string    `gorm:"size:255" json:"url"`
	SortOrder int       `gorm:"default:0" json:"sortOrder"`
	CreatedAt time.Time `json:"-"`
}

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FeaturedProduct pins a product to the landing page collection.
type FeaturedProduct struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID    uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	DisplayOrder int       `gorm:"default:0"`
	CreatedAt    time.Time
}

type ProductFilter struct {
	Page       int
	PageSize   int
	Sort       string
	Query      string
	CategoryID *uuid.UUID
	// InStockOnly hides zero-stock products; the storefront always sets it,
	// the admin surface never does.
	InStockOnly bool
}
