package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/papermintx/stylemarket/internal/domain"
)

type FeaturedProductRepo struct{ db *gorm.DB }

func NewFeaturedProductRepo(db *gorm.DB) *FeaturedProductRepo {
	return &FeaturedProductRepo{db: db}
}

func (r *FeaturedProductRepo) List(ctx context.Context) ([]domain.FeaturedProduct, error) {
	var list []domain.FeaturedProduct
	if err := r.db.WithContext(ctx).Order("display_order asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save pins a product, updating the position when it is already pinned.
func (r *FeaturedProductRepo) Save(ctx context.Context, productID uuid.UUID, order int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.FeaturedProduct
		err := tx.Where("product_id = ?", productID).First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Update("display_order", order).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&domain.FeaturedProduct{
			ID:           uuid.New(),
			ProductID:    productID,
			DisplayOrder: order,
			CreatedAt:    time.Now(),
		}).Error
	})
}

func (r *FeaturedProductRepo) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&domain.FeaturedProduct{}).Error
}

// GetWithProducts resolves the pinned products in display order, hiding
// anything out of stock.
func (r *FeaturedProductRepo) GetWithProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.*").
		Joins("INNER JOIN featured_products ON products.id = featured_products.product_id").
		Where("products.stock > 0").
		Order("featured_products.display_order asc").
		Preload("Galleries", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc, created_at asc") }).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
