package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/papermintx/stylemarket/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	for i := range p.Galleries {
		if p.Galleries[i].ID == uuid.Nil {
			p.Galleries[i].ID = uuid.New()
		}
		p.Galleries[i].ProductID = p.ID
	}
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Galleries", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc, created_at asc") }).
		Preload("Category").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Galleries", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc, created_at asc") }).
		Preload("Category").
		First(&p, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	var list []domain.Product
	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.InStockOnly {
		q = q.Where("stock > 0")
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	switch f.Sort {
	case "price_desc":
		q = q.Order("price desc")
	case "price_asc":
		q = q.Order("price asc")
	case "newest":
		q = q.Order("created_at desc")
	default:
		q = q.Order("name asc")
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	offset := (f.Page - 1) * f.PageSize
	err := q.Offset(offset).Limit(f.PageSize).
		Preload("Galleries", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc, created_at asc") }).
		Preload("Category").
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Delete removes the product and its gallery rows in one transaction and
// returns the stored image paths so the caller can clean up the files.
func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Preload("Galleries").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	paths := make([]string, 0, len(p.Galleries)+1)
	if p.ImageURL != "" {
		paths = append(paths, p.ImageURL)
	}
	for _, g := range p.Galleries {
		paths = append(paths, g.URL)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.GalleryImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.FeaturedProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Product{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// ReplaceGalleries swaps the gallery set and returns the paths of the rows
// it removed.
func (r *ProductRepo) ReplaceGalleries(ctx context.Context, productID uuid.UUID, imgs []domain.GalleryImage) ([]string, error) {
	var old []domain.GalleryImage
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&old).Error; err != nil {
		return nil, err
	}
	removed := make([]string, 0, len(old))
	for _, g := range old {
		removed = append(removed, g.URL)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&domain.GalleryImage{}).Error; err != nil {
			return err
		}
		if len(imgs) == 0 {
			return nil
		}
		for i := range imgs {
			if imgs[i].ID == uuid.Nil {
				imgs[i].ID = uuid.New()
			}
			imgs[i].ProductID = productID
			if imgs[i].CreatedAt.IsZero() {
				imgs[i].CreatedAt = time.Now()
			}
		}
		return tx.Create(&imgs).Error
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *ProductRepo) AddGalleries(ctx context.Context, productID uuid.UUID, imgs []domain.GalleryImage) error {
	if len(imgs) == 0 {
		return nil
	}
	for i := range imgs {
		if imgs[i].ID == uuid.Nil {
			imgs[i].ID = uuid.New()
		}
		imgs[i].ProductID = productID
		if imgs[i].CreatedAt.IsZero() {
			imgs[i].CreatedAt = time.Now()
		}
	}
	return r.db.WithContext(ctx).Create(&imgs).Error
}
