package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/papermintx/stylemarket/internal/domain"
)

type ProductUC struct {
	Products domain.ProductRepo
	Storage  domain.FileStorage
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL slug used in product links from a display name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	return uc.Products.List(ctx, f)
}

func (uc *ProductUC) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if id == uuid.Nil {
		return nil, errors.New("empty id")
	}
	return uc.Products.FindByID(ctx, id)
}

func (uc *ProductUC) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, errors.New("empty slug")
	}
	return uc.Products.FindBySlug(ctx, slug)
}

func (uc *ProductUC) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Name == "" {
		return errors.New("empty name")
	}
	if p.Price < 0 {
		return errors.New("negative price")
	}
	p.Slug = Slugify(p.Name)
	return uc.Products.Save(ctx, p)
}

// Update saves changed fields of an existing product. When newImage is
// non-empty the previous primary image file is removed from storage.
func (uc *ProductUC) Update(ctx context.Context, p *domain.Product, newImage string) error {
	if p.ID == uuid.Nil {
		return errors.New("empty id")
	}
	prev, err := uc.Products.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.Name != "" && p.Name != prev.Name {
		p.Slug = Slugify(p.Name)
	} else {
		p.Slug = prev.Slug
	}
	if newImage != "" {
		if prev.ImageURL != "" && prev.ImageURL != newImage {
			_ = uc.Storage.Remove(ctx, prev.ImageURL)
		}
		p.ImageURL = newImage
	} else if p.ImageURL == "" {
		p.ImageURL = prev.ImageURL
	}
	return uc.Products.Save(ctx, p)
}

// ReplaceGalleries swaps the gallery set and removes the files the old set
// referenced, so replaced images do not pile up on disk.
func (uc *ProductUC) ReplaceGalleries(ctx context.Context, productID uuid.UUID, imgs []domain.GalleryImage) error {
	removed, err := uc.Products.ReplaceGalleries(ctx, productID, imgs)
	if err != nil {
		return err
	}
	for _, path := range removed {
		// best effort, the file may already be gone
		_ = uc.Storage.Remove(ctx, path)
	}
	return nil
}

func (uc *ProductUC) AddGalleries(ctx context.Context, productID uuid.UUID, imgs []domain.GalleryImage) error {
	return uc.Products.AddGalleries(ctx, productID, imgs)
}

// Delete removes the product row, its gallery rows and every stored image
// file the product referenced.
func (uc *ProductUC) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("empty id")
	}
	paths, err := uc.Products.Delete(ctx, id)
	if err != nil {
		return err
	}
	for _, path := range paths {
		_ = uc.Storage.Remove(ctx, path)
	}
	return nil
}
