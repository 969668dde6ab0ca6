package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrOutOfStock   = errors.New("out of stock")
	ErrDuplicate    = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
)

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	Delete(ctx context.Context, id uuid.UUID) ([]string, error)
	ReplaceGalleries(ctx context.Context, productID uuid.UUID, imgs []GalleryImage) ([]string, error)
	AddGalleries(ctx context.Context, productID uuid.UUID, imgs []GalleryImage) error
}

type CategoryRepo interface {
	Save(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	List(ctx context.Context) ([]Category, error)
}

type FeaturedProductRepo interface {
	List(ctx context.Context) ([]FeaturedProduct, error)
	// GetWithProducts resolves pinned products in display order.
	GetWithProducts(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, productID uuid.UUID, order int) error
	Clear(ctx context.Context) error
}

type OrderRepo interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, page, pageSize int) ([]Order, int64, error)
}

type UserRepo interface {
	Save(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	Count(ctx context.Context) (int64, error)
}

type CustomerRepo interface {
	Save(ctx context.Context, c *Customer) error
	FindByEmail(ctx context.Context, email string) (*Customer, error)
}

// FileStorage holds uploaded product images. SaveImage returns the public
// path the image is served from.
type FileStorage interface {
	SaveImage(ctx context.Context, filename string, data []byte) (string, error)
	Remove(ctx context.Context, storedPath string) error
}

// CheckoutGateway turns a priced order into a redirect URL the shopper is
// sent to (a messaging deep link pre-filled with the order text).
type CheckoutGateway interface {
	CreateRedirect(ctx context.Context, o *Order) (string, error)
}
