package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papermintx/stylemarket/internal/domain"
)

type fakeProductRepo struct {
	byID map[uuid.UUID]*domain.Product
}

func (f *fakeProductRepo) Save(_ context.Context, p *domain.Product) error {
	if f.byID == nil {
		f.byID = map[uuid.UUID]*domain.Product{}
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) FindBySlug(_ context.Context, slug string) (*domain.Product, error) {
	for _, p := range f.byID {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProductRepo) List(_ context.Context, _ domain.ProductFilter) ([]domain.Product, int64, error) {
	out := make([]domain.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) ([]string, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(f.byID, id)
	paths := []string{p.ImageURL}
	for _, g := range p.Galleries {
		paths = append(paths, g.URL)
	}
	return paths, nil
}

func (f *fakeProductRepo) ReplaceGalleries(_ context.Context, id uuid.UUID, imgs []domain.GalleryImage) ([]string, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	var removed []string
	for _, g := range p.Galleries {
		removed = append(removed, g.URL)
	}
	p.Galleries = imgs
	return removed, nil
}

func (f *fakeProductRepo) AddGalleries(_ context.Context, id uuid.UUID, imgs []domain.GalleryImage) error {
	p, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Galleries = append(p.Galleries, imgs...)
	return nil
}

type fakeOrderRepo struct {
	saved []*domain.Order
}

func (f *fakeOrderRepo) Save(_ context.Context, o *domain.Order) error {
	f.saved = append(f.saved, o)
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	for _, o := range f.saved {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrderRepo) List(_ context.Context, _, _ int) ([]domain.Order, int64, error) {
	out := make([]domain.Order, 0, len(f.saved))
	for _, o := range f.saved {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

type fakeGateway struct {
	url  string
	err  error
	seen *domain.Order
}

func (f *fakeGateway) CreateRedirect(_ context.Context, o *domain.Order) (string, error) {
	f.seen = o
	return f.url, f.err
}

func seedProduct(repo *fakeProductRepo, price int64, stock int) *domain.Product {
	p := &domain.Product{ID: uuid.New(), Slug: "kemeja-flanel", Name: "Kemeja Flanel", Price: price, Stock: stock}
	_ = repo.Save(context.Background(), p)
	return p
}

func TestCheckoutPricesFromDatabase(t *testing.T) {
	products := &fakeProductRepo{}
	p := seedProduct(products, 150000, 10)
	orders := &fakeOrderRepo{}
	gw := &fakeGateway{url: "https://wa.me/628?text=hi"}
	uc := &CheckoutUC{Products: products, Orders: orders, Gateway: gw}

	o, err := uc.Checkout(context.Background(), []domain.CheckoutItem{{ProductID: p.ID, Quantity: 3}}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(450000), o.Total)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(150000), o.Items[0].UnitPrice)
	assert.Equal(t, int64(450000), o.Items[0].Subtotal)
	assert.Equal(t, domain.OrderStatusPendingConfirm, o.Status)
	assert.Equal(t, "https://wa.me/628?text=hi", o.RedirectURL)
	assert.Len(t, orders.saved, 1)
}

func TestCheckoutRejectsOverStock(t *testing.T) {
	products := &fakeProductRepo{}
	p := seedProduct(products, 150000, 2)
	uc := &CheckoutUC{Products: products, Orders: &fakeOrderRepo{}, Gateway: &fakeGateway{}}

	_, err := uc.Checkout(context.Background(), []domain.CheckoutItem{{ProductID: p.ID, Quantity: 3}}, nil)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
}

func TestCheckoutGatewayFailureSavesNothing(t *testing.T) {
	products := &fakeProductRepo{}
	p := seedProduct(products, 150000, 10)
	orders := &fakeOrderRepo{}
	uc := &CheckoutUC{Products: products, Orders: orders, Gateway: &fakeGateway{err: errors.New("down")}}

	_, err := uc.Checkout(context.Background(), []domain.CheckoutItem{{ProductID: p.ID, Quantity: 1}}, nil)
	require.Error(t, err)
	assert.Empty(t, orders.saved)
}

func TestCheckoutIsNotIdempotent(t *testing.T) {
	products := &fakeProductRepo{}
	p := seedProduct(products, 90000, 10)
	orders := &fakeOrderRepo{}
	uc := &CheckoutUC{Products: products, Orders: orders, Gateway: &fakeGateway{url: "https://wa.me/x"}}

	items := []domain.CheckoutItem{{ProductID: p.ID, Quantity: 1}}
	o1, err := uc.Checkout(context.Background(), items, nil)
	require.NoError(t, err)
	o2, err := uc.Checkout(context.Background(), items, nil)
	require.NoError(t, err)

	assert.NotEqual(t, o1.ID, o2.ID)
	assert.Len(t, orders.saved, 2)
}

func TestPlaceOrderReturnsRedirect(t *testing.T) {
	products := &fakeProductRepo{}
	p := seedProduct(products, 150000, 5)
	uc := &CheckoutUC{Products: products, Orders: &fakeOrderRepo{}, Gateway: &fakeGateway{url: "https://wa.me/628?text=o"}}

	url, err := uc.PlaceOrder(context.Background(), p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/628?text=o", url)
}
