package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/papermintx/stylemarket/internal/domain"
)

// CheckoutUC creates order intents. Prices are always taken from the
// database, never from the request, and totals are computed in whole int64
// rupiah. Every call creates a fresh pending order; repeated checkouts of
// the same cart are separate intents on purpose, the shop confirms them
// over chat.
type CheckoutUC struct {
	Products domain.ProductRepo
	Orders   domain.OrderRepo
	Gateway  domain.CheckoutGateway
}

// Checkout prices the requested items, persists the order intent and
// returns the redirect URL from the gateway.
func (uc *CheckoutUC) Checkout(ctx context.Context, items []domain.CheckoutItem, customerID *uuid.UUID) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, errors.New("empty order")
	}

	o := &domain.Order{
		ID:         uuid.New(),
		Status:     domain.OrderStatusPendingConfirm,
		CustomerID: customerID,
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("invalid quantity %d", it.Quantity)
		}
		p, err := uc.Products.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Stock < it.Quantity {
			return nil, domain.ErrOutOfStock
		}
		sub := p.Price * int64(it.Quantity)
		o.Items = append(o.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       it.Quantity,
			UnitPrice: p.Price,
			Subtotal:  sub,
		})
		o.Total += sub
	}

	url, err := uc.Gateway.CreateRedirect(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("checkout gateway: %w", err)
	}
	o.RedirectURL = url

	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// PlaceOrder is the single-item form used by the product detail page.
func (uc *CheckoutUC) PlaceOrder(ctx context.Context, productID uuid.UUID, qty int) (string, error) {
	o, err := uc.Checkout(ctx, []domain.CheckoutItem{{ProductID: productID, Quantity: qty}}, nil)
	if err != nil {
		return "", err
	}
	return o.RedirectURL, nil
}

func (uc *CheckoutUC) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return uc.Orders.FindByID(ctx, id)
}

func (uc *CheckoutUC) List(ctx context.Context, page, pageSize int) ([]domain.Order, int64, error) {
	if pageSize == 0 {
		pageSize = 20
	}
	return uc.Orders.List(ctx, page, pageSize)
}
