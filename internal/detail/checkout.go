package detail

import (
	"context"

	"github.com/google/uuid"
)

// OrderPlacer is the slice of the checkout flow the detail view depends on:
// turn a single-item order intent into a redirect URL.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, productID uuid.UUID, qty int) (string, error)
}

// Opener receives the redirect URL and opens it in a new browsing context.
// The HTTP layer redirects the checkout-form tab; tests record the URL.
type Opener interface {
	Open(url string)
}

// Notifier shows a short user-visible notice.
type Notifier interface {
	Notify(msg string)
}

// Dispatcher turns the current product and quantity into one outbound
// order intent. Checkout is not idempotent: each call creates a fresh
// intent downstream. The busy flag only suppresses re-entry during a
// single round trip; like the rest of the view state it is touched by one
// goroutine only.
type Dispatcher struct {
	placer OrderPlacer
	opener Opener
	notify Notifier
	busy   bool
}

func NewDispatcher(placer OrderPlacer, opener Opener, notify Notifier) *Dispatcher {
	return &Dispatcher{placer: placer, opener: opener, notify: notify}
}

// Dispatch places the order intent and opens the returned redirect URL.
// On failure it notifies exactly once and returns the error; no other view
// state is touched, so the shopper can retry with the same quantity and
// carousel position.
func (d *Dispatcher) Dispatch(ctx context.Context, productID uuid.UUID, qty int) error {
	if d.busy {
		return nil
	}
	d.busy = true
	defer func() { d.busy = false }()

	url, err := d.placer.PlaceOrder(ctx, productID, qty)
	if err != nil {
		d.notify.Notify("could not reach the shop, please try again")
		return err
	}
	d.opener.Open(url)
	return nil
}
