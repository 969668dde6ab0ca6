package detail

// Quantity is the order-quantity selector for one product. The invariant
// 1 <= qty <= stock holds after every operation; the bounds clamp instead
// of erroring because the controls simply stop having an effect at either
// end.
type Quantity struct {
	qty   int
	stock int
	price int64
}

// NewQuantity starts at one unit. price is the unit price in whole currency
// units. Zero-stock products are filtered out before the detail view, so
// stock is normalized to at least 1 to keep the invariant meaningful.
func NewQuantity(price int64, stock int) *Quantity {
	if stock < 1 {
		stock = 1
	}
	return &Quantity{qty: 1, stock: stock, price: price}
}

func (q *Quantity) Value() int { return q.qty }
func (q *Quantity) Stock() int { return q.stock }

// AtMin and AtMax drive the disabled state of the +/- controls.
func (q *Quantity) AtMin() bool { return q.qty <= 1 }
func (q *Quantity) AtMax() bool { return q.qty >= q.stock }

func (q *Quantity) Increment() {
	if q.qty < q.stock {
		q.qty++
	}
}

func (q *Quantity) Decrement() {
	if q.qty > 1 {
		q.qty--
	}
}

// Set restores a quantity carried in the page URL, clamped into bounds.
func (q *Quantity) Set(n int) {
	if n < 1 {
		n = 1
	}
	if n > q.stock {
		n = q.stock
	}
	q.qty = n
}

// Total is the exact line total in whole currency units. Prices are int64
// rupiah, so the multiplication never sees floating point.
func (q *Quantity) Total() int64 {
	return q.price * int64(q.qty)
}
