package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPendingConfirm OrderStatus = "pending_confirm"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Order is an order intent captured at checkout time. Checkout is not
// idempotent: every checkout call creates a fresh intent, and the admin
// settles duplicates over WhatsApp.
type Order struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Status      OrderStatus `gorm:"type:varchar(30);index" json:"status"`
	Items       []OrderItem `json:"items"`
	Total       int64       `gorm:"not null;default:0" json:"total"`
	RedirectURL string      `gorm:"size:1024" json:"-"`
	CustomerID  *uuid.UUID  `gorm:"type:uuid;index" json:"-"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"productId"`
	Name      string    `gorm:"size:180" json:"name"`
	Qty       int       `gorm:"not null" json:"qty"`
	UnitPrice int64     `gorm:"not null" json:"unitPrice"`
	Subtotal  int64     `gorm:"not null" json:"subtotal"`
}

// CheckoutItem is a single line of a checkout request before it is priced.
type CheckoutItem struct {
	ProductID uuid.UUID
	Quantity  int
}
