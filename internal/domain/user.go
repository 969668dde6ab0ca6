package domain

import (
	"time"

	"github.com/google/uuid"
)

const RoleAdmin = "admin"

// User is a console account. The storefront itself needs no account; only
// the admin dashboard is auth-gated.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:100" json:"username"`
	Email        string    `gorm:"size:140;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:admin" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Customer is a shopper identified through Google sign-in; purely optional,
// checkout works without one.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"size:140;uniqueIndex"`
	Name      string    `gorm:"size:140"`
	CreatedAt time.Time
}
