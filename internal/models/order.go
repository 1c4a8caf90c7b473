// internal/models/order.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is append-only once created; only Status (and timestamps) may change.
type Order struct {
	BaseModel
	UserID    uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	AddressID *uuid.UUID      `json:"address_id" gorm:"type:uuid"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	Status    OrderStatus     `json:"status" gorm:"type:varchar(30);default:'pending';index"`

	// Relationships
	User    User        `json:"-" gorm:"foreignKey:UserID"`
	Address *Address    `json:"address,omitempty" gorm:"foreignKey:AddressID"`
	Items   []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem freezes the product price at order-creation time; later catalog
// price changes never touch it.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null;default:1"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
