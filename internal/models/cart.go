// internal/models/cart.go
package models

import "github.com/google/uuid"

// Cart is created lazily on first access and kept for the lifetime of the
// user. Items are destroyed in bulk on checkout or an explicit clear.
type Cart struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`

	// Relationships
	User  User       `json:"-" gorm:"foreignKey:UserID"`
	Items []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID"`
}

type CartItem struct {
	BaseModel
	CartID    uuid.UUID `json:"cart_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
