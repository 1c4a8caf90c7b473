// internal/models/review.go
package models

import "github.com/google/uuid"

// Review is unique per (user, product); every mutation triggers a full
// recompute of the product's rating and review count.
type Review struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`

	// Relationships
	User    User    `json:"-" gorm:"foreignKey:UserID"`
	Product Product `json:"-" gorm:"foreignKey:ProductID"`
}
