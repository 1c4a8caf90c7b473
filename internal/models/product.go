// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string `json:"description" gorm:"type:text"`
	Image       string `json:"image" gorm:"size:500"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	BaseModel
	Name        string          `json:"name" gorm:"size:200;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CategoryID  uuid.UUID       `json:"category_id" gorm:"type:uuid;not null;index"`
	Image       string          `json:"image" gorm:"size:500"`
	Brand       string          `json:"brand" gorm:"size:100"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Rating      decimal.Decimal `json:"rating" gorm:"type:decimal(2,1);default:0"`
	ReviewCount int64           `json:"review_count" gorm:"default:0"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`

	// Relationships
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Reviews  []Review `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
}
