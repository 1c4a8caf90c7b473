// internal/models/address.go
package models

import "github.com/google/uuid"

type Address struct {
	BaseModel
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Street     string    `json:"street" gorm:"size:255;not null"`
	City       string    `json:"city" gorm:"size:100;not null"`
	State      string    `json:"state" gorm:"size:100;not null"`
	Country    string    `json:"country" gorm:"size:100;not null"`
	PostalCode string    `json:"postal_code" gorm:"size:20;not null"`
	IsDefault  bool      `json:"is_default" gorm:"default:false"`

	// Relationships
	User User `json:"-" gorm:"foreignKey:UserID"`
}
