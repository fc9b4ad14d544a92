package models

import (
	"time"

	"github.com/google/uuid"
)

// ShoppingListItem holds at most one unpurchased row per (user, ingredient).
type ShoppingListItem struct {
	Base
	UpdatedAt    time.Time   `json:"updated_at"`
	UserID       uuid.UUID   `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User         *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	IngredientID uuid.UUID   `gorm:"type:varchar(36);not null" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
	Quantity     float64     `gorm:"not null" json:"quantity"`
	Unit         string      `gorm:"size:20;not null;default:'克'" json:"unit"`
	IsPurchased  bool        `gorm:"not null;default:false" json:"is_purchased"`
}

func (ShoppingListItem) TableName() string {
	return "shopping_list"
}
