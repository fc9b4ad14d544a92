package models

import (
	"github.com/google/uuid"
)

var MealTypes = map[string]string{
	"breakfast": "早餐",
	"lunch":     "午餐",
	"dinner":    "晚餐",
	"snack":     "加餐",
}

// DateLayout is the storage and wire format of DietaryLog.Date.
const DateLayout = "2006-01-02"

// DietaryLog is one food entry in a user's diary. The nutrient values are a
// snapshot taken when the entry was written.
type DietaryLog struct {
	Base
	UserID       uuid.UUID  `gorm:"type:varchar(36);not null;index:idx_diary_user_date" json:"user_id"`
	User         *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RecipeID     *uuid.UUID `gorm:"type:varchar(36)" json:"recipe"`
	Recipe       *Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:SET NULL" json:"-"`
	CustomName   string     `gorm:"size:100" json:"custom_name"`
	Calories     float64    `gorm:"not null;default:0" json:"calories"`
	Protein      float64    `gorm:"not null;default:0" json:"protein"`
	Fat          float64    `gorm:"not null;default:0" json:"fat"`
	Carbohydrate float64    `gorm:"not null;default:0" json:"carbohydrate"`
	MealType     string     `gorm:"size:20;not null;default:'lunch'" json:"meal_type"`
	Date         string     `gorm:"size:10;not null;index:idx_diary_user_date" json:"date"`
}

// FoodName is the recipe name when linked, the free-text name otherwise.
func (l *DietaryLog) FoodName() string {
	if l.Recipe != nil {
		return l.Recipe.Name
	}
	return l.CustomName
}
