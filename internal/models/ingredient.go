package models

import (
	"math"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var IngredientCategories = map[string]string{
	"vegetable": "蔬菜",
	"meat":      "肉类",
	"seafood":   "海鲜",
	"fruit":     "水果",
	"grain":     "谷物",
	"dairy":     "奶制品",
	"egg":       "蛋类",
	"seasoning": "调味料",
	"oil":       "油类",
	"bean":      "豆制品",
	"nuts":      "坚果",
	"other":     "其他",
}

// Ingredient is a catalog entry. Nutrient values are per 100g.
type Ingredient struct {
	Base
	Name         string                   `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category     string                   `gorm:"size:50;not null;default:'other';index" json:"category"`
	ImageURL     string                   `gorm:"size:500" json:"image_url"`
	Calories     float64                  `gorm:"not null;default:0" json:"calories"`
	Protein      float64                  `gorm:"not null;default:0" json:"protein"`
	Fat          float64                  `gorm:"not null;default:0" json:"fat"`
	Carbohydrate float64                  `gorm:"not null;default:0" json:"carbohydrate"`
	Fiber        float64                  `gorm:"not null;default:0" json:"fiber"`
	Vitamin      datatypes.JSONMap        `json:"vitamin"`
	Description  string                   `gorm:"type:text" json:"description"`
	Season       datatypes.JSONSlice[int] `json:"season"`
}

// Nutrition is an absolute nutrient amount for a given weight.
type Nutrition struct {
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Fat          float64 `json:"fat"`
	Carbohydrate float64 `json:"carbohydrate"`
	Fiber        float64 `json:"fiber"`
}

// NutritionFor scales the per-100g values to the given weight in grams.
func (i *Ingredient) NutritionFor(grams float64) Nutrition {
	f := grams / 100
	return Nutrition{
		Calories:     round2(i.Calories * f),
		Protein:      round2(i.Protein * f),
		Fat:          round2(i.Fat * f),
		Carbohydrate: round2(i.Carbohydrate * f),
		Fiber:        round2(i.Fiber * f),
	}
}

// IsSeasonal reports whether month (1-12) is one of the ingredient's seasons.
func (i *Ingredient) IsSeasonal(month int) bool {
	for _, m := range i.Season {
		if m == month {
			return true
		}
	}
	return false
}

// IngredientRecognition stores the result of one recognition request.
type IngredientRecognition struct {
	Base
	UserID   uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User     *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ImageURL string         `gorm:"size:500;not null" json:"image_url"`
	Result   datatypes.JSON `json:"recognition_result"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
