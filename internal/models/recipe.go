package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

var RecipeDifficulties = map[string]string{
	"easy":   "简单",
	"medium": "中等",
	"hard":   "困难",
}

var RecipeCategories = map[string]string{
	"breakfast": "早餐",
	"lunch":     "午餐",
	"dinner":    "晚餐",
	"dessert":   "甜品",
	"snack":     "小吃",
	"soup":      "汤品",
	"staple":    "主食",
	"other":     "其他",
}

var CuisineTypes = map[string]string{
	"chinese":   "中餐",
	"cantonese": "粤菜",
	"sichuan":   "川菜",
	"hunan":     "湘菜",
	"shandong":  "鲁菜",
	"jiangsu":   "苏菜",
	"zhejiang":  "浙菜",
	"fujian":    "闽菜",
	"anhui":     "徽菜",
	"western":   "西餐",
	"japanese":  "日料",
	"korean":    "韩餐",
	"other":     "其他",
}

// DefaultUnit is the unit assumed for ingredient quantities.
const DefaultUnit = "克"

type Recipe struct {
	Base
	UpdatedAt     time.Time          `json:"updated_at"`
	Name          string             `gorm:"size:200;not null" json:"name"`
	CoverImage    string             `gorm:"size:500" json:"cover_image"`
	AuthorID      uuid.UUID          `gorm:"type:varchar(36);not null;index:idx_recipe_author_published" json:"author_id"`
	Author        *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Difficulty    string             `gorm:"size:20;not null;default:'medium'" json:"difficulty"`
	CookingTime   int                `gorm:"not null;default:0" json:"cooking_time"`
	Servings      int                `gorm:"not null;default:1" json:"servings"`
	Category      string             `gorm:"size:50;not null;default:'other';index:idx_recipe_category_published" json:"category"`
	CuisineType   string             `gorm:"size:50;not null;default:'chinese'" json:"cuisine_type"`
	Tags          JSONBStringArray   `gorm:"type:jsonb" json:"tags"`
	TotalCalories float64            `gorm:"not null;default:0" json:"total_calories"`
	Description   string             `gorm:"type:text" json:"description"`
	Views         int                `gorm:"not null;default:0;index" json:"views"`
	Likes         int                `gorm:"not null;default:0;index" json:"likes"`
	Favorites     int                `gorm:"not null;default:0" json:"favorites"`
	IsPublished   bool               `gorm:"not null;index:idx_recipe_author_published;index:idx_recipe_category_published" json:"is_published"`
	Embedding     *pgvector.Vector   `gorm:"type:vector(3)" json:"-"`
	Ingredients   []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Steps         []CookingStep      `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}

// RecipeIngredient joins a recipe to a catalog ingredient with an amount.
type RecipeIngredient struct {
	ID           uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID     uuid.UUID   `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uuid.UUID   `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
	Quantity     float64     `gorm:"not null" json:"quantity"`
	Unit         string      `gorm:"size:20;not null;default:'克'" json:"unit"`
	IsMain       bool        `gorm:"not null;default:false" json:"is_main"`
	Position     int         `gorm:"not null;default:0" json:"-"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

type CookingStep struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_step" json:"-"`
	StepNumber  int       `gorm:"not null;uniqueIndex:idx_recipe_step" json:"step_number"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	Duration    int       `gorm:"not null;default:0" json:"duration"`
	Tips        string    `gorm:"type:text" json:"tips"`
}

func (cs *CookingStep) BeforeCreate(tx *gorm.DB) error {
	if cs.ID == uuid.Nil {
		cs.ID = uuid.New()
	}
	return nil
}

// Behavior types recorded in UserBehavior.
const (
	BehaviorView     = "view"
	BehaviorLike     = "like"
	BehaviorFavorite = "favorite"
	BehaviorCook     = "cook"
)

// UserBehavior is an interaction event between a user and a recipe. For like
// and favorite the presence of a row is the toggle state.
type UserBehavior struct {
	Base
	UserID       uuid.UUID `gorm:"type:varchar(36);not null;index:idx_behavior_user_type" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RecipeID     uuid.UUID `gorm:"type:varchar(36);not null;index:idx_behavior_recipe_type" json:"recipe_id"`
	Recipe       *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
	BehaviorType string    `gorm:"size:20;not null;index:idx_behavior_user_type;index:idx_behavior_recipe_type" json:"behavior_type"`
}
