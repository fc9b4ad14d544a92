package types

import (
	"github.com/google/uuid"
)

// Auth

type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=30"`
	Password        string `json:"password" binding:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
	Email           string `json:"email" binding:"omitempty,email"`
	Nickname        string `json:"nickname" binding:"omitempty,max=50"`
	Phone           string `json:"phone" binding:"omitempty,max=20"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required,min=6"`
	NewPasswordConfirm string `json:"new_password_confirm" binding:"required,eqfield=NewPassword"`
}

// UpdateProfileRequest is a partial update; nil fields are left unchanged.
// HealthGoal and DailyCaloriesTarget are cleared by an explicit null.
type UpdateProfileRequest struct {
	Email               *string          `json:"email" binding:"omitempty,email"`
	Nickname            *string          `json:"nickname" binding:"omitempty,max=50"`
	Avatar              *string          `json:"avatar" binding:"omitempty,max=500"`
	Gender              *string          `json:"gender" binding:"omitempty,oneof=male female other"`
	Age                 *int             `json:"age" binding:"omitempty,min=1,max=150"`
	Phone               *string          `json:"phone" binding:"omitempty,max=20"`
	DietaryPreference   *[]string        `json:"dietary_preference"`
	Allergies           *[]string        `json:"allergies"`
	HealthGoal          Optional[string] `json:"health_goal" binding:"omitempty,oneof=lose_weight gain_muscle maintain improve_nutrition"`
	DailyCaloriesTarget Optional[int]    `json:"daily_calories_target" binding:"omitempty,min=500,max=5000"`
}

// Ingredient

type IngredientRequest struct {
	Name         *string                `json:"name" binding:"omitempty,min=1,max=100"`
	Category     *string                `json:"category" binding:"omitempty,oneof=vegetable meat seafood fruit grain dairy egg seasoning oil bean nuts other"`
	ImageURL     *string                `json:"image_url" binding:"omitempty,max=500"`
	Calories     *float64               `json:"calories" binding:"omitempty,min=0"`
	Protein      *float64               `json:"protein" binding:"omitempty,min=0"`
	Fat          *float64               `json:"fat" binding:"omitempty,min=0"`
	Carbohydrate *float64               `json:"carbohydrate" binding:"omitempty,min=0"`
	Fiber        *float64               `json:"fiber" binding:"omitempty,min=0"`
	Vitamin      map[string]interface{} `json:"vitamin"`
	Description  *string                `json:"description"`
	Season       *[]int                 `json:"season" binding:"omitempty,dive,min=1,max=12"`
}

type RecognizeRequest struct {
	ImageURL string `json:"image_url" binding:"required,url,max=500"`
}

type NutritionCalculateRequest struct {
	IngredientID  uuid.UUID `json:"ingredient_id" binding:"required"`
	QuantityGrams float64   `json:"quantity_grams" binding:"required,gt=0"`
}

type RecommendByIngredientsRequest struct {
	Ingredients []string `json:"ingredients" binding:"required,min=1,dive,required"`
}

// Recipe

type RecipeIngredientInput struct {
	IngredientID uuid.UUID `json:"ingredient_id" binding:"required"`
	Quantity     float64   `json:"quantity" binding:"required,gt=0"`
	Unit         string    `json:"unit" binding:"omitempty,max=20"`
	IsMain       bool      `json:"is_main"`
}

type CookingStepInput struct {
	StepNumber  int    `json:"step_number" binding:"required,min=1"`
	Description string `json:"description" binding:"required"`
	ImageURL    string `json:"image_url" binding:"omitempty,max=500"`
	Duration    int    `json:"duration" binding:"omitempty,min=0"`
	Tips        string `json:"tips"`
}

type CreateRecipeRequest struct {
	Name          string                  `json:"name" binding:"required,max=200"`
	CoverImage    string                  `json:"cover_image" binding:"omitempty,max=500"`
	Difficulty    string                  `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	CookingTime   int                     `json:"cooking_time" binding:"omitempty,min=0"`
	Servings      int                     `json:"servings" binding:"omitempty,min=1"`
	Category      string                  `json:"category" binding:"omitempty,oneof=breakfast lunch dinner dessert snack soup staple other"`
	CuisineType   string                  `json:"cuisine_type" binding:"omitempty,oneof=chinese cantonese sichuan hunan shandong jiangsu zhejiang fujian anhui western japanese korean other"`
	Tags          []string                `json:"tags"`
	TotalCalories float64                 `json:"total_calories" binding:"omitempty,min=0"`
	Description   string                  `json:"description"`
	IsPublished   *bool                   `json:"is_published"`
	Ingredients   []RecipeIngredientInput `json:"ingredients" binding:"omitempty,dive"`
	Steps         []CookingStepInput      `json:"steps" binding:"omitempty,dive"`
}

// UpdateRecipeRequest is a partial update. Ingredients and Steps replace the
// existing lists when present.
type UpdateRecipeRequest struct {
	Name          *string                  `json:"name" binding:"omitempty,min=1,max=200"`
	CoverImage    *string                  `json:"cover_image" binding:"omitempty,max=500"`
	Difficulty    *string                  `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	CookingTime   *int                     `json:"cooking_time" binding:"omitempty,min=0"`
	Servings      *int                     `json:"servings" binding:"omitempty,min=1"`
	Category      *string                  `json:"category" binding:"omitempty,oneof=breakfast lunch dinner dessert snack soup staple other"`
	CuisineType   *string                  `json:"cuisine_type" binding:"omitempty,oneof=chinese cantonese sichuan hunan shandong jiangsu zhejiang fujian anhui western japanese korean other"`
	Tags          *[]string                `json:"tags"`
	TotalCalories *float64                 `json:"total_calories" binding:"omitempty,min=0"`
	Description   *string                  `json:"description"`
	IsPublished   *bool                    `json:"is_published"`
	Ingredients   *[]RecipeIngredientInput `json:"ingredients" binding:"omitempty,dive"`
	Steps         *[]CookingStepInput      `json:"steps" binding:"omitempty,dive"`
}

// RecipeFilter narrows the public recipe list.
type RecipeFilter struct {
	Category    string
	Difficulty  string
	CuisineType string
	Search      string
	Ordering    string
}

// Community

type CreatePostRequest struct {
	Content  string     `json:"content" binding:"required"`
	RecipeID *uuid.UUID `json:"recipe_id"`
	Images   []string   `json:"images" binding:"omitempty,dive,max=500"`
}

type CreateCommentRequest struct {
	TargetType string     `json:"target_type" binding:"required,oneof=recipe post"`
	TargetID   uuid.UUID  `json:"target_id" binding:"required"`
	Content    string     `json:"content" binding:"required"`
	Parent     *uuid.UUID `json:"parent"`
}

// Shopping list

type AddShoppingItemRequest struct {
	IngredientID   *uuid.UUID `json:"ingredient_id"`
	IngredientName string     `json:"ingredient_name" binding:"omitempty,max=100"`
	Quantity       float64    `json:"quantity" binding:"required,gt=0"`
	Unit           string     `json:"unit" binding:"omitempty,max=20"`
}

type UpdateShoppingItemRequest struct {
	Quantity    *float64 `json:"quantity" binding:"omitempty,gt=0"`
	Unit        *string  `json:"unit" binding:"omitempty,min=1,max=20"`
	IsPurchased *bool    `json:"is_purchased"`
}

type GenerateShoppingListRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
}

// Nutrition

type CreateDietaryLogRequest struct {
	Recipe       *uuid.UUID `json:"recipe"`
	CustomName   string     `json:"custom_name" binding:"omitempty,max=100"`
	Calories     *float64   `json:"calories" binding:"omitempty,min=0"`
	Protein      *float64   `json:"protein" binding:"omitempty,min=0"`
	Fat          *float64   `json:"fat" binding:"omitempty,min=0"`
	Carbohydrate *float64   `json:"carbohydrate" binding:"omitempty,min=0"`
	MealType     string     `json:"meal_type" binding:"omitempty,oneof=breakfast lunch dinner snack"`
	Date         string     `json:"date" binding:"omitempty,datetime=2006-01-02"`
}
