package testhelpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/types"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// CreateUser inserts a user with an empty profile.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
		Profile:      &models.UserProfile{Nickname: username},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateStaff inserts a staff user.
func CreateStaff(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := CreateUser(t, db, username)
	if err := db.Model(user).Update("is_staff", true).Error; err != nil {
		t.Fatalf("failed to mark staff: %v", err)
	}
	user.IsStaff = true
	return user
}

// Principal returns the caller identity for user.
func Principal(user *models.User) *types.Principal {
	return &types.Principal{UserID: user.ID, Username: user.Username, IsStaff: user.IsStaff}
}

// CreateIngredient inserts a catalog ingredient with per-100g values.
func CreateIngredient(t *testing.T, db *gorm.DB, name string, calories, protein, fat, carbs float64, season ...int) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{
		Name:         name,
		Category:     "vegetable",
		Calories:     calories,
		Protein:      protein,
		Fat:          fat,
		Carbohydrate: carbs,
		Season:       season,
	}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return ing
}

// RecipeOption customizes CreateRecipe.
type RecipeOption func(*models.Recipe)

// Unpublished marks the recipe as a draft.
func Unpublished() RecipeOption {
	return func(r *models.Recipe) { r.IsPublished = false }
}

// WithCalories sets the recipe's total calories.
func WithCalories(kcal float64) RecipeOption {
	return func(r *models.Recipe) { r.TotalCalories = kcal }
}

// WithViews sets the recipe's view count.
func WithViews(views int) RecipeOption {
	return func(r *models.Recipe) { r.Views = views }
}

// WithIngredient adds an ingredient line.
func WithIngredient(ing *models.Ingredient, quantity float64) RecipeOption {
	return func(r *models.Recipe) {
		r.Ingredients = append(r.Ingredients, models.RecipeIngredient{
			IngredientID: ing.ID,
			Quantity:     quantity,
			Unit:         models.DefaultUnit,
			Position:     len(r.Ingredients),
		})
	}
}

// CreateRecipe inserts a published recipe authored by author.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, opts ...RecipeOption) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Name:        name,
		AuthorID:    author.ID,
		Difficulty:  "easy",
		Servings:    2,
		Category:    "lunch",
		CuisineType: "chinese",
		Tags:        models.JSONBStringArray{"home"},
		IsPublished: true,
	}
	for _, opt := range opts {
		opt(recipe)
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}
