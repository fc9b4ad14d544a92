package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smartrecipe/backend/internal/database"
	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/types"
)

// RecommendLimit caps the recipe recommendation lists.
const RecommendLimit = 20

// RecognizedItem is one ingredient found in an image.
type RecognizedItem struct {
	Name         string     `json:"name"`
	Confidence   float64    `json:"confidence"`
	IngredientID *uuid.UUID `json:"ingredient_id"`
}

// Recognizer identifies ingredients in an image.
type Recognizer interface {
	Recognize(ctx context.Context, imageURL string) ([]RecognizedItem, error)
}

// MockRecognizer returns a fixed result for every image.
type MockRecognizer struct{}

func (MockRecognizer) Recognize(ctx context.Context, imageURL string) ([]RecognizedItem, error) {
	return []RecognizedItem{
		{Name: "西红柿", Confidence: 0.95},
		{Name: "鸡蛋", Confidence: 0.88},
	}, nil
}

// Recognition is the stored outcome of one recognize call.
type Recognition struct {
	ID          uuid.UUID
	Ingredients []RecognizedItem
}

// NutritionResult is the nutrient amount for a weight of one ingredient.
type NutritionResult struct {
	Ingredient    *models.Ingredient
	QuantityGrams float64
	Nutrition     models.Nutrition
}

// IngredientFilter narrows the catalog list.
type IngredientFilter struct {
	Category string
	Search   string
}

// IngredientService serves the ingredient catalog.
type IngredientService struct {
	db         *gorm.DB
	recognizer Recognizer
}

var _ IIngredientService = (*IngredientService)(nil)

func NewIngredientService(db *gorm.DB, recognizer Recognizer) *IngredientService {
	if recognizer == nil {
		recognizer = MockRecognizer{}
	}
	return &IngredientService{db: db, recognizer: recognizer}
}

// List returns one page of the catalog ordered by name.
func (s *IngredientService) List(ctx context.Context, filter IngredientFilter, page types.Page) ([]models.Ingredient, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		q = q.Where("LOWER(name) LIKE ?"+escapeClause, likePattern(filter.Search))
	}

	var items []models.Ingredient
	total, err := paginate(q, page, &items, orderBy("name"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return items, total, nil
}

// Get returns one ingredient.
func (s *IngredientService) Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("ingredient")
		}
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	return &ing, nil
}

// Search matches ingredient names containing keyword.
func (s *IngredientService) Search(ctx context.Context, keyword string) ([]models.Ingredient, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, Invalid("search keyword is required")
	}
	var items []models.Ingredient
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?"+escapeClause, likePattern(keyword)).
		Order("name").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return items, nil
}

// Seasonal returns the ingredients in season during month.
func (s *IngredientService) Seasonal(ctx context.Context, month int) ([]models.Ingredient, error) {
	if month < 1 || month > 12 {
		return nil, FieldError("month", "month must be between 1 and 12")
	}

	q := s.db.WithContext(ctx)
	if database.IsPostgres(q) {
		q = q.Where("season @> ?::jsonb", fmt.Sprintf("[%d]", month))
	} else {
		// CAST keeps sqlite from reading a BLOB-typed value as binary JSON.
		q = q.Where("EXISTS (SELECT 1 FROM json_each(CAST(ingredients.season AS TEXT)) WHERE value = ?)", month)
	}

	var items []models.Ingredient
	if err := q.Order("name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load seasonal ingredients: %w", err)
	}
	return items, nil
}

// Create adds a catalog entry.
func (s *IngredientService) Create(ctx context.Context, req *types.IngredientRequest) (*models.Ingredient, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, FieldError("name", "this field is required")
	}
	ing := &models.Ingredient{Category: "other"}
	applyIngredient(ing, req)
	if err := s.db.WithContext(ctx).Create(ing).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, FieldError("name", "an ingredient with this name already exists")
		}
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return ing, nil
}

// Update applies the non-nil fields of req to an existing entry.
func (s *IngredientService) Update(ctx context.Context, id uuid.UUID, req *types.IngredientRequest) (*models.Ingredient, error) {
	ing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyIngredient(ing, req)
	if err := s.db.WithContext(ctx).Save(ing).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, FieldError("name", "an ingredient with this name already exists")
		}
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}
	return ing, nil
}

func applyIngredient(ing *models.Ingredient, req *types.IngredientRequest) {
	if req.Name != nil {
		ing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		ing.Category = *req.Category
	}
	if req.ImageURL != nil {
		ing.ImageURL = *req.ImageURL
	}
	if req.Calories != nil {
		ing.Calories = *req.Calories
	}
	if req.Protein != nil {
		ing.Protein = *req.Protein
	}
	if req.Fat != nil {
		ing.Fat = *req.Fat
	}
	if req.Carbohydrate != nil {
		ing.Carbohydrate = *req.Carbohydrate
	}
	if req.Fiber != nil {
		ing.Fiber = *req.Fiber
	}
	if req.Vitamin != nil {
		ing.Vitamin = datatypes.JSONMap(req.Vitamin)
	}
	if req.Description != nil {
		ing.Description = *req.Description
	}
	if req.Season != nil {
		ing.Season = datatypes.JSONSlice[int](*req.Season)
	}
}

// Recognize runs the recognizer on imageURL, links each hit to the catalog
// and records the result for the caller's history.
func (s *IngredientService) Recognize(ctx context.Context, p *types.Principal, imageURL string) (*Recognition, error) {
	items, err := s.recognizer.Recognize(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to recognize image: %w", err)
	}

	for i := range items {
		var ing models.Ingredient
		err := s.db.WithContext(ctx).Select("id").Where("name = ?", items[i].Name).First(&ing).Error
		if err == nil {
			id := ing.ID
			items[i].IngredientID = &id
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up ingredient: %w", err)
		}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recognition result: %w", err)
	}
	rec := &models.IngredientRecognition{
		UserID:   p.UserID,
		ImageURL: imageURL,
		Result:   datatypes.JSON(raw),
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("failed to save recognition: %w", err)
	}
	return &Recognition{ID: rec.ID, Ingredients: items}, nil
}

// RecognitionHistory lists the caller's recognitions, newest first.
func (s *IngredientService) RecognitionHistory(ctx context.Context, p *types.Principal, page types.Page) ([]models.IngredientRecognition, int64, error) {
	var items []models.IngredientRecognition
	q := s.db.WithContext(ctx).Model(&models.IngredientRecognition{}).Where("user_id = ?", p.UserID)
	total, err := paginate(q, page, &items, orderBy("created_at DESC"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recognitions: %w", err)
	}
	return items, total, nil
}

// CalculateNutrition scales an ingredient's per-100g values to grams.
func (s *IngredientService) CalculateNutrition(ctx context.Context, id uuid.UUID, grams float64) (*NutritionResult, error) {
	if grams <= 0 {
		return nil, FieldError("quantity_grams", "must be greater than 0")
	}
	ing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &NutritionResult{
		Ingredient:    ing,
		QuantityGrams: grams,
		Nutrition:     ing.NutritionFor(grams),
	}, nil
}

// RecommendRecipes returns popular published recipes that use any of the
// named ingredients.
func (s *IngredientService) RecommendRecipes(ctx context.Context, names []string) ([]models.Recipe, error) {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	if len(cleaned) == 0 {
		return nil, FieldError("ingredients", "at least one ingredient is required")
	}

	db := s.db.WithContext(ctx)
	sub := db.Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("ingredients.name IN ?", cleaned)

	var recipes []models.Recipe
	err := db.Preload("Author").
		Where("is_published = ?", true).
		Where("id IN (?)", sub).
		Order("views DESC, likes DESC").
		Limit(RecommendLimit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to recommend recipes: %w", err)
	}
	return recipes, nil
}

// likeEscaper escapes LIKE wildcards so keywords match literally. Every
// LIKE built from likePattern must carry the ESCAPE clause.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const escapeClause = ` ESCAPE '\'`

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
