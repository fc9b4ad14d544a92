package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartrecipe/backend/internal/database"
	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/types"
)

// recipeOrderings maps accepted ?ordering values to ORDER BY clauses.
var recipeOrderings = map[string]string{
	"created_at":    "created_at ASC",
	"-created_at":   "created_at DESC",
	"views":         "views ASC",
	"-views":        "views DESC",
	"likes":         "likes ASC",
	"-likes":        "likes DESC",
	"favorites":     "favorites ASC",
	"-favorites":    "favorites DESC",
	"cooking_time":  "cooking_time ASC",
	"-cooking_time": "cooking_time DESC",
}

const defaultRecipeOrdering = "created_at DESC"

// RecipeDetail is a recipe as seen by one caller.
type RecipeDetail struct {
	Recipe      *models.Recipe
	IsLiked     bool
	IsFavorited bool
	// Allergens lists the recipe's ingredients on the caller's allergy list.
	Allergens []string
}

// ToggleResult is the state after a like or favorite toggle.
type ToggleResult struct {
	Active bool
	Count  int
}

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

// Ensure RecipeService implements IRecipeService
var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// List returns one page of published recipes.
func (s *RecipeService) List(ctx context.Context, filter types.RecipeFilter, page types.Page) ([]models.Recipe, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("is_published = ?", true)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.CuisineType != "" {
		q = q.Where("cuisine_type = ?", filter.CuisineType)
	}
	if kw := strings.TrimSpace(filter.Search); kw != "" {
		q = keywordFilter(q, kw)
	}

	order, ok := recipeOrderings[filter.Ordering]
	if !ok {
		order = defaultRecipeOrdering
	}

	var recipes []models.Recipe
	total, err := paginate(q, page, &recipes, preload("Author.Profile"), orderBy(order))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// keywordFilter matches name, description or tags case-insensitively.
func keywordFilter(q *gorm.DB, keyword string) *gorm.DB {
	like := likePattern(keyword)
	if database.IsPostgres(q) {
		return q.Where("(recipes.name ILIKE ?"+escapeClause+" OR recipes.description ILIKE ?"+escapeClause+
			" OR recipes.tags::text ILIKE ?"+escapeClause+")", like, like, like)
	}
	return q.Where("(LOWER(recipes.name) LIKE ?"+escapeClause+" OR LOWER(recipes.description) LIKE ?"+escapeClause+
		" OR LOWER(recipes.tags) LIKE ?"+escapeClause+")", like, like, like)
}

// Get returns a recipe with its composition. Drafts are visible to their
// author only. Each call counts as a view, and authenticated views are
// recorded in the caller's history.
func (s *RecipeService) Get(ctx context.Context, viewer *types.Principal, id uuid.UUID) (*RecipeDetail, error) {
	recipe, err := s.load(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if !recipe.IsPublished && (viewer == nil || viewer.UserID != recipe.AuthorID) {
		return nil, notFound("recipe")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
			return err
		}
		if viewer == nil {
			return nil
		}
		return tx.Create(&models.UserBehavior{
			UserID:       viewer.UserID,
			RecipeID:     id,
			BehaviorType: models.BehaviorView,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record view: %w", err)
	}
	recipe.Views++

	detail := &RecipeDetail{Recipe: recipe}
	if viewer == nil {
		return detail, nil
	}

	var active []string
	err = s.db.WithContext(ctx).Model(&models.UserBehavior{}).
		Where("user_id = ? AND recipe_id = ? AND behavior_type IN ?", viewer.UserID, id,
			[]string{models.BehaviorLike, models.BehaviorFavorite}).
		Pluck("behavior_type", &active).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load behaviors: %w", err)
	}
	for _, b := range active {
		switch b {
		case models.BehaviorLike:
			detail.IsLiked = true
		case models.BehaviorFavorite:
			detail.IsFavorited = true
		}
	}

	var profile models.UserProfile
	err = s.db.WithContext(ctx).Where("user_id = ?", viewer.UserID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	for _, ri := range recipe.Ingredients {
		if ri.Ingredient != nil && profile.IsAllergicTo(ri.Ingredient.Name) {
			detail.Allergens = append(detail.Allergens, ri.Ingredient.Name)
		}
	}
	return detail, nil
}

func (s *RecipeService) load(db *gorm.DB, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := db.
		Preload("Author.Profile").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Ingredients.Ingredient").
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_number") }).
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("recipe")
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// Create stores a recipe with its ingredient lines and steps.
func (s *RecipeService) Create(ctx context.Context, p *types.Principal, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	if err := checkComposition(req.Ingredients, req.Steps); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:          strings.TrimSpace(req.Name),
		CoverImage:    req.CoverImage,
		AuthorID:      p.UserID,
		Difficulty:    orDefault(req.Difficulty, "medium"),
		CookingTime:   req.CookingTime,
		Servings:      req.Servings,
		Category:      orDefault(req.Category, "other"),
		CuisineType:   orDefault(req.CuisineType, "chinese"),
		Tags:          req.Tags,
		TotalCalories: req.TotalCalories,
		Description:   req.Description,
		IsPublished:   true,
	}
	if recipe.Servings == 0 {
		recipe.Servings = 1
	}
	if req.IsPublished != nil {
		recipe.IsPublished = *req.IsPublished
	}
	recipe.Embedding = RecipeEmbedding(recipe)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireIngredients(tx, req.Ingredients); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return replaceComposition(tx, recipe.ID, req.Ingredients, req.Steps)
	})
	if err != nil {
		return nil, passDomainErr("create recipe", err)
	}
	return s.load(s.db.WithContext(ctx), recipe.ID)
}

// Update changes a recipe owned by the caller. Ingredient and step lists are
// replaced wholesale when given.
func (s *RecipeService) Update(ctx context.Context, p *types.Principal, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	var ingredients []types.RecipeIngredientInput
	var steps []types.CookingStepInput
	if req.Ingredients != nil {
		ingredients = *req.Ingredients
	}
	if req.Steps != nil {
		steps = *req.Steps
	}
	if err := checkComposition(ingredients, steps); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := s.owned(tx, p, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			recipe.Name = strings.TrimSpace(*req.Name)
			updates["name"] = recipe.Name
		}
		if req.CoverImage != nil {
			updates["cover_image"] = *req.CoverImage
		}
		if req.Difficulty != nil {
			updates["difficulty"] = *req.Difficulty
		}
		if req.CookingTime != nil {
			updates["cooking_time"] = *req.CookingTime
		}
		if req.Servings != nil {
			updates["servings"] = *req.Servings
		}
		if req.Category != nil {
			updates["category"] = *req.Category
		}
		if req.CuisineType != nil {
			updates["cuisine_type"] = *req.CuisineType
		}
		if req.Tags != nil {
			recipe.Tags = *req.Tags
			updates["tags"] = recipe.Tags
		}
		if req.TotalCalories != nil {
			updates["total_calories"] = *req.TotalCalories
		}
		if req.Description != nil {
			recipe.Description = *req.Description
			updates["description"] = recipe.Description
		}
		if req.IsPublished != nil {
			updates["is_published"] = *req.IsPublished
		}
		if len(updates) > 0 {
			updates["embedding"] = RecipeEmbedding(recipe)
			if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.Ingredients != nil {
			if err := requireIngredients(tx, ingredients); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := replaceComposition(tx, id, ingredients, nil); err != nil {
				return err
			}
		}
		if req.Steps != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&models.CookingStep{}).Error; err != nil {
				return err
			}
			if err := replaceComposition(tx, id, nil, steps); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, passDomainErr("update recipe", err)
	}
	return s.load(s.db.WithContext(ctx), id)
}

// Delete removes a recipe owned by the caller together with its lines,
// steps, behavior rows and comments.
func (s *RecipeService) Delete(ctx context.Context, p *types.Principal, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.owned(tx, p, id); err != nil {
			return err
		}
		for _, child := range []interface{}{&models.RecipeIngredient{}, &models.CookingStep{}, &models.UserBehavior{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetRecipe, id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
	if err != nil {
		return passDomainErr("delete recipe", err)
	}
	return nil
}

// owned loads a recipe and checks the caller wrote it.
func (s *RecipeService) owned(tx *gorm.DB, p *types.Principal, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := database.ForUpdate(tx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("recipe")
		}
		return nil, err
	}
	if recipe.AuthorID != p.UserID {
		return nil, ErrForbidden
	}
	return &recipe, nil
}

// ToggleLike likes the recipe, or removes the like when present.
func (s *RecipeService) ToggleLike(ctx context.Context, p *types.Principal, id uuid.UUID) (*ToggleResult, error) {
	return s.toggle(ctx, p, id, models.BehaviorLike, "likes")
}

// ToggleFavorite favorites the recipe, or removes the favorite when present.
func (s *RecipeService) ToggleFavorite(ctx context.Context, p *types.Principal, id uuid.UUID) (*ToggleResult, error) {
	return s.toggle(ctx, p, id, models.BehaviorFavorite, "favorites")
}

// toggle flips one like/favorite row and moves the matching counter in the
// same transaction. The counter never goes below zero.
func (s *RecipeService) toggle(ctx context.Context, p *types.Principal, id uuid.UUID, behavior, column string) (*ToggleResult, error) {
	result := &ToggleResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := visibleRecipe(database.ForUpdate(tx), p, id); err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND recipe_id = ? AND behavior_type = ?", p.UserID, id, behavior).
			Delete(&models.UserBehavior{})
		if res.Error != nil {
			return res.Error
		}

		delta := gorm.Expr(column + " + 1")
		if res.RowsAffected > 0 {
			delta = gorm.Expr("CASE WHEN " + column + " > 0 THEN " + column + " - 1 ELSE 0 END")
		} else {
			result.Active = true
			if err := tx.Create(&models.UserBehavior{UserID: p.UserID, RecipeID: id, BehaviorType: behavior}).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).UpdateColumn(column, delta).Error; err != nil {
			return err
		}
		return readCounter(tx, column, id, &result.Count)
	})
	if database.IsUniqueViolation(err) {
		// a concurrent request from the same user won the insert
		result.Active = true
		err = readCounter(s.db.WithContext(ctx), column, id, &result.Count)
	}
	if err != nil {
		return nil, passDomainErr("toggle "+behavior, err)
	}
	return result, nil
}

func readCounter(db *gorm.DB, column string, id uuid.UUID, out *int) error {
	var counts []int
	if err := db.Model(&models.Recipe{}).Where("id = ?", id).Pluck(column, &counts).Error; err != nil {
		return err
	}
	if len(counts) > 0 {
		*out = counts[0]
	}
	return nil
}

// Cook records that the caller cooked the recipe.
func (s *RecipeService) Cook(ctx context.Context, p *types.Principal, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	if err := visibleRecipe(db, p, id); err != nil {
		return err
	}
	if err := db.Create(&models.UserBehavior{UserID: p.UserID, RecipeID: id, BehaviorType: models.BehaviorCook}).Error; err != nil {
		return fmt.Errorf("failed to record cook: %w", err)
	}
	return nil
}

func visibleRecipe(db *gorm.DB, p *types.Principal, id uuid.UUID) error {
	var recipe models.Recipe
	err := db.Select("id").
		Where("id = ? AND (is_published = ? OR author_id = ?)", id, true, p.UserID).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("recipe")
	}
	return err
}

// Favorites lists the recipes the caller favorited, most recent first.
func (s *RecipeService) Favorites(ctx context.Context, p *types.Principal, page types.Page) ([]models.Recipe, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Joins("JOIN user_behaviors ON user_behaviors.recipe_id = recipes.id").
		Where("user_behaviors.user_id = ? AND user_behaviors.behavior_type = ?", p.UserID, models.BehaviorFavorite)

	var recipes []models.Recipe
	total, err := paginate(q, page, &recipes, selectColumns("recipes.*"), preload("Author.Profile"), orderBy("user_behaviors.created_at DESC"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list favorites: %w", err)
	}
	return recipes, total, nil
}

// MyRecipes lists everything the caller wrote, drafts included.
func (s *RecipeService) MyRecipes(ctx context.Context, p *types.Principal, page types.Page) ([]models.Recipe, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", p.UserID)

	var recipes []models.Recipe
	total, err := paginate(q, page, &recipes, preload("Author.Profile"), orderBy(defaultRecipeOrdering))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// History lists the caller's behavior rows, newest first.
func (s *RecipeService) History(ctx context.Context, p *types.Principal, page types.Page) ([]models.UserBehavior, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.UserBehavior{}).Where("user_id = ?", p.UserID)

	var rows []models.UserBehavior
	total, err := paginate(q, page, &rows, preload("Recipe"), orderBy("created_at DESC"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list history: %w", err)
	}
	return rows, total, nil
}

// Search matches published recipes by keyword. On postgres results are
// ranked by embedding distance, then popularity.
func (s *RecipeService) Search(ctx context.Context, keyword string) ([]models.Recipe, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, Invalid("search keyword is required")
	}

	q := keywordFilter(s.db.WithContext(ctx).Where("is_published = ?", true), keyword)
	if database.IsPostgres(q) {
		q = q.Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding <-> ? NULLS LAST",
			Vars: []interface{}{GenerateEmbedding(keyword)},
		}})
	}

	var recipes []models.Recipe
	if err := q.Preload("Author.Profile").Order("views DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return recipes, nil
}

// Recommend returns the most viewed published recipes.
func (s *RecipeService) Recommend(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author.Profile").
		Where("is_published = ?", true).
		Order("views DESC, likes DESC").
		Limit(RecommendLimit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to recommend recipes: %w", err)
	}
	return recipes, nil
}

// checkComposition rejects repeated ingredients and step numbers.
func checkComposition(ingredients []types.RecipeIngredientInput, steps []types.CookingStepInput) error {
	seen := make(map[uuid.UUID]bool, len(ingredients))
	for _, in := range ingredients {
		if seen[in.IngredientID] {
			return FieldError("ingredients", "each ingredient may appear only once")
		}
		seen[in.IngredientID] = true
	}
	numbers := make(map[int]bool, len(steps))
	for _, st := range steps {
		if numbers[st.StepNumber] {
			return FieldError("steps", fmt.Sprintf("duplicate step number %d", st.StepNumber))
		}
		numbers[st.StepNumber] = true
	}
	return nil
}

func requireIngredients(tx *gorm.DB, lines []types.RecipeIngredientInput) error {
	if len(lines) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.IngredientID
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return FieldError("ingredients", "unknown ingredient")
	}
	return nil
}

func replaceComposition(tx *gorm.DB, recipeID uuid.UUID, lines []types.RecipeIngredientInput, steps []types.CookingStepInput) error {
	if len(lines) > 0 {
		rows := make([]models.RecipeIngredient, len(lines))
		for i, l := range lines {
			rows[i] = models.RecipeIngredient{
				RecipeID:     recipeID,
				IngredientID: l.IngredientID,
				Quantity:     l.Quantity,
				Unit:         orDefault(l.Unit, models.DefaultUnit),
				IsMain:       l.IsMain,
				Position:     i,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}
	if len(steps) > 0 {
		rows := make([]models.CookingStep, len(steps))
		for i, st := range steps {
			rows[i] = models.CookingStep{
				RecipeID:    recipeID,
				StepNumber:  st.StepNumber,
				Description: st.Description,
				ImageURL:    st.ImageURL,
				Duration:    st.Duration,
				Tips:        st.Tips,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
