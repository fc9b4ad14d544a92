package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartrecipe/backend/internal/database"
	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/types"
)

// GenerateResult counts what a recipe added to the shopping list.
type GenerateResult struct {
	Added  int `json:"added_count"`
	Merged int `json:"merged_count"`
	Total  int `json:"total_ingredients"`
}

// ShoppingService manages per-user shopping lists. Each user has at most one
// unpurchased row per ingredient; adding again sums the quantity.
type ShoppingService struct {
	db *gorm.DB
}

var _ IShoppingService = (*ShoppingService)(nil)

func NewShoppingService(db *gorm.DB) *ShoppingService {
	return &ShoppingService{db: db}
}

// List returns one page of the caller's list, unpurchased rows first.
func (s *ShoppingService) List(ctx context.Context, p *types.Principal, onlyUnpurchased bool, page types.Page) ([]models.ShoppingListItem, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.ShoppingListItem{}).Where("user_id = ?", p.UserID)
	if onlyUnpurchased {
		q = q.Where("is_purchased = ?", false)
	}

	var items []models.ShoppingListItem
	total, err := paginate(q, page, &items, preload("Ingredient"), orderBy("is_purchased ASC, created_at DESC"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shopping items: %w", err)
	}
	return items, total, nil
}

// Add puts an ingredient on the caller's list, merging into an existing
// unpurchased row. It reports whether a merge happened.
func (s *ShoppingService) Add(ctx context.Context, p *types.Principal, req *types.AddShoppingItemRequest) (*models.ShoppingListItem, bool, error) {
	if req.Quantity <= 0 {
		return nil, false, FieldError("quantity", "must be greater than 0")
	}
	unit := orDefault(strings.TrimSpace(req.Unit), models.DefaultUnit)

	var item *models.ShoppingListItem
	var merged bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ingredientID, err := resolveIngredient(tx, req)
		if err != nil {
			return err
		}
		item, merged, err = mergeItem(tx, p.UserID, ingredientID, req.Quantity, unit)
		return err
	})
	if err != nil {
		return nil, false, passDomainErr("add shopping item", err)
	}
	if err := s.db.WithContext(ctx).Preload("Ingredient").First(item, "id = ?", item.ID).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load shopping item: %w", err)
	}
	return item, merged, nil
}

func resolveIngredient(tx *gorm.DB, req *types.AddShoppingItemRequest) (uuid.UUID, error) {
	if req.IngredientID != nil {
		var ing models.Ingredient
		err := tx.Select("id").First(&ing, "id = ?", *req.IngredientID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, FieldError("ingredient_id", "ingredient does not exist")
		}
		return ing.ID, err
	}

	name := strings.TrimSpace(req.IngredientName)
	if name == "" {
		return uuid.Nil, Invalid("ingredient_id or ingredient_name is required")
	}

	var ing models.Ingredient
	err := tx.Transaction(func(sp *gorm.DB) error {
		return sp.Where(models.Ingredient{Name: name}).
			Attrs(models.Ingredient{Category: "other"}).
			FirstOrCreate(&ing).Error
	})
	if database.IsUniqueViolation(err) {
		err = tx.Where("name = ?", name).First(&ing).Error
	}
	return ing.ID, err
}

// mergeItem adds qty to the user's unpurchased row for the ingredient, or
// inserts a new row. An insert that loses a race to a concurrent one is
// retried as an update.
func mergeItem(tx *gorm.DB, userID, ingredientID uuid.UUID, qty float64, unit string) (*models.ShoppingListItem, bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		var item models.ShoppingListItem
		err := database.ForUpdate(tx).
			Where("user_id = ? AND ingredient_id = ? AND is_purchased = ?", userID, ingredientID, false).
			First(&item).Error
		if err == nil {
			if err := tx.Model(&models.ShoppingListItem{}).Where("id = ?", item.ID).
				Update("quantity", gorm.Expr("quantity + ?", qty)).Error; err != nil {
				return nil, false, err
			}
			item.Quantity += qty
			return &item, true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}

		item = models.ShoppingListItem{
			UserID:       userID,
			IngredientID: ingredientID,
			Quantity:     qty,
			Unit:         unit,
		}
		err = tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(&item).Error
		})
		if err == nil {
			return &item, false, nil
		}
		if !database.IsUniqueViolation(err) {
			return nil, false, err
		}
	}
	return nil, false, fmt.Errorf("shopping item for ingredient %s: %w", ingredientID, ErrConflict)
}

// Update edits one of the caller's rows. Marking a row unpurchased folds it
// into any existing unpurchased row for the same ingredient.
func (s *ShoppingService) Update(ctx context.Context, p *types.Principal, id uuid.UUID, req *types.UpdateShoppingItemRequest) (*models.ShoppingListItem, error) {
	var result models.ShoppingListItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := ownedItem(database.ForUpdate(tx), p, id)
		if err != nil {
			return err
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.Unit != nil {
			item.Unit = *req.Unit
		}

		if req.IsPurchased != nil && !*req.IsPurchased && item.IsPurchased {
			var other models.ShoppingListItem
			err := database.ForUpdate(tx).
				Where("user_id = ? AND ingredient_id = ? AND is_purchased = ? AND id <> ?", p.UserID, item.IngredientID, false, item.ID).
				First(&other).Error
			if err == nil {
				if err := tx.Model(&models.ShoppingListItem{}).Where("id = ?", other.ID).
					Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error; err != nil {
					return err
				}
				if err := tx.Delete(&models.ShoppingListItem{}, "id = ?", item.ID).Error; err != nil {
					return err
				}
				result.ID = other.ID
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		if req.IsPurchased != nil {
			item.IsPurchased = *req.IsPurchased
		}

		err = tx.Model(&models.ShoppingListItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
			"quantity":     item.Quantity,
			"unit":         item.Unit,
			"is_purchased": item.IsPurchased,
		}).Error
		result.ID = item.ID
		return err
	})
	if err != nil {
		return nil, passDomainErr("update shopping item", err)
	}
	if err := s.db.WithContext(ctx).Preload("Ingredient").First(&result, "id = ?", result.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load shopping item: %w", err)
	}
	return &result, nil
}

// Delete removes one of the caller's rows.
func (s *ShoppingService) Delete(ctx context.Context, p *types.Principal, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, p.UserID).Delete(&models.ShoppingListItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete shopping item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("shopping item")
	}
	return nil
}

func ownedItem(tx *gorm.DB, p *types.Principal, id uuid.UUID) (*models.ShoppingListItem, error) {
	var item models.ShoppingListItem
	err := tx.Where("id = ? AND user_id = ?", id, p.UserID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("shopping item")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GenerateFromRecipe merges every ingredient of a published recipe into the
// caller's list.
func (s *ShoppingService) GenerateFromRecipe(ctx context.Context, p *types.Principal, recipeID uuid.UUID) (*GenerateResult, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("id = ? AND is_published = ?", recipeID, true).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("recipe")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if len(recipe.Ingredients) == 0 {
		return nil, Invalid("recipe has no ingredients")
	}

	result := &GenerateResult{Total: len(recipe.Ingredients)}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ri := range recipe.Ingredients {
			_, merged, err := mergeItem(tx, p.UserID, ri.IngredientID, ri.Quantity, orDefault(ri.Unit, models.DefaultUnit))
			if err != nil {
				return err
			}
			if merged {
				result.Merged++
			} else {
				result.Added++
			}
		}
		return nil
	})
	if err != nil {
		return nil, passDomainErr("generate shopping list", err)
	}
	return result, nil
}
