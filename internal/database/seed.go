package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartrecipe/backend/internal/models"
)

const seedBatchSize = 10

type seedIngredient struct {
	name                         string
	category                     string
	calories, protein, fat, carb float64
	fiber                        float64
	season                       []int
}

// Per-100g values for a starter catalog.
var ingredientCatalog = []seedIngredient{
	{"西红柿", "vegetable", 18, 0.9, 0.2, 3.9, 1.2, []int{6, 7, 8, 9}},
	{"黄瓜", "vegetable", 15, 0.7, 0.1, 3.6, 0.5, []int{5, 6, 7, 8}},
	{"土豆", "vegetable", 77, 2.0, 0.1, 17.5, 2.2, []int{9, 10, 11}},
	{"胡萝卜", "vegetable", 41, 0.9, 0.2, 9.6, 2.8, []int{10, 11, 12, 1}},
	{"白菜", "vegetable", 13, 1.5, 0.1, 2.2, 1.0, []int{11, 12, 1, 2}},
	{"菠菜", "vegetable", 23, 2.9, 0.4, 3.6, 2.2, []int{3, 4, 10, 11}},
	{"西兰花", "vegetable", 34, 2.8, 0.4, 6.6, 2.6, []int{10, 11, 12, 1, 2, 3}},
	{"茄子", "vegetable", 25, 1.0, 0.2, 5.9, 3.0, []int{6, 7, 8, 9}},
	{"青椒", "vegetable", 20, 0.9, 0.2, 4.6, 1.7, []int{6, 7, 8}},
	{"洋葱", "vegetable", 40, 1.1, 0.1, 9.3, 1.7, []int{4, 5, 6}},
	{"猪肉", "meat", 242, 27.0, 14.0, 0, 0, nil},
	{"牛肉", "meat", 250, 26.0, 15.0, 0, 0, nil},
	{"鸡胸肉", "meat", 165, 31.0, 3.6, 0, 0, nil},
	{"羊肉", "meat", 294, 25.0, 21.0, 0, 0, []int{11, 12, 1}},
	{"虾", "seafood", 99, 24.0, 0.3, 0.2, 0, []int{5, 6, 7, 8, 9}},
	{"鲈鱼", "seafood", 105, 18.6, 3.4, 0, 0, []int{9, 10, 11}},
	{"鸡蛋", "egg", 143, 12.6, 9.5, 0.7, 0, nil},
	{"牛奶", "dairy", 54, 3.0, 3.2, 3.4, 0, nil},
	{"豆腐", "bean", 76, 8.1, 4.8, 1.9, 0.3, nil},
	{"大米", "grain", 346, 7.4, 0.8, 77.9, 0.7, nil},
	{"面粉", "grain", 364, 10.3, 1.0, 76.3, 2.7, nil},
	{"燕麦", "grain", 389, 16.9, 6.9, 66.3, 10.6, nil},
	{"苹果", "fruit", 52, 0.3, 0.2, 13.8, 2.4, []int{9, 10, 11}},
	{"香蕉", "fruit", 89, 1.1, 0.3, 22.8, 2.6, nil},
	{"橙子", "fruit", 47, 0.9, 0.1, 11.8, 2.4, []int{11, 12, 1, 2}},
	{"花生", "nuts", 567, 25.8, 49.2, 16.1, 8.5, []int{8, 9, 10}},
	{"核桃", "nuts", 654, 15.2, 65.2, 13.7, 6.7, []int{9, 10}},
	{"食用油", "oil", 884, 0, 100, 0, 0, nil},
	{"盐", "seasoning", 0, 0, 0, 0, 0, nil},
	{"酱油", "seasoning", 53, 8.1, 0.6, 4.9, 0.8, nil},
	{"白糖", "seasoning", 387, 0, 0, 100, 0, nil},
	{"大蒜", "seasoning", 149, 6.4, 0.5, 33.1, 2.1, []int{5, 6}},
	{"生姜", "seasoning", 80, 1.8, 0.8, 17.8, 2.0, []int{9, 10}},
}

// SeedIngredients inserts the starter catalog. Names that already exist are
// left untouched, so it is safe to run repeatedly. It returns the number of
// rows inserted.
func SeedIngredients(db *gorm.DB, log *zap.Logger) (int64, error) {
	rows := make([]models.Ingredient, 0, len(ingredientCatalog))
	for _, s := range ingredientCatalog {
		rows = append(rows, models.Ingredient{
			Name:         s.name,
			Category:     s.category,
			Calories:     s.calories,
			Protein:      s.protein,
			Fat:          s.fat,
			Carbohydrate: s.carb,
			Fiber:        s.fiber,
			Season:       s.season,
		})
	}

	var inserted int64
	for i := 0; i < len(rows); i += seedBatchSize {
		end := i + seedBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(rows[i:end])
		if res.Error != nil {
			return inserted, fmt.Errorf("failed to seed ingredients %d-%d: %w", i+1, end, res.Error)
		}
		inserted += res.RowsAffected
		log.Debug("seeded ingredient batch", zap.Int("from", i+1), zap.Int("to", end), zap.Int64("inserted", res.RowsAffected))
	}
	log.Info("ingredient catalog seeded", zap.Int64("inserted", inserted), zap.Int("catalog", len(rows)))
	return inserted, nil
}
