package database

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smartrecipe/backend/internal/models"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Models lists every table owned by the application.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.Follow{},
		&models.RevokedToken{},
		&models.Ingredient{},
		&models.IngredientRecognition{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.CookingStep{},
		&models.UserBehavior{},
		&models.FoodPost{},
		&models.PostLike{},
		&models.Comment{},
		&models.ShoppingListItem{},
		&models.DietaryLog{},
	}
}

// Partial unique indexes backing the toggle and shopping list invariants.
// Both postgres and sqlite accept this syntax.
var constraintIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_behavior_toggle
		ON user_behaviors (user_id, recipe_id, behavior_type)
		WHERE behavior_type IN ('like', 'favorite')`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_shopping_unpurchased
		ON shopping_list (user_id, ingredient_id)
		WHERE is_purchased = false`,
}

// Trigram indexes for the ILIKE keyword searches, postgres only.
var postgresIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_recipe_name_trgm ON recipes USING gin (name gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_ingredient_name_trgm ON ingredients USING gin (name gin_trgm_ops)`,
}

// Migrate brings the schema up to date. On postgres the embedded SQL files run
// first so extensions exist before AutoMigrate creates vector columns.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if IsPostgres(db) {
		if err := RunMigrations(db, migrationFS, log); err != nil {
			return err
		}
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	stmts := constraintIndexes
	if IsPostgres(db) {
		stmts = append(stmts, postgresIndexes...)
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// RunMigrations executes every .sql file in fsys (under migrations/) once,
// tracking applied files in the migrations table.
func RunMigrations(db *gorm.DB, fsys fs.FS, log *zap.Logger) error {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		var count int64
		if err := db.Table("migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Debug("skipping migration", zap.String("name", name))
			continue
		}

		content, err := fs.ReadFile(fsys, "migrations/"+name)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return err
			}
			return tx.Exec("INSERT INTO migrations (name) VALUES (?)", name).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}

		log.Info("applied migration", zap.String("name", name))
	}

	return nil
}
