package service

import (
	"gorm.io/gorm"

	"github.com/smartrecipe/backend/internal/types"
)

// paginate counts the rows matched by q and loads one page of them into dest.
// Ordering and preloads go in scopes so the count query stays plain.
func paginate(q *gorm.DB, page types.Page, dest interface{}, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	err := q.Scopes(scopes...).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(dest).Error
	return total, err
}

func orderBy(order string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}

func preload(assoc string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(assoc)
	}
}

func selectColumns(cols string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Select(cols)
	}
}
