package models

import (
	"github.com/google/uuid"
)

// Comment target types.
const (
	TargetRecipe = "recipe"
	TargetPost   = "post"
)

// FoodPost is a social feed entry, optionally about a recipe.
type FoodPost struct {
	Base
	UserID        uuid.UUID        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User          *User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	RecipeID      *uuid.UUID       `gorm:"type:varchar(36);index" json:"recipe_id"`
	Recipe        *Recipe          `gorm:"foreignKey:RecipeID;constraint:OnDelete:SET NULL" json:"recipe,omitempty"`
	Content       string           `gorm:"type:text;not null" json:"content"`
	Images        JSONBStringArray `gorm:"type:jsonb" json:"images"`
	Likes         int              `gorm:"not null;default:0" json:"likes"`
	CommentsCount int              `gorm:"not null;default:0" json:"comments_count"`
}

type PostLike struct {
	Base
	UserID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_post_like" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PostID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_post_like" json:"post_id"`
	Post   *FoodPost `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// Comment attaches to a (TargetType, TargetID) pair rather than a foreign key
// so recipes and posts share one table.
type Comment struct {
	Base
	UserID     uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	TargetType string     `gorm:"size:20;not null;index:idx_comment_target" json:"target_type"`
	TargetID   uuid.UUID  `gorm:"type:varchar(36);not null;index:idx_comment_target" json:"target_id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	ParentID   *uuid.UUID `gorm:"type:varchar(36);index" json:"parent"`
	Replies    []Comment  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"replies"`
}
