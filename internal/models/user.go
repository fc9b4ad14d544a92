package models

import (
	"time"

	"github.com/google/uuid"
)

// Health goals a profile can select.
const (
	GoalLoseWeight       = "lose_weight"
	GoalGainMuscle       = "gain_muscle"
	GoalMaintain         = "maintain"
	GoalImproveNutrition = "improve_nutrition"
)

var HealthGoals = map[string]string{
	GoalLoseWeight:       "减肥",
	GoalGainMuscle:       "增肌",
	GoalMaintain:         "保持健康",
	GoalImproveNutrition: "改善营养",
}

var Genders = map[string]string{
	"male":   "男",
	"female": "女",
	"other":  "其他",
}

type User struct {
	Base
	UpdatedAt    time.Time    `json:"updated_at"`
	Username     string       `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string       `gorm:"size:254" json:"email"`
	PasswordHash string       `gorm:"not null" json:"-"`
	IsActive     bool         `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool         `gorm:"not null;default:false" json:"is_staff"`
	LastLogin    *time.Time   `json:"last_login"`
	Profile      *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

type UserProfile struct {
	Base
	UpdatedAt           time.Time        `json:"updated_at"`
	UserID              uuid.UUID        `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Nickname            string           `gorm:"size:50" json:"nickname"`
	Avatar              string           `gorm:"size:500" json:"avatar"`
	Gender              string           `gorm:"size:10" json:"gender"`
	Age                 *int             `json:"age"`
	Phone               string           `gorm:"size:20" json:"phone"`
	DietaryPreference   JSONBStringArray `gorm:"type:jsonb" json:"dietary_preference"`
	Allergies           JSONBStringArray `gorm:"type:jsonb" json:"allergies"`
	HealthGoal          string           `gorm:"size:50" json:"health_goal"`
	DailyCaloriesTarget *int             `json:"daily_calories_target"`
}

// AgeGroup buckets the profile's age for display.
func (p *UserProfile) AgeGroup() string {
	switch {
	case p.Age == nil || *p.Age == 0:
		return "未知"
	case *p.Age < 18:
		return "青少年"
	case *p.Age < 35:
		return "青年"
	case *p.Age < 60:
		return "中年"
	default:
		return "老年"
	}
}

// IsAllergicTo reports whether the ingredient name is on the allergy list.
func (p *UserProfile) IsAllergicTo(ingredient string) bool {
	return p.Allergies.Contains(ingredient)
}

// Follow is one edge of the follow graph.
type Follow struct {
	Base
	FollowerID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair;index" json:"following_id"`
	Follower    *User     `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following   *User     `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"following,omitempty"`
}

// RevokedToken records a refresh token id that may no longer be used.
type RevokedToken struct {
	TokenID   string    `gorm:"size:64;primarykey"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
