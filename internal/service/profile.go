package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartrecipe/backend/internal/database"
	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/types"
)

// ProfileService handles user profile operations and the follow graph.
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db: db,
	}
}

// PublicProfile is what other users may see about someone.
type PublicProfile struct {
	User           *models.User
	FollowerCount  int64
	FollowingCount int64
	RecipeCount    int64
	IsFollowing    bool
}

// GetProfile loads the user with their profile, creating an empty profile
// when none exists yet.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Profile == nil {
		profile := &models.UserProfile{UserID: user.ID}
		if err := s.db.WithContext(ctx).Create(profile).Error; err != nil && !database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		user.Profile = profile
	}
	return &user, nil
}

// UpdateProfile applies the fields present in req. A null health goal or
// calorie target clears it.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := user.Profile
	if req.Nickname != nil {
		p.Nickname = *req.Nickname
	}
	if req.Avatar != nil {
		p.Avatar = *req.Avatar
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.Age != nil {
		p.Age = req.Age
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.DietaryPreference != nil {
		p.DietaryPreference = *req.DietaryPreference
	}
	if req.Allergies != nil {
		p.Allergies = *req.Allergies
	}
	if req.HealthGoal.Set {
		p.HealthGoal = ""
		if req.HealthGoal.Value != nil {
			p.HealthGoal = *req.HealthGoal.Value
		}
	}
	if req.DailyCaloriesTarget.Set {
		p.DailyCaloriesTarget = req.DailyCaloriesTarget.Value
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Email != nil {
			user.Email = *req.Email
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("email", user.Email).Error; err != nil {
				return err
			}
		}
		return tx.Save(p).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// GetPublicProfile returns a user's public view with follow counts. viewer
// may be nil for anonymous callers.
func (s *ProfileService) GetPublicProfile(ctx context.Context, viewer *types.Principal, userID uuid.UUID) (*PublicProfile, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	out := &PublicProfile{User: user}
	if err := db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&out.FollowerCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&out.FollowingCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}
	if err := db.Model(&models.Recipe{}).Where("author_id = ? AND is_published = ?", userID, true).Count(&out.RecipeCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}
	if viewer != nil {
		var n int64
		if err := db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", viewer.UserID, userID).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to check follow: %w", err)
		}
		out.IsFollowing = n > 0
	}
	return out, nil
}

// ToggleFollow follows target, or unfollows when already following. It
// reports the resulting state.
func (s *ProfileService) ToggleFollow(ctx context.Context, p *types.Principal, target uuid.UUID) (bool, error) {
	if p.UserID == target {
		return false, Invalid("you cannot follow yourself")
	}
	if err := s.requireUser(ctx, target); err != nil {
		return false, err
	}

	following := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", p.UserID, target).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		following = true
		return tx.Create(&models.Follow{FollowerID: p.UserID, FollowingID: target}).Error
	})
	if database.IsUniqueViolation(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle follow: %w", err)
	}
	return following, nil
}

// Unfollow removes the follow edge if present.
func (s *ProfileService) Unfollow(ctx context.Context, p *types.Principal, target uuid.UUID) error {
	if err := s.requireUser(ctx, target); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", p.UserID, target).
		Delete(&models.Follow{}).Error
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	return nil
}

// ListFollowing returns the users userID follows, newest first.
func (s *ProfileService) ListFollowing(ctx context.Context, userID uuid.UUID, page types.Page) ([]models.Follow, int64, error) {
	return s.listFollows(ctx, "follower_id = ?", "Following", userID, page)
}

// ListFollowers returns the users following userID, newest first.
func (s *ProfileService) ListFollowers(ctx context.Context, userID uuid.UUID, page types.Page) ([]models.Follow, int64, error) {
	return s.listFollows(ctx, "following_id = ?", "Follower", userID, page)
}

func (s *ProfileService) listFollows(ctx context.Context, where, assoc string, userID uuid.UUID, page types.Page) ([]models.Follow, int64, error) {
	var follows []models.Follow
	q := s.db.WithContext(ctx).Model(&models.Follow{}).Where(where, userID)
	total, err := paginate(q, page, &follows, preload(assoc+".Profile"), orderBy("created_at DESC"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list follows: %w", err)
	}
	return follows, total, nil
}

func (s *ProfileService) requireUser(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if count == 0 {
		return notFound("user")
	}
	return nil
}
