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

// targetExists checks that a comment target is present.
type targetExists func(db *gorm.DB, id uuid.UUID) (bool, error)

// rowExists checks for a row of model by id, with optional extra conditions.
func rowExists(model interface{}, conds ...interface{}) targetExists {
	return func(db *gorm.DB, id uuid.UUID) (bool, error) {
		q := db.Model(model).Where("id = ?", id)
		if len(conds) > 0 {
			q = q.Where(conds[0], conds[1:]...)
		}
		var count int64
		err := q.Count(&count).Error
		return count > 0, err
	}
}

// PostView is a post as seen by one caller.
type PostView struct {
	Post    *models.FoodPost
	IsLiked bool
}

// CommunityService handles posts, post likes and comments.
type CommunityService struct {
	db      *gorm.DB
	targets map[string]targetExists
}

var _ ICommunityService = (*CommunityService)(nil)

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{
		db: db,
		targets: map[string]targetExists{
			models.TargetRecipe: rowExists(&models.Recipe{}, "is_published = ?", true),
			models.TargetPost:   rowExists(&models.FoodPost{}),
		},
	}
}

// ListPosts returns one page of posts, newest first.
func (s *CommunityService) ListPosts(ctx context.Context, viewer *types.Principal, page types.Page) ([]PostView, int64, error) {
	var posts []models.FoodPost
	q := s.db.WithContext(ctx).Model(&models.FoodPost{})
	total, err := paginate(q, page, &posts, preload("User.Profile"), preload("Recipe"), orderBy("created_at DESC"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	liked, err := s.likedPosts(ctx, viewer, posts)
	if err != nil {
		return nil, 0, err
	}
	views := make([]PostView, len(posts))
	for i := range posts {
		views[i] = PostView{Post: &posts[i], IsLiked: liked[posts[i].ID]}
	}
	return views, total, nil
}

func (s *CommunityService) likedPosts(ctx context.Context, viewer *types.Principal, posts []models.FoodPost) (map[uuid.UUID]bool, error) {
	liked := map[uuid.UUID]bool{}
	if viewer == nil || len(posts) == 0 {
		return liked, nil
	}
	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	var likedIDs []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("user_id = ? AND post_id IN ?", viewer.UserID, ids).
		Pluck("post_id", &likedIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load post likes: %w", err)
	}
	for _, id := range likedIDs {
		liked[id] = true
	}
	return liked, nil
}

// GetPost returns one post.
func (s *CommunityService) GetPost(ctx context.Context, viewer *types.Principal, id uuid.UUID) (*PostView, error) {
	var post models.FoodPost
	err := s.db.WithContext(ctx).Preload("User.Profile").Preload("Recipe").First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("post")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	liked, err := s.likedPosts(ctx, viewer, []models.FoodPost{post})
	if err != nil {
		return nil, err
	}
	return &PostView{Post: &post, IsLiked: liked[post.ID]}, nil
}

// CreatePost publishes a post for the caller.
func (s *CommunityService) CreatePost(ctx context.Context, p *types.Principal, req *types.CreatePostRequest) (*PostView, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, FieldError("content", "this field may not be blank")
	}
	db := s.db.WithContext(ctx)
	if req.RecipeID != nil {
		ok, err := s.targets[models.TargetRecipe](db, *req.RecipeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check recipe: %w", err)
		}
		if !ok {
			return nil, FieldError("recipe_id", "recipe does not exist")
		}
	}

	post := &models.FoodPost{
		UserID:   p.UserID,
		RecipeID: req.RecipeID,
		Content:  req.Content,
		Images:   req.Images,
	}
	if err := db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return s.GetPost(ctx, p, post.ID)
}

// DeletePost removes a post owned by the caller with its likes and comments.
func (s *CommunityService) DeletePost(ctx context.Context, p *types.Principal, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.FoodPost
		if err := tx.Select("id", "user_id").First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("post")
			}
			return err
		}
		if post.UserID != p.UserID {
			return ErrForbidden
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetPost, id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.FoodPost{}, "id = ?", id).Error
	})
	return passDomainErr("delete post", err)
}

// TogglePostLike likes the post, or removes the like when present, keeping
// the likes counter in step.
func (s *CommunityService) TogglePostLike(ctx context.Context, p *types.Principal, id uuid.UUID) (*ToggleResult, error) {
	result := &ToggleResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.FoodPost
		if err := database.ForUpdate(tx).Select("id").First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("post")
			}
			return err
		}

		res := tx.Where("user_id = ? AND post_id = ?", p.UserID, id).Delete(&models.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		delta := gorm.Expr("likes + 1")
		if res.RowsAffected > 0 {
			delta = gorm.Expr("CASE WHEN likes > 0 THEN likes - 1 ELSE 0 END")
		} else {
			result.Active = true
			if err := tx.Create(&models.PostLike{UserID: p.UserID, PostID: id}).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.FoodPost{}).Where("id = ?", id).UpdateColumn("likes", delta).Error; err != nil {
			return err
		}
		return tx.Model(&models.FoodPost{}).Select("likes").Where("id = ?", id).Row().Scan(&result.Count)
	})
	if database.IsUniqueViolation(err) {
		result.Active = true
		err = s.db.WithContext(ctx).Model(&models.FoodPost{}).Select("likes").Where("id = ?", id).Row().Scan(&result.Count)
	}
	if err != nil {
		return nil, passDomainErr("toggle post like", err)
	}
	return result, nil
}

// ListComments returns the top-level comments on a target, newest first, with
// their replies nested beneath them.
func (s *CommunityService) ListComments(ctx context.Context, targetType string, targetID uuid.UUID) ([]models.Comment, error) {
	if _, ok := s.targets[targetType]; !ok {
		return nil, FieldError("target_type", "must be one of recipe, post")
	}

	var all []models.Comment
	err := s.db.WithContext(ctx).
		Preload("User.Profile").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Find(&all).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return buildCommentTree(all), nil
}

// buildCommentTree nests replies under their parents. Input order is kept at
// every level.
func buildCommentTree(all []models.Comment) []models.Comment {
	children := map[uuid.UUID][]models.Comment{}
	var roots []models.Comment
	for _, c := range all {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var attach func(c *models.Comment)
	attach = func(c *models.Comment) {
		c.Replies = children[c.ID]
		if c.Replies == nil {
			c.Replies = []models.Comment{}
		}
		for i := range c.Replies {
			attach(&c.Replies[i])
		}
	}
	if roots == nil {
		roots = []models.Comment{}
	}
	for i := range roots {
		attach(&roots[i])
	}
	return roots
}

// CreateComment adds a comment to a recipe or post. A parent must belong to
// the same target. Post comment counters move in the same transaction.
func (s *CommunityService) CreateComment(ctx context.Context, p *types.Principal, req *types.CreateCommentRequest) (*models.Comment, error) {
	exists, ok := s.targets[req.TargetType]
	if !ok {
		return nil, FieldError("target_type", "must be one of recipe, post")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, FieldError("content", "this field may not be blank")
	}

	comment := &models.Comment{
		UserID:     p.UserID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Content:    req.Content,
		ParentID:   req.Parent,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, req.TargetID)
		if err != nil {
			return err
		}
		if !found {
			return notFound(req.TargetType)
		}

		if req.Parent != nil {
			var parent models.Comment
			err := tx.Select("id", "target_type", "target_id").First(&parent, "id = ?", *req.Parent).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return FieldError("parent", "parent comment does not exist")
			}
			if err != nil {
				return err
			}
			if parent.TargetType != req.TargetType || parent.TargetID != req.TargetID {
				return FieldError("parent", "parent comment belongs to a different target")
			}
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if req.TargetType == models.TargetPost {
			return tx.Model(&models.FoodPost{}).Where("id = ?", req.TargetID).
				UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
		}
		return nil
	})
	if err != nil {
		return nil, passDomainErr("create comment", err)
	}

	if err := s.db.WithContext(ctx).Preload("User.Profile").First(comment, "id = ?", comment.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	comment.Replies = []models.Comment{}
	return comment, nil
}

// DeleteComment removes a comment owned by the caller along with its replies,
// then recounts the post's comments.
func (s *CommunityService) DeleteComment(ctx context.Context, p *types.Principal, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("comment")
			}
			return err
		}
		if comment.UserID != p.UserID {
			return ErrForbidden
		}

		ids, err := commentSubtree(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if comment.TargetType != models.TargetPost {
			return nil
		}
		var count int64
		if err := tx.Model(&models.Comment{}).
			Where("target_type = ? AND target_id = ?", models.TargetPost, comment.TargetID).
			Count(&count).Error; err != nil {
			return err
		}
		return tx.Model(&models.FoodPost{}).Where("id = ?", comment.TargetID).
			UpdateColumn("comments_count", count).Error
	})
	return passDomainErr("delete comment", err)
}

// commentSubtree returns id and the ids of every reply beneath it.
func commentSubtree(tx *gorm.DB, id uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{id}
	frontier := []uuid.UUID{id}
	for len(frontier) > 0 {
		var next []uuid.UUID
		if err := tx.Model(&models.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &next).Error; err != nil {
			return nil, err
		}
		ids = append(ids, next...)
		frontier = next
	}
	return ids, nil
}

// passDomainErr returns domain errors unchanged and wraps the rest.
func passDomainErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrConflict) {
		return err
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
