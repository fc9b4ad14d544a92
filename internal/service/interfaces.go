package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *types.LoginRequest) (*models.User, *types.TokenPair, error)
	Logout(ctx context.Context, p *types.Principal, refresh string) error
	Refresh(ctx context.Context, refresh string) (string, error)
	ChangePassword(ctx context.Context, p *types.Principal, req *types.ChangePasswordRequest) error
	ValidateAccessToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error)
	GetPublicProfile(ctx context.Context, viewer *types.Principal, userID uuid.UUID) (*PublicProfile, error)
	ToggleFollow(ctx context.Context, p *types.Principal, target uuid.UUID) (bool, error)
	Unfollow(ctx context.Context, p *types.Principal, target uuid.UUID) error
	ListFollowing(ctx context.Context, userID uuid.UUID, page types.Page) ([]models.Follow, int64, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, page types.Page) ([]models.Follow, int64, error)
}

// IIngredientService defines the interface for the ingredient catalog
type IIngredientService interface {
	List(ctx context.Context, filter IngredientFilter, page types.Page) ([]models.Ingredient, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	Search(ctx context.Context, keyword string) ([]models.Ingredient, error)
	Seasonal(ctx context.Context, month int) ([]models.Ingredient, error)
	Create(ctx context.Context, req *types.IngredientRequest) (*models.Ingredient, error)
	Update(ctx context.Context, id uuid.UUID, req *types.IngredientRequest) (*models.Ingredient, error)
	Recognize(ctx context.Context, p *types.Principal, imageURL string) (*Recognition, error)
	RecognitionHistory(ctx context.Context, p *types.Principal, page types.Page) ([]models.IngredientRecognition, int64, error)
	CalculateNutrition(ctx context.Context, id uuid.UUID, grams float64) (*NutritionResult, error)
	RecommendRecipes(ctx context.Context, names []string) ([]models.Recipe, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	List(ctx context.Context, filter types.RecipeFilter, page types.Page) ([]models.Recipe, int64, error)
	Get(ctx context.Context, viewer *types.Principal, id uuid.UUID) (*RecipeDetail, error)
	Create(ctx context.Context, p *types.Principal, req *types.CreateRecipeRequest) (*models.Recipe, error)
	Update(ctx context.Context, p *types.Principal, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	Delete(ctx context.Context, p *types.Principal, id uuid.UUID) error
	ToggleLike(ctx context.Context, p *types.Principal, id uuid.UUID) (*ToggleResult, error)
	ToggleFavorite(ctx context.Context, p *types.Principal, id uuid.UUID) (*ToggleResult, error)
	Cook(ctx context.Context, p *types.Principal, id uuid.UUID) error
	Favorites(ctx context.Context, p *types.Principal, page types.Page) ([]models.Recipe, int64, error)
	MyRecipes(ctx context.Context, p *types.Principal, page types.Page) ([]models.Recipe, int64, error)
	History(ctx context.Context, p *types.Principal, page types.Page) ([]models.UserBehavior, int64, error)
	Search(ctx context.Context, keyword string) ([]models.Recipe, error)
	Recommend(ctx context.Context) ([]models.Recipe, error)
}

// ICommunityService defines the interface for posts and comments
type ICommunityService interface {
	ListPosts(ctx context.Context, viewer *types.Principal, page types.Page) ([]PostView, int64, error)
	GetPost(ctx context.Context, viewer *types.Principal, id uuid.UUID) (*PostView, error)
	CreatePost(ctx context.Context, p *types.Principal, req *types.CreatePostRequest) (*PostView, error)
	DeletePost(ctx context.Context, p *types.Principal, id uuid.UUID) error
	TogglePostLike(ctx context.Context, p *types.Principal, id uuid.UUID) (*ToggleResult, error)
	ListComments(ctx context.Context, targetType string, targetID uuid.UUID) ([]models.Comment, error)
	CreateComment(ctx context.Context, p *types.Principal, req *types.CreateCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, p *types.Principal, id uuid.UUID) error
}

// IShoppingService defines the interface for shopping list operations
type IShoppingService interface {
	List(ctx context.Context, p *types.Principal, onlyUnpurchased bool, page types.Page) ([]models.ShoppingListItem, int64, error)
	Add(ctx context.Context, p *types.Principal, req *types.AddShoppingItemRequest) (*models.ShoppingListItem, bool, error)
	Update(ctx context.Context, p *types.Principal, id uuid.UUID, req *types.UpdateShoppingItemRequest) (*models.ShoppingListItem, error)
	Delete(ctx context.Context, p *types.Principal, id uuid.UUID) error
	GenerateFromRecipe(ctx context.Context, p *types.Principal, recipeID uuid.UUID) (*GenerateResult, error)
}

// INutritionService defines the interface for the dietary diary and reports
type INutritionService interface {
	Daily(ctx context.Context, p *types.Principal, date string) (*DailySummary, error)
	CreateLog(ctx context.Context, p *types.Principal, req *types.CreateDietaryLogRequest) (*models.DietaryLog, error)
	DeleteLog(ctx context.Context, p *types.Principal, id uuid.UUID) error
	Report(ctx context.Context, p *types.Principal, period string) (*Report, error)
	Advice(ctx context.Context, p *types.Principal) (*Advice, error)
	RecipeNutrition(ctx context.Context, id uuid.UUID) (*RecipeNutrition, error)
}

// IUploadService defines the interface for file uploads
type IUploadService interface {
	Upload(ctx context.Context, p *types.Principal, filename string, size int64, body io.Reader) (string, error)
}

var _ IUploadService = (*UploadService)(nil)
