package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/types"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

func (m *MockRecipeService) recipes(args mock.Arguments) ([]models.Recipe, int64, error) {
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) recipe(args mock.Arguments) (*models.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) toggle(args mock.Arguments) (*service.ToggleResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ToggleResult), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, filter types.RecipeFilter, page types.Page) ([]models.Recipe, int64, error) {
	return m.recipes(m.Called(ctx, filter, page))
}

func (m *MockRecipeService) Get(ctx context.Context, viewer *types.Principal, id uuid.UUID) (*service.RecipeDetail, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) Create(ctx context.Context, p *types.Principal, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, p, req))
}

func (m *MockRecipeService) Update(ctx context.Context, p *types.Principal, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, p, id, req))
}

func (m *MockRecipeService) Delete(ctx context.Context, p *types.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockRecipeService) ToggleLike(ctx context.Context, p *types.Principal, id uuid.UUID) (*service.ToggleResult, error) {
	return m.toggle(m.Called(ctx, p, id))
}

func (m *MockRecipeService) ToggleFavorite(ctx context.Context, p *types.Principal, id uuid.UUID) (*service.ToggleResult, error) {
	return m.toggle(m.Called(ctx, p, id))
}

func (m *MockRecipeService) Cook(ctx context.Context, p *types.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockRecipeService) Favorites(ctx context.Context, p *types.Principal, page types.Page) ([]models.Recipe, int64, error) {
	return m.recipes(m.Called(ctx, p, page))
}

func (m *MockRecipeService) MyRecipes(ctx context.Context, p *types.Principal, page types.Page) ([]models.Recipe, int64, error) {
	return m.recipes(m.Called(ctx, p, page))
}

func (m *MockRecipeService) History(ctx context.Context, p *types.Principal, page types.Page) ([]models.UserBehavior, int64, error) {
	args := m.Called(ctx, p, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.UserBehavior), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) Search(ctx context.Context, keyword string) ([]models.Recipe, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Recommend(ctx context.Context) ([]models.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}
