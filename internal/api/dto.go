package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/service"
)

// Response bodies. Model fields are reused through embedding; outer fields
// shadow nested associations that must not leak full user rows.

type userBrief struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Nickname string    `json:"nickname"`
	Avatar   string    `json:"avatar"`
}

func newUserBrief(u *models.User) *userBrief {
	if u == nil {
		return nil
	}
	out := &userBrief{ID: u.ID, Username: u.Username}
	if u.Profile != nil {
		out.Nickname = u.Profile.Nickname
		out.Avatar = u.Profile.Avatar
	}
	return out
}

type profileDTO struct {
	ID                  uuid.UUID `json:"id"`
	User                uuid.UUID `json:"user"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	Nickname            string    `json:"nickname"`
	Avatar              string    `json:"avatar"`
	Gender              string    `json:"gender"`
	GenderDisplay       string    `json:"gender_display"`
	Age                 *int      `json:"age"`
	AgeGroup            string    `json:"age_group"`
	Phone               string    `json:"phone"`
	DietaryPreference   []string  `json:"dietary_preference"`
	Allergies           []string  `json:"allergies"`
	HealthGoal          string    `json:"health_goal"`
	HealthGoalDisplay   string    `json:"health_goal_display"`
	DailyCaloriesTarget *int      `json:"daily_calories_target"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func newProfileDTO(u *models.User) *profileDTO {
	p := u.Profile
	if p == nil {
		p = &models.UserProfile{UserID: u.ID}
	}
	return &profileDTO{
		ID:                  p.ID,
		User:                u.ID,
		Username:            u.Username,
		Email:               u.Email,
		Nickname:            p.Nickname,
		Avatar:              p.Avatar,
		Gender:              p.Gender,
		GenderDisplay:       models.Genders[p.Gender],
		Age:                 p.Age,
		AgeGroup:            p.AgeGroup(),
		Phone:               p.Phone,
		DietaryPreference:   stringList(p.DietaryPreference),
		Allergies:           stringList(p.Allergies),
		HealthGoal:          p.HealthGoal,
		HealthGoalDisplay:   models.HealthGoals[p.HealthGoal],
		DailyCaloriesTarget: p.DailyCaloriesTarget,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

type publicProfileDTO struct {
	userBrief
	Gender         string    `json:"gender"`
	HealthGoal     string    `json:"health_goal"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	RecipeCount    int64     `json:"recipe_count"`
	IsFollowing    bool      `json:"is_following"`
	DateJoined     time.Time `json:"date_joined"`
}

func newPublicProfileDTO(p *service.PublicProfile) *publicProfileDTO {
	out := &publicProfileDTO{
		userBrief:      *newUserBrief(p.User),
		FollowerCount:  p.FollowerCount,
		FollowingCount: p.FollowingCount,
		RecipeCount:    p.RecipeCount,
		IsFollowing:    p.IsFollowing,
		DateJoined:     p.User.CreatedAt,
	}
	if p.User.Profile != nil {
		out.Gender = p.User.Profile.Gender
		out.HealthGoal = p.User.Profile.HealthGoal
	}
	return out
}

type followDTO struct {
	ID        uuid.UUID  `json:"id"`
	User      *userBrief `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
}

// newFollowDTOs renders follow edges from one side: the followed user when
// following is true, the follower otherwise.
func newFollowDTOs(follows []models.Follow, following bool) []followDTO {
	out := make([]followDTO, 0, len(follows))
	for _, f := range follows {
		u := f.Follower
		if following {
			u = f.Following
		}
		out = append(out, followDTO{ID: f.ID, User: newUserBrief(u), CreatedAt: f.CreatedAt})
	}
	return out
}

type ingredientDTO struct {
	*models.Ingredient
	CategoryDisplay string `json:"category_display"`
}

func newIngredientDTO(ing *models.Ingredient) *ingredientDTO {
	if ing == nil {
		return nil
	}
	if ing.Season == nil {
		ing.Season = []int{}
	}
	return &ingredientDTO{Ingredient: ing, CategoryDisplay: models.IngredientCategories[ing.Category]}
}

func newIngredientDTOs(items []models.Ingredient) []*ingredientDTO {
	out := make([]*ingredientDTO, 0, len(items))
	for i := range items {
		out = append(out, newIngredientDTO(&items[i]))
	}
	return out
}

type recipeDTO struct {
	*models.Recipe
	Author             *userBrief `json:"author"`
	DifficultyDisplay  string     `json:"difficulty_display"`
	CategoryDisplay    string     `json:"category_display"`
	CuisineTypeDisplay string     `json:"cuisine_type_display"`
}

func newRecipeDTO(r *models.Recipe) *recipeDTO {
	if r == nil {
		return nil
	}
	if r.Tags == nil {
		r.Tags = models.JSONBStringArray{}
	}
	return &recipeDTO{
		Recipe:             r,
		Author:             newUserBrief(r.Author),
		DifficultyDisplay:  models.RecipeDifficulties[r.Difficulty],
		CategoryDisplay:    models.RecipeCategories[r.Category],
		CuisineTypeDisplay: models.CuisineTypes[r.CuisineType],
	}
}

func newRecipeDTOs(recipes []models.Recipe) []*recipeDTO {
	out := make([]*recipeDTO, 0, len(recipes))
	for i := range recipes {
		out = append(out, newRecipeDTO(&recipes[i]))
	}
	return out
}

type recipeDetailDTO struct {
	recipeDTO
	IsLiked     bool     `json:"is_liked"`
	IsFavorited bool     `json:"is_favorited"`
	Allergens   []string `json:"allergens"`
}

func newRecipeDetailDTO(d *service.RecipeDetail) *recipeDetailDTO {
	out := &recipeDetailDTO{
		recipeDTO:   *newRecipeDTO(d.Recipe),
		IsLiked:     d.IsLiked,
		IsFavorited: d.IsFavorited,
		Allergens:   d.Allergens,
	}
	if out.Allergens == nil {
		out.Allergens = []string{}
	}
	if out.Recipe.Ingredients == nil {
		out.Recipe.Ingredients = []models.RecipeIngredient{}
	}
	if out.Recipe.Steps == nil {
		out.Recipe.Steps = []models.CookingStep{}
	}
	return out
}

type behaviorDTO struct {
	ID           uuid.UUID  `json:"id"`
	BehaviorType string     `json:"behavior_type"`
	Recipe       *recipeDTO `json:"recipe"`
	CreatedAt    time.Time  `json:"created_at"`
}

func newBehaviorDTOs(rows []models.UserBehavior) []behaviorDTO {
	out := make([]behaviorDTO, 0, len(rows))
	for _, b := range rows {
		out = append(out, behaviorDTO{ID: b.ID, BehaviorType: b.BehaviorType, Recipe: newRecipeDTO(b.Recipe), CreatedAt: b.CreatedAt})
	}
	return out
}

type recipeBrief struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CoverImage string    `json:"cover_image"`
}

type postDTO struct {
	*models.FoodPost
	User    *userBrief   `json:"user"`
	Recipe  *recipeBrief `json:"recipe"`
	IsLiked bool         `json:"is_liked"`
}

func newPostDTO(v *service.PostView) *postDTO {
	p := v.Post
	if p.Images == nil {
		p.Images = models.JSONBStringArray{}
	}
	out := &postDTO{FoodPost: p, User: newUserBrief(p.User), IsLiked: v.IsLiked}
	if p.Recipe != nil {
		out.Recipe = &recipeBrief{ID: p.Recipe.ID, Name: p.Recipe.Name, CoverImage: p.Recipe.CoverImage}
	}
	return out
}

func newPostDTOs(views []service.PostView) []*postDTO {
	out := make([]*postDTO, 0, len(views))
	for i := range views {
		out = append(out, newPostDTO(&views[i]))
	}
	return out
}

type commentDTO struct {
	*models.Comment
	User    *userBrief   `json:"user"`
	Replies []commentDTO `json:"replies"`
}

func newCommentDTO(c *models.Comment) commentDTO {
	return commentDTO{Comment: c, User: newUserBrief(c.User), Replies: newCommentDTOs(c.Replies)}
}

func newCommentDTOs(comments []models.Comment) []commentDTO {
	out := make([]commentDTO, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentDTO(&comments[i]))
	}
	return out
}

type shoppingItemDTO struct {
	*models.ShoppingListItem
	IngredientName     string `json:"ingredient_name"`
	IngredientCategory string `json:"ingredient_category"`
}

func newShoppingItemDTO(item *models.ShoppingListItem) *shoppingItemDTO {
	out := &shoppingItemDTO{ShoppingListItem: item}
	if item.Ingredient != nil {
		out.IngredientName = item.Ingredient.Name
		out.IngredientCategory = item.Ingredient.Category
	}
	return out
}

func newShoppingItemDTOs(items []models.ShoppingListItem) []*shoppingItemDTO {
	out := make([]*shoppingItemDTO, 0, len(items))
	for i := range items {
		out = append(out, newShoppingItemDTO(&items[i]))
	}
	return out
}

type dietaryLogDTO struct {
	*models.DietaryLog
	FoodName        string `json:"food_name"`
	MealTypeDisplay string `json:"meal_type_display"`
}

func newDietaryLogDTO(l *models.DietaryLog) *dietaryLogDTO {
	return &dietaryLogDTO{DietaryLog: l, FoodName: l.FoodName(), MealTypeDisplay: models.MealTypes[l.MealType]}
}

func newDietaryLogDTOs(logs []models.DietaryLog) []*dietaryLogDTO {
	out := make([]*dietaryLogDTO, 0, len(logs))
	for i := range logs {
		out = append(out, newDietaryLogDTO(&logs[i]))
	}
	return out
}

type dailySummaryDTO struct {
	Date        string                      `json:"date"`
	Logs        []*dietaryLogDTO            `json:"logs"`
	MealGroups  map[string][]*dietaryLogDTO `json:"meal_groups"`
	Summary     service.Macros              `json:"summary"`
	DailyTarget *int                        `json:"daily_target"`
}

func newDailySummaryDTO(d *service.DailySummary) *dailySummaryDTO {
	out := &dailySummaryDTO{
		Date:        d.Date,
		Logs:        newDietaryLogDTOs(d.Logs),
		MealGroups:  make(map[string][]*dietaryLogDTO, len(models.MealTypes)),
		Summary:     d.Summary,
		DailyTarget: d.DailyTarget,
	}
	for meal := range models.MealTypes {
		out.MealGroups[meal] = newDietaryLogDTOs(d.MealGroups[meal])
	}
	return out
}

type recognitionDTO struct {
	ID          uuid.UUID                `json:"id"`
	Ingredients []service.RecognizedItem `json:"ingredients"`
}

type nutritionResultDTO struct {
	Ingredient    *ingredientDTO   `json:"ingredient"`
	QuantityGrams float64          `json:"quantity_grams"`
	Nutrition     models.Nutrition `json:"nutrition"`
}

func stringList(a models.JSONBStringArray) []string {
	if a == nil {
		return []string{}
	}
	return a
}
