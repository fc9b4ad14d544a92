package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/testhelpers"
	"github.com/smartrecipe/backend/internal/types"
)

func TestUpdateProfile(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewProfileService(db)
	user := testhelpers.CreateUser(t, db, "alice")
	ctx := context.Background()

	age, target := 28, 1800
	goal, email := "lose_weight", "new@example.com"
	allergies := []string{"花生"}
	updated, err := svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{
		Age:                 &age,
		DailyCaloriesTarget: types.Some(target),
		HealthGoal:          types.Some(goal),
		Email:               &email,
		Allergies:           &allergies,
	})
	require.NoError(t, err)
	assert.Equal(t, "青年", updated.Profile.AgeGroup())

	reloaded, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, email, reloaded.Email)
	assert.Equal(t, 1800, *reloaded.Profile.DailyCaloriesTarget)
	assert.True(t, reloaded.Profile.IsAllergicTo("花生"))
	assert.Equal(t, "alice", reloaded.Profile.Nickname)
}

func TestGetProfileUnknownUser(t *testing.T) {
	svc := service.NewProfileService(testhelpers.NewTestDB(t))
	_, err := svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestToggleFollow(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewProfileService(db)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	ctx := context.Background()
	p := testhelpers.Principal(alice)

	following, err := svc.ToggleFollow(ctx, p, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	public, err := svc.GetPublicProfile(ctx, p, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), public.FollowerCount)
	assert.True(t, public.IsFollowing)

	list, total, err := svc.ListFollowing(ctx, alice.ID, types.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].Following.Username)

	following, err = svc.ToggleFollow(ctx, p, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	public, err = svc.GetPublicProfile(ctx, nil, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), public.FollowerCount)
	assert.False(t, public.IsFollowing)
}

func TestFollowSelfAndUnknown(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewProfileService(db)
	alice := testhelpers.CreateUser(t, db, "alice")
	p := testhelpers.Principal(alice)

	_, err := svc.ToggleFollow(context.Background(), p, alice.ID)
	var verr *service.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = svc.ToggleFollow(context.Background(), p, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUnfollowIsIdempotent(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewProfileService(db)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	p := testhelpers.Principal(alice)
	ctx := context.Background()

	_, err := svc.ToggleFollow(ctx, p, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Unfollow(ctx, p, bob.ID))
	require.NoError(t, svc.Unfollow(ctx, p, bob.ID))

	_, total, err := svc.ListFollowers(ctx, bob.ID, types.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdateProfileClearsNullableFields(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewProfileService(db)
	user := testhelpers.CreateUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{
		DailyCaloriesTarget: types.Some(1800),
		HealthGoal:          types.Some("lose_weight"),
	})
	require.NoError(t, err)

	// absent fields are left alone
	nickname := "ally"
	_, err = svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{Nickname: &nickname})
	require.NoError(t, err)
	reloaded, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Profile.DailyCaloriesTarget)
	assert.Equal(t, "lose_weight", reloaded.Profile.HealthGoal)

	_, err = svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{
		DailyCaloriesTarget: types.Null[int](),
		HealthGoal:          types.Null[string](),
	})
	require.NoError(t, err)
	reloaded, err = svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Profile.DailyCaloriesTarget)
	assert.Empty(t, reloaded.Profile.HealthGoal)
	assert.Equal(t, "ally", reloaded.Profile.Nickname)
}
