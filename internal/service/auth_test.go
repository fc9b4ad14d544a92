package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/testhelpers"
	"github.com/smartrecipe/backend/internal/types"
)

func newAuthService(t *testing.T) (*service.AuthService, *service.DBTokenStore) {
	db := testhelpers.NewTestDB(t)
	store := service.NewDBTokenStore(db)
	return service.NewAuthService(db, "test-secret", time.Hour, 24*time.Hour, store), store
}

func register(t *testing.T, svc *service.AuthService, username string) *models.User {
	user, err := svc.Register(context.Background(), &types.RegisterRequest{
		Username:        username,
		Password:        "secret123",
		PasswordConfirm: "secret123",
		Nickname:        "Nick " + username,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterCreatesProfile(t *testing.T) {
	svc, _ := newAuthService(t)
	user := register(t, svc, "alice")

	assert.NotEmpty(t, user.ID)
	require.NotNil(t, user.Profile)
	assert.Equal(t, "Nick alice", user.Profile.Nickname)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newAuthService(t)
	register(t, svc, "alice")

	_, err := svc.Register(context.Background(), &types.RegisterRequest{
		Username: "alice", Password: "secret123", PasswordConfirm: "secret123",
	})
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "username")
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	register(t, svc, "alice")

	user, pair, err := svc.Login(context.Background(), &types.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotNil(t, user.LastLogin)
	assert.NotNil(t, user.Profile)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	claims, err := svc.ValidateAccessToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, err = svc.ValidateAccessToken(pair.Refresh)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	register(t, svc, "alice")

	_, _, err := svc.Login(context.Background(), &types.LoginRequest{Username: "alice", Password: "nope"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, _, err = svc.Login(context.Background(), &types.LoginRequest{Username: "nobody", Password: "nope"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestRefreshAndLogout(t *testing.T) {
	svc, store := newAuthService(t)
	register(t, svc, "alice")
	ctx := context.Background()

	user, pair, err := svc.Login(ctx, &types.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(access)
	assert.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.Access)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	p := testhelpers.Principal(user)
	require.NoError(t, svc.Logout(ctx, p, pair.Refresh))

	claims, err := svc.ValidateToken(pair.Refresh)
	require.NoError(t, err)
	revoked, err := store.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestLogoutRejectsForeignToken(t *testing.T) {
	svc, _ := newAuthService(t)
	register(t, svc, "alice")
	bob := register(t, svc, "bob")
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, &types.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	err = svc.Logout(ctx, testhelpers.Principal(bob), pair.Refresh)
	var verr *service.ValidationError
	assert.True(t, errors.As(err, &verr))

	err = svc.Logout(ctx, testhelpers.Principal(bob), "garbage")
	assert.True(t, errors.As(err, &verr))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService(t)
	user := register(t, svc, "alice")
	ctx := context.Background()
	p := testhelpers.Principal(user)

	err := svc.ChangePassword(ctx, p, &types.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newpass1", NewPasswordConfirm: "newpass1",
	})
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "old_password")

	require.NoError(t, svc.ChangePassword(ctx, p, &types.ChangePasswordRequest{
		OldPassword: "secret123", NewPassword: "newpass1", NewPasswordConfirm: "newpass1",
	}))

	_, _, err = svc.Login(ctx, &types.LoginRequest{Username: "alice", Password: "newpass1"})
	assert.NoError(t, err)
	_, _, err = svc.Login(ctx, &types.LoginRequest{Username: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
