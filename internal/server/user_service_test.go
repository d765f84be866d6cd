package server

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julienlaffont/cvbooster/internal/config"
	"github.com/julienlaffont/cvbooster/internal/types"
)

func newTestUserService(t *testing.T) (*UserService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewUserService(store, &config.PasswordConfig{BcryptCost: 10})
	return svc, store
}

func TestUserService_Register(t *testing.T) {
	svc, store := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Marie", Email: "marie@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Marie", user.Name)
	assert.Equal(t, "marie@example.com", user.Email)

	// Stored hash is not the plain password
	stored := store.users[user.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Marie", Email: "marie@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &types.CreateUserRequest{
		Name: "Other", Email: "marie@example.com", Password: "password456",
	})
	require.Error(t, err)
	assert.IsType(t, &ErrEmailAlreadyExists{}, err)
}

func TestUserService_Login(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Marie", Email: "marie@example.com", Password: "password123",
	})
	require.NoError(t, err)

	user, err := svc.Login(ctx, &types.LoginRequest{
		Email: "marie@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Marie", Email: "marie@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &types.LoginRequest{
		Email: "marie@example.com", Password: "nope",
	})
	assert.IsType(t, &ErrInvalidCredentials{}, err)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Login(context.Background(), &types.LoginRequest{
		Email: "ghost@example.com", Password: "password123",
	})
	assert.IsType(t, &ErrInvalidCredentials{}, err)
}

func TestUserService_UpdatePassword(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Marie", Email: "marie@example.com", Password: "password123",
	})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, user.ID, "password123", "newpassword456")
	require.NoError(t, err)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "marie@example.com", Password: "newpassword456"})
	assert.NoError(t, err)
}

func TestUserService_UpdatePassword_Mismatch(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Marie", Email: "marie@example.com", Password: "password123",
	})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, user.ID, "wrong", "newpassword456")
	assert.IsType(t, &ErrPasswordMismatch{}, err)
}

func TestUserService_UpdatePassword_UnknownUser(t *testing.T) {
	svc, _ := newTestUserService(t)

	err := svc.UpdatePassword(context.Background(), uuid.New(), "a", "newpassword456")
	assert.IsType(t, &ErrUserNotFound{}, err)
}
