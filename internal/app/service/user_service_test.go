package service

import (
	"context"
	"fmt"
	"testing"
	"time"
	"user_mgmt/internal/common"
	"user_mgmt/internal/common/security"
	"user_mgmt/internal/domain/model"
	"user_mgmt/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *AuthService, *repository.InMemoryUserRepository) {
	t.Helper()
	repo := repository.NewInMemoryUserRepository()
	ta := security.NewTokenAuth([]byte("test-secret"))
	return NewUserService(repo, nil), NewAuthService(repo, ta, 24*time.Hour, nil), repo
}

func signupUser(t *testing.T, authSvc *AuthService, name, email, password string) string {
	t.Helper()
	resp, err := authSvc.Signup(context.Background(), SignupRequest{FullName: name, Email: email, Password: password})
	require.NoError(t, err)
	return resp.User.ID
}

func TestUpdateProfile_Success(t *testing.T) {
	t.Parallel()
	svc, authSvc, _ := newUserService(t)
	ctx := context.Background()

	id := signupUser(t, authSvc, "Alice", "alice@x.com", "Secret1")

	user, err := svc.UpdateProfile(ctx, id, UpdateProfileRequest{FullName: "Alice B", Email: "alice.b@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", user.FullName)
	assert.Equal(t, "alice.b@x.com", user.Email)
}

func TestUpdateProfile_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, authSvc, _ := newUserService(t)
	ctx := context.Background()

	id := signupUser(t, authSvc, "Alice", "alice@x.com", "Secret1")
	signupUser(t, authSvc, "Bob", "bob@x.com", "Secret2")

	_, err := svc.UpdateProfile(ctx, id, UpdateProfileRequest{FullName: "Alice", Email: "bob@x.com"})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	t.Parallel()
	svc, authSvc, _ := newUserService(t)
	ctx := context.Background()

	id := signupUser(t, authSvc, "Alice", "alice@x.com", "Secret1")

	err := svc.ChangePassword(ctx, id, ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "NewSecret1"})
	assert.ErrorIs(t, err, common.ErrCurrentPassword)
}

func TestChangePassword_OldPasswordStopsWorking(t *testing.T) {
	t.Parallel()
	svc, authSvc, _ := newUserService(t)
	ctx := context.Background()

	id := signupUser(t, authSvc, "Alice", "alice@x.com", "Secret1")

	err := svc.ChangePassword(ctx, id, ChangePasswordRequest{CurrentPassword: "Secret1", NewPassword: "NewSecret1"})
	require.NoError(t, err)

	_, err = authSvc.Login(ctx, LoginRequest{Email: "alice@x.com", Password: "Secret1"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = authSvc.Login(ctx, LoginRequest{Email: "alice@x.com", Password: "NewSecret1"})
	assert.NoError(t, err)
}

func TestListUsers_PaginationMath(t *testing.T) {
	t.Parallel()
	svc, authSvc, _ := newUserService(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		signupUser(t, authSvc, "User", fmt.Sprintf("user%d@x.com", i), "Secret1")
	}

	resp, err := svc.ListUsers(ctx, 2, 5)
	require.NoError(t, err)
	assert.Len(t, resp.Users, 5)
	assert.Equal(t, 12, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 3, resp.Pagination.Pages) // ceil(12/5)

	// Defaults apply when page/limit are unset.
	resp, err = svc.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, resp.Users, 10)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 2, resp.Pagination.Pages)
}

func TestUpdateUserStatus_InvalidValueLeavesRowUnchanged(t *testing.T) {
	t.Parallel()
	svc, authSvc, repo := newUserService(t)
	ctx := context.Background()

	id := signupUser(t, authSvc, "Alice", "alice@x.com", "Secret1")

	_, err := svc.UpdateUserStatus(ctx, id, "suspended")
	assert.ErrorIs(t, err, common.ErrInvalidStatus)

	user, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, user.Status)
}

func TestUpdateUserStatus_Success(t *testing.T) {
	t.Parallel()
	svc, authSvc, _ := newUserService(t)
	ctx := context.Background()

	id := signupUser(t, authSvc, "Alice", "alice@x.com", "Secret1")

	resp, err := svc.UpdateUserStatus(ctx, id, model.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, model.StatusInactive, resp.Status)
}

func TestUpdateUserStatus_UnknownTarget(t *testing.T) {
	t.Parallel()
	svc, _, _ := newUserService(t)

	_, err := svc.UpdateUserStatus(context.Background(), "no-such-id", model.StatusInactive)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEnsureAdminExists_Idempotent(t *testing.T) {
	t.Parallel()
	svc, _, repo := newUserService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdminExists(ctx, "admin@x.com", "testAdmin@123"))

	admin, err := repo.FindByEmail(ctx, "admin@x.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.Equal(t, model.StatusActive, admin.Status)
	assert.True(t, security.CheckPasswordHash("testAdmin@123", admin.HashedPassword))

	// Second run is a no-op.
	require.NoError(t, svc.EnsureAdminExists(ctx, "admin@x.com", "testAdmin@123"))
	_, total, err := repo.ListPage(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
