package service

import (
	"context"
	"testing"
	"time"
	"user_mgmt/internal/common"
	"user_mgmt/internal/common/security"
	"user_mgmt/internal/domain/model"
	"user_mgmt/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *repository.InMemoryUserRepository) {
	t.Helper()
	repo := repository.NewInMemoryUserRepository()
	ta := security.NewTokenAuth([]byte("test-secret"))
	return NewAuthService(repo, ta, 24*time.Hour, nil), repo
}

func TestSignup_CreatesStandardActiveUser(t *testing.T) {
	t.Parallel()
	svc, repo := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{FullName: "Alice", Email: "alice@x.com", Password: "Secret1"})
	require.NoError(t, err)

	assert.Equal(t, model.RoleUser, resp.User.Role)
	assert.Equal(t, model.StatusActive, resp.User.Status)
	assert.Nil(t, resp.User.CreatedAt)

	// The token verifies back to the new subject.
	userID, role, err := security.VerifyToken(svc.tokenAuth, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, model.RoleUser, role)

	// The stored hash is never the plaintext.
	stored, err := repo.FindByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1", stored.HashedPassword)
	assert.True(t, security.CheckPasswordHash("Secret1", stored.HashedPassword))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, repo := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{FullName: "Alice", Email: "alice@x.com", Password: "Secret1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupRequest{FullName: "Imposter", Email: "alice@x.com", Password: "Other12"})
	assert.ErrorIs(t, err, common.ErrUserExists)

	// No second row was created.
	_, total, err := repo.ListPage(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestLogin_Success_UpdatesLastLogin(t *testing.T) {
	t.Parallel()
	svc, repo := newAuthService(t)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, SignupRequest{FullName: "Alice", Email: "alice@x.com", Password: "Secret1"})
	require.NoError(t, err)

	before, err := repo.FindByID(ctx, signup.User.ID)
	require.NoError(t, err)
	assert.Nil(t, before.LastLogin)

	resp, err := svc.Login(ctx, LoginRequest{Email: "alice@x.com", Password: "Secret1"})
	require.NoError(t, err)

	userID, _, err := security.VerifyToken(svc.tokenAuth, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, userID)

	after, err := repo.FindByID(ctx, signup.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, after.LastLogin)
}

func TestLogin_GenericErrorForBadEmailAndBadPassword(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{FullName: "Alice", Email: "alice@x.com", Password: "Secret1"})
	require.NoError(t, err)

	_, errUnknown := svc.Login(ctx, LoginRequest{Email: "ghost@x.com", Password: "Secret1"})
	_, errWrongPw := svc.Login(ctx, LoginRequest{Email: "alice@x.com", Password: "wrong"})

	// Identical error either way: no account enumeration.
	assert.ErrorIs(t, errUnknown, common.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, common.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestCurrentUser_IncludesCreatedAt(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, SignupRequest{FullName: "Alice", Email: "alice@x.com", Password: "Secret1"})
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, signup.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", user.Email)
	require.NotNil(t, user.CreatedAt)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestCurrentUser_MissingRow(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t)

	_, err := svc.CurrentUser(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSignupRequest_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		req  SignupRequest
		ok   bool
	}{
		{"valid", SignupRequest{FullName: "Alice", Email: "alice@x.com", Password: "Secret1"}, true},
		{"missing name", SignupRequest{Email: "alice@x.com", Password: "Secret1"}, false},
		{"bad email", SignupRequest{FullName: "Alice", Email: "not-an-email", Password: "Secret1"}, false},
		{"short password", SignupRequest{FullName: "Alice", Email: "alice@x.com", Password: "12345"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
