package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"user_mgmt/internal/common"
	"user_mgmt/internal/common/security"
	"user_mgmt/internal/domain/model"
	"user_mgmt/internal/domain/repository"
	"user_mgmt/internal/platform/cache"

	"github.com/go-chi/jwtauth/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

type AuthService struct {
	userRepo  repository.UserRepository
	tokenAuth *jwtauth.JWTAuth
	tokenTTL  time.Duration
	cache     *cache.Client
}

func NewAuthService(userRepo repository.UserRepository, tokenAuth *jwtauth.JWTAuth, tokenTTL time.Duration, cache *cache.Client) *AuthService {
	return &AuthService{userRepo: userRepo, tokenAuth: tokenAuth, tokenTTL: tokenTTL, cache: cache}
}

type SignupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignupRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FullName, validation.Required.Error("Full name is required")),
		validation.Field(&r.Email, validation.Required.Error("Please include a valid email"), is.Email.Error("Please include a valid email")),
		validation.Field(&r.Password, validation.Required.Error("Please enter a password with 6 or more characters"), validation.Length(6, 0).Error("Please enter a password with 6 or more characters")),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required.Error("Please include a valid email"), is.Email.Error("Please include a valid email")),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
}

type AuthResponse struct {
	Token string            `json:"token"`
	User  *model.PublicUser `json:"user"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	// Existence check before insert. Two concurrent signups with the same
	// email can both pass it; the unique constraint catches the loser and
	// the violation is mapped back to the same client error.
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, common.ErrUserExists
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		FullName:       req.FullName,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           model.RoleUser,
		Status:         model.StatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := security.GenerateToken(s.tokenAuth, user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: user.Public()}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Same error as a wrong password, to avoid account enumeration.
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	s.cache.Invalidate(ctx, user.ID)

	token, err := security.GenerateToken(s.tokenAuth, user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: user.Public()}, nil
}

// CurrentUser returns the public projection for the authenticated subject.
// The row may be gone even though the token still verifies; that surfaces
// as a 404, never a crash.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.PublicUser, error) {
	if cached, ok := s.cache.GetUser(ctx, userID); ok {
		return cached, nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	projection := user.PublicDetail()
	s.cache.SetUser(ctx, projection)
	return projection, nil
}
