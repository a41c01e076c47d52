package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"user_mgmt/internal/common"
	"user_mgmt/internal/common/security"
	"user_mgmt/internal/domain/model"
	"user_mgmt/internal/domain/repository"
	"user_mgmt/internal/platform/cache"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type UserService struct {
	userRepo repository.UserRepository
	cache    *cache.Client
}

func NewUserService(userRepo repository.UserRepository, cache *cache.Client) *UserService {
	return &UserService{userRepo: userRepo, cache: cache}
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func (r *UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FullName, validation.Required.Error("Full name is required")),
		validation.Field(&r.Email, validation.Required.Error("Please include a valid email"), is.Email.Error("Please include a valid email")),
	)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CurrentPassword, validation.Required.Error("Current password is required")),
		validation.Field(&r.NewPassword, validation.Required.Error("Please enter a password with 6 or more characters"), validation.Length(6, 0).Error("Please enter a password with 6 or more characters")),
	)
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

type ListUsersResponse struct {
	Users      []*model.PublicUser `json:"users"`
	Pagination Pagination          `json:"pagination"`
}

type StatusUpdateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.PublicUser, error) {
	user, err := s.userRepo.UpdateProfile(ctx, userID, req.FullName, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) || errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.cache.Invalidate(ctx, userID)
	return user.Public(), nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.CurrentPassword, user.HashedPassword) {
		return common.ErrCurrentPassword
	}

	hashedPassword, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, page, limit int) (*ListUsersResponse, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	users, total, err := s.userRepo.ListPage(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	projections := make([]*model.PublicUser, 0, len(users))
	for _, u := range users {
		projections = append(projections, u.PublicDetail())
	}

	return &ListUsersResponse{
		Users: projections,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

func (s *UserService) UpdateUserStatus(ctx context.Context, targetID, status string) (*StatusUpdateResponse, error) {
	// Rejected before any store access.
	if !model.ValidStatus(status) {
		return nil, common.ErrInvalidStatus
	}

	user, err := s.userRepo.UpdateStatus(ctx, targetID, status)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	s.cache.Invalidate(ctx, targetID)
	return &StatusUpdateResponse{ID: user.ID, Status: user.Status}, nil
}

// EnsureAdminExists seeds the bootstrap admin account if the configured
// email has no user yet. Idempotent; runs once before the listener starts.
func (s *UserService) EnsureAdminExists(ctx context.Context, adminEmail, adminPassword string) error {
	_, err := s.userRepo.FindByEmail(ctx, adminEmail)
	if err == nil {
		log.Println("Admin account already exists; skipping seed")
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	hashedPassword, err := security.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &model.User{
		ID:             uuid.NewString(),
		FullName:       "adminUser",
		Email:          adminEmail,
		HashedPassword: hashedPassword,
		Role:           model.RoleAdmin,
		Status:         model.StatusActive,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			// Lost a race against another instance seeding the same admin.
			return nil
		}
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	log.Println("Admin account seeded successfully")
	return nil
}
