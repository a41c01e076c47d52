package repository

import (
	"context"
	"sort"
	"sync"
	"time"
	"user_mgmt/internal/common"
	"user_mgmt/internal/domain/model"
)

// InMemoryUserRepository mirrors the Postgres semantics (email uniqueness,
// created_at DESC listing, independent total) without a database. It backs
// service and handler tests.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[string]*model.User)}
}

func (r *InMemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return common.ErrDuplicateEmail
		}
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *InMemoryUserRepository) UpdateProfile(_ context.Context, id, fullName, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	for otherID, other := range r.users {
		if otherID != id && other.Email == email {
			return nil, common.ErrDuplicateEmail
		}
	}
	u.FullName = fullName
	u.Email = email
	u.UpdatedAt = time.Now()
	clone := *u
	return &clone, nil
}

func (r *InMemoryUserRepository) UpdatePassword(_ context.Context, id, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.HashedPassword = hashedPassword
	u.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryUserRepository) UpdateStatus(_ context.Context, id, status string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	return &model.User{ID: u.ID, Status: u.Status}, nil
}

func (r *InMemoryUserRepository) TouchLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

func (r *InMemoryUserRepository) ListPage(_ context.Context, page, limit int) ([]*model.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []*model.User{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}
