package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ValidStatus reports whether s is one of the two allowed account states.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}

type User struct {
	ID             string     `json:"id"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"` // Not exposed
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"` // nil until first login
}

// PublicUser is the projection of a User that is safe to return to clients.
// Timestamps are pointers so responses that never carried them (signup,
// login) omit them entirely.
type PublicUser struct {
	ID        string     `json:"id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// Public returns the minimal projection used by signup and login responses.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
		Status:   u.Status,
	}
}

// PublicDetail additionally carries created_at and last_login, as returned
// by /auth/me and the admin user listing.
func (u *User) PublicDetail() *PublicUser {
	p := u.Public()
	createdAt := u.CreatedAt
	p.CreatedAt = &createdAt
	p.LastLogin = u.LastLogin
	return p
}
