package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors carry the exact message the client sees; anything that
// maps to a 500 is replaced with a generic "Server error" body before it
// leaves the process.
var (
	ErrNotFound           = errors.New("User not found")
	ErrUserExists         = errors.New("User already exists")
	ErrDuplicateEmail     = errors.New("Email already in use")
	ErrInvalidCredentials = errors.New("Invalid Credentials")
	ErrCurrentPassword    = errors.New("Current password incorrect")
	ErrInvalidStatus      = errors.New("Invalid status")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthenticated    = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrTokenExpired       = errors.New("token is expired")
	ErrTokenInvalid       = errors.New("token is not valid")
	ErrInternalServer     = errors.New("internal server error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrTokenInvalid) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrUserExists) ||
		errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrCurrentPassword) || errors.Is(err, ErrInvalidStatus) {
		return http.StatusBadRequest
	}

	// A unique violation that escaped the repository layer is still a
	// duplicate email; do not surface it as a 500.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
