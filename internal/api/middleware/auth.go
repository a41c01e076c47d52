package middleware

import (
	"context"
	"errors"
	"net/http"
	"user_mgmt/internal/common"
	"user_mgmt/internal/common/security"
	"user_mgmt/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	UserRoleCtxKey contextKey = "userRole"
)

// TokenFromXAuthHeader is the secondary token transport: a raw token in the
// x-auth-token header, kept for clients that do not send Authorization.
func TokenFromXAuthHeader(r *http.Request) string {
	return r.Header.Get("x-auth-token")
}

// Authenticator runs after the jwtauth verifier and turns its outcome into
// the auth contract: 401 without a token, 401 for any invalid token, and a
// populated request context otherwise. It touches no store and issues
// nothing.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if errors.Is(err, jwtauth.ErrNoTokenFound) {
			common.RespondWithError(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		if err != nil || token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Token is not valid")
			return
		}
		userRole, err := security.GetUserRoleFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UserRoleCtxKey, userRole)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly must run after Authenticator.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleCtxKey).(string)
		if !ok || role != model.RoleAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Access denied: Admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// Helper to get user role from context
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	userRole, ok := ctx.Value(UserRoleCtxKey).(string)
	return userRole, ok
}
