package security

import (
	"errors"
	"time"
	"user_mgmt/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// NewTokenAuth builds the process-wide token authority from the signing
// secret. It is constructed once at startup and passed explicitly; business
// logic never reads the secret from ambient state.
func NewTokenAuth(secret []byte) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", secret, nil)
}

// GenerateToken issues a signed bearer token carrying the subject id and
// role, valid for ttl from now.
func GenerateToken(ta *jwtauth.JWTAuth, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	_, tokenString, err := ta.Encode(claims)
	return tokenString, err
}

// VerifyToken checks signature and validity window and returns the embedded
// subject id and role. Expiry is reported as common.ErrTokenExpired; every
// other failure (bad signature, malformed structure, wrong secret, missing
// claims) collapses to common.ErrTokenInvalid.
func VerifyToken(ta *jwtauth.JWTAuth, tokenString string) (userID, role string, err error) {
	token, err := jwtauth.VerifyToken(ta, tokenString)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpired) {
			return "", "", common.ErrTokenExpired
		}
		return "", "", common.ErrTokenInvalid
	}

	uid, ok := token.Get("user_id")
	userID, isStr := uid.(string)
	if !ok || !isStr {
		return "", "", common.ErrTokenInvalid
	}
	r, ok := token.Get("role")
	role, isStr = r.(string)
	if !ok || !isStr {
		return "", "", common.ErrTokenInvalid
	}
	return userID, role, nil
}

// Helper functions to extract claims, used by the middleware after the
// jwtauth verifier has populated the request context.
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
