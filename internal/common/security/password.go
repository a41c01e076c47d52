package security

import (
	"golang.org/x/crypto/bcrypt"
)

// Cost 10 keeps a single hash in the tens of milliseconds. Each hash embeds
// its own salt and cost, so verification needs no extra parameters.
const bcryptCost = 10

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash never fails on a mismatch; it simply returns false.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
