package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is fixed. Not configurable; changing it only affects
// newly stored digests since the cost travels inside each digest.
const bcryptCost = 10

// HashPassword generates a salted bcrypt digest of the password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

// VerifyPassword reports whether the password matches the digest under
// the parameters embedded in the digest. A malformed digest verifies
// as false, never as an error.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
