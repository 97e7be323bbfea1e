package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"go-auth-service/internal/model"
)

// bcryptCost is the fixed work factor for credential hashing. Stored hashes
// encode their own cost, so changing it never invalidates existing records.
const bcryptCost = 10

// PasswordHasher performs one-way salted hashing of plaintext passwords.
type PasswordHasher struct{}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{}
}

// Hash produces a salted bcrypt hash of plaintext. The output encodes the
// algorithm parameters and salt, so verification is self-contained.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A mismatch is (false, nil);
// an error is returned only when the stored hash itself cannot be parsed.
// The underlying comparison is constant time.
func (h *PasswordHasher) Verify(plaintext string, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", model.ErrInvalidHashFormat, err)
	}
}
