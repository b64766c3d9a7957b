// Package auth implements the credential hasher and the bearer token
// issuer/verifier. Both are pure computations: registering or revoking
// sessions is the caller's job.
package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of a plaintext password. Each call
// uses a fresh salt, so hashing the same plaintext twice yields different
// values that both verify.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
// A malformed or corrupted hash yields false, never an error.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidPassword reports whether plain satisfies the password policy:
// minimum 8 characters with at least one lowercase letter, one uppercase
// letter and one digit.
func ValidPassword(plain string) bool {
	if len(plain) < 8 {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range plain {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}
