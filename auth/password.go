package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt reads at most 72 bytes of input.
const bcryptMaxInput = 72

// bcryptInput returns the bytes fed to bcrypt. Longer passwords are reduced to
// the base64 of their SHA-256 digest so every byte still counts.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// HashPassword returns the bcrypt hash stored for a new password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(bcryptInput(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func isBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// CheckPassword compares a login attempt with the stored value. Accounts
// created before hashing was introduced still hold the raw password; those
// match by constant-time comparison and report legacy=true so the caller can
// replace the stored value with a hash.
func CheckPassword(stored, given string) (ok, legacy bool) {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), bcryptInput(given)) == nil, false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1, true
}
