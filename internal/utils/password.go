package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// UnusableHash returns a bcrypt hash of random bytes that are discarded
// immediately. No password can ever match it; anonymized accounts get one so
// their credential slot is permanently dead.
func UnusableHash() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate unusable hash: %w", err)
	}
	return HashPassword(hex.EncodeToString(buf))
}
