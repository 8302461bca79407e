// Package password derives and verifies salted PBKDF2 password hashes.
package password

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the number of random bytes in a salt, before base64 encoding.
	SaltSize   = 128
	iterations = 1000
	keyLength  = 64
)

// GenerateSalt returns a new random salt, base64 encoded.
func GenerateSalt() (string, error) {
	buf := make([]byte, SaltSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate password salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Hash derives the hex encoded PBKDF2-SHA512 hash of plain using salt.
// The salt string is used as-is, not decoded.
func Hash(plain, salt string) string {
	key := pbkdf2.Key([]byte(plain), []byte(salt), iterations, keyLength, sha512.New)
	return hex.EncodeToString(key)
}

// Verify reports whether plain hashes to hash under salt.
func Verify(plain, salt, hash string) bool {
	if salt == "" || hash == "" {
		return false
	}
	computed := Hash(plain, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
