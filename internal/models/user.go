package models

import (
	"fmt"
	"strings"
	"time"

	"catalog/internal/password"
)

// User is an authentication principal. Password holds the plaintext only until
// HashPassword runs; afterwards it is the derived hash.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password     string    `json:"-" gorm:"type:varchar(255);not null"`
	PasswordSalt string    `json:"-" gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NormalizeEmail returns the canonical, lowercase form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword replaces the plaintext Password with its hash. A salt is
// generated on first use and reused afterwards.
func (u *User) HashPassword() error {
	if u.PasswordSalt == "" {
		salt, err := password.GenerateSalt()
		if err != nil {
			return err
		}
		u.PasswordSalt = salt
	}
	if u.Password == "" {
		return fmt.Errorf("password is required")
	}
	u.Password = password.Hash(u.Password, u.PasswordSalt)
	return nil
}

// ValidPassword reports whether plain matches the stored hash.
func (u *User) ValidPassword(plain string) bool {
	return password.Verify(plain, u.PasswordSalt, u.Password)
}
