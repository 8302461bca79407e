package models_test

import (
	"testing"

	"catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_HashPassword(t *testing.T) {
	user := &models.User{Email: "a@example.com", Password: "password123"}
	require.NoError(t, user.HashPassword())

	assert.NotEmpty(t, user.PasswordSalt)
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, user.ValidPassword("password123"))
	assert.False(t, user.ValidPassword("password124"))
}

func TestUser_HashPasswordKeepsSalt(t *testing.T) {
	user := &models.User{Password: "first-password"}
	require.NoError(t, user.HashPassword())
	salt := user.PasswordSalt

	user.Password = "second-password"
	require.NoError(t, user.HashPassword())

	assert.Equal(t, salt, user.PasswordSalt)
	assert.True(t, user.ValidPassword("second-password"))
	assert.False(t, user.ValidPassword("first-password"))
}

func TestUser_HashPasswordRequiresPlaintext(t *testing.T) {
	user := &models.User{}
	assert.Error(t, user.HashPassword())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "test@example.com", models.NormalizeEmail("  Test@Example.COM "))
}
