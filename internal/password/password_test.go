package password_test

import (
	"encoding/base64"
	"testing"

	"catalog/internal/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	salt, err := password.GenerateSalt()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(salt)
	require.NoError(t, err)
	assert.Len(t, raw, password.SaltSize)

	other, err := password.GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt, other)
}

func TestHash(t *testing.T) {
	salt := "fixed-salt"

	hash := password.Hash("TestPassword123", salt)
	assert.Len(t, hash, 128) // 64 bytes, hex encoded
	assert.Equal(t, hash, password.Hash("TestPassword123", salt))
	assert.NotEqual(t, hash, password.Hash("TestPassword123", "another-salt"))
	assert.NotEqual(t, hash, password.Hash("TestPassword124", salt))
}

func TestVerify(t *testing.T) {
	salt, err := password.GenerateSalt()
	require.NoError(t, err)
	hash := password.Hash("s3cret-pass", salt)

	assert.True(t, password.Verify("s3cret-pass", salt, hash))

	for _, wrong := range []string{"", "s3cret-pas", "s3cret-pass ", "S3CRET-PASS"} {
		assert.False(t, password.Verify(wrong, salt, hash), "password %q should not verify", wrong)
	}

	assert.False(t, password.Verify("s3cret-pass", "", hash))
	assert.False(t, password.Verify("s3cret-pass", salt, ""))
}
