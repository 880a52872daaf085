package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("admin")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=1$"))
	assert.NotContains(t, hash, "admin")

	assert.True(t, VerifyPassword("admin", hash))
	assert.False(t, VerifyPassword("Admin", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestHashIsSalted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword("secret", string(hash)))
	assert.False(t, VerifyPassword("other", string(hash)))
}

func TestVerifyRejectsUnknownFormats(t *testing.T) {
	assert.False(t, VerifyPassword("admin", "admin"))
	assert.False(t, VerifyPassword("p", "148de9c5a7a44d19e56cd9ae1a554bf67847afb0c58f6e12fa29ac7ddfca9940"))
	assert.False(t, VerifyPassword("admin", "$argon2id$v=19$m=0,t=0,p=0$$"))
	assert.False(t, VerifyPassword("admin", "$argon2id$broken"))
}
