package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMatchSecretPlaintext(t *testing.T) {
	assert.True(t, MatchSecret("4821", "4821"))
	assert.False(t, MatchSecret("4821", "4822"))
	assert.False(t, MatchSecret("4821", ""))
	assert.False(t, MatchSecret("", "4821"))
}

func TestMatchSecretBcrypt(t *testing.T) {
	hash, err := HashSecret("4821", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, MatchSecret(hash, "4821"))
	assert.False(t, MatchSecret(hash, "1234"))
	// the hash itself is not a valid secret
	assert.False(t, MatchSecret(hash, hash))
}
