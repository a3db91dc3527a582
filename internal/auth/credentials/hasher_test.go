package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainKey(t *testing.T) {
	m := PlainKey("s3cret")

	assert.True(t, m.Match("s3cret"))
	assert.False(t, m.Match("s3cre"))
	assert.False(t, m.Match("s3cret!"))
	assert.False(t, m.Match(""))
}

func TestPlainKey_EmptyExpectedNeverMatches(t *testing.T) {
	assert.False(t, PlainKey("").Match(""))
}

func TestHashedKey(t *testing.T) {
	hash, err := HashKey("s3cret")
	require.NoError(t, err)

	m, err := HashedKey(hash)
	require.NoError(t, err)

	assert.True(t, m.Match("s3cret"))
	assert.False(t, m.Match("s3cret "))
	assert.False(t, m.Match(""))
}

func TestHashedKey_RejectsNonBcrypt(t *testing.T) {
	_, err := HashedKey("plain-text-key")
	assert.Error(t, err)

	_, err = HashedKey("$2a$broken")
	assert.Error(t, err)
}

func TestHashKey_Empty(t *testing.T) {
	_, err := HashKey("")
	assert.Error(t, err)
}
