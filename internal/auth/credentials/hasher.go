package credentials

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// KeyMatcher checks a presented API key against the configured secret.
type KeyMatcher interface {
	Match(presented string) bool
}

type plainKey struct {
	expected []byte
}

// PlainKey matches by exact, constant-time comparison.
func PlainKey(expected string) KeyMatcher {
	return plainKey{expected: []byte(expected)}
}

func (k plainKey) Match(presented string) bool {
	if len(k.expected) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), k.expected) == 1
}

type hashedKey struct {
	hash []byte
}

// HashedKey matches against a bcrypt hash of the API key.
func HashedKey(hash string) (KeyMatcher, error) {
	if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") && !strings.HasPrefix(hash, "$2y$") {
		return nil, errors.New("credentials: api key hash is not a bcrypt hash")
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, err
	}
	return hashedKey{hash: []byte(hash)}, nil
}

func (k hashedKey) Match(presented string) bool {
	return bcrypt.CompareHashAndPassword(k.hash, []byte(presented)) == nil
}

// HashKey returns a bcrypt hash suitable for auth.api_key with api_key_hashed.
func HashKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("credentials: empty api key")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
