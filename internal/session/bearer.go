package session

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	// Scheme is the Authorization header label for session credentials.
	Scheme = "Bearer"

	delimiter = ":"
)

var (
	// ErrInvalidEncoding means the credential is not valid base64 or does
	// not decode to UTF-8 text.
	ErrInvalidEncoding = errors.New("session: invalid credential encoding")
	// ErrMissingDelimiter means the decoded credential has no ':'.
	ErrMissingDelimiter = errors.New("session: credential missing delimiter")
)

// Bearer is an encoded credential without the scheme label.
type Bearer string

// HeaderValue returns the credential as an Authorization header value.
func (b Bearer) HeaderValue() string {
	return Scheme + " " + string(b)
}

// Credential is a decoded bearer credential.
type Credential struct {
	SessionID string
	Payload   string
}

// EncodeBearer joins sessionID and payload with ':' and base64-encodes the
// result. sessionID must not contain ':'; ids from GenerateID never do.
func EncodeBearer(sessionID, payload string) Bearer {
	raw := sessionID + delimiter + payload
	return Bearer(base64.StdEncoding.EncodeToString([]byte(raw)))
}

// DecodeBearer accepts a credential with or without the "Bearer" label and
// splits it on the first ':'.
func DecodeBearer(value string) (Credential, error) {
	encoded := stripScheme(value)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Credential{}, ErrInvalidEncoding
	}
	if !utf8.Valid(raw) {
		return Credential{}, ErrInvalidEncoding
	}

	sessionID, payload, ok := strings.Cut(string(raw), delimiter)
	if !ok {
		return Credential{}, ErrMissingDelimiter
	}

	return Credential{SessionID: sessionID, Payload: payload}, nil
}

func stripScheme(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < len(Scheme) || !strings.EqualFold(v[:len(Scheme)], Scheme) {
		return v
	}
	rest := v[len(Scheme):]
	if rest == "" {
		return ""
	}
	if rest[0] != ' ' && rest[0] != '\t' {
		// e.g. "BearerXYZ" is not the label.
		return v
	}
	return strings.TrimSpace(rest)
}
