package session

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBearer_Format(t *testing.T) {
	b := EncodeBearer("3f1e2d4c-0000-4000-8000-000000000000", "")

	raw, err := base64.StdEncoding.DecodeString(string(b))
	require.NoError(t, err)
	assert.Equal(t, "3f1e2d4c-0000-4000-8000-000000000000:", string(raw))
	assert.Equal(t, "Bearer "+string(b), b.HeaderValue())
}

func TestBearer_RoundTrip(t *testing.T) {
	pairs := []struct{ id, payload string }{
		{"3f1e2d4c-0000-4000-8000-000000000000", ""},
		{"abc", "reserved"},
		{"", ""},
		{"ünïcode", "päyload"},
		{"id", "payload:with:colons"},
	}
	for _, p := range pairs {
		t.Run(p.id+"/"+p.payload, func(t *testing.T) {
			b := EncodeBearer(p.id, p.payload)

			got, err := DecodeBearer(string(b))
			require.NoError(t, err)
			assert.Equal(t, Credential{SessionID: p.id, Payload: p.payload}, got)

			got, err = DecodeBearer(b.HeaderValue())
			require.NoError(t, err)
			assert.Equal(t, Credential{SessionID: p.id, Payload: p.payload}, got)
		})
	}
}

func TestDecodeBearer_RoundTripGeneratedIDs(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := GenerateID()
		require.NoError(t, err)

		got, err := DecodeBearer(EncodeBearer(id, EmptyPayload).HeaderValue())
		require.NoError(t, err)
		assert.Equal(t, id, got.SessionID)
		assert.Equal(t, EmptyPayload, got.Payload)
	}
}

func TestDecodeBearer_Errors(t *testing.T) {
	std := base64.StdEncoding.EncodeToString

	tests := []struct {
		name  string
		value string
		want  error
	}{
		{"empty after label", "Bearer ", ErrMissingDelimiter},
		{"label only", "Bearer", ErrMissingDelimiter},
		{"empty", "", ErrMissingDelimiter},
		{"bad alphabet", "Bearer !!!!", ErrInvalidEncoding},
		{"bad padding", "Bearer YWJj=", ErrInvalidEncoding},
		{"url alphabet", "Bearer " + base64.URLEncoding.EncodeToString([]byte{0xfb, 0xff, ':'}), ErrInvalidEncoding},
		{"not utf8", "Bearer " + std([]byte{0xff, 0xfe, ':'}), ErrInvalidEncoding},
		{"no delimiter", "Bearer " + std([]byte("just-an-id")), ErrMissingDelimiter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBearer(tt.value)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeBearer_SplitsOnFirstDelimiter(t *testing.T) {
	got, err := DecodeBearer(base64.StdEncoding.EncodeToString([]byte("a:b:c")))
	require.NoError(t, err)
	assert.Equal(t, "a", got.SessionID)
	assert.Equal(t, "b:c", got.Payload)
}

func TestDecodeBearer_SchemeLabel(t *testing.T) {
	b := EncodeBearer("id", "")

	for _, v := range []string{
		"Bearer " + string(b),
		"bearer " + string(b),
		"BEARER   " + string(b),
		"  Bearer " + string(b) + "  ",
		string(b),
	} {
		got, err := DecodeBearer(v)
		require.NoError(t, err, v)
		assert.Equal(t, "id", got.SessionID)
	}
}
