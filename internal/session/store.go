package session

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps every transport or timeout failure of the backing
// store. Callers must deny access on it, never treat it as "not found".
var ErrUnavailable = errors.New("session store unavailable")

// EmptyPayload is the only session value ever written. The session id is
// used for its key alone.
const EmptyPayload = ""

// Store is a key-value store with per-key expiry.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put sets key to value for ttl, overwriting any existing entry.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value and true while the key exists and has not
	// expired, or "" and false otherwise.
	Get(ctx context.Context, key string) (string, bool, error)
}
