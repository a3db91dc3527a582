package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coupon-api/internal/logger"
	"coupon-api/internal/metrics"
	"coupon-api/internal/session"
)

const DefaultSessionTTL = time.Hour

var (
	// ErrUnauthorized is returned for any API key mismatch. It carries no
	// detail about why the key did not match.
	ErrUnauthorized = errors.New("invalid api key")
	// ErrStoreFailure means the session could not be persisted. No
	// credential is handed out in that case.
	ErrStoreFailure = errors.New("failed to persist session")
)

// Issuer exchanges the static API key for a session credential.
type Issuer struct {
	key     KeyMatcher
	store   session.Store
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewIssuer(key KeyMatcher, store session.Store, ttl time.Duration, m *metrics.Metrics) *Issuer {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Issuer{
		key:     key,
		store:   store,
		ttl:     ttl,
		metrics: m,
	}
}

// TTL is the lifetime of every issued session.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue checks presentedKey and, on a match, stores a new session and
// returns its credential. Exactly one store entry is written per success.
func (i *Issuer) Issue(ctx context.Context, presentedKey string) (session.Bearer, error) {
	if !i.key.Match(presentedKey) {
		i.metrics.Issued(metrics.IssueUnauthorized)
		return "", ErrUnauthorized
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		i.metrics.Issued(metrics.IssueIDFailure)
		logger.Error("session id generation failed", map[string]any{
			"error": err.Error(),
		})
		return "", fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	if err := i.store.Put(ctx, sessionID, session.EmptyPayload, i.ttl); err != nil {
		i.metrics.Issued(metrics.IssueStoreFailure)
		logger.Error("session store put failed", map[string]any{
			"error": err.Error(),
		})
		return "", fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	i.metrics.Issued(metrics.IssueIssued)
	logger.Debug("session issued", map[string]any{
		"session_id":  sessionID,
		"ttl_seconds": int(i.ttl.Seconds()),
	})

	return session.EncodeBearer(sessionID, session.EmptyPayload), nil
}
