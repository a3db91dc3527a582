package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"coupon-api/internal/logger"
	"coupon-api/internal/metrics"
	"coupon-api/internal/session"
)

// Reject reasons. These strings are part of the HTTP contract.
const (
	ReasonMissingHeader = "missing header"
	ReasonInvalidHeader = "invalid header"
	ReasonInvalidToken  = "invalid or expired"
	ReasonInternal      = "internal error"
)

var (
	// ErrMissingHeader is returned when no Authorization header is sent.
	ErrMissingHeader = errors.New("authorization header missing")
	// ErrAmbiguousHeader is returned when more than one Authorization header is sent.
	ErrAmbiguousHeader = errors.New("multiple authorization headers")
	// ErrSessionNotFound covers both expired and never-issued sessions.
	ErrSessionNotFound = errors.New("session not found")
)

// unexported, collision-proof context key
type sessionIDContextKeyType struct{}

var sessionIDKey = sessionIDContextKeyType{}

// SessionIDFromContext returns the session id accepted by RequireSession.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok
}

// AuthMiddleware validates bearer credentials against the session store.
// It holds no per-request state and never caches lookups.
type AuthMiddleware struct {
	store   session.Store
	metrics *metrics.Metrics
}

func NewAuthMiddleware(store session.Store, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{store: store, metrics: m}
}

func (a *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := a.authenticate(r)
		if err != nil {
			a.reject(w, r, err)
			return
		}

		a.metrics.Validated(metrics.ValidateAccepted)
		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate performs exactly one store read for a well-formed header.
func (a *AuthMiddleware) authenticate(r *http.Request) (string, error) {
	// 1. Extract header
	values := r.Header.Values("Authorization")
	switch len(values) {
	case 0:
		return "", ErrMissingHeader
	case 1:
	default:
		return "", ErrAmbiguousHeader
	}

	// 2. Decode credential
	cred, err := session.DecodeBearer(values[0])
	if err != nil {
		return "", err
	}

	// 3. Look up session
	_, ok, err := a.store.Get(r.Context(), cred.SessionID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrSessionNotFound
	}

	return cred.SessionID, nil
}

func (a *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrMissingHeader):
		a.metrics.Validated(metrics.ValidateMissingHeader)
		writeError(w, http.StatusBadRequest, ReasonMissingHeader)

	case errors.Is(err, session.ErrInvalidEncoding),
		errors.Is(err, session.ErrMissingDelimiter),
		errors.Is(err, ErrAmbiguousHeader):
		a.metrics.Validated(metrics.ValidateInvalidHeader)
		writeError(w, http.StatusBadRequest, ReasonInvalidHeader)

	case errors.Is(err, ErrSessionNotFound):
		a.metrics.Validated(metrics.ValidateNotFound)
		w.Header().Set("WWW-Authenticate", session.Scheme)
		writeError(w, http.StatusUnauthorized, ReasonInvalidToken)

	default:
		// Store unavailable, timed out, or anything unexpected: fail closed.
		a.metrics.Validated(metrics.ValidateStoreUnavailable)
		logger.Error("session lookup failed", map[string]any{
			"error":  err.Error(),
			"method": r.Method,
			"path":   r.URL.Path,
		})
		writeError(w, http.StatusInternalServerError, ReasonInternal)
	}
}

func writeError(w http.ResponseWriter, status int, reason string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": reason})
}
