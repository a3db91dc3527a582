package app

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coupon-api/internal/auth/credentials"
	"coupon-api/internal/config"
	"coupon-api/internal/coupon"
	"coupon-api/internal/session"
)

const testAPIKey = "integration-key"

type testServer struct {
	router *gin.Engine
	mr     *miniredis.Miniredis
	reg    *prometheus.Registry
}

func newTestServer(t *testing.T, auth config.AuthConfig) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{Auth: auth}
	reg := prometheus.NewRegistry()

	router, err := newRouter(cfg, Deps{
		Sessions: session.NewRedisStore(rdb, session.DefaultKeyPrefix, time.Second),
		Coupons:  coupon.NewMemoryRepository(),
		Registry: reg,
	})
	require.NoError(t, err)

	return &testServer{router: router, mr: mr, reg: reg}
}

func defaultAuth() config.AuthConfig {
	return config.AuthConfig{APIKey: testAPIKey, SessionTTL: time.Hour}
}

func (s *testServer) do(method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	rec := s.do(http.MethodPost, "/auth", `{"api_key":"`+testAPIKey+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var bearer string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bearer))
	return bearer
}

func TestHealthCheckIsPublic(t *testing.T) {
	s := newTestServer(t, defaultAuth())

	rec := s.do(http.MethodGet, "/health_check", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestIssueThenAccessProtected(t *testing.T) {
	s := newTestServer(t, defaultAuth())
	bearer := s.login(t)
	auth := map[string]string{"Authorization": bearer}

	rec := s.do(http.MethodGet, "/coupon", "", auth)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The gate passed; the collaborator answers for itself.
	rec = s.do(http.MethodGet, "/coupon/id/7", "", auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/coupon", `{"code":"SPRING","discount":15}`, auth)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/coupon/code/SPRING", "", auth)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRejections(t *testing.T) {
	s := newTestServer(t, defaultAuth())

	neverIssued := session.EncodeBearer("3f0a3c1e-8d1b-4b5e-9a57-0a7f7c9a2b11", "")

	tests := []struct {
		name   string
		header map[string]string
		status int
	}{
		{"no header", nil, http.StatusBadRequest},
		{"bearer label only", map[string]string{"Authorization": "Bearer "}, http.StatusBadRequest},
		{"not base64", map[string]string{"Authorization": "Bearer %%%"}, http.StatusBadRequest},
		{"no delimiter", map[string]string{"Authorization": "Bearer " + base64.StdEncoding.EncodeToString([]byte("abc"))}, http.StatusBadRequest},
		{"never issued", map[string]string{"Authorization": neverIssued.HeaderValue()}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, "/coupon", "", tt.header)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestWrongKeyWritesNothing(t *testing.T) {
	s := newTestServer(t, defaultAuth())

	rec := s.do(http.MethodPost, "/auth", `{"api_key":"guess"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, s.mr.Keys())
}

func TestSessionExpires(t *testing.T) {
	s := newTestServer(t, defaultAuth())
	auth := map[string]string{"Authorization": s.login(t)}

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/coupon", "", auth).Code)

	s.mr.FastForward(time.Hour)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/coupon", "", auth).Code)
}

func TestStoreDownFailsClosed(t *testing.T) {
	s := newTestServer(t, defaultAuth())
	auth := map[string]string{"Authorization": s.login(t)}
	s.mr.Close()

	assert.Equal(t, http.StatusInternalServerError, s.do(http.MethodGet, "/coupon", "", auth).Code)
	assert.Equal(t, http.StatusInternalServerError, s.do(http.MethodPost, "/auth", `{"api_key":"`+testAPIKey+`"}`, nil).Code)
}

func TestHashedAPIKey(t *testing.T) {
	hash, err := credentials.HashKey(testAPIKey)
	require.NoError(t, err)

	s := newTestServer(t, config.AuthConfig{APIKey: config.Secret(hash), APIKeyHashed: true, SessionTTL: time.Hour})

	bearer := s.login(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/coupon", "", map[string]string{"Authorization": bearer}).Code)

	rec := s.do(http.MethodPost, "/auth", `{"api_key":"`+hash+`"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInvalidHashedKeyFailsRouterBuild(t *testing.T) {
	_, err := newRouter(&config.Config{Auth: config.AuthConfig{APIKey: "plain", APIKeyHashed: true}}, Deps{
		Sessions: session.NewRedisStore(nil, session.DefaultKeyPrefix, time.Second),
		Coupons:  coupon.NewMemoryRepository(),
	})
	assert.Error(t, err)
}

func TestMetricsRecorded(t *testing.T) {
	s := newTestServer(t, defaultAuth())
	auth := map[string]string{"Authorization": s.login(t)}
	s.do(http.MethodPost, "/auth", `{"api_key":"nope"}`, nil)
	s.do(http.MethodGet, "/coupon", "", auth)
	s.do(http.MethodGet, "/coupon", "", nil)

	expected := `
# HELP gate_issuance_total Session issuance attempts by outcome
# TYPE gate_issuance_total counter
gate_issuance_total{outcome="issued"} 1
gate_issuance_total{outcome="unauthorized"} 1
# HELP gate_validation_total Bearer validations by outcome
# TYPE gate_validation_total counter
gate_validation_total{outcome="accepted"} 1
gate_validation_total{outcome="missing_header"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(s.reg, strings.NewReader(expected),
		"gate_issuance_total", "gate_validation_total"))
}
