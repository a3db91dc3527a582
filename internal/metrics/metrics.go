package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"coupon-api/internal/session"
)

// Issuance outcomes.
const (
	IssueIssued       = "issued"
	IssueUnauthorized = "unauthorized"
	IssueStoreFailure = "store_failure"
	IssueIDFailure    = "id_failure"
)

// Validation outcomes.
const (
	ValidateAccepted         = "accepted"
	ValidateMissingHeader    = "missing_header"
	ValidateInvalidHeader    = "invalid_header"
	ValidateNotFound         = "not_found"
	ValidateStoreUnavailable = "store_unavailable"
)

// Metrics holds the gate collectors. A nil *Metrics records nothing.
type Metrics struct {
	issuance   *prometheus.CounterVec
	validation *prometheus.CounterVec
	storeOps   *prometheus.HistogramVec
}

// New registers the gate collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		issuance: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gate_issuance_total",
			Help: "Session issuance attempts by outcome",
		}, []string{"outcome"}),
		validation: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gate_validation_total",
			Help: "Bearer validations by outcome",
		}, []string{"outcome"}),
		storeOps: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gate_store_operation_seconds",
			Help:    "Latency of session store operations",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"op", "result"}),
	}
}

func (m *Metrics) Issued(outcome string) {
	if m == nil {
		return
	}
	m.issuance.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Validated(outcome string) {
	if m == nil {
		return
	}
	m.validation.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeStore(op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOps.WithLabelValues(op, result).Observe(d.Seconds())
}

type instrumentedStore struct {
	next session.Store
	m    *Metrics
}

// InstrumentStore records latency for every call on store.
func InstrumentStore(store session.Store, m *Metrics) session.Store {
	if m == nil {
		return store
	}
	return &instrumentedStore{next: store, m: m}
}

func (s *instrumentedStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	start := time.Now()
	err := s.next.Put(ctx, key, value, ttl)
	s.m.observeStore("put", err, time.Since(start))
	return err
}

func (s *instrumentedStore) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	val, ok, err := s.next.Get(ctx, key)
	s.m.observeStore("get", err, time.Since(start))
	return val, ok, err
}
