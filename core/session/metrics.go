package session

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Load results.
const (
	LoadFresh   = "fresh"
	LoadHit     = "hit"
	LoadMiss    = "miss"
	LoadInvalid = "invalid"
	LoadExpired = "expired"
	LoadError   = "error"
)

// Store results.
const (
	StoreClean   = "clean"
	StoreMinted  = "minted"
	StoreSaved   = "saved"
	StoreDeleted = "deleted"
	StoreError   = "error"
)

// Metrics holds the Prometheus collectors for a Manager. A nil *Metrics
// records nothing.
type Metrics struct {
	Loads         *prometheus.CounterVec
	Stores        *prometheus.CounterVec
	CacheDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. Collectors
// that are already registered are reused, so several managers may share reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_loads_total",
			Help: "Session loads by outcome",
		}, []string{"result"}), // fresh, hit, miss, invalid, expired, error
		Stores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_stores_total",
			Help: "Session stores by outcome",
		}, []string{"result"}), // clean, minted, saved, deleted, error
		CacheDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "session_cache_duration_seconds",
			Help:    "Latency of session cache operations in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"op"}), // get, set, delete
	}

	if err := register(reg, &m.Loads); err != nil {
		return nil, err
	}
	if err := register(reg, &m.Stores); err != nil {
		return nil, err
	}
	if err := register(reg, &m.CacheDuration); err != nil {
		return nil, err
	}
	return m, nil
}

// MustNewMetrics is NewMetrics that panics on error.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	m, err := NewMetrics(reg)
	if err != nil {
		panic(err)
	}
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c *C) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				*c = existing
				return nil
			}
		}
		return err
	}
	return nil
}

func (m *Metrics) load(result string) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(result).Inc()
}

func (m *Metrics) store(result string) {
	if m == nil {
		return
	}
	m.Stores.WithLabelValues(result).Inc()
}

func (m *Metrics) observe(op string, start time.Time) {
	if m == nil {
		return
	}
	m.CacheDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
