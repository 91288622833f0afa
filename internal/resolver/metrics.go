package resolver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// Operations.
const (
	opResolve = "resolve"
	opFind    = "find"
)

// Outcomes.
const (
	outcomeCreated  = "created"
	outcomeExisting = "existing"
	outcomeNotFound = "not_found"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

// Metrics records resolver activity. A nil *Metrics records nothing.
type Metrics struct {
	Resolutions *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	CacheHits   *prometheus.CounterVec
	Links       prometheus.Counter
}

// NewMetrics registers the resolver metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Resolutions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crate_resolutions_total",
				Help: "Item resolutions by item type, operation and outcome",
			},
			[]string{"type", "op", "outcome"},
		),
		Duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crate_resolution_duration_seconds",
				Help:    "Duration of item resolutions in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"type", "op"},
		),
		CacheHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crate_identity_cache_hits_total",
				Help: "Resolutions answered from the identity cache",
			},
			[]string{"type", "op"},
		),
		Links: f.NewCounter(prometheus.CounterOpts{
			Name: "crate_links_created_total",
			Help: "Link rows added by resolutions",
		}),
	}
}

func (m *Metrics) observe(kind types.ItemType, op, outcome string, since time.Time) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(string(kind), op, outcome).Inc()
	m.Duration.WithLabelValues(string(kind), op).Observe(time.Since(since).Seconds())
}

func (m *Metrics) cacheHit(kind types.ItemType, op string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(string(kind), op).Inc()
}

func (m *Metrics) linksAdded(n int) {
	if m == nil || n == 0 {
		return
	}
	m.Links.Add(float64(n))
}
