// Package metrics exposes Prometheus metrics for the spookyhash module: how
// many digests were computed, by which path (short vs. long), how many
// bytes were fed through them, and how long a digest took. It backs the CLI's
// optional /metrics endpoint and any embedder that wants the same counters.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Path labels a digest computation by which internal code path served it,
// matching the short/long split from spec §4.2.
const (
	PathShort = "short"
	PathLong  = "long"
)

// Metrics holds the Prometheus collectors for one hashing instance.
// The zero value is not usable; construct with New.
type Metrics struct {
	registry *prometheus.Registry

	digestsTotal   *prometheus.CounterVec
	bytesHashed    *prometheus.CounterVec
	digestLatency  *prometheus.HistogramVec
	streamsOpen    prometheus.Gauge
	ringKeysMoved  prometheus.Counter
	poolGets       *prometheus.CounterVec
	violationTotal *prometheus.CounterVec
}

var (
	global     *Metrics
	globalOnce sync.Once
)

// Global returns the process-wide Metrics instance, constructing it with
// its own registry on first use.
func Global() *Metrics {
	globalOnce.Do(func() {
		global = New()
	})
	return global
}

// New creates a Metrics instance registered against a fresh registry, so
// multiple instances (e.g. in tests) never collide on metric names.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		digestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spookyhash_digests_total",
			Help: "Digests computed, by path (short or long).",
		}, []string{"path"}),
		bytesHashed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spookyhash_bytes_hashed_total",
			Help: "Bytes absorbed into a digest, by path.",
		}, []string{"path"}),
		digestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spookyhash_digest_seconds",
			Help:    "Time to compute a digest, by path.",
			Buckets: prometheus.ExponentialBuckets(1e-7, 4, 12),
		}, []string{"path"}),
		streamsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spookyhash_streams_open",
			Help: "Hasher streams that have been Init'd but not yet finalized.",
		}),
		ringKeysMoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spookyhash_ring_keys_moved_total",
			Help: "Keys observed to move to a different node after a ring membership change.",
		}),
		poolGets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spookyhash_pool_gets_total",
			Help: "sync.Pool Get calls, by pool name.",
		}, []string{"pool"}),
		violationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spookyhash_invariant_violations_total",
			Help: "Invariant check failures, by invariant name.",
		}, []string{"name"}),
	}

	reg.MustRegister(
		m.digestsTotal,
		m.bytesHashed,
		m.digestLatency,
		m.streamsOpen,
		m.ringKeysMoved,
		m.poolGets,
		m.violationTotal,
	)
	return m
}

// ObserveDigest records one completed digest: which path computed it, how
// many bytes it covered, and how long it took.
func (m *Metrics) ObserveDigest(path string, bytes int, d time.Duration) {
	m.digestsTotal.WithLabelValues(path).Inc()
	m.bytesHashed.WithLabelValues(path).Add(float64(bytes))
	m.digestLatency.WithLabelValues(path).Observe(d.Seconds())
}

// IncStreamsOpen/DecStreamsOpen track live Hasher streams (Init called,
// Final not yet called).
func (m *Metrics) IncStreamsOpen() { m.streamsOpen.Inc() }
func (m *Metrics) DecStreamsOpen() { m.streamsOpen.Dec() }

// AddRingKeysMoved records how many sampled keys moved to a different node
// after a ring membership change (see pkg/consistent).
func (m *Metrics) AddRingKeysMoved(n int) {
	m.ringKeysMoved.Add(float64(n))
}

// IncPoolGet records one Get against a named pool (e.g. "block", "staging").
func (m *Metrics) IncPoolGet(pool string) {
	m.poolGets.WithLabelValues(pool).Inc()
}

// IncViolation records one invariant-check failure by name, mirroring
// pkg/invariant's Violation.Name.
func (m *Metrics) IncViolation(name string) {
	m.violationTotal.WithLabelValues(name).Inc()
}

// Handler returns an HTTP handler serving this instance's metrics in
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for embedders that want to add
// their own collectors alongside these.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
