package memauth

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one Service counter or histogram.
type MetricID uint16

const (
	// MetricUserCreated counts successful CreateUser calls.
	MetricUserCreated MetricID = iota
	// MetricUserDuplicate counts CreateUser calls rejected with StatusUserExists.
	MetricUserDuplicate
	// MetricUserDeleted counts successful DeleteUser calls.
	MetricUserDeleted
	// MetricRoleCreated counts successful CreateRole calls.
	MetricRoleCreated
	// MetricRoleDuplicate counts CreateRole calls rejected with StatusRoleExists.
	MetricRoleDuplicate
	// MetricRoleDeleted counts successful DeleteRole calls.
	MetricRoleDeleted
	// MetricRoleAssigned counts successful AddRoleToUser calls.
	MetricRoleAssigned
	// MetricAuthSuccess counts Authenticate calls that issued a token.
	MetricAuthSuccess
	// MetricAuthFailure counts Authenticate calls rejected for an unknown user or
	// wrong secret.
	MetricAuthFailure
	// MetricTokenInvalidated counts tokens removed by Invalidate.
	MetricTokenInvalidated
	// MetricTokenRejectedInvalid counts reads that found no token.
	MetricTokenRejectedInvalid
	// MetricTokenRejectedExpired counts reads that found an expired token.
	MetricTokenRejectedExpired
	// MetricSweepRun counts resize-triggered sweeps.
	MetricSweepRun
	// MetricSweepEvicted counts sessions removed by sweeps.
	MetricSweepEvicted
	// MetricSessionsRevoked counts sessions removed because their user was deleted.
	MetricSessionsRevoked
	// MetricInternalError counts operations that ended in StatusInternalError.
	MetricInternalError
	// MetricAuthenticateLatency is the Authenticate latency histogram.
	MetricAuthenticateLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters and one latency histogram. A nil or disabled
// Metrics ignores every update.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all metric values.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics returns Metrics configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the latency histogram is recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to counter id.
func (m *Metrics) Inc(id MetricID) {
	m.Add(id, 1)
}

// Add adds n to counter id.
func (m *Metrics) Add(id MetricID, n uint64) {
	if m == nil || !m.enabled || id >= metricIDCount || n == 0 {
		return
	}
	atomic.AddUint64(&m.counters[id].value, n)
}

// Observe records d in histogram id. Only MetricAuthenticateLatency has a histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricAuthenticateLatency {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

// Value returns the current value of counter id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and, when enabled, the latency histogram. A
// disabled Metrics yields empty maps.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if id == MetricAuthenticateLatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricAuthenticateLatency].buckets[i])
		}
		s.Histograms[MetricAuthenticateLatency] = buckets
	}

	return s
}

// Bucket upper bounds: 1ms, 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, +Inf. Authenticate
// is dominated by digest cost, which is sub-millisecond for the legacy scheme and
// tens of milliseconds for Argon2id.
func bucketIndex(d time.Duration) int {
	switch {
	case d <= time.Millisecond:
		return 0
	case d <= 5*time.Millisecond:
		return 1
	case d <= 10*time.Millisecond:
		return 2
	case d <= 25*time.Millisecond:
		return 3
	case d <= 50*time.Millisecond:
		return 4
	case d <= 100*time.Millisecond:
		return 5
	case d <= 250*time.Millisecond:
		return 6
	default:
		return 7
	}
}
