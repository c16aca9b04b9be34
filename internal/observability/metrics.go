package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	startedAt    time.Time
	requestCount map[string]int64
	latencyMs    map[string]int64
	errorCount   map[string]int64
	canceled     int64
}

// MetricsSnapshot is the JSON shape served at /metrics.
type MetricsSnapshot struct {
	UptimeSeconds int64            `json:"uptime_seconds"`
	Requests      map[string]int64 `json:"requests"`
	LatencyMs     map[string]int64 `json:"latency_ms_total"`
	Errors        map[string]int64 `json:"errors"`
	Canceled      int64            `json:"canceled"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt:    time.Now(),
		requestCount: make(map[string]int64),
		latencyMs:    make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest counts a finished request keyed by route, method and status.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(route, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.latencyMs[key] += duration.Milliseconds()
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	key := pathKey(route, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordCanceled counts loads dropped because a newer one superseded them
// or the caller went away.
func (m *Metrics) RecordCanceled() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canceled++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		UptimeSeconds: int64(time.Since(m.startedAt).Seconds()),
		Requests:      copyCounts(m.requestCount),
		LatencyMs:     copyCounts(m.latencyMs),
		Errors:        copyCounts(m.errorCount),
		Canceled:      m.canceled,
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func pathKey(route, method, suffix string) string {
	return route + "|" + method + "|" + suffix
}
