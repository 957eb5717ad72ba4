package observability

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	started      time.Time
	requestCount map[string]int64
	errorCount   map[string]int64
	durations    map[string]time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		started:      time.Now(),
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		durations:    make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.durations[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RouteStat is one row of a metrics snapshot.
type RouteStat struct {
	Path   string  `json:"path"`
	Method string  `json:"method"`
	Result string  `json:"result"`
	Count  int64   `json:"count"`
	AvgMS  float64 `json:"avg_ms,omitempty"`
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	UptimeSeconds int64       `json:"uptime_seconds"`
	Requests      []RouteStat `json:"requests"`
	Errors        []RouteStat `json:"errors"`
}

// Snapshot copies the counters, sorted by path, method and result.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{Requests: []RouteStat{}, Errors: []RouteStat{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.started).Seconds()),
		Requests:      make([]RouteStat, 0, len(m.requestCount)),
		Errors:        make([]RouteStat, 0, len(m.errorCount)),
	}
	for key, count := range m.requestCount {
		stat := splitKey(key, count)
		if count > 0 {
			stat.AvgMS = float64(m.durations[key].Microseconds()) / 1000 / float64(count)
		}
		snap.Requests = append(snap.Requests, stat)
	}
	for key, count := range m.errorCount {
		snap.Errors = append(snap.Errors, splitKey(key, count))
	}
	sortStats(snap.Requests)
	sortStats(snap.Errors)
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}

func splitKey(key string, count int64) RouteStat {
	parts := strings.SplitN(key, "|", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return RouteStat{Path: parts[0], Method: parts[1], Result: parts[2], Count: count}
}

func sortStats(stats []RouteStat) {
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		return a.Result < b.Result
	})
}
