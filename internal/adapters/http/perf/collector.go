package perf

import (
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs storage entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindStorage
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Name       string // route pattern, or "backend.op key" for storage
	StatusCode int    // HTTP status (0 for storage)
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer for timing entries.
// When full, the oldest entries are overwritten. Aggregation happens only in Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: none; size <= 0 selects DefaultRingSize
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer.
// POST: Entry stored; if buffer full, oldest entry overwritten
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	c.count.Add(1)
}

// Observe records the time elapsed since start under name.
// A nil Collector is a valid no-op receiver.
func (c *Collector) Observe(kind EntryKind, name string, status int, start time.Time) float64 {
	ms := float64(time.Since(start).Microseconds()) / 1000.0
	if c != nil {
		c.Record(Entry{Kind: kind, Name: name, StatusCode: status, DurationMs: ms, Timestamp: start})
	}
	return ms
}

// TotalRecorded returns the total number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// Snapshot holds aggregated performance data computed on read.
type Snapshot struct {
	TotalRecorded  int64      `json:"totalRecorded"`
	Requests       int        `json:"requests"`
	RequestP50Ms   float64    `json:"requestP50Ms"`
	RequestP95Ms   float64    `json:"requestP95Ms"`
	RequestP99Ms   float64    `json:"requestP99Ms"`
	ServerErrors   int        `json:"serverErrors"`
	SlowestRoutes  []NameStat `json:"slowestRoutes"`
	SlowestStorage []NameStat `json:"slowestStorage"`
}

// NameStat aggregates timing for a single route or storage operation.
type NameStat struct {
	Name    string  `json:"name"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"totalMs"`
}

// Snapshot computes aggregated stats over entries recorded at or after since.
// PRE: topN > 0
// POST: Returns a Snapshot with percentiles and top-N lists
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.entries)
	c.mu.Unlock()

	var durations []float64
	routes := make(map[string]*NameStat)
	storage := make(map[string]*NameStat)
	snap := Snapshot{TotalRecorded: c.TotalRecorded()}

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			durations = append(durations, e.DurationMs)
			if e.StatusCode >= 500 {
				snap.ServerErrors++
			}
			accumulate(routes, e)
		case KindStorage:
			accumulate(storage, e)
		}
	}

	snap.Requests = len(durations)
	snap.SlowestRoutes = topByAvg(routes, topN)
	snap.SlowestStorage = topByAvg(storage, topN)
	if len(durations) > 0 {
		slices.Sort(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

func accumulate(stats map[string]*NameStat, e Entry) {
	s, ok := stats[e.Name]
	if !ok {
		s = &NameStat{Name: e.Name}
		stats[e.Name] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	s.MaxMs = max(s.MaxMs, e.DurationMs)
}

// percentile returns the p-th percentile from a sorted slice, interpolating between ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the top n names by average duration, slowest first.
func topByAvg(stats map[string]*NameStat, n int) []NameStat {
	list := make([]NameStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	slices.SortFunc(list, func(a, b NameStat) int {
		switch {
		case a.AvgMs > b.AvgMs:
			return -1
		case a.AvgMs < b.AvgMs:
			return 1
		}
		return 0
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
