package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 4096

// EntryKind distinguishes console requests from calls to the roster backend.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindUpstream
)

// String names the kind for logs and JSON.
func (k EntryKind) String() string {
	if k == KindUpstream {
		return "upstream"
	}
	return "request"
}

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Path       string // "GET /courses" or "PATCH students"
	StatusCode int    // 0 when an upstream call never got a response
	DurationMs float64
	Timestamp  time.Time
}

// Failed reports whether the entry ended without a 2xx/3xx status.
func (e Entry) Failed() bool {
	return e.StatusCode == 0 || e.StatusCode >= 400
}

// Collector is a fixed-size ring buffer for timing entries.
// When full, oldest entries are overwritten. Aggregation happens on read.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64
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
	atomic.AddInt64(&c.count, 1)
}

// Observe records an entry that started at start and ends now.
// A nil collector is a no-op so callers can leave timing unwired.
func (c *Collector) Observe(kind EntryKind, path string, status int, start time.Time) {
	if c == nil {
		return
	}
	c.Record(Entry{
		Kind:       kind,
		Path:       path,
		StatusCode: status,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Timestamp:  time.Now(),
	})
}

// TotalRecorded returns the total number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.count)
}

// Snapshot holds aggregated performance data computed on read.
type Snapshot struct {
	TotalRecorded    int64      `json:"totalRecorded"`
	RequestP50Ms     float64    `json:"requestP50Ms"`
	RequestP95Ms     float64    `json:"requestP95Ms"`
	RequestP99Ms     float64    `json:"requestP99Ms"`
	UpstreamP95Ms    float64    `json:"upstreamP95Ms"`
	UpstreamFailures int        `json:"upstreamFailures"`
	SlowestPaths     []PathStat `json:"slowestPaths"`
	SlowestUpstream  []PathStat `json:"slowestUpstream"`
}

// PathStat aggregates timing for a single console path or upstream call.
type PathStat struct {
	Path    string  `json:"path"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"totalMs"`
}

type aggregate struct {
	durations []float64
	stats     map[string]*PathStat
}

func (a *aggregate) add(e Entry) {
	a.durations = append(a.durations, e.DurationMs)
	s, ok := a.stats[e.Path]
	if !ok {
		s = &PathStat{Path: e.Path}
		a.stats[e.Path] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	if e.DurationMs > s.MaxMs {
		s.MaxMs = e.DurationMs
	}
}

// Snapshot computes aggregated stats over entries newer than since.
// PRE: topN >= 0
// POST: Returns percentiles and top-N lists per kind
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	requests := aggregate{stats: make(map[string]*PathStat)}
	upstream := aggregate{stats: make(map[string]*PathStat)}
	failures := 0

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			requests.add(e)
		case KindUpstream:
			upstream.add(e)
			if e.Failed() {
				failures++
			}
		}
	}

	snap := Snapshot{
		TotalRecorded:    c.TotalRecorded(),
		UpstreamFailures: failures,
		SlowestPaths:     topByAvg(requests.stats, topN),
		SlowestUpstream:  topByAvg(upstream.stats, topN),
	}
	if len(requests.durations) > 0 {
		sort.Float64s(requests.durations)
		snap.RequestP50Ms = percentile(requests.durations, 50)
		snap.RequestP95Ms = percentile(requests.durations, 95)
		snap.RequestP99Ms = percentile(requests.durations, 99)
	}
	if len(upstream.durations) > 0 {
		sort.Float64s(upstream.durations)
		snap.UpstreamP95Ms = percentile(upstream.durations, 95)
	}
	return snap
}

// percentile returns the p-th percentile from a sorted slice.
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

// topByAvg returns the top N paths sorted by average duration, descending.
func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs == list[j].AvgMs {
			return list[i].Path < list[j].Path
		}
		return list[i].AvgMs > list[j].AvgMs
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
