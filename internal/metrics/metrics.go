// Package metrics counts what the extraction service does: calls per profile,
// outcomes, cache traffic and cumulative latency. The collector is a plain
// injected dependency with an on-demand snapshot; exporting is the caller's
// concern.
package metrics

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of every counter.
type Snapshot struct {
	StartedAt      time.Time          `json:"started_at"`
	Calls          int64              `json:"calls"`
	Failures       int64              `json:"failures"`
	CacheHits      int64              `json:"cache_hits"`
	CacheMisses    int64              `json:"cache_misses"`
	CallsByProfile map[string]int64   `json:"calls_by_profile"`
	ErrorsByKind   map[string]int64   `json:"errors_by_kind"`
	TotalDuration  time.Duration      `json:"total_duration_ns"`
	MeanConfidence float64            `json:"mean_confidence"`
	confidenceSum  float64
}

// Collector accumulates counters behind a mutex. The zero value is not
// usable; construct with New.
type Collector struct {
	mu   sync.Mutex
	snap Snapshot
}

func New() *Collector {
	return &Collector{snap: Snapshot{
		StartedAt:      time.Now().UTC(),
		CallsByProfile: map[string]int64{},
		ErrorsByKind:   map[string]int64{},
	}}
}

// RecordCall registers one finished extraction with its outcome.
func (c *Collector) RecordCall(profileName string, confidence float64, failed bool, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.Calls++
	c.snap.CallsByProfile[profileName]++
	c.snap.TotalDuration += elapsed
	if failed {
		c.snap.Failures++
		return
	}
	c.snap.confidenceSum += confidence
}

// RecordError counts a call-level failure by kind (fetch, timeout, internal).
func (c *Collector) RecordError(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.ErrorsByKind[kind]++
}

func (c *Collector) RecordCacheHit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.CacheHits++
}

func (c *Collector) RecordCacheMiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.CacheMisses++
}

// Snapshot copies the counters. The mean confidence covers successful calls
// only.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.snap
	out.CallsByProfile = make(map[string]int64, len(c.snap.CallsByProfile))
	for k, v := range c.snap.CallsByProfile {
		out.CallsByProfile[k] = v
	}
	out.ErrorsByKind = make(map[string]int64, len(c.snap.ErrorsByKind))
	for k, v := range c.snap.ErrorsByKind {
		out.ErrorsByKind[k] = v
	}
	if ok := c.snap.Calls - c.snap.Failures; ok > 0 {
		out.MeanConfidence = c.snap.confidenceSum / float64(ok)
	}
	return out
}
