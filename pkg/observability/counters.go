package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters tallies events. The zero value is ready to use.
type Counters struct {
	renders       atomic.Int64
	renderErrors  atomic.Int64
	extractErrors atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	cacheBytes    atomic.Int64
	requests      atomic.Int64
	serverErrors  atomic.Int64
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Renders       int64 `json:"renders"`
	RenderErrors  int64 `json:"render_errors"`
	ExtractErrors int64 `json:"extract_errors"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	CacheBytes    int64 `json:"cache_bytes"`
	Requests      int64 `json:"requests"`
	ServerErrors  int64 `json:"server_errors"`
}

// OnExtract counts failed fingerprint lookups.
func (c *Counters) OnExtract(_ context.Context, _ string, err error) {
	if err != nil {
		c.extractErrors.Add(1)
	}
}

// OnRender counts produced artifacts and failed renders separately.
func (c *Counters) OnRender(_ context.Context, _ string, _ time.Duration, err error) {
	if err != nil {
		c.renderErrors.Add(1)
		return
	}
	c.renders.Add(1)
}

// OnCacheHit counts artifacts served from the cache.
func (c *Counters) OnCacheHit(context.Context, string) { c.cacheHits.Add(1) }

// OnCacheMiss counts lookups that had to render.
func (c *Counters) OnCacheMiss(context.Context, string) { c.cacheMisses.Add(1) }

// OnCacheSet adds the stored artifact size to the cached byte total.
func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.cacheBytes.Add(int64(size))
}

// OnResponse counts requests, and 5xx responses as server errors.
func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	c.requests.Add(1)
	if status >= 500 {
		c.serverErrors.Add(1)
	}
}

// Snapshot returns the current values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Renders:       c.renders.Load(),
		RenderErrors:  c.renderErrors.Load(),
		ExtractErrors: c.extractErrors.Load(),
		CacheHits:     c.cacheHits.Load(),
		CacheMisses:   c.cacheMisses.Load(),
		CacheBytes:    c.cacheBytes.Load(),
		Requests:      c.requests.Load(),
		ServerErrors:  c.serverErrors.Load(),
	}
}
