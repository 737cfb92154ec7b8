package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Report names used as cache keys by the dashboard controllers.
const (
	ReportSummary   = "summary"
	ReportBreakdown = "breakdown"
)

// ReportCache keeps rendered dashboard payloads in Redis for a short TTL so
// repeated dashboard loads skip the aggregate queries. A nil *ReportCache
// is a valid pass-through for deployments without Redis.
type ReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewReportCache(rdb *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{rdb: rdb, ttl: ttl}
}

func key(name string) string { return fmt.Sprintf("labtrack:report:%s", name) }

// Get unmarshals a cached report into dest, reporting whether it was found.
func (c *ReportCache) Get(ctx context.Context, name string, dest any) bool {
	if c == nil {
		return false
	}
	b, err := c.rdb.Get(ctx, key(name)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dest) == nil
}

func (c *ReportCache) Put(ctx context.Context, name string, v any) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key(name), b, c.ttl).Err()
}

// Invalidate drops the named reports; write workflows call this so the next
// dashboard load sees fresh aggregates.
func (c *ReportCache) Invalidate(ctx context.Context, names ...string) {
	if c == nil {
		return
	}
	pipe := c.rdb.TxPipeline()
	for _, n := range names {
		pipe.Del(ctx, key(n))
	}
	_, _ = pipe.Exec(ctx)
}

// InvalidateAll drops every dashboard report.
func (c *ReportCache) InvalidateAll(ctx context.Context) {
	c.Invalidate(ctx, ReportSummary, ReportBreakdown)
}
