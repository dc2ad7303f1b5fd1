package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/steelops/intake-api/internal/common"
)

// Cache holds built daily reports in redis. A nil Cache (or one without a
// client) is a no-op, so redis stays optional.
type Cache struct {
	R   *redis.Client
	TTL time.Duration
}

func dayKey(day time.Time) string {
	return "report:daily:" + common.FormatDay(day)
}

// Get returns the cached report for a day, if present.
func (c *Cache) Get(ctx context.Context, day time.Time) (Report, bool) {
	if c == nil || c.R == nil || c.TTL <= 0 {
		return Report{}, false
	}
	data, err := c.R.Get(ctx, dayKey(day)).Bytes()
	if err != nil {
		return Report{}, false
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return Report{}, false
	}
	return rep, true
}

// Set stores a built report. Failures are swallowed; the cache is advisory.
func (c *Cache) Set(ctx context.Context, day time.Time, rep Report) {
	if c == nil || c.R == nil || c.TTL <= 0 {
		return
	}
	data, err := json.Marshal(rep)
	if err != nil {
		return
	}
	_ = c.R.Set(ctx, dayKey(day), data, c.TTL).Err()
}

// InvalidateDay drops the cached report for the day a receipt was created or
// deleted on, so reads never observe a stale report.
func (c *Cache) InvalidateDay(ctx context.Context, day time.Time) error {
	if c == nil || c.R == nil {
		return nil
	}
	return c.R.Del(ctx, dayKey(day)).Err()
}
