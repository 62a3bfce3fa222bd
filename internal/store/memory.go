package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pvehvila/spotprice-aggregation/internal/spot"
)

// CachedRolling memoizes a rolling-window source for TTL. The pipeline
// itself is pure, so wrapping the raw fetch is semantically safe: repeated
// normalization of the same cached records yields identical series.
type CachedRolling struct {
	Source spot.RollingSource
	TTL    time.Duration

	mu        sync.Mutex
	records   []spot.Record
	fetchedAt time.Time
}

func (c *CachedRolling) Name() string { return c.Source.Name() }

func (c *CachedRolling) FetchWindow(ctx context.Context) ([]spot.Record, error) {
	if c.TTL <= 0 {
		return c.Source.FetchWindow(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.records != nil && time.Since(c.fetchedAt) < c.TTL {
		return c.records, nil
	}

	records, err := c.Source.FetchWindow(ctx)
	if err != nil {
		return nil, err
	}
	c.records = records
	c.fetchedAt = time.Now()
	return records, nil
}

// dayEntry caches one day's fetch outcome. Failed no-data lookups are
// cached too, for a shorter TTL, so a missing tomorrow does not hammer the
// feed yet shows up soon after publication.
type dayEntry struct {
	records   []spot.Record
	err       error
	expiresAt time.Time
}

// CachedDay memoizes a per-day source keyed by calendar day.
type CachedDay struct {
	Source   spot.DaySource
	TTL      time.Duration
	EmptyTTL time.Duration
	MaxDays  int

	mu   sync.Mutex
	days map[spot.CalendarDay]dayEntry
}

func (c *CachedDay) Name() string { return c.Source.Name() }

func (c *CachedDay) FetchDay(ctx context.Context, day spot.CalendarDay) ([]spot.Record, error) {
	if c.TTL <= 0 {
		return c.Source.FetchDay(ctx, day)
	}

	now := time.Now()

	c.mu.Lock()
	if c.days == nil {
		c.days = make(map[spot.CalendarDay]dayEntry)
	}
	if e, ok := c.days[day]; ok && now.Before(e.expiresAt) {
		c.mu.Unlock()
		return e.records, e.err
	}
	c.mu.Unlock()

	records, err := c.Source.FetchDay(ctx, day)

	entry := dayEntry{records: records, err: err, expiresAt: now.Add(c.TTL)}
	switch {
	case err == nil:
	case isNoData(err):
		ttl := c.EmptyTTL
		if ttl <= 0 {
			ttl = c.TTL
		}
		entry.expiresAt = now.Add(ttl)
	default:
		// Real failures are not cached; the next call retries the feed.
		return nil, err
	}

	c.mu.Lock()
	c.days[day] = entry
	c.prune(now)
	c.mu.Unlock()

	return records, err
}

// prune drops expired entries, then arbitrary ones, to honor MaxDays.
// Called with the lock held.
func (c *CachedDay) prune(now time.Time) {
	if c.MaxDays <= 0 || len(c.days) <= c.MaxDays {
		return
	}
	for d, e := range c.days {
		if now.After(e.expiresAt) {
			delete(c.days, d)
		}
		if len(c.days) <= c.MaxDays {
			return
		}
	}
	for d := range c.days {
		if len(c.days) <= c.MaxDays {
			return
		}
		delete(c.days, d)
	}
}

func isNoData(err error) bool {
	var fe *spot.FeedError
	return errors.As(err, &fe) && fe.NoData()
}
