package recycling

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/EcoQuest_Go/internal/clock"
	"github.com/osse101/EcoQuest_Go/internal/logger"
	"github.com/osse101/EcoQuest_Go/internal/metrics"
	"github.com/osse101/EcoQuest_Go/internal/store"
)

// cacheRecord is the persisted form of a cached value. Timestamp is in
// milliseconds since the epoch.
type cacheRecord struct {
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

type frontEntry[V any] struct {
	at    time.Time
	value V
}

// ttlCache keeps values per user in an in-process LRU backed by the Local
// store. Freshness is decided by the reader against the clock, so a stale
// record is still available as a fallback.
type ttlCache[V any] struct {
	prefix string
	ttl    time.Duration
	local  store.Local
	front  *expirable.LRU[string, frontEntry[V]]
	clock  clock.Clock
}

func newTTLCache[V any](prefix string, ttl time.Duration, local store.Local, clk clock.Clock) *ttlCache[V] {
	return &ttlCache[V]{
		prefix: prefix,
		ttl:    ttl,
		local:  local,
		front:  expirable.NewLRU[string, frontEntry[V]](FrontCacheSize, nil, ttl),
		clock:  clk,
	}
}

func (c *ttlCache[V]) fresh(at time.Time) bool {
	return c.clock.Since(at) < c.ttl
}

// Get returns the cached value for userID. ok is false when nothing is cached;
// fresh is false when the value is older than the TTL.
func (c *ttlCache[V]) Get(ctx context.Context, userID string) (value V, fresh, ok bool) {
	if e, found := c.front.Get(userID); found {
		if c.fresh(e.at) {
			return e.value, true, true
		}
		c.front.Remove(userID)
	}

	rec, err := c.load(ctx, userID)
	if err != nil {
		return value, false, false
	}
	if err := json.Unmarshal(rec.Payload, &value); err != nil {
		logger.FromContext(ctx).Warn(LogMsgCorruptCacheRecord, "key", c.prefix+userID, "error", err)
		return value, false, false
	}
	at := time.UnixMilli(rec.Timestamp)
	if !c.fresh(at) {
		return value, false, true
	}
	c.front.Add(userID, frontEntry[V]{at: at, value: value})
	return value, true, true
}

func (c *ttlCache[V]) load(ctx context.Context, userID string) (cacheRecord, error) {
	var rec cacheRecord
	raw, err := c.local.GetItem(ctx, c.prefix+userID)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Payload == nil {
		logger.FromContext(ctx).Warn(LogMsgCorruptCacheRecord, "key", c.prefix+userID, "error", err)
		return rec, store.ErrNotFound
	}
	return rec, nil
}

// Put stores value as of now in both layers. A Local failure is logged only.
func (c *ttlCache[V]) Put(ctx context.Context, userID string, value V) {
	now := c.clock.Now()
	c.front.Add(userID, frontEntry[V]{at: now, value: value})

	payload, err := json.Marshal(value)
	if err == nil {
		var data []byte
		data, err = json.Marshal(cacheRecord{Timestamp: now.UnixMilli(), Payload: payload})
		if err == nil {
			err = c.local.SetItem(ctx, c.prefix+userID, string(data))
		}
	}
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgCacheWriteFailed, "key", c.prefix+userID, "error", err)
	}
}

// Invalidate drops userID from both layers
func (c *ttlCache[V]) Invalidate(ctx context.Context, userID string) {
	c.front.Remove(userID)
	if err := c.local.RemoveItem(ctx, c.prefix+userID); err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.FromContext(ctx).Warn(LogMsgCacheRemoveFailed, "key", c.prefix+userID, "error", err)
	}
}

// Clear drops every entry under the cache's prefix
func (c *ttlCache[V]) Clear(ctx context.Context) error {
	c.front.Purge()
	keys, err := c.local.Keys(ctx, c.prefix)
	if err != nil {
		return err
	}
	var errs []error
	for _, k := range keys {
		if err := c.local.RemoveItem(ctx, k); err != nil && !errors.Is(err, store.ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PurgeExpired removes persisted records that are past the TTL or unreadable
func (c *ttlCache[V]) PurgeExpired(ctx context.Context) (int, error) {
	keys, err := c.local.Keys(ctx, c.prefix)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, k := range keys {
		userID := k[len(c.prefix):]
		rec, err := c.load(ctx, userID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			// corrupt, drop it
		case err != nil:
			return removed, err
		case c.fresh(time.UnixMilli(rec.Timestamp)):
			continue
		}
		if err := c.local.RemoveItem(ctx, k); err != nil && !errors.Is(err, store.ErrNotFound) {
			return removed, err
		}
		c.front.Remove(userID)
		removed++
	}
	return removed, nil
}

func recordLookup(result string) {
	metrics.CacheLookups.WithLabelValues(result).Inc()
}
