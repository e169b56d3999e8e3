package engine

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/swaplane/swaplane/provider/wirebit"
)

// defaultMaxAmount is the feed bound used when maxamount is absent
var defaultMaxAmount = decimal.NewFromInt(999999)

// FeedFetcher fetches the raw rate feed items
type FeedFetcher interface {
	Feed(context.Context) ([]wirebit.FeedItem, error)
}

// RateCache is the shared rate/limit snapshot built from the provider's
// XML export feed. Refresh rebuilds the whole mapping and swaps it in
// atomically; readers always see either the previous complete snapshot or
// the new one, never a partial state
type RateCache struct {
	feed     FeedFetcher
	snapshot atomic.Pointer[map[string]RateEntry]
	flight   singleflight.Group
}

// NewRateCache creates an empty rate cache over the given feed
func NewRateCache(feed FeedFetcher) *RateCache {
	return &RateCache{
		feed: feed,
	}
}

// Refresh fetches the feed and replaces the cache contents.
// On failure the previous snapshot is retained unchanged. Concurrent
// refreshes collapse into a single feed fetch
func (c *RateCache) Refresh(ctx context.Context) error {
	_, err, _ := c.flight.Do("refresh", func() (any, error) {
		items, err := c.feed.Feed(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to fetch rate feed: %w", err)
		}

		snapshot, err := buildSnapshot(items)
		if err != nil {
			return nil, err
		}

		c.snapshot.Store(&snapshot)

		return nil, nil
	})

	return err
}

// Lookup returns the cached entry for the normalized identifier pair
func (c *RateCache) Lookup(fromID, toID string) (RateEntry, bool) {
	snapshot := c.snapshot.Load()
	if snapshot == nil {
		return RateEntry{}, false
	}

	entry, ok := (*snapshot)[pairKey(fromID, toID)]

	return entry, ok
}

// Size returns the number of cached pairs
func (c *RateCache) Size() int {
	snapshot := c.snapshot.Load()
	if snapshot == nil {
		return 0
	}

	return len(*snapshot)
}

// buildSnapshot parses the feed items into a fresh pair mapping
func buildSnapshot(items []wirebit.FeedItem) (map[string]RateEntry, error) {
	snapshot := make(map[string]RateEntry, len(items))

	for _, item := range items {
		entry, err := parseRateEntry(item)
		if err != nil {
			return nil, err
		}

		snapshot[pairKey(item.From, item.To)] = entry
	}

	return snapshot, nil
}

// parseRateEntry converts a raw feed item into a cache entry
func parseRateEntry(item wirebit.FeedItem) (RateEntry, error) {
	in, err := decimal.NewFromString(strings.TrimSpace(item.In))
	if err != nil {
		return RateEntry{}, fmt.Errorf(
			"%w: invalid feed amount %q: %s",
			wirebit.ErrMalformed, item.In, err,
		)
	}

	out, err := decimal.NewFromString(strings.TrimSpace(item.Out))
	if err != nil {
		return RateEntry{}, fmt.Errorf(
			"%w: invalid feed amount %q: %s",
			wirebit.ErrMalformed, item.Out, err,
		)
	}

	// A zero give-side amount means the feed entry carries no usable
	// ratio; the rate defaults to 1 instead of dividing by zero
	rate := decimal.NewFromInt(1)
	if !in.IsZero() {
		rate = out.Div(in)
	}

	return RateEntry{
		Rate:    rate,
		Min:     leadingAmount(item.MinAmount, decimal.Zero),
		Max:     leadingAmount(item.MaxAmount, defaultMaxAmount),
		Reserve: leadingAmount(item.Reserve, decimal.Zero),
	}, nil
}

// leadingAmount extracts the leading numeric token of a feed amount string
// that may carry trailing unit text ("0.001 BTC"). Absent or unusable
// values yield the fallback
func leadingAmount(raw string, fallback decimal.Decimal) decimal.Decimal {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return fallback
	}

	value, err := decimal.NewFromString(fields[0])
	if err != nil {
		return fallback
	}

	return value
}

// pairKey builds the cache key in the feed's own taxonomy
func pairKey(fromID, toID string) string {
	return fromID + "_" + toID
}
