package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"sheeets/internal/domain"
)

// Cache defaults.
const (
	DefaultCacheTTL       = 15 * time.Minute
	DefaultBatchSize      = 500
	defaultRefreshTimeout = 2 * time.Minute
	defaultGeocodeBudget  = 30 * time.Second
	defaultStoreTimeout   = 30 * time.Second
)

type snapshot struct {
	events   []domain.Event
	byID     map[string]int
	cachedAt time.Time
}

func newSnapshot(events []domain.Event, cachedAt time.Time) *snapshot {
	sorted := SortByDateTime(events)
	byID := make(map[string]int, len(sorted))
	for i, e := range sorted {
		byID[e.ID] = i
	}
	return &snapshot{events: sorted, byID: byID, cachedAt: cachedAt}
}

// EventCache materializes the normalized event set of every feed, refreshing
// it from the source when older than the TTL. Readers always see a complete
// set: refreshes build a new snapshot and swap it in atomically. Concurrent
// refreshes are coalesced so only one runs at a time.
type EventCache struct {
	reader    domain.SourceReader
	store     domain.EventStore
	feeds     []domain.Feed
	geo       *GeoResolver
	logger    *slog.Logger
	ttl       time.Duration
	batchSize int
	timeout   time.Duration
	geoBudget time.Duration
	storeWait time.Duration
	now       func() time.Time

	group   singleflight.Group
	current atomic.Pointer[snapshot]

	mu      sync.Mutex
	lastErr error
}

// CacheOption configures an EventCache.
type CacheOption func(*EventCache)

// WithTTL sets the freshness window.
func WithTTL(d time.Duration) CacheOption { return func(c *EventCache) { c.ttl = d } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption { return func(c *EventCache) { c.now = now } }

// WithGeoResolver enables address geocoding during refresh.
func WithGeoResolver(g *GeoResolver) CacheOption { return func(c *EventCache) { c.geo = g } }

// WithBatchSize sets the store insert batch size.
func WithBatchSize(n int) CacheOption { return func(c *EventCache) { c.batchSize = n } }

// WithRefreshTimeout bounds fetching and geocoding in a single refresh.
func WithRefreshTimeout(d time.Duration) CacheOption { return func(c *EventCache) { c.timeout = d } }

// WithGeocodeBudget bounds the geocoding step of a refresh.
func WithGeocodeBudget(d time.Duration) CacheOption { return func(c *EventCache) { c.geoBudget = d } }

// WithStoreTimeout bounds the store write of a refresh. The write does not
// share the refresh deadline, so a slow fetch cannot keep a good set from
// being persisted.
func WithStoreTimeout(d time.Duration) CacheOption { return func(c *EventCache) { c.storeWait = d } }

// NewEventCache builds a cache over the given feeds.
func NewEventCache(reader domain.SourceReader, store domain.EventStore, feeds []domain.Feed, logger *slog.Logger, opts ...CacheOption) *EventCache {
	c := &EventCache{
		reader:    reader,
		store:     store,
		feeds:     feeds,
		logger:    logger,
		ttl:       DefaultCacheTTL,
		batchSize: DefaultBatchSize,
		timeout:   defaultRefreshTimeout,
		geoBudget: defaultGeocodeBudget,
		storeWait: defaultStoreTimeout,
		now:       time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetEvents returns the materialized set, refreshing first when stale. If a
// refresh fails the last good set is served; with no set at all the error is
// returned.
func (c *EventCache) GetEvents(ctx context.Context) ([]domain.Event, error) {
	snap := c.load(ctx)
	if snap != nil && c.fresh(snap) {
		return snap.events, nil
	}
	fresh, err := c.refresh(ctx, false)
	if err != nil {
		if snap != nil {
			c.logger.WarnContext(ctx, "event refresh failed, serving last good cache", "cached_at", snap.cachedAt, "err", err)
			return snap.events, nil
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrNoCachedEvents, err)
	}
	return fresh.events, nil
}

// GetByID looks an event up in the current set.
func (c *EventCache) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if _, err := c.GetEvents(ctx); err != nil {
		return nil, err
	}
	snap := c.current.Load()
	i, ok := snap.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e := snap.events[i]
	return &e, nil
}

// Refresh rebuilds the set from the source regardless of freshness.
func (c *EventCache) Refresh(ctx context.Context) error {
	_, err := c.refresh(ctx, true)
	return err
}

// Status reports the current snapshot and the last refresh error.
func (c *EventCache) Status() domain.CacheStatus {
	var st domain.CacheStatus
	if snap := c.current.Load(); snap != nil {
		st.CachedAt = snap.cachedAt
		st.Count = len(snap.events)
	}
	c.mu.Lock()
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	c.mu.Unlock()
	return st
}

func (c *EventCache) fresh(s *snapshot) bool {
	return c.now().Sub(s.cachedAt) < c.ttl
}

// load returns the in-memory snapshot, seeding it from the store on first use.
func (c *EventCache) load(ctx context.Context) *snapshot {
	if snap := c.current.Load(); snap != nil {
		return snap
	}
	snap, err := c.loadFromStore(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "event store read failed", "err", err)
		return nil
	}
	if snap != nil {
		c.current.CompareAndSwap(nil, snap)
		return c.current.Load()
	}
	return nil
}

func (c *EventCache) loadFromStore(ctx context.Context) (*snapshot, error) {
	cachedAt, ok, err := c.store.LatestCachedAt(ctx)
	if err != nil || !ok {
		return nil, err
	}
	events, err := c.store.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	return newSnapshot(events, cachedAt), nil
}

// refresh runs at most one rebuild at a time; callers arriving meanwhile
// share its result. The rebuild is detached from the first caller's
// cancellation and bounded by the refresh timeout instead.
func (c *EventCache) refresh(ctx context.Context, force bool) (*snapshot, error) {
	ch := c.group.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.rebuild(rctx, force)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*snapshot), nil
	}
}

// rebuild fetches every feed and publishes the result. Unless forced, it
// first reuses a snapshot that became fresh meanwhile, either from a refresh
// that just finished here or from another instance sharing the store.
func (c *EventCache) rebuild(ctx context.Context, force bool) (*snapshot, error) {
	prev := c.current.Load()
	if !force {
		if prev != nil && c.fresh(prev) {
			return prev, nil
		}
		if stored, err := c.loadFromStore(ctx); err == nil && stored != nil && c.fresh(stored) &&
			(prev == nil || stored.cachedAt.After(prev.cachedAt)) {
			c.current.Store(stored)
			c.setErr(nil)
			return stored, nil
		}
	}

	events, partial, err := c.fetchAll(ctx, prev)
	if err != nil {
		c.setErr(err)
		return nil, err
	}

	now := c.now()
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.storeWait)
	err = c.store.ReplaceAll(sctx, events, now, c.batchSize)
	cancel()
	if err != nil {
		// The fetched set is still good; keep serving it from memory.
		c.logger.ErrorContext(ctx, "event store write failed", "count", len(events), "err", err)
	}
	snap := newSnapshot(events, now)
	c.current.Store(snap)
	c.setErr(partial)
	c.logger.InfoContext(ctx, "event cache refreshed", "count", len(events), "feeds", len(c.feeds))
	return snap, nil
}

type feedResult struct {
	events []domain.Event
	err    error
}

// fetchAll reads and normalizes every feed. Feeds are fetched in parallel;
// rows within a feed stay sequential. A failed feed keeps its events from
// prev and is reported in partial. If every feed fails the refresh fails.
func (c *EventCache) fetchAll(ctx context.Context, prev *snapshot) (events []domain.Event, partial, err error) {
	results := make([]feedResult, len(c.feeds))
	var wg sync.WaitGroup
	for i, feed := range c.feeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := c.reader.ReadFeed(ctx, feed)
			if err != nil {
				results[i].err = err
				return
			}
			results[i].events = Normalize(rows, feed.Conference, feed.Year)
			c.logger.InfoContext(ctx, "feed read", "conference", feed.Conference, "rows", len(rows), "events", len(results[i].events))
		}()
	}
	wg.Wait()

	var all []domain.Event
	var errs []error
	for i, r := range results {
		if r.err != nil {
			feed := c.feeds[i]
			errs = append(errs, fmt.Errorf("feed %s: %w", feed.Conference, r.err))
			kept := eventsFor(prev, feed.Conference)
			c.logger.WarnContext(ctx, "feed refresh failed", "conference", feed.Conference, "kept", len(kept), "err", r.err)
			all = append(all, kept...)
			continue
		}
		all = append(all, r.events...)
	}
	if len(errs) == len(c.feeds) && len(c.feeds) > 0 {
		return nil, nil, errors.Join(errs...)
	}

	UniquifyIDs(all)
	carryCoordinates(all, prev)
	if c.geo != nil {
		gctx, cancel := context.WithTimeout(ctx, c.geoBudget)
		c.geo.Resolve(gctx, all)
		cancel()
	}
	return all, errors.Join(errs...), nil
}

func eventsFor(s *snapshot, conference string) []domain.Event {
	if s == nil {
		return nil
	}
	var out []domain.Event
	for _, e := range s.events {
		if e.Conference == conference {
			out = append(out, e)
		}
	}
	return out
}

// carryCoordinates reuses coordinates from the previous set for unchanged
// addresses so refreshes don't re-geocode.
func carryCoordinates(events []domain.Event, prev *snapshot) {
	if prev == nil {
		return
	}
	for i := range events {
		e := &events[i]
		if e.Lat != nil {
			continue
		}
		j, ok := prev.byID[e.ID]
		if !ok {
			continue
		}
		old := prev.events[j]
		if old.Address == e.Address && old.Lat != nil && old.Lng != nil {
			e.Lat, e.Lng = old.Lat, old.Lng
		}
	}
}

func (c *EventCache) setErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
