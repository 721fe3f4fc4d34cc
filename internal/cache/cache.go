// Package cache holds the most recently fetched station list per system
// filter. Staleness is evaluated lazily at read time against a
// configurable TTL; there is no background timer. A failed refresh
// never clears a previously valid snapshot.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nyctransit/railboard/internal/kv"
	"github.com/nyctransit/railboard/internal/models"
)

// DefaultTTL is how long a station snapshot stays fresh. Station lists
// change on the order of months, so a week is comfortable.
const DefaultTTL = 7 * 24 * time.Hour

const kvScope = "stations"

// FetchFunc loads the full station list for a system filter from the
// network. An empty system means no filter.
type FetchFunc func(ctx context.Context, system models.SystemTag) ([]models.Station, error)

type entry struct {
	stations  []models.Station
	fetchedAt time.Time
}

// snapshot is the persisted form of an entry.
type snapshot struct {
	FetchedAt time.Time        `json:"fetched_at"`
	Stations  []models.Station `json:"stations"`
}

// StationCache caches station lists keyed by system filter.
type StationCache struct {
	fetch FetchFunc
	store *kv.Store // nil disables persistence
	ttl   time.Duration
	now   func() time.Time

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[models.SystemTag]*entry
	// loaded marks keys whose persisted snapshot has been consulted,
	// so a missing blob is only looked up once.
	loaded map[models.SystemTag]bool
}

// New creates a cache that fetches through fetch and persists snapshots
// through store. A nil store keeps the cache memory-only.
func New(fetch FetchFunc, store *kv.Store, ttl time.Duration) *StationCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &StationCache{
		fetch:   fetch,
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[models.SystemTag]*entry),
		loaded:  make(map[models.SystemTag]bool),
	}
}

// Stations returns the station list for a system filter, serving the
// cached snapshot while it is fresh and fetching otherwise. Concurrent
// calls for the same key share one network request.
func (c *StationCache) Stations(ctx context.Context, system models.SystemTag) ([]models.Station, error) {
	if stations, ok := c.fresh(system); ok {
		return stations, nil
	}

	v, err, _ := c.group.Do(flightKey(system), func() (any, error) {
		// A caller that was queued behind the winning flight finds the
		// snapshot already fresh.
		if stations, ok := c.fresh(system); ok {
			return stations, nil
		}
		if stations, ok := c.loadPersisted(ctx, system); ok {
			return stations, nil
		}

		stations, err := c.fetch(ctx, system)
		if err != nil {
			// Do not cache the failure; a stale snapshot, if any,
			// survives for the next read.
			return nil, err
		}
		c.put(ctx, system, stations)
		return stations, nil
	})
	if err != nil {
		return nil, err
	}
	return copyStations(v.([]models.Station)), nil
}

// Refresh bypasses the cached snapshot unconditionally and fetches
// fresh data. On failure the previous snapshot is left untouched.
func (c *StationCache) Refresh(ctx context.Context, system models.SystemTag) ([]models.Station, error) {
	v, err, _ := c.group.Do("refresh\x00"+flightKey(system), func() (any, error) {
		stations, err := c.fetch(ctx, system)
		if err != nil {
			return nil, err
		}
		c.put(ctx, system, stations)
		return stations, nil
	})
	if err != nil {
		return nil, err
	}
	return copyStations(v.([]models.Station)), nil
}

// FetchedAt returns when the snapshot for a system filter was taken, or
// a zero time when there is none.
func (c *StationCache) FetchedAt(system models.SystemTag) time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[system]; ok {
		return e.fetchedAt
	}
	return time.Time{}
}

func (c *StationCache) fresh(system models.SystemTag) ([]models.Station, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[system]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return copyStations(e.stations), true
}

// loadPersisted revives a snapshot written by a previous process. Only
// a still-fresh snapshot counts; a stale one is left for the fetch path
// to overwrite.
func (c *StationCache) loadPersisted(ctx context.Context, system models.SystemTag) ([]models.Station, bool) {
	if c.store == nil {
		return nil, false
	}

	c.mu.Lock()
	if c.loaded[system] {
		c.mu.Unlock()
		return nil, false
	}
	c.loaded[system] = true
	c.mu.Unlock()

	raw, ok, err := c.store.Get(ctx, kvScope, persistKey(system))
	if err != nil {
		slog.Warn("failed to read persisted station snapshot", "system", system, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		slog.Warn("corrupt persisted station snapshot", "system", system, "error", err)
		return nil, false
	}
	if c.now().Sub(snap.FetchedAt) >= c.ttl {
		return nil, false
	}

	c.mu.Lock()
	c.entries[system] = &entry{stations: snap.Stations, fetchedAt: snap.FetchedAt}
	c.mu.Unlock()
	return copyStations(snap.Stations), true
}

// put replaces the snapshot and timestamp atomically and persists the
// new snapshot. Persistence failures are logged, not surfaced: the
// in-memory cache is already correct.
func (c *StationCache) put(ctx context.Context, system models.SystemTag, stations []models.Station) {
	fetchedAt := c.now()

	c.mu.Lock()
	c.entries[system] = &entry{stations: stations, fetchedAt: fetchedAt}
	c.loaded[system] = true
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	raw, err := json.Marshal(snapshot{FetchedAt: fetchedAt, Stations: stations})
	if err != nil {
		slog.Warn("failed to encode station snapshot", "system", system, "error", err)
		return
	}
	if err := c.store.Put(ctx, kvScope, persistKey(system), string(raw)); err != nil {
		slog.Warn("failed to persist station snapshot", "system", system, "error", err)
	}
}

func flightKey(system models.SystemTag) string {
	return persistKey(system)
}

func persistKey(system models.SystemTag) string {
	if system == "" {
		return "all"
	}
	return string(system)
}

func copyStations(stations []models.Station) []models.Station {
	out := make([]models.Station, len(stations))
	copy(out, stations)
	return out
}
