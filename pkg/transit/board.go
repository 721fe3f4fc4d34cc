// Package transit composes the backend client, station cache,
// favorites store, and presentation organizer into one browsing client.
package transit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nyctransit/railboard/internal/api"
	"github.com/nyctransit/railboard/internal/cache"
	"github.com/nyctransit/railboard/internal/favorites"
	"github.com/nyctransit/railboard/internal/kv"
	"github.com/nyctransit/railboard/internal/models"
	"github.com/nyctransit/railboard/internal/organize"
)

// ErrSuperseded is returned when a search result arrives after a newer
// search has started. Callers should drop the result; the newer call
// carries the state the user is looking at.
var ErrSuperseded = errors.New("superseded by a newer search")

// Board implements Client over the real backend and local store.
type Board struct {
	api   *api.Client
	cache *cache.StationCache
	favs  *favorites.Store
	store *kv.Store

	// searchGen guards against a late search result overwriting state
	// for a since-changed query.
	searchGen atomic.Uint64
}

// NewBoard creates a board from config. An empty DatabasePath keeps
// favorites and cache snapshots in memory only.
func NewBoard(ctx context.Context, cfg Config) (*Board, error) {
	path := cfg.DatabasePath
	if path == "" {
		path = ":memory:"
	}
	store, err := kv.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	favs, err := favorites.NewStore(ctx, store)
	if err != nil {
		store.Close()
		return nil, err
	}

	apiClient := api.NewClient(cfg.BaseURL)
	fetch := func(ctx context.Context, system models.SystemTag) ([]models.Station, error) {
		return apiClient.SearchStations(ctx, "", system)
	}
	return &Board{
		api:   apiClient,
		cache: cache.New(fetch, store, cfg.CacheTTL),
		favs:  favs,
		store: store,
	}, nil
}

// Close releases the local store. Must be called once the board is
// done with.
func (b *Board) Close() error {
	return b.store.Close()
}

// Stations returns the station list for a system filter, cached per
// the TTL policy.
func (b *Board) Stations(ctx context.Context, system models.SystemTag) ([]models.Station, error) {
	return b.cache.Stations(ctx, system)
}

// SearchStations filters the cached station list by a case-insensitive
// name match and partitions the result favorites-first. When a newer
// search starts while this one is fetching, the stale result is
// discarded and ErrSuperseded returned.
func (b *Board) SearchStations(ctx context.Context, query string, system models.SystemTag) (StationListing, error) {
	gen := b.searchGen.Add(1)

	stations, err := b.cache.Stations(ctx, system)
	if err != nil {
		return StationListing{}, err
	}
	if b.searchGen.Load() != gen {
		return StationListing{}, ErrSuperseded
	}

	matched := filterByName(stations, query)
	favs, others := organize.PartitionByFavorite(matched, b.favs)
	return StationListing{Favorites: favs, Others: others}, nil
}

// RefreshStations bypasses the cache and fetches fresh data. A failure
// leaves the previous snapshot in place.
func (b *Board) RefreshStations(ctx context.Context, system models.SystemTag) ([]models.Station, error) {
	return b.cache.Refresh(ctx, system)
}

// Departures fetches fresh departures for a station, bounded by
// limitMinutes (zero means unbounded), grouped into display sections.
// Departures are never cached.
func (b *Board) Departures(ctx context.Context, stationID string, limitMinutes int) ([]organize.DepartureSection, error) {
	departures, err := b.api.GetDepartures(ctx, stationID, limitMinutes)
	if err != nil {
		return nil, err
	}
	departures = organize.FilterByWindow(departures, limitMinutes, time.Now())
	return organize.GroupDeparturesByBorough(departures), nil
}

// Alerts fetches currently active alerts, fresh on every call.
func (b *Board) Alerts(ctx context.Context, lines []string, stationID string) ([]models.ServiceAlert, error) {
	return b.api.GetAlerts(ctx, lines, stationID)
}

// AddFavorite stars a station.
func (b *Board) AddFavorite(ctx context.Context, stationID string) error {
	return b.favs.Add(ctx, stationID)
}

// RemoveFavorite unstars a station.
func (b *Board) RemoveFavorite(ctx context.Context, stationID string) error {
	return b.favs.Remove(ctx, stationID)
}

// IsFavorite reports whether a station is starred.
func (b *Board) IsFavorite(stationID string) bool {
	return b.favs.Contains(stationID)
}

// FavoriteIDs returns the starred station IDs.
func (b *Board) FavoriteIDs() []string {
	return b.favs.IDs()
}

// StationsFetchedAt returns when the cached snapshot for a filter was
// taken, or zero when nothing is cached.
func (b *Board) StationsFetchedAt(system models.SystemTag) time.Time {
	return b.cache.FetchedAt(system)
}

func filterByName(stations []models.Station, query string) []models.Station {
	if query == "" {
		return stations
	}
	needle := strings.ToLower(query)
	var matched []models.Station
	for _, s := range stations {
		if strings.Contains(strings.ToLower(s.Name), needle) {
			matched = append(matched, s)
		}
	}
	return matched
}
