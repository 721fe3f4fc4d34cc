package transit

import (
	"context"
	"time"

	"github.com/nyctransit/railboard/internal/cache"
	"github.com/nyctransit/railboard/internal/models"
	"github.com/nyctransit/railboard/internal/organize"
)

// Client defines the interface for browsing transit data.
// Abstracts the composed board so handlers and tests can swap it out.
type Client interface {
	Stations(ctx context.Context, system models.SystemTag) ([]models.Station, error)
	SearchStations(ctx context.Context, query string, system models.SystemTag) (StationListing, error)
	RefreshStations(ctx context.Context, system models.SystemTag) ([]models.Station, error)

	Departures(ctx context.Context, stationID string, limitMinutes int) ([]organize.DepartureSection, error)
	Alerts(ctx context.Context, lines []string, stationID string) ([]models.ServiceAlert, error)

	AddFavorite(ctx context.Context, stationID string) error
	RemoveFavorite(ctx context.Context, stationID string) error
	IsFavorite(stationID string) bool
	FavoriteIDs() []string

	StationsFetchedAt(system models.SystemTag) time.Time
}

// StationListing is a station list partitioned for display.
type StationListing struct {
	Favorites []models.Station `json:"favorites"`
	Others    []models.Station `json:"others"`
}

// Config holds configuration for the board.
type Config struct {
	// BaseURL is the backend API root.
	BaseURL string

	// DatabasePath is the SQLite file for favorites and cached
	// snapshots. Empty disables persistence entirely.
	DatabasePath string

	// CacheTTL bounds how long a station snapshot is served without a
	// refetch. Zero means the default of seven days.
	CacheTTL time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://api.railboard.nyc/v1",
		CacheTTL: cache.DefaultTTL,
	}
}
