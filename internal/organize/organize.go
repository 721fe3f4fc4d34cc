// Package organize shapes fetched data for display. Everything in here
// is a pure function over its inputs.
package organize

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nyctransit/railboard/internal/models"
)

// OutboundLabel is the section label for departures without a
// destination borough.
const OutboundLabel = "Outbound"

// FavoriteSet answers membership queries for starred stations.
type FavoriteSet interface {
	Contains(stationID string) bool
}

// PartitionByFavorite splits stations into starred and unstarred lists,
// each sorted by display name. Ties keep their original fetch order.
func PartitionByFavorite(stations []models.Station, favs FavoriteSet) (favorites, others []models.Station) {
	for _, s := range stations {
		if favs != nil && favs.Contains(s.ID) {
			favorites = append(favorites, s)
		} else {
			others = append(others, s)
		}
	}
	sortByName(favorites)
	sortByName(others)
	return favorites, others
}

func sortByName(stations []models.Station) {
	// Collators carry mutable iterator state, so each sort gets its
	// own; a shared one is unsafe under concurrent callers.
	c := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(stations, func(i, j int) bool {
		return c.CompareString(stations[i].Name, stations[j].Name) < 0
	})
}

// DepartureSection is one display group of departures.
type DepartureSection struct {
	Label      string             `json:"label"`
	Departures []models.Departure `json:"departures"`
}

// GroupDeparturesByBorough sections departures by destination borough,
// substituting "Outbound" when the borough is absent. For commuter rail
// the Outbound section sorts first and the rest keep encounter order;
// for the subway all sections sort alphabetically. Commuter-rail
// departures are predominantly outbound from a terminal, while subway
// departures fan out across boroughs with no privileged direction.
func GroupDeparturesByBorough(departures []models.Departure) []DepartureSection {
	byLabel := make(map[string]int)
	var sections []DepartureSection

	commuter := false
	for _, d := range departures {
		if d.System.CommuterRail() {
			commuter = true
		}
		label := d.DestinationBorough
		if label == "" {
			label = OutboundLabel
		}
		idx, ok := byLabel[label]
		if !ok {
			idx = len(sections)
			byLabel[label] = idx
			sections = append(sections, DepartureSection{Label: label})
		}
		sections[idx].Departures = append(sections[idx].Departures, d)
	}

	if commuter {
		// Outbound first, everything else keeps encounter order.
		sort.SliceStable(sections, func(i, j int) bool {
			return sections[i].Label == OutboundLabel && sections[j].Label != OutboundLabel
		})
	} else {
		sort.SliceStable(sections, func(i, j int) bool {
			return sections[i].Label < sections[j].Label
		})
	}
	return sections
}

// StatusCategory is the display badge derived from a status text.
type StatusCategory int

const (
	StatusRaw StatusCategory = iota
	StatusDelayed
	StatusCancelled
	StatusOnTime
)

func (c StatusCategory) String() string {
	switch c {
	case StatusDelayed:
		return "Delayed"
	case StatusCancelled:
		return "Cancelled"
	case StatusOnTime:
		return "OnTime"
	}
	return "Raw"
}

// CategorizeStatus maps free-form status text to a display category by
// case-insensitive substring match, first match wins. Unmatched text
// renders as-is under StatusRaw.
func CategorizeStatus(status string) StatusCategory {
	lower := strings.ToLower(status)
	switch {
	case strings.Contains(lower, "delay"):
		return StatusDelayed
	case strings.Contains(lower, "cancel"):
		return StatusCancelled
	case strings.Contains(lower, "on time"):
		return StatusOnTime
	}
	return StatusRaw
}

// FilterByWindow keeps departures within limitMinutes of now. A limit
// of zero or less is unbounded. Departures with an unknown time are
// always kept; a time window never hides them.
func FilterByWindow(departures []models.Departure, limitMinutes int, now time.Time) []models.Departure {
	if limitMinutes <= 0 {
		return departures
	}

	cutoff := now.Add(time.Duration(limitMinutes) * time.Minute)
	var kept []models.Departure
	for _, d := range departures {
		if d.Time == nil || !d.Time.After(cutoff) {
			kept = append(kept, d)
		}
	}
	return kept
}
