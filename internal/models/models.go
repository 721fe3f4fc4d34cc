package models

import (
	"time"
)

// SystemTag identifies which transit system a station or departure belongs to.
type SystemTag string

const (
	SystemSubway SystemTag = "SUBWAY"
	SystemLIRR   SystemTag = "LIRR"
	SystemMNR    SystemTag = "MNR"
)

// Valid reports whether the tag is one of the known systems.
func (s SystemTag) Valid() bool {
	switch s {
	case SystemSubway, SystemLIRR, SystemMNR:
		return true
	}
	return false
}

// CommuterRail reports whether the system is LIRR or Metro-North.
func (s SystemTag) CommuterRail() bool {
	return s == SystemLIRR || s == SystemMNR
}

// Direction is the compass direction of a departure.
type Direction string

const (
	DirectionNorth   Direction = "N"
	DirectionSouth   Direction = "S"
	DirectionEast    Direction = "E"
	DirectionWest    Direction = "W"
	DirectionUnknown Direction = ""
)

// ParseDirection maps a wire direction string to a Direction.
// Anything outside N/S/E/W becomes DirectionUnknown.
func ParseDirection(s string) Direction {
	switch Direction(s) {
	case DirectionNorth, DirectionSouth, DirectionEast, DirectionWest:
		return Direction(s)
	}
	return DirectionUnknown
}

// Location represents a geographic coordinate
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Station represents a transit station. Stations are immutable once
// fetched; a refresh replaces the whole list.
type Station struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Location *Location `json:"location,omitempty"`
	System   SystemTag `json:"system,omitempty"`
	Lines    []string  `json:"lines,omitempty"`
}

// Departure represents an upcoming departure from a station. Departures
// are transient: fetched fresh per view, never persisted.
type Departure struct {
	TripID         string    `json:"trip_id,omitempty"`
	RouteID        string    `json:"route_id"`
	RouteShortName string    `json:"route_short_name,omitempty"`
	RouteLongName  string    `json:"route_long_name,omitempty"`
	RouteColor     string    `json:"route_color,omitempty"`
	Peak           string    `json:"peak,omitempty"`
	Destination    string    `json:"destination"`
	Direction      Direction `json:"direction"`

	// Time is nil when the departure is not yet scheduled.
	Time         *time.Time `json:"time"`
	DelayMinutes *int       `json:"delay_minutes,omitempty"`

	// Track is populated for commuter rail only.
	Track  string `json:"track,omitempty"`
	Status string `json:"status"`

	// DestinationBorough is empty for outbound commuter-rail departures.
	DestinationBorough string    `json:"destination_borough,omitempty"`
	System             SystemTag `json:"system,omitempty"`
}

// ServiceAlert represents a service alert
type ServiceAlert struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Lines         []string   `json:"lines,omitempty"`
	LineLabels    []string   `json:"line_labels,omitempty"`
	StationLabels []string   `json:"station_labels,omitempty"`
	Start         *time.Time `json:"start,omitempty"`
	End           *time.Time `json:"end,omitempty"`
	URL           string     `json:"url,omitempty"`
}

// Active reports whether the alert is in effect at t. A missing start
// means "already started"; a missing end means ongoing.
func (a ServiceAlert) Active(t time.Time) bool {
	if a.Start != nil && t.Before(*a.Start) {
		return false
	}
	if a.End != nil && t.After(*a.End) {
		return false
	}
	return true
}
