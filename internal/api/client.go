// Package api implements the HTTP client for the railboard backend.
// It converts wire JSON into domain models and normalizes failures
// into a typed error taxonomy. It never caches; caching belongs to
// the station cache.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nyctransit/railboard/internal/models"
)

// Client talks to the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SearchStations looks up stations matching query, optionally limited
// to one system. Empty query returns the full list for the filter.
func (c *Client) SearchStations(ctx context.Context, query string, system models.SystemTag) ([]models.Station, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if system != "" {
		params.Set("system", string(system))
	}

	var wire []stationWire
	if err := c.get(ctx, "/stations", params, &wire); err != nil {
		return nil, err
	}

	stations := make([]models.Station, len(wire))
	for i, w := range wire {
		stations[i] = w.toModel()
	}
	return stations, nil
}

// GetDepartures fetches upcoming departures for a station. A
// limitMinutes of zero or less means unbounded.
func (c *Client) GetDepartures(ctx context.Context, stationID string, limitMinutes int) ([]models.Departure, error) {
	params := url.Values{}
	if limitMinutes > 0 {
		params.Set("limitMinutes", strconv.Itoa(limitMinutes))
	}

	var wire []departureWire
	if err := c.get(ctx, "/departures/"+url.PathEscape(stationID), params, &wire); err != nil {
		return nil, err
	}

	departures := make([]models.Departure, 0, len(wire))
	for _, w := range wire {
		d, err := w.toModel()
		if err != nil {
			return nil, &InvalidResponseError{Err: err}
		}
		departures = append(departures, d)
	}
	return departures, nil
}

// GetAlerts fetches service alerts, optionally filtered by line codes
// and/or a station. Active-now filtering and label expansion are always
// requested; the server does the work.
func (c *Client) GetAlerts(ctx context.Context, lines []string, stationID string) ([]models.ServiceAlert, error) {
	params := url.Values{}
	params.Set("activeNow", "true")
	params.Set("includeLabels", "true")
	if len(lines) > 0 {
		params.Set("lines", strings.Join(lines, ","))
	}
	if stationID != "" {
		params.Set("stationId", stationID)
	}

	var wire []alertWire
	if err := c.get(ctx, "/alerts", params, &wire); err != nil {
		return nil, err
	}

	alerts := make([]models.ServiceAlert, 0, len(wire))
	for _, w := range wire {
		a, err := w.toModel()
		if err != nil {
			return nil, &InvalidResponseError{Err: err}
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &UnknownError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	return decodePayload(body, resp.StatusCode, v)
}

// wireError is the backend's structured error payload.
type wireError struct {
	Message string `json:"message"`
	Code    *int   `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// decodePayload discriminates between a success payload and the error
// envelope. The envelope wins regardless of HTTP status: a 200 carrying
// {"error": ...} is still a failure.
func decodePayload(body []byte, status int, v any) error {
	var env struct {
		Error *wireError `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		return &RemoteError{
			Message: env.Error.Message,
			Code:    env.Error.Code,
			Details: env.Error.Details,
		}
	}

	if status < 200 || status > 299 {
		return &RemoteError{Message: fmt.Sprintf("HTTP %d", status)}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &InvalidResponseError{Err: err}
	}
	return nil
}

type stationWire struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
	System string   `json:"system,omitempty"`
	Lines  []string `json:"lines,omitempty"`
}

func (w stationWire) toModel() models.Station {
	s := models.Station{
		ID:     w.ID,
		Name:   w.Name,
		System: models.SystemTag(w.System),
		Lines:  w.Lines,
	}
	if w.Lat != nil && w.Lon != nil {
		s.Location = &models.Location{Lat: *w.Lat, Lon: *w.Lon}
	}
	return s
}

type departureWire struct {
	TripID             string  `json:"tripId,omitempty"`
	RouteID            string  `json:"routeId"`
	RouteShortName     string  `json:"routeShortName,omitempty"`
	RouteLongName      string  `json:"routeLongName,omitempty"`
	RouteColor         string  `json:"routeColor,omitempty"`
	Peak               string  `json:"peak,omitempty"`
	Destination        string  `json:"destination"`
	Direction          string  `json:"direction"`
	Time               *string `json:"time"`
	DelayMinutes       *int    `json:"delayMinutes,omitempty"`
	Track              string  `json:"track,omitempty"`
	Status             string  `json:"status"`
	DestinationBorough *string `json:"destinationBorough,omitempty"`
	System             string  `json:"system,omitempty"`
}

func (w departureWire) toModel() (models.Departure, error) {
	d := models.Departure{
		TripID:         w.TripID,
		RouteID:        w.RouteID,
		RouteShortName: w.RouteShortName,
		RouteLongName:  w.RouteLongName,
		RouteColor:     w.RouteColor,
		Peak:           w.Peak,
		Destination:    w.Destination,
		Direction:      models.ParseDirection(w.Direction),
		DelayMinutes:   w.DelayMinutes,
		Track:          w.Track,
		Status:         w.Status,
		System:         models.SystemTag(w.System),
	}

	// A null time stays nil; unknown departures must never be coerced
	// to "now" or the epoch.
	t, err := parseTimestamp(w.Time)
	if err != nil {
		return models.Departure{}, err
	}
	d.Time = t

	if w.DestinationBorough != nil {
		d.DestinationBorough = *w.DestinationBorough
	}
	return d, nil
}

type alertWire struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Lines         []string `json:"lines,omitempty"`
	LineLabels    []string `json:"lineLabels,omitempty"`
	StationLabels []string `json:"stationLabels,omitempty"`
	Start         *string  `json:"start,omitempty"`
	End           *string  `json:"end,omitempty"`
	URL           string   `json:"url,omitempty"`
}

func (w alertWire) toModel() (models.ServiceAlert, error) {
	start, err := parseTimestamp(w.Start)
	if err != nil {
		return models.ServiceAlert{}, err
	}
	end, err := parseTimestamp(w.End)
	if err != nil {
		return models.ServiceAlert{}, err
	}

	return models.ServiceAlert{
		ID:            w.ID,
		Title:         w.Title,
		Description:   w.Description,
		Lines:         w.Lines,
		LineLabels:    w.LineLabels,
		StationLabels: w.StationLabels,
		Start:         start,
		End:           end,
		URL:           w.URL,
	}, nil
}

func parseTimestamp(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, fmt.Errorf("bad timestamp %q: %w", *s, err)
	}
	return &t, nil
}
