package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyctransit/railboard/internal/models"
)

func TestSearchStations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stations", r.URL.Path)
		assert.Equal(t, "penn", r.URL.Query().Get("q"))
		assert.Equal(t, "LIRR", r.URL.Query().Get("system"))
		w.Write([]byte(`[
			{"id":"237","name":"Penn Station","lat":40.7506,"lon":-73.9935,"system":"LIRR","lines":["Babylon","Ronkonkoma"]},
			{"id":"102","name":"Woodside","system":"LIRR"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	stations, err := c.SearchStations(context.Background(), "penn", models.SystemLIRR)
	require.NoError(t, err)
	require.Len(t, stations, 2)

	assert.Equal(t, "Penn Station", stations[0].Name)
	require.NotNil(t, stations[0].Location)
	assert.InDelta(t, 40.7506, stations[0].Location.Lat, 1e-9)
	assert.Equal(t, models.SystemLIRR, stations[0].System)

	assert.Nil(t, stations[1].Location, "station without coordinates has no location")
}

func TestGetDepartures(t *testing.T) {
	t.Run("parses timestamps and preserves nulls", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/departures/237", r.URL.Path)
			assert.Equal(t, "60", r.URL.Query().Get("limitMinutes"))
			w.Write([]byte(`[
				{"routeId":"1","destination":"South Ferry","direction":"S","time":"2026-08-30T12:05:00Z","status":"On Time","destinationBorough":"Manhattan","system":"SUBWAY"},
				{"routeId":"2","destination":"Flatbush Av","direction":"S","time":null,"status":"Scheduled","system":"SUBWAY"}
			]`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		departures, err := c.GetDepartures(context.Background(), "237", 60)
		require.NoError(t, err)
		require.Len(t, departures, 2)

		require.NotNil(t, departures[0].Time)
		assert.Equal(t, time.Date(2026, 8, 30, 12, 5, 0, 0, time.UTC), departures[0].Time.UTC())
		assert.Equal(t, "Manhattan", departures[0].DestinationBorough)
		assert.Equal(t, models.DirectionSouth, departures[0].Direction)

		assert.Nil(t, departures[1].Time, "null timestamp must stay nil")
		assert.Empty(t, departures[1].DestinationBorough)
	})

	t.Run("omits limit when unbounded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.False(t, r.URL.Query().Has("limitMinutes"))
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		_, err := c.GetDepartures(context.Background(), "237", 0)
		require.NoError(t, err)
	})
}

func TestGetAlerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("activeNow"))
		assert.Equal(t, "true", q.Get("includeLabels"))
		assert.Equal(t, "4,5,6", q.Get("lines"))
		assert.Equal(t, "631", q.Get("stationId"))
		w.Write([]byte(`[
			{"id":"a1","title":"Signal problems","description":"Expect delays","lines":["4","5"],"start":"2026-08-30T09:00:00Z"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	alerts, err := c.GetAlerts(context.Background(), []string{"4", "5", "6"}, "631")
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	assert.Equal(t, "Signal problems", alerts[0].Title)
	require.NotNil(t, alerts[0].Start)
	assert.Nil(t, alerts[0].End, "missing end means ongoing")
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("error envelope on 200 is a RemoteError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"error":{"message":"boom","code":42}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		_, err := c.SearchStations(context.Background(), "", "")
		var remote *RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "boom", remote.Message)
		require.NotNil(t, remote.Code)
		assert.Equal(t, 42, *remote.Code)
	})

	t.Run("error envelope without code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":{"message":"upstream unavailable"}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		_, err := c.GetDepartures(context.Background(), "237", 0)
		var remote *RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "upstream unavailable", remote.Message)
		assert.Nil(t, remote.Code)
	})

	t.Run("non-JSON body is an InvalidResponseError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>gateway timeout</html>`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		_, err := c.SearchStations(context.Background(), "", "")
		var invalid *InvalidResponseError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("connection failure is a NetworkError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse connections

		c := NewClient(srv.URL)
		_, err := c.GetAlerts(context.Background(), nil, "")
		var network *NetworkError
		require.ErrorAs(t, err, &network)
	})

	t.Run("bare non-2xx without envelope is a RemoteError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		_, err := c.SearchStations(context.Background(), "", "")
		var remote *RemoteError
		require.ErrorAs(t, err, &remote)
	})

	t.Run("errors unwrap", func(t *testing.T) {
		inner := errors.New("inner")
		assert.ErrorIs(t, &NetworkError{Err: inner}, inner)
		assert.ErrorIs(t, &InvalidResponseError{Err: inner}, inner)
		assert.ErrorIs(t, &UnknownError{Err: inner}, inner)
	})
}
