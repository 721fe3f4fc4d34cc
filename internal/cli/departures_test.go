package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/nyctransit/railboard/internal/models"
)

func TestFormatDeparture(t *testing.T) {
	when := time.Date(2026, 8, 30, 12, 5, 0, 0, time.UTC)
	delay := 5

	t.Run("unknown time renders as placeholder", func(t *testing.T) {
		line := formatDeparture(models.Departure{RouteID: "2", Destination: "Flatbush Av", Status: "Scheduled"})
		if !strings.Contains(line, "--:--") {
			t.Errorf("expected placeholder time in %q", line)
		}
		if !strings.Contains(line, "[Scheduled]") {
			t.Errorf("expected raw status badge in %q", line)
		}
	})

	t.Run("delayed shows minutes", func(t *testing.T) {
		line := formatDeparture(models.Departure{
			RouteID:      "6",
			Destination:  "Pelham Bay Park",
			Time:         &when,
			Status:       "Delayed",
			DelayMinutes: &delay,
		})
		if !strings.Contains(line, "[delayed 5m]") {
			t.Errorf("expected delay badge in %q", line)
		}
	})

	t.Run("on time gets no badge", func(t *testing.T) {
		line := formatDeparture(models.Departure{RouteID: "7", Destination: "Flushing", Time: &when, Status: "On Time"})
		if strings.Contains(line, "[") {
			t.Errorf("expected no badge in %q", line)
		}
	})

	t.Run("commuter rail shows track", func(t *testing.T) {
		line := formatDeparture(models.Departure{
			RouteShortName: "Babylon",
			Destination:    "Babylon",
			Time:           &when,
			Track:          "19",
			Status:         "On Time",
			System:         models.SystemLIRR,
		})
		if !strings.Contains(line, "track 19") {
			t.Errorf("expected track in %q", line)
		}
		if !strings.Contains(line, "Babylon") {
			t.Errorf("expected route short name in %q", line)
		}
	})
}
