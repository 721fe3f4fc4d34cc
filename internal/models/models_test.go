package models

import (
	"testing"
	"time"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
	}{
		{"N", DirectionNorth},
		{"S", DirectionSouth},
		{"E", DirectionEast},
		{"W", DirectionWest},
		{"", DirectionUnknown},
		{"X", DirectionUnknown},
		{"NORTH", DirectionUnknown},
	}

	for _, tc := range tests {
		if got := ParseDirection(tc.input); got != tc.expected {
			t.Errorf("ParseDirection(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestSystemTag(t *testing.T) {
	if !SystemSubway.Valid() || !SystemLIRR.Valid() || !SystemMNR.Valid() {
		t.Error("known systems should be valid")
	}
	if SystemTag("PATH").Valid() {
		t.Error("unknown system should not be valid")
	}

	if SystemSubway.CommuterRail() {
		t.Error("subway is not commuter rail")
	}
	if !SystemLIRR.CommuterRail() || !SystemMNR.CommuterRail() {
		t.Error("LIRR and MNR are commuter rail")
	}
}

func TestServiceAlertActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-1 * time.Hour)
	future := now.Add(1 * time.Hour)

	t.Run("within window", func(t *testing.T) {
		a := ServiceAlert{Start: &past, End: &future}
		if !a.Active(now) {
			t.Error("alert within its window should be active")
		}
	})

	t.Run("missing end means ongoing", func(t *testing.T) {
		a := ServiceAlert{Start: &past}
		if !a.Active(now) {
			t.Error("alert with no end should be active")
		}
	})

	t.Run("not yet started", func(t *testing.T) {
		a := ServiceAlert{Start: &future}
		if a.Active(now) {
			t.Error("alert starting in the future should not be active")
		}
	})

	t.Run("ended", func(t *testing.T) {
		a := ServiceAlert{End: &past}
		if a.Active(now) {
			t.Error("alert that already ended should not be active")
		}
	})
}
