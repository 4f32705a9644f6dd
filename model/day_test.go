package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDayOfDiscardsTimeOfDay(t *testing.T) {
	morning := time.Date(2025, 5, 21, 0, 0, 1, 0, time.UTC)
	night := time.Date(2025, 5, 21, 23, 59, 59, 999999999, time.UTC)

	if DayOf(morning) != DayOf(night) {
		t.Errorf("Expected same day, got %v and %v", DayOf(morning), DayOf(night))
	}
	if DayOf(night).AddDays(1) != DayOf(night.Add(time.Second)) {
		t.Error("Expected midnight to advance the day by one")
	}
}

func TestDayEpoch(t *testing.T) {
	if got := NewDay(1970, 1, 1); got != 0 {
		t.Errorf("Expected 1970-01-01 to be day 0, got %d", got)
	}
	if got := NewDay(1969, 12, 31); got != -1 {
		t.Errorf("Expected 1969-12-31 to be day -1, got %d", got)
	}
	if got := NewDay(1970, 1, 1).Weekday(); got != time.Thursday {
		t.Errorf("Expected 1970-01-01 to be Thursday, got %v", got)
	}
}

func TestDayInUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// UTCでは5月20日だが、JSTでは5月21日
	ts := time.Date(2025, 5, 20, 20, 0, 0, 0, time.UTC)

	if got := DayIn(ts, time.UTC); got != NewDay(2025, 5, 20) {
		t.Errorf("Expected 2025-05-20 in UTC, got %s", got)
	}
	if got := DayIn(ts, tokyo); got != NewDay(2025, 5, 21) {
		t.Errorf("Expected 2025-05-21 in JST, got %s", got)
	}
	if got := DayIn(ts, nil); got != NewDay(2025, 5, 20) {
		t.Errorf("Expected nil location to mean UTC, got %s", got)
	}
}

func TestParseDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name        string
		input       string
		loc         *time.Location
		expected    Day
		expectError bool
	}{
		{"date only", "2025-02-28", time.UTC, NewDay(2025, 2, 28), false},
		{"date only ignores location", "2025-02-28", tokyo, NewDay(2025, 2, 28), false},
		{"timestamp in UTC", "2025-02-28T23:30:00Z", time.UTC, NewDay(2025, 2, 28), false},
		{"timestamp converted to location", "2025-02-28T23:30:00Z", tokyo, NewDay(2025, 3, 1), false},
		{"timestamp with offset", "2025-03-01T01:00:00+09:00", time.UTC, NewDay(2025, 2, 28), false},
		{"garbage", "yesterday", time.UTC, 0, true},
		{"invalid date", "2025-02-30", time.UTC, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input, tt.loc)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %q, got %s", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestDayJSON(t *testing.T) {
	d := NewDay(2025, 1, 9)

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Failed to marshal day: %v", err)
	}
	if string(b) != `"2025-01-09"` {
		t.Errorf("Expected %q, got %s", `"2025-01-09"`, b)
	}

	var decoded []Day
	if err := json.Unmarshal([]byte(`["2025-01-09","2025-01-10T12:00:00Z"]`), &decoded); err != nil {
		t.Fatalf("Failed to unmarshal days: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != d || decoded[1] != d.AddDays(1) {
		t.Errorf("Unexpected decoded days: %v", decoded)
	}

	if err := json.Unmarshal([]byte(`"not a date"`), new(Day)); err == nil {
		t.Error("Expected error for invalid day string")
	}
}
