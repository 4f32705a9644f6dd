// Package model provides value objects for API parameter validation.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HabitName represents a habit name value object.
type HabitName struct {
	value string
}

// NewHabitName creates a new habit name value object.
// Surrounding whitespace is trimmed.
func NewHabitName(name string) (*HabitName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name is required")
	}
	return &HabitName{value: name}, nil
}

// String returns the habit name string.
func (n *HabitName) String() string {
	return n.value
}

// HabitID represents a habit ID value object.
type HabitID struct {
	value uuid.UUID
}

// NewHabitID creates a new habit ID value object.
func NewHabitID(idStr string) (*HabitID, error) {
	if idStr == "" {
		return nil, NewValidationError("habit ID is required")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, NewValidationError("invalid UUID format")
	}

	return &HabitID{value: id}, nil
}

// UUID returns the UUID value.
func (h *HabitID) UUID() uuid.UUID {
	return h.value
}

// TargetDate represents the day a toggle applies to.
type TargetDate struct {
	value Day
}

// NewTargetDate creates a new target date value object.
// An empty string means today as seen from loc.
func NewTargetDate(dateStr string, now time.Time, loc *time.Location) (*TargetDate, error) {
	if dateStr == "" {
		return &TargetDate{value: Today(now, loc)}, nil
	}

	day, err := ParseDay(dateStr, loc)
	if err != nil {
		return nil, NewValidationError("invalid date format. Use ISO8601 format (YYYY-MM-DD or YYYY-MM-DDThh:mm:ssZ)")
	}

	return &TargetDate{value: day}, nil
}

// Day returns the normalized day.
func (t *TargetDate) Day() Day {
	return t.value
}

// Year represents a calendar year value object.
type Year struct {
	value int
}

// NewYear creates a new year value object.
// An empty string means the current year as seen from loc.
func NewYear(yearStr string, now time.Time, loc *time.Location) (*Year, error) {
	if yearStr == "" {
		if loc == nil {
			loc = time.UTC
		}
		return &Year{value: now.In(loc).Year()}, nil
	}

	y, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid year %q", yearStr))
	}
	if y < 1 || y > 9999 {
		return nil, NewValidationError("year must be between 1 and 9999")
	}

	return &Year{value: y}, nil
}

// Int returns the year.
func (y *Year) Int() int {
	return y.value
}
