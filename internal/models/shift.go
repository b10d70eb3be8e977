package models

import (
	"errors"
	"fmt"
	"time"
)

// Area is a location tag a shift belongs to.
type Area string

const (
	AreaHelsinki Area = "Helsinki"
	AreaTampere  Area = "Tampere"
	AreaTurku    Area = "Turku"

	// AreaAll is the filter wildcard; it is never stored on a shift.
	AreaAll Area = "all"
)

// Areas lists every shift area in display order.
var Areas = []Area{AreaHelsinki, AreaTampere, AreaTurku}

var (
	ErrInvalidArea     = errors.New("invalid area")
	ErrInvalidInterval = errors.New("shift start must be before end")
	ErrMissingID       = errors.New("shift id is required")
)

// IsValid reports whether a is one of the known shift areas.
func (a Area) IsValid() bool {
	for _, known := range Areas {
		if a == known {
			return true
		}
	}
	return false
}

// ParseArea accepts a shift area or the "all" wildcard.
func ParseArea(s string) (Area, error) {
	a := Area(s)
	if a == AreaAll || a.IsValid() {
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidArea, s)
}

// Shift is a bookable time interval tied to an area.
// StartTime and EndTime are epoch milliseconds.
type Shift struct {
	ID        string `json:"id"`
	Area      Area   `json:"area"`
	Booked    bool   `json:"booked"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
}

// Validate checks the rules the server guarantees for every shift.
func (s Shift) Validate() error {
	if s.ID == "" {
		return ErrMissingID
	}
	if !s.Area.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidArea, s.Area)
	}
	if s.StartTime >= s.EndTime {
		return fmt.Errorf("%w: shift %s", ErrInvalidInterval, s.ID)
	}
	return nil
}

// Start returns the start instant.
func (s Shift) Start() time.Time {
	return time.UnixMilli(s.StartTime)
}

// End returns the end instant.
func (s Shift) End() time.Time {
	return time.UnixMilli(s.EndTime)
}

// ShiftWithMeta is a shift plus values derived at read time.
type ShiftWithMeta struct {
	Shift
	IsStarted     bool `json:"isStarted"`
	IsOverlapping bool `json:"isOverlapping"`
	Duration      int  `json:"duration"` // minutes
}

// GroupedShifts is the per-day aggregate used for display.
type GroupedShifts struct {
	Date        string          `json:"date"`    // "Today", "Tomorrow", "January 5"
	DateKey     string          `json:"dateKey"` // YYYY-MM-DD
	Shifts      []ShiftWithMeta `json:"shifts"`
	TotalShifts int             `json:"totalShifts"`
	TotalHours  float64         `json:"totalHours"`
}

// AreaCount is a filter badge value.
type AreaCount struct {
	Area  Area `json:"area"`
	Count int  `json:"count"`
}
