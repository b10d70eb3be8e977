package models

import "fmt"

// TabType selects which view the presentation layer shows.
type TabType string

const (
	TabMyShifts        TabType = "my-shifts"
	TabAvailableShifts TabType = "available-shifts"
)

// TabLabels are the display names of the tabs.
var TabLabels = map[TabType]string{
	TabMyShifts:        "My shifts",
	TabAvailableShifts: "Available shifts",
}

// ParseTab validates a tab name.
func ParseTab(s string) (TabType, error) {
	switch t := TabType(s); t {
	case TabMyShifts, TabAvailableShifts:
		return t, nil
	}
	return "", fmt.Errorf("invalid tab %q", s)
}

// MutationState marks a book or cancel request in flight for a shift.
// A shift with no request in flight has no entry at all.
type MutationState string

const (
	MutationBooking    MutationState = "booking"
	MutationCancelling MutationState = "cancelling"
)
