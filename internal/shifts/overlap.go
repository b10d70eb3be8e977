package shifts

import (
	"time"

	"shiftbook/internal/models"
)

// Overlaps reports whether two shifts intersect as half-open intervals
// [start, end). Shifts that only touch at a boundary do not overlap.
func Overlaps(a, b models.Shift) bool {
	return a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

// IsOverlappingWithBooked reports whether some other booked shift in all
// overlaps shift. The shift itself is excluded by id, not by interval.
func IsOverlappingWithBooked(shift models.Shift, all []models.Shift) bool {
	for _, other := range all {
		if !other.Booked || other.ID == shift.ID {
			continue
		}
		if Overlaps(shift, other) {
			return true
		}
	}
	return false
}

// IsStarted reports whether now is past the start instant.
func IsStarted(startTime int64, now time.Time) bool {
	return now.UnixMilli() > startTime
}

// Enhance attaches the derived fields to shift. all is the overlap context.
func Enhance(shift models.Shift, all []models.Shift, now time.Time) models.ShiftWithMeta {
	return models.ShiftWithMeta{
		Shift:         shift,
		IsStarted:     IsStarted(shift.StartTime, now),
		IsOverlapping: IsOverlappingWithBooked(shift, all),
		Duration:      DurationMinutes(shift.StartTime, shift.EndTime),
	}
}

// CanBook is the advisory client-side check used to disable a book action.
// The server still decides.
func CanBook(s models.ShiftWithMeta) bool {
	return !s.Booked && !s.IsStarted && !s.IsOverlapping
}
