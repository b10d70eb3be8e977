package shifts

import (
	"time"

	"shiftbook/internal/models"
)

var testLoc = time.FixedZone("EET", 2*60*60)

// testNow is 2026-01-15 08:00 local.
var testNow = time.Date(2026, time.January, 15, 8, 0, 0, 0, testLoc)

func at(day, hour, minute int) int64 {
	return time.Date(2026, time.January, day, hour, minute, 0, 0, testLoc).UnixMilli()
}

func shift(id string, area models.Area, booked bool, start, end int64) models.Shift {
	return models.Shift{ID: id, Area: area, Booked: booked, StartTime: start, EndTime: end}
}
