package shifts

import (
	"fmt"
	"math"
	"time"
)

const (
	DateKeyFormat = "2006-01-02"
	TimeFormat    = "15:04"

	dateLabelFormat = "January 2"

	msPerMinute = int64(time.Minute / time.Millisecond)
	msPerHour   = int64(time.Hour / time.Millisecond)
)

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func roundTenths(x float64) float64 {
	return roundHalfUp(x*10) / 10
}

func instant(ms int64, loc *time.Location) time.Time {
	return time.UnixMilli(ms).In(loc)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatDate returns "Today", "Tomorrow" or a "January 5" style label for the
// calendar day of ts, relative to now.
func FormatDate(ts int64, now time.Time) string {
	t := instant(ts, now.Location())
	day := startOfDay(t)
	today := startOfDay(now)

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	}
	return t.Format(dateLabelFormat)
}

// DateKey returns the YYYY-MM-DD calendar date of ts in loc.
func DateKey(ts int64, loc *time.Location) string {
	return instant(ts, loc).Format(DateKeyFormat)
}

// FormatTime returns the 24h HH:MM time of ts in loc.
func FormatTime(ts int64, loc *time.Location) string {
	return instant(ts, loc).Format(TimeFormat)
}

// FormatTimeRange returns "09:00 - 17:00".
func FormatTimeRange(start, end int64, loc *time.Location) string {
	return FormatTime(start, loc) + " - " + FormatTime(end, loc)
}

// DurationMinutes returns the interval length in whole minutes.
func DurationMinutes(start, end int64) int {
	return int(roundHalfUp(float64(end-start) / float64(msPerMinute)))
}

// DurationHours returns the interval length in hours with one decimal.
func DurationHours(start, end int64) float64 {
	return roundTenths(float64(end-start) / float64(msPerHour))
}

// FormatDuration renders a duration as "8h" or "2h 30min".
func FormatDuration(start, end int64) string {
	minutes := DurationMinutes(start, end)
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dmin", hours, rest)
}
