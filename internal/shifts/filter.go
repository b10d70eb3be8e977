package shifts

import (
	"slices"

	"shiftbook/internal/models"
)

// FilterByArea returns the shifts in area, or all of them for models.AreaAll.
// The result never aliases the input.
func FilterByArea(shifts []models.Shift, area models.Area) []models.Shift {
	if area == models.AreaAll {
		return slices.Clone(shifts)
	}
	out := make([]models.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.Area == area {
			out = append(out, s)
		}
	}
	return out
}

// Booked returns the shifts held by the current user.
func Booked(shifts []models.Shift) []models.Shift {
	out := make([]models.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.Booked {
			out = append(out, s)
		}
	}
	return out
}

// CountByArea counts every shift per area regardless of booking status.
func CountByArea(shifts []models.Shift) map[models.Area]int {
	counts := make(map[models.Area]int)
	for _, s := range shifts {
		counts[s.Area]++
	}
	return counts
}

// AreaCounts returns a badge count for every known area in display order,
// including areas with no shifts.
func AreaCounts(shifts []models.Shift) []models.AreaCount {
	counts := CountByArea(shifts)
	out := make([]models.AreaCount, 0, len(models.Areas))
	for _, a := range models.Areas {
		out = append(out, models.AreaCount{Area: a, Count: counts[a]})
	}
	return out
}
