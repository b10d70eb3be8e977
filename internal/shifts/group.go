package shifts

import (
	"cmp"
	"slices"
	"time"

	"shiftbook/internal/models"
)

// GroupByDate buckets shifts by the local calendar day they start on.
//
// Shifts are enhanced against all rather than the given subset, so overlap
// hints stay correct whatever filter produced shifts. Group totals sum the
// raw durations before rounding to one decimal.
func GroupByDate(shifts, all []models.Shift, now time.Time) []models.GroupedShifts {
	if len(shifts) == 0 {
		return []models.GroupedShifts{}
	}

	loc := now.Location()
	sorted := slices.Clone(shifts)
	slices.SortStableFunc(sorted, func(a, b models.Shift) int {
		return cmp.Compare(a.StartTime, b.StartTime)
	})

	var (
		groups []models.GroupedShifts
		sums   []int64
	)
	index := make(map[string]int)

	for _, s := range sorted {
		key := DateKey(s.StartTime, loc)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.GroupedShifts{
				Date:    FormatDate(s.StartTime, now),
				DateKey: key,
			})
			sums = append(sums, 0)
		}
		groups[i].Shifts = append(groups[i].Shifts, Enhance(s, all, now))
		sums[i] += s.EndTime - s.StartTime
	}

	for i := range groups {
		groups[i].TotalShifts = len(groups[i].Shifts)
		groups[i].TotalHours = roundTenths(float64(sums[i]) / float64(msPerHour))
	}

	slices.SortStableFunc(groups, func(a, b models.GroupedShifts) int {
		return cmp.Compare(a.DateKey, b.DateKey)
	})
	return groups
}
