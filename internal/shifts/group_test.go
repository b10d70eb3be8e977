package shifts

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftbook/internal/models"
)

func TestGroupByDate_Empty(t *testing.T) {
	groups := GroupByDate(nil, nil, testNow)
	require.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGroupByDate_TotalsSumBeforeRounding(t *testing.T) {
	// Three 50 minute shifts: 3 x 0.8333h = 2.5h, rounding each first would give 2.4h.
	list := []models.Shift{
		shift("a", models.AreaTurku, false, at(15, 9, 0), at(15, 9, 50)),
		shift("b", models.AreaTurku, false, at(15, 10, 0), at(15, 10, 50)),
		shift("c", models.AreaTurku, false, at(15, 11, 0), at(15, 11, 50)),
	}

	groups := GroupByDate(list, list, testNow)
	require.Len(t, groups, 1)
	assert.Equal(t, 2.5, groups[0].TotalHours)
	assert.Equal(t, 3, groups[0].TotalShifts)
}

func TestGroupByDate_SameDayTotals(t *testing.T) {
	list := []models.Shift{
		shift("long", models.AreaHelsinki, false, at(15, 12, 0), at(15, 17, 30)),
		shift("short", models.AreaHelsinki, false, at(15, 9, 0), at(15, 12, 0)),
	}

	groups := GroupByDate(list, list, testNow)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "Today", g.Date)
	assert.Equal(t, "2026-01-15", g.DateKey)
	assert.Equal(t, 2, g.TotalShifts)
	assert.Equal(t, 8.5, g.TotalHours)
	assert.Equal(t, "short", g.Shifts[0].ID, "shifts inside a group are sorted by start")
	assert.Equal(t, "long", g.Shifts[1].ID)
}

func TestGroupByDate_OrdersGroupsByDay(t *testing.T) {
	list := []models.Shift{
		shift("d3", models.AreaTurku, false, at(17, 9, 0), at(17, 10, 0)),
		shift("d1-late", models.AreaTurku, false, at(15, 23, 30), at(16, 1, 0)),
		shift("d2-early", models.AreaTurku, false, at(16, 0, 30), at(16, 4, 0)),
		shift("d1", models.AreaTurku, false, at(15, 9, 0), at(15, 10, 0)),
	}

	groups := GroupByDate(list, list, testNow)
	require.Len(t, groups, 3)

	assert.Equal(t, []string{"2026-01-15", "2026-01-16", "2026-01-17"},
		[]string{groups[0].DateKey, groups[1].DateKey, groups[2].DateKey})
	assert.Equal(t, []string{"Today", "Tomorrow", "January 17"},
		[]string{groups[0].Date, groups[1].Date, groups[2].Date})
	assert.Equal(t, "d1", groups[0].Shifts[0].ID)
	assert.Equal(t, "d1-late", groups[0].Shifts[1].ID)
	assert.Equal(t, "d2-early", groups[1].Shifts[0].ID)
}

func TestGroupByDate_OverlapUsesFullList(t *testing.T) {
	helsinki := shift("h", models.AreaHelsinki, true, at(15, 9, 0), at(15, 17, 0))
	tampere := shift("t", models.AreaTampere, false, at(15, 10, 0), at(15, 12, 0))
	all := []models.Shift{helsinki, tampere}

	groups := GroupByDate(FilterByArea(all, models.AreaTampere), all, testNow)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Shifts, 1)
	assert.True(t, groups[0].Shifts[0].IsOverlapping)
}

func TestGroupByDate_IsIdempotentAndLeavesInputAlone(t *testing.T) {
	list := []models.Shift{
		shift("b", models.AreaTampere, true, at(16, 9, 0), at(16, 12, 0)),
		shift("a", models.AreaHelsinki, false, at(15, 9, 0), at(15, 17, 0)),
		shift("c", models.AreaTampere, false, at(16, 10, 0), at(16, 11, 0)),
	}
	before := slices.Clone(list)

	first := GroupByDate(list, list, testNow)
	second := GroupByDate(list, list, testNow)

	assert.Equal(t, first, second)
	assert.Equal(t, before, list)
}
