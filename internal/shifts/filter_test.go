package shifts

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"shiftbook/internal/models"
)

func sampleShifts() []models.Shift {
	return []models.Shift{
		shift("h1", models.AreaHelsinki, true, at(15, 9, 0), at(15, 17, 0)),
		shift("h2", models.AreaHelsinki, false, at(16, 9, 0), at(16, 17, 0)),
		shift("t1", models.AreaTampere, false, at(15, 10, 0), at(15, 12, 0)),
	}
}

func TestFilterByArea(t *testing.T) {
	list := sampleShifts()
	before := slices.Clone(list)

	all := FilterByArea(list, models.AreaAll)
	assert.Equal(t, list, all)

	helsinki := FilterByArea(list, models.AreaHelsinki)
	assert.Len(t, helsinki, 2)
	for _, s := range helsinki {
		assert.Equal(t, models.AreaHelsinki, s.Area)
	}

	assert.Empty(t, FilterByArea(list, models.AreaTurku))
	assert.Equal(t, FilterByArea(list, models.AreaHelsinki), helsinki)
	assert.Equal(t, before, list)

	all[0].Booked = false
	assert.True(t, list[0].Booked, "filtered result must not alias input")
}

func TestBooked(t *testing.T) {
	booked := Booked(sampleShifts())
	assert.Len(t, booked, 1)
	assert.Equal(t, "h1", booked[0].ID)
}

func TestCountByArea(t *testing.T) {
	counts := CountByArea(sampleShifts())
	assert.Equal(t, 2, counts[models.AreaHelsinki])
	assert.Equal(t, 1, counts[models.AreaTampere])
	assert.Equal(t, 0, counts[models.AreaTurku])
}

func TestAreaCounts(t *testing.T) {
	assert.Equal(t, []models.AreaCount{
		{Area: models.AreaHelsinki, Count: 2},
		{Area: models.AreaTampere, Count: 1},
		{Area: models.AreaTurku, Count: 0},
	}, AreaCounts(sampleShifts()))
}
