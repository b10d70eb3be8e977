package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shiftbook/internal/models"
	"shiftbook/internal/shifts"
)

var loc = time.FixedZone("EET", 2*60*60)

func groups(t *testing.T) []models.GroupedShifts {
	t.Helper()
	now := time.Date(2026, time.January, 15, 8, 0, 0, 0, loc)
	ms := func(day, hour, minute int) int64 {
		return time.Date(2026, time.January, day, hour, minute, 0, 0, loc).UnixMilli()
	}
	list := []models.Shift{
		{ID: "a", Area: models.AreaHelsinki, Booked: true, StartTime: ms(15, 9, 0), EndTime: ms(15, 12, 0)},
		{ID: "b", Area: models.AreaTampere, StartTime: ms(15, 10, 0), EndTime: ms(15, 15, 30)},
		{ID: "c", Area: models.AreaTurku, StartTime: ms(16, 7, 0), EndTime: ms(16, 9, 0)},
	}
	return shifts.GroupByDate(list, list, now)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, loc,
		Sheet{Name: "Available - all areas", Groups: groups(t)},
		Sheet{Name: "My shifts", Groups: nil},
	))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Available - all areas", "My shifts"}, f.GetSheetList())

	rows, err := f.GetRows("Available - all areas")
	require.NoError(t, err)
	require.Len(t, rows, 1+3+2)

	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{"2026-01-15", "Today", "09:00", "12:00", "3h", "Helsinki", "yes", "no", "no"}, rows[1])
	assert.Equal(t, []string{"2026-01-15", "Today", "10:00", "15:30", "5h 30min", "Tampere", "no", "no", "yes"}, rows[2])
	assert.Equal(t, []string{"2026-01-15", "Total", "", "", "8.5h", "2 shifts"}, rows[3])
	assert.Equal(t, []string{"2026-01-16", "Tomorrow", "07:00", "09:00", "2h", "Turku", "no", "no", "no"}, rows[4])
	assert.Equal(t, []string{"2026-01-16", "Total", "", "", "2.0h", "1 shifts"}, rows[5])

	mine, err := f.GetRows("My shifts")
	require.NoError(t, err)
	assert.Equal(t, [][]string{Columns}, mine)
}

func TestWrite_NoSheets(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, loc))
}

func TestWrite_LongSheetNameTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, loc, Sheet{Name: "Available shifts in every single area we know"}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList()[0], maxSheetName)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shifts.xlsx")
	require.NoError(t, WriteFile(path, loc, Sheet{Name: "My shifts", Groups: groups(t)}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("My shifts")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}
