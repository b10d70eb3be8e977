// Package export renders grouped shift views as an xlsx workbook.
package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"shiftbook/internal/models"
	"shiftbook/internal/shifts"
)

// Columns is the header row of every sheet.
var Columns = []string{"Date", "Day", "Start", "End", "Duration", "Area", "Booked", "Started", "Overlapping"}

// Sheet is one named list of day groups.
type Sheet struct {
	Name   string
	Groups []models.GroupedShifts
}

// Write renders sheets into a workbook on out. Times are shown in loc.
func Write(out io.Writer, loc *time.Location, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}
	if loc == nil {
		loc = time.Local
	}

	w, err := newSheetWriter()
	if err != nil {
		return err
	}
	defer w.close()

	for _, sheet := range sheets {
		if err := writeSheet(w, loc, sheet); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
	}
	return w.save(out)
}

// WriteFile is Write to a file at path.
func WriteFile(path string, loc *time.Location, sheets ...Sheet) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, loc, sheets...)
}

func writeSheet(w *sheetWriter, loc *time.Location, sheet Sheet) error {
	if err := w.addSheet(sheet.Name); err != nil {
		return err
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := w.writeRow(header, true); err != nil {
		return err
	}

	for _, g := range sheet.Groups {
		for _, s := range g.Shifts {
			row := []any{
				g.DateKey,
				g.Date,
				shifts.FormatTime(s.StartTime, loc),
				shifts.FormatTime(s.EndTime, loc),
				shifts.FormatDuration(s.StartTime, s.EndTime),
				string(s.Area),
				yesNo(s.Booked),
				yesNo(s.IsStarted),
				yesNo(s.IsOverlapping),
			}
			if err := w.writeRow(row, false); err != nil {
				return err
			}
		}
		total := []any{
			g.DateKey,
			"Total",
			"",
			"",
			fmt.Sprintf("%.1fh", g.TotalHours),
			fmt.Sprintf("%d shifts", g.TotalShifts),
		}
		if err := w.writeRow(total, true); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
