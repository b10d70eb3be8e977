package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"shiftbook/internal/models"
	"shiftbook/internal/shifts"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	idColumn     = lipgloss.NewStyle().Width(14)
	timeColumn   = lipgloss.NewStyle().Width(16)
	lengthColumn = lipgloss.NewStyle().Width(10)
	areaColumn   = lipgloss.NewStyle().Width(10)
)

func shiftStatus(s models.ShiftWithMeta) string {
	switch {
	case s.Booked:
		return okStyle.Render("booked")
	case s.IsStarted:
		return mutedStyle.Render("started")
	case s.IsOverlapping:
		return warnStyle.Render("overlapping")
	default:
		return "available"
	}
}

func renderShift(w io.Writer, s models.ShiftWithMeta, loc *time.Location) {
	fmt.Fprintln(w, "  "+lipgloss.JoinHorizontal(lipgloss.Top,
		idColumn.Render(s.ID),
		timeColumn.Render(shifts.FormatTimeRange(s.StartTime, s.EndTime, loc)),
		lengthColumn.Render(shifts.FormatDuration(s.StartTime, s.EndTime)),
		areaColumn.Render(string(s.Area)),
		shiftStatus(s),
	))
}

func renderGroups(w io.Writer, groups []models.GroupedShifts, loc *time.Location) {
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n",
			headingStyle.Render(g.Date),
			mutedStyle.Render(fmt.Sprintf("%s · %d shifts · %gh", g.DateKey, g.TotalShifts, g.TotalHours)))
		for _, s := range g.Shifts {
			renderShift(w, s, loc)
		}
	}
}

func renderAreaCounts(w io.Writer, counts []models.AreaCount, selected models.Area) {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		label := fmt.Sprintf("%s (%d)", c.Area, c.Count)
		if c.Area == selected {
			label = headingStyle.Render("[" + label + "]")
		}
		parts = append(parts, label)
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
}

func renderEmpty(w io.Writer, msg string) {
	fmt.Fprintln(w, mutedStyle.Render(msg))
}
