package store

import (
	"time"

	"shiftbook/internal/models"
	"shiftbook/internal/shifts"
)

// MyShiftsView is the booked-shifts tab.
type MyShiftsView struct {
	Groups      []models.GroupedShifts `json:"groups"`
	TotalShifts int                    `json:"totalShifts"`
	TotalHours  float64                `json:"totalHours"`
}

// AvailableView is the browse tab for the selected area.
type AvailableView struct {
	Area       models.Area            `json:"area"`
	AreaCounts []models.AreaCount     `json:"areaCounts"`
	Groups     []models.GroupedShifts `json:"groups"`
}

// MyShifts groups the booked shifts of snap by day. Derived flags depend on
// now and are never cached.
func MyShifts(snap Snapshot, now time.Time) MyShiftsView {
	booked := shifts.Booked(snap.Shifts)

	var totalMs int64
	for _, s := range booked {
		totalMs += s.EndTime - s.StartTime
	}
	return MyShiftsView{
		Groups:      shifts.GroupByDate(booked, snap.Shifts, now),
		TotalShifts: len(booked),
		TotalHours:  shifts.DurationHours(0, totalMs),
	}
}

// Available groups the shifts of the selected area by day. Area counts cover
// every area regardless of the filter and overlap is checked against all
// shifts.
func Available(snap Snapshot, now time.Time) AvailableView {
	area := snap.SelectedArea
	if area == "" {
		area = models.AreaAll
	}
	return AvailableView{
		Area:       area,
		AreaCounts: shifts.AreaCounts(snap.Shifts),
		Groups:     shifts.GroupByDate(shifts.FilterByArea(snap.Shifts, area), snap.Shifts, now),
	}
}
