package store

import (
	"maps"
	"slices"

	"shiftbook/internal/models"
	"shiftbook/internal/shifts"
)

// Snapshot is a read-only copy of the store state. Version increases with
// every state transition.
type Snapshot struct {
	Version      uint64                          `json:"version"`
	Shifts       []models.Shift                  `json:"shifts"`
	ActiveTab    models.TabType                  `json:"activeTab"`
	SelectedArea models.Area                     `json:"selectedArea"`
	IsLoading    bool                            `json:"isLoading"`
	Error        string                          `json:"error,omitempty"`
	ErrorCode    string                          `json:"errorCode,omitempty"`
	Mutations    map[string]models.MutationState `json:"loadingStates"`
}

// BookedShifts returns the shifts held by the current user.
func (s Snapshot) BookedShifts() []models.Shift {
	return shifts.Booked(s.Shifts)
}

// FilteredShifts returns the shifts in the selected area.
func (s Snapshot) FilteredShifts() []models.Shift {
	return shifts.FilterByArea(s.Shifts, s.SelectedArea)
}

// MutationFor returns the in-flight request kind for id, if any.
func (s Snapshot) MutationFor(id string) (models.MutationState, bool) {
	m, ok := s.Mutations[id]
	return m, ok
}

// IsAnyLoading reports a bulk fetch or any book/cancel in flight.
func (s Snapshot) IsAnyLoading() bool {
	return s.IsLoading || len(s.Mutations) > 0
}

// Shift looks up a shift by id.
func (s Snapshot) Shift(id string) (models.Shift, bool) {
	i := slices.IndexFunc(s.Shifts, func(sh models.Shift) bool { return sh.ID == id })
	if i < 0 {
		return models.Shift{}, false
	}
	return s.Shifts[i], true
}

// state is the mutable store state, guarded by Store.mu.
type state struct {
	shifts       []models.Shift
	activeTab    models.TabType
	selectedArea models.Area
	fetching     int
	err          string
	errCode      string
	mutations    map[string]models.MutationState
}

func (st *state) snapshot(version uint64) Snapshot {
	list := slices.Clone(st.shifts)
	if list == nil {
		list = []models.Shift{}
	}
	return Snapshot{
		Version:      version,
		Shifts:       list,
		ActiveTab:    st.activeTab,
		SelectedArea: st.selectedArea,
		IsLoading:    st.fetching > 0,
		Error:        st.err,
		ErrorCode:    st.errCode,
		Mutations:    maps.Clone(st.mutations),
	}
}

func (st *state) setError(msg, code string) {
	st.err, st.errCode = msg, code
}

func (st *state) clearError() {
	st.setError("", "")
}

// replace swaps in the server's copy of the requested shift id. A shift that
// is no longer in the list is left out.
func (st *state) replace(id string, updated models.Shift, booked bool) (models.Shift, bool) {
	for i := range st.shifts {
		if st.shifts[i].ID != id {
			continue
		}
		// A success reply without a shift body still changes the booking.
		if updated.ID == "" {
			updated = st.shifts[i]
			updated.Booked = booked
		}
		st.shifts[i] = updated
		return updated, true
	}
	return updated, false
}
