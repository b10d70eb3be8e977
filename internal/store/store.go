// Package store holds the client-side shift state and coordinates book and
// cancel requests against the remote shift service.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"shiftbook/internal/events"
	"shiftbook/internal/metrics"
	"shiftbook/internal/models"
	"shiftbook/internal/shiftapi"
)

// API is the remote side the store talks to.
type API interface {
	FetchAll(ctx context.Context) ([]models.Shift, error)
	Book(ctx context.Context, id string) (models.Shift, error)
	Cancel(ctx context.Context, id string) (models.Shift, error)
}

// Listener receives a snapshot after each state transition.
type Listener func(Snapshot)

// Option configures a Store.
type Option func(*Store)

// WithEventBus publishes store events on bus instead of a private one.
func WithEventBus(bus *events.EventBus) Option {
	return func(s *Store) {
		if bus != nil {
			s.bus = bus
		}
	}
}

// WithDefaults sets the initial tab and area filter.
func WithDefaults(tab models.TabType, area models.Area) Option {
	return func(s *Store) {
		if tab != "" {
			s.st.activeTab = tab
		}
		if area != "" {
			s.st.selectedArea = area
		}
	}
}

// Store is the single owner of the shift list and the per-shift mutation
// map. All transitions happen under mu; remote calls happen outside it.
type Store struct {
	api API
	bus *events.EventBus
	log zerolog.Logger

	mu        sync.Mutex
	st        state
	version   uint64
	fetchGen  uint64
	appliedAt uint64

	notifyMu  sync.Mutex
	delivered uint64
}

// New constructs a store with an empty shift list.
func New(api API, logger *zerolog.Logger, opts ...Option) *Store {
	log := zerolog.Nop()
	if logger != nil {
		log = logger.With().Str("component", "store").Logger()
	}
	s := &Store{
		api: api,
		log: log,
		st: state{
			shifts:       []models.Shift{},
			activeTab:    models.TabMyShifts,
			selectedArea: models.AreaHelsinki,
			mutations:    make(map[string]models.MutationState),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = events.NewEventBus(logger)
	}
	return s
}

// Events returns the bus the store publishes on.
func (s *Store) Events() *events.EventBus {
	return s.bus
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.snapshot(s.version)
}

// Subscribe registers l for state changes. Listeners run synchronously on the
// goroutine that caused the transition and must not call store commands.
// Snapshots are delivered in Version order; a transition superseded before it
// was delivered is skipped.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	return s.bus.Subscribe(events.StateChanged, func(e events.Event) error {
		snap, ok := e.Payload.(Snapshot)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", e.Type, e.Payload)
		}
		l(snap)
		return nil
	})
}

// update applies fn under the lock and notifies listeners.
func (s *Store) update(fn func(st *state)) Snapshot {
	s.mu.Lock()
	fn(&s.st)
	s.version++
	snap := s.st.snapshot(s.version)
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

func (s *Store) notify(snap Snapshot) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if snap.Version <= s.delivered {
		return
	}
	s.delivered = snap.Version
	s.bus.Publish(events.Event{Type: events.StateChanged, Payload: snap})
}

// ErrMutationInFlight is returned by Book and Cancel when a request for the
// same shift has not finished yet.
var ErrMutationInFlight = errors.New("a request for this shift is already in flight")

// FetchShifts loads the full shift list. Unless silent, the loading flag is
// raised for the duration of the call. On failure the current list is kept
// and the error slot is set. It reports whether the fetch succeeded.
func (s *Store) FetchShifts(ctx context.Context, silent bool) bool {
	return s.Fetch(ctx, silent) == nil
}

// Fetch is FetchShifts returning the *shiftapi.APIError of a failed call.
func (s *Store) Fetch(ctx context.Context, silent bool) error {
	var gen uint64
	s.update(func(st *state) {
		st.clearError()
		if !silent {
			st.fetching++
		}
		s.fetchGen++
		gen = s.fetchGen
	})

	list, err := s.api.FetchAll(ctx)
	if err != nil {
		apiErr := shiftapi.AsAPIError(err)
		s.update(func(st *state) {
			if !silent {
				st.fetching--
			}
			st.setError(apiErr.Message, apiErr.Code)
		})
		metrics.IncFetch("failed")
		s.log.Warn().Err(err).Bool("silent", silent).Msg("fetch shifts failed")
		s.bus.Publish(events.Event{
			Type:    events.FetchFailed,
			Payload: events.Failure{Message: apiErr.Message, Code: apiErr.Code},
		})
		return apiErr
	}

	stale := false
	s.update(func(st *state) {
		if !silent {
			st.fetching--
		}
		// An older fetch finishing late must not overwrite a newer list.
		if gen < s.appliedAt {
			stale = true
			return
		}
		s.appliedAt = gen
		st.shifts = slices.Clone(list)
		if st.shifts == nil {
			st.shifts = []models.Shift{}
		}
	})
	if stale {
		metrics.IncFetch("stale")
		s.log.Debug().Uint64("generation", gen).Msg("stale fetch result dropped")
		return nil
	}

	metrics.IncFetch("ok")
	s.log.Debug().Int("count", len(list)).Bool("silent", silent).Msg("shifts fetched")
	s.bus.Publish(events.Event{Type: events.ShiftsFetched, Payload: slices.Clone(list)})
	return nil
}

// RefreshShifts re-reads the list from the server without raising the
// loading flag and without serving it from cache.
func (s *Store) RefreshShifts(ctx context.Context) bool {
	return s.Refresh(ctx) == nil
}

// Refresh is RefreshShifts returning the failure.
func (s *Store) Refresh(ctx context.Context) error {
	return s.Fetch(shiftapi.WithFreshRead(ctx), true)
}

// BookShift books id. A second call while a request for id is in flight
// returns false at once without contacting the server.
func (s *Store) BookShift(ctx context.Context, id string) bool {
	return s.Book(ctx, id) == nil
}

// Book is BookShift returning the failure of this call: ErrMutationInFlight
// or a *shiftapi.APIError. Unlike the shared error slot it cannot be
// overwritten by other commands.
func (s *Store) Book(ctx context.Context, id string) error {
	return s.mutate(ctx, id, models.MutationBooking, s.api.Book, events.ShiftBooked)
}

// CancelShift cancels the booking of id, guarded like BookShift.
func (s *Store) CancelShift(ctx context.Context, id string) bool {
	return s.Cancel(ctx, id) == nil
}

// Cancel is CancelShift returning the failure, like Book.
func (s *Store) Cancel(ctx context.Context, id string) error {
	return s.mutate(ctx, id, models.MutationCancelling, s.api.Cancel, events.ShiftCancelled)
}

func (s *Store) mutate(
	ctx context.Context,
	id string,
	kind models.MutationState,
	call func(context.Context, string) (models.Shift, error),
	doneEvent string,
) error {
	log := s.log.With().Str("shift_id", id).Str("kind", string(kind)).Logger()

	s.mu.Lock()
	if current, busy := s.st.mutations[id]; busy {
		s.mu.Unlock()
		metrics.IncMutation(string(kind), "rejected")
		log.Debug().Str("in_flight", string(current)).Msg("mutation rejected, request already in flight")
		s.bus.Publish(events.Event{Type: events.MutationRejected, Payload: events.Failure{ShiftID: id, Kind: kind}})
		return ErrMutationInFlight
	}
	s.st.mutations[id] = kind
	s.st.clearError()
	s.version++
	snap := s.st.snapshot(s.version)
	s.mu.Unlock()
	s.notify(snap)

	metrics.MutationStarted()
	// Once issued, a request runs to completion or the client timeout.
	updated, err := call(context.WithoutCancel(ctx), id)
	metrics.MutationFinished()

	if err != nil {
		apiErr := shiftapi.AsAPIError(err)
		s.update(func(st *state) {
			delete(st.mutations, id)
			st.setError(apiErr.Message, apiErr.Code)
		})
		metrics.IncMutation(string(kind), "failed")
		log.Warn().Err(err).Msg("mutation failed")
		s.bus.Publish(events.Event{
			Type:    events.MutationFailed,
			Payload: events.Failure{ShiftID: id, Kind: kind, Message: apiErr.Message, Code: apiErr.Code},
		})
		return apiErr
	}

	found := true
	s.update(func(st *state) {
		delete(st.mutations, id)
		updated, found = st.replace(id, updated, kind == models.MutationBooking)
	})
	if !found {
		log.Warn().Msg("mutated shift no longer in list")
	}
	metrics.IncMutation(string(kind), "ok")
	log.Info().Bool("booked", updated.Booked).Msg("mutation applied")
	s.bus.Publish(events.Event{Type: doneEvent, Payload: updated})
	return nil
}

// SetActiveTab switches the view and dismisses the current error.
func (s *Store) SetActiveTab(tab models.TabType) error {
	if _, err := models.ParseTab(string(tab)); err != nil {
		return err
	}
	s.update(func(st *state) {
		st.activeTab = tab
		st.clearError()
	})
	return nil
}

// SetSelectedArea changes the area filter. models.AreaAll selects every area.
func (s *Store) SetSelectedArea(area models.Area) error {
	if _, err := models.ParseArea(string(area)); err != nil {
		return err
	}
	s.update(func(st *state) {
		st.selectedArea = area
	})
	return nil
}

// ClearError empties the error slot.
func (s *Store) ClearError() {
	s.update(func(st *state) {
		st.clearError()
	})
}

// SetError overwrites the error slot. The error code is cleared.
func (s *Store) SetError(msg string) {
	s.update(func(st *state) {
		st.setError(msg, "")
	})
}
