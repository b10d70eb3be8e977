package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shiftbook/internal/config"
	"shiftbook/internal/events"
	"shiftbook/internal/models"
	"shiftbook/internal/shiftapi"
	"shiftbook/internal/store"
)

var (
	loc = time.FixedZone("EET", 2*60*60)
	now = time.Date(2026, time.January, 15, 8, 0, 0, 0, loc)
)

func at(hour int) int64 {
	return time.Date(2026, time.January, 15, hour, 0, 0, 0, loc).UnixMilli()
}

// backend is an in-memory shift service that rejects booking shifts that
// overlap a booked one. Book requests wait for hold when it is set.
type backend struct {
	mu     sync.Mutex
	shifts []models.Shift
	fail   bool
	hold   chan struct{}
}

func newBackend() *backend {
	return &backend{shifts: []models.Shift{
		{ID: "helsinki", Area: models.AreaHelsinki, Booked: true, StartTime: at(9), EndTime: at(17)},
		{ID: "tampere", Area: models.AreaTampere, StartTime: at(10), EndTime: at(12)},
		{ID: "turku", Area: models.AreaTurku, StartTime: at(18), EndTime: at(20)},
	}}
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	hold := b.hold
	b.mu.Unlock()
	if hold != nil && strings.HasSuffix(r.URL.Path, "/book") {
		<-hold
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	if b.fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 1 {
		reply(http.StatusOK, b.shifts)
		return
	}

	idx := -1
	for i, s := range b.shifts {
		if s.ID == parts[1] {
			idx = i
		}
	}
	if idx < 0 {
		reply(http.StatusNotFound, map[string]string{"message": "Shift not found"})
		return
	}
	if len(parts) == 2 {
		reply(http.StatusOK, b.shifts[idx])
		return
	}

	target := &b.shifts[idx]
	switch parts[2] {
	case "book":
		for _, other := range b.shifts {
			if other.Booked && other.ID != target.ID &&
				other.StartTime < target.EndTime && target.StartTime < other.EndTime {
				reply(http.StatusConflict, map[string]string{"message": "Shift overlaps with another booked shift"})
				return
			}
		}
		target.Booked = true
	case "cancel":
		if !target.Booked {
			reply(http.StatusBadRequest, map[string]string{"message": "Shift is not booked"})
			return
		}
		target.Booked = false
	}
	reply(http.StatusOK, *target)
}

func newTestApp(t *testing.T) (*AppContext, *bytes.Buffer, *backend) {
	t.Helper()
	b := newBackend()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	logger := zerolog.Nop()
	client := shiftapi.NewClient(srv.URL, time.Second, &logger)
	var out bytes.Buffer
	return &AppContext{
		Cfg:    config.Default(),
		Client: client,
		Store:  store.New(client, &logger),
		Logger: &logger,
		Out:    &out,
		Now:    func() time.Time { return now },
	}, &out, b
}

func TestAvailableCmd(t *testing.T) {
	app, out, _ := newTestApp(t)

	cmd := AvailableCmd(app)
	cmd.SetArgs([]string{"--area", "Tampere"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Helsinki (1)")
	assert.Contains(t, text, "Tampere (1)")
	assert.Contains(t, text, "Today")
	assert.Contains(t, text, "tampere")
	assert.Contains(t, text, "10:00 - 12:00")
	assert.Contains(t, text, "overlapping")
	assert.NotContains(t, text, "turku ")
}

func TestAvailableCmd_InvalidArea(t *testing.T) {
	app, _, _ := newTestApp(t)

	cmd := AvailableCmd(app)
	cmd.SetArgs([]string{"--area", "Oulu"})
	cmd.SilenceUsage = true
	assert.ErrorIs(t, cmd.ExecuteContext(context.Background()), models.ErrInvalidArea)
}

func TestMineCmd(t *testing.T) {
	app, out, _ := newTestApp(t)

	cmd := MineCmd(app)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	text := out.String()
	assert.Contains(t, text, "1 shifts · 8h")
	assert.Contains(t, text, "helsinki")
	assert.Contains(t, text, "booked")
	assert.NotContains(t, text, "tampere")
}

func TestShowCmd(t *testing.T) {
	app, out, _ := newTestApp(t)

	cmd := ShowCmd(app)
	cmd.SetArgs([]string{"tampere"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Area:     Tampere")
	assert.Contains(t, text, "Date:     Today (2026-01-15)")
	assert.Contains(t, text, "Duration: 2h")
	assert.Contains(t, text, "overlapping")
	assert.Contains(t, text, "Bookable: no")
}

func TestShowCmd_NotFound(t *testing.T) {
	app, _, _ := newTestApp(t)

	cmd := ShowCmd(app)
	cmd.SetArgs([]string{"nope"})
	cmd.SilenceUsage = true
	err := cmd.ExecuteContext(context.Background())
	assert.ErrorIs(t, err, shiftapi.ErrNotFound)
}

func TestBookCmd_ReportsEachShift(t *testing.T) {
	app, out, _ := newTestApp(t)

	cmd := BookCmd(app)
	cmd.SetArgs([]string{"turku", "tampere"})
	cmd.SilenceUsage = true
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")

	text := out.String()
	assert.Contains(t, text, "booked turku")
	assert.Contains(t, text, "failed tampere: Shift overlaps with another booked shift")

	turku, _ := app.Store.Snapshot().Shift("turku")
	tampere, _ := app.Store.Snapshot().Shift("tampere")
	assert.True(t, turku.Booked)
	assert.False(t, tampere.Booked)
}

func TestBookCmd_DuplicateIDHitsGuard(t *testing.T) {
	app, out, b := newTestApp(t)
	b.mu.Lock()
	b.hold = make(chan struct{})
	b.mu.Unlock()

	// The first request stays at the server until the duplicate is rejected.
	var once sync.Once
	defer app.Store.Events().Subscribe(events.MutationRejected, func(events.Event) error {
		once.Do(func() { close(b.hold) })
		return nil
	})()

	cmd := BookCmd(app)
	cmd.SetArgs([]string{"tampere", "tampere"})
	cmd.SilenceUsage = true
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.ElementsMatch(t, []string{
		"failed tampere: Shift overlaps with another booked shift",
		"failed tampere: " + store.ErrMutationInFlight.Error(),
	}, lines)
}

func TestCancelCmd(t *testing.T) {
	app, out, _ := newTestApp(t)

	cmd := CancelCmd(app)
	cmd.SetArgs([]string{"helsinki"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "cancelled helsinki")

	sh, _ := app.Store.Snapshot().Shift("helsinki")
	assert.False(t, sh.Booked)
}

func TestFetchFailure(t *testing.T) {
	app, _, b := newTestApp(t)
	b.mu.Lock()
	b.fail = true
	b.mu.Unlock()

	cmd := MineCmd(app)
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "An unexpected error occurred")
}

func TestExportCmd(t *testing.T) {
	app, out, _ := newTestApp(t)
	path := filepath.Join(t.TempDir(), "shifts.xlsx")

	cmd := ExportCmd(app)
	cmd.SetArgs([]string{"--out", path, "--area", "all"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Exported 2 sheet(s)")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"My shifts", "Available - all"}, f.GetSheetList())

	rows, err := f.GetRows("Available - all")
	require.NoError(t, err)
	assert.Len(t, rows, 1+3+1)
}

func TestExportCmd_InvalidView(t *testing.T) {
	app, _, _ := newTestApp(t)

	cmd := ExportCmd(app)
	cmd.SetArgs([]string{"--view", "calendar"})
	cmd.SilenceUsage = true
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
