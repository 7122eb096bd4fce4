package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/daybook/internal/daydata"
	"github.com/christopherklint97/daybook/internal/prefs"
	"github.com/christopherklint97/daybook/internal/store"
)

// Friday of ISO week 2026-W09.
var fixedNow = time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*App, *daydata.Store) {
	t.Helper()
	days := daydata.New(store.NewMemoryKV(), nil)
	app := NewApp(days, Options{
		FirstDay: time.Monday,
		Styles:   NewStyles(prefs.ThemeDark),
		Now:      func() time.Time { return fixedNow },
	})
	return app, days
}

func press(t *testing.T, a *App, keys ...string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = a.Update(msg)
	}
	return cmd
}

// run executes cmd and feeds its message back, the way the program loop would.
func run(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	a.Update(cmd())
}

func TestNewApp_OpensOnToday(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Equal(t, time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), app.WeekStart())
	assert.True(t, app.Selected().Equal(time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)))
}

func TestNavigation(t *testing.T) {
	app, _ := newTestApp(t)

	press(t, app, "l")
	assert.Equal(t, "2026-03-02", daydata.DateKey(app.WeekStart()))

	press(t, app, "h", "h")
	assert.Equal(t, "2026-02-16", daydata.DateKey(app.WeekStart()))

	press(t, app, "t")
	assert.Equal(t, "2026-02-27", daydata.DateKey(app.Selected()))

	press(t, app, "j", "right")
	assert.Equal(t, "2026-03-01", daydata.DateKey(app.Selected()))

	// Moving past Sunday rolls into the next week.
	press(t, app, "j")
	assert.Equal(t, "2026-03-02", daydata.DateKey(app.Selected()))
	assert.Equal(t, "2026-03-02", daydata.DateKey(app.WeekStart()))

	press(t, app, "k", "up")
	assert.Equal(t, "2026-02-28", daydata.DateKey(app.Selected()))
}

func TestQuit(t *testing.T) {
	app, _ := newTestApp(t)
	cmd := press(t, app, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestAddEntryThroughInput(t *testing.T) {
	app, days := newTestApp(t)

	press(t, app, "a")
	assert.Equal(t, inputView, app.state)

	press(t, app, "09:00-12:00 work Write report")
	run(t, app, press(t, app, "enter"))

	assert.Equal(t, weekView, app.state)
	assert.Equal(t, "Entry added", app.status)

	entries := days.GetDayData(fixedNow).Entries
	require.Len(t, entries, 1)
	assert.Equal(t, "Write report", entries[0].Description)
	assert.Equal(t, 3*time.Hour, entries[0].Duration())
	assert.Contains(t, app.View(), "Write report")
}

func TestInvalidInputKeepsPromptOpen(t *testing.T) {
	app, days := newTestApp(t)

	press(t, app, "w", "soon")
	cmd := press(t, app, "enter")

	assert.Nil(t, cmd)
	assert.Equal(t, inputView, app.state)
	assert.Contains(t, app.errMsg, "invalid time")
	assert.Nil(t, days.GetDayData(fixedNow).WakeTime)

	press(t, app, "esc")
	assert.Equal(t, weekView, app.state)
}

func TestWakeSleepAndSummary(t *testing.T) {
	app, days := newTestApp(t)

	press(t, app, "w", "07:00")
	run(t, app, press(t, app, "enter"))
	press(t, app, "s", "23:00")
	run(t, app, press(t, app, "enter"))

	rec := days.GetDayData(fixedNow)
	require.NotNil(t, rec.WakeTime)
	require.NotNil(t, rec.SleepTime)
	assert.Equal(t, 7, rec.WakeTime.Hour())

	view := app.View()
	assert.Contains(t, view, "Awake")
	assert.Contains(t, view, "16h 0m")
}

func TestSleepAfterMidnightRollsToNextDay(t *testing.T) {
	app, days := newTestApp(t)

	press(t, app, "w", "07:00")
	run(t, app, press(t, app, "enter"))
	press(t, app, "s", "00:30")
	run(t, app, press(t, app, "enter"))

	rec := days.GetDayData(fixedNow)
	require.NotNil(t, rec.SleepTime)
	assert.Equal(t, "2026-02-28", daydata.DateKey(*rec.SleepTime))

	view := app.View()
	assert.Contains(t, view, "17h 30m")
	assert.NotContains(t, view, "exceeds")
}

func TestDeleteLastEntry(t *testing.T) {
	app, days := newTestApp(t)
	_, err := days.AddEntry(fixedNow, daydata.EntryInput{
		StartTime: fixedNow,
		EndTime:   fixedNow.Add(time.Hour),
		Category:  daydata.CategoryPersonal,
	})
	require.NoError(t, err)

	run(t, app, press(t, app, "x"))
	assert.Empty(t, days.GetDayData(fixedNow).Entries)

	// Nothing left to delete.
	assert.Nil(t, press(t, app, "x"))
}

func TestView_WeekHeader(t *testing.T) {
	app, _ := newTestApp(t)
	view := app.View()
	assert.Contains(t, view, "2026-W09")
	assert.Contains(t, view, "Feb 23")
	assert.Contains(t, view, "No entries")
	assert.NotContains(t, view, "Awake")
}
