package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherklint97/daybook/internal/daydata"
	"github.com/christopherklint97/daybook/internal/week"
)

type viewState int

const (
	weekView viewState = iota
	inputView
)

// DayStore is what the week view reads and mutates. *daydata.Store
// satisfies it.
type DayStore interface {
	GetDayData(date time.Time) daydata.DayRecord
	SetWakeTime(date, t time.Time) error
	SetSleepTime(date, t time.Time) error
	AddEntry(date time.Time, in daydata.EntryInput) (daydata.TimeEntry, error)
	DeleteEntry(date time.Time, id string) error
}

type Options struct {
	FirstDay time.Weekday
	Styles   Styles
	// Banner is shown under the title, e.g. the day's affirmation.
	Banner string
	// Now defaults to time.Now.
	Now func() time.Time
}

type savedMsg struct {
	status string
	err    error
}

type App struct {
	state     viewState
	days      DayStore
	opts      Options
	keys      keyMap
	help      help.Model
	input     inputModel
	weekStart time.Time
	cursor    int
	status    string
	errMsg    string
	width     int
}

// NewApp opens the week view on the week containing today, with today
// selected.
func NewApp(days DayStore, opts Options) *App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	a := &App{
		days: days,
		opts: opts,
		keys: defaultKeyMap(),
		help: help.New(),
	}
	a.goToday()
	return a
}

func (a *App) Init() tea.Cmd {
	return nil
}

// Selected returns the date under the cursor.
func (a *App) Selected() time.Time {
	return a.weekStart.AddDate(0, 0, a.cursor)
}

func (a *App) WeekStart() time.Time {
	return a.weekStart
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
		return a, nil
	case savedMsg:
		a.status, a.errMsg = msg.status, ""
		if msg.err != nil {
			a.status, a.errMsg = "", msg.err.Error()
		}
		return a, nil
	}

	if a.state == inputView {
		return a.updateInput(msg)
	}
	return a.updateWeek(msg)
}

func (a *App) updateWeek(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch {
	case key.Matches(keyMsg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(keyMsg, a.keys.PrevWeek):
		a.weekStart = week.Prev(a.weekStart)
	case key.Matches(keyMsg, a.keys.NextWeek):
		a.weekStart = week.Next(a.weekStart)
	case key.Matches(keyMsg, a.keys.PrevDay):
		if a.cursor > 0 {
			a.cursor--
		} else {
			a.weekStart = week.Prev(a.weekStart)
			a.cursor = 6
		}
	case key.Matches(keyMsg, a.keys.NextDay):
		if a.cursor < 6 {
			a.cursor++
		} else {
			a.weekStart = week.Next(a.weekStart)
			a.cursor = 0
		}
	case key.Matches(keyMsg, a.keys.Today):
		a.goToday()
	case key.Matches(keyMsg, a.keys.Add):
		return a.openInput(inputEntry)
	case key.Matches(keyMsg, a.keys.Wake):
		return a.openInput(inputWake)
	case key.Matches(keyMsg, a.keys.Sleep):
		return a.openInput(inputSleep)
	case key.Matches(keyMsg, a.keys.Undo):
		return a, a.deleteLast()
	}
	a.status, a.errMsg = "", ""
	return a, nil
}

func (a *App) openInput(kind inputKind) (tea.Model, tea.Cmd) {
	a.state = inputView
	a.input = newInputModel(kind, a.Selected())
	a.status, a.errMsg = "", ""
	return a, a.input.textInput.Focus()
}

func (a *App) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			a.state = weekView
			return a, nil
		case "ctrl+c":
			return a, tea.Quit
		case "enter":
			cmd, err := a.submit()
			if err != nil {
				a.errMsg = err.Error()
				return a, nil
			}
			a.state = weekView
			return a, cmd
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit parses the input synchronously so typos keep the prompt open, and
// returns the write as a command.
func (a *App) submit() (tea.Cmd, error) {
	day := a.Selected()
	value := a.input.Value()

	switch a.input.kind {
	case inputEntry:
		in, err := ParseQuickEntry(day, value)
		if err != nil {
			return nil, err
		}
		return func() tea.Msg {
			_, err := a.days.AddEntry(day, in)
			return savedMsg{status: "Entry added", err: err}
		}, nil
	case inputWake, inputSleep:
		t, err := ParseClock(day, value)
		if err != nil {
			return nil, err
		}
		if a.input.kind == inputWake {
			return func() tea.Msg {
				return savedMsg{status: "Wake time set", err: a.days.SetWakeTime(day, t)}
			}, nil
		}
		t = ResolveSleep(a.days.GetDayData(day).WakeTime, t)
		return func() tea.Msg {
			return savedMsg{status: "Sleep time set", err: a.days.SetSleepTime(day, t)}
		}, nil
	}
	return nil, nil
}

func (a *App) deleteLast() tea.Cmd {
	day := a.Selected()
	rec := a.days.GetDayData(day)
	if len(rec.Entries) == 0 {
		return nil
	}
	id := rec.Entries[len(rec.Entries)-1].ID
	return func() tea.Msg {
		return savedMsg{status: "Entry deleted", err: a.days.DeleteEntry(day, id)}
	}
}

func (a *App) goToday() {
	now := a.opts.Now()
	a.weekStart = week.StartOf(now, a.opts.FirstDay)
	a.cursor = 0
	for i, d := range week.Days(a.weekStart) {
		if week.SameDay(d, now) {
			a.cursor = i
		}
	}
}

func (a *App) View() string {
	st := a.opts.Styles
	header := st.Title.Render("daybook — "+week.Label(a.weekStart)) + "\n" +
		st.Subtitle.Render(week.RangeLabel(a.weekStart))
	if a.opts.Banner != "" {
		header += "\n" + st.Dim.Render(a.opts.Banner)
	}

	strip := RenderStrip(st, week.Indicators(a.days, a.weekStart), a.cursor, a.opts.Now())
	day := a.Selected()
	body := RenderDay(st, day, a.days.GetDayData(day))

	out := header + "\n\n" + strip + "\n\n" + st.Box.Render(body) + "\n"

	if a.state == inputView {
		out += "\n" + a.input.View(st) + "\n"
	}
	if a.errMsg != "" {
		out += st.Error.Render("Error: ") + a.errMsg + "\n"
	} else if a.status != "" {
		out += st.Success.Render(a.status) + "\n"
	}
	if a.state == weekView {
		out += st.Help.Render(a.help.View(a.keys))
	}
	return out
}
