package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherklint97/daybook/internal/daydata"
)

type inputKind int

const (
	inputEntry inputKind = iota
	inputWake
	inputSleep
)

type inputModel struct {
	kind      inputKind
	textInput textinput.Model
	prompt    string
}

func newInputModel(kind inputKind, day time.Time) inputModel {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50
	ti.Focus()

	var prompt string
	switch kind {
	case inputEntry:
		ti.Placeholder = "09:00-12:00 work Write report"
		prompt = "New entry for " + day.Format("Mon Jan 2")
	case inputWake:
		ti.Placeholder = "07:00"
		prompt = "Wake time for " + day.Format("Mon Jan 2")
	case inputSleep:
		ti.Placeholder = "23:00"
		prompt = "Sleep time for " + day.Format("Mon Jan 2")
	}

	return inputModel{kind: kind, textInput: ti, prompt: prompt}
}

func (m inputModel) Update(msg tea.Msg) (inputModel, tea.Cmd) {
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m inputModel) View(st Styles) string {
	return st.Subtitle.Render(m.prompt) + "\n" + m.textInput.View() + "\n" +
		st.Help.Render("Enter: save • Esc: cancel")
}

func (m inputModel) Value() string {
	return strings.TrimSpace(m.textInput.Value())
}

var clockLayouts = []string{"15:04", "15.04", "3:04pm", "3pm", "1504"}

// ParseClock reads a wall-clock time and places it on day.
func ParseClock(day time.Time, s string) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

// ResolveSleep moves a sleep time that falls before wake to the next day,
// so "00:30" after a 07:00 wake means half past midnight that night.
func ResolveSleep(wake *time.Time, sleep time.Time) time.Time {
	if wake != nil && sleep.Before(*wake) {
		return sleep.AddDate(0, 0, 1)
	}
	return sleep
}

// ParseQuickEntry reads "START-END [work|personal] [description]". The
// category defaults to work. An end before the start rolls to the next day.
func ParseQuickEntry(day time.Time, s string) (daydata.EntryInput, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return daydata.EntryInput{}, fmt.Errorf("empty entry")
	}

	from, to, ok := strings.Cut(fields[0], "-")
	if !ok {
		return daydata.EntryInput{}, fmt.Errorf("expected START-END, got %q", fields[0])
	}
	start, err := ParseClock(day, from)
	if err != nil {
		return daydata.EntryInput{}, err
	}
	end, err := ParseClock(day, to)
	if err != nil {
		return daydata.EntryInput{}, err
	}
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}

	in := daydata.EntryInput{
		StartTime:   start,
		EndTime:     end,
		EnergyLevel: daydata.EnergyNeutral,
		Category:    daydata.CategoryWork,
	}
	rest := fields[1:]
	if len(rest) > 0 {
		if c, err := daydata.ParseCategory(rest[0]); err == nil {
			in.Category = c
			rest = rest[1:]
		}
	}
	in.Description = strings.Join(rest, " ")
	return in, nil
}
