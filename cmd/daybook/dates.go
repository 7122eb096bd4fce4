package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/tj/go-naturaldate"

	"github.com/christopherklint97/daybook/internal/daydata"
	"github.com/christopherklint97/daybook/internal/tui"
)

// parseDay resolves a day argument: a YYYY-MM-DD key, or natural language
// such as "yesterday" or "last friday". Empty means today.
func parseDay(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "today") {
		return midnight(now), nil
	}
	if t, err := daydata.ParseDateKey(s, now.Location()); err == nil {
		return t, nil
	}
	t, err := naturaldate.Parse(s, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if t.Equal(now) {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return midnight(t), nil
}

// parseTimeOn resolves a time argument on day: a wall-clock time like
// "07:30" or "3pm", or natural language such as "now" or "20 minutes ago".
func parseTimeOn(day time.Time, s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "now") {
		return now, nil
	}
	if t, err := tui.ParseClock(day, s); err == nil {
		return t, nil
	}
	t, err := naturaldate.Parse(s, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil || t.Equal(now) {
		return time.Time{}, fmt.Errorf("invalid time %q", s)
	}
	return t, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
