// Package week is date arithmetic for the seven-day navigator.
package week

import (
	"fmt"
	"strings"
	"time"

	"github.com/christopherklint97/daybook/internal/daydata"
)

// DayLookup returns the record for a date. *daydata.Store satisfies it.
type DayLookup interface {
	GetDayData(date time.Time) daydata.DayRecord
}

// DayIndicator flags what a day in the strip has recorded.
type DayIndicator struct {
	Date           time.Time
	Key            string
	HasEntries     bool
	HasWakeOrSleep bool
}

// StartOf returns midnight of the most recent firstDay on or before t.
func StartOf(t time.Time, firstDay time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(firstDay) + 7) % 7
	start := t.AddDate(0, 0, -offset)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, t.Location())
}

// Days returns the seven consecutive dates starting at start.
func Days(start time.Time) [7]time.Time {
	var days [7]time.Time
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Indicators looks up every day of the week starting at start.
func Indicators(lookup DayLookup, start time.Time) []DayIndicator {
	days := Days(start)
	out := make([]DayIndicator, 0, len(days))
	for _, d := range days {
		rec := lookup.GetDayData(d)
		out = append(out, DayIndicator{
			Date:           d,
			Key:            daydata.DateKey(d),
			HasEntries:     len(rec.Entries) > 0,
			HasWakeOrSleep: rec.WakeTime != nil || rec.SleepTime != nil,
		})
	}
	return out
}

func Next(start time.Time) time.Time {
	return start.AddDate(0, 0, 7)
}

func Prev(start time.Time) time.Time {
	return start.AddDate(0, 0, -7)
}

// Label returns the ISO week label of start, e.g. "2026-W09".
func Label(start time.Time) string {
	year, w := start.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, w)
}

// RangeLabel returns "Feb 23 – Mar 1" for the week starting at start.
func RangeLabel(start time.Time) string {
	end := start.AddDate(0, 0, 6)
	return start.Format("Jan 2") + " – " + end.Format("Jan 2")
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseWeekday accepts full or three-letter English day names.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("unknown weekday %q", s)
}
