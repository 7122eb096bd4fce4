// Package summary derives per-day statistics from a day record. Nothing here
// is cached; callers recompute after every change.
package summary

import (
	"fmt"
	"sort"
	"time"

	"github.com/christopherklint97/daybook/internal/daydata"
)

// Summary is the derived view of one day.
type Summary struct {
	WorkMinutes     int
	PersonalMinutes int

	// HasAwake is false unless both wake and sleep times are set; the
	// awake fields are zero in that case.
	HasAwake           bool
	AwakeMinutes       int
	UnaccountedMinutes int

	// OverAccounted reports tracked time exceeding the awake span, from
	// overlapping entries or entries outside the wake/sleep window.
	// UnaccountedMinutes is clamped to zero when this is set.
	OverAccounted bool
	OverMinutes   int
}

// AccountedMinutes is work plus personal time.
func (s Summary) AccountedMinutes() int {
	return s.WorkMinutes + s.PersonalMinutes
}

// Compute builds the summary for rec.
func Compute(rec daydata.DayRecord) Summary {
	var s Summary
	for _, e := range rec.Entries {
		switch e.Category {
		case daydata.CategoryWork:
			s.WorkMinutes += minutes(e.Duration())
		case daydata.CategoryPersonal:
			s.PersonalMinutes += minutes(e.Duration())
		}
	}

	if rec.WakeTime == nil || rec.SleepTime == nil {
		return s
	}

	s.HasAwake = true
	s.AwakeMinutes = minutes(rec.SleepTime.Sub(*rec.WakeTime))

	// A sleep time before the wake time is a bad record, not over-accounting.
	if s.AwakeMinutes < 0 {
		return s
	}

	diff := s.AwakeMinutes - s.AccountedMinutes()
	if diff < 0 {
		s.OverAccounted = true
		s.OverMinutes = -diff
		diff = 0
	}
	s.UnaccountedMinutes = diff

	return s
}

// CategoryMinutes sums entry minutes for one category.
func CategoryMinutes(entries []daydata.TimeEntry, c daydata.Category) int {
	total := 0
	for _, e := range entries {
		if e.Category == c {
			total += minutes(e.Duration())
		}
	}
	return total
}

// ByEnergy sums entry minutes per energy level. Entries without a level are skipped.
func ByEnergy(entries []daydata.TimeEntry) map[daydata.EnergyLevel]int {
	out := make(map[daydata.EnergyLevel]int)
	for _, e := range entries {
		if e.EnergyLevel == "" {
			continue
		}
		out[e.EnergyLevel] += minutes(e.Duration())
	}
	return out
}

// ClientMinutes is one row of a per-client breakdown.
type ClientMinutes struct {
	Client  string
	Minutes int
}

// ByClient sums work minutes per client label, largest first. Entries
// without a client are grouped under "".
func ByClient(entries []daydata.TimeEntry) []ClientMinutes {
	totals := make(map[string]int)
	for _, e := range entries {
		if e.Category != daydata.CategoryWork {
			continue
		}
		totals[e.ClientLabel()] += minutes(e.Duration())
	}

	out := make([]ClientMinutes, 0, len(totals))
	for c, m := range totals {
		out = append(out, ClientMinutes{Client: c, Minutes: m})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Client < out[j].Client
	})
	return out
}

// FormatMinutes renders minutes like "3h 0m" or "45m".
func FormatMinutes(m int) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	if h := m / 60; h > 0 {
		return fmt.Sprintf("%s%dh %dm", sign, h, m%60)
	}
	return fmt.Sprintf("%s%dm", sign, m)
}

func minutes(d time.Duration) int {
	return int(d / time.Minute)
}
