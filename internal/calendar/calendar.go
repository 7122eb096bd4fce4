package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/christopherklint97/daybook/internal/daydata"
)

// Event represents a parsed calendar event.
type Event struct {
	Summary   string
	StartTime time.Time
	EndTime   time.Time
}

// Fetch retrieves and parses iCalendar events from a URL or file path,
// returning events that overlap with the given time window. Floating times
// are interpreted in loc.
func Fetch(ctx context.Context, source string, windowStart, windowEnd time.Time, loc *time.Location) ([]Event, error) {
	var r io.ReadCloser

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching calendar: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("calendar fetch returned status %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening calendar file: %w", err)
		}
		r = f
	}
	defer r.Close()

	return Parse(r, windowStart, windowEnd, loc)
}

// Parse decodes every calendar in r and keeps events overlapping the window.
func Parse(r io.Reader, windowStart, windowEnd time.Time, loc *time.Location) ([]Event, error) {
	dec := ical.NewDecoder(r)
	var events []Event

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			start, err := event.DateTimeStart(loc)
			if err != nil {
				continue // skip malformed events
			}
			end, err := event.DateTimeEnd(loc)
			if err != nil {
				continue
			}

			if start.Before(windowEnd) && end.After(windowStart) {
				summary, _ := event.Props.Text(ical.PropSummary)
				if summary != "" {
					events = append(events, Event{
						Summary:   summary,
						StartTime: start.In(loc),
						EndTime:   end.In(loc),
					})
				}
			}
		}
	}

	return events, nil
}

// GroupByDay groups events by the day key of their start time.
func GroupByDay(events []Event) map[string][]Event {
	grouped := make(map[string][]Event)
	for _, e := range events {
		key := daydata.DateKey(e.StartTime)
		grouped[key] = append(grouped[key], e)
	}
	return grouped
}

// ToEntries converts events into entry inputs grouped by day key.
func ToEntries(events []Event, category daydata.Category) map[string][]daydata.EntryInput {
	out := make(map[string][]daydata.EntryInput)
	for day, evs := range GroupByDay(events) {
		for _, e := range evs {
			out[day] = append(out[day], toInput(e, category))
		}
	}
	return out
}

func toInput(e Event, category daydata.Category) daydata.EntryInput {
	return daydata.EntryInput{
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Description: e.Summary,
		EnergyLevel: daydata.EnergyNeutral,
		Category:    category,
	}
}

// Adder is the part of the day store an import needs.
type Adder interface {
	GetDayData(date time.Time) daydata.DayRecord
	AddEntry(date time.Time, in daydata.EntryInput) (daydata.TimeEntry, error)
}

// ImportResult counts what Import did.
type ImportResult struct {
	Added   int
	Skipped int
}

// Import adds each event as a time entry on its start day. Events already
// present (same start, end and description) are skipped, so re-running an
// import is harmless.
func Import(days Adder, events []Event, category daydata.Category) (ImportResult, error) {
	var res ImportResult
	for _, e := range events {
		if exists(days.GetDayData(e.StartTime), e) {
			res.Skipped++
			continue
		}
		if _, err := days.AddEntry(e.StartTime, toInput(e, category)); err != nil {
			return res, fmt.Errorf("importing %q: %w", e.Summary, err)
		}
		res.Added++
	}
	return res, nil
}

func exists(rec daydata.DayRecord, e Event) bool {
	for _, entry := range rec.Entries {
		if entry.Description == e.Summary && entry.StartTime.Equal(e.StartTime) && entry.EndTime.Equal(e.EndTime) {
			return true
		}
	}
	return false
}
