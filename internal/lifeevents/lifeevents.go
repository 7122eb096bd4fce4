// Package lifeevents keeps the user's timeline of dated milestones stored in
// the backend's life_events table.
package lifeevents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gookit/validate"

	"github.com/christopherklint97/daybook/internal/notify"
	"github.com/christopherklint97/daybook/internal/remote"
)

const Table = "life_events"

// DateLayout is the wire format of event_date.
const DateLayout = "2006-01-02"

type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	EventDate string    `json:"event_date"`
	CreatedAt time.Time `json:"created_at"`
}

// Date parses EventDate in loc.
func (e Event) Date(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, e.EventDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("event %s has invalid date %q: %w", e.ID, e.EventDate, err)
	}
	return t, nil
}

type Input struct {
	Title     string `json:"title" validate:"required|maxLen:200"`
	EventDate string `json:"event_date" validate:"required|date"`
}

func (in *Input) Validate() error {
	v := validate.Struct(in)
	if !v.Validate() {
		return fmt.Errorf("invalid life event: %w", v.Errors)
	}
	if _, err := time.Parse(DateLayout, in.EventDate); err != nil {
		return fmt.Errorf("invalid life event: event_date must be YYYY-MM-DD")
	}
	return nil
}

type Patch struct {
	Title     *string
	EventDate *string
}

// YearGroup is one year of the timeline.
type YearGroup struct {
	Year   int
	Events []Event
}

var ErrNotFound = errors.New("life event not found")

// Service holds the user's events sorted by date. Local state changes only
// after the backend confirms a write.
type Service struct {
	mu       sync.RWMutex
	backend  remote.Backend
	userID   string
	notifier notify.Notifier
	logger   *slog.Logger
	items    []Event
}

func NewService(backend remote.Backend, userID string, notifier notify.Notifier, logger *slog.Logger) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user id is required — set backend.user_id in config or DAYBOOK_USER_ID")
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		backend:  backend,
		userID:   userID,
		notifier: notifier,
		logger:   logger,
	}, nil
}

func (s *Service) Load(ctx context.Context) error {
	var rows []Event
	err := s.backend.Select(ctx, Table, remote.Query{
		Filters: []remote.Filter{remote.Eq("user_id", s.userID)},
		Order:   "event_date",
	}, &rows)
	if err != nil {
		return s.fail("load", err)
	}
	sortEvents(rows)

	s.mu.Lock()
	s.items = rows
	s.mu.Unlock()

	s.logger.Debug("loaded life events", "count", len(rows))
	return nil
}

// List returns the events, earliest first.
func (s *Service) List() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Service) Get(id string) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.items {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

func (s *Service) Add(ctx context.Context, in Input) (Event, error) {
	if err := in.Validate(); err != nil {
		return Event{}, err
	}

	row := struct {
		UserID string `json:"user_id"`
		Input
	}{UserID: s.userID, Input: in}

	var created []Event
	if err := s.backend.Insert(ctx, Table, row, &created); err != nil {
		return Event{}, s.fail("add", err)
	}
	if len(created) == 0 {
		return Event{}, s.fail("add", fmt.Errorf("backend returned no row"))
	}

	s.mu.Lock()
	s.items = append(s.items, created[0])
	sortEvents(s.items)
	s.mu.Unlock()

	return created[0], nil
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (Event, error) {
	current, ok := s.Get(id)
	if !ok {
		return Event{}, fmt.Errorf("updating life event %s: %w", id, ErrNotFound)
	}

	in := Input{Title: current.Title, EventDate: current.EventDate}
	if patch.Title != nil {
		in.Title = *patch.Title
	}
	if patch.EventDate != nil {
		in.EventDate = *patch.EventDate
	}
	if err := in.Validate(); err != nil {
		return Event{}, err
	}

	var updated []Event
	if err := s.backend.Update(ctx, Table, s.rowFilter(id), in, &updated); err != nil {
		return Event{}, s.fail("update", err)
	}
	if len(updated) == 0 {
		return Event{}, s.fail("update", fmt.Errorf("life event %s: %w", id, ErrNotFound))
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = updated[0]
		}
	}
	sortEvents(s.items)
	s.mu.Unlock()

	return updated[0], nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, Table, s.rowFilter(id)); err != nil {
		return s.fail("delete", err)
	}

	s.mu.Lock()
	kept := make([]Event, 0, len(s.items))
	for _, e := range s.items {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.items = kept
	s.mu.Unlock()

	return nil
}

// ByYear groups the current events by year, earliest year first.
func (s *Service) ByYear() []YearGroup {
	var groups []YearGroup
	for _, e := range s.List() {
		year := 0
		if len(e.EventDate) >= 4 {
			year, _ = strconv.Atoi(e.EventDate[:4])
		}
		if n := len(groups); n > 0 && groups[n-1].Year == year {
			groups[n-1].Events = append(groups[n-1].Events, e)
			continue
		}
		groups = append(groups, YearGroup{Year: year, Events: []Event{e}})
	}
	return groups
}

func (s *Service) rowFilter(id string) []remote.Filter {
	return []remote.Filter{remote.Eq("id", id), remote.Eq("user_id", s.userID)}
}

func (s *Service) fail(op string, err error) error {
	s.logger.Error("life event request failed", "op", op, "error", err)
	s.notifier.Notify("daybook", fmt.Sprintf("Could not %s life event: %v", op, err))
	return fmt.Errorf("%s life event: %w", op, err)
}

// sortEvents orders by event date, then creation time.
func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].EventDate != events[j].EventDate {
			return events[i].EventDate < events[j].EventDate
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
}
