package daydata

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/christopherklint97/daybook/internal/store"
)

// StorageKey is the KV key holding the whole date-to-record mapping.
const StorageKey = "day-tracker-data"

// Store keeps per-day records in memory and writes the full mapping back to
// the KV after every mutation.
type Store struct {
	mu     sync.Mutex
	kv     store.KV
	logger *slog.Logger
	days   Mapping
	newID  func() string
}

// New loads the mapping from kv. Missing or malformed data yields an empty
// mapping; the problem is logged, not returned.
func New(kv store.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		kv:     kv,
		logger: logger,
		newID:  uuid.NewString,
	}
	s.days = s.load()
	return s
}

// Reload discards in-memory state and reads the mapping again.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.days = s.load()
}

func (s *Store) load() Mapping {
	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		s.logger.Error("loading day data", "error", err)
		return Mapping{}
	}
	if !ok || raw == "" {
		return Mapping{}
	}

	var days Mapping
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		s.logger.Error("parsing day data, starting empty", "error", err, "bytes", len(raw))
		return Mapping{}
	}
	if days == nil {
		return Mapping{}
	}

	for key, rec := range days {
		rec.Date = key
		if rec.Entries == nil {
			rec.Entries = []TimeEntry{}
		}
		sortEntries(rec.Entries)
		days[key] = rec
	}

	s.logger.Debug("loaded day data", "days", len(days))
	return days
}

func (s *Store) persist() error {
	data, err := json.Marshal(s.days)
	if err != nil {
		s.logger.Error("marshaling day data", "error", err)
		return fmt.Errorf("marshaling day data: %w", err)
	}
	if err := s.kv.Set(StorageKey, string(data)); err != nil {
		s.logger.Error("saving day data", "error", err)
		return fmt.Errorf("saving day data: %w", err)
	}
	return nil
}

// GetDayData returns a copy of the record for date, or an empty record.
func (s *Store) GetDayData(date time.Time) DayRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.get(DateKey(date))
}

func (s *Store) get(key string) DayRecord {
	rec, ok := s.days[key]
	if !ok {
		return emptyRecord(key)
	}
	return rec.clone()
}

// Days returns the date keys that have a stored record, ascending.
func (s *Store) Days() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.days))
	for k := range s.days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a deep copy of the whole mapping.
func (s *Store) Snapshot() Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(Mapping, len(s.days))
	for k, rec := range s.days {
		out[k] = rec.clone()
	}
	return out
}

func (s *Store) SetWakeTime(date, t time.Time) error {
	return s.update(date, func(rec *DayRecord) bool {
		rec.WakeTime = &t
		return true
	})
}

func (s *Store) SetSleepTime(date, t time.Time) error {
	return s.update(date, func(rec *DayRecord) bool {
		rec.SleepTime = &t
		return true
	})
}

func (s *Store) ClearWakeTime(date time.Time) error {
	return s.update(date, func(rec *DayRecord) bool {
		changed := rec.WakeTime != nil
		rec.WakeTime = nil
		return changed
	})
}

func (s *Store) ClearSleepTime(date time.Time) error {
	return s.update(date, func(rec *DayRecord) bool {
		changed := rec.SleepTime != nil
		rec.SleepTime = nil
		return changed
	})
}

// AddEntry stores a new entry under date with a fresh id and returns it.
func (s *Store) AddEntry(date time.Time, in EntryInput) (TimeEntry, error) {
	entry := TimeEntry{
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Description:  in.Description,
		EnergyLevel:  in.EnergyLevel,
		Category:     in.Category,
		Client:       in.Client,
		CustomClient: in.CustomClient,
	}

	err := s.update(date, func(rec *DayRecord) bool {
		entry.ID = s.newID()
		rec.Entries = append(rec.Entries, entry)
		return true
	})
	return entry, err
}

// UpdateEntry applies patch to the entry with id. Unknown ids are ignored.
func (s *Store) UpdateEntry(date time.Time, id string, patch EntryPatch) error {
	return s.update(date, func(rec *DayRecord) bool {
		for i := range rec.Entries {
			if rec.Entries[i].ID == id {
				patch.apply(&rec.Entries[i])
				return true
			}
		}
		return false
	})
}

// DeleteEntry removes the entry with id. Unknown ids are ignored.
func (s *Store) DeleteEntry(date time.Time, id string) error {
	return s.update(date, func(rec *DayRecord) bool {
		kept := rec.Entries[:0]
		for _, e := range rec.Entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		changed := len(kept) != len(rec.Entries)
		rec.Entries = kept
		return changed
	})
}

// update runs fn against a copy of the record for date. When fn reports a
// change the record replaces the stored one, its entries are re-sorted and
// the mapping is persisted.
func (s *Store) update(date time.Time, fn func(rec *DayRecord) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := DateKey(date)
	rec := s.get(key)
	if !fn(&rec) {
		s.logger.Debug("day data unchanged", "date", key)
		return nil
	}
	sortEntries(rec.Entries)

	next := make(Mapping, len(s.days)+1)
	for k, v := range s.days {
		next[k] = v
	}
	next[key] = rec
	s.days = next

	return s.persist()
}

func sortEntries(entries []TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime.Before(entries[j].StartTime)
	})
}
