package daydata

import (
	"fmt"
	"time"
)

// DateLayout is the layout of day keys.
const DateLayout = "2006-01-02"

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
)

type EnergyLevel string

const (
	EnergyPositive EnergyLevel = "positive"
	EnergyNeutral  EnergyLevel = "neutral"
	EnergyNegative EnergyLevel = "negative"
)

// ClientOther marks an entry whose client name lives in CustomClient.
const ClientOther = "other"

// TimeEntry is a bounded interval of tracked time.
type TimeEntry struct {
	ID           string      `json:"id"`
	StartTime    time.Time   `json:"startTime"`
	EndTime      time.Time   `json:"endTime"`
	Description  string      `json:"description"`
	EnergyLevel  EnergyLevel `json:"energyLevel"`
	Category     Category    `json:"category"`
	Client       string      `json:"client,omitempty"`
	CustomClient string      `json:"customClient,omitempty"`
}

// Duration is EndTime - StartTime. It is negative for inverted entries.
func (e TimeEntry) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// ClientLabel returns the display name of the entry's client, or "" when none is set.
func (e TimeEntry) ClientLabel() string {
	if e.Client == ClientOther && e.CustomClient != "" {
		return e.CustomClient
	}
	return e.Client
}

// DayRecord holds one calendar date's milestones and entries.
type DayRecord struct {
	Date      string      `json:"date"`
	WakeTime  *time.Time  `json:"wakeTime,omitempty"`
	SleepTime *time.Time  `json:"sleepTime,omitempty"`
	Entries   []TimeEntry `json:"entries"`
}

// Mapping is the persisted form: date key to record.
type Mapping map[string]DayRecord

// EntryInput is a TimeEntry without an id.
type EntryInput struct {
	StartTime    time.Time
	EndTime      time.Time
	Description  string
	EnergyLevel  EnergyLevel
	Category     Category
	Client       string
	CustomClient string
}

// EntryPatch carries the fields to change; nil fields are left alone.
type EntryPatch struct {
	StartTime    *time.Time
	EndTime      *time.Time
	Description  *string
	EnergyLevel  *EnergyLevel
	Category     *Category
	Client       *string
	CustomClient *string
}

func (p EntryPatch) apply(e *TimeEntry) {
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.EnergyLevel != nil {
		e.EnergyLevel = *p.EnergyLevel
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Client != nil {
		e.Client = *p.Client
	}
	if p.CustomClient != nil {
		e.CustomClient = *p.CustomClient
	}
}

// DateKey formats t as a day key in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a YYYY-MM-DD key in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", key, err)
	}
	return t, nil
}

func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryWork, CategoryPersonal:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q (want work or personal)", s)
}

func ParseEnergyLevel(s string) (EnergyLevel, error) {
	switch e := EnergyLevel(s); e {
	case EnergyPositive, EnergyNeutral, EnergyNegative:
		return e, nil
	}
	return "", fmt.Errorf("unknown energy level %q (want positive, neutral or negative)", s)
}

func emptyRecord(key string) DayRecord {
	return DayRecord{Date: key, Entries: []TimeEntry{}}
}

func (r DayRecord) clone() DayRecord {
	out := DayRecord{Date: r.Date, Entries: make([]TimeEntry, len(r.Entries))}
	copy(out.Entries, r.Entries)
	if r.WakeTime != nil {
		t := *r.WakeTime
		out.WakeTime = &t
	}
	if r.SleepTime != nil {
		t := *r.SleepTime
		out.SleepTime = &t
	}
	return out
}
