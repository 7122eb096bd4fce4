// Package deductions tracks the signed-in user's tax deductions stored in the
// backend's tax_deductions table.
package deductions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gookit/validate"

	"github.com/christopherklint97/daybook/internal/notify"
	"github.com/christopherklint97/daybook/internal/remote"
)

const Table = "tax_deductions"

const (
	TypeAnnual  = "annual"
	TypeMonthly = "monthly"
)

type Deduction struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Amount         float64   `json:"amount"`
	Category       string    `json:"category"`
	ReducesFederal bool      `json:"reduces_federal"`
	ReducesState   bool      `json:"reduces_state"`
	ReducesFICA    bool      `json:"reduces_fica"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Annualized returns the yearly amount: monthly amounts times twelve,
// annual amounts unchanged.
func (d Deduction) Annualized() float64 {
	if d.Type == TypeMonthly {
		return d.Amount * 12
	}
	return d.Amount
}

func (d Deduction) input() Input {
	return Input{
		Name:           d.Name,
		Type:           d.Type,
		Amount:         d.Amount,
		Category:       d.Category,
		ReducesFederal: d.ReducesFederal,
		ReducesState:   d.ReducesState,
		ReducesFICA:    d.ReducesFICA,
	}
}

// Input is the user-editable part of a deduction.
type Input struct {
	Name           string  `json:"name" validate:"required|maxLen:200"`
	Type           string  `json:"type" validate:"required|in:annual,monthly"`
	Amount         float64 `json:"amount" validate:"min:0"`
	Category       string  `json:"category"`
	ReducesFederal bool    `json:"reduces_federal"`
	ReducesState   bool    `json:"reduces_state"`
	ReducesFICA    bool    `json:"reduces_fica"`
}

func (in *Input) Validate() error {
	v := validate.Struct(in)
	if !v.Validate() {
		return fmt.Errorf("invalid deduction: %w", v.Errors)
	}
	return nil
}

// Patch lists the fields to change; nil fields are kept.
type Patch struct {
	Name           *string
	Type           *string
	Amount         *float64
	Category       *string
	ReducesFederal *bool
	ReducesState   *bool
	ReducesFICA    *bool
}

func (p Patch) apply(in *Input) {
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Type != nil {
		in.Type = *p.Type
	}
	if p.Amount != nil {
		in.Amount = *p.Amount
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.ReducesFederal != nil {
		in.ReducesFederal = *p.ReducesFederal
	}
	if p.ReducesState != nil {
		in.ReducesState = *p.ReducesState
	}
	if p.ReducesFICA != nil {
		in.ReducesFICA = *p.ReducesFICA
	}
}

// Totals are annualized sums split by the taxes each deduction reduces.
type Totals struct {
	Federal float64
	State   float64
	FICA    float64
	Total   float64
}

var ErrNotFound = errors.New("deduction not found")

// Service holds the user's deductions. Local state changes only after the
// backend confirms a write.
type Service struct {
	mu       sync.RWMutex
	backend  remote.Backend
	userID   string
	notifier notify.Notifier
	logger   *slog.Logger
	items    []Deduction
	now      func() time.Time
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
		now:      time.Now,
	}, nil
}

// Load replaces local state with the user's rows, oldest first.
func (s *Service) Load(ctx context.Context) error {
	var rows []Deduction
	err := s.backend.Select(ctx, Table, remote.Query{
		Filters: []remote.Filter{remote.Eq("user_id", s.userID)},
		Order:   "created_at",
	}, &rows)
	if err != nil {
		return s.fail("load", err)
	}

	s.mu.Lock()
	s.items = rows
	s.mu.Unlock()

	s.logger.Debug("loaded deductions", "count", len(rows))
	return nil
}

// List returns a copy of the current deductions.
func (s *Service) List() []Deduction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Deduction, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Service) Get(id string) (Deduction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.items {
		if d.ID == id {
			return d, true
		}
	}
	return Deduction{}, false
}

func (s *Service) Add(ctx context.Context, in Input) (Deduction, error) {
	if err := in.Validate(); err != nil {
		return Deduction{}, err
	}

	row := struct {
		UserID string `json:"user_id"`
		Input
	}{UserID: s.userID, Input: in}

	var created []Deduction
	if err := s.backend.Insert(ctx, Table, row, &created); err != nil {
		return Deduction{}, s.fail("add", err)
	}
	if len(created) == 0 {
		return Deduction{}, s.fail("add", fmt.Errorf("backend returned no row"))
	}

	s.mu.Lock()
	s.items = append(s.items, created[0])
	s.mu.Unlock()

	return created[0], nil
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (Deduction, error) {
	current, ok := s.Get(id)
	if !ok {
		return Deduction{}, fmt.Errorf("updating deduction %s: %w", id, ErrNotFound)
	}

	in := current.input()
	patch.apply(&in)
	if err := in.Validate(); err != nil {
		return Deduction{}, err
	}

	row := struct {
		Input
		UpdatedAt time.Time `json:"updated_at"`
	}{Input: in, UpdatedAt: s.now().UTC()}

	var updated []Deduction
	if err := s.backend.Update(ctx, Table, s.rowFilter(id), row, &updated); err != nil {
		return Deduction{}, s.fail("update", err)
	}
	if len(updated) == 0 {
		return Deduction{}, s.fail("update", fmt.Errorf("deduction %s: %w", id, ErrNotFound))
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = updated[0]
		}
	}
	s.mu.Unlock()

	return updated[0], nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, Table, s.rowFilter(id)); err != nil {
		return s.fail("delete", err)
	}

	s.mu.Lock()
	kept := make([]Deduction, 0, len(s.items))
	for _, d := range s.items {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	s.items = kept
	s.mu.Unlock()

	return nil
}

// Totals reduces the current list; it is recomputed on every call.
func (s *Service) Totals() Totals {
	return Sum(s.List())
}

// Sum totals annualized amounts by the taxes each deduction reduces.
func Sum(items []Deduction) Totals {
	var t Totals
	for _, d := range items {
		amount := d.Annualized()
		t.Total += amount
		if d.ReducesFederal {
			t.Federal += amount
		}
		if d.ReducesState {
			t.State += amount
		}
		if d.ReducesFICA {
			t.FICA += amount
		}
	}
	return t
}

func (s *Service) rowFilter(id string) []remote.Filter {
	return []remote.Filter{remote.Eq("id", id), remote.Eq("user_id", s.userID)}
}

func (s *Service) fail(op string, err error) error {
	s.logger.Error("deduction request failed", "op", op, "error", err)
	s.notifier.Notify("daybook", fmt.Sprintf("Could not %s deduction: %v", op, err))
	return fmt.Errorf("%s deduction: %w", op, err)
}
