// Package remotetest provides an in-memory stand-in for the backend tables.
package remotetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/christopherklint97/daybook/internal/remote"
)

// Backend keeps rows per table as decoded JSON objects. Only the eq
// operator is understood. When Err is set every call fails with it.
type Backend struct {
	mu     sync.Mutex
	tables map[string][]map[string]any
	nextID int

	Err   error
	Calls []string
}

func New() *Backend {
	return &Backend{tables: make(map[string][]map[string]any)}
}

// Seed appends rows to table without assigning ids or timestamps.
func (b *Backend) Seed(table string, rows ...any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, r := range rows {
		m, err := toMap(r)
		if err != nil {
			return err
		}
		b.tables[table] = append(b.tables[table], m)
	}
	return nil
}

// Rows returns a copy of the rows currently stored in table.
func (b *Backend) Rows(table string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]map[string]any, len(b.tables[table]))
	copy(out, b.tables[table])
	return out
}

func (b *Backend) Select(_ context.Context, table string, q remote.Query, out any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Calls = append(b.Calls, "select "+table)
	if b.Err != nil {
		return b.Err
	}

	var rows []map[string]any
	for _, r := range b.tables[table] {
		if matches(r, q.Filters) {
			rows = append(rows, r)
		}
	}
	if q.Order != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			a, c := fmt.Sprint(rows[i][q.Order]), fmt.Sprint(rows[j][q.Order])
			if q.Desc {
				return a > c
			}
			return a < c
		})
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return convert(rows, out)
}

func (b *Backend) Insert(_ context.Context, table string, row any, out any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Calls = append(b.Calls, "insert "+table)
	if b.Err != nil {
		return b.Err
	}

	m, err := toMap(row)
	if err != nil {
		return err
	}
	if id, _ := m["id"].(string); id == "" {
		b.nextID++
		m["id"] = fmt.Sprintf("row-%d", b.nextID)
	}
	if _, ok := m["created_at"]; !ok {
		m["created_at"] = time.Now().UTC().Format(time.RFC3339Nano)
	}
	b.tables[table] = append(b.tables[table], m)

	if out == nil {
		return nil
	}
	return convert([]map[string]any{m}, out)
}

func (b *Backend) Update(_ context.Context, table string, filters []remote.Filter, patch any, out any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Calls = append(b.Calls, "update "+table)
	if b.Err != nil {
		return b.Err
	}

	p, err := toMap(patch)
	if err != nil {
		return err
	}

	var updated []map[string]any
	for i, r := range b.tables[table] {
		if !matches(r, filters) {
			continue
		}
		next := make(map[string]any, len(r)+len(p))
		for k, v := range r {
			next[k] = v
		}
		for k, v := range p {
			next[k] = v
		}
		b.tables[table][i] = next
		updated = append(updated, next)
	}

	if out == nil {
		return nil
	}
	if updated == nil {
		updated = []map[string]any{}
	}
	return convert(updated, out)
}

func (b *Backend) Delete(_ context.Context, table string, filters []remote.Filter) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Calls = append(b.Calls, "delete "+table)
	if b.Err != nil {
		return b.Err
	}

	kept := b.tables[table][:0]
	for _, r := range b.tables[table] {
		if !matches(r, filters) {
			kept = append(kept, r)
		}
	}
	b.tables[table] = kept
	return nil
}

func matches(row map[string]any, filters []remote.Filter) bool {
	for _, f := range filters {
		if f.Operator != "eq" || fmt.Sprint(row[f.Column]) != f.Value {
			return false
		}
	}
	return true
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling row: %w", err)
	}
	m := make(map[string]any)
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("row is not an object: %w", err)
	}
	return m, nil
}

func convert(rows []map[string]any, out any) error {
	if rows == nil {
		rows = []map[string]any{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
