// Package prefs stores small UI preferences next to the day data.
package prefs

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/christopherklint97/daybook/internal/store"
)

const (
	KeyTheme            = "theme"
	KeyQuoteIndex       = "quote-index"
	KeyAffirmationIndex = "affirmation-index"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light, dark or system)", s)
}

// Prefs reads and writes preference keys. Absent or malformed values fall
// back to defaults.
type Prefs struct {
	kv     store.KV
	logger *slog.Logger
}

func New(kv store.KV, logger *slog.Logger) *Prefs {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Prefs{kv: kv, logger: logger}
}

func (p *Prefs) Theme() Theme {
	raw, ok, err := p.kv.Get(KeyTheme)
	if err != nil {
		p.logger.Error("reading theme preference", "error", err)
		return ThemeSystem
	}
	if !ok {
		return ThemeSystem
	}
	t, err := ParseTheme(raw)
	if err != nil {
		p.logger.Warn("ignoring stored theme", "value", raw)
		return ThemeSystem
	}
	return t
}

func (p *Prefs) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	if err := p.kv.Set(KeyTheme, string(t)); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}

// Index returns the stored rotation index for key, 0 when absent or invalid.
func (p *Prefs) Index(key string) int {
	raw, ok, err := p.kv.Get(key)
	if err != nil {
		p.logger.Error("reading rotation index", "key", key, "error", err)
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		p.logger.Warn("ignoring stored rotation index", "key", key, "value", raw)
		return 0
	}
	return n
}

// NextIndex returns the current index for key modulo n and stores the one
// after it. Each key rotates independently.
func (p *Prefs) NextIndex(key string, n int) int {
	if n <= 0 {
		return 0
	}
	current := p.Index(key) % n
	if err := p.kv.Set(key, strconv.Itoa((current+1)%n)); err != nil {
		p.logger.Error("saving rotation index", "key", key, "error", err)
	}
	return current
}
