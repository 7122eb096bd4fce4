// Package notify surfaces short, transient messages to the user.
package notify

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gen2brain/beeep"
)

type Notifier interface {
	Notify(title, message string)
}

// Desktop raises an OS notification. Failures are logged and dropped.
type Desktop struct {
	logger *slog.Logger
}

func NewDesktop(logger *slog.Logger) *Desktop {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Desktop{logger: logger}
}

func (d *Desktop) Notify(title, message string) {
	if err := beeep.Notify(title, message, ""); err != nil {
		d.logger.Debug("desktop notification failed", "error", err, "title", title)
	}
}

// Writer prints notifications as "title: message" lines.
type Writer struct {
	W io.Writer
}

func (w Writer) Notify(title, message string) {
	fmt.Fprintf(w.W, "%s: %s\n", title, message)
}

// Multi fans a notification out to every notifier.
type Multi []Notifier

func (m Multi) Notify(title, message string) {
	for _, n := range m {
		n.Notify(title, message)
	}
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(string, string) {}
