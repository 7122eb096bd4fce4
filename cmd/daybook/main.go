package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/daybook/internal/config"
	"github.com/christopherklint97/daybook/internal/daydata"
	"github.com/christopherklint97/daybook/internal/deductions"
	"github.com/christopherklint97/daybook/internal/lifeevents"
	"github.com/christopherklint97/daybook/internal/notify"
	"github.com/christopherklint97/daybook/internal/prefs"
	"github.com/christopherklint97/daybook/internal/remote"
	"github.com/christopherklint97/daybook/internal/store"
	"github.com/christopherklint97/daybook/internal/tui"
	"github.com/christopherklint97/daybook/internal/week"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "daybook",
	Short:         "Track your days, deductions and life events",
	Long:          "daybook records wake and sleep times and time entries per day, summarizes where the day went, and keeps tax deductions and life events in your hosted backend.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(wakeCmd, sleepCmd, addCmd, editCmd, rmCmd, dayCmd, weekCmd, importCmd)
	rootCmd.AddCommand(deductionsCmd, eventsCmd)
	rootCmd.AddCommand(themeCmd, quoteCmd, schemaCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// env is everything a command needs, built from config.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	kv       store.KV
	days     *daydata.Store
	prefs    *prefs.Prefs
	notifier notify.Notifier
	styles   tui.Styles
	close    func() error
}

func loadEnv() (*env, error) {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	kv, closeFn, err := openKV(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened storage", "backend", cfg.Storage.Backend, "dir", cfg.Storage.DataDir)

	p := prefs.New(kv, logger)
	notifier := notify.Multi{notify.Writer{W: os.Stderr}}
	if cfg.Notifications.Enabled {
		notifier = append(notifier, notify.NewDesktop(logger))
	}

	return &env{
		cfg:      cfg,
		logger:   logger,
		kv:       kv,
		days:     daydata.New(kv, logger),
		prefs:    p,
		notifier: notifier,
		styles:   tui.NewStyles(p.Theme()),
		close:    closeFn,
	}, nil
}

func openKV(cfg *config.Config) (store.KV, func() error, error) {
	switch cfg.Storage.Backend {
	case config.StorageFile:
		if err := os.MkdirAll(cfg.Storage.DataDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("creating data directory: %w", err)
		}
		kv := store.NewFileKV(filepath.Join(cfg.Storage.DataDir, "daybook.json"))
		return kv, func() error { return nil }, nil
	default:
		db, err := store.Open(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return db, db.Close, nil
	}
}

// withEnv runs fn with a loaded env and closes it afterwards.
func withEnv(fn func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer func() {
			if err := e.close(); err != nil {
				e.logger.Error("closing storage", "error", err)
			}
		}()
		return fn(cmd, args, e)
	}
}

func (e *env) remoteClient() (*remote.Client, error) {
	if !e.cfg.Backend.Configured() {
		return nil, fmt.Errorf("backend not configured; set backend.url, backend.api_key and backend.user_id with 'daybook config set'")
	}
	b := e.cfg.Backend
	return remote.NewClient(b.URL, b.APIKey, b.AccessToken, e.logger), nil
}

func (e *env) deductionService() (*deductions.Service, error) {
	client, err := e.remoteClient()
	if err != nil {
		return nil, err
	}
	return deductions.NewService(client, e.cfg.Backend.UserID, e.notifier, e.logger)
}

func (e *env) lifeEventService() (*lifeevents.Service, error) {
	client, err := e.remoteClient()
	if err != nil {
		return nil, err
	}
	return lifeevents.NewService(client, e.cfg.Backend.UserID, e.notifier, e.logger)
}

func (e *env) firstDay() time.Weekday {
	d, err := week.ParseWeekday(e.cfg.Week.StartDay)
	if err != nil {
		e.logger.Warn("invalid week.start_day, using monday", "value", e.cfg.Week.StartDay)
		return time.Monday
	}
	return d
}
