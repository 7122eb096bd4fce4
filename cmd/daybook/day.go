package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/christopherklint97/daybook/internal/calendar"
	"github.com/christopherklint97/daybook/internal/daydata"
	"github.com/christopherklint97/daybook/internal/summary"
	"github.com/christopherklint97/daybook/internal/tui"
	"github.com/christopherklint97/daybook/internal/week"
)

var wakeCmd = &cobra.Command{
	Use:   "wake [time]",
	Short: "Record when you woke up",
	Args:  cobra.MaximumNArgs(1),
	RunE:  withEnv(runMilestone(true)),
}

var sleepCmd = &cobra.Command{
	Use:   "sleep [time]",
	Short: "Record when you went to sleep",
	Long: "Record when you went to sleep. Without --date, a sleep after midnight is filed on the previous day " +
		"when that day has a wake time and no sleep time yet. A time before the day's wake time is taken as after midnight.",
	Args: cobra.MaximumNArgs(1),
	RunE: withEnv(runMilestone(false)),
}

var addCmd = &cobra.Command{
	Use:   "add START-END [work|personal] [description...]",
	Short: "Add a time entry",
	Example: `  daybook add 09:00-12:00 work Write report
  daybook add 12:30-13:00 personal Lunch --energy positive --date yesterday`,
	Args: cobra.MinimumNArgs(1),
	RunE: withEnv(runAdd),
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change fields of a time entry",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runEdit),
}

var rmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a time entry",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runRm),
}

var dayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Show a day's entries and summary",
	Args:  cobra.MaximumNArgs(1),
	RunE:  withEnv(runDay),
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Open the interactive week view",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runWeek),
}

var importCmd = &cobra.Command{
	Use:   "import [source]",
	Short: "Import calendar events (ICS URL or file) as time entries",
	Args:  cobra.MaximumNArgs(1),
	RunE:  withEnv(runImport),
}

func init() {
	for _, c := range []*cobra.Command{wakeCmd, sleepCmd} {
		c.Flags().String("date", "", "Day to record on (default today)")
		c.Flags().Bool("clear", false, "Remove the recorded time")
	}

	addCmd.Flags().String("date", "", "Day of the entry (default today)")
	addCmd.Flags().String("energy", string(daydata.EnergyNeutral), "Energy level: positive, neutral or negative")
	addCmd.Flags().String("client", "", "Client identifier (use 'other' with --custom-client)")
	addCmd.Flags().String("custom-client", "", "Client name when --client is 'other'")

	editCmd.Flags().String("date", "", "Day of the entry (default today)")
	editCmd.Flags().String("start", "", "New start time")
	editCmd.Flags().String("end", "", "New end time")
	editCmd.Flags().String("description", "", "New description")
	editCmd.Flags().String("category", "", "New category: work or personal")
	editCmd.Flags().String("energy", "", "New energy level")
	editCmd.Flags().String("client", "", "New client identifier")
	editCmd.Flags().String("custom-client", "", "New custom client name")

	rmCmd.Flags().String("date", "", "Day of the entry (default today)")

	dayCmd.Flags().Bool("breakdown", false, "Also show minutes per energy level and client")

	importCmd.Flags().String("from", "", "First day to import (default start of this week)")
	importCmd.Flags().String("to", "", "Last day to import (default end of this week)")
	importCmd.Flags().String("category", "", "Category for imported entries (default calendar.category)")
}

func dateFlag(cmd *cobra.Command) (time.Time, error) {
	s, _ := cmd.Flags().GetString("date")
	return parseDay(s, time.Now())
}

func runMilestone(wake bool) func(*cobra.Command, []string, *env) error {
	return func(cmd *cobra.Command, args []string, e *env) error {
		label, set, unset := "Wake", e.days.SetWakeTime, e.days.ClearWakeTime
		if !wake {
			label, set, unset = "Sleep", e.days.SetSleepTime, e.days.ClearSleepTime
		}

		day, err := dateFlag(cmd)
		if err != nil {
			return err
		}
		cleared, _ := cmd.Flags().GetBool("clear")
		if !wake && !cleared && !cmd.Flags().Changed("date") {
			day = sleepDay(e.days, time.Now())
		}

		if cleared {
			if err := unset(day); err != nil {
				return fmt.Errorf("clearing %s time: %w", strings.ToLower(label), err)
			}
			fmt.Printf("%s time cleared for %s\n", label, daydata.DateKey(day))
			return nil
		}

		var arg string
		if len(args) > 0 {
			arg = args[0]
		}
		t, err := parseTimeOn(day, arg, time.Now())
		if err != nil {
			return err
		}
		if !wake {
			t = tui.ResolveSleep(e.days.GetDayData(day).WakeTime, t)
		}
		if err := set(day, t); err != nil {
			return fmt.Errorf("saving %s time: %w", strings.ToLower(label), err)
		}
		fmt.Printf("%s time set to %s on %s\n", label, t.Format("15:04"), daydata.DateKey(day))
		return nil
	}
}

// sleepDay picks the day a sleep belongs to when no --date is given. Before
// today's wake (or with none recorded yet) it is yesterday, provided
// yesterday has a wake time and no sleep time yet.
func sleepDay(days week.DayLookup, now time.Time) time.Time {
	today := midnight(now)
	rec := days.GetDayData(today)
	if rec.WakeTime != nil && !now.Before(*rec.WakeTime) {
		return today
	}
	yesterday := today.AddDate(0, 0, -1)
	prev := days.GetDayData(yesterday)
	if prev.WakeTime != nil && prev.SleepTime == nil {
		return yesterday
	}
	return today
}

func runAdd(cmd *cobra.Command, args []string, e *env) error {
	day, err := dateFlag(cmd)
	if err != nil {
		return err
	}

	in, err := tui.ParseQuickEntry(day, strings.Join(args, " "))
	if err != nil {
		return err
	}

	energy, _ := cmd.Flags().GetString("energy")
	if in.EnergyLevel, err = daydata.ParseEnergyLevel(energy); err != nil {
		return err
	}
	in.Client, _ = cmd.Flags().GetString("client")
	in.CustomClient, _ = cmd.Flags().GetString("custom-client")

	entry, err := e.days.AddEntry(day, in)
	if err != nil {
		return fmt.Errorf("saving entry: %w", err)
	}
	fmt.Printf("Added %s %s–%s (%s) %s\n",
		entry.ID,
		entry.StartTime.Format("15:04"),
		entry.EndTime.Format("15:04"),
		summary.FormatMinutes(int(entry.Duration().Minutes())),
		entry.Description,
	)
	return nil
}

func runEdit(cmd *cobra.Command, args []string, e *env) error {
	day, err := dateFlag(cmd)
	if err != nil {
		return err
	}
	id := args[0]

	if !hasEntry(e.days.GetDayData(day), id) {
		return fmt.Errorf("no entry %s on %s", id, daydata.DateKey(day))
	}

	patch, err := buildPatch(cmd, day)
	if err != nil {
		return err
	}
	if err := e.days.UpdateEntry(day, id, patch); err != nil {
		return fmt.Errorf("saving entry: %w", err)
	}
	fmt.Printf("Updated %s\n", id)
	return nil
}

func buildPatch(cmd *cobra.Command, day time.Time) (daydata.EntryPatch, error) {
	var patch daydata.EntryPatch
	flags := cmd.Flags()
	now := time.Now()

	if flags.Changed("start") {
		s, _ := flags.GetString("start")
		t, err := parseTimeOn(day, s, now)
		if err != nil {
			return patch, err
		}
		patch.StartTime = &t
	}
	if flags.Changed("end") {
		s, _ := flags.GetString("end")
		t, err := parseTimeOn(day, s, now)
		if err != nil {
			return patch, err
		}
		patch.EndTime = &t
	}
	if flags.Changed("description") {
		s, _ := flags.GetString("description")
		patch.Description = &s
	}
	if flags.Changed("category") {
		s, _ := flags.GetString("category")
		c, err := daydata.ParseCategory(s)
		if err != nil {
			return patch, err
		}
		patch.Category = &c
	}
	if flags.Changed("energy") {
		s, _ := flags.GetString("energy")
		lvl, err := daydata.ParseEnergyLevel(s)
		if err != nil {
			return patch, err
		}
		patch.EnergyLevel = &lvl
	}
	if flags.Changed("client") {
		s, _ := flags.GetString("client")
		patch.Client = &s
	}
	if flags.Changed("custom-client") {
		s, _ := flags.GetString("custom-client")
		patch.CustomClient = &s
	}
	return patch, nil
}

func runRm(cmd *cobra.Command, args []string, e *env) error {
	day, err := dateFlag(cmd)
	if err != nil {
		return err
	}
	id := args[0]
	if !hasEntry(e.days.GetDayData(day), id) {
		fmt.Printf("No entry %s on %s\n", id, daydata.DateKey(day))
		return nil
	}
	if err := e.days.DeleteEntry(day, id); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	fmt.Printf("Deleted %s\n", id)
	return nil
}

func hasEntry(rec daydata.DayRecord, id string) bool {
	for _, entry := range rec.Entries {
		if entry.ID == id {
			return true
		}
	}
	return false
}

func runDay(cmd *cobra.Command, args []string, e *env) error {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	day, err := parseDay(arg, time.Now())
	if err != nil {
		return err
	}

	rec := e.days.GetDayData(day)
	fmt.Print(tui.RenderDay(e.styles, day, rec))

	if len(rec.Entries) > 0 {
		fmt.Println(e.styles.Dim.Render("IDs:"))
		for _, entry := range rec.Entries {
			fmt.Printf("  %s  %s\n", e.styles.Dim.Render(entry.ID), entry.Description)
		}
	}

	if breakdown, _ := cmd.Flags().GetBool("breakdown"); breakdown {
		fmt.Println()
		fmt.Print(renderBreakdown(rec))
	}
	return nil
}

func renderBreakdown(rec daydata.DayRecord) string {
	var sb strings.Builder
	sb.WriteString("Energy\n")
	byEnergy := summary.ByEnergy(rec.Entries)
	for _, lvl := range []daydata.EnergyLevel{daydata.EnergyPositive, daydata.EnergyNeutral, daydata.EnergyNegative} {
		fmt.Fprintf(&sb, "  %-9s %s\n", lvl, summary.FormatMinutes(byEnergy[lvl]))
	}

	clients := summary.ByClient(rec.Entries)
	if len(clients) > 0 {
		sb.WriteString("Clients\n")
		for _, c := range clients {
			fmt.Fprintf(&sb, "  %-20s %s\n", c.Client, summary.FormatMinutes(c.Minutes))
		}
	}
	return sb.String()
}

func runWeek(cmd *cobra.Command, args []string, e *env) error {
	app := tui.NewApp(e.days, tui.Options{
		FirstDay: e.firstDay(),
		Styles:   e.styles,
		Banner:   e.prefs.NextAffirmation(),
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string, e *env) error {
	source := e.cfg.Calendar.Source
	if len(args) > 0 {
		source = args[0]
	}
	if source == "" {
		return fmt.Errorf("no calendar source; pass one or set calendar.source")
	}

	now := time.Now()
	from := week.StartOf(now, e.firstDay())
	to := from.AddDate(0, 0, 6)
	if s, _ := cmd.Flags().GetString("from"); s != "" {
		d, err := parseDay(s, now)
		if err != nil {
			return err
		}
		from = d
	}
	if s, _ := cmd.Flags().GetString("to"); s != "" {
		d, err := parseDay(s, now)
		if err != nil {
			return err
		}
		to = d
	}

	catName := e.cfg.Calendar.Category
	if s, _ := cmd.Flags().GetString("category"); s != "" {
		catName = s
	}
	category, err := daydata.ParseCategory(catName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	events, err := calendar.Fetch(ctx, source, from, to.AddDate(0, 0, 1), now.Location())
	if err != nil {
		return err
	}

	byDay := calendar.ToEntries(events, category)
	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.logger.Debug("importing day", "date", k, "events", len(byDay[k]))
	}

	res, err := calendar.Import(e.days, events, category)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d events across %d days (%d already present)\n", res.Added, len(keys), res.Skipped)
	return nil
}
