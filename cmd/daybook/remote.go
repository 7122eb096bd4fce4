package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/christopherklint97/daybook/internal/daydata"
	"github.com/christopherklint97/daybook/internal/deductions"
	"github.com/christopherklint97/daybook/internal/lifeevents"
)

const remoteTimeout = 30 * time.Second

var deductionsCmd = &cobra.Command{
	Use:     "deductions",
	Aliases: []string{"ded"},
	Short:   "Manage tax deductions",
}

var deductionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deductions with annualized amounts",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runDeductionsList),
}

var deductionsAddCmd = &cobra.Command{
	Use:     "add NAME AMOUNT",
	Short:   "Add a deduction",
	Example: `  daybook deductions add "Health insurance" 500 --type monthly --federal --state`,
	Args:    cobra.ExactArgs(2),
	RunE:    withEnv(runDeductionsAdd),
}

var deductionsEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change fields of a deduction",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runDeductionsEdit),
}

var deductionsRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a deduction",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runDeductionsRm),
}

var deductionsTotalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show annualized totals per tax",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runDeductionsTotals),
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage life events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List life events grouped by year",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runEventsList),
}

var eventsAddCmd = &cobra.Command{
	Use:     "add DATE TITLE...",
	Short:   "Add a life event",
	Example: `  daybook events add 2026-06-01 Moved to Stockholm`,
	Args:    cobra.MinimumNArgs(2),
	RunE:    withEnv(runEventsAdd),
}

var eventsEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a life event",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runEventsEdit),
}

var eventsRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a life event",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runEventsRm),
}

func init() {
	for _, c := range []*cobra.Command{deductionsAddCmd, deductionsEditCmd} {
		c.Flags().String("type", deductions.TypeAnnual, "annual or monthly")
		c.Flags().String("category", "", "Free-form category")
		c.Flags().Bool("federal", false, "Reduces federal tax")
		c.Flags().Bool("state", false, "Reduces state tax")
		c.Flags().Bool("fica", false, "Reduces FICA")
	}
	deductionsEditCmd.Flags().String("name", "", "New name")
	deductionsEditCmd.Flags().Float64("amount", 0, "New amount")
	deductionsCmd.AddCommand(deductionsListCmd, deductionsAddCmd, deductionsEditCmd, deductionsRmCmd, deductionsTotalsCmd)

	eventsEditCmd.Flags().String("title", "", "New title")
	eventsEditCmd.Flags().String("date", "", "New date")
	eventsCmd.AddCommand(eventsListCmd, eventsAddCmd, eventsEditCmd, eventsRmCmd)
}

func remoteContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), remoteTimeout)
}

// loadDeductions builds the service and fetches the current rows, which
// every write reconciles against.
func loadDeductions(ctx context.Context, e *env) (*deductions.Service, error) {
	svc, err := e.deductionService()
	if err != nil {
		return nil, err
	}
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func loadEvents(ctx context.Context, e *env) (*lifeevents.Service, error) {
	svc, err := e.lifeEventService()
	if err != nil {
		return nil, err
	}
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func runDeductionsList(cmd *cobra.Command, args []string, e *env) error {
	ctx, cancel := remoteContext()
	defer cancel()

	svc, err := loadDeductions(ctx, e)
	if err != nil {
		return err
	}

	items := svc.List()
	if len(items) == 0 {
		fmt.Println("No deductions yet.")
		return nil
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "Name", "Type", "Amount", "Per year", "Reduces")
	for _, d := range items {
		t.Row(d.ID, d.Name, d.Type, money(d.Amount), money(d.Annualized()), reduces(d))
	}
	fmt.Println(t.Render())
	return nil
}

func reduces(d deductions.Deduction) string {
	var taxes []string
	if d.ReducesFederal {
		taxes = append(taxes, "federal")
	}
	if d.ReducesState {
		taxes = append(taxes, "state")
	}
	if d.ReducesFICA {
		taxes = append(taxes, "fica")
	}
	return strings.Join(taxes, ", ")
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func runDeductionsAdd(cmd *cobra.Command, args []string, e *env) error {
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}
	flags := cmd.Flags()
	in := deductions.Input{Name: args[0], Amount: amount}
	in.Type, _ = flags.GetString("type")
	in.Category, _ = flags.GetString("category")
	in.ReducesFederal, _ = flags.GetBool("federal")
	in.ReducesState, _ = flags.GetBool("state")
	in.ReducesFICA, _ = flags.GetBool("fica")

	ctx, cancel := remoteContext()
	defer cancel()

	svc, err := loadDeductions(ctx, e)
	if err != nil {
		return err
	}
	d, err := svc.Add(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("Added %s (%s per year)\n", d.ID, money(d.Annualized()))
	return nil
}

func runDeductionsEdit(cmd *cobra.Command, args []string, e *env) error {
	flags := cmd.Flags()
	var patch deductions.Patch
	if flags.Changed("name") {
		s, _ := flags.GetString("name")
		patch.Name = &s
	}
	if flags.Changed("type") {
		s, _ := flags.GetString("type")
		patch.Type = &s
	}
	if flags.Changed("amount") {
		v, _ := flags.GetFloat64("amount")
		patch.Amount = &v
	}
	if flags.Changed("category") {
		s, _ := flags.GetString("category")
		patch.Category = &s
	}
	if flags.Changed("federal") {
		v, _ := flags.GetBool("federal")
		patch.ReducesFederal = &v
	}
	if flags.Changed("state") {
		v, _ := flags.GetBool("state")
		patch.ReducesState = &v
	}
	if flags.Changed("fica") {
		v, _ := flags.GetBool("fica")
		patch.ReducesFICA = &v
	}

	ctx, cancel := remoteContext()
	defer cancel()

	svc, err := loadDeductions(ctx, e)
	if err != nil {
		return err
	}
	d, err := svc.Update(ctx, args[0], patch)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s (%s per year)\n", d.ID, money(d.Annualized()))
	return nil
}

func runDeductionsRm(cmd *cobra.Command, args []string, e *env) error {
	ctx, cancel := remoteContext()
	defer cancel()

	svc, err := loadDeductions(ctx, e)
	if err != nil {
		return err
	}
	if err := svc.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func runDeductionsTotals(cmd *cobra.Command, args []string, e *env) error {
	ctx, cancel := remoteContext()
	defer cancel()

	svc, err := loadDeductions(ctx, e)
	if err != nil {
		return err
	}

	totals := svc.Totals()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Reduces", "Per year").
		Row("Federal", money(totals.Federal)).
		Row("State", money(totals.State)).
		Row("FICA", money(totals.FICA)).
		Row("All deductions", money(totals.Total))
	fmt.Println(t.Render())
	return nil
}

func runEventsList(cmd *cobra.Command, args []string, e *env) error {
	ctx, cancel := remoteContext()
	defer cancel()

	svc, err := loadEvents(ctx, e)
	if err != nil {
		return err
	}

	groups := svc.ByYear()
	if len(groups) == 0 {
		fmt.Println("No life events yet.")
		return nil
	}
	for _, g := range groups {
		fmt.Println(e.styles.Title.Render(strconv.Itoa(g.Year)))
		for _, ev := range g.Events {
			fmt.Printf("  %s  %s  %s\n", ev.EventDate, ev.Title, e.styles.Dim.Render(ev.ID))
		}
	}
	return nil
}

func eventDate(s string) (string, error) {
	d, err := parseDay(s, time.Now())
	if err != nil {
		return "", err
	}
	return daydata.DateKey(d), nil
}

func runEventsAdd(cmd *cobra.Command, args []string, e *env) error {
	date, err := eventDate(args[0])
	if err != nil {
		return err
	}
	in := lifeevents.Input{Title: strings.Join(args[1:], " "), EventDate: date}

	ctx, cancel := remoteContext()
	defer cancel()

	svc, err := loadEvents(ctx, e)
	if err != nil {
		return err
	}
	ev, err := svc.Add(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("Added %s on %s\n", ev.ID, ev.EventDate)
	return nil
}

func runEventsEdit(cmd *cobra.Command, args []string, e *env) error {
	flags := cmd.Flags()
	var patch lifeevents.Patch
	if flags.Changed("title") {
		s, _ := flags.GetString("title")
		patch.Title = &s
	}
	if flags.Changed("date") {
		s, _ := flags.GetString("date")
		date, err := eventDate(s)
		if err != nil {
			return err
		}
		patch.EventDate = &date
	}

	ctx, cancel := remoteContext()
	defer cancel()

	svc, err := loadEvents(ctx, e)
	if err != nil {
		return err
	}
	ev, err := svc.Update(ctx, args[0], patch)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s\n", ev.ID)
	return nil
}

func runEventsRm(cmd *cobra.Command, args []string, e *env) error {
	ctx, cancel := remoteContext()
	defer cancel()

	svc, err := loadEvents(ctx, e)
	if err != nil {
		return err
	}
	if err := svc.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
