package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/christopherklint97/daybook/internal/daydata"
	"github.com/christopherklint97/daybook/internal/summary"
	"github.com/christopherklint97/daybook/internal/week"
)

const (
	markEntries   = "●"
	markMilestone = "◦"
)

// RenderDay formats a record's milestones, entries and summary.
func RenderDay(st Styles, day time.Time, rec daydata.DayRecord) string {
	var sb strings.Builder

	sb.WriteString(st.Title.Render(day.Format("Monday, January 2, 2006")))
	sb.WriteString("\n")

	if rec.WakeTime != nil || rec.SleepTime != nil {
		sb.WriteString(fmt.Sprintf("Wake %s  Sleep %s\n", clockOrDash(rec.WakeTime), clockOrDash(rec.SleepTime)))
	}

	if len(rec.Entries) == 0 {
		sb.WriteString(st.Dim.Render("No entries"))
		sb.WriteString("\n")
	}
	for _, e := range rec.Entries {
		sb.WriteString(renderEntry(st, e))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(RenderSummary(st, summary.Compute(rec)))
	return sb.String()
}

func renderEntry(st Styles, e daydata.TimeEntry) string {
	cat := st.Work.Render(fmt.Sprintf("%-8s", e.Category))
	if e.Category == daydata.CategoryPersonal {
		cat = st.Personal.Render(fmt.Sprintf("%-8s", e.Category))
	}

	line := fmt.Sprintf("%s–%s  %s  %-7s  %s",
		e.StartTime.Format("15:04"),
		e.EndTime.Format("15:04"),
		cat,
		summary.FormatMinutes(int(e.Duration().Minutes())),
		e.Description,
	)
	if label := e.ClientLabel(); label != "" {
		line += st.Dim.Render(" [" + label + "]")
	}
	if e.EnergyLevel != "" && e.EnergyLevel != daydata.EnergyNeutral {
		line += st.Dim.Render(" (" + string(e.EnergyLevel) + ")")
	}
	return line
}

// RenderSummary formats the derived totals. The awake lines are omitted
// unless both wake and sleep are recorded.
func RenderSummary(st Styles, s summary.Summary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Work      %s\n", summary.FormatMinutes(s.WorkMinutes)))
	sb.WriteString(fmt.Sprintf("Personal  %s\n", summary.FormatMinutes(s.PersonalMinutes)))
	if s.HasAwake {
		sb.WriteString(fmt.Sprintf("Awake     %s\n", summary.FormatMinutes(s.AwakeMinutes)))
		sb.WriteString(fmt.Sprintf("Untracked %s\n", summary.FormatMinutes(s.UnaccountedMinutes)))
		if s.OverAccounted {
			sb.WriteString(st.Warning.Render(fmt.Sprintf("Tracked time exceeds awake time by %s", summary.FormatMinutes(s.OverMinutes))))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderStrip draws the seven days of a week with indicator marks.
func RenderStrip(st Styles, indicators []week.DayIndicator, selected int, today time.Time) string {
	cells := make([]string, 0, len(indicators))
	for i, ind := range indicators {
		marks := " "
		if ind.HasEntries {
			marks = markEntries
		}
		if ind.HasWakeOrSleep {
			marks += markMilestone
		} else {
			marks += " "
		}

		cell := fmt.Sprintf("%s %2d %s", ind.Date.Format("Mon"), ind.Date.Day(), marks)
		switch {
		case i == selected:
			cell = st.Selected.Render(cell)
		case week.SameDay(ind.Date, today):
			cell = st.Today.Render(cell)
		}
		cells = append(cells, cell)
	}
	return strings.Join(cells, "  ")
}

func clockOrDash(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.Format("15:04")
}
