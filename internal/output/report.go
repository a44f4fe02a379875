// Package output renders closings and triage reports to the terminal.
package output

import (
	"fmt"
	"io"

	"triagetrack/internal/core"
	"triagetrack/internal/snapshot"
	"triagetrack/internal/triage"
)

// PrintDay writes the opened/closed breakdown for one day.
func PrintDay(w io.Writer, day *snapshot.Day) {
	fmt.Fprintf(w, "On %s\n", core.FormatDate(day.Date))

	opened := day.Opened()
	fmt.Fprintf(w, "%d opened:\n", len(opened))
	for _, i := range opened {
		fmt.Fprintf(w, "  %s\n", i)
	}

	closed := day.Closed()
	fmt.Fprintf(w, "%d closed:\n", len(closed))
	for _, i := range closed {
		fmt.Fprintf(w, "  %s\n", i)
	}
}

// PrintRange writes the per-day net change and the running total for a range
// of days.
func PrintRange(w io.Writer, days []*snapshot.Day) {
	total := 0
	fmt.Fprintln(w, "Daily changes:")
	for _, d := range days {
		diff := d.Diff()
		total += diff
		fmt.Fprintf(w, " %s: %+d\n", core.FormatDate(d.Date), diff)
	}
	fmt.Fprintf(w, "Total change: %+d\n", total)
}

// PrintTriage writes the untriaged issue count and one URL per issue.
func PrintTriage(w io.Writer, repo string, report *triage.Report) {
	fmt.Fprintf(w, "%d untriaged issues:\n", len(report.Untriaged))
	for _, i := range report.Untriaged {
		fmt.Fprintf(w, "https://github.com/%s/issues/%d\n", repo, i.Number)
	}
}
