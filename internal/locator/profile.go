// Package locator finds the pages of a descending-sorted paged feed that
// cover a single calendar date, and collects the items on them.
package locator

import (
	"math"
	"time"

	"triagetrack/internal/core"
)

// PageProfile carries the per-feed pagination heuristics used to pick a
// starting page for a target date.
type PageProfile struct {
	// PagesPerDay is the historical average number of pages one day of items
	// occupies in the feed.
	PagesPerDay float64
	// YesterdayPage is the fixed starting page when the target date is exactly
	// one day back. Intraday timing makes the linear estimate unreliable that
	// close to the boundary.
	YesterdayPage int
}

// Feed profiles, tuned against the rust-lang/rust repository history.
var (
	// EventProfile covers the issue events feed, roughly four pages per day.
	EventProfile = PageProfile{PagesPerDay: 4, YesterdayPage: 4}
	// IssueProfile covers the issue creation feed, roughly one page per six days.
	IssueProfile = PageProfile{PagesPerDay: 1.0 / 6.0, YesterdayPage: 0}
)

// StartPage estimates which page the target date's items begin on. This is a
// best-effort starting point; Collect treats misses as routine.
func (p PageProfile) StartPage(target, today time.Time) int {
	daysAway := core.DaysBetween(target, today)
	switch {
	case daysAway <= 0:
		// Today (or a future date): the freshest page.
		return 0
	case daysAway == 1:
		return p.YesterdayPage
	default:
		return int(float64(daysAway) * p.PagesPerDay)
	}
}

// baseline is the initial adaptive pages-per-day estimate, never below one
// page so a one-day miss always moves the cursor.
func (p PageProfile) baseline() int {
	n := int(math.Round(p.PagesPerDay))
	if n < 1 {
		n = 1
	}
	return n
}
