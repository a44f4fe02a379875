// Package snapshot assembles and caches the per-day view of issue activity.
//
// A day snapshot is the deduplicated, number-sorted set of issues opened on a
// date plus the state-changing events dated to it. Pull requests are excluded
// throughout, and when an issue and an event share a number the event's state
// wins. Snapshots are immutable once persisted.
package snapshot

import (
	"sort"
	"time"

	"triagetrack/internal/github"
)

// StateChange is the day-level state transition an item represents.
type StateChange int

const (
	Opened StateChange = iota
	Closed
)

// Item is one entry of a day snapshot: either an issue opened that day or a
// state-changing event referencing an issue.
type Item struct {
	Issue *github.Issue `json:"issue,omitempty"`
	Event *github.Event `json:"event,omitempty"`
}

// IssueRef returns the underlying issue.
func (it Item) IssueRef() github.Issue {
	if it.Event != nil {
		return it.Event.Issue
	}
	return *it.Issue
}

// Number returns the issue number the item refers to.
func (it Item) Number() int {
	return it.IssueRef().Number
}

// StateChange returns the state transition the item represents. A raw issue
// is an opening; a reopened event also counts as an opening.
func (it Item) StateChange() StateChange {
	if it.Event != nil && it.Event.Kind() == github.EventClosed {
		return Closed
	}
	return Opened
}

// Day is the snapshot of one calendar date.
type Day struct {
	Date  time.Time
	Items []Item
}

// Compose builds a day snapshot from raw issues and events. Pull requests and
// unknown event kinds are dropped, duplicates collapse with the event's state
// taking precedence, and the result is sorted by issue number.
func Compose(date time.Time, issues []github.Issue, events []github.Event) *Day {
	byNumber := make(map[int]Item)
	for i := range issues {
		if issues[i].IsPullRequest() {
			continue
		}
		byNumber[issues[i].Number] = Item{Issue: &issues[i]}
	}
	for i := range events {
		if events[i].IsPullRequest() || events[i].Kind() == github.EventUnknown {
			continue
		}
		byNumber[events[i].Key()] = Item{Event: &events[i]}
	}

	items := make([]Item, 0, len(byNumber))
	for _, it := range byNumber {
		items = append(items, it)
	}
	sort.Slice(items, func(a, b int) bool { return items[a].Number() < items[b].Number() })

	return &Day{Date: date, Items: items}
}

// Opened returns the issues opened (or reopened) on the day.
func (d *Day) Opened() []github.Issue {
	return d.filter(Opened)
}

// Closed returns the issues closed on the day.
func (d *Day) Closed() []github.Issue {
	return d.filter(Closed)
}

// Diff is the net change in open issues for the day.
func (d *Day) Diff() int {
	return len(d.Opened()) - len(d.Closed())
}

func (d *Day) filter(change StateChange) []github.Issue {
	out := make([]github.Issue, 0, len(d.Items))
	for _, it := range d.Items {
		if it.StateChange() == change {
			out = append(out, it.IssueRef())
		}
	}
	return out
}
