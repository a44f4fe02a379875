// Package github provides the remote page source for issue, event, and
// comment listings of a single repository.
package github

import (
	"fmt"
	"time"

	"triagetrack/internal/core"
)

// Actor is the user that performed an event.
type Actor struct {
	Login string `json:"login"`
}

// PullRequest marks an issue as a pull request. Only its presence matters.
type PullRequest struct {
	URL string `json:"url,omitempty"`
}

// Label is an issue label.
type Label struct {
	Name string `json:"name"`
}

// Issue is a single issue as returned by the issues listing.
type Issue struct {
	Number      int          `json:"number"`
	Title       string       `json:"title"`
	PullRequest *PullRequest `json:"pull_request,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	Comments    int          `json:"comments"`
	Labels      []Label      `json:"labels,omitempty"`
}

// HasLabels reports whether the issue carries every one of the given labels.
func (i Issue) HasLabels(labels []string) bool {
	for _, want := range labels {
		found := false
		for _, l := range i.Labels {
			if l.Name == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IsPullRequest reports whether the issue is actually a pull request.
// Pull requests are excluded from all date and triage computations.
func (i Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

// Date returns the creation date (midnight UTC).
func (i Issue) Date() time.Time {
	return core.DateOnly(i.CreatedAt)
}

// RelevantFor reports whether the issue counts toward the given date.
func (i Issue) RelevantFor(date time.Time) bool {
	return core.SameDate(i.CreatedAt, date)
}

// Key returns the issue number, the stable identifier used for deduplication.
func (i Issue) Key() int {
	return i.Number
}

func (i Issue) String() string {
	return fmt.Sprintf("#%d: %s", i.Number, i.Title)
}

// EventKind classifies issue events. Anything but closed/reopened is Unknown
// and carries no state meaning.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventClosed
	EventReopened
)

// Event is a state-transition record referencing an issue.
type Event struct {
	Actor     Actor     `json:"actor"`
	Action    string    `json:"event"`
	Issue     Issue     `json:"issue"`
	CreatedAt time.Time `json:"created_at"`
}

// Kind maps the raw event action onto the known kinds.
func (e Event) Kind() EventKind {
	switch e.Action {
	case "closed":
		return EventClosed
	case "reopened":
		return EventReopened
	default:
		return EventUnknown
	}
}

// IsPullRequest reports whether the event references a pull request.
func (e Event) IsPullRequest() bool {
	return e.Issue.IsPullRequest()
}

// Date returns the event date (midnight UTC).
func (e Event) Date() time.Time {
	return core.DateOnly(e.CreatedAt)
}

// RelevantFor reports whether the event counts toward the given date.
// Unknown event kinds are never relevant.
func (e Event) RelevantFor(date time.Time) bool {
	return e.Kind() != EventUnknown && core.SameDate(e.CreatedAt, date)
}

// Key returns the referenced issue number.
func (e Event) Key() int {
	return e.Issue.Number
}

// Comment is a single issue comment.
type Comment struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// SortField selects the listing sort order.
type SortField string

const (
	SortCreated  SortField = "created"
	SortUpdated  SortField = "updated"
	SortComments SortField = "comments"
)

// Direction selects the listing sort direction.
type Direction string

const (
	NewestFirst Direction = "desc"
	OldestFirst Direction = "asc"
)
