package github

import (
	"fmt"
	"sort"
	"time"
)

// MockSource is an in-memory PageSource suitable for deterministic unit tests.
// It serves seeded issues, events, and comments with the same sorting and
// paging semantics as the remote API, and records every request so tests can
// assert call counts.
type MockSource struct {
	Issues   []Issue
	Events   []Event
	Comments map[int][]Comment

	// FailIssuePage and FailEventPage inject an error for a zero-based page.
	FailIssuePage map[int]error
	FailEventPage map[int]error

	RequestLog []RequestEntry
}

// RequestEntry records a single request made to the mock.
type RequestEntry struct {
	Endpoint string
	Page     int
}

// NewMockSource creates an empty mock source.
func NewMockSource() *MockSource {
	return &MockSource{
		Comments:      make(map[int][]Comment),
		FailIssuePage: make(map[int]error),
		FailEventPage: make(map[int]error),
	}
}

// SeedIssues adds issues to the in-memory store.
func (m *MockSource) SeedIssues(issues ...Issue) {
	m.Issues = append(m.Issues, issues...)
}

// SeedEvents adds events to the in-memory store.
func (m *MockSource) SeedEvents(events ...Event) {
	m.Events = append(m.Events, events...)
}

// SeedComments sets the comments for an issue.
func (m *MockSource) SeedComments(issue int, comments ...Comment) {
	m.Comments[issue] = append(m.Comments[issue], comments...)
}

// Requests returns how many requests hit the given endpoint; an empty
// endpoint counts everything.
func (m *MockSource) Requests(endpoint string) int {
	if endpoint == "" {
		return len(m.RequestLog)
	}
	n := 0
	for _, e := range m.RequestLog {
		if e.Endpoint == endpoint {
			n++
		}
	}
	return n
}

// IssuePage implements PageSource.
func (m *MockSource) IssuePage(page, perPage int, labels []string, sortBy SortField, dir Direction) ([]Issue, error) {
	m.RequestLog = append(m.RequestLog, RequestEntry{Endpoint: "issues", Page: page})
	if err := m.FailIssuePage[page]; err != nil {
		return nil, err
	}

	subset := make([]Issue, 0, len(m.Issues))
	for _, i := range m.Issues {
		if i.HasLabels(labels) {
			subset = append(subset, i)
		}
	}

	sort.SliceStable(subset, func(a, b int) bool {
		var less bool
		switch sortBy {
		case SortComments:
			less = subset[a].Comments < subset[b].Comments
		default:
			less = subset[a].CreatedAt.Before(subset[b].CreatedAt)
		}
		if dir == NewestFirst {
			return !less && !equalSortKey(subset[a], subset[b], sortBy)
		}
		return less
	})

	return slicePage(subset, page, perPage), nil
}

// EventPage implements PageSource. Events are served newest first.
func (m *MockSource) EventPage(page, perPage int) ([]Event, error) {
	m.RequestLog = append(m.RequestLog, RequestEntry{Endpoint: "events", Page: page})
	if err := m.FailEventPage[page]; err != nil {
		return nil, err
	}

	subset := make([]Event, len(m.Events))
	copy(subset, m.Events)
	sort.SliceStable(subset, func(a, b int) bool {
		return subset[a].CreatedAt.After(subset[b].CreatedAt)
	})

	return slicePage(subset, page, perPage), nil
}

// CommentPage implements PageSource.
func (m *MockSource) CommentPage(issue, page, perPage int, since *time.Time) ([]Comment, error) {
	m.RequestLog = append(m.RequestLog, RequestEntry{Endpoint: fmt.Sprintf("issues/%d/comments", issue), Page: page})

	subset := make([]Comment, 0)
	for _, c := range m.Comments[issue] {
		if since == nil || !c.CreatedAt.Before(*since) {
			subset = append(subset, c)
		}
	}
	sort.SliceStable(subset, func(a, b int) bool {
		return subset[a].CreatedAt.Before(subset[b].CreatedAt)
	})

	return slicePage(subset, page, perPage), nil
}

func equalSortKey(a, b Issue, sortBy SortField) bool {
	if sortBy == SortComments {
		return a.Comments == b.Comments
	}
	return a.CreatedAt.Equal(b.CreatedAt)
}

func slicePage[T any](items []T, page, perPage int) []T {
	if page < 0 {
		page = 0
	}
	start := page * perPage
	if start >= len(items) {
		return nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
