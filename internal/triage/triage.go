package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"triagetrack/internal/core"
	"triagetrack/internal/github"
)

// FactTTL is how long a cached activity fact is trusted without re-checking.
const FactTTL = 24 * time.Hour

// PagingDepthError means an issue has more comments since the yardstick than
// the single-page assumption can represent. Truncating would corrupt the
// recorded fact, so this fails loudly instead.
type PagingDepthError struct {
	Issue int
}

func (e *PagingDepthError) Error() string {
	return fmt.Sprintf("issue #%d has more than %d comments since the yardstick; deeper comment paging is unsupported", e.Issue, core.CommentPerPage)
}

// Report is the outcome of one triage resolution run.
type Report struct {
	// Untriaged lists the issues concluded to be without attention.
	Untriaged []github.Issue
	// Checked is how many issues were examined.
	Checked int
	// RateLimited marks a partial report cut short by rate limiting.
	RateLimited bool
}

// Resolver walks issue listings and decides triage status, consulting the
// fact cache before touching the remote comment endpoint.
type Resolver struct {
	src     github.PageSource
	facts   *FactCache
	limiter *rate.Limiter
	// Limit caps how many issues one run examines; zero means no cap.
	Limit int
}

// NewResolver creates a resolver. Comment fetches are paced to one every
// 500ms to stay friendly with unauthenticated rate limits.
func NewResolver(src github.PageSource, facts *FactCache) *Resolver {
	return &Resolver{
		src:     src,
		facts:   facts,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// Run resolves triage status for issues matching the label filters against
// the yardstick date: an issue is untriaged when nothing happened on it since
// before the yardstick. The fact cache is flushed before returning, on
// success and on failure alike, so progress survives a rate-limited abort.
func (r *Resolver) Run(labels []string, yardstick time.Time) (*Report, error) {
	report := &Report{}
	defer r.facts.Flush()

	for page := 0; ; page++ {
		issues, err := r.src.IssuePage(page, core.TriagePerPage, labels, github.SortComments, github.OldestFirst)
		if err != nil {
			return r.abort(report, err)
		}
		if len(issues) == 0 {
			return report, nil
		}

		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			if r.Limit > 0 && report.Checked >= r.Limit {
				return report, nil
			}
			report.Checked++

			untriaged, err := r.resolve(issue, yardstick)
			if err != nil {
				return r.abort(report, err)
			}
			if untriaged {
				report.Untriaged = append(report.Untriaged, issue)
			}
		}

		if len(issues) < core.TriagePerPage {
			return report, nil
		}
	}
}

// resolve decides one issue, fetching comments only when the cached fact is
// inconclusive.
func (r *Resolver) resolve(issue github.Issue, yardstick time.Time) (bool, error) {
	// A commentless issue needs no remote call: it is untriaged exactly when
	// it predates the yardstick.
	if issue.Comments == 0 {
		return issue.CreatedAt.Before(yardstick), nil
	}

	fact, freshness := r.facts.Get(issue.Number, FactTTL)
	switch {
	case freshness == Fresh && fact.Kind == LastCommentedOn:
		return fact.Date.Before(yardstick), nil
	case freshness == Fresh && fact.Kind == NoActivitySince && !fact.Date.After(yardstick):
		// No activity observed up to a point at or past the yardstick. This
		// is a lower bound, so it is the weakest positive signal we report.
		return true, nil
	case freshness == Stale && fact.Kind == LastCommentedOn && fact.Date.After(yardstick):
		// A comment already past the yardstick stays past it no matter what
		// happened since the fact went stale.
		return false, nil
	}

	return r.fetchAndRecord(issue, yardstick)
}

func (r *Resolver) fetchAndRecord(issue github.Issue, yardstick time.Time) (bool, error) {
	if err := r.limiter.Wait(context.Background()); err != nil {
		return false, err
	}

	comments, err := r.src.CommentPage(issue.Number, 0, core.CommentPerPage, &yardstick)
	if err != nil {
		return false, err
	}

	switch {
	case len(comments) == 0:
		r.facts.RecordNoActivity(issue.Number, yardstick)
		return true, nil
	case len(comments) < core.CommentPerPage:
		latest := comments[len(comments)-1].CreatedAt
		for _, c := range comments {
			if c.CreatedAt.After(latest) {
				latest = c.CreatedAt
			}
		}
		r.facts.RecordLastCommented(issue.Number, latest)
		return false, nil
	default:
		return false, &PagingDepthError{Issue: issue.Number}
	}
}

// abort marks the report partial when the failure was rate limiting. The
// deferred flush in Run persists whatever facts were accumulated.
func (r *Resolver) abort(report *Report, err error) (*Report, error) {
	if errors.Is(err, github.ErrRateLimited) {
		report.RateLimited = true
	}
	return report, err
}
