package locator

import (
	"math"
	"sort"
	"time"

	"triagetrack/internal/core"
	"triagetrack/internal/logging"
)

// Item is anything the locator can place on a calendar date.
type Item interface {
	// Date is the item's calendar date (midnight UTC).
	Date() time.Time
	// RelevantFor reports whether the item counts toward the given date.
	// It is always at least as strict as Date() == date.
	RelevantFor(date time.Time) bool
	// Key is the stable identifier used to deduplicate across page retries.
	Key() int
}

// Fetch returns one zero-based page of a feed sorted newest first.
// An empty page means the end of the feed's history.
type Fetch[T Item] func(page int) ([]T, error)

// pageKind records how a fetched page related to the target date.
type pageKind int

const (
	pageNewer   pageKind = iota // every item newer than the target
	pageOlder                   // every item older than the target
	pageMatched                 // held items dated to the target
	pageEmpty                   // past the end of the feed
)

// Outcome is the terminal state of a scan.
type Outcome int

const (
	// Done means all of the date's items were bracketed and collected.
	Done Outcome = iota
	// Exhausted means the feed ran out of history; whatever was accumulated
	// up to that point is still returned.
	Exhausted
)

// Result is the outcome of one Collect invocation.
type Result[T Item] struct {
	Items        []T
	Outcome      Outcome
	PagesFetched int
}

// Collect gathers every item of the feed that is relevant for the target
// date, starting from the profile's page estimate. perPage must match the
// page size the fetcher requests; a shorter page marks the end of the feed.
func Collect[T Item](fetch Fetch[T], target time.Time, perPage int, profile PageProfile) (Result[T], error) {
	target = core.DateOnly(target)
	return CollectFrom(fetch, target, profile.StartPage(target, core.Today()), perPage, profile)
}

// CollectFrom is Collect with an explicit starting page. The returned item
// set does not depend on the starting page: misses adjust the cursor using an
// adaptive pages-per-day estimate until the date is bracketed.
func CollectFrom[T Item](fetch Fetch[T], target time.Time, startPage, perPage int, profile PageProfile) (Result[T], error) {
	lg := logging.For("locator").With("target", core.FormatDate(target))

	target = core.DateOnly(target)
	page := startPage
	if page < 0 {
		page = 0
	}

	// Accumulate keyed by identifier so revisiting a page never duplicates.
	collected := make(map[int]T)
	// visited classifies every page fetched this invocation. A run touching
	// the fresh edge only warrants a step back onto an unvisited page, and a
	// fully older page right behind a newer or matched one closes the scan.
	visited := make(map[int]pageKind)
	pagesPerDay := profile.baseline()
	fetched := 0
	// firstEmpty is the lowest page known to be past the end of history;
	// advances never jump into that region.
	firstEmpty := math.MaxInt

	finish := func(outcome Outcome) (Result[T], error) {
		items := make([]T, 0, len(collected))
		for _, it := range collected {
			items = append(items, it)
		}
		sort.Slice(items, func(a, b int) bool { return items[a].Key() < items[b].Key() })
		return Result[T]{Items: items, Outcome: outcome, PagesFetched: fetched}, nil
	}

	for {
		items, err := fetch(page)
		if err != nil {
			return Result[T]{}, err
		}
		fetched++
		shortPage := len(items) < perPage

		if len(items) == 0 {
			visited[page] = pageEmpty
			if len(collected) == 0 && page > 0 {
				// The estimate stepped past the end of history; bisect back.
				if page < firstEmpty {
					firstEmpty = page
				}
				lg.Debug("page decision", "page", page, "decision", "overshot end, bisecting back")
				page /= 2
				continue
			}
			lg.Debug("page decision", "page", page, "decision", "feed exhausted")
			return finish(Exhausted)
		}

		first, last := matchRun(items, target)
		if first < 0 {
			// No item on this page matches the target date.
			newest := items[0].Date()
			oldest := items[len(items)-1].Date()

			switch {
			case oldest.After(target):
				visited[page] = pageNewer
				if shortPage {
					// The feed's history ends before reaching the target.
					lg.Debug("page decision", "page", page, "decision", "history ends before target")
					return finish(Exhausted)
				}
				// Whole page is newer than the target: jump further back,
				// but never into the known-empty region.
				diff := core.DaysBetween(target, oldest)
				jump := diff * pagesPerDay
				next := page + jump
				if next >= firstEmpty {
					next = firstEmpty - 1
				}
				if next == page {
					// The last page of the feed is still newer than the
					// target, so the target predates all history.
					lg.Debug("page decision", "page", page, "decision", "history ends before target")
					return finish(Exhausted)
				}
				lg.Debug("page decision", "page", page, "decision", "advance", "days_missed", diff, "pages", next-page)
				page = next
			case newest.Before(target):
				visited[page] = pageOlder
				if k, seen := visited[page-1]; seen && k != pageOlder {
					// The page just nearer now was fully newer, or held the
					// day and its run ended on the shared boundary. Either
					// way everything for the date is already accumulated.
					lg.Debug("page decision", "page", page, "decision", "day sealed at page boundary")
					return finish(Done)
				}
				if page == 0 {
					// Nowhere left to retreat. The heuristic permanently
					// mis-estimated; report what we have rather than spin.
					lg.Warn("cannot retreat past the first page", "target", core.FormatDate(target))
					return finish(Exhausted)
				}
				// Whole page is older than the target: jump toward now.
				diff := core.DaysBetween(newest, target)
				jump := diff * pagesPerDay
				if jump >= page {
					// Clamp the retreat to one page rather than underflow.
					jump = 1
				}
				lg.Debug("page decision", "page", page, "decision", "retreat", "days_missed", diff, "pages", jump)
				page -= jump
			default:
				// The page brackets the date without containing any item for
				// it: the date simply has no items in this feed.
				lg.Debug("page decision", "page", page, "decision", "date bracketed, empty day")
				return finish(Done)
			}

			// Grow the estimate so repeated misses cannot oscillate.
			if pagesPerDay < math.MaxInt {
				pagesPerDay++
			}
			continue
		}

		visited[page] = pageMatched
		for _, it := range items {
			if it.RelevantFor(target) {
				collected[it.Key()] = it
			}
		}
		_, prevSeen := visited[page-1]

		switch {
		case first != 0 && last != len(items)-1:
			// Fully interior block: the whole day sits on this page.
			lg.Debug("page decision", "page", page, "decision", "day contained in page")
			return finish(Done)
		case first == 0 && page > 0 && !prevSeen:
			// The run touches the fresh edge and the previous page is still
			// unseen; the day may continue on it. Once a page has been
			// visited, everything newer on it was already accumulated.
			lg.Debug("page decision", "page", page, "decision", "day may continue nearer now, stepping back")
			page--
		case last != len(items)-1:
			// The oldest matching item sits inside the page.
			lg.Debug("page decision", "page", page, "decision", "reached start of day")
			return finish(Done)
		case shortPage:
			// The run touches the old edge of the feed's final page.
			lg.Debug("page decision", "page", page, "decision", "day ends with feed")
			return finish(Done)
		default:
			// The day spills over the old edge onto the next page.
			lg.Debug("page decision", "page", page, "decision", "day spans beyond page")
			page++
		}
	}
}

// matchRun returns the first and last index of items dated target, or (-1, -1)
// when the page holds none.
func matchRun[T Item](items []T, target time.Time) (int, int) {
	first, last := -1, -1
	for i, it := range items {
		if it.Date().Equal(target) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last
}
