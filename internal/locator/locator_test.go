package locator

import (
	"errors"
	"testing"
	"time"

	"triagetrack/internal/core"
)

// fakeItem is a minimal Item for synthetic feeds.
type fakeItem struct {
	id   int
	when time.Time
}

func (f fakeItem) Date() time.Time                { return core.DateOnly(f.when) }
func (f fakeItem) RelevantFor(d time.Time) bool   { return core.SameDate(f.when, d) }
func (f fakeItem) Key() int                       { return f.id }

// syntheticFeed builds a newest-first feed of days*perDay items.
// Day 0 is the newest; items within a day run from late to early.
func syntheticFeed(newest time.Time, days, perDay int) []fakeItem {
	items := make([]fakeItem, 0, days*perDay)
	id := days * perDay
	for d := 0; d < days; d++ {
		day := core.DateOnly(newest).AddDate(0, 0, -d)
		for j := 0; j < perDay; j++ {
			items = append(items, fakeItem{
				id:   id,
				when: day.Add(time.Duration(23-j) * time.Hour / 2),
			})
			id--
		}
	}
	return items
}

func pagedFetch(feed []fakeItem, perPage int) Fetch[fakeItem] {
	return func(page int) ([]fakeItem, error) {
		if page < 0 {
			page = 0
		}
		start := page * perPage
		if start >= len(feed) {
			return nil, nil
		}
		end := start + perPage
		if end > len(feed) {
			end = len(feed)
		}
		return feed[start:end], nil
	}
}

func keysOf(items []fakeItem) []int {
	keys := make([]int, len(items))
	for i, it := range items {
		keys[i] = it.Key()
	}
	return keys
}

func referenceKeys(feed []fakeItem, target time.Time) []int {
	var keys []int
	// Feed is newest first; reverse to get ascending keys.
	for i := len(feed) - 1; i >= 0; i-- {
		if core.SameDate(feed[i].when, target) {
			keys = append(keys, feed[i].id)
		}
	}
	return keys
}

func equalKeys(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// The locator's returned set must equal the reference set for every date in
// range, no matter how wrong the starting page estimate is.
func TestCollectEstimatorIndependence(t *testing.T) {
	newest, _ := core.ParseDate("2024-07-15")
	const days, perDay, perPage = 50, 20, 30
	feed := syntheticFeed(newest, days, perDay)
	if len(feed) != 1000 {
		t.Fatalf("Expected 1000 synthetic items, got %d", len(feed))
	}

	profile := PageProfile{PagesPerDay: float64(perDay) / float64(perPage)}
	lastPage := len(feed) / perPage

	for d := 0; d < days; d++ {
		target := core.DateOnly(newest).AddDate(0, 0, -d)
		want := referenceKeys(feed, target)
		if len(want) != perDay {
			t.Fatalf("Reference set for %s has %d items, want %d", core.FormatDate(target), len(want), perDay)
		}

		truePage := d * perDay / perPage
		for _, start := range []int{0, truePage, truePage + 5, 7, lastPage, 120, 10000} {
			result, err := CollectFrom(pagedFetch(feed, perPage), target, start, perPage, profile)
			if err != nil {
				t.Fatalf("Collect failed for %s from page %d: %v", core.FormatDate(target), start, err)
			}
			got := keysOf(result.Items)
			if !equalKeys(got, want) {
				t.Errorf("Wrong item set for %s from page %d: got %d items, want %d",
					core.FormatDate(target), start, len(got), len(want))
			}
		}
	}
}

// A day whose newest item sits exactly on a page's fresh edge, scanned from a
// start estimate on that same page, forces a step back followed by a miss that
// advances right back onto it. The revisit must settle the scan, not bounce.
func TestCollectRunOnPageFreshEdge(t *testing.T) {
	newest, _ := core.ParseDate("2024-07-15")
	const days, perDay, perPage = 6, 20, 30
	feed := syntheticFeed(newest, days, perDay)

	// Day 3 spans items 60-79, so its run opens page 2 (items 60-89).
	target := core.DateOnly(newest).AddDate(0, 0, -3)

	calls := 0
	fetch := func(page int) ([]fakeItem, error) {
		calls++
		if calls > 40 {
			t.Fatalf("Scan did not settle: still fetching after %d calls on a 4-page feed", calls)
		}
		return pagedFetch(feed, perPage)(page)
	}

	result, err := CollectFrom(fetch, target, 2, perPage, PageProfile{PagesPerDay: float64(perDay) / float64(perPage)})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if result.Outcome != Done {
		t.Errorf("Expected Done, got %v", result.Outcome)
	}
	if !equalKeys(keysOf(result.Items), referenceKeys(feed, target)) {
		t.Errorf("Wrong item set: got %d items, want %d", len(result.Items), perDay)
	}
}

// The mirror geometry: a day whose oldest item sits exactly on a page's old
// edge. The forward walk lands on a page of purely older items, which must
// close the scan instead of bouncing back onto the day forever.
func TestCollectRunOnPageOldEdge(t *testing.T) {
	newest, _ := core.ParseDate("2024-07-15")
	feed := syntheticFeed(newest, 3, 10)

	// Day 1 occupies page 1 exactly; page 2 is entirely day 2.
	target := core.DateOnly(newest).AddDate(0, 0, -1)

	calls := 0
	fetch := func(page int) ([]fakeItem, error) {
		calls++
		if calls > 30 {
			t.Fatalf("Scan did not settle: still fetching after %d calls on a 3-page feed", calls)
		}
		return pagedFetch(feed, 10)(page)
	}

	result, err := CollectFrom(fetch, target, 1, 10, PageProfile{PagesPerDay: 1})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if result.Outcome != Done {
		t.Errorf("Expected Done, got %v", result.Outcome)
	}
	if !equalKeys(keysOf(result.Items), referenceKeys(feed, target)) {
		t.Errorf("Wrong item set: got %d items, want 10", len(result.Items))
	}
}

func TestCollectSingleShortPage(t *testing.T) {
	target, _ := core.ParseDate("2024-07-15")
	feed := []fakeItem{
		{id: 3, when: target.Add(15 * time.Hour)},
		{id: 2, when: target.Add(10 * time.Hour)},
		{id: 1, when: target.Add(2 * time.Hour)},
	}

	result, err := CollectFrom(pagedFetch(feed, 100), target, 0, 100, PageProfile{PagesPerDay: 1})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(result.Items) != 3 {
		t.Errorf("Expected 3 items, got %d", len(result.Items))
	}
	if result.Outcome != Done {
		t.Errorf("Expected Done, got %v", result.Outcome)
	}
	if result.PagesFetched != 1 {
		t.Errorf("Expected a single fetch, got %d", result.PagesFetched)
	}
}

func TestCollectErrorAborts(t *testing.T) {
	newest, _ := core.ParseDate("2024-07-15")
	feed := syntheticFeed(newest, 10, 20)
	boom := errors.New("forbidden")

	fetch := func(page int) ([]fakeItem, error) {
		if page >= 2 {
			return nil, boom
		}
		return pagedFetch(feed, 20)(page)
	}

	// Day 2 sits on page 2; scanning toward it hits the failure.
	target := core.DateOnly(newest).AddDate(0, 0, -2)
	_, err := CollectFrom(fetch, target, 0, 20, PageProfile{PagesPerDay: 1})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected fetch error to propagate, got %v", err)
	}
}

func TestCollectEmptyDayBracketed(t *testing.T) {
	base, _ := core.ParseDate("2024-07-15")
	// Items on the 15th and the 13th, nothing on the 14th.
	feed := []fakeItem{
		{id: 4, when: base.Add(5 * time.Hour)},
		{id: 3, when: base.Add(2 * time.Hour)},
		{id: 2, when: base.AddDate(0, 0, -2).Add(20 * time.Hour)},
		{id: 1, when: base.AddDate(0, 0, -2).Add(3 * time.Hour)},
	}

	target := base.AddDate(0, 0, -1)
	result, err := CollectFrom(pagedFetch(feed, 10), target, 0, 10, PageProfile{PagesPerDay: 1})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("Expected no items for an empty day, got %d", len(result.Items))
	}
	if result.Outcome != Done {
		t.Errorf("Expected Done, got %v", result.Outcome)
	}
}

func TestCollectEmptyDayAcrossPageBoundary(t *testing.T) {
	base, _ := core.ParseDate("2024-07-15")

	// Ten items on the 15th fill page 0 exactly; page 1 is entirely the 13th.
	// The empty 14th is bracketed by the page boundary, not within one page.
	var feed []fakeItem
	for j := 0; j < 10; j++ {
		feed = append(feed, fakeItem{id: 20 - j, when: base.Add(time.Duration(20-j) * time.Hour)})
	}
	for j := 0; j < 10; j++ {
		feed = append(feed, fakeItem{id: 10 - j, when: base.AddDate(0, 0, -2).Add(time.Duration(20-j) * time.Hour)})
	}

	target := base.AddDate(0, 0, -1)

	calls := 0
	fetch := func(page int) ([]fakeItem, error) {
		calls++
		if calls > 30 {
			t.Fatalf("Scan did not settle: still fetching after %d calls on a 2-page feed", calls)
		}
		return pagedFetch(feed, 10)(page)
	}

	result, err := CollectFrom(fetch, target, 0, 10, PageProfile{PagesPerDay: 1})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("Expected no items for an empty day, got %d", len(result.Items))
	}
	if result.Outcome != Done {
		t.Errorf("Expected Done, got %v", result.Outcome)
	}
}

func TestCollectDeduplicatesAcrossRetries(t *testing.T) {
	newest, _ := core.ParseDate("2024-07-15")
	feed := syntheticFeed(newest, 6, 10)

	// Start in the middle of day 2 so the matched run touches the fresh edge
	// of the first fetched page and forces a step back.
	target := core.DateOnly(newest).AddDate(0, 0, -2)
	result, err := CollectFrom(pagedFetch(feed, 8), target, 3, 8, PageProfile{PagesPerDay: 10.0 / 8.0})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	want := referenceKeys(feed, target)
	got := keysOf(result.Items)
	if !equalKeys(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	seen := make(map[int]bool)
	for _, k := range got {
		if seen[k] {
			t.Errorf("Duplicate key %d in result", k)
		}
		seen[k] = true
	}
}
