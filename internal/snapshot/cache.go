package snapshot

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"triagetrack/internal/core"
	"triagetrack/internal/github"
	"triagetrack/internal/locator"
	"triagetrack/internal/logging"
	"triagetrack/internal/store"
)

// Cache resolves day snapshots, reading through the blob store and writing
// back fully resolved days. Blob keys are "<YYYY-MM-DD>-issues" and
// "<YYYY-MM-DD>-events", one immutable snapshot component per key.
type Cache struct {
	src   github.PageSource
	blobs store.Blob
	log   *log.Logger
}

// NewCache creates a snapshot cache over the given page source and store.
func NewCache(src github.PageSource, blobs store.Blob) *Cache {
	return &Cache{
		src:   src,
		blobs: blobs,
		log:   logging.For("snapshot"),
	}
}

// Day returns the snapshot for a date. Issues and events are fetched
// independently and joined before merging; an error on either side aborts the
// whole resolution without persisting anything.
func (c *Cache) Day(date time.Time) (*Day, error) {
	date = core.DateOnly(date)

	var issues []github.Issue
	var events []github.Event

	var g errgroup.Group
	g.Go(func() error {
		var err error
		issues, err = c.issuesForDate(date)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = c.eventsForDate(date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Compose(date, issues, events), nil
}

func (c *Cache) issuesForDate(date time.Time) ([]github.Issue, error) {
	key := core.FormatDate(date) + "-issues"

	var cached []github.Issue
	if ok := c.readBlob(key, &cached); ok {
		return cached, nil
	}

	fetch := func(page int) ([]github.Issue, error) {
		return c.src.IssuePage(page, core.MaxPerPage, nil, github.SortCreated, github.NewestFirst)
	}
	result, err := locator.Collect(fetch, date, core.MaxPerPage, locator.IssueProfile)
	if err != nil {
		return nil, err
	}
	c.writeBlob(key, result.Items)
	return result.Items, nil
}

func (c *Cache) eventsForDate(date time.Time) ([]github.Event, error) {
	key := core.FormatDate(date) + "-events"

	var cached []github.Event
	if ok := c.readBlob(key, &cached); ok {
		return cached, nil
	}

	fetch := func(page int) ([]github.Event, error) {
		return c.src.EventPage(page, core.MaxPerPage)
	}
	result, err := locator.Collect(fetch, date, core.MaxPerPage, locator.EventProfile)
	if err != nil {
		return nil, err
	}
	c.writeBlob(key, result.Items)
	return result.Items, nil
}

// readBlob reports whether the key resolved from cache. A missing blob is a
// miss; a present-but-unparseable blob is deleted and reported as a miss.
func (c *Cache) readBlob(key string, out interface{}) bool {
	data, err := c.blobs.Read(key)
	if errors.Is(err, store.ErrNotFound) {
		c.log.Debug("cache miss", "key", key)
		return false
	}
	if err != nil {
		c.log.Warn("cache read failed", "key", key, "err", err)
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		c.log.Warn("corrupt cache blob, deleting", "key", key, "err", err)
		if err := c.blobs.Delete(key); err != nil {
			c.log.Warn("failed to delete corrupt blob", "key", key, "err", err)
		}
		return false
	}
	c.log.Debug("cache hit", "key", key)
	return true
}

// writeBlob persists a resolved snapshot component. A failed write only means
// the next invocation recomputes; the in-process value stays usable.
func (c *Cache) writeBlob(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache encode failed", "key", key, "err", err)
		return
	}
	if err := c.blobs.Write(key, data); err != nil {
		c.log.Warn("cache write failed", "key", key, "err", err)
	}
}
