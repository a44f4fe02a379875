// Package triage decides which issues went without attention, caching
// per-issue activity facts to keep remote comment lookups to a minimum.
package triage

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"triagetrack/internal/logging"
	"triagetrack/internal/store"
)

// factsKey is the single blob key holding the whole activity-fact map.
const factsKey = "activity-facts"

// FactKind distinguishes the two confidence levels of an activity fact.
type FactKind string

const (
	// LastCommentedOn records the exact date of the latest known comment.
	LastCommentedOn FactKind = "last_commented_on"
	// NoActivitySince records a lower bound: no activity was observed at or
	// after the date, but nothing before it was tested.
	NoActivitySince FactKind = "no_activity_since"
)

// Fact is the last known activity information for one issue.
type Fact struct {
	Kind        FactKind  `json:"kind"`
	Date        time.Time `json:"date"`
	LastChecked time.Time `json:"last_checked"`
}

// Freshness classifies a cached fact against a caller-supplied TTL.
type Freshness int

const (
	NotFound Freshness = iota
	Fresh
	Stale
)

// FactCache maps issue numbers to activity facts, persisted as one blob.
type FactCache struct {
	blobs store.Blob
	facts map[int]Fact
	now   func() time.Time
	log   *log.Logger
}

// NewFactCache loads the fact map from the store. A missing blob starts an
// empty cache; a corrupt blob is deleted and likewise treated as empty.
func NewFactCache(blobs store.Blob) *FactCache {
	c := &FactCache{
		blobs: blobs,
		facts: make(map[int]Fact),
		now:   time.Now,
		log:   logging.For("triage"),
	}

	data, err := blobs.Read(factsKey)
	if errors.Is(err, store.ErrNotFound) {
		return c
	}
	if err != nil {
		c.log.Warn("fact cache read failed", "err", err)
		return c
	}
	if err := json.Unmarshal(data, &c.facts); err != nil {
		c.log.Warn("corrupt fact cache, deleting", "err", err)
		if err := blobs.Delete(factsKey); err != nil {
			c.log.Warn("failed to delete corrupt fact cache", "err", err)
		}
		c.facts = make(map[int]Fact)
	}
	return c
}

// Get returns the cached fact for an issue and its freshness. A zero ttl
// means the fact never goes stale. Staleness does not discard the fact;
// callers decide whether a stale fact is still conclusive.
func (c *FactCache) Get(issue int, ttl time.Duration) (Fact, Freshness) {
	fact, ok := c.facts[issue]
	if !ok {
		return Fact{}, NotFound
	}
	if ttl == 0 || c.now().Sub(fact.LastChecked) < ttl {
		return fact, Fresh
	}
	return fact, Stale
}

// Insert stores a fact for an issue, overwriting any previous one.
func (c *FactCache) Insert(issue int, fact Fact) {
	c.facts[issue] = fact
}

// RecordLastCommented notes the exact date of the issue's latest comment.
func (c *FactCache) RecordLastCommented(issue int, date time.Time) {
	c.Insert(issue, Fact{Kind: LastCommentedOn, Date: date, LastChecked: c.now()})
}

// RecordNoActivity notes that no activity was observed since date.
func (c *FactCache) RecordNoActivity(issue int, date time.Time) {
	c.Insert(issue, Fact{Kind: NoActivitySince, Date: date, LastChecked: c.now()})
}

// Len returns the number of cached facts.
func (c *FactCache) Len() int {
	return len(c.facts)
}

// Flush persists the full fact map. A persistence failure is logged and
// swallowed; the in-memory facts stay usable.
func (c *FactCache) Flush() {
	data, err := json.Marshal(c.facts)
	if err != nil {
		c.log.Warn("fact cache encode failed", "err", err)
		return
	}
	if err := c.blobs.Write(factsKey, data); err != nil {
		c.log.Warn("fact cache flush failed", "err", err)
	}
}
