package advisor

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/search"
)

const (
	decisionTTL     = 10 * time.Minute
	maxCacheEntries = 1000
)

// decisionKey identifies a reproducible search request
type decisionKey struct {
	Strategy string
	Depth    int
	Seed     uint64
	Jitter   float64
	Faction  core.Faction
	Board    string
}

type decisionEntry struct {
	decision  search.Decision
	createdAt time.Time
}

// DecisionCache remembers decisions for requests whose answer cannot change:
// alpha-beta searches and explicitly seeded randomized searches.
type DecisionCache struct {
	cache map[decisionKey]*decisionEntry
	ttl   time.Duration
	mu    sync.RWMutex
}

// NewDecisionCache creates an empty cache
func NewDecisionCache(ttl time.Duration) *DecisionCache {
	if ttl <= 0 {
		ttl = decisionTTL
	}
	return &DecisionCache{
		cache: make(map[decisionKey]*decisionEntry),
		ttl:   ttl,
	}
}

// boardKey captures everything a search reads from the board
func boardKey(b *core.Board) string {
	var sb strings.Builder
	sb.WriteString(b.String())
	for i := range b.T {
		if b.T[i].IsOccupied() {
			u := b.T[i].Unit
			fmt.Fprintf(&sb, "|%d:%d:%d", i, u.ID, u.Health)
		}
	}
	fmt.Fprintf(&sb, "|next=%d", b.NextID)
	return sb.String()
}

// Check returns a cached decision for key, if still fresh
func (dc *DecisionCache) Check(key decisionKey) (search.Decision, bool) {
	dc.mu.RLock()
	defer dc.mu.RUnlock()

	entry, exists := dc.cache[key]
	if !exists || time.Since(entry.createdAt) > dc.ttl {
		return search.Decision{}, false
	}
	return entry.decision, true
}

// Store caches d under key
func (dc *DecisionCache) Store(key decisionKey, d search.Decision) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.cache[key] = &decisionEntry{
		decision:  d,
		createdAt: time.Now(),
	}

	if len(dc.cache) > maxCacheEntries {
		dc.cleanupLocked()
	}
}

// Len returns the number of cached entries, stale ones included
func (dc *DecisionCache) Len() int {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return len(dc.cache)
}

// cleanupLocked drops stale entries, then arbitrary ones until the cache fits.
// Must be called with mu held
func (dc *DecisionCache) cleanupLocked() {
	cutoff := time.Now().Add(-dc.ttl)
	for key, entry := range dc.cache {
		if entry.createdAt.Before(cutoff) {
			delete(dc.cache, key)
		}
	}
	for key := range dc.cache {
		if len(dc.cache) <= maxCacheEntries {
			break
		}
		delete(dc.cache, key)
	}
}
