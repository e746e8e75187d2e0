// Package store provides the bot's in-process mutable state: the bounded set
// of recently processed message IDs and the set of already-greeted senders.
//
// Both sets live for the process lifetime only. Webhook redelivery after a
// restart is treated as non-duplicate; that is a known limitation of the
// deployment, not something this package tries to mask.
package store

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Default capacities for the process-wide sets.
const (
	// DefaultRecentIDCapacity bounds the duplicate filter. The platform
	// redelivers within minutes, so a small window is enough.
	DefaultRecentIDCapacity = 1000
	// DefaultGreetedCapacity bounds the greeted-sender set.
	DefaultGreetedCapacity = 10000
)

// RecentIDs is a bounded FIFO membership set over inbound message IDs.
//
// The backing LRU cache is only ever written through Seen, never read in a
// recency-updating way, so eviction order equals insertion order.
type RecentIDs struct {
	cache *lru.Cache[string, struct{}]
}

// NewRecentIDs creates a duplicate filter with the given capacity.
func NewRecentIDs(capacity int) (*RecentIDs, error) {
	cache, err := lru.New[string, struct{}](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create recent-ID cache: %w", err)
	}
	return &RecentIDs{cache: cache}, nil
}

// Seen reports whether id was already processed, inserting it when it was
// not. Check-and-insert happens as one atomic step under the cache lock, so
// two concurrent deliveries of the same id can never both proceed. An empty
// id is never a duplicate and is not recorded.
func (r *RecentIDs) Seen(id string) bool {
	if id == "" {
		return false
	}
	seen, _ := r.cache.ContainsOrAdd(id, struct{}{})
	return seen
}

// Len returns the current number of remembered IDs.
func (r *RecentIDs) Len() int {
	return r.cache.Len()
}

// Greeted is a bounded set of sender identifiers that have already received
// the welcome message. Mutated by the dialogue handler only.
type Greeted struct {
	cache *lru.Cache[string, struct{}]
}

// NewGreeted creates a greeted-sender set with the given capacity.
func NewGreeted(capacity int) (*Greeted, error) {
	cache, err := lru.New[string, struct{}](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create greeted cache: %w", err)
	}
	return &Greeted{cache: cache}, nil
}

// Contains reports whether the sender was already welcomed.
func (g *Greeted) Contains(sender string) bool {
	return g.cache.Contains(sender)
}

// Mark records that the sender has been welcomed.
func (g *Greeted) Mark(sender string) {
	g.cache.ContainsOrAdd(sender, struct{}{})
}
