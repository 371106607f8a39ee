// Package cache stores per-itemset search results: bounds, the best split
// found so far, and whether the result is proven optimal. A node is keyed by
// the canonical sorted sequence of items branched on to reach it, so covers
// reached through different branch orderings share a single entry.
//
// Two interchangeable backends are provided: a trie over the sorted item
// sequence (shares prefixes, cheaper for deep sparse exploration) and a flat
// hashmap (simpler, better for shallow wide searches). Entries are never
// evicted; they live for the whole search session, including anytime
// restarts.
package cache

import (
	"sort"

	"github.com/hupe1980/odtree/core"
)

// Caching is the backend contract. Implementations do not need to be safe
// for concurrent use: the search owns its cache exclusively.
type Caching interface {
	// Root returns the entry of the empty itemset.
	Root() *Entry

	// GetOrCreate returns the entry for the sorted itemset, creating it on
	// first visit. The second result reports whether the entry was created
	// by this call.
	GetOrCreate(items []core.Item) (*Entry, bool)

	// Find returns the entry for the sorted itemset, or nil if the itemset
	// was never visited.
	Find(items []core.Item) *Entry

	// Len returns the number of stored entries, the root included.
	Len() int

	// Reset discards every entry and re-creates the root.
	Reset()
}

// An Itemset is a sorted set of items, maintained incrementally as the
// search branches and reverts. Keeping it sorted at all times makes every
// cache lookup canonical without re-sorting.
type Itemset struct {
	items []core.Item
}

// NewItemset returns an empty itemset with room for depth items.
func NewItemset(depth int) *Itemset {
	return &Itemset{items: make([]core.Item, 0, depth)}
}

// Insert adds it, keeping the items sorted. Inserting an existing item is a
// no-op.
func (s *Itemset) Insert(it core.Item) {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i] >= it })
	if i < len(s.items) && s.items[i] == it {
		return
	}
	s.items = append(s.items, 0)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = it
}

// Remove deletes it if present.
func (s *Itemset) Remove(it core.Item) {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i] >= it })
	if i < len(s.items) && s.items[i] == it {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

// Items returns the sorted items. The slice must not be retained across
// Insert or Remove calls.
func (s *Itemset) Items() []core.Item { return s.items }

// Len returns the number of items.
func (s *Itemset) Len() int { return len(s.items) }
