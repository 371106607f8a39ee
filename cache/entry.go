package cache

import "github.com/hupe1980/odtree/core"

// Entry is the cached record of one search node. Bounds are tightened in
// place as the search progresses; a resolved entry's Error is the proven
// optimal error for its itemset. The soundness invariant every mutation must
// preserve: LowerBound never exceeds the true optimal error, and a resolved
// Error is exactly it.
type Entry struct {
	// Test is the best splitting attribute found so far, NoAttribute if none.
	Test int

	// Error is the best error found so far for this itemset, MaxError while
	// no subtree has been completed.
	Error float64

	// UpperBound is the bound under which Error was established. A node
	// proven optimal under a loose bound stays optimal under any looser one.
	UpperBound float64

	// LowerBound is a proven minimum achievable error for this itemset.
	LowerBound float64

	// LeafError is the error of this node when closed as a leaf.
	LeafError float64

	// Target is the majority class of the cover.
	Target int

	// Size is the cover support.
	Size int

	// Discrepancy is the discrepancy budget this node was last explored
	// under, used by anytime restarts to detect entries that must be
	// revisited with a larger budget.
	Discrepancy int

	// Optimal marks the entry as resolved: Error is proven optimal.
	Optimal bool

	// Leaf marks the entry as closed without a split.
	Leaf bool
}

// NewEntry returns an unexplored entry.
func NewEntry() Entry {
	return Entry{
		Test:       core.NoAttribute,
		Error:      core.MaxError,
		UpperBound: core.MaxError,
		LeafError:  core.MaxError,
	}
}

// ToLeaf closes the node as a leaf: its error becomes the leaf error.
func (e *Entry) ToLeaf() {
	e.Leaf = true
	e.Error = e.LeafError
}

// IsResolved reports whether the stored error is proven optimal.
func (e *Entry) IsResolved() bool { return e.Optimal }

// HasLeafInfo reports whether the leaf error and target have been computed
// for this entry. Entries created by a structural walk (depth-2 result
// caching) may exist before their cover was ever materialized.
func (e *Entry) HasLeafInfo() bool { return e.LeafError != core.MaxError || e.Leaf }
