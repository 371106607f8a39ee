// Package cover implements the reversible transaction cover at the heart of
// the branch-and-bound search. A cover is the subset of transactions
// consistent with the branching decisions taken from the root; branching
// intersects the cover with an attribute's indicator bit vector in place and
// logs the overwritten words, so reverting restores the exact prior bit
// pattern without recomputation.
//
// The cover keeps a shrinking active-word index: words that become zero are
// swapped past the frame's limit and skipped by every later scan, so work per
// node shrinks with cover density as the search deepens.
package cover

import (
	"math/bits"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/odtree/bitset"
	"github.com/hupe1980/odtree/core"
	"github.com/hupe1980/odtree/dataset"
)

// delta is one undo record: the previous value of a cover word.
type delta struct {
	cursor int
	prev   uint64
}

// Cover is the reversible cover over a dataset index. It is exclusively owned
// by a single search session; Branch and Revert must stay strictly nested.
type Cover struct {
	ds *dataset.Dataset

	words  []uint64 // current cover words; stale past the active limit
	index  []int    // permutation of word cursors; index[0..limit] are active
	limits []int    // per-frame active limit, root frame at limits[0]
	trail  []delta  // append-only undo log
	marks  []int    // trail length at each Branch
	path   []core.Item

	support       int
	classSupports []int
	cached        bool
}

// New creates the root cover (all transactions) over ds.
func New(ds *dataset.Dataset) *Cover {
	full := bitset.NewFull(ds.Size())
	words := make([]uint64, len(full.Words()))
	copy(words, full.Words())

	index := make([]int, len(words))
	for i := range index {
		index[i] = i
	}

	c := &Cover{
		ds:     ds,
		words:  words,
		index:  index,
		limits: []int{len(words) - 1},
		path:   make([]core.Item, 0, ds.NumAttributes()),
	}
	c.refresh()
	return c
}

// Dataset returns the underlying dataset index.
func (c *Cover) Dataset() *dataset.Dataset { return c.ds }

// NumAttributes returns the number of attributes of the dataset.
func (c *Cover) NumAttributes() int { return c.ds.NumAttributes() }

// NumClasses returns the number of class labels of the dataset.
func (c *Cover) NumClasses() int { return c.ds.NumClasses() }

// Depth returns the number of branching decisions taken from the root.
func (c *Cover) Depth() int { return len(c.path) }

// Path returns the branching decisions taken from the root, root first.
// The slice must not be mutated.
func (c *Cover) Path() []core.Item { return c.path }

func (c *Cover) limit() int { return c.limits[len(c.limits)-1] }

// Branch intersects the cover with the indicator vector of its attribute
// (or its complement for the left branch) and returns the new support.
func (c *Cover) Branch(it core.Item) int {
	attr := c.ds.Attribute(it.Attribute()).Words()
	value := it.Value()

	limit := c.limit()
	c.marks = append(c.marks, len(c.trail))

	support := 0
	numClasses := c.ds.NumClasses()
	if cap(c.classSupports) < numClasses {
		c.classSupports = make([]int, numClasses)
	}
	c.classSupports = c.classSupports[:numClasses]
	for i := range c.classSupports {
		c.classSupports[i] = 0
	}

	for i := limit; i >= 0; i-- {
		cursor := c.index[i]
		w := c.words[cursor]

		var nw uint64
		if value == 0 {
			nw = w &^ attr[cursor]
		} else {
			nw = w & attr[cursor]
		}

		if nw == 0 {
			// Swap the dead word past the limit so later scans skip it. The
			// parent's active set is unchanged: swaps only permute positions
			// within the parent's limit.
			c.index[i], c.index[limit] = c.index[limit], c.index[i]
			limit--
			continue
		}

		c.trail = append(c.trail, delta{cursor: cursor, prev: w})
		c.words[cursor] = nw
		support += bits.OnesCount64(nw)
		for class := 0; class < numClasses; class++ {
			c.classSupports[class] += bits.OnesCount64(c.ds.Class(class).Word(cursor) & nw)
		}
	}

	c.limits = append(c.limits, limit)
	c.path = append(c.path, it)
	c.support = support
	c.cached = true
	return support
}

// Revert undoes the most recent Branch, restoring the parent cover
// bit-for-bit. It pops the saved word deltas rather than recomputing any
// intersection.
func (c *Cover) Revert() {
	if len(c.path) == 0 {
		return
	}

	mark := c.marks[len(c.marks)-1]
	for i := len(c.trail) - 1; i >= mark; i-- {
		d := c.trail[i]
		c.words[d.cursor] = d.prev
	}
	c.trail = c.trail[:mark]
	c.marks = c.marks[:len(c.marks)-1]
	c.limits = c.limits[:len(c.limits)-1]
	c.path = c.path[:len(c.path)-1]
	c.cached = false
}

// Reset reverts every branching decision, restoring the root cover.
func (c *Cover) Reset() {
	for len(c.path) > 0 {
		c.Revert()
	}
}

// Support returns the number of transactions in the cover.
func (c *Cover) Support() int {
	if !c.cached {
		c.refresh()
	}
	return c.support
}

// ClassSupports returns the per-class transaction counts of the cover.
// The slice is reused across calls and must not be retained.
func (c *Cover) ClassSupports() []int {
	if !c.cached {
		c.refresh()
	}
	return c.classSupports
}

func (c *Cover) refresh() {
	numClasses := c.ds.NumClasses()
	if cap(c.classSupports) < numClasses {
		c.classSupports = make([]int, numClasses)
	}
	c.classSupports = c.classSupports[:numClasses]
	for i := range c.classSupports {
		c.classSupports[i] = 0
	}

	c.support = 0
	limit := c.limit()
	for i := 0; i <= limit; i++ {
		cursor := c.index[i]
		w := c.words[cursor]
		c.support += bits.OnesCount64(w)
		for class := 0; class < numClasses; class++ {
			c.classSupports[class] += bits.OnesCount64(c.ds.Class(class).Word(cursor) & w)
		}
	}
	c.cached = true
}

// CountIfBranch returns the support the cover would have after Branch(it),
// without mutating any state. Used to vet candidates before committing.
func (c *Cover) CountIfBranch(it core.Item) int {
	attr := c.ds.Attribute(it.Attribute()).Words()
	value := it.Value()

	support := 0
	limit := c.limit()
	for i := 0; i <= limit; i++ {
		cursor := c.index[i]
		w := c.words[cursor]
		if value == 0 {
			w &^= attr[cursor]
		} else {
			w &= attr[cursor]
		}
		support += bits.OnesCount64(w)
	}
	return support
}

// Tids returns the transaction ids in the cover as a compressed bitmap.
func (c *Cover) Tids() *roaring.Bitmap {
	tids := roaring.New()
	limit := c.limit()
	for i := 0; i <= limit; i++ {
		cursor := c.index[i]
		w := c.words[cursor]
		base := uint32(cursor * bitset.WordBits)
		for w != 0 {
			tids.Add(base + uint32(bits.TrailingZeros64(w)))
			w &= w - 1
		}
	}
	return tids
}
