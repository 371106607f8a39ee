package cover

import "github.com/RoaringBitmap/roaring/v2"

// Snapshot is a frozen copy of a cover with the error proven for it, kept
// around to bound the error of similar covers seen later.
type Snapshot struct {
	Tids    *roaring.Bitmap
	Support int
	Error   float64
}

// Snapshot freezes the current cover.
func (c *Cover) Snapshot(err float64) *Snapshot {
	return &Snapshot{
		Tids:    c.Tids(),
		Support: c.Support(),
		Error:   err,
	}
}

// Diff returns how many transactions of the cover are missing from the
// snapshot (in) and how many of the snapshot are missing from the cover
// (out).
func (c *Cover) Diff(s *Snapshot) (in, out int) {
	tids := c.Tids()
	in = int(roaring.AndNot(tids, s.Tids).GetCardinality())
	out = int(roaring.AndNot(s.Tids, tids).GetCardinality())
	return in, out
}

// Similarity keeps the two snapshots closest to the covers being explored
// and derives a lower bound from them: removing a transaction from a solved
// cover can reduce its optimal error by at most one, so
// error(saved) - |saved \ current| never exceeds the optimal error of the
// current cover.
type Similarity struct {
	first  *Snapshot
	second *Snapshot
}

// Update offers a solved cover with its proven error as a future bound
// source. Of the two retained snapshots, the one farther from the current
// cover is replaced.
func (s *Similarity) Update(err float64, c *Cover) {
	snap := c.Snapshot(err)

	if s.first == nil {
		s.first = snap
		return
	}
	if s.second == nil {
		s.second = snap
		return
	}

	firstIn, firstOut := c.Diff(s.first)
	secondIn, secondOut := c.Diff(s.second)
	if firstIn+firstOut < secondIn+secondOut {
		s.first = snap
	} else {
		s.second = snap
	}
}

// Bound computes the similarity lower bound for the current cover. Zero when
// no snapshot yields a useful bound.
func (s *Similarity) Bound(c *Cover) float64 {
	bound := 0.0
	for _, snap := range []*Snapshot{s.first, s.second} {
		if snap == nil {
			continue
		}
		_, out := c.Diff(snap)
		if b := snap.Error - float64(out); b > bound {
			bound = b
		}
	}
	return bound
}
