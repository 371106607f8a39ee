package search

import (
	"github.com/hupe1980/odtree/cache"
	"github.com/hupe1980/odtree/core"
)

// stopConditions decides at node entry whether a frame can return without
// expanding. The checks are ordered so that the cheapest proof wins: an
// already resolved entry, then the hard resource limits, then the structural
// leaf conditions, then the bound comparison.
type stopConditions struct{}

// check returns a stop reason for the node, or (false, StopNone) when the
// node must be expanded. It tightens the entry in place: limit and purity
// stops close the node as a leaf.
func (stopConditions) check(e *cache.Entry, support, minSupport, depth, maxDepth int, timeUp bool, upperBound float64) (bool, StopReason) {
	if e.Optimal {
		if e.UpperBound >= upperBound {
			return true, StopDone
		}
		// Proven only under a tighter bound than the one now available, so
		// the stored error may be an artifact of pruning.
		e.Optimal = false
	}

	if timeUp {
		e.ToLeaf()
		return true, StopTimeLimit
	}

	if depth == maxDepth {
		e.ToLeaf()
		e.Optimal = true
		return true, StopMaxDepth
	}

	// Any split would leave one side below the minimum support.
	if support < 2*minSupport {
		e.ToLeaf()
		e.Optimal = true
		return true, StopNotEnoughSupport
	}

	if core.FloatIsNull(e.LeafError - e.LowerBound) {
		e.ToLeaf()
		e.Optimal = true
		return true, StopPure
	}

	if e.LowerBound >= upperBound || core.FloatIsNull(upperBound) {
		return true, StopLowerBound
	}

	return false, StopNone
}

// checkLowerBound re-tests a node after its lower bound was tightened by the
// similarity computation.
func (stopConditions) checkLowerBound(e *cache.Entry, upperBound float64) (bool, StopReason) {
	if e.LowerBound >= upperBound {
		return true, StopLowerBound
	}
	if e.LeafError <= e.LowerBound {
		e.ToLeaf()
		e.Optimal = true
		return true, StopPure
	}
	return false, StopNone
}
